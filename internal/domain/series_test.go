package domain

import (
	"testing"
	"time"
)

func TestPriceSeriesSliceInclusive(t *testing.T) {
	base := time.Date(2026, 1, 12, 15, 30, 0, 0, time.UTC)
	series := PriceSeries{Format: FormatBar}
	for i := 0; i < 5; i++ {
		series.Bars = append(series.Bars, Bar{Timestamp: base.Add(time.Duration(i) * time.Minute)})
	}

	// Both bounds are inclusive.
	window := series.Slice(base.Add(time.Minute), base.Add(3*time.Minute))
	if window.Len() != 3 {
		t.Fatalf("Expected 3 bars in window, got %d", window.Len())
	}
	if !window.Bars[0].Timestamp.Equal(base.Add(time.Minute)) {
		t.Errorf("Expected window to start at +1m, got %v", window.Bars[0].Timestamp)
	}
	if !window.Bars[2].Timestamp.Equal(base.Add(3 * time.Minute)) {
		t.Errorf("Expected window to end at +3m, got %v", window.Bars[2].Timestamp)
	}

	// A window before all data is empty but keeps the format.
	empty := series.Slice(base.Add(-2*time.Hour), base.Add(-time.Hour))
	if empty.Len() != 0 {
		t.Errorf("Expected empty window, got %d points", empty.Len())
	}
	if empty.Format != FormatBar {
		t.Errorf("Expected format preserved on empty slice, got %q", empty.Format)
	}
}

func TestPriceSeriesSliceTicks(t *testing.T) {
	base := time.Date(2026, 1, 12, 15, 30, 0, 0, time.UTC)
	series := PriceSeries{Format: FormatTick}
	for i := 0; i < 4; i++ {
		series.Ticks = append(series.Ticks, Tick{Timestamp: base.Add(time.Duration(i) * time.Second), Price: float64(i)})
	}

	window := series.Slice(base, base.Add(time.Second))
	if window.Len() != 2 {
		t.Fatalf("Expected 2 ticks in window, got %d", window.Len())
	}
}

func TestPriceSeriesSortByTime(t *testing.T) {
	base := time.Date(2026, 1, 12, 15, 30, 0, 0, time.UTC)
	series := PriceSeries{
		Format: FormatTick,
		Ticks: []Tick{
			{Timestamp: base.Add(time.Minute), Price: 2},
			{Timestamp: base, Price: 1},
		},
	}
	series.SortByTime()
	if series.Ticks[0].Price != 1 {
		t.Errorf("Expected earliest tick first after sort, got price %f", series.Ticks[0].Price)
	}
}
