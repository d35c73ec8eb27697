package domain

import (
	"sort"
	"time"
)

// Tick is a single trade print.
type Tick struct {
	Timestamp time.Time
	Price     float64
}

// Bar is a fixed-interval OHLC aggregate. Timestamp is the bar ending time.
// Only Low and High participate in drawdown measurement; Open and Close are
// carried for completeness when the source provides them.
type Bar struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
}

// PriceSeries holds market data in exactly one of the two supported shapes.
// Format selects which slice is populated; the other stays empty for the
// lifetime of the series.
type PriceSeries struct {
	Format SeriesFormat
	Ticks  []Tick
	Bars   []Bar
}

// Len returns the number of points in the series.
func (s PriceSeries) Len() int {
	if s.Format == FormatTick {
		return len(s.Ticks)
	}
	return len(s.Bars)
}

// SortByTime sorts the series points ascending by timestamp.
func (s PriceSeries) SortByTime() {
	switch s.Format {
	case FormatTick:
		sort.Slice(s.Ticks, func(i, j int) bool {
			return s.Ticks[i].Timestamp.Before(s.Ticks[j].Timestamp)
		})
	case FormatBar:
		sort.Slice(s.Bars, func(i, j int) bool {
			return s.Bars[i].Timestamp.Before(s.Bars[j].Timestamp)
		})
	}
}

// Slice returns the sub-series with from <= timestamp <= to (both inclusive).
// The series must already be sorted ascending by timestamp.
func (s PriceSeries) Slice(from, to time.Time) PriceSeries {
	out := PriceSeries{Format: s.Format}
	switch s.Format {
	case FormatTick:
		lo := sort.Search(len(s.Ticks), func(i int) bool {
			return !s.Ticks[i].Timestamp.Before(from)
		})
		hi := sort.Search(len(s.Ticks), func(i int) bool {
			return s.Ticks[i].Timestamp.After(to)
		})
		if lo < hi {
			out.Ticks = s.Ticks[lo:hi]
		}
	case FormatBar:
		lo := sort.Search(len(s.Bars), func(i int) bool {
			return !s.Bars[i].Timestamp.Before(from)
		})
		hi := sort.Search(len(s.Bars), func(i int) bool {
			return s.Bars[i].Timestamp.After(to)
		})
		if lo < hi {
			out.Bars = s.Bars[lo:hi]
		}
	}
	return out
}
