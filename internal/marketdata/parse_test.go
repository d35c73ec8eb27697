package marketdata

import (
	"testing"
	"time"

	"nqDrawdown/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeriesBars(t *testing.T) {
	header := []string{"Bar Ending Time", "Series.Open", "Series.High", "Series.Low", "Series.Close"}
	// Rows out of order on purpose; ParseSeries sorts ascending.
	records := [][]string{
		{"25/01/2026 15:30:02", "15001", "15006", "14991", "15003"},
		{"25/01/2026 15:30:01", "15000", "15005", "14990", "15001"},
	}

	series, err := ParseSeries(header, records, DateOrderAuto)
	require.NoError(t, err)
	assert.Equal(t, domain.FormatBar, series.Format)
	require.Len(t, series.Bars, 2)
	assert.Equal(t, time.Date(2026, 1, 25, 15, 30, 1, 0, time.UTC), series.Bars[0].Timestamp)
	assert.Equal(t, 14990.0, series.Bars[0].Low)
	assert.Equal(t, 15005.0, series.Bars[0].High)
	assert.Equal(t, 15000.0, series.Bars[0].Open)
	assert.Equal(t, 15001.0, series.Bars[0].Close)
}

func TestParseSeriesTicks(t *testing.T) {
	header := []string{"Rithmic Date/Time (RST)", "Trade Price"}
	records := [][]string{
		{"2026-01-12 15:30:01", "15000.25"},
		{"2026-01-12 15:30:00", "15000.50"},
	}

	series, err := ParseSeries(header, records, DateOrderAuto)
	require.NoError(t, err)
	assert.Equal(t, domain.FormatTick, series.Format)
	require.Len(t, series.Ticks, 2)
	assert.Equal(t, 15000.50, series.Ticks[0].Price)
	assert.Equal(t, 15000.25, series.Ticks[1].Price)
}

func TestParseSeriesUnsupported(t *testing.T) {
	_, err := ParseSeries([]string{"Date", "Bid"}, nil, DateOrderAuto)
	assert.Error(t, err)
}

func TestParseSeriesBadRow(t *testing.T) {
	header := []string{"Bar Ending Time", "Series.High", "Series.Low"}
	records := [][]string{
		{"25/01/2026 15:30:01", "not-a-price", "14990"},
	}
	_, err := ParseSeries(header, records, DateOrderAuto)
	assert.Error(t, err)
}
