package drawdown

import (
	"testing"
	"time"

	"nqDrawdown/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 1, 12, 15, 30, 0, 0, time.UTC)

func barsAt(lows, highs []float64) domain.PriceSeries {
	series := domain.PriceSeries{Format: domain.FormatBar}
	for i := range lows {
		series.Bars = append(series.Bars, domain.Bar{
			Timestamp: t0.Add(time.Duration(i) * time.Second),
			Low:       lows[i],
			High:      highs[i],
		})
	}
	return series
}

func ticksAt(prices []float64) domain.PriceSeries {
	series := domain.PriceSeries{Format: domain.FormatTick}
	for i, p := range prices {
		series.Ticks = append(series.Ticks, domain.Tick{
			Timestamp: t0.Add(time.Duration(i) * time.Second),
			Price:     p,
		})
	}
	return series
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(Config{})
	require.NoError(t, err)
	return engine
}

func TestComputeLongBars(t *testing.T) {
	engine := newTestEngine(t)
	trade := domain.Trade{
		Direction:  domain.Long,
		EntryPrice: 15000.0,
		Quantity:   1,
	}
	window := barsAt([]float64{15000.0, 14990.0, 14995.0}, []float64{15005.0, 15001.0, 15002.0})

	result, err := engine.Compute(trade, window)
	require.NoError(t, err)
	require.True(t, result.Measured)
	assert.Equal(t, 10.0, result.Points)
	assert.Equal(t, 200.0, result.Dollars)
	assert.InDelta(t, 0.0667, result.Percent, 0.0001)
	assert.Equal(t, 14990.0, result.ExtremePrice)
	assert.Equal(t, t0.Add(time.Second), result.ExtremeTime)
}

func TestComputeShortBars(t *testing.T) {
	engine := newTestEngine(t)
	trade := domain.Trade{
		Direction:  domain.Short,
		EntryPrice: 20000.0,
		Quantity:   2,
	}
	window := barsAt([]float64{19990.0, 19985.0}, []float64{20010.0, 20005.0})

	result, err := engine.Compute(trade, window)
	require.NoError(t, err)
	require.True(t, result.Measured)
	assert.Equal(t, 10.0, result.Points)
	assert.Equal(t, 400.0, result.Dollars)
	assert.Equal(t, 20010.0, result.ExtremePrice)
	assert.Equal(t, t0, result.ExtremeTime)
}

func TestComputeTicks(t *testing.T) {
	engine := newTestEngine(t)

	long := domain.Trade{Direction: domain.Long, EntryPrice: 15000.0, Quantity: 1}
	window := ticksAt([]float64{15000.0, 14997.5, 14999.0, 14998.0})
	result, err := engine.Compute(long, window)
	require.NoError(t, err)
	require.True(t, result.Measured)
	assert.Equal(t, 2.5, result.Points)
	assert.Equal(t, 14997.5, result.ExtremePrice)

	short := domain.Trade{Direction: domain.Short, EntryPrice: 15000.0, Quantity: 1}
	result, err = engine.Compute(short, window)
	require.NoError(t, err)
	require.True(t, result.Measured)
	assert.Equal(t, 0.0, result.Points)
	assert.Equal(t, 15000.0, result.ExtremePrice)
}

func TestComputeTieBreakKeepsFirst(t *testing.T) {
	engine := newTestEngine(t)
	trade := domain.Trade{Direction: domain.Long, EntryPrice: 15000.0, Quantity: 1}
	// The extreme low appears twice; the earlier bar wins.
	window := barsAt([]float64{14990.0, 14995.0, 14990.0}, []float64{15000.0, 15000.0, 15000.0})

	result, err := engine.Compute(trade, window)
	require.NoError(t, err)
	require.True(t, result.Measured)
	assert.Equal(t, 14990.0, result.ExtremePrice)
	assert.Equal(t, t0, result.ExtremeTime)
}

func TestComputeFavorableExcursionNotClamped(t *testing.T) {
	engine := newTestEngine(t)
	trade := domain.Trade{Direction: domain.Long, EntryPrice: 15000.0, Quantity: 1}
	// Price never traded below entry: drawdown is negative, not zero.
	window := barsAt([]float64{15005.0, 15010.0}, []float64{15015.0, 15020.0})

	result, err := engine.Compute(trade, window)
	require.NoError(t, err)
	require.True(t, result.Measured)
	assert.Equal(t, -5.0, result.Points)
	assert.Equal(t, -100.0, result.Dollars)
}

func TestComputeEmptyWindow(t *testing.T) {
	engine := newTestEngine(t)
	trade := domain.Trade{Direction: domain.Long, EntryPrice: 15000.0, Quantity: 1}

	result, err := engine.Compute(trade, domain.PriceSeries{Format: domain.FormatBar})
	require.NoError(t, err)
	assert.False(t, result.Measured)
	assert.Zero(t, result.Points)
	assert.Zero(t, result.Dollars)
	assert.True(t, result.ExtremeTime.IsZero())
}

func TestComputeUnknownFormat(t *testing.T) {
	engine := newTestEngine(t)
	trade := domain.Trade{Direction: domain.Long, EntryPrice: 15000.0, Quantity: 1}
	window := domain.PriceSeries{Format: "bogus", Ticks: []domain.Tick{{Timestamp: t0, Price: 1.0}}}

	_, err := engine.Compute(trade, window)
	assert.Error(t, err)
}

func TestNewEngineMultiplier(t *testing.T) {
	engine, err := NewEngine(Config{ContractMultiplier: 5.0})
	require.NoError(t, err)

	trade := domain.Trade{Direction: domain.Long, EntryPrice: 100.0, Quantity: 3}
	result, err := engine.Compute(trade, ticksAt([]float64{98.0}))
	require.NoError(t, err)
	assert.Equal(t, 2.0, result.Points)
	assert.Equal(t, 30.0, result.Dollars)

	_, err = NewEngine(Config{ContractMultiplier: -1.0})
	assert.Error(t, err)
}
