package app

import (
	"context"
	"testing"
	"time"

	"nqDrawdown/internal/domain"
	"nqDrawdown/internal/drawdown"
	"nqDrawdown/internal/matcher"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (noopLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (noopLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (noopLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

var base = time.Date(2026, 1, 12, 15, 30, 0, 0, time.UTC)

func newTestService(t *testing.T) *AnalysisService {
	t.Helper()
	m, err := matcher.New(matcher.Config{Logger: noopLogger{}})
	require.NoError(t, err)
	e, err := drawdown.NewEngine(drawdown.Config{})
	require.NoError(t, err)
	svc, err := NewAnalysisService(noopLogger{}, m, e)
	require.NoError(t, err)
	return svc
}

func order(side domain.OrderSide, price float64, qty int, createOffset time.Duration) domain.Order {
	return domain.Order{
		Account:    "PA-12345",
		Side:       side,
		CreateTime: base.Add(createOffset),
		UpdateTime: base.Add(createOffset + time.Second),
		FillPrice:  price,
		Quantity:   qty,
	}
}

func barSeries(startOffset time.Duration, lows, highs []float64) domain.PriceSeries {
	series := domain.PriceSeries{Format: domain.FormatBar}
	for i := range lows {
		series.Bars = append(series.Bars, domain.Bar{
			Timestamp: base.Add(startOffset + time.Duration(i)*time.Second),
			Low:       lows[i],
			High:      highs[i],
		})
	}
	return series
}

func TestRunLongTrade(t *testing.T) {
	svc := newTestService(t)
	orders := []domain.Order{
		order(domain.Buy, 15000, 1, 0),
		order(domain.Sell, 15010, 1, time.Minute),
	}
	series := barSeries(0, []float64{15000, 14990, 14995}, []float64{15005, 15001, 15002})

	reports, err := svc.Run(context.Background(), orders, series)
	require.NoError(t, err)
	require.Len(t, reports, 1)

	r := reports[0]
	assert.Equal(t, domain.Long, r.Direction)
	assert.Equal(t, 10.0, r.ProfitLoss)
	require.True(t, r.Drawdown.Measured)
	assert.Equal(t, 10.0, r.Drawdown.Points)
	assert.Equal(t, 200.0, r.Drawdown.Dollars)
	assert.Equal(t, 14990.0, r.Drawdown.ExtremePrice)
}

func TestRunShortTrade(t *testing.T) {
	svc := newTestService(t)
	orders := []domain.Order{
		order(domain.Sell, 20000, 2, 0),
		order(domain.Buy, 19995, 2, time.Minute),
	}
	series := barSeries(0, []float64{19990, 19985}, []float64{20010, 20005})

	reports, err := svc.Run(context.Background(), orders, series)
	require.NoError(t, err)
	require.Len(t, reports, 1)

	r := reports[0]
	assert.Equal(t, domain.Short, r.Direction)
	assert.Equal(t, 10.0, r.ProfitLoss)
	require.True(t, r.Drawdown.Measured)
	assert.Equal(t, 10.0, r.Drawdown.Points)
	assert.Equal(t, 400.0, r.Drawdown.Dollars)
	assert.Equal(t, 20010.0, r.Drawdown.ExtremePrice)
}

func TestRunWindowWithoutData(t *testing.T) {
	svc := newTestService(t)
	orders := []domain.Order{
		order(domain.Buy, 15000, 1, 0),
		order(domain.Sell, 15010, 1, time.Minute),
	}
	// All bars fall hours after the trade closed.
	series := barSeries(5*time.Hour, []float64{14000}, []float64{14010})

	reports, err := svc.Run(context.Background(), orders, series)
	require.NoError(t, err)
	require.Len(t, reports, 1)

	// The trade is kept, just without a drawdown measurement.
	assert.False(t, reports[0].Drawdown.Measured)
	assert.Equal(t, 10.0, reports[0].ProfitLoss)
}

func TestRunSkipsUnpairedOrders(t *testing.T) {
	svc := newTestService(t)
	orders := []domain.Order{
		order(domain.Buy, 15000, 1, 0),
		order(domain.Buy, 15002, 1, time.Minute),
		order(domain.Sell, 15010, 1, 2*time.Minute),
	}
	series := barSeries(time.Minute, []float64{15000, 14998}, []float64{15012, 15011})

	reports, err := svc.Run(context.Background(), orders, series)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, 15002.0, reports[0].EntryPrice)
}

func TestNewAnalysisServiceValidation(t *testing.T) {
	m, err := matcher.New(matcher.Config{Logger: noopLogger{}})
	require.NoError(t, err)
	e, err := drawdown.NewEngine(drawdown.Config{})
	require.NoError(t, err)

	_, err = NewAnalysisService(nil, m, e)
	assert.Error(t, err)
	_, err = NewAnalysisService(noopLogger{}, nil, e)
	assert.Error(t, err)
	_, err = NewAnalysisService(noopLogger{}, m, nil)
	assert.Error(t, err)
}
