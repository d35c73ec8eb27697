package analytics

import (
	"math"
	"sort"
	"time"

	"nqDrawdown/internal/domain"
)

// DistributionStats summarizes one drawdown dimension over a set of trades.
type DistributionStats struct {
	Mean   float64
	Median float64
	Max    float64
	Min    float64
	StdDev float64
}

// DirectionMetrics breaks the drawdown figures down for one trade direction.
type DirectionMetrics struct {
	Trades       int
	MeanPoints   float64
	MedianPoints float64
	MaxPoints    float64
	MeanProfit   float64
}

// DailyMetrics aggregates per trading day (by entry date).
type DailyMetrics struct {
	Date        time.Time
	Trades      int
	MeanPoints  float64
	TotalProfit float64
}

// ReportMetrics holds aggregate statistics over a set of trade reports.
// Unmeasured trades (no market data in the window) are excluded everywhere.
type ReportMetrics struct {
	TotalTrades   int // measured trades only
	WinningTrades int
	WinRate       float64
	TotalProfit   float64 // in points
	MeanProfit    float64 // in points

	FirstEntry time.Time
	LastEntry  time.Time

	Points  DistributionStats
	Dollars DistributionStats
	Percent DistributionStats

	ByDirection map[domain.TradeDirection]DirectionMetrics
	ByDay       []DailyMetrics
}

// AnalyzeReports computes aggregate statistics over trade reports, mirroring
// what a trading analyst reads off a consolidated report sheet.
func AnalyzeReports(reports []*domain.TradeReport) *ReportMetrics {
	metrics := &ReportMetrics{
		ByDirection: make(map[domain.TradeDirection]DirectionMetrics),
	}

	measured := Measured(reports)
	if len(measured) == 0 {
		return metrics
	}

	sort.Slice(measured, func(i, j int) bool {
		return measured[i].EntryTime.Before(measured[j].EntryTime)
	})
	metrics.FirstEntry = measured[0].EntryTime
	metrics.LastEntry = measured[len(measured)-1].EntryTime

	var points, dollars, percent []float64
	byDirection := make(map[domain.TradeDirection][]*domain.TradeReport)
	byDay := make(map[time.Time][]*domain.TradeReport)

	for _, r := range measured {
		metrics.TotalTrades++
		metrics.TotalProfit += r.ProfitLoss
		if r.ProfitLoss > 0 {
			metrics.WinningTrades++
		}
		points = append(points, r.Drawdown.Points)
		dollars = append(dollars, r.Drawdown.Dollars)
		percent = append(percent, r.Drawdown.Percent)

		byDirection[r.Direction] = append(byDirection[r.Direction], r)
		day := r.EntryTime.Truncate(24 * time.Hour)
		byDay[day] = append(byDay[day], r)
	}

	metrics.WinRate = float64(metrics.WinningTrades) / float64(metrics.TotalTrades)
	metrics.MeanProfit = metrics.TotalProfit / float64(metrics.TotalTrades)
	metrics.Points = summarize(points)
	metrics.Dollars = summarize(dollars)
	metrics.Percent = summarize(percent)

	for direction, group := range byDirection {
		var pts, profit []float64
		for _, r := range group {
			pts = append(pts, r.Drawdown.Points)
			profit = append(profit, r.ProfitLoss)
		}
		stats := summarize(pts)
		metrics.ByDirection[direction] = DirectionMetrics{
			Trades:       len(group),
			MeanPoints:   stats.Mean,
			MedianPoints: stats.Median,
			MaxPoints:    stats.Max,
			MeanProfit:   mean(profit),
		}
	}

	for day, group := range byDay {
		var pts []float64
		daily := DailyMetrics{Date: day, Trades: len(group)}
		for _, r := range group {
			pts = append(pts, r.Drawdown.Points)
			daily.TotalProfit += r.ProfitLoss
		}
		daily.MeanPoints = mean(pts)
		metrics.ByDay = append(metrics.ByDay, daily)
	}
	sort.Slice(metrics.ByDay, func(i, j int) bool {
		return metrics.ByDay[i].Date.Before(metrics.ByDay[j].Date)
	})

	return metrics
}

// Measured filters out trades whose drawdown could not be computed.
func Measured(reports []*domain.TradeReport) []*domain.TradeReport {
	out := make([]*domain.TradeReport, 0, len(reports))
	for _, r := range reports {
		if r.Drawdown.Measured {
			out = append(out, r)
		}
	}
	return out
}

// WorstByDrawdown returns the n measured trades with the largest drawdown in
// points, worst first.
func WorstByDrawdown(reports []*domain.TradeReport, n int) []*domain.TradeReport {
	ranked := Measured(reports)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Drawdown.Points > ranked[j].Drawdown.Points
	})
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// BestByDrawdown returns the n measured trades with the smallest drawdown in
// points, best first.
func BestByDrawdown(reports []*domain.TradeReport, n int) []*domain.TradeReport {
	ranked := Measured(reports)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Drawdown.Points < ranked[j].Drawdown.Points
	})
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

func summarize(values []float64) DistributionStats {
	if len(values) == 0 {
		return DistributionStats{}
	}
	stats := DistributionStats{
		Mean: mean(values),
		Max:  values[0],
		Min:  values[0],
	}
	for _, v := range values {
		if v > stats.Max {
			stats.Max = v
		}
		if v < stats.Min {
			stats.Min = v
		}
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		stats.Median = (sorted[mid-1] + sorted[mid]) / 2
	} else {
		stats.Median = sorted[mid]
	}

	var variance float64
	for _, v := range values {
		variance += (v - stats.Mean) * (v - stats.Mean)
	}
	stats.StdDev = math.Sqrt(variance / float64(len(values)))

	return stats
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
