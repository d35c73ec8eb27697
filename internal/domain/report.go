package domain

import "time"

// DrawdownResult holds the maximum adverse excursion measured for one trade.
// Measured is false when no market data fell inside the trade window; the
// numeric fields are meaningless in that case and must not be aggregated.
type DrawdownResult struct {
	Measured     bool
	Points       float64   // Adverse excursion in price points; negative if price never moved against the position
	Dollars      float64   // Points * contract multiplier * quantity
	Percent      float64   // Points / entry price * 100
	ExtremePrice float64   // Worst price reached during the trade window
	ExtremeTime  time.Time // First point in time order that reached the extreme
}

// TradeReport is the terminal artifact: a trade merged with its drawdown
// measurement. Reports are never mutated after creation.
type TradeReport struct {
	Trade
	Drawdown DrawdownResult

	// SourceFile is the report file the record was loaded from, set by the
	// aggregate analyzer for traceability. Empty on freshly computed reports.
	SourceFile string
}
