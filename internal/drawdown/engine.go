package drawdown

import (
	"fmt"
	"time"

	"nqDrawdown/internal/domain"
	"nqDrawdown/internal/ports"
)

// DefaultContractMultiplier is the currency value of one price point for one
// NQ contract.
const DefaultContractMultiplier = 20.0

// Config holds configuration for the drawdown engine.
type Config struct {
	// ContractMultiplier converts price points to currency per contract.
	// Zero selects DefaultContractMultiplier.
	ContractMultiplier float64
}

// Engine measures the maximum adverse price excursion of a trade against a
// price series window. It is stateless: Compute is a pure function of its
// inputs.
type Engine struct {
	multiplier float64
}

// NewEngine creates a drawdown engine.
func NewEngine(cfg Config) (*Engine, error) {
	multiplier := cfg.ContractMultiplier
	if multiplier == 0 {
		multiplier = DefaultContractMultiplier
	}
	if multiplier < 0 {
		return nil, fmt.Errorf("contract multiplier must be positive: %w", ports.ErrConfigurationError)
	}
	return &Engine{multiplier: multiplier}, nil
}

// Compute measures the worst excursion against the trade over the window.
//
// For a Long trade the adverse extreme is the lowest price seen (Bar.Low for
// bars, Tick.Price for ticks) and Points = entry - extreme. For a Short trade
// it is the highest price (Bar.High / Tick.Price) and Points = extreme - entry.
// Points is not clamped: a negative value means price never traded through the
// entry and the excursion was favorable. When several points share the extreme
// value, ExtremeTime is the earliest one.
//
// An empty window yields an unmeasured result, not an error: the trade is kept
// and flagged so downstream consumers can filter it.
func (e *Engine) Compute(trade domain.Trade, window domain.PriceSeries) (domain.DrawdownResult, error) {
	if window.Len() == 0 {
		return domain.DrawdownResult{}, nil
	}

	var (
		extremePrice float64
		extremeTime  time.Time
	)

	switch window.Format {
	case domain.FormatBar:
		adverse := func(b domain.Bar) float64 { return b.Low }
		if trade.Direction == domain.Short {
			adverse = func(b domain.Bar) float64 { return b.High }
		}
		extremePrice = adverse(window.Bars[0])
		extremeTime = window.Bars[0].Timestamp
		for _, b := range window.Bars[1:] {
			if worse(trade.Direction, adverse(b), extremePrice) {
				extremePrice = adverse(b)
				extremeTime = b.Timestamp
			}
		}
	case domain.FormatTick:
		extremePrice = window.Ticks[0].Price
		extremeTime = window.Ticks[0].Timestamp
		for _, tk := range window.Ticks[1:] {
			if worse(trade.Direction, tk.Price, extremePrice) {
				extremePrice = tk.Price
				extremeTime = tk.Timestamp
			}
		}
	default:
		return domain.DrawdownResult{}, fmt.Errorf("series format %q: %w", window.Format, ports.ErrUnsupportedFormat)
	}

	points := trade.EntryPrice - extremePrice
	if trade.Direction == domain.Short {
		points = extremePrice - trade.EntryPrice
	}

	return domain.DrawdownResult{
		Measured:     true,
		Points:       points,
		Dollars:      points * e.multiplier * float64(trade.Quantity),
		Percent:      points / trade.EntryPrice * 100,
		ExtremePrice: extremePrice,
		ExtremeTime:  extremeTime,
	}, nil
}

// worse reports whether candidate is strictly more adverse than current for
// the given direction. Strict comparison keeps the first point of a tie.
func worse(direction domain.TradeDirection, candidate, current float64) bool {
	if direction == domain.Short {
		return candidate > current
	}
	return candidate < current
}
