package matcher

import (
	"context"
	"fmt"

	"nqDrawdown/internal/domain"
	"nqDrawdown/internal/ports"
)

// UnpairedPolicy controls what happens when two adjacent orders have the same
// side and therefore cannot form an open/close pair.
type UnpairedPolicy string

const (
	// SkipUnpaired advances the cursor by one and retries with the next pair.
	// The skipped order is logged but otherwise dropped. This mirrors how the
	// order logs are produced in practice, but an irregularly ordered log can
	// misalign every subsequent pairing.
	SkipUnpaired UnpairedPolicy = "skip"
	// RejectUnpaired aborts matching with an error on the first same-side pair.
	RejectUnpaired UnpairedPolicy = "reject"
)

// Config holds configuration for the trade matcher.
type Config struct {
	Policy UnpairedPolicy
	Logger ports.Logger
}

// Matcher reconstructs round-trip trades from a chronological order log.
// It assumes a single position at a time with full in/out fills: no partial
// fills, no scaling, no overlapping positions.
type Matcher struct {
	policy UnpairedPolicy
	logger ports.Logger
}

// New creates a new trade matcher.
func New(cfg Config) (*Matcher, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for matcher: %w", ports.ErrConfigurationError)
	}
	policy := cfg.Policy
	if policy == "" {
		policy = SkipUnpaired
	}
	if policy != SkipUnpaired && policy != RejectUnpaired {
		return nil, fmt.Errorf("unknown unpaired policy %q: %w", policy, ports.ErrConfigurationError)
	}
	return &Matcher{policy: policy, logger: cfg.Logger}, nil
}

// Match scans the order sequence with a forward cursor over adjacent pairs.
// Within each pair the earlier create time is the entry order regardless of
// physical position; Buy then Sell forms a Long trade, Sell then Buy a Short.
// Trade indexes are 1-based in matching order.
func (m *Matcher) Match(ctx context.Context, orders []domain.Order) ([]domain.Trade, error) {
	var trades []domain.Trade
	i := 0

	for i < len(orders)-1 {
		first, second := orders[i], orders[i+1]
		if second.CreateTime.Before(first.CreateTime) {
			first, second = second, first
		}

		var direction domain.TradeDirection
		switch {
		case first.Side == domain.Buy && second.Side == domain.Sell:
			direction = domain.Long
		case first.Side == domain.Sell && second.Side == domain.Buy:
			direction = domain.Short
		default:
			if m.policy == RejectUnpaired {
				return nil, fmt.Errorf("orders %d and %d have the same side %q: %w",
					i, i+1, first.Side, ports.ErrInvalidRequest)
			}
			m.logger.Warn(ctx, "Order cannot form an open/close pair, skipping",
				map[string]interface{}{"index": i, "side": string(orders[i].Side), "createTime": orders[i].CreateTime})
			i++
			continue
		}

		pl := (second.FillPrice - first.FillPrice) * float64(first.Quantity)
		if direction == domain.Short {
			pl = (first.FillPrice - second.FillPrice) * float64(first.Quantity)
		}

		trades = append(trades, domain.Trade{
			Index:      len(trades) + 1,
			Direction:  direction,
			EntryTime:  first.CreateTime,
			EntryPrice: first.FillPrice,
			ExitTime:   second.UpdateTime,
			ExitPrice:  second.FillPrice,
			Quantity:   first.Quantity,
			ProfitLoss: pl,
		})
		i += 2
	}

	m.logger.Info(ctx, "Trade matching complete",
		map[string]interface{}{"orders": len(orders), "trades": len(trades)})
	return trades, nil
}
