package app

import (
	"context"
	"fmt"

	"nqDrawdown/internal/domain"
	"nqDrawdown/internal/drawdown"
	"nqDrawdown/internal/matcher"
	"nqDrawdown/internal/ports"
)

// AnalysisService runs the batch pipeline: orders -> trades -> reports.
// Each step returns a new immutable sequence; nothing is accumulated on the
// service itself, so a single instance can serve any number of runs.
type AnalysisService struct {
	logger  ports.Logger
	matcher *matcher.Matcher
	engine  *drawdown.Engine
}

// NewAnalysisService creates a new pipeline service instance.
func NewAnalysisService(logger ports.Logger, m *matcher.Matcher, e *drawdown.Engine) (*AnalysisService, error) {
	if logger == nil || m == nil || e == nil {
		return nil, fmt.Errorf("missing required dependencies for AnalysisService")
	}
	return &AnalysisService{logger: logger, matcher: m, engine: e}, nil
}

// Run matches the orders into trades and measures the drawdown of each trade
// against the slice of the price series covering its lifetime. The output is
// ordered by trade index. Trades with no market data in their window are kept
// with an unmeasured drawdown; only a structural failure aborts the run.
func (s *AnalysisService) Run(ctx context.Context, orders []domain.Order, series domain.PriceSeries) ([]*domain.TradeReport, error) {
	trades, err := s.matcher.Match(ctx, orders)
	if err != nil {
		return nil, fmt.Errorf("matching trades: %w", err)
	}

	reports := make([]*domain.TradeReport, 0, len(trades))
	for _, trade := range trades {
		window := series.Slice(trade.EntryTime, trade.ExitTime)
		result, err := s.engine.Compute(trade, window)
		if err != nil {
			return nil, fmt.Errorf("computing drawdown for trade %d: %w", trade.Index, err)
		}

		if !result.Measured {
			s.logger.Warn(ctx, "No market data in trade window",
				map[string]interface{}{"trade": trade.Index, "entryTime": trade.EntryTime, "exitTime": trade.ExitTime})
		} else {
			s.logger.Info(ctx, "Trade analyzed", map[string]interface{}{
				"trade":        trade.Index,
				"direction":    string(trade.Direction),
				"entryPrice":   trade.EntryPrice,
				"exitPrice":    trade.ExitPrice,
				"profitLoss":   trade.ProfitLoss,
				"ddPoints":     result.Points,
				"ddDollars":    result.Dollars,
				"extremePrice": result.ExtremePrice,
			})
		}

		reports = append(reports, &domain.TradeReport{Trade: trade, Drawdown: result})
	}

	s.logger.Info(ctx, "Analysis complete",
		map[string]interface{}{"trades": len(trades), "pricePoints": series.Len()})
	return reports, nil
}
