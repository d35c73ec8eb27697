package ports

import (
	"context"

	"nqDrawdown/internal/domain"
)

// ReportRepository defines the interface for storing and retrieving trade reports.
type ReportRepository interface {
	// SaveReports persists a batch of trade reports from one analyzer run.
	SaveReports(ctx context.Context, reports []*domain.TradeReport) error
	// FindAll retrieves all stored reports, ordered by entry time ascending.
	FindAll(ctx context.Context) ([]*domain.TradeReport, error)
	// TotalProfitPoints sums profit/loss in points over all stored reports.
	TotalProfitPoints(ctx context.Context) (float64, error)
}
