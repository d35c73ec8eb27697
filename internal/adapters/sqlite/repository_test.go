package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"nqDrawdown/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLogger discards log output during tests
type mockLogger struct{}

func (mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

func setupTestDB(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(Config{
		DBPath: filepath.Join(t.TempDir(), "test.db"),
		Logger: mockLogger{},
	})
	require.NoError(t, err, "Failed to create test repository")
	t.Cleanup(func() { repo.Close() })
	return repo
}

func sampleReports() []*domain.TradeReport {
	entry := time.Date(2026, 1, 12, 15, 30, 0, 0, time.UTC)
	return []*domain.TradeReport{
		{
			Trade: domain.Trade{
				Index:      1,
				Direction:  domain.Long,
				EntryTime:  entry,
				EntryPrice: 15000,
				ExitTime:   entry.Add(time.Minute),
				ExitPrice:  15010,
				Quantity:   1,
				ProfitLoss: 10,
			},
			Drawdown: domain.DrawdownResult{
				Measured:     true,
				Points:       10,
				Dollars:      200,
				Percent:      0.0667,
				ExtremePrice: 14990,
				ExtremeTime:  entry.Add(30 * time.Second),
			},
			SourceFile: "drawdown_report_2026-01-12.csv",
		},
		{
			Trade: domain.Trade{
				Index:      2,
				Direction:  domain.Short,
				EntryTime:  entry.Add(2 * time.Minute),
				EntryPrice: 15020,
				ExitTime:   entry.Add(3 * time.Minute),
				ExitPrice:  15005,
				Quantity:   2,
				ProfitLoss: 30,
			},
		},
	}
}

func TestNewRepositoryValidation(t *testing.T) {
	_, err := NewRepository(Config{DBPath: filepath.Join(t.TempDir(), "x.db")})
	assert.Error(t, err, "Expected error for missing logger")
}

func TestSaveAndFindAll(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	reports := sampleReports()
	require.NoError(t, repo.SaveReports(ctx, reports))

	found, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, found, 2)

	// Ordered by entry time.
	assert.Equal(t, 1, found[0].Index)
	assert.Equal(t, domain.Long, found[0].Direction)
	assert.Equal(t, 15000.0, found[0].EntryPrice)
	assert.Equal(t, 10.0, found[0].ProfitLoss)
	assert.Equal(t, "drawdown_report_2026-01-12.csv", found[0].SourceFile)
	require.True(t, found[0].Drawdown.Measured)
	assert.Equal(t, 10.0, found[0].Drawdown.Points)
	assert.Equal(t, 200.0, found[0].Drawdown.Dollars)
	assert.Equal(t, 14990.0, found[0].Drawdown.ExtremePrice)
	assert.True(t, found[0].Drawdown.ExtremeTime.Equal(reports[0].Drawdown.ExtremeTime))

	// NULL drawdown columns round-trip as an unmeasured result.
	assert.Equal(t, 2, found[1].Index)
	assert.False(t, found[1].Drawdown.Measured)
	assert.Zero(t, found[1].Drawdown.Points)
	assert.True(t, found[1].Drawdown.ExtremeTime.IsZero())
	assert.Empty(t, found[1].SourceFile)
}

func TestFindAllEmpty(t *testing.T) {
	repo := setupTestDB(t)

	found, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestTotalProfitPoints(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	total, err := repo.TotalProfitPoints(ctx)
	require.NoError(t, err)
	assert.Zero(t, total, "Expected zero total on empty table")

	require.NoError(t, repo.SaveReports(ctx, sampleReports()))

	total, err = repo.TotalProfitPoints(ctx)
	require.NoError(t, err)
	assert.Equal(t, 40.0, total)
}
