package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"nqDrawdown/internal/domain"
	"nqDrawdown/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Repository implements the ports.ReportRepository interface using SQLite.
type Repository struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite repository.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewRepository creates a new SQLite repository instance.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite repository")
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/drawdown.db" // Default path
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		err = fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		err = fmt.Errorf("failed to open database at '%s': %w", dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		err = fmt.Errorf("failed to ping database at '%s': %w", dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// SQLite handles concurrency internally, the Go driver benefits from limiting connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	repo := &Repository{db: db, logger: cfg.Logger}
	if err := repo.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize database schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}
	cfg.Logger.Info(context.Background(), "SQLite database ready", map[string]interface{}{"path": dbPath})

	return repo, nil
}

// initializeSchema creates tables if they don't exist.
func (r *Repository) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS trade_reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		trade_number INTEGER NOT NULL,
		direction TEXT NOT NULL,
		entry_time TIMESTAMP NOT NULL,
		entry_price REAL NOT NULL,
		exit_time TIMESTAMP NOT NULL,
		exit_price REAL NOT NULL,
		quantity INTEGER NOT NULL,
		profit_loss REAL NOT NULL,
		drawdown_points REAL DEFAULT NULL,
		drawdown_dollars REAL DEFAULT NULL,
		drawdown_percent REAL DEFAULT NULL,
		extreme_price REAL DEFAULT NULL,
		extreme_time TIMESTAMP DEFAULT NULL,
		source_file TEXT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_trade_reports_entry_time ON trade_reports (entry_time);
	`
	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to execute schema initialization: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	if r.db != nil {
		r.logger.Info(context.Background(), "Closing SQLite database connection")
		return r.db.Close()
	}
	return nil
}

// SaveReports persists a batch of trade reports in a single transaction.
// Drawdown columns stay NULL for unmeasured trades.
func (r *Repository) SaveReports(ctx context.Context, reports []*domain.TradeReport) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `
	INSERT INTO trade_reports (trade_number, direction, entry_time, entry_price, exit_time, exit_price,
	                           quantity, profit_loss, drawdown_points, drawdown_dollars, drawdown_percent,
	                           extreme_price, extreme_time, source_file)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare report insert: %w", err)
	}
	defer stmt.Close()

	for _, rep := range reports {
		var points, dollars, percent, extremePrice sql.NullFloat64
		var extremeTime sql.NullTime
		if rep.Drawdown.Measured {
			points = sql.NullFloat64{Float64: rep.Drawdown.Points, Valid: true}
			dollars = sql.NullFloat64{Float64: rep.Drawdown.Dollars, Valid: true}
			percent = sql.NullFloat64{Float64: rep.Drawdown.Percent, Valid: true}
			extremePrice = sql.NullFloat64{Float64: rep.Drawdown.ExtremePrice, Valid: true}
			extremeTime = sql.NullTime{Time: rep.Drawdown.ExtremeTime, Valid: true}
		}
		var source sql.NullString
		if rep.SourceFile != "" {
			source = sql.NullString{String: rep.SourceFile, Valid: true}
		}

		if _, err := stmt.ExecContext(ctx,
			rep.Index, rep.Direction, rep.EntryTime, rep.EntryPrice, rep.ExitTime, rep.ExitPrice,
			rep.Quantity, rep.ProfitLoss, points, dollars, percent, extremePrice, extremeTime, source,
		); err != nil {
			return fmt.Errorf("failed to insert report for trade %d: %w", rep.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit report batch: %w", err)
	}
	r.logger.Debug(ctx, "Trade reports saved", map[string]interface{}{"count": len(reports)})
	return nil
}

// FindAll retrieves all stored reports, ordered by entry time ascending.
func (r *Repository) FindAll(ctx context.Context) ([]*domain.TradeReport, error) {
	const query = `
	SELECT trade_number, direction, entry_time, entry_price, exit_time, exit_price,
	       quantity, profit_loss, drawdown_points, drawdown_dollars, drawdown_percent,
	       extreme_price, extreme_time, source_file
	FROM trade_reports
	ORDER BY entry_time ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query trade reports: %w", err)
	}
	defer rows.Close()

	reports := make([]*domain.TradeReport, 0)
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade report during FindAll: %w", err)
		}
		reports = append(reports, rep)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trade report rows: %w", err)
	}
	return reports, nil
}

// TotalProfitPoints sums profit/loss in points over all stored reports.
func (r *Repository) TotalProfitPoints(ctx context.Context) (float64, error) {
	const query = `SELECT COALESCE(SUM(profit_loss), 0) FROM trade_reports`
	var total float64
	if err := r.db.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum profit/loss: %w", err)
	}
	return total, nil
}

// scanner defines an interface compatible with *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanReport scans a row into a domain.TradeReport struct.
func scanReport(s scanner) (*domain.TradeReport, error) {
	rep := &domain.TradeReport{}
	var direction string
	var points, dollars, percent, extremePrice sql.NullFloat64
	var extremeTime sql.NullTime
	var source sql.NullString
	err := s.Scan(
		&rep.Index, &direction, &rep.EntryTime, &rep.EntryPrice, &rep.ExitTime, &rep.ExitPrice,
		&rep.Quantity, &rep.ProfitLoss, &points, &dollars, &percent, &extremePrice, &extremeTime, &source)
	if err != nil {
		return nil, err // Handle sql.ErrNoRows in the caller
	}
	rep.Direction = domain.TradeDirection(direction)
	if points.Valid {
		rep.Drawdown = domain.DrawdownResult{
			Measured:     true,
			Points:       points.Float64,
			Dollars:      dollars.Float64,
			Percent:      percent.Float64,
			ExtremePrice: extremePrice.Float64,
			ExtremeTime:  extremeTime.Time,
		}
	}
	if source.Valid {
		rep.SourceFile = source.String
	}
	return rep, nil
}
