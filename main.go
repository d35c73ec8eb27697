package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"nqDrawdown/config"
	"nqDrawdown/internal/adapters/logger"
	"nqDrawdown/internal/adapters/sqlite"
	"nqDrawdown/internal/analytics"
	"nqDrawdown/internal/app"
	"nqDrawdown/internal/domain"
	"nqDrawdown/internal/drawdown"
	"nqDrawdown/internal/matcher"
	"nqDrawdown/internal/utils"
)

func main() {
	ordersFile := flag.String("orders", "", "executed orders CSV export")
	marketFile := flag.String("market", "", "market data CSV export (tick or OHLC)")
	outputFile := flag.String("out", "", "report file name (default: drawdown_report_<date>.csv)")
	flag.Parse()

	if *ordersFile == "" || *marketFile == "" {
		flag.Usage()
		os.Exit(2)
	}

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err) // Use standard log before logger is ready
	}

	// 2. Initialize Logger
	appLogger := logger.NewStdLogger(cfg.LogLevel)
	ctx := context.Background()

	// 3. Load inputs
	orders, err := utils.ReadOrdersFromCSV(*ordersFile)
	if err != nil {
		appLogger.Error(ctx, err, "Failed to load orders")
		log.Fatalf("FATAL: Failed to load orders: %v", err)
	}
	appLogger.Info(ctx, "Orders loaded", map[string]interface{}{"file": *ordersFile, "count": len(orders)})

	series, err := utils.ReadPriceSeriesFromCSV(*marketFile, cfg.DateOrder)
	if err != nil {
		appLogger.Error(ctx, err, "Failed to load market data")
		log.Fatalf("FATAL: Failed to load market data: %v", err)
	}
	appLogger.Info(ctx, "Market data loaded", map[string]interface{}{
		"file":   *marketFile,
		"format": string(series.Format),
		"count":  series.Len(),
	})

	// 4. Build the pipeline
	tradeMatcher, err := matcher.New(matcher.Config{Policy: cfg.UnpairedPolicy, Logger: appLogger})
	if err != nil {
		log.Fatalf("FATAL: Failed to create matcher: %v", err)
	}
	engine, err := drawdown.NewEngine(drawdown.Config{ContractMultiplier: cfg.ContractMultiplier})
	if err != nil {
		log.Fatalf("FATAL: Failed to create drawdown engine: %v", err)
	}
	service, err := app.NewAnalysisService(appLogger, tradeMatcher, engine)
	if err != nil {
		log.Fatalf("FATAL: Failed to create analysis service: %v", err)
	}

	// 5. Run
	reports, err := service.Run(ctx, orders, series)
	if err != nil {
		appLogger.Error(ctx, err, "Analysis failed")
		log.Fatalf("FATAL: Analysis failed: %v", err)
	}

	// 6. Persist: CSV report for the aggregate analyzer, SQLite for queries
	if err := os.MkdirAll(cfg.ReportsDir, 0755); err != nil {
		log.Fatalf("FATAL: Failed to create reports directory: %v", err)
	}
	reportPath := filepath.Join(cfg.ReportsDir, reportFileName(*outputFile, reports))
	if err := utils.WriteReportsToCSV(reports, reportPath); err != nil {
		appLogger.Error(ctx, err, "Failed to write report CSV")
		log.Fatalf("FATAL: Failed to write report CSV: %v", err)
	}
	appLogger.Info(ctx, "Report saved", map[string]interface{}{"file": reportPath, "trades": len(reports)})

	repo, err := sqlite.NewRepository(sqlite.Config{DBPath: cfg.DBPath, Logger: appLogger})
	if err != nil {
		appLogger.Error(ctx, err, "Failed to open report database")
		log.Fatalf("FATAL: Failed to open report database: %v", err)
	}
	defer repo.Close()
	if err := repo.SaveReports(ctx, reports); err != nil {
		appLogger.Error(ctx, err, "Failed to save reports to database")
		log.Fatalf("FATAL: Failed to save reports to database: %v", err)
	}

	printSummary(cfg.ContractSymbol, reports)
}

// reportFileName picks the output file name: an explicit -out value (with a
// .csv extension enforced), otherwise the entry date of the first trade,
// otherwise today.
func reportFileName(custom string, reports []*domain.TradeReport) string {
	if custom != "" {
		if !strings.HasSuffix(custom, ".csv") {
			custom += ".csv"
		}
		return custom
	}
	date := time.Now().Format("2006-01-02")
	if len(reports) > 0 {
		date = reports[0].EntryTime.Format("2006-01-02")
	}
	return fmt.Sprintf("drawdown_report_%s.csv", date)
}

func printSummary(symbol string, reports []*domain.TradeReport) {
	metrics := analytics.AnalyzeReports(reports)
	fmt.Printf("\n%s drawdown summary (%d of %d trades measured)\n",
		symbol, metrics.TotalTrades, len(reports))
	if metrics.TotalTrades == 0 {
		fmt.Println("No measurable trades.")
		return
	}
	fmt.Printf("  Points:  mean %.2f, median %.2f, max %.2f, min %.2f, stddev %.2f\n",
		metrics.Points.Mean, metrics.Points.Median, metrics.Points.Max, metrics.Points.Min, metrics.Points.StdDev)
	fmt.Printf("  Dollars: mean $%.2f, median $%.2f, max $%.2f, min $%.2f\n",
		metrics.Dollars.Mean, metrics.Dollars.Median, metrics.Dollars.Max, metrics.Dollars.Min)
	fmt.Printf("  Percent: mean %.3f%%, median %.3f%%, max %.3f%%\n",
		metrics.Percent.Mean, metrics.Percent.Median, metrics.Percent.Max)
	fmt.Printf("  P&L: total %.2f points, win rate %.1f%% (%d/%d)\n",
		metrics.TotalProfit, metrics.WinRate*100, metrics.WinningTrades, metrics.TotalTrades)
}
