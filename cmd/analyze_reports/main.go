package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"nqDrawdown/config"
	"nqDrawdown/internal/analytics"
	"nqDrawdown/internal/domain"
	"nqDrawdown/internal/utils"
)

const consolidatedFile = "consolidated_report.csv"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	files, err := findReportFiles(cfg.ReportsDir)
	if err != nil {
		log.Fatalf("Error finding report files: %v", err)
	}
	if len(files) == 0 {
		log.Printf("No reports found in %s. Run the drawdown calculator first.", cfg.ReportsDir)
		return
	}

	var all []*domain.TradeReport
	for _, file := range files {
		reports, err := utils.ReadReportsFromCSV(file)
		if err != nil {
			log.Printf("Error reading reports from %s: %v", file, err)
			continue
		}
		all = append(all, reports...)
	}

	metrics := analytics.AnalyzeReports(all)
	if metrics.TotalTrades == 0 {
		log.Println("No measured trades in any report.")
		return
	}

	fmt.Printf("## Global statistics (%d files, %d measured trades)\n",
		len(files), metrics.TotalTrades)
	fmt.Printf("Period: %s to %s\n\n",
		metrics.FirstEntry.Format("2006-01-02"), metrics.LastEntry.Format("2006-01-02"))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight|tabwriter.Debug)
	fmt.Fprintln(w, "Drawdown\tMean\tMedian\tMax\tMin\tStdDev\t")
	fmt.Fprintf(w, "Points\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t\n",
		metrics.Points.Mean, metrics.Points.Median, metrics.Points.Max, metrics.Points.Min, metrics.Points.StdDev)
	fmt.Fprintf(w, "Dollars\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t\n",
		metrics.Dollars.Mean, metrics.Dollars.Median, metrics.Dollars.Max, metrics.Dollars.Min, metrics.Dollars.StdDev)
	fmt.Fprintf(w, "Percent\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t\n",
		metrics.Percent.Mean, metrics.Percent.Median, metrics.Percent.Max, metrics.Percent.Min, metrics.Percent.StdDev)
	w.Flush()

	fmt.Printf("\nP&L: total %.2f points, mean %.2f points/trade, win rate %.1f%% (%d/%d)\n",
		metrics.TotalProfit, metrics.MeanProfit, metrics.WinRate*100, metrics.WinningTrades, metrics.TotalTrades)

	fmt.Println("\n## By direction")
	for _, direction := range []domain.TradeDirection{domain.Long, domain.Short} {
		dm, ok := metrics.ByDirection[direction]
		if !ok {
			continue
		}
		fmt.Printf("%s (%d trades): DD mean %.2f, median %.2f, max %.2f points; P&L mean %.2f points\n",
			direction, dm.Trades, dm.MeanPoints, dm.MedianPoints, dm.MaxPoints, dm.MeanProfit)
	}

	fmt.Println("\n## By trading day")
	for _, day := range metrics.ByDay {
		fmt.Printf("%s: %d trades, DD mean %.2f points, P&L total %.2f points\n",
			day.Date.Format("2006-01-02"), day.Trades, day.MeanPoints, day.TotalProfit)
	}

	printRanking("Top 5 largest drawdowns", analytics.WorstByDrawdown(all, 5))
	printRanking("Top 5 smallest drawdowns", analytics.BestByDrawdown(all, 5))

	outPath := filepath.Join(cfg.ReportsDir, consolidatedFile)
	if err := utils.WriteReportsToCSV(all, outPath); err != nil {
		log.Fatalf("Error writing consolidated report: %v", err)
	}
	fmt.Printf("\nConsolidated report saved to %s\n", outPath)
}

// findReportFiles lists report CSVs in the reports directory, skipping the
// consolidated output of a previous run.
func findReportFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".csv") || name == consolidatedFile {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	return files, nil
}

func printRanking(title string, ranked []*domain.TradeReport) {
	fmt.Printf("\n## %s\n", title)
	for _, r := range ranked {
		fmt.Printf("Trade %d %s %s: DD %.2f points ($%.2f), P&L %.2f points [%s]\n",
			r.Index, r.Direction, r.EntryTime.Format("2006-01-02 15:04:05"),
			r.Drawdown.Points, r.Drawdown.Dollars, r.ProfitLoss, r.SourceFile)
	}
}
