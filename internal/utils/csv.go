package utils

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"nqDrawdown/internal/domain"
	"nqDrawdown/internal/marketdata"
)

// Order export column names (Rithmic "Completed Orders" CSV).
const (
	colAccount      = "Account"
	colCreateTime   = "Create Time (RST)"
	colUpdateTime   = "Update Time (RST)"
	colAvgFillPrice = "Avg Fill Price"
	colQtyToFill    = "Qty To Fill"
	colBuySell      = "Buy/Sell"
)

// ReadOrdersFromCSV loads an executed-orders export. The file carries several
// preamble lines before the real header row, so everything up to the row
// containing the Account and Buy/Sell columns is skipped. Rows with an empty
// account cell are dropped. The result is sorted ascending by create time.
func ReadOrdersFromCSV(filename string) ([]domain.Order, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening orders file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // preamble rows have varying widths

	var header []string
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			return nil, fmt.Errorf("no order header row found in %s", filename)
		}
		if err != nil {
			return nil, fmt.Errorf("reading orders file: %w", err)
		}
		if indexOf(rec, colAccount) >= 0 && indexOf(rec, colBuySell) >= 0 {
			header = rec
			break
		}
	}

	accountIdx := indexOf(header, colAccount)
	createIdx := indexOf(header, colCreateTime)
	updateIdx := indexOf(header, colUpdateTime)
	priceIdx := indexOf(header, colAvgFillPrice)
	qtyIdx := indexOf(header, colQtyToFill)
	sideIdx := indexOf(header, colBuySell)
	if createIdx < 0 || updateIdx < 0 || priceIdx < 0 || qtyIdx < 0 {
		return nil, fmt.Errorf("orders file %s is missing required columns", filename)
	}

	var orders []domain.Order
	for line := 1; ; line++ {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading order row %d: %w", line, err)
		}
		if accountIdx >= len(rec) || strings.TrimSpace(rec[accountIdx]) == "" {
			continue // trailing summary rows and blanks
		}

		createTime, err := marketdata.ParseTickTime(rec[createIdx])
		if err != nil {
			return nil, fmt.Errorf("order row %d: %w", line, err)
		}
		updateTime, err := marketdata.ParseTickTime(rec[updateIdx])
		if err != nil {
			return nil, fmt.Errorf("order row %d: %w", line, err)
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(rec[priceIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("order row %d: parsing fill price: %w", line, err)
		}
		qty, err := strconv.Atoi(strings.TrimSpace(rec[qtyIdx]))
		if err != nil {
			return nil, fmt.Errorf("order row %d: parsing quantity: %w", line, err)
		}

		orders = append(orders, domain.Order{
			Account:    strings.TrimSpace(rec[accountIdx]),
			Side:       domain.OrderSide(strings.TrimSpace(rec[sideIdx])),
			CreateTime: createTime,
			UpdateTime: updateTime,
			FillPrice:  price,
			Quantity:   qty,
		})
	}

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreateTime.Before(orders[j].CreateTime)
	})
	return orders, nil
}

// ReadPriceSeriesFromCSV loads a market data export, detecting the format
// from the header row. The date order preference is resolved against the file
// contents before any bar timestamp is parsed.
func ReadPriceSeriesFromCSV(filename string, order marketdata.DateOrder) (domain.PriceSeries, error) {
	file, err := os.Open(filename)
	if err != nil {
		return domain.PriceSeries{}, fmt.Errorf("opening market data file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	rows, err := reader.ReadAll()
	if err != nil {
		return domain.PriceSeries{}, fmt.Errorf("reading market data file: %w", err)
	}
	if len(rows) == 0 {
		return domain.PriceSeries{}, fmt.Errorf("market data file %s is empty", filename)
	}
	return marketdata.ParseSeries(rows[0], rows[1:], order)
}

var reportHeader = []string{
	"trade_number", "direction",
	"entry_time", "entry_price", "exit_time", "exit_price",
	"quantity", "profit_loss",
	"max_drawdown_points", "max_drawdown_dollars", "max_drawdown_percent",
	"extreme_price", "extreme_time",
}

// WriteReportsToCSV persists trade reports as delimited text. Drawdown fields
// of unmeasured trades are written as empty cells, not zeros.
func WriteReportsToCSV(reports []*domain.TradeReport, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	writer.Write(reportHeader)
	for _, r := range reports {
		row := []string{
			strconv.Itoa(r.Index),
			string(r.Direction),
			r.EntryTime.Format(time.RFC3339),
			formatFloat(r.EntryPrice),
			r.ExitTime.Format(time.RFC3339),
			formatFloat(r.ExitPrice),
			strconv.Itoa(r.Quantity),
			formatFloat(r.ProfitLoss),
			"", "", "", "", "",
		}
		if r.Drawdown.Measured {
			row[8] = formatFloat(r.Drawdown.Points)
			row[9] = formatFloat(r.Drawdown.Dollars)
			row[10] = formatFloat(r.Drawdown.Percent)
			row[11] = formatFloat(r.Drawdown.ExtremePrice)
			row[12] = r.Drawdown.ExtremeTime.Format(time.RFC3339)
		}
		writer.Write(row)
	}
	return writer.Error()
}

// ReadReportsFromCSV loads a report file written by WriteReportsToCSV. Each
// record is tagged with the source file name for traceability.
func ReadReportsFromCSV(filename string) ([]*domain.TradeReport, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening report file: %w", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading report file: %w", err)
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("report file %s is empty", filename)
	}

	source := filepath.Base(filename)
	reports := make([]*domain.TradeReport, 0, len(rows)-1)
	for i, rec := range rows[1:] {
		if len(rec) < len(reportHeader) {
			return nil, fmt.Errorf("report row %d in %s has %d columns, want %d", i+1, source, len(rec), len(reportHeader))
		}
		r := &domain.TradeReport{SourceFile: source}
		if r.Index, err = strconv.Atoi(rec[0]); err != nil {
			return nil, fmt.Errorf("report row %d: parsing trade number: %w", i+1, err)
		}
		r.Direction = domain.TradeDirection(rec[1])
		if r.EntryTime, err = time.Parse(time.RFC3339, rec[2]); err != nil {
			return nil, fmt.Errorf("report row %d: parsing entry time: %w", i+1, err)
		}
		if r.EntryPrice, err = strconv.ParseFloat(rec[3], 64); err != nil {
			return nil, fmt.Errorf("report row %d: parsing entry price: %w", i+1, err)
		}
		if r.ExitTime, err = time.Parse(time.RFC3339, rec[4]); err != nil {
			return nil, fmt.Errorf("report row %d: parsing exit time: %w", i+1, err)
		}
		if r.ExitPrice, err = strconv.ParseFloat(rec[5], 64); err != nil {
			return nil, fmt.Errorf("report row %d: parsing exit price: %w", i+1, err)
		}
		if r.Quantity, err = strconv.Atoi(rec[6]); err != nil {
			return nil, fmt.Errorf("report row %d: parsing quantity: %w", i+1, err)
		}
		if r.ProfitLoss, err = strconv.ParseFloat(rec[7], 64); err != nil {
			return nil, fmt.Errorf("report row %d: parsing profit/loss: %w", i+1, err)
		}

		if rec[8] != "" {
			r.Drawdown.Measured = true
			if r.Drawdown.Points, err = strconv.ParseFloat(rec[8], 64); err != nil {
				return nil, fmt.Errorf("report row %d: parsing drawdown points: %w", i+1, err)
			}
			if r.Drawdown.Dollars, err = strconv.ParseFloat(rec[9], 64); err != nil {
				return nil, fmt.Errorf("report row %d: parsing drawdown dollars: %w", i+1, err)
			}
			if r.Drawdown.Percent, err = strconv.ParseFloat(rec[10], 64); err != nil {
				return nil, fmt.Errorf("report row %d: parsing drawdown percent: %w", i+1, err)
			}
			if r.Drawdown.ExtremePrice, err = strconv.ParseFloat(rec[11], 64); err != nil {
				return nil, fmt.Errorf("report row %d: parsing extreme price: %w", i+1, err)
			}
			if r.Drawdown.ExtremeTime, err = time.Parse(time.RFC3339, rec[12]); err != nil {
				return nil, fmt.Errorf("report row %d: parsing extreme time: %w", i+1, err)
			}
		}
		reports = append(reports, r)
	}
	return reports, nil
}

// WriteBarsToCSV writes bars in the OHLC schema the analyzer ingests, with
// day-first bar ending times.
func WriteBarsToCSV(bars []domain.Bar, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	writer.Write([]string{"Bar Ending Time", "Series.Open", "Series.High", "Series.Low", "Series.Close"})
	for _, b := range bars {
		writer.Write([]string{
			b.Timestamp.Format("02/01/2006 15:04:05"),
			formatFloat(b.Open),
			formatFloat(b.High),
			formatFloat(b.Low),
			formatFloat(b.Close),
		})
	}
	return writer.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func indexOf(row []string, name string) int {
	for i, c := range row {
		if strings.TrimSpace(c) == name {
			return i
		}
	}
	return -1
}
