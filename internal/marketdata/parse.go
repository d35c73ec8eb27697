package marketdata

import (
	"fmt"
	"strconv"
	"strings"

	"nqDrawdown/internal/domain"
)

// ParseSeries builds a PriceSeries from a parsed CSV header and its data
// records. The format is detected from the header and the date order is
// resolved from the data before any timestamp is parsed. The returned series
// is sorted ascending by timestamp.
func ParseSeries(header []string, records [][]string, order DateOrder) (domain.PriceSeries, error) {
	format, err := DetectFormat(header)
	if err != nil {
		return domain.PriceSeries{}, err
	}

	var series domain.PriceSeries
	switch format {
	case domain.FormatBar:
		series, err = parseBars(header, records, order)
	case domain.FormatTick:
		series, err = parseTicks(header, records)
	}
	if err != nil {
		return domain.PriceSeries{}, err
	}

	series.SortByTime()
	return series, nil
}

func parseBars(header []string, records [][]string, order DateOrder) (domain.PriceSeries, error) {
	timeIdx := findColumn(header, colBarEndingTime, colTimestamp)
	lowIdx := findColumn(header, colSeriesLow, "Low")
	highIdx := findColumn(header, colSeriesHigh, "High")
	if timeIdx < 0 || lowIdx < 0 || highIdx < 0 {
		return domain.PriceSeries{}, fmt.Errorf("bar data is missing timestamp, low or high columns")
	}
	// Open and close are optional; the engine only uses low and high.
	openIdx := findColumn(header, colSeriesOpen, "Open")
	closeIdx := findColumn(header, colSeriesClose, "Close")

	samples := make([]string, 0, len(records))
	for _, rec := range records {
		if timeIdx < len(rec) {
			samples = append(samples, rec[timeIdx])
		}
	}
	resolved, err := ResolveDateOrder(samples, order)
	if err != nil {
		return domain.PriceSeries{}, err
	}

	series := domain.PriceSeries{Format: domain.FormatBar, Bars: make([]domain.Bar, 0, len(records))}
	for i, rec := range records {
		ts, err := ParseBarTime(rec[timeIdx], resolved)
		if err != nil {
			return domain.PriceSeries{}, fmt.Errorf("row %d: %w", i+1, err)
		}
		low, err := parsePrice(rec[lowIdx])
		if err != nil {
			return domain.PriceSeries{}, fmt.Errorf("row %d: parsing low: %w", i+1, err)
		}
		high, err := parsePrice(rec[highIdx])
		if err != nil {
			return domain.PriceSeries{}, fmt.Errorf("row %d: parsing high: %w", i+1, err)
		}
		bar := domain.Bar{Timestamp: ts, Low: low, High: high}
		if openIdx >= 0 && openIdx < len(rec) {
			bar.Open, _ = parsePrice(rec[openIdx])
		}
		if closeIdx >= 0 && closeIdx < len(rec) {
			bar.Close, _ = parsePrice(rec[closeIdx])
		}
		series.Bars = append(series.Bars, bar)
	}
	return series, nil
}

func parseTicks(header []string, records [][]string) (domain.PriceSeries, error) {
	timeIdx := findColumn(header, colTickTime, colTimestamp)
	priceIdx := findColumn(header, colTradePrice)
	if timeIdx < 0 || priceIdx < 0 {
		return domain.PriceSeries{}, fmt.Errorf("tick data is missing timestamp or trade price columns")
	}

	series := domain.PriceSeries{Format: domain.FormatTick, Ticks: make([]domain.Tick, 0, len(records))}
	for i, rec := range records {
		ts, err := ParseTickTime(rec[timeIdx])
		if err != nil {
			return domain.PriceSeries{}, fmt.Errorf("row %d: %w", i+1, err)
		}
		price, err := parsePrice(rec[priceIdx])
		if err != nil {
			return domain.PriceSeries{}, fmt.Errorf("row %d: parsing trade price: %w", i+1, err)
		}
		series.Ticks = append(series.Ticks, domain.Tick{Timestamp: ts, Price: price})
	}
	return series, nil
}

func parsePrice(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
