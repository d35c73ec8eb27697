package marketdata

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"nqDrawdown/internal/domain"
	"nqDrawdown/internal/ports"
)

// Column names as they appear in the two supported Rithmic exports.
const (
	colBarEndingTime = "Bar Ending Time"
	colSeriesOpen    = "Series.Open"
	colSeriesHigh    = "Series.High"
	colSeriesLow     = "Series.Low"
	colSeriesClose   = "Series.Close"
	colTickTime      = "Rithmic Date/Time (RST)"
	colTradePrice    = "Trade Price"
	colTimestamp     = "Timestamp"
)

// DetectFormat inspects the header row of a market data file and returns the
// series format. The decision is made once, before any row is parsed.
func DetectFormat(columns []string) (domain.SeriesFormat, error) {
	if hasColumn(columns, colBarEndingTime) || hasColumn(columns, colSeriesLow) {
		return domain.FormatBar, nil
	}
	if hasColumn(columns, colTickTime) || hasColumn(columns, colTradePrice) {
		return domain.FormatTick, nil
	}
	return "", fmt.Errorf("columns %v: %w", columns, ports.ErrUnsupportedFormat)
}

// DateOrder identifies how the day and month are ordered in bar timestamps.
// Rithmic exports use DD/MM/YYYY on European workstations and MM/DD/YYYY on
// American ones.
type DateOrder string

const (
	DateOrderAuto       DateOrder = "auto"
	DateOrderDayFirst   DateOrder = "dayfirst"
	DateOrderMonthFirst DateOrder = "monthfirst"
)

// ParseDateOrder converts a configuration string to a DateOrder.
func ParseDateOrder(s string) (DateOrder, error) {
	switch DateOrder(strings.ToLower(strings.TrimSpace(s))) {
	case DateOrderAuto, "":
		return DateOrderAuto, nil
	case DateOrderDayFirst:
		return DateOrderDayFirst, nil
	case DateOrderMonthFirst:
		return DateOrderMonthFirst, nil
	}
	return "", fmt.Errorf("invalid date order %q: %w", s, ports.ErrConfigurationError)
}

// ResolveDateOrder turns a possibly-auto preference into a definite order
// before any timestamp is parsed. In auto mode the sampled timestamps decide:
// a first component above 12 can only be a day, a second component above 12
// can only be a day in month-first order. Fully ambiguous samples fall back to
// day-first, matching the workstations these exports come from.
func ResolveDateOrder(samples []string, preferred DateOrder) (DateOrder, error) {
	if preferred == DateOrderDayFirst || preferred == DateOrderMonthFirst {
		return preferred, nil
	}
	for _, s := range samples {
		date, _, ok := strings.Cut(strings.TrimSpace(s), " ")
		if !ok {
			date = strings.TrimSpace(s)
		}
		parts := strings.Split(date, "/")
		if len(parts) != 3 {
			continue
		}
		first, err1 := strconv.Atoi(parts[0])
		second, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil {
			continue
		}
		if first > 12 {
			return DateOrderDayFirst, nil
		}
		if second > 12 {
			return DateOrderMonthFirst, nil
		}
	}
	if len(samples) == 0 {
		return "", fmt.Errorf("no timestamp samples: %w", ports.ErrAmbiguousDate)
	}
	return DateOrderDayFirst, nil
}

// barTimeLayout returns the Go layout for bar timestamps under the given order.
func barTimeLayout(order DateOrder) string {
	if order == DateOrderMonthFirst {
		return "01/02/2006 15:04:05"
	}
	return "02/01/2006 15:04:05"
}

// ParseBarTime parses a bar ending time using a previously resolved date order.
func ParseBarTime(s string, order DateOrder) (time.Time, error) {
	t, err := time.Parse(barTimeLayout(order), strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing bar time %q: %w", s, err)
	}
	return t, nil
}

// tickTimeLayouts are the unambiguous layouts tick exports are known to use.
var tickTimeLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	time.RFC3339,
}

// ParseTickTime parses an already locale-resolved tick timestamp.
func ParseTickTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range tickTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parsing tick time %q: unrecognized layout", s)
}

func hasColumn(columns []string, name string) bool {
	return findColumn(columns, name) >= 0
}

// findColumn returns the index of the first header cell matching any of the
// given names, or -1.
func findColumn(columns []string, names ...string) int {
	for i, c := range columns {
		for _, n := range names {
			if strings.TrimSpace(c) == n {
				return i
			}
		}
	}
	return -1
}
