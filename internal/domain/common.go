package domain

// OrderSide represents the side of an executed order.
// The values match the Buy/Sell codes used in Rithmic order exports.
type OrderSide string

const (
	Buy  OrderSide = "B"
	Sell OrderSide = "S"
)

// TradeDirection represents the direction of a round-trip trade.
type TradeDirection string

const (
	Long  TradeDirection = "LONG"
	Short TradeDirection = "SHORT"
)

// SeriesFormat identifies the shape of a market data series.
// It is detected once when the series is loaded and never changes afterwards.
type SeriesFormat string

const (
	FormatTick SeriesFormat = "tick"
	FormatBar  SeriesFormat = "ohlc"
)
