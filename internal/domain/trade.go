package domain

import "time"

// Trade represents a completed round-trip trade reconstructed from a pair of
// orders (one entry, one exit). Entry and exit are assigned by create-time
// order of the two orders, not by which one was the buy.
type Trade struct {
	Index      int            // 1-based, in matching order
	Direction  TradeDirection // Long (B then S) or Short (S then B)
	EntryTime  time.Time      // Create time of the entry order
	EntryPrice float64        // Fill price of the entry order
	ExitTime   time.Time      // Update time of the exit order
	ExitPrice  float64        // Fill price of the exit order
	Quantity   int            // Quantity of the entry order
	ProfitLoss float64        // Signed price-point delta times quantity
}
