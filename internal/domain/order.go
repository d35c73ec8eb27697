package domain

import "time"

// Order represents a single executed (fully filled) order from the order log.
// Orders are read-only once loaded.
type Order struct {
	Account    string    // Account identifier; rows without one are dropped at load time
	Side       OrderSide // Buy or Sell
	CreateTime time.Time // When the order was created
	UpdateTime time.Time // When the order was last updated (fill time for completed orders)
	FillPrice  float64   // Average fill price
	Quantity   int       // Filled quantity in contracts
}
