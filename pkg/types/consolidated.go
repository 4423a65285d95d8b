package types

import "time"

// ConsolidatedBook is the merged, tick-aligned, depth-limited view. Bids are
// sorted high to low, asks low to high, prices are unique and sizes positive.
type ConsolidatedBook struct {
	Time time.Time
	Bids []Level
	Asks []Level
}

func (c *ConsolidatedBook) BestBid() (Level, bool) {
	if len(c.Bids) == 0 {
		return Level{}, false
	}
	return c.Bids[0], true
}

func (c *ConsolidatedBook) BestAsk() (Level, bool) {
	if len(c.Asks) == 0 {
		return Level{}, false
	}
	return c.Asks[0], true
}
