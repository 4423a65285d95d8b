package binance

import (
	"github.com/yarkeeb/bookfeed/pkg/types"
	"github.com/yarkeeb/bookfeed/pkg/venue"
)

// cursor tracks the final update id folded into the book.
type cursor struct {
	last int64
}

// apply folds upd into book when it continues the cursor. Updates that end
// at or before the cursor are stale and skipped. An update bridges when its
// [U, u] window covers last+1 or when its pu equals last.
func (c *cursor) apply(book *types.OrderBook, upd *depthUpdate) (bool, error) {
	if upd.FinalUpdateID <= c.last {
		return false, nil
	}
	next := c.last + 1
	window := upd.FirstUpdateID <= next && next <= upd.FinalUpdateID
	linked := upd.PrevFinalID != 0 && upd.PrevFinalID == c.last
	if !window && !linked {
		return false, venue.Gapf("book at %d, update covers [%d, %d] pu=%d",
			c.last, upd.FirstUpdateID, upd.FinalUpdateID, upd.PrevFinalID)
	}
	if err := venue.CheckDeltas(upd.Bids, upd.Asks); err != nil {
		return false, err
	}
	book.ApplyDeltas(upd.Bids, upd.Asks)
	c.last = upd.FinalUpdateID
	return true, nil
}
