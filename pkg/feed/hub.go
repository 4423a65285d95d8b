package feed

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/yarkeeb/bookfeed/internal/metrics"
	"github.com/yarkeeb/bookfeed/pkg/consolidate"
	"github.com/yarkeeb/bookfeed/pkg/types"
)

// Hub holds the latest published book of every venue. Slots are replaced
// wholesale and never mutated in place, so readers can share the pointers
// they copy out.
type Hub struct {
	mu    sync.Mutex
	books map[string]*types.OrderBook
}

// NewHub pre-seeds an empty slot for each configured venue.
func NewHub(venues ...string) *Hub {
	h := &Hub{books: make(map[string]*types.OrderBook, len(venues))}
	for _, v := range venues {
		h.books[v] = types.NewOrderBook(v)
	}
	return h
}

// Publish stores book as its venue's latest state. The caller hands over
// ownership of book.
func (h *Hub) Publish(book *types.OrderBook) {
	if book == nil {
		return
	}
	h.mu.Lock()
	h.books[book.Venue] = book
	h.mu.Unlock()
}

// Books returns the current books ordered by venue name.
func (h *Hub) Books() []*types.OrderBook {
	h.mu.Lock()
	ret := make([]*types.OrderBook, 0, len(h.books))
	for _, b := range h.books {
		ret = append(ret, b)
	}
	h.mu.Unlock()

	sort.Slice(ret, func(i, j int) bool { return ret[i].Venue < ret[j].Venue })
	return ret
}

func (h *Hub) Book(venue string) (*types.OrderBook, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	b, ok := h.books[venue]
	return b, ok
}

// Snapshot consolidates the current books.
func (h *Hub) Snapshot(c *consolidate.Consolidator) *types.ConsolidatedBook {
	start := time.Now()
	ret := c.Consolidate(h.Books()...)
	metrics.ConsolidationSeconds.Observe(time.Since(start).Seconds())
	return ret
}

// Stream emits a consolidated snapshot right away and then every interval
// until ctx is done or emit fails. Intermediate venue states between two
// ticks are never queued.
func (h *Hub) Stream(ctx context.Context, interval time.Duration, c *consolidate.Consolidator,
	emit func(*types.ConsolidatedBook) error) error {
	if err := emit(h.Snapshot(c)); err != nil {
		return err
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := emit(h.Snapshot(c)); err != nil {
				return err
			}
		}
	}
}
