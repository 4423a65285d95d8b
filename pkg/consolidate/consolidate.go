package consolidate

import (
	"math"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/tidwall/btree"

	"github.com/yarkeeb/bookfeed/pkg/types"
)

// Prices are bucketed on a 1e-8 fixed-point grid.
const scaleExp = 8

var ErrInvalidConfig = errors.New("invalid consolidation config")

type Config struct {
	Tick float64
	TopN int
}

func (c Config) Validate() error {
	if math.IsNaN(c.Tick) || math.IsInf(c.Tick, 0) || c.Tick <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "tick must be finite and > 0, got %v", c.Tick)
	}
	if scaleTick(c.Tick) <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "tick %v is finer than 1e-%d", c.Tick, scaleExp)
	}
	if c.TopN < 1 {
		return errors.Wrapf(ErrInvalidConfig, "topN must be >= 1, got %d", c.TopN)
	}
	return nil
}

func scaleTick(tick float64) int64 {
	return decimal.NewFromFloat(tick).Shift(scaleExp).Round(0).IntPart()
}

type Consolidator struct {
	tick int64
	topN int
	now  func() time.Time
}

func New(cfg Config) (*Consolidator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Consolidator{
		tick: scaleTick(cfg.Tick),
		topN: cfg.TopN,
		now:  time.Now,
	}, nil
}

// WithClock replaces the capture timestamp source.
func (c *Consolidator) WithClock(now func() time.Time) *Consolidator {
	cp := *c
	cp.now = now
	return &cp
}

func (c *Consolidator) TopN() int { return c.topN }

// Consolidate merges books into one tick-aligned book. Bids are floored and
// asks ceiled to the tick grid, sizes landing in the same bucket are summed
// and each side keeps its best topN buckets. A bid below one tick floors to
// a zero price and is left out. Nil books are skipped.
func (c *Consolidator) Consolidate(books ...*types.OrderBook) *types.ConsolidatedBook {
	var bids, asks btree.Map[int64, float64]
	for _, book := range books {
		if book == nil {
			continue
		}
		book.Bids.Ascend(func(l types.Level) bool {
			if l.Size <= 0 {
				return true
			}
			if key := c.bidBucket(l.Price); key > 0 {
				add(&bids, key, l.Size)
			}
			return true
		})
		book.Asks.Ascend(func(l types.Level) bool {
			if l.Size > 0 {
				add(&asks, c.askBucket(l.Price), l.Size)
			}
			return true
		})
	}

	ret := &types.ConsolidatedBook{
		Time: c.now(),
		Bids: make([]types.Level, 0, min(bids.Len(), c.topN)),
		Asks: make([]types.Level, 0, min(asks.Len(), c.topN)),
	}
	bids.Reverse(func(key int64, size float64) bool {
		ret.Bids = append(ret.Bids, types.Level{Price: unscale(key), Size: size})
		return len(ret.Bids) < c.topN
	})
	asks.Scan(func(key int64, size float64) bool {
		ret.Asks = append(ret.Asks, types.Level{Price: unscale(key), Size: size})
		return len(ret.Asks) < c.topN
	})
	return ret
}

// bidBucket rounds down so the bucket never overstates what a buyer pays.
func (c *Consolidator) bidBucket(price float64) int64 {
	p := decimal.NewFromFloat(price).Shift(scaleExp).Floor().IntPart()
	return floorDiv(p, c.tick) * c.tick
}

// askBucket rounds up so the bucket never understates what a seller asks.
func (c *Consolidator) askBucket(price float64) int64 {
	p := decimal.NewFromFloat(price).Shift(scaleExp).Ceil().IntPart()
	return -floorDiv(-p, c.tick) * c.tick
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func unscale(key int64) float64 {
	f, _ := decimal.New(key, -scaleExp).Float64()
	return f
}

func add(m *btree.Map[int64, float64], key int64, size float64) {
	cur, _ := m.Get(key)
	m.Set(key, cur+size)
}

// Consolidate validates cfg and merges books in one call.
func Consolidate(books []*types.OrderBook, cfg Config) (*types.ConsolidatedBook, error) {
	c, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return c.Consolidate(books...), nil
}
