package types

import (
	"github.com/HuKeping/rbtree"
)

type Side int

const (
	Bid Side = iota
	Ask
)

func (s Side) String() string {
	if s == Bid {
		return "bid"
	}
	return "ask"
}

type Level struct {
	Price float64
	Size  float64
}

type levelItem struct {
	price float64
	size  float64
}

func (l *levelItem) Less(than rbtree.Item) bool {
	return l.price < than.(*levelItem).price
}

// BookSide keeps one size per price. Bids iterate from the highest price,
// asks from the lowest.
type BookSide struct {
	side Side
	tree *rbtree.Rbtree
}

func newBookSide(side Side) *BookSide {
	return &BookSide{side: side, tree: rbtree.New()}
}

func (b *BookSide) Side() Side { return b.side }

func (b *BookSide) Len() int { return int(b.tree.Len()) }

func (b *BookSide) Get(price float64) (float64, bool) {
	item := b.tree.Get(&levelItem{price: price})
	if item == nil {
		return 0, false
	}
	return item.(*levelItem).size, true
}

// Set stores size at price; a zero size removes the price.
func (b *BookSide) Set(price, size float64) {
	if size == 0 {
		b.tree.Delete(&levelItem{price: price})
		return
	}
	if item := b.tree.Get(&levelItem{price: price}); item != nil {
		item.(*levelItem).size = size
		return
	}
	b.tree.Insert(&levelItem{price: price, size: size})
}

// Apply applies deltas in order, so the last delta for a price wins.
func (b *BookSide) Apply(deltas []Level) {
	for _, d := range deltas {
		b.Set(d.Price, d.Size)
	}
}

// Ascend visits levels best price first until fn returns false.
func (b *BookSide) Ascend(fn func(Level) bool) {
	if b.tree.Len() == 0 {
		return
	}
	visit := func(i rbtree.Item) bool {
		item := i.(*levelItem)
		return fn(Level{Price: item.price, Size: item.size})
	}
	if b.side == Bid {
		b.tree.Descend(b.tree.Max(), visit)
		return
	}
	b.tree.Ascend(b.tree.Min(), visit)
}

func (b *BookSide) Best() (Level, bool) {
	var (
		best Level
		ok   bool
	)
	b.Ascend(func(l Level) bool {
		best, ok = l, true
		return false
	})
	return best, ok
}

// Levels returns up to n levels, best first. n <= 0 returns all of them.
func (b *BookSide) Levels(n int) []Level {
	size := b.Len()
	if n > 0 && n < size {
		size = n
	}
	ret := make([]Level, 0, size)
	b.Ascend(func(l Level) bool {
		ret = append(ret, l)
		return len(ret) < size
	})
	return ret
}

// Truncate drops every level past the first n.
func (b *BookSide) Truncate(n int) {
	if n < 0 || b.Len() <= n {
		return
	}
	var drop []float64
	i := 0
	b.Ascend(func(l Level) bool {
		if i >= n {
			drop = append(drop, l.Price)
		}
		i++
		return true
	})
	for _, price := range drop {
		b.tree.Delete(&levelItem{price: price})
	}
}

func (b *BookSide) clone() *BookSide {
	c := newBookSide(b.side)
	b.Ascend(func(l Level) bool {
		c.tree.Insert(&levelItem{price: l.Price, size: l.Size})
		return true
	})
	return c
}

// OrderBook is a venue-local L2 book. It is not safe for concurrent
// mutation; workers publish clones.
type OrderBook struct {
	Venue string
	Bids  *BookSide
	Asks  *BookSide
}

func NewOrderBook(venue string) *OrderBook {
	return &OrderBook{
		Venue: venue,
		Bids:  newBookSide(Bid),
		Asks:  newBookSide(Ask),
	}
}

func (o *OrderBook) Side(side Side) *BookSide {
	if side == Bid {
		return o.Bids
	}
	return o.Asks
}

// ApplyDeltas applies bid and ask deltas with insert/overwrite/delete
// semantics.
func (o *OrderBook) ApplyDeltas(bids, asks []Level) {
	o.Bids.Apply(bids)
	o.Asks.Apply(asks)
}

// Replace drops the current content and loads snapshot levels. Levels with
// a non-positive size are not stored.
func (o *OrderBook) Replace(bids, asks []Level) {
	o.Bids = newBookSide(Bid)
	o.Asks = newBookSide(Ask)
	for _, l := range bids {
		if l.Size > 0 {
			o.Bids.Set(l.Price, l.Size)
		}
	}
	for _, l := range asks {
		if l.Size > 0 {
			o.Asks.Set(l.Price, l.Size)
		}
	}
}

func (o *OrderBook) Truncate(depth int) {
	o.Bids.Truncate(depth)
	o.Asks.Truncate(depth)
}

func (o *OrderBook) Empty() bool {
	return o.Bids.Len() == 0 && o.Asks.Len() == 0
}

func (o *OrderBook) Clone() *OrderBook {
	return &OrderBook{
		Venue: o.Venue,
		Bids:  o.Bids.clone(),
		Asks:  o.Asks.clone(),
	}
}
