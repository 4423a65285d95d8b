package okx

import (
	"github.com/yarkeeb/bookfeed/pkg/types"
	"github.com/yarkeeb/bookfeed/pkg/venue"
)

type outcome int

const (
	ignored outcome = iota
	snapshotApplied
	updateApplied
)

// chain folds OKX book frames into a book, tracking the last applied seqId.
type chain struct {
	book     *types.OrderBook
	synced   bool
	seq      int64
	seqKnown bool
}

func newChain() *chain {
	return &chain{book: types.NewOrderBook(Name)}
}

func (c *chain) apply(f *frame) (outcome, error) {
	if err := f.eventError(); err != nil {
		return ignored, err
	}
	if f.Event != "" {
		return ignored, nil
	}
	if f.Arg != nil && f.Arg.Channel != "" && f.Arg.Channel != channel {
		return ignored, nil
	}
	if len(f.Data) == 0 {
		return ignored, nil
	}
	d := &f.Data[0]

	if f.Action == "snapshot" || d.Action == "snapshot" || (d.PrevSeqID != nil && *d.PrevSeqID == -1) {
		c.book.Replace(d.bids(), d.asks())
		c.synced = true
		c.seqKnown = d.SeqID != nil && *d.SeqID >= 0
		if c.seqKnown {
			c.seq = *d.SeqID
		}
		return snapshotApplied, nil
	}
	if !c.synced {
		return ignored, nil
	}
	if d.PrevSeqID != nil && c.seqKnown && *d.PrevSeqID != c.seq {
		return ignored, venue.Gapf("book at seqId %d, update has prevSeqId %d", c.seq, *d.PrevSeqID)
	}
	if err := venue.CheckDeltas(d.bids(), d.asks()); err != nil {
		return ignored, err
	}
	c.book.ApplyDeltas(d.bids(), d.asks())
	if d.SeqID != nil && *d.SeqID >= 0 {
		c.seq = *d.SeqID
		c.seqKnown = true
	}
	return updateApplied, nil
}
