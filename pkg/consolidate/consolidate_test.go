package consolidate

import (
	"math"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yarkeeb/bookfeed/pkg/types"
)

func bookFrom(bids, asks []types.Level) *types.OrderBook {
	ob := types.NewOrderBook("test")
	ob.ApplyDeltas(bids, asks)
	return ob
}

func mustConsolidate(t *testing.T, cfg Config, books ...*types.OrderBook) *types.ConsolidatedBook {
	t.Helper()
	merged, err := Consolidate(books, cfg)
	require.NoError(t, err)
	return merged
}

func TestConsolidate_MergeAcrossSourcesWithTickAndTopN(t *testing.T) {
	a := bookFrom(
		[]types.Level{{Price: 100.0, Size: 1.0}, {Price: 99.9, Size: 2.0}},
		[]types.Level{{Price: 100.5, Size: 3.0}, {Price: 100.6, Size: 1.0}},
	)
	b := bookFrom(
		[]types.Level{{Price: 100.0, Size: 2.0}, {Price: 99.4, Size: 1.0}},
		[]types.Level{{Price: 100.5, Size: 1.0}, {Price: 101.1, Size: 1.0}},
	)

	merged := mustConsolidate(t, Config{Tick: 0.5, TopN: 2}, a, b)
	assert.Equal(t, []types.Level{{Price: 100.0, Size: 3.0}, {Price: 99.5, Size: 2.0}}, merged.Bids)
	assert.Equal(t, []types.Level{{Price: 100.5, Size: 4.0}, {Price: 101.0, Size: 1.0}}, merged.Asks)
}

func TestConsolidate_SameBidAcrossVenuesIsSummed(t *testing.T) {
	a := bookFrom([]types.Level{{Price: 100.0, Size: 1.0}}, nil)
	b := bookFrom([]types.Level{{Price: 100.0, Size: 2.0}}, nil)

	merged := mustConsolidate(t, Config{Tick: 0.5, TopN: 1}, a, b)
	require.Len(t, merged.Bids, 1)
	assert.Equal(t, types.Level{Price: 100.0, Size: 3.0}, merged.Bids[0])
	assert.Empty(t, merged.Asks)
}

func TestConsolidate_FloorBidsAndCeilAsksWithEpsilons(t *testing.T) {
	a := bookFrom(
		[]types.Level{{Price: 99.999999999, Size: 1.0}, {Price: 100.0, Size: 1.0}},
		[]types.Level{{Price: 101.0000000001, Size: 2.0}, {Price: 101.5, Size: 1.0}},
	)
	b := bookFrom(
		[]types.Level{{Price: 100.25, Size: 3.0}},
		[]types.Level{{Price: 101.249999999, Size: 4.0}},
	)

	merged := mustConsolidate(t, Config{Tick: 0.5, TopN: 50}, a, b)
	require.GreaterOrEqual(t, len(merged.Bids), 2)
	assert.Equal(t, types.Level{Price: 100.0, Size: 4.0}, merged.Bids[0])
	assert.Equal(t, types.Level{Price: 99.5, Size: 1.0}, merged.Bids[1])
	require.NotEmpty(t, merged.Asks)
	assert.Equal(t, types.Level{Price: 101.5, Size: 7.0}, merged.Asks[0])
}

func TestConsolidate_BoundaryPrices(t *testing.T) {
	c, err := New(Config{Tick: 0.5, TopN: 10})
	require.NoError(t, err)

	assert.Equal(t, 99.5, unscale(c.bidBucket(99.999999999)))
	assert.Equal(t, 101.5, unscale(c.askBucket(101.0000000001)))
	assert.Equal(t, 101.0, unscale(c.bidBucket(101.0)))
	assert.Equal(t, 101.0, unscale(c.askBucket(101.0)))
}

func TestConsolidate_ExactBoundaryStability(t *testing.T) {
	a := bookFrom(
		[]types.Level{{Price: 101.0, Size: 1.0}, {Price: 100.5, Size: 2.0}},
		[]types.Level{{Price: 102.0, Size: 3.0}, {Price: 102.5, Size: 4.0}},
	)

	merged := mustConsolidate(t, Config{Tick: 0.5, TopN: 50}, a)
	assert.Equal(t, []types.Level{{Price: 101.0, Size: 1.0}, {Price: 100.5, Size: 2.0}}, merged.Bids)
	assert.Equal(t, []types.Level{{Price: 102.0, Size: 3.0}, {Price: 102.5, Size: 4.0}}, merged.Asks)
}

func TestConsolidate_ExactMultiplesOfDecimalTick(t *testing.T) {
	// 0.3 / 0.1 is 2.9999999999999996 in float64.
	a := bookFrom([]types.Level{{Price: 0.3, Size: 1.0}}, []types.Level{{Price: 0.7, Size: 1.0}})

	merged := mustConsolidate(t, Config{Tick: 0.1, TopN: 5}, a)
	assert.Equal(t, []types.Level{{Price: 0.3, Size: 1.0}}, merged.Bids)
	assert.Equal(t, []types.Level{{Price: 0.7, Size: 1.0}}, merged.Asks)
}

func TestConsolidate_SubTickBidLeftOut(t *testing.T) {
	book := bookFrom(
		[]types.Level{{Price: 0.25, Size: 1.0}, {Price: 0.05, Size: 4.0}},
		[]types.Level{{Price: 0.05, Size: 2.0}},
	)
	merged := mustConsolidate(t, Config{Tick: 0.1, TopN: 5}, book)
	assert.Equal(t, []types.Level{{Price: 0.2, Size: 1.0}}, merged.Bids)
	assert.Equal(t, []types.Level{{Price: 0.1, Size: 2.0}}, merged.Asks)
	for _, l := range merged.Bids {
		assert.Greater(t, l.Price, 0.0)
	}
}

func TestConsolidate_TopNAppliesAfterAlignment(t *testing.T) {
	a := bookFrom(
		[]types.Level{{Price: 100.49, Size: 1.0}, {Price: 99.99, Size: 2.0}},
		[]types.Level{{Price: 101.01, Size: 1.0}, {Price: 101.51, Size: 2.0}},
	)

	merged := mustConsolidate(t, Config{Tick: 0.5, TopN: 1}, a)
	require.Len(t, merged.Bids, 1)
	require.Len(t, merged.Asks, 1)
	assert.Equal(t, 100.0, merged.Bids[0].Price)
	assert.Equal(t, 101.5, merged.Asks[0].Price)
}

func TestConsolidate_Deterministic(t *testing.T) {
	a := bookFrom(
		[]types.Level{{Price: 100.13, Size: 0.1}, {Price: 100.07, Size: 0.2}, {Price: 99.91, Size: 0.3}},
		[]types.Level{{Price: 100.21, Size: 0.4}, {Price: 100.33, Size: 0.5}},
	)
	b := bookFrom(
		[]types.Level{{Price: 100.11, Size: 0.7}, {Price: 99.97, Size: 0.11}},
		[]types.Level{{Price: 100.29, Size: 0.13}},
	)
	at := time.UnixMilli(1700000000000)
	c, err := New(Config{Tick: 0.1, TopN: 3})
	require.NoError(t, err)
	c = c.WithClock(func() time.Time { return at })

	first := c.Consolidate(a, b)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, c.Consolidate(a, b))
	}
	assert.Equal(t, at, first.Time)
}

func TestConsolidate_EmptyAndNilInputs(t *testing.T) {
	merged := mustConsolidate(t, Config{Tick: 1, TopN: 1}, nil, types.NewOrderBook("empty"))
	assert.Empty(t, merged.Bids)
	assert.Empty(t, merged.Asks)

	merged = mustConsolidate(t, Config{Tick: 1, TopN: 1})
	assert.Empty(t, merged.Bids)
}

func TestConsolidate_InvalidConfig(t *testing.T) {
	book := bookFrom([]types.Level{{Price: 100, Size: 1}}, nil)
	for name, cfg := range map[string]Config{
		"zero tick":     {Tick: 0, TopN: 1},
		"negative tick": {Tick: -0.5, TopN: 1},
		"nan tick":      {Tick: math.NaN(), TopN: 1},
		"inf tick":      {Tick: math.Inf(1), TopN: 1},
		"tiny tick":     {Tick: 1e-12, TopN: 1},
		"zero topN":     {Tick: 0.5, TopN: 0},
		"negative topN": {Tick: 0.5, TopN: -3},
	} {
		t.Run(name, func(t *testing.T) {
			merged, err := Consolidate([]*types.OrderBook{book}, cfg)
			assert.Nil(t, merged)
			assert.True(t, errors.Is(err, ErrInvalidConfig))

			_, err = New(cfg)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
		})
	}
}
