// Package analytics reads the consolidated feed as a consumer. Bids are
// assumed sorted high to low and asks low to high, with unique prices and
// positive sizes, so the first level of each side is the best one and no
// input is re-validated here.
package analytics

import "github.com/yarkeeb/bookfeed/api"

// BBO returns the best bid and ask levels, or false if either side is empty.
func BBO(book *api.ConsolidatedBook) (bid, ask *api.Level, ok bool) {
	if len(book.GetBids()) == 0 || len(book.GetAsks()) == 0 {
		return nil, nil, false
	}
	return book.Bids[0], book.Asks[0], true
}

// VWAPAsksToPrice consumes asks up to ceiling inclusive.
func VWAPAsksToPrice(asks []*api.Level, ceiling float64) (vwap, qty float64) {
	var notional float64
	for _, l := range asks {
		if l.Price > ceiling {
			break
		}
		qty += l.Size
		notional += l.Size * l.Price
	}
	if qty > 0 {
		vwap = notional / qty
	}
	return vwap, qty
}

// VWAPBidsToPrice consumes bids down to floor inclusive.
func VWAPBidsToPrice(bids []*api.Level, floor float64) (vwap, qty float64) {
	var notional float64
	for _, l := range bids {
		if l.Price < floor {
			break
		}
		qty += l.Size
		notional += l.Size * l.Price
	}
	if qty > 0 {
		vwap = notional / qty
	}
	return vwap, qty
}

// VWAPForNotional walks levels in order until target quote notional is
// reached; the last level touched is filled partially. If the side runs out
// first the whole side is reported.
func VWAPForNotional(levels []*api.Level, target float64) (vwap, qty float64) {
	if target <= 0 {
		return 0, 0
	}
	var notional float64
	for _, l := range levels {
		levelNotional := l.Price * l.Size
		if notional+levelNotional >= target {
			qty += (target - notional) / l.Price
			notional = target
			break
		}
		qty += l.Size
		notional += levelNotional
	}
	if qty > 0 {
		vwap = notional / qty
	}
	return vwap, qty
}

type PriceBand struct {
	Bps      int
	UpQty    float64
	UpVWAP   float64
	DownQty  float64
	DownVWAP float64
}

// PriceBands measures liquidity within each bps distance of the mid price.
func PriceBands(book *api.ConsolidatedBook, bps []int) ([]PriceBand, bool) {
	bid, ask, ok := BBO(book)
	if !ok {
		return nil, false
	}
	mid := 0.5 * (bid.Price + ask.Price)
	ret := make([]PriceBand, 0, len(bps))
	for _, bp := range bps {
		band := PriceBand{Bps: bp}
		band.UpVWAP, band.UpQty = VWAPAsksToPrice(book.Asks, mid*(1+float64(bp)*1e-4))
		band.DownVWAP, band.DownQty = VWAPBidsToPrice(book.Bids, mid*(1-float64(bp)*1e-4))
		ret = append(ret, band)
	}
	return ret, true
}

type VolumeBand struct {
	Notional float64
	Qty      float64
	VWAP     float64
}

// VolumeBands prices buying each notional from the asks.
func VolumeBands(book *api.ConsolidatedBook, notionals []float64) []VolumeBand {
	ret := make([]VolumeBand, 0, len(notionals))
	for _, n := range notionals {
		vwap, qty := VWAPForNotional(book.Asks, n)
		ret = append(ret, VolumeBand{Notional: n, Qty: qty, VWAP: vwap})
	}
	return ret
}
