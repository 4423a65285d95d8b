package rpc

import (
	"github.com/yarkeeb/bookfeed/api"
	"github.com/yarkeeb/bookfeed/pkg/types"
)

func ConvertToProtocol(symbol string, book *types.ConsolidatedBook, depth int) *api.ConsolidatedBook {
	convertSide := func(levels []types.Level) []*api.Level {
		if depth > 0 && len(levels) > depth {
			levels = levels[:depth]
		}
		ret := make([]*api.Level, 0, len(levels))
		for _, l := range levels {
			ret = append(ret, &api.Level{Price: l.Price, Size: l.Size})
		}
		return ret
	}

	return &api.ConsolidatedBook{
		TsMs:   book.Time.UnixMilli(),
		Bids:   convertSide(book.Bids),
		Asks:   convertSide(book.Asks),
		Symbol: symbol,
	}
}
