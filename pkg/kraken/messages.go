package kraken

import (
	"encoding/json"
	"strings"

	"github.com/yarkeeb/bookfeed/pkg/venue"
)

const (
	bookChannel = "book"

	typeSnapshot = "snapshot"
	typeUpdate   = "update"
)

type subscribeParams struct {
	Channel  string   `json:"channel"`
	Symbol   []string `json:"symbol"`
	Depth    int      `json:"depth"`
	Snapshot bool     `json:"snapshot"`
}

type subscribeRequest struct {
	Method string          `json:"method"`
	Params subscribeParams `json:"params"`
}

// WsSymbol converts a configured pair such as BTC-USDT into the BASE/QUOTE
// form the v2 API expects.
func WsSymbol(symbol string) string {
	return strings.ReplaceAll(symbol, "-", "/")
}

func newSubscribeRequest(symbol string, depth int) subscribeRequest {
	return subscribeRequest{
		Method: "subscribe",
		Params: subscribeParams{
			Channel:  bookChannel,
			Symbol:   []string{WsSymbol(symbol)},
			Depth:    depth,
			Snapshot: true,
		},
	}
}

type wsHeader struct {
	Method  string          `json:"method"`
	Success *bool           `json:"success"`
	Error   string          `json:"error"`
	Channel string          `json:"channel"`
	Type    string          `json:"type"`
	Data    json.RawMessage `json:"data"`
}

type wsBook struct {
	Symbol   string       `json:"symbol"`
	Bids     venue.Levels `json:"bids"`
	Asks     venue.Levels `json:"asks"`
	Checksum uint32       `json:"checksum"`
}

func parseBooks(data json.RawMessage) ([]wsBook, error) {
	var books []wsBook
	if err := json.Unmarshal(data, &books); err != nil {
		return nil, venue.ParseError(err, "book data")
	}
	return books, nil
}
