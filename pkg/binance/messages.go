package binance

import (
	"encoding/json"

	"github.com/yarkeeb/bookfeed/pkg/venue"
)

type depthSnapshot struct {
	LastUpdateID int64        `json:"lastUpdateId"`
	Bids         venue.Levels `json:"bids"`
	Asks         venue.Levels `json:"asks"`
}

// depthUpdate covers both spot and futures diff-depth events. Every field
// Binance sends is declared, since encoding/json would otherwise fold "E"
// into "e".
type depthUpdate struct {
	Event           string       `json:"e"`
	EventTime       int64        `json:"E"`
	TransactionTime int64        `json:"T"`
	Symbol          string       `json:"s"`
	FirstUpdateID   int64        `json:"U"`
	FinalUpdateID   int64        `json:"u"`
	PrevFinalID     int64        `json:"pu"`
	Bids            venue.Levels `json:"b"`
	Asks            venue.Levels `json:"a"`
}

type combinedFrame struct {
	Stream string          `json:"stream"`
	Data   json.RawMessage `json:"data"`
}

func parseUpdate(data []byte) (*depthUpdate, error) {
	var frame combinedFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return nil, venue.ParseError(err, "depth frame")
	}
	if frame.Stream != "" && len(frame.Data) > 0 {
		data = frame.Data
	}

	var upd depthUpdate
	if err := json.Unmarshal(data, &upd); err != nil {
		return nil, venue.ParseError(err, "depth update")
	}
	if upd.Event != "depthUpdate" {
		return nil, venue.ParseError(nil, "unexpected event "+upd.Event)
	}
	if upd.FirstUpdateID > upd.FinalUpdateID {
		return nil, venue.ParseError(nil, "depth update window is inverted")
	}
	return &upd, nil
}
