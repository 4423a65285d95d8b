package okx

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/yarkeeb/bookfeed/pkg/venue"
)

const channel = "books"

type subscribeRequest struct {
	Op   string         `json:"op"`
	Args []subscribeArg `json:"args"`
}

type subscribeArg struct {
	Channel string `json:"channel"`
	InstID  string `json:"instId"`
}

func newSubscribeRequest(instID string) subscribeRequest {
	return subscribeRequest{
		Op:   "subscribe",
		Args: []subscribeArg{{Channel: channel, InstID: instID}},
	}
}

type frame struct {
	Event  string        `json:"event"`
	Code   string        `json:"code"`
	Msg    string        `json:"msg"`
	Arg    *subscribeArg `json:"arg"`
	Action string        `json:"action"`
	Data   []bookData    `json:"data"`
}

// bookData carries levels under either the long (bids/asks) or the short
// (b/a) keys. Sequence ids are pointers so that an absent field can be told
// apart from zero.
type bookData struct {
	Action    string       `json:"action"`
	Bids      venue.Levels `json:"bids"`
	Asks      venue.Levels `json:"asks"`
	B         venue.Levels `json:"b"`
	A         venue.Levels `json:"a"`
	Ts        string       `json:"ts"`
	SeqID     *int64       `json:"seqId"`
	PrevSeqID *int64       `json:"prevSeqId"`
}

func (d *bookData) bids() venue.Levels { return append(d.Bids, d.B...) }

func (d *bookData) asks() venue.Levels { return append(d.Asks, d.A...) }

var pong = []byte("pong")

// parseFrames decodes one websocket payload, which is either a single frame
// object or an array of them. A literal pong yields no frames.
func parseFrames(data []byte) ([]frame, error) {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, pong) {
		return nil, nil
	}
	if len(data) > 0 && data[0] == '[' {
		var frames []frame
		if err := json.Unmarshal(data, &frames); err != nil {
			return nil, venue.ParseError(err, "frame batch")
		}
		return frames, nil
	}
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, venue.ParseError(err, "frame")
	}
	return []frame{f}, nil
}

func (f *frame) eventError() error {
	if f.Event != "error" {
		return nil
	}
	return venue.ParseError(nil, fmt.Sprintf("event error code=%s msg=%s", f.Code, f.Msg))
}
