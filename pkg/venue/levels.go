package venue

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"github.com/pkg/errors"

	"github.com/yarkeeb/bookfeed/pkg/types"
)

// Levels decodes price/size pairs sent either as [price, size, ...] tuples
// or as {"price": p, "qty": s} objects ("size" is accepted for qty). Values
// may be JSON numbers or numeric strings.
type Levels []types.Level

func (l *Levels) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return ParseError(err, "levels")
	}
	out := make(Levels, 0, len(raw))
	for _, r := range raw {
		lvl, err := parseLevel(r)
		if err != nil {
			return err
		}
		out = append(out, lvl)
	}
	*l = out
	return nil
}

func parseLevel(raw json.RawMessage) (types.Level, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return types.Level{}, ParseError(nil, "empty level")
	}
	var priceRaw, sizeRaw json.RawMessage
	switch raw[0] {
	case '[':
		var parts []json.RawMessage
		if err := json.Unmarshal(raw, &parts); err != nil {
			return types.Level{}, ParseError(err, "level tuple")
		}
		if len(parts) < 2 {
			return types.Level{}, ParseError(nil, "level tuple needs price and size")
		}
		priceRaw, sizeRaw = parts[0], parts[1]
	case '{':
		var obj struct {
			Price json.RawMessage `json:"price"`
			Qty   json.RawMessage `json:"qty"`
			Size  json.RawMessage `json:"size"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return types.Level{}, ParseError(err, "level object")
		}
		priceRaw, sizeRaw = obj.Price, obj.Qty
		if sizeRaw == nil {
			sizeRaw = obj.Size
		}
	default:
		return types.Level{}, ParseError(nil, "level is neither tuple nor object")
	}

	price, err := parseNumber(priceRaw)
	if err != nil {
		return types.Level{}, ParseError(err, "level price")
	}
	size, err := parseNumber(sizeRaw)
	if err != nil {
		return types.Level{}, ParseError(err, "level size")
	}
	if price <= 0 {
		return types.Level{}, ParseError(nil, "level price must be positive")
	}
	return types.Level{Price: price, Size: size}, nil
}

// CheckDeltas rejects negative sizes in an incremental update. Snapshots
// let them through and drop them on Replace.
func CheckDeltas(bids, asks []types.Level) error {
	for _, side := range [][]types.Level{bids, asks} {
		for _, l := range side {
			if l.Size < 0 {
				return ParseError(nil, "update level size must not be negative")
			}
		}
	}
	return nil
}

func parseNumber(raw json.RawMessage) (float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, errors.New("missing value")
	}
	s := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.Errorf("non-finite value %q", s)
	}
	return v, nil
}
