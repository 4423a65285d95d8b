// Package kraken synchronizes the Kraken v2 "book" channel.
//
// The channel tags messages as snapshot or update and carries no sequence
// numbers. Updates are applied only after a snapshot, but a message dropped
// in between cannot be noticed here: only the loss of the connection itself
// triggers a resync. A session reports Bridging while it holds a snapshot
// with no update on top yet and Steady from the first applied update.
package kraken

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/yarkeeb/bookfeed/pkg/types"
	"github.com/yarkeeb/bookfeed/pkg/venue"
)

const (
	Name = "kraken"

	defaultWsURL = "wss://ws.kraken.com/v2"
	defaultDepth = 100
)

type Config struct {
	// Symbol is a pair like BTC-USDT or BTC/USDT.
	Symbol      string
	WSURL       string
	Depth       int
	ReadTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.WSURL == "" {
		c.WSURL = defaultWsURL
	}
	if c.Depth <= 0 {
		c.Depth = defaultDepth
	}
	return c
}

type Source struct {
	cfg Config
	log *zap.Logger
}

func NewSource(cfg Config, logger *zap.Logger) *Source {
	return &Source{
		cfg: cfg.withDefaults(),
		log: logger.With(zap.String("venue", Name)),
	}
}

func New(cfg Config, logger *zap.Logger, retryInterval time.Duration) *venue.Worker {
	return venue.NewWorker(NewSource(cfg, logger), logger, retryInterval)
}

func (s *Source) Venue() string { return Name }

func (s *Source) Sync(ctx context.Context, sess *venue.Session) error {
	sess.SetPhase(venue.Connecting)
	stream, err := venue.Dial(ctx, s.cfg.WSURL, venue.StreamOptions{ReadTimeout: s.cfg.ReadTimeout})
	if err != nil {
		return err
	}
	defer stream.Close()

	if err := stream.WriteJSON(newSubscribeRequest(s.cfg.Symbol, s.cfg.Depth)); err != nil {
		return err
	}
	sess.SetPhase(venue.SnapshotFetch)

	l2 := &l2Book{book: types.NewOrderBook(Name), depth: s.cfg.Depth}
	for {
		data, err := stream.Next(ctx)
		if err != nil {
			return err
		}
		changed, err := s.receive(l2, data)
		if err != nil {
			return err
		}
		if changed {
			sess.Publish(l2.book)
		}
		sess.SetPhase(l2.phase())
	}
}

func (s *Source) receive(l2 *l2Book, data []byte) (bool, error) {
	var header wsHeader
	if err := json.Unmarshal(data, &header); err != nil {
		return false, venue.ParseError(err, "message")
	}
	if header.Method != "" {
		if header.Success != nil && !*header.Success {
			return false, venue.ParseError(nil, header.Method+" rejected: "+header.Error)
		}
		return false, nil
	}
	if header.Channel != bookChannel {
		return false, nil
	}

	switch header.Type {
	case typeSnapshot:
		books, err := parseBooks(header.Data)
		if err != nil {
			return false, err
		}
		if !l2.onSnapshot(books) {
			return false, nil
		}
		s.log.Info("snapshot applied",
			zap.Int("bid", l2.book.Bids.Len()),
			zap.Int("ask", l2.book.Asks.Len()))
		return true, nil
	case typeUpdate:
		books, err := parseBooks(header.Data)
		if err != nil {
			return false, err
		}
		if l2.synced && len(books) > 0 {
			if err := venue.CheckDeltas(books[0].Bids, books[0].Asks); err != nil {
				return false, err
			}
		}
		return l2.onUpdate(books), nil
	default:
		return false, venue.ParseError(nil, "unknown book message type "+header.Type)
	}
}

// l2Book is the per-connection book and its only continuity state: whether
// a snapshot has been seen.
type l2Book struct {
	book    *types.OrderBook
	depth   int
	synced  bool
	updated bool
}

func (l *l2Book) phase() venue.Phase {
	switch {
	case !l.synced:
		return venue.SnapshotFetch
	case !l.updated:
		return venue.Bridging
	default:
		return venue.Steady
	}
}

func (l *l2Book) onSnapshot(books []wsBook) bool {
	if len(books) == 0 {
		return false
	}
	l.book.Replace(books[0].Bids, books[0].Asks)
	l.synced = true
	l.updated = false
	return true
}

func (l *l2Book) onUpdate(books []wsBook) bool {
	if !l.synced || len(books) == 0 {
		return false
	}
	l.book.ApplyDeltas(books[0].Bids, books[0].Asks)
	l.book.Truncate(l.depth)
	l.updated = true
	return true
}
