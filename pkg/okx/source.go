package okx

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/yarkeeb/bookfeed/pkg/venue"
)

const (
	Name = "okx"

	defaultWSURL        = "wss://ws.okx.com:8443/ws/v5/public"
	defaultPingInterval = 25 * time.Second
)

type Config struct {
	// Symbol is the OKX instrument id, e.g. BTC-USDT.
	Symbol       string
	WSURL        string
	PingInterval time.Duration
	ReadTimeout  time.Duration
}

func (c Config) withDefaults() Config {
	if c.WSURL == "" {
		c.WSURL = defaultWSURL
	}
	if c.PingInterval <= 0 {
		c.PingInterval = defaultPingInterval
	}
	return c
}

// Source synchronizes the OKX "books" channel. The snapshot arrives on the
// stream itself and every later update is chained to it by prevSeqId.
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
	stream, err := venue.Dial(ctx, s.cfg.WSURL, venue.StreamOptions{
		ReadTimeout:  s.cfg.ReadTimeout,
		PingInterval: s.cfg.PingInterval,
		PingMessage:  []byte("ping"),
	})
	if err != nil {
		return err
	}
	defer stream.Close()

	if err := stream.WriteJSON(newSubscribeRequest(s.cfg.Symbol)); err != nil {
		return err
	}
	sess.SetPhase(venue.SnapshotFetch)

	c := newChain()
	steady := false
	for {
		data, err := stream.Next(ctx)
		if err != nil {
			return err
		}
		frames, err := parseFrames(data)
		if err != nil {
			return err
		}
		for i := range frames {
			out, err := c.apply(&frames[i])
			if err != nil {
				return err
			}
			switch out {
			case snapshotApplied:
				s.log.Info("snapshot applied",
					zap.Int64("seq_id", c.seq),
					zap.Int("bid", c.book.Bids.Len()),
					zap.Int("ask", c.book.Asks.Len()))
				steady = false
				sess.SetPhase(venue.Bridging)
				sess.Publish(c.book)
			case updateApplied:
				if !steady {
					steady = true
					sess.SetPhase(venue.Steady)
				}
				sess.Publish(c.book)
			}
		}
	}
}
