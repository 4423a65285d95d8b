package binance

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/yarkeeb/bookfeed/pkg/types"
	"github.com/yarkeeb/bookfeed/pkg/venue"
)

const (
	Name = "binance"

	defaultWSURL      = "wss://stream.binance.com:9443/ws"
	defaultRESTURL    = "https://api.binance.com"
	defaultDepthLimit = 1000
	defaultRESTTime   = 10 * time.Second
)

type Config struct {
	Symbol      string
	WSURL       string
	RESTURL     string
	DepthLimit  int
	SnapshotRPS float64
	ReadTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.WSURL == "" {
		c.WSURL = defaultWSURL
	}
	if c.RESTURL == "" {
		c.RESTURL = defaultRESTURL
	}
	if c.DepthLimit <= 0 {
		c.DepthLimit = defaultDepthLimit
	}
	return c
}

// Source synchronizes a Binance diff-depth stream against REST snapshots.
type Source struct {
	cfg     Config
	client  *http.Client
	limiter *rate.Limiter
	log     *zap.Logger
}

func NewSource(cfg Config, logger *zap.Logger) *Source {
	cfg = cfg.withDefaults()
	var limiter *rate.Limiter
	if cfg.SnapshotRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.SnapshotRPS), 1)
	}
	return &Source{
		cfg:     cfg,
		client:  &http.Client{Timeout: defaultRESTTime},
		limiter: limiter,
		log:     logger.With(zap.String("venue", Name)),
	}
}

// New returns a ready to start worker for cfg.
func New(cfg Config, logger *zap.Logger, retryInterval time.Duration) *venue.Worker {
	return venue.NewWorker(NewSource(cfg, logger), logger, retryInterval)
}

func (s *Source) Venue() string { return Name }

func (s *Source) streamURL() string {
	return fmt.Sprintf("%s/%s@depth@100ms", strings.TrimRight(s.cfg.WSURL, "/"), strings.ToLower(s.cfg.Symbol))
}

func (s *Source) snapshotURL() string {
	q := url.Values{}
	q.Set("symbol", strings.ToUpper(s.cfg.Symbol))
	q.Set("limit", fmt.Sprint(s.cfg.DepthLimit))
	return strings.TrimRight(s.cfg.RESTURL, "/") + "/api/v3/depth?" + q.Encode()
}

// Sync opens the stream before taking the snapshot so that every update
// after the snapshot is buffered, then bridges and applies updates until
// the stream breaks or shows a gap.
func (s *Source) Sync(ctx context.Context, sess *venue.Session) error {
	sess.SetPhase(venue.Connecting)
	stream, err := venue.Dial(ctx, s.streamURL(), venue.StreamOptions{ReadTimeout: s.cfg.ReadTimeout})
	if err != nil {
		return err
	}
	defer stream.Close()

	sess.SetPhase(venue.SnapshotFetch)
	var snap depthSnapshot
	if err := venue.FetchJSON(ctx, s.client, s.limiter, s.snapshotURL(), &snap); err != nil {
		return err
	}
	book := types.NewOrderBook(Name)
	book.Replace(snap.Bids, snap.Asks)
	cur := cursor{last: snap.LastUpdateID}
	s.log.Info("snapshot applied",
		zap.Int64("last_update_id", cur.last),
		zap.Int("bid", book.Bids.Len()),
		zap.Int("ask", book.Asks.Len()))
	sess.Publish(book)

	sess.SetPhase(venue.Bridging)
	bridged := false
	for {
		data, err := stream.Next(ctx)
		if err != nil {
			return err
		}
		upd, err := parseUpdate(data)
		if err != nil {
			return err
		}
		// A gap while bridging means the snapshot is older than the oldest
		// buffered update; skipping ahead can never bridge, so resnapshot.
		applied, err := cur.apply(book, upd)
		if err != nil {
			return err
		}
		if !applied {
			continue
		}
		sess.Publish(book)
		if !bridged {
			bridged = true
			sess.SetPhase(venue.Steady)
			s.log.Info("stream bridged", zap.Int64("last_update_id", cur.last))
		}
	}
}
