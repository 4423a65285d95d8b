package sink

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/protobuf/encoding/protojson"

	"github.com/yarkeeb/bookfeed/api"
	"github.com/yarkeeb/bookfeed/internal/metrics"
	"github.com/yarkeeb/bookfeed/pkg/consolidate"
	"github.com/yarkeeb/bookfeed/pkg/feed"
	"github.com/yarkeeb/bookfeed/pkg/rpc"
	"github.com/yarkeeb/bookfeed/pkg/types"
)

const writeTimeout = 2 * time.Second

// Sink is an outlet for encoded consolidated snapshots.
type Sink interface {
	Name() string
	Write(ctx context.Context, symbol string, payload []byte) error
	Close() error
}

// Runner feeds every sink from the hub's distribution loop.
type Runner struct {
	hub          *feed.Hub
	consolidator *consolidate.Consolidator
	symbol       string
	interval     time.Duration
	sinks        []Sink
	log          *zap.Logger
}

func NewRunner(hub *feed.Hub, c *consolidate.Consolidator, symbol string, interval time.Duration, logger *zap.Logger, sinks ...Sink) *Runner {
	return &Runner{
		hub:          hub,
		consolidator: c,
		symbol:       types.NormalizeSymbol(symbol),
		interval:     interval,
		sinks:        sinks,
		log:          logger,
	}
}

// Run blocks until ctx is done. Write failures are logged and counted but
// never stop the loop.
func (r *Runner) Run(ctx context.Context) error {
	if len(r.sinks) == 0 {
		return nil
	}
	return r.hub.Stream(ctx, r.interval, r.consolidator, func(book *types.ConsolidatedBook) error {
		r.write(ctx, rpc.ConvertToProtocol(r.symbol, book, 0))
		return nil
	})
}

func (r *Runner) write(ctx context.Context, book *api.ConsolidatedBook) {
	payload, err := protojson.Marshal(book)
	if err != nil {
		r.log.Error("encode snapshot", zap.Error(err))
		return
	}
	for _, s := range r.sinks {
		wctx, cancel := context.WithTimeout(ctx, writeTimeout)
		err := s.Write(wctx, r.symbol, payload)
		cancel()
		if err != nil {
			if ctx.Err() == nil {
				r.log.Warn("sink write failed", zap.String("sink", s.Name()), zap.Error(err))
			}
			metrics.SinkWritesTotal.WithLabelValues(s.Name(), "error").Inc()
			continue
		}
		metrics.SinkWritesTotal.WithLabelValues(s.Name(), "ok").Inc()
	}
}

// Close closes every sink and returns the first error.
func (r *Runner) Close() error {
	var first error
	for _, s := range r.sinks {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
