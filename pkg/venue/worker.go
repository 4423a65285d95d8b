package venue

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/yarkeeb/bookfeed/internal/metrics"
	"github.com/yarkeeb/bookfeed/pkg/types"
)

const DefaultRetryInterval = time.Second

// Protocol is the venue specific half of a synchronizer. Sync runs one
// connect, snapshot, bridge and steady-state cycle with a fresh book and
// returns the error that ended it.
type Protocol interface {
	Venue() string
	Sync(ctx context.Context, sess *Session) error
}

// Session is what a Protocol sees of its worker during one cycle.
type Session struct {
	w       *Worker
	publish types.Publisher
}

func (s *Session) SetPhase(p Phase) { s.w.setPhase(p) }

// Publish hands a copy of book to the distribution side.
func (s *Session) Publish(book *types.OrderBook) {
	snapshot := book.Clone()
	snapshot.Venue = s.w.Name()
	venue := snapshot.Venue
	metrics.VenueUpdatesTotal.WithLabelValues(venue).Inc()
	metrics.VenueBookLevels.WithLabelValues(venue, types.Bid.String()).Set(float64(snapshot.Bids.Len()))
	metrics.VenueBookLevels.WithLabelValues(venue, types.Ask.String()).Set(float64(snapshot.Asks.Len()))
	s.publish(snapshot)
}

// Worker drives a Protocol forever: every failed cycle is logged, the
// venue's published book is emptied and a new cycle starts after a fixed
// backoff.
type Worker struct {
	proto   Protocol
	log     *zap.Logger
	backoff time.Duration
	phase   atomic.Int32

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

var _ types.Source = (*Worker)(nil)

func NewWorker(proto Protocol, logger *zap.Logger, backoff time.Duration) *Worker {
	if backoff <= 0 {
		backoff = DefaultRetryInterval
	}
	return &Worker{
		proto:   proto,
		log:     logger.With(zap.String("venue", proto.Venue())),
		backoff: backoff,
	}
}

func (w *Worker) Name() string { return w.proto.Venue() }

func (w *Worker) Phase() Phase { return Phase(w.phase.Load()) }

func (w *Worker) Start(ctx context.Context, publish types.Publisher) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done != nil {
		return errors.Errorf("%s: worker already started", w.Name())
	}
	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.done = make(chan struct{})
	go func(done chan struct{}) {
		defer close(done)
		w.run(ctx, publish)
	}(w.done)
	return nil
}

// Stop cancels the worker and blocks until it has exited and released its
// connection.
func (w *Worker) Stop() {
	w.mu.Lock()
	cancel, done := w.cancel, w.done
	w.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (w *Worker) run(ctx context.Context, publish types.Publisher) {
	sess := &Session{w: w, publish: publish}
	for {
		w.setPhase(Disconnected)
		if ctx.Err() != nil {
			w.log.Info("source stopped")
			return
		}

		err := w.proto.Sync(ctx, sess)
		if ctx.Err() != nil {
			w.setPhase(Disconnected)
			w.log.Info("source stopped")
			return
		}
		if err == nil {
			err = errors.New("session ended")
		}
		fault := Classify(err)
		w.log.Warn("session failed, resyncing",
			zap.String("fault", string(fault)),
			zap.Duration("backoff", w.backoff),
			zap.Error(err))
		metrics.VenueResyncsTotal.WithLabelValues(w.Name(), string(fault)).Inc()
		w.setPhase(Disconnected)
		publish(types.NewOrderBook(w.Name()))

		timer := time.NewTimer(w.backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
		case <-timer.C:
		}
	}
}

func (w *Worker) setPhase(p Phase) {
	if Phase(w.phase.Swap(int32(p))) == p {
		return
	}
	metrics.VenuePhase.WithLabelValues(w.Name()).Set(float64(p))
	w.log.Debug("phase changed", zap.Stringer("phase", p))
}
