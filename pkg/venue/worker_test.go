package venue

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/yarkeeb/bookfeed/internal/metrics"
	"github.com/yarkeeb/bookfeed/pkg/types"
)

type scriptedProtocol struct {
	name  string
	calls atomic.Int32
	steps []func(ctx context.Context, sess *Session) error
}

func (p *scriptedProtocol) Venue() string { return p.name }

func (p *scriptedProtocol) Sync(ctx context.Context, sess *Session) error {
	i := int(p.calls.Add(1)) - 1
	if i < len(p.steps) {
		return p.steps[i](ctx, sess)
	}
	<-ctx.Done()
	return ctx.Err()
}

type recorder struct {
	mu    sync.Mutex
	books []*types.OrderBook
}

func (r *recorder) publish(b *types.OrderBook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.books = append(r.books, b)
}

func (r *recorder) snapshot() []*types.OrderBook {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*types.OrderBook(nil), r.books...)
}

func TestWorker_ResyncsAfterFaultWithEmptyBook(t *testing.T) {
	proto := &scriptedProtocol{name: "worker-test"}
	proto.steps = []func(context.Context, *Session) error{
		func(ctx context.Context, sess *Session) error {
			sess.SetPhase(Steady)
			book := types.NewOrderBook("")
			book.ApplyDeltas([]types.Level{{Price: 100, Size: 1}}, nil)
			sess.Publish(book)
			book.ApplyDeltas([]types.Level{{Price: 100, Size: 9}}, nil)
			return Gapf("expected 5, got 7")
		},
	}
	rec := &recorder{}
	w := NewWorker(proto, zaptest.NewLogger(t), 5*time.Millisecond)

	require.NoError(t, w.Start(context.Background(), rec.publish))
	require.Eventually(t, func() bool { return proto.calls.Load() >= 2 }, time.Second, time.Millisecond)
	w.Stop()

	books := rec.snapshot()
	require.Len(t, books, 2)
	assert.Equal(t, "worker-test", books[0].Venue)
	assert.Equal(t, []types.Level{{Price: 100, Size: 1}}, books[0].Bids.Levels(0), "published books are copies")
	assert.True(t, books[1].Empty())
	assert.Equal(t, "worker-test", books[1].Venue)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.VenueResyncsTotal.WithLabelValues("worker-test", "gap")))
	assert.Equal(t, Disconnected, w.Phase())
}

func TestWorker_StopWaitsForSession(t *testing.T) {
	exited := make(chan struct{})
	proto := &scriptedProtocol{name: "stop-test"}
	proto.steps = []func(context.Context, *Session) error{
		func(ctx context.Context, sess *Session) error {
			sess.SetPhase(Steady)
			<-ctx.Done()
			time.Sleep(20 * time.Millisecond)
			close(exited)
			return ctx.Err()
		},
	}
	w := NewWorker(proto, zaptest.NewLogger(t), time.Hour)
	require.NoError(t, w.Start(context.Background(), func(*types.OrderBook) {}))
	require.Eventually(t, func() bool { return w.Phase() == Steady }, time.Second, time.Millisecond)

	w.Stop()
	select {
	case <-exited:
	default:
		t.Fatal("Stop returned before the session exited")
	}
	assert.Error(t, w.Start(context.Background(), func(*types.OrderBook) {}))
}

func TestWorker_StopDuringBackoff(t *testing.T) {
	proto := &scriptedProtocol{name: "backoff-test"}
	proto.steps = []func(context.Context, *Session) error{
		func(context.Context, *Session) error { return ParseError(nil, "garbage") },
	}
	w := NewWorker(proto, zaptest.NewLogger(t), time.Hour)
	require.NoError(t, w.Start(context.Background(), func(*types.OrderBook) {}))
	require.Eventually(t, func() bool { return proto.calls.Load() == 1 }, time.Second, time.Millisecond)

	stopped := make(chan struct{})
	go func() {
		w.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("worker ignored stop during backoff")
	}
	assert.Equal(t, int32(1), proto.calls.Load())
}

func TestWorker_StopBeforeStart(t *testing.T) {
	w := NewWorker(&scriptedProtocol{name: "idle"}, zaptest.NewLogger(t), 0)
	w.Stop()
	assert.Equal(t, "idle", w.Name())
}
