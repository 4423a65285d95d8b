package kraken

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/yarkeeb/bookfeed/pkg/types"
	"github.com/yarkeeb/bookfeed/pkg/venue"
)

func newTestSource(t *testing.T, depth int) (*Source, *l2Book) {
	s := NewSource(Config{Symbol: "BTC-USDT", Depth: depth}, zaptest.NewLogger(t))
	return s, &l2Book{book: types.NewOrderBook(Name), depth: s.cfg.Depth}
}

func TestReceive_SnapshotUpdateAndZeroQuantityDelete(t *testing.T) {
	s, l2 := newTestSource(t, 0)

	changed, err := s.receive(l2, []byte(`{
		"channel":"book",
		"type":"snapshot",
		"data":[{
			"symbol":"BTC/USDT",
			"bids":[{"price":"100.0","qty":"1.0"},{"price":"99.5","qty":"2.0"}],
			"asks":[{"price":"100.5","qty":"3.0"}]
		}]
	}`))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []types.Level{{Price: 100.0, Size: 1.0}, {Price: 99.5, Size: 2.0}}, l2.book.Bids.Levels(0))
	assert.Equal(t, []types.Level{{Price: 100.5, Size: 3.0}}, l2.book.Asks.Levels(0))

	changed, err = s.receive(l2, []byte(`{"channel":"book","type":"update",
		"data":[{"bids":[{"price":"100.0","qty":"0"}],"asks":[{"price":"100.5","qty":"1.0"}]}]}`))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []types.Level{{Price: 99.5, Size: 2.0}}, l2.book.Bids.Levels(0))
	assert.Equal(t, []types.Level{{Price: 100.5, Size: 1.0}}, l2.book.Asks.Levels(0))

	_, err = s.receive(l2, []byte(`{"channel":"book","type":"update",
		"data":[{"bids":[{"price":"99.5","qty":"2.5"},{"price":"99.5","qty":"1.1"}]}]}`))
	require.NoError(t, err)
	assert.Equal(t, []types.Level{{Price: 99.5, Size: 1.1}}, l2.book.Bids.Levels(0))
}

func TestReceive_UpdatesIgnoredBeforeSnapshot(t *testing.T) {
	s, l2 := newTestSource(t, 0)

	changed, err := s.receive(l2, []byte(`{"channel":"book","type":"update",
		"data":[{"bids":[{"price":100.0,"qty":1.0}],"asks":[]}]}`))
	require.NoError(t, err)
	assert.False(t, changed)
	assert.True(t, l2.book.Empty())
}

func TestReceive_TruncatesToDepth(t *testing.T) {
	s, l2 := newTestSource(t, 2)

	_, err := s.receive(l2, []byte(`{"channel":"book","type":"snapshot",
		"data":[{"bids":[{"price":10,"qty":1},{"price":9,"qty":1}],"asks":[{"price":11,"qty":1}]}]}`))
	require.NoError(t, err)
	_, err = s.receive(l2, []byte(`{"channel":"book","type":"update",
		"data":[{"bids":[{"price":10.5,"qty":1}],"asks":[]}]}`))
	require.NoError(t, err)
	assert.Equal(t, []types.Level{{Price: 10.5, Size: 1}, {Price: 10, Size: 1}}, l2.book.Bids.Levels(0))
}

func TestReceive_ControlMessages(t *testing.T) {
	s, l2 := newTestSource(t, 0)

	for _, msg := range []string{
		`{"channel":"heartbeat"}`,
		`{"channel":"status","type":"update","data":[{"system":"online","version":"2.0.0"}]}`,
		`{"method":"subscribe","result":{"channel":"book","depth":10,"snapshot":true,"symbol":"BTC/USDT"},"success":true}`,
		`{"method":"pong"}`,
	} {
		changed, err := s.receive(l2, []byte(msg))
		require.NoError(t, err, msg)
		assert.False(t, changed, msg)
	}

	_, err := s.receive(l2, []byte(`{"method":"subscribe","error":"Currency pair not supported","success":false}`))
	assert.Equal(t, venue.FaultParse, venue.Classify(err))

	_, err = s.receive(l2, []byte(`{"channel":"book","type":"snapshot","data":[{"bids":[{"price":"-1","qty":"1"}]}]}`))
	assert.Equal(t, venue.FaultParse, venue.Classify(err))

	_, err = s.receive(l2, []byte(`garbage`))
	assert.Equal(t, venue.FaultParse, venue.Classify(err))
}

func TestSubscribeRequest(t *testing.T) {
	req := newSubscribeRequest("BTC-USDT", 25)
	assert.Equal(t, "subscribe", req.Method)
	assert.Equal(t, []string{"BTC/USDT"}, req.Params.Symbol)
	assert.Equal(t, 25, req.Params.Depth)
	assert.True(t, req.Params.Snapshot)
}

func TestSource_ConnectionLossResyncs(t *testing.T) {
	var (
		mu    sync.Mutex
		books []*types.OrderBook
		conns int
	)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		var sub subscribeRequest
		if err := conn.ReadJSON(&sub); err != nil {
			return
		}
		mu.Lock()
		conns++
		mu.Unlock()
		_ = conn.WriteMessage(websocket.TextMessage, []byte(
			`{"channel":"book","type":"snapshot","data":[{"bids":[{"price":100,"qty":1}],"asks":[]}]}`))
		// dropping the connection is the only failure this venue can observe
	}))
	defer srv.Close()

	w := New(Config{Symbol: "BTC/USDT", WSURL: "ws" + strings.TrimPrefix(srv.URL, "http")},
		zaptest.NewLogger(t), 5*time.Millisecond)
	require.NoError(t, w.Start(context.Background(), func(b *types.OrderBook) {
		mu.Lock()
		defer mu.Unlock()
		books = append(books, b)
	}))
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return conns >= 2 && len(books) >= 3
	}, 2*time.Second, 5*time.Millisecond)
	w.Stop()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []types.Level{{Price: 100, Size: 1}}, books[0].Bids.Levels(0))
	assert.True(t, books[1].Empty())
	for _, b := range books {
		assert.Equal(t, Name, b.Venue)
	}
}

func TestReceive_PhaseFollowsBook(t *testing.T) {
	s, l2 := newTestSource(t, 10)
	assert.Equal(t, venue.SnapshotFetch, l2.phase())

	_, err := s.receive(l2, []byte(`{"channel":"book","type":"snapshot","data":[{"bids":[{"price":100,"qty":1}],"asks":[]}]}`))
	require.NoError(t, err)
	assert.Equal(t, venue.Bridging, l2.phase())

	_, err = s.receive(l2, []byte(`{"channel":"book","type":"update","data":[{"bids":[{"price":99,"qty":2}],"asks":[]}]}`))
	require.NoError(t, err)
	assert.Equal(t, venue.Steady, l2.phase())
}

func TestReceive_NegativeSizes(t *testing.T) {
	s, l2 := newTestSource(t, 10)
	_, err := s.receive(l2, []byte(`{"channel":"book","type":"snapshot","data":[{"bids":[{"price":100,"qty":1},{"price":99,"qty":-1}],"asks":[]}]}`))
	require.NoError(t, err)
	assert.Equal(t, []types.Level{{Price: 100, Size: 1}}, l2.book.Bids.Levels(0))

	_, err = s.receive(l2, []byte(`{"channel":"book","type":"update","data":[{"bids":[{"price":100,"qty":-2}],"asks":[]}]}`))
	assert.Equal(t, venue.FaultParse, venue.Classify(err))
}

func TestSource_ReportsBridgingUntilFirstUpdate(t *testing.T) {
	release := make(chan struct{})
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		var sub subscribeRequest
		if err := conn.ReadJSON(&sub); err != nil {
			return
		}
		_ = conn.WriteMessage(websocket.TextMessage, []byte(
			`{"method":"subscribe","success":true,"result":{"channel":"book"}}`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(
			`{"channel":"book","type":"snapshot","data":[{"bids":[{"price":100,"qty":1}],"asks":[]}]}`))
		select {
		case <-release:
		case <-r.Context().Done():
			return
		}
		_ = conn.WriteMessage(websocket.TextMessage, []byte(
			`{"channel":"book","type":"update","data":[{"bids":[{"price":99,"qty":2}],"asks":[]}]}`))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	w := New(Config{Symbol: "BTC/USDT", WSURL: "ws" + strings.TrimPrefix(srv.URL, "http")},
		zaptest.NewLogger(t), time.Hour)
	require.NoError(t, w.Start(context.Background(), func(*types.OrderBook) {}))
	defer w.Stop()

	require.Eventually(t, func() bool { return w.Phase() == venue.Bridging }, 2*time.Second, 5*time.Millisecond)
	close(release)
	require.Eventually(t, func() bool { return w.Phase() == venue.Steady }, 2*time.Second, 5*time.Millisecond)
}
