package venue

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

const (
	defaultHandshakeTimeout = 10 * time.Second
	defaultWriteTimeout     = 5 * time.Second
	streamBuffer            = 1024
)

type StreamOptions struct {
	// ReadTimeout bounds the wait for any frame; zero disables it.
	ReadTimeout time.Duration
	// PingInterval, when set, sends PingMessage as a text frame on that cadence.
	PingInterval time.Duration
	PingMessage  []byte
}

// Stream is a websocket connection whose frames are pumped into a buffer
// from the moment it is dialed, so nothing is lost while the owner is busy
// fetching a snapshot.
type Stream struct {
	conn *websocket.Conn
	opts StreamOptions

	writeMu sync.Mutex
	msgs    chan []byte
	readErr error

	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

func Dial(ctx context.Context, url string, opts StreamOptions) (*Stream, error) {
	dialer := websocket.Dialer{
		Proxy:            websocket.DefaultDialer.Proxy,
		HandshakeTimeout: defaultHandshakeTimeout,
	}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "dial %s", url)
	}
	s := &Stream{
		conn: conn,
		opts: opts,
		msgs: make(chan []byte, streamBuffer),
		done: make(chan struct{}),
	}
	s.wg.Add(1)
	go s.readLoop()
	if opts.PingInterval > 0 && len(opts.PingMessage) > 0 {
		s.wg.Add(1)
		go s.pingLoop()
	}
	return s, nil
}

func (s *Stream) readLoop() {
	defer s.wg.Done()
	defer close(s.msgs)
	for {
		if s.opts.ReadTimeout > 0 {
			if err := s.conn.SetReadDeadline(time.Now().Add(s.opts.ReadTimeout)); err != nil {
				s.readErr = err
				return
			}
		}
		msgType, data, err := s.conn.ReadMessage()
		if err != nil {
			s.readErr = err
			return
		}
		if msgType != websocket.TextMessage {
			s.readErr = errors.Errorf("unexpected message type %d", msgType)
			return
		}
		select {
		case s.msgs <- data:
		case <-s.done:
			return
		}
	}
}

func (s *Stream) pingLoop() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.opts.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			if err := s.write(websocket.TextMessage, s.opts.PingMessage); err != nil {
				return
			}
		}
	}
}

// Next returns the next buffered frame. It fails once the connection is
// broken or ctx is done.
func (s *Stream) Next(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case data, ok := <-s.msgs:
		if !ok {
			if s.readErr == nil {
				return nil, errors.New("stream closed")
			}
			return nil, errors.Wrap(s.readErr, "read")
		}
		return data, nil
	}
}

func (s *Stream) WriteJSON(v interface{}) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.SetWriteDeadline(time.Now().Add(defaultWriteTimeout)); err != nil {
		return err
	}
	return errors.Wrap(s.conn.WriteJSON(v), "write")
}

func (s *Stream) write(msgType int, data []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.SetWriteDeadline(time.Now().Add(defaultWriteTimeout)); err != nil {
		return err
	}
	return s.conn.WriteMessage(msgType, data)
}

// Close tears the connection down and waits for the stream goroutines to
// exit.
func (s *Stream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		s.writeMu.Lock()
		_ = s.conn.SetWriteDeadline(time.Now().Add(time.Second))
		_ = s.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		s.writeMu.Unlock()
		err = s.conn.Close()
		s.wg.Wait()
	})
	return err
}
