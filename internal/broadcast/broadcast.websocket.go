package broadcast

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/roadvision/store/internal/config"
	nuts "github.com/vaudience/go-nuts"
)

// Options tunes a websocket subscriber
type Options struct {
	SendBuffer     int
	WriteWait      time.Duration
	PongWait       time.Duration
	MaxMessageSize int64
}

// OptionsFromConfig converts the broadcast config section. Unset values
// fall back to DefaultOptions.
func OptionsFromConfig(cfg config.BroadcastConfig) Options {
	opts := DefaultOptions()
	if cfg.SendBuffer > 0 {
		opts.SendBuffer = cfg.SendBuffer
	}
	if cfg.WriteWait > 0 {
		opts.WriteWait = cfg.WriteWait
	}
	if cfg.PongWait > 0 {
		opts.PongWait = cfg.PongWait
	}
	if cfg.MaxMessageSize > 0 {
		opts.MaxMessageSize = cfg.MaxMessageSize
	}
	return opts
}

// DefaultOptions returns the options used when none are configured
func DefaultOptions() Options {
	return Options{
		SendBuffer:     256,
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		MaxMessageSize: 64 << 10,
	}
}

func (o Options) pingPeriod() time.Duration {
	return (o.PongWait * 9) / 10
}

// WebSocketSubscriber adapts a websocket connection to Subscriber. Outbound
// frames go through a buffered queue drained by a single writer goroutine.
type WebSocketSubscriber struct {
	id        string
	conn      *websocket.Conn
	opts      Options
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// NewWebSocketSubscriber wraps conn
func NewWebSocketSubscriber(conn *websocket.Conn, opts Options) *WebSocketSubscriber {
	return &WebSocketSubscriber{
		id:   nuts.NID("ws", 12),
		conn: conn,
		opts: opts,
		send: make(chan []byte, opts.SendBuffer),
		done: make(chan struct{}),
	}
}

func (s *WebSocketSubscriber) ID() string {
	return s.id
}

// Send queues payload without blocking
func (s *WebSocketSubscriber) Send(payload []byte) error {
	select {
	case <-s.done:
		return ErrSubscriberClosed
	default:
	}
	select {
	case s.send <- payload:
		return nil
	default:
		return ErrSubscriberBacklogged
	}
}

// Close sends a close frame and tears the connection down. Safe to call
// more than once and from any goroutine.
func (s *WebSocketSubscriber) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		deadline := time.Now().Add(s.opts.WriteWait)
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), deadline)
		err = s.conn.Close()
	})
	return err
}

// Serve registers conn with the registry and blocks until the connection
// ends. The subscriber is unregistered and closed on every exit path.
func (r *Registry) Serve(conn *websocket.Conn, opts Options) {
	sub := NewWebSocketSubscriber(conn, opts)
	if err := r.Subscribe(sub); err != nil {
		nuts.L.Warnf("[Broadcast] Rejecting subscriber %s: %v", sub.ID(), err)
		sub.Close()
		return
	}
	defer func() {
		r.Unsubscribe(sub)
		sub.Close()
	}()

	go sub.writePump()
	sub.readPump()
}

// readPump consumes and discards inbound frames until the peer goes away
func (s *WebSocketSubscriber) readPump() {
	s.conn.SetReadLimit(s.opts.MaxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(s.opts.PongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(s.opts.PongWait))
		return nil
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				nuts.L.Warnf("[Broadcast] Subscriber %s read error: %v", s.id, err)
			}
			return
		}
	}
}

func (s *WebSocketSubscriber) writePump() {
	ticker := time.NewTicker(s.opts.pingPeriod())
	defer func() {
		ticker.Stop()
		s.conn.Close() // unblocks readPump
	}()

	for {
		select {
		case <-s.done:
			return

		case payload := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(s.opts.WriteWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				nuts.L.Warnf("[Broadcast] Subscriber %s write error: %v", s.id, err)
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(s.opts.WriteWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
