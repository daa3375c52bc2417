// Package ws provides the WebSocket board feed for browser displays.
package ws

import (
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	zlog "github.com/rs/zerolog/log"

	linetimerv1 "github.com/osa030/linetimer/internal/api/linetimerv1"
	"github.com/osa030/linetimer/internal/app/session"
	"github.com/osa030/linetimer/internal/domain/game"
)

// Path is where the board feed is mounted.
const Path = "/ws/board"

var (
	errClientClosed = errors.New("websocket client closed")
	errClientSlow   = errors.New("websocket client send buffer full")
)

// Config holds configuration for WebSocket connections.
type Config struct {
	WriteTimeout   time.Duration
	ReadTimeout    time.Duration
	PingInterval   time.Duration
	MaxMessageSize int64
	SendBuffer     int
	AllowedOrigins []string // "*" allows any origin
}

// DefaultConfig returns the default WebSocket configuration.
func DefaultConfig() Config {
	return Config{
		WriteTimeout:   5 * time.Second,
		ReadTimeout:    60 * time.Second,
		PingInterval:   30 * time.Second,
		MaxMessageSize: 512,
		SendBuffer:     32,
		AllowedOrigins: []string{"*"},
	}
}

// Handler upgrades requests and streams boards to each connection.
type Handler struct {
	session  *session.Manager
	upgrader websocket.Upgrader
	config   Config
}

// NewHandler creates a board feed handler.
func NewHandler(sess *session.Manager, cfg Config) *Handler {
	if cfg.SendBuffer < 1 {
		cfg.SendBuffer = 1
	}
	h := &Handler{
		session: sess,
		config:  cfg,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.config.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		zlog.Debug().Msgf("websocket upgrade failed: remote=%s err=%v", r.RemoteAddr, err)
		return
	}

	c := &client{
		id:     uuid.New().String(),
		conn:   conn,
		config: h.config,
		send:   make(chan *game.Board, h.config.SendBuffer),
		done:   make(chan struct{}),
	}

	subscriptionID, initial := h.session.Subscribe(c)
	zlog.Info().Msgf("websocket display connected: connection_id=%s remote=%s", c.id, r.RemoteAddr)

	go c.writePump(initial, h.session.Done())
	c.readPump()

	h.session.Unsubscribe(subscriptionID)
	zlog.Info().Msgf("websocket display disconnected: connection_id=%s", c.id)
}

// client is one WebSocket connection.
type client struct {
	id     string
	conn   *websocket.Conn
	config Config
	send   chan *game.Board
	done   chan struct{}
}

// Send implements notification.Stream. It never blocks; a full buffer
// closes the connection and reports an error so the subscriber is dropped.
func (c *client) Send(board *game.Board) error {
	select {
	case <-c.done:
		return errClientClosed
	default:
	}

	select {
	case c.send <- board:
		return nil
	default:
		c.conn.Close()
		return errClientSlow
	}
}

// writePump writes the initial board, then queued boards newer than the
// last one written, and pings until the connection or the session ends.
func (c *client) writePump(initial *game.Board, sessionDone <-chan struct{}) {
	ticker := time.NewTicker(c.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
	if err := c.conn.WriteJSON(&linetimerv1.WatchResponse{Initial: true, Board: initial}); err != nil {
		zlog.Debug().Msgf("websocket write failed: connection_id=%s err=%v", c.id, err)
		return
	}
	lastSeq := initial.SequenceNo

	for {
		select {
		case <-c.done:
			return

		case <-sessionDone:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "session closed"))
			return

		case board := <-c.send:
			if board.SequenceNo <= lastSeq {
				continue
			}
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
			if err := c.conn.WriteJSON(&linetimerv1.WatchResponse{Board: board}); err != nil {
				zlog.Debug().Msgf("websocket write failed: connection_id=%s err=%v", c.id, err)
				return
			}
			lastSeq = board.SequenceNo

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				zlog.Debug().Msgf("websocket ping failed: connection_id=%s err=%v", c.id, err)
				return
			}
		}
	}
}

// readPump discards client messages and keeps the read deadline alive.
// It returns when the connection closes.
func (c *client) readPump() {
	defer func() {
		close(c.done)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.config.ReadTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.config.ReadTimeout))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zlog.Debug().Msgf("websocket closed unexpectedly: connection_id=%s err=%v", c.id, err)
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(c.config.ReadTimeout))
	}
}
