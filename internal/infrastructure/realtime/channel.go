// Package realtime maintains the push connection that tells the client when
// its notification list changed.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/medconnect/telemed-portal/internal/api/metrics"
)

// Event names exchanged with the backend.
const (
	EventSubscribe       = "subscribeToUserNotifications"
	EventUnsubscribe     = "unsubscribeFromUserNotifications"
	EventNewNotification = "newNotification"
)

const (
	defaultReconnectInterval = 2 * time.Second
	defaultHandshakeTimeout  = 10 * time.Second
	writeTimeout             = 5 * time.Second
)

// ErrNotConnected is returned when sending while no connection is up.
var ErrNotConnected = errors.New("realtime: not connected")

// Envelope is the wire frame: an event name plus an optional JSON payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// TokenSource yields the bearer token used on the websocket handshake.
type TokenSource interface {
	Token() string
}

// Config captures the settings for the realtime connection.
type Config struct {
	URL               string
	ReconnectInterval time.Duration
	HandshakeTimeout  time.Duration
}

// Channel is a single websocket connection with automatic reconnection. The
// current identity is re-subscribed after every successful dial.
type Channel struct {
	url      string
	dialer   *websocket.Dialer
	tokens   TokenSource
	onSignal func()
	limiter  *rate.Limiter
	log      zerolog.Logger

	mu       sync.Mutex
	conn     *websocket.Conn
	identity string

	writeMu sync.Mutex
}

// New builds a channel. onSignal runs on the read goroutine for every
// newNotification event and must not block.
func New(cfg Config, tokens TokenSource, onSignal func(), log zerolog.Logger) *Channel {
	interval := cfg.ReconnectInterval
	if interval <= 0 {
		interval = defaultReconnectInterval
	}
	handshake := cfg.HandshakeTimeout
	if handshake <= 0 {
		handshake = defaultHandshakeTimeout
	}
	return &Channel{
		url:      cfg.URL,
		dialer:   &websocket.Dialer{HandshakeTimeout: handshake, Proxy: http.ProxyFromEnvironment},
		tokens:   tokens,
		onSignal: onSignal,
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
		log:      log,
	}
}

// Run dials, reads and redials until ctx is cancelled.
func (c *Channel) Run(ctx context.Context) {
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return
		}

		conn, err := c.dial(ctx)
		if err != nil {
			metrics.RealtimeConnectsTotal.WithLabelValues("error").Inc()
			c.log.Warn().Err(err).Str("url", c.url).Msg("realtime: dial failed")
			continue
		}
		metrics.RealtimeConnectsTotal.WithLabelValues("ok").Inc()

		c.attach(conn)
		err = c.readLoop(ctx, conn)
		c.detach(conn)

		if ctx.Err() != nil {
			return
		}
		c.log.Warn().Err(err).Msg("realtime: connection lost, reconnecting")
	}
}

// SetIdentity switches the subscribed user. An empty id unsubscribes the
// previous one. Send failures are logged; the identity is still recorded
// and will be subscribed on the next connection.
func (c *Channel) SetIdentity(userID string) {
	c.mu.Lock()
	prev := c.identity
	c.identity = userID
	conn := c.conn
	c.mu.Unlock()

	if conn == nil || prev == userID {
		return
	}
	if prev != "" {
		if err := c.send(conn, EventUnsubscribe, prev); err != nil {
			c.log.Warn().Err(err).Str("user_id", prev).Msg("realtime: unsubscribe failed")
		}
	}
	if userID != "" {
		if err := c.send(conn, EventSubscribe, userID); err != nil {
			c.log.Warn().Err(err).Str("user_id", userID).Msg("realtime: subscribe failed")
		}
	}
}

// Connected reports whether a connection is currently up.
func (c *Channel) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Close unsubscribes the current identity, best effort, and closes the
// connection. Run returns once its context is cancelled.
func (c *Channel) Close() {
	c.mu.Lock()
	conn := c.conn
	identity := c.identity
	c.conn = nil
	c.mu.Unlock()

	if conn == nil {
		return
	}
	if identity != "" {
		if err := c.send(conn, EventUnsubscribe, identity); err != nil {
			c.log.Debug().Err(err).Msg("realtime: unsubscribe on close failed")
		}
	}
	c.writeMu.Lock()
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeTimeout))
	c.writeMu.Unlock()
	_ = conn.Close()
}

func (c *Channel) dial(ctx context.Context) (*websocket.Conn, error) {
	header := http.Header{}
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			header.Set("Authorization", "Bearer "+tok)
		}
	}
	conn, resp, err := c.dialer.DialContext(ctx, c.url, header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("realtime dial: %w", err)
	}
	return conn, nil
}

func (c *Channel) attach(conn *websocket.Conn) {
	c.mu.Lock()
	c.conn = conn
	identity := c.identity
	c.mu.Unlock()

	c.log.Info().Str("url", c.url).Msg("realtime: connected")
	if identity == "" {
		return
	}
	if err := c.send(conn, EventSubscribe, identity); err != nil {
		c.log.Warn().Err(err).Str("user_id", identity).Msg("realtime: subscribe failed")
	}
}

func (c *Channel) detach(conn *websocket.Conn) {
	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
	}
	c.mu.Unlock()
	_ = conn.Close()
}

func (c *Channel) readLoop(ctx context.Context, conn *websocket.Conn) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			c.log.Warn().Err(err).Msg("realtime: malformed frame ignored")
			continue
		}
		metrics.RealtimeEventsTotal.WithLabelValues("in", env.Event).Inc()

		switch env.Event {
		case EventNewNotification:
			if c.onSignal != nil {
				c.onSignal()
			}
		default:
			c.log.Debug().Str("event", env.Event).Msg("realtime: unhandled event")
		}
	}
}

func (c *Channel) send(conn *websocket.Conn, event, userID string) error {
	if conn == nil {
		return ErrNotConnected
	}
	data, err := json.Marshal(userID)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(Envelope{Event: event, Data: data}); err != nil {
		return fmt.Errorf("realtime send %s: %w", event, err)
	}
	metrics.RealtimeEventsTotal.WithLabelValues("out", event).Inc()
	return nil
}
