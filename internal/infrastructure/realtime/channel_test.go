package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

type fakeBackend struct {
	upgrader websocket.Upgrader
	received chan Envelope
	conns    chan *websocket.Conn
	auth     chan string
}

func newFakeBackend(t *testing.T) (*fakeBackend, string) {
	t.Helper()
	fb := &fakeBackend{
		received: make(chan Envelope, 16),
		conns:    make(chan *websocket.Conn, 4),
		auth:     make(chan string, 4),
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case fb.auth <- r.Header.Get("Authorization"):
		default:
		}
		conn, err := fb.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		fb.conns <- conn
		for {
			var env Envelope
			if err := conn.ReadJSON(&env); err != nil {
				return
			}
			fb.received <- env
		}
	}))
	t.Cleanup(srv.Close)
	return fb, "ws" + strings.TrimPrefix(srv.URL, "http")
}

type staticToken string

func (s staticToken) Token() string { return string(s) }

func expectEnvelope(t *testing.T, ch <-chan Envelope, event, userID string) {
	t.Helper()
	select {
	case env := <-ch:
		if env.Event != event {
			t.Fatalf("expected event %s, got %s", event, env.Event)
		}
		var got string
		if err := json.Unmarshal(env.Data, &got); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if got != userID {
			t.Fatalf("expected payload %q, got %q", userID, got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", event)
	}
}

func nextConn(t *testing.T, ch <-chan *websocket.Conn) *websocket.Conn {
	t.Helper()
	select {
	case c := <-ch:
		return c
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for connection")
		return nil
	}
}

func startChannel(t *testing.T, url string, onSignal func()) *Channel {
	t.Helper()
	ch := New(Config{URL: url, ReconnectInterval: 10 * time.Millisecond}, staticToken("tok"), onSignal, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		ch.Run(ctx)
	}()
	t.Cleanup(func() {
		ch.Close()
		cancel()
		<-done
	})
	return ch
}

func TestChannel_SubscribesOnConnectAndSignals(t *testing.T) {
	fb, url := newFakeBackend(t)
	signals := make(chan struct{}, 4)

	ch := New(Config{URL: url, ReconnectInterval: 10 * time.Millisecond}, staticToken("tok"), func() { signals <- struct{}{} }, zerolog.Nop())
	ch.SetIdentity("u-1")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ch.Run(ctx)

	if got := <-fb.auth; got != "Bearer tok" {
		t.Fatalf("expected bearer token on handshake, got %q", got)
	}
	conn := nextConn(t, fb.conns)
	expectEnvelope(t, fb.received, EventSubscribe, "u-1")

	if err := conn.WriteJSON(Envelope{Event: EventNewNotification}); err != nil {
		t.Fatalf("server write: %v", err)
	}
	select {
	case <-signals:
	case <-time.After(2 * time.Second):
		t.Fatalf("expected refresh signal")
	}
}

func TestChannel_ResubscribesAfterReconnect(t *testing.T) {
	fb, url := newFakeBackend(t)
	ch := startChannel(t, url, nil)
	ch.SetIdentity("u-7")

	first := nextConn(t, fb.conns)
	expectEnvelope(t, fb.received, EventSubscribe, "u-7")

	_ = first.Close()

	nextConn(t, fb.conns)
	expectEnvelope(t, fb.received, EventSubscribe, "u-7")
}

func TestChannel_UnsubscribeOnLogout(t *testing.T) {
	fb, url := newFakeBackend(t)
	ch := startChannel(t, url, nil)

	nextConn(t, fb.conns)
	for deadline := time.Now().Add(2 * time.Second); !ch.Connected(); {
		if time.Now().After(deadline) {
			t.Fatalf("channel never connected")
		}
		time.Sleep(5 * time.Millisecond)
	}

	ch.SetIdentity("u-1")
	expectEnvelope(t, fb.received, EventSubscribe, "u-1")

	ch.SetIdentity("")
	expectEnvelope(t, fb.received, EventUnsubscribe, "u-1")
}

func TestChannel_IgnoresMalformedFrames(t *testing.T) {
	fb, url := newFakeBackend(t)
	signals := make(chan struct{}, 4)
	startChannel(t, url, func() { signals <- struct{}{} })

	conn := nextConn(t, fb.conns)
	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatalf("server write: %v", err)
	}
	if err := conn.WriteJSON(Envelope{Event: EventNewNotification}); err != nil {
		t.Fatalf("server write: %v", err)
	}
	select {
	case <-signals:
	case <-time.After(2 * time.Second):
		t.Fatalf("expected signal after malformed frame")
	}
}

func TestChannel_SetIdentityWhileOfflineIsSafe(t *testing.T) {
	ch := New(Config{URL: "ws://127.0.0.1:1"}, nil, nil, zerolog.Nop())
	ch.SetIdentity("u-1")
	ch.SetIdentity("")
	ch.Close()
	if ch.Connected() {
		t.Fatalf("expected disconnected channel")
	}
}
