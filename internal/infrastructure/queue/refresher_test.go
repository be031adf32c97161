package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type stubTarget struct {
	mu      sync.Mutex
	calls   int
	err     error
	started chan struct{}
	release chan struct{}
}

func (s *stubTarget) Refresh(_ context.Context) error {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.started != nil {
		s.started <- struct{}{}
	}
	if s.release != nil {
		<-s.release
	}
	return s.err
}

func (s *stubTarget) UnreadCount() int { return 3 }

func (s *stubTarget) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type stubGate string

func (g stubGate) Token() string { return string(g) }

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestRefresher_CoalescesBurst(t *testing.T) {
	target := &stubTarget{started: make(chan struct{}, 8), release: make(chan struct{})}
	r := NewRefresher(target, stubGate("tok"), 0, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.Start(ctx)

	r.Trigger()
	<-target.started // first refresh in flight

	for i := 0; i < 5; i++ {
		r.Trigger()
	}
	close(target.release)

	waitFor(t, func() bool { return target.count() >= 2 })
	time.Sleep(50 * time.Millisecond)
	if got := target.count(); got != 2 {
		t.Fatalf("expected burst to collapse into one extra refresh, got %d calls", got)
	}
}

func TestRefresher_SkipsWithoutSession(t *testing.T) {
	target := &stubTarget{}
	r := NewRefresher(target, stubGate(""), 0, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.Start(ctx)

	r.Trigger()
	time.Sleep(50 * time.Millisecond)
	if target.count() != 0 {
		t.Fatalf("expected no refresh while logged out")
	}
}

func TestRefresher_ErrorsAreSwallowed(t *testing.T) {
	target := &stubTarget{err: errors.New("network down")}
	r := NewRefresher(target, stubGate("tok"), 0, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.Start(ctx)

	r.Trigger()
	waitFor(t, func() bool { return target.count() == 1 })
	r.Trigger()
	waitFor(t, func() bool { return target.count() == 2 })
}

func TestRefresher_Polls(t *testing.T) {
	target := &stubTarget{}
	r := NewRefresher(target, stubGate("tok"), 10*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.Start(ctx)

	waitFor(t, func() bool { return target.count() >= 2 })
}
