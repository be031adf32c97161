package queue

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/medconnect/telemed-portal/internal/api/metrics"
)

// Refreshable is the notification list being kept current.
type Refreshable interface {
	Refresh(ctx context.Context) error
	UnreadCount() int
}

// SessionGate reports whether a session is active; refreshes are skipped
// without one.
type SessionGate interface {
	Token() string
}

// Refresher runs notification refreshes on a single worker. Triggers that
// arrive while one is already pending collapse into it, so a burst of
// realtime signals costs one fetch.
type Refresher struct {
	pending  chan struct{}
	target   Refreshable
	gate     SessionGate
	interval time.Duration
	log      zerolog.Logger
}

// NewRefresher creates a Refresher. A positive pollInterval also refreshes
// on a fixed schedule.
func NewRefresher(target Refreshable, gate SessionGate, pollInterval time.Duration, log zerolog.Logger) *Refresher {
	return &Refresher{
		pending:  make(chan struct{}, 1),
		target:   target,
		gate:     gate,
		interval: pollInterval,
		log:      log,
	}
}

// Start launches the worker goroutine. It stops when ctx is cancelled.
func (r *Refresher) Start(ctx context.Context) {
	go r.run(ctx)
}

// Trigger requests a refresh without blocking.
func (r *Refresher) Trigger() {
	select {
	case r.pending <- struct{}{}:
	default:
	}
}

func (r *Refresher) run(ctx context.Context) {
	var tick <-chan time.Time
	if r.interval > 0 {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.pending:
			r.refresh(ctx)
		case <-tick:
			r.refresh(ctx)
		}
	}
}

// refresh swallows errors: background refreshes never surface to the user.
func (r *Refresher) refresh(ctx context.Context) {
	if r.gate != nil && r.gate.Token() == "" {
		return
	}

	start := time.Now()
	err := r.target.Refresh(ctx)
	metrics.NotificationRefreshDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.NotificationRefreshTotal.WithLabelValues("error").Inc()
		r.log.Debug().Err(err).Msg("notification refresh failed")
		return
	}
	metrics.NotificationRefreshTotal.WithLabelValues("ok").Inc()
	metrics.NotificationsUnread.Set(float64(r.target.UnreadCount()))
}
