package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/medconnect/telemed-portal/internal/core/domain"
	"github.com/medconnect/telemed-portal/internal/core/ports"
)

const badgeCap = 9

// NotificationView is the reconciled list presented to the user.
type NotificationView struct {
	Notifications []domain.Notification `json:"notifications"`
	Unread        int                   `json:"unread"`
	Badge         string                `json:"badge"`
}

// NotificationReconciler keeps one ordered list of notifications built from
// backend fetches, with optimistic read marks applied on top.
type NotificationReconciler struct {
	gateway ports.NotificationGateway
	log     zerolog.Logger

	mu      sync.Mutex
	items   []domain.Notification
	unread  int
	issued  uint64 // sequence handed to the latest refresh
	applied uint64 // sequence of the refresh currently shown
}

func NewNotificationReconciler(gateway ports.NotificationGateway, log zerolog.Logger) *NotificationReconciler {
	return &NotificationReconciler{gateway: gateway, log: log}
}

// Refresh fetches the full list and replaces the local one wholesale. A
// response that arrives after a newer refresh was applied is dropped.
func (r *NotificationReconciler) Refresh(ctx context.Context) error {
	r.mu.Lock()
	r.issued++
	seq := r.issued
	r.mu.Unlock()

	list, err := r.gateway.List(ctx)
	if err != nil {
		return fmt.Errorf("refresh notifications: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if seq < r.applied {
		r.log.Debug().Uint64("seq", seq).Uint64("applied", r.applied).Msg("stale notification refresh dropped")
		return nil
	}
	r.applied = seq
	r.items = dedupe(list)
	r.unread = countUnread(r.items)
	return nil
}

// MarkRead flips id to READ locally, then tells the backend. Marking an
// already read notification does nothing. When the backend rejects the
// update the list is resynchronised from the server and the error returned.
func (r *NotificationReconciler) MarkRead(ctx context.Context, id string) error {
	r.mu.Lock()
	idx := r.indexOf(id)
	if idx < 0 {
		r.mu.Unlock()
		return domain.ErrNotificationNotFound
	}
	if r.items[idx].Status == domain.NotificationRead {
		r.mu.Unlock()
		return nil
	}
	r.items[idx].Status = domain.NotificationRead
	if r.unread > 0 {
		r.unread--
	}
	r.mu.Unlock()

	if _, err := r.gateway.MarkRead(ctx, id); err != nil {
		r.log.Warn().Err(err).Str("notification_id", id).Msg("mark read failed, resyncing")
		if rerr := r.Refresh(ctx); rerr != nil {
			r.log.Warn().Err(rerr).Msg("resync after mark read failed")
		}
		return fmt.Errorf("mark notification %s read: %w", id, err)
	}
	return nil
}

// Snapshot returns a copy of the current view.
func (r *NotificationReconciler) Snapshot() NotificationView {
	r.mu.Lock()
	defer r.mu.Unlock()
	return NotificationView{
		Notifications: append([]domain.Notification{}, r.items...),
		Unread:        r.unread,
		Badge:         BadgeLabel(r.unread),
	}
}

// UnreadCount returns the exact unread count.
func (r *NotificationReconciler) UnreadCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.unread
}

// Reset drops everything, typically on logout. In-flight refreshes started
// before the reset are discarded.
func (r *NotificationReconciler) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = nil
	r.unread = 0
	r.issued++
	r.applied = r.issued
}

func (r *NotificationReconciler) indexOf(id string) int {
	for i := range r.items {
		if r.items[i].ID == id {
			return i
		}
	}
	return -1
}

// dedupe keeps the first occurrence of each id, preserving server order.
func dedupe(list []domain.Notification) []domain.Notification {
	seen := make(map[string]struct{}, len(list))
	out := make([]domain.Notification, 0, len(list))
	for _, n := range list {
		if _, ok := seen[n.ID]; ok {
			continue
		}
		seen[n.ID] = struct{}{}
		out = append(out, n)
	}
	return out
}

func countUnread(items []domain.Notification) int {
	n := 0
	for _, it := range items {
		if it.Unread() {
			n++
		}
	}
	return n
}

// BadgeLabel renders the unread badge: empty for zero, the digit up to nine,
// "9+" beyond.
func BadgeLabel(unread int) string {
	switch {
	case unread <= 0:
		return ""
	case unread > badgeCap:
		return strconv.Itoa(badgeCap) + "+"
	default:
		return strconv.Itoa(unread)
	}
}
