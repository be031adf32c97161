package service

import (
	"github.com/medconnect/telemed-portal/internal/core/domain"
	"github.com/medconnect/telemed-portal/internal/core/ports"
)

// LiveSync keeps the realtime subscription and the notification list in step
// with the session.
type LiveSync struct {
	channel    ports.RealtimeChannel
	reconciler *NotificationReconciler
	refresh    ports.RefreshTrigger
}

func NewLiveSync(channel ports.RealtimeChannel, reconciler *NotificationReconciler, refresh ports.RefreshTrigger) *LiveSync {
	return &LiveSync{channel: channel, reconciler: reconciler, refresh: refresh}
}

// Bind registers the sync as a listener on store.
func (l *LiveSync) Bind(store *SessionStore) {
	store.OnChange(l.HandleSessionChange)
}

// HandleSessionChange subscribes the new identity and refreshes, or
// unsubscribes and clears the list when the session ends.
func (l *LiveSync) HandleSessionChange(prev, next *domain.Session) {
	if next == nil || next.User == nil {
		l.channel.SetIdentity("")
		l.reconciler.Reset()
		return
	}
	if prev != nil && prev.User != nil && prev.User.ID != next.User.ID {
		l.reconciler.Reset()
	}
	l.channel.SetIdentity(next.User.ID)
	l.refresh.Trigger()
}
