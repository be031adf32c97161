package ports

// RealtimeChannel is the push connection delivering notification signals.
// SetIdentity("") unsubscribes the previous identity.
type RealtimeChannel interface {
	SetIdentity(userID string)
}

// RefreshTrigger asks for a background notification refresh.
type RefreshTrigger interface {
	Trigger()
}
