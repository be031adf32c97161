package domain

import "time"

// NotificationType classifies a notification for display.
type NotificationType string

const (
	NotificationInfo    NotificationType = "INFO"
	NotificationWarning NotificationType = "WARNING"
	NotificationError   NotificationType = "ERROR"
	NotificationSuccess NotificationType = "SUCCESS"
)

// NotificationStatus moves only from SENT to READ.
type NotificationStatus string

const (
	NotificationSent NotificationStatus = "SENT"
	NotificationRead NotificationStatus = "READ"
)

// Notification is a server-created message addressed to the current user.
type Notification struct {
	ID        string             `json:"id"`
	Message   string             `json:"message"`
	Type      NotificationType   `json:"type"`
	Status    NotificationStatus `json:"status"`
	CreatedAt time.Time          `json:"createdAt"`
}

// Unread reports whether the notification still counts towards the badge.
func (n Notification) Unread() bool {
	return n.Status == NotificationSent
}
