package ports

import (
	"context"

	"github.com/medconnect/telemed-portal/internal/core/domain"
)

// NotificationGateway is the backend notification API. List returns the
// server's current list, already sorted by recency.
type NotificationGateway interface {
	List(ctx context.Context) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id string) (*domain.Notification, error)
}
