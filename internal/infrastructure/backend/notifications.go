package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/medconnect/telemed-portal/internal/core/domain"
)

// NotificationGateway implements ports.NotificationGateway over the REST API.
type NotificationGateway struct {
	client *Client
}

func NewNotificationGateway(client *Client) *NotificationGateway {
	return &NotificationGateway{client: client}
}

type notificationList struct {
	Data []domain.Notification `json:"data"`
}

// List handles GET /notifications.
func (g *NotificationGateway) List(ctx context.Context) ([]domain.Notification, error) {
	var resp notificationList
	if err := g.client.do(ctx, http.MethodGet, "/notifications", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return []domain.Notification{}, nil
	}
	return resp.Data, nil
}

// MarkRead handles PATCH /notifications/{id}/read.
func (g *NotificationGateway) MarkRead(ctx context.Context, id string) (*domain.Notification, error) {
	var updated domain.Notification
	path := "/notifications/" + url.PathEscape(id) + "/read"
	if err := g.client.do(ctx, http.MethodPatch, path, nil, &updated); err != nil {
		if StatusOf(err) == http.StatusNotFound {
			return nil, domain.ErrNotificationNotFound
		}
		return nil, err
	}
	return &updated, nil
}
