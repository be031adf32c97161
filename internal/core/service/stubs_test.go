package service

import (
	"context"
	"errors"
	"sync"

	"github.com/medconnect/telemed-portal/internal/core/domain"
	"github.com/medconnect/telemed-portal/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Session storage
// ---------------------------------------------------------------------------

type memStorage struct {
	mu       sync.Mutex
	payload  []byte
	loadErr  error
	saveErr  error
	clearErr error
	loads    int
	clears   int
}

func (m *memStorage) Load(_ context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return append([]byte(nil), m.payload...), nil
}

func (m *memStorage) Save(_ context.Context, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.payload = append([]byte(nil), payload...)
	return nil
}

func (m *memStorage) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clears++
	if m.clearErr != nil {
		return m.clearErr
	}
	m.payload = nil
	return nil
}

func (m *memStorage) Ping(_ context.Context) error { return nil }

// ---------------------------------------------------------------------------
// Backend gateways
// ---------------------------------------------------------------------------

type stubAuthGateway struct {
	user     *domain.User
	token    string
	err      error
	calls    int
	register ports.RegisterInput
}

func (g *stubAuthGateway) Login(_ context.Context, email, password string) (*domain.User, string, error) {
	g.calls++
	if g.err != nil {
		return nil, "", g.err
	}
	return g.user, g.token, nil
}

func (g *stubAuthGateway) Register(_ context.Context, in ports.RegisterInput) (*domain.User, string, error) {
	g.calls++
	g.register = in
	if g.err != nil {
		return nil, "", g.err
	}
	return g.user, g.token, nil
}

type stubNotificationGateway struct {
	mu       sync.Mutex
	lists    [][]domain.Notification // successive List responses; last one repeats
	listErr  error
	markErr  error
	listCall int
	marked   []string
	// block, when set, is received from before List returns.
	block chan struct{}
}

func (g *stubNotificationGateway) List(_ context.Context) ([]domain.Notification, error) {
	g.mu.Lock()
	call := g.listCall
	g.listCall++
	block := g.block
	err := g.listErr
	var out []domain.Notification
	if len(g.lists) > 0 {
		if call >= len(g.lists) {
			call = len(g.lists) - 1
		}
		out = append([]domain.Notification(nil), g.lists[call]...)
	}
	g.mu.Unlock()

	if block != nil {
		<-block
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (g *stubNotificationGateway) MarkRead(_ context.Context, id string) (*domain.Notification, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.marked = append(g.marked, id)
	if g.markErr != nil {
		return nil, g.markErr
	}
	return &domain.Notification{ID: id, Status: domain.NotificationRead}, nil
}

// ---------------------------------------------------------------------------
// Realtime
// ---------------------------------------------------------------------------

type stubChannel struct {
	identities []string
}

func (c *stubChannel) SetIdentity(userID string) {
	c.identities = append(c.identities, userID)
}

type stubTrigger struct {
	count int
}

func (t *stubTrigger) Trigger() { t.count++ }

var errBackendDown = errors.New("backend down")

func patient() *domain.User {
	return &domain.User{ID: "u-1", FullName: "Pat Doe", Email: "pat@example.com", Role: domain.RolePatient}
}

func note(id string, status domain.NotificationStatus) domain.Notification {
	return domain.Notification{ID: id, Message: "msg " + id, Type: domain.NotificationInfo, Status: status}
}
