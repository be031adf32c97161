package ports

import "context"

// SessionStorage persists the serialized session under a fixed key.
// Load returns (nil, nil) when nothing is stored.
type SessionStorage interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, payload []byte) error
	Clear(ctx context.Context) error
	Ping(ctx context.Context) error
}
