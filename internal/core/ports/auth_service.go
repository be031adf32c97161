package ports

import (
	"context"

	"github.com/medconnect/telemed-portal/internal/core/domain"
)

// AuthService drives login, registration and logout for the local session.
// Login and Register return the landing path for the user's role.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Register(ctx context.Context, in RegisterInput) (string, *domain.User, error)
	Logout(ctx context.Context)
}
