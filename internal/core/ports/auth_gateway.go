package ports

import (
	"context"

	"github.com/medconnect/telemed-portal/internal/core/domain"
)

// RegisterInput carries the fields of the self-registration form.
type RegisterInput struct {
	FullName        string
	Email           string
	Phone           string
	Password        string
	ConfirmPassword string
}

// AuthGateway performs the credential exchange with the backend.
type AuthGateway interface {
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	Register(ctx context.Context, in RegisterInput) (*domain.User, string, error)
}
