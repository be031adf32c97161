package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/medconnect/telemed-portal/internal/core/domain"
	"github.com/medconnect/telemed-portal/internal/core/ports"
)

const minPasswordLength = 8

// AuthService implements login, registration and logout against the backend
// and the local session store.
type AuthService struct {
	gateway  ports.AuthGateway
	sessions *SessionStore
	validate *validator.Validate
}

func NewAuthService(gateway ports.AuthGateway, sessions *SessionStore) *AuthService {
	return &AuthService{gateway: gateway, sessions: sessions, validate: validator.New()}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, token, err := s.gateway.Login(ctx, email, password)
	if err != nil {
		return "", nil, err
	}
	return s.establish(ctx, user, token)
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (string, *domain.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)
	if err := s.checkRegistration(in); err != nil {
		return "", nil, err
	}

	user, token, err := s.gateway.Register(ctx, in)
	if err != nil {
		return "", nil, err
	}
	return s.establish(ctx, user, token)
}

func (s *AuthService) Logout(ctx context.Context) {
	s.sessions.Logout(ctx)
}

func (s *AuthService) establish(ctx context.Context, user *domain.User, token string) (string, *domain.User, error) {
	if user == nil || token == "" {
		return "", nil, domain.ErrInvalidSession
	}
	if err := s.sessions.Login(ctx, user, token); err != nil {
		return "", nil, err
	}
	return LandingPath(user.Role, ""), user, nil
}

// checkRegistration runs the form pre-checks that must pass before any
// network call is made.
func (s *AuthService) checkRegistration(in ports.RegisterInput) error {
	if in.FullName == "" {
		return domain.NewValidationError("full name is required")
	}
	if err := s.validate.Var(in.Email, "required,email"); err != nil {
		return domain.NewValidationError("email must be a valid email")
	}
	if len(in.Password) < minPasswordLength {
		return domain.NewValidationError("password must be at least 8 characters")
	}
	if in.Password != in.ConfirmPassword {
		return domain.NewValidationError("passwords do not match")
	}
	return nil
}
