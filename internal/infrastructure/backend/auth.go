package backend

import (
	"context"
	"net/http"

	"github.com/medconnect/telemed-portal/internal/core/domain"
	"github.com/medconnect/telemed-portal/internal/core/ports"
)

// AuthGateway implements ports.AuthGateway over the REST API.
type AuthGateway struct {
	client *Client
}

func NewAuthGateway(client *Client) *AuthGateway {
	return &AuthGateway{client: client}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

type authResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// Login exchanges credentials for a user record and token. 401 maps to
// domain.ErrInvalidCredentials.
func (g *AuthGateway) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	var resp authResponse
	if err := g.client.do(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password}, &resp); err != nil {
		if StatusOf(err) == http.StatusUnauthorized {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}
	return resp.User, resp.Token, nil
}

// Register creates a patient account and signs it in. 409 maps to
// domain.ErrUserExists.
func (g *AuthGateway) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, string, error) {
	req := registerRequest{FullName: in.FullName, Email: in.Email, Phone: in.Phone, Password: in.Password}
	var resp authResponse
	if err := g.client.do(ctx, http.MethodPost, "/auth/register", req, &resp); err != nil {
		if StatusOf(err) == http.StatusConflict {
			return nil, "", domain.ErrUserExists
		}
		return nil, "", err
	}
	return resp.User, resp.Token, nil
}
