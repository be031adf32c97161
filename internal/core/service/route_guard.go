package service

import (
	"net/url"

	"github.com/medconnect/telemed-portal/internal/core/domain"
)

// Outcome is the result of a single guard evaluation.
type Outcome string

const (
	OutcomeRender               Outcome = "render"
	OutcomeLoading              Outcome = "loading"
	OutcomeRedirectLogin        Outcome = "redirect_login"
	OutcomeRedirectUnauthorized Outcome = "redirect_unauthorized"
)

// Decision tells the caller whether to render the requested view or where to
// send the user instead.
type Decision struct {
	Outcome  Outcome
	Location string
}

// SessionReader is the read side of the session store used by the guard.
type SessionReader interface {
	Current() *domain.Session
	IsLoading() bool
}

// RouteGuard decides render-or-redirect for a view. It holds no state and is
// meant to be consulted on every navigation.
type RouteGuard struct {
	sessions SessionReader
}

func NewRouteGuard(sessions SessionReader) *RouteGuard {
	return &RouteGuard{sessions: sessions}
}

// Check evaluates the current session against allowedRoles.
func (g *RouteGuard) Check(allowedRoles []domain.Role, requestedURI string) Decision {
	if g.sessions.IsLoading() {
		return Decision{Outcome: OutcomeLoading}
	}
	return Evaluate(g.sessions.Current(), allowedRoles, requestedURI)
}

// Evaluate is the pure decision: no user redirects to login with the
// requested location preserved; a role outside a non-empty allowedRoles
// redirects to the unauthorized view; everything else renders. An empty
// allowedRoles admits any authenticated role.
func Evaluate(session *domain.Session, allowedRoles []domain.Role, requestedURI string) Decision {
	if session == nil || session.User == nil {
		return Decision{Outcome: OutcomeRedirectLogin, Location: LoginLocation(requestedURI)}
	}
	if len(allowedRoles) == 0 {
		return Decision{Outcome: OutcomeRender}
	}
	for _, r := range allowedRoles {
		if r == session.User.Role {
			return Decision{Outcome: OutcomeRender}
		}
	}
	return Decision{Outcome: OutcomeRedirectUnauthorized, Location: domain.PathUnauthorized}
}

// LoginLocation builds the login URL carrying the originally requested
// location for the post-login return.
func LoginLocation(requestedURI string) string {
	if !domain.SafeReturnPath(requestedURI) {
		return domain.PathLogin
	}
	return domain.PathLogin + "?" + url.Values{"from": {requestedURI}}.Encode()
}

// LandingPath picks where to go after login: the preserved location when it
// is safe, else the role's dashboard.
func LandingPath(role domain.Role, from string) string {
	if from != "" && domain.SafeReturnPath(from) {
		return from
	}
	if p, ok := domain.DashboardPath(role); ok {
		return p
	}
	return domain.PathUnauthorized
}
