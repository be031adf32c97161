package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medconnect/telemed-portal/internal/core/domain"
)

// SessionReader is the read side of the session store.
type SessionReader interface {
	Current() *domain.Session
	IsLoading() bool
}

// Session reads the current session once per request and injects it, with
// the user id and role, into the echo context.
func Session(sessions SessionReader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if sess := sessions.Current(); sess != nil && sess.User != nil {
				c.Set("session", sess)
				c.Set("user_id", sess.User.ID)
				c.Set("role", string(sess.User.Role))
			}
			return next(c)
		}
	}
}

// RequireSession rejects JSON API calls made without a session. It must run
// after Session.
func RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if sess, _ := c.Get("session").(*domain.Session); sess == nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
			}
			return next(c)
		}
	}
}
