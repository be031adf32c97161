package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medconnect/telemed-portal/internal/core/domain"
)

// ctxKeySession is set by middleware.Session.
const ctxKeySession = "session"

// ctxSession returns the session injected by the Session middleware, failing
// fast with 401 when the request carries none.
func ctxSession(c echo.Context) (*domain.Session, error) {
	sess, _ := c.Get(ctxKeySession).(*domain.Session)
	if sess == nil || sess.User == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	return sess, nil
}

// optionalSession is ctxSession for views that also render logged out.
func optionalSession(c echo.Context) *domain.Session {
	sess, _ := c.Get(ctxKeySession).(*domain.Session)
	return sess
}
