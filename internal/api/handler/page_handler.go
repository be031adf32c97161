package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medconnect/telemed-portal/internal/core/domain"
	"github.com/medconnect/telemed-portal/internal/core/service"
)

const viewNotFound = "not_found"

// SessionReader is the read side of the session store.
type SessionReader interface {
	Current() *domain.Session
	IsLoading() bool
}

// UnreadCounter feeds the notification badge.
type UnreadCounter interface {
	UnreadCount() int
}

// PageHandler serves the view model the browser shell renders for each
// route: which view, who is signed in, their sidebar and the unread badge.
type PageHandler struct {
	sessions SessionReader
	unread   UnreadCounter
}

func NewPageHandler(sessions SessionReader, unread UnreadCounter) *PageHandler {
	return &PageHandler{sessions: sessions, unread: unread}
}

type pageResponse struct {
	View       string                   `json:"view"`
	Path       string                   `json:"path"`
	User       *domain.User             `json:"user,omitempty"`
	Navigation []domain.NavigationEntry `json:"navigation,omitempty"`
	Unread     int                      `json:"unread"`
	Badge      string                   `json:"badge,omitempty"`
	From       string                   `json:"from,omitempty"`
}

// Render returns the handler for one route table view. Guarding happens in
// middleware; by the time it runs the view may be shown.
func (h *PageHandler) Render(view domain.View) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess := optionalSession(c)

		if view.Path == domain.PathLogin || view.Path == domain.PathRegister {
			if sess != nil {
				return c.Redirect(http.StatusFound, service.LandingPath(sess.User.Role, c.QueryParam("from")))
			}
			return c.JSON(http.StatusOK, pageResponse{
				View: view.Name,
				Path: view.Path,
				From: safeFrom(c.QueryParam("from")),
			})
		}

		return c.JSON(http.StatusOK, h.page(view.Name, view.Path, sess))
	}
}

// Root sends the user to their dashboard, or to login when signed out.
//
// @Summary      Entry point
// @Tags         pages
// @Success      302
// @Failure      503  {object}  map[string]string
// @Router       / [get]
func (h *PageHandler) Root(c echo.Context) error {
	if h.sessions.IsLoading() {
		c.Response().Header().Set("Retry-After", "1")
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "loading"})
	}
	sess := h.sessions.Current()
	if sess == nil {
		return c.Redirect(http.StatusFound, domain.PathLogin)
	}
	return c.Redirect(http.StatusFound, service.LandingPath(sess.User.Role, ""))
}

// NotFound renders the catch-all view for paths outside the route table.
func (h *PageHandler) NotFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, h.page(viewNotFound, c.Request().URL.Path, optionalSession(c)))
}

func (h *PageHandler) page(name, path string, sess *domain.Session) pageResponse {
	resp := pageResponse{View: name, Path: path}
	if sess == nil {
		return resp
	}
	resp.User = sess.User
	resp.Navigation = domain.NavigationFor(sess.User.Role)
	resp.Unread = h.unread.UnreadCount()
	resp.Badge = service.BadgeLabel(resp.Unread)
	return resp
}

func safeFrom(from string) string {
	if domain.SafeReturnPath(from) {
		return from
	}
	return ""
}
