package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medconnect/telemed-portal/internal/api/metrics"
	"github.com/medconnect/telemed-portal/internal/core/domain"
	"github.com/medconnect/telemed-portal/internal/core/service"
)

// Guard protects a view. The decision is taken on every request against the
// live session, so a logout or role change applies to the very next
// navigation. An empty allowedRoles admits any authenticated user.
func Guard(guard *service.RouteGuard, allowedRoles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			d := guard.Check(allowedRoles, c.Request().URL.RequestURI())
			metrics.GuardDecisionsTotal.WithLabelValues(string(d.Outcome)).Inc()

			switch d.Outcome {
			case service.OutcomeRender:
				return next(c)
			case service.OutcomeLoading:
				c.Response().Header().Set("Retry-After", "1")
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "loading"})
			default:
				return c.Redirect(http.StatusFound, d.Location)
			}
		}
	}
}
