package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medconnect/telemed-portal/internal/core/domain"
)

type NavigationHandler struct{}

func NewNavigationHandler() *NavigationHandler {
	return &NavigationHandler{}
}

type navigationResponse struct {
	Role      domain.Role              `json:"role"`
	Dashboard string                   `json:"dashboard"`
	Entries   []domain.NavigationEntry `json:"entries"`
}

// List returns the sidebar entries for the signed-in user's role.
//
// @Summary      Navigation entries
// @Tags         navigation
// @Produce      json
// @Success      200  {object}  navigationResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/navigation [get]
func (h *NavigationHandler) List(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	role := sess.User.Role
	dashboard, _ := domain.DashboardPath(role)
	return c.JSON(http.StatusOK, navigationResponse{
		Role:      role,
		Dashboard: dashboard,
		Entries:   domain.NavigationFor(role),
	})
}
