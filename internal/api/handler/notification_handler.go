package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/medconnect/telemed-portal/internal/api/metrics"
	"github.com/medconnect/telemed-portal/internal/core/domain"
	"github.com/medconnect/telemed-portal/internal/core/service"
)

// NotificationService is the reconciled notification list.
type NotificationService interface {
	Refresh(ctx context.Context) error
	MarkRead(ctx context.Context, id string) error
	Snapshot() service.NotificationView
}

type NotificationHandler struct {
	notifications NotificationService
}

func NewNotificationHandler(notifications NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List returns the current list without contacting the backend.
//
// @Summary      List notifications
// @Tags         notifications
// @Produce      json
// @Success      200  {object}  service.NotificationView
// @Failure      401  {object}  map[string]string
// @Router       /api/notifications [get]
func (h *NotificationHandler) List(c echo.Context) error {
	if _, err := ctxSession(c); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.notifications.Snapshot())
}

// Refresh re-fetches the list from the backend and returns it.
//
// @Summary      Refresh notifications
// @Tags         notifications
// @Produce      json
// @Success      200  {object}  service.NotificationView
// @Failure      401  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/notifications/refresh [post]
func (h *NotificationHandler) Refresh(c echo.Context) error {
	if _, err := ctxSession(c); err != nil {
		return err
	}
	if err := h.notifications.Refresh(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.notifications.Snapshot())
}

// MarkRead marks one notification as read and returns the updated list.
// When the backend refuses, the list has already been resynchronised and
// the error is reported.
//
// @Summary      Mark notification read
// @Tags         notifications
// @Produce      json
// @Param        id   path      string  true  "Notification ID"
// @Success      200  {object}  service.NotificationView
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	if _, err := ctxSession(c); err != nil {
		return err
	}

	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "notification id is required"})
	}

	if err := h.notifications.MarkRead(c.Request().Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotificationNotFound) {
			metrics.NotificationMarkReadTotal.WithLabelValues("not_found").Inc()
		} else {
			metrics.NotificationMarkReadTotal.WithLabelValues("error").Inc()
		}
		return err
	}
	metrics.NotificationMarkReadTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, h.notifications.Snapshot())
}
