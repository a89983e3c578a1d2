package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/otakusphere/backend/internal/apperrors"
	"github.com/otakusphere/backend/internal/repositories"
)

// NotificationHandler handles HTTP requests for the notification feed.
type NotificationHandler struct {
	store *repositories.Store
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(store *repositories.Store) *NotificationHandler {
	return &NotificationHandler{store: store}
}

// RegisterNotificationRoutes registers notification-related routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.ListNotifications)
	g.GET("/notifications/unread-count", h.UnreadCount)
	g.POST("/notifications/:id/read", h.MarkRead)
	g.POST("/notifications/read-all", h.MarkAllRead)
}

// ListNotifications returns the user's feed, newest first.
func (h *NotificationHandler) ListNotifications(c echo.Context) error {
	user, err := currentUser(c, h.store.Users)
	if err != nil {
		return err
	}

	notifications, err := h.store.Notifications.ListForUser(user.ID)
	if err != nil {
		return apperrors.HTTP(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"notifications": notifications})
}

// UnreadCount returns the number of unread notifications, for badges.
func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	user, err := currentUser(c, h.store.Users)
	if err != nil {
		return err
	}

	count, err := h.store.Notifications.UnreadCount(user.ID)
	if err != nil {
		return apperrors.HTTP(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"unread_count": count})
}

// MarkRead marks a single notification as read. Only the recipient may do so.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	user, err := currentUser(c, h.store.Users)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.store.Notifications.MarkRead(id, user.ID); err != nil {
		return apperrors.HTTP(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"read": true})
}

// MarkAllRead marks every unread notification read in one batch. Running it
// with nothing unread is a normal no-op.
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	user, err := currentUser(c, h.store.Users)
	if err != nil {
		return err
	}

	updated, err := h.store.Notifications.MarkAllRead(user.ID)
	if err != nil {
		return apperrors.HTTP(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": updated})
}
