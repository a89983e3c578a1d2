package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/otakusphere/backend/internal/apperrors"
	"github.com/otakusphere/backend/internal/models"
	"github.com/otakusphere/backend/internal/repositories"
)

// UserHandler handles HTTP requests for profiles and user search.
type UserHandler struct {
	store *repositories.Store
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(store *repositories.Store) *UserHandler {
	return &UserHandler{store: store}
}

// RegisterUserRoutes registers user-related routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/users/:username", h.GetProfile)
	g.PUT("/me", h.UpdateProfile)
	g.GET("/users/search", h.SearchUsers)
}

// GetProfile returns a user's public profile with their posts and the
// viewer's relationship to them, so the client can render the right
// friendship button without extra round trips.
func (h *UserHandler) GetProfile(c echo.Context) error {
	viewer, err := currentUser(c, h.store.Users)
	if err != nil {
		return err
	}

	user, err := h.store.Users.ByUsername(c.Param("username"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	posts, err := h.store.Posts.ByAuthor(user.ID)
	if err != nil {
		return apperrors.HTTP(err)
	}

	isSelf := viewer.ID == user.ID
	var areFriends, sentRequest, receivedRequest bool
	if !isSelf {
		if areFriends, err = h.store.Friendships.AreFriends(viewer.ID, user.ID); err != nil {
			return apperrors.HTTP(err)
		}
		if sentRequest, err = h.store.Friendships.HasPendingRequestTo(viewer.ID, user.ID); err != nil {
			return apperrors.HTTP(err)
		}
		if receivedRequest, err = h.store.Friendships.HasPendingRequestFrom(viewer.ID, user.ID); err != nil {
			return apperrors.HTTP(err)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"user":  user,
		"posts": posts,
		"relationship": echo.Map{
			"is_self":          isSelf,
			"are_friends":      areFriends,
			"sent_request":     sentRequest,
			"received_request": receivedRequest,
		},
	})
}

// UpdateProfile lets the authenticated user change their avatar and bio.
// Omitted fields are left untouched.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	user, err := currentUser(c, h.store.Users)
	if err != nil {
		return err
	}

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}

	if err := h.store.Users.Update(user); err != nil {
		return apperrors.HTTP(err)
	}
	return c.JSON(http.StatusOK, user)
}

// SearchUsers finds users by username or email fragment.
func (h *UserHandler) SearchUsers(c echo.Context) error {
	if _, err := currentUser(c, h.store.Users); err != nil {
		return err
	}

	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing search query")
	}

	users, err := h.store.Users.Search(query)
	if err != nil {
		return apperrors.HTTP(err)
	}

	out := make([]models.UserCompact, 0, len(users))
	for _, u := range users {
		out = append(out, u.ToCompact())
	}
	return c.JSON(http.StatusOK, echo.Map{"users": out})
}
