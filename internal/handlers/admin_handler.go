package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/otakusphere/backend/internal/apperrors"
	"github.com/otakusphere/backend/internal/models"
	"github.com/otakusphere/backend/internal/policy"
	"github.com/otakusphere/backend/internal/repositories"
)

// AdminHandler handles the moderation surface: dashboard, user management,
// post oversight, and the genre catalogue.
type AdminHandler struct {
	store        *repositories.Store
	policy       *policy.Policy
	postsPerPage int
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(store *repositories.Store, pol *policy.Policy, postsPerPage int) *AdminHandler {
	return &AdminHandler{store: store, policy: pol, postsPerPage: postsPerPage}
}

// RegisterAdminRoutes registers moderation routes
func (h *AdminHandler) RegisterAdminRoutes(g *echo.Group) {
	g.GET("/admin/dashboard", h.Dashboard)
	g.GET("/admin/users", h.ListUsers)
	g.POST("/admin/users/:id/toggle-active", h.ToggleActive)
	g.POST("/admin/users/:id/role", h.SetRole)
	g.DELETE("/admin/users/:id", h.DeleteUser)
	g.GET("/admin/posts", h.ListPosts)
	g.GET("/genres", h.ListGenres)
	g.POST("/admin/genres", h.CreateGenre)
	g.PUT("/admin/genres/:id", h.RenameGenre)
	g.DELETE("/admin/genres/:id", h.DeleteGenre)
}

// moderator resolves the acting user and refuses anyone the policy does not
// grant moderation over the given resource.
func (h *AdminHandler) moderator(c echo.Context, resource string) (*models.User, error) {
	user, err := currentUser(c, h.store.Users)
	if err != nil {
		return nil, err
	}
	if !h.policy.CanModerate(user, resource) {
		return nil, apperrors.HTTP(apperrors.ErrForbidden)
	}
	return user, nil
}

// Dashboard returns site-wide counts.
func (h *AdminHandler) Dashboard(c echo.Context) error {
	if _, err := h.moderator(c, policy.ResourceUser); err != nil {
		return err
	}

	users, err := h.store.Users.Count()
	if err != nil {
		return apperrors.HTTP(err)
	}
	posts, err := h.store.Posts.Count()
	if err != nil {
		return apperrors.HTTP(err)
	}
	comments, err := h.store.Comments.Count()
	if err != nil {
		return apperrors.HTTP(err)
	}
	genres, err := h.store.Genres.Count()
	if err != nil {
		return apperrors.HTTP(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"users":    users,
		"posts":    posts,
		"comments": comments,
		"genres":   genres,
	})
}

// ListUsers returns every account, newest first.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	if _, err := h.moderator(c, policy.ResourceUser); err != nil {
		return err
	}

	users, err := h.store.Users.List()
	if err != nil {
		return apperrors.HTTP(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users})
}

// ToggleActive flips an account between active and deactivated. Admins
// cannot deactivate themselves.
func (h *AdminHandler) ToggleActive(c echo.Context) error {
	admin, err := h.moderator(c, policy.ResourceUser)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if id == admin.ID {
		return echo.NewHTTPError(http.StatusBadRequest, "You cannot deactivate your own account")
	}

	target, err := h.store.Users.ByID(id)
	if err != nil {
		return apperrors.HTTP(err)
	}
	if err := h.store.Users.SetActive(id, !target.IsActive); err != nil {
		return apperrors.HTTP(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"id": id, "is_active": !target.IsActive})
}

// SetRole assigns a role to an account. Admins cannot demote themselves, so
// the site always keeps at least the acting admin.
func (h *AdminHandler) SetRole(c echo.Context) error {
	admin, err := h.moderator(c, policy.ResourceUser)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		Role string `json:"role" validate:"required,oneof=user admin"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if id == admin.ID && req.Role != models.RoleAdmin {
		return echo.NewHTTPError(http.StatusBadRequest, "You cannot demote your own account")
	}

	if err := h.store.Users.SetRole(id, req.Role); err != nil {
		return apperrors.HTTP(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "role": req.Role})
}

// DeleteUser removes an account and everything it owns. Notifications the
// account raised in other feeds survive with the actor detached. Admins
// cannot delete themselves.
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	admin, err := h.moderator(c, policy.ResourceUser)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if id == admin.ID {
		return echo.NewHTTPError(http.StatusBadRequest, "You cannot delete your own account")
	}

	if err := h.store.Atomic(func(tx *repositories.Store) error {
		if err := tx.Users.Delete(id); err != nil {
			return err
		}
		return tx.Notifications.DetachActor(id)
	}); err != nil {
		return apperrors.HTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListPosts returns posts newest first for moderation review, paginated the
// same way as the public feed.
func (h *AdminHandler) ListPosts(c echo.Context) error {
	if _, err := h.moderator(c, policy.ResourcePost); err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}

	posts, total, err := h.store.Posts.List(page, h.postsPerPage)
	if err != nil {
		return apperrors.HTTP(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"posts": posts,
		"meta": echo.Map{
			"page":     page,
			"per_page": h.postsPerPage,
			"total":    total,
		},
	})
}

// ListGenres returns the genre catalogue. Open to any authenticated user,
// since authors pick from it when writing posts.
func (h *AdminHandler) ListGenres(c echo.Context) error {
	if _, err := currentUser(c, h.store.Users); err != nil {
		return err
	}

	genres, err := h.store.Genres.List()
	if err != nil {
		return apperrors.HTTP(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"genres": genres})
}

// CreateGenre adds a genre to the catalogue. Names must be unique.
func (h *AdminHandler) CreateGenre(c echo.Context) error {
	if _, err := h.moderator(c, policy.ResourceGenre); err != nil {
		return err
	}

	var req models.GenreRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	genre := &models.Genre{Name: req.Name, Description: req.Description}
	if err := h.store.Genres.Create(genre); err != nil {
		return apperrors.HTTP(err)
	}
	return c.JSON(http.StatusCreated, genre)
}

// RenameGenre updates a genre's name and description. Posts referencing it
// follow along untouched.
func (h *AdminHandler) RenameGenre(c echo.Context) error {
	if _, err := h.moderator(c, policy.ResourceGenre); err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req models.GenreRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	genre, err := h.store.Genres.Rename(id, req.Name, req.Description)
	if err != nil {
		return apperrors.HTTP(err)
	}
	return c.JSON(http.StatusOK, genre)
}

// DeleteGenre removes a genre. Refused while any post still references it.
func (h *AdminHandler) DeleteGenre(c echo.Context) error {
	if _, err := h.moderator(c, policy.ResourceGenre); err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.store.Genres.Delete(id); err != nil {
		return apperrors.HTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}
