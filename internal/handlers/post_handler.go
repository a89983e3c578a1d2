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

// PostHandler handles HTTP requests related to posts and their media.
type PostHandler struct {
	store        *repositories.Store
	policy       *policy.Policy
	postsPerPage int
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(store *repositories.Store, pol *policy.Policy, postsPerPage int) *PostHandler {
	return &PostHandler{store: store, policy: pol, postsPerPage: postsPerPage}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.GET("/posts", h.ListPosts)
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.PUT("/posts/:id", h.UpdatePost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.POST("/posts/:id/media", h.AddMedia)
}

// ListPosts returns the home feed: all posts, newest first, paginated.
func (h *PostHandler) ListPosts(c echo.Context) error {
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

// CreatePost creates a post. A post needs a non-empty title and content and
// at least one genre from the currently defined set.
func (h *PostHandler) CreatePost(c echo.Context) error {
	user, err := currentUser(c, h.store.Users)
	if err != nil {
		return err
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	genres, err := h.store.Genres.ByIDs(req.GenreIDs)
	if err != nil {
		return apperrors.HTTP(err)
	}
	if len(genres) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Select at least one existing genre")
	}

	post := &models.Post{
		Title:    req.Title,
		Content:  req.Content,
		AuthorID: user.ID,
	}
	for _, m := range req.Media {
		post.Media = append(post.Media, models.PostMedia{
			MediaType:     m.MediaType,
			FilePath:      m.FilePath,
			ThumbnailPath: m.ThumbnailPath,
		})
	}

	if err := h.store.Atomic(func(tx *repositories.Store) error {
		return tx.Posts.Create(post, genres)
	}); err != nil {
		return apperrors.HTTP(err)
	}

	return c.JSON(http.StatusCreated, post)
}

// GetPost returns one post with genres, media, author, and comments.
func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	post, err := h.store.Posts.GetByID(id)
	if err != nil {
		return apperrors.HTTP(err)
	}

	comments, err := h.store.Comments.ByPost(post.ID)
	if err != nil {
		return apperrors.HTTP(err)
	}
	post.Comments = comments

	likes, err := h.store.Likes.CountForPost(post.ID)
	if err != nil {
		return apperrors.HTTP(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"post": post, "likes_count": likes})
}

// UpdatePost edits title, content, and genres. The genre set is replaced
// wholesale. Only the author or an admin may edit.
func (h *PostHandler) UpdatePost(c echo.Context) error {
	user, err := currentUser(c, h.store.Users)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.store.Posts.GetByID(id)
	if err != nil {
		return apperrors.HTTP(err)
	}
	if !h.policy.CanModify(user, post.AuthorID, policy.ResourcePost) {
		return apperrors.HTTP(apperrors.ErrForbidden)
	}

	genres, err := h.store.Genres.ByIDs(req.GenreIDs)
	if err != nil {
		return apperrors.HTTP(err)
	}
	if len(genres) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Select at least one existing genre")
	}

	post.Title = req.Title
	post.Content = req.Content
	if err := h.store.Atomic(func(tx *repositories.Store) error {
		return tx.Posts.Update(post, genres)
	}); err != nil {
		return apperrors.HTTP(err)
	}

	post.Genres = genres
	return c.JSON(http.StatusOK, post)
}

// DeletePost removes a post with its comments, media, and likes. Only the
// author or an admin may delete.
func (h *PostHandler) DeletePost(c echo.Context) error {
	user, err := currentUser(c, h.store.Users)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	post, err := h.store.Posts.GetByID(id)
	if err != nil {
		return apperrors.HTTP(err)
	}
	if !h.policy.CanModify(user, post.AuthorID, policy.ResourcePost) {
		return apperrors.HTTP(apperrors.ErrForbidden)
	}

	if err := h.store.Atomic(func(tx *repositories.Store) error {
		return tx.Posts.Delete(id)
	}); err != nil {
		return apperrors.HTTP(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// AddMedia attaches one media item to an existing post.
func (h *PostHandler) AddMedia(c echo.Context) error {
	user, err := currentUser(c, h.store.Users)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req models.MediaInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.store.Posts.GetByID(id)
	if err != nil {
		return apperrors.HTTP(err)
	}
	if !h.policy.CanModify(user, post.AuthorID, policy.ResourcePost) {
		return apperrors.HTTP(apperrors.ErrForbidden)
	}

	media := &models.PostMedia{
		PostID:        post.ID,
		MediaType:     req.MediaType,
		FilePath:      req.FilePath,
		ThumbnailPath: req.ThumbnailPath,
	}
	if err := h.store.Posts.AddMedia(media); err != nil {
		return apperrors.HTTP(err)
	}

	return c.JSON(http.StatusCreated, media)
}

// parseID reads a numeric path parameter.
func parseID(c echo.Context, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+param)
	}
	return uint(id), nil
}
