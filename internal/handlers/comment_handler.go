package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/otakusphere/backend/internal/apperrors"
	"github.com/otakusphere/backend/internal/models"
	"github.com/otakusphere/backend/internal/policy"
	"github.com/otakusphere/backend/internal/repositories"
)

// CommentHandler handles HTTP requests related to comments.
type CommentHandler struct {
	store  *repositories.Store
	policy *policy.Policy
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(store *repositories.Store, pol *policy.Policy) *CommentHandler {
	return &CommentHandler{store: store, policy: pol}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/comments", h.CreateComment)
	g.GET("/posts/:post_id/comments", h.GetCommentsByPost)
	g.PUT("/comments/:id", h.UpdateComment)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// CreateComment adds a comment to a post and, unless the commenter is the
// post's author, notifies the author. Comment and notification commit
// together or not at all.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	user, err := currentUser(c, h.store.Users)
	if err != nil {
		return err
	}
	postID, err := parseID(c, "post_id")
	if err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.store.Posts.GetByID(postID)
	if err != nil {
		return apperrors.HTTP(err)
	}

	comment := &models.Comment{
		PostID:   post.ID,
		AuthorID: user.ID,
		Content:  req.Content,
	}

	if err := h.store.Atomic(func(tx *repositories.Store) error {
		if err := tx.Comments.Create(comment); err != nil {
			return err
		}
		if post.AuthorID == user.ID {
			return nil
		}
		actorID := user.ID
		return tx.Notifications.Create(&models.Notification{
			UserID:           post.AuthorID,
			ActorID:          &actorID,
			Type:             models.NotifNewComment,
			Content:          fmt.Sprintf("%s commented on your post %q.", user.Username, post.Title),
			Link:             fmt.Sprintf("/posts/%d", post.ID),
			SourceEntityID:   &comment.ID,
			SourceEntityType: "comment",
		})
	}); err != nil {
		return apperrors.HTTP(err)
	}

	return c.JSON(http.StatusCreated, comment)
}

// GetCommentsByPost returns a post's comments, oldest first.
func (h *CommentHandler) GetCommentsByPost(c echo.Context) error {
	postID, err := parseID(c, "post_id")
	if err != nil {
		return err
	}

	if _, err := h.store.Posts.GetByID(postID); err != nil {
		return apperrors.HTTP(err)
	}

	comments, err := h.store.Comments.ByPost(postID)
	if err != nil {
		return apperrors.HTTP(err)
	}

	return c.JSON(http.StatusOK, comments)
}

// UpdateComment edits a comment. Only the author or an admin may edit.
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	user, err := currentUser(c, h.store.Users)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req models.UpdateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment, err := h.store.Comments.GetByID(id)
	if err != nil {
		return apperrors.HTTP(err)
	}
	if !h.policy.CanModify(user, comment.AuthorID, policy.ResourceComment) {
		return apperrors.HTTP(apperrors.ErrForbidden)
	}

	comment.Content = req.Content
	if err := h.store.Comments.Update(comment); err != nil {
		return apperrors.HTTP(err)
	}

	return c.JSON(http.StatusOK, comment)
}

// DeleteComment removes a comment. Only the author or an admin may delete.
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	user, err := currentUser(c, h.store.Users)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	comment, err := h.store.Comments.GetByID(id)
	if err != nil {
		return apperrors.HTTP(err)
	}
	if !h.policy.CanModify(user, comment.AuthorID, policy.ResourceComment) {
		return apperrors.HTTP(apperrors.ErrForbidden)
	}

	if err := h.store.Comments.Delete(id); err != nil {
		return apperrors.HTTP(err)
	}

	return c.NoContent(http.StatusNoContent)
}
