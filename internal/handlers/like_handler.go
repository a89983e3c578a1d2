package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/otakusphere/backend/internal/apperrors"
	"github.com/otakusphere/backend/internal/models"
	"github.com/otakusphere/backend/internal/repositories"
)

// LikeHandler handles HTTP requests related to post likes.
type LikeHandler struct {
	store *repositories.Store
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(store *repositories.Store) *LikeHandler {
	return &LikeHandler{store: store}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/like", h.ToggleLike)
	g.GET("/posts/:post_id/likes/count", h.GetLikesCount)
	g.GET("/posts/:post_id/likes/status", h.GetLikeStatus)
}

// ToggleLike flips the user's like on a post. A transition to liked notifies
// the post's author (unless the liker is the author); removing a like never
// retracts a notification. Like and notification commit together.
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	user, err := currentUser(c, h.store.Users)
	if err != nil {
		return err
	}
	postID, err := parseID(c, "post_id")
	if err != nil {
		return err
	}

	post, err := h.store.Posts.GetByID(postID)
	if err != nil {
		return apperrors.HTTP(err)
	}

	var liked bool
	if err := h.store.Atomic(func(tx *repositories.Store) error {
		liked, err = tx.Likes.Toggle(user.ID, post.ID)
		if err != nil {
			return err
		}
		if !liked || post.AuthorID == user.ID {
			return nil
		}
		actorID := user.ID
		return tx.Notifications.Create(&models.Notification{
			UserID:           post.AuthorID,
			ActorID:          &actorID,
			Type:             models.NotifNewLike,
			Content:          fmt.Sprintf("%s liked your post %q.", user.Username, post.Title),
			Link:             fmt.Sprintf("/posts/%d", post.ID),
			SourceEntityID:   &post.ID,
			SourceEntityType: "post",
		})
	}); err != nil {
		return apperrors.HTTP(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"post_id": post.ID, "liked": liked})
}

// GetLikesCount returns the total number of likes on a post.
func (h *LikeHandler) GetLikesCount(c echo.Context) error {
	postID, err := parseID(c, "post_id")
	if err != nil {
		return err
	}

	if _, err := h.store.Posts.GetByID(postID); err != nil {
		return apperrors.HTTP(err)
	}

	count, err := h.store.Likes.CountForPost(postID)
	if err != nil {
		return apperrors.HTTP(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"post_id": postID, "likes_count": count})
}

// GetLikeStatus reports whether the authenticated user has liked a post.
func (h *LikeHandler) GetLikeStatus(c echo.Context) error {
	user, err := currentUser(c, h.store.Users)
	if err != nil {
		return err
	}
	postID, err := parseID(c, "post_id")
	if err != nil {
		return err
	}

	liked, err := h.store.Likes.Liked(user.ID, postID)
	if err != nil {
		return apperrors.HTTP(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"post_id": postID, "liked": liked})
}
