package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/otakusphere/backend/internal/apperrors"
	"github.com/otakusphere/backend/internal/models"
	"github.com/otakusphere/backend/internal/repositories"
)

// FriendshipHandler handles HTTP requests for friend requests and friendships.
type FriendshipHandler struct {
	store *repositories.Store
}

// NewFriendshipHandler creates a new FriendshipHandler
func NewFriendshipHandler(store *repositories.Store) *FriendshipHandler {
	return &FriendshipHandler{store: store}
}

// RegisterFriendshipRoutes registers friendship-related routes
func (h *FriendshipHandler) RegisterFriendshipRoutes(g *echo.Group) {
	g.POST("/friends/requests/:username", h.SendRequest)
	g.POST("/friends/requests/:username/accept", h.AcceptRequest)
	g.POST("/friends/requests/:username/decline", h.DeclineRequest)
	g.DELETE("/friends/:username", h.Unfriend)
	g.GET("/friends", h.ListFriends)
	g.GET("/friends/requests/received", h.PendingReceived)
	g.GET("/friends/requests/sent", h.PendingSent)
}

// targetByUsername resolves the other user named in the path.
func (h *FriendshipHandler) targetByUsername(c echo.Context) (*models.User, error) {
	target, err := h.store.Users.ByUsername(c.Param("username"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	return target, nil
}

// notApplied is the uniform response for a relationship mutation whose
// precondition did not hold. The request succeeds and changes nothing.
func notApplied(c echo.Context, message string) error {
	return c.JSON(http.StatusOK, echo.Map{"applied": false, "message": message})
}

// SendRequest sends a friend request to the named user and notifies them.
// Self-requests and requests to an already-related pair apply nothing.
// Friendship edge and notification commit together.
func (h *FriendshipHandler) SendRequest(c echo.Context) error {
	user, err := currentUser(c, h.store.Users)
	if err != nil {
		return err
	}
	target, err := h.targetByUsername(c)
	if err != nil {
		return err
	}

	var edge *models.Friendship
	if err := h.store.Atomic(func(tx *repositories.Store) error {
		edge, err = tx.Friendships.SendRequest(user.ID, target.ID)
		if err != nil || edge == nil {
			return err
		}
		actorID := user.ID
		return tx.Notifications.Create(&models.Notification{
			UserID:           target.ID,
			ActorID:          &actorID,
			Type:             models.NotifFriendRequest,
			Content:          fmt.Sprintf("%s sent you a friend request.", user.Username),
			Link:             fmt.Sprintf("/users/%s", user.Username),
			SourceEntityID:   &user.ID,
			SourceEntityType: "user",
		})
	}); err != nil {
		return apperrors.HTTP(err)
	}
	if edge == nil {
		return notApplied(c, "No friend request to send")
	}

	return c.JSON(http.StatusCreated, echo.Map{"applied": true, "friendship": edge})
}

// AcceptRequest accepts a pending request from the named user and notifies
// them. Applies nothing when no pending request from that user exists.
func (h *FriendshipHandler) AcceptRequest(c echo.Context) error {
	user, err := currentUser(c, h.store.Users)
	if err != nil {
		return err
	}
	requester, err := h.targetByUsername(c)
	if err != nil {
		return err
	}

	var edge *models.Friendship
	if err := h.store.Atomic(func(tx *repositories.Store) error {
		edge, err = tx.Friendships.AcceptRequest(user.ID, requester.ID)
		if err != nil || edge == nil {
			return err
		}
		actorID := user.ID
		return tx.Notifications.Create(&models.Notification{
			UserID:           requester.ID,
			ActorID:          &actorID,
			Type:             models.NotifFriendAccept,
			Content:          fmt.Sprintf("%s accepted your friend request.", user.Username),
			Link:             fmt.Sprintf("/users/%s", user.Username),
			SourceEntityID:   &user.ID,
			SourceEntityType: "user",
		})
	}); err != nil {
		return apperrors.HTTP(err)
	}
	if edge == nil {
		return notApplied(c, "No pending friend request from this user")
	}

	return c.JSON(http.StatusOK, echo.Map{"applied": true, "friendship": edge})
}

// DeclineRequest removes a pending request from the named user. Declining
// raises no notification. Applies nothing when no such request exists.
func (h *FriendshipHandler) DeclineRequest(c echo.Context) error {
	user, err := currentUser(c, h.store.Users)
	if err != nil {
		return err
	}
	requester, err := h.targetByUsername(c)
	if err != nil {
		return err
	}

	applied, err := h.store.Friendships.DeclineRequest(user.ID, requester.ID)
	if err != nil {
		return apperrors.HTTP(err)
	}
	if !applied {
		return notApplied(c, "No pending friend request from this user")
	}

	return c.JSON(http.StatusOK, echo.Map{"applied": true})
}

// Unfriend dissolves the friendship with the named user, for both sides at
// once. Raises no notification. Applies nothing when the pair is not friends.
func (h *FriendshipHandler) Unfriend(c echo.Context) error {
	user, err := currentUser(c, h.store.Users)
	if err != nil {
		return err
	}
	friend, err := h.targetByUsername(c)
	if err != nil {
		return err
	}

	applied, err := h.store.Friendships.Unfriend(user.ID, friend.ID)
	if err != nil {
		return apperrors.HTTP(err)
	}
	if !applied {
		return notApplied(c, "You are not friends with this user")
	}

	return c.JSON(http.StatusOK, echo.Map{"applied": true})
}

// ListFriends returns the user's friends regardless of who sent the
// original request.
func (h *FriendshipHandler) ListFriends(c echo.Context) error {
	user, err := currentUser(c, h.store.Users)
	if err != nil {
		return err
	}

	friends, err := h.store.Friendships.Friends(user.ID)
	if err != nil {
		return apperrors.HTTP(err)
	}

	out := make([]models.UserCompact, 0, len(friends))
	for _, f := range friends {
		out = append(out, f.ToCompact())
	}
	return c.JSON(http.StatusOK, echo.Map{"friends": out})
}

// PendingReceived returns friend requests awaiting the user's decision.
func (h *FriendshipHandler) PendingReceived(c echo.Context) error {
	user, err := currentUser(c, h.store.Users)
	if err != nil {
		return err
	}

	requests, err := h.store.Friendships.PendingReceived(user.ID)
	if err != nil {
		return apperrors.HTTP(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"requests": requests})
}

// PendingSent returns friend requests the user sent that are still pending.
func (h *FriendshipHandler) PendingSent(c echo.Context) error {
	user, err := currentUser(c, h.store.Users)
	if err != nil {
		return err
	}

	requests, err := h.store.Friendships.PendingSent(user.ID)
	if err != nil {
		return apperrors.HTTP(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"requests": requests})
}
