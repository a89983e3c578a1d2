package handlers_test

import (
	"net/http"
	"testing"

	"github.com/otakusphere/backend/internal/handlers"
	"github.com/otakusphere/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileRelationshipFlags(t *testing.T) {
	env := newTestEnv(t)
	h := handlers.NewUserHandler(env.store)
	alice := env.user(t, "alice", models.RoleUser)
	bob := env.user(t, "bob", models.RoleUser)

	rel := func(viewer *models.User, username string) map[string]interface{} {
		c, rec := env.request(t, http.MethodGet, "/users/"+username, "", viewer, "username", username)
		require.NoError(t, h.GetProfile(c))
		return decodeBody(t, rec)["relationship"].(map[string]interface{})
	}

	r := rel(alice, "alice")
	assert.Equal(t, true, r["is_self"])

	r = rel(alice, "bob")
	assert.Equal(t, false, r["is_self"])
	assert.Equal(t, false, r["are_friends"])
	assert.Equal(t, false, r["sent_request"])
	assert.Equal(t, false, r["received_request"])

	_, err := env.store.Friendships.SendRequest(alice.ID, bob.ID)
	require.NoError(t, err)

	r = rel(alice, "bob")
	assert.Equal(t, true, r["sent_request"])
	r = rel(bob, "alice")
	assert.Equal(t, true, r["received_request"])

	_, err = env.store.Friendships.AcceptRequest(bob.ID, alice.ID)
	require.NoError(t, err)

	r = rel(alice, "bob")
	assert.Equal(t, true, r["are_friends"])
	assert.Equal(t, false, r["sent_request"])
}

func TestUpdateProfilePartialFields(t *testing.T) {
	env := newTestEnv(t)
	h := handlers.NewUserHandler(env.store)
	alice := env.user(t, "alice", models.RoleUser)

	c, rec := env.request(t, http.MethodPut, "/me", `{"bio":"hello there"}`, alice)
	require.NoError(t, h.UpdateProfile(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	loaded, err := env.store.Users.ByID(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello there", loaded.Bio)
	assert.Empty(t, loaded.AvatarURL)

	c, _ = env.request(t, http.MethodPut, "/me", `{"avatar_url":"/avatars/a.png"}`, alice)
	require.NoError(t, h.UpdateProfile(c))

	loaded, err = env.store.Users.ByID(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "/avatars/a.png", loaded.AvatarURL)
	assert.Equal(t, "hello there", loaded.Bio)
}

func TestSearchUsersRequiresQuery(t *testing.T) {
	env := newTestEnv(t)
	h := handlers.NewUserHandler(env.store)
	alice := env.user(t, "alice", models.RoleUser)
	env.user(t, "bob", models.RoleUser)

	c, _ := env.request(t, http.MethodGet, "/users/search", "", alice)
	assert.Equal(t, http.StatusBadRequest, httpStatus(h.SearchUsers(c)))

	c, rec := env.request(t, http.MethodGet, "/users/search?q=bo", "", alice)
	require.NoError(t, h.SearchUsers(c))
	assert.Len(t, decodeBody(t, rec)["users"], 1)
}

func TestNotificationFlow(t *testing.T) {
	env := newTestEnv(t)
	h := handlers.NewNotificationHandler(env.store)
	alice := env.user(t, "alice", models.RoleUser)
	bob := env.user(t, "bob", models.RoleUser)

	for i := 0; i < 2; i++ {
		require.NoError(t, env.store.Notifications.Create(&models.Notification{
			UserID:  alice.ID,
			ActorID: &bob.ID,
			Type:    models.NotifNewLike,
			Content: "bob liked your post",
		}))
	}

	c, rec := env.request(t, http.MethodGet, "/notifications/unread-count", "", alice)
	require.NoError(t, h.UnreadCount(c))
	assert.EqualValues(t, 2, decodeBody(t, rec)["unread_count"])

	// Bob cannot read Alice's notifications.
	feed, err := env.store.Notifications.ListForUser(alice.ID)
	require.NoError(t, err)
	c, _ = env.request(t, http.MethodPost, "/notifications/1/read", "", bob, "id", "1")
	assert.Equal(t, http.StatusForbidden, httpStatus(h.MarkRead(c)))
	assert.Len(t, feed, 2)

	c, rec = env.request(t, http.MethodPost, "/notifications/read-all", "", alice)
	require.NoError(t, h.MarkAllRead(c))
	assert.EqualValues(t, 2, decodeBody(t, rec)["updated"])

	c, rec = env.request(t, http.MethodGet, "/notifications/unread-count", "", alice)
	require.NoError(t, h.UnreadCount(c))
	assert.EqualValues(t, 0, decodeBody(t, rec)["unread_count"])
}
