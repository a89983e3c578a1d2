package repositories_test

import (
	"testing"

	"github.com/otakusphere/backend/internal/models"
	"github.com/otakusphere/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestCreateUserDuplicates(t *testing.T) {
	store := setupStore(t)
	createUser(t, store, "alice")

	err := store.Users.Create(&models.User{
		Username:     "alice",
		Email:        "other@example.com",
		PasswordHash: "x",
	})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	err = store.Users.Create(&models.User{
		Username:     "alice2",
		Email:        "alice@example.com",
		PasswordHash: "x",
	})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestByUsernameOrEmail(t *testing.T) {
	store := setupStore(t)
	alice := createUser(t, store, "alice")

	byName, err := store.Users.ByUsernameOrEmail("alice")
	assert.NoError(t, err)
	assert.Equal(t, alice.ID, byName.ID)

	byEmail, err := store.Users.ByUsernameOrEmail("alice@example.com")
	assert.NoError(t, err)
	assert.Equal(t, alice.ID, byEmail.ID)

	_, err = store.Users.ByUsernameOrEmail("nobody")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	store := setupStore(t)
	createUser(t, store, "AliceWonder")
	createUser(t, store, "bob")

	users, err := store.Users.Search("alice")
	assert.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, "AliceWonder", users[0].Username)
}

func TestSetActiveAndRole(t *testing.T) {
	store := setupStore(t)
	alice := createUser(t, store, "alice")

	assert.NoError(t, store.Users.SetActive(alice.ID, false))
	loaded, err := store.Users.ByID(alice.ID)
	assert.NoError(t, err)
	assert.False(t, loaded.IsActive)

	assert.NoError(t, store.Users.SetRole(alice.ID, models.RoleAdmin))
	loaded, err = store.Users.ByID(alice.ID)
	assert.NoError(t, err)
	assert.True(t, loaded.IsAdmin())

	assert.ErrorIs(t, store.Users.SetActive(999, true), gorm.ErrRecordNotFound)
	assert.ErrorIs(t, store.Users.SetRole(999, models.RoleUser), gorm.ErrRecordNotFound)
}

func TestDeleteUserCascades(t *testing.T) {
	store := setupStore(t)
	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")
	genre := createGenre(t, store, "action")

	// Bob owns a post; Alice commented on and liked it.
	bobPost := createPost(t, store, bob, *genre)
	assert.NoError(t, store.Comments.Create(&models.Comment{PostID: bobPost.ID, AuthorID: alice.ID, Content: "hi"}))
	_, err := store.Likes.Toggle(alice.ID, bobPost.ID)
	assert.NoError(t, err)

	// Alice owns a post Bob engaged with.
	alicePost := createPost(t, store, alice, *genre)
	assert.NoError(t, store.Comments.Create(&models.Comment{PostID: alicePost.ID, AuthorID: bob.ID, Content: "yo"}))
	_, err = store.Likes.Toggle(bob.ID, alicePost.ID)
	assert.NoError(t, err)

	// They are friends, and Alice's like raised a notification for Bob.
	_, err = store.Friendships.SendRequest(alice.ID, bob.ID)
	assert.NoError(t, err)
	_, err = store.Friendships.AcceptRequest(bob.ID, alice.ID)
	assert.NoError(t, err)
	notify(t, store, bob, alice, models.NotifNewLike)
	notify(t, store, alice, bob, models.NotifNewComment)

	err = store.Atomic(func(tx *repositories.Store) error {
		if err := tx.Users.Delete(alice.ID); err != nil {
			return err
		}
		return tx.Notifications.DetachActor(alice.ID)
	})
	assert.NoError(t, err)

	_, err = store.Users.ByID(alice.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Alice's post and Bob's engagement with it are gone.
	_, err = store.Posts.GetByID(alicePost.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Bob's post survives, minus Alice's comment and like.
	loaded, err := store.Posts.GetByID(bobPost.ID)
	assert.NoError(t, err)
	comments, err := store.Comments.ByPost(loaded.ID)
	assert.NoError(t, err)
	assert.Empty(t, comments)
	likes, err := store.Likes.CountForPost(loaded.ID)
	assert.NoError(t, err)
	assert.Zero(t, likes)

	// The friendship is gone from Bob's side too.
	friends, err := store.Friendships.Friends(bob.ID)
	assert.NoError(t, err)
	assert.Empty(t, friends)

	// Bob's notification survives with the actor detached.
	feed, err := store.Notifications.ListForUser(bob.ID)
	assert.NoError(t, err)
	assert.Len(t, feed, 1)
	assert.Nil(t, feed[0].ActorID)
}

func TestDeleteMissingUser(t *testing.T) {
	store := setupStore(t)

	err := store.Users.Delete(999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
