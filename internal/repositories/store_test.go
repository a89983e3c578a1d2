package repositories_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/otakusphere/backend/internal/models"
	"github.com/otakusphere/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setup in-memory DB
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := database.AutoMigrate(
		&models.User{},
		&models.Genre{},
		&models.Post{},
		&models.PostMedia{},
		&models.Comment{},
		&models.PostLike{},
		&models.Friendship{},
		&models.Notification{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return database
}

func setupStore(t *testing.T) *repositories.Store {
	t.Helper()
	return repositories.NewStore(setupTestDB(t))
}

func createUser(t *testing.T, store *repositories.Store, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         models.RoleUser,
		IsActive:     true,
	}
	if err := store.Users.Create(user); err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

func createGenre(t *testing.T, store *repositories.Store, name string) *models.Genre {
	t.Helper()
	genre := &models.Genre{Name: name}
	if err := store.Genres.Create(genre); err != nil {
		t.Fatalf("failed to create genre %s: %v", name, err)
	}
	return genre
}

func createPost(t *testing.T, store *repositories.Store, author *models.User, genres ...models.Genre) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:    fmt.Sprintf("post by %s", author.Username),
		Content:  "content",
		AuthorID: author.ID,
	}
	if err := store.Posts.Create(post, genres); err != nil {
		t.Fatalf("failed to create post: %v", err)
	}
	return post
}

func TestAtomicRollsBackOnError(t *testing.T) {
	store := setupStore(t)
	alice := createUser(t, store, "alice")

	boom := errors.New("boom")
	err := store.Atomic(func(tx *repositories.Store) error {
		if err := tx.Notifications.Create(&models.Notification{
			UserID: alice.ID,
			Type:   models.NotifNewLike,
		}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	count, err := store.Notifications.UnreadCount(alice.ID)
	assert.NoError(t, err)
	assert.Zero(t, count)
}

func TestAtomicCommitsTogether(t *testing.T) {
	store := setupStore(t)
	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")

	err := store.Atomic(func(tx *repositories.Store) error {
		edge, err := tx.Friendships.SendRequest(alice.ID, bob.ID)
		if err != nil {
			return err
		}
		assert.NotNil(t, edge)
		return tx.Notifications.Create(&models.Notification{
			UserID:  bob.ID,
			ActorID: &alice.ID,
			Type:    models.NotifFriendRequest,
		})
	})
	assert.NoError(t, err)

	pending, err := store.Friendships.HasPendingRequestTo(alice.ID, bob.ID)
	assert.NoError(t, err)
	assert.True(t, pending)

	unread, err := store.Notifications.UnreadCount(bob.ID)
	assert.NoError(t, err)
	assert.EqualValues(t, 1, unread)
}
