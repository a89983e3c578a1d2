package repositories_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToggleLikeRoundTrip(t *testing.T) {
	store := setupStore(t)
	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")
	genre := createGenre(t, store, "action")
	post := createPost(t, store, alice, *genre)

	liked, err := store.Likes.Toggle(bob.ID, post.ID)
	assert.NoError(t, err)
	assert.True(t, liked)

	isLiked, err := store.Likes.Liked(bob.ID, post.ID)
	assert.NoError(t, err)
	assert.True(t, isLiked)

	count, err := store.Likes.CountForPost(post.ID)
	assert.NoError(t, err)
	assert.EqualValues(t, 1, count)

	// Toggling again removes the like and restores the original state.
	liked, err = store.Likes.Toggle(bob.ID, post.ID)
	assert.NoError(t, err)
	assert.False(t, liked)

	isLiked, err = store.Likes.Liked(bob.ID, post.ID)
	assert.NoError(t, err)
	assert.False(t, isLiked)

	count, err = store.Likes.CountForPost(post.ID)
	assert.NoError(t, err)
	assert.Zero(t, count)
}

func TestLikesAreIndependentPerUser(t *testing.T) {
	store := setupStore(t)
	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")
	carol := createUser(t, store, "carol")
	genre := createGenre(t, store, "action")
	post := createPost(t, store, alice, *genre)

	_, err := store.Likes.Toggle(bob.ID, post.ID)
	assert.NoError(t, err)
	_, err = store.Likes.Toggle(carol.ID, post.ID)
	assert.NoError(t, err)

	count, err := store.Likes.CountForPost(post.ID)
	assert.NoError(t, err)
	assert.EqualValues(t, 2, count)

	// Bob unliking does not touch Carol's like.
	_, err = store.Likes.Toggle(bob.ID, post.ID)
	assert.NoError(t, err)

	count, err = store.Likes.CountForPost(post.ID)
	assert.NoError(t, err)
	assert.EqualValues(t, 1, count)

	isLiked, err := store.Likes.Liked(carol.ID, post.ID)
	assert.NoError(t, err)
	assert.True(t, isLiked)
}
