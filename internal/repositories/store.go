package repositories

import "gorm.io/gorm"

// Store bundles every repository over one gorm connection and is the
// unit-of-work boundary for handlers: mutations that must commit together
// run inside Atomic.
type Store struct {
	db *gorm.DB

	Users         UserRepository
	Posts         PostRepository
	Genres        GenreRepository
	Comments      CommentRepository
	Likes         LikeRepository
	Friendships   FriendshipRepository
	Notifications NotificationRepository
}

// NewStore creates a Store with all repositories bound to db.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		Users:         NewUserRepository(db),
		Posts:         NewPostRepository(db),
		Genres:        NewGenreRepository(db),
		Comments:      NewCommentRepository(db),
		Likes:         NewLikeRepository(db),
		Friendships:   NewFriendshipRepository(db),
		Notifications: NewNotificationRepository(db),
	}
}

// Atomic runs fn against a Store bound to a single transaction: either every
// mutation inside fn persists or none do.
func (s *Store) Atomic(fn func(tx *Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// DB exposes the underlying connection for migrations.
func (s *Store) DB() *gorm.DB { return s.db }
