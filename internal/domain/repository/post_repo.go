package repository

import (
	"github.com/yourusername/collegelink-api/internal/domain/entity"
)

// PostRepository defines persistence operations over feed posts.
type PostRepository interface {
	Create(post *entity.Post) error
	GetByID(id string) (*entity.Post, error)
	// List returns the newest posts first, with the total count for pagination.
	List(limit, offset int) ([]entity.Post, int64, error)
	ListByUser(userID string, limit, offset int) ([]entity.Post, int64, error)
	Delete(id string) error
	// ToggleLike flips the like state of (postID, userID) atomically and
	// returns the resulting state and like count.
	ToggleLike(postID, userID string) (liked bool, likesCount int64, err error)
	DeleteAll() error
}
