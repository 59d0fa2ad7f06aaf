package postgres

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/collegelink-api/internal/domain/entity"
	apperrors "github.com/yourusername/collegelink-api/internal/pkg/errors"
)

// PostRepo implements repository.PostRepository on PostgreSQL.
type PostRepo struct {
	db *gorm.DB
}

// NewPostRepo creates a new post repository.
func NewPostRepo(db *gorm.DB) *PostRepo {
	return &PostRepo{db: db}
}

// Create persists a new post.
func (r *PostRepo) Create(post *entity.Post) error {
	return r.db.Create(post).Error
}

// GetByID returns a post by id.
func (r *PostRepo) GetByID(id string) (*entity.Post, error) {
	var post entity.Post
	err := r.db.Where("id = ?", id).First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// List returns the newest posts with the total count for pagination.
// A transaction keeps the page and the count consistent with each other.
func (r *PostRepo) List(limit, offset int) ([]entity.Post, int64, error) {
	var posts []entity.Post
	var total int64

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.Post{}).Count(&total).Error; err != nil {
			return err
		}
		return tx.Order("created_at DESC").Limit(limit).Offset(offset).Find(&posts).Error
	})
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// ListByUser returns one user's newest posts with their total count.
func (r *PostRepo) ListByUser(userID string, limit, offset int) ([]entity.Post, int64, error) {
	var posts []entity.Post
	var total int64

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.Post{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).
			Order("created_at DESC").Limit(limit).Offset(offset).Find(&posts).Error
	})
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// Delete removes a post and its likes.
func (r *PostRepo) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&entity.PostLike{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&entity.Post{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrNotFound
		}
		return nil
	})
}

// ToggleLike flips the like state of (postID, userID) and returns the
// resulting state and count. Runs inside a transaction; the composite
// primary key on post_likes stops a double insert under races.
func (r *PostRepo) ToggleLike(postID, userID string) (bool, int64, error) {
	var liked bool
	var likesCount int64

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var post entity.Post
		if err := tx.Where("id = ?", postID).First(&post).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotFound
			}
			return err
		}

		result := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&entity.PostLike{})
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected > 0 {
			liked = false
			if err := tx.Model(&entity.Post{}).Where("id = ?", postID).
				UpdateColumn("likes_count", gorm.Expr("GREATEST(likes_count - 1, 0)")).Error; err != nil {
				return err
			}
		} else {
			// ON CONFLICT DO NOTHING keeps the transaction alive when a
			// concurrent request inserted the like first.
			insert := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&entity.PostLike{PostID: postID, UserID: userID})
			if insert.Error != nil {
				return insert.Error
			}
			liked = true
			if insert.RowsAffected > 0 {
				if err := tx.Model(&entity.Post{}).Where("id = ?", postID).
					UpdateColumn("likes_count", gorm.Expr("likes_count + 1")).Error; err != nil {
					return err
				}
			}
		}

		return tx.Model(&entity.Post{}).Where("id = ?", postID).
			Select("likes_count").Scan(&likesCount).Error
	})
	if err != nil {
		return false, 0, err
	}
	return liked, likesCount, nil
}

// DeleteAll removes every post and like.
func (r *PostRepo) DeleteAll() error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM post_likes").Error; err != nil {
			return err
		}
		return tx.Exec("DELETE FROM posts").Error
	})
}
