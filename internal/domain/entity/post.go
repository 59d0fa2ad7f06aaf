package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post is a single feed entry.
type Post struct {
	ID            string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        string    `gorm:"type:uuid;not null;index" json:"user_id"`
	UserName      string    `gorm:"size:100;not null" json:"user_name"`
	UserAvatar    string    `gorm:"size:255;not null;default:''" json:"user_avatar,omitempty"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	MediaURL      string    `gorm:"size:512;not null;default:''" json:"media_url,omitempty"`
	MediaType     string    `gorm:"size:50;not null;default:''" json:"media_type,omitempty"`
	LikesCount    int64     `gorm:"not null;default:0" json:"likes"`
	CommentsCount int64     `gorm:"not null;default:0" json:"comments"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Post) TableName() string {
	return "posts"
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// PostLike records that a user liked a post. The composite unique index
// makes the like toggle race-safe: a second concurrent like hits the
// constraint instead of double-counting.
type PostLike struct {
	PostID    string    `gorm:"type:uuid;primaryKey" json:"post_id"`
	UserID    string    `gorm:"type:uuid;primaryKey" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (PostLike) TableName() string {
	return "post_likes"
}
