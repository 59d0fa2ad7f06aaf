package dto

import (
	"time"

	"github.com/yourusername/collegelink-api/internal/domain/entity"
)

// PostDTO is the public projection of a feed post.
type PostDTO struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	UserName   string    `json:"user_name"`
	UserAvatar string    `json:"user_avatar,omitempty"`
	Content    string    `json:"content"`
	MediaURL   string    `json:"media_url,omitempty"`
	MediaType  string    `json:"media_type,omitempty"`
	Likes      int64     `json:"likes"`
	Comments   int64     `json:"comments"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewPostDTO projects an entity.Post for API responses.
func NewPostDTO(p *entity.Post) *PostDTO {
	if p == nil {
		return nil
	}
	return &PostDTO{
		ID:         p.ID,
		UserID:     p.UserID,
		UserName:   p.UserName,
		UserAvatar: p.UserAvatar,
		Content:    p.Content,
		MediaURL:   p.MediaURL,
		MediaType:  p.MediaType,
		Likes:      p.LikesCount,
		Comments:   p.CommentsCount,
		CreatedAt:  p.CreatedAt,
	}
}

// PaginatedPostsResponse is one page of the feed.
type PaginatedPostsResponse struct {
	Posts      []*PostDTO `json:"posts"`
	TotalPosts int64      `json:"total_posts"`
	Page       int        `json:"page"`
	PerPage    int        `json:"per_page"`
	HasMore    bool       `json:"has_more"`
}

// NewPaginatedPostsResponse builds a feed page from entities.
func NewPaginatedPostsResponse(posts []entity.Post, total int64, page, perPage int, hasMore bool) *PaginatedPostsResponse {
	out := make([]*PostDTO, 0, len(posts))
	for i := range posts {
		out = append(out, NewPostDTO(&posts[i]))
	}
	return &PaginatedPostsResponse{
		Posts:      out,
		TotalPosts: total,
		Page:       page,
		PerPage:    perPage,
		HasMore:    hasMore,
	}
}
