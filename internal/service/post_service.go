package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yourusername/collegelink-api/internal/domain/entity"
	"github.com/yourusername/collegelink-api/internal/domain/repository"
	apperrors "github.com/yourusername/collegelink-api/internal/pkg/errors"
)

const maxPostContentLength = 5000

// FeedBroadcaster pushes newly created posts to live feed subscribers.
type FeedBroadcaster interface {
	BroadcastNewPost(post *entity.Post)
}

// PostFeed is one page of the feed plus pagination metadata.
type PostFeed struct {
	Posts      []entity.Post
	TotalPosts int64
	HasMore    bool
}

// PostService implements the campus feed: creating posts, paginated
// listing and like toggling. Only verified accounts may publish.
type PostService struct {
	postRepo    repository.PostRepository
	userRepo    repository.UserRepository
	broadcaster FeedBroadcaster
}

// NewPostService creates the post service. The broadcaster is optional;
// without it posts are simply not pushed to live subscribers.
func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository, broadcaster FeedBroadcaster) (*PostService, error) {
	if postRepo == nil {
		return nil, fmt.Errorf("postRepo is required")
	}
	if userRepo == nil {
		return nil, fmt.Errorf("userRepo is required")
	}
	return &PostService{
		postRepo:    postRepo,
		userRepo:    userRepo,
		broadcaster: broadcaster,
	}, nil
}

// CreatePost publishes a post on behalf of a verified account. The
// author's display name and avatar are denormalized onto the post.
func (s *PostService) CreatePost(userID, content, mediaURL, mediaType string) (*entity.Post, error) {
	content = strings.TrimSpace(content)
	var violations []string
	if content == "" {
		violations = append(violations, "Post content is required")
	}
	if len(content) > maxPostContentLength {
		violations = append(violations, fmt.Sprintf("Post content is too long (max %d characters)", maxPostContentLength))
	}
	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to load author: %w", err)
	}
	if !user.IsEmailVerified {
		return nil, fmt.Errorf("%w: email verification required to post", apperrors.ErrForbidden)
	}

	post := &entity.Post{
		UserID:     user.ID,
		UserName:   user.FullName,
		UserAvatar: user.ProfilePicture,
		Content:    content,
		MediaURL:   mediaURL,
		MediaType:  mediaType,
	}
	if err := s.postRepo.Create(post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastNewPost(post)
	}
	return post, nil
}

// GetFeed returns one page of the global feed, newest first.
func (s *PostService) GetFeed(limit, offset int) (*PostFeed, error) {
	limit, offset = normalizePage(limit, offset)

	posts, total, err := s.postRepo.List(limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return &PostFeed{
		Posts:      posts,
		TotalPosts: total,
		HasMore:    int64(offset+len(posts)) < total,
	}, nil
}

// GetUserPosts returns one page of a single author's posts.
func (s *PostService) GetUserPosts(userID string, limit, offset int) (*PostFeed, error) {
	limit, offset = normalizePage(limit, offset)

	posts, total, err := s.postRepo.ListByUser(userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list user posts: %w", err)
	}
	return &PostFeed{
		Posts:      posts,
		TotalPosts: total,
		HasMore:    int64(offset+len(posts)) < total,
	}, nil
}

// GetPost returns a single post by id.
func (s *PostService) GetPost(postID string) (*entity.Post, error) {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes a post. Only the author may delete it.
func (s *PostService) DeletePost(postID, userID string) error {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return fmt.Errorf("%w: only the author can delete a post", apperrors.ErrForbidden)
	}
	if err := s.postRepo.Delete(postID); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

// ToggleLike flips the caller's like on a post and returns the new state.
func (s *PostService) ToggleLike(postID, userID string) (liked bool, likesCount int64, err error) {
	if _, err := s.postRepo.GetByID(postID); err != nil {
		return false, 0, err
	}
	return s.postRepo.ToggleLike(postID, userID)
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
