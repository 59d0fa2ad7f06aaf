package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/collegelink-api/internal/handler/dto"
	"github.com/yourusername/collegelink-api/internal/service"
)

// PostHandler serves the campus feed endpoints.
type PostHandler struct {
	postService *service.PostService
}

func NewPostHandler(postService *service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// CreatePostRequest is the publish payload.
type CreatePostRequest struct {
	Content   string `json:"content"`
	MediaURL  string `json:"media_url"`
	MediaType string `json:"media_type"`
}

// CreatePost handles POST /api/posts.
func (h *PostHandler) CreatePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "error_type": "unauthorized"})
		return
	}

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request body is required and must be JSON", "error_type": "bad_request"})
		return
	}

	post, err := h.postService.CreatePost(userID, req.Content, req.MediaURL, req.MediaType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"post": dto.NewPostDTO(post)})
}

// GetFeed handles GET /api/posts?page=&limit=.
func (h *PostHandler) GetFeed(c *gin.Context) {
	page, limit := pageParams(c)

	feed, err := h.postService.GetFeed(limit, (page-1)*limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaginatedPostsResponse(feed.Posts, feed.TotalPosts, page, limit, feed.HasMore))
}

// GetUserPosts handles GET /api/posts/user/:user_id.
func (h *PostHandler) GetUserPosts(c *gin.Context) {
	page, limit := pageParams(c)
	targetUserID := c.Param("user_id")

	feed, err := h.postService.GetUserPosts(targetUserID, limit, (page-1)*limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaginatedPostsResponse(feed.Posts, feed.TotalPosts, page, limit, feed.HasMore))
}

// GetPost handles GET /api/posts/:id.
func (h *PostHandler) GetPost(c *gin.Context) {
	post, err := h.postService.GetPost(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": dto.NewPostDTO(post)})
}

// DeletePost handles DELETE /api/posts/:id.
func (h *PostHandler) DeletePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "error_type": "unauthorized"})
		return
	}

	if err := h.postService.DeletePost(c.Param("id"), userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}

// ToggleLike handles POST /api/posts/:id/like.
func (h *PostHandler) ToggleLike(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "error_type": "unauthorized"})
		return
	}

	liked, likesCount, err := h.postService.ToggleLike(c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked, "likes": likesCount})
}

func pageParams(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit
}
