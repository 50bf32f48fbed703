package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/blog-api/internal/service"
)

// PostHandler handles blog post and like requests.
type PostHandler struct {
	postService *service.PostService
	likeService *service.LikeService
}

// NewPostHandler creates a new post handler.
func NewPostHandler(postService *service.PostService, likeService *service.LikeService) *PostHandler {
	return &PostHandler{
		postService: postService,
		likeService: likeService,
	}
}

// CreatePostRequest is the new-post payload.
type CreatePostRequest struct {
	Body string `json:"blog" binding:"required,min=1"`
}

// CreatePost stores a new post for the authenticated user.
func (h *PostHandler) CreatePost(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill all required fields", "error_type": "validation_error", "details": err.Error()})
		return
	}

	post, err := h.postService.Create(userID, req.Body)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	log.Printf("[PostHandler] user ID=%d created post ID=%d", userID, post.ID)
	c.JSON(http.StatusCreated, gin.H{
		"message": "Blog uploaded successfully",
		"post":    post,
	})
}

// GetPost returns a single post.
func (h *PostHandler) GetPost(c *gin.Context) {
	postID := c.MustGet("postID").(uint)

	post, err := h.postService.GetByID(postID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Blog post fetched successfully",
		"post":    post,
	})
}

// GetUserPosts returns all posts of a user.
func (h *PostHandler) GetUserPosts(c *gin.Context) {
	userID := c.MustGet("targetUserID").(uint)

	posts, err := h.postService.GetByUser(userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Blog posts fetched successfully",
		"posts":   posts,
	})
}

// DeletePost removes the authenticated user's post.
func (h *PostHandler) DeletePost(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	postID := c.MustGet("postID").(uint)

	if err := h.postService.Delete(postID, userID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Blog post deleted successfully"})
}

// LikePost records a like by the authenticated user.
func (h *PostHandler) LikePost(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	postID := c.MustGet("postID").(uint)

	if err := h.likeService.Like(postID, userID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post liked successfully"})
}

// UnlikePost removes the authenticated user's like.
func (h *PostHandler) UnlikePost(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	postID := c.MustGet("postID").(uint)

	if err := h.likeService.Unlike(postID, userID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Like removed successfully"})
}

// GetLikeCount returns a post's like count.
func (h *PostHandler) GetLikeCount(c *gin.Context) {
	postID := c.MustGet("postID").(uint)

	count, err := h.likeService.Count(postID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Like count fetched successfully",
		"count":   count,
	})
}
