package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/blog-api/internal/service"
)

// CommentHandler handles comment requests.
type CommentHandler struct {
	commentService *service.CommentService
}

// NewCommentHandler creates a new comment handler.
func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// CreateCommentRequest is the new-comment payload.
type CreateCommentRequest struct {
	Body string `json:"comment" binding:"required,min=1"`
}

// CreateComment stores a comment under a post.
func (h *CommentHandler) CreateComment(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	postID := c.MustGet("postID").(uint)

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill all required fields", "error_type": "validation_error", "details": err.Error()})
		return
	}

	comment, err := h.commentService.Create(postID, userID, req.Body)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Comment posted successfully",
		"comment": comment,
	})
}

// ListComments returns a post's comments, newest first.
func (h *CommentHandler) ListComments(c *gin.Context) {
	postID := c.MustGet("postID").(uint)

	comments, err := h.commentService.ListByPost(postID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Comments fetched successfully",
		"comments": comments,
	})
}

// DeleteComment removes a comment from a post.
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	postID := c.MustGet("postID").(uint)
	commentID := c.MustGet("commentID").(uint)

	if err := h.commentService.Delete(postID, commentID, userID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted!"})
}
