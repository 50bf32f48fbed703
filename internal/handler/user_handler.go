package handler

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"github.com/yourusername/blog-api/internal/domain/repository"
	"github.com/yourusername/blog-api/internal/service"
)

// UserHandler handles profile and data export requests.
type UserHandler struct {
	authService *service.AuthService
	postService *service.PostService
	commentRepo repository.CommentRepository
}

// NewUserHandler creates a new user handler.
func NewUserHandler(authService *service.AuthService, postService *service.PostService, commentRepo repository.CommentRepository) *UserHandler {
	return &UserHandler{
		authService: authService,
		postService: postService,
		commentRepo: commentRepo,
	}
}

// GetMe returns the authenticated user's profile.
func (h *UserHandler) GetMe(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	user, err := h.authService.GetUserByID(userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User profile fetched successfully",
		"user":    user,
	})
}

// ExportData streams the authenticated user's posts and comments as an xlsx
// workbook.
func (h *UserHandler) ExportData(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	posts, err := h.postService.GetByUser(userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	comments, err := h.commentRepo.ListByUser(userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("blog-export-%d-%s", userID, time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	postsSheet := "Posts"
	f.SetSheetName("Sheet1", postsSheet)

	sw, err := f.NewStreamWriter(postsSheet)
	if err != nil {
		log.Printf("[UserHandler] failed to create stream writer: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create export file", "error_type": "internal_server_error"})
		return
	}

	if err := sw.SetRow("A1", []interface{}{"ID", "Body", "Likes", "Created"}); err != nil {
		log.Printf("[UserHandler] failed to write header row: %v", err)
	}
	for i, p := range posts {
		cell := fmt.Sprintf("A%d", i+2)
		row := []interface{}{p.ID, sanitizeForExcel(p.Body), p.LikeCount, p.CreatedAt.Format(time.RFC3339)}
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[UserHandler] failed to write post row %d: %v", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		log.Printf("[UserHandler] failed to flush posts sheet: %v", err)
	}

	commentsSheet := "Comments"
	if _, err := f.NewSheet(commentsSheet); err == nil {
		csw, err := f.NewStreamWriter(commentsSheet)
		if err == nil {
			if err := csw.SetRow("A1", []interface{}{"ID", "Post", "Body", "Created"}); err != nil {
				log.Printf("[UserHandler] failed to write comment header row: %v", err)
			}
			for i, cm := range comments {
				cell := fmt.Sprintf("A%d", i+2)
				row := []interface{}{cm.ID, cm.PostID, sanitizeForExcel(cm.Body), cm.CreatedAt.Format(time.RFC3339)}
				if err := csw.SetRow(cell, row); err != nil {
					log.Printf("[UserHandler] failed to write comment row %d: %v", i+2, err)
				}
			}
			if err := csw.Flush(); err != nil {
				log.Printf("[UserHandler] failed to flush comments sheet: %v", err)
			}
		}
	}

	if err := f.Write(c.Writer); err != nil {
		log.Printf("[UserHandler] failed to stream export: %v", err)
	}
}

// sanitizeForExcel guards against formula injection in exported cells.
func sanitizeForExcel(value string) string {
	if value == "" {
		return value
	}
	switch value[0] {
	case '=', '+', '-', '@':
		return "'" + value
	}
	return strings.ReplaceAll(value, "\x00", "")
}
