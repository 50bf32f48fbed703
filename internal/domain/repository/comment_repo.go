package repository

import (
	"github.com/yourusername/blog-api/internal/domain/entity"
)

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	Create(comment *entity.Comment) error
	GetByID(id uint) (*entity.Comment, error)
	// ListByPost returns comments newest first.
	ListByPost(postID uint) ([]entity.Comment, error)
	ListByUser(userID uint) ([]entity.Comment, error)
	Delete(id uint) error
}
