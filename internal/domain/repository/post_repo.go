package repository

import (
	"github.com/yourusername/blog-api/internal/domain/entity"
)

// PostRepository defines persistence operations for blog posts.
type PostRepository interface {
	Create(post *entity.Post) error
	GetByID(id uint) (*entity.Post, error)
	GetByUserID(userID uint) ([]entity.Post, error)
	// Delete removes the post together with its comments and likes.
	Delete(id uint) error
	IncrementLikeCount(postID uint, delta int) error
}
