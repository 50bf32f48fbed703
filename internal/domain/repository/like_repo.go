package repository

import (
	"github.com/yourusername/blog-api/internal/domain/entity"
)

// LikeRepository defines persistence operations for likes.
type LikeRepository interface {
	// Create inserts a like. Returns apperrors.ErrConflict when the user has
	// already liked the post (unique index on post_id+user_id).
	Create(like *entity.Like) error
	Delete(postID, userID uint) error
	Exists(postID, userID uint) (bool, error)
	CountByPost(postID uint) (int64, error)
}
