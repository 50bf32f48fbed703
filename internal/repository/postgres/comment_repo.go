package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/blog-api/internal/domain/entity"
	apperrors "github.com/yourusername/blog-api/internal/pkg/errors"
)

// CommentRepo implements repository.CommentRepository.
type CommentRepo struct {
	db *gorm.DB
}

func NewCommentRepo(db *gorm.DB) *CommentRepo {
	return &CommentRepo{db: db}
}

func (r *CommentRepo) Create(comment *entity.Comment) error {
	return r.db.Create(comment).Error
}

func (r *CommentRepo) GetByID(id uint) (*entity.Comment, error) {
	var comment entity.Comment
	err := r.db.First(&comment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// ListByPost returns a post's comments newest first.
func (r *CommentRepo) ListByPost(postID uint) ([]entity.Comment, error) {
	var comments []entity.Comment
	err := r.db.Where("post_id = ?", postID).Order("created_at DESC").Find(&comments).Error
	return comments, err
}

func (r *CommentRepo) ListByUser(userID uint) ([]entity.Comment, error) {
	var comments []entity.Comment
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&comments).Error
	return comments, err
}

func (r *CommentRepo) Delete(id uint) error {
	result := r.db.Delete(&entity.Comment{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
