package postgres

import (
	"github.com/yourusername/blog-api/internal/domain/entity"
	apperrors "github.com/yourusername/blog-api/internal/pkg/errors"
	"gorm.io/gorm"
)

// LikeRepo implements repository.LikeRepository.
type LikeRepo struct {
	db *gorm.DB
}

func NewLikeRepo(db *gorm.DB) *LikeRepo {
	return &LikeRepo{db: db}
}

// Create inserts a like. The unique index on (post_id, user_id) turns a
// duplicate into apperrors.ErrConflict, which also serializes concurrent
// likes at the store level.
func (r *LikeRepo) Create(like *entity.Like) error {
	if err := r.db.Create(like).Error; err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrConflict
		}
		return err
	}
	return nil
}

func (r *LikeRepo) Delete(postID, userID uint) error {
	result := r.db.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&entity.Like{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *LikeRepo) Exists(postID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&entity.Like{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *LikeRepo) CountByPost(postID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Like{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}
