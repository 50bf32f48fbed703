package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/blog-api/internal/domain/entity"
	apperrors "github.com/yourusername/blog-api/internal/pkg/errors"
)

// PostRepo implements repository.PostRepository.
type PostRepo struct {
	db *gorm.DB
}

func NewPostRepo(db *gorm.DB) *PostRepo {
	return &PostRepo{db: db}
}

func (r *PostRepo) Create(post *entity.Post) error {
	return r.db.Create(post).Error
}

func (r *PostRepo) GetByID(id uint) (*entity.Post, error) {
	var post entity.Post
	err := r.db.First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *PostRepo) GetByUserID(userID uint) ([]entity.Post, error) {
	var posts []entity.Post
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&posts).Error
	return posts, err
}

// Delete removes the post together with its comments and likes in one
// transaction.
func (r *PostRepo) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&entity.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&entity.Like{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&entity.Post{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrNotFound
		}
		return nil
	})
}

// IncrementLikeCount adjusts the denormalized counter by delta (may be negative).
func (r *PostRepo) IncrementLikeCount(postID uint, delta int) error {
	return r.db.Model(&entity.Post{}).
		Where("id = ?", postID).
		UpdateColumn("like_count", gorm.Expr("like_count + ?", delta)).
		Error
}
