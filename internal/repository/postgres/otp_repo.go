package postgres

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/blog-api/internal/domain/entity"
	apperrors "github.com/yourusername/blog-api/internal/pkg/errors"
)

// OTPRepo implements repository.OTPRepository.
type OTPRepo struct {
	db *gorm.DB
}

func NewOTPRepo(db *gorm.DB) *OTPRepo {
	return &OTPRepo{db: db}
}

func (r *OTPRepo) Create(code *entity.OTPCode) error {
	return r.db.Create(code).Error
}

// GetByCode returns the newest record matching (code, purpose). Issuance does
// not enforce uniqueness across outstanding codes, so preferring the newest
// record keeps a rare collision from resolving to a stale one.
func (r *OTPRepo) GetByCode(code, purpose string) (*entity.OTPCode, error) {
	var record entity.OTPCode
	err := r.db.
		Where("code = ? AND purpose = ?", code, purpose).
		Order("created_at DESC").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up otp code: %w", err)
	}
	return &record, nil
}

func (r *OTPRepo) HasOutstanding(code, purpose string) (bool, error) {
	var count int64
	err := r.db.Model(&entity.OTPCode{}).
		Where("code = ? AND purpose = ? AND consumed_at IS NULL AND expires_at > ?", code, purpose, time.Now()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *OTPRepo) MarkConsumed(id uint) error {
	now := time.Now()
	return r.db.Model(&entity.OTPCode{}).
		Where("id = ?", id).
		Update("consumed_at", now).Error
}

// DeleteExpired removes records past their expiry. Called periodically from main.
func (r *OTPRepo) DeleteExpired() (int64, error) {
	result := r.db.Where("expires_at <= ?", time.Now()).Delete(&entity.OTPCode{})
	return result.RowsAffected, result.Error
}
