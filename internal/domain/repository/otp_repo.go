package repository

import (
	"github.com/yourusername/blog-api/internal/domain/entity"
)

// OTPRepository defines persistence operations for one-time codes.
type OTPRepository interface {
	Create(code *entity.OTPCode) error
	// GetByCode looks a record up by (code, purpose). The code itself is the
	// lookup key at validation time.
	GetByCode(code, purpose string) (*entity.OTPCode, error)
	// HasOutstanding reports whether an unexpired, unconsumed record with the
	// same code and purpose already exists. Used to retry generation on the
	// rare collision.
	HasOutstanding(code, purpose string) (bool, error)
	MarkConsumed(id uint) error
	DeleteExpired() (int64, error)
}
