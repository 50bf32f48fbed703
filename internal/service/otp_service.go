package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"

	cryptorand "crypto/rand"

	"github.com/yourusername/blog-api/internal/domain/entity"
	"github.com/yourusername/blog-api/internal/domain/repository"
	apperrors "github.com/yourusername/blog-api/internal/pkg/errors"
)

// codeCollisionRetries bounds regeneration when a fresh code collides with an
// outstanding unexpired one of the same purpose.
const codeCollisionRetries = 3

// OTPService issues and validates one-time numeric codes. The random source
// is injected so tests can drive generation deterministically; production
// uses crypto/rand.
type OTPService struct {
	otpRepo repository.OTPRepository
	random  io.Reader
	now     func() time.Time
}

// NewOTPService creates a new OTP service. A nil random source defaults to
// crypto/rand.Reader, a nil clock to time.Now.
func NewOTPService(otpRepo repository.OTPRepository, random io.Reader) (*OTPService, error) {
	if otpRepo == nil {
		return nil, fmt.Errorf("OTP repository is required")
	}
	if random == nil {
		random = cryptorand.Reader
	}
	return &OTPService{
		otpRepo: otpRepo,
		random:  random,
		now:     time.Now,
	}, nil
}

// Issue generates a random 6-digit code for the user and purpose, persists it
// with a fixed 10-minute validity window, and returns it for delivery. Prior
// outstanding codes for the same user stay valid.
func (s *OTPService) Issue(ctx context.Context, userID uint, purpose string) (string, error) {
	if purpose != entity.OTPPurposeEmailVerification && purpose != entity.OTPPurposePasswordReset {
		return "", fmt.Errorf("%w: unknown otp purpose %q", apperrors.ErrValidation, purpose)
	}

	code, err := s.generateCode(purpose)
	if err != nil {
		return "", fmt.Errorf("failed to generate otp code: %w", err)
	}

	now := s.now()
	record := &entity.OTPCode{
		UserID:    userID,
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: now.Add(entity.OTPCodeTTL),
	}
	if err := s.otpRepo.Create(record); err != nil {
		return "", fmt.Errorf("failed to persist otp code: %w", err)
	}

	return code, nil
}

// Validate looks a code up by value and purpose, checks its validity window,
// marks it consumed, and returns the user it was issued for. A consumed or
// unknown code fails with ErrInvalidOTPCode, a stale one with ErrOTPExpired.
func (s *OTPService) Validate(ctx context.Context, code, purpose string) (uint, error) {
	record, err := s.lookup(code, purpose)
	if err != nil {
		return 0, err
	}
	if err := s.consume(record); err != nil {
		return 0, err
	}
	return record.UserID, nil
}

// ValidateForUser is Validate scoped to a known user: the code must have been
// issued for userID, checked before the record is consumed.
func (s *OTPService) ValidateForUser(ctx context.Context, userID uint, code, purpose string) error {
	record, err := s.lookup(code, purpose)
	if err != nil {
		return err
	}
	if record.UserID != userID {
		return ErrInvalidOTPCode
	}
	return s.consume(record)
}

func (s *OTPService) lookup(code, purpose string) (*entity.OTPCode, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: empty otp code", apperrors.ErrValidation)
	}

	record, err := s.otpRepo.GetByCode(code, purpose)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrInvalidOTPCode
		}
		return nil, err
	}

	if record.IsConsumed() {
		return nil, ErrInvalidOTPCode
	}
	if record.IsExpired(s.now()) {
		return nil, ErrOTPExpired
	}
	return record, nil
}

func (s *OTPService) consume(record *entity.OTPCode) error {
	if err := s.otpRepo.MarkConsumed(record.ID); err != nil {
		return fmt.Errorf("failed to mark otp code consumed: %w", err)
	}
	return nil
}

// generateCode draws a uniformly random 6-digit decimal string (leading
// zeros allowed), retrying a bounded number of times when it collides with
// an outstanding unexpired code of the same purpose.
func (s *OTPService) generateCode(purpose string) (string, error) {
	var code string
	for attempt := 0; attempt <= codeCollisionRetries; attempt++ {
		n, err := cryptoRandInt(s.random, 1000000)
		if err != nil {
			return "", err
		}
		code = fmt.Sprintf("%06d", n)

		outstanding, err := s.otpRepo.HasOutstanding(code, purpose)
		if err != nil {
			return "", err
		}
		if !outstanding {
			return code, nil
		}
	}
	// Collisions this persistent are vanishingly unlikely; callers tolerate
	// the duplicate (lookup prefers the newest record).
	return code, nil
}

func cryptoRandInt(random io.Reader, max int64) (int64, error) {
	v, err := cryptorand.Int(random, big.NewInt(max))
	if err != nil {
		return 0, err
	}
	return v.Int64(), nil
}
