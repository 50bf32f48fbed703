package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/blog-api/internal/domain/entity"
	apperrors "github.com/yourusername/blog-api/internal/pkg/errors"
)

// zeroReader is a deterministic random source: all-zero bytes make
// crypto/rand.Int draw 0, so every generated code is "000000".
type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

func newTestOTPService(t *testing.T, otpRepo *MockOTPRepository, at time.Time) *OTPService {
	t.Helper()
	svc, err := NewOTPService(otpRepo, zeroReader{})
	require.NoError(t, err)
	svc.now = func() time.Time { return at }
	return svc
}

func TestOTPService_Issue_PersistsCodeWithFixedWindow(t *testing.T) {
	// Arrange
	issued := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	mockOTPRepo := new(MockOTPRepository)
	mockOTPRepo.On("HasOutstanding", "000000", entity.OTPPurposeEmailVerification).Return(false, nil)

	var stored *entity.OTPCode
	mockOTPRepo.On("Create", mock.AnythingOfType("*entity.OTPCode")).Run(func(args mock.Arguments) {
		stored = args.Get(0).(*entity.OTPCode)
	}).Return(nil)

	svc := newTestOTPService(t, mockOTPRepo, issued)

	// Act
	code, err := svc.Issue(context.Background(), 42, entity.OTPPurposeEmailVerification)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "000000", code)
	assert.Len(t, code, 6)
	require.NotNil(t, stored)
	assert.Equal(t, uint(42), stored.UserID)
	assert.Equal(t, entity.OTPPurposeEmailVerification, stored.Purpose)
	assert.Equal(t, issued.Add(10*time.Minute), stored.ExpiresAt)
	assert.Nil(t, stored.ConsumedAt)
	mockOTPRepo.AssertExpectations(t)
}

func TestOTPService_Issue_UnknownPurpose(t *testing.T) {
	// Arrange
	mockOTPRepo := new(MockOTPRepository)
	svc := newTestOTPService(t, mockOTPRepo, time.Now())

	// Act
	code, err := svc.Issue(context.Background(), 42, "account_deletion")

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Empty(t, code)
	mockOTPRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestOTPService_Issue_RetriesOnCollision(t *testing.T) {
	// Arrange: the first two draws collide with an outstanding code
	mockOTPRepo := new(MockOTPRepository)
	mockOTPRepo.On("HasOutstanding", "000000", entity.OTPPurposePasswordReset).Return(true, nil).Twice()
	mockOTPRepo.On("HasOutstanding", "000000", entity.OTPPurposePasswordReset).Return(false, nil).Once()
	mockOTPRepo.On("Create", mock.AnythingOfType("*entity.OTPCode")).Return(nil)

	svc := newTestOTPService(t, mockOTPRepo, time.Now())

	// Act
	code, err := svc.Issue(context.Background(), 7, entity.OTPPurposePasswordReset)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "000000", code)
	mockOTPRepo.AssertNumberOfCalls(t, "HasOutstanding", 3)
	mockOTPRepo.AssertExpectations(t)
}

func TestOTPService_Validate_ConsumesAndReturnsUser(t *testing.T) {
	// Arrange: one second left in the validity window
	issued := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	record := &entity.OTPCode{
		ID:        7,
		UserID:    42,
		Code:      "123456",
		Purpose:   entity.OTPPurposePasswordReset,
		ExpiresAt: issued.Add(entity.OTPCodeTTL),
	}
	mockOTPRepo := new(MockOTPRepository)
	mockOTPRepo.On("GetByCode", "123456", entity.OTPPurposePasswordReset).Return(record, nil)
	mockOTPRepo.On("MarkConsumed", uint(7)).Return(nil)

	svc := newTestOTPService(t, mockOTPRepo, issued.Add(entity.OTPCodeTTL-time.Second))

	// Act
	userID, err := svc.Validate(context.Background(), "123456", entity.OTPPurposePasswordReset)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
	mockOTPRepo.AssertExpectations(t)
}

func TestOTPService_Validate_ExpiredAtBoundary(t *testing.T) {
	// Arrange: exactly 10 minutes after issuance the code is no longer valid
	issued := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	record := &entity.OTPCode{
		ID:        7,
		UserID:    42,
		Code:      "123456",
		Purpose:   entity.OTPPurposeEmailVerification,
		ExpiresAt: issued.Add(entity.OTPCodeTTL),
	}
	mockOTPRepo := new(MockOTPRepository)
	mockOTPRepo.On("GetByCode", "123456", entity.OTPPurposeEmailVerification).Return(record, nil)

	svc := newTestOTPService(t, mockOTPRepo, issued.Add(entity.OTPCodeTTL))

	// Act
	_, err := svc.Validate(context.Background(), "123456", entity.OTPPurposeEmailVerification)

	// Assert
	assert.ErrorIs(t, err, ErrOTPExpired)
	mockOTPRepo.AssertNotCalled(t, "MarkConsumed", mock.Anything)
}

func TestOTPService_Validate_UnknownCode(t *testing.T) {
	// Arrange
	mockOTPRepo := new(MockOTPRepository)
	mockOTPRepo.On("GetByCode", "999999", entity.OTPPurposeEmailVerification).Return(nil, apperrors.ErrNotFound)

	svc := newTestOTPService(t, mockOTPRepo, time.Now())

	// Act
	_, err := svc.Validate(context.Background(), "999999", entity.OTPPurposeEmailVerification)

	// Assert
	assert.ErrorIs(t, err, ErrInvalidOTPCode)
}

func TestOTPService_Validate_ConsumedCodeRejected(t *testing.T) {
	// Arrange: the code was already used once
	issued := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	consumedAt := issued.Add(time.Minute)
	record := &entity.OTPCode{
		ID:         7,
		UserID:     42,
		Code:       "123456",
		Purpose:    entity.OTPPurposePasswordReset,
		ExpiresAt:  issued.Add(entity.OTPCodeTTL),
		ConsumedAt: &consumedAt,
	}
	mockOTPRepo := new(MockOTPRepository)
	mockOTPRepo.On("GetByCode", "123456", entity.OTPPurposePasswordReset).Return(record, nil)

	svc := newTestOTPService(t, mockOTPRepo, issued.Add(2*time.Minute))

	// Act
	_, err := svc.Validate(context.Background(), "123456", entity.OTPPurposePasswordReset)

	// Assert
	assert.ErrorIs(t, err, ErrInvalidOTPCode)
	mockOTPRepo.AssertNotCalled(t, "MarkConsumed", mock.Anything)
}

func TestOTPService_ValidateForUser_WrongUser(t *testing.T) {
	// Arrange: code issued for user 42, presented by user 43
	issued := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	record := &entity.OTPCode{
		ID:        7,
		UserID:    42,
		Code:      "123456",
		Purpose:   entity.OTPPurposeEmailVerification,
		ExpiresAt: issued.Add(entity.OTPCodeTTL),
	}
	mockOTPRepo := new(MockOTPRepository)
	mockOTPRepo.On("GetByCode", "123456", entity.OTPPurposeEmailVerification).Return(record, nil)

	svc := newTestOTPService(t, mockOTPRepo, issued.Add(time.Minute))

	// Act
	err := svc.ValidateForUser(context.Background(), 43, "123456", entity.OTPPurposeEmailVerification)

	// Assert: rejected without consuming the code
	assert.ErrorIs(t, err, ErrInvalidOTPCode)
	mockOTPRepo.AssertNotCalled(t, "MarkConsumed", mock.Anything)
}

func TestOTPService_ValidateForUser_Success(t *testing.T) {
	// Arrange
	issued := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	record := &entity.OTPCode{
		ID:        7,
		UserID:    42,
		Code:      "123456",
		Purpose:   entity.OTPPurposeEmailVerification,
		ExpiresAt: issued.Add(entity.OTPCodeTTL),
	}
	mockOTPRepo := new(MockOTPRepository)
	mockOTPRepo.On("GetByCode", "123456", entity.OTPPurposeEmailVerification).Return(record, nil)
	mockOTPRepo.On("MarkConsumed", uint(7)).Return(nil)

	svc := newTestOTPService(t, mockOTPRepo, issued.Add(time.Minute))

	// Act
	err := svc.ValidateForUser(context.Background(), 42, "123456", entity.OTPPurposeEmailVerification)

	// Assert
	require.NoError(t, err)
	mockOTPRepo.AssertExpectations(t)
}
