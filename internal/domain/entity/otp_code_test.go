package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOTPCode_IsExpired_Boundary(t *testing.T) {
	// Arrange
	issued := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	code := &OTPCode{ExpiresAt: issued.Add(OTPCodeTTL)}

	// Act & Assert: valid strictly before ExpiresAt, expired at and after it
	assert.False(t, code.IsExpired(issued))
	assert.False(t, code.IsExpired(issued.Add(OTPCodeTTL-time.Second)))
	assert.True(t, code.IsExpired(issued.Add(OTPCodeTTL)))
	assert.True(t, code.IsExpired(issued.Add(OTPCodeTTL+time.Second)))
}

func TestOTPCode_IsConsumed(t *testing.T) {
	// Arrange
	now := time.Now()
	fresh := &OTPCode{}
	used := &OTPCode{ConsumedAt: &now}

	// Act & Assert
	assert.False(t, fresh.IsConsumed())
	assert.True(t, used.IsConsumed())
}

func TestOTPCode_TableName(t *testing.T) {
	assert.Equal(t, "otp_codes", OTPCode{}.TableName())
}
