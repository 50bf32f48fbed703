package service

import "errors"

// Auth flow specific errors used by handlers for stable error_type mapping.
var (
	ErrInvalidOTPCode   = errors.New("invalid_otp_code")
	ErrOTPExpired       = errors.New("otp_expired")
	ErrPasswordMismatch = errors.New("password_mismatch")
)
