package entity

import "time"

// Purposes an OTP code can be issued for.
const (
	OTPPurposeEmailVerification = "email_verification"
	OTPPurposePasswordReset     = "password_reset"
)

// OTPCodeTTL is the fixed validity window of a code from issuance.
const OTPCodeTTL = 10 * time.Minute

// OTPCode is a single-use numeric code issued to prove control of an email
// address or to authorize a password reset. Multiple outstanding codes per
// user are allowed; each code is valid strictly before ExpiresAt and only
// until consumed.
type OTPCode struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"not null;index" json:"user_id"`
	Code       string     `gorm:"size:6;not null;index" json:"-"`
	Purpose    string     `gorm:"size:30;not null;index" json:"purpose"`
	ExpiresAt  time.Time  `gorm:"not null;index" json:"expires_at"`
	ConsumedAt *time.Time `gorm:"index" json:"consumed_at,omitempty"`
	CreatedAt  time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (OTPCode) TableName() string {
	return "otp_codes"
}

func (c *OTPCode) IsConsumed() bool {
	return c.ConsumedAt != nil
}

func (c *OTPCode) IsExpired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
