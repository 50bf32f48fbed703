package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/blog-api/internal/domain/entity"
	"github.com/yourusername/blog-api/internal/domain/repository"
	apperrors "github.com/yourusername/blog-api/internal/pkg/errors"
	"github.com/yourusername/blog-api/pkg/auth"
)

// AuthService orchestrates registration, login, email verification and
// password reset on top of the OTP service and the user store.
type AuthService struct {
	userRepo     repository.UserRepository
	otpService   *OTPService
	emailService EmailService
	jwtService   *auth.JWTService
}

// NewAuthService creates a new auth service.
func NewAuthService(
	userRepo repository.UserRepository,
	otpService *OTPService,
	emailService EmailService,
	jwtService *auth.JWTService,
) (*AuthService, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("UserRepository is required for AuthService")
	}
	if otpService == nil {
		return nil, fmt.Errorf("OTPService is required for AuthService")
	}
	if emailService == nil {
		return nil, fmt.Errorf("EmailService is required for AuthService")
	}
	if jwtService == nil {
		return nil, fmt.Errorf("JWTService is required for AuthService")
	}
	return &AuthService{
		userRepo:     userRepo,
		otpService:   otpService,
		emailService: emailService,
		jwtService:   jwtService,
	}, nil
}

// LoginResult carries the session token and the identity it was issued for.
type LoginResult struct {
	Token    string       `json:"token"`
	UserID   uint         `json:"user_id"`
	FullName string       `json:"fullname"`
	Email    string       `json:"email"`
	User     *entity.User `json:"user"`
}

// Register creates a local account, issues an email verification code and
// sends it. All three fields are required. Returns the created user and
// whether the verification email went out; delivery failure does not roll
// the registration back.
func (s *AuthService) Register(ctx context.Context, fullname, email, password string) (*entity.User, bool, error) {
	fullname = strings.TrimSpace(fullname)
	email = normalizeEmail(email)

	if fullname == "" || email == "" || password == "" {
		return nil, false, fmt.Errorf("%w: fullname, email and password are required", apperrors.ErrValidation)
	}

	_, err := s.userRepo.GetByEmail(email)
	if err == nil {
		return nil, false, fmt.Errorf("%w: user with this email already exists", apperrors.ErrConflict)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to check email existence: %w", err)
	}

	user := &entity.User{
		FullName: fullname,
		Email:    email,
		Password: password, // hashed by the BeforeSave hook
		Provider: entity.ProviderLocal,
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, false, fmt.Errorf("%w: user with this email already exists", apperrors.ErrConflict)
		}
		return nil, false, fmt.Errorf("failed to create user: %w", err)
	}

	emailSent := s.issueAndSendCode(ctx, user, entity.OTPPurposeEmailVerification)
	return user, emailSent, nil
}

// VerifyEmail confirms the user's address with a verification code and sets
// the verified flag.
func (s *AuthService) VerifyEmail(ctx context.Context, userID uint, code string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user.IsVerified() {
		return nil
	}

	if err := s.otpService.ValidateForUser(ctx, userID, code, entity.OTPPurposeEmailVerification); err != nil {
		return err
	}

	verifiedAt := time.Now()
	updates := map[string]interface{}{
		"email_verified_at": &verifiedAt,
	}
	if err := s.userRepo.UpdateProfile(userID, updates); err != nil {
		return fmt.Errorf("failed to mark user email verified: %w", err)
	}
	return nil
}

// RequestEmailToken issues a fresh verification code for a registered email
// and sends it. Prior outstanding codes stay valid until they expire.
func (s *AuthService) RequestEmailToken(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(normalizeEmail(email))
	if err != nil {
		return err
	}

	code, err := s.otpService.Issue(ctx, user.ID, entity.OTPPurposeEmailVerification)
	if err != nil {
		return err
	}
	idempotencyKey := fmt.Sprintf("email-verify:%d:%s", user.ID, uuid.NewString())
	if err := s.emailService.SendVerificationCode(ctx, user.Email, code, idempotencyKey); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}

// Login authenticates credentials and issues a signed session token carrying
// {userId, fullname, email}.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}

	if !user.CheckPassword(password) {
		log.Printf("[AuthService] password mismatch for email %s", email)
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		log.Printf("[AuthService] failed to generate token for user ID=%d: %v", user.ID, err)
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	return &LoginResult{
		Token:    token,
		UserID:   user.ID,
		FullName: user.FullName,
		Email:    user.Email,
		User:     user,
	}, nil
}

// ForgotPassword issues a password reset code for a registered email and
// sends it.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(normalizeEmail(email))
	if err != nil {
		return err
	}

	code, err := s.otpService.Issue(ctx, user.ID, entity.OTPPurposePasswordReset)
	if err != nil {
		return err
	}
	idempotencyKey := fmt.Sprintf("password-reset:%d:%s", user.ID, uuid.NewString())
	if err := s.emailService.SendPasswordResetCode(ctx, user.Email, code, idempotencyKey); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	return nil
}

// ResetPassword replaces the user's password authorized by a reset code. The
// mismatch check runs before any store access.
func (s *AuthService) ResetPassword(ctx context.Context, code, newPassword, confirmPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: password is required", apperrors.ErrValidation)
	}
	if newPassword != confirmPassword {
		return fmt.Errorf("%w: passwords do not match", ErrPasswordMismatch)
	}

	userID, err := s.otpService.Validate(ctx, code, entity.OTPPurposePasswordReset)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePassword(userID, newPassword); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// SignInWithProvider finds or creates an externally-authenticated account
// keyed on email and issues a session token. Externally created accounts are
// considered verified.
func (s *AuthService) SignInWithProvider(ctx context.Context, fullname, email string) (*LoginResult, error) {
	fullname = strings.TrimSpace(fullname)
	email = normalizeEmail(email)
	if fullname == "" || email == "" {
		return nil, fmt.Errorf("%w: fullname and email are required", apperrors.ErrValidation)
	}

	user, err := s.userRepo.GetByEmail(email)
	if errors.Is(err, apperrors.ErrNotFound) {
		now := time.Now()
		user = &entity.User{
			FullName:        fullname,
			Email:           email,
			Provider:        entity.ProviderGoogle,
			EmailVerifiedAt: &now,
		}
		if createErr := s.userRepo.Create(user); createErr != nil {
			return nil, fmt.Errorf("failed to create user: %w", createErr)
		}
	} else if err != nil {
		return nil, err
	}

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	return &LoginResult{
		Token:    token,
		UserID:   user.ID,
		FullName: user.FullName,
		Email:    user.Email,
		User:     user,
	}, nil
}

// GetUserByID returns a user by ID.
func (s *AuthService) GetUserByID(userID uint) (*entity.User, error) {
	return s.userRepo.GetByID(userID)
}

// issueAndSendCode issues a code and delivers it, logging but not propagating
// delivery failures.
func (s *AuthService) issueAndSendCode(ctx context.Context, user *entity.User, purpose string) bool {
	code, err := s.otpService.Issue(ctx, user.ID, purpose)
	if err != nil {
		log.Printf("[AuthService] failed to issue otp for user ID=%d: %v", user.ID, err)
		return false
	}

	idempotencyKey := fmt.Sprintf("%s:%d:%s", purpose, user.ID, uuid.NewString())
	if err := s.emailService.SendVerificationCode(ctx, user.Email, code, idempotencyKey); err != nil {
		log.Printf("[AuthService] failed to send verification email to %s: %v", user.Email, err)
		return false
	}
	return true
}

// normalizeEmail trims whitespace and lowercases the address.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
