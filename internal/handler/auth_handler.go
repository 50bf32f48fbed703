package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/yourusername/blog-api/internal/pkg/errors"
	"github.com/yourusername/blog-api/internal/service"
)

// AuthHandler handles authentication requests.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Request structures

// RegisterRequest is the sign-up payload.
type RegisterRequest struct {
	FullName string `json:"fullname" binding:"required,min=1,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=50"`
}

// LoginRequest is the sign-in payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// VerifyEmailRequest confirms an address with a one-time code.
type VerifyEmailRequest struct {
	UserID uint   `json:"user_id" binding:"required"`
	Code   string `json:"code" binding:"required,len=6"`
}

// EmailRequest carries just an address (resend code, forgot password).
type EmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest replaces a password authorized by a reset code.
type ResetPasswordRequest struct {
	Code            string `json:"code" binding:"required,len=6"`
	Password        string `json:"password" binding:"required,min=6,max=50"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// ProviderSignInRequest is the external-provider sign-in payload.
type ProviderSignInRequest struct {
	FullName string `json:"fullname" binding:"required,min=1,max=100"`
	Email    string `json:"email" binding:"required,email"`
}

// Register handles sign-up.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill all required fields", "error_type": "validation_error", "details": err.Error()})
		return
	}

	user, emailSent, err := h.authService.Register(c.Request.Context(), req.FullName, req.Email, req.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	log.Printf("[AuthHandler] user ID=%d (%s) registered", user.ID, user.Email)

	resp := gin.H{
		"message": "User created successfully",
		"user":    user,
	}
	if !emailSent {
		resp["warning"] = "Verification email could not be sent; request a new code"
	}
	c.JSON(http.StatusCreated, resp)
}

// Login handles sign-in.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill all required fields", "error_type": "validation_error", "details": err.Error()})
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User does not exist", "error_type": "not_found"})
			return
		}
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "User logged in successfully!",
		"token":     result.Token,
		"userId":    result.UserID,
		"fullname":  result.FullName,
		"email":     result.Email,
		"tokenType": "Bearer",
	})
}

// VerifyEmail confirms a user's email address with a one-time code.
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill all required fields", "error_type": "validation_error", "details": err.Error()})
		return
	}

	if err := h.authService.VerifyEmail(c.Request.Context(), req.UserID, req.Code); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Email verified successfully"})
}

// ResendCode issues a new verification code for a registered email.
func (h *AuthHandler) ResendCode(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill all required fields", "error_type": "validation_error", "details": err.Error()})
		return
	}

	if err := h.authService.RequestEmailToken(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User is not registered", "error_type": "not_found"})
			return
		}
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Verification code sent"})
}

// ForgotPassword issues a password reset code for a registered email.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill all required fields", "error_type": "validation_error", "details": err.Error()})
		return
	}

	if err := h.authService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User is not registered", "error_type": "not_found"})
			return
		}
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset code sent"})
}

// ResetPassword replaces the password authorized by a reset code.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill all required fields", "error_type": "validation_error", "details": err.Error()})
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), req.Code, req.Password, req.ConfirmPassword); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
}

// ProviderSignIn signs a user in through an external identity provider,
// creating the account on first sign-in.
func (h *AuthHandler) ProviderSignIn(c *gin.Context) {
	var req ProviderSignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill all required fields", "error_type": "validation_error", "details": err.Error()})
		return
	}

	result, err := h.authService.SignInWithProvider(c.Request.Context(), req.FullName, req.Email)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "User logged in successfully!",
		"token":     result.Token,
		"userId":    result.UserID,
		"fullname":  result.FullName,
		"email":     result.Email,
		"tokenType": "Bearer",
	})
}
