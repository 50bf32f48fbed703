package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// BeforeSave never touches tx, but the hook signature requires one.
var mockTx *gorm.DB = nil

func TestUser_BeforeSave_HashesPassword(t *testing.T) {
	// Arrange
	plainPassword := "mySecretPassword123"
	user := &User{
		FullName: "Test User",
		Email:    "test@example.com",
		Password: plainPassword,
	}

	// Act
	err := user.BeforeSave(mockTx)

	// Assert
	require.NoError(t, err)
	assert.NotEqual(t, plainPassword, user.Password)
	assert.True(t, len(user.Password) > 50, "bcrypt hash should be longer than 50 chars")

	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(plainPassword))
	assert.NoError(t, err, "hash should match the original password")
}

func TestUser_BeforeSave_SkipsAlreadyHashedPassword(t *testing.T) {
	// Arrange
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("alreadyHashed"), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := &User{
		FullName: "Test User",
		Email:    "test@example.com",
		Password: string(hashedPassword),
	}
	originalHash := user.Password

	// Act
	err = user.BeforeSave(mockTx)

	// Assert: no double hashing
	require.NoError(t, err)
	assert.Equal(t, originalHash, user.Password)
}

func TestUser_BeforeSave_SkipsEmptyPassword(t *testing.T) {
	// Arrange: external-provider accounts have no password
	user := &User{
		FullName: "Test User",
		Email:    "test@example.com",
		Password: "",
	}

	// Act
	err := user.BeforeSave(mockTx)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "", user.Password)
}

func TestUser_CheckPassword(t *testing.T) {
	// Arrange
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("correctPassword123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := &User{Password: string(hashedPassword)}

	// Act & Assert
	assert.True(t, user.CheckPassword("correctPassword123"))
	assert.False(t, user.CheckPassword("wrongPassword456"))
	assert.False(t, user.CheckPassword(""))
}

func TestUser_IsVerified(t *testing.T) {
	// Arrange
	now := time.Now()
	unverified := &User{}
	verified := &User{EmailVerifiedAt: &now}

	// Act & Assert
	assert.False(t, unverified.IsVerified())
	assert.True(t, verified.IsVerified())
}

func TestUser_TableName(t *testing.T) {
	assert.Equal(t, "users", User{}.TableName())
}
