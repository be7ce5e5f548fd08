package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"roomledger/internal/models"
	"roomledger/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid user ID or password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrUserInactive       = errors.New("account is deactivated")
)

// LoginResult pairs an authenticated user with whether a password change is
// mandatory before anything else (temporary password flow).
type LoginResult struct {
	User        *models.User
	ForceChange bool
}

// PasswordAuthenticator implements password-based authentication using bcrypt.
// Credentials are (userID, password); failures never reveal which half of the
// pair was wrong.
type PasswordAuthenticator struct {
	store storage.Store
}

// NewPasswordAuthenticator creates a new password-based authenticator.
func NewPasswordAuthenticator(store storage.Store) *PasswordAuthenticator {
	return &PasswordAuthenticator{store: store}
}

// ValidatePassword checks if a new password meets minimum requirements.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrWeakPassword
	}
	return nil
}

// HashPassword hashes a password with bcrypt at the default cost.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Login verifies the user ID and password and returns the user if valid.
// Deactivated accounts cannot log in. Logging in with a temporary password
// succeeds but flags ForceChange.
func (a *PasswordAuthenticator) Login(ctx context.Context, userID, password string) (*LoginResult, error) {
	user, err := a.store.GetUser(ctx, userID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &LoginResult{User: user, ForceChange: user.IsTempPassword}, nil
}

// ChangePassword lets a user change their own password after verifying the
// old one. Clears the temporary-password flag.
func (a *PasswordAuthenticator) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	result, err := a.Login(ctx, userID, oldPassword)
	if err != nil {
		return err
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	user := result.User
	user.PasswordHash = hash
	user.IsTempPassword = false
	return a.store.UpdateUser(ctx, user)
}

// SetPassword sets a user's password without verifying the old one (admin
// path). When temp is true the user must change it at next login.
func (a *PasswordAuthenticator) SetPassword(ctx context.Context, userID, newPassword string, temp bool) error {
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	user, err := a.store.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if !user.IsActive {
		return ErrUserInactive
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = hash
	user.IsTempPassword = temp
	return a.store.UpdateUser(ctx, user)
}

// ResetByEmail generates a temporary password for the active user holding the
// given email and returns the user and the plaintext temporary password for
// delivery. Returns storage.ErrNotFound when no active user matches; callers
// must not reveal that to the requester.
func (a *PasswordAuthenticator) ResetByEmail(ctx context.Context, email string) (*models.User, string, error) {
	user, err := a.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if !user.IsActive {
		return nil, "", storage.ErrNotFound
	}

	tempPassword, err := GenerateTempPassword()
	if err != nil {
		return nil, "", err
	}

	hash, err := HashPassword(tempPassword)
	if err != nil {
		return nil, "", err
	}

	user.PasswordHash = hash
	user.IsTempPassword = true
	if err := a.store.UpdateUser(ctx, user); err != nil {
		return nil, "", err
	}

	return user, tempPassword, nil
}

// GenerateTempPassword returns a random 8-character hex password.
func GenerateTempPassword() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate temporary password: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// EnsureDefaultAdmin creates the bootstrap admin account when the store holds
// no users at all. The password comes from configuration and is temp-flagged
// so it must be changed at first login.
func EnsureDefaultAdmin(ctx context.Context, store storage.Store, password string) error {
	count, err := store.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to check for existing users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}

	admin := &models.User{
		UserID:         "admin",
		Name:           "Administrator",
		Email:          "admin@roomledger.local",
		PasswordHash:   hash,
		IsAdmin:        true,
		IsTempPassword: true,
		IsActive:       true,
		CreatedBy:      "system",
		CreatedAt:      time.Now().Unix(),
	}
	if err := store.CreateUser(ctx, admin); err != nil {
		return fmt.Errorf("failed to create default admin: %w", err)
	}

	slog.Info("Default admin user created", "user_id", admin.UserID)
	return nil
}
