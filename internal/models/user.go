package models

// User represents a household member account.
//
// Accounts are created by an admin (or by system bootstrap when the store is
// empty) and are never hard-deleted; deactivation flips IsActive instead so
// historical expenses keep resolving.
type User struct {
	// UserID is the unique, immutable login identifier chosen at creation.
	UserID string `json:"userId"`

	// Name is the display name shown on expenses and summaries.
	Name string `json:"name"`

	// Email receives notification mail.
	Email string `json:"email"`

	// PasswordHash is the bcrypt hash of the user's password.
	// Never serialized.
	PasswordHash string `json:"-"`

	// IsAdmin grants access to user management and electricity billing.
	IsAdmin bool `json:"isAdmin"`

	// IsTempPassword forces a password change at next login.
	IsTempPassword bool `json:"isTempPassword"`

	// IsActive is false for soft-deactivated accounts.
	IsActive bool `json:"isActive"`

	// CreatedBy is the admin's UserID, or "system" for the bootstrap admin.
	CreatedBy string `json:"createdBy"`

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64 `json:"createdAt"`
}

// PublicUser is the reduced user shape exposed to non-admin callers.
type PublicUser struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

// Public returns the reduced shape of u.
func (u *User) Public() PublicUser {
	return PublicUser{UserID: u.UserID, Name: u.Name}
}
