package service

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"roomledger/internal/auth"
	"roomledger/internal/middleware"
	"roomledger/internal/models"
	"roomledger/internal/notify"
	"roomledger/internal/storage"
)

// UserService handles member registration and administration.
type UserService struct {
	store         storage.Store
	authenticator *auth.PasswordAuthenticator
	notify        *notify.Dispatcher
}

func NewUserService(store storage.Store, authenticator *auth.PasswordAuthenticator, dispatcher *notify.Dispatcher) *UserService {
	return &UserService{store: store, authenticator: authenticator, notify: dispatcher}
}

type registerRequest struct {
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new member account. When no password is supplied a
// temporary one is generated; either way the account is temp-flagged so the
// member must pick their own password at first login.
func (s *UserService) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.UserID == "" || req.Name == "" || req.Email == "" {
		writeError(w, fmt.Errorf("%w: userId, name and email are required", errValidation))
		return
	}

	if _, err := s.store.GetUser(r.Context(), req.UserID); err == nil {
		writeError(w, fmt.Errorf("%w: user ID %s is taken", errConflict, req.UserID))
		return
	} else if !errors.Is(err, storage.ErrNotFound) {
		writeError(w, err)
		return
	}
	if _, err := s.store.GetUserByEmail(r.Context(), req.Email); err == nil {
		writeError(w, fmt.Errorf("%w: email %s is taken", errConflict, req.Email))
		return
	} else if !errors.Is(err, storage.ErrNotFound) {
		writeError(w, err)
		return
	}

	password := req.Password
	if password == "" {
		generated, err := auth.GenerateTempPassword()
		if err != nil {
			writeError(w, err)
			return
		}
		password = generated
	}
	if err := auth.ValidatePassword(password); err != nil {
		writeError(w, err)
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		writeError(w, err)
		return
	}

	user := &models.User{
		UserID:         req.UserID,
		Name:           req.Name,
		Email:          req.Email,
		PasswordHash:   hash,
		IsTempPassword: true,
		IsActive:       true,
		CreatedBy:      middleware.GetUserID(r.Context()),
		CreatedAt:      time.Now().Unix(),
	}
	if err := s.store.CreateUser(r.Context(), user); err != nil {
		writeError(w, err)
		return
	}

	slog.Info("User registered", "user_id", user.UserID, "created_by", user.CreatedBy)
	s.notify.UserCreated(user)
	writeData(w, http.StatusCreated, user)
}

// List returns all members. Admins see full records; everyone else sees the
// public fields of active members only.
func (s *UserService) List(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	if middleware.IsAdmin(r.Context()) {
		writeData(w, http.StatusOK, users)
		return
	}

	public := make([]models.PublicUser, 0, len(users))
	for _, u := range users {
		if u.IsActive {
			public = append(public, u.Public())
		}
	}
	writeData(w, http.StatusOK, public)
}

type updateUserRequest struct {
	Name           *string `json:"name"`
	Email          *string `json:"email"`
	IsAdmin        *bool   `json:"isAdmin"`
	IsActive       *bool   `json:"isActive"`
	IsTempPassword *bool   `json:"isTempPassword"`
}

// Update modifies a member's profile and flags. Only the fields present in
// the request change; the user ID and password hash never change here.
func (s *UserService) Update(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := s.store.GetUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	if req.Name != nil {
		if *req.Name == "" {
			writeError(w, fmt.Errorf("%w: name cannot be empty", errValidation))
			return
		}
		user.Name = *req.Name
	}
	if req.Email != nil {
		if *req.Email == "" {
			writeError(w, fmt.Errorf("%w: email cannot be empty", errValidation))
			return
		}
		if existing, err := s.store.GetUserByEmail(r.Context(), *req.Email); err == nil && existing.UserID != userID {
			writeError(w, fmt.Errorf("%w: email %s is taken", errConflict, *req.Email))
			return
		}
		user.Email = *req.Email
	}
	if req.IsAdmin != nil {
		user.IsAdmin = *req.IsAdmin
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.IsTempPassword != nil {
		user.IsTempPassword = *req.IsTempPassword
	}

	if err := s.store.UpdateUser(r.Context(), user); err != nil {
		writeError(w, err)
		return
	}

	slog.Info("User updated", "user_id", userID, "updated_by", middleware.GetUserID(r.Context()))
	writeData(w, http.StatusOK, user)
}

type resetPasswordRequest struct {
	UserID      string `json:"userId"`
	NewPassword string `json:"newPassword"`
}

// ResetPassword sets a temporary password on a member's account and mails it
// to them. When no password is supplied a random one is generated.
func (s *UserService) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.UserID == "" {
		writeError(w, fmt.Errorf("%w: userId is required", errValidation))
		return
	}

	password := req.NewPassword
	if password == "" {
		generated, err := auth.GenerateTempPassword()
		if err != nil {
			writeError(w, err)
			return
		}
		password = generated
	}

	if err := s.authenticator.SetPassword(r.Context(), req.UserID, password, true); err != nil {
		writeError(w, err)
		return
	}

	user, err := s.store.GetUser(r.Context(), req.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	slog.Info("Password reset by admin", "user_id", req.UserID, "admin_id", middleware.GetUserID(r.Context()))
	s.notify.PasswordReset(user.Email, user.UserID, password)
	writeMessage(w, http.StatusOK, "Password reset successfully")
}
