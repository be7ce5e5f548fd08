package service

import (
	"fmt"
	"log/slog"
	"net/http"

	"roomledger/internal/auth"
	"roomledger/internal/middleware"
	"roomledger/internal/notify"
	"roomledger/internal/storage"
)

// AuthService handles login, password changes, and password recovery.
type AuthService struct {
	authenticator *auth.PasswordAuthenticator
	jwt           *auth.JWTManager
	store         storage.Store
	notify        *notify.Dispatcher
}

func NewAuthService(authenticator *auth.PasswordAuthenticator, jwt *auth.JWTManager, store storage.Store, dispatcher *notify.Dispatcher) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwt:           jwt,
		store:         store,
		notify:        dispatcher,
	}
}

type loginRequest struct {
	UserID   string `json:"userId"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token       string `json:"token"`
	User        any    `json:"user"`
	ForceChange bool   `json:"forceChange"`
}

// Login verifies credentials and issues a session token. Logging in with a
// temporary password succeeds but flags forceChange so the client can demand
// a new password before anything else.
func (s *AuthService) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.UserID == "" || req.Password == "" {
		writeError(w, fmt.Errorf("%w: userId and password are required", errValidation))
		return
	}

	result, err := s.authenticator.Login(r.Context(), req.UserID, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := s.jwt.Generate(result.User)
	if err != nil {
		writeError(w, err)
		return
	}

	slog.Info("User logged in", "user_id", result.User.UserID, "force_change", result.ForceChange)
	writeJSON(w, http.StatusOK, loginResponse{
		Token:       token,
		User:        result.User,
		ForceChange: result.ForceChange,
	})
}

type changePasswordRequest struct {
	UserID      string `json:"userId"`
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// ChangePassword changes the caller's own password after verifying the old
// one. Admins may change another user's password by naming a userId; that
// path skips old-password verification and temp-flags the new password.
func (s *AuthService) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	callerID := middleware.GetUserID(r.Context())
	if req.UserID == "" || req.UserID == callerID {
		if req.OldPassword == "" {
			writeError(w, fmt.Errorf("%w: oldPassword is required", errValidation))
			return
		}
		if err := s.authenticator.ChangePassword(r.Context(), callerID, req.OldPassword, req.NewPassword); err != nil {
			writeError(w, err)
			return
		}
		writeMessage(w, http.StatusOK, "Password changed successfully")
		return
	}

	if !middleware.IsAdmin(r.Context()) {
		writeMessage(w, http.StatusForbidden, "Admin access required")
		return
	}
	if err := s.authenticator.SetPassword(r.Context(), req.UserID, req.NewPassword, true); err != nil {
		writeError(w, err)
		return
	}
	slog.Info("Admin changed user password", "admin_id", callerID, "user_id", req.UserID)
	writeMessage(w, http.StatusOK, "Password changed successfully")
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword resets the password of the account holding the given email
// and mails the temporary password. The response is identical whether or not
// the email matched an account.
func (s *AuthService) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Email == "" {
		writeError(w, fmt.Errorf("%w: email is required", errValidation))
		return
	}

	user, tempPassword, err := s.authenticator.ResetByEmail(r.Context(), req.Email)
	if err == nil {
		s.notify.PasswordReset(user.Email, user.UserID, tempPassword)
	} else {
		slog.Debug("Password reset requested for unknown email", "email", req.Email)
	}

	writeMessage(w, http.StatusOK, "If the email is registered, a temporary password has been sent")
}

type remoteLoginRequest struct {
	UserID string `json:"userId"`
}

// RemoteLogin issues a session token for another user so an admin can see
// the application as that user. Every use is logged.
func (s *AuthService) RemoteLogin(w http.ResponseWriter, r *http.Request) {
	var req remoteLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.UserID == "" {
		writeError(w, fmt.Errorf("%w: userId is required", errValidation))
		return
	}

	user, err := s.store.GetUser(r.Context(), req.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !user.IsActive {
		writeError(w, auth.ErrUserInactive)
		return
	}

	token, err := s.jwt.Generate(user)
	if err != nil {
		writeError(w, err)
		return
	}

	slog.Warn("Admin remote login",
		"admin_id", middleware.GetUserID(r.Context()),
		"target_user_id", user.UserID,
	)
	writeJSON(w, http.StatusOK, loginResponse{
		Token:       token,
		User:        user,
		ForceChange: user.IsTempPassword,
	})
}
