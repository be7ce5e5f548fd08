// Package service implements the HTTP JSON surface: authentication, user
// management, expenses, payments, settlement summaries, and electricity
// billing. Handlers validate input, call storage and the calculator, and
// dispatch best-effort notifications after a successful write.
package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"roomledger/internal/auth"
	"roomledger/internal/calculator"
	"roomledger/internal/storage"
)

var (
	errValidation = errors.New("invalid request")
	errConflict   = errors.New("already exists")
)

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeData wraps a payload in the {"data": ...} envelope.
func writeData(w http.ResponseWriter, status int, v any) {
	writeJSON(w, status, map[string]any{"data": v})
}

// writeMessage writes a {"message": ...} response.
func writeMessage(w http.ResponseWriter, status int, format string, args ...any) {
	writeJSON(w, status, map[string]string{"message": fmt.Sprintf(format, args...)})
}

// writeError maps domain errors onto HTTP statuses:
// validation 400, credentials 401, inactive 403, not found 404,
// everything else a generic 500 without leaking internals.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, auth.ErrUserInactive):
		writeMessage(w, http.StatusForbidden, "Account is deactivated")
	case errors.Is(err, storage.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "Not found")
	case errors.Is(err, errConflict):
		writeMessage(w, http.StatusConflict, "%s", err.Error())
	case errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, errValidation),
		errors.Is(err, calculator.ErrNonPositiveAmount),
		errors.Is(err, calculator.ErrEmptyDescription),
		errors.Is(err, calculator.ErrMissingPayer),
		errors.Is(err, calculator.ErrNoParticipants),
		errors.Is(err, calculator.ErrNegativeConsumption),
		errors.Is(err, calculator.ErrNoBillUsers):
		writeMessage(w, http.StatusBadRequest, "%s", err.Error())
	default:
		slog.Error("Request failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
	}
}

// decodeJSON decodes a request body, rejecting unknown payload shapes lazily.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed JSON body", errValidation)
	}
	return nil
}

const dateLayout = "2006-01-02"

// parseDate parses a YYYY-MM-DD date into a Unix timestamp at start of day.
func parseDate(s string) (int64, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid date %q, want YYYY-MM-DD", errValidation, s)
	}
	return t.Unix(), nil
}

// parseDateEnd parses a YYYY-MM-DD date into a Unix timestamp at end of day,
// so a range filter includes the whole final day.
func parseDateEnd(s string) (int64, error) {
	start, err := parseDate(s)
	if err != nil {
		return 0, err
	}
	return start + 24*60*60 - 1, nil
}
