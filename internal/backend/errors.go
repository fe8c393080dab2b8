package backend

import (
	"errors"
	"net/http"
)

// Error classes. Authentication failures are kept apart from business
// failures so callers can refresh credentials without misreporting.
var (
	ErrUnauthorized         = errors.New("authentication failed")
	ErrInvalidRequest       = errors.New("invalid request")
	ErrPaymentNotFound      = errors.New("payment not found or failed")
	ErrPaymentMismatch      = errors.New("payment does not match the expected transfer")
	ErrDuplicatePayment     = errors.New("transaction already processed")
	ErrSessionNotFound      = errors.New("unknown game session")
	ErrInsufficientPowerUps = errors.New("insufficient power-ups")
	ErrUnavailable          = errors.New("backend unavailable")
)

var statusByError = []struct {
	err    error
	status int
}{
	{ErrInvalidRequest, http.StatusBadRequest},
	{ErrUnauthorized, http.StatusUnauthorized},
	{ErrPaymentNotFound, http.StatusPaymentRequired},
	{ErrPaymentMismatch, http.StatusPaymentRequired},
	{ErrSessionNotFound, http.StatusNotFound},
	{ErrDuplicatePayment, http.StatusConflict},
	{ErrInsufficientPowerUps, http.StatusUnprocessableEntity},
}

// StatusCode maps an error onto the HTTP status the server answers with.
func StatusCode(err error) int {
	for _, e := range statusByError {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// errorForStatus is the client-side inverse of StatusCode. The error
// code in the body disambiguates statuses shared by several classes.
func errorForStatus(status int, code string) error {
	switch status {
	case http.StatusBadRequest:
		return ErrInvalidRequest
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusPaymentRequired:
		if code == codeMismatch {
			return ErrPaymentMismatch
		}
		return ErrPaymentNotFound
	case http.StatusNotFound:
		return ErrSessionNotFound
	case http.StatusConflict:
		return ErrDuplicatePayment
	case http.StatusUnprocessableEntity:
		return ErrInsufficientPowerUps
	default:
		return ErrUnavailable
	}
}

// Error codes carried in JSON error bodies.
const (
	codeMismatch = "payment_mismatch"
	codeInternal = "internal"
)

func errorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrPaymentMismatch):
		return codeMismatch
	case errors.Is(err, ErrPaymentNotFound):
		return "payment_not_found"
	case errors.Is(err, ErrSessionNotFound):
		return "session_not_found"
	case errors.Is(err, ErrDuplicatePayment):
		return "duplicate_transaction"
	case errors.Is(err, ErrInsufficientPowerUps):
		return "insufficient_powerups"
	default:
		return codeInternal
	}
}

// Message returns a short player-facing description of a backend error.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnauthorized):
		return "Authentication failed. Press R to retry."
	case errors.Is(err, ErrDuplicatePayment):
		return "Transaction already used"
	case errors.Is(err, ErrPaymentMismatch):
		return "Payment amount or recipient is wrong"
	case errors.Is(err, ErrPaymentNotFound):
		return "Payment verification failed"
	case errors.Is(err, ErrInsufficientPowerUps):
		return "Not enough power-ups"
	case errors.Is(err, ErrSessionNotFound):
		return "Game session expired"
	case errors.Is(err, ErrInvalidRequest):
		return "Invalid request"
	default:
		return "Payment processing failed"
	}
}
