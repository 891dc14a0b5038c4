package common

import (
	"encoding/json"
	"errors"
	"go-content-api/logger"
	"net/http"

	"github.com/sirupsen/logrus"
)

// Sentinel errors raised by the service layer. Handlers map them onto
// HTTP status codes; the messages are deliberately vague where revealing
// the exact failure would help account enumeration.
var (
	// ErrInvalidCredentialsRequest means the login request carried both an
	// email and a uid, or neither.
	ErrInvalidCredentialsRequest = errors.New("exactly one of email or uid must be provided")

	// ErrAuthenticationFailed covers both unknown-user and wrong-password.
	ErrAuthenticationFailed = errors.New("invalid credentials")

	// ErrTooManyLoginAttempts means the lockout policy rejected the attempt.
	ErrTooManyLoginAttempts = errors.New("too many failed login attempts, try again later")

	// ErrInvalidToken covers bad signature, expired, revoked and unknown
	// tokens alike.
	ErrInvalidToken = errors.New("refresh token is invalid or expired")

	// ErrTokenNotFound is returned by explicit revoke-by-string when no
	// record matches.
	ErrTokenNotFound = errors.New("refresh token not found")

	// ErrEmailAlreadyRegistered is returned on duplicate registration.
	ErrEmailAlreadyRegistered = errors.New("email already registered")
)

type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func (e *AppError) Send(w http.ResponseWriter) {
	if e.Err != nil {
		logger.Log.WithFields(logrus.Fields{
			"status_code":    e.Code,
			"internal_error": e.Err.Error(),
		}).Error(e.Message)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(e.Code)
	json.NewEncoder(w).Encode(e)
}

// FromServiceError translates a service-layer sentinel error into an
// AppError with the matching HTTP status.
func FromServiceError(err error) *AppError {
	switch {
	case errors.Is(err, ErrInvalidCredentialsRequest):
		return NewAppError(http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, ErrAuthenticationFailed), errors.Is(err, ErrInvalidToken):
		return NewAppError(http.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, ErrTooManyLoginAttempts), errors.Is(err, ErrEmailAlreadyRegistered):
		return NewAppError(http.StatusConflict, err.Error(), nil)
	case errors.Is(err, ErrTokenNotFound):
		return NewAppError(http.StatusNotFound, err.Error(), nil)
	default:
		return NewAppError(http.StatusInternalServerError, "internal server error", err)
	}
}
