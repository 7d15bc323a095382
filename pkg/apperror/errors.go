package apperror

import (
	"errors"
	"net/http"
)

// User-facing messages match the strings the SPA already handles.
var (
	ErrNotFound           = errors.New("Recurso no encontrado")
	ErrUnauthorized       = errors.New("Acceso denegado")
	ErrForbidden          = errors.New("Permisos insuficientes")
	ErrBadRequest         = errors.New("Solicitud inválida")
	ErrInternal           = errors.New("Error interno del servidor")
	ErrInvalidCredentials = errors.New("Credenciales inválidas")
	ErrAccountDeactivated = errors.New("Cuenta desactivada")
	ErrGoogleTokenExpired = errors.New("Token de Google expirado")
	ErrRateLimitExceeded  = errors.New("Demasiadas solicitudes")
)

// AppError carries an HTTP status code alongside the error.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// RequiresReauth reports whether err means the user's Google session must be
// re-established. Handlers use it to add the requiresReauth discriminator so
// the client can trigger a re-authentication flow instead of a full logout.
func RequiresReauth(err error) bool {
	return errors.Is(err, ErrGoogleTokenExpired)
}

// MapErrorToStatus maps known errors to HTTP status codes.
func MapErrorToStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrAccountDeactivated) || errors.Is(err, ErrGoogleTokenExpired) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrForbidden) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrBadRequest) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrRateLimitExceeded) {
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}
