package errors

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrInvalidCredentials = errors.New("Email or Password is incorrect")
	ErrUserAlreadyExists  = errors.New("email already registered")
	ErrValidationFailed   = errors.New("validation failed")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInternalServer     = errors.New("internal server error")
	ErrBadRequest         = errors.New("bad request")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("resource conflict")

	ErrConfirmationFailed = errors.New("Email confirmation failed or expired.")

	ErrConfigFileReadFailed = errors.New("failed to read config file")
	ErrConfigParseFailed    = errors.New("failed to parse config file")
	ErrConfigInvalidFormat  = errors.New("invalid config value")

	ErrInvalidGzipRequest    = errors.New("invalid gzip request body")
	ErrGzipCompressionFailed = errors.New("gzip compression failed")
)
