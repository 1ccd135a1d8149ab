package common

import "errors"

var (
	// Store-level errors.
	ErrorNotFound         = errors.New("not found")
	ErrorStoreUnavailable = errors.New("store unavailable")
	ErrVersionConflict    = errors.New("version conflict")

	// Service-level errors.
	ErrorInternal      = errors.New("internal error")
	ErrorUnauthorized  = errors.New("unauthorized")
	ErrorValidation    = errors.New("validation error")
	ErrorAlreadyExists = errors.New("already exists")

	// ErrorIncorrectPassword is returned by member login on a password
	// mismatch. It matches ErrorUnauthorized through errors.Is.
	ErrorIncorrectPassword = &wrappedError{msg: "incorrect password", parent: ErrorUnauthorized}

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

type wrappedError struct {
	msg    string
	parent error
}

func (e *wrappedError) Error() string { return e.msg }

func (e *wrappedError) Unwrap() error { return e.parent }
