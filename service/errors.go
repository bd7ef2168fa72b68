package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Error kinds. Every error returned by the service either is one of these,
// unwraps to one of these, or is an unexpected store failure.
var (
	ErrValidation         = errors.New("invalid input")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
)

var kinds = []error{
	ErrValidation, ErrUnauthenticated, ErrInvalidCredentials, ErrForbidden, ErrNotFound, ErrConflict,
}

var (
	ErrSelfFollow       = newError(ErrValidation, "you cannot follow yourself")
	ErrAlreadyFollowing = newError(ErrConflict, "already following this user")
	ErrNotFollowing     = newError(ErrNotFound, "not following this user")
	ErrEmailTaken       = newError(ErrConflict, "email already registered")
	ErrUsernameTaken    = newError(ErrConflict, "username already taken")
)

// Error carries a client-safe message and unwraps to its kind.
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }

func newError(kind error, format string, args ...interface{}) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

func invalid(format string, args ...interface{}) error {
	return newError(ErrValidation, format, args...)
}

func notFound(what string) error {
	return newError(ErrNotFound, "%s not found", what)
}

func forbidden(msg string) error {
	return newError(ErrForbidden, "%s", msg)
}

// storeErr turns a gorm error into a service error. Unique-index violations
// become conflicts and missing rows become what-not-found; everything else
// is wrapped with op for the logs.
func storeErr(op, what string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound(what)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return newError(ErrConflict, "%s already exists", what)
	}
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return err
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
