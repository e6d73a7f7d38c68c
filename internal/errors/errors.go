package errors

import (
	"errors"
	"fmt"
)

// Common error types for the event-management auth server
var (
	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingCredential  = errors.New("token required")
	ErrInvalidToken       = errors.New("token invalid or expired")
	ErrInvalidRefresh     = errors.New("refresh token invalid or expired")
	ErrMissingRefresh     = errors.New("refresh token and user id required")

	// Authorization errors
	ErrForbidden        = errors.New("not authorized for this resource")
	ErrAdminRequired    = errors.New("admin privileges required")
	ErrIdentityMismatch = errors.New("user id does not match token")

	// Validation errors
	ErrWeakPassword = errors.New("password does not meet strength requirements")

	// Store errors
	ErrUserNotFound  = errors.New("user not found")
	ErrEventNotFound = errors.New("event not found")
	ErrDuplicate     = errors.New("username or email already exists")

	// General errors
	ErrInternal = errors.New("internal error")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
