package errors

import (
	"errors"
	"fmt"
)

// Common error types shared by the services and the store
var (
	// Request errors
	ErrInvalidRequest = errors.New("invalid request")

	// Account errors
	ErrInvalidCredentials = errors.New("incorrect password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")

	// Store errors
	ErrDuplicate = errors.New("duplicate key")
	ErrNotFound  = errors.New("not found")

	// Systems
	ErrNoSystems = errors.New("no supported systems configured")

	// General errors
	ErrInternal    = errors.New("internal error")
	ErrUnsupported = errors.New("unsupported operation")
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
