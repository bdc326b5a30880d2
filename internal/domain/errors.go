package domain

import (
	"errors"
	"fmt"
)

// Stable machine-checkable error kinds. Handlers map these to status codes;
// callers test them with errors.Is.
var (
	ErrValidation = errors.New("validation failed")

	// ErrEmailTaken covers both registration and profile-update conflicts.
	ErrEmailTaken = errors.New("email already in use")

	// ErrInvalidCredentials is deliberately opaque: unknown email, wrong
	// password and wrong auth method all collapse into it so callers cannot
	// enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenRevoked = errors.New("token revoked")

	ErrAccountNotFound       = errors.New("account not found")
	ErrUnauthenticated       = errors.New("unauthenticated")
	ErrEmailChangeNotAllowed = errors.New("email change not allowed for federated accounts")
	ErrNoChanges             = errors.New("no changes detected")

	// ErrDependency signals a store or external provider failure. The cause
	// is logged server-side; callers only ever see this generic kind.
	ErrDependency = errors.New("dependency failure")
)

// ValidationError carries field-level detail while still matching
// ErrValidation under errors.Is.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
