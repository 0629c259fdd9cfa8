package errors

import (
	"errors"
	"fmt"
)

// Common error types for the Slack relay
var (
	// Proxy request errors
	ErrMissingEndpoint    = errors.New("missing endpoint")
	ErrMissingToken       = errors.New("missing token")
	ErrMissingCode        = errors.New("missing authorization code")
	ErrMissingRedirectURI = errors.New("missing redirect URI")

	// Handshake errors
	ErrStateMismatch     = errors.New("authorization state mismatch")
	ErrCodeReplayed      = errors.New("authorization code already used")
	ErrHandshakeInFlight = errors.New("handshake already in flight")
	ErrExchangeFailed    = errors.New("token exchange failed")
	ErrProviderDenied    = errors.New("authorization denied by provider")

	// Credential errors
	ErrNoCredentials = errors.New("no authentication token found")

	// Client-side validation errors
	ErrScheduleTooSoon = errors.New("scheduled time must be at least one minute in the future")

	// General errors
	ErrNotFound = errors.New("not found")
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
