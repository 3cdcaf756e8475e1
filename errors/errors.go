// Package errors provides error handling for postforge.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Marker-based error classification
//
// It also defines the domain error kinds the agent's operations are
// classified by: backend, publish, config, and validation failures.
// Operations mark errors with a kind so callers can branch on policy
// without string matching.
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Classify a failure
//	return errors.WrapBackend(err, "chat completion")
//
//	// Check the kind
//	if errors.IsBackend(err) {
//	    // retry or fall back
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection and classification
var (
	Is         = crdb.Is
	IsAny      = crdb.IsAny
	As         = crdb.As
	Mark       = crdb.Mark
	Unwrap     = crdb.Unwrap
	UnwrapOnce = crdb.UnwrapOnce
	UnwrapAll  = crdb.UnwrapAll

	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Combining errors
var (
	CombineErrors = crdb.CombineErrors
	Join          = crdb.Join
)

// Domain error kinds. Every failing operation in the agent marks its
// error with exactly one of these. Test with Is (or the IsXxx helpers);
// attach with Mark or the WrapXxx helpers.
var (
	// ErrBackend: the text-generation backend call failed (network or API).
	ErrBackend = New("backend error")

	// ErrPublish: the CMS create-post call failed or returned a non-created
	// status.
	ErrPublish = New("publish error")

	// ErrConfig: required configuration is missing or invalid. Fatal at
	// startup, never recovered at runtime.
	ErrConfig = New("config error")

	// ErrValidation: operator input was rejected before any outbound call
	// was attempted.
	ErrValidation = New("validation error")
)

// IsBackend reports whether err is or wraps a backend failure.
func IsBackend(err error) bool {
	return err != nil && Is(err, ErrBackend)
}

// IsPublish reports whether err is or wraps a publish failure.
func IsPublish(err error) bool {
	return err != nil && Is(err, ErrPublish)
}

// IsConfig reports whether err is or wraps a configuration failure.
func IsConfig(err error) bool {
	return err != nil && Is(err, ErrConfig)
}

// IsValidation reports whether err is or wraps an input validation failure.
func IsValidation(err error) bool {
	return err != nil && Is(err, ErrValidation)
}

// WrapBackend wraps err with context and marks it as a backend failure.
// Returns nil if err is nil.
func WrapBackend(err error, context string) error {
	if err == nil {
		return nil
	}
	return Mark(Wrap(err, context), ErrBackend)
}

// WrapPublish wraps err with context and marks it as a publish failure.
// Returns nil if err is nil.
func WrapPublish(err error, context string) error {
	if err == nil {
		return nil
	}
	return Mark(Wrap(err, context), ErrPublish)
}

// NewConfigf creates a configuration error with a formatted message.
func NewConfigf(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrConfig)
}

// NewValidationf creates a validation error with a formatted message.
func NewValidationf(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrValidation)
}
