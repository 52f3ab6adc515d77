// Package errors provides error handling for tagd.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints and details for CLI users
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := tx.Commit(); err != nil {
//	    return errors.Wrap(err, "failed to commit put")
//	}
//
//	// Check errors
//	if errors.Is(err, errors.ErrNotFound) {
//	    // handle not found
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
	WithHint           = crdb.WithHint
	WithHintf          = crdb.WithHintf
	WithDetail         = crdb.WithDetail
	WithDetailf        = crdb.WithDetailf
	WithSecondaryError = crdb.WithSecondaryError
	Mark               = crdb.Mark
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapOnce     = crdb.UnwrapOnce
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Assertions
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Sentinel errors, one per kind of engine failure.
// Engine errors (tagd.Error) report Is() == true for the sentinel of their kind,
// so callers can branch with errors.Is without inspecting codes.
var (
	// ErrNotFound indicates the requested tag, relation or referent does not exist
	ErrNotFound = New("not found")

	// ErrDuplicate indicates the write would not change anything
	ErrDuplicate = New("duplicate")

	// ErrInvalidRequest indicates the request was malformed (empty id, bad tag)
	ErrInvalidRequest = New("invalid request")

	// ErrMisuse indicates the caller violated a precondition of the operation
	ErrMisuse = New("misuse")

	// ErrUnknownReference indicates a referenced super, relator, object or context is unknown
	ErrUnknownReference = New("unknown reference")

	// ErrAmbiguous indicates a referent could not be resolved in the active context
	ErrAmbiguous = New("ambiguous referent")

	// ErrDependency indicates a delete was blocked by a dependent tag
	ErrDependency = New("dependency")

	// ErrRank indicates a malformed or overflowing rank
	ErrRank = New("rank error")

	// ErrURL indicates a malformed url or domain
	ErrURL = New("url error")

	// ErrInternal indicates a backing store failure
	ErrInternal = New("internal error")
)

// NewKind returns a sentinel that errors.Is matches against itself and
// against kind. Unlike Mark, sentinels sharing a kind stay distinct from
// each other.
func NewKind(msg string, kind error) error {
	return &kindError{msg: msg, kind: kind}
}

type kindError struct {
	msg  string
	kind error
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Is(target error) bool { return target == e.kind }

// IsNotFoundError checks if an error is or wraps ErrNotFound.
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsDuplicateError checks if an error is or wraps ErrDuplicate
func IsDuplicateError(err error) bool {
	return err != nil && Is(err, ErrDuplicate)
}

// IsInvalidRequestError checks if an error is or wraps ErrInvalidRequest
func IsInvalidRequestError(err error) bool {
	return err != nil && Is(err, ErrInvalidRequest)
}

// WrapNotFound wraps an error as a not-found error with context
func WrapNotFound(err error, context string) error {
	return Wrap(Wrap(ErrNotFound, err.Error()), context)
}

// NewNotFoundError creates a not-found error with a formatted message
func NewNotFoundError(format string, args ...interface{}) error {
	return Wrap(ErrNotFound, Newf(format, args...).Error())
}

// NewInvalidRequestError creates an invalid-request error with a formatted message
func NewInvalidRequestError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidRequest, Newf(format, args...).Error())
}
