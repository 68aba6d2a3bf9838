// Package errors provides error handling for parigen.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints on fatal errors
//
// On top of that it defines the generator's error taxonomy. Two kinds are
// expected and only ever cost a single function (ErrFilterRejected,
// ErrUnsupportedPrototype); the other two abort a whole run
// (ErrEmissionDefect, ErrStoreFailure).
//
// Usage:
//
//	// Wrap with context
//	if err := store.ReadAll(); err != nil {
//	    return errors.Wrap(errors.Mark(err, errors.ErrStoreFailure), "reading pari.desc")
//	}
//
//	// Per-function errors are skipped, not propagated
//	if errors.IsExpected(err) {
//	    continue
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
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// GetStack returns the reportable stack trace attached to err, if any.
var GetStack = crdb.GetReportableStackTrace

// AssertionFailedf reports a generator bug.
var AssertionFailedf = crdb.AssertionFailedf

// Sentinel errors for the generator's error taxonomy.
// Use these with errors.Is() and wrap them with errors.Wrap() or errors.Mark().
var (
	// ErrFilterRejected marks a descriptor that is not eligible for exposure
	ErrFilterRejected = New("function rejected by filter")

	// ErrUnsupportedPrototype marks a prototype the parser cannot handle
	ErrUnsupportedPrototype = New("unsupported prototype")

	// ErrEmissionDefect marks a bug in method emission; the run is aborted
	ErrEmissionDefect = New("emission defect")

	// ErrStoreFailure marks an unreadable descriptor or symbol source; the run is aborted
	ErrStoreFailure = New("descriptor store failure")
)

// IsExpected reports whether err only affects a single function and the run
// should continue with the next one.
func IsExpected(err error) bool {
	return err != nil && IsAny(err, ErrFilterRejected, ErrUnsupportedPrototype)
}

// IsFatal reports whether err must abort the whole run.
func IsFatal(err error) bool {
	return err != nil && !IsExpected(err)
}

// NewStoreFailure creates a store failure with a formatted message
func NewStoreFailure(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrStoreFailure)
}

// WrapStoreFailure marks err as a store failure and adds context
func WrapStoreFailure(err error, context string) error {
	if err == nil {
		return nil
	}
	return Wrap(Mark(err, ErrStoreFailure), context)
}

// NewEmissionDefect creates an emission defect with a formatted message
func NewEmissionDefect(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrEmissionDefect)
}
