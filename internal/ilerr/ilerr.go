// Package ilerr implements the two fail-fast error classes the type engine
// raises: domain misuse by a caller, and an internal invariant violation.
// Both are programmer errors by design (see spec §7) - there is no retry and
// no partial-failure path, so both are raised with panic rather than
// returned, the same boundary the teacher draws between ctx.addFailure
// (recoverable diagnostics, not used here) and panic(fmt.Sprintf(...)) for
// "this should be unreachable" states in simplify.go's isRecursive.
package ilerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Code distinguishes the error classes named in spec §7.
type Code int

const (
	// DomainMisuse is raised when a caller violates a documented
	// precondition, e.g. calling MapGet on a descriptor that is not a
	// subtype of map.
	DomainMisuse Code = iota
	// InvariantViolation is raised when the library itself observes a
	// state its own invariants should have prevented, e.g. a BDD literal
	// encountered out of canonical order.
	InvariantViolation
)

func (c Code) String() string {
	switch c {
	case DomainMisuse:
		return "domain misuse"
	case InvariantViolation:
		return "internal invariant violation"
	default:
		return "unknown"
	}
}

// Error is the value panicked by this package's constructors. It is also a
// normal error value so that a caller who recovers it can still use the
// standard errors.As/errors.Is machinery.
type Error struct {
	code    Code
	message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Code() Code    { return e.code }
func (e *Error) Unwrap() error { return e.cause }

// Domain panics with a DomainMisuse error describing a violated
// precondition of the public API.
func Domain(format string, args ...any) {
	panic(&Error{code: DomainMisuse, message: fmt.Sprintf(format, args...)})
}

// Invariant panics with an InvariantViolation error, optionally wrapping a
// lower-level cause with errors.Wrap the way the teacher's command layer
// annotates failures climbing out of the compiler pipeline.
func Invariant(cause error, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if cause != nil {
		panic(&Error{code: InvariantViolation, message: msg, cause: errors.Wrap(cause, msg)})
	}
	panic(&Error{code: InvariantViolation, message: msg})
}
