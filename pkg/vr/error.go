// Package vr implements the validation-rules engine: a rule model
// compiled from a rules document, and a two-pass validator that checks
// a configuration value tree against it.
package vr

import (
	"fmt"

	"github.com/erbsland-dev/erbsland-go-vr/pkg/confname"
	"github.com/erbsland-dev/erbsland-go-vr/pkg/confvalue"
)

// ErrorCategory classifies why an Error was raised.
type ErrorCategory int

const (
	// Validation means the configuration document does not satisfy
	// the rules. The compiler and the rules-definition validator also
	// report a malformed rules document with this category.
	Validation ErrorCategory = iota
	// Definition names a malformed rules document. The engine reports
	// those as Validation errors and does not raise this category.
	Definition
	// Internal marks a condition the engine expects never to occur.
	Internal
)

func (c ErrorCategory) String() string {
	switch c {
	case Validation:
		return "validation"
	case Definition:
		return "definition"
	case Internal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is the one error type this engine raises. It always carries a
// category, and usually a name path and source location pinpointing
// where the violation was found.
type Error struct {
	Category ErrorCategory
	Message  string
	Path     confname.NamePath
	Location confvalue.Location
	RunID    string
	hasPath  bool
}

func (e *Error) Error() string {
	suffix := ""
	if e.RunID != "" {
		suffix = fmt.Sprintf(" [run=%s]", e.RunID)
	}
	if e.hasPath {
		return fmt.Sprintf("%s: %s (at %s, %s)%s", e.Category, e.Message, e.Path, e.Location, suffix)
	}
	return fmt.Sprintf("%s: %s%s", e.Category, e.Message, suffix)
}

// HasLocation reports whether this error already carries a name path
// and location, as opposed to one waiting to be attached by an
// enclosing caller.
func (e *Error) HasLocation() bool {
	return e.hasPath
}

// WithNamePathAndLocation returns a copy of e with path/location
// attached, used by callers that catch an error raised deeper in the
// tree without that context.
func (e *Error) WithNamePathAndLocation(path confname.NamePath, loc confvalue.Location) *Error {
	cp := *e
	cp.Path = path
	cp.Location = loc
	cp.hasPath = true
	return &cp
}

// WithRunID returns a copy of e stamped with the DocumentValidator run
// that raised it, for log correlation across a validation pipeline.
func (e *Error) WithRunID(runID string) *Error {
	cp := *e
	cp.RunID = runID
	return &cp
}

// WithLocation returns a copy of e with only a location attached,
// used by callers that only know where the offending rule sits in the
// rules document, not the name path of the value it concerns
// (original_source: Error::withLocation, used throughout
// RulesDefinitionValidator's per-definition catch blocks).
func (e *Error) WithLocation(loc confvalue.Location) *Error {
	cp := *e
	cp.Location = loc
	cp.hasPath = true
	return &cp
}

func newError(category ErrorCategory, format string, args ...any) *Error {
	return &Error{Category: category, Message: fmt.Sprintf(format, args...)}
}

// NewValidationError builds a Validation-category error with no
// location attached yet.
func NewValidationError(format string, args ...any) *Error {
	return newError(Validation, format, args...)
}

// NewDefinitionError builds a Definition-category error with no
// location attached yet.
func NewDefinitionError(format string, args ...any) *Error {
	return newError(Definition, format, args...)
}

// NewInternalError builds an Internal-category error.
func NewInternalError(format string, args ...any) *Error {
	return newError(Internal, format, args...)
}

// AsError reports whether err is itself an *Error (wrapped errors are
// not unwrapped), the way
// original_source's catch blocks distinguish their own Error type from
// arbitrary exceptions.
func AsError(err error) (*Error, bool) {
	e, ok := err.(*Error)
	return e, ok
}

// attachLocation enriches err with path/location if it is a *vr.Error
// that doesn't have one yet, mirroring the enclosing try/catch blocks
// throughout original_source's RulesFromDocument/DocumentValidator
// that call `error.withNamePathAndLocation` on the way back up.
func attachLocation(err error, path confname.NamePath, loc confvalue.Location) error {
	if err == nil {
		return nil
	}
	if e, ok := AsError(err); ok && !e.HasLocation() {
		return e.WithNamePathAndLocation(path, loc)
	}
	return err
}
