package vr

import "github.com/erbsland-dev/erbsland-go-vr/pkg/confvalue"

// ConstraintType enumerates the kinds of constraint a Rule can carry
// (spec.md section 3.4).
type ConstraintType int

const (
	Minimum ConstraintType = iota
	Maximum
	Equals
	In
	Multiple
	Chars
	Starts
	Ends
	Contains
	Matches
	Key
)

var constraintTypeNames = map[ConstraintType]string{
	Minimum:  "minimum",
	Maximum:  "maximum",
	Equals:   "equals",
	In:       "in",
	Multiple: "multiple",
	Chars:    "chars",
	Starts:   "starts",
	Ends:     "ends",
	Contains: "contains",
	Matches:  "matches",
	Key:      "key",
}

func (t ConstraintType) String() string {
	if s, ok := constraintTypeNames[t]; ok {
		return s
	}
	return "unknown"
}

// ValidationTarget is what a constraint inspects: the value itself, or
// the name under which it is stored (only the 'vr_name' rule's
// constraints validate names).
type ValidationTarget int

const (
	TargetValue ValidationTarget = iota
	TargetName
)

// ValidationContext carries everything a constraint needs to validate
// one value (original_source: ValidationContext.hpp).
type ValidationContext struct {
	Target ValidationTarget
	Value  *confvalue.Value
	Rule   *Rule
}

// Constraint is one check attached to a Rule. Implementations
// typically support only the handful of confvalue.ValueType kinds
// that make sense for them and return a Validation-category *Error
// naming the generic reason; the caller substitutes a custom error
// message when one was configured (original_source:
// DocumentValidator::validateConstraints).
type Constraint interface {
	Name() string
	SetName(string)
	Type() ConstraintType
	Location() confvalue.Location
	SetLocation(confvalue.Location)
	IsNegated() bool
	SetNegated(bool)
	IsFromTemplate() bool
	SetFromTemplate(bool)
	ErrorMessage() string
	SetErrorMessage(string)
	HasCustomError() bool

	// Validate checks context.Value and returns a *vr.Error of
	// category Validation on failure. When context.Target is
	// TargetName, context.Value is a Text value holding the name the
	// checked value is stored under.
	Validate(context *ValidationContext) error
}

// base is embedded by every concrete constraint to provide the common
// bookkeeping fields/methods.
type base struct {
	name         string
	typ          ConstraintType
	location     confvalue.Location
	negated      bool
	fromTemplate bool
	errorMessage string
}

func (b *base) Name() string                          { return b.name }
func (b *base) SetName(n string)                       { b.name = n }
func (b *base) Type() ConstraintType                   { return b.typ }
func (b *base) Location() confvalue.Location            { return b.location }
func (b *base) SetLocation(l confvalue.Location)        { b.location = l }
func (b *base) IsNegated() bool                        { return b.negated }
func (b *base) SetNegated(v bool)                       { b.negated = v }
func (b *base) IsFromTemplate() bool                   { return b.fromTemplate }
func (b *base) SetFromTemplate(v bool)                 { b.fromTemplate = v }
func (b *base) ErrorMessage() string                   { return b.errorMessage }
func (b *base) SetErrorMessage(s string)                { b.errorMessage = s }
func (b *base) HasCustomError() bool                   { return b.errorMessage != "" }

// constraintHandlerContext is passed to each constraint handler while
// compiling a rules document (original_source: ConstraintHandlerContext.hpp).
type constraintHandlerContext struct {
	Rule     *Rule
	Node     *confvalue.Value
	Negated  bool
}

// unsupported builds the standard "constraint not supported for this
// rule type" validation error for a constraint kind dispatch branch
// that wasn't implemented for the value actually presented.
func unsupported(name string, vt confvalue.ValueType) error {
	return NewValidationError("the '%s' constraint does not support %s", name, vt.ValueDescription(false))
}
