package vr

import (
	"math"

	"github.com/erbsland-dev/erbsland-go-vr/pkg/confvalue"
)

// minMaxOK interprets the three-way result of comparing a value to a
// bound (negative: value below bound, zero: equal, positive: value
// above bound) against a Minimum or Maximum constraint, flipped when
// negated.
func minMaxOK(cmp int, ct ConstraintType, negated bool) bool {
	var ok bool
	switch ct {
	case Minimum:
		ok = cmp >= 0
	default: // Maximum
		ok = cmp <= 0
	}
	if negated {
		ok = !ok
	}
	return ok
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// MinMaxIntegerConstraint bounds an Integer value, or the length/size
// of a Text, Bytes, ValueList, SectionList, or named/texts section
// (original_source: MinMaxConstraint.cpp, MinMaxIntegerConstraint).
type MinMaxIntegerConstraint struct {
	base
	bound int64
}

func newMinMaxInteger(ct ConstraintType, bound int64) *MinMaxIntegerConstraint {
	return &MinMaxIntegerConstraint{base: base{typ: ct}, bound: bound}
}

func (c *MinMaxIntegerConstraint) Validate(ctx *ValidationContext) error {
	v := ctx.Value
	var tested int64
	var subject string
	switch v.Type() {
	case confvalue.Integer:
		tested = v.AsInteger()
		subject = "the value"
	case confvalue.Text:
		tested = int64(v.CharacterLength())
		subject = "the number of characters in this text"
	case confvalue.Bytes:
		tested = int64(len(v.AsBytes()))
		subject = "the number of bytes"
	case confvalue.ValueList:
		tested = int64(v.Size())
		subject = "the number of values in this list"
	case confvalue.SectionList, confvalue.SectionWithNames, confvalue.SectionWithTexts:
		tested = int64(v.Size())
		subject = "the number of entries in this section"
	default:
		return unsupported(c.name, v.Type())
	}
	if !minMaxOK(compareInt64(tested, c.bound), c.typ, c.negated) {
		return NewValidationError("%s %s %d", subject, comparisonText(c.typ, c.negated), c.bound)
	}
	return nil
}

// MinMaxFloatConstraint bounds a Float value. NaN never satisfies a
// Minimum or Maximum constraint, negated or not.
type MinMaxFloatConstraint struct {
	base
	bound float64
}

func newMinMaxFloat(ct ConstraintType, bound float64) *MinMaxFloatConstraint {
	return &MinMaxFloatConstraint{base: base{typ: ct}, bound: bound}
}

func (c *MinMaxFloatConstraint) Validate(ctx *ValidationContext) error {
	if ctx.Value.Type() != confvalue.Float {
		return unsupported(c.name, ctx.Value.Type())
	}
	value := ctx.Value.AsFloat()
	if math.IsNaN(value) {
		return NewValidationError("the value %s %.6g (within platform tolerance)", comparisonText(c.typ, c.negated), c.bound)
	}
	cmp := 0
	switch {
	case value < c.bound:
		cmp = -1
	case value > c.bound:
		cmp = 1
	}
	if !minMaxOK(cmp, c.typ, c.negated) {
		return NewValidationError("the value %s %.6g (within platform tolerance)", comparisonText(c.typ, c.negated), c.bound)
	}
	return nil
}

// MinMaxDateConstraint bounds a Date value.
type MinMaxDateConstraint struct {
	base
	bound confvalue.Date
}

func newMinMaxDate(ct ConstraintType, bound confvalue.Date) *MinMaxDateConstraint {
	return &MinMaxDateConstraint{base: base{typ: ct}, bound: bound}
}

func (c *MinMaxDateConstraint) Validate(ctx *ValidationContext) error {
	if ctx.Value.Type() != confvalue.Date {
		return unsupported(c.name, ctx.Value.Type())
	}
	if !minMaxOK(ctx.Value.AsDate().Compare(c.bound), c.typ, c.negated) {
		return NewValidationError("the value %s %s", comparisonText(c.typ, c.negated), c.bound)
	}
	return nil
}

// MinMaxTimeConstraint bounds a Time value.
type MinMaxTimeConstraint struct {
	base
	bound confvalue.Time
}

func newMinMaxTime(ct ConstraintType, bound confvalue.Time) *MinMaxTimeConstraint {
	return &MinMaxTimeConstraint{base: base{typ: ct}, bound: bound}
}

func (c *MinMaxTimeConstraint) Validate(ctx *ValidationContext) error {
	if ctx.Value.Type() != confvalue.Time {
		return unsupported(c.name, ctx.Value.Type())
	}
	if !minMaxOK(ctx.Value.AsTime().Compare(c.bound), c.typ, c.negated) {
		return NewValidationError("the value %s %s", comparisonText(c.typ, c.negated), c.bound)
	}
	return nil
}

// MinMaxDateTimeConstraint bounds a DateTime value.
type MinMaxDateTimeConstraint struct {
	base
	bound confvalue.DateTime
}

func newMinMaxDateTime(ct ConstraintType, bound confvalue.DateTime) *MinMaxDateTimeConstraint {
	return &MinMaxDateTimeConstraint{base: base{typ: ct}, bound: bound}
}

func (c *MinMaxDateTimeConstraint) Validate(ctx *ValidationContext) error {
	if ctx.Value.Type() != confvalue.DateTime {
		return unsupported(c.name, ctx.Value.Type())
	}
	if !minMaxOK(ctx.Value.AsDateTime().Compare(c.bound), c.typ, c.negated) {
		return NewValidationError("the value %s %s", comparisonText(c.typ, c.negated), c.bound)
	}
	return nil
}

// MinMaxMatrixConstraint bounds the row count and, independently, the
// column count of each row of a ValueMatrix.
type MinMaxMatrixConstraint struct {
	base
	rows int64
	cols int64
}

func newMinMaxMatrix(ct ConstraintType, rows, cols int64) *MinMaxMatrixConstraint {
	return &MinMaxMatrixConstraint{base: base{typ: ct}, rows: rows, cols: cols}
}

func (c *MinMaxMatrixConstraint) Validate(ctx *ValidationContext) error {
	v := ctx.Value
	if v.Type() != confvalue.ValueMatrix {
		return unsupported(c.name, v.Type())
	}
	if !minMaxOK(compareInt64(int64(v.Rows()), c.rows), c.typ, c.negated) {
		return NewValidationError("the number of rows %s %d", comparisonText(c.typ, c.negated), c.rows)
	}
	for row := 0; row < v.Rows(); row++ {
		if !minMaxOK(compareInt64(int64(v.ColumnCount(row)), c.cols), c.typ, c.negated) {
			return NewValidationError("the number of columns %s %d", comparisonText(c.typ, c.negated), c.cols)
		}
	}
	return nil
}

// handleMinimumConstraint and handleMaximumConstraint build the
// Minimum/Maximum constraint matching the rule's type, reading the
// bound from the rules-document node (original_source:
// MinMaxConstraint.cpp, handleMinimumConstraint/handleMaximumConstraint).
func handleMinimumConstraint(ctx constraintHandlerContext) (Constraint, error) {
	return handleMinMaxConstraint(Minimum, ctx)
}

func handleMaximumConstraint(ctx constraintHandlerContext) (Constraint, error) {
	return handleMinMaxConstraint(Maximum, ctx)
}

func handleMinMaxConstraint(ct ConstraintType, ctx constraintHandlerContext) (Constraint, error) {
	node := ctx.Node
	switch ctx.Rule.Type() {
	case Integer, Text, Bytes, ValueList, Section, SectionList, SectionWithTexts:
		if node.Type() != confvalue.Integer {
			return nil, NewValidationError("the '%s' constraint for a '%s' rule must be an integer", ct, ctx.Rule.Type())
		}
		return newMinMaxInteger(ct, node.AsInteger()), nil
	case Float:
		if node.Type() != confvalue.Float {
			return nil, NewValidationError("the '%s' constraint for a float rule must be a float", ct)
		}
		return newMinMaxFloat(ct, node.AsFloat()), nil
	case Date:
		if node.Type() != confvalue.Date {
			return nil, NewValidationError("the '%s' constraint for a date rule must be a date", ct)
		}
		return newMinMaxDate(ct, node.AsDate()), nil
	case Time:
		if node.Type() != confvalue.Time {
			return nil, NewValidationError("the '%s' constraint for a time rule must be a time", ct)
		}
		return newMinMaxTime(ct, node.AsTime()), nil
	case DateTime:
		if node.Type() != confvalue.DateTime {
			return nil, NewValidationError("the '%s' constraint for a date-time rule must be a date-time", ct)
		}
		return newMinMaxDateTime(ct, node.AsDateTime()), nil
	case ValueMatrix:
		rows, cols, err := asTwoIntegers(node)
		if err != nil {
			return nil, NewValidationError("the '%s' constraint for a value matrix must be a list with two integer values", ct)
		}
		return newMinMaxMatrix(ct, rows, cols), nil
	default:
		return nil, NewValidationError("the '%s' constraint is not supported for '%s' rules", ct, ctx.Rule.Type())
	}
}

// asTwoIntegers reads a ValueList node expected to hold exactly two
// Integer entries, used by constraints that bound a ValueMatrix's
// rows and columns independently.
func asTwoIntegers(node *confvalue.Value) (int64, int64, error) {
	if node.Type() != confvalue.ValueList || node.Size() != 2 {
		return 0, 0, NewValidationError("expected a list with two integer values")
	}
	a, b := node.Children()[0], node.Children()[1]
	if a.Type() != confvalue.Integer || b.Type() != confvalue.Integer {
		return 0, 0, NewValidationError("expected a list with two integer values")
	}
	return a.AsInteger(), b.AsInteger(), nil
}
