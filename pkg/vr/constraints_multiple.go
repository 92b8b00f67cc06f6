package vr

import (
	"math"

	"github.com/erbsland-dev/erbsland-go-vr/pkg/confvalue"
)

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// isMultipleOfInt reports whether tested is an integer multiple of
// divisor. A zero divisor matches nothing, the same convention
// original_source uses (MultipleConstraint.cpp).
func isMultipleOfInt(tested, divisor int64) bool {
	d := absInt64(divisor)
	if d == 0 {
		return false
	}
	return tested%d == 0
}

func isMultipleOfFloat(tested, divisor float64) bool {
	d := math.Abs(divisor)
	if d <= floatEqualsEpsilon {
		return false
	}
	q := tested / divisor
	nearest := math.Round(q)
	return math.Abs(q-nearest) < floatEqualsEpsilon
}

// MultipleIntegerConstraint requires the value (or the length/size of
// a Text, Bytes, ValueList, or section-shaped value) to be an integer
// multiple of a divisor.
type MultipleIntegerConstraint struct {
	base
	divisor int64
}

func (c *MultipleIntegerConstraint) Validate(ctx *ValidationContext) error {
	v := ctx.Value
	var tested int64
	var subject string
	switch v.Type() {
	case confvalue.Integer:
		tested, subject = v.AsInteger(), "the value"
	case confvalue.Text:
		tested, subject = int64(v.CharacterLength()), "the number of characters in this text"
	case confvalue.Bytes:
		tested, subject = int64(len(v.AsBytes())), "the number of bytes"
	case confvalue.ValueList:
		tested, subject = int64(v.Size()), "the number of values in this list"
	case confvalue.SectionList, confvalue.SectionWithNames, confvalue.SectionWithTexts:
		tested, subject = int64(v.Size()), "the number of entries in this section"
	default:
		return unsupported(c.name, v.Type())
	}
	valid := isMultipleOfInt(tested, c.divisor)
	if c.negated {
		valid = !valid
	}
	if !valid {
		return NewValidationError("%s %s %d", subject, comparisonText(Multiple, c.negated), c.divisor)
	}
	return nil
}

// MultipleFloatConstraint requires a Float value to be a multiple of a
// divisor within platform tolerance.
type MultipleFloatConstraint struct {
	base
	divisor float64
}

func (c *MultipleFloatConstraint) Validate(ctx *ValidationContext) error {
	if ctx.Value.Type() != confvalue.Float {
		return unsupported(c.name, ctx.Value.Type())
	}
	valid := isMultipleOfFloat(ctx.Value.AsFloat(), c.divisor)
	if c.negated {
		valid = !valid
	}
	if !valid {
		return NewValidationError("the value %s %.6g (within platform tolerance)", comparisonText(Multiple, c.negated), c.divisor)
	}
	return nil
}

// MultipleMatrixConstraint requires a ValueMatrix's row count, and
// independently every row's column count, to be multiples of their
// own divisors.
type MultipleMatrixConstraint struct {
	base
	rowsDivisor int64
	colsDivisor int64
}

func (c *MultipleMatrixConstraint) Validate(ctx *ValidationContext) error {
	v := ctx.Value
	if v.Type() != confvalue.ValueMatrix {
		return unsupported(c.name, v.Type())
	}
	valid := isMultipleOfInt(int64(v.Rows()), c.rowsDivisor)
	if c.negated {
		valid = !valid
	}
	if !valid {
		return NewValidationError("the number of rows %s %d", comparisonText(Multiple, c.negated), c.rowsDivisor)
	}
	for row := 0; row < v.Rows(); row++ {
		colValid := isMultipleOfInt(int64(v.ColumnCount(row)), c.colsDivisor)
		if c.negated {
			colValid = !colValid
		}
		if !colValid {
			return NewValidationError("the number of columns %s %d", comparisonText(Multiple, c.negated), c.colsDivisor)
		}
	}
	return nil
}

func handleMultipleConstraint(ctx constraintHandlerContext) (Constraint, error) {
	node := ctx.Node
	requireInt := func(label string) (int64, error) {
		if node.Type() != confvalue.Integer {
			return 0, NewValidationError("the 'multiple' constraint for a %s rule must be an integer", label)
		}
		return node.AsInteger(), nil
	}
	switch ctx.Rule.Type() {
	case Integer, Text, Bytes, ValueList, Section, SectionList, SectionWithTexts:
		divisor, err := requireInt(ctx.Rule.Type().String())
		if err != nil {
			return nil, err
		}
		if divisor == 0 {
			return nil, NewValidationError("the 'multiple' divisor must not be zero")
		}
		return &MultipleIntegerConstraint{base: base{typ: Multiple}, divisor: divisor}, nil
	case Float:
		if node.Type() != confvalue.Float {
			return nil, NewValidationError("the 'multiple' constraint for a float rule must be a float")
		}
		divisor := node.AsFloat()
		if math.Abs(divisor) <= floatEqualsEpsilon {
			return nil, NewValidationError("the 'multiple' divisor must not be zero")
		}
		return &MultipleFloatConstraint{base: base{typ: Multiple}, divisor: divisor}, nil
	case ValueMatrix:
		rows, cols, err := asTwoIntegers(node)
		if err != nil {
			return nil, NewValidationError("the 'multiple' constraint for a value matrix must be a list with two integer values")
		}
		if rows == 0 || cols == 0 {
			return nil, NewValidationError("the 'multiple' divisors must not be zero")
		}
		return &MultipleMatrixConstraint{base: base{typ: Multiple}, rowsDivisor: rows, colsDivisor: cols}, nil
	default:
		return nil, NewValidationError("the 'multiple' constraint is not supported for '%s' rules", ctx.Rule.Type())
	}
}
