package vr

import (
	"bytes"
	"math"

	"github.com/erbsland-dev/erbsland-go-vr/pkg/confvalue"
)

// EqualsIntegerConstraint requires an exact Integer value, or an exact
// length/size for Text, Bytes, ValueList, or section-shaped values
// (original_source: EqualsConstraint.cpp, EqualsIntegerConstraint).
type EqualsIntegerConstraint struct {
	base
	value int64
}

func (c *EqualsIntegerConstraint) Validate(ctx *ValidationContext) error {
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
	valid := tested == c.value
	if c.negated {
		valid = !valid
	}
	if !valid {
		return NewValidationError("%s %s %d", subject, comparisonText(Equals, c.negated), c.value)
	}
	return nil
}

// EqualsBooleanConstraint requires an exact Boolean value.
type EqualsBooleanConstraint struct {
	base
	value bool
}

func (c *EqualsBooleanConstraint) Validate(ctx *ValidationContext) error {
	if ctx.Value.Type() != confvalue.Boolean {
		return unsupported(c.name, ctx.Value.Type())
	}
	valid := ctx.Value.AsBoolean() == c.value
	if c.negated {
		valid = !valid
	}
	if !valid {
		expected := c.value
		if c.negated {
			expected = !expected
		}
		return NewValidationError("the value must be %t", expected)
	}
	return nil
}

// EqualsFloatConstraint requires a Float value equal within a small
// epsilon (spec.md Open Question: strict epsilon tolerance, not ULP
// comparison).
type EqualsFloatConstraint struct {
	base
	value float64
}

const floatEqualsEpsilon = 1e-9

func (c *EqualsFloatConstraint) Validate(ctx *ValidationContext) error {
	if ctx.Value.Type() != confvalue.Float {
		return unsupported(c.name, ctx.Value.Type())
	}
	value := ctx.Value.AsFloat()
	valid := math.Abs(value-c.value) <= floatEqualsEpsilon
	if c.negated {
		valid = !valid
	}
	if !valid {
		return NewValidationError("the value %s %.6g (within platform tolerance)", comparisonText(Equals, c.negated), c.value)
	}
	return nil
}

// EqualsTextConstraint requires an exact Text value, compared with the
// rule's case sensitivity.
type EqualsTextConstraint struct {
	base
	value string
}

func (c *EqualsTextConstraint) Validate(ctx *ValidationContext) error {
	if ctx.Value.Type() != confvalue.Text {
		return unsupported(c.name, ctx.Value.Type())
	}
	valid := textEqual(ctx.Value.AsText(), c.value, ctx.Rule.CaseSensitivity())
	if c.negated {
		valid = !valid
	}
	if !valid {
		return NewValidationError("the text %s %q (%s)", comparisonText(Equals, c.negated), c.value, ctx.Rule.CaseSensitivity())
	}
	return nil
}

// EqualsBytesConstraint requires an exact Bytes value.
type EqualsBytesConstraint struct {
	base
	value confvalue.Bytes
}

func (c *EqualsBytesConstraint) Validate(ctx *ValidationContext) error {
	if ctx.Value.Type() != confvalue.Bytes {
		return unsupported(c.name, ctx.Value.Type())
	}
	valid := bytes.Equal(ctx.Value.AsBytes(), c.value)
	if c.negated {
		valid = !valid
	}
	if !valid {
		return NewValidationError("the byte sequence %s %x", comparisonText(Equals, c.negated), []byte(c.value))
	}
	return nil
}

// EqualsMatrixConstraint requires an exact row count and, for every
// row, an exact column count.
type EqualsMatrixConstraint struct {
	base
	rows int64
	cols int64
}

func (c *EqualsMatrixConstraint) Validate(ctx *ValidationContext) error {
	v := ctx.Value
	if v.Type() != confvalue.ValueMatrix {
		return unsupported(c.name, v.Type())
	}
	valid := int64(v.Rows()) == c.rows
	if c.negated {
		valid = !valid
	}
	if !valid {
		return NewValidationError("the number of rows %s %d", comparisonText(Equals, c.negated), c.rows)
	}
	for row := 0; row < v.Rows(); row++ {
		colsValid := int64(v.ColumnCount(row)) == c.cols
		if c.negated {
			colsValid = !colsValid
		}
		if !colsValid {
			return NewValidationError("the number of columns %s %d", comparisonText(Equals, c.negated), c.cols)
		}
	}
	return nil
}

func handleEqualsConstraint(ctx constraintHandlerContext) (Constraint, error) {
	node := ctx.Node
	switch ctx.Rule.Type() {
	case Integer:
		if node.Type() != confvalue.Integer {
			return nil, NewValidationError("the 'equals' constraint for an integer rule must be an integer")
		}
		return &EqualsIntegerConstraint{base: base{typ: Equals}, value: node.AsInteger()}, nil
	case Float:
		if node.Type() != confvalue.Float {
			return nil, NewValidationError("the 'equals' constraint for a float rule must be a float")
		}
		return &EqualsFloatConstraint{base: base{typ: Equals}, value: node.AsFloat()}, nil
	case Text:
		if node.Type() == confvalue.Text {
			return &EqualsTextConstraint{base: base{typ: Equals}, value: node.AsText()}, nil
		}
		if node.Type() != confvalue.Integer {
			return nil, NewValidationError("the 'equals' constraint for a text rule must be a text or integer")
		}
		return &EqualsIntegerConstraint{base: base{typ: Equals}, value: node.AsInteger()}, nil
	case Bytes:
		if node.Type() == confvalue.Bytes {
			return &EqualsBytesConstraint{base: base{typ: Equals}, value: node.AsBytes()}, nil
		}
		if node.Type() != confvalue.Integer {
			return nil, NewValidationError("the 'equals' constraint for a bytes rule must be a byte sequence or integer")
		}
		return &EqualsIntegerConstraint{base: base{typ: Equals}, value: node.AsInteger()}, nil
	case Boolean:
		if node.Type() != confvalue.Boolean {
			return nil, NewValidationError("the 'equals' constraint for a boolean rule must be a boolean")
		}
		return &EqualsBooleanConstraint{base: base{typ: Equals}, value: node.AsBoolean()}, nil
	case ValueList:
		if node.Type() != confvalue.Integer {
			return nil, NewValidationError("the 'equals' constraint for a value list must be an integer")
		}
		return &EqualsIntegerConstraint{base: base{typ: Equals}, value: node.AsInteger()}, nil
	case ValueMatrix:
		rows, cols, err := asTwoIntegers(node)
		if err != nil {
			return nil, NewValidationError("the 'equals' constraint for a value matrix must be a list with two integer values")
		}
		return &EqualsMatrixConstraint{base: base{typ: Equals}, rows: rows, cols: cols}, nil
	case Section, SectionList, SectionWithTexts:
		if node.Type() != confvalue.Integer {
			return nil, NewValidationError("the 'equals' constraint for a section or section list must be an integer")
		}
		return &EqualsIntegerConstraint{base: base{typ: Equals}, value: node.AsInteger()}, nil
	default:
		return nil, NewValidationError("the 'equals' constraint is not supported for '%s' rules", ctx.Rule.Type())
	}
}
