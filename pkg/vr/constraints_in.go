package vr

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/erbsland-dev/erbsland-go-vr/pkg/confvalue"
)

// InIntegerConstraint requires the value to be one of a fixed set of
// integers.
type InIntegerConstraint struct {
	base
	values []int64
}

func (c *InIntegerConstraint) Validate(ctx *ValidationContext) error {
	if ctx.Value.Type() != confvalue.Integer {
		return unsupported(c.name, ctx.Value.Type())
	}
	value := ctx.Value.AsInteger()
	found := false
	for _, v := range c.values {
		if v == value {
			found = true
			break
		}
	}
	if found == c.negated {
		parts := make([]string, len(c.values))
		for i, v := range c.values {
			parts[i] = strconv.FormatInt(v, 10)
		}
		return NewValidationError("the value %s %s", comparisonText(In, c.negated), strings.Join(parts, " or "))
	}
	return nil
}

// InFloatConstraint requires the value to be one of a fixed set of
// floats, each compared within the same epsilon as Equals.
type InFloatConstraint struct {
	base
	values []float64
}

func (c *InFloatConstraint) Validate(ctx *ValidationContext) error {
	if ctx.Value.Type() != confvalue.Float {
		return unsupported(c.name, ctx.Value.Type())
	}
	value := ctx.Value.AsFloat()
	found := false
	for _, v := range c.values {
		d := value - v
		if d < 0 {
			d = -d
		}
		if d <= floatEqualsEpsilon {
			found = true
			break
		}
	}
	if found == c.negated {
		parts := make([]string, len(c.values))
		for i, v := range c.values {
			parts[i] = strconv.FormatFloat(v, 'g', 6, 64)
		}
		return NewValidationError("the value %s %s (within platform tolerance)", comparisonText(In, c.negated), strings.Join(parts, " or "))
	}
	return nil
}

// InTextConstraint requires the value to be one of a fixed set of
// texts, compared with the rule's case sensitivity.
type InTextConstraint struct {
	base
	values []string
}

func (c *InTextConstraint) Validate(ctx *ValidationContext) error {
	if ctx.Value.Type() != confvalue.Text {
		return unsupported(c.name, ctx.Value.Type())
	}
	value := ctx.Value.AsText()
	found := false
	for _, v := range c.values {
		if textEqual(value, v, ctx.Rule.CaseSensitivity()) {
			found = true
			break
		}
	}
	if found == c.negated {
		parts := make([]string, len(c.values))
		for i, v := range c.values {
			parts[i] = strconv.Quote(v)
		}
		return NewValidationError("the text %s %s (%s)", comparisonText(In, c.negated), strings.Join(parts, " or "), ctx.Rule.CaseSensitivity())
	}
	return nil
}

// InBytesConstraint requires the value to be one of a fixed set of
// byte sequences.
type InBytesConstraint struct {
	base
	values []confvalue.Bytes
}

func (c *InBytesConstraint) Validate(ctx *ValidationContext) error {
	if ctx.Value.Type() != confvalue.Bytes {
		return unsupported(c.name, ctx.Value.Type())
	}
	value := ctx.Value.AsBytes()
	found := false
	for _, v := range c.values {
		if bytes.Equal(value, v) {
			found = true
			break
		}
	}
	if found == c.negated {
		parts := make([]string, len(c.values))
		for i, v := range c.values {
			parts[i] = "\"" + strings.ToUpper(hexString(v)) + "\""
		}
		return NewValidationError("the byte sequence %s %s", comparisonText(In, c.negated), strings.Join(parts, " or "))
	}
	return nil
}

func hexString(b []byte) string {
	const digits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = digits[c>>4]
		out[i*2+1] = digits[c&0xf]
	}
	return string(out)
}

// handleInConstraint builds an In constraint matching the rule type,
// reading a single value or list of values from the node
// (original_source: InConstraint.cpp, handleInConstraint).
func handleInConstraint(ctx constraintHandlerContext) (Constraint, error) {
	node := ctx.Node
	switch ctx.Rule.Type() {
	case Integer:
		values, err := asValueList(node, confvalue.Integer)
		if err != nil {
			return nil, NewValidationError("the '%s' constraint must specify a single integer value or a list of integer values", node.Name())
		}
		ints := make([]int64, len(values))
		seen := make(map[int64]bool, len(values))
		for i, v := range values {
			ints[i] = v.AsInteger()
			if seen[ints[i]] {
				return nil, NewValidationError("the '%s' list must not contain duplicate values", node.Name())
			}
			seen[ints[i]] = true
		}
		return &InIntegerConstraint{base: base{typ: In}, values: ints}, nil
	case Float:
		values, err := asValueList(node, confvalue.Float)
		if err != nil {
			return nil, NewValidationError("the '%s' constraint must specify a single float value or a list of float values", node.Name())
		}
		floats := make([]float64, len(values))
		for i, v := range values {
			floats[i] = v.AsFloat()
		}
		return &InFloatConstraint{base: base{typ: In}, values: floats}, nil
	case Text:
		values, err := asValueList(node, confvalue.Text)
		if err != nil {
			return nil, NewValidationError("the '%s' constraint must specify a single text value or a list of text values", node.Name())
		}
		texts := make([]string, len(values))
		seen := make(map[string]bool, len(values))
		cs := ctx.Rule.CaseSensitivity()
		for i, v := range values {
			texts[i] = v.AsText()
			key := texts[i]
			if cs == CaseInsensitive {
				key = strings.ToLower(key)
			}
			if seen[key] {
				return nil, NewValidationError("the '%s' list must not contain duplicate values", node.Name())
			}
			seen[key] = true
		}
		return &InTextConstraint{base: base{typ: In}, values: texts}, nil
	case Bytes:
		values, err := asValueList(node, confvalue.Bytes)
		if err != nil {
			return nil, NewValidationError("the '%s' constraint must specify a single bytes value or a list of bytes values", node.Name())
		}
		byteValues := make([]confvalue.Bytes, len(values))
		for i, v := range values {
			byteValues[i] = v.AsBytes()
		}
		return &InBytesConstraint{base: base{typ: In}, values: byteValues}, nil
	default:
		return nil, NewValidationError("the '%s' constraint is not supported for '%s' rules", node.Name(), ctx.Rule.Type())
	}
}

// asValueList normalizes node into a slice of entries of the expected
// scalar type: a single scalar value becomes a one-element slice, a
// ValueList is returned entry by entry.
func asValueList(node *confvalue.Value, want confvalue.ValueType) ([]*confvalue.Value, error) {
	if node.Type() == want {
		return []*confvalue.Value{node}, nil
	}
	if node.Type() == confvalue.ValueList {
		children := node.Children()
		for _, c := range children {
			if c.Type() != want {
				return nil, NewValidationError("list entry has an unexpected type")
			}
		}
		if len(children) == 0 {
			return nil, NewValidationError("list must not be empty")
		}
		return children, nil
	}
	return nil, NewValidationError("unexpected value type")
}
