package vr

import (
	"strconv"
	"strings"

	"github.com/erbsland-dev/erbsland-go-vr/pkg/confvalue"
)

// stringPartMatcher is the per-kind test a stringPartConstraint
// delegates to (original_source: StringPartConstraint.hpp, the
// doesPartMatch virtual).
type stringPartMatcher func(value, expected string, cs CaseSensitivity) bool

// stringPartConstraint backs Starts, Ends, and Contains: a Text value
// must match at least one of a set of expected substrings in the
// given position (original_source: StringPartConstraint.cpp).
type stringPartConstraint struct {
	base
	expected []string
	partText string
	matches  stringPartMatcher
}

func (c *stringPartConstraint) Validate(ctx *ValidationContext) error {
	if ctx.Value.Type() != confvalue.Text {
		return unsupported(c.name, ctx.Value.Type())
	}
	value := ctx.Value.AsText()
	doesMatch := false
	for _, e := range c.expected {
		if c.matches(value, e, ctx.Rule.CaseSensitivity()) {
			doesMatch = true
			break
		}
	}
	if doesMatch == c.negated {
		parts := make([]string, len(c.expected))
		for i, e := range c.expected {
			parts[i] = strconv.Quote(e)
		}
		verb := "does not"
		if c.negated {
			verb = "must not"
		}
		return NewValidationError("the text %s %s %s (%s)", verb, c.partText, strings.Join(parts, " or "), ctx.Rule.CaseSensitivity())
	}
	return nil
}

func newStringPartConstraint(ct ConstraintType, partText string, matches stringPartMatcher, values []string) *stringPartConstraint {
	return &stringPartConstraint{base: base{typ: ct}, expected: values, partText: partText, matches: matches}
}

func handleStartsConstraint(ctx constraintHandlerContext) (Constraint, error) {
	values, err := requireTextValues(ctx)
	if err != nil {
		return nil, err
	}
	return newStringPartConstraint(Starts, "start with", textStartsWith, values), nil
}

func handleEndsConstraint(ctx constraintHandlerContext) (Constraint, error) {
	values, err := requireTextValues(ctx)
	if err != nil {
		return nil, err
	}
	return newStringPartConstraint(Ends, "end with", textEndsWith, values), nil
}

func handleContainsConstraint(ctx constraintHandlerContext) (Constraint, error) {
	values, err := requireTextValues(ctx)
	if err != nil {
		return nil, err
	}
	return newStringPartConstraint(Contains, "contain", textContains, values), nil
}

func requireTextValues(ctx constraintHandlerContext) ([]string, error) {
	if ctx.Rule.Type() != Text {
		return nil, NewValidationError("the '%s' constraint is not supported for '%s' rules", ctx.Node.Name(), ctx.Rule.Type())
	}
	values, err := asValueList(ctx.Node, confvalue.Text)
	if err != nil {
		return nil, NewValidationError("the '%s' constraint must specify a single text value or a list of texts", ctx.Node.Name())
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.AsText()
	}
	return out, nil
}
