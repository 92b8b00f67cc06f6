package vr

import "github.com/erbsland-dev/erbsland-go-vr/pkg/confvalue"

// MatchesConstraint requires a Text value to match a regular
// expression, delegating compilation and matching to the opaque
// confvalue.Matcher (spec.md section 6).
type MatchesConstraint struct {
	base
	matcher confvalue.Matcher
}

func (c *MatchesConstraint) Validate(ctx *ValidationContext) error {
	if ctx.Value.Type() != confvalue.Text {
		return unsupported(c.name, ctx.Value.Type())
	}
	matched := c.matcher.FindFirst(ctx.Value.AsText())
	if matched == c.negated {
		if c.negated {
			return NewValidationError("the text must not match the expected pattern")
		}
		return NewValidationError("the text does not match the expected pattern")
	}
	return nil
}

func handleMatchesConstraint(ctx constraintHandlerContext) (Constraint, error) {
	if ctx.Rule.Type() != Text {
		return nil, NewValidationError("the 'matches' constraint can only be used on text rules")
	}
	if ctx.Node.Type() != confvalue.RegEx {
		return nil, NewValidationError("the 'matches' constraint requires a regular expression value")
	}
	regex := ctx.Node.AsRegEx()
	if regex.Pattern == "" {
		return nil, NewValidationError("the regular expression in the 'matches' constraint must not be empty")
	}
	if regex.Matcher == nil {
		matcher, err := confvalue.Compile(regex.Pattern, regex.MultiLine)
		if err != nil {
			return nil, NewValidationError("invalid regular expression: %v", err)
		}
		regex.Matcher = matcher
	}
	return &MatchesConstraint{base: base{typ: Matches}, matcher: regex.Matcher}, nil
}
