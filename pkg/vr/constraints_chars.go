package vr

import (
	"strings"

	"github.com/erbsland-dev/erbsland-go-vr/pkg/confvalue"
)

// charRange is an inclusive range of Unicode code points.
type charRange struct {
	first, last rune
}

func (r charRange) contains(c rune) bool { return c >= r.first && c <= r.last }

// charRanges is an unordered set of character ranges, tested by
// linear scan (original_source: CharRanges.hpp).
type charRanges []charRange

func (rs charRanges) contains(c rune) bool {
	for _, r := range rs {
		if r.contains(c) {
			return true
		}
	}
	return false
}

// namedCharRanges are the predefined character classes 'chars' may
// reference by name, alongside parenthesized ranges "(a-z)" and
// bracket lists "[abc]" (original_source: CharsConstraint.hpp,
// namedRanges/parseParenRange/parseBracketList).
var namedCharRanges = map[string]charRanges{
	"alpha": {{'a', 'z'}, {'A', 'Z'}},
	"digit": {{'0', '9'}},
	"alnum": {{'a', 'z'}, {'A', 'Z'}, {'0', '9'}},
	"upper": {{'A', 'Z'}},
	"lower": {{'a', 'z'}},
	"space": {{' ', ' '}, {'\t', '\t'}},
	"punct": {{'!', '/'}, {':', '@'}, {'[', '`'}, {'{', '~'}},
}

// parseCharRanges parses one element of the 'chars' constraint's
// value list: a named class, a parenthesized range "(a-z)", or a
// bracket list of individual characters "[abc]".
func parseCharRanges(text string) (charRanges, error) {
	if named, ok := namedCharRanges[strings.ToLower(text)]; ok {
		return named, nil
	}
	runes := []rune(text)
	if len(runes) >= 2 && runes[0] == '(' && runes[len(runes)-1] == ')' {
		inner := runes[1 : len(runes)-1]
		if len(inner) == 3 && inner[1] == '-' {
			return charRanges{{first: inner[0], last: inner[2]}}, nil
		}
		return nil, NewValidationError("invalid parenthesized character range %q", text)
	}
	if len(runes) >= 2 && runes[0] == '[' && runes[len(runes)-1] == ']' {
		inner := runes[1 : len(runes)-1]
		out := make(charRanges, 0, len(inner))
		seen := make(map[rune]bool, len(inner))
		for _, r := range inner {
			if seen[r] {
				return nil, NewValidationError("duplicate character %q in bracket list %q", r, text)
			}
			seen[r] = true
			out = append(out, charRange{first: r, last: r})
		}
		return out, nil
	}
	return nil, NewValidationError("unrecognized character range %q", text)
}

// CharsConstraint requires every rune of a Text value to fall within
// one of a set of allowed character ranges.
type CharsConstraint struct {
	base
	ranges charRanges
}

func (c *CharsConstraint) Validate(ctx *ValidationContext) error {
	if ctx.Value.Type() != confvalue.Text {
		return unsupported(c.name, ctx.Value.Type())
	}
	for _, r := range ctx.Value.AsText() {
		allowed := c.ranges.contains(r)
		if allowed == c.negated {
			if c.negated {
				return NewValidationError("the text must not contain the character %q", r)
			}
			return NewValidationError("the text contains the character %q, which is not allowed", r)
		}
	}
	return nil
}

func handleCharsConstraint(ctx constraintHandlerContext) (Constraint, error) {
	if ctx.Rule.Type() != Text {
		return nil, NewValidationError("the 'chars' constraint can only be used on text rules")
	}
	values, err := asValueList(ctx.Node, confvalue.Text)
	if err != nil {
		return nil, NewValidationError("the 'chars' constraint must specify a single text value or a list of texts")
	}
	var ranges charRanges
	for _, v := range values {
		parsed, err := parseCharRanges(v.AsText())
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, parsed...)
	}
	return &CharsConstraint{base: base{typ: Chars}, ranges: ranges}, nil
}
