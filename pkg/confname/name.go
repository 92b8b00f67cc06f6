// Package confname implements the Name and NamePath container types
// consumed throughout the validation-rules engine.
//
// A Name identifies one step of a path into a configuration or rules
// document. It comes in three flavors: a case/underscore-insensitive
// regular identifier, a quoted text key, or a non-negative list index.
package confname

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind distinguishes the three flavors a Name can take.
type Kind int

const (
	// Regular is a case-insensitive identifier where underscores and
	// spaces are treated as equivalent.
	Regular Kind = iota
	// Text is a quoted string key, compared with exact, case-sensitive
	// equality.
	Text
	// Index is a non-negative integer selecting a list entry.
	Index
)

func (k Kind) String() string {
	switch k {
	case Regular:
		return "regular"
	case Text:
		return "text"
	case Index:
		return "index"
	default:
		return "unknown"
	}
}

// reservedNames are Regular names with special meaning in a rules
// document. Any name starting with "vr_" is reserved outright; these
// are the specific ones the engine dispatches on.
var reservedNames = map[string]bool{
	"vr_template":   true,
	"vr_entry":      true,
	"vr_any":        true,
	"vr_name":       true,
	"vr_key":        true,
	"vr_dependency": true,
}

// Name is one element of a NamePath.
type Name struct {
	kind Kind
	text string // raw spelling for Regular/Text; decimal digits for Index
	idx  int64  // valid only when kind == Index
}

// NewRegular creates a Regular name from its raw spelling.
func NewRegular(text string) Name {
	return Name{kind: Regular, text: text}
}

// NewRegularChecked creates a Regular name, rejecting spellings that
// are not valid identifiers (must start with a letter, and contain
// only letters, digits, underscores, and spaces).
func NewRegularChecked(text string) (Name, error) {
	if text == "" {
		return Name{}, fmt.Errorf("a regular name must not be empty")
	}
	for i, r := range text {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9', r == '_', r == ' ':
			if i == 0 {
				return Name{}, fmt.Errorf("a regular name must start with a letter")
			}
		default:
			return Name{}, fmt.Errorf("invalid character %q in regular name", r)
		}
	}
	return NewRegular(text), nil
}

// NewText creates a Text name.
func NewText(text string) Name {
	return Name{kind: Text, text: text}
}

// NewIndex creates an Index name. Panics if idx is negative; callers
// that accept untrusted input should validate first.
func NewIndex(idx int64) Name {
	if idx < 0 {
		panic("confname: negative index")
	}
	return Name{kind: Index, idx: idx, text: strconv.FormatInt(idx, 10)}
}

// Kind returns which flavor of name this is.
func (n Name) Kind() Kind { return n.kind }

// IsRegular reports whether n is a Regular name.
func (n Name) IsRegular() bool { return n.kind == Regular }

// IsText reports whether n is a Text name.
func (n Name) IsText() bool { return n.kind == Text }

// IsIndex reports whether n is an Index name.
func (n Name) IsIndex() bool { return n.kind == Index }

// AsIndex returns the integer value of an Index name. It panics if n
// is not an Index.
func (n Name) AsIndex() int64 {
	if n.kind != Index {
		panic("confname: AsIndex called on non-index name")
	}
	return n.idx
}

// Text returns the raw spelling of a Regular or Text name, or the
// decimal digits of an Index name.
func (n Name) Text() string { return n.text }

// normalized returns the comparison key for a Regular name: lower
// case, with spaces folded to underscores.
func normalized(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == ' ' {
			r = '_'
		}
		b.WriteRune(toLower(r))
	}
	return b.String()
}

func toLower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

// Equal reports whether n and other denote the same name, applying
// Regular-name normalization (case-insensitive, space/underscore
// equivalent) and exact comparison for Text and Index.
func (n Name) Equal(other Name) bool {
	if n.kind != other.kind {
		return false
	}
	switch n.kind {
	case Regular:
		return normalized(n.text) == normalized(other.text)
	case Text:
		return n.text == other.text
	case Index:
		return n.idx == other.idx
	default:
		return false
	}
}

// IsReserved reports whether n is a Regular name reserved by the rules
// document format: one of the fixed `vr_...` keywords, or any name
// starting with the `vr_` prefix (including escaped reserved names
// such as `vr_vr_foo`).
func (n Name) IsReserved() bool {
	if n.kind != Regular {
		return false
	}
	low := normalized(n.text)
	if reservedNames[low] {
		return true
	}
	return strings.HasPrefix(low, "vr_")
}

// IsEscapedReserved reports whether n has the `vr_vr_` escape prefix,
// denoting the user name obtained by stripping the outer `vr_`.
func (n Name) IsEscapedReserved() bool {
	if n.kind != Regular {
		return false
	}
	return strings.HasPrefix(normalized(n.text), "vr_vr_")
}

// Unescaped returns the user-facing name for an escaped reserved name
// (`vr_vr_foo` -> `vr_foo`). It is only meaningful when
// IsEscapedReserved is true.
func (n Name) Unescaped() Name {
	if !n.IsEscapedReserved() {
		return n
	}
	return NewRegular(strings.TrimPrefix(n.text, "vr_"))
}

// Key returns a string suitable for use as a map key, applying the
// same equivalence Equal does (Regular names normalized, Text and
// Index names verbatim).
func (n Name) Key() string {
	switch n.kind {
	case Regular:
		return "r:" + normalized(n.text)
	case Text:
		return "t:" + n.text
	case Index:
		return "i:" + n.text
	default:
		return ""
	}
}

// String renders the name for diagnostics.
func (n Name) String() string {
	switch n.kind {
	case Text:
		return fmt.Sprintf("%q", n.text)
	default:
		return n.text
	}
}
