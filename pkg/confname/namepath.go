package confname

import "strings"

// NamePath is an ordered sequence of Names identifying a location in a
// configuration or rules document tree.
type NamePath struct {
	names []Name
}

// NewNamePath builds a NamePath from a sequence of names.
func NewNamePath(names ...Name) NamePath {
	cp := make([]Name, len(names))
	copy(cp, names)
	return NamePath{names: cp}
}

// Len returns the number of elements in the path.
func (p NamePath) Len() int { return len(p.names) }

// Empty reports whether the path has no elements.
func (p NamePath) Empty() bool { return len(p.names) == 0 }

// At returns the name at position i.
func (p NamePath) At(i int) Name { return p.names[i] }

// Elements returns the underlying names. The returned slice must not
// be mutated by the caller.
func (p NamePath) Elements() []Name { return p.names }

// Last returns the final element of the path. It panics if the path is
// empty.
func (p NamePath) Last() Name { return p.names[len(p.names)-1] }

// Append returns a new path with additional names appended.
func (p NamePath) Append(names ...Name) NamePath {
	result := make([]Name, 0, len(p.names)+len(names))
	result = append(result, p.names...)
	result = append(result, names...)
	return NamePath{names: result}
}

// Concat returns the concatenation of p and other.
func (p NamePath) Concat(other NamePath) NamePath {
	return p.Append(other.names...)
}

// Prefix returns the first k elements of the path. It panics if k is
// out of range.
func (p NamePath) Prefix(k int) NamePath {
	if k < 0 || k > len(p.names) {
		panic("confname: prefix out of range")
	}
	return NamePath{names: append([]Name{}, p.names[:k]...)}
}

// SubPath returns the elements in [from, to). A to value of -1 means
// "to the end".
func (p NamePath) SubPath(from, to int) NamePath {
	if to < 0 {
		to = len(p.names)
	}
	if from < 0 || from > to || to > len(p.names) {
		panic("confname: subpath out of range")
	}
	return NamePath{names: append([]Name{}, p.names[from:to]...)}
}

// SubPathFrom returns the elements from index `from` to the end.
func (p NamePath) SubPathFrom(from int) NamePath {
	return p.SubPath(from, -1)
}

// Parent returns the path with its last element removed. It panics if
// the path is empty.
func (p NamePath) Parent() NamePath {
	if len(p.names) == 0 {
		panic("confname: parent of empty path")
	}
	return p.Prefix(len(p.names) - 1)
}

// NotFound is returned by Find when no occurrence exists.
const NotFound = -1

// Find returns the index of the first occurrence of name in the path,
// or NotFound.
func (p NamePath) Find(name Name) int {
	for i, n := range p.names {
		if n.Equal(name) {
			return i
		}
	}
	return NotFound
}

// ContainsIndex reports whether any element of the path is an Index
// name.
func (p NamePath) ContainsIndex() bool {
	for _, n := range p.names {
		if n.IsIndex() {
			return true
		}
	}
	return false
}

// ContainsText reports whether any element of the path is a Text name.
func (p NamePath) ContainsText() bool {
	for _, n := range p.names {
		if n.IsText() {
			return true
		}
	}
	return false
}

// Equal reports whether p and other have the same elements under
// element-wise Name equality.
func (p NamePath) Equal(other NamePath) bool {
	if len(p.names) != len(other.names) {
		return false
	}
	for i := range p.names {
		if !p.names[i].Equal(other.names[i]) {
			return false
		}
	}
	return true
}

// Key returns a string usable as a map key capturing the normalized
// identity of the path (used where NamePath itself can't be a map key
// because Name carries no exported comparable form).
func (p NamePath) Key() string {
	var b strings.Builder
	for i, n := range p.names {
		if i > 0 {
			b.WriteByte('\x00')
		}
		switch n.Kind() {
		case Regular:
			b.WriteByte('r')
			b.WriteString(normalized(n.text))
		case Text:
			b.WriteByte('t')
			b.WriteString(n.text)
		case Index:
			b.WriteByte('i')
			b.WriteString(n.text)
		}
	}
	return b.String()
}

// String renders the path using '.' separators, matching the rules
// document's dotted path notation.
func (p NamePath) String() string {
	parts := make([]string, len(p.names))
	for i, n := range p.names {
		parts[i] = n.String()
	}
	return strings.Join(parts, ".")
}

// ParseNamePath parses a dotted textual path (e.g. "filter.vr_entry.id")
// into a NamePath of Regular names. It is used to parse key/dependency
// path references from rules-document text values; such references
// never contain Text or Index elements.
func ParseNamePath(text string) NamePath {
	if text == "" {
		return NamePath{}
	}
	parts := strings.Split(text, ".")
	names := make([]Name, len(parts))
	for i, part := range parts {
		names[i] = NewRegular(part)
	}
	return NamePath{names: names}
}
