package confvalue

import (
	"strconv"

	"github.com/erbsland-dev/erbsland-go-vr/pkg/confname"
)

// Value is one node of a configuration value tree: either a scalar
// payload, or a structural node with ordered children (spec.md section
// 3.2). The real parser is out of scope; Value exists so the engine
// has a concrete collaborator to validate and mutate.
type Value struct {
	name     confname.Name
	typ      ValueType
	location Location
	parent   *Value
	children []*Value

	intVal       int64
	boolVal      bool
	floatVal     float64
	textVal      string
	dateVal      Date
	timeVal      Time
	dateTimeVal  DateTime
	bytesVal     Bytes
	timeDeltaVal TimeDelta
	regexVal     RegEx

	validationRule any
	isDefaultValue bool
	isSecret       bool
}

// NewDocument creates the root of a configuration value tree.
func NewDocument() *Value {
	return &Value{typ: Document}
}

// NewSectionWithNames creates a section whose children are addressed
// by Name.
func NewSectionWithNames(name confname.Name) *Value {
	return &Value{name: name, typ: SectionWithNames}
}

// NewIntermediateSection creates an implicitly declared ancestor
// section.
func NewIntermediateSection(name confname.Name) *Value {
	return &Value{name: name, typ: IntermediateSection}
}

// NewSectionWithTexts creates a section addressed by Text name.
func NewSectionWithTexts(name confname.Name) *Value {
	return &Value{name: name, typ: SectionWithTexts}
}

// NewSectionList creates a section-list node; its children are
// sections addressed by Index.
func NewSectionList(name confname.Name) *Value {
	return &Value{name: name, typ: SectionList}
}

// NewValueList creates a value-list node; its children are scalars
// addressed by Index.
func NewValueList(name confname.Name) *Value {
	return &Value{name: name, typ: ValueList}
}

// NewValueMatrix creates a value-matrix node: a ValueList of
// ValueLists.
func NewValueMatrix(name confname.Name) *Value {
	return &Value{name: name, typ: ValueMatrix}
}

// NewInteger creates a scalar Integer value.
func NewInteger(name confname.Name, v int64) *Value {
	return &Value{name: name, typ: Integer, intVal: v}
}

// NewBoolean creates a scalar Boolean value.
func NewBoolean(name confname.Name, v bool) *Value {
	return &Value{name: name, typ: Boolean, boolVal: v}
}

// NewFloat creates a scalar Float value.
func NewFloat(name confname.Name, v float64) *Value {
	return &Value{name: name, typ: Float, floatVal: v}
}

// NewText creates a scalar Text value.
func NewText(name confname.Name, v string) *Value {
	return &Value{name: name, typ: Text, textVal: v}
}

// NewDate creates a scalar Date value.
func NewDate(name confname.Name, v Date) *Value {
	return &Value{name: name, typ: Date, dateVal: v}
}

// NewTime creates a scalar Time value.
func NewTime(name confname.Name, v Time) *Value {
	return &Value{name: name, typ: Time, timeVal: v}
}

// NewDateTime creates a scalar DateTime value.
func NewDateTime(name confname.Name, v DateTime) *Value {
	return &Value{name: name, typ: DateTime, dateTimeVal: v}
}

// NewBytes creates a scalar Bytes value.
func NewBytes(name confname.Name, v Bytes) *Value {
	return &Value{name: name, typ: Bytes, bytesVal: v}
}

// NewTimeDelta creates a scalar TimeDelta value.
func NewTimeDelta(name confname.Name, v TimeDelta) *Value {
	return &Value{name: name, typ: TimeDelta, timeDeltaVal: v}
}

// NewRegEx creates a scalar RegEx value.
func NewRegEx(name confname.Name, v RegEx) *Value {
	return &Value{name: name, typ: RegEx, regexVal: v}
}

// Name returns the value's own name.
func (v *Value) Name() confname.Name { return v.name }

// SetName replaces the value's own name (used when materializing a
// default subtree under its target name).
func (v *Value) SetName(name confname.Name) { v.name = name }

// Type returns the value's kind.
func (v *Value) Type() ValueType { return v.typ }

// Location returns the value's source location.
func (v *Value) Location() Location { return v.location }

// SetLocation sets the value's source location.
func (v *Value) SetLocation(loc Location) { v.location = loc }

// Parent returns the value's parent, or nil at the document root.
func (v *Value) Parent() *Value { return v.parent }

// SetParent sets the value's parent pointer.
func (v *Value) SetParent(parent *Value) { v.parent = parent }

// IsDocument reports whether this is the tree root.
func (v *Value) IsDocument() bool { return v.typ == Document }

// Children returns the ordered child values. Callers must not mutate
// the returned slice.
func (v *Value) Children() []*Value { return v.children }

// Size returns the number of children (list/section entry count).
func (v *Value) Size() int { return len(v.children) }

// AddValue appends child to v's children and sets its parent.
func (v *Value) AddValue(child *Value) {
	child.parent = v
	v.children = append(v.children, child)
}

// NamePath returns the full path from the document root to this
// value.
func (v *Value) NamePath() confname.NamePath {
	var names []confname.Name
	for n := v; n != nil && n.parent != nil; n = n.parent {
		names = append([]confname.Name{n.name}, names...)
	}
	return confname.NewNamePath(names...)
}

// childNamed resolves a single path step against v's children.
func (v *Value) childNamed(n confname.Name) *Value {
	if n.IsIndex() {
		idx := int(n.AsIndex())
		if idx < 0 || idx >= len(v.children) {
			return nil
		}
		return v.children[idx]
	}
	for _, c := range v.children {
		if c.name.Equal(n) {
			return c
		}
	}
	return nil
}

// Value resolves a descendant by path, or nil if any step is missing.
func (v *Value) Value(path confname.NamePath) *Value {
	cur := v
	for _, n := range path.Elements() {
		if cur == nil {
			return nil
		}
		cur = cur.childNamed(n)
	}
	return cur
}

// HasValue reports whether a descendant exists at path.
func (v *Value) HasValue(path confname.NamePath) bool {
	return v.Value(path) != nil
}

// ValidationRule returns the opaque rule that matched this value
// during validation (nil before validation, or if skipped).
//
// This is declared as `any` rather than a concrete *vr.Rule to avoid
// an import cycle between confvalue and vr: the validator is the only
// writer and, via a type assertion in vr, the only meaningful reader.
func (v *Value) ValidationRule() any { return v.validationRule }

// SetValidationRule records the rule that matched this value.
func (v *Value) SetValidationRule(rule any) { v.validationRule = rule }

// IsDefaultValue reports whether this value was materialized from a
// rule's default rather than configured explicitly.
func (v *Value) IsDefaultValue() bool { return v.isDefaultValue }

// MarkAsDefaultValue flags this value (and, by convention, every node
// of the subtree it roots) as a materialized default.
func (v *Value) MarkAsDefaultValue() { v.isDefaultValue = true }

// IsSecret reports whether this value's payload must be elided from
// error messages.
func (v *Value) IsSecret() bool { return v.isSecret }

// SetSecret flags this value as carrying a secret payload.
func (v *Value) SetSecret(secret bool) { v.isSecret = secret }

// RemoveDefaultValues drops v's direct default-value children,
// discarding defaults materialized by a previous validation run before
// the current run re-evaluates this node (spec.md section 8.1: default
// values never leak between validations).
func (v *Value) RemoveDefaultValues() {
	if len(v.children) == 0 {
		return
	}
	kept := v.children[:0]
	for _, c := range v.children {
		if !c.isDefaultValue {
			kept = append(kept, c)
		}
	}
	v.children = kept
}

// DeepCopy returns an independent copy of v and its whole subtree,
// with no parent set. Used to materialize defaults, which must never
// share structure with the rule's stored default subtree (spec.md
// section 9, "Defaults as independent subtrees").
func (v *Value) DeepCopy() *Value {
	cp := &Value{
		name:         v.name,
		typ:          v.typ,
		location:     v.location,
		intVal:       v.intVal,
		boolVal:      v.boolVal,
		floatVal:     v.floatVal,
		textVal:      v.textVal,
		dateVal:      v.dateVal,
		timeVal:      v.timeVal,
		dateTimeVal:  v.dateTimeVal,
		timeDeltaVal: v.timeDeltaVal,
		regexVal:     v.regexVal,
		isSecret:     v.isSecret,
	}
	if v.bytesVal != nil {
		cp.bytesVal = append(Bytes{}, v.bytesVal...)
	}
	if len(v.children) > 0 {
		cp.children = make([]*Value, len(v.children))
		for i, c := range v.children {
			child := c.DeepCopy()
			child.parent = cp
			cp.children[i] = child
		}
	}
	return cp
}

// Scalar payload accessors. Each assumes the caller already verified
// the value's Type; they are only used internally by the engine after
// a rule-type check has passed.

func (v *Value) AsInteger() int64     { return v.intVal }
func (v *Value) AsBoolean() bool      { return v.boolVal }
func (v *Value) AsFloat() float64     { return v.floatVal }
func (v *Value) AsText() string       { return v.textVal }
func (v *Value) AsDate() Date         { return v.dateVal }
func (v *Value) AsTime() Time         { return v.timeVal }
func (v *Value) AsDateTime() DateTime { return v.dateTimeVal }
func (v *Value) AsBytes() Bytes       { return v.bytesVal }
func (v *Value) AsTimeDelta() TimeDelta { return v.timeDeltaVal }
func (v *Value) AsRegEx() RegEx       { return v.regexVal }

// ToTextRepresentation stringifies a scalar Integer or Text value for
// use as a composite-key component (spec.md section 3.5).
func (v *Value) ToTextRepresentation() string {
	switch v.typ {
	case Integer:
		return strconv.FormatInt(v.intVal, 10)
	case Text:
		return v.textVal
	default:
		return ""
	}
}

// CharacterLength returns the Unicode code point count of a Text
// value (used by the Minimum/Maximum constraint on text length).
func (v *Value) CharacterLength() int {
	return len([]rune(v.textVal))
}
