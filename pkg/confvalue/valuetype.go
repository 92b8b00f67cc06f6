// Package confvalue defines the configuration-value tree that the
// validation-rules engine validates. In the real toolkit this tree is
// produced by the ELCL parser; that parser is out of scope here, so
// this package gives the engine a concrete, minimal collaborator to
// consume (spec.md section 3.2, section 6).
package confvalue

// ValueType enumerates the kinds of value a configuration node can
// carry.
type ValueType int

const (
	Integer ValueType = iota
	Boolean
	Float
	Text
	Date
	Time
	DateTime
	Bytes
	TimeDelta
	RegEx
	ValueList
	ValueMatrix
	IntermediateSection
	SectionWithNames
	SectionWithTexts
	SectionList
	Document
)

var valueTypeNames = map[ValueType]string{
	Integer:             "integer",
	Boolean:             "boolean",
	Float:               "float",
	Text:                "text",
	Date:                "date",
	Time:                "time",
	DateTime:            "date-time",
	Bytes:               "bytes",
	TimeDelta:           "time-delta",
	RegEx:               "regex",
	ValueList:           "value-list",
	ValueMatrix:         "value-matrix",
	IntermediateSection: "intermediate-section",
	SectionWithNames:    "section",
	SectionWithTexts:    "section-with-texts",
	SectionList:         "section-list",
	Document:            "document",
}

// String renders the type name.
func (t ValueType) String() string {
	if s, ok := valueTypeNames[t]; ok {
		return s
	}
	return "unknown"
}

// IsScalar reports whether a value of this type carries a single
// payload (as opposed to structural/list children).
func (t ValueType) IsScalar() bool {
	switch t {
	case Integer, Boolean, Float, Text, Date, Time, DateTime, Bytes, TimeDelta, RegEx:
		return true
	default:
		return false
	}
}

// IsList reports whether this type's children are entries of a
// positionally indexed list (ValueList, ValueMatrix, SectionList), as
// opposed to named sections.
func (t ValueType) IsList() bool {
	switch t {
	case ValueList, ValueMatrix, SectionList:
		return true
	default:
		return false
	}
}

// IsMap reports whether this type addresses its children by name
// rather than by position (Document and IntermediateSection act as
// plain named containers; SectionWithNames additionally carries rule
// attributes).
func (t ValueType) IsMap() bool {
	switch t {
	case Document, IntermediateSection, SectionWithNames:
		return true
	default:
		return false
	}
}

// IsStructural reports whether this type carries child Values.
func (t ValueType) IsStructural() bool {
	switch t {
	case ValueList, ValueMatrix, IntermediateSection, SectionWithNames, SectionWithTexts, SectionList, Document:
		return true
	default:
		return false
	}
}

// ValueDescription renders a human-readable article + noun phrase for
// error messages, e.g. "an integer value" or "a section".
func (t ValueType) ValueDescription(withValueSuffix bool) string {
	article := "a"
	switch t {
	case Integer:
		article = "an"
	}
	name := t.String()
	if withValueSuffix && t.IsScalar() {
		return article + " " + name + " value"
	}
	switch t {
	case SectionWithNames, IntermediateSection:
		return article + " section"
	case SectionWithTexts:
		return article + " section with texts"
	case SectionList:
		return article + " section list"
	case ValueList:
		return article + " list of values"
	case ValueMatrix:
		return article + " value matrix"
	}
	return article + " " + name
}
