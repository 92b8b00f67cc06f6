package vr

import "github.com/erbsland-dev/erbsland-go-vr/pkg/confvalue"

// RuleType enumerates the kinds of rule node a Rule can be (spec.md
// section 3.3).
type RuleType int

const (
	Undefined RuleType = iota
	Integer
	Boolean
	Float
	Text
	Date
	Time
	DateTime
	Bytes
	TimeDelta
	RegEx
	Value
	ValueList
	ValueMatrix
	Section
	SectionList
	SectionWithTexts
	Alternatives
	NotValidated
)

var ruleTypeNames = map[RuleType]string{
	Undefined:        "undefined",
	Integer:          "integer",
	Boolean:          "boolean",
	Float:            "float",
	Text:             "text",
	Date:             "date",
	Time:             "time",
	DateTime:         "date_time",
	Bytes:            "bytes",
	TimeDelta:        "time_delta",
	RegEx:            "regex",
	Value:            "value",
	ValueList:        "value_list",
	ValueMatrix:      "value_matrix",
	Section:          "section",
	SectionList:      "section_list",
	SectionWithTexts: "section_with_texts",
	Alternatives:     "alternatives",
	NotValidated:     "not_validated",
}

var ruleTypeFromName = func() map[string]RuleType {
	m := make(map[string]RuleType, len(ruleTypeNames))
	for t, n := range ruleTypeNames {
		m[n] = t
	}
	return m
}()

func (t RuleType) String() string {
	if s, ok := ruleTypeNames[t]; ok {
		return s
	}
	return "undefined"
}

// RuleTypeFromText resolves the 'type' attribute text used in a rules
// document to a RuleType, returning Undefined if it isn't one.
func RuleTypeFromText(text string) RuleType {
	if t, ok := ruleTypeFromName[text]; ok {
		return t
	}
	return Undefined
}

// IsScalar reports whether values matching this rule are a single
// payload rather than structural.
func (t RuleType) IsScalar() bool {
	switch t {
	case Integer, Boolean, Float, Text, Date, Time, DateTime, Bytes, TimeDelta, RegEx:
		return true
	default:
		return false
	}
}

// AcceptsDefaults reports whether a 'default' constraint may be used
// with this rule type (original_source: RulesFromDocument::handleDefault).
func (t RuleType) AcceptsDefaults() bool {
	switch t {
	case Integer, Boolean, Float, Text, Date, Time, DateTime, Bytes, TimeDelta, RegEx, ValueList, ValueMatrix:
		return true
	default:
		return false
	}
}

// MatchesValueType reports whether a configuration value of the given
// type can satisfy this rule type.
func (t RuleType) MatchesValueType(vt confvalue.ValueType) bool {
	switch t {
	case Integer:
		return vt == confvalue.Integer
	case Boolean:
		return vt == confvalue.Boolean
	case Float:
		return vt == confvalue.Float
	case Text:
		return vt == confvalue.Text
	case Date:
		return vt == confvalue.Date
	case Time:
		return vt == confvalue.Time
	case DateTime:
		return vt == confvalue.DateTime
	case Bytes:
		return vt == confvalue.Bytes
	case TimeDelta:
		return vt == confvalue.TimeDelta
	case RegEx:
		return vt == confvalue.RegEx
	case Value:
		return vt.IsScalar()
	case ValueList:
		return vt == confvalue.ValueList
	case ValueMatrix:
		return vt == confvalue.ValueMatrix
	case Section:
		return vt == confvalue.SectionWithNames || vt == confvalue.IntermediateSection || vt == confvalue.Document
	case SectionList:
		return vt == confvalue.SectionList
	case SectionWithTexts:
		return vt == confvalue.SectionWithTexts
	default:
		return false
	}
}

// ExpectedValueTypeText renders the "expected a ..." phrase used in
// type-mismatch error messages (original_source: DocumentValidator's
// expectedValueTypeText, simplified to a per-rule-type phrase since
// this engine has no 'value' rule subtype union beyond RuleType
// itself).
func (t RuleType) ExpectedValueTypeText() string {
	switch t {
	case Integer:
		return "an integer value"
	case Boolean:
		return "a boolean value"
	case Float:
		return "a float value"
	case Text:
		return "a text value"
	case Date:
		return "a date value"
	case Time:
		return "a time value"
	case DateTime:
		return "a date-time value"
	case Bytes:
		return "a byte sequence"
	case TimeDelta:
		return "a time-delta value"
	case RegEx:
		return "a regular expression value"
	case Value:
		return "a value"
	case ValueList:
		return "a list of values"
	case ValueMatrix:
		return "a value matrix"
	case Section:
		return "a section"
	case SectionList:
		return "a section list"
	case SectionWithTexts:
		return "a section with texts"
	default:
		return "an unexpected value"
	}
}
