package vr

import (
	"github.com/erbsland-dev/erbsland-go-vr/pkg/confname"
	"github.com/erbsland-dev/erbsland-go-vr/pkg/confvalue"
)

// RuleOption mutates a freshly created Rule while RulesBuilder.AddRule or
// AddAlternative assembles it (original_source:
// vr::builder::Attribute, a functor applied to the rule under
// construction).
type RuleOption func(*Rule) error

// Optional marks the rule as optional.
func Optional() RuleOption {
	return func(r *Rule) error {
		r.SetOptional(true)
		return nil
	}
}

// Secret marks the rule as carrying a secret value.
func Secret() RuleOption {
	return func(r *Rule) error {
		if !r.Type().IsScalar() {
			return NewValidationError("the 'is_secret' marker can only be used for scalar value types. found %s type", r.Type())
		}
		r.SetSecret(true)
		return nil
	}
}

// Title sets the rule's display title.
func Title(title string) RuleOption {
	return func(r *Rule) error {
		r.SetTitle(title)
		return nil
	}
}

// Description sets the rule's description text.
func Description(description string) RuleOption {
	return func(r *Rule) error {
		r.SetDescription(description)
		return nil
	}
}

// ErrorText sets the custom error message reported when any of the
// rule's constraints fail.
func ErrorText(message string) RuleOption {
	return func(r *Rule) error {
		r.SetErrorMessage(message)
		return nil
	}
}

// UseCaseSensitive switches text comparisons for the rule's
// constraints to case-sensitive (the default is case-insensitive).
func UseCaseSensitive() RuleOption {
	return func(r *Rule) error {
		r.SetCaseSensitivity(CaseSensitive)
		return nil
	}
}

// DefaultValue attaches a default value, deep-copied from v.
func DefaultValue(v *confvalue.Value) RuleOption {
	return func(r *Rule) error {
		if !r.Type().AcceptsDefaults() {
			return NewValidationError("a default value cannot be used for '%s' node rules", r.Type())
		}
		if !r.Type().MatchesValueType(v.Type()) {
			return NewValidationError("the default value must be %s", r.Type().ExpectedValueTypeText())
		}
		r.SetDefaultValue(v.DeepCopy())
		return nil
	}
}

// Versions restricts the rule to the given, explicit schema versions.
func Versions(versions ...int64) RuleOption {
	return func(r *Rule) error {
		if len(versions) == 0 {
			return NewValidationError("the 'version' value must be one or more integers")
		}
		r.LimitVersionMask(VersionMaskFromIntegers(versions))
		return nil
	}
}

// MinimumVersion restricts the rule to schema versions >= version.
func MinimumVersion(version int64) RuleOption {
	return func(r *Rule) error {
		if version < 0 {
			return NewValidationError("the 'minimum_version' value must be non-negative")
		}
		r.LimitVersionMask(VersionMaskFromRanges([]VersionRange{{Min: version, Max: maxVersion}}))
		return nil
	}
}

// MaximumVersion restricts the rule to schema versions <= version.
func MaximumVersion(version int64) RuleOption {
	return func(r *Rule) error {
		if version < 0 {
			return NewValidationError("the 'maximum_version' value must be non-negative")
		}
		r.LimitVersionMask(VersionMaskFromRanges([]VersionRange{{Min: 0, Max: version}}))
		return nil
	}
}

// WithConstraint attaches an already-built Constraint to the rule,
// the escape hatch every more specific constraint option below is
// built on.
func WithConstraint(c Constraint) RuleOption {
	return func(r *Rule) error {
		r.AddOrOverwriteConstraint(c)
		return nil
	}
}

// MinimumInt attaches an integer-valued Minimum constraint.
func MinimumInt(bound int64) RuleOption { return WithConstraint(newMinMaxInteger(Minimum, bound)) }

// MaximumInt attaches an integer-valued Maximum constraint.
func MaximumInt(bound int64) RuleOption { return WithConstraint(newMinMaxInteger(Maximum, bound)) }

// MinimumFloat attaches a float-valued Minimum constraint.
func MinimumFloat(bound float64) RuleOption { return WithConstraint(newMinMaxFloat(Minimum, bound)) }

// MaximumFloat attaches a float-valued Maximum constraint.
func MaximumFloat(bound float64) RuleOption { return WithConstraint(newMinMaxFloat(Maximum, bound)) }

// KeyReference attaches a 'key' constraint referencing one or more
// named vr_key definitions, e.g. KeyReference("by_id").
func KeyReference(references ...string) RuleOption {
	return func(r *Rule) error {
		refs := make([]confname.NamePath, len(references))
		for i, ref := range references {
			refs[i] = confname.ParseNamePath(ref)
		}
		r.AddOrOverwriteConstraint(&KeyConstraint{base: base{typ: Key}, keyReferences: refs})
		return nil
	}
}

// RulesBuilder assembles a Rules tree programmatically, as an
// alternative to compiling one from a rules document (spec.md section
// 4.E, original_source: vr::RulesBuilder / impl::RulesBuilder).
type RulesBuilder struct {
	rules *Rules
}

// NewRulesBuilder creates an empty builder.
func NewRulesBuilder() *RulesBuilder {
	return &RulesBuilder{rules: NewRules()}
}

func resolveBuilderNamePath(namePath confname.NamePath) (confname.NamePath, error) {
	if namePath.Empty() {
		return confname.NamePath{}, NewValidationError("an empty name-path is not valid")
	}
	if namePath.ContainsText() || namePath.ContainsIndex() {
		return confname.NamePath{}, NewValidationError("text names or indexes are not allowed in a name-path for validation rules")
	}
	return namePath, nil
}

// AddRule adds one rule at namePath with the given type, applying
// every option in order.
func (b *RulesBuilder) AddRule(namePath confname.NamePath, ruleType RuleType, options ...RuleOption) error {
	if ruleType == Undefined {
		return NewValidationError("a rule type of 'undefined' is not allowed")
	}
	path, err := resolveBuilderNamePath(namePath)
	if err != nil {
		return err
	}
	rule := NewRule()
	rule.SetRuleNamePath(path)
	rule.SetTargetNamePath(path)
	rule.SetType(ruleType)
	for _, option := range options {
		if err := option(rule); err != nil {
			return err
		}
	}
	return b.rules.AddRule(rule)
}

// AddAlternative adds one more alternative at namePath, synthesizing
// the enclosing Alternatives rule on first use.
func (b *RulesBuilder) AddAlternative(namePath confname.NamePath, ruleType RuleType, options ...RuleOption) error {
	if ruleType == Undefined {
		return NewValidationError("a rule type of 'undefined' is not allowed")
	}
	path, err := resolveBuilderNamePath(namePath)
	if err != nil {
		return err
	}
	rule := NewRule()
	rule.SetRuleNamePath(path)
	rule.SetTargetNamePath(path)
	rule.SetType(ruleType)
	for _, option := range options {
		if err := option(rule); err != nil {
			return err
		}
	}
	return b.rules.AddAlternativeRule(rule)
}

// AddKeyDefinition attaches a 'vr_key' definition to the section rule
// at sectionPath. An empty name keeps the key anonymous (it only
// enforces uniqueness and cannot be referenced by KeyReference).
func (b *RulesBuilder) AddKeyDefinition(sectionPath confname.NamePath, name string, keys []string, cs CaseSensitivity) error {
	section := b.rules.RuleForNamePath(sectionPath, 0)
	if sectionPath.Empty() {
		section = b.rules.Root()
	}
	if section == nil {
		return NewValidationError("adding a key definition failed, because the section '%s' does not exist", sectionPath)
	}
	keyPaths := make([]confname.NamePath, len(keys))
	for i, k := range keys {
		keyPaths[i] = confname.ParseNamePath(k)
	}
	var keyName confname.Name
	hasName := name != ""
	if hasName {
		keyName = confname.NewRegular(name)
	}
	section.AddKeyDefinition(NewKeyDefinition(keyName, hasName, keyPaths, cs, section.Location()))
	return nil
}

// AddDependencyDefinition attaches a 'vr_dependency' definition to the
// section rule at sectionPath.
func (b *RulesBuilder) AddDependencyDefinition(
	sectionPath confname.NamePath,
	mode DependencyMode,
	source, target []string,
	errorMessage string,
) error {
	section := b.rules.RuleForNamePath(sectionPath, 0)
	if sectionPath.Empty() {
		section = b.rules.Root()
	}
	if section == nil {
		return NewValidationError("adding a dependency definition failed, because the section '%s' does not exist", sectionPath)
	}
	sourcePaths := make([]confname.NamePath, len(source))
	for i, s := range source {
		sourcePaths[i] = confname.ParseNamePath(s)
	}
	targetPaths := make([]confname.NamePath, len(target))
	for i, t := range target {
		targetPaths[i] = confname.ParseNamePath(t)
	}
	section.AddDependencyDefinition(NewDependencyDefinition(mode, sourcePaths, targetPaths, errorMessage))
	return nil
}

// Reset discards the rules assembled so far.
func (b *RulesBuilder) Reset() {
	b.rules = NewRules()
}

// TakeRules finalizes and validates the rules document assembled so
// far, then resets the builder so it can be reused.
func (b *RulesBuilder) TakeRules() (*Rules, error) {
	if err := b.rules.ValidateDefinition(); err != nil {
		return nil, err
	}
	result := b.rules
	b.Reset()
	return result, nil
}
