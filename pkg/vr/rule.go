package vr

import (
	"github.com/erbsland-dev/erbsland-go-vr/pkg/confname"
	"github.com/erbsland-dev/erbsland-go-vr/pkg/confvalue"
)

// CaseSensitivity controls whether text-comparing constraints (Equals,
// In, Starts, Ends, Contains, Key) fold case.
type CaseSensitivity int

const (
	CaseInsensitive CaseSensitivity = iota
	CaseSensitive
)

func (c CaseSensitivity) String() string {
	if c == CaseSensitive {
		return "case-sensitive comparison"
	}
	return "case-insensitive comparison"
}

// Rule is one node of the compiled rule tree (spec.md section 3.3).
// The tree mirrors the rules document's own structure: a Section rule
// has named children, a SectionList/ValueList/ValueMatrix rule has a
// single 'vr_entry' child, an Alternatives rule has indexed children,
// a scalar rule has none.
type Rule struct {
	ruleNamePath   confname.NamePath
	targetNamePath confname.NamePath
	location       confvalue.Location

	typ             RuleType
	title           string
	description     string
	errorMessage    string
	optional        bool
	secret          bool
	caseSensitivity CaseSensitivity
	versionMask     VersionMask

	defaultValue *confvalue.Value

	parent   *Rule
	children []*Rule
	byName   map[string]*Rule

	constraints     []Constraint
	constraintIndex map[ConstraintType]Constraint
	keyDefinitions  []*KeyDefinition
	dependencies    []*DependencyDefinition
}

// NewRule creates an unattached rule with an all-versions mask.
func NewRule() *Rule {
	return &Rule{
		typ:             Section,
		versionMask:     AllVersions(),
		byName:          make(map[string]*Rule),
		constraintIndex: make(map[ConstraintType]Constraint),
	}
}

func (r *Rule) RuleNamePath() confname.NamePath     { return r.ruleNamePath }
func (r *Rule) SetRuleNamePath(p confname.NamePath) { r.ruleNamePath = p }
func (r *Rule) TargetNamePath() confname.NamePath     { return r.targetNamePath }
func (r *Rule) SetTargetNamePath(p confname.NamePath) { r.targetNamePath = p }

// RuleName is the last element of the rule's own (possibly
// template-substituted) name path.
func (r *Rule) RuleName() confname.Name {
	if r.ruleNamePath.Empty() {
		return confname.Name{}
	}
	return r.ruleNamePath.Last()
}

// TargetName is the last element of the rule's target name path: the
// name this rule expects a value to carry in the document being
// validated.
func (r *Rule) TargetName() confname.Name {
	if r.targetNamePath.Empty() {
		return confname.Name{}
	}
	return r.targetNamePath.Last()
}

func (r *Rule) Location() confvalue.Location     { return r.location }
func (r *Rule) SetLocation(l confvalue.Location) { r.location = l }

func (r *Rule) Type() RuleType     { return r.typ }
func (r *Rule) SetType(t RuleType) { r.typ = t }

func (r *Rule) Title() string        { return r.title }
func (r *Rule) SetTitle(s string)    { r.title = s }
func (r *Rule) Description() string  { return r.description }
func (r *Rule) SetDescription(s string) { r.description = s }

func (r *Rule) ErrorMessage() string     { return r.errorMessage }
func (r *Rule) SetErrorMessage(s string) { r.errorMessage = s }
func (r *Rule) HasErrorMessage() bool    { return r.errorMessage != "" }

func (r *Rule) IsOptional() bool    { return r.optional }
func (r *Rule) SetOptional(v bool)  { r.optional = v }
func (r *Rule) IsSecret() bool      { return r.secret }
func (r *Rule) SetSecret(v bool)    { r.secret = v }

func (r *Rule) CaseSensitivity() CaseSensitivity      { return r.caseSensitivity }
func (r *Rule) SetCaseSensitivity(c CaseSensitivity)  { r.caseSensitivity = c }

// VersionMask returns the versions this rule is active for.
func (r *Rule) VersionMask() VersionMask { return r.versionMask }

// LimitVersionMask narrows the rule's active versions by intersecting
// with mask (original_source: Rule::limitVersionMask — each of
// 'version', 'minimum_version', 'maximum_version' calls this once).
func (r *Rule) LimitVersionMask(mask VersionMask) {
	r.versionMask = r.versionMask.Intersect(mask)
}

// IsActiveForVersion reports whether this rule applies to version.
func (r *Rule) IsActiveForVersion(version int64) bool {
	return r.versionMask.Contains(version)
}

func (r *Rule) HasDefaultValue() bool             { return r.defaultValue != nil }
func (r *Rule) DefaultValue() *confvalue.Value    { return r.defaultValue }
func (r *Rule) SetDefaultValue(v *confvalue.Value) { r.defaultValue = v }

// IsOptionalOrDefaulted reports whether this rule can be absent from a
// document without violating structure (used by dependency/key
// placement checks, original_source: RulesDefinitionValidator::isRuleOptional).
func (r *Rule) IsOptionalOrDefaulted() bool {
	if r.optional || r.defaultValue != nil {
		return true
	}
	if r.typ == Alternatives {
		for _, alt := range r.children {
			if alt.IsOptionalOrDefaulted() {
				return true
			}
		}
	}
	return false
}

func (r *Rule) Parent() *Rule     { return r.parent }
func (r *Rule) SetParent(p *Rule) { r.parent = p }

// Children returns the rule's children in declaration order.
func (r *Rule) Children() []*Rule { return r.children }

// AddChild appends child, indexing it by its rule name when the child
// carries a Regular or Text name (Alternatives children carry Index
// names, are addressed purely by position and are not indexed).
func (r *Rule) AddChild(child *Rule) {
	child.parent = r
	r.children = append(r.children, child)
	name := child.RuleName()
	if !name.IsIndex() {
		if r.byName == nil {
			r.byName = make(map[string]*Rule)
		}
		r.byName[name.Key()] = child
	}
}

// Child looks up a direct child by name.
func (r *Rule) Child(name confname.Name) *Rule {
	if name.IsIndex() {
		idx := int(name.AsIndex())
		if idx < 0 || idx >= len(r.children) {
			return nil
		}
		return r.children[idx]
	}
	if r.byName == nil {
		return nil
	}
	return r.byName[name.Key()]
}

// Empty reports whether the rule tree has no children at all.
func (r *Rule) Empty() bool { return len(r.children) == 0 }

// Constraints returns the constraints attached to this rule, in
// insertion order (insertion order matters for deterministic error
// reporting when more than one constraint fails).
func (r *Rule) Constraints() []Constraint { return r.constraints }

// HasConstraint reports whether a constraint of the given type is
// already attached.
func (r *Rule) HasConstraint(t ConstraintType) bool {
	_, ok := r.constraintIndex[t]
	return ok
}

// HasConstraintNamed reports whether a constraint with this exact
// source name (e.g. "not_minimum") is attached — distinct from
// HasConstraint, which is keyed by ConstraintType regardless of
// negation.
func (r *Rule) HasConstraintNamed(name string) bool {
	for _, c := range r.constraints {
		if c.Name() == name {
			return true
		}
	}
	return false
}

// ConstraintByType returns the constraint of the given type, or nil.
func (r *Rule) ConstraintByType(t ConstraintType) Constraint {
	return r.constraintIndex[t]
}

// ConstraintByName returns the constraint with this exact source name,
// or nil (used to attach a '<name>_error' custom message).
func (r *Rule) ConstraintByName(name string) Constraint {
	for _, c := range r.constraints {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

// AddOrOverwriteConstraint attaches constraint, replacing any existing
// constraint of the same type (original_source:
// RulesFromDocument::handleConstraintAndAttributes allows a template's
// constraint to be overwritten by the same constraint defined at the
// usage location).
func (r *Rule) AddOrOverwriteConstraint(c Constraint) {
	if existing, ok := r.constraintIndex[c.Type()]; ok {
		for i, stored := range r.constraints {
			if stored == existing {
				r.constraints[i] = c
				break
			}
		}
	} else {
		r.constraints = append(r.constraints, c)
	}
	r.constraintIndex[c.Type()] = c
}

// KeyDefinitions returns the key definitions declared directly on this
// rule via 'vr_key' (only meaningful for Section rules, including the
// root, whose key paths lead into a SectionList below them).
func (r *Rule) KeyDefinitions() []*KeyDefinition { return r.keyDefinitions }

// AddKeyDefinition appends a key definition.
func (r *Rule) AddKeyDefinition(kd *KeyDefinition) {
	r.keyDefinitions = append(r.keyDefinitions, kd)
}

// DependencyDefinitions returns the dependency definitions declared
// directly on this rule via 'vr_dependency'.
func (r *Rule) DependencyDefinitions() []*DependencyDefinition { return r.dependencies }

// AddDependencyDefinition appends a dependency definition.
func (r *Rule) AddDependencyDefinition(dd *DependencyDefinition) {
	r.dependencies = append(r.dependencies, dd)
}

// HasKeyDefinitions reports whether 'vr_key' declared one or more key
// definitions directly on this rule.
func (r *Rule) HasKeyDefinitions() bool { return len(r.keyDefinitions) > 0 }

// HasDependencyDefinitions reports whether 'vr_dependency' declared
// one or more dependency definitions directly on this rule.
func (r *Rule) HasDependencyDefinitions() bool { return len(r.dependencies) > 0 }

// NameConstraintsRule returns the 'vr_name' child rule that validates
// this rule's own name (as Text), or nil if none was declared
// (original_source: Rule::nameConstraints — here it is simply the
// 'vr_name' child, since RulesFromDocument attaches it as a regular
// child rule).
func (r *Rule) NameConstraintsRule() *Rule {
	return r.Child(reservedName)
}

// HasNameConstraints reports whether this rule has a 'vr_name' child.
func (r *Rule) HasNameConstraints() bool {
	return r.NameConstraintsRule() != nil
}

// RuleForNamePath walks down from r following path, stopping after
// maxDepth elements (0 means the whole path).
func (r *Rule) RuleForNamePath(path confname.NamePath, maxDepth int) *Rule {
	if path.Empty() {
		return nil
	}
	if maxDepth <= 0 || maxDepth > path.Len() {
		maxDepth = path.Len()
	}
	cur := r
	for i := 0; i < maxDepth; i++ {
		cur = cur.Child(path.At(i))
		if cur == nil {
			return nil
		}
	}
	return cur
}
