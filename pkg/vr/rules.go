package vr

import (
	"github.com/erbsland-dev/erbsland-go-vr/pkg/confname"
	"github.com/erbsland-dev/erbsland-go-vr/pkg/confvalue"
)

// Rules is a compiled rule tree together with its own root rule,
// the entry point for validating a document (spec.md section 3).
type Rules struct {
	root                  *Rule
	isDefinitionValidated bool
}

// NewRules creates an empty rule set with a bare Section root.
func NewRules() *Rules {
	root := NewRule()
	root.SetType(Section)
	return &Rules{root: root}
}

// Empty reports whether no rules have been added yet.
func (r *Rules) Empty() bool { return r.root.Empty() }

// Root returns the root rule.
func (r *Rules) Root() *Rule { return r.root }

// IsDefinitionValidated reports whether ValidateDefinition already ran
// since the last rule was added.
func (r *Rules) IsDefinitionValidated() bool { return r.isDefinitionValidated }

// AddRule attaches rule to the tree at its own RuleNamePath, creating
// no intermediate nodes: the parent addressed by all but the last path
// element must already exist.
func (r *Rules) AddRule(rule *Rule) error {
	path := rule.RuleNamePath()
	if path.Empty() {
		return NewInternalError("the name-path of a rule must not be empty")
	}
	parent := r.root
	if path.Len() > 1 {
		parent = r.RuleForNamePath(path, path.Len()-1)
		if parent == nil {
			return NewValidationError("adding a rule failed, because the parent rule for rule '%s' does not exist", path.Last())
		}
	}
	rule.SetParent(parent)
	parent.AddChild(rule)
	r.isDefinitionValidated = false
	return nil
}

// AddAlternativeRule attaches rule as one more alternative of the
// Alternatives rule at its name path, creating that Alternatives rule
// on first use and assigning rule an Index name for its position.
func (r *Rules) AddAlternativeRule(rule *Rule) error {
	path := rule.RuleNamePath()
	if path.Empty() {
		return NewInternalError("the name-path of a rule must not be empty")
	}
	parent := r.root
	if path.Len() > 1 {
		parent = r.RuleForNamePath(path, path.Len()-1)
		if parent == nil {
			return NewValidationError("adding a rule failed, because the parent rule for rule '%s' does not exist", path.Last())
		}
	}
	alternatives := parent.Child(path.Last())
	if alternatives == nil {
		alternatives = NewRule()
		alternatives.SetRuleNamePath(path)
		alternatives.SetTargetNamePath(path)
		alternatives.SetType(Alternatives)
		alternatives.SetParent(parent)
		parent.AddChild(alternatives)
	} else if alternatives.Type() != Alternatives {
		return NewValidationError("adding a rule failed, because the rule '%s' already exists and is no alternative rule", path.Parent())
	}
	newIndex := len(alternatives.Children())
	newPath := rule.RuleNamePath().Append(confname.NewIndex(int64(newIndex)))
	rule.SetRuleNamePath(newPath)
	rule.SetParent(alternatives)
	alternatives.AddChild(rule)
	r.isDefinitionValidated = false
	return nil
}

// RuleForNamePath walks from the root following path, stopping after
// maxDepth elements (0 means the whole path).
func (r *Rules) RuleForNamePath(path confname.NamePath, maxDepth int) *Rule {
	return r.root.RuleForNamePath(path, maxDepth)
}

// ValidateDefinition runs the rules-definition validator over this
// tree, memoizing success until the next AddRule/AddAlternativeRule.
func (r *Rules) ValidateDefinition() error {
	if r.isDefinitionValidated {
		return nil
	}
	if err := ValidateRulesDefinition(r.root); err != nil {
		return err
	}
	r.isDefinitionValidated = true
	return nil
}

// Validate checks value against this rule set for the given document
// version, inserting defaults into value as it goes (spec.md section
// 4). ValidateDefinition runs first if it hasn't already.
func (r *Rules) Validate(value *confvalue.Value, version int64) error {
	if err := r.ValidateDefinition(); err != nil {
		return err
	}
	return NewDocumentValidator(r.root, value, version).Validate()
}
