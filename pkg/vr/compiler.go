package vr

import (
	"strings"

	"github.com/erbsland-dev/erbsland-go-vr/pkg/confname"
	"github.com/erbsland-dev/erbsland-go-vr/pkg/confvalue"
)

// constraintHandlerFn is the signature every constraint and attribute
// handler shares (original_source: ConstraintHandlerContext.hpp's
// function-pointer alias). Attribute handlers (handleDefault,
// handleTitle, ...) always return a nil Constraint after mutating the
// rule directly.
type constraintHandlerFn func(ctx constraintHandlerContext) (Constraint, error)

type constraintHandlerEntry struct {
	name        string
	handler     constraintHandlerFn
	acceptNot   bool
	acceptError bool
}

var constraintHandlers = []constraintHandlerEntry{
	{"chars", handleCharsConstraint, true, true},
	{"contains", handleContainsConstraint, true, true},
	{"default", handleDefault, false, false},
	{"description", handleDescription, false, false},
	{"ends", handleEndsConstraint, true, true},
	{"equals", handleEqualsConstraint, true, true},
	{"error", handleError, false, false},
	{"in", handleInConstraint, true, true},
	{"is_optional", handleIsOptional, false, false},
	{"is_secret", handleIsSecret, false, false},
	{"key", handleKeyConstraint, true, true},
	{"matches", handleMatchesConstraint, true, true},
	{"maximum", handleMaximumConstraint, true, true},
	{"maximum_version", handleMaximumVersion, true, false},
	{"minimum", handleMinimumConstraint, true, true},
	{"minimum_version", handleMinimumVersion, true, false},
	{"multiple", handleMultipleConstraint, true, true},
	{"starts", handleStartsConstraint, true, true},
	{"title", handleTitle, false, false},
	{"version", handleVersion, true, false},
}

func resolveConstraintHandler(name string) (constraintHandlerEntry, error) {
	for _, h := range constraintHandlers {
		if h.name == name {
			return h, nil
		}
	}
	return constraintHandlerEntry{}, NewValidationError("unknown constraint: %s", name)
}

// compiler turns a rules document into a Rules tree (original_source:
// impl::RulesFromDocument).
type compiler struct {
	rules           *Rules
	document        *confvalue.Document
	pathForTemplate confname.NamePath
}

// CompileRulesDocument reads a rules document and returns the
// resulting rule set, already definition-validated.
func CompileRulesDocument(document *confvalue.Document) (*Rules, error) {
	rules := NewRules()
	c := &compiler{rules: rules, document: document}
	if err := c.read(); err != nil {
		return nil, err
	}
	if err := rules.ValidateDefinition(); err != nil {
		return nil, err
	}
	return rules, nil
}

func (c *compiler) read() error {
	if !c.rules.Empty() {
		return NewInternalError("rules from a document can only be read into an empty rule-set")
	}
	var walker confvalue.TreeWalker
	walker.SetRoot(c.document.Root())
	walker.SetFilter(func(node *confvalue.Value) bool {
		if !node.IsDocument() && node.NamePath().At(0).Equal(reservedTemplate) {
			return false
		}
		if node.Name().IsIndex() {
			parent := node.Parent()
			if parent == nil {
				return false
			}
			parentName := parent.Name()
			if parentName.Equal(reservedKey) || parentName.Equal(reservedDependency) {
				return false
			}
		}
		return node.Type().IsMap() || node.Type() == confvalue.SectionList
	})
	var walkErr error
	walker.Walk(func(node *confvalue.Value) {
		if walkErr != nil || node.IsDocument() {
			return
		}
		walkErr = c.processDocumentNode(node)
	})
	return walkErr
}

func (c *compiler) processDocumentNode(node *confvalue.Value) error {
	err := func() error {
		if node.IsDocument() {
			return NewInternalError("document nodes are not allowed in validation rules")
		}
		if node.Type() == confvalue.SectionWithTexts {
			return NewValidationError("section with texts is not allowed in a validation rules document")
		}
		namePath := node.NamePath()
		if namePath.Empty() {
			return NewInternalError("expected non-empty name path for a node")
		}
		if namePath.ContainsText() {
			return NewValidationError("text names are not allowed in a validation rules document")
		}
		name := namePath.Last()
		switch {
		case name.Equal(reservedTemplate):
			return NewValidationError("templates must be defined in the document root")
		case name.Equal(reservedName):
			return c.processNameNode(node)
		case name.Equal(reservedDependency):
			return c.processDependencies(node)
		case name.Equal(reservedKey):
			return c.processKey(node)
		case name.Equal(reservedEntry), name.Equal(reservedAny):
			return c.processRegularNode(node)
		case !name.IsReserved() || name.IsEscapedReserved():
			return c.processRegularNode(node)
		default:
			return NewValidationError("unknown reserved name")
		}
	}()
	return attachLocation(err, node.NamePath(), node.Location())
}

func (c *compiler) processRegularNode(node *confvalue.Value) error {
	rule := NewRule()
	rule.SetLocation(node.Location())
	rule.SetRuleNamePath(c.createRuleNamePath(node.NamePath()))
	rule.SetTargetNamePath(c.createTargetNamePath(node.NamePath()))
	if err := c.rules.AddRule(rule); err != nil {
		return err
	}
	switch node.Type() {
	case confvalue.SectionList:
		return c.processAlternatives(node, rule)
	case confvalue.IntermediateSection:
		c.processImplicitRules(node, rule)
		return nil
	default:
		return c.processNodeRules(node, rule)
	}
}

func (c *compiler) processNodeRules(node *confvalue.Value, rule *Rule) error {
	if err := c.handleTypeOrTemplate(node, rule); err != nil {
		return err
	}
	if rule.Type() == Alternatives && node.HasValue(confname.NewNamePath(attrUseTemplate)) {
		for _, value := range node.Children() {
			if !value.Name().Equal(attrUseTemplate) {
				return NewValidationError("templates that define alternatives cannot be customized at the usage location")
			}
		}
		return nil
	}
	if err := c.handleCaseSensitive(node, rule); err != nil {
		return err
	}
	return c.processCommonNodeRules(node, rule)
}

func (c *compiler) processNameNodeRules(node *confvalue.Value, rule *Rule) error {
	if value := node.Value(confname.NewNamePath(attrType)); value != nil {
		if value.Type() != confvalue.Text {
			return NewValidationError("the 'type' value must be a text").WithNamePathAndLocation(value.NamePath(), value.Location())
		}
		if RuleTypeFromText(value.AsText()) != Text {
			return NewValidationError("name node-rules must have a 'type' value of 'text'").WithNamePathAndLocation(value.NamePath(), value.Location())
		}
	}
	if node.HasValue(confname.NewNamePath(attrUseTemplate)) {
		return NewValidationError("name node-rules cannot have a 'use_template' value")
	}
	if err := c.handleCaseSensitive(node, rule); err != nil {
		return err
	}
	return c.processCommonNodeRules(node, rule)
}

func (c *compiler) processCommonNodeRules(node *confvalue.Value, rule *Rule) error {
	customErrorMessages := make(map[string]string)
	for _, value := range node.Children() {
		err := func() error {
			if value.Type().IsStructural() {
				if rule.RuleName().Equal(reservedName) {
					return NewValidationError("a 'vr_name' section cannot have subsections")
				}
				return nil
			}
			if value.Name().Equal(attrType) || value.Name().Equal(attrUseTemplate) || value.Name().Equal(attrCaseSensitive) {
				return nil
			}
			return c.handleConstraintAndAttributes(customErrorMessages, rule, value)
		}()
		if err != nil {
			return attachLocation(err, value.NamePath(), value.Location())
		}
	}
	for name, errorMessage := range customErrorMessages {
		if !rule.HasConstraintNamed(name) {
			return NewValidationError("there is no constraint '%s' for the custom error message '%s_error'", name, name)
		}
		rule.ConstraintByName(name).SetErrorMessage(errorMessage)
	}
	return nil
}

func (c *compiler) handleConstraintAndAttributes(customErrorMessages map[string]string, rule *Rule, value *confvalue.Value) error {
	name := value.Name().Text()
	if strings.HasSuffix(name, constraintSuffixError) {
		name = strings.TrimSuffix(name, constraintSuffixError)
		lookupName := strings.TrimPrefix(name, constraintPrefixNot)
		handler, err := resolveConstraintHandler(lookupName)
		if err != nil {
			return err
		}
		if !handler.acceptError {
			return NewValidationError("'%s' does not accept '_error' suffixes", name)
		}
		if value.Type() != confvalue.Text {
			return NewValidationError("a custom error message must be text")
		}
		customErrorMessages[name] = value.AsText()
		return nil
	}
	isNegated := false
	lookupName := name
	if strings.HasPrefix(name, constraintPrefixNot) {
		isNegated = true
		lookupName = strings.TrimPrefix(name, constraintPrefixNot)
	}
	handler, err := resolveConstraintHandler(lookupName)
	if err != nil {
		return err
	}
	if isNegated && !handler.acceptNot {
		return NewValidationError("'%s' does not accept 'not_' prefixes", name)
	}
	ctx := constraintHandlerContext{Rule: rule, Node: value, Negated: isNegated}
	constraint, err := handler.handler(ctx)
	if err != nil {
		return err
	}
	if constraint == nil {
		return nil
	}
	constraint.SetName(name)
	constraint.SetLocation(value.Location())
	constraint.SetNegated(isNegated)
	isFromTemplate := value.NamePath().At(0).Equal(reservedTemplate)
	constraint.SetFromTemplate(isFromTemplate)
	if rule.HasConstraint(constraint.Type()) {
		existing := rule.ConstraintByType(constraint.Type())
		if isFromTemplate == existing.IsFromTemplate() {
			if existing.Name() != constraint.Name() {
				return NewValidationError(
					"constraint '%s' for type '%s' is already defined. "+
						"you must not mix positive and negative constraints for the same type",
					constraint.Name(), constraint.Type())
			}
			return NewValidationError("constraint '%s' is already defined", constraint.Name())
		}
	}
	rule.AddOrOverwriteConstraint(constraint)
	return nil
}
