package vr

import (
	"github.com/erbsland-dev/erbsland-go-vr/pkg/confname"
	"github.com/erbsland-dev/erbsland-go-vr/pkg/confvalue"
)

func (c *compiler) handleTypeOrTemplate(node *confvalue.Value, rule *Rule) error {
	if value := node.Value(confname.NewNamePath(attrType)); value != nil {
		if value.Type() != confvalue.Text {
			return NewValidationError("the 'type' value must be a text").WithNamePathAndLocation(value.NamePath(), value.Location())
		}
		ruleType := RuleTypeFromText(value.AsText())
		if ruleType == Undefined {
			return NewValidationError("unknown rule type").WithNamePathAndLocation(value.NamePath(), value.Location())
		}
		if useTemplate := node.Value(confname.NewNamePath(attrUseTemplate)); useTemplate != nil && !useTemplate.Type().IsStructural() {
			return NewValidationError("the section cannot have both a 'type' and a 'use_template' value")
		}
		rule.SetType(ruleType)
		return nil
	}
	if useTemplate := node.Value(confname.NewNamePath(attrUseTemplate)); useTemplate != nil {
		return c.processTemplate(node, useTemplate, rule)
	}
	return NewValidationError("the section must have either a 'type' or a 'use_template' value")
}

func (c *compiler) handleCaseSensitive(node *confvalue.Value, rule *Rule) error {
	value := node.Value(confname.NewNamePath(attrCaseSensitive))
	if value == nil {
		return nil
	}
	if value.Type() != confvalue.Boolean {
		return NewValidationError("the 'case_sensitive' value must be boolean")
	}
	if value.AsBoolean() {
		rule.SetCaseSensitivity(CaseSensitive)
	} else {
		rule.SetCaseSensitivity(CaseInsensitive)
	}
	return nil
}

func (c *compiler) processTemplate(node, useTemplateValue *confvalue.Value, rule *Rule) error {
	err := func() error {
		if useTemplateValue.Type() != confvalue.Text {
			return NewValidationError("the 'use_template' value must be a text")
		}
		if !c.pathForTemplate.Empty() {
			return NewValidationError("you must not use 'use_template' in template definitions")
		}
		templateName, err := confname.NewRegularChecked(useTemplateValue.AsText())
		if err != nil {
			return NewValidationError("the name specified in 'use_template' is not a valid template name: %v", err)
		}
		templatePath := confname.NewNamePath(reservedTemplate, templateName)
		templateNode := c.document.Value(templatePath)
		if templateNode == nil {
			return NewValidationError("the template referenced by 'use_template' does not exist")
		}
		if templateNode.Type() != confvalue.SectionWithNames && templateNode.Type() != confvalue.SectionList {
			return NewValidationError("template definitions must be sections or section lists")
		}
		c.pathForTemplate = node.NamePath()
		if templateNode.Type() == confvalue.SectionList {
			if err := c.processAlternatives(templateNode, rule); err != nil {
				return err
			}
		} else if err := c.processNodeRules(templateNode, rule); err != nil {
			return err
		}
		var walker confvalue.TreeWalker
		walker.SetRoot(templateNode)
		walker.SetFilter(func(n *confvalue.Value) bool {
			return n.Type().IsMap() || n.Type() == confvalue.SectionList
		})
		var walkErr error
		walker.Walk(func(n *confvalue.Value) {
			if walkErr != nil || n == templateNode {
				return
			}
			walkErr = c.processDocumentNode(n)
		})
		c.pathForTemplate = confname.NamePath{}
		return walkErr
	}()
	if err != nil {
		return attachLocation(err, useTemplateValue.NamePath(), useTemplateValue.Location())
	}
	return nil
}

func (c *compiler) processImplicitRules(node *confvalue.Value, rule *Rule) {
	rule.SetLocation(node.Location())
	rule.SetType(Section)
}

func (c *compiler) processAlternatives(node *confvalue.Value, rule *Rule) error {
	rule.SetLocation(node.Location())
	rule.SetType(Alternatives)
	return nil
}

func (c *compiler) processNameNode(node *confvalue.Value) error {
	rule := NewRule()
	rule.SetLocation(node.Location())
	rule.SetRuleNamePath(c.createRuleNamePath(node.NamePath()))
	if err := c.rules.AddRule(rule); err != nil {
		return err
	}
	rule.SetType(Text)
	if node.Type() == confvalue.SectionList {
		return NewValidationError("name node-rules definitions cannot be alternatives")
	}
	if node.Type() == confvalue.IntermediateSection {
		return NewValidationError("name node-rules definition must not have subsections")
	}
	return c.processNameNodeRules(node, rule)
}

func (c *compiler) processDependencies(node *confvalue.Value) error {
	if node.Type() != confvalue.SectionList {
		return NewValidationError("dependency 'vr_dependency' node-rules definitions must be section lists")
	}
	parentRule := c.getParentRuleForNode(node)
	if parentRule == nil {
		return NewInternalError("expected parent rule for dependency node")
	}
	for _, dependencyNode := range node.Children() {
		if dependencyNode.Type() != confvalue.SectionWithNames {
			return NewValidationError("dependency definitions must be sections with regular names")
		}
		def, err := c.readOneDependency(dependencyNode)
		if err != nil {
			return err
		}
		parentRule.AddDependencyDefinition(def)
	}
	return nil
}

func (c *compiler) readOneDependency(dependencyNode *confvalue.Value) (*DependencyDefinition, error) {
	sourceSpecified, targetSpecified := false, false
	mode := DependencyUndefined
	var sourcePaths, targetPaths []confname.NamePath
	var errorMessage string
	for _, child := range dependencyNode.Children() {
		err := func() error {
			switch child.Name().Text() {
			case depMode:
				if child.Type() != confvalue.Text {
					return NewValidationError("the 'mode' value in 'vr_dependency' must be a text value")
				}
				mode = DependencyModeFromText(child.AsText())
				if mode == DependencyUndefined {
					return NewValidationError("the 'mode' value in 'vr_dependency' must be one of: 'and', 'if', 'if_not', 'or', 'xnor', 'xor'")
				}
			case depSource, depTarget:
				texts, err := asTextList(child)
				if err != nil {
					return NewValidationError("the '%s' value in 'vr_dependency' must be one or more text values", child.Name())
				}
				if len(texts) > maxDependencyOrKeyPaths {
					return NewValidationError("this implementation does not support more than %d '%s' paths in one 'vr_dependency'", maxDependencyOrKeyPaths, child.Name())
				}
				paths := make([]confname.NamePath, len(texts))
				for i, text := range texts {
					paths[i] = confname.ParseNamePath(text)
				}
				if child.Name().Text() == depSource {
					sourcePaths, sourceSpecified = paths, true
				} else {
					targetPaths, targetSpecified = paths, true
				}
			case depError:
				if child.Type() != confvalue.Text {
					return NewValidationError("the 'error' value in 'vr_dependency' must be a text value")
				}
				errorMessage = child.AsText()
			default:
				return NewValidationError("unexpected element in 'vr_dependency'")
			}
			return nil
		}()
		if err != nil {
			return nil, attachLocation(err, child.NamePath(), child.Location())
		}
	}
	if mode == DependencyUndefined {
		return nil, NewValidationError("a 'vr_dependency' definition must have a 'mode' value")
	}
	if !sourceSpecified {
		return nil, NewValidationError("a 'vr_dependency' definition must have a 'source' value")
	}
	if !targetSpecified {
		return nil, NewValidationError("a 'vr_dependency' definition must have a 'target' value")
	}
	def := NewDependencyDefinition(mode, sourcePaths, targetPaths, errorMessage)
	def.SetLocation(dependencyNode.Location())
	return def, nil
}

func (c *compiler) processKey(node *confvalue.Value) error {
	if node.Type() != confvalue.SectionList {
		return NewValidationError("key 'vr_key' node-rules definitions must be section lists")
	}
	parentRule := c.getParentRuleForNode(node)
	if parentRule == nil {
		return NewInternalError("expected parent rule for key node")
	}
	for _, child := range node.Children() {
		kd, err := c.readOneKeyDefinition(child)
		if err != nil {
			return err
		}
		parentRule.AddKeyDefinition(kd)
	}
	return nil
}

func (c *compiler) readOneKeyDefinition(child *confvalue.Value) (*KeyDefinition, error) {
	var name confname.Name
	hasName := false
	if nameValue := child.Value(confname.NewNamePath(confname.NewRegular(keyName))); nameValue != nil {
		if nameValue.Type() != confvalue.Text {
			return nil, NewValidationError("the 'name' in 'vr_key' must be a text value with a regular name")
		}
		n, err := confname.NewRegularChecked(nameValue.AsText())
		if err != nil {
			return nil, NewValidationError("the 'name' in 'vr_key' is not a valid regular name: %v", err).WithNamePathAndLocation(nameValue.NamePath(), nameValue.Location())
		}
		name, hasName = n, true
	}
	keyPathValue := child.Value(confname.NewNamePath(confname.NewRegular(keyKey)))
	if keyPathValue == nil {
		return nil, NewValidationError("a 'vr_key' definition must have a 'key' value")
	}
	keyPaths, err := asValueList(keyPathValue, confvalue.Text)
	if err != nil {
		return nil, NewValidationError("the 'key' in 'vr_key' must be either a text value or a list of text values")
	}
	if len(keyPaths) > maxDependencyOrKeyPaths {
		return nil, NewValidationError("this implementation does not support more than %d 'key' paths in one 'vr_key'", maxDependencyOrKeyPaths)
	}
	caseSensitivity := CaseInsensitive
	if csValue := child.Value(confname.NewNamePath(attrCaseSensitive)); csValue != nil {
		if csValue.Type() != confvalue.Boolean {
			return nil, NewValidationError("the 'case_sensitive' value must be boolean")
		}
		if csValue.AsBoolean() {
			caseSensitivity = CaseSensitive
		}
	}
	keys := make([]confname.NamePath, len(keyPaths))
	for i, kp := range keyPaths {
		keys[i] = confname.ParseNamePath(kp.AsText())
	}
	for _, sub := range child.Children() {
		n := sub.Name()
		if !n.Equal(confname.NewRegular(keyKey)) && !n.Equal(confname.NewRegular(keyName)) && !n.Equal(attrCaseSensitive) {
			return nil, NewValidationError("unexpected element in 'vr_key'").WithNamePathAndLocation(sub.NamePath(), sub.Location())
		}
	}
	return NewKeyDefinition(name, hasName, keys, caseSensitivity, child.Location()), nil
}

func (c *compiler) getParentRuleForNode(node *confvalue.Value) *Rule {
	path := c.createRuleNamePath(node.NamePath())
	if path.Empty() {
		return nil
	}
	if path.Len() == 1 {
		return c.rules.Root()
	}
	return c.rules.RuleForNamePath(path, path.Len()-1)
}

func (c *compiler) createRuleNamePath(namePath confname.NamePath) confname.NamePath {
	if namePath.Empty() || c.pathForTemplate.Empty() {
		return namePath
	}
	if namePath.At(0).Equal(reservedTemplate) {
		result := c.pathForTemplate
		rest := namePath.Elements()
		skip := 1
		if len(rest) > 1 {
			skip = 2
		}
		if skip < len(rest) {
			result = result.Append(rest[skip:]...)
		}
		return result
	}
	return namePath
}

func (c *compiler) createTargetNamePath(namePath confname.NamePath) confname.NamePath {
	var result confname.NamePath
	startIndex := 0
	if isTemplatePath(namePath) {
		result = c.pathForTemplate
		startIndex = 2
	}
	return appendRegularNames(result, namePath, startIndex)
}

func isTemplatePath(namePath confname.NamePath) bool {
	return !namePath.Empty() && namePath.At(0).Equal(reservedTemplate)
}

func appendRegularNames(result, namePath confname.NamePath, startIndex int) confname.NamePath {
	elements := namePath.Elements()
	for i := startIndex; i < len(elements); i++ {
		name := elements[i]
		if !name.IsRegular() {
			continue
		}
		if name.IsEscapedReserved() {
			result = result.Append(name.Unescaped())
		} else {
			result = result.Append(name)
		}
	}
	return result
}

// asTextList normalizes a single Text value or a ValueList of Text
// values into a plain string slice, rejecting an empty result.
func asTextList(node *confvalue.Value) ([]string, error) {
	values, err := asValueList(node, confvalue.Text)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.AsText()
	}
	return out, nil
}
