package vr

import (
	"strings"

	"github.com/erbsland-dev/erbsland-go-vr/pkg/confname"
	"github.com/erbsland-dev/erbsland-go-vr/pkg/confvalue"
)

type pass2Frame struct {
	value        *confvalue.Value
	rule         *Rule
	addedIndexes int
	isExit       bool
}

// validatePass2 checks key uniqueness and cross-value dependencies.
// It only runs when pass 1 observed a key definition, key constraint,
// or dependency definition somewhere in the rule tree.
func (d *DocumentValidator) validatePass2() error {
	if !d.useIndexes && !d.useDependencies {
		return nil
	}

	stack := make([]pass2Frame, 0, 32)
	stack = append(stack, pass2Frame{value: d.value, rule: d.root})
	var keyIndexStack []*KeyIndex

	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if frame.isExit {
			if frame.addedIndexes > 0 {
				keyIndexStack = keyIndexStack[:len(keyIndexStack)-frame.addedIndexes]
			}
			continue
		}

		if frame.rule.HasKeyDefinitions() {
			indexes, err := d.buildKeyIndexes(frame.value, frame.rule)
			if err != nil {
				return err
			}
			frame.addedIndexes = len(indexes)
			keyIndexStack = append(keyIndexStack, indexes...)
		}
		if frame.rule.HasConstraint(Key) {
			if err := d.validateKeyConstraint(keyIndexStack, frame.value, frame.rule); err != nil {
				return err
			}
		}
		if frame.rule.HasDependencyDefinitions() {
			if err := d.validateDependencies(frame.value, frame.rule); err != nil {
				return err
			}
		}
		stack = append(stack, pass2Frame{value: frame.value, rule: frame.rule, addedIndexes: frame.addedIndexes, isExit: true})

		children := frame.value.Children()
		for i := len(children) - 1; i >= 0; i-- {
			child := children[i]
			if child.IsDefaultValue() {
				continue // default values never carry their own keys or dependencies.
			}
			childRule, ok := child.ValidationRule().(*Rule)
			if !ok || childRule == nil {
				continue
			}
			if childRule.Type() == NotValidated {
				continue
			}
			stack = append(stack, pass2Frame{value: child, rule: childRule})
		}
	}
	return nil
}

// buildKeyIndexes builds one KeyIndex per 'vr_key' definition attached
// to rule, checking uniqueness as it goes, and returns only the named
// ones (anonymous key definitions exist purely to enforce uniqueness
// and are never referenced by a 'key' constraint).
func (d *DocumentValidator) buildKeyIndexes(value *confvalue.Value, rule *Rule) ([]*KeyIndex, error) {
	var result []*KeyIndex
	for _, keyDefinition := range rule.KeyDefinitions() {
		keyIndex, err := d.buildKeyIndexAndValidateUniqueness(value, keyDefinition)
		if err != nil {
			return nil, err
		}
		if keyDefinition.HasName() {
			result = append(result, keyIndex)
		}
	}
	return result, nil
}

func (d *DocumentValidator) buildKeyIndexAndValidateUniqueness(value *confvalue.Value, keyDefinition *KeyDefinition) (*KeyIndex, error) {
	var listPath confname.NamePath
	haveListPath := false
	valuePaths := make([]confname.NamePath, 0, len(keyDefinition.Keys()))
	for _, key := range keyDefinition.Keys() {
		entryIndex := key.Find(reservedEntry)
		if entryIndex == confname.NotFound {
			return nil, NewInternalError("a key path must reference 'vr_entry'")
		}
		newListPath := key.SubPath(0, entryIndex)
		if !haveListPath {
			listPath = newListPath
			haveListPath = true
		}
		valuePaths = append(valuePaths, key.SubPathFrom(entryIndex+1))
	}

	keyIndex := NewKeyIndex(keyDefinition.Name(), keyDefinition.HasName(), keyDefinition.CaseSensitivity(), len(valuePaths))
	if !value.HasValue(listPath) {
		return keyIndex, nil
	}
	listValue := value.Value(listPath)
	if listValue.Type() != confvalue.SectionList {
		return keyIndex, nil
	}

	for _, entry := range listValue.Children() {
		keyElements := make([]string, len(valuePaths))
		atLeastOneValueExists := false
		for i, valuePath := range valuePaths {
			entryValue := entry.Value(valuePath)
			if entryValue != nil && (entryValue.Type() == confvalue.Text || entryValue.Type() == confvalue.Integer) {
				keyElements[i] = entryValue.ToTextRepresentation()
				atLeastOneValueExists = true
			}
		}
		if !atLeastOneValueExists {
			continue
		}
		if !keyIndex.TryAddKey(keyElements) {
			if len(valuePaths) == 1 {
				return nil, NewValidationError(
					"the key '%s' is not unique in the list '%s'. found a duplicate",
					valuePaths[0], listValue.NamePath(),
				).WithNamePathAndLocation(entry.NamePath(), entry.Location())
			}
			parts := make([]string, len(valuePaths))
			for i, vp := range valuePaths {
				parts[i] = vp.String()
			}
			return nil, NewValidationError(
				"the combined keys '%s' are not unique in the list '%s'. found a duplicate",
				strings.Join(parts, "', '"), listValue.NamePath(),
			).WithNamePathAndLocation(entry.NamePath(), entry.Location())
		}
	}
	return keyIndex, nil
}

func (d *DocumentValidator) validateKeyConstraint(indexStack []*KeyIndex, value *confvalue.Value, rule *Rule) error {
	testedKey := value.ToTextRepresentation()
	keyConstraint, _ := rule.ConstraintByType(Key).(*KeyConstraint)
	if keyConstraint == nil {
		return NewInternalError("missing key constraint")
	}
	foundKey := false
	for _, keyReference := range keyConstraint.KeyReferences() {
		if keyReference.Empty() {
			continue
		}
		keyName := keyReference.At(0)
		var keyIndex *KeyIndex
		for i := len(indexStack) - 1; i >= 0; i-- {
			if indexStack[i].Name().Equal(keyName) {
				keyIndex = indexStack[i]
				break
			}
		}
		if keyIndex == nil {
			continue
		}
		if keyReference.Len() > 1 {
			index := int(keyReference.At(1).AsIndex())
			if keyIndex.HasKeyAt(testedKey, index) {
				foundKey = true
				break
			}
		} else if keyIndex.HasKey(testedKey) {
			foundKey = true
			break
		}
	}
	if !foundKey {
		if keyConstraint.HasCustomError() {
			return (&Error{Category: Validation, Message: keyConstraint.ErrorMessage()}).
				WithNamePathAndLocation(value.NamePath(), value.Location())
		}
		return NewValidationError("this value must refer to an existing key, but no matching entry was found").
			WithNamePathAndLocation(value.NamePath(), value.Location())
	}
	return nil
}

func (d *DocumentValidator) validateDependencies(value *confvalue.Value, rule *Rule) error {
	for _, dependency := range rule.DependencyDefinitions() {
		hasSource := dependencyPathsPresent(value, dependency.SourcePaths())
		hasTarget := dependencyPathsPresent(value, dependency.TargetPaths())
		if dependency.Mode().IsValid(hasSource, hasTarget) {
			continue
		}
		if dependency.HasErrorMessage() {
			return (&Error{Category: Validation, Message: dependency.ErrorMessage()}).
				WithNamePathAndLocation(value.NamePath(), value.Location())
		}
		var message string
		switch dependency.Mode() {
		case If:
			message = "if " + errorNamePathsOr(dependency.SourcePaths(), false) +
				" is configured, you must also configure " + errorNamePathsOr(dependency.TargetPaths(), false)
		case IfNot:
			message = "if " + errorNamePathsOr(dependency.SourcePaths(), false) +
				" is configured, you must " + errorNamePathsOr(dependency.TargetPaths(), true)
		case Or:
			all := append(append([]confname.NamePath{}, dependency.SourcePaths()...), dependency.TargetPaths()...)
			message = "you must configure " + errorNamePathsOr(all, false)
		case Xor:
			message = "you must either configure " + errorNamePathsOr(dependency.SourcePaths(), false) +
				" or configure " + errorNamePathsOr(dependency.TargetPaths(), false)
		case Xnor:
			message = "you must configure " + errorNamePathsOr(dependency.SourcePaths(), false) +
				" and configure " + errorNamePathsOr(dependency.TargetPaths(), false) + ", or none of them"
		case And:
			message = "you must configure both " + errorNamePathsOr(dependency.SourcePaths(), false) +
				" and " + errorNamePathsOr(dependency.TargetPaths(), false)
		default:
			message = "unknown dependency mode"
		}
		return (&Error{Category: Validation, Message: message}).
			WithNamePathAndLocation(value.NamePath(), value.Location())
	}
	return nil
}

func dependencyPathsPresent(value *confvalue.Value, paths []confname.NamePath) bool {
	for _, path := range paths {
		if depValue := value.Value(path); depValue != nil && !depValue.IsDefaultValue() {
			return true
		}
	}
	return false
}

func (d *DocumentValidator) validateNameConstraints(rule *Rule, value *confvalue.Value) error {
	if !rule.HasNameConstraints() {
		return nil
	}
	if value.Name().IsIndex() {
		return NewValidationError("expected a named value, but got a list entry").
			WithNamePathAndLocation(value.NamePath(), value.Location())
	}
	nameRule := rule.NameConstraintsRule()
	nameValue := confvalue.NewText(value.Name(), value.Name().Text())
	nameValue.SetParent(value.Parent())
	nameValue.SetLocation(value.Location())
	ctx := &ValidationContext{Target: TargetName, Value: nameValue, Rule: nameRule}
	return d.validateConstraints(nameRule, ctx)
}

func (d *DocumentValidator) validateValueConstraints(rule *Rule, value *confvalue.Value) error {
	ctx := &ValidationContext{Target: TargetValue, Value: value, Rule: rule}
	return d.validateConstraints(rule, ctx)
}

func (d *DocumentValidator) validateConstraints(rule *Rule, ctx *ValidationContext) error {
	for _, constraint := range rule.Constraints() {
		if constraint.Type() == Key {
			continue // key constraints are checked in pass 2, against the key index stack.
		}
		err := constraint.Validate(ctx)
		if err == nil {
			continue
		}
		if e, ok := AsError(err); ok && e.Category == Validation {
			if constraint.HasCustomError() {
				return (&Error{Category: Validation, Message: constraint.ErrorMessage()}).
					WithNamePathAndLocation(ctx.Value.NamePath(), ctx.Value.Location())
			}
			if rule.HasErrorMessage() {
				return (&Error{Category: Validation, Message: rule.ErrorMessage()}).
					WithNamePathAndLocation(ctx.Value.NamePath(), ctx.Value.Location())
			}
		}
		return err
	}
	return nil
}

func (d *DocumentValidator) expectedValueTypeText(rule *Rule) string {
	if rule.Type() != Alternatives {
		return rule.Type().ExpectedValueTypeText()
	}
	var parts []string
	for _, alt := range rule.Children() {
		if !alt.IsActiveForVersion(d.version) {
			continue
		}
		parts = append(parts, alt.Type().ExpectedValueTypeText())
	}
	return joinOr(parts)
}

func joinOr(parts []string) string {
	switch len(parts) {
	case 0:
		return "a value"
	case 1:
		return parts[0]
	default:
		return strings.Join(parts[:len(parts)-1], ", ") + " or " + parts[len(parts)-1]
	}
}

func parentLocationText(value *confvalue.Value) string {
	if value == nil || value.IsDocument() {
		return "the document root"
	}
	switch value.Type() {
	case confvalue.SectionWithNames, confvalue.IntermediateSection:
		return "the section '" + value.NamePath().String() + "'"
	case confvalue.SectionWithTexts:
		return "the section with texts '" + value.NamePath().String() + "'"
	default:
		return ""
	}
}

func (d *DocumentValidator) throwExpectedVsActual(rule *Rule, value *confvalue.Value) error {
	return NewValidationError(
		"expected %s but got %s",
		d.expectedValueTypeText(rule), value.Type().ValueDescription(true),
	).WithNamePathAndLocation(value.NamePath(), value.Location())
}

// errorNamePathsOr renders a list of name paths for a dependency error
// message, e.g. "at least one of 'a', 'b', or 'c'" or, negated, "not
// configure 'a'" / "configure none of 'a', 'b', or 'c'".
func errorNamePathsOr(paths []confname.NamePath, forNegation bool) string {
	var b strings.Builder
	if len(paths) > 1 {
		if forNegation {
			b.WriteString("configure none of ")
		} else {
			b.WriteString("at least one of ")
		}
	} else if forNegation {
		b.WriteString("not configure ")
	}
	b.WriteByte('\'')
	for i, p := range paths {
		b.WriteString(p.String())
		if i < len(paths)-1 {
			if i == len(paths)-2 {
				b.WriteString("', or '")
			} else {
				b.WriteString("', '")
			}
		}
	}
	b.WriteByte('\'')
	return b.String()
}
