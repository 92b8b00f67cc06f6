package vr

import (
	"github.com/erbsland-dev/erbsland-go-vr/pkg/confname"
	"github.com/erbsland-dev/erbsland-go-vr/pkg/confvalue"
)

// ValidateRulesDefinition checks a compiled rule tree for internal
// consistency: missing 'vr_entry' definitions, conflicting
// alternatives, out-of-range key/dependency references, and the like
// (spec.md section 5, original_source: RulesDefinitionValidator).
func ValidateRulesDefinition(root *Rule) error {
	stack := []*Rule{root}
	for len(stack) > 0 {
		rule := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if err := validateRuleDefinition(rule); err != nil {
			return err
		}
		stack = append(stack, rule.Children()...)
	}
	return nil
}

var ruleDefinitionTests = []func(*Rule) error{
	testVrNameMustBeText,
	testSectionList,
	testAlternatives,
	testVrAny,
	testValueList,
	testDefaultsAndOptionality,
	testSecretMarkerType,
	testMinimumMaximumRelation,
	testKeyDefinitionPlacement,
	testKeyReferences,
	testDependencyDefinition,
}

func validateRuleDefinition(rule *Rule) error {
	for _, test := range ruleDefinitionTests {
		if err := test(rule); err != nil {
			if e, ok := AsError(err); ok && !e.HasLocation() {
				return e.WithNamePathAndLocation(rule.RuleNamePath(), rule.Location())
			}
			return err
		}
	}
	return nil
}

func attachRuleLocation(err error, rule *Rule) error {
	if err == nil {
		return nil
	}
	if e, ok := AsError(err); ok && !e.HasLocation() {
		return e.WithNamePathAndLocation(rule.RuleNamePath(), rule.Location())
	}
	return err
}

func attachLoc(err error, loc confvalue.Location) error {
	if err == nil {
		return nil
	}
	if e, ok := AsError(err); ok && !e.HasLocation() {
		return e.WithLocation(loc)
	}
	return err
}

func testAlternatives(rule *Rule) error {
	if rule.Type() != Alternatives {
		return nil
	}
	hasDefault := false
	for i, child := range rule.Children() {
		if child.Type() == Alternatives {
			return NewValidationError("alternatives may not contain other alternatives")
		}
		if child.HasDefaultValue() {
			if hasDefault {
				return NewValidationError("only one alternative may have a default value")
			}
			hasDefault = true
		}
		if child.IsOptional() && i > 0 {
			return NewValidationError("only the first alternative may be marked as optional")
		}
	}
	return nil
}

func testVrAny(rule *Rule) error {
	if !rule.RuleName().Equal(reservedAny) {
		return nil
	}
	if rule.IsOptional() {
		return NewValidationError("the 'vr_any' rule cannot be set optional, it is optional by definition")
	}
	if rule.HasDefaultValue() {
		return NewValidationError("the 'vr_any' rule cannot have a default value")
	}
	return nil
}

func testVrNameMustBeText(rule *Rule) error {
	if rule.RuleName().Equal(reservedName) && rule.Type() != Text {
		return NewValidationError("the name rule must have a type of 'text'")
	}
	return nil
}

func testVrEntryCommonConstraints(rule *Rule) error {
	if rule.HasDefaultValue() {
		return NewValidationError("the 'vr_entry' node-rules definition may not have a default value")
	}
	if rule.IsOptional() {
		return NewValidationError("the 'vr_entry' node-rules definition cannot be optional")
	}
	return nil
}

func testNoOtherSubsectionInListDefinitions(rule *Rule) error {
	for _, child := range rule.Children() {
		if !child.RuleName().Equal(reservedEntry) {
			return NewValidationError(
				"unexpected sub-node-rules definition in '%s' rule: only 'vr_entry' is permitted", rule.Type(),
			).WithNamePathAndLocation(child.RuleNamePath(), child.Location())
		}
	}
	return nil
}

func testSectionList(rule *Rule) error {
	if rule.Type() != SectionList {
		return nil
	}
	entryRule := rule.Child(reservedEntry)
	if entryRule == nil {
		return NewValidationError("a section list rule must have a 'vr_entry' node-rules definition")
	}
	if entryRule.Type() == Alternatives {
		for _, child := range entryRule.Children() {
			if child.Type() != Section && child.Type() != SectionWithTexts {
				return attachRuleLocation(NewValidationError(
					"all alternatives in a 'vr_entry' node-rules definition for a section list "+
						"must be of type 'section' or 'section_with_texts'"), child)
			}
			if err := testVrEntryCommonConstraints(child); err != nil {
				return attachRuleLocation(err, child)
			}
		}
	} else if entryRule.Type() != Section && entryRule.Type() != SectionWithTexts {
		return attachRuleLocation(NewValidationError(
			"the 'vr_entry' node-rules definition for a section list must be of type 'section' or 'section_with_texts'"), entryRule)
	} else if err := testVrEntryCommonConstraints(entryRule); err != nil {
		return attachRuleLocation(err, entryRule)
	}
	return testNoOtherSubsectionInListDefinitions(rule)
}

func testValueList(rule *Rule) error {
	if rule.Type() != ValueList && rule.Type() != ValueMatrix {
		return nil
	}
	entryRule := rule.Child(reservedEntry)
	if entryRule == nil {
		return NewValidationError("a value list or matrix rule must have a 'vr_entry' node-rules definition")
	}
	if entryRule.Type() == Alternatives {
		for _, child := range entryRule.Children() {
			if !child.Type().IsScalar() {
				return attachRuleLocation(NewValidationError(
					"all alternatives in a 'vr_entry' node-rules definition for a value list must be scalar types"), child)
			}
			if err := testVrEntryCommonConstraints(child); err != nil {
				return attachRuleLocation(err, child)
			}
		}
	} else if !entryRule.Type().IsScalar() {
		return attachRuleLocation(NewValidationError(
			"unexpected 'vr_entry' node-rules definition type for a value list. expected a scalar value type, but got %s type",
			entryRule.Type().ExpectedValueTypeText()), entryRule)
	} else if err := testVrEntryCommonConstraints(entryRule); err != nil {
		return attachRuleLocation(err, entryRule)
	}
	return testNoOtherSubsectionInListDefinitions(rule)
}

func testDefaultsAndOptionality(rule *Rule) error {
	if rule.HasDefaultValue() && rule.IsOptional() {
		return NewValidationError("a node-rules definition may not be both optional and have a default value")
	}
	if rule.HasDefaultValue() {
		if !rule.Type().MatchesValueType(rule.DefaultValue().Type()) {
			return NewValidationError(
				"the default value of a node-rules definition must match its type. expected %s, but got %s",
				rule.Type().ExpectedValueTypeText(), rule.DefaultValue().Type().ValueDescription(true))
		}
	}
	return nil
}

func testSecretMarkerType(rule *Rule) error {
	if !rule.IsSecret() {
		return nil
	}
	if !rule.Type().IsScalar() {
		return NewValidationError("the 'is_secret' marker can only be used for scalar value types. found %s type", rule.Type())
	}
	return nil
}

func testMinimumMaximumRelation(rule *Rule) error {
	if !rule.HasConstraint(Minimum) || !rule.HasConstraint(Maximum) {
		return nil
	}
	minimum := rule.ConstraintByType(Minimum)
	maximum := rule.ConstraintByType(Maximum)
	if minimum.IsNegated() || maximum.IsNegated() {
		return nil
	}
	invalidRange := func() error {
		return NewValidationError("the 'minimum' constraint value must be less than or equal to the 'maximum' value")
	}
	switch rule.Type() {
	case Integer, Text, Bytes, ValueList, Section, SectionList, SectionWithTexts:
		minInt, okMin := minimum.(*MinMaxIntegerConstraint)
		maxInt, okMax := maximum.(*MinMaxIntegerConstraint)
		if !okMin || !okMax {
			return NewInternalError("minimum/maximum constraint type mismatch")
		}
		if minInt.bound > maxInt.bound {
			return invalidRange()
		}
	case Float:
		minF, okMin := minimum.(*MinMaxFloatConstraint)
		maxF, okMax := maximum.(*MinMaxFloatConstraint)
		if !okMin || !okMax {
			return NewInternalError("minimum/maximum constraint type mismatch")
		}
		if minF.bound > maxF.bound {
			return invalidRange()
		}
	case Date:
		minD, okMin := minimum.(*MinMaxDateConstraint)
		maxD, okMax := maximum.(*MinMaxDateConstraint)
		if !okMin || !okMax {
			return NewInternalError("minimum/maximum constraint type mismatch")
		}
		if minD.bound.Compare(maxD.bound) > 0 {
			return invalidRange()
		}
	case DateTime:
		minDT, okMin := minimum.(*MinMaxDateTimeConstraint)
		maxDT, okMax := maximum.(*MinMaxDateTimeConstraint)
		if !okMin || !okMax {
			return NewInternalError("minimum/maximum constraint type mismatch")
		}
		if minDT.bound.Compare(maxDT.bound) > 0 {
			return invalidRange()
		}
	case ValueMatrix:
		minM, okMin := minimum.(*MinMaxMatrixConstraint)
		maxM, okMax := maximum.(*MinMaxMatrixConstraint)
		if !okMin || !okMax {
			return NewInternalError("minimum/maximum constraint type mismatch")
		}
		if minM.rows > maxM.rows || minM.cols > maxM.cols {
			return invalidRange()
		}
	}
	return nil
}

func testKeyDefinitionPlacement(rule *Rule) error {
	if !rule.HasKeyDefinitions() {
		return nil
	}
	if rule.Type() != Section {
		return NewValidationError("key definitions may only be placed in a section or the document root").
			WithLocation(rule.KeyDefinitions()[0].Location())
	}
	seenNames := make(map[string]bool)
	for _, keyDefinition := range rule.KeyDefinitions() {
		if err := testOneKeyDefinitionPlacement(rule, keyDefinition, seenNames); err != nil {
			return attachLoc(err, keyDefinition.Location())
		}
	}
	return nil
}

func testOneKeyDefinitionPlacement(rule *Rule, keyDefinition *KeyDefinition, seenNames map[string]bool) error {
	if keyDefinition.HasName() {
		key := keyDefinition.Name().Key()
		if seenNames[key] {
			return NewValidationError("all 'vr_key' definition in the same section must have an unique name")
		}
		seenNames[key] = true
	}
	var firstListPath confname.NamePath
	haveFirstListPath := false
	var firstListRule *Rule
	for _, key := range keyDefinition.Keys() {
		entryIndex := key.Find(reservedEntry)
		if entryIndex == confname.NotFound {
			return NewValidationError(
				"keys must point to values inside a section list. the 'vr_entry' is missing in the key path '%s'", key)
		}
		newListPath := key.SubPath(0, entryIndex)
		if newListPath.Empty() {
			return NewValidationError(
				"the key '%s' does not point to a section list. no list named in front of the 'vr_entry'", key)
		}
		if !haveFirstListPath {
			firstListPath = newListPath
			haveFirstListPath = true
			firstListRule = rule.RuleForNamePath(firstListPath, 0)
			if firstListRule == nil || firstListRule.Type() != SectionList {
				return NewValidationError("the initial path '%s' in a key does not point to a section list", firstListPath)
			}
		} else if !firstListPath.Equal(newListPath) {
			return NewValidationError(
				"all keys in a 'vr_key' definition must point to the same section list. "+
					"the key '%s' points to a different list as previous keys in the same definition", key)
		}
		valuePath := key.SubPathFrom(entryIndex + 1)
		if valuePath.Empty() {
			return NewValidationError("the key '%s' has no value path after 'vr_entry'", key)
		}
		if valuePath.Find(reservedEntry) != confname.NotFound {
			return NewValidationError("the key '%s' points to a value in a nested section list", key)
		}
		entryRule := firstListRule.Child(reservedEntry)
		if entryRule == nil || entryRule.Type() != Section {
			return NewValidationError("the 'vr_entry' in the key path '%s' does not point to a section in a section list", key)
		}
		valueRule := entryRule.RuleForNamePath(valuePath, 0)
		if valueRule == nil {
			return NewValidationError("the value path '%s' in the key '%s' does not point to a validated value", valuePath, key)
		}
		if valueRule.Type() == Alternatives {
			hasIntegerOrText := false
			for _, child := range valueRule.Children() {
				if child.Type() == Integer || child.Type() == Text {
					hasIntegerOrText = true
					break
				}
			}
			if !hasIntegerOrText {
				return NewValidationError(
					"the value path '%s' in the key '%s' points to a value with alternatives, "+
						"but none of the alternatives contain a text or integer value", valuePath, key)
			}
		} else if valueRule.Type() != Text && valueRule.Type() != Integer {
			return NewValidationError("the value path '%s' in the key '%s' does not point to a text or integer value", valuePath, key)
		}
	}
	return nil
}

func testKeyReferences(rule *Rule) error {
	if !rule.HasConstraint(Key) {
		return nil
	}
	if rule.Type() != Text && rule.Type() != Integer {
		return NewValidationError("key references can only be used on text or integer values")
	}
	constraint, ok := rule.ConstraintByType(Key).(*KeyConstraint)
	if !ok || constraint == nil {
		return NewInternalError("key constraint must not be nil")
	}
	seen := make(map[string]bool)
	for _, keyReference := range constraint.KeyReferences() {
		key := keyReference.Key()
		if seen[key] {
			return attachLoc(NewValidationError("each key reference must be unique"), constraint.Location())
		}
		seen[key] = true
		if err := validateKeyReference(rule, keyReference); err != nil {
			return attachLoc(err, constraint.Location())
		}
	}
	return nil
}

func validateKeyReference(rule *Rule, keyReference confname.NamePath) error {
	if keyReference.Empty() {
		return NewValidationError("a key reference cannot be empty")
	}
	if !keyReference.At(0).IsRegular() {
		return NewValidationError("a key reference must start with a regular name")
	}
	if keyReference.Len() >= 2 {
		if !keyReference.At(1).IsIndex() {
			return NewValidationError("only an index is allowed after the name of the key reference")
		}
		if keyReference.At(1).AsIndex() > maxDependencyOrKeyPaths-1 {
			return NewValidationError("the key index must be between 0 and %d", maxDependencyOrKeyPaths-1)
		}
	}
	if keyReference.Len() > 2 {
		return NewValidationError("unexpected name path elements after the key reference")
	}
	var foundKeyDefinition *KeyDefinition
	var ruleInPath *Rule
	for p := rule.Parent(); p != nil; p = p.Parent() {
		if !p.HasKeyDefinitions() {
			continue
		}
		for _, kd := range p.KeyDefinitions() {
			if kd.HasName() && kd.Name().Equal(keyReference.At(0)) {
				foundKeyDefinition = kd
				ruleInPath = p
				break
			}
		}
		if foundKeyDefinition != nil {
			break
		}
	}
	if foundKeyDefinition == nil {
		return NewValidationError(
			"the 'vr_key' definition for the reference '%s' was not found in the scope of the constraint", keyReference)
	}
	index := -1
	if keyReference.Len() > 1 {
		index = int(keyReference.At(1).AsIndex())
		if index >= len(foundKeyDefinition.Keys()) {
			return NewValidationError("the key index in the key reference '%s' is out of bounds", keyReference)
		}
	}
	if len(foundKeyDefinition.Keys()) > 1 {
		if index == -1 {
			if rule.Type() == Text {
				return nil
			}
			return NewValidationError("a key referencing a multi-key index as a whole must be of type 'text'")
		}
	} else {
		index = 0
	}
	keyTypes := resolveKeyDefinitionType(ruleInPath, foundKeyDefinition, index)
	for _, t := range keyTypes {
		if t == rule.Type() {
			return nil
		}
	}
	return NewValidationError("a key referencing %s index must be of the same type", expectedRuleTypesText(keyTypes))
}

func resolveKeyDefinitionType(rule *Rule, keyDefinition *KeyDefinition, index int) []RuleType {
	targetRule := rule.RuleForNamePath(keyDefinition.Keys()[index], 0)
	if targetRule == nil {
		return nil
	}
	if targetRule.Type() != Alternatives {
		return []RuleType{targetRule.Type()}
	}
	var result []RuleType
	for _, alt := range targetRule.Children() {
		if alt.Type() != Text && alt.Type() != Integer {
			continue
		}
		found := false
		for _, t := range result {
			if t == alt.Type() {
				found = true
				break
			}
		}
		if !found {
			result = append(result, alt.Type())
		}
	}
	return result
}

func expectedRuleTypesText(types []RuleType) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = t.String()
	}
	return joinOr(parts)
}

func testDependencyDefinition(rule *Rule) error {
	if !rule.HasDependencyDefinitions() {
		return nil
	}
	if rule.Type() != Section {
		return NewValidationError("dependency definitions can only be placed in node-rules definition of a section")
	}
	seen := make(map[string]bool)
	for _, dd := range rule.DependencyDefinitions() {
		for _, p := range dd.SourcePaths() {
			if seen[p.Key()] {
				return attachLoc(NewValidationError("each dependency in 'source' and 'target' path must be unique"), dd.Location())
			}
			seen[p.Key()] = true
			if err := validateDependencyPath(rule, p); err != nil {
				return attachLoc(err, dd.Location())
			}
		}
		for _, p := range dd.TargetPaths() {
			if seen[p.Key()] {
				return attachLoc(NewValidationError("each dependency in 'source' and 'target' path must be unique"), dd.Location())
			}
			seen[p.Key()] = true
			if err := validateDependencyPath(rule, p); err != nil {
				return attachLoc(err, dd.Location())
			}
		}
	}
	return nil
}

func validateDependencyPath(rule *Rule, path confname.NamePath) error {
	if path.ContainsIndex() || path.ContainsText() {
		return NewValidationError("the dependency path cannot contain an index or text")
	}
	if path.Find(reservedEntry) != confname.NotFound {
		return NewValidationError("the dependency path '%s' points to a value in a section list", path)
	}
	targetRule := rule.RuleForNamePath(path, 0)
	if targetRule == nil {
		return NewValidationError("the dependency path '%s' does not point to a validated value", path)
	}
	testedPath := path
	testedRule := targetRule
	for {
		if testedRule.IsOptionalOrDefaulted() {
			return nil
		}
		if testedPath.Len() == 1 {
			break
		}
		testedPath = testedPath.Parent()
		testedRule = rule.RuleForNamePath(testedPath, 0)
	}
	return NewValidationError("the dependency path '%s' points to a value that is neither optional nor has a default value", path)
}
