package vr

import "github.com/erbsland-dev/erbsland-go-vr/pkg/confvalue"

// The attribute handlers below share the constraint-handler signature
// but never return a Constraint: they mutate the rule directly
// (original_source: RulesFromDocument_constraintHandlers.cpp).

func handleDefault(ctx constraintHandlerContext) (Constraint, error) {
	rule, node := ctx.Rule, ctx.Node
	if !rule.Type().AcceptsDefaults() {
		return nil, NewValidationError("a default value cannot be used for '%s' node rules", rule.Type())
	}
	if !rule.Type().MatchesValueType(node.Type()) {
		return nil, NewValidationError("the 'default' value must be %s", rule.Type().ExpectedValueTypeText())
	}
	rule.SetDefaultValue(node.DeepCopy())
	return nil, nil
}

func handleDescription(ctx constraintHandlerContext) (Constraint, error) {
	if ctx.Node.Type() != confvalue.Text {
		return nil, NewValidationError("the 'description' value must be text")
	}
	ctx.Rule.SetDescription(ctx.Node.AsText())
	return nil, nil
}

func handleError(ctx constraintHandlerContext) (Constraint, error) {
	if ctx.Node.Type() != confvalue.Text {
		return nil, NewValidationError("the 'error' value must be text")
	}
	ctx.Rule.SetErrorMessage(ctx.Node.AsText())
	return nil, nil
}

func handleIsOptional(ctx constraintHandlerContext) (Constraint, error) {
	if ctx.Node.Type() != confvalue.Boolean {
		return nil, NewValidationError("the 'is_optional' value must be boolean")
	}
	ctx.Rule.SetOptional(ctx.Node.AsBoolean())
	return nil, nil
}

func handleIsSecret(ctx constraintHandlerContext) (Constraint, error) {
	if ctx.Node.Type() != confvalue.Boolean {
		return nil, NewValidationError("the 'is_secret' value must be boolean")
	}
	ctx.Rule.SetSecret(ctx.Node.AsBoolean())
	return nil, nil
}

func handleTitle(ctx constraintHandlerContext) (Constraint, error) {
	if ctx.Node.Type() != confvalue.Text {
		return nil, NewValidationError("the 'title' value must be a text")
	}
	ctx.Rule.SetTitle(ctx.Node.AsText())
	return nil, nil
}

func handleVersion(ctx constraintHandlerContext) (Constraint, error) {
	versions, err := asIntegerList(ctx.Node)
	if err != nil || len(versions) == 0 {
		return nil, NewValidationError("the 'version' value must be one or more integers")
	}
	for i := range versions {
		if versions[i] < 0 {
			return nil, NewValidationError("the values in 'version' must be non-negative integers")
		}
		for j := i + 1; j < len(versions); j++ {
			if versions[i] == versions[j] {
				return nil, NewValidationError("the values in 'version' must be unique")
			}
		}
	}
	mask := VersionMaskFromIntegers(versions)
	if ctx.Negated {
		mask = mask.Not()
	}
	ctx.Rule.LimitVersionMask(mask)
	return nil, nil
}

func handleMinimumVersion(ctx constraintHandlerContext) (Constraint, error) {
	if ctx.Node.Type() != confvalue.Integer {
		return nil, NewValidationError("the 'minimum_version' value must be an integer")
	}
	version := ctx.Node.AsInteger()
	if version < 0 {
		return nil, NewValidationError("the 'minimum_version' value must be non-negative")
	}
	mask := VersionMaskFromRanges([]VersionRange{{Min: version, Max: maxVersion}})
	if ctx.Negated {
		mask = mask.Not()
	}
	ctx.Rule.LimitVersionMask(mask)
	return nil, nil
}

func handleMaximumVersion(ctx constraintHandlerContext) (Constraint, error) {
	if ctx.Node.Type() != confvalue.Integer {
		return nil, NewValidationError("the 'maximum_version' value must be an integer")
	}
	version := ctx.Node.AsInteger()
	if version < 0 {
		return nil, NewValidationError("the 'maximum_version' value must be non-negative")
	}
	mask := VersionMaskFromRanges([]VersionRange{{Min: 0, Max: version}})
	if ctx.Negated {
		mask = mask.Not()
	}
	ctx.Rule.LimitVersionMask(mask)
	return nil, nil
}

// asIntegerList normalizes a single Integer value or a ValueList of
// Integer values into a plain slice.
func asIntegerList(node *confvalue.Value) ([]int64, error) {
	values, err := asValueList(node, confvalue.Integer)
	if err != nil {
		return nil, err
	}
	out := make([]int64, len(values))
	for i, v := range values {
		out[i] = v.AsInteger()
	}
	return out, nil
}
