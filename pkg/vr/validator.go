package vr

import (
	"time"

	"github.com/erbsland-dev/erbsland-go-vr/pkg/confvalue"
	"github.com/gofrs/uuid/v5"
)

// MetricsRecorder receives the outcome of one DocumentValidator run.
// pkg/vr/vrmetrics.Collector implements it; DocumentValidator only
// calls into it when one has been supplied via SetMetricsRecorder, so
// validation has zero Prometheus dependency at call sites by default.
type MetricsRecorder interface {
	RecordValidation(ok bool, duration time.Duration)
}

// DocumentValidator checks a configuration value tree against a
// compiled rule tree, inserting defaults as it goes (spec.md section
// 4: the two-pass validator, original_source: impl::DocumentValidator).
//
// Pass 1 validates structure, types and constraints and materializes
// defaults for values that are missing. Pass 2, only run when the
// rules actually use key indexes or dependencies, checks uniqueness
// and cross-value dependencies once the whole tree carries its
// validation rule.
type DocumentValidator struct {
	root            *Rule
	value           *confvalue.Value
	version         int64
	useIndexes      bool
	useDependencies bool
	runID           string
	metrics         MetricsRecorder
}

// NewDocumentValidator creates a validator for one run. root must be a
// Section rule; value must be the document root or a section with
// names.
func NewDocumentValidator(root *Rule, value *confvalue.Value, version int64) *DocumentValidator {
	return &DocumentValidator{root: root, value: value, version: version}
}

// SetMetricsRecorder attaches an optional collector that records the
// outcome and duration of this run, returning d for chaining.
func (d *DocumentValidator) SetMetricsRecorder(m MetricsRecorder) *DocumentValidator {
	d.metrics = m
	return d
}

// RunID returns the correlation ID stamped on this run, generated the
// first time Validate is called.
func (d *DocumentValidator) RunID() string { return d.runID }

// Validate runs both passes over the value tree, stamping any error it
// returns with this run's RunID and, if a MetricsRecorder was set,
// recording the outcome and duration.
func (d *DocumentValidator) Validate() error {
	d.runID = uuid.Must(uuid.NewV4()).String()
	start := time.Now()
	err := d.runPasses()
	if d.metrics != nil {
		d.metrics.RecordValidation(err == nil, time.Since(start))
	}
	if err == nil {
		return nil
	}
	if e, ok := AsError(err); ok {
		return e.WithRunID(d.runID)
	}
	return err
}

func (d *DocumentValidator) runPasses() error {
	if d.root.Empty() {
		return nil
	}
	if err := d.validatePass1(); err != nil {
		return err
	}
	return d.validatePass2()
}

type pass1Frame struct {
	value *confvalue.Value
	rule  *Rule
}

func (d *DocumentValidator) validatePass1() error {
	d.useIndexes = d.root.HasKeyDefinitions()

	stack := make([]pass1Frame, 0, 32)
	stack = append(stack, pass1Frame{value: d.value, rule: d.root})

	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		value, rule := frame.value, frame.rule

		if value != d.value {
			value.RemoveDefaultValues()
			matchedRule, err := d.validate(rule, value)
			if err != nil {
				return err
			}
			if matchedRule == nil {
				continue // not-validated branch or unresolved alternative: skip it.
			}
			rule = matchedRule
			value.SetValidationRule(rule)
			if rule.Type() == ValueList || rule.Type() == ValueMatrix {
				continue // list/matrix entries were already validated by handleValueLists/handleValueMatrix.
			}
		} else {
			value.RemoveDefaultValues()
			value.SetValidationRule(rule)
		}

		children := value.Children()
		rulesWithMatchingValues := make(map[*Rule]bool, len(children))
		for i := len(children) - 1; i >= 0; i-- {
			child := children[i]
			nextRule, err := d.nextRuleForValue(rule, child)
			if err != nil {
				return err
			}
			rulesWithMatchingValues[nextRule] = true
			stack = append(stack, pass1Frame{value: child, rule: nextRule})
		}
		for _, childRule := range rule.Children() {
			if rulesWithMatchingValues[childRule] {
				continue
			}
			if err := d.handleMissingValues(childRule, value); err != nil {
				return err
			}
		}
	}
	return nil
}

// validate dispatches on rule.Type(), returning the rule actually
// matched (which may differ from rule for Alternatives/SectionList
// entries) or nil if the branch must not be validated further.
func (d *DocumentValidator) validate(rule *Rule, value *confvalue.Value) (*Rule, error) {
	if err := d.validateNameConstraints(rule, value); err != nil {
		return nil, err
	}
	if rule.HasKeyDefinitions() || rule.HasConstraint(Key) {
		d.useIndexes = true
	}
	if rule.HasDependencyDefinitions() {
		d.useDependencies = true
	}
	switch rule.Type() {
	case NotValidated:
		return d.handleNotValidatedValues(rule, value), nil
	case Alternatives:
		return d.handleAlternatives(rule, value)
	case SectionList:
		return d.handleSectionLists(rule, value)
	case ValueList:
		return d.handleValueLists(rule, value)
	case ValueMatrix:
		return d.handleValueMatrix(rule, value)
	default:
		return d.handleCommonValues(rule, value)
	}
}

func (d *DocumentValidator) handleMissingValues(rule *Rule, parentValue *confvalue.Value) error {
	if rule.Type() == NotValidated ||
		!rule.IsActiveForVersion(d.version) ||
		rule.RuleName().IsReserved() ||
		rule.IsOptional() {
		return nil
	}
	if rule.HasDefaultValue() {
		d.copyDefaultValue(rule, parentValue)
		return nil
	}
	if rule.Type() == Alternatives {
		for _, alt := range rule.Children() {
			if !alt.IsActiveForVersion(d.version) {
				continue
			}
			if alt.IsOptional() {
				return nil
			}
			if alt.HasDefaultValue() {
				d.copyDefaultValue(alt, parentValue)
				return nil
			}
		}
	}
	return NewValidationError(
		"in %s, expected %s with the name '%s'",
		parentLocationText(parentValue),
		d.expectedValueTypeText(rule),
		rule.TargetName(),
	).WithNamePathAndLocation(parentValue.NamePath(), parentValue.Location())
}

func (d *DocumentValidator) copyDefaultValue(rule *Rule, parentValue *confvalue.Value) {
	defaultValue := rule.DefaultValue().DeepCopy()
	defaultValue.SetName(rule.TargetName())
	var walker confvalue.TreeWalker
	walker.SetRoot(defaultValue)
	walker.Walk(func(v *confvalue.Value) {
		v.SetValidationRule(rule)
		v.MarkAsDefaultValue()
	})
	parentValue.AddValue(defaultValue)
}

func (d *DocumentValidator) handleNotValidatedValues(rule *Rule, value *confvalue.Value) *Rule {
	var walker confvalue.TreeWalker
	walker.SetRoot(value)
	walker.Walk(func(v *confvalue.Value) {
		v.SetValidationRule(rule)
	})
	return nil
}

func (d *DocumentValidator) handleAlternatives(rule *Rule, value *confvalue.Value) (*Rule, error) {
	matchingRules := make([]*Rule, 0, len(rule.Children()))
	for _, alt := range rule.Children() {
		if alt.IsActiveForVersion(d.version) && alt.Type().MatchesValueType(value.Type()) {
			matchingRules = append(matchingRules, alt)
		}
	}
	if len(matchingRules) == 0 {
		return nil, d.throwExpectedVsActual(rule, value)
	}
	var firstErr error
	for _, alt := range matchingRules {
		if err := d.validateValueConstraints(alt, value); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		return alt, nil
	}
	return nil, firstErr
}

func (d *DocumentValidator) handleSectionLists(rule *Rule, value *confvalue.Value) (*Rule, error) {
	if value.Type() != confvalue.SectionList {
		return nil, d.throwExpectedVsActual(rule, value)
	}
	if err := d.validateValueConstraints(rule, value); err != nil {
		return nil, err
	}
	return rule, nil
}

func (d *DocumentValidator) handleValueListOrMatrixPreCheck(rule *Rule, value *confvalue.Value) (*Rule, error) {
	if err := d.validateValueConstraints(rule, value); err != nil {
		return nil, err
	}
	if value.Type() != confvalue.ValueList && value.Type() != confvalue.ValueMatrix && !value.Type().IsScalar() {
		return nil, NewValidationError("expected a list of values, but found %s", value.Type().ValueDescription(true)).
			WithNamePathAndLocation(value.NamePath(), value.Location())
	}
	valueRule := rule.Child(reservedEntry)
	if valueRule == nil {
		return nil, NewInternalError("missing 'vr_entry' rule for list rule '%s'", rule.RuleName())
	}
	return valueRule, nil
}

func (d *DocumentValidator) validateListOrMatrixValue(valueRule *Rule, value *confvalue.Value) error {
	var validatedRule *Rule
	var err error
	if valueRule.Type() == Alternatives {
		validatedRule, err = d.handleAlternatives(valueRule, value)
	} else {
		validatedRule, err = d.handleCommonValues(valueRule, value)
	}
	if err != nil {
		return err
	}
	value.SetValidationRule(validatedRule)
	return nil
}

func (d *DocumentValidator) handleValueLists(rule *Rule, value *confvalue.Value) (*Rule, error) {
	valueRule, err := d.handleValueListOrMatrixPreCheck(rule, value)
	if err != nil {
		return nil, err
	}
	for _, entry := range value.Children() {
		if err := d.validateListOrMatrixValue(valueRule, entry); err != nil {
			return nil, err
		}
	}
	return rule, nil
}

func (d *DocumentValidator) handleValueMatrix(rule *Rule, value *confvalue.Value) (*Rule, error) {
	valueRule, err := d.handleValueListOrMatrixPreCheck(rule, value)
	if err != nil {
		return nil, err
	}
	for row := 0; row < value.Rows(); row++ {
		for col := 0; col < value.ColumnCount(row); col++ {
			if value.IsDefined(row, col) {
				if err := d.validateListOrMatrixValue(valueRule, value.CellValue(row, col)); err != nil {
					return nil, err
				}
			}
		}
	}
	return rule, nil
}

func (d *DocumentValidator) handleCommonValues(rule *Rule, value *confvalue.Value) (*Rule, error) {
	if !rule.Type().MatchesValueType(value.Type()) {
		return nil, d.throwExpectedVsActual(rule, value)
	}
	if err := d.validateValueConstraints(rule, value); err != nil {
		return nil, err
	}
	return rule, nil
}

func (d *DocumentValidator) nextRuleForValue(parentRule *Rule, value *confvalue.Value) (*Rule, error) {
	name := value.Name()
	if name.IsIndex() {
		entryRule := parentRule.Child(reservedEntry)
		if entryRule == nil {
			return nil, NewInternalError("missing 'vr_entry' rule for list rule '%s'", parentRule.RuleName())
		}
		return entryRule, nil
	}
	var anyRule *Rule
	for _, childRule := range parentRule.Children() {
		if !childRule.IsActiveForVersion(d.version) {
			continue
		}
		if childRule.RuleName().Equal(reservedAny) {
			anyRule = childRule
			continue
		}
		if childRule.TargetName().Equal(name) {
			return childRule, nil
		}
	}
	if anyRule != nil {
		return anyRule, nil
	}
	return nil, NewValidationError("found an unexpected %s in this document", value.Type().ValueDescription(false)).
		WithNamePathAndLocation(value.NamePath(), value.Location())
}
