package vr

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/kylelemons/godebug/pretty"

	"github.com/erbsland-dev/erbsland-go-vr/pkg/confname"
	"github.com/erbsland-dev/erbsland-go-vr/pkg/confvalue"
)

func testInteger(v int64) *confvalue.Value { return confvalue.NewInteger(confname.Name{}, v) }
func testText(v string) *confvalue.Value   { return confvalue.NewText(confname.Name{}, v) }

func newTestRule(name confname.Name, typ RuleType, parent *Rule) *Rule {
	r := NewRule()
	r.SetType(typ)
	if parent == nil {
		r.SetRuleNamePath(confname.NewNamePath(name))
	} else {
		r.SetRuleNamePath(parent.RuleNamePath().Append(name))
	}
	r.SetTargetNamePath(r.RuleNamePath())
	if parent != nil {
		parent.AddChild(r)
	}
	return r
}

func TestTestAlternativesRejectsNestedAlternatives(t *testing.T) {
	root := NewRule()
	root.SetType(Section)
	alt := newTestRule(confname.NewRegular("choice"), Alternatives, root)
	nested := newTestRule(confname.NewIndex(0), Alternatives, alt)
	_ = nested

	if err := testAlternatives(alt); err == nil {
		t.Fatal("expected an error for nested alternatives")
	}
}

func TestTestAlternativesRejectsTwoDefaults(t *testing.T) {
	root := NewRule()
	root.SetType(Section)
	alt := newTestRule(confname.NewRegular("choice"), Alternatives, root)
	a := newTestRule(confname.NewIndex(0), Integer, alt)
	b := newTestRule(confname.NewIndex(1), Text, alt)
	a.SetDefaultValue(testInteger(1))
	b.SetDefaultValue(testText("x"))

	if err := testAlternatives(alt); err == nil {
		t.Fatal("expected an error for two defaulted alternatives")
	}
}

func TestTestAlternativesRejectsOptionalAfterFirst(t *testing.T) {
	root := NewRule()
	root.SetType(Section)
	alt := newTestRule(confname.NewRegular("choice"), Alternatives, root)
	newTestRule(confname.NewIndex(0), Integer, alt)
	second := newTestRule(confname.NewIndex(1), Text, alt)
	second.SetOptional(true)

	if err := testAlternatives(alt); err == nil {
		t.Fatal("expected an error for a non-first optional alternative")
	}
}

func TestTestVrAnyRejectsOptionalAndDefault(t *testing.T) {
	root := NewRule()
	root.SetType(Section)
	any := newTestRule(confname.NewRegular("vr_any"), Text, root)

	any.SetOptional(true)
	if err := testVrAny(any); err == nil {
		t.Fatal("expected an error for an optional vr_any rule")
	}
	any.SetOptional(false)
	any.SetDefaultValue(testText("x"))
	if err := testVrAny(any); err == nil {
		t.Fatal("expected an error for a defaulted vr_any rule")
	}
}

func TestTestVrNameMustBeText(t *testing.T) {
	root := NewRule()
	root.SetType(Section)
	name := newTestRule(confname.NewRegular("vr_name"), Integer, root)
	if err := testVrNameMustBeText(name); err == nil {
		t.Fatal("expected an error for a non-text vr_name rule")
	}
	name.SetType(Text)
	if err := testVrNameMustBeText(name); err != nil {
		t.Fatalf("unexpected error for a text vr_name rule: %v", err)
	}
}

func TestTestSectionListRequiresEntry(t *testing.T) {
	root := NewRule()
	root.SetType(Section)
	list := newTestRule(confname.NewRegular("servers"), SectionList, root)

	if err := testSectionList(list); err == nil {
		t.Fatal("expected an error for a section list missing vr_entry")
	}

	entry := newTestRule(confname.NewRegular("vr_entry"), Integer, list)
	if err := testSectionList(list); err == nil {
		t.Fatal("expected an error for a vr_entry that is not a section")
	}
	entry.SetType(Section)
	if err := testSectionList(list); err != nil {
		t.Fatalf("unexpected error for a valid section list: %v", err)
	}
}

func TestTestSectionListRejectsOtherSubsections(t *testing.T) {
	root := NewRule()
	root.SetType(Section)
	list := newTestRule(confname.NewRegular("servers"), SectionList, root)
	newTestRule(confname.NewRegular("vr_entry"), Section, list)
	newTestRule(confname.NewRegular("extra"), Section, list)

	if err := testSectionList(list); err == nil {
		t.Fatal("expected an error for a stray sub-section in a list definition")
	}
}

func TestTestValueListRequiresScalarEntry(t *testing.T) {
	root := NewRule()
	root.SetType(Section)
	list := newTestRule(confname.NewRegular("ports"), ValueList, root)
	entry := newTestRule(confname.NewRegular("vr_entry"), Section, list)

	if err := testValueList(list); err == nil {
		t.Fatal("expected an error for a non-scalar vr_entry in a value list")
	}
	entry.SetType(Integer)
	if err := testValueList(list); err != nil {
		t.Fatalf("unexpected error for a valid value list: %v", err)
	}
}

func TestTestDefaultsAndOptionalityRejectsBoth(t *testing.T) {
	root := NewRule()
	root.SetType(Section)
	rule := newTestRule(confname.NewRegular("port"), Integer, root)
	rule.SetOptional(true)
	rule.SetDefaultValue(testInteger(8080))

	if err := testDefaultsAndOptionality(rule); err == nil {
		t.Fatal("expected an error for a rule both optional and defaulted")
	}
}

func TestTestDefaultsAndOptionalityRejectsTypeMismatch(t *testing.T) {
	root := NewRule()
	root.SetType(Section)
	rule := newTestRule(confname.NewRegular("port"), Integer, root)
	rule.SetDefaultValue(testText("not-a-number"))

	if err := testDefaultsAndOptionality(rule); err == nil {
		t.Fatal("expected an error for a default value of the wrong type")
	}
}

func TestTestSecretMarkerTypeRejectsStructural(t *testing.T) {
	root := NewRule()
	root.SetType(Section)
	section := newTestRule(confname.NewRegular("credentials"), Section, root)
	section.SetSecret(true)

	if err := testSecretMarkerType(section); err == nil {
		t.Fatal("expected an error for is_secret on a structural rule")
	}
}

func TestTestMinimumMaximumRelationRejectsInvertedRange(t *testing.T) {
	root := NewRule()
	root.SetType(Section)
	rule := newTestRule(confname.NewRegular("port"), Integer, root)
	rule.AddOrOverwriteConstraint(newMinMaxInteger(Minimum, 100))
	rule.AddOrOverwriteConstraint(newMinMaxInteger(Maximum, 10))

	if err := testMinimumMaximumRelation(rule); err == nil {
		t.Fatal("expected an error for minimum greater than maximum")
	}
}

func TestTestMinimumMaximumRelationAcceptsValidRange(t *testing.T) {
	root := NewRule()
	root.SetType(Section)
	rule := newTestRule(confname.NewRegular("port"), Integer, root)
	rule.AddOrOverwriteConstraint(newMinMaxInteger(Minimum, 10))
	rule.AddOrOverwriteConstraint(newMinMaxInteger(Maximum, 100))

	if err := testMinimumMaximumRelation(rule); err != nil {
		t.Fatalf("unexpected error for a valid range: %v", err)
	}
}

func TestTestMinimumMaximumRelationSkipsNegated(t *testing.T) {
	root := NewRule()
	root.SetType(Section)
	rule := newTestRule(confname.NewRegular("port"), Integer, root)
	minC := newMinMaxInteger(Minimum, 100)
	minC.SetNegated(true)
	rule.AddOrOverwriteConstraint(minC)
	rule.AddOrOverwriteConstraint(newMinMaxInteger(Maximum, 10))

	if err := testMinimumMaximumRelation(rule); err != nil {
		t.Fatalf("expected negated minimum to skip the relation check: %v", err)
	}
}

func TestTestKeyDefinitionPlacementRequiresSection(t *testing.T) {
	root := NewRule()
	root.SetType(Section)
	list := newTestRule(confname.NewRegular("servers"), ValueList, root)
	list.AddKeyDefinition(NewKeyDefinition(confname.Name{}, false, nil, CaseInsensitive, list.Location()))

	if err := testKeyDefinitionPlacement(list); err == nil {
		t.Fatal("expected an error for a key definition outside of a section")
	}
}

func TestTestKeyDefinitionPlacementDuplicateNames(t *testing.T) {
	root := NewRule()
	root.SetType(Section)
	list := newTestRule(confname.NewRegular("servers"), SectionList, root)
	entry := newTestRule(confname.NewRegular("vr_entry"), Section, list)
	newTestRule(confname.NewRegular("id"), Text, entry)

	keyPath := confname.NewNamePath(confname.NewRegular("servers"), confname.NewRegular("vr_entry"), confname.NewRegular("id"))
	name := confname.NewRegular("by_id")
	root.AddKeyDefinition(NewKeyDefinition(name, true, []confname.NamePath{keyPath}, CaseInsensitive, root.Location()))
	root.AddKeyDefinition(NewKeyDefinition(name, true, []confname.NamePath{keyPath}, CaseInsensitive, root.Location()))

	if err := testKeyDefinitionPlacement(root); err == nil {
		t.Fatal("expected an error for duplicate key definition names")
	}
}

func TestTestKeyDefinitionPlacementValid(t *testing.T) {
	root := NewRule()
	root.SetType(Section)
	list := newTestRule(confname.NewRegular("servers"), SectionList, root)
	entry := newTestRule(confname.NewRegular("vr_entry"), Section, list)
	newTestRule(confname.NewRegular("id"), Text, entry)

	keyPath := confname.NewNamePath(confname.NewRegular("servers"), confname.NewRegular("vr_entry"), confname.NewRegular("id"))
	name := confname.NewRegular("by_id")
	root.AddKeyDefinition(NewKeyDefinition(name, true, []confname.NamePath{keyPath}, CaseInsensitive, root.Location()))

	if err := testKeyDefinitionPlacement(root); err != nil {
		t.Fatalf("unexpected error for a valid key definition: %v", err)
	}
}

func TestTestDependencyDefinitionRequiresOptionalTarget(t *testing.T) {
	root := NewRule()
	root.SetType(Section)
	source := newTestRule(confname.NewRegular("use_tls"), Boolean, root)
	source.SetOptional(true)
	newTestRule(confname.NewRegular("cert_path"), Text, root)

	sourcePath := confname.NewNamePath(confname.NewRegular("use_tls"))
	targetPath := confname.NewNamePath(confname.NewRegular("cert_path"))
	root.AddDependencyDefinition(NewDependencyDefinition(If,
		[]confname.NamePath{sourcePath}, []confname.NamePath{targetPath}, ""))

	if err := testDependencyDefinition(root); err == nil {
		t.Fatal("expected an error for a target that is neither optional nor defaulted")
	}
}

func TestTestDependencyDefinitionAcceptsOptionalTarget(t *testing.T) {
	root := NewRule()
	root.SetType(Section)
	source := newTestRule(confname.NewRegular("use_tls"), Boolean, root)
	source.SetOptional(true)
	target := newTestRule(confname.NewRegular("cert_path"), Text, root)
	target.SetOptional(true)

	sourcePath := confname.NewNamePath(confname.NewRegular("use_tls"))
	targetPath := confname.NewNamePath(confname.NewRegular("cert_path"))
	root.AddDependencyDefinition(NewDependencyDefinition(If,
		[]confname.NamePath{sourcePath}, []confname.NamePath{targetPath}, ""))

	if err := testDependencyDefinition(root); err != nil {
		t.Fatalf("unexpected error for a valid dependency definition: %v", err)
	}
}

func TestValidateRulesDefinitionWalksWholeTree(t *testing.T) {
	root := NewRule()
	root.SetType(Section)
	rule := newTestRule(confname.NewRegular("port"), Integer, root)
	rule.SetOptional(true)
	rule.SetDefaultValue(testInteger(8080))

	err := ValidateRulesDefinition(root)
	if err == nil {
		t.Fatal("expected the optional+default conflict deep in the tree to surface")
	}
	e, ok := AsError(err)
	if !ok {
		t.Fatalf("expected a *vr.Error, got %T", err)
	}
	if !e.HasLocation() {
		t.Error("expected the error to carry the offending rule's location")
	}
}

// TestValidateRulesDefinitionReportsOffendingRulePath checks, across a
// handful of malformed definitions, that the name path attached to the
// reported error (once seeded by validateRuleDefinition) identifies the
// rule the caller actually broke, not some unrelated sibling.
func TestValidateRulesDefinitionReportsOffendingRulePath(t *testing.T) {
	tests := []struct {
		name     string
		build    func() *Rule
		wantPath string
	}{
		{
			name: "optional and defaulted",
			build: func() *Rule {
				root := NewRule()
				root.SetType(Section)
				rule := newTestRule(confname.NewRegular("port"), Integer, root)
				rule.SetOptional(true)
				rule.SetDefaultValue(testInteger(8080))
				return root
			},
			wantPath: "port",
		},
		{
			name: "nested section offender",
			build: func() *Rule {
				root := NewRule()
				root.SetType(Section)
				server := newTestRule(confname.NewRegular("server"), Section, root)
				rule := newTestRule(confname.NewRegular("timeout"), Integer, server)
				rule.SetOptional(true)
				rule.SetDefaultValue(testInteger(30))
				return root
			},
			wantPath: "server.timeout",
		},
	}

	var gotPaths []string
	for _, tc := range tests {
		err := ValidateRulesDefinition(tc.build())
		e, ok := AsError(err)
		if !ok {
			t.Fatalf("%s: expected a *vr.Error, got %T", tc.name, err)
		}
		gotPaths = append(gotPaths, e.Path.String())
	}

	wantPaths := make([]string, len(tests))
	for i, tc := range tests {
		wantPaths[i] = tc.wantPath
	}

	if diff := cmp.Diff(wantPaths, gotPaths); diff != "" {
		t.Errorf("offending rule paths mismatch (-want +got):\n%s\nfull comparison:\n%s",
			diff, pretty.Compare(wantPaths, gotPaths))
	}
}
