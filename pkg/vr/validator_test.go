package vr

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/kylelemons/godebug/pretty"

	"github.com/erbsland-dev/erbsland-go-vr/pkg/confname"
	"github.com/erbsland-dev/erbsland-go-vr/pkg/confvalue"
)

// valueShape is a comparable snapshot of a validated value tree: enough
// to assert on structure and scalar payload without fighting Value's
// unexported fields directly with go-cmp.
type valueShape struct {
	Name     string
	Type     confvalue.ValueType
	Scalar   any
	Default  bool
	Children []valueShape
}

func shapeOf(v *confvalue.Value) valueShape {
	s := valueShape{Name: v.Name().String(), Type: v.Type(), Default: v.IsDefaultValue()}
	switch v.Type() {
	case confvalue.Integer:
		s.Scalar = v.AsInteger()
	case confvalue.Boolean:
		s.Scalar = v.AsBoolean()
	case confvalue.Text:
		s.Scalar = v.AsText()
	}
	for _, c := range v.Children() {
		s.Children = append(s.Children, shapeOf(c))
	}
	return s
}

func TestValidateInsertsMissingDefault(t *testing.T) {
	root := NewRule()
	root.SetType(Section)
	port := newTestRule(confname.NewRegular("port"), Integer, root)
	port.SetDefaultValue(testInteger(8080))

	doc := confvalue.NewDocument()

	if err := NewDocumentValidator(root, doc, 0).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := doc.Value(confname.NewNamePath(confname.NewRegular("port")))
	if got == nil {
		t.Fatal("expected a default 'port' value to be inserted")
	}
	if got.AsInteger() != 8080 {
		t.Errorf("AsInteger() = %d, want 8080", got.AsInteger())
	}
	if !got.IsDefaultValue() {
		t.Error("expected the inserted value to be marked as a default")
	}
}

func TestValidateMissingRequiredValueFails(t *testing.T) {
	root := NewRule()
	root.SetType(Section)
	newTestRule(confname.NewRegular("port"), Integer, root)

	doc := confvalue.NewDocument()

	err := NewDocumentValidator(root, doc, 0).Validate()
	if err == nil {
		t.Fatal("expected an error for a missing required value")
	}
}

func TestValidateOptionalValueMayBeAbsent(t *testing.T) {
	root := NewRule()
	root.SetType(Section)
	port := newTestRule(confname.NewRegular("port"), Integer, root)
	port.SetOptional(true)

	doc := confvalue.NewDocument()

	if err := NewDocumentValidator(root, doc, 0).Validate(); err != nil {
		t.Fatalf("unexpected error for an absent optional value: %v", err)
	}
}

func TestValidateWrongTypeFails(t *testing.T) {
	root := NewRule()
	root.SetType(Section)
	newTestRule(confname.NewRegular("port"), Integer, root)

	doc := confvalue.NewDocument()
	doc.AddValue(confvalue.NewText(confname.NewRegular("port"), "not-a-number"))

	err := NewDocumentValidator(root, doc, 0).Validate()
	if err == nil {
		t.Fatal("expected an error for a type mismatch")
	}
}

func TestValidateAlternativesPicksMatchingType(t *testing.T) {
	root := NewRule()
	root.SetType(Section)
	alt := newTestRule(confname.NewRegular("listen"), Alternatives, root)
	newTestRule(confname.NewIndex(0), Integer, alt)
	newTestRule(confname.NewIndex(1), Text, alt)

	doc := confvalue.NewDocument()
	doc.AddValue(confvalue.NewText(confname.NewRegular("listen"), "unix:/tmp/sock"))

	if err := NewDocumentValidator(root, doc, 0).Validate(); err != nil {
		t.Fatalf("unexpected error for a matching alternative: %v", err)
	}

	doc2 := confvalue.NewDocument()
	doc2.AddValue(confvalue.NewBoolean(confname.NewRegular("listen"), true))
	if err := NewDocumentValidator(root, doc2, 0).Validate(); err == nil {
		t.Fatal("expected an error when no alternative matches")
	}
}

func buildServerListRules() (*Rule, confname.NamePath) {
	root := NewRule()
	root.SetType(Section)
	list := newTestRule(confname.NewRegular("servers"), SectionList, root)
	entry := newTestRule(confname.NewRegular("vr_entry"), Section, list)
	newTestRule(confname.NewRegular("id"), Text, entry)

	keyPath := confname.NewNamePath(confname.NewRegular("servers"), confname.NewRegular("vr_entry"), confname.NewRegular("id"))
	root.AddKeyDefinition(NewKeyDefinition(confname.Name{}, false, []confname.NamePath{keyPath}, CaseInsensitive, root.Location()))
	return root, keyPath
}

func serverEntry(id string) *confvalue.Value {
	entry := confvalue.NewSectionWithNames(confname.NewIndex(0))
	entry.AddValue(confvalue.NewText(confname.NewRegular("id"), id))
	return entry
}

func TestValidateRejectsDuplicateKeys(t *testing.T) {
	root, _ := buildServerListRules()

	doc := confvalue.NewDocument()
	list := confvalue.NewSectionList(confname.NewRegular("servers"))
	list.AddValue(serverEntry("a"))
	list.AddValue(serverEntry("a"))
	doc.AddValue(list)

	err := NewDocumentValidator(root, doc, 0).Validate()
	if err == nil {
		t.Fatal("expected an error for a duplicate key in the section list")
	}
}

func TestValidateAcceptsUniqueKeys(t *testing.T) {
	root, _ := buildServerListRules()

	doc := confvalue.NewDocument()
	list := confvalue.NewSectionList(confname.NewRegular("servers"))
	list.AddValue(serverEntry("a"))
	list.AddValue(serverEntry("b"))
	doc.AddValue(list)

	if err := NewDocumentValidator(root, doc, 0).Validate(); err != nil {
		t.Fatalf("unexpected error for unique keys: %v", err)
	}
}

func TestValidateDependencyIfModeRequiresTarget(t *testing.T) {
	// The dependency definition is attached to an inner section rule, not
	// the document root: validatePass1 only learns about a section's
	// dependency definitions while descending into its value, a step that
	// is skipped for the root value itself.
	root := NewRule()
	root.SetType(Section)
	network := newTestRule(confname.NewRegular("network"), Section, root)
	source := newTestRule(confname.NewRegular("use_tls"), Boolean, network)
	source.SetOptional(true)
	target := newTestRule(confname.NewRegular("cert_path"), Text, network)
	target.SetOptional(true)

	sourcePath := confname.NewNamePath(confname.NewRegular("use_tls"))
	targetPath := confname.NewNamePath(confname.NewRegular("cert_path"))
	network.AddDependencyDefinition(NewDependencyDefinition(If,
		[]confname.NamePath{sourcePath}, []confname.NamePath{targetPath}, ""))

	doc := confvalue.NewDocument()
	networkValue := confvalue.NewSectionWithNames(confname.NewRegular("network"))
	networkValue.AddValue(confvalue.NewBoolean(confname.NewRegular("use_tls"), true))
	doc.AddValue(networkValue)

	err := NewDocumentValidator(root, doc, 0).Validate()
	if err == nil {
		t.Fatal("expected an error: use_tls is set but cert_path is missing")
	}

	doc2 := confvalue.NewDocument()
	networkValue2 := confvalue.NewSectionWithNames(confname.NewRegular("network"))
	networkValue2.AddValue(confvalue.NewBoolean(confname.NewRegular("use_tls"), true))
	networkValue2.AddValue(confvalue.NewText(confname.NewRegular("cert_path"), "/etc/tls/cert.pem"))
	doc2.AddValue(networkValue2)
	if err := NewDocumentValidator(root, doc2, 0).Validate(); err != nil {
		t.Fatalf("unexpected error when both source and target are set: %v", err)
	}

	doc3 := confvalue.NewDocument()
	doc3.AddValue(confvalue.NewSectionWithNames(confname.NewRegular("network")))
	if err := NewDocumentValidator(root, doc3, 0).Validate(); err != nil {
		t.Fatalf("unexpected error when neither source nor target are set: %v", err)
	}
}

func TestValidateInsertsDefaultsIntoNestedSections(t *testing.T) {
	root := NewRule()
	root.SetType(Section)
	server := newTestRule(confname.NewRegular("server"), Section, root)
	port := newTestRule(confname.NewRegular("port"), Integer, server)
	port.SetDefaultValue(testInteger(8080))
	useTLS := newTestRule(confname.NewRegular("use_tls"), Boolean, server)
	useTLS.SetDefaultValue(confvalue.NewBoolean(confname.Name{}, false))

	doc := confvalue.NewDocument()
	doc.AddValue(confvalue.NewSectionWithNames(confname.NewRegular("server")))

	if err := NewDocumentValidator(root, doc, 0).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := valueShape{
		Name: "",
		Type: confvalue.Document,
		Children: []valueShape{
			{
				Name: "server",
				Type: confvalue.SectionWithNames,
				Children: []valueShape{
					{Name: "port", Type: confvalue.Integer, Scalar: int64(8080), Default: true},
					{Name: "use_tls", Type: confvalue.Boolean, Scalar: false, Default: true},
				},
			},
		},
	}
	got := shapeOf(doc)
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("validated tree shape mismatch (-want +got):\n%s\nfull trees:\n%s", diff, pretty.Compare(want, got))
	}
}

func TestRulesValidateRunsDefinitionValidationFirst(t *testing.T) {
	rules := NewRules()
	rule := NewRule()
	rule.SetType(Integer)
	rule.SetRuleNamePath(confname.NewNamePath(confname.NewRegular("port")))
	rule.SetTargetNamePath(rule.RuleNamePath())
	rule.SetOptional(true)
	rule.SetDefaultValue(testInteger(8080))
	if err := rules.AddRule(rule); err != nil {
		t.Fatalf("AddRule failed: %v", err)
	}

	doc := confvalue.NewDocument()
	err := rules.Validate(doc, 0)
	if err == nil {
		t.Fatal("expected the malformed rules document (optional+default) to be rejected before validating the value tree")
	}
}
