package vr

import (
	"testing"

	"github.com/erbsland-dev/erbsland-go-vr/pkg/confname"
	"github.com/erbsland-dev/erbsland-go-vr/pkg/confvalue"
)

func TestRulesBuilderAddRuleAndValidate(t *testing.T) {
	b := NewRulesBuilder()
	if err := b.AddRule(confname.NewNamePath(confname.NewRegular("port")), Integer,
		DefaultValue(testInteger(8080)), Optional()); err != nil {
		t.Fatalf("AddRule itself only assembles the rule, it should not fail: %v", err)
	}
	if _, err := b.TakeRules(); err == nil {
		t.Fatal("expected TakeRules to reject a rule that is both optional and defaulted")
	}

	b.Reset()
	if err := b.AddRule(confname.NewNamePath(confname.NewRegular("port")), Integer,
		DefaultValue(testInteger(8080))); err != nil {
		t.Fatalf("AddRule failed: %v", err)
	}
	rules, err := b.TakeRules()
	if err != nil {
		t.Fatalf("TakeRules failed: %v", err)
	}

	doc := confvalue.NewDocument()
	if err := rules.Validate(doc, 0); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
	got := doc.Value(confname.NewNamePath(confname.NewRegular("port")))
	if got == nil || got.AsInteger() != 8080 {
		t.Fatalf("expected the default port value to be inserted, got %v", got)
	}
}

func TestRulesBuilderRejectsUndefinedType(t *testing.T) {
	b := NewRulesBuilder()
	if err := b.AddRule(confname.NewNamePath(confname.NewRegular("port")), Undefined); err == nil {
		t.Fatal("expected an error for an undefined rule type")
	}
}

func TestRulesBuilderRejectsTextOrIndexNamePath(t *testing.T) {
	b := NewRulesBuilder()
	textPath := confname.NewNamePath(confname.NewText("port"))
	if err := b.AddRule(textPath, Integer); err == nil {
		t.Fatal("expected an error for a name-path containing a text name")
	}
}

func TestRulesBuilderAddAlternative(t *testing.T) {
	b := NewRulesBuilder()
	if err := b.AddAlternative(confname.NewNamePath(confname.NewRegular("listen")), Integer); err != nil {
		t.Fatalf("AddAlternative failed: %v", err)
	}
	if err := b.AddAlternative(confname.NewNamePath(confname.NewRegular("listen")), Text); err != nil {
		t.Fatalf("AddAlternative failed: %v", err)
	}
	rules, err := b.TakeRules()
	if err != nil {
		t.Fatalf("TakeRules failed: %v", err)
	}
	alt := rules.RuleForNamePath(confname.NewNamePath(confname.NewRegular("listen")), 0)
	if alt == nil || alt.Type() != Alternatives || len(alt.Children()) != 2 {
		t.Fatalf("expected a two-way alternatives rule, got %+v", alt)
	}
}

func TestRulesBuilderKeyDefinitionAndReference(t *testing.T) {
	b := NewRulesBuilder()
	mustAdd := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	mustAdd(b.AddRule(confname.NewNamePath(confname.NewRegular("servers")), SectionList))
	mustAdd(b.AddRule(confname.NewNamePath(confname.NewRegular("servers"), confname.NewRegular("vr_entry")), Section))
	mustAdd(b.AddRule(confname.NewNamePath(confname.NewRegular("servers"), confname.NewRegular("vr_entry"), confname.NewRegular("id")), Text))
	mustAdd(b.AddRule(confname.NewNamePath(confname.NewRegular("default_server")), Text, KeyReference("by_id")))

	if err := b.AddKeyDefinition(confname.NamePath{}, "by_id",
		[]string{"servers.vr_entry.id"}, CaseInsensitive); err != nil {
		t.Fatalf("AddKeyDefinition failed: %v", err)
	}

	rules, err := b.TakeRules()
	if err != nil {
		t.Fatalf("TakeRules failed: %v", err)
	}

	doc := confvalue.NewDocument()
	list := confvalue.NewSectionList(confname.NewRegular("servers"))
	entry := confvalue.NewSectionWithNames(confname.NewIndex(0))
	entry.AddValue(confvalue.NewText(confname.NewRegular("id"), "a"))
	list.AddValue(entry)
	doc.AddValue(list)
	doc.AddValue(confvalue.NewText(confname.NewRegular("default_server"), "a"))

	if err := rules.Validate(doc, 0); err != nil {
		t.Fatalf("unexpected error for a valid key reference: %v", err)
	}

	doc2 := confvalue.NewDocument()
	doc2.AddValue(list.DeepCopy())
	doc2.AddValue(confvalue.NewText(confname.NewRegular("default_server"), "missing"))
	if err := rules.Validate(doc2, 0); err == nil {
		t.Fatal("expected an error for a key reference with no matching entry")
	}
}

func TestRulesBuilderDependencyDefinition(t *testing.T) {
	// The dependency definition is attached to the "network" section, not
	// the builder's root: a section's dependency definitions only come
	// into play for the document validator while descending into that
	// section's value, a step skipped for the root value itself.
	b := NewRulesBuilder()
	networkPath := confname.NewNamePath(confname.NewRegular("network"))
	if err := b.AddRule(networkPath, Section); err != nil {
		t.Fatalf("AddRule failed: %v", err)
	}
	if err := b.AddRule(confname.NewNamePath(confname.NewRegular("network"), confname.NewRegular("use_tls")), Boolean, Optional()); err != nil {
		t.Fatalf("AddRule failed: %v", err)
	}
	if err := b.AddRule(confname.NewNamePath(confname.NewRegular("network"), confname.NewRegular("cert_path")), Text, Optional()); err != nil {
		t.Fatalf("AddRule failed: %v", err)
	}
	if err := b.AddDependencyDefinition(networkPath, If,
		[]string{"use_tls"}, []string{"cert_path"}, ""); err != nil {
		t.Fatalf("AddDependencyDefinition failed: %v", err)
	}
	rules, err := b.TakeRules()
	if err != nil {
		t.Fatalf("TakeRules failed: %v", err)
	}

	doc := confvalue.NewDocument()
	networkValue := confvalue.NewSectionWithNames(confname.NewRegular("network"))
	networkValue.AddValue(confvalue.NewBoolean(confname.NewRegular("use_tls"), true))
	doc.AddValue(networkValue)
	if err := rules.Validate(doc, 0); err == nil {
		t.Fatal("expected an error: use_tls is set but cert_path is missing")
	}
}
