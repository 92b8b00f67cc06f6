package docio

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/erbsland-dev/erbsland-go-vr/pkg/confname"
	"github.com/erbsland-dev/erbsland-go-vr/pkg/confvalue"
)

// snapshot strips locations and parent back-pointers so two trees built
// from different source formats (YAML vs. TOML) can be compared
// structurally with go-cmp without fighting unexported fields.
type snapshot struct {
	Name     string
	Type     confvalue.ValueType
	Scalar   any
	Children []snapshot
}

func snapshotOf(v *confvalue.Value) snapshot {
	s := snapshot{Name: v.Name().String(), Type: v.Type()}
	switch v.Type() {
	case confvalue.Integer:
		s.Scalar = v.AsInteger()
	case confvalue.Float:
		s.Scalar = v.AsFloat()
	case confvalue.Boolean:
		s.Scalar = v.AsBoolean()
	case confvalue.Text:
		s.Scalar = v.AsText()
	}
	for _, c := range v.Children() {
		s.Children = append(s.Children, snapshotOf(c))
	}
	return s
}

func TestLoadYAMLLiftsScalarsAndSections(t *testing.T) {
	data := []byte(`
server:
  port: 8080
  use_tls: true
  name: "edge-1"
`)
	doc, err := Load(data, YAML, "config.yaml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	port := doc.Value(confname.NewNamePath(confname.NewRegular("server"), confname.NewRegular("port")))
	if port == nil || port.Type() != confvalue.Integer || port.AsInteger() != 8080 {
		t.Fatalf("expected server.port to be an integer 8080, got %+v", port)
	}
	useTLS := doc.Value(confname.NewNamePath(confname.NewRegular("server"), confname.NewRegular("use_tls")))
	if useTLS == nil || useTLS.Type() != confvalue.Boolean || !useTLS.AsBoolean() {
		t.Fatalf("expected server.use_tls to be boolean true, got %+v", useTLS)
	}
	name := doc.Value(confname.NewNamePath(confname.NewRegular("server"), confname.NewRegular("name")))
	if name == nil || name.Type() != confvalue.Text || name.AsText() != "edge-1" {
		t.Fatalf("expected server.name to be text 'edge-1', got %+v", name)
	}
}

func TestLoadYAMLAndTOMLProduceEquivalentTrees(t *testing.T) {
	yamlData := []byte(`
server:
  port: 8080
  use_tls: true
`)
	tomlData := []byte(`
[server]
port = 8080
use_tls = true
`)
	fromYAML, err := Load(yamlData, YAML, "config.yaml")
	if err != nil {
		t.Fatalf("Load(yaml) failed: %v", err)
	}
	fromTOML, err := Load(tomlData, TOML, "config.toml")
	if err != nil {
		t.Fatalf("Load(toml) failed: %v", err)
	}
	if diff := cmp.Diff(snapshotOf(fromYAML), snapshotOf(fromTOML), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("yaml and toml trees differ (-yaml +toml):\n%s", diff)
	}
}

func TestLoadLiftsValueListAndSectionList(t *testing.T) {
	data := []byte(`
tags:
  - a
  - b
servers:
  - id: one
  - id: two
`)
	doc, err := Load(data, YAML, "config.yaml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	tags := doc.Value(confname.NewNamePath(confname.NewRegular("tags")))
	if tags == nil || tags.Type() != confvalue.ValueList || tags.Size() != 2 {
		t.Fatalf("expected a 2-element value list, got %+v", tags)
	}
	servers := doc.Value(confname.NewNamePath(confname.NewRegular("servers")))
	if servers == nil || servers.Type() != confvalue.SectionList || servers.Size() != 2 {
		t.Fatalf("expected a 2-entry section list, got %+v", servers)
	}
	first := servers.Value(confname.NewNamePath(confname.NewIndex(0), confname.NewRegular("id")))
	if first == nil || first.AsText() != "one" {
		t.Fatalf("expected servers[0].id == 'one', got %+v", first)
	}
}

func TestLoadRejectsNonMappingTopLevel(t *testing.T) {
	if _, err := Load([]byte("- a\n- b\n"), YAML, "config.yaml"); err == nil {
		t.Fatal("expected an error for a non-mapping top-level document")
	}
}

func TestLoadRejectsMixedListEntries(t *testing.T) {
	data := []byte(`
mixed:
  - a
  - id: one
`)
	if _, err := Load(data, YAML, "config.yaml"); err == nil {
		t.Fatal("expected an error for a list mixing section and scalar entries")
	}
}
