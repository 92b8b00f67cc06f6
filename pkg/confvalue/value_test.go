package confvalue

import (
	"testing"

	"github.com/erbsland-dev/erbsland-go-vr/pkg/confname"
)

func buildTree() *Value {
	root := NewDocument()
	section := NewSectionWithNames(confname.NewRegular("server"))
	root.AddValue(section)
	section.AddValue(NewInteger(confname.NewRegular("port"), 8080))
	return root
}

func TestValueNamePath(t *testing.T) {
	root := buildTree()
	port := root.Value(confname.NewNamePath(confname.NewRegular("server"), confname.NewRegular("port")))
	if port == nil {
		t.Fatal("expected to resolve server.port")
	}
	if got, want := port.NamePath().String(), "server.port"; got != want {
		t.Errorf("NamePath() = %q, want %q", got, want)
	}
}

func TestValueHasValueMissing(t *testing.T) {
	root := buildTree()
	if root.HasValue(confname.NewNamePath(confname.NewRegular("missing"))) {
		t.Error("expected missing path to be absent")
	}
}

func TestRemoveDefaultValuesKeepsExplicit(t *testing.T) {
	root := NewSectionWithNames(confname.NewRegular("server"))
	explicit := NewInteger(confname.NewRegular("port"), 8080)
	def := NewInteger(confname.NewRegular("timeout"), 30)
	def.MarkAsDefaultValue()
	root.AddValue(explicit)
	root.AddValue(def)

	root.RemoveDefaultValues()

	if root.Size() != 1 {
		t.Fatalf("Size() = %d, want 1", root.Size())
	}
	if root.Children()[0] != explicit {
		t.Error("expected the explicit value to survive")
	}
}

func TestDeepCopyIsIndependent(t *testing.T) {
	root := buildTree()
	cp := root.DeepCopy()
	cp.Children()[0].Children()[0] = NewInteger(confname.NewRegular("port"), 9090)

	orig := root.Value(confname.NewNamePath(confname.NewRegular("server"), confname.NewRegular("port")))
	if orig.AsInteger() != 8080 {
		t.Errorf("original tree mutated through copy: AsInteger() = %d", orig.AsInteger())
	}
}

func TestMatrixJaggedRows(t *testing.T) {
	m := NewValueMatrix(confname.NewRegular("grid"))
	row0 := NewValueList(confname.NewIndex(0))
	row0.AddValue(NewInteger(confname.NewIndex(0), 1))
	row0.AddValue(NewInteger(confname.NewIndex(1), 2))
	row1 := NewValueList(confname.NewIndex(1))
	row1.AddValue(NewInteger(confname.NewIndex(0), 3))
	m.AddValue(row0)
	m.AddValue(row1)

	if m.Rows() != 2 {
		t.Fatalf("Rows() = %d, want 2", m.Rows())
	}
	if m.ColumnCount(0) != 2 || m.ColumnCount(1) != 1 {
		t.Errorf("ColumnCount mismatch: row0=%d row1=%d", m.ColumnCount(0), m.ColumnCount(1))
	}
	if m.IsDefined(1, 1) {
		t.Error("expected (1,1) to be undefined in a jagged matrix")
	}
	if cell := m.CellValue(0, 1); cell == nil || cell.AsInteger() != 2 {
		t.Errorf("CellValue(0,1) = %v, want 2", cell)
	}
}
