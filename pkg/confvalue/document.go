package confvalue

import "github.com/erbsland-dev/erbsland-go-vr/pkg/confname"

// Document wraps the root Value of a configuration tree together with
// the few pieces of metadata the validator needs alongside it
// (spec.md section 4.D: the validator takes the rule root, a value
// tree, and a version).
type Document struct {
	root    *Value
	Version int64
}

// NewDocumentValue builds an empty Document rooted at a fresh Document
// value.
func NewDocumentValue(version int64) *Document {
	return &Document{root: NewDocument(), Version: version}
}

// WrapDocument wraps an already built root Value (typically assembled
// by pkg/docio) as a Document.
func WrapDocument(root *Value, version int64) *Document {
	return &Document{root: root, Version: version}
}

// Root returns the document's root value.
func (d *Document) Root() *Value { return d.root }

// Value looks up a value anywhere in the document by its absolute
// name path.
func (d *Document) Value(path confname.NamePath) *Value { return d.root.Value(path) }

// HasValue reports whether a value exists at path.
func (d *Document) HasValue(path confname.NamePath) bool { return d.root.HasValue(path) }

// Rows reports the number of entries of a SectionList or ValueList
// value, or the number of rows of a ValueMatrix.
func (v *Value) Rows() int { return len(v.children) }

// ColumnCount reports the number of columns in matrix row `row`. A row
// that is itself a ValueList contributes its own child count; any
// other row contributes exactly one column, matching the original
// engine's tolerance for a matrix row written as a bare scalar
// (original_source: MinMaxConstraint.cpp, MinMaxMatrixConstraint).
func (v *Value) ColumnCount(row int) int {
	if row < 0 || row >= len(v.children) {
		return 0
	}
	r := v.children[row]
	if r == nil {
		return 0
	}
	if r.Type().IsList() {
		return len(r.children)
	}
	return 1
}

// IsDefined reports whether the cell at (row, col) exists. Matrix
// literals may be jagged, so a row can have fewer columns than its
// neighbors, and either index may fall outside a sparsely populated
// row.
func (v *Value) IsDefined(row, col int) bool {
	if row < 0 || row >= len(v.children) {
		return false
	}
	r := v.children[row]
	if r == nil {
		return false
	}
	if !r.Type().IsList() {
		return col == 0
	}
	return col >= 0 && col < len(r.children) && r.children[col] != nil
}

// CellValue returns the scalar value at (row, col) of a matrix, or nil
// if undefined.
func (v *Value) CellValue(row, col int) *Value {
	if !v.IsDefined(row, col) {
		return nil
	}
	r := v.children[row]
	if !r.Type().IsList() {
		return r
	}
	return r.children[col]
}
