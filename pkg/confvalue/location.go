package confvalue

import "fmt"

// Location identifies a source position for diagnostics. The real
// source-I/O layer that produces these is out of scope; this is a
// plain data holder.
type Location struct {
	SourceName string
	Line       int
	Column     int
}

// IsUndefined reports whether the location carries no information.
func (l Location) IsUndefined() bool {
	return l.SourceName == "" && l.Line == 0 && l.Column == 0
}

// String renders the location for error messages.
func (l Location) String() string {
	if l.IsUndefined() {
		return "unknown location"
	}
	if l.SourceName == "" {
		return fmt.Sprintf("line %d, column %d", l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d:%d", l.SourceName, l.Line, l.Column)
}
