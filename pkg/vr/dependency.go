package vr

import (
	"github.com/erbsland-dev/erbsland-go-vr/pkg/confname"
	"github.com/erbsland-dev/erbsland-go-vr/pkg/confvalue"
)

// DependencyMode is the logical relationship a DependencyDefinition
// enforces between its source and target values (spec.md section 3.7).
type DependencyMode int

const (
	DependencyUndefined DependencyMode = iota
	// If: if any source is present, at least one target must be present.
	If
	// IfNot: if any source is present, every target must be absent.
	IfNot
	// Or: at least one of source or target must be present.
	Or
	// Xor: exactly one of source or target is present, never both,
	// never neither.
	Xor
	// Xnor: source and target are both present or both absent.
	Xnor
	// And: source and target must both be present.
	And
)

var dependencyModeNames = map[DependencyMode]string{
	If:   "if",
	IfNot: "if_not",
	Or:   "or",
	Xor:  "xor",
	Xnor: "xnor",
	And:  "and",
}

var dependencyModeFromName = func() map[string]DependencyMode {
	m := make(map[string]DependencyMode, len(dependencyModeNames))
	for mode, name := range dependencyModeNames {
		m[name] = mode
	}
	return m
}()

func (m DependencyMode) String() string {
	if s, ok := dependencyModeNames[m]; ok {
		return s
	}
	return "undefined"
}

// DependencyModeFromText resolves the 'mode' attribute text of a
// 'vr_dependency' definition.
func DependencyModeFromText(text string) DependencyMode {
	if m, ok := dependencyModeFromName[text]; ok {
		return m
	}
	return DependencyUndefined
}

// IsValid reports whether the presence/absence combination of source
// and target values satisfies this mode (original_source:
// DocumentValidator::validateDependencies's mode dispatch, inverted
// into a single predicate per mode).
func (m DependencyMode) IsValid(hasSource, hasTarget bool) bool {
	switch m {
	case If:
		return !hasSource || hasTarget
	case IfNot:
		return !hasSource || !hasTarget
	case Or:
		return hasSource || hasTarget
	case Xor:
		return hasSource != hasTarget
	case Xnor:
		return hasSource == hasTarget
	case And:
		return hasSource && hasTarget
	default:
		return true
	}
}

// DependencyDefinition cross-checks the presence of one set of values
// (source) against another (target) within the same section
// (original_source: DependencyDefinition, processDependencies).
type DependencyDefinition struct {
	mode         DependencyMode
	sourcePaths  []confname.NamePath
	targetPaths  []confname.NamePath
	errorMessage string
	location     confvalue.Location
}

// NewDependencyDefinition builds a DependencyDefinition.
func NewDependencyDefinition(mode DependencyMode, source, target []confname.NamePath, errorMessage string) *DependencyDefinition {
	return &DependencyDefinition{mode: mode, sourcePaths: source, targetPaths: target, errorMessage: errorMessage}
}

func (d *DependencyDefinition) Mode() DependencyMode          { return d.mode }
func (d *DependencyDefinition) SourcePaths() []confname.NamePath { return d.sourcePaths }
func (d *DependencyDefinition) TargetPaths() []confname.NamePath { return d.targetPaths }
func (d *DependencyDefinition) ErrorMessage() string          { return d.errorMessage }
func (d *DependencyDefinition) HasErrorMessage() bool         { return d.errorMessage != "" }
func (d *DependencyDefinition) Location() confvalue.Location    { return d.location }
func (d *DependencyDefinition) SetLocation(l confvalue.Location) { d.location = l }
