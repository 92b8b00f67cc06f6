package vr

import (
	"github.com/erbsland-dev/erbsland-go-vr/pkg/confname"
	"github.com/erbsland-dev/erbsland-go-vr/pkg/confvalue"
)

// KeyDefinition names one (possibly composite) key for entries of a
// SectionList: the sibling value paths whose combined text forms the
// entry's identity, which must be unique among the list's entries
// (spec.md section 3.6). It is declared on a Section rule (or the
// document root) whose key paths lead into a section list below it; one
// such rule may carry more than one KeyDefinition when several
// independent uniqueness constraints apply.
type KeyDefinition struct {
	name            confname.Name
	hasName         bool
	keys            []confname.NamePath
	caseSensitivity CaseSensitivity
	location        confvalue.Location
}

// NewKeyDefinition builds a KeyDefinition. Pass hasName=false for an
// anonymous (the common, single-key) definition.
func NewKeyDefinition(name confname.Name, hasName bool, keys []confname.NamePath, cs CaseSensitivity, loc confvalue.Location) *KeyDefinition {
	return &KeyDefinition{name: name, hasName: hasName, keys: keys, caseSensitivity: cs, location: loc}
}

func (k *KeyDefinition) Name() confname.Name        { return k.name }
func (k *KeyDefinition) HasName() bool              { return k.hasName }
func (k *KeyDefinition) Keys() []confname.NamePath  { return k.keys }
func (k *KeyDefinition) CaseSensitivity() CaseSensitivity { return k.caseSensitivity }
func (k *KeyDefinition) Location() confvalue.Location { return k.location }
