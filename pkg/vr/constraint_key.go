package vr

import (
	"github.com/erbsland-dev/erbsland-go-vr/pkg/confname"
	"github.com/erbsland-dev/erbsland-go-vr/pkg/confvalue"
)

// KeyConstraint holds the references of a 'key' constraint: each names
// a 'vr_key' definition of an enclosing section, optionally followed by
// the index of one key column. A value carrying it must match a key
// collected from that definition's section list. It never runs a value
// check itself: pass 2 (validateKeyConstraint) tests it against the
// stack of key indexes, and validateConstraints skips it in the
// generic constraint loop, the same way
// original_source's validateConstraints skips ConstraintType::Key.
type KeyConstraint struct {
	base
	keyReferences []confname.NamePath
}

func (c *KeyConstraint) KeyReferences() []confname.NamePath { return c.keyReferences }

func (c *KeyConstraint) Validate(*ValidationContext) error { return nil }

func handleKeyConstraint(ctx constraintHandlerContext) (Constraint, error) {
	node := ctx.Node
	var texts []string
	switch node.Type() {
	case confvalue.Text:
		texts = []string{node.AsText()}
	case confvalue.ValueList:
		for _, child := range node.Children() {
			if child.Type() != confvalue.Text {
				return nil, NewValidationError("the 'key' value must be a text or a list of text with the referenced keys")
			}
			texts = append(texts, child.AsText())
		}
	default:
		return nil, NewValidationError("the 'key' value must be a text or a list of text with the referenced keys")
	}
	refs := make([]confname.NamePath, len(texts))
	for i, t := range texts {
		refs[i] = confname.ParseNamePath(t)
	}
	return &KeyConstraint{base: base{typ: Key}, keyReferences: refs}, nil
}
