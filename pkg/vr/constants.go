package vr

import "github.com/erbsland-dev/erbsland-go-vr/pkg/confname"

// Reserved section names recognized at the document root and inside
// rule sections (original_source: RulesConstants.hpp).
var (
	reservedTemplate   = confname.NewRegular("vr_template")
	reservedName       = confname.NewRegular("vr_name")
	reservedDependency = confname.NewRegular("vr_dependency")
	reservedKey        = confname.NewRegular("vr_key")
	reservedEntry      = confname.NewRegular("vr_entry")
	reservedAny        = confname.NewRegular("vr_any")
)

// Attribute names shared by every rule section.
var (
	attrType          = confname.NewRegular("type")
	attrUseTemplate   = confname.NewRegular("use_template")
	attrCaseSensitive = confname.NewRegular("case_sensitive")
)

// Field names inside one 'vr_dependency' entry.
const (
	depMode   = "mode"
	depSource = "source"
	depTarget = "target"
	depError  = "error"
)

// Field names inside one 'vr_key' entry.
const (
	keyName = "name"
	keyKey  = "key"
)

// Constraint-name modifiers.
const (
	constraintSuffixError = "_error"
	constraintPrefixNot   = "not_"
)

const maxDependencyOrKeyPaths = 10
