package vr

import (
	"strings"

	"github.com/erbsland-dev/erbsland-go-vr/pkg/confname"
)

// KeyIndex collects the composite key values of one SectionList,
// built from a single KeyDefinition, used both to reject duplicate
// entries and to answer 'key' constraint lookups from elsewhere in the
// document (original_source: KeyIndex, referenced from
// DocumentValidator::buildKeyIndexAndValidateUniqueness).
type KeyIndex struct {
	name            confname.Name
	hasName         bool
	caseSensitivity CaseSensitivity
	partCount       int
	seenTuples      map[string]bool
	seenByPart      []map[string]bool
}

// NewKeyIndex creates an empty index for a key made of partCount
// value paths.
func NewKeyIndex(name confname.Name, hasName bool, cs CaseSensitivity, partCount int) *KeyIndex {
	byPart := make([]map[string]bool, partCount)
	for i := range byPart {
		byPart[i] = make(map[string]bool)
	}
	return &KeyIndex{
		name:            name,
		hasName:         hasName,
		caseSensitivity: cs,
		partCount:       partCount,
		seenTuples:      make(map[string]bool),
		seenByPart:      byPart,
	}
}

func (k *KeyIndex) Name() confname.Name { return k.name }
func (k *KeyIndex) HasName() bool       { return k.hasName }

func (k *KeyIndex) fold(s string) string {
	if k.caseSensitivity == CaseSensitive {
		return s
	}
	return strings.ToLower(s)
}

// TryAddKey records one entry's composite key, reporting false if an
// equal tuple (every part equal, after case folding) was already
// present.
func (k *KeyIndex) TryAddKey(parts []string) bool {
	folded := make([]string, len(parts))
	for i, p := range parts {
		folded[i] = k.fold(p)
	}
	joined := strings.Join(folded, "\x00")
	if k.seenTuples[joined] {
		return false
	}
	k.seenTuples[joined] = true
	for i, p := range folded {
		if i < len(k.seenByPart) {
			k.seenByPart[i][p] = true
		}
	}
	return true
}

// HasKey reports whether text equals the whole key of some indexed
// entry: the key itself for a single-part key, or the entry's parts
// joined by commas for a composite key.
func (k *KeyIndex) HasKey(text string) bool {
	if k.partCount == 0 {
		return false
	}
	if k.partCount > 1 {
		parts := strings.Split(text, ",")
		if len(parts) != k.partCount {
			return false
		}
		for i, p := range parts {
			parts[i] = k.fold(p)
		}
		return k.seenTuples[strings.Join(parts, "\x00")]
	}
	return k.seenByPart[0][k.fold(text)]
}

// HasKeyAt reports whether text equals the value at key-part index of
// some indexed entry (a 'key' constraint referencing one column of a
// composite key).
func (k *KeyIndex) HasKeyAt(text string, index int) bool {
	if index < 0 || index >= len(k.seenByPart) {
		return false
	}
	return k.seenByPart[index][k.fold(text)]
}
