// Package docio loads a YAML or TOML document and lifts it into a
// confvalue.Value tree.
//
// The real ELCL lexer/parser/source-I/O stack is out of scope (spec
// Non-goals): this package exists only so cmd/vrcheck has a concrete
// "a document already exists" input to validate, without
// reimplementing ELCL syntax. Neither pkg/vr nor its tests import this
// package; pkg/vr only ever consumes confvalue.Value.
package docio

import (
	"fmt"
	"os"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/erbsland-dev/erbsland-go-vr/pkg/confname"
	"github.com/erbsland-dev/erbsland-go-vr/pkg/confvalue"
)

// Format selects which decoder Load/LoadFile use to get a generic tree
// out of the source bytes before it is lifted into confvalue.Value.
type Format int

const (
	YAML Format = iota
	TOML
)

func (f Format) String() string {
	if f == TOML {
		return "toml"
	}
	return "yaml"
}

// LoadFile reads path and lifts its contents into a confvalue.Value
// tree rooted at a Document-typed value.
func LoadFile(path string, format Format) (*confvalue.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("docio: reading %s: %w", path, err)
	}
	return Load(data, format, path)
}

// Load decodes data with the decoder selected by format and lifts the
// result into a confvalue.Value tree rooted at a Document-typed value.
// sourceName is recorded on every
// lifted value's Location.
func Load(data []byte, format Format, sourceName string) (*confvalue.Value, error) {
	raw, err := decodeGeneric(data, format)
	if err != nil {
		return nil, fmt.Errorf("docio: %s: %w", sourceName, err)
	}
	mapping, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("docio: %s: the top-level document must be a mapping, found %T", sourceName, raw)
	}
	loc := confvalue.Location{SourceName: sourceName}
	doc := confvalue.NewDocument()
	for _, key := range sortedKeys(mapping) {
		child, err := liftValue(nameFromKey(key), mapping[key], loc)
		if err != nil {
			return nil, fmt.Errorf("docio: %s: %w", sourceName, err)
		}
		doc.AddValue(child)
	}
	return doc, nil
}

func decodeGeneric(data []byte, format Format) (any, error) {
	switch format {
	case YAML:
		var raw any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decoding yaml: %w", err)
		}
		return raw, nil
	case TOML:
		var raw map[string]any
		if _, err := toml.Decode(string(data), &raw); err != nil {
			return nil, fmt.Errorf("decoding toml: %w", err)
		}
		return raw, nil
	default:
		return nil, fmt.Errorf("unknown document format %d", format)
	}
}

// liftValue dispatches on the generic value's Go kind and produces the
// matching confvalue.Value node (spec.md section 6's scalar/structural
// split, applied by shape-probing rather than a schema).
func liftValue(name confname.Name, raw any, loc confvalue.Location) (*confvalue.Value, error) {
	switch v := raw.(type) {
	case map[string]any:
		return liftSection(name, v, loc)
	case []any:
		return liftList(name, v, loc)
	case nil:
		return nil, fmt.Errorf("'%s' has no value", name)
	default:
		return liftScalar(name, raw, loc)
	}
}

func liftSection(name confname.Name, mapping map[string]any, loc confvalue.Location) (*confvalue.Value, error) {
	section := confvalue.NewSectionWithNames(name)
	section.SetLocation(loc)
	for _, key := range sortedKeys(mapping) {
		child, err := liftValue(nameFromKey(key), mapping[key], loc)
		if err != nil {
			return nil, err
		}
		section.AddValue(child)
	}
	return section, nil
}

// liftList probes the first entry's shape to decide between a
// SectionList (entries are mappings) and a ValueList (entries are
// scalars); a list mixing the two shapes is rejected.
func liftList(name confname.Name, items []any, loc confvalue.Location) (*confvalue.Value, error) {
	if len(items) == 0 {
		empty := confvalue.NewValueList(name)
		empty.SetLocation(loc)
		return empty, nil
	}
	if _, ok := items[0].(map[string]any); ok {
		list := confvalue.NewSectionList(name)
		list.SetLocation(loc)
		for i, item := range items {
			mapping, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("'%s' mixes section and value entries in one list", name)
			}
			entry, err := liftSection(confname.NewIndex(int64(i)), mapping, loc)
			if err != nil {
				return nil, err
			}
			list.AddValue(entry)
		}
		return list, nil
	}
	list := confvalue.NewValueList(name)
	list.SetLocation(loc)
	for i, item := range items {
		entry, err := liftScalar(confname.NewIndex(int64(i)), item, loc)
		if err != nil {
			return nil, err
		}
		list.AddValue(entry)
	}
	return list, nil
}

// liftScalar probes raw's dynamic type and coerces it into exactly one
// of the engine's scalar container types. A YAML or TOML decoder can
// hand back any of several Go integer/float kinds for what is
// conceptually "one number" (int, int64, uint64, float32, ...); rather
// than special-casing every one, mapstructure's decode path folds them
// into the canonical int64/float64 destination.
func liftScalar(name confname.Name, raw any, loc confvalue.Location) (*confvalue.Value, error) {
	var val *confvalue.Value
	switch raw.(type) {
	case bool:
		v, err := decodeScalar[bool](raw)
		if err != nil {
			return nil, err
		}
		val = confvalue.NewBoolean(name, v)
	case string:
		v, err := decodeScalar[string](raw)
		if err != nil {
			return nil, err
		}
		val = confvalue.NewText(name, v)
	case float32, float64:
		v, err := decodeScalar[float64](raw)
		if err != nil {
			return nil, err
		}
		val = confvalue.NewFloat(name, v)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		v, err := decodeScalar[int64](raw)
		if err != nil {
			return nil, err
		}
		val = confvalue.NewInteger(name, v)
	default:
		return nil, fmt.Errorf("unsupported scalar type %T for '%s'", raw, name)
	}
	val.SetLocation(loc)
	return val, nil
}

func decodeScalar[T any](raw any) (T, error) {
	var out T
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{Result: &out})
	if err != nil {
		return out, err
	}
	if err := dec.Decode(raw); err != nil {
		return out, err
	}
	return out, nil
}

// nameFromKey turns a decoded mapping key into a Name, falling back to
// a Text name for spellings that are not valid Regular identifiers.
func nameFromKey(key string) confname.Name {
	if n, err := confname.NewRegularChecked(key); err == nil {
		return n
	}
	return confname.NewText(key)
}

func sortedKeys(mapping map[string]any) []string {
	keys := make([]string, 0, len(mapping))
	for k := range mapping {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
