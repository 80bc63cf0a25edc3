// Package omap implements an insertion-ordered string-keyed map that
// round-trips through YAML without disturbing key order.
//
// Equipment catalog records carry arbitrary authored keys that must be
// preserved exactly - value and order - across every transformation, so the
// standard unordered map is not usable as the record type. Map decodes from
// and encodes to yaml.v3 mapping nodes, keeping document order on the way in
// and writing keys back in iteration order on the way out.
//
// Nested values are decoded as *Map (mappings), []any (sequences), or plain
// Go scalars, so an entire catalog document becomes a tree of Maps and
// slices that can be inspected, rewritten, and serialized deterministically.
package omap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Map is a string-keyed map that preserves insertion order.
// The zero value is not usable; construct with New.
type Map struct {
	keys   []string
	values map[string]any
}

// New creates an empty ordered map.
func New() *Map {
	return &Map{values: make(map[string]any)}
}

// Len returns the number of keys.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order. The returned slice is a copy.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	if m == nil {
		return false
	}
	_, ok := m.values[key]
	return ok
}

// Get returns the value stored under key and whether it was present.
func (m *Map) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Set stores value under key. An existing key keeps its position;
// a new key is appended.
func (m *Map) Set(key string, value any) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Delete removes key if present. Remaining keys keep their relative order.
func (m *Map) Delete(key string) {
	if m == nil {
		return
	}
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// GetMap returns the nested Map stored under key, or nil if the key is
// absent or holds a non-mapping value.
func (m *Map) GetMap(key string) *Map {
	v, ok := m.Get(key)
	if !ok {
		return nil
	}
	mm, _ := v.(*Map)
	return mm
}

// GetSlice returns the sequence stored under key, or nil if the key is
// absent or holds a non-sequence value.
func (m *Map) GetSlice(key string) []any {
	v, ok := m.Get(key)
	if !ok {
		return nil
	}
	s, _ := v.([]any)
	return s
}

// GetString returns the string stored under key, or "" if the key is absent
// or holds a non-string value.
func (m *Map) GetString(key string) string {
	v, ok := m.Get(key)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetBool returns the boolean stored under key, or false if the key is
// absent or holds a non-boolean value.
func (m *Map) GetBool(key string) bool {
	v, ok := m.Get(key)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// Clone returns a deep copy of the map. Nested Maps and slices are copied;
// scalar values are shared (they are immutable).
func (m *Map) Clone() *Map {
	if m == nil {
		return nil
	}
	out := New()
	for _, k := range m.keys {
		out.Set(k, cloneValue(m.values[k]))
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case *Map:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// UnmarshalYAML decodes a YAML mapping node, preserving key order.
func (m *Map) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.AliasNode {
		return m.UnmarshalYAML(value.Alias)
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected mapping, got %s", value.Line, kindName(value.Kind))
	}
	m.keys = nil
	m.values = make(map[string]any, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		var key string
		if err := value.Content[i].Decode(&key); err != nil {
			return fmt.Errorf("line %d: mapping key: %w", value.Content[i].Line, err)
		}
		v, err := DecodeNode(value.Content[i+1])
		if err != nil {
			return err
		}
		m.Set(key, v)
	}
	return nil
}

// MarshalYAML encodes the map as a YAML mapping node in insertion order.
func (m *Map) MarshalYAML() (any, error) {
	return m.toNode()
}

func (m *Map) toNode() (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range m.keys {
		keyNode := &yaml.Node{}
		keyNode.SetString(k)
		valNode, err := encodeNode(m.values[k])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}

// DecodeNode converts a YAML node into the omap value model:
// mappings become *Map, sequences become []any, scalars become Go values.
func DecodeNode(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return DecodeNode(n.Content[0])
	case yaml.AliasNode:
		return DecodeNode(n.Alias)
	case yaml.MappingNode:
		m := New()
		if err := m.UnmarshalYAML(n); err != nil {
			return nil, err
		}
		return m, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := DecodeNode(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: scalar: %w", n.Line, err)
		}
		return v, nil
	}
}

func encodeNode(v any) (*yaml.Node, error) {
	switch t := v.(type) {
	case *Map:
		return t.toNode()
	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range t {
			child, err := encodeNode(e)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	default:
		node := &yaml.Node{}
		if err := node.Encode(v); err != nil {
			return nil, err
		}
		return node, nil
	}
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return "unknown"
}

// Encode serializes a value to YAML with 2-space indentation, the
// conventional layout for catalog documents.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CanonicalJSON serializes a value with all mapping keys sorted, producing
// an order-independent representation for content comparison. Two values
// with equal content but different key order canonicalize identically.
func CanonicalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCanonical(buf *bytes.Buffer, v any) error {
	switch t := v.(type) {
	case *Map:
		keys := t.Keys()
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			val, _ := t.Get(k)
			if err := writeCanonical(buf, val); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case []any:
		buf.WriteByte('[')
		for i, e := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, e); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		buf.Write(b)
		return nil
	}
}

// Equal reports whether two values have identical content, ignoring
// mapping key order.
func Equal(a, b any) bool {
	ab, err := CanonicalJSON(a)
	if err != nil {
		return false
	}
	bb, err := CanonicalJSON(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ab, bb)
}

// CountKeys counts mapping keys recursively throughout a value tree.
// Sequences contribute the counts of their elements; scalars contribute 0.
func CountKeys(v any) int {
	switch t := v.(type) {
	case *Map:
		n := t.Len()
		for _, k := range t.keys {
			n += CountKeys(t.values[k])
		}
		return n
	case []any:
		n := 0
		for _, e := range t {
			n += CountKeys(e)
		}
		return n
	default:
		return 0
	}
}
