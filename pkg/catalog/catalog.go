// Package catalog implements the in-memory equipment catalog: the parsed
// YAML document, lookup by identifier or display name, and the label
// repository that feeds placement candidates to the resolver.
//
// A catalog document is a mapping with a top-level equipment_definitions
// sequence. Records are ordered maps (pkg/omap) so every authored key
// survives a load/transform/save cycle untouched. The catalog itself is an
// explicit value constructed by a loader; there is no process-wide registry.
package catalog

import (
	"strings"

	"github.com/cedtools/equiplink/pkg/omap"
)

// Well-known record keys.
const (
	KeyDefinitions  = "equipment_definitions"
	KeyID           = "id"
	KeyName         = "name"
	KeyLinkedSets   = "linked_sets"
	KeyLinkedElems  = "linked_element_definitions"
	KeyLabel        = "label"
	KeyParentAnchor = "is_parent_anchor"
)

// Catalog wraps a parsed catalog document. Top-level keys other than
// equipment_definitions are preserved and written back unchanged.
type Catalog struct {
	doc *omap.Map
}

// New creates an empty catalog with an empty equipment_definitions sequence.
func New() *Catalog {
	doc := omap.New()
	doc.Set(KeyDefinitions, []any{})
	return &Catalog{doc: doc}
}

// FromDocument wraps an already-decoded document. A nil document yields an
// empty catalog.
func FromDocument(doc *omap.Map) *Catalog {
	if doc == nil {
		return New()
	}
	if !doc.Has(KeyDefinitions) {
		doc.Set(KeyDefinitions, []any{})
	}
	return &Catalog{doc: doc}
}

// Document returns the underlying document mapping.
func (c *Catalog) Document() *omap.Map {
	return c.doc
}

// Definitions returns the equipment definition records in document order.
// Entries of the sequence that are not mappings are skipped.
func (c *Catalog) Definitions() []*omap.Map {
	if c == nil {
		return nil
	}
	raw := c.doc.GetSlice(KeyDefinitions)
	out := make([]*omap.Map, 0, len(raw))
	for _, v := range raw {
		if m, ok := v.(*omap.Map); ok {
			out = append(out, m)
		}
	}
	return out
}

// SetDefinitions replaces the equipment_definitions sequence.
func (c *Catalog) SetDefinitions(defs []*omap.Map) {
	raw := make([]any, len(defs))
	for i, d := range defs {
		raw[i] = d
	}
	c.doc.Set(KeyDefinitions, raw)
}

// Append adds a definition at the end of the sequence.
func (c *Catalog) Append(def *omap.Map) {
	raw := c.doc.GetSlice(KeyDefinitions)
	c.doc.Set(KeyDefinitions, append(raw, def))
}

// Len returns the number of definition records.
func (c *Catalog) Len() int {
	return len(c.Definitions())
}

// Normalize folds a display name or identifier for comparison:
// surrounding whitespace is trimmed and case is ignored.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ID returns a definition's identifier, trimmed.
func ID(def *omap.Map) string {
	return strings.TrimSpace(def.GetString(KeyID))
}

// Name returns a definition's display name, falling back to its identifier
// when the name is missing or blank.
func Name(def *omap.Map) string {
	if n := strings.TrimSpace(def.GetString(KeyName)); n != "" {
		return n
	}
	return ID(def)
}

// FindByID returns the first definition whose id matches equipmentID after
// normalization, or nil when no definition matches or the id is blank.
// Unresolved ids are routine in authoring data and are never an error.
func (c *Catalog) FindByID(equipmentID string) *omap.Map {
	target := Normalize(equipmentID)
	if target == "" {
		return nil
	}
	for _, def := range c.Definitions() {
		if Normalize(def.GetString(KeyID)) == target {
			return def
		}
	}
	return nil
}

// FindByName returns the first definition whose name (or id, when the name
// is missing) matches name after normalization, or nil.
func (c *Catalog) FindByName(name string) *omap.Map {
	target := Normalize(name)
	if target == "" {
		return nil
	}
	for _, def := range c.Definitions() {
		if Normalize(Name(def)) == target {
			return def
		}
	}
	return nil
}

// LinkedSets returns a definition's linked sets in order, skipping
// non-mapping entries.
func LinkedSets(def *omap.Map) []*omap.Map {
	raw := def.GetSlice(KeyLinkedSets)
	out := make([]*omap.Map, 0, len(raw))
	for _, v := range raw {
		if m, ok := v.(*omap.Map); ok {
			out = append(out, m)
		}
	}
	return out
}

// LinkedElements returns a linked set's element definitions in order,
// skipping non-mapping entries.
func LinkedElements(set *omap.Map) []*omap.Map {
	raw := set.GetSlice(KeyLinkedElems)
	out := make([]*omap.Map, 0, len(raw))
	for _, v := range raw {
		if m, ok := v.(*omap.Map); ok {
			out = append(out, m)
		}
	}
	return out
}

// IsParentAnchor reports whether a linked element is flagged as a parent
// anchor feature.
func IsParentAnchor(led *omap.Map) bool {
	return led.GetBool(KeyParentAnchor)
}
