package mergecat

import (
	"github.com/cedtools/equiplink/pkg/catalog"
	"github.com/cedtools/equiplink/pkg/omap"
)

// Canonical key sequences. Keys present in a record that appear in the
// canonical list come first, in list order; any other keys are appended
// afterwards in their original relative order. Reordering only ever moves
// keys - it never adds, removes, or alters a value - which keeps diffs of
// the persisted catalog stable and reviewable.
var (
	equipmentKeyOrder = []string{
		"id", "name", "version", "schema_version", "allow_parentless",
		"allow_unmatched_parents", "prompt_on_parent_mismatch",
		"parent_filter", "equipment_properties", "linked_sets",
	}

	parentFilterKeyOrder = []string{
		"category", "family_name_pattern", "type_name_pattern", "parameter_filters",
	}

	linkedSetKeyOrder = []string{"id", "name", "linked_element_definitions"}

	ledKeyOrder = []string{
		"id", "is_parent_anchor", "is_group", "label", "category",
		"parameters", "tags", "text_notes", "offsets",
	}

	offsetKeyOrder = []string{"x_inches", "y_inches", "z_inches", "rotation_deg"}
)

// reorderMap rebuilds a mapping with canonical keys first, extras after, by
// stable reinsertion into a fresh ordered map. Values are carried over
// untouched.
func reorderMap(m *omap.Map, keyOrder []string) *omap.Map {
	if m == nil {
		return nil
	}
	out := omap.New()
	for _, k := range keyOrder {
		if v, ok := m.Get(k); ok {
			out.Set(k, v)
		}
	}
	for _, k := range m.Keys() {
		if !out.Has(k) {
			v, _ := m.Get(k)
			out.Set(k, v)
		}
	}
	return out
}

// reorderOffsets reorders each offset mapping in a sequence. Non-mapping
// entries pass through unchanged.
func reorderOffsets(offs []any) []any {
	out := make([]any, len(offs))
	for i, v := range offs {
		if m, ok := v.(*omap.Map); ok {
			out[i] = reorderMap(m, offsetKeyOrder)
		} else {
			out[i] = v
		}
	}
	return out
}

// reorderLED reorders a linked element definition and its offsets sequence.
func reorderLED(led *omap.Map) *omap.Map {
	out := reorderMap(led, ledKeyOrder)
	if offs, ok := out.Get("offsets"); ok {
		if seq, ok := offs.([]any); ok {
			out.Set("offsets", reorderOffsets(seq))
		}
	}
	return out
}

// reorderLinkedSet reorders a linked set and its element definitions.
func reorderLinkedSet(set *omap.Map) *omap.Map {
	out := reorderMap(set, linkedSetKeyOrder)
	if elems, ok := out.Get(catalog.KeyLinkedElems); ok {
		if seq, ok := elems.([]any); ok {
			reordered := make([]any, len(seq))
			for i, v := range seq {
				if m, ok := v.(*omap.Map); ok {
					reordered[i] = reorderLED(m)
				} else {
					reordered[i] = v
				}
			}
			out.Set(catalog.KeyLinkedElems, reordered)
		}
	}
	return out
}

// ReorderDefinition returns a copy of an equipment record with every level
// rewritten to canonical key order: the record itself, its parent_filter,
// its linked sets, their element definitions, and each element's offsets.
func ReorderDefinition(def *omap.Map) *omap.Map {
	out := reorderMap(def, equipmentKeyOrder)
	if pf, ok := out.Get("parent_filter"); ok {
		if m, ok := pf.(*omap.Map); ok {
			out.Set("parent_filter", reorderMap(m, parentFilterKeyOrder))
		}
	}
	if sets, ok := out.Get(catalog.KeyLinkedSets); ok {
		if seq, ok := sets.([]any); ok {
			reordered := make([]any, len(seq))
			for i, v := range seq {
				if m, ok := v.(*omap.Map); ok {
					reordered[i] = reorderLinkedSet(m)
				} else {
					reordered[i] = v
				}
			}
			out.Set(catalog.KeyLinkedSets, reordered)
		}
	}
	return out
}

// ReorderDefinitions reorders a whole definitions list.
func ReorderDefinitions(defs []*omap.Map) []*omap.Map {
	out := make([]*omap.Map, len(defs))
	for i, def := range defs {
		out[i] = ReorderDefinition(def)
	}
	return out
}
