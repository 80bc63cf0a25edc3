// Package relations reads and writes the parent/child link records attached
// to equipment definitions.
//
// Relations live under a fixed key on the definition record. A definition
// has at most one parent (a mapping, empty when unset) and an ordered list
// of child entries keyed by equipment id. All edges are stored as id
// references, never as record pointers, so the graph serializes trivially
// and cannot form reference cycles in memory.
//
// Offsets attached to a relation are always copied, never aliased: mutating
// a caller's offsets map after attachment does not affect the stored entry.
package relations

import (
	"strings"

	"github.com/cedtools/equiplink/pkg/errors"
	"github.com/cedtools/equiplink/pkg/omap"
)

// Record keys for the relations block.
const (
	KeyRelations     = "linked_relations"
	KeyParent        = "parent"
	KeyChildren      = "children"
	KeyEquipmentID   = "equipment_id"
	KeyOffsets       = "offsets"
	KeyAnchorOffsets = "anchor_offsets"
	KeyAnchorLEDID   = "anchor_led_id"
	KeyParentLEDID   = "parent_led_id"
)

// Ensure guarantees the relations block exists on def with the correct
// shape: a parent mapping, a children sequence, and - for every existing
// child entry - the anchor_offsets and anchor_led_id keys, backfilled with
// an empty mapping and null so records written before anchors existed stay
// usable without a migration step.
//
// A nil definition is a data-contract violation and fails immediately.
func Ensure(def *omap.Map) (*omap.Map, error) {
	if def == nil {
		return nil, errors.New(errors.ErrCodeInvalidRecord, "equipment definition must be a mapping")
	}
	rel := def.GetMap(KeyRelations)
	if rel == nil {
		rel = omap.New()
		def.Set(KeyRelations, rel)
	}
	if rel.GetMap(KeyParent) == nil {
		rel.Set(KeyParent, omap.New())
	}
	children, _ := rel.Get(KeyChildren)
	if _, ok := children.([]any); !ok {
		rel.Set(KeyChildren, []any{})
	}
	for _, entry := range Children(def) {
		if !entry.Has(KeyAnchorOffsets) {
			entry.Set(KeyAnchorOffsets, omap.New())
		}
		if !entry.Has(KeyAnchorLEDID) {
			entry.Set(KeyAnchorLEDID, nil)
		}
	}
	return rel, nil
}

// Parent returns the parent relation mapping, or an empty mapping when the
// definition has none. The returned map is the stored record; callers that
// only read it must not mutate it.
func Parent(def *omap.Map) *omap.Map {
	if def == nil {
		return omap.New()
	}
	if rel := def.GetMap(KeyRelations); rel != nil {
		if p := rel.GetMap(KeyParent); p != nil {
			return p
		}
	}
	return omap.New()
}

// ParentID returns the id of the definition's parent, trimmed, or "" when
// the definition has no parent.
func ParentID(def *omap.Map) string {
	return strings.TrimSpace(Parent(def).GetString(KeyEquipmentID))
}

// SetParent sets or clears the parent relation. A blank equipmentID clears
// the relation entirely to an empty mapping; a half-populated parent record
// is never left behind. Offsets are copied before attachment.
func SetParent(def *omap.Map, equipmentID string, offsets *omap.Map, ledID string) (*omap.Map, error) {
	rel, err := Ensure(def)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(equipmentID) == "" {
		empty := omap.New()
		rel.Set(KeyParent, empty)
		return empty, nil
	}
	entry := omap.New()
	entry.Set(KeyEquipmentID, equipmentID)
	entry.Set(KeyOffsets, cloneOffsets(offsets))
	if ledID != "" {
		entry.Set(KeyParentLEDID, ledID)
	}
	rel.Set(KeyParent, entry)
	return entry, nil
}

// Children returns the child relation entries in stored order, skipping
// entries that are not mappings.
func Children(def *omap.Map) []*omap.Map {
	if def == nil {
		return nil
	}
	rel := def.GetMap(KeyRelations)
	if rel == nil {
		return nil
	}
	raw := rel.GetSlice(KeyChildren)
	out := make([]*omap.Map, 0, len(raw))
	for _, v := range raw {
		if m, ok := v.(*omap.Map); ok {
			out = append(out, m)
		}
	}
	return out
}

// UpsertChild adds or updates the child entry for equipmentID. An existing
// entry is updated in place and keeps its list position; child order is
// significant for deterministic placement-request ordering. Anchor fields
// are only touched when provided: a nil anchorOffsets and a blank
// anchorLEDID leave the stored values alone on update.
func UpsertChild(def *omap.Map, equipmentID string, offsets, anchorOffsets *omap.Map, anchorLEDID string) (*omap.Map, error) {
	rel, err := Ensure(def)
	if err != nil {
		return nil, err
	}
	for _, entry := range Children(def) {
		if entry.GetString(KeyEquipmentID) == equipmentID {
			entry.Set(KeyOffsets, cloneOffsets(offsets))
			if anchorOffsets != nil {
				entry.Set(KeyAnchorOffsets, cloneOffsets(anchorOffsets))
			}
			if anchorLEDID != "" {
				entry.Set(KeyAnchorLEDID, anchorLEDID)
			}
			return entry, nil
		}
	}
	entry := omap.New()
	entry.Set(KeyEquipmentID, equipmentID)
	entry.Set(KeyOffsets, cloneOffsets(offsets))
	if anchorOffsets != nil && anchorOffsets.Len() > 0 {
		entry.Set(KeyAnchorOffsets, cloneOffsets(anchorOffsets))
	}
	if anchorLEDID != "" {
		entry.Set(KeyAnchorLEDID, anchorLEDID)
	}
	rel.Set(KeyChildren, append(rel.GetSlice(KeyChildren), entry))
	return entry, nil
}

// RemoveChild removes every child entry whose equipment_id matches.
// Removing an id that is not present is not an error.
func RemoveChild(def *omap.Map, equipmentID string) error {
	rel, err := Ensure(def)
	if err != nil {
		return err
	}
	raw := rel.GetSlice(KeyChildren)
	kept := make([]any, 0, len(raw))
	for _, v := range raw {
		if m, ok := v.(*omap.Map); ok && m.GetString(KeyEquipmentID) == equipmentID {
			continue
		}
		kept = append(kept, v)
	}
	rel.Set(KeyChildren, kept)
	return nil
}

func cloneOffsets(m *omap.Map) *omap.Map {
	if m == nil {
		return omap.New()
	}
	return m.Clone()
}
