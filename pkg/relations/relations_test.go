package relations

import (
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/cedtools/equiplink/pkg/errors"
	"github.com/cedtools/equiplink/pkg/omap"
)

func newDef(t *testing.T, id string) *omap.Map {
	t.Helper()
	def := omap.New()
	def.Set("id", id)
	def.Set("name", id)
	return def
}

func offsets(x float64) *omap.Map {
	m := omap.New()
	m.Set("x_inches", x)
	return m
}

func TestEnsureNilDefinition(t *testing.T) {
	_, err := Ensure(nil)
	if err == nil {
		t.Fatal("Ensure(nil) should fail")
	}
	if !errors.Is(err, errors.ErrCodeInvalidRecord) {
		t.Errorf("error code = %v, want INVALID_RECORD", errors.GetCode(err))
	}
}

func TestEnsureShapes(t *testing.T) {
	def := newDef(t, "EQ-001")
	rel, err := Ensure(def)
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if rel.GetMap(KeyParent) == nil {
		t.Error("parent mapping not initialized")
	}
	if _, ok := rel.Get(KeyChildren); !ok {
		t.Error("children sequence not initialized")
	}
}

func TestEnsureBackfillsAnchorKeys(t *testing.T) {
	// Simulate an older record whose child entries predate anchors.
	const doc = `
id: EQ-001
linked_relations:
  children:
    - equipment_id: EQ-002
      offsets:
        x_inches: 1
`
	var def omap.Map
	if err := yaml.Unmarshal([]byte(doc), &def); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, err := Ensure(&def); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	entry := Children(&def)[0]
	if !entry.Has(KeyAnchorOffsets) {
		t.Error("anchor_offsets not backfilled")
	}
	if ao := entry.GetMap(KeyAnchorOffsets); ao == nil || ao.Len() != 0 {
		t.Errorf("anchor_offsets backfill should be an empty mapping, got %v", ao)
	}
	if !entry.Has(KeyAnchorLEDID) {
		t.Error("anchor_led_id not backfilled")
	}
	if v, _ := entry.Get(KeyAnchorLEDID); v != nil {
		t.Errorf("anchor_led_id backfill should be null, got %v", v)
	}
}

func TestSetParentAndClear(t *testing.T) {
	def := newDef(t, "EQ-002")

	entry, err := SetParent(def, "EQ-001", offsets(12), "LED-1")
	if err != nil {
		t.Fatalf("SetParent: %v", err)
	}
	if entry.GetString(KeyEquipmentID) != "EQ-001" {
		t.Errorf("parent id = %q", entry.GetString(KeyEquipmentID))
	}
	if entry.GetString(KeyParentLEDID) != "LED-1" {
		t.Errorf("parent led id = %q", entry.GetString(KeyParentLEDID))
	}
	if ParentID(def) != "EQ-001" {
		t.Errorf("ParentID = %q", ParentID(def))
	}

	// Clearing with a blank id removes the whole record, not just parts.
	cleared, err := SetParent(def, "", nil, "")
	if err != nil {
		t.Fatalf("SetParent clear: %v", err)
	}
	if cleared.Len() != 0 {
		t.Errorf("cleared parent should be empty, got keys %v", cleared.Keys())
	}
	if ParentID(def) != "" {
		t.Errorf("ParentID after clear = %q", ParentID(def))
	}
}

func TestSetParentCopiesOffsets(t *testing.T) {
	def := newDef(t, "EQ-002")
	off := offsets(5)
	if _, err := SetParent(def, "EQ-001", off, ""); err != nil {
		t.Fatalf("SetParent: %v", err)
	}

	off.Set("x_inches", 999.0)
	stored := Parent(def).GetMap(KeyOffsets)
	if v, _ := stored.Get("x_inches"); v != 5.0 {
		t.Errorf("stored offsets aliased caller's map: %v", v)
	}
}

func TestUpsertChild(t *testing.T) {
	def := newDef(t, "EQ-001")

	if _, err := UpsertChild(def, "EQ-002", offsets(1), nil, ""); err != nil {
		t.Fatalf("UpsertChild: %v", err)
	}
	if _, err := UpsertChild(def, "EQ-003", offsets(2), nil, "A1"); err != nil {
		t.Fatalf("UpsertChild: %v", err)
	}

	// Re-adding EQ-002 must update in place, keeping position 0.
	if _, err := UpsertChild(def, "EQ-002", offsets(42), nil, ""); err != nil {
		t.Fatalf("UpsertChild update: %v", err)
	}

	children := Children(def)
	if len(children) != 2 {
		t.Fatalf("children = %d entries, want 2", len(children))
	}
	if children[0].GetString(KeyEquipmentID) != "EQ-002" {
		t.Error("upsert moved the updated entry")
	}
	if v, _ := children[0].GetMap(KeyOffsets).Get("x_inches"); v != 42.0 {
		t.Errorf("updated offsets x = %v, want 42", v)
	}
	if children[1].GetString(KeyAnchorLEDID) != "A1" {
		t.Errorf("anchor led id = %q", children[1].GetString(KeyAnchorLEDID))
	}
}

func TestUpsertChildPreservesAnchorOnUpdate(t *testing.T) {
	def := newDef(t, "EQ-001")
	anchor := offsets(7)
	if _, err := UpsertChild(def, "EQ-002", offsets(1), anchor, "A1"); err != nil {
		t.Fatalf("UpsertChild: %v", err)
	}
	// Update without anchor data must leave the stored anchor alone.
	if _, err := UpsertChild(def, "EQ-002", offsets(2), nil, ""); err != nil {
		t.Fatalf("UpsertChild update: %v", err)
	}
	entry := Children(def)[0]
	if entry.GetString(KeyAnchorLEDID) != "A1" {
		t.Error("anchor_led_id lost on update")
	}
	if v, _ := entry.GetMap(KeyAnchorOffsets).Get("x_inches"); v != 7.0 {
		t.Errorf("anchor_offsets lost on update: %v", v)
	}
}

func TestRemoveChild(t *testing.T) {
	def := newDef(t, "EQ-001")
	if _, err := UpsertChild(def, "EQ-002", nil, nil, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := UpsertChild(def, "EQ-003", nil, nil, ""); err != nil {
		t.Fatal(err)
	}

	if err := RemoveChild(def, "EQ-002"); err != nil {
		t.Fatalf("RemoveChild: %v", err)
	}
	children := Children(def)
	if len(children) != 1 || children[0].GetString(KeyEquipmentID) != "EQ-003" {
		t.Errorf("children after remove = %d", len(children))
	}

	// Removing a missing id is a no-op, not an error.
	if err := RemoveChild(def, "EQ-404"); err != nil {
		t.Errorf("RemoveChild missing id: %v", err)
	}
}
