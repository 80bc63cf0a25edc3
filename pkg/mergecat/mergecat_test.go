package mergecat

import (
	"strings"
	"testing"

	"github.com/cedtools/equiplink/pkg/errors"
	"github.com/cedtools/equiplink/pkg/omap"
)

const sampleCatalog = `equipment_definitions:
  - id: OLD-7
    name: ' tv '
    custom_field: keep me
    linked_sets:
      - id: S1
        linked_element_definitions:
          - id: L1
            label: One
          - id: L2
            label: Two
          - id: L3
            label: Three
  - id: OLD-8
    name: TV
    linked_sets:
      - id: S2
        linked_element_definitions:
          - id: L4
            label: Four
          - id: L5
            label: Five
`

func TestRunMergesDuplicates(t *testing.T) {
	res, err := Run([]byte(sampleCatalog), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.BlockCount != 2 || res.ParsedCount != 2 {
		t.Errorf("counts = %d/%d, want 2/2", res.BlockCount, res.ParsedCount)
	}
	if !res.Changed || len(res.Merges) != 1 {
		t.Fatalf("merges = %+v, Changed = %v", res.Merges, res.Changed)
	}
	if res.Merges[0].ElementCount != 5 {
		t.Errorf("merged element count = %d, want 5", res.Merges[0].ElementCount)
	}
	if res.FinalCount != 1 {
		t.Errorf("final count = %d, want 1", res.FinalCount)
	}

	out := string(res.Output)
	if !strings.Contains(out, "EQ-001") {
		t.Errorf("output missing renumbered id:\n%s", out)
	}
	if !strings.Contains(out, "custom_field: keep me") {
		t.Errorf("output lost a non-canonical field:\n%s", out)
	}
	if !strings.Contains(out, "SET-001-LED-005") {
		t.Errorf("output missing renumbered elements:\n%s", out)
	}
}

func TestRunNoDuplicates(t *testing.T) {
	input := `equipment_definitions:
  - id: A
    name: Alpha
  - id: B
    name: Beta
`
	res, err := Run([]byte(input), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Changed {
		t.Error("Changed = true, want false for a duplicate-free catalog")
	}
	if res.FinalCount != 2 {
		t.Errorf("final count = %d, want 2", res.FinalCount)
	}
}

func TestRunDropsMalformedBlocks(t *testing.T) {
	input := "equipment_definitions:\n" +
		"  - id: A\n" +
		"    name: Alpha\n" +
		"  - : [broken\n"
	res, err := Run([]byte(input), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.BlockCount != 2 || res.ParsedCount != 1 {
		t.Errorf("counts = %d/%d, want 2 blocks and 1 parsed", res.BlockCount, res.ParsedCount)
	}
}

func TestRunOutputReparses(t *testing.T) {
	res, err := Run([]byte(sampleCatalog), Options{})
	if err != nil {
		t.Fatal(err)
	}
	// The tool must be able to consume its own output.
	again, err := Run(res.Output, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if again.ParsedCount != res.FinalCount {
		t.Errorf("reparse found %d records, want %d", again.ParsedCount, res.FinalCount)
	}
	if again.Changed {
		t.Error("second pass reported changes on an already merged catalog")
	}
}

func TestRunReorderPreservesOpaqueKeys(t *testing.T) {
	input := `schema_version: 3
vendor_notes: do not touch
equipment_definitions:
  - custom: extra
    name: Thing
    id: EQ-001
`
	out, err := RunReorder([]byte(input), Options{})
	if err != nil {
		t.Fatal(err)
	}
	text := string(out)
	if !strings.Contains(text, "schema_version: 3") || !strings.Contains(text, "vendor_notes: do not touch") {
		t.Errorf("opaque top-level keys lost:\n%s", text)
	}
	// Canonical keys come first inside each record.
	if strings.Index(text, "id: EQ-001") > strings.Index(text, "custom: extra") {
		t.Errorf("id should precede non-canonical keys:\n%s", text)
	}
}

func TestReorderDefinitionKeyOrder(t *testing.T) {
	def := parseDef(t, `
zeta: last extra
name: Thing
alpha: first extra
id: EQ-001
version: 2
`)
	got := ReorderDefinition(def)
	keys := got.Keys()
	want := []string{"id", "name", "version", "zeta", "alpha"}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys = %v, want %v", keys, want)
		}
	}
	if got.GetString("zeta") != "last extra" {
		t.Error("value changed during reorder")
	}
}

func TestReorderDefinitionNested(t *testing.T) {
	def := parseDef(t, `
name: Thing
id: EQ-001
linked_sets:
  - linked_element_definitions:
      - label: L
        id: LED-1
        offsets:
          - rotation_deg: 90
            x_inches: 1
    id: SET-001
`)
	got := ReorderDefinition(def)
	set := got.GetSlice("linked_sets")[0].(*omap.Map)
	if set.Keys()[0] != "id" {
		t.Errorf("linked set keys = %v", set.Keys())
	}
	led := set.GetSlice("linked_element_definitions")[0].(*omap.Map)
	if led.Keys()[0] != "id" {
		t.Errorf("element keys = %v", led.Keys())
	}
	off := led.GetSlice("offsets")[0].(*omap.Map)
	if off.Keys()[0] != "x_inches" {
		t.Errorf("offset keys = %v", off.Keys())
	}
}

func TestValidateIntegrity(t *testing.T) {
	def := parseDef(t, `
name: Thing
id: EQ-001
extra: value
`)
	reordered := ReorderDefinition(def)
	if err := ValidateIntegrity(def, reordered); err != nil {
		t.Errorf("reorder should preserve integrity: %v", err)
	}

	tampered := reordered.Clone()
	tampered.Set("extra", "changed")
	err := ValidateIntegrity(def, tampered)
	if err == nil {
		t.Fatal("expected integrity violation for changed value")
	}
	if errors.GetCode(err) != errors.ErrCodeIntegrity {
		t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeIntegrity)
	}

	dropped := reordered.Clone()
	dropped.Delete("extra")
	if ValidateIntegrity(def, dropped) == nil {
		t.Error("expected integrity violation for dropped key")
	}
}
