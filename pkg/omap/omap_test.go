package omap

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestSetPreservesOrder(t *testing.T) {
	m := New()
	m.Set("zebra", 1)
	m.Set("apple", 2)
	m.Set("mango", 3)

	want := []string{"zebra", "apple", "mango"}
	got := m.Keys()
	if len(got) != len(want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	// Overwriting keeps position
	m.Set("apple", 99)
	if m.Keys()[1] != "apple" {
		t.Errorf("overwrite moved key: %v", m.Keys())
	}
	if v, _ := m.Get("apple"); v != 99 {
		t.Errorf("Get(apple) = %v, want 99", v)
	}
}

func TestDelete(t *testing.T) {
	m := New()
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("c", 3)
	m.Delete("b")

	if m.Has("b") {
		t.Error("key b still present after Delete")
	}
	got := m.Keys()
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Errorf("Keys() after Delete = %v", got)
	}
	m.Delete("missing") // no-op
}

func TestYAMLRoundTripPreservesOrder(t *testing.T) {
	src := strings.TrimSpace(`
name: Transformer
id: EQ-001
extra_key: hello
nested:
  zulu: 1
  alpha: 2
items:
  - label: first
    value: 1
  - label: second
    value: 2
`)

	var m Map
	if err := yaml.Unmarshal([]byte(src), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	got := m.Keys()
	want := []string{"name", "id", "extra_key", "nested", "items"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Keys() = %v, want %v", got, want)
		}
	}

	nested := m.GetMap("nested")
	if nested == nil {
		t.Fatal("nested not decoded as mapping")
	}
	nk := nested.Keys()
	if nk[0] != "zulu" || nk[1] != "alpha" {
		t.Errorf("nested keys = %v", nk)
	}

	out, err := yaml.Marshal(&m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	// Key order must survive serialization.
	text := string(out)
	if strings.Index(text, "name:") > strings.Index(text, "id:") {
		t.Errorf("marshal reordered keys:\n%s", text)
	}
	if strings.Index(text, "zulu:") > strings.Index(text, "alpha:") {
		t.Errorf("marshal reordered nested keys:\n%s", text)
	}

	var again Map
	if err := yaml.Unmarshal(out, &again); err != nil {
		t.Fatalf("re-unmarshal: %v", err)
	}
	if !Equal(&m, &again) {
		t.Error("round-trip changed content")
	}
}

func TestUnmarshalRejectsNonMapping(t *testing.T) {
	var m Map
	if err := yaml.Unmarshal([]byte("- a\n- b\n"), &m); err == nil {
		t.Error("expected error unmarshaling sequence into Map")
	}
}

func TestClone(t *testing.T) {
	m := New()
	inner := New()
	inner.Set("x", 1)
	m.Set("inner", inner)
	m.Set("list", []any{"a", "b"})

	c := m.Clone()
	c.GetMap("inner").Set("x", 2)
	if v, _ := inner.Get("x"); v != 1 {
		t.Error("Clone shares nested map with original")
	}
	c.GetSlice("list")[0] = "changed"
	if m.GetSlice("list")[0] != "a" {
		t.Error("Clone shares slice with original")
	}
}

func TestEqualIgnoresKeyOrder(t *testing.T) {
	a := New()
	a.Set("x", 1)
	a.Set("y", "z")
	b := New()
	b.Set("y", "z")
	b.Set("x", 1)

	if !Equal(a, b) {
		t.Error("Equal should ignore key order")
	}

	b.Set("x", 2)
	if Equal(a, b) {
		t.Error("Equal should detect value change")
	}
}

func TestCountKeys(t *testing.T) {
	src := `
id: EQ-001
linked_sets:
  - id: SET-001
    linked_element_definitions:
      - id: LED-001
        offsets:
          - x_inches: 1
            y_inches: 2
`
	var m Map
	if err := yaml.Unmarshal([]byte(src), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	// id, linked_sets (2) + set id, leds (2) + led id, offsets (2) + x, y (2)
	if got := CountKeys(&m); got != 8 {
		t.Errorf("CountKeys = %d, want 8", got)
	}
}

func TestGetTypedAccessors(t *testing.T) {
	m := New()
	m.Set("s", "hello")
	m.Set("b", true)
	m.Set("n", 3)

	if m.GetString("s") != "hello" {
		t.Error("GetString failed")
	}
	if m.GetString("n") != "" {
		t.Error("GetString on non-string should return empty")
	}
	if !m.GetBool("b") {
		t.Error("GetBool failed")
	}
	if m.GetMap("s") != nil {
		t.Error("GetMap on scalar should return nil")
	}
	if m.GetSlice("missing") != nil {
		t.Error("GetSlice on missing key should return nil")
	}
}
