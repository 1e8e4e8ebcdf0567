package scene

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestRegistry_Create(t *testing.T) {
	reg := NewRegistry()

	s := reg.Create(r3.Vec{X: 1, Y: 2, Z: 0})

	if s.ID == "" {
		t.Error("created shape should have an ID")
	}
	if s.Scale != DefaultScale {
		t.Errorf("scale = %f, want %f", s.Scale, DefaultScale)
	}
	if s.Highlight != HighlightNormal {
		t.Errorf("highlight = %q, want %q", s.Highlight, HighlightNormal)
	}
	if s.Color == "" {
		t.Error("created shape should have a color")
	}
	if reg.Len() != 1 {
		t.Errorf("Len() = %d, want 1", reg.Len())
	}

	// Colors cycle through the palette
	s2 := reg.Create(r3.Vec{})
	if s2.Color == s.Color {
		t.Error("consecutive shapes should get different palette colors")
	}
}

func TestRegistry_Nearest(t *testing.T) {
	reg := NewRegistry()

	// Empty registry returns none
	if _, ok := reg.Nearest(r3.Vec{}, 1.5); ok {
		t.Error("Nearest on empty registry should return none")
	}

	// A shape at distance exactly 1.5 is out of range (strict <)
	reg.Create(r3.Vec{X: 1.5, Y: 0, Z: 0})
	if _, ok := reg.Nearest(r3.Vec{}, 1.5); ok {
		t.Error("shape at distance exactly 1.5 should not match")
	}

	// At 1.499 it matches
	reg2 := NewRegistry()
	want := reg2.Create(r3.Vec{X: 1.499, Y: 0, Z: 0})
	got, ok := reg2.Nearest(r3.Vec{}, 1.5)
	if !ok {
		t.Fatal("shape at distance 1.499 should match")
	}
	if got.ID != want.ID {
		t.Errorf("Nearest returned %q, want %q", got.ID, want.ID)
	}
}

func TestRegistry_NearestTieBreak(t *testing.T) {
	reg := NewRegistry()

	// Two shapes equidistant from the query point: insertion order wins.
	first := reg.Create(r3.Vec{X: 1, Y: 0, Z: 0})
	reg.Create(r3.Vec{X: -1, Y: 0, Z: 0})

	got, ok := reg.Nearest(r3.Vec{}, 1.5)
	if !ok {
		t.Fatal("expected a match")
	}
	if got.ID != first.ID {
		t.Errorf("tie should resolve to the first inserted shape, got %q", got.ID)
	}
}

func TestRegistry_RemoveIdempotent(t *testing.T) {
	reg := NewRegistry()
	s := reg.Create(r3.Vec{})

	if !reg.Remove(s.ID) {
		t.Error("first Remove should report deletion")
	}
	if reg.Remove(s.ID) {
		t.Error("second Remove should be a no-op")
	}
	if reg.Len() != 0 {
		t.Errorf("Len() = %d, want 0", reg.Len())
	}
}

func TestRegistry_MutationsOnMissingShape(t *testing.T) {
	reg := NewRegistry()

	// Mutating a shape that is not in the registry is a no-op, not an error.
	if reg.SetPosition("missing", r3.Vec{X: 1}) {
		t.Error("SetPosition on missing shape should return false")
	}
	if reg.SetScale("missing", 2.0) {
		t.Error("SetScale on missing shape should return false")
	}
	if reg.ScaleBy("missing", 1.1) {
		t.Error("ScaleBy on missing shape should return false")
	}
	if reg.SetHighlight("missing", HighlightArmed) {
		t.Error("SetHighlight on missing shape should return false")
	}
}

func TestRegistry_ScaleBy(t *testing.T) {
	reg := NewRegistry()
	s := reg.Create(r3.Vec{})

	reg.ScaleBy(s.ID, 1.1)
	reg.ScaleBy(s.ID, 1.1)

	got, _ := reg.Get(s.ID)
	want := DefaultScale * 1.1 * 1.1
	if diff := got.Scale - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("scale = %f, want %f", got.Scale, want)
	}

	// Non-positive factors are rejected
	if reg.ScaleBy(s.ID, 0) {
		t.Error("ScaleBy(0) should be rejected")
	}
}

func TestRegistry_SnapshotAndClear(t *testing.T) {
	reg := NewRegistry()
	a := reg.Create(r3.Vec{X: 1})
	b := reg.Create(r3.Vec{X: 2})

	snap := reg.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("len(snapshot) = %d, want 2", len(snap))
	}
	if snap[0].ID != a.ID || snap[1].ID != b.ID {
		t.Error("snapshot should preserve insertion order")
	}

	// Mutating the snapshot must not affect the registry
	snap[0].Scale = 99
	got, _ := reg.Get(a.ID)
	if got.Scale != DefaultScale {
		t.Error("snapshot mutation leaked into the registry")
	}

	reg.Clear()
	if reg.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", reg.Len())
	}
}

func TestRegistry_AddRestoresDefaults(t *testing.T) {
	reg := NewRegistry()

	reg.Add(Shape{ID: "restored", Position: r3.Vec{X: 1}})

	got, ok := reg.Get("restored")
	if !ok {
		t.Fatal("restored shape not found")
	}
	if got.Scale != DefaultScale {
		t.Errorf("scale = %f, want default", got.Scale)
	}
	if got.Highlight != HighlightNormal {
		t.Errorf("highlight = %q, want normal", got.Highlight)
	}

	// Shapes without an ID are ignored
	reg.Add(Shape{})
	if reg.Len() != 1 {
		t.Errorf("Len() = %d, want 1", reg.Len())
	}
}

func TestRegistry_AddAdvancesPalette(t *testing.T) {
	reg := NewRegistry()

	// Restore two shapes carrying the first two palette colors.
	reg.Add(Shape{ID: "r1", Color: neonPalette[0]})
	reg.Add(Shape{ID: "r2", Color: neonPalette[1]})

	// The next created shape must not repeat a restored color.
	s := reg.Create(r3.Vec{})
	if s.Color != neonPalette[2] {
		t.Errorf("color after restore = %q, want %q", s.Color, neonPalette[2])
	}
}
