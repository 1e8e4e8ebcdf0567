package store

import (
	"errors"
	"testing"
)

func TestShapeRepository_SaveAndGet(t *testing.T) {
	s := newTestStore(t)

	sh := &Shape{
		ID:    "shape-1",
		X:     1.5,
		Y:     -2.25,
		Z:     0,
		Scale: 1.0,
		Color: "#ff00ff",
	}
	if err := s.Shapes().Save(sh); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := s.Shapes().GetByID("shape-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.X != 1.5 || got.Y != -2.25 || got.Scale != 1.0 || got.Color != "#ff00ff" {
		t.Errorf("got %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Error("created_at should be set on save")
	}
}

func TestShapeRepository_SaveUpserts(t *testing.T) {
	s := newTestStore(t)

	sh := &Shape{ID: "shape-1", X: 1, Scale: 1.0, Color: "#00ffff"}
	if err := s.Shapes().Save(sh); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Saving again with new position and scale updates the row in place.
	sh.X = 4
	sh.Scale = 2.5
	if err := s.Shapes().Save(sh); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}

	got, err := s.Shapes().GetByID("shape-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.X != 4 || got.Scale != 2.5 {
		t.Errorf("got X=%f Scale=%f, want 4 and 2.5", got.X, got.Scale)
	}

	n, err := s.Shapes().Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Count() = %d, want 1", n)
	}
}

func TestShapeRepository_GetMissing(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Shapes().GetByID("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID(missing) error = %v, want ErrNotFound", err)
	}
}

func TestShapeRepository_ListOrder(t *testing.T) {
	s := newTestStore(t)

	for _, id := range []string{"a", "b", "c"} {
		if err := s.Shapes().Save(&Shape{ID: id, Scale: 1.0}); err != nil {
			t.Fatalf("Save(%q) error = %v", id, err)
		}
	}

	shapes, err := s.Shapes().List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(shapes) != 3 {
		t.Fatalf("len = %d, want 3", len(shapes))
	}
	for i, want := range []string{"a", "b", "c"} {
		if shapes[i].ID != want {
			t.Errorf("shapes[%d].ID = %q, want %q", i, shapes[i].ID, want)
		}
	}
}

func TestShapeRepository_DeleteIsIdempotent(t *testing.T) {
	s := newTestStore(t)

	if err := s.Shapes().Save(&Shape{ID: "shape-1", Scale: 1.0}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if err := s.Shapes().Delete("shape-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	// Deleting an absent shape is not an error.
	if err := s.Shapes().Delete("shape-1"); err != nil {
		t.Errorf("second Delete() error = %v, want nil", err)
	}
}

func TestShapeRepository_Clear(t *testing.T) {
	s := newTestStore(t)

	s.Shapes().Save(&Shape{ID: "a", Scale: 1.0})
	s.Shapes().Save(&Shape{ID: "b", Scale: 1.0})

	if err := s.Shapes().Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	n, _ := s.Shapes().Count()
	if n != 0 {
		t.Errorf("Count() after Clear = %d, want 0", n)
	}
}

func TestSettingsRepository_RoundTrip(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Settings().Get("tracking"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}

	if err := s.Settings().Set("tracking", "enabled"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Settings().Set("tracking", "disabled"); err != nil {
		t.Fatalf("overwrite Set() error = %v", err)
	}

	got, err := s.Settings().Get("tracking")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "disabled" {
		t.Errorf("Get() = %q, want %q", got, "disabled")
	}
}
