package gesture

import (
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ayusman/shilpa/internal/detector"
	"github.com/ayusman/shilpa/internal/scene"
)

// fakeClock drives the engine's cooldown comparisons deterministically.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestEngine() (*Engine, *scene.Registry, *scene.View, *fakeClock) {
	reg := scene.NewRegistry()
	view := scene.NewView()
	eng := NewEngine(reg, view)

	clk := &fakeClock{now: time.Unix(1000, 0)}
	eng.clock = func() time.Time { return clk.now }

	return eng, reg, view, clk
}

// pinchPair builds two pinching hands whose index tips are tipDist apart,
// centered on (cx, cy). PinchingHand places the index tip 0.01 right of the
// requested position.
func pinchPair(cx, cy, tipDist float64) []detector.HandLandmarks {
	left := detector.PinchingHand(cx-tipDist/2-0.01, cy)
	right := detector.PinchingHand(cx+tipDist/2-0.01, cy)
	return []detector.HandLandmarks{left, right}
}

// zoneHandPos returns a normalized hand position whose mapped world point
// lands inside the recycle zone.
func zoneHandPos(v *scene.View) (float64, float64) {
	zone := v.RecycleZone()

	// Pick a screen point just inside the zone's left edge.
	cx := float64(zone.Min.X) + 20
	cy := float64(zone.Min.Y+zone.Max.Y) / 2
	world := v.Unproject(cx, cy)

	return 0.5 + world.X/worldSpan, 0.5 - world.Y/worldSpan
}

func hasEvent(events []Event, kind EventKind) bool {
	for _, ev := range events {
		if ev.Kind == kind {
			return true
		}
	}
	return false
}

func TestEngine_CreateOnTwoHandPinch(t *testing.T) {
	eng, reg, _, _ := newTestEngine()

	events := eng.Process(pinchPair(0.5, 0.5, 0.1))

	if !hasEvent(events, EventShapeCreated) {
		t.Fatal("expected a creation event")
	}
	if reg.Len() != 1 {
		t.Fatalf("registry len = %d, want 1", reg.Len())
	}

	// Midpoint of the frame maps to the world origin.
	shape := reg.Snapshot()[0]
	if r3.Norm(shape.Position) > 1e-9 {
		t.Errorf("shape position = %+v, want origin", shape.Position)
	}
}

func TestEngine_NoCreationWhenTipsApart(t *testing.T) {
	eng, reg, _, _ := newTestEngine()

	// Both hands pinch but the index tips are 0.2 apart.
	events := eng.Process(pinchPair(0.5, 0.5, 0.2))

	if hasEvent(events, EventShapeCreated) {
		t.Error("creation requires close index tips")
	}
	if reg.Len() != 0 {
		t.Errorf("registry len = %d, want 0", reg.Len())
	}
}

func TestEngine_CreationCooldown(t *testing.T) {
	eng, reg, _, clk := newTestEngine()

	// First creation at t=0.
	eng.Process(pinchPair(0.5, 0.5, 0.1))
	if reg.Len() != 1 {
		t.Fatalf("registry len = %d, want 1", reg.Len())
	}
	eng.Process(nil)

	// A new pinch 999ms later is rejected.
	clk.advance(999 * time.Millisecond)
	eng.Process(pinchPair(0.5, 0.5, 0.1))
	if reg.Len() != 1 {
		t.Fatalf("creation within cooldown should be rejected, registry len = %d", reg.Len())
	}
	eng.Process(nil)

	// At 1001ms after the first creation it is accepted.
	clk.advance(2 * time.Millisecond)
	events := eng.Process(pinchPair(0.5, 0.5, 0.1))
	if !hasEvent(events, EventShapeCreated) {
		t.Fatal("creation after cooldown should be accepted")
	}
	if reg.Len() != 2 {
		t.Errorf("registry len = %d, want 2", reg.Len())
	}
}

func TestEngine_OneCreationPerPinch(t *testing.T) {
	eng, reg, _, clk := newTestEngine()

	eng.Process(pinchPair(0.5, 0.5, 0.1))

	// Hold the same pinch well past the cooldown: still no second shape.
	clk.advance(3 * time.Second)
	events := eng.Process(pinchPair(0.5, 0.5, 0.1))

	if hasEvent(events, EventShapeCreated) {
		t.Error("a held pinch must create at most one shape")
	}
	if reg.Len() != 1 {
		t.Errorf("registry len = %d, want 1", reg.Len())
	}
}

func TestEngine_ScaleRatio(t *testing.T) {
	eng, reg, _, _ := newTestEngine()

	// Create with a baseline index-tip distance of 0.1.
	eng.Process(pinchPair(0.5, 0.5, 0.1))

	// Separate the hands to 0.15: the scale ratio becomes 1.5.
	events := eng.Process(pinchPair(0.5, 0.5, 0.15))
	if !hasEvent(events, EventShapeScaled) {
		t.Fatal("expected a scale event")
	}

	shape := reg.Snapshot()[0]
	if diff := shape.Scale - 1.5; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("scale = %f, want 1.5", shape.Scale)
	}
}

func TestEngine_ScaleZeroDistanceIsNoOp(t *testing.T) {
	eng, reg, _, _ := newTestEngine()

	eng.Process(pinchPair(0.5, 0.5, 0.1))

	// Both index tips at the same point: zero distance, no scale change.
	events := eng.Process(pinchPair(0.5, 0.5, 0))
	if hasEvent(events, EventShapeScaled) {
		t.Error("zero inter-tip distance must not emit a scale event")
	}

	shape := reg.Snapshot()[0]
	if shape.Scale != scene.DefaultScale {
		t.Errorf("scale = %f, want unchanged default", shape.Scale)
	}
}

func TestEngine_SelectAndMove(t *testing.T) {
	eng, reg, _, _ := newTestEngine()
	shape := reg.Create(r3.Vec{})

	// Index tip at (0.55, 0.5) maps to world (0.5, 0, 0), within the
	// selection radius of the shape at the origin.
	hand := detector.PinchingHand(0.54, 0.5)
	events := eng.Process([]detector.HandLandmarks{hand})

	if !hasEvent(events, EventShapeSelected) {
		t.Fatal("expected a selection event")
	}
	if !hasEvent(events, EventShapeMoved) {
		t.Fatal("expected a move event")
	}

	got, _ := reg.Get(shape.ID)
	if got.Highlight != scene.HighlightSelected {
		t.Errorf("highlight = %q, want selected", got.Highlight)
	}
	if diff := got.Position.X - 0.5; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("position.X = %f, want 0.5", got.Position.X)
	}

	// The shape keeps following the fingertip on subsequent frames.
	hand = detector.PinchingHand(0.64, 0.5)
	events = eng.Process([]detector.HandLandmarks{hand})
	if hasEvent(events, EventShapeSelected) {
		t.Error("no re-selection while a shape is grabbed")
	}
	got, _ = reg.Get(shape.ID)
	if diff := got.Position.X - 1.5; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("position.X = %f, want 1.5", got.Position.X)
	}
}

func TestEngine_NoSelectionOutOfRange(t *testing.T) {
	eng, reg, _, _ := newTestEngine()
	reg.Create(r3.Vec{X: 3})

	// Pinch at the origin: the shape is 3 world units away, beyond 1.5.
	hand := detector.PinchingHand(0.49, 0.5)
	events := eng.Process([]detector.HandLandmarks{hand})

	if len(events) != 0 {
		t.Errorf("events = %v, want none", events)
	}
	if eng.Selected() != "" {
		t.Error("nothing should be selected")
	}
}

func TestEngine_ReleaseOutsideZone(t *testing.T) {
	eng, reg, _, _ := newTestEngine()
	shape := reg.Create(r3.Vec{})

	eng.Process([]detector.HandLandmarks{detector.PinchingHand(0.49, 0.5)})

	// Open the hand away from the recycle zone.
	events := eng.Process([]detector.HandLandmarks{detector.OpenHand(0.5, 0.5)})

	if !hasEvent(events, EventShapeReleased) {
		t.Fatal("expected a release event")
	}
	if hasEvent(events, EventShapeDeleted) {
		t.Fatal("release outside the zone must not delete")
	}

	got, ok := reg.Get(shape.ID)
	if !ok {
		t.Fatal("shape should still exist")
	}
	if got.Highlight != scene.HighlightNormal {
		t.Errorf("highlight = %q, want normal after release", got.Highlight)
	}
	if eng.Selected() != "" {
		t.Error("selection should be cleared")
	}
}

func TestEngine_DragToRecycleZoneDeletes(t *testing.T) {
	eng, reg, view, _ := newTestEngine()
	reg.Create(r3.Vec{})

	// Grab the shape at the origin.
	eng.Process([]detector.HandLandmarks{detector.PinchingHand(0.49, 0.5)})

	// Drag it over the recycle zone.
	nx, ny := zoneHandPos(view)
	events := eng.Process([]detector.HandLandmarks{detector.PinchingHand(nx-0.01, ny)})
	if !hasEvent(events, EventRecycleArmed) {
		t.Fatal("expected the recycle indicator to arm")
	}

	// Release the pinch inside the zone.
	events = eng.Process([]detector.HandLandmarks{detector.OpenHand(nx, ny)})
	if !hasEvent(events, EventShapeDeleted) {
		t.Fatal("expected the shape to be deleted")
	}
	if reg.Len() != 0 {
		t.Errorf("registry len = %d, want 0", reg.Len())
	}
}

func TestEngine_LeavingZoneDisarms(t *testing.T) {
	eng, reg, view, _ := newTestEngine()
	shape := reg.Create(r3.Vec{})

	eng.Process([]detector.HandLandmarks{detector.PinchingHand(0.49, 0.5)})

	nx, ny := zoneHandPos(view)
	eng.Process([]detector.HandLandmarks{detector.PinchingHand(nx-0.01, ny)})

	// Drag back out of the zone.
	events := eng.Process([]detector.HandLandmarks{detector.PinchingHand(0.49, 0.5)})
	if !hasEvent(events, EventRecycleDisarmed) {
		t.Fatal("expected the recycle indicator to disarm")
	}

	got, _ := reg.Get(shape.ID)
	if got.Highlight != scene.HighlightSelected {
		t.Errorf("highlight = %q, want selected while dragging", got.Highlight)
	}
}

func TestEngine_TrackingLossDeletesParkedShape(t *testing.T) {
	eng, reg, view, _ := newTestEngine()
	reg.Create(r3.Vec{})

	eng.Process([]detector.HandLandmarks{detector.PinchingHand(0.49, 0.5)})

	nx, ny := zoneHandPos(view)
	eng.Process([]detector.HandLandmarks{detector.PinchingHand(nx-0.01, ny)})

	// The camera loses the hand mid-drag with the shape over the zone.
	events := eng.Process(nil)
	if !hasEvent(events, EventShapeDeleted) {
		t.Fatal("tracking loss over the zone should delete the shape")
	}
	if reg.Len() != 0 {
		t.Errorf("registry len = %d, want 0", reg.Len())
	}
	if eng.Selected() != "" {
		t.Error("selection should be cleared")
	}
}

func TestEngine_SelectionSurvivesExternalDeletion(t *testing.T) {
	eng, reg, _, _ := newTestEngine()
	shape := reg.Create(r3.Vec{})

	eng.Process([]detector.HandLandmarks{detector.PinchingHand(0.49, 0.5)})

	// The shape disappears between frames, e.g. deleted through the API.
	reg.Remove(shape.ID)

	events := eng.Process([]detector.HandLandmarks{detector.PinchingHand(0.49, 0.5)})
	if len(events) != 0 {
		t.Errorf("events = %v, want none for a vanished shape", events)
	}
	if eng.Selected() != "" {
		t.Error("stale selection should be dropped")
	}
}

func TestEngine_TwoHandPinchClearsRecycleIndicator(t *testing.T) {
	eng, reg, view, clk := newTestEngine()
	shape := reg.Create(r3.Vec{})

	eng.Process([]detector.HandLandmarks{detector.PinchingHand(0.49, 0.5)})

	nx, ny := zoneHandPos(view)
	eng.Process([]detector.HandLandmarks{detector.PinchingHand(nx-0.01, ny)})

	// A two-hand pinch takes priority and clears the indicator. Tips are
	// kept apart so no shape is created even though the cooldown elapsed.
	clk.advance(2 * time.Second)
	events := eng.Process(pinchPair(0.5, 0.5, 0.2))

	if !hasEvent(events, EventRecycleDisarmed) {
		t.Fatal("two-hand pinch should disarm the recycle indicator")
	}
	got, _ := reg.Get(shape.ID)
	if got.Highlight != scene.HighlightSelected {
		t.Errorf("highlight = %q, want selected", got.Highlight)
	}
}
