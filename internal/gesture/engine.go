package gesture

import (
	"time"

	"github.com/ayusman/shilpa/internal/detector"
	"github.com/ayusman/shilpa/internal/scene"
)

// CreationCooldown is the minimum wall-clock interval between two shape
// creations, compared directly against timestamps rather than scheduled.
const CreationCooldown = 1000 * time.Millisecond

// Session holds the transient state of the gesture interaction. Shapes are
// referenced by registry ID, never by pointer, so a shape deleted elsewhere
// degrades to a no-op instead of a dangling reference.
type Session struct {
	// isPinching is true while a two-hand pinch is held.
	isPinching bool
	// createdThisPinch guards one creation per continuous two-hand pinch.
	createdThisPinch bool
	// lastCreation is the timestamp of the most recent shape creation.
	lastCreation time.Time
	// originalDist is the inter-index-tip distance recorded at creation,
	// the baseline for the live scale ratio.
	originalDist float64
	// currentID is the shape being scaled by the two-hand pinch.
	currentID string
	// selectedID is the shape grabbed by a single-hand pinch.
	selectedID string
	// recycleArmed is true while the grabbed shape hovers over the recycle zone.
	recycleArmed bool
}

// Engine is a synchronous reducer over per-frame hand landmark sets. Each
// call to Process applies at most one frame's worth of transitions to the
// registry and returns the resulting events. The engine itself is not
// concurrency-safe; callers must serialize Process and Reset.
type Engine struct {
	registry *scene.Registry
	view     *scene.View
	session  Session
	clock    func() time.Time
}

// NewEngine creates an Engine operating on the given registry and view.
func NewEngine(registry *scene.Registry, view *scene.View) *Engine {
	return &Engine{
		registry: registry,
		view:     view,
		clock:    time.Now,
	}
}

// Reset returns the session to its neutral state without touching the scene.
func (e *Engine) Reset() {
	e.session = Session{lastCreation: e.session.lastCreation}
}

// Selected returns the ID of the currently grabbed shape, or "".
func (e *Engine) Selected() string {
	return e.session.selectedID
}

// Process consumes one frame of detected hands and returns the events
// applied to the scene. Transitions are evaluated in priority order: the
// two-hand pinch gesture first, then per-hand selection and dragging, then
// the no-hands cleanup.
func (e *Engine) Process(hands []detector.HandLandmarks) []Event {
	now := e.clock()

	if len(hands) >= 2 {
		a, b := &hands[0], &hands[1]
		if IsPinch(a) && IsPinch(b) {
			events := e.processTwoHandPinch(a, b, now)
			e.session.isPinching = true
			return events
		}
	}

	// No qualifying two-hand pinch this frame: the creation/scale gesture,
	// if any, is over.
	e.session.isPinching = false
	e.session.createdThisPinch = false
	e.session.originalDist = 0
	e.session.currentID = ""

	if len(hands) == 0 {
		return e.processNoHands()
	}

	var events []Event
	for i := range hands {
		events = append(events, e.processHand(&hands[i])...)
	}
	return events
}

// processTwoHandPinch handles creation on gesture start and live scaling on
// every following frame of the same pinch.
func (e *Engine) processTwoHandPinch(a, b *detector.HandLandmarks, now time.Time) []Event {
	var events []Event
	dist := indexTipDistance(a, b)

	if !e.session.isPinching {
		// Gesture start. Creation requires close index tips, an elapsed
		// cooldown, and no prior creation within this pinch.
		if IndexTipsClose(a, b) &&
			now.Sub(e.session.lastCreation) >= CreationCooldown &&
			!e.session.createdThisPinch {
			shape := e.registry.Create(MapToWorld(indexMidpoint(a, b)))
			e.session.lastCreation = now
			e.session.createdThisPinch = true
			e.session.originalDist = dist
			e.session.currentID = shape.ID

			events = append(events, Event{
				Kind:    EventShapeCreated,
				ShapeID: shape.ID,
				Status:  "Shape created",
			})
		}
	} else if e.session.currentID != "" && e.session.originalDist > 0 {
		// Continuing pinch: apply the live scale ratio. A degenerate zero
		// distance means no scale change this frame.
		ratio := dist / e.session.originalDist
		if ratio > 0 {
			if e.registry.SetScale(e.session.currentID, ratio) {
				events = append(events, Event{
					Kind:    EventShapeScaled,
					ShapeID: e.session.currentID,
					Status:  "Scaling shape",
				})
			} else {
				// Shape was deleted out from under us.
				e.session.currentID = ""
			}
		}
	}

	// The two-hand gesture always clears the recycle indicator.
	events = append(events, e.disarm("")...)

	return events
}

// processHand handles single-hand selection, dragging and recycle arming.
func (e *Engine) processHand(hand *detector.HandLandmarks) []Event {
	var events []Event
	pos := MapToWorld(hand.Points[detector.IndexTip])

	if IsPinch(hand) {
		if e.session.selectedID == "" {
			if shape, ok := e.registry.Nearest(pos, SelectRadius); ok {
				e.session.selectedID = shape.ID
				e.registry.SetHighlight(shape.ID, scene.HighlightSelected)
				events = append(events, Event{
					Kind:    EventShapeSelected,
					ShapeID: shape.ID,
					Status:  "Shape selected",
				})
			}
		}

		id := e.session.selectedID
		if id == "" {
			return events
		}

		if !e.registry.SetPosition(id, pos) {
			// Selection points at a shape no longer in the registry.
			e.session.selectedID = ""
			e.session.recycleArmed = false
			return events
		}
		events = append(events, Event{
			Kind:    EventShapeMoved,
			ShapeID: id,
			Status:  "Dragging shape",
		})

		if e.view.InRecycleZone(pos) {
			if !e.session.recycleArmed {
				e.session.recycleArmed = true
				e.registry.SetHighlight(id, scene.HighlightArmed)
				events = append(events, Event{
					Kind:    EventRecycleArmed,
					ShapeID: id,
					Status:  "Release to delete shape",
				})
			}
		} else {
			events = append(events, e.disarm("Dragging shape")...)
		}

		return events
	}

	// Pinch released this frame.
	if e.session.selectedID != "" {
		events = append(events, e.releaseSelection()...)
	}
	return events
}

// processNoHands handles the camera losing tracking: a shape parked in the
// recycle zone mid-drag is still deleted, and the selection is cleared.
func (e *Engine) processNoHands() []Event {
	if e.session.selectedID == "" {
		return nil
	}
	return e.releaseSelection()
}

// releaseSelection ends the current grab: the shape is deleted if it sits in
// the recycle zone, otherwise restored to its normal appearance.
func (e *Engine) releaseSelection() []Event {
	var events []Event
	id := e.session.selectedID

	if shape, ok := e.registry.Get(id); ok {
		if e.view.InRecycleZone(shape.Position) {
			e.registry.Remove(id)
			events = append(events, Event{
				Kind:    EventShapeDeleted,
				ShapeID: id,
				Status:  "Shape deleted",
			})
		} else {
			e.registry.SetHighlight(id, scene.HighlightNormal)
			events = append(events, Event{
				Kind:    EventShapeReleased,
				ShapeID: id,
				Status:  "Shape released",
			})
		}
	}

	e.session.selectedID = ""
	e.session.recycleArmed = false
	return events
}

// disarm clears the recycle indicator if it is lit. The grabbed shape, if
// any, drops back to the selected appearance.
func (e *Engine) disarm(status string) []Event {
	if !e.session.recycleArmed {
		return nil
	}

	e.session.recycleArmed = false
	id := e.session.selectedID
	if id != "" {
		e.registry.SetHighlight(id, scene.HighlightSelected)
	}

	return []Event{{
		Kind:    EventRecycleDisarmed,
		ShapeID: id,
		Status:  status,
	}}
}
