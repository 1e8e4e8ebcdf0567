// Package pointer provides the mouse fallback for driving the scene when
// hand tracking is unavailable. It is a strictly simpler state machine than
// the gesture engine: one actor, no cooldown, the same intents.
package pointer

import (
	"github.com/ayusman/shilpa/internal/gesture"
	"github.com/ayusman/shilpa/internal/scene"
)

// Kind identifies a pointer event type.
type Kind string

const (
	KindPress   Kind = "press"
	KindMove    Kind = "move"
	KindRelease Kind = "release"
	KindWheel   Kind = "wheel"
)

const (
	// PickRadius is the maximum world-space distance at which a press or
	// wheel event hits a shape.
	PickRadius = 1.5

	// WheelScaleStep is the per-notch multiplicative scale adjustment.
	WheelScaleStep = 0.1
)

// Event is a pointer event forwarded from the browser client, with
// coordinates in client pixels.
type Event struct {
	Kind   Kind    `json:"kind"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Button int     `json:"button"`
	DeltaY float64 `json:"deltaY"`
}

// Session is the pointer interaction state machine. Like the gesture
// engine it references shapes by registry ID only.
type Session struct {
	registry     *scene.Registry
	view         *scene.View
	draggingID   string
	recycleArmed bool
}

// NewSession creates a Session operating on the given registry and view.
func NewSession(registry *scene.Registry, view *scene.View) *Session {
	return &Session{
		registry: registry,
		view:     view,
	}
}

// Dragging returns the ID of the shape being dragged, or "".
func (s *Session) Dragging() string {
	return s.draggingID
}

// Handle consumes one pointer event and returns the resulting scene events.
func (s *Session) Handle(ev Event) []gesture.Event {
	switch ev.Kind {
	case KindPress:
		return s.handlePress(ev)
	case KindMove:
		return s.handleMove(ev)
	case KindRelease:
		return s.handleRelease()
	case KindWheel:
		return s.handleWheel(ev)
	}
	return nil
}

// handlePress selects the shape under the pointer, or creates a new shape
// on empty space.
func (s *Session) handlePress(ev Event) []gesture.Event {
	if ev.Button != 0 {
		return nil
	}

	pos := s.view.Unproject(ev.X, ev.Y)

	if shape, ok := s.registry.Nearest(pos, PickRadius); ok {
		s.draggingID = shape.ID
		s.registry.SetHighlight(shape.ID, scene.HighlightSelected)
		return []gesture.Event{{
			Kind:    gesture.EventShapeSelected,
			ShapeID: shape.ID,
			Status:  "Shape selected",
		}}
	}

	shape := s.registry.Create(pos)
	return []gesture.Event{{
		Kind:    gesture.EventShapeCreated,
		ShapeID: shape.ID,
		Status:  "Shape created",
	}}
}

// handleMove drags the grabbed shape and keeps the recycle indicator live.
func (s *Session) handleMove(ev Event) []gesture.Event {
	if s.draggingID == "" {
		return nil
	}

	pos := s.view.Unproject(ev.X, ev.Y)
	id := s.draggingID

	if !s.registry.SetPosition(id, pos) {
		// Shape vanished mid-drag; drop the grab.
		s.draggingID = ""
		s.recycleArmed = false
		return nil
	}

	events := []gesture.Event{{
		Kind:    gesture.EventShapeMoved,
		ShapeID: id,
		Status:  "Dragging shape",
	}}

	if s.view.InRecycleZone(pos) {
		if !s.recycleArmed {
			s.recycleArmed = true
			s.registry.SetHighlight(id, scene.HighlightArmed)
			events = append(events, gesture.Event{
				Kind:    gesture.EventRecycleArmed,
				ShapeID: id,
				Status:  "Release to delete shape",
			})
		}
	} else if s.recycleArmed {
		s.recycleArmed = false
		s.registry.SetHighlight(id, scene.HighlightSelected)
		events = append(events, gesture.Event{
			Kind:    gesture.EventRecycleDisarmed,
			ShapeID: id,
			Status:  "Dragging shape",
		})
	}

	return events
}

// handleRelease ends the drag, deleting the shape if it was dropped on the
// recycle zone.
func (s *Session) handleRelease() []gesture.Event {
	if s.draggingID == "" {
		return nil
	}

	id := s.draggingID
	s.draggingID = ""
	s.recycleArmed = false

	shape, ok := s.registry.Get(id)
	if !ok {
		return nil
	}

	if s.view.InRecycleZone(shape.Position) {
		s.registry.Remove(id)
		return []gesture.Event{{
			Kind:    gesture.EventShapeDeleted,
			ShapeID: id,
			Status:  "Shape deleted",
		}}
	}

	s.registry.SetHighlight(id, scene.HighlightNormal)
	return []gesture.Event{{
		Kind:    gesture.EventShapeReleased,
		ShapeID: id,
		Status:  "Shape released",
	}}
}

// handleWheel scales the shape under the pointer by 10% per notch,
// independent of any drag in progress.
func (s *Session) handleWheel(ev Event) []gesture.Event {
	if ev.DeltaY == 0 {
		return nil
	}

	pos := s.view.Unproject(ev.X, ev.Y)
	shape, ok := s.registry.Nearest(pos, PickRadius)
	if !ok {
		return nil
	}

	factor := 1 + WheelScaleStep
	if ev.DeltaY > 0 {
		factor = 1 - WheelScaleStep
	}

	if !s.registry.ScaleBy(shape.ID, factor) {
		return nil
	}

	return []gesture.Event{{
		Kind:    gesture.EventShapeScaled,
		ShapeID: shape.ID,
		Status:  "Shape scaled",
	}}
}
