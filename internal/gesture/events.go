package gesture

// EventKind identifies an intent produced by the gesture engine or the
// pointer fallback.
type EventKind string

const (
	// EventShapeCreated is emitted when a two-hand pinch spawns a shape.
	EventShapeCreated EventKind = "shape_created"
	// EventShapeSelected is emitted when a single-hand pinch grabs a shape.
	EventShapeSelected EventKind = "shape_selected"
	// EventShapeMoved is emitted for every frame a grabbed shape follows the
	// fingertip or pointer.
	EventShapeMoved EventKind = "shape_moved"
	// EventShapeScaled is emitted for every frame a two-hand pinch resizes
	// the current shape, and for wheel scaling in the pointer fallback.
	EventShapeScaled EventKind = "shape_scaled"
	// EventShapeReleased is emitted when a grab ends outside the recycle zone.
	EventShapeReleased EventKind = "shape_released"
	// EventShapeDeleted is emitted when a shape is dropped on the recycle zone.
	EventShapeDeleted EventKind = "shape_deleted"
	// EventRecycleArmed is emitted when a dragged shape enters the recycle zone.
	EventRecycleArmed EventKind = "recycle_armed"
	// EventRecycleDisarmed is emitted when a dragged shape leaves the recycle
	// zone, or a two-hand gesture clears the indicator.
	EventRecycleDisarmed EventKind = "recycle_disarmed"
)

// Event describes a single state change applied to the scene. Status is a
// human-readable description for the presentation shell; it is advisory and
// carries no correctness weight.
type Event struct {
	Kind    EventKind
	ShapeID string
	Status  string
}
