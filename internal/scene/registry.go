package scene

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"
)

// Registry is an ordered, concurrency-safe collection of shapes. Insertion
// order is preserved so nearest-shape ties resolve to the oldest shape.
type Registry struct {
	mu       sync.RWMutex
	shapes   []*Shape
	colorIdx int
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		shapes: make([]*Shape, 0),
	}
}

// Create allocates a new shape at the given position with the default scale
// and the next neon color, appends it to the collection and returns a copy
// of the handle.
func (r *Registry) Create(pos r3.Vec) Shape {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := &Shape{
		ID:        uuid.NewString(),
		Position:  pos,
		Scale:     DefaultScale,
		Color:     neonPalette[r.colorIdx%len(neonPalette)],
		Highlight: HighlightNormal,
		CreatedAt: time.Now(),
	}
	r.colorIdx++
	r.shapes = append(r.shapes, s)

	return *s
}

// Add inserts an existing shape, used when restoring a persisted scene.
// Shapes with an empty ID are ignored.
func (r *Registry) Add(s Shape) {
	if s.ID == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if s.Scale <= 0 {
		s.Scale = DefaultScale
	}
	if s.Highlight == "" {
		s.Highlight = HighlightNormal
	}

	c := s
	r.shapes = append(r.shapes, &c)
	// Advance the palette cursor so shapes created after a restore do not
	// repeat the restored colors.
	r.colorIdx++
}

// Remove deletes the shape with the given ID from the collection.
// Removing an absent shape is a no-op; the return value reports whether
// anything was deleted.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, s := range r.shapes {
		if s.ID == id {
			r.shapes = append(r.shapes[:i], r.shapes[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns a copy of the shape with the given ID.
func (r *Registry) Get(id string) (Shape, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if s := r.find(id); s != nil {
		return *s, true
	}
	return Shape{}, false
}

// Nearest returns the shape with the minimum Euclidean distance to pos,
// provided that distance is strictly less than maxRadius. With equal
// distances the first shape in insertion order wins.
func (r *Registry) Nearest(pos r3.Vec, maxRadius float64) (Shape, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var best *Shape
	bestDist := maxRadius

	for _, s := range r.shapes {
		d := r3.Norm(r3.Sub(s.Position, pos))
		if d < bestDist {
			best = s
			bestDist = d
		}
	}

	if best == nil {
		return Shape{}, false
	}
	return *best, true
}

// SetPosition moves the shape with the given ID. Returns false if the shape
// is no longer in the registry.
func (r *Registry) SetPosition(id string, pos r3.Vec) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s := r.find(id); s != nil {
		s.Position = pos
		return true
	}
	return false
}

// SetScale sets the uniform scale of the shape with the given ID.
// Non-positive scales are ignored.
func (r *Registry) SetScale(id string, scale float64) bool {
	if scale <= 0 {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if s := r.find(id); s != nil {
		s.Scale = scale
		return true
	}
	return false
}

// ScaleBy multiplies the scale of the shape with the given ID by factor.
func (r *Registry) ScaleBy(id string, factor float64) bool {
	if factor <= 0 {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if s := r.find(id); s != nil {
		s.Scale *= factor
		return true
	}
	return false
}

// SetHighlight sets the visual state of the shape with the given ID.
func (r *Registry) SetHighlight(id string, h Highlight) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s := r.find(id); s != nil {
		s.Highlight = h
		return true
	}
	return false
}

// Snapshot returns a copy of all shapes in insertion order.
func (r *Registry) Snapshot() []Shape {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Shape, len(r.shapes))
	for i, s := range r.shapes {
		out[i] = *s
	}
	return out
}

// Clear removes all shapes.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shapes = r.shapes[:0]
}

// Len returns the number of shapes in the registry.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.shapes)
}

// find returns the stored shape for id. Caller must hold the lock.
func (r *Registry) find(id string) *Shape {
	for _, s := range r.shapes {
		if s.ID == id {
			return s
		}
	}
	return nil
}
