package scene

import (
	"image"
	"math"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"
)

// View settings. The camera sits on the positive Z axis looking at the
// origin with a 75 degree vertical field of view.
const (
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720

	// CameraDistance is the camera's Z position.
	CameraDistance = 5.0

	// cameraFOV is the vertical field of view in degrees.
	cameraFOV = 75.0

	// RecycleZoneSize is the side length in pixels of the recycle rectangle.
	RecycleZoneSize = 160
	// RecycleZoneInset is the recycle rectangle's inset from the bottom-right
	// corner of the viewport.
	RecycleZoneInset = 60
)

// worldHalfHeight is the vertical half-extent of the view at the z=0 plane.
var worldHalfHeight = CameraDistance * math.Tan(cameraFOV/2*math.Pi/180)

// View projects world positions to screen pixels and back. The viewport size
// tracks the connected client's window so the recycle zone stays anchored to
// its bottom-right corner.
type View struct {
	mu     sync.RWMutex
	width  int
	height int
}

// NewView creates a View with the default viewport size.
func NewView() *View {
	return &View{
		width:  DefaultViewportWidth,
		height: DefaultViewportHeight,
	}
}

// SetSize updates the viewport size. Non-positive dimensions are ignored.
func (v *View) SetSize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.width = width
	v.height = height
}

// Size returns the current viewport size in pixels.
func (v *View) Size() (int, int) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.width, v.height
}

// Project maps a world position to screen pixel coordinates. The X axis is
// mirrored to match the mirrored camera view shown to the user. Returns
// ok=false for points at or behind the camera.
func (v *View) Project(p r3.Vec) (float64, float64, bool) {
	width, height := v.Size()

	depth := CameraDistance - p.Z
	if depth <= 0 {
		return 0, 0, false
	}
	factor := CameraDistance / depth
	aspect := float64(width) / float64(height)

	ndcX := p.X * factor / (worldHalfHeight * aspect)
	ndcY := p.Y * factor / worldHalfHeight

	x := (ndcX + 1) / 2 * float64(width)
	y := (1 - ndcY) / 2 * float64(height)

	// Horizontal mirror for the selfie view.
	x = float64(width) - x

	return x, y, true
}

// Unproject maps screen pixel coordinates to a world position on the z=0
// plane. It inverts Project, mirror included, so a pointer event and a
// fingertip landing on the same pixel resolve to the same world point.
func (v *View) Unproject(x, y float64) r3.Vec {
	width, height := v.Size()
	aspect := float64(width) / float64(height)

	// Undo the horizontal mirror applied by Project.
	x = float64(width) - x

	ndcX := 2*x/float64(width) - 1
	ndcY := 1 - 2*y/float64(height)

	return r3.Vec{
		X: ndcX * worldHalfHeight * aspect,
		Y: ndcY * worldHalfHeight,
		Z: 0,
	}
}

// RecycleZone returns the recycle rectangle in screen pixels. It is
// recomputed on every call since it is anchored to the current viewport.
func (v *View) RecycleZone() image.Rectangle {
	width, height := v.Size()
	return image.Rect(
		width-RecycleZoneInset-RecycleZoneSize,
		height-RecycleZoneInset-RecycleZoneSize,
		width-RecycleZoneInset,
		height-RecycleZoneInset,
	)
}

// InRecycleZone reports whether a world position projects into the recycle
// rectangle.
func (v *View) InRecycleZone(p r3.Vec) bool {
	x, y, ok := v.Project(p)
	if !ok {
		return false
	}

	zone := v.RecycleZone()
	return x >= float64(zone.Min.X) && x <= float64(zone.Max.X) &&
		y >= float64(zone.Min.Y) && y <= float64(zone.Max.Y)
}
