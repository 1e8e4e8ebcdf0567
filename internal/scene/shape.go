// Package scene holds the in-memory registry of spawned shapes and the
// screen-space view math used to place and recycle them.
package scene

import (
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

// Highlight represents the visual state of a shape.
type Highlight string

const (
	// HighlightNormal is the default neon appearance.
	HighlightNormal Highlight = "normal"
	// HighlightSelected marks a shape currently grabbed by a pinch or drag.
	HighlightSelected Highlight = "selected"
	// HighlightArmed marks a shape hovering over the recycle zone; releasing
	// it there deletes it.
	HighlightArmed Highlight = "armed"
)

// DefaultScale is the uniform scale assigned to newly created shapes.
const DefaultScale = 1.0

// neonPalette is cycled through as shapes are created.
var neonPalette = []string{
	"#ff00ff",
	"#00ffff",
	"#39ff14",
	"#ff6ec7",
	"#ffe700",
}

// Shape is a handle to a spawned neon shape. Instances returned by the
// registry are value copies; mutation goes through registry methods so a
// deleted shape can never be touched through a stale handle.
type Shape struct {
	ID        string
	Position  r3.Vec
	Scale     float64
	Color     string
	Highlight Highlight
	CreatedAt time.Time
}
