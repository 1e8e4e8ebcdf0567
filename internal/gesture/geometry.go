// Package gesture converts per-frame hand landmarks into shape intents:
// create, select, move, scale and delete.
package gesture

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ayusman/shilpa/internal/detector"
)

// Gesture thresholds. Tuned interaction constants, deliberately not runtime
// configurable.
const (
	// PinchThreshold is the maximum 3D thumb-tip/index-tip distance (in
	// normalized frame space) that still counts as a pinch. The boundary is
	// exclusive: a distance of exactly 0.06 is not a pinch.
	PinchThreshold = 0.06

	// IndexCloseThreshold is the maximum 2D distance between two hands'
	// index tips for the creation gesture. Exclusive boundary.
	IndexCloseThreshold = 0.12

	// SelectRadius is the maximum world-space distance at which a pinch
	// grabs the nearest shape. Exclusive boundary.
	SelectRadius = 1.5

	// worldSpan is the world-space width covered by the normalized [0,1]
	// fingertip range.
	worldSpan = 10.0
)

// IsPinch reports whether the hand's thumb and index tips are pinched
// together. Hands with missing landmarks (decoded as zero values) are never
// pinching; the function is total and never panics.
func IsPinch(hand *detector.HandLandmarks) bool {
	if hand == nil {
		return false
	}

	thumb := hand.Points[detector.ThumbTip]
	index := hand.Points[detector.IndexTip]
	if (thumb == detector.Point3D{}) || (index == detector.Point3D{}) {
		return false
	}

	dx := thumb.X - index.X
	dy := thumb.Y - index.Y
	dz := thumb.Z - index.Z
	return math.Sqrt(dx*dx+dy*dy+dz*dz) < PinchThreshold
}

// IndexTipsClose reports whether the two hands' index tips are within the
// creation distance of each other, measured in 2D frame space.
func IndexTipsClose(a, b *detector.HandLandmarks) bool {
	if a == nil || b == nil {
		return false
	}

	ta := a.Points[detector.IndexTip]
	tb := b.Points[detector.IndexTip]
	if (ta == detector.Point3D{}) || (tb == detector.Point3D{}) {
		return false
	}

	return indexTipDistance(a, b) < IndexCloseThreshold
}

// indexTipDistance returns the 2D distance between the two hands' index
// tips in normalized frame space.
func indexTipDistance(a, b *detector.HandLandmarks) float64 {
	ta := a.Points[detector.IndexTip]
	tb := b.Points[detector.IndexTip]

	dx := ta.X - tb.X
	dy := ta.Y - tb.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// indexMidpoint returns the 2D midpoint of the two hands' index tips.
func indexMidpoint(a, b *detector.HandLandmarks) detector.Point3D {
	ta := a.Points[detector.IndexTip]
	tb := b.Points[detector.IndexTip]

	return detector.Point3D{
		X: (ta.X + tb.X) / 2,
		Y: (ta.Y + tb.Y) / 2,
	}
}

// MapToWorld maps a normalized landmark position to a world position on the
// z=0 plane. The frame's top-left origin becomes a centered, y-up world.
func MapToWorld(p detector.Point3D) r3.Vec {
	return r3.Vec{
		X: (p.X - 0.5) * worldSpan,
		Y: (0.5 - p.Y) * worldSpan,
		Z: 0,
	}
}
