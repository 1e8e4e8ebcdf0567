package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands []HandLandmarks
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// PinchingHand returns a preset HandLandmarks with the thumb and index tips
// touching at the given normalized position. The remaining fingers are laid
// out in a plausible half-curled pose around the wrist.
func PinchingHand(x, y float64) HandLandmarks {
	hand := baseHand(x, y)

	// Thumb and index tips meet 0.02 apart, well inside the pinch threshold.
	hand.Points[ThumbTip] = Point3D{X: x - 0.01, Y: y, Z: 0}
	hand.Points[IndexTip] = Point3D{X: x + 0.01, Y: y, Z: 0}
	hand.Points[ThumbIP] = Point3D{X: x - 0.03, Y: y + 0.03, Z: 0}
	hand.Points[IndexDIP] = Point3D{X: x + 0.02, Y: y + 0.03, Z: -0.01}

	return hand
}

// OpenHand returns a preset HandLandmarks with the index tip at the given
// normalized position and the thumb spread far enough away that no pinch is
// detected.
func OpenHand(x, y float64) HandLandmarks {
	hand := baseHand(x, y)

	hand.Points[IndexTip] = Point3D{X: x, Y: y, Z: 0}
	hand.Points[IndexDIP] = Point3D{X: x, Y: y + 0.03, Z: 0}
	hand.Points[ThumbTip] = Point3D{X: x - 0.12, Y: y + 0.08, Z: 0}
	hand.Points[ThumbIP] = Point3D{X: x - 0.10, Y: y + 0.10, Z: 0}

	return hand
}

// baseHand lays out wrist, palm knuckles and curled fingers around (x, y).
func baseHand(x, y float64) HandLandmarks {
	hand := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	hand.Points[Wrist] = Point3D{X: x, Y: y + 0.18, Z: 0}

	hand.Points[ThumbCMC] = Point3D{X: x - 0.05, Y: y + 0.14, Z: 0}
	hand.Points[ThumbMCP] = Point3D{X: x - 0.04, Y: y + 0.08, Z: 0}
	hand.Points[ThumbIP] = Point3D{X: x - 0.03, Y: y + 0.04, Z: 0}
	hand.Points[ThumbTip] = Point3D{X: x - 0.02, Y: y + 0.01, Z: 0}

	hand.Points[IndexMCP] = Point3D{X: x + 0.01, Y: y + 0.10, Z: -0.01}
	hand.Points[IndexPIP] = Point3D{X: x + 0.01, Y: y + 0.06, Z: -0.02}
	hand.Points[IndexDIP] = Point3D{X: x + 0.01, Y: y + 0.03, Z: -0.02}
	hand.Points[IndexTip] = Point3D{X: x + 0.01, Y: y + 0.01, Z: -0.01}

	hand.Points[MiddleMCP] = Point3D{X: x + 0.03, Y: y + 0.10, Z: -0.01}
	hand.Points[MiddlePIP] = Point3D{X: x + 0.04, Y: y + 0.07, Z: -0.03}
	hand.Points[MiddleDIP] = Point3D{X: x + 0.04, Y: y + 0.09, Z: -0.03}
	hand.Points[MiddleTip] = Point3D{X: x + 0.04, Y: y + 0.11, Z: -0.02}

	hand.Points[RingMCP] = Point3D{X: x + 0.05, Y: y + 0.11, Z: -0.01}
	hand.Points[RingPIP] = Point3D{X: x + 0.06, Y: y + 0.08, Z: -0.03}
	hand.Points[RingDIP] = Point3D{X: x + 0.06, Y: y + 0.10, Z: -0.03}
	hand.Points[RingTip] = Point3D{X: x + 0.06, Y: y + 0.12, Z: -0.02}

	hand.Points[PinkyMCP] = Point3D{X: x + 0.07, Y: y + 0.12, Z: -0.01}
	hand.Points[PinkyPIP] = Point3D{X: x + 0.08, Y: y + 0.09, Z: -0.02}
	hand.Points[PinkyDIP] = Point3D{X: x + 0.08, Y: y + 0.11, Z: -0.02}
	hand.Points[PinkyTip] = Point3D{X: x + 0.08, Y: y + 0.13, Z: -0.02}

	return hand
}
