package detector

import "gocv.io/x/gocv"

// Detector turns a video frame into zero or more sets of hand landmarks.
type Detector interface {
	// Detect returns the hands found in the frame, or an empty slice when
	// none are visible.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config tunes the detection backend.
type Config struct {
	// MaxHands caps how many hands a single frame may report.
	MaxHands int

	// MinConfidence is the detection confidence floor, in [0,1].
	MinConfidence float64

	// MinTrackingConf is the inter-frame tracking confidence floor, in [0,1].
	MinTrackingConf float64
}

// DefaultConfig tracks up to two hands, which the create and scale gestures
// need.
func DefaultConfig() Config {
	return Config{
		MaxHands:        2,
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
	}
}
