package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

const (
	// blurKernel is the Gaussian kernel size used to suppress sensor noise
	// before frame differencing.
	blurKernel = 21
	// pixelDelta is the per-pixel intensity change that counts as movement.
	pixelDelta = 25
)

// MotionDetector reports whether anything moved between consecutive frames.
// It blurs each frame, diffs it against the previous one and measures the
// fraction of pixels that changed. The tracking pipeline uses it to stay at
// a low frame rate while the scene is still.
type MotionDetector struct {
	mu       sync.Mutex
	minPct   float64
	baseline gocv.Mat
	primed   bool
}

// NewMotionDetector creates a detector that fires when more than minPct
// percent of pixels change between frames.
func NewMotionDetector(minPct float64) *MotionDetector {
	return &MotionDetector{
		minPct:   minPct,
		baseline: gocv.NewMat(),
	}
}

// Detect compares the frame against the previous one and returns whether
// motion was seen along with the percentage of pixels that changed. The
// first frame only primes the baseline and never reports motion.
func (m *MotionDetector) Detect(frame *gocv.Mat) (bool, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: blurKernel, Y: blurKernel}, 0, 0, gocv.BorderDefault)

	if !m.primed {
		blurred.CopyTo(&m.baseline)
		m.primed = true
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, m.baseline, &diff)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.Threshold(diff, &mask, pixelDelta, 255, gocv.ThresholdBinary)

	changed := gocv.CountNonZero(mask)
	total := mask.Rows() * mask.Cols()
	pct := float64(changed) / float64(total) * 100.0

	blurred.CopyTo(&m.baseline)

	return pct > m.minPct, pct
}

// Reset drops the baseline so the next frame primes it again.
func (m *MotionDetector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dropBaseline()
}

// Close releases the detector's OpenCV resources.
func (m *MotionDetector) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dropBaseline()
}

func (m *MotionDetector) dropBaseline() {
	if !m.baseline.Empty() {
		m.baseline.Close()
		m.baseline = gocv.NewMat()
	}
	m.primed = false
}

// SetThreshold changes the percentage of changed pixels required to report
// motion. Non-positive values are ignored.
func (m *MotionDetector) SetThreshold(minPct float64) {
	if minPct <= 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.minPct = minPct
}
