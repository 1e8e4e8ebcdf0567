package capture

import (
	"errors"
	"sync"

	"gocv.io/x/gocv"
)

// ErrNoFrames is returned when a mock camera has run out of footage.
var ErrNoFrames = errors.New("no frames available")

// MockCamera is a Camera that plays back a fixed frame sequence, optionally
// looping. It stands in for real hardware in tests and on headless machines.
type MockCamera struct {
	mu      sync.Mutex
	footage []*gocv.Mat
	cursor  int
	loop    bool
	fps     int
	open    bool
}

// NewMockCamera returns a mock camera over the given footage. When loop is
// true playback wraps around instead of running dry.
func NewMockCamera(footage []*gocv.Mat, loop bool) *MockCamera {
	return &MockCamera{
		footage: footage,
		loop:    loop,
		fps:     15,
	}
}

func (c *MockCamera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = true
	c.cursor = 0
	return nil
}

func (c *MockCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = false
	return nil
}

// ReadFrame returns a clone of the next frame in the sequence. Callers own
// the returned Mat and must close it.
func (c *MockCamera) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.open {
		return nil, ErrCameraNotOpen
	}
	if len(c.footage) == 0 {
		return nil, ErrNoFrames
	}
	if c.cursor >= len(c.footage) {
		if !c.loop {
			return nil, ErrNoFrames
		}
		c.cursor = 0
	}

	frame := c.footage[c.cursor].Clone()
	c.cursor++
	return &frame, nil
}

func (c *MockCamera) SetFPS(fps int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if fps > 0 {
		c.fps = fps
	}
}

func (c *MockCamera) FPS() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fps
}

func (c *MockCamera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// SetFrames swaps in a new frame sequence and rewinds playback.
func (c *MockCamera) SetFrames(footage []*gocv.Mat) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.footage = footage
	c.cursor = 0
}

// Reset rewinds playback to the first frame.
func (c *MockCamera) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cursor = 0
}
