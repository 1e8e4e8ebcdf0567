// Package app wires the capture, detection, gesture and scene components
// into the Shilpa interaction pipeline.
package app

import (
	"log"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ayusman/shilpa/internal/capture"
	"github.com/ayusman/shilpa/internal/detector"
	"github.com/ayusman/shilpa/internal/gesture"
	"github.com/ayusman/shilpa/internal/pointer"
	"github.com/ayusman/shilpa/internal/scene"
	"github.com/ayusman/shilpa/internal/store"
)

// Pipeline timing constants.
const (
	// IdleFPS is the frame rate when no motion is detected.
	IdleFPS = 5
	// ActiveFPS is the frame rate during active tracking.
	ActiveFPS = 15
	// IdleTimeoutMs is the time in milliseconds to wait before switching back to idle mode.
	IdleTimeoutMs = 2000
)

// trackingSettingKey is the settings row persisting the tray toggle.
const trackingSettingKey = "tracking_enabled"

// Config holds configuration options for the application.
type Config struct {
	Store        *store.Store
	CameraID     int
	MotionThresh float64
}

// Publisher receives the event batches produced by each processed frame,
// typically to broadcast scene updates to connected clients. An empty batch
// still signals that a fresh snapshot should go out.
type Publisher interface {
	Publish(events []gesture.Event)
}

// App is the main application that orchestrates hand tracking and scene
// manipulation.
type App struct {
	config    Config
	camera    capture.Camera
	motion    *capture.MotionDetector
	detector  detector.Detector
	registry  *scene.Registry
	view      *scene.View
	engine    *gesture.Engine
	pointer   *pointer.Session
	publisher Publisher
	enabled   bool
	mu        sync.RWMutex
	stopCh    chan struct{}

	// sessionMu serializes all access to the gesture engine and pointer
	// session. Neither is concurrency-safe, and they are reached from the
	// pipeline goroutine, websocket connection goroutines and the tray
	// callback goroutine.
	sessionMu sync.Mutex
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	motionThreshold := config.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0 // Default threshold: 1% pixel change
	}

	registry := scene.NewRegistry()
	view := scene.NewView()

	a := &App{
		config:   config,
		camera:   capture.NewCamera(config.CameraID),
		motion:   capture.NewMotionDetector(motionThreshold),
		registry: registry,
		view:     view,
		engine:   gesture.NewEngine(registry, view),
		pointer:  pointer.NewSession(registry, view),
		enabled:  true,
		stopCh:   nil,
	}

	// Try MediaPipe first, fall back to mock detector
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	// Restore the tray toggle from the last run.
	if config.Store != nil {
		if v, err := config.Store.Settings().Get(trackingSettingKey); err == nil {
			a.enabled = v != "false"
		}
	}

	return a
}

// SetEnabled enables or disables gesture tracking and persists the choice.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	a.enabled = enabled
	a.mu.Unlock()

	if a.config.Store != nil {
		v := "true"
		if !enabled {
			v = "false"
		}
		if err := a.config.Store.Settings().Set(trackingSettingKey, v); err != nil {
			log.Printf("Failed to persist tracking state: %v", err)
		}
	}
}

// IsEnabled returns whether gesture tracking is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetPublisher sets the sink for per-frame event batches.
func (a *App) SetPublisher(p Publisher) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.publisher = p
}

// RestoreScene loads the persisted shapes from the store into the registry.
func (a *App) RestoreScene() error {
	if a.config.Store == nil {
		return nil
	}

	shapes, err := a.config.Store.Shapes().List()
	if err != nil {
		return err
	}

	for _, sh := range shapes {
		a.registry.Add(scene.Shape{
			ID:        sh.ID,
			Position:  r3.Vec{X: sh.X, Y: sh.Y, Z: sh.Z},
			Scale:     sh.Scale,
			Color:     sh.Color,
			Highlight: scene.HighlightNormal,
			CreatedAt: sh.CreatedAt,
		})
	}

	log.Printf("Restored %d shapes from database", len(shapes))
	return nil
}

// ApplyPointer feeds one pointer event from a client into the mouse
// fallback state machine, persisting any resulting scene changes.
func (a *App) ApplyPointer(ev pointer.Event) []gesture.Event {
	a.sessionMu.Lock()
	events := a.pointer.Handle(ev)
	a.sessionMu.Unlock()

	a.persist(events)
	return events
}

// ProcessHands feeds one frame's worth of hand landmarks through the
// gesture engine, persisting and broadcasting any resulting scene changes.
func (a *App) ProcessHands(hands []detector.HandLandmarks) []gesture.Event {
	a.sessionMu.Lock()
	events := a.engine.Process(hands)
	a.sessionMu.Unlock()

	a.persist(events)
	if len(events) > 0 {
		a.publish(events)
	}
	return events
}

// ClearScene removes all shapes from the registry and the store and pushes
// a fresh snapshot to clients.
func (a *App) ClearScene() error {
	a.sessionMu.Lock()
	a.registry.Clear()
	a.engine.Reset()
	a.sessionMu.Unlock()

	if a.config.Store != nil {
		if err := a.config.Store.Shapes().Clear(); err != nil {
			return err
		}
	}

	a.publish(nil)
	return nil
}

// persist mirrors scene changes into the store.
func (a *App) persist(events []gesture.Event) {
	if a.config.Store == nil {
		return
	}

	for _, ev := range events {
		switch ev.Kind {
		case gesture.EventShapeCreated, gesture.EventShapeMoved,
			gesture.EventShapeScaled, gesture.EventShapeReleased:
			sh, ok := a.registry.Get(ev.ShapeID)
			if !ok {
				continue
			}
			err := a.config.Store.Shapes().Save(&store.Shape{
				ID:        sh.ID,
				X:         sh.Position.X,
				Y:         sh.Position.Y,
				Z:         sh.Position.Z,
				Scale:     sh.Scale,
				Color:     sh.Color,
				CreatedAt: sh.CreatedAt,
			})
			if err != nil {
				log.Printf("Failed to persist shape %s: %v", sh.ID, err)
			}

		case gesture.EventShapeDeleted:
			if err := a.config.Store.Shapes().Delete(ev.ShapeID); err != nil {
				log.Printf("Failed to delete shape %s: %v", ev.ShapeID, err)
			}
		}
	}
}

// publish forwards an event batch to the configured publisher.
func (a *App) publish(events []gesture.Event) {
	a.mu.RLock()
	p := a.publisher
	a.mu.RUnlock()

	if p != nil {
		p.Publish(events)
	}
}

// Start begins the tracking pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	// Open the camera
	if err := a.camera.Open(); err != nil {
		return err
	}

	// Set initial FPS to idle mode
	a.camera.SetFPS(IdleFPS)

	// Create stop channel and start the pipeline
	a.stopCh = make(chan struct{})
	go a.runPipeline(a.stopCh)

	log.Println("Tracking pipeline started")
	return nil
}

// Stop halts the tracking pipeline and releases resources. Any in-flight
// detection result is discarded with the pipeline goroutine.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Signal the pipeline to stop
	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	// Close the camera
	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	// Close motion detector
	a.motion.Close()

	// Close the hand detector if set
	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Tracking pipeline stopped")
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// Registry returns the scene registry.
func (a *App) Registry() *scene.Registry {
	return a.registry
}

// View returns the scene view.
func (a *App) View() *scene.View {
	return a.view
}

// Engine returns the gesture engine.
func (a *App) Engine() *gesture.Engine {
	return a.engine
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}
