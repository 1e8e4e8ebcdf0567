package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/shilpa/internal/capture"
	"github.com/ayusman/shilpa/internal/server/api"
	"github.com/ayusman/shilpa/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Camera    capture.Camera
	App       SceneApp
}

// Server represents the HTTP server for the Shilpa application.
type Server struct {
	config Config
	mux    *http.ServeMux
	scene  *SceneHandler
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	// Register scene WebSocket endpoint if App is configured
	if s.config.App != nil {
		s.scene = NewSceneHandler(s.config.App)
		s.mux.Handle("/api/scene", s.scene)

		// Register shape API handler
		shapeHandler := api.NewShapeHandler(s.config.App.Registry(), s.config.Store)
		shapeHandler.OnChange = func() {
			s.scene.Publish(nil)
		}
		s.mux.Handle("/api/shapes", shapeHandler)
		s.mux.Handle("/api/shapes/", shapeHandler)
	}

	// Register camera stream endpoint if Camera is configured
	if s.config.Camera != nil {
		streamHandler := NewStreamHandler(s.config.Camera)
		s.mux.Handle("/api/stream", streamHandler)
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// Scene returns the websocket scene handler, or nil when no app is
// configured. The app should use it as its event publisher.
func (s *Server) Scene() *SceneHandler {
	return s.scene
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
