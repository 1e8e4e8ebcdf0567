// Package api provides HTTP API handlers for the Shilpa scene server.
package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ayusman/shilpa/internal/scene"
	"github.com/ayusman/shilpa/internal/store"
)

// ShapeHandler handles HTTP requests for shape resources. It reads from the
// live registry so responses reflect in-flight gesture edits, and mirrors
// deletions into the store.
type ShapeHandler struct {
	registry *scene.Registry
	store    *store.Store

	// OnChange, if set, is called after any mutation so the server can push
	// a fresh snapshot to websocket clients.
	OnChange func()
}

// NewShapeHandler creates a new ShapeHandler with the given registry and store.
func NewShapeHandler(registry *scene.Registry, s *store.Store) *ShapeHandler {
	return &ShapeHandler{registry: registry, store: s}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *ShapeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/shapes or /api/shapes/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/shapes")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		// Collection endpoint: /api/shapes
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodDelete:
			h.clear(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	// Item endpoint: /api/shapes/{id}
	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Response types

type positionResponse struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type shapeResponse struct {
	ID        string           `json:"id"`
	Position  positionResponse `json:"position"`
	Scale     float64          `json:"scale"`
	Color     string           `json:"color"`
	Highlight string           `json:"highlight"`
	CreatedAt string           `json:"created_at"`
}

type listShapesResponse struct {
	Shapes []shapeResponse `json:"shapes"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toResponse converts a scene.Shape to a shapeResponse.
func toResponse(sh scene.Shape) shapeResponse {
	return shapeResponse{
		ID:        sh.ID,
		Position:  positionResponse{X: sh.Position.X, Y: sh.Position.Y, Z: sh.Position.Z},
		Scale:     sh.Scale,
		Color:     sh.Color,
		Highlight: string(sh.Highlight),
		CreatedAt: sh.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/shapes and returns every shape in the scene.
func (h *ShapeHandler) list(w http.ResponseWriter, r *http.Request) {
	shapes := h.registry.Snapshot()

	response := listShapesResponse{
		Shapes: make([]shapeResponse, 0, len(shapes)),
	}
	for _, sh := range shapes {
		response.Shapes = append(response.Shapes, toResponse(sh))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/shapes/{id} and returns a single shape.
func (h *ShapeHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	sh, ok := h.registry.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Shape not found")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(sh))
}

// delete handles DELETE /api/shapes/{id} and removes a shape from the scene
// and the store.
func (h *ShapeHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if !h.registry.Remove(id) {
		writeError(w, http.StatusNotFound, "Shape not found")
		return
	}

	if h.store != nil {
		if err := h.store.Shapes().Delete(id); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to delete shape")
			return
		}
	}

	h.notify()
	w.WriteHeader(http.StatusNoContent)
}

// clear handles DELETE /api/shapes and empties the scene.
func (h *ShapeHandler) clear(w http.ResponseWriter, r *http.Request) {
	h.registry.Clear()

	if h.store != nil {
		if err := h.store.Shapes().Clear(); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to clear shapes")
			return
		}
	}

	h.notify()
	w.WriteHeader(http.StatusNoContent)
}

func (h *ShapeHandler) notify() {
	if h.OnChange != nil {
		h.OnChange()
	}
}
