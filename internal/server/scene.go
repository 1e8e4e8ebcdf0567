// Package server provides the HTTP server for the Shilpa scene daemon.
package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/shilpa/internal/gesture"
	"github.com/ayusman/shilpa/internal/pointer"
	"github.com/ayusman/shilpa/internal/scene"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// SceneApp is the slice of the application the websocket handler drives.
type SceneApp interface {
	ApplyPointer(ev pointer.Event) []gesture.Event
	Registry() *scene.Registry
	View() *scene.View
}

// SceneHandler pushes scene snapshots to connected clients over WebSocket
// and feeds their pointer and viewport messages back into the app. It
// doubles as the app's event publisher, so gesture edits reach every
// renderer as they happen.
type SceneHandler struct {
	app     SceneApp
	clients map[*websocket.Conn]bool
	mu      sync.Mutex
}

// NewSceneHandler creates a new SceneHandler for the given app.
func NewSceneHandler(app SceneApp) *SceneHandler {
	return &SceneHandler{
		app:     app,
		clients: make(map[*websocket.Conn]bool),
	}
}

// Inbound message types

type clientMessage struct {
	Type     string         `json:"type"`
	Pointer  *pointer.Event `json:"pointer,omitempty"`
	Viewport *viewportSize  `json:"viewport,omitempty"`
}

type viewportSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Outbound message types

type rectMessage struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

type shapeMessage struct {
	ID        string  `json:"id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Z         float64 `json:"z"`
	Scale     float64 `json:"scale"`
	Color     string  `json:"color"`
	Highlight string  `json:"highlight"`
}

type sceneMessage struct {
	Type        string         `json:"type"`
	Shapes      []shapeMessage `json:"shapes"`
	Status      string         `json:"status,omitempty"`
	RecycleZone rectMessage    `json:"recycle_zone"`
	Timestamp   int64          `json:"timestamp"`
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *SceneHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// New clients get the current scene right away.
	h.send(conn, h.snapshot(""))

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("bad scene message: %v", err)
			continue
		}

		switch msg.Type {
		case "pointer":
			if msg.Pointer == nil {
				continue
			}
			events := h.app.ApplyPointer(*msg.Pointer)
			h.Publish(events)
		case "viewport":
			if msg.Viewport == nil {
				continue
			}
			h.app.View().SetSize(msg.Viewport.Width, msg.Viewport.Height)
			h.Publish(nil)
		}
	}
}

// Publish broadcasts the scene to every client after a batch of gesture
// events. It satisfies the app's Publisher interface; an empty batch still
// pushes a fresh snapshot.
func (h *SceneHandler) Publish(events []gesture.Event) {
	status := ""
	for _, ev := range events {
		if ev.Status != "" {
			status = ev.Status
		}
	}

	msg := h.snapshot(status)

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *SceneHandler) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// snapshot marshals the current scene as an outbound message.
func (h *SceneHandler) snapshot(status string) []byte {
	shapes := h.app.Registry().Snapshot()
	zone := h.app.View().RecycleZone()

	out := sceneMessage{
		Type:   "scene",
		Shapes: make([]shapeMessage, 0, len(shapes)),
		Status: status,
		RecycleZone: rectMessage{
			X:      zone.Min.X,
			Y:      zone.Min.Y,
			Width:  zone.Dx(),
			Height: zone.Dy(),
		},
		Timestamp: time.Now().UnixMilli(),
	}
	for _, sh := range shapes {
		out.Shapes = append(out.Shapes, shapeMessage{
			ID:        sh.ID,
			X:         sh.Position.X,
			Y:         sh.Position.Y,
			Z:         sh.Position.Z,
			Scale:     sh.Scale,
			Color:     sh.Color,
			Highlight: string(sh.Highlight),
		})
	}

	msg, _ := json.Marshal(out)
	return msg
}

// send writes a message to a single connection.
func (h *SceneHandler) send(conn *websocket.Conn, msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conn.WriteMessage(websocket.TextMessage, msg)
}
