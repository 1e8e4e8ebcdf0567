package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/ayusman/shilpa/internal/app"
	"github.com/ayusman/shilpa/internal/server"
	"github.com/ayusman/shilpa/internal/store"
	"github.com/ayusman/shilpa/internal/tray"
)

const addr = ":8080"

func main() {
	fmt.Println("Shilpa - Gesture Sculpted Scenes")

	// Initialize the store
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dbDir := filepath.Join(homeDir, ".shilpa")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(dbDir, "shilpa.db")
	st, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	// Build the application and bring back the previous scene
	a := app.New(app.Config{
		Store:    st,
		CameraID: 0,
	})
	if err := a.RestoreScene(); err != nil {
		log.Printf("Failed to restore scene: %v", err)
	}

	// Find web directory
	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	// Configure the server and plug it in as the app's publisher
	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Camera:    a.Camera(),
		App:       a,
	})
	a.SetPublisher(srv.Scene())

	go func() {
		fmt.Printf("Starting server on %s\n", addr)
		if err := srv.ListenAndServe(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Start the tracking pipeline. A missing camera is not fatal: the mouse
	// fallback still works through the websocket.
	if err := a.Start(); err != nil {
		log.Printf("Tracking unavailable: %v", err)
	}

	// The tray runs on the main goroutine and blocks until quit.
	tr := tray.New()
	tr.SetEnabled(a.IsEnabled())
	tr.OnToggle(func(enabled bool) {
		a.SetEnabled(enabled)
	})
	tr.OnOpen(func() {
		openBrowser("http://localhost" + addr)
	})
	tr.OnClear(func() {
		if err := a.ClearScene(); err != nil {
			log.Printf("Failed to clear scene: %v", err)
		}
		tr.SetShapeCount(0)
	})
	tr.OnQuit(func() {
		a.Stop()
	})
	tr.SetShapeCount(a.Registry().Len())
	tr.Run()
}

// openBrowser opens the given URL in the default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch {
	case fileExists("/usr/bin/open"):
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.shilpa/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".shilpa", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
