// Package server provides the HTTP server for the AirChords gesture controller.
package server

import (
	"fmt"
	"net/http"
	"time"

	"gocv.io/x/gocv"

	"github.com/RonitSachdev/AirChords/internal/capture"
)

// Preview frame pacing. The stream drops to the idle rate when the scene
// is static so a forgotten browser tab does not burn CPU on JPEG encoding.
const (
	activeFrameInterval = 66 * time.Millisecond  // ~15 FPS
	idleFrameInterval   = 250 * time.Millisecond // ~4 FPS
)

// StreamHandler serves MJPEG preview frames from the camera.
type StreamHandler struct {
	camera   capture.Camera
	activity *capture.ActivityDetector
}

// NewStreamHandler creates a new StreamHandler with the given camera.
func NewStreamHandler(camera capture.Camera) *StreamHandler {
	return &StreamHandler{
		camera:   camera,
		activity: capture.NewActivityDetector(1.0),
	}
}

// ServeHTTP streams MJPEG frames to connected clients.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	interval := activeFrameInterval

	for {
		select {
		case <-r.Context().Done():
			return
		default:
		}

		frame, err := h.camera.ReadFrame()
		if err != nil {
			time.Sleep(100 * time.Millisecond)
			continue
		}

		if active, _ := h.activity.Detect(frame); active {
			interval = activeFrameInterval
		} else {
			interval = idleFrameInterval
		}

		buf, err := gocv.IMEncode(".jpg", *frame)
		frame.Close()
		if err != nil {
			continue
		}

		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", buf.Len())
		w.Write(buf.GetBytes())
		fmt.Fprintf(w, "\r\n")
		buf.Close()

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}

		time.Sleep(interval)
	}
}
