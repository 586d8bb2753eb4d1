// Package app provides the main application logic for the AirChords gesture controller.
package app

import (
	"fmt"
	"log"
	"sync"

	"github.com/RonitSachdev/AirChords/internal/capture"
	"github.com/RonitSachdev/AirChords/internal/detector"
	"github.com/RonitSachdev/AirChords/internal/gesture"
	"github.com/RonitSachdev/AirChords/internal/midi"
	"github.com/RonitSachdev/AirChords/internal/store"
)

// Config holds configuration options for the application.
type Config struct {
	Store    *store.Store
	CameraID int

	// HistoryLength and StabilityThreshold override the stored gesture
	// settings when non-zero. Zero means use the stored values.
	HistoryLength      int
	StabilityThreshold float64
}

// Status is a snapshot of the recognition session, as reported to the
// tray and the web UI.
type Status struct {
	SessionID     string `json:"session_id"`
	Running       bool   `json:"running"`
	Enabled       bool   `json:"enabled"`
	FingerCount   int    `json:"finger_count"`
	ActiveChord   int    `json:"active_chord"`
	MIDIConnected bool   `json:"midi_connected"`
}

// App orchestrates the camera, hand detector, gesture pipeline and MIDI
// output for a recognition session.
type App struct {
	config     Config
	camera     capture.Camera
	detector   detector.Detector
	controller *midi.Controller
	sink       gesture.ChordSink

	enabled     bool
	sessionID   string
	fingerCount int
	activeChord int

	mu     sync.RWMutex
	stopCh chan struct{}
	done   chan struct{}
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	a := &App{
		config:     config,
		camera:     capture.NewCamera(config.CameraID),
		controller: midi.NewController(),
		enabled:    true,
	}
	a.sink = a.controller

	// Try MediaPipe first, fall back to mock detector
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a
}

// SetEnabled enables or disables chord triggering. Disabling mid-session
// releases any sounding chord; the session itself keeps running.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether chord triggering is currently enabled.
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

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// Controller returns the MIDI controller.
func (a *App) Controller() *midi.Controller {
	return a.controller
}

// LoadChords loads the chord assignment and MIDI settings from the
// database into the controller.
func (a *App) LoadChords() error {
	if a.config.Store == nil {
		return nil
	}

	chords, err := a.config.Store.Chords().Load()
	if err != nil {
		return err
	}
	a.controller.SetChords(chords)

	ms := a.config.Store.Settings().MIDISettings()
	a.controller.SetVelocity(ms.Velocity)
	a.controller.SetChannel(ms.Channel)

	log.Printf("Loaded %d chord slots from database", len(chords.All()))
	return nil
}

// ConnectMIDI opens the stored MIDI output device, or the first
// available one if none is stored.
func (a *App) ConnectMIDI() error {
	device := ""
	if a.config.Store != nil {
		device = a.config.Store.Settings().MIDISettings().Device
	}
	return a.controller.Connect(device)
}

// StartSession begins a recognition session: it validates the gesture
// settings, opens the camera and starts the frame loop. Starting an
// already running session is a no-op.
func (a *App) StartSession() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	historyLength, threshold := a.sessionSettings()
	stabilizer, err := gesture.NewStabilizer(historyLength, threshold)
	if err != nil {
		return fmt.Errorf("session settings: %w", err)
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	a.camera.SetFPS(capture.DefaultFPS)

	a.sessionID = newSessionID()
	a.fingerCount = 0
	a.activeChord = 0
	a.stopCh = make(chan struct{})
	a.done = make(chan struct{})

	dispatcher := gesture.NewDispatcher(a.sink, a)
	go a.runSession(stabilizer, dispatcher, a.stopCh, a.done)

	log.Printf("Recognition session started (id %s)", a.sessionID)
	return nil
}

// StopSession halts the frame loop, releases any sounding chord and
// closes the camera. Stopping an idle app is a no-op.
func (a *App) StopSession() {
	a.mu.Lock()
	if a.stopCh == nil {
		a.mu.Unlock()
		return
	}
	close(a.stopCh)
	a.stopCh = nil
	done := a.done
	a.done = nil
	a.mu.Unlock()

	// Wait for the loop to release its chord before closing the camera.
	<-done

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	log.Println("Recognition session stopped")
}

// IsRunning returns whether a recognition session is active.
func (a *App) IsRunning() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.stopCh != nil
}

// Status returns a snapshot of the current session state.
func (a *App) Status() Status {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return Status{
		SessionID:     a.sessionID,
		Running:       a.stopCh != nil,
		Enabled:       a.enabled,
		FingerCount:   a.fingerCount,
		ActiveChord:   a.activeChord,
		MIDIConnected: a.controller.IsConnected(),
	}
}

// Close stops the session and releases the detector and MIDI output.
func (a *App) Close() {
	a.StopSession()

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}
	a.controller.Disconnect()
}

// GestureChanged records the latest stable finger count. It implements
// gesture.Notifier and is called from the session loop.
func (a *App) GestureChanged(count int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.fingerCount = count
}

// HighlightChanged records the chord slot currently sounding, zero for
// none. It implements gesture.Notifier.
func (a *App) HighlightChanged(chordID int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.activeChord = chordID
}

// sessionSettings resolves the stabilizer parameters from the config
// overrides, the stored settings, and the package defaults, in that
// order. Caller holds a.mu.
func (a *App) sessionSettings() (int, float64) {
	historyLength := a.config.HistoryLength
	threshold := a.config.StabilityThreshold
	thresholdSet := threshold != 0

	if a.config.Store != nil {
		gs := a.config.Store.Settings().GestureSettings()
		if historyLength == 0 {
			historyLength = gs.HistoryLength
		}
		// GestureSettings already defaults missing keys, and a stored
		// threshold of 0 is a valid value, so take it as-is.
		if !thresholdSet {
			threshold = gs.StabilityThreshold
			thresholdSet = true
		}
	}
	if historyLength == 0 {
		historyLength = gesture.DefaultHistoryLength
	}
	if !thresholdSet {
		threshold = gesture.DefaultStabilityThreshold
	}
	return historyLength, threshold
}
