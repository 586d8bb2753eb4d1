package store

import (
	"database/sql"
	"errors"
	"strconv"

	"github.com/RonitSachdev/AirChords/internal/gesture"
)

// Setting keys.
const (
	KeyHistoryLength      = "gesture.history_length"
	KeyStabilityThreshold = "gesture.stability_threshold"
	KeyCameraIndex        = "gesture.camera_index"
	KeyMIDIDevice         = "midi.device"
	KeyMIDIVelocity       = "midi.velocity"
	KeyMIDIChannel        = "midi.channel"
)

// GestureSettings are the session-start parameters of the gesture
// pipeline. They are read once when a session starts and stay immutable
// for its duration; validation happens where the session is built.
type GestureSettings struct {
	HistoryLength      int
	StabilityThreshold float64
	CameraIndex        int
}

// MIDISettings are the output device parameters.
type MIDISettings struct {
	Device   string
	Velocity int
	Channel  int
}

// SettingsRepository provides key-value settings access.
type SettingsRepository struct {
	db *sql.DB
}

// Settings returns the settings repository for this store.
func (s *Store) Settings() *SettingsRepository {
	return &SettingsRepository{db: s.db}
}

// Get retrieves a setting value by key.
func (r *SettingsRepository) Get(key string) (string, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

// Set stores a setting value, replacing any existing one.
func (r *SettingsRepository) Set(key, value string) error {
	_, err := r.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

func (r *SettingsRepository) getInt(key string, fallback int) int {
	value, err := r.Get(key)
	if err != nil {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

func (r *SettingsRepository) getFloat(key string, fallback float64) float64 {
	value, err := r.Get(key)
	if err != nil {
		return fallback
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return f
}

// GestureSettings loads the gesture parameters, falling back to the
// pipeline defaults for missing or unreadable keys. Values are returned
// as stored: out-of-domain values are rejected at session start, never
// silently clamped here.
func (r *SettingsRepository) GestureSettings() GestureSettings {
	return GestureSettings{
		HistoryLength:      r.getInt(KeyHistoryLength, gesture.DefaultHistoryLength),
		StabilityThreshold: r.getFloat(KeyStabilityThreshold, gesture.DefaultStabilityThreshold),
		CameraIndex:        r.getInt(KeyCameraIndex, 0),
	}
}

// SaveGestureSettings persists the gesture parameters.
func (r *SettingsRepository) SaveGestureSettings(gs GestureSettings) error {
	if err := r.Set(KeyHistoryLength, strconv.Itoa(gs.HistoryLength)); err != nil {
		return err
	}
	if err := r.Set(KeyStabilityThreshold, strconv.FormatFloat(gs.StabilityThreshold, 'g', -1, 64)); err != nil {
		return err
	}
	return r.Set(KeyCameraIndex, strconv.Itoa(gs.CameraIndex))
}

// MIDISettings loads the output device parameters with defaults.
func (r *SettingsRepository) MIDISettings() MIDISettings {
	device, err := r.Get(KeyMIDIDevice)
	if err != nil {
		device = ""
	}
	return MIDISettings{
		Device:   device,
		Velocity: r.getInt(KeyMIDIVelocity, 100),
		Channel:  r.getInt(KeyMIDIChannel, 0),
	}
}

// SaveMIDISettings persists the output device parameters.
func (r *SettingsRepository) SaveMIDISettings(ms MIDISettings) error {
	if err := r.Set(KeyMIDIDevice, ms.Device); err != nil {
		return err
	}
	if err := r.Set(KeyMIDIVelocity, strconv.Itoa(ms.Velocity)); err != nil {
		return err
	}
	return r.Set(KeyMIDIChannel, strconv.Itoa(ms.Channel))
}
