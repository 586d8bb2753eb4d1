package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/RonitSachdev/AirChords/internal/midi"
)

// Preset is a named, saved chord set.
type Preset struct {
	ID        string
	Name      string
	Chords    map[int][]uint8
	CreatedAt time.Time
}

// PresetRepository provides CRUD operations for chord presets.
type PresetRepository struct {
	db *sql.DB
}

// Presets returns the preset repository for this store.
func (s *Store) Presets() *PresetRepository {
	return &PresetRepository{db: s.db}
}

func encodePresetChords(chords map[int][]uint8) (string, error) {
	out := make(map[string][]int, len(chords))
	for slot, notes := range chords {
		out[fmt.Sprintf("%d", slot)] = notesToInts(notes)
	}
	encoded, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func decodePresetChords(encoded string) (map[int][]uint8, error) {
	var raw map[string][]int
	if err := json.Unmarshal([]byte(encoded), &raw); err != nil {
		return nil, err
	}

	out := make(map[int][]uint8, len(raw))
	for key, values := range raw {
		var slot int
		if _, err := fmt.Sscanf(key, "%d", &slot); err != nil {
			continue
		}
		out[slot] = intsToNotes(values)
	}
	return out, nil
}

// Create inserts a new preset.
func (r *PresetRepository) Create(p *Preset) error {
	p.CreatedAt = time.Now()

	encoded, err := encodePresetChords(p.Chords)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(
		`INSERT INTO chord_presets (id, name, chords, created_at) VALUES (?, ?, ?, ?)`,
		p.ID, p.Name, encoded, p.CreatedAt,
	)
	return err
}

// GetByID retrieves a preset by its ID.
func (r *PresetRepository) GetByID(id string) (*Preset, error) {
	p := &Preset{}
	var encoded string

	err := r.db.QueryRow(
		`SELECT id, name, chords, created_at FROM chord_presets WHERE id = ?`,
		id,
	).Scan(&p.ID, &p.Name, &encoded, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	p.Chords, err = decodePresetChords(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode preset %s: %w", id, err)
	}
	return p, nil
}

// List retrieves all presets, newest first.
func (r *PresetRepository) List() ([]*Preset, error) {
	rows, err := r.db.Query(
		`SELECT id, name, chords, created_at FROM chord_presets ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var presets []*Preset
	for rows.Next() {
		p := &Preset{}
		var encoded string

		if err := rows.Scan(&p.ID, &p.Name, &encoded, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.Chords, err = decodePresetChords(encoded)
		if err != nil {
			return nil, fmt.Errorf("decode preset %s: %w", p.ID, err)
		}
		presets = append(presets, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return presets, nil
}

// Delete removes a preset by its ID.
func (r *PresetRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM chord_presets WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// ToChordSet converts a preset into a playable ChordSet.
func (p *Preset) ToChordSet() (*midi.ChordSet, error) {
	chords := midi.NewChordSet()
	for slot, notes := range p.Chords {
		if err := chords.Set(slot, notes); err != nil {
			return nil, err
		}
	}
	return chords, nil
}
