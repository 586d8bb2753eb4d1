package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Chords table - the active chord assignment, one row per gesture slot
		`CREATE TABLE IF NOT EXISTS chords (
			slot INTEGER PRIMARY KEY CHECK(slot BETWEEN 1 AND 5),
			notes TEXT NOT NULL DEFAULT '[]',
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Chord presets table - named saved chord sets
		`CREATE TABLE IF NOT EXISTS chord_presets (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			chords TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Settings table - application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
