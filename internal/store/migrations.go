package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Count events - one row per change in a hand's observed finger count
		`CREATE TABLE IF NOT EXISTS count_events (
			id TEXT PRIMARY KEY,
			side TEXT NOT NULL CHECK(side IN ('Left', 'Right')),
			fingers INTEGER NOT NULL CHECK(fingers BETWEEN 0 AND 5),
			score REAL NOT NULL DEFAULT 0,
			observed_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Settings - application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_count_events_observed_at ON count_events(observed_at)`,
		`CREATE INDEX IF NOT EXISTS idx_count_events_side ON count_events(side)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
