package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Uploads table - videos waiting for analysis
		`CREATE TABLE IF NOT EXISTS uploads (
			id TEXT PRIMARY KEY,
			filename TEXT NOT NULL,
			path TEXT NOT NULL,
			size INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'pending' CHECK(status IN ('pending', 'analyzing')),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Exercises table - recommendation catalog keyed by abnormality type
		`CREATE TABLE IF NOT EXISTS exercises (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			abnormality TEXT NOT NULL,
			category TEXT NOT NULL CHECK(category IN ('strengthening', 'mobility', 'gait_training')),
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			duration TEXT NOT NULL DEFAULT '',
			instructions TEXT NOT NULL DEFAULT '',
			progression TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE INDEX IF NOT EXISTS idx_uploads_created_at ON uploads(created_at)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_exercises_slot ON exercises(abnormality, category, position)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
