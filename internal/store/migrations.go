package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Profiles table - named run configurations
		`CREATE TABLE IF NOT EXISTS profiles (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			confidence_threshold REAL NOT NULL DEFAULT 0.25,
			center_threshold REAL NOT NULL DEFAULT 0.3,
			cooldown_ms INTEGER NOT NULL DEFAULT 2000,
			pulse_ms INTEGER NOT NULL DEFAULT 500,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Class bindings table - class-to-pin mapping per profile
		`CREATE TABLE IF NOT EXISTS class_bindings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			profile_id TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
			class TEXT NOT NULL,
			pin INTEGER NOT NULL,
			UNIQUE(profile_id, class)
		)`,

		// Settings table - application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_class_bindings_profile_id ON class_bindings(profile_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
