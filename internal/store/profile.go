package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/McGr/squirrel/internal/detect"
)

// Profile is a named run configuration: detection thresholds, trigger
// timing, and the class-to-pin bindings.
type Profile struct {
	ID                  string
	Name                string
	ConfidenceThreshold float64
	CenterThreshold     float64
	Cooldown            time.Duration
	Pulse               time.Duration
	Bindings            map[detect.Class]int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// ProfileRepository provides CRUD operations for profiles.
type ProfileRepository struct {
	db *sql.DB
}

// Profiles returns the profile repository for this store.
func (s *Store) Profiles() *ProfileRepository {
	return &ProfileRepository{db: s.db}
}

// Create inserts a new profile and its bindings. A missing ID is
// generated.
func (r *ProfileRepository) Create(p *Profile) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO profiles (id, name, confidence_threshold, center_threshold, cooldown_ms, pulse_ms, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.ConfidenceThreshold, p.CenterThreshold,
		p.Cooldown.Milliseconds(), p.Pulse.Milliseconds(), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if err := insertBindings(tx, p.ID, p.Bindings); err != nil {
		return err
	}

	return tx.Commit()
}

// GetByName retrieves a profile, with bindings, by its unique name.
func (r *ProfileRepository) GetByName(name string) (*Profile, error) {
	p := &Profile{}
	var cooldownMs, pulseMs int64

	err := r.db.QueryRow(
		`SELECT id, name, confidence_threshold, center_threshold, cooldown_ms, pulse_ms, created_at, updated_at
		 FROM profiles WHERE name = ?`,
		name,
	).Scan(&p.ID, &p.Name, &p.ConfidenceThreshold, &p.CenterThreshold,
		&cooldownMs, &pulseMs, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	p.Cooldown = time.Duration(cooldownMs) * time.Millisecond
	p.Pulse = time.Duration(pulseMs) * time.Millisecond

	bindings, err := r.bindings(p.ID)
	if err != nil {
		return nil, err
	}
	p.Bindings = bindings

	return p, nil
}

// List retrieves all profiles ordered by name. Bindings are not loaded.
func (r *ProfileRepository) List() ([]*Profile, error) {
	rows, err := r.db.Query(
		`SELECT id, name, confidence_threshold, center_threshold, cooldown_ms, pulse_ms, created_at, updated_at
		 FROM profiles ORDER BY name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*Profile
	for rows.Next() {
		p := &Profile{}
		var cooldownMs, pulseMs int64

		err := rows.Scan(&p.ID, &p.Name, &p.ConfidenceThreshold, &p.CenterThreshold,
			&cooldownMs, &pulseMs, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, err
		}

		p.Cooldown = time.Duration(cooldownMs) * time.Millisecond
		p.Pulse = time.Duration(pulseMs) * time.Millisecond
		profiles = append(profiles, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return profiles, nil
}

// Update rewrites a profile and replaces its bindings.
func (r *ProfileRepository) Update(p *Profile) error {
	p.UpdatedAt = time.Now()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`UPDATE profiles SET name = ?, confidence_threshold = ?, center_threshold = ?, cooldown_ms = ?, pulse_ms = ?, updated_at = ?
		 WHERE id = ?`,
		p.Name, p.ConfidenceThreshold, p.CenterThreshold,
		p.Cooldown.Milliseconds(), p.Pulse.Milliseconds(), p.UpdatedAt, p.ID,
	)
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

	if _, err := tx.Exec(`DELETE FROM class_bindings WHERE profile_id = ?`, p.ID); err != nil {
		return err
	}
	if err := insertBindings(tx, p.ID, p.Bindings); err != nil {
		return err
	}

	return tx.Commit()
}

// Delete removes a profile and, via cascade, its bindings.
func (r *ProfileRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM profiles WHERE id = ?`, id)
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

func (r *ProfileRepository) bindings(profileID string) (map[detect.Class]int, error) {
	rows, err := r.db.Query(
		`SELECT class, pin FROM class_bindings WHERE profile_id = ?`,
		profileID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bindings := make(map[detect.Class]int)
	for rows.Next() {
		var className string
		var pin int
		if err := rows.Scan(&className, &pin); err != nil {
			return nil, err
		}
		class, err := detect.ParseClass(className)
		if err != nil {
			return nil, err
		}
		bindings[class] = pin
	}

	return bindings, rows.Err()
}

func insertBindings(tx *sql.Tx, profileID string, bindings map[detect.Class]int) error {
	for class, pin := range bindings {
		_, err := tx.Exec(
			`INSERT INTO class_bindings (profile_id, class, pin) VALUES (?, ?, ?)`,
			profileID, class.String(), pin,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
