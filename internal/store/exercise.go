package store

import (
	"database/sql"
)

// ExerciseEntry is one row of the exercise catalog.
type ExerciseEntry struct {
	Abnormality  string
	Category     string
	Position     int
	Name         string
	Duration     string
	Instructions string
	Progression  string
}

// ExerciseRepository provides access to the exercise catalog.
type ExerciseRepository struct {
	db *sql.DB
}

// Exercises returns the exercise repository for this store.
func (s *Store) Exercises() *ExerciseRepository {
	return &ExerciseRepository{db: s.db}
}

// ReplaceAll replaces the whole catalog with entries in a single transaction.
func (r *ExerciseRepository) ReplaceAll(entries []ExerciseEntry) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM exercises`); err != nil {
		return err
	}

	stmt, err := tx.Prepare(
		`INSERT INTO exercises (abnormality, category, position, name, duration, instructions, progression)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.Exec(e.Abnormality, e.Category, e.Position, e.Name, e.Duration, e.Instructions, e.Progression); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// List returns the catalog ordered by abnormality, category and position.
func (r *ExerciseRepository) List() ([]ExerciseEntry, error) {
	rows, err := r.db.Query(
		`SELECT abnormality, category, position, name, duration, instructions, progression
		 FROM exercises
		 ORDER BY abnormality,
		          CASE category WHEN 'strengthening' THEN 0 WHEN 'mobility' THEN 1 ELSE 2 END,
		          position`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []ExerciseEntry
	for rows.Next() {
		var e ExerciseEntry
		if err := rows.Scan(&e.Abnormality, &e.Category, &e.Position, &e.Name, &e.Duration, &e.Instructions, &e.Progression); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// Count returns the number of catalog rows.
func (r *ExerciseRepository) Count() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM exercises`).Scan(&n)
	return n, err
}
