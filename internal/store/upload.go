package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrBusy is returned when an upload is already being analyzed.
var ErrBusy = errors.New("upload is already being analyzed")

// UploadStatus is the lifecycle state of an upload.
type UploadStatus string

const (
	// UploadPending is an upload waiting for analysis.
	UploadPending UploadStatus = "pending"
	// UploadAnalyzing is an upload claimed by a running analysis.
	UploadAnalyzing UploadStatus = "analyzing"
)

// Upload is a stored video awaiting analysis.
type Upload struct {
	ID        string
	Filename  string
	Path      string
	Size      int64
	Status    UploadStatus
	CreatedAt time.Time
}

// UploadRepository provides CRUD operations for uploads.
type UploadRepository struct {
	db *sql.DB
}

// Uploads returns the upload repository for this store.
func (s *Store) Uploads() *UploadRepository {
	return &UploadRepository{db: s.db}
}

// Create inserts a new upload in the pending state.
func (r *UploadRepository) Create(u *Upload) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	u.Status = UploadPending

	_, err := r.db.Exec(
		`INSERT INTO uploads (id, filename, path, size, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Filename, u.Path, u.Size, string(u.Status), u.CreatedAt,
	)
	return err
}

// GetByID retrieves an upload by its ID.
func (r *UploadRepository) GetByID(id string) (*Upload, error) {
	u := &Upload{}
	var status string

	err := r.db.QueryRow(
		`SELECT id, filename, path, size, status, created_at
		 FROM uploads WHERE id = ?`,
		id,
	).Scan(&u.ID, &u.Filename, &u.Path, &u.Size, &status, &u.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	u.Status = UploadStatus(status)
	return u, nil
}

// Claim moves a pending upload to the analyzing state. It returns
// ErrNotFound for an unknown ID and ErrBusy if another analysis holds it.
func (r *UploadRepository) Claim(id string) error {
	result, err := r.db.Exec(
		`UPDATE uploads SET status = ? WHERE id = ? AND status = ?`,
		string(UploadAnalyzing), id, string(UploadPending),
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 1 {
		return nil
	}

	if _, err := r.GetByID(id); err != nil {
		return err
	}
	return ErrBusy
}

// ListPendingBefore returns pending uploads created before cutoff, oldest
// first.
func (r *UploadRepository) ListPendingBefore(cutoff time.Time) ([]*Upload, error) {
	rows, err := r.db.Query(
		`SELECT id, filename, path, size, status, created_at
		 FROM uploads WHERE status = ? AND created_at < ?
		 ORDER BY created_at`,
		string(UploadPending), cutoff,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var uploads []*Upload
	for rows.Next() {
		u := &Upload{}
		var status string
		if err := rows.Scan(&u.ID, &u.Filename, &u.Path, &u.Size, &status, &u.CreatedAt); err != nil {
			return nil, err
		}
		u.Status = UploadStatus(status)
		uploads = append(uploads, u)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return uploads, nil
}

// DeletePending removes an upload that no analysis has claimed. It returns
// ErrBusy, leaving the row in place, when the upload is being analyzed.
func (r *UploadRepository) DeletePending(id string) error {
	result, err := r.db.Exec(
		`DELETE FROM uploads WHERE id = ? AND status = ?`,
		id, string(UploadPending),
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 1 {
		return nil
	}

	if _, err := r.GetByID(id); err != nil {
		return err
	}
	return ErrBusy
}

// Delete removes an upload record by its ID.
func (r *UploadRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM uploads WHERE id = ?`, id)
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
