package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/amishk599/resumekit/internal/model"
)

const resumeColumns = "id, owner_id, name, content, data, source_hash, created_at, updated_at"

// Create inserts r, assigning an ID and timestamps when unset, and returns the stored record.
func (s *SQLiteStore) Create(ctx context.Context, r model.Resume) (model.Resume, error) {
	if r.OwnerID == "" {
		return model.Resume{}, fmt.Errorf("creating resume: owner id is required")
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	now := truncate(s.now())
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	} else {
		r.CreatedAt = truncate(r.CreatedAt)
	}
	r.UpdatedAt = r.CreatedAt
	r.Data.Normalize()

	data, err := json.Marshal(r.Data)
	if err != nil {
		return model.Resume{}, fmt.Errorf("encoding resume data: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO resumes ("+resumeColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		r.ID, r.OwnerID, r.Name, r.Content, string(data), r.SourceHash,
		r.CreatedAt.UnixMilli(), r.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		return model.Resume{}, fmt.Errorf("inserting resume %s: %w", r.ID, err)
	}
	return r, nil
}

// Get returns the résumé with the given ID owned by ownerID, or model.ErrNotFound.
func (s *SQLiteStore) Get(ctx context.Context, ownerID, id string) (model.Resume, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+resumeColumns+" FROM resumes WHERE id = ? AND owner_id = ?", id, ownerID)
	r, err := scanResume(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Resume{}, model.ErrNotFound
	}
	if err != nil {
		return model.Resume{}, fmt.Errorf("loading resume %s: %w", id, err)
	}
	return r, nil
}

// List returns every résumé owned by ownerID, newest first.
func (s *SQLiteStore) List(ctx context.Context, ownerID string) ([]model.Resume, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+resumeColumns+" FROM resumes WHERE owner_id = ? ORDER BY created_at DESC, id DESC", ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing resumes: %w", err)
	}
	defer rows.Close()

	resumes := []model.Resume{}
	for rows.Next() {
		r, err := scanResume(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning resume: %w", err)
		}
		resumes = append(resumes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing resumes: %w", err)
	}
	return resumes, nil
}

// Update applies the non-nil fields of upd and bumps updated_at.
func (s *SQLiteStore) Update(ctx context.Context, ownerID, id string, upd model.ResumeUpdate) (model.Resume, error) {
	r, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return model.Resume{}, err
	}

	if upd.Name != nil {
		r.Name = *upd.Name
	}
	if upd.Data != nil {
		r.Data = *upd.Data
		r.Data.Normalize()
	}
	r.UpdatedAt = truncate(s.now())

	data, err := json.Marshal(r.Data)
	if err != nil {
		return model.Resume{}, fmt.Errorf("encoding resume data: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE resumes SET name = ?, data = ?, updated_at = ? WHERE id = ? AND owner_id = ?",
		r.Name, string(data), r.UpdatedAt.UnixMilli(), id, ownerID,
	)
	if err != nil {
		return model.Resume{}, fmt.Errorf("updating resume %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Resume{}, model.ErrNotFound
	}
	return r, nil
}

// Delete removes the résumé, returning model.ErrNotFound if nothing matched.
func (s *SQLiteStore) Delete(ctx context.Context, ownerID, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM resumes WHERE id = ? AND owner_id = ?", id, ownerID)
	if err != nil {
		return fmt.Errorf("deleting resume %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting resume %s: %w", id, err)
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResume(row rowScanner) (model.Resume, error) {
	var (
		r                model.Resume
		data             string
		created, updated int64
	)
	if err := row.Scan(&r.ID, &r.OwnerID, &r.Name, &r.Content, &data, &r.SourceHash, &created, &updated); err != nil {
		return model.Resume{}, err
	}
	if err := json.Unmarshal([]byte(data), &r.Data); err != nil {
		return model.Resume{}, fmt.Errorf("decoding data of resume %s: %w", r.ID, err)
	}
	r.Data.Normalize()
	r.CreatedAt = time.UnixMilli(created).UTC()
	r.UpdatedAt = time.UnixMilli(updated).UTC()
	return r, nil
}

// truncate drops precision the database cannot hold.
func truncate(t time.Time) time.Time {
	return time.UnixMilli(t.UnixMilli()).UTC()
}
