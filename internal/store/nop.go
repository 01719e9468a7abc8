package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/amishk599/resumekit/internal/model"
)

// NopStore is a no-op store used in dry-run mode. It keeps nothing: created
// résumés get an ID but cannot be read back, and every inbox file appears new
// on each poll.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) HasSeen(hash string) (bool, error)      { return false, nil }
func (s *NopStore) MarkSeen(hash string) error             { return nil }
func (s *NopStore) Cleanup(olderThan time.Duration) error { return nil }

func (s *NopStore) Create(_ context.Context, r model.Resume) (model.Resume, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	r.UpdatedAt = r.CreatedAt
	r.Data.Normalize()
	return r, nil
}

func (s *NopStore) Get(context.Context, string, string) (model.Resume, error) {
	return model.Resume{}, model.ErrNotFound
}

func (s *NopStore) List(context.Context, string) ([]model.Resume, error) {
	return []model.Resume{}, nil
}

func (s *NopStore) Update(context.Context, string, string, model.ResumeUpdate) (model.Resume, error) {
	return model.Resume{}, model.ErrNotFound
}

func (s *NopStore) Delete(context.Context, string, string) error {
	return model.ErrNotFound
}
