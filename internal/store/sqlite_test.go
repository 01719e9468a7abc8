package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/amishk599/resumekit/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// fixedClock returns a clock starting at start that advances by one second per call.
func fixedClock(start time.Time) func() time.Time {
	cur := start
	return func() time.Time {
		now := cur
		cur = cur.Add(time.Second)
		return now
	}
}

func sampleData() model.StructuredResumeData {
	return model.StructuredResumeData{
		PersonalInfo: model.PersonalInfo{Name: "Jane Doe", Email: "jane@example.com"},
		Skills:       []string{"Python", "Rust"},
		Experience: []model.Experience{
			{Title: "Engineer", Company: "Acme", Duration: "2020-2023", Description: "Built APIs"},
		},
	}
}

func TestMarkSeenThenHasSeen(t *testing.T) {
	s := newTestStore(t)

	if err := s.MarkSeen("hash-123"); err != nil {
		t.Fatalf("MarkSeen: %v", err)
	}

	seen, err := s.HasSeen("hash-123")
	if err != nil {
		t.Fatalf("HasSeen: %v", err)
	}
	if !seen {
		t.Error("expected HasSeen to return true after MarkSeen")
	}
}

func TestHasSeenUnknownReturnsFalse(t *testing.T) {
	s := newTestStore(t)

	seen, err := s.HasSeen("does-not-exist")
	if err != nil {
		t.Fatalf("HasSeen: %v", err)
	}
	if seen {
		t.Error("expected HasSeen to return false for unknown hash")
	}
}

func TestMarkSeenIdempotent(t *testing.T) {
	s := newTestStore(t)

	if err := s.MarkSeen("hash-456"); err != nil {
		t.Fatalf("first MarkSeen: %v", err)
	}
	if err := s.MarkSeen("hash-456"); err != nil {
		t.Fatalf("second MarkSeen (duplicate): %v", err)
	}

	seen, err := s.HasSeen("hash-456")
	if err != nil {
		t.Fatalf("HasSeen: %v", err)
	}
	if !seen {
		t.Error("expected HasSeen to return true after duplicate MarkSeen")
	}
}

func TestCleanupRemovesOldKeepsFresh(t *testing.T) {
	s := newTestStore(t)

	// Insert an "old" entry by writing directly with a past timestamp.
	_, err := s.db.Exec(
		"INSERT INTO seen_files (hash, first_seen) VALUES (?, ?)",
		"old-file", time.Now().Add(-48*time.Hour).UnixMilli(),
	)
	if err != nil {
		t.Fatalf("inserting old file: %v", err)
	}

	if err := s.MarkSeen("fresh-file"); err != nil {
		t.Fatalf("MarkSeen fresh: %v", err)
	}

	if err := s.Cleanup(24 * time.Hour); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}

	seen, err := s.HasSeen("old-file")
	if err != nil {
		t.Fatalf("HasSeen old: %v", err)
	}
	if seen {
		t.Error("expected old file to be cleaned up")
	}

	seen, err = s.HasSeen("fresh-file")
	if err != nil {
		t.Fatalf("HasSeen fresh: %v", err)
	}
	if !seen {
		t.Error("expected fresh file to survive cleanup")
	}
}

func TestCreateThenGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, model.Resume{
		OwnerID:    "user-1",
		Name:       "Jane Doe",
		Content:    "raw text",
		Data:       sampleData(),
		SourceHash: "abc",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("Create: expected an ID to be assigned")
	}
	if created.CreatedAt.IsZero() || !created.UpdatedAt.Equal(created.CreatedAt) {
		t.Errorf("timestamps = %v / %v", created.CreatedAt, created.UpdatedAt)
	}

	got, err := s.Get(ctx, "user-1", created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Jane Doe" || got.Content != "raw text" || got.SourceHash != "abc" {
		t.Errorf("Get = %+v", got)
	}
	if got.Data.PersonalInfo.Email != "jane@example.com" || len(got.Data.Experience) != 1 {
		t.Errorf("Data = %+v", got.Data)
	}
	// Absent collections come back empty, not nil.
	if got.Data.Education == nil || got.Data.Projects == nil {
		t.Error("expected nil slices to be normalized to empty")
	}
	if !got.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, created.CreatedAt)
	}
}

func TestCreateRequiresOwner(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Create(context.Background(), model.Resume{Name: "x"}); err == nil {
		t.Fatal("Create: expected error without owner id")
	}
}

func TestGetScopedByOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, model.Resume{OwnerID: "user-1", Name: "mine", Data: sampleData()})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = s.Get(ctx, "user-2", created.ID)
	if !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Get other owner: err = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "user-2", created.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Delete other owner: err = %v, want ErrNotFound", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	s := newTestStore(t)
	s.now = fixedClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	for _, name := range []string{"first", "second", "third"} {
		if _, err := s.Create(ctx, model.Resume{OwnerID: "user-1", Name: name, Data: sampleData()}); err != nil {
			t.Fatalf("Create %s: %v", name, err)
		}
	}
	if _, err := s.Create(ctx, model.Resume{OwnerID: "user-2", Name: "other", Data: sampleData()}); err != nil {
		t.Fatalf("Create other: %v", err)
	}

	list, err := s.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("List returned %d resumes, want 3", len(list))
	}
	want := []string{"third", "second", "first"}
	for i, r := range list {
		if r.Name != want[i] {
			t.Errorf("list[%d].Name = %q, want %q", i, r.Name, want[i])
		}
	}

	empty, err := s.List(ctx, "nobody")
	if err != nil {
		t.Fatalf("List empty: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("List for unknown owner = %v, want empty non-nil slice", empty)
	}
}

func TestUpdate(t *testing.T) {
	s := newTestStore(t)
	s.now = fixedClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	created, err := s.Create(ctx, model.Resume{OwnerID: "user-1", Name: "old", Data: sampleData()})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	name := "new"
	updated, err := s.Update(ctx, "user-1", created.ID, model.ResumeUpdate{Name: &name})
	if err != nil {
		t.Fatalf("Update name: %v", err)
	}
	if updated.Name != "new" || len(updated.Data.Skills) != 2 {
		t.Errorf("Update name = %+v", updated)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Errorf("UpdatedAt = %v, want after %v", updated.UpdatedAt, created.UpdatedAt)
	}

	data := model.StructuredResumeData{Skills: []string{"Go"}}
	if _, err := s.Update(ctx, "user-1", created.ID, model.ResumeUpdate{Data: &data}); err != nil {
		t.Fatalf("Update data: %v", err)
	}

	got, err := s.Get(ctx, "user-1", created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "new" || len(got.Data.Skills) != 1 || got.Data.Skills[0] != "Go" {
		t.Errorf("after updates = %+v", got)
	}
	if got.Data.Experience == nil {
		t.Error("expected Experience to be normalized to empty")
	}

	if _, err := s.Update(ctx, "user-1", "missing", model.ResumeUpdate{Name: &name}); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Update missing: err = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, model.Resume{OwnerID: "user-1", Name: "gone", Data: sampleData()})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := s.Delete(ctx, "user-1", created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "user-1", created.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Get after delete: err = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "user-1", created.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("second Delete: err = %v, want ErrNotFound", err)
	}
}

func TestNopStore(t *testing.T) {
	s := NewNopStore()
	ctx := context.Background()

	r, err := s.Create(ctx, model.Resume{OwnerID: "u", Name: "n"})
	if err != nil || r.ID == "" {
		t.Fatalf("Create = %+v, %v", r, err)
	}
	if _, err := s.Get(ctx, "u", r.ID); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("Get: err = %v, want ErrNotFound", err)
	}
	if err := s.MarkSeen("h"); err != nil {
		t.Fatalf("MarkSeen: %v", err)
	}
	if seen, _ := s.HasSeen("h"); seen {
		t.Error("NopStore should never report a hash as seen")
	}
}
