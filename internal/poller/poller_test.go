package poller

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/amishk599/resumekit/internal/ingest"
	"github.com/amishk599/resumekit/internal/model"
)

// --- Mock/Fake Implementations ---

// RecordingIngester records uploads and returns a résumé per upload, or Err.
type RecordingIngester struct {
	Uploads []ingest.Upload
	Err     error
	Skills  []string
}

func (i *RecordingIngester) Ingest(_ context.Context, u ingest.Upload) (model.Resume, error) {
	i.Uploads = append(i.Uploads, u)
	if i.Err != nil {
		return model.Resume{}, i.Err
	}
	return model.Resume{
		ID:      "id-" + u.Name,
		OwnerID: u.OwnerID,
		Name:    u.Name,
		Data: model.StructuredResumeData{
			PersonalInfo: model.PersonalInfo{Name: u.Name},
			Skills:       i.Skills,
		},
	}, nil
}

// InMemoryStore is a map-based seen store for testing dedup.
type InMemoryStore struct {
	seen map[string]bool
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{seen: make(map[string]bool)}
}

func (s *InMemoryStore) HasSeen(hash string) (bool, error) {
	return s.seen[hash], nil
}

func (s *InMemoryStore) MarkSeen(hash string) error {
	s.seen[hash] = true
	return nil
}

func (s *InMemoryStore) Cleanup(_ time.Duration) error { return nil }

// RecordingNotifier records which résumés were sent to Notify.
type RecordingNotifier struct {
	Notified []model.Resume
	Err      error
}

func (n *RecordingNotifier) Notify(resumes []model.Resume) error {
	n.Notified = append(n.Notified, resumes...)
	return n.Err
}

// AcceptAllFilter matches every résumé.
type AcceptAllFilter struct{}

func (f *AcceptAllFilter) Match(_ model.Resume) bool { return true }

// RejectAllFilter rejects every résumé.
type RejectAllFilter struct{}

func (f *RejectAllFilter) Match(_ model.Resume) bool { return false }

// --- Helpers ---

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// makeInbox writes files (name → content) into a fresh directory.
func makeInbox(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func newPoller(dir string, ing Ingester, f model.ResumeFilter, s model.SeenStore, n model.Notifier) *InboxPoller {
	return NewInboxPoller(dir, []string{".pdf", ".txt"}, "owner-1", ing, f, s, n, discardLogger())
}

// --- Tests ---

func TestPoll_IngestsNewFilesOnly(t *testing.T) {
	dir := makeInbox(t, map[string]string{
		"alice.txt":  "Skills\nPython",
		"bob.PDF":    "%PDF-1.4 bob",
		"notes.docx": "ignored",
	})
	if err := os.Mkdir(filepath.Join(dir, "archive.txt"), 0755); err != nil {
		t.Fatal(err)
	}

	ing := &RecordingIngester{}
	store := NewInMemoryStore()
	notifier := &RecordingNotifier{}
	p := newPoller(dir, ing, &AcceptAllFilter{}, store, notifier)

	if err := p.Poll(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(ing.Uploads) != 2 {
		t.Fatalf("ingested %d files, want 2", len(ing.Uploads))
	}
	byName := map[string]ingest.Upload{}
	for _, u := range ing.Uploads {
		byName[u.Name] = u
	}
	if u, ok := byName["alice"]; !ok || u.ContentType != ingest.TypeText || u.OwnerID != "owner-1" {
		t.Errorf("alice upload = %+v", u)
	}
	if u, ok := byName["bob"]; !ok || u.ContentType != ingest.TypePDF {
		t.Errorf("bob upload = %+v", u)
	}
	if got := len(notifier.Notified); got != 2 {
		t.Errorf("notified = %d, want 2", got)
	}
	if got := len(store.seen); got != 2 {
		t.Errorf("seen hashes = %d, want 2", got)
	}

	// Second cycle sees nothing new.
	if err := p.Poll(context.Background()); err != nil {
		t.Fatalf("second poll: %v", err)
	}
	if len(ing.Uploads) != 2 {
		t.Errorf("second poll ingested again: %d uploads", len(ing.Uploads))
	}
	if len(notifier.Notified) != 2 {
		t.Errorf("second poll notified again: %d", len(notifier.Notified))
	}
}

func TestPoll_DedupByContent(t *testing.T) {
	dir := makeInbox(t, map[string]string{
		"copy1.txt": "same content",
		"copy2.txt": "same content",
	})

	ing := &RecordingIngester{}
	p := newPoller(dir, ing, &AcceptAllFilter{}, NewInMemoryStore(), &RecordingNotifier{})

	if err := p.Poll(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ing.Uploads) != 1 {
		t.Errorf("ingested %d files, want 1 for identical content", len(ing.Uploads))
	}
}

func TestPoll_MissingDir(t *testing.T) {
	notifier := &RecordingNotifier{}
	p := newPoller(filepath.Join(t.TempDir(), "nope"), &RecordingIngester{}, &AcceptAllFilter{}, NewInMemoryStore(), notifier)

	if err := p.Poll(context.Background()); err == nil {
		t.Fatal("expected error, got nil")
	}
	if len(notifier.Notified) != 0 {
		t.Error("notifier should not be called on scan error")
	}
}

func TestPoll_FilterRejectsAll(t *testing.T) {
	dir := makeInbox(t, map[string]string{"a.txt": "a", "b.txt": "b"})

	ing := &RecordingIngester{}
	store := NewInMemoryStore()
	notifier := &RecordingNotifier{}
	p := newPoller(dir, ing, &RejectAllFilter{}, store, notifier)

	if err := p.Poll(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifier.Notified) != 0 {
		t.Error("notifier should not be called when filter rejects all")
	}
	// Filtered résumés are still stored and remembered.
	if len(ing.Uploads) != 2 || len(store.seen) != 2 {
		t.Errorf("uploads = %d, seen = %d, want 2 and 2", len(ing.Uploads), len(store.seen))
	}
}

func TestPoll_PermanentIngestErrorMarksSeen(t *testing.T) {
	dir := makeInbox(t, map[string]string{"blank.txt": "   "})

	ing := &RecordingIngester{Err: ingest.ErrNoText}
	store := NewInMemoryStore()
	notifier := &RecordingNotifier{}
	p := newPoller(dir, ing, &AcceptAllFilter{}, store, notifier)

	if err := p.Poll(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.seen) != 1 {
		t.Error("unreadable document should be marked seen")
	}
	if len(notifier.Notified) != 0 {
		t.Error("nothing should be notified")
	}
}

func TestPoll_TransientIngestErrorRetriesNextCycle(t *testing.T) {
	dir := makeInbox(t, map[string]string{"cv.txt": "Skills\nGo"})

	ing := &RecordingIngester{Err: errors.New("database is locked")}
	store := NewInMemoryStore()
	p := newPoller(dir, ing, &AcceptAllFilter{}, store, &RecordingNotifier{})

	if err := p.Poll(context.Background()); err == nil {
		t.Fatal("expected error, got nil")
	}
	if len(store.seen) != 0 {
		t.Error("file must not be marked seen after a transient failure")
	}
}

func TestPoll_NotifyError(t *testing.T) {
	dir := makeInbox(t, map[string]string{"cv.txt": "x"})

	store := NewInMemoryStore()
	notifier := &RecordingNotifier{Err: errors.New("slack down")}
	p := newPoller(dir, &RecordingIngester{}, &AcceptAllFilter{}, store, notifier)

	if err := p.Poll(context.Background()); err == nil {
		t.Fatal("expected notify error, got nil")
	}
	// The résumé is already stored, so it must not be ingested twice.
	if len(store.seen) != 1 {
		t.Error("ingested file should be marked seen even when notify fails")
	}
}
