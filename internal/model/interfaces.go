package model

import (
	"context"
	"time"
)

// TextExtractor turns raw document bytes into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

// ResumeStore persists résumés, scoped by owner.
type ResumeStore interface {
	Create(ctx context.Context, r Resume) (Resume, error)
	Get(ctx context.Context, ownerID, id string) (Resume, error)
	List(ctx context.Context, ownerID string) ([]Resume, error)
	Update(ctx context.Context, ownerID, id string, upd ResumeUpdate) (Resume, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// SeenStore tracks which inbox documents (by content hash) were already ingested.
type SeenStore interface {
	HasSeen(hash string) (bool, error)
	MarkSeen(hash string) error
	Cleanup(olderThan time.Duration) error
}

// Notifier announces newly ingested résumés.
type Notifier interface {
	Notify(resumes []Resume) error
}

// ResumeFilter decides whether a résumé matches the user's criteria.
type ResumeFilter interface {
	Match(r Resume) bool
}

// KitGenerator produces application material for a résumé and job description.
type KitGenerator interface {
	Generate(ctx context.Context, data StructuredResumeData, jobDescription string) (*ApplicationKit, error)
}
