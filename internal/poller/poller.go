package poller

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/amishk599/resumekit/internal/ingest"
	"github.com/amishk599/resumekit/internal/model"
)

// Ingester stores one uploaded document as a résumé.
type Ingester interface {
	Ingest(ctx context.Context, u ingest.Upload) (model.Resume, error)
}

// InboxPoller owns the full poll pipeline for a single inbox directory:
// scan → dedup → ingest → mark seen → filter → notify.
type InboxPoller struct {
	dir        string
	extensions []string
	owner      string
	ingester   Ingester
	filter     model.ResumeFilter
	seen       model.SeenStore
	notifier   model.Notifier
	logger     *slog.Logger
}

// NewInboxPoller creates a poller wired with all its dependencies. extensions
// are lowercase with a leading dot.
func NewInboxPoller(
	dir string,
	extensions []string,
	owner string,
	ingester Ingester,
	filter model.ResumeFilter,
	seen model.SeenStore,
	notifier model.Notifier,
	logger *slog.Logger,
) *InboxPoller {
	return &InboxPoller{
		dir:        dir,
		extensions: extensions,
		owner:      owner,
		ingester:   ingester,
		filter:     filter,
		seen:       seen,
		notifier:   notifier,
		logger:     logger,
	}
}

// Name identifies the poller in logs.
func (p *InboxPoller) Name() string { return p.dir }

// Poll runs one poll cycle over the inbox directory.
func (p *InboxPoller) Poll(ctx context.Context) error {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return fmt.Errorf("polling %s: %w", p.dir, err)
	}

	var (
		scanned  int
		ingested []model.Resume
		skipped  int
	)
	for _, e := range entries {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if e.IsDir() || !slices.Contains(p.extensions, strings.ToLower(filepath.Ext(e.Name()))) {
			continue
		}
		scanned++

		path := filepath.Join(p.dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("polling %s: %w", p.dir, err)
		}
		sum := sha256.Sum256(data)
		hash := hex.EncodeToString(sum[:])

		seen, err := p.seen.HasSeen(hash)
		if err != nil {
			return fmt.Errorf("polling %s: checking seen status: %w", p.dir, err)
		}
		if seen {
			continue
		}

		r, err := p.ingester.Ingest(ctx, ingest.Upload{
			OwnerID:     p.owner,
			Name:        strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())),
			ContentType: ingest.ContentTypeFor(e.Name()),
			Data:        data,
		})
		if err != nil {
			if !permanent(err) {
				return fmt.Errorf("polling %s: ingesting %s: %w", p.dir, e.Name(), err)
			}
			// Unreadable documents are marked seen as well.
			p.logger.Warn("skipping unreadable document", "file", e.Name(), "error", err)
			skipped++
		} else {
			ingested = append(ingested, r)
		}

		if err := p.seen.MarkSeen(hash); err != nil {
			return fmt.Errorf("polling %s: marking seen: %w", p.dir, err)
		}
	}

	var matched []model.Resume
	for _, r := range ingested {
		if p.filter.Match(r) {
			matched = append(matched, r)
		}
	}

	if len(matched) > 0 {
		if err := p.notifier.Notify(matched); err != nil {
			return fmt.Errorf("polling %s: notifying: %w", p.dir, err)
		}
	}

	p.logger.Info("polled inbox",
		"dir", p.dir,
		"scanned", scanned,
		"new", len(ingested),
		"skipped", skipped,
		"matched", len(matched),
	)

	return nil
}

// permanent reports whether err is a property of the document rather than a
// transient failure.
func permanent(err error) bool {
	var extErr *model.ExtractionError
	return errors.As(err, &extErr) ||
		errors.Is(err, ingest.ErrNoText) ||
		errors.Is(err, ingest.ErrTooLarge) ||
		errors.Is(err, ingest.ErrUnsupportedType)
}
