// Package ingest turns an uploaded résumé document into a stored, structured
// résumé: validate, extract text, parse, persist.
package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"

	"github.com/amishk599/resumekit/internal/model"
	"github.com/amishk599/resumekit/internal/parser"
)

// DefaultMaxSize caps an upload when the caller passes no limit.
const DefaultMaxSize = 10 << 20

var (
	ErrUnsupportedType = errors.New("unsupported content type")
	ErrTooLarge        = errors.New("document too large")
	ErrNoText          = errors.New("no text could be extracted from the document")
	ErrMissingName     = errors.New("resume name is required")
	ErrMissingOwner    = errors.New("owner id is required")
)

const (
	TypePDF  = "application/pdf"
	TypeText = "text/plain"
)

// ContentTypeFor picks the upload content type for a file name: PDF for
// .pdf, plain text otherwise.
func ContentTypeFor(name string) string {
	if strings.EqualFold(filepath.Ext(name), ".pdf") {
		return TypePDF
	}
	return TypeText
}

// Upload is one document submitted for ingestion.
type Upload struct {
	OwnerID     string
	Name        string // label used as PersonalInfo.Name
	ContentType string
	Data        []byte
}

// Service runs the ingestion workflow.
type Service struct {
	extractor model.TextExtractor
	parser    *parser.Parser
	store     model.ResumeStore
	maxSize   int64
	logger    *slog.Logger
}

// NewService wires a Service. maxSize <= 0 selects DefaultMaxSize.
func NewService(extractor model.TextExtractor, p *parser.Parser, store model.ResumeStore, maxSize int64, logger *slog.Logger) *Service {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Service{
		extractor: extractor,
		parser:    p,
		store:     store,
		maxSize:   maxSize,
		logger:    logger,
	}
}

// MaxSize returns the upload size limit in bytes.
func (s *Service) MaxSize() int64 { return s.maxSize }

// Ingest validates u, extracts and parses its text, and stores the result.
func (s *Service) Ingest(ctx context.Context, u Upload) (model.Resume, error) {
	name := strings.TrimSpace(u.Name)
	if name == "" {
		return model.Resume{}, ErrMissingName
	}
	if u.OwnerID == "" {
		return model.Resume{}, ErrMissingOwner
	}
	if int64(len(u.Data)) > s.maxSize {
		return model.Resume{}, fmt.Errorf("%w: %d bytes exceeds %d", ErrTooLarge, len(u.Data), s.maxSize)
	}

	text, err := s.extract(ctx, u)
	if err != nil {
		return model.Resume{}, err
	}
	if strings.TrimSpace(text) == "" {
		return model.Resume{}, ErrNoText
	}

	sum := sha256.Sum256(u.Data)
	r, err := s.store.Create(ctx, model.Resume{
		OwnerID:    u.OwnerID,
		Name:       name,
		Content:    text,
		Data:       s.parser.Parse(text, name),
		SourceHash: hex.EncodeToString(sum[:]),
	})
	if err != nil {
		return model.Resume{}, fmt.Errorf("storing resume: %w", err)
	}

	s.logger.Info("resume ingested",
		"id", r.ID,
		"name", r.Name,
		"owner", r.OwnerID,
		"skills", len(r.Data.Skills),
		"experience", len(r.Data.Experience),
		"education", len(r.Data.Education),
		"projects", len(r.Data.Projects),
	)
	return r, nil
}

// ParseText structures text without extraction or storage.
func (s *Service) ParseText(text, name string) (model.StructuredResumeData, error) {
	if strings.TrimSpace(text) == "" {
		return model.StructuredResumeData{}, ErrNoText
	}
	return s.parser.Parse(text, strings.TrimSpace(name)), nil
}

func (s *Service) extract(ctx context.Context, u Upload) (string, error) {
	mediaType, _, err := mime.ParseMediaType(u.ContentType)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, u.ContentType)
	}

	switch mediaType {
	case TypePDF:
		text, err := s.extractor.Extract(ctx, u.Data)
		if err != nil {
			var extErr *model.ExtractionError
			if errors.As(err, &extErr) && extErr.Source == "" {
				extErr.Source = u.Name
			}
			return "", err
		}
		return text, nil
	case TypeText:
		return string(u.Data), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, mediaType)
	}
}
