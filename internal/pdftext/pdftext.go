// Package pdftext recovers plain text from résumé documents.
package pdftext

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/amishk599/resumekit/internal/model"
)

// Ensure Extractor implements model.TextExtractor.
var _ model.TextExtractor = (*Extractor)(nil)

// Extractor reads the text layer of PDF documents page by page.
type Extractor struct {
	logger *slog.Logger
}

// NewExtractor returns an Extractor. A nil logger discards page-level warnings.
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Extractor{logger: logger}
}

// Extract returns the text of every page joined by newlines, trimmed.
// Pages whose text cannot be decoded are skipped; a document that cannot be
// opened at all yields a *model.ExtractionError.
func (e *Extractor) Extract(ctx context.Context, data []byte) (text string, err error) {
	if len(data) == 0 {
		return "", &model.ExtractionError{Err: errors.New("empty document")}
	}

	// The pdf package panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &model.ExtractionError{Err: fmt.Errorf("malformed pdf: %v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &model.ExtractionError{Err: fmt.Errorf("open pdf: %w", err)}
	}

	var b strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			e.logger.Warn("skipping unreadable page", "page", i, "error", err)
			continue
		}
		if pageText != "" {
			b.WriteString(pageText)
			b.WriteByte('\n')
		}
	}

	e.logger.Debug("extracted pdf text", "pages", numPages, "chars", b.Len())
	return strings.TrimSpace(b.String()), nil
}

// ExtractFile reads path and extracts its text according to its extension:
// .pdf through Extract, .txt and .md verbatim.
func (e *Extractor) ExtractFile(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf":
		text, err := e.Extract(ctx, data)
		var extErr *model.ExtractionError
		if errors.As(err, &extErr) {
			extErr.Source = filepath.Base(path)
		}
		return text, err
	case ".txt", ".md":
		return strings.TrimSpace(string(data)), nil
	default:
		return "", &model.ExtractionError{
			Source: filepath.Base(path),
			Err:    fmt.Errorf("unsupported file type %q", ext),
		}
	}
}

// Supported reports whether ExtractFile can handle path.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf", ".txt", ".md":
		return true
	}
	return false
}
