package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by stores when no résumé matches the owner and ID.
var ErrNotFound = errors.New("resume not found")

// HTTPError wraps an HTTP status code so retry logic can inspect it.
type HTTPError struct {
	StatusCode int
	RetryAfter time.Duration // from Retry-After header, zero if absent
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// ExtractionError reports that no text could be obtained from a document.
type ExtractionError struct {
	Source string // file name or "upload"
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("extract text from %s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("extract text: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
