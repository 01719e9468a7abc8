package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/amishk599/resumekit/internal/ai"
	"github.com/amishk599/resumekit/internal/ingest"
	"github.com/amishk599/resumekit/internal/model"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var (
		extErr   *model.ExtractionError
		bytesErr *http.MaxBytesError
	)
	switch {
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ingest.ErrTooLarge), errors.As(err, &bytesErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ingest.ErrUnsupportedType),
		errors.Is(err, ingest.ErrNoText),
		errors.Is(err, ingest.ErrMissingName),
		errors.Is(err, ingest.ErrMissingOwner),
		errors.As(err, &extErr):
		return http.StatusBadRequest
	case errors.Is(err, ai.ErrDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err with its mapped status. Internal errors are logged and
// replaced with a generic message.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		err = errors.New("internal error")
	}
	writeError(w, code, err)
}
