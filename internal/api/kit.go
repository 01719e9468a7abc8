package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/amishk599/resumekit/internal/ai"
)

type kitRequest struct {
	JobDescription string `json:"job_description"`
}

type analyzeRequest struct {
	JobDescription  string `json:"job_description"`
	ExperienceLevel string `json:"experience_level"`
}

var errMissingJob = errors.New("job_description is required")

// POST /resumes/{id}/kit
func (s *Server) handleKit(w http.ResponseWriter, r *http.Request) {
	var req kitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.badBody(w, r, err)
		return
	}
	if strings.TrimSpace(req.JobDescription) == "" {
		writeError(w, http.StatusBadRequest, errMissingJob)
		return
	}

	res, err := s.store.Get(r.Context(), ownerFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	kit, err := s.kits.Generate(r.Context(), res.Data, req.JobDescription)
	if err != nil {
		if kit != nil && !errors.Is(err, ai.ErrDisabled) {
			// Every step failed upstream; report what was attempted.
			s.logger.Warn("kit generation failed", "resume", res.ID, "error", err)
			writeJSON(w, http.StatusBadGateway, kit)
			return
		}
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, kit)
}

// POST /resumes/{id}/analyze
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if s.analyzer == nil {
		writeError(w, http.StatusServiceUnavailable, ai.ErrDisabled)
		return
	}

	var req analyzeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.badBody(w, r, err)
		return
	}
	if strings.TrimSpace(req.JobDescription) == "" {
		writeError(w, http.StatusBadRequest, errMissingJob)
		return
	}

	res, err := s.store.Get(r.Context(), ownerFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	analysis, err := s.analyzer.Analyze(r.Context(), res.Data, req.JobDescription, req.ExperienceLevel)
	if err != nil {
		s.logger.Warn("resume analysis failed", "resume", res.ID, "error", err)
		writeError(w, http.StatusBadGateway, errors.New("analysis failed"))
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}
