package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/amishk599/resumekit/internal/ingest"
	"github.com/amishk599/resumekit/internal/model"
)

// maxJSONBody caps JSON request bodies.
const maxJSONBody = 1 << 20

type createRequest struct {
	Name    string                     `json:"resume_name"`
	Content string                     `json:"content"`
	Data    model.StructuredResumeData `json:"resume_data"`
}

type updateRequest struct {
	Name *string                     `json:"resume_name"`
	Data *model.StructuredResumeData `json:"resume_data"`
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var bytesErr *http.MaxBytesError
		if errors.As(err, &bytesErr) {
			return err
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// POST /resumes
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.badBody(w, r, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, ingest.ErrMissingName)
		return
	}

	res, err := s.store.Create(r.Context(), model.Resume{
		OwnerID: ownerFrom(r.Context()),
		Name:    req.Name,
		Content: req.Content,
		Data:    req.Data,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// GET /resumes
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context(), ownerFrom(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GET /resumes/{id}
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	res, err := s.store.Get(r.Context(), ownerFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// PUT /resumes/{id}
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.badBody(w, r, err)
		return
	}
	if req.Name == nil && req.Data == nil {
		writeError(w, http.StatusBadRequest, errors.New("no fields provided for update"))
		return
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			writeError(w, http.StatusBadRequest, ingest.ErrMissingName)
			return
		}
		req.Name = &name
	}

	res, err := s.store.Update(r.Context(), ownerFrom(r.Context()), chi.URLParam(r, "id"), model.ResumeUpdate{
		Name: req.Name,
		Data: req.Data,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// DELETE /resumes/{id}
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), ownerFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /resumes/upload-pdf (multipart: resume_name, file)
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	// Leave room for the multipart framing around the file.
	r.Body = http.MaxBytesReader(w, r.Body, s.ingest.MaxSize()+64<<10)
	if err := r.ParseMultipartForm(s.ingest.MaxSize()); err != nil {
		s.badBody(w, r, fmt.Errorf("parse form: %w", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("missing file field: %w", err))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if mediaType, _, _ := mime.ParseMediaType(contentType); mediaType != ingest.TypePDF {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: only PDF files are allowed", ingest.ErrUnsupportedType))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.fail(w, r, fmt.Errorf("read upload: %w", err))
		return
	}

	res, err := s.ingest.Ingest(r.Context(), ingest.Upload{
		OwnerID:     ownerFrom(r.Context()),
		Name:        r.FormValue("resume_name"),
		ContentType: contentType,
		Data:        data,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// badBody reports a malformed or oversized request body.
func (s *Server) badBody(w http.ResponseWriter, r *http.Request, err error) {
	var bytesErr *http.MaxBytesError
	if errors.As(err, &bytesErr) {
		writeError(w, http.StatusRequestEntityTooLarge, ingest.ErrTooLarge)
		return
	}
	writeError(w, http.StatusBadRequest, err)
}
