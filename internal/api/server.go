// Package api exposes résumé storage, upload and kit generation over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/amishk599/resumekit/internal/ingest"
	"github.com/amishk599/resumekit/internal/model"
)

// OwnerHeader carries the caller's user ID. Authentication happens upstream.
const OwnerHeader = "X-User-ID"

// Analyzer scores a résumé against a job description.
type Analyzer interface {
	Analyze(ctx context.Context, data model.StructuredResumeData, jobDescription, level string) (*model.ResumeAnalysis, error)
}

// Server holds the HTTP handlers and their dependencies.
type Server struct {
	ingest   *ingest.Service
	store    model.ResumeStore
	kits     model.KitGenerator
	analyzer Analyzer // nil when ai is disabled
	logger   *slog.Logger
}

// NewServer creates a Server. analyzer may be nil.
func NewServer(ingestSvc *ingest.Service, store model.ResumeStore, kits model.KitGenerator, analyzer Analyzer, logger *slog.Logger) *Server {
	return &Server{
		ingest:   ingestSvc,
		store:    store,
		kits:     kits,
		analyzer: analyzer,
		logger:   logger,
	}
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(requireOwner)

		r.Route("/resumes", func(r chi.Router) {
			r.Post("/", s.handleCreate)
			r.Get("/", s.handleList)
			r.Post("/upload-pdf", s.handleUpload)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGet)
				r.Put("/", s.handleUpdate)
				r.Delete("/", s.handleDelete)
				r.Post("/kit", s.handleKit)
				r.Post("/analyze", s.handleAnalyze)
			})
		})
	})

	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

type ownerKey struct{}

func requireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner := r.Header.Get(OwnerHeader)
		if owner == "" {
			writeError(w, http.StatusUnauthorized, errors.New("missing "+OwnerHeader+" header"))
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ownerKey{}, owner)))
	})
}

func ownerFrom(ctx context.Context) string {
	owner, _ := ctx.Value(ownerKey{}).(string)
	return owner
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
