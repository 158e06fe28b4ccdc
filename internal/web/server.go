// Package web is the upload-flow front-end: a thin chi router over the
// analyzer core. Uploaded exports live on disk only between the upload and
// the results page; the select handler deletes them once a report is built.
package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/betweenlines/betweenlines/internal/analyzer"
	"github.com/betweenlines/betweenlines/internal/chatlog"
	"github.com/betweenlines/betweenlines/internal/config"
	"github.com/betweenlines/betweenlines/internal/observability"
	"github.com/betweenlines/betweenlines/internal/roles"
	"github.com/betweenlines/betweenlines/internal/upload"
)

const (
	surfaceWeb = "web"

	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

type Server struct {
	cfg      *config.Config
	analyzer *analyzer.Analyzer
	logger   *zerolog.Logger
	router   *chi.Mux
}

func NewServer(cfg *config.Config, a *analyzer.Analyzer, logger *zerolog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		cfg:      cfg,
		analyzer: a,
		logger:   logger,
		router:   router,
	}

	router.Get("/", s.index)
	router.Get("/tutorial", s.tutorial)
	router.Get("/healthz", s.health)
	router.Post("/upload", s.upload)
	router.Post("/select", s.selectIdentity)

	return s
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start(ctx context.Context) error {
	if err := os.MkdirAll(s.cfg.UploadDir, 0o750); err != nil {
		return fmt.Errorf("creating upload dir: %w", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.ListenPort),
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info().Int("port", s.cfg.ListenPort).Msg("Web server starting")

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

func (s *Server) index(w http.ResponseWriter, _ *http.Request) {
	s.renderUpload(w, http.StatusOK, "")
}

func (s *Server) tutorial(w http.ResponseWriter, _ *http.Request) {
	if err := tutorialTmpl.Execute(w, nil); err != nil {
		s.logger.Error().Err(err).Msg("rendering tutorial")
	}
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, `{"status":"healthy"}`)
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024)

	file, header, err := r.FormFile("file")
	if err != nil {
		s.rejectUpload(w, "missing", "No file selected.")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		s.rejectUpload(w, "read", "Error reading file.")
		return
	}

	text, err := upload.ExtractText(data, header.Filename, s.cfg.MaxUploadBytes, chatlog.QuickCheck)
	if err != nil {
		s.rejectUpload(w, "format", uploadErrorMessage(err))
		return
	}

	_, participants, err := chatlog.Parse(text)
	if err != nil {
		s.rejectUpload(w, "participants", "Please provide a valid export: "+err.Error())
		return
	}

	token := uuid.NewString()
	if err := os.WriteFile(s.uploadPath(token), []byte(text), 0o600); err != nil {
		s.logger.Error().Err(err).Msg("saving upload")
		s.rejectUpload(w, "storage", "Error storing file.")

		return
	}

	// Enumeration order of senders is not guaranteed; sort for display.
	sort.Strings(participants)

	page := struct {
		Token        string
		Participants []string
	}{Token: token, Participants: participants}

	if err := selectTmpl.Execute(w, page); err != nil {
		s.logger.Error().Err(err).Msg("rendering selection page")
	}
}

func (s *Server) selectIdentity(w http.ResponseWriter, r *http.Request) {
	token := r.FormValue("token")
	if _, err := uuid.Parse(token); err != nil {
		s.renderUpload(w, http.StatusBadRequest, "Invalid selection.")
		return
	}

	path := s.uploadPath(token)

	text, err := os.ReadFile(path)
	if err != nil {
		s.renderUpload(w, http.StatusBadRequest, "Upload expired, please try again.")
		return
	}

	// The export is deleted once the report is built, whatever the outcome.
	defer func() {
		if err := os.Remove(path); err != nil {
			s.logger.Warn().Err(err).Str("path", path).Msg("removing upload")
		}
	}()

	messages, participants, err := chatlog.Parse(string(text))
	if err != nil {
		observability.AnalysesTotal.WithLabelValues(surfaceWeb, "format_error").Inc()
		s.renderUpload(w, http.StatusBadRequest, "Please provide a valid export: "+err.Error())

		return
	}

	you, them := r.FormValue("you"), r.FormValue("them")
	if you == them || !contains(participants, you) || !contains(participants, them) {
		s.renderUpload(w, http.StatusBadRequest, "Invalid selection.")
		return
	}

	report, err := s.analyzer.Analyze(r.Context(), messages, you, them)
	if err != nil {
		observability.AnalysesTotal.WithLabelValues(surfaceWeb, "error").Inc()
		s.renderUpload(w, http.StatusBadRequest, "Please provide a valid export: "+err.Error())

		return
	}

	observability.AnalysesTotal.WithLabelValues(surfaceWeb, "ok").Inc()

	if err := resultsTmpl.Execute(w, struct{ Report *roles.Report }{Report: report}); err != nil {
		s.logger.Error().Err(err).Msg("rendering results page")
	}
}

func (s *Server) uploadPath(token string) string {
	return filepath.Join(s.cfg.UploadDir, token+".txt")
}

func (s *Server) renderUpload(w http.ResponseWriter, status int, flash string) {
	w.WriteHeader(status)

	if err := uploadTmpl.Execute(w, struct{ Flash string }{Flash: flash}); err != nil {
		s.logger.Error().Err(err).Msg("rendering upload page")
	}
}

func (s *Server) rejectUpload(w http.ResponseWriter, reason, flash string) {
	observability.UploadsRejected.WithLabelValues(reason).Inc()
	s.renderUpload(w, http.StatusBadRequest, flash)
}

func uploadErrorMessage(err error) string {
	switch {
	case errors.Is(err, upload.ErrTooLarge):
		return "File too large. Max 10MB allowed."
	case errors.Is(err, upload.ErrArchive):
		return "Archive must contain exactly one exported chat."
	case errors.Is(err, upload.ErrEncoding):
		return "File must be UTF-8 text."
	default:
		return "Invalid file format. Must be a WhatsApp export."
	}
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}

	return false
}
