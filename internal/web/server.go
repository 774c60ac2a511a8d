// Package web serves the bill split page and the HTTP endpoints behind it.
// Every request carries its own table snapshot, so the server keeps no table
// state between requests.
package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"bill_split/internal/processing"
	"bill_split/internal/receipt"
	"bill_split/ui"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

const (
	maxTableBytes   = 1 << 20
	maxReceiptBytes = 5 << 20
)

type Config struct {
	Addr        string
	Debug       bool
	OCRLanguage string
}

type Server struct {
	cfg       Config
	router    *chi.Mux
	templates *template.Template
	scanner   receipt.Scanner
	sheetSync *processing.SheetSync
}

// NewServer builds the router. sheetSync may be nil when no spreadsheet is
// configured.
func NewServer(cfg Config, sheetSync *processing.SheetSync) (*Server, error) {
	templates, err := template.ParseFS(ui.Files, "html/*.tmpl.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		cfg:       cfg,
		router:    chi.NewRouter(),
		templates: templates,
		scanner:   receipt.Scanner{Debug: cfg.Debug, Language: cfg.OCRLanguage},
		sheetSync: sheetSync,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s, nil
}

func (s *Server) setupMiddleware() {
	s.router.Use(requestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(recoverPanic)
	s.router.Use(logRequest)
	s.router.Use(secureHeaders)
	s.router.Use(middleware.Compress(5, "text/html", "text/css", "application/javascript", "application/json"))
}

func (s *Server) setupRoutes() {
	s.router.Handle("/static/*", http.FileServer(http.FS(ui.Files)))

	s.router.Get("/ping", ping)
	s.router.Get("/", s.home)

	s.router.Route("/split", func(r chi.Router) {
		r.Post("/calculate", s.calculate)
		r.Post("/columns/add", s.addColumn)
		r.Post("/columns/remove", s.removeColumn)
		r.Post("/export", s.exportSplit)
	})

	s.router.Post("/cells/validate", s.validateCell)
	s.router.Post("/receipt", s.receiptUpload)
	s.router.Post("/sheet/sync", s.sheetSyncNow)

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		clientError(w, http.StatusNotFound)
	})
}

// Handler returns the fully wrapped router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx ends, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", s.cfg.Addr).
			Bool("debug", s.cfg.Debug).
			Bool("sheet_sync", s.sheetSync != nil).
			Msg("Starting HTTP server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info().Msg("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
