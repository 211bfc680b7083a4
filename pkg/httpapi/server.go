// Package httpapi serves project links over a local HTTP API for editor plugins.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/abdul-hamid-achik/acelink/internal/logging"
	"github.com/abdul-hamid-achik/acelink/internal/version"
	"github.com/abdul-hamid-achik/acelink/pkg/links"
	"github.com/abdul-hamid-achik/acelink/pkg/openapi"
	"github.com/abdul-hamid-achik/acelink/pkg/project"
)

// DefaultAddr only listens on the loopback interface.
const DefaultAddr = "127.0.0.1:7420"

// Server is the HTTP API for one project.
type Server struct {
	project *project.Project
	router  chi.Router
	logger  *slog.Logger
	server  *http.Server
}

// New creates a server for p. A nil logger discards request logs.
func New(p *project.Project, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Server{
		project: p,
		router:  chi.NewRouter(),
		logger:  logger,
	}

	s.router.Use(middleware.Recoverer)
	s.router.Use(s.logRequests)
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Server", version.UserAgent())
			next.ServeHTTP(w, r)
		})
	})

	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/links", s.handleLinks)
	s.router.Get("/resolve", s.handleResolve)
	s.router.Get("/routes", s.handleRoutes)
	s.router.Get("/check", s.handleCheck)
	s.router.Get("/openapi.json", s.handleOpenAPI)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Listen serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Listen(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.server = &http.Server{
		Handler:           s,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String(), "root", s.project.Root)
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err, ok := <-serverErr:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown gracefully: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"latency", time.Since(start),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.GetVersion(),
		"root":    s.project.Root,
	})
}

func (s *Server) handleLinks(w http.ResponseWriter, r *http.Request) {
	file := r.URL.Query().Get("file")
	if file == "" {
		writeError(w, http.StatusBadRequest, errors.New("file query parameter is required"))
		return
	}

	found, err := s.project.Links(r.Context(), file)
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled):
		case errors.Is(err, links.ErrOutsideRoot):
			writeError(w, http.StatusBadRequest, err)
		default:
			writeError(w, http.StatusNotFound, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"file":  s.project.Rel(file),
		"total": len(found),
		"links": found,
	})
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	kind, ref := r.URL.Query().Get("kind"), r.URL.Query().Get("reference")
	if kind == "" || ref == "" {
		writeError(w, http.StatusBadRequest, errors.New("kind and reference query parameters are required"))
		return
	}

	target, err := s.project.Linker.ResolveReference(r.Context(), kind, ref)
	switch {
	case errors.Is(err, links.ErrUnknownKind):
		writeError(w, http.StatusBadRequest, err)
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"kind":      kind,
		"reference": ref,
		"found":     target.Found(),
		"target":    target,
	})
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	result, err := s.project.Scanner.Scan(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	report, err := s.project.Check(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": report.OK(), "report": report})
}

func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	doc, err := openapi.NewGenerator(s.project.Scanner, openapi.Config{Title: "acelink"}).Generate(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}
