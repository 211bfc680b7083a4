package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"runtime"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/abdul-hamid-achik/acelink/internal/logging"
	"github.com/abdul-hamid-achik/acelink/pkg/config"
	"github.com/abdul-hamid-achik/acelink/pkg/links"
)

// Scanner scans a project's routes files for route registrations.
type Scanner struct {
	root   string
	cfg    *config.Config
	logger *slog.Logger
}

// New creates a Scanner for the project at root. A nil cfg uses defaults.
func New(root string, cfg *config.Config) *Scanner {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Scanner{
		root:   root,
		cfg:    cfg,
		logger: logging.Discard(),
	}
}

// SetLogger sets the logger used for per-file diagnostics.
func (s *Scanner) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// Files returns the routes files matched by the configured globs, relative to
// the root, sorted and without duplicates.
func (s *Scanner) Files() ([]string, []Warning) {
	fsys := os.DirFS(s.root)
	var files []string
	var warnings []Warning

	for _, pattern := range s.cfg.RoutesFiles {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly(), doublestar.WithNoFollow())
		if err != nil {
			warnings = append(warnings, Warning{
				FilePath: pattern,
				Line:     -1,
				Message:  fmt.Sprintf("invalid routes glob: %v", err),
			})
			continue
		}
		files = append(files, matches...)
	}

	slices.Sort(files)
	return slices.Compact(files), warnings
}

type fileResult struct {
	routes   []Route
	warnings []Warning
}

// Scan reads every routes file and returns the registrations found.
// Files are read concurrently; an unreadable file becomes a Warning.
func (s *Scanner) Scan(ctx context.Context) (*ScanResult, error) {
	files, warnings := s.Files()
	result := &ScanResult{Files: files, Routes: []Route{}, Warnings: warnings}

	limit := s.cfg.Concurrency
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	results := make([]fileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := fs.ReadFile(os.DirFS(s.root), file)
			if err != nil {
				results[i].warnings = []Warning{{FilePath: file, Line: -1, Message: err.Error()}}
				return nil
			}
			results[i].routes, results[i].warnings = ParseRoutes(file, string(data))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i, r := range results {
		result.Routes = append(result.Routes, r.routes...)
		result.Warnings = append(result.Warnings, r.warnings...)
		s.logger.Debug("scanned routes file", "file", files[i], "routes", len(r.routes))
	}
	for _, w := range result.Warnings {
		s.logger.Warn("routes scan", "file", w.FilePath, "message", w.Message)
	}

	result.Conflicts = DetectConflicts(result.Routes)
	return result, nil
}

// Routes implements links.RouteLookup. Every call rescans.
func (s *Scanner) Routes(ctx context.Context) ([]links.RouteRef, error) {
	result, err := s.Scan(ctx)
	if err != nil {
		return nil, err
	}
	refs := make([]links.RouteRef, len(result.Routes))
	for i, r := range result.Routes {
		refs[i] = r.Ref()
	}
	return refs, nil
}

// DetectConflicts reports every registration whose method and pattern were
// already registered. ANY conflicts with every method.
func DetectConflicts(routes []Route) []Conflict {
	var conflicts []Conflict
	byPattern := make(map[string][]Route)
	for _, r := range routes {
		var clash *Route
		for i, prev := range byPattern[r.Pattern] {
			if prev.Method == r.Method || prev.Method == "ANY" || r.Method == "ANY" {
				clash = &byPattern[r.Pattern][i]
				break
			}
		}
		if clash != nil {
			conflicts = append(conflicts, Conflict{
				Method:  r.Method,
				Pattern: r.Pattern,
				First:   *clash,
				Second:  r,
				Message: fmt.Sprintf("Duplicate %s handler for %s", r.Method, r.Pattern),
			})
			continue
		}
		byPattern[r.Pattern] = append(byPattern[r.Pattern], r)
	}
	return conflicts
}

// FindHandler returns the routes bound to class.method. Class comparison
// ignores case and any sub-path on the registered handler.
func FindHandler(routes []Route, class, method string) []Route {
	var found []Route
	for _, r := range routes {
		ref, ok := links.ParseControllerRef(r.Handler)
		if ok && ref.Method == method && strings.EqualFold(ref.Class, class) {
			found = append(found, r)
		}
	}
	return found
}
