// Package project ties configuration, route scanning and link resolution
// together for one AdonisJS project.
package project

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/abdul-hamid-achik/acelink/internal/logging"
	"github.com/abdul-hamid-achik/acelink/pkg/config"
	"github.com/abdul-hamid-achik/acelink/pkg/links"
	"github.com/abdul-hamid-achik/acelink/pkg/scanner"
)

// skippedDirs are never walked when collecting sources.
var skippedDirs = map[string]bool{
	"node_modules": true,
	"build":        true,
	"dist":         true,
	"tmp":          true,
	"public":       true,
	"coverage":     true,
}

// Project is an opened project.
type Project struct {
	Root    string
	Config  *config.Config
	Scanner *scanner.Scanner
	Linker  *links.Linker
	logger  *slog.Logger
}

// Open loads the configuration under root and wires the scanner and linker.
// A nil logger discards output.
func Open(root string, logger *slog.Logger) (*Project, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to open project: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project root is not a directory: %s", abs)
	}

	cfg, err := config.Load(abs)
	if err != nil {
		return nil, err
	}
	if cfg.File != "" {
		logger.Debug("loaded config", "file", cfg.File)
	}

	sc := scanner.New(abs, cfg)
	sc.SetLogger(logger)

	return &Project{
		Root:    abs,
		Config:  cfg,
		Scanner: sc,
		Linker:  links.NewLinker(abs, cfg, links.WithRoutes(sc), links.WithLogger(logger)),
		logger:  logger,
	}, nil
}

// Rel returns file relative to the project root.
func (p *Project) Rel(file string) string {
	return p.Linker.Resolver().Rel(p.Linker.Resolver().Abs(file))
}

// Links returns the links in file, read from disk.
func (p *Project) Links(ctx context.Context, file string) ([]links.Link, error) {
	return p.Linker.LinksForPath(ctx, file)
}

// Sources returns every file under the root that at least one kind scans,
// relative to the root and sorted. Hidden and build directories are skipped.
func (p *Project) Sources(ctx context.Context) ([]string, error) {
	var files []string
	err := fs.WalkDir(os.DirFS(p.Root), ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != "." && (strings.HasPrefix(d.Name(), ".") || skippedDirs[d.Name()]) {
				return fs.SkipDir
			}
			return nil
		}
		if len(p.Linker.KindsFor(path)) > 0 {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}

// FileLink is a link together with the file it was found in.
type FileLink struct {
	File string `json:"file"`
	links.Link
}

// Report summarizes a check of the whole project.
type Report struct {
	Files     int                `json:"files"`
	Links     int                `json:"links"`
	Resolved  int                `json:"resolved"`
	Broken    []FileLink         `json:"broken"`
	Failures  []FileLink         `json:"failures"`
	Conflicts []scanner.Conflict `json:"conflicts"`
	Warnings  []scanner.Warning  `json:"warnings"`
}

// OK reports whether every reference resolved.
func (r *Report) OK() bool {
	return len(r.Broken) == 0 && len(r.Failures) == 0
}

// Check resolves the links of every source file and collects the broken ones.
func (p *Project) Check(ctx context.Context) (*Report, error) {
	files, err := p.Sources(ctx)
	if err != nil {
		return nil, err
	}

	scan, err := p.Scanner.Scan(ctx)
	if err != nil {
		return nil, err
	}

	limit := p.Config.Concurrency
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	perFile := make([][]links.Link, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, file := range files {
		g.Go(func() error {
			found, err := p.Linker.LinksForPath(gctx, file)
			if err != nil {
				return err
			}
			perFile[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{
		Files:     len(files),
		Broken:    []FileLink{},
		Failures:  []FileLink{},
		Conflicts: scan.Conflicts,
		Warnings:  scan.Warnings,
	}
	for i, found := range perFile {
		for _, l := range found {
			report.Links++
			switch {
			case l.Err != nil:
				report.Failures = append(report.Failures, FileLink{File: files[i], Link: l})
			case l.Target.Found():
				report.Resolved++
			case l.Kind == links.KindControllerRoute:
				// a method without a route is not a dangling reference
			default:
				report.Broken = append(report.Broken, FileLink{File: files[i], Link: l})
			}
		}
	}

	p.logger.Info("check complete", "files", report.Files, "links", report.Links, "broken", len(report.Broken))
	return report, nil
}
