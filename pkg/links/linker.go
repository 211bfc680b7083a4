package links

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/abdul-hamid-achik/acelink/internal/logging"
	"github.com/abdul-hamid-achik/acelink/pkg/config"
)

// ErrUnknownKind is returned for a kind name not in Kinds.
var ErrUnknownKind = errors.New("unknown reference kind")

// ErrOutsideRoot is returned for a file that does not lie under the project root.
var ErrOutsideRoot = errors.New("file is outside the project root")

// RouteLookup provides the project's route registrations.
type RouteLookup interface {
	Routes(ctx context.Context) ([]RouteRef, error)
}

// Linker runs resolution passes for a project.
type Linker struct {
	cfg      *config.Config
	resolver *Resolver
	routes   RouteLookup
	logger   *slog.Logger
	search   Searcher
}

// Option configures a Linker.
type Option func(*Linker)

// WithSearcher replaces the filesystem search primitive.
func WithSearcher(s Searcher) Option {
	return func(l *Linker) {
		l.search = s
	}
}

// WithRoutes sets the route table used by controller-route links.
func WithRoutes(r RouteLookup) Option {
	return func(l *Linker) {
		l.routes = r
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Linker) {
		l.logger = logger
	}
}

// NewLinker creates a Linker for the project at root.
func NewLinker(root string, cfg *config.Config, opts ...Option) *Linker {
	if cfg == nil {
		cfg = config.Default()
	}
	l := &Linker{cfg: cfg, logger: logging.Discard()}
	for _, opt := range opts {
		opt(l)
	}
	l.resolver = NewResolver(root, cfg, l.search)
	return l
}

// Config returns the project configuration.
func (l *Linker) Config() *config.Config {
	return l.cfg
}

// Resolver returns the underlying path resolver.
func (l *Linker) Resolver() *Resolver {
	return l.resolver
}

// Kind returns the built-in kind with the given name.
func (l *Linker) Kind(name string) (Kind, bool) {
	for _, k := range Kinds {
		if k.Name == name {
			return k, true
		}
	}
	return Kind{}, false
}

// KindsFor returns the kinds that apply to file, which may be absolute or
// relative to the project root.
func (l *Linker) KindsFor(file string) []Kind {
	rel := l.resolver.Rel(l.resolver.Abs(file))
	var kinds []Kind
	for _, k := range Kinds {
		if k.Applies(l, rel) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// LinksForPath reads file from disk and returns its links. Files outside the
// project root are refused with ErrOutsideRoot.
func (l *Linker) LinksForPath(ctx context.Context, file string) ([]Link, error) {
	if !l.resolver.Contains(file) {
		return nil, fmt.Errorf("%w: %s", ErrOutsideRoot, file)
	}
	data, err := os.ReadFile(filepath.FromSlash(l.resolver.Abs(file)))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}
	return l.LinksForFile(ctx, file, string(data))
}

// LinksForFile runs every applicable kind over text. Links are grouped by
// kind in Kinds order and in source order within a kind.
func (l *Linker) LinksForFile(ctx context.Context, file, text string) ([]Link, error) {
	all := []Link{}
	for _, k := range l.KindsFor(file) {
		found, err := l.Links(ctx, k, file, text)
		if err != nil {
			return nil, err
		}
		all = append(all, found...)
	}
	return all, nil
}

// Links runs a single kind over text.
func (l *Linker) Links(ctx context.Context, k Kind, file, text string) ([]Link, error) {
	matches := Match(text, k.Pattern)
	if k.Skip != nil {
		kept := matches[:0]
		for _, m := range matches {
			if !k.Skip(m) {
				kept = append(kept, m)
			}
		}
		matches = kept
	}

	p := &pass{l: l, kind: k.Name, rel: l.resolver.Rel(l.resolver.Abs(file)), text: text}
	if k.NeedsRoutes && len(matches) > 0 {
		p.loadRoutes(ctx)
	}

	found, err := Assemble(ctx, k.Name, matches, AssembleFuncs{
		Position: l.positioner(text),
		Resolve: func(ctx context.Context, m SourceMatch) (ResolvedTarget, error) {
			return k.Resolve(ctx, p, m)
		},
		Metadata: func(m SourceMatch, t ResolvedTarget) Metadata {
			return k.Metadata(p, m, t)
		},
		Limit: l.cfg.Concurrency,
	})
	if err != nil {
		return nil, err
	}

	resolved := 0
	for _, link := range found {
		if link.Err != nil {
			l.logger.Warn("reference search failed", "kind", k.Name, "file", p.rel, "capture", link.Capture, "error", link.Err)
			continue
		}
		if link.Target.Found() {
			resolved++
		}
	}
	l.logger.Debug("resolution pass", "kind", k.Name, "file", p.rel, "matches", len(found), "resolved", resolved)

	return found, nil
}

// ResolveReference resolves a bare reference string of the given kind.
func (l *Linker) ResolveReference(ctx context.Context, kind, ref string) (ResolvedTarget, error) {
	switch kind {
	case KindRouteController:
		return l.resolver.ResolveController(ctx, ref)
	case KindResourceController:
		return l.resolver.ResolveControllerClass(ctx, ref)
	case KindView, KindTemplateInclude:
		return l.resolver.ResolveView(ctx, ref)
	case KindPage:
		return l.resolver.ResolvePage(ctx, ref)
	case KindControllerRoute:
		cref, ok := ParseControllerRef(ref)
		if !ok {
			return Unresolved, nil
		}
		p := &pass{l: l}
		p.loadRoutes(ctx)
		return p.routeTarget(cref.Class, cref.Method)
	default:
		return Unresolved, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

func (l *Linker) positioner(text string) func(SourceMatch) (Position, bool) {
	if l.cfg.Positions == config.PositionsFirstLine {
		return func(m SourceMatch) (Position, bool) {
			return Locate(text, m.Capture)
		}
	}
	idx := NewLineIndex(text)
	return func(m SourceMatch) (Position, bool) {
		pos := idx.Span(m.Start, m.End)
		return pos, pos.Valid()
	}
}

// pass holds the state of one resolution pass over one file.
type pass struct {
	l         *Linker
	kind      string
	rel       string
	text      string
	routes    []RouteRef
	routesErr error
}

// loadRoutes must run before resolution starts; afterwards routes is read-only.
func (p *pass) loadRoutes(ctx context.Context) {
	if p.l.routes == nil {
		return
	}
	p.routes, p.routesErr = p.l.routes.Routes(ctx)
}

func (p *pass) routeFor(class, method string) (RouteRef, bool) {
	for _, r := range p.routes {
		if routeMatches(r, class, method) {
			return r, true
		}
	}
	return RouteRef{}, false
}

// routeTarget points at the first route registration bound to class.method.
func (p *pass) routeTarget(class, method string) (ResolvedTarget, error) {
	if p.routesErr != nil {
		return Unresolved, &SearchError{Pattern: "routes", Err: p.routesErr}
	}

	target := Unresolved
	seen := make(map[string]bool)
	for _, r := range p.routes {
		if !routeMatches(r, class, method) {
			continue
		}
		file := p.l.resolver.Abs(r.File)
		if target.Path == "" {
			target.Path = file
			target.Line = r.Line
		}
		if !seen[file] {
			seen[file] = true
			target.Candidates = append(target.Candidates, file)
		}
	}
	return target, nil
}

func routeMatches(r RouteRef, class, method string) bool {
	ref, ok := ParseControllerRef(r.Handler)
	return ok && ref.Method == method && strings.EqualFold(ref.Class, class)
}
