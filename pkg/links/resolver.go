package links

import (
	"context"
	"path"
	"path/filepath"
	"strings"

	"github.com/abdul-hamid-achik/acelink/pkg/config"
)

// Resolver turns reference strings into files under a project root using the
// framework's naming conventions. Every call searches the filesystem again.
type Resolver struct {
	root   string
	cfg    *config.Config
	search Searcher
}

// NewResolver creates a Resolver for the project at root.
// A nil searcher uses GlobSearcher.
func NewResolver(root string, cfg *config.Config, search Searcher) *Resolver {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	if cfg == nil {
		cfg = config.Default()
	}
	if search == nil {
		search = GlobSearcher{}
	}
	return &Resolver{root: root, cfg: cfg, search: search}
}

// Root returns the absolute project root.
func (r *Resolver) Root() string {
	return r.root
}

// ResolveView resolves a dotted view name ("admin.users.index") to
// <views>/admin/users/index.<ext>.
func (r *Resolver) ResolveView(ctx context.Context, ref string) (ResolvedTarget, error) {
	segs := viewSegments(ref)
	if segs == nil {
		return Unresolved, nil
	}
	pattern := joinGlob(
		EscapeGlob(r.cfg.ViewsDirectory),
		EscapeGlob(strings.Join(segs, "/"))+"."+EscapeGlob(r.cfg.TemplateExtension),
	)
	return r.find(ctx, pattern)
}

// ResolvePage resolves an Inertia page name ("Users/Show") against the pages
// directory and every configured page extension.
func (r *Resolver) ResolvePage(ctx context.Context, ref string) (ResolvedTarget, error) {
	name, _ := trimQuotes(strings.TrimSpace(ref))
	name = strings.Trim(name, "/")
	if name == "" || !validSubPath(name) {
		return Unresolved, nil
	}
	pattern := joinGlob(
		EscapeGlob(r.cfg.PagesDirectory),
		EscapeGlob(name)+"."+alternatives(r.cfg.PageExtensions),
	)
	return r.find(ctx, pattern)
}

// ResolveController resolves a "Class.method" handler to the controller file.
// A reference without a method is malformed and resolves to nothing.
func (r *Resolver) ResolveController(ctx context.Context, ref string) (ResolvedTarget, error) {
	name, _ := trimQuotes(strings.TrimSpace(ref))
	cref, ok := ParseControllerRef(name)
	if !ok {
		return Unresolved, nil
	}
	return r.resolveClass(ctx, cref)
}

// ResolveControllerClass resolves a bare class name such as "UsersController".
func (r *Resolver) ResolveControllerClass(ctx context.Context, ref string) (ResolvedTarget, error) {
	name, _ := trimQuotes(strings.TrimSpace(ref))
	cref, ok := ParseControllerClass(name)
	if !ok {
		return Unresolved, nil
	}
	return r.resolveClass(ctx, cref)
}

func (r *Resolver) resolveClass(ctx context.Context, cref ControllerRef) (ResolvedTarget, error) {
	// a sub-path may sit below intermediate directories such as Http/
	dir := joinGlob(EscapeGlob(r.cfg.ControllersDirectory), "**")
	if cref.Dir != "" {
		dir = joinGlob(dir, EscapeGlob(cref.Dir))
	}

	stems := ControllerStems(cref.Class)
	for i, s := range stems {
		stems[i] = EscapeGlob(s)
	}

	pattern := joinGlob(dir, alternativesRaw(stems)+"."+alternatives(r.cfg.ControllerExtensions))
	return r.find(ctx, pattern)
}

// find runs one case-insensitive, files-only search. The first result is the
// target; all results are kept as candidates.
func (r *Resolver) find(ctx context.Context, pattern string) (ResolvedTarget, error) {
	found, err := r.search.Search(ctx, pattern, SearchOptions{
		FilesOnly:     true,
		CaseSensitive: false,
		Dir:           r.root,
	})
	if err != nil {
		return Unresolved, &SearchError{Pattern: pattern, Err: err}
	}
	if len(found) == 0 {
		return Unresolved, nil
	}

	target := ResolvedTarget{Line: -1, Candidates: make([]string, len(found))}
	for i, rel := range found {
		target.Candidates[i] = r.Abs(rel)
	}
	target.Path = target.Candidates[0]
	return target, nil
}

// Abs joins a root-relative path onto the root and returns it with forward slashes.
func (r *Resolver) Abs(rel string) string {
	if filepath.IsAbs(rel) {
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(filepath.Join(r.root, filepath.FromSlash(rel)))
}

// Rel returns p relative to the root with forward slashes, or p unchanged
// when it lies outside the root.
func (r *Resolver) Rel(p string) string {
	rel, err := filepath.Rel(r.root, filepath.FromSlash(p))
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(p)
	}
	return filepath.ToSlash(rel)
}

// Contains reports whether p, absolute or relative to the root, lies under
// the root after cleaning.
func (r *Resolver) Contains(p string) bool {
	rel, err := filepath.Rel(r.root, filepath.FromSlash(r.Abs(p)))
	if err != nil || filepath.IsAbs(rel) {
		return false
	}
	rel = filepath.ToSlash(rel)
	return rel != ".." && !strings.HasPrefix(rel, "../")
}

// viewSegments converts "admin.users.index" to its path segments, dropping
// empty segments. It returns nil for an empty name.
func viewSegments(ref string) []string {
	name, _ := trimQuotes(strings.TrimSpace(ref))
	var segs []string
	for _, s := range strings.FieldsFunc(name, func(r rune) bool { return r == '.' || r == '/' }) {
		if s = strings.TrimSpace(s); s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

func joinGlob(parts ...string) string {
	return path.Join(parts...)
}

// alternatives escapes each item and joins them as a brace alternation.
func alternatives(items []string) string {
	escaped := make([]string, len(items))
	for i, it := range items {
		escaped[i] = EscapeGlob(it)
	}
	return alternativesRaw(escaped)
}

func alternativesRaw(items []string) string {
	if len(items) == 1 {
		return items[0]
	}
	return "{" + strings.Join(items, ",") + "}"
}
