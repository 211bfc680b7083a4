package links

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/bmatcuk/doublestar/v4"
)

// SearchOptions controls a Searcher call.
type SearchOptions struct {
	// FilesOnly excludes directories from the results
	FilesOnly bool
	// CaseSensitive disables case folding of the pattern's literal text
	CaseSensitive bool
	// Dir is the directory the pattern is relative to
	Dir string
}

// Searcher finds files matching a glob pattern. Results are slash-separated
// paths relative to opts.Dir. No match is an empty result, not an error.
type Searcher interface {
	Search(ctx context.Context, pattern string, opts SearchOptions) ([]string, error)
}

// SearchError is a failure of the search itself (I/O, permissions), as
// opposed to a search that found nothing.
type SearchError struct {
	Pattern string
	Err     error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("search %q: %v", e.Pattern, e.Err)
}

func (e *SearchError) Unwrap() error {
	return e.Err
}

// GlobSearcher searches the local filesystem with doublestar globs.
// It never follows symlinks while walking and drops any result whose real
// path lies outside opts.Dir.
type GlobSearcher struct{}

// Search implements Searcher.
func (GlobSearcher) Search(ctx context.Context, pattern string, opts SearchOptions) ([]string, error) {
	if opts.Dir == "" {
		opts.Dir = "."
	}
	if !opts.CaseSensitive {
		pattern = FoldCase(pattern)
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid glob: %w", doublestar.ErrBadPattern)
	}

	globOpts := []doublestar.GlobOption{
		doublestar.WithNoFollow(),
		doublestar.WithFailOnIOErrors(),
	}
	if opts.FilesOnly {
		globOpts = append(globOpts, doublestar.WithFilesOnly())
	}

	var matches []string
	seen := make(map[string]bool)

	err := doublestar.GlobWalk(os.DirFS(opts.Dir), pattern, func(path string, d fs.DirEntry) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if seen[path] {
			return nil
		}
		seen[path] = true
		matches = append(matches, path)
		return nil
	}, globOpts...)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	return confine(opts.Dir, matches)
}

// confine drops matches that escape dir through a symlinked path component.
func confine(dir string, matches []string) ([]string, error) {
	if len(matches) == 0 {
		return matches, nil
	}
	root, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return nil, err
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	kept := matches[:0]
	for _, m := range matches {
		real, err := filepath.EvalSymlinks(filepath.Join(dir, filepath.FromSlash(m)))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
		real, err = filepath.Abs(real)
		if err != nil {
			return nil, err
		}
		if real == root || strings.HasPrefix(real, root+string(filepath.Separator)) {
			kept = append(kept, m)
		}
	}
	return kept, nil
}

// EscapeGlob escapes glob metacharacters so s matches literally.
func EscapeGlob(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '{', '}', ',', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FoldCase rewrites every literal letter in a glob pattern into a character
// class holding both cases, e.g. "Users/*.ts" becomes "[uU][sS]...". Letters
// inside existing bracket expressions are left as written.
func FoldCase(pattern string) string {
	var b strings.Builder
	b.Grow(len(pattern) * 3)

	runes := []rune(pattern)
	inClass := false

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case inClass:
			b.WriteRune(r)
			if r == '\\' && i+1 < len(runes) {
				i++
				b.WriteRune(runes[i])
			} else if r == ']' {
				inClass = false
			}
		case r == '[':
			inClass = true
			b.WriteRune(r)
		case r == '\\' && i+1 < len(runes):
			i++
			writeFolded(&b, runes[i], true)
		default:
			writeFolded(&b, r, false)
		}
	}
	return b.String()
}

func writeFolded(b *strings.Builder, r rune, escaped bool) {
	lower, upper := unicode.ToLower(r), unicode.ToUpper(r)
	if lower == upper {
		if escaped {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
		return
	}
	b.WriteByte('[')
	b.WriteRune(lower)
	b.WriteRune(upper)
	b.WriteByte(']')
}
