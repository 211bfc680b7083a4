package links

import (
	"context"
	"errors"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// AssembleFuncs supplies the per-match steps of a resolution pass.
type AssembleFuncs struct {
	// Position locates a match; returning false marks it unlinkable
	Position func(m SourceMatch) (Position, bool)
	// Resolve looks up the target; it may run concurrently with other matches
	Resolve func(ctx context.Context, m SourceMatch) (ResolvedTarget, error)
	// Metadata extracts the kind-specific payload; it sees the resolved target
	Metadata func(m SourceMatch, t ResolvedTarget) Metadata
	// Limit bounds concurrent Resolve calls; 0 means runtime.NumCPU()
	Limit int
}

// Assemble builds one Link per match, in match order, regardless of the
// order lookups complete in. A failed lookup is recorded on its own Link and
// does not affect the others. If ctx is cancelled the whole pass is
// discarded and ctx.Err() is returned.
func Assemble(ctx context.Context, kind string, matches []SourceMatch, fns AssembleFuncs) ([]Link, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return []Link{}, nil
	}

	out := make([]Link, len(matches))
	for i, m := range matches {
		pos := NoPosition
		if fns.Position != nil {
			if p, ok := fns.Position(m); ok {
				pos = p
			}
		}
		out[i] = Link{Kind: kind, Capture: m.Capture, Position: pos, Target: Unresolved}
	}

	limit := fns.Limit
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	var g errgroup.Group
	g.SetLimit(limit)

	for i, m := range matches {
		if fns.Resolve == nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			target, err := fns.Resolve(ctx, m)
			if err != nil {
				out[i].Err = err
				out[i].Error = err.Error()
				return nil
			}
			out[i].Target = target
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if fns.Metadata != nil {
		for i, m := range matches {
			out[i].Metadata = fns.Metadata(m, out[i].Target)
		}
	}
	return out, nil
}

// Resolved returns the links that have a target.
func Resolved(links []Link) []Link {
	var kept []Link
	for _, l := range links {
		if l.Target.Found() {
			kept = append(kept, l)
		}
	}
	return kept
}

// UnresolvedLinks returns the links whose reference matched no file.
// Links whose search failed are not included; see Failures.
func UnresolvedLinks(links []Link) []Link {
	var kept []Link
	for _, l := range links {
		if l.Broken() {
			kept = append(kept, l)
		}
	}
	return kept
}

// Failures joins the search errors of links into a single error, or nil.
func Failures(links []Link) error {
	var errs []error
	for _, l := range links {
		if l.Err != nil {
			errs = append(errs, l.Err)
		}
	}
	return errors.Join(errs...)
}
