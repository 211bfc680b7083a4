package links

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrPatternGroups is returned when a pattern does not have exactly one capture group.
var ErrPatternGroups = errors.New("pattern must define exactly one capture group")

// Pattern describes how a reference is spelled in source text.
type Pattern struct {
	name string
	re   *regexp.Regexp
}

// NewPattern compiles expr. The expression must have exactly one capturing
// group holding the reference; use (?:...) for any other grouping.
func NewPattern(name, expr string) (Pattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return Pattern{}, fmt.Errorf("pattern %s: %w", name, err)
	}
	if re.NumSubexp() != 1 {
		return Pattern{}, fmt.Errorf("pattern %s has %d groups: %w", name, re.NumSubexp(), ErrPatternGroups)
	}
	return Pattern{name: name, re: re}, nil
}

// MustPattern is like NewPattern but panics on error.
func MustPattern(name, expr string) Pattern {
	p, err := NewPattern(name, expr)
	if err != nil {
		panic(err)
	}
	return p
}

// Name returns the pattern name.
func (p Pattern) Name() string {
	return p.name
}

func (p Pattern) String() string {
	if p.re == nil {
		return ""
	}
	return p.re.String()
}

// Match returns every non-overlapping occurrence of p in text, in order.
// Occurrences whose capture group did not participate are skipped.
func Match(text string, p Pattern) []SourceMatch {
	if p.re == nil {
		return nil
	}

	idx := p.re.FindAllStringSubmatchIndex(text, -1)
	matches := make([]SourceMatch, 0, len(idx))

	for _, loc := range idx {
		if loc[2] < 0 {
			continue
		}
		raw := text[loc[2]:loc[3]]
		capture, offset := trimQuotes(raw)

		matches = append(matches, SourceMatch{
			Raw:       raw,
			Capture:   capture,
			Start:     loc[2] + offset,
			End:       loc[2] + offset + len(capture),
			FullStart: loc[0],
			FullEnd:   loc[1],
		})
	}

	return matches
}

// trimQuotes strips one pair of matching enclosing quotes and returns the
// byte offset of the remaining content inside s.
func trimQuotes(s string) (string, int) {
	if len(s) < 2 {
		return s, 0
	}
	first, last := s[0], s[len(s)-1]
	if first == last && (first == '\'' || first == '"' || first == '`') {
		return s[1 : len(s)-1], 1
	}
	return s, 0
}
