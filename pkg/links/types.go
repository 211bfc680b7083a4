// Package links finds framework references in source text and resolves them
// to files on disk.
//
// A resolution pass runs in four steps: a Pattern extracts SourceMatches from
// the text, each match gets a Position, each capture is resolved to a
// ResolvedTarget by searching the project, and Assemble zips everything into
// Links in source order. Links whose target is absent are kept; callers decide
// whether to hide them or report them as broken.
package links

import "fmt"

// Reference kinds.
const (
	KindRouteController    = "route-controller"
	KindResourceController = "resource-controller"
	KindControllerRoute    = "controller-route"
	KindView               = "view"
	KindPage               = "page"
	KindTemplateInclude    = "template-include"
)

// SourceMatch is one occurrence of a pattern in the text.
type SourceMatch struct {
	// Raw is the capture group exactly as it appears in the text
	Raw string
	// Capture is Raw with one pair of enclosing quotes removed
	Capture string
	// Start and End are the byte offsets of Capture in the text
	Start int
	End   int
	// FullStart and FullEnd are the byte offsets of the whole match
	FullStart int
	FullEnd   int
}

// Position is a zero-based line and a half-open column range on that line.
// Columns count characters, not bytes.
type Position struct {
	Line        int `json:"line"`
	ColumnStart int `json:"column_start"`
	ColumnEnd   int `json:"column_end"`
}

// NoPosition marks a match that could not be located.
var NoPosition = Position{Line: -1, ColumnStart: -1, ColumnEnd: -1}

// Valid reports whether p points at real text.
func (p Position) Valid() bool {
	return p.Line >= 0 && p.ColumnStart >= 0 && p.ColumnEnd >= p.ColumnStart
}

func (p Position) String() string {
	if !p.Valid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d-%d", p.Line+1, p.ColumnStart+1, p.ColumnEnd+1)
}

// ResolvedTarget is the file a reference points to. An empty Path means no
// file matched.
type ResolvedTarget struct {
	Path string `json:"path,omitempty"`
	// Line is the zero-based line inside Path, or -1 when the whole file is the target
	Line int `json:"line"`
	// Candidates lists every matching file in search order; Path is Candidates[0]
	Candidates []string `json:"candidates,omitempty"`
}

// Unresolved is the target of a reference that matched no file.
var Unresolved = ResolvedTarget{Line: -1}

// Found reports whether the reference resolved to a file.
func (t ResolvedTarget) Found() bool {
	return t.Path != ""
}

// Ambiguous reports whether more than one file matched.
func (t ResolvedTarget) Ambiguous() bool {
	return len(t.Candidates) > 1
}

// Metadata is the kind-specific payload of a link.
type Metadata struct {
	Controller string `json:"controller,omitempty"`
	Method     string `json:"method,omitempty"`
	View       string `json:"view,omitempty"`
	HTTPMethod string `json:"http_method,omitempty"`
	URL        string `json:"url,omitempty"`
}

// Link is a located reference with its resolved target.
type Link struct {
	Kind     string         `json:"kind"`
	Capture  string         `json:"capture"`
	Position Position       `json:"position"`
	Target   ResolvedTarget `json:"target"`
	Metadata Metadata       `json:"metadata"`
	// Err is set when the search for this link's target failed
	Err   error  `json:"-"`
	Error string `json:"error,omitempty"`
}

// Broken reports whether the link has a location but no target.
func (l Link) Broken() bool {
	return l.Err == nil && !l.Target.Found()
}

// RouteRef is a route registration found in a routes file.
type RouteRef struct {
	Method  string `json:"method"`
	Pattern string `json:"pattern"`
	Handler string `json:"handler"`
	File    string `json:"file"`
	// Line is zero-based
	Line int `json:"line"`
}
