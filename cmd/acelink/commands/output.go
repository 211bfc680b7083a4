package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/abdul-hamid-achik/acelink/pkg/links"
	"github.com/abdul-hamid-achik/acelink/pkg/project"
	"github.com/abdul-hamid-achik/acelink/pkg/scanner"
)

// jsonOutput is the global flag for JSON output mode
var jsonOutput bool

// JSONResponse is the standard response wrapper for JSON output
type JSONResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// LinksOutput represents the JSON output for the links command
type LinksOutput struct {
	File     string       `json:"file"`
	Links    []links.Link `json:"links"`
	Total    int          `json:"total"`
	Resolved int          `json:"resolved"`
	Broken   int          `json:"broken"`
}

// ResolveOutput represents the JSON output for the resolve command
type ResolveOutput struct {
	Kind      string               `json:"kind"`
	Reference string               `json:"reference"`
	Found     bool                 `json:"found"`
	Target    links.ResolvedTarget `json:"target"`
}

// RoutesOutput represents the JSON output for the routes command
type RoutesOutput struct {
	Routes      []scanner.Route    `json:"routes"`
	Conflicts   []scanner.Conflict `json:"conflicts,omitempty"`
	Warnings    []scanner.Warning  `json:"warnings,omitempty"`
	TotalRoutes int                `json:"total_routes"`
}

// CheckOutput represents the JSON output for the check command
type CheckOutput struct {
	OK bool `json:"ok"`
	*project.Report
}

// WatchEvent is printed once per re-resolved file in JSON mode
type WatchEvent struct {
	Time     string       `json:"time"`
	File     string       `json:"file"`
	Links    []links.Link `json:"links,omitempty"`
	Resolved int          `json:"resolved"`
	Broken   int          `json:"broken"`
	Error    string       `json:"error,omitempty"`
}

// OpenAPIOutput represents the JSON output for the openapi command
type OpenAPIOutput struct {
	Output  string `json:"output"`
	Format  string `json:"format"`
	Version string `json:"openapi_version"`
	Paths   int    `json:"paths"`
	Size    int64  `json:"size"`
}

// GenerateOutput represents the JSON output for generate commands
type GenerateOutput struct {
	Type      string   `json:"type"`
	Name      string   `json:"name"`
	Files     []string `json:"files"`
	Reference string   `json:"reference"`
}

// InitOutput represents the JSON output for the init command
type InitOutput struct {
	File string `json:"file"`
}

// ServeOutput represents the JSON output for the serve command
type ServeOutput struct {
	Status string `json:"status"`
	URL    string `json:"url"`
}

// printJSON outputs data as formatted JSON
func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
	}
}

// printSuccess outputs a successful JSON response
func printSuccess(data any) {
	printJSON(JSONResponse{Success: true, Data: data})
}

// printJSONError outputs an error as JSON
func printJSONError(err error) {
	printJSON(JSONResponse{Success: false, Error: err.Error()})
}

// countLinks returns how many links resolved and how many are broken.
// A controller method without a route is not broken, matching check.
func countLinks(found []links.Link) (resolved, broken int) {
	for _, l := range found {
		switch {
		case l.Target.Found():
			resolved++
		case l.Kind == links.KindControllerRoute:
		case l.Broken():
			broken++
		}
	}
	return resolved, broken
}

// formatTarget renders a target relative to the project as "file" or "file:line".
func formatTarget(p *project.Project, t links.ResolvedTarget) string {
	if !t.Found() {
		return ""
	}
	rel := p.Rel(t.Path)
	if t.Line >= 0 {
		return fmt.Sprintf("%s:%d", rel, t.Line+1)
	}
	return rel
}

// formatBytes formats bytes as human-readable string
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
