// Package generator scaffolds controllers, views and pages for AdonisJS projects.
package generator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"github.com/abdul-hamid-achik/acelink/pkg/links"
	"github.com/abdul-hamid-achik/acelink/pkg/scanner"
)

// ErrExists is returned instead of overwriting a file.
var ErrExists = errors.New("file already exists")

// ControllerConfig holds configuration for controller generation.
type ControllerConfig struct {
	Name      string   // Controller name (e.g., "users", "admin/Posts", "UsersController")
	Actions   []string // Method names (default: the resourceful set)
	Dir       string   // Controllers directory (default: "app/controllers")
	Extension string   // File extension (default: "ts")
}

// ViewConfig holds configuration for view generation.
type ViewConfig struct {
	Name      string // Dotted view name (e.g., "users.index")
	Layout    string // Optional layout view to extend
	Dir       string // Views directory (default: "resources/views")
	Extension string // Template extension (default: "edge")
}

// PageConfig holds configuration for Inertia page generation.
type PageConfig struct {
	Name      string // Page name (e.g., "Users/Show")
	Dir       string // Pages directory (default: "inertia/pages")
	Extension string // vue, tsx, jsx or svelte (default: "tsx")
}

// Result holds the result of a generation operation.
type Result struct {
	Files []string `json:"files"`
	// Reference is how routes or render calls refer to the generated file
	Reference string `json:"reference"`
}

var (
	segmentRe    = regexp.MustCompile(`^[A-Za-z][\w-]*$`)
	identifierRe = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)
)

// actionDocs are the doc comments of the resourceful actions.
var actionDocs = map[string]string{
	"index":   "Display a list of resource",
	"create":  "Display form to create a new record",
	"store":   "Handle form submission for the create action",
	"show":    "Show individual record",
	"edit":    "Edit individual record",
	"update":  "Handle form submission for the edit action",
	"destroy": "Delete record",
}

// ResourceActions returns the action names of a resourceful controller.
func ResourceActions() []string {
	actions := make([]string, len(scanner.ResourceActions))
	for i, ra := range scanner.ResourceActions {
		actions[i] = ra.Action
	}
	return actions
}

// GenerateController generates a controller class with one method per action.
func GenerateController(cfg ControllerConfig) (*Result, error) {
	if cfg.Dir == "" {
		cfg.Dir = "app/controllers"
	}
	if cfg.Extension == "" {
		cfg.Extension = "ts"
	}
	cfg.Extension = strings.TrimPrefix(cfg.Extension, ".")
	if len(cfg.Actions) == 0 {
		cfg.Actions = ResourceActions()
	}

	sub, base, err := splitName(cfg.Name, "/")
	if err != nil {
		return nil, err
	}
	base = strings.TrimSuffix(links.ToPascalCase(links.ToSnakeCase(base)), "Controller")
	if base == "" {
		return nil, fmt.Errorf("invalid controller name: %q", cfg.Name)
	}
	class := base + "Controller"

	data := controllerTemplateData{Class: class}
	seen := make(map[string]bool)
	for _, a := range cfg.Actions {
		a = strings.TrimSpace(a)
		if !identifierRe.MatchString(a) {
			return nil, fmt.Errorf("invalid action name: %q", a)
		}
		if seen[a] {
			continue
		}
		seen[a] = true
		data.Actions = append(data.Actions, actionData{Name: a, Doc: actionDocs[a]})
	}

	dirPath := filepath.Join(cfg.Dir, filepath.FromSlash(sub))
	filePath := filepath.Join(dirPath, links.ToSnakeCase(class)+"."+cfg.Extension)
	if err := createFile(dirPath, filePath, controllerTemplate, data); err != nil {
		return nil, err
	}

	ref := class
	if sub != "" {
		ref = sub + "/" + class
	}
	return &Result{Files: []string{filePath}, Reference: ref}, nil
}

// GenerateView generates an Edge template at the path its dotted name maps to.
func GenerateView(cfg ViewConfig) (*Result, error) {
	if cfg.Dir == "" {
		cfg.Dir = "resources/views"
	}
	if cfg.Extension == "" {
		cfg.Extension = "edge"
	}
	cfg.Extension = strings.TrimPrefix(cfg.Extension, ".")

	name := strings.ReplaceAll(cfg.Name, "/", ".")
	sub, base, err := splitName(name, ".")
	if err != nil {
		return nil, err
	}

	dirPath := filepath.Join(cfg.Dir, filepath.FromSlash(strings.ReplaceAll(sub, ".", "/")))
	filePath := filepath.Join(dirPath, base+"."+cfg.Extension)
	data := viewTemplateData{Title: toTitle(strings.NewReplacer("_", " ", "-", " ").Replace(base)), Layout: cfg.Layout}
	if err := createFile(dirPath, filePath, viewTemplate, data); err != nil {
		return nil, err
	}

	return &Result{Files: []string{filePath}, Reference: name}, nil
}

// GeneratePage generates an Inertia page component.
func GeneratePage(cfg PageConfig) (*Result, error) {
	if cfg.Dir == "" {
		cfg.Dir = "inertia/pages"
	}
	if cfg.Extension == "" {
		cfg.Extension = "tsx"
	}
	cfg.Extension = strings.TrimPrefix(cfg.Extension, ".")

	tmpl, ok := pageTemplates[cfg.Extension]
	if !ok {
		return nil, fmt.Errorf("unknown page extension: %s (available: vue, tsx, jsx, svelte)", cfg.Extension)
	}

	sub, base, err := splitName(cfg.Name, "/")
	if err != nil {
		return nil, err
	}

	dirPath := filepath.Join(cfg.Dir, filepath.FromSlash(sub))
	filePath := filepath.Join(dirPath, base+"."+cfg.Extension)
	data := pageTemplateData{
		Component: links.ToPascalCase(links.ToSnakeCase(base)),
		Title:     toTitle(strings.NewReplacer("_", " ", "-", " ").Replace(links.ToSnakeCase(base))),
	}
	if err := createFile(dirPath, filePath, tmpl, data); err != nil {
		return nil, err
	}

	ref := base
	if sub != "" {
		ref = sub + "/" + base
	}
	return &Result{Files: []string{filePath}, Reference: ref}, nil
}

// splitName splits name on sep into a validated sub-path (joined with sep)
// and a final segment.
func splitName(name, sep string) (string, string, error) {
	name = strings.Trim(strings.TrimSpace(name), sep)
	if name == "" {
		return "", "", errors.New("name is required")
	}
	parts := strings.Split(name, sep)
	for _, p := range parts {
		if !segmentRe.MatchString(p) {
			return "", "", fmt.Errorf("invalid name segment %q in %q", p, name)
		}
	}
	return strings.Join(parts[:len(parts)-1], sep), parts[len(parts)-1], nil
}

func createFile(dirPath, filePath, tmplContent string, data any) error {
	if _, err := os.Stat(filePath); err == nil {
		return fmt.Errorf("%w: %s", ErrExists, filePath)
	}
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return executeTemplate(filePath, tmplContent, data)
}

func executeTemplate(filePath, tmplContent string, data any) error {
	tmpl, err := template.New(filepath.Base(filePath)).Parse(tmplContent)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	f, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := tmpl.Execute(f, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return nil
}

// toTitle converts a string to title case (first letter of each word capitalized)
func toTitle(s string) string {
	if s == "" {
		return ""
	}
	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(string(word[0])) + strings.ToLower(word[1:])
		}
	}
	return strings.Join(words, " ")
}
