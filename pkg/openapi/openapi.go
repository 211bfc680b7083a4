// Package openapi exports a project's scanned routes as an OpenAPI document.
package openapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"regexp"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/abdul-hamid-achik/acelink/pkg/scanner"
)

// Config configures document generation.
type Config struct {
	// Title is the API title (default: "API").
	Title string

	// Version is the API version (default: "1.0.0").
	Version string

	// Description is the API description.
	Description string

	// Servers are the server URLs.
	Servers []Server

	// OpenAPIVersion is the OpenAPI version ("3.1.0" or "3.0.3", default: "3.1.0").
	OpenAPIVersion string
}

// Server represents a server URL.
type Server struct {
	URL         string
	Description string
}

// RouteSource supplies the routes to document.
type RouteSource interface {
	Scan(ctx context.Context) (*scanner.ScanResult, error)
}

// Generator generates OpenAPI documents from route registrations.
type Generator struct {
	source RouteSource
	config Config
}

// anyMethods are the operations an ANY route is documented under.
var anyMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete}

var versionSegmentRe = regexp.MustCompile(`^v\d+$`)

// NewGenerator creates a generator over source.
func NewGenerator(source RouteSource, config Config) *Generator {
	if config.Version == "" {
		config.Version = "1.0.0"
	}
	if config.OpenAPIVersion == "" {
		config.OpenAPIVersion = "3.1.0"
	}
	if config.Title == "" {
		config.Title = "API"
	}
	return &Generator{source: source, config: config}
}

// Generate scans the routes and builds the document.
func (g *Generator) Generate(ctx context.Context) (*openapi3.T, error) {
	result, err := g.source.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan routes: %w", err)
	}
	return g.Build(result.Routes), nil
}

// Build creates a document from routes. Later registrations of the same
// method and path are ignored, matching the router's first-wins behavior.
func (g *Generator) Build(routes []scanner.Route) *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: g.config.OpenAPIVersion,
		Info: &openapi3.Info{
			Title:       g.config.Title,
			Version:     g.config.Version,
			Description: g.config.Description,
		},
		Paths: openapi3.NewPaths(),
	}

	if len(g.config.Servers) > 0 {
		doc.Servers = make(openapi3.Servers, 0, len(g.config.Servers))
		for _, srv := range g.config.Servers {
			doc.Servers = append(doc.Servers, &openapi3.Server{
				URL:         srv.URL,
				Description: srv.Description,
			})
		}
	}

	for _, route := range routes {
		pattern := ConvertPattern(route.Pattern)
		item := doc.Paths.Value(pattern)
		if item == nil {
			item = &openapi3.PathItem{}
			doc.Paths.Set(pattern, item)
		}

		methods := []string{route.Method}
		if route.Method == "ANY" {
			methods = anyMethods
		}
		for _, method := range methods {
			if item.GetOperation(method) != nil {
				continue
			}
			item.SetOperation(method, buildOperation(route, method))
		}
	}

	return doc
}

// GenerateJSON returns the document as indented JSON.
func (g *Generator) GenerateJSON(ctx context.Context) ([]byte, error) {
	doc, err := g.Generate(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(doc, "", "  ")
}

// GenerateYAML returns the document as YAML.
func (g *Generator) GenerateYAML(ctx context.Context) ([]byte, error) {
	doc, err := g.Generate(ctx)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(doc)
}

// WriteToFile writes the document to path in the given format.
func (g *Generator) WriteToFile(ctx context.Context, path, format string) error {
	var data []byte
	var err error

	switch strings.ToLower(format) {
	case "yaml", "yml":
		data, err = g.GenerateYAML(ctx)
	case "json":
		data, err = g.GenerateJSON(ctx)
	default:
		return fmt.Errorf("unsupported format: %s (use json or yaml)", format)
	}

	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ConvertPattern rewrites a router pattern in OpenAPI path syntax:
// "/users/:id" -> "/users/{id}", "/files/*" -> "/files/{wildcard}".
func ConvertPattern(pattern string) string {
	segments := strings.Split(pattern, "/")
	for i, seg := range segments {
		switch {
		case strings.HasPrefix(seg, ":"):
			segments[i] = "{" + strings.TrimSuffix(seg[1:], "?") + "}"
		case seg == "*":
			segments[i] = "{wildcard}"
		}
	}
	return strings.Join(segments, "/")
}

// DeriveTag returns the first static segment of pattern, skipping an "api"
// prefix and version segments.
func DeriveTag(pattern string) string {
	for _, seg := range strings.Split(pattern, "/") {
		if seg == "" || seg == "api" || versionSegmentRe.MatchString(seg) {
			continue
		}
		if strings.HasPrefix(seg, ":") || seg == "*" {
			continue
		}
		return seg
	}
	return "default"
}

func buildOperation(route scanner.Route, method string) *openapi3.Operation {
	op := &openapi3.Operation{
		Summary:   route.Handler,
		Tags:      []string{DeriveTag(route.Pattern)},
		Responses: openapi3.NewResponses(),
	}
	if route.Handler == "" {
		op.Summary = "Inline handler"
	}
	op.Description = fmt.Sprintf("Registered in %s:%d", route.File, route.Line+1)

	params := buildParameters(route.Pattern)
	if len(params) > 0 {
		op.Parameters = params
	}

	op.Responses.Set("200", &openapi3.ResponseRef{
		Value: &openapi3.Response{
			Description: openapi3.Ptr("Success"),
		},
	})

	hasBody := method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch
	if hasBody {
		op.Responses.Set("400", &openapi3.ResponseRef{
			Value: &openapi3.Response{
				Description: openapi3.Ptr("Bad Request"),
			},
		})
		op.RequestBody = &openapi3.RequestBodyRef{
			Value: &openapi3.RequestBody{
				Description: "Request body",
				Required:    true,
				Content: openapi3.NewContentWithJSONSchema(&openapi3.Schema{
					Type: &openapi3.Types{"object"},
				}),
			},
		}
	}

	if len(params) > 0 && method != http.MethodPost {
		op.Responses.Set("404", &openapi3.ResponseRef{
			Value: &openapi3.Response{
				Description: openapi3.Ptr("Not Found"),
			},
		})
	}

	return op
}

func buildParameters(pattern string) openapi3.Parameters {
	var params openapi3.Parameters
	for _, name := range scanner.Params(pattern) {
		params = append(params, &openapi3.ParameterRef{Value: &openapi3.Parameter{
			Name:        name,
			In:          "path",
			Required:    true,
			Description: fmt.Sprintf("%s parameter", name),
			Schema: &openapi3.SchemaRef{
				Value: &openapi3.Schema{
					Type: &openapi3.Types{"string"},
				},
			},
		}})
	}
	return params
}
