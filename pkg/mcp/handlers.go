package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/abdul-hamid-achik/acelink/pkg/generator"
	"github.com/abdul-hamid-achik/acelink/pkg/links"
	"github.com/abdul-hamid-achik/acelink/pkg/project"
)

func (s *Server) open() (*project.Project, error) {
	root := s.workdir
	if root == "" {
		root = "."
	}
	return project.Open(root, nil)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleFindLinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := req.GetString("path", "")
	if path == "" {
		return mcp.NewToolResultError("path is required"), nil
	}

	p, err := s.open()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	found, err := p.Links(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]any{
		"file":       p.Rel(path),
		"total":      len(found),
		"unresolved": len(links.UnresolvedLinks(found)),
		"links":      found,
	})
}

func (s *Server) handleListRoutes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := s.open()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := p.Scanner.Scan(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]any{
		"total":     len(result.Routes),
		"files":     result.Files,
		"routes":    result.Routes,
		"conflicts": result.Conflicts,
		"warnings":  result.Warnings,
	})
}

func (s *Server) handleResolveReference(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind := req.GetString("kind", "")
	ref := req.GetString("reference", "")
	if kind == "" || ref == "" {
		return mcp.NewToolResultError("kind and reference are required"), nil
	}

	p, err := s.open()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	target, err := p.Linker.ResolveReference(ctx, kind, ref)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]any{
		"kind":      kind,
		"reference": ref,
		"found":     target.Found(),
		"ambiguous": target.Ambiguous(),
		"target":    target,
	})
}

func (s *Server) handleCheckProject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := s.open()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	report, err := p.Check(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]any{
		"ok":     report.OK(),
		"report": report,
	})
}

func (s *Server) handleInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := s.open()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	kinds := make([]string, len(links.Kinds))
	for i, k := range links.Kinds {
		kinds[i] = k.Name
	}

	return jsonResult(map[string]any{
		"root":        p.Root,
		"has_config":  p.Config.File != "",
		"config_file": p.Config.File,
		"config":      p.Config,
		"kinds":       kinds,
	})
}

func (s *Server) handleGenerateController(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	if name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}

	p, err := s.open()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var actions []string
	if raw := req.GetString("actions", ""); raw != "" {
		for _, a := range strings.Split(raw, ",") {
			if a = strings.TrimSpace(a); a != "" {
				actions = append(actions, a)
			}
		}
	}

	result, err := generator.GenerateController(generator.ControllerConfig{
		Name:      name,
		Actions:   actions,
		Dir:       filepath.Join(p.Root, p.Config.ControllersDirectory),
		Extension: p.Config.ControllerExtensions[0],
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return generated(p, result)
}

func (s *Server) handleGenerateView(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	if name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}

	p, err := s.open()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := generator.GenerateView(generator.ViewConfig{
		Name:      name,
		Layout:    req.GetString("layout", ""),
		Dir:       filepath.Join(p.Root, p.Config.ViewsDirectory),
		Extension: p.Config.TemplateExtension,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return generated(p, result)
}

func (s *Server) handleGeneratePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	if name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}

	p, err := s.open()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := generator.GeneratePage(generator.PageConfig{
		Name:      name,
		Dir:       filepath.Join(p.Root, p.Config.PagesDirectory),
		Extension: req.GetString("extension", p.Config.PageExtensions[0]),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return generated(p, result)
}

func generated(p *project.Project, result *generator.Result) (*mcp.CallToolResult, error) {
	files := make([]string, len(result.Files))
	for i, f := range result.Files {
		files[i] = p.Rel(filepath.ToSlash(f))
	}
	return jsonResult(map[string]any{
		"success":   true,
		"files":     files,
		"reference": result.Reference,
	})
}
