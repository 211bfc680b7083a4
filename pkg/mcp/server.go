// Package mcp exposes project link resolution to editors and agents over the
// Model Context Protocol.
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/abdul-hamid-achik/acelink/internal/version"
	"github.com/abdul-hamid-achik/acelink/pkg/links"
)

// Server serves acelink tools for the project in workdir.
type Server struct {
	workdir   string
	mcpServer *server.MCPServer
}

// NewServer creates a server for the project at workdir and registers its tools.
func NewServer(workdir string) *Server {
	s := &Server{
		workdir: workdir,
		mcpServer: server.NewMCPServer(
			"acelink",
			version.GetVersion(),
			server.WithToolCapabilities(false),
		),
	}
	s.registerTools()
	return s
}

// Serve runs the server over stdin and stdout until the client disconnects.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	kinds := make([]string, len(links.Kinds))
	for i, k := range links.Kinds {
		kinds[i] = k.Name
	}

	s.mcpServer.AddTool(mcp.NewTool("find_links",
		mcp.WithDescription("Find the framework references in a source file and the files they point to"),
		mcp.WithString("path", mcp.Required(), mcp.Description("File path, absolute or relative to the project root")),
	), s.handleFindLinks)

	s.mcpServer.AddTool(mcp.NewTool("list_routes",
		mcp.WithDescription("List the route registrations in the project's routes files"),
	), s.handleListRoutes)

	s.mcpServer.AddTool(mcp.NewTool("resolve_reference",
		mcp.WithDescription("Resolve a reference string such as 'UsersController.index' or 'users.show' to a file"),
		mcp.WithString("kind", mcp.Required(), mcp.Description("Reference kind"), mcp.Enum(kinds...)),
		mcp.WithString("reference", mcp.Required(), mcp.Description("Reference text without quotes")),
	), s.handleResolveReference)

	s.mcpServer.AddTool(mcp.NewTool("check_project",
		mcp.WithDescription("Resolve every reference in the project and report the broken ones"),
	), s.handleCheckProject)

	s.mcpServer.AddTool(mcp.NewTool("project_info",
		mcp.WithDescription("Show the project root and the configuration in effect"),
	), s.handleInfo)

	s.mcpServer.AddTool(mcp.NewTool("generate_controller",
		mcp.WithDescription("Generate a controller class"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Controller name (e.g., 'users', 'admin/posts')")),
		mcp.WithString("actions", mcp.Description("Comma-separated method names (default: resourceful set)")),
	), s.handleGenerateController)

	s.mcpServer.AddTool(mcp.NewTool("generate_view",
		mcp.WithDescription("Generate an Edge view"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Dotted view name (e.g., 'users.index')")),
		mcp.WithString("layout", mcp.Description("Layout view to extend")),
	), s.handleGenerateView)

	s.mcpServer.AddTool(mcp.NewTool("generate_page",
		mcp.WithDescription("Generate an Inertia page component"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Page name (e.g., 'Users/Show')")),
		mcp.WithString("extension", mcp.Description("vue, tsx, jsx or svelte (default: first configured page extension)")),
	), s.handleGeneratePage)
}
