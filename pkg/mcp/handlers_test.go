package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

// Helper to create a CallToolRequest with arguments
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

// newProject writes files into a temp project and returns its root.
func newProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", rel, err)
		}
	}
	return root
}

func TestHandleFindLinks(t *testing.T) {
	root := newProject(t, map[string]string{
		"start/routes.ts":                     "Route.get('/users', 'UsersController.index')\nRoute.get('/x', 'GoneController.index')\n",
		"app/controllers/users_controller.ts": "export default class UsersController {}\n",
	})
	server := NewServer(root)

	result, err := server.handleFindLinks(context.Background(), makeRequest(map[string]any{
		"path": "start/routes.ts",
	}))
	if err != nil {
		t.Fatalf("handleFindLinks failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", getResultText(result))
	}

	content := getResultText(result)
	if !strings.Contains(content, `"total": 2`) {
		t.Errorf("Expected total: 2 in result, got: %s", content)
	}
	if !strings.Contains(content, `"unresolved": 1`) {
		t.Errorf("Expected unresolved: 1 in result, got: %s", content)
	}
	if !strings.Contains(content, "users_controller.ts") {
		t.Errorf("Expected controller path in result, got: %s", content)
	}
}

func TestHandleFindLinks_MissingPath(t *testing.T) {
	server := NewServer(t.TempDir())

	result, err := server.handleFindLinks(context.Background(), makeRequest(map[string]any{}))
	if err != nil {
		t.Fatalf("handleFindLinks failed: %v", err)
	}
	if !result.IsError {
		t.Error("Expected IsError to be true for missing path")
	}
}

func TestHandleFindLinks_MissingFile(t *testing.T) {
	server := NewServer(t.TempDir())

	result, err := server.handleFindLinks(context.Background(), makeRequest(map[string]any{
		"path": "start/routes.ts",
	}))
	if err != nil {
		t.Fatalf("handleFindLinks failed: %v", err)
	}
	if !result.IsError {
		t.Error("Expected IsError to be true for a missing file")
	}
}

func TestHandleFindLinks_OutsideRoot(t *testing.T) {
	outside := newProject(t, map[string]string{"secret.ts": "view.render('top.secret.value')\n"})
	server := NewServer(newProject(t, nil))

	result, err := server.handleFindLinks(context.Background(), makeRequest(map[string]any{
		"path": filepath.Join(outside, "secret.ts"),
	}))
	if err != nil {
		t.Fatalf("handleFindLinks failed: %v", err)
	}
	if !result.IsError {
		t.Fatal("Expected IsError to be true for a file outside the root")
	}
	content := getResultText(result)
	if !strings.Contains(content, "outside the project root") {
		t.Errorf("Expected outside-root error, got: %s", content)
	}
	if strings.Contains(content, "top.secret.value") {
		t.Errorf("Result leaks file contents: %s", content)
	}
}

func TestHandleListRoutes_EmptyProject(t *testing.T) {
	server := NewServer(t.TempDir())

	result, err := server.handleListRoutes(context.Background(), makeRequest(map[string]any{}))
	if err != nil {
		t.Fatalf("handleListRoutes failed: %v", err)
	}

	content := getResultText(result)
	if !strings.Contains(content, `"total": 0`) {
		t.Errorf("Expected total: 0 in result, got: %s", content)
	}
}

func TestHandleListRoutes_WithRoutes(t *testing.T) {
	root := newProject(t, map[string]string{
		"start/routes.ts": "Route.get('/health', 'HealthController.show')\n",
	})
	server := NewServer(root)

	result, err := server.handleListRoutes(context.Background(), makeRequest(map[string]any{}))
	if err != nil {
		t.Fatalf("handleListRoutes failed: %v", err)
	}

	content := getResultText(result)
	if !strings.Contains(content, `"total": 1`) {
		t.Errorf("Expected total: 1 in result, got: %s", content)
	}
	if !strings.Contains(content, "/health") {
		t.Errorf("Expected /health in result, got: %s", content)
	}
}

func TestHandleResolveReference(t *testing.T) {
	root := newProject(t, map[string]string{
		"resources/views/users/show.edge": "",
	})
	server := NewServer(root)

	tests := []struct {
		name      string
		args      map[string]any
		wantError bool
		wantFound bool
	}{
		{"found", map[string]any{"kind": "view", "reference": "users.show"}, false, true},
		{"not found", map[string]any{"kind": "view", "reference": "users.edit"}, false, false},
		{"unknown kind", map[string]any{"kind": "bogus", "reference": "x"}, true, false},
		{"missing reference", map[string]any{"kind": "view"}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := server.handleResolveReference(context.Background(), makeRequest(tt.args))
			if err != nil {
				t.Fatalf("handleResolveReference failed: %v", err)
			}
			if result.IsError != tt.wantError {
				t.Fatalf("IsError = %v, want %v: %s", result.IsError, tt.wantError, getResultText(result))
			}
			if tt.wantError {
				return
			}

			var out struct {
				Found bool `json:"found"`
			}
			if err := json.Unmarshal([]byte(getResultText(result)), &out); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if out.Found != tt.wantFound {
				t.Errorf("found = %v, want %v", out.Found, tt.wantFound)
			}
		})
	}
}

func TestHandleCheckProject(t *testing.T) {
	root := newProject(t, map[string]string{
		"start/routes.ts": "Route.get('/users', 'UsersController.index')\n",
	})
	server := NewServer(root)

	result, err := server.handleCheckProject(context.Background(), makeRequest(map[string]any{}))
	if err != nil {
		t.Fatalf("handleCheckProject failed: %v", err)
	}

	content := getResultText(result)
	if !strings.Contains(content, `"ok": false`) {
		t.Errorf("Expected ok: false in result, got: %s", content)
	}
	if !strings.Contains(content, "UsersController.index") {
		t.Errorf("Expected the broken handler in result, got: %s", content)
	}
}

func TestHandleInfo(t *testing.T) {
	root := newProject(t, map[string]string{
		"acelink.yaml": "views_directory: views\n",
	})
	server := NewServer(root)

	result, err := server.handleInfo(context.Background(), makeRequest(map[string]any{}))
	if err != nil {
		t.Fatalf("handleInfo failed: %v", err)
	}

	content := getResultText(result)
	if !strings.Contains(content, `"has_config": true`) {
		t.Errorf("Expected has_config: true in result, got: %s", content)
	}
	if !strings.Contains(content, `"views_directory": "views"`) {
		t.Errorf("Expected configured views directory in result, got: %s", content)
	}
}

func TestHandleGenerateController(t *testing.T) {
	root := t.TempDir()
	server := NewServer(root)

	result, err := server.handleGenerateController(context.Background(), makeRequest(map[string]any{
		"name":    "users",
		"actions": "index, show",
	}))
	if err != nil {
		t.Fatalf("handleGenerateController failed: %v", err)
	}

	file := filepath.Join(root, "app", "controllers", "users_controller.ts")
	if _, err := os.Stat(file); os.IsNotExist(err) {
		t.Errorf("Expected controller file to be created at %s", file)
	}

	content := getResultText(result)
	if !strings.Contains(content, `"success": true`) {
		t.Errorf("Expected success in result, got: %s", content)
	}
	if !strings.Contains(content, `"reference": "UsersController"`) {
		t.Errorf("Expected reference in result, got: %s", content)
	}
	if !strings.Contains(content, "app/controllers/users_controller.ts") {
		t.Errorf("Expected relative file in result, got: %s", content)
	}
}

func TestHandleGenerateController_MissingName(t *testing.T) {
	server := NewServer(t.TempDir())

	result, err := server.handleGenerateController(context.Background(), makeRequest(map[string]any{}))
	if err != nil {
		t.Fatalf("handleGenerateController failed: %v", err)
	}
	if !result.IsError {
		t.Error("Expected IsError to be true for missing name")
	}
}

func TestHandleGenerateView(t *testing.T) {
	root := t.TempDir()
	server := NewServer(root)

	result, err := server.handleGenerateView(context.Background(), makeRequest(map[string]any{
		"name":   "admin.dashboard",
		"layout": "layouts.main",
	}))
	if err != nil {
		t.Fatalf("handleGenerateView failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(root, "resources", "views", "admin", "dashboard.edge")); err != nil {
		t.Errorf("Expected view file: %v", err)
	}
	if content := getResultText(result); !strings.Contains(content, `"success": true`) {
		t.Errorf("Expected success in result, got: %s", content)
	}

	// Second call must not overwrite
	result, _ = server.handleGenerateView(context.Background(), makeRequest(map[string]any{"name": "admin.dashboard"}))
	if !result.IsError {
		t.Error("Expected IsError when the view already exists")
	}
}

func TestHandleGeneratePage(t *testing.T) {
	root := t.TempDir()
	server := NewServer(root)

	result, err := server.handleGeneratePage(context.Background(), makeRequest(map[string]any{
		"name": "Users/Show",
	}))
	if err != nil {
		t.Fatalf("handleGeneratePage failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", getResultText(result))
	}

	// The first configured page extension is vue
	if _, err := os.Stat(filepath.Join(root, "inertia", "pages", "Users", "Show.vue")); err != nil {
		t.Errorf("Expected page file: %v", err)
	}
}

// Helper to extract text from CallToolResult
func getResultText(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}

	for _, c := range result.Content {
		data, _ := json.Marshal(c)
		var textContent struct {
			Type string `json:"type"`
			Text string `json:"text"`
		}
		if err := json.Unmarshal(data, &textContent); err == nil && textContent.Type == "text" {
			return textContent.Text
		}
	}

	return ""
}
