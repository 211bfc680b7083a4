package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/abdul-hamid-achik/acelink/internal/version"
)

func TestNewServer_Identity(t *testing.T) {
	server := NewServer(t.TempDir())

	req := json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"0"}}}`)
	resp := server.mcpServer.HandleMessage(context.Background(), req)

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	var got struct {
		Result struct {
			ServerInfo struct {
				Name    string `json:"name"`
				Version string `json:"version"`
			} `json:"serverInfo"`
		} `json:"result"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}

	if got.Result.ServerInfo.Name != "acelink" {
		t.Errorf("server name = %q, want %q", got.Result.ServerInfo.Name, "acelink")
	}
	if got.Result.ServerInfo.Version != version.GetVersion() {
		t.Errorf("server version = %q, want %q", got.Result.ServerInfo.Version, version.GetVersion())
	}
}

func TestNewServer_RegistersTools(t *testing.T) {
	tmpDir := t.TempDir()
	server := NewServer(tmpDir)

	if server == nil {
		t.Fatal("NewServer returned nil")
	}

	tools := server.mcpServer.ListTools()
	for _, name := range []string{
		"find_links", "list_routes", "resolve_reference", "check_project",
		"project_info", "generate_controller", "generate_view", "generate_page",
	} {
		if _, ok := tools[name]; !ok {
			t.Errorf("tool %q not registered", name)
		}
	}
}

func TestServer_OpenEmptyWorkdir(t *testing.T) {
	t.Chdir(t.TempDir())

	p, err := NewServer("").open()
	if err != nil {
		t.Fatalf("open() error = %v", err)
	}
	if p == nil {
		t.Fatal("open() returned nil project")
	}
}
