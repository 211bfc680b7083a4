package generator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abdul-hamid-achik/acelink/pkg/links"
)

func TestGenerateController(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		actions     []string
		wantFile    string
		wantClass   string
		wantRef     string
		wantMethods []string
	}{
		{
			name:        "simple name",
			input:       "users",
			actions:     []string{"index", "show"},
			wantFile:    "users_controller.ts",
			wantClass:   "UsersController",
			wantRef:     "UsersController",
			wantMethods: []string{"index", "show"},
		},
		{
			name:        "class name",
			input:       "UsersController",
			actions:     []string{"index"},
			wantFile:    "users_controller.ts",
			wantClass:   "UsersController",
			wantRef:     "UsersController",
			wantMethods: []string{"index"},
		},
		{
			name:        "snake case",
			input:       "user_profiles",
			actions:     []string{"show"},
			wantFile:    "user_profiles_controller.ts",
			wantClass:   "UserProfilesController",
			wantRef:     "UserProfilesController",
			wantMethods: []string{"show"},
		},
		{
			name:        "sub directory",
			input:       "admin/Posts",
			actions:     []string{"store"},
			wantFile:    "admin/posts_controller.ts",
			wantClass:   "PostsController",
			wantRef:     "admin/PostsController",
			wantMethods: []string{"store"},
		},
		{
			name:        "resourceful by default",
			input:       "photos",
			wantFile:    "photos_controller.ts",
			wantClass:   "PhotosController",
			wantRef:     "PhotosController",
			wantMethods: []string{"index", "create", "store", "show", "edit", "update", "destroy"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "app", "controllers")

			result, err := GenerateController(ControllerConfig{
				Name:    tt.input,
				Actions: tt.actions,
				Dir:     dir,
			})
			if err != nil {
				t.Fatalf("GenerateController() error = %v", err)
			}

			expectedPath := filepath.Join(dir, filepath.FromSlash(tt.wantFile))
			if len(result.Files) != 1 || result.Files[0] != expectedPath {
				t.Errorf("Files = %v, want [%s]", result.Files, expectedPath)
			}
			if result.Reference != tt.wantRef {
				t.Errorf("Reference = %v, want %v", result.Reference, tt.wantRef)
			}

			content, err := os.ReadFile(expectedPath)
			if err != nil {
				t.Fatalf("Failed to read file: %v", err)
			}
			if !strings.Contains(string(content), "export default class "+tt.wantClass+" {") {
				t.Errorf("Expected class %s in:\n%s", tt.wantClass, content)
			}

			// The generated methods must be recognizable as controller actions
			kind, _ := links.NewLinker(t.TempDir(), nil).Kind(links.KindControllerRoute)
			matches := links.Match(string(content), kind.Pattern)
			var got []string
			for _, m := range matches {
				got = append(got, m.Capture)
			}
			if strings.Join(got, ",") != strings.Join(tt.wantMethods, ",") {
				t.Errorf("methods = %v, want %v", got, tt.wantMethods)
			}
		})
	}
}

func TestGenerateController_Resolvable(t *testing.T) {
	root := t.TempDir()
	result, err := GenerateController(ControllerConfig{
		Name: "users",
		Dir:  filepath.Join(root, "app", "controllers"),
	})
	if err != nil {
		t.Fatalf("GenerateController() error = %v", err)
	}

	target, err := links.NewResolver(root, nil, nil).ResolveControllerClass(context.Background(), result.Reference)
	if err != nil {
		t.Fatalf("ResolveControllerClass() error = %v", err)
	}
	if filepath.ToSlash(result.Files[0]) != target.Path {
		t.Errorf("resolved %q, want %q", target.Path, result.Files[0])
	}
}

func TestGenerateController_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		actions []string
	}{
		{"empty name", "", nil},
		{"parent directory", "../users", nil},
		{"bad action", "users", []string{"not-valid"}},
		{"only suffix", "Controller", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateController(ControllerConfig{Name: tt.input, Actions: tt.actions, Dir: t.TempDir()})
			if err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestGenerateController_AlreadyExists(t *testing.T) {
	dir := t.TempDir()

	if _, err := GenerateController(ControllerConfig{Name: "users", Dir: dir}); err != nil {
		t.Fatalf("First GenerateController() error = %v", err)
	}

	_, err := GenerateController(ControllerConfig{Name: "users", Dir: dir})
	if !errors.Is(err, ErrExists) {
		t.Errorf("Expected ErrExists, got: %v", err)
	}
}

func TestGenerateView(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		layout   string
		wantFile string
		wantRef  string
		contains []string
	}{
		{
			name:     "dotted",
			input:    "users.index",
			wantFile: "users/index.edge",
			wantRef:  "users.index",
			contains: []string{"<h1>Index</h1>"},
		},
		{
			name:     "slashes",
			input:    "admin/user_settings",
			wantFile: "admin/user_settings.edge",
			wantRef:  "admin.user_settings",
			contains: []string{"<h1>User Settings</h1>"},
		},
		{
			name:     "with layout",
			input:    "home",
			layout:   "layouts.main",
			wantFile: "home.edge",
			wantRef:  "home",
			contains: []string{"@layout('layouts.main')", "@section('content')", "@end"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			result, err := GenerateView(ViewConfig{Name: tt.input, Layout: tt.layout, Dir: dir})
			if err != nil {
				t.Fatalf("GenerateView() error = %v", err)
			}

			expectedPath := filepath.Join(dir, filepath.FromSlash(tt.wantFile))
			content, err := os.ReadFile(expectedPath)
			if err != nil {
				t.Fatalf("Expected file %s: %v", expectedPath, err)
			}
			if result.Reference != tt.wantRef {
				t.Errorf("Reference = %v, want %v", result.Reference, tt.wantRef)
			}
			for _, s := range tt.contains {
				if !strings.Contains(string(content), s) {
					t.Errorf("Expected %q in:\n%s", s, content)
				}
			}
		})
	}
}

func TestGenerateView_Resolvable(t *testing.T) {
	root := t.TempDir()
	result, err := GenerateView(ViewConfig{Name: "admin.dashboard", Dir: filepath.Join(root, "resources", "views")})
	if err != nil {
		t.Fatalf("GenerateView() error = %v", err)
	}

	target, err := links.NewResolver(root, nil, nil).ResolveView(context.Background(), result.Reference)
	if err != nil {
		t.Fatalf("ResolveView() error = %v", err)
	}
	if !target.Found() {
		t.Error("Expected the generated view to resolve")
	}
}

func TestGeneratePage(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		ext       string
		wantFile  string
		wantRef   string
		wantMatch string
	}{
		{"tsx default", "Users/Show", "", "Users/Show.tsx", "Users/Show", "export default function Show()"},
		{"vue", "home", "vue", "home.vue", "home", "<template>"},
		{"svelte", "user_profile", "svelte", "user_profile.svelte", "user_profile", "<h1>User Profile</h1>"},
		{"jsx", "Posts/EditPost", "jsx", "Posts/EditPost.jsx", "Posts/EditPost", "function EditPost()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			result, err := GeneratePage(PageConfig{Name: tt.input, Dir: dir, Extension: tt.ext})
			if err != nil {
				t.Fatalf("GeneratePage() error = %v", err)
			}
			if result.Reference != tt.wantRef {
				t.Errorf("Reference = %v, want %v", result.Reference, tt.wantRef)
			}

			content, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(tt.wantFile)))
			if err != nil {
				t.Fatalf("Failed to read file: %v", err)
			}
			if !strings.Contains(string(content), tt.wantMatch) {
				t.Errorf("Expected %q in:\n%s", tt.wantMatch, content)
			}
		})
	}
}

func TestGeneratePage_UnknownExtension(t *testing.T) {
	_, err := GeneratePage(PageConfig{Name: "home", Dir: t.TempDir(), Extension: "html"})
	if err == nil {
		t.Error("Expected error for unknown extension")
	}
}

func TestToTitle(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"index", "Index"},
		{"user settings", "User Settings"},
		{"ALL CAPS", "All Caps"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := toTitle(tt.input); got != tt.want {
				t.Errorf("toTitle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
