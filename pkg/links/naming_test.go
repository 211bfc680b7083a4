package links

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseControllerRef(t *testing.T) {
	tests := []struct {
		in     string
		want   ControllerRef
		wantOK bool
	}{
		{"UsersController.index", ControllerRef{Class: "UsersController", Method: "index"}, true},
		{"Admin/UsersController.show", ControllerRef{Dir: "Admin", Class: "UsersController", Method: "show"}, true},
		{"Api/V1/PostsController.store", ControllerRef{Dir: "Api/V1", Class: "PostsController", Method: "store"}, true},
		{"a.b.C.method", ControllerRef{Class: "a.b.C", Method: "method"}, true},
		{"justAString", ControllerRef{}, false},
		{".index", ControllerRef{}, false},
		{"UsersController.", ControllerRef{}, false},
		{"../UsersController.index", ControllerRef{}, false},
		{"", ControllerRef{}, false},
	}

	for _, tt := range tests {
		got, ok := ParseControllerRef(tt.in)
		assert.Equal(t, tt.wantOK, ok, "ParseControllerRef(%q) ok", tt.in)
		assert.Equal(t, tt.want, got, "ParseControllerRef(%q)", tt.in)
	}
}

func TestParseControllerClass(t *testing.T) {
	ref, ok := ParseControllerClass("Admin/UsersController")
	assert.True(t, ok)
	assert.Equal(t, ControllerRef{Dir: "Admin", Class: "UsersController"}, ref)

	_, ok = ParseControllerClass("UsersController.index")
	assert.False(t, ok)

	_, ok = ParseControllerClass("")
	assert.False(t, ok)
}

func TestControllerStems(t *testing.T) {
	assert.Equal(t,
		[]string{"UsersController", "users_controller", "users-controller", "Users"},
		ControllerStems("UsersController"))

	assert.Equal(t,
		[]string{"UserProfilesController", "user_profiles_controller", "user-profiles-controller", "UserProfiles", "user_profiles", "user-profiles"},
		ControllerStems("UserProfilesController"))

	assert.Equal(t, []string{"home"}, ControllerStems("home"))
}

func TestCaseConversions(t *testing.T) {
	tests := []struct {
		in    string
		snake string
		kebab string
	}{
		{"UsersController", "users_controller", "users-controller"},
		{"HTTPController", "http_controller", "http-controller"},
		{"OAuth2Callback", "o_auth2_callback", "o-auth2-callback"},
		{"already_snake", "already_snake", "already-snake"},
		{"Users", "users", "users"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.snake, ToSnakeCase(tt.in), "ToSnakeCase(%q)", tt.in)
		assert.Equal(t, tt.kebab, ToKebabCase(tt.in), "ToKebabCase(%q)", tt.in)
	}
}

func TestClassFromFile(t *testing.T) {
	tests := map[string]string{
		"users_controller.ts":                  "UsersController",
		"app/controllers/user_profiles_controller.ts": "UserProfilesController",
		"UsersController.ts":                   "UsersController",
		"posts-controller.js":                  "PostsController",
		"app\\Controllers\\Http\\HomeController.ts": "HomeController",
	}
	for in, want := range tests {
		assert.Equal(t, want, ClassFromFile(in), "ClassFromFile(%q)", in)
	}
}

func TestToPascalCase(t *testing.T) {
	assert.Equal(t, "UsersController", ToPascalCase("users_controller"))
	assert.Equal(t, "AdminUsers", ToPascalCase("admin-users"))
	assert.Equal(t, "", ToPascalCase(""))
}
