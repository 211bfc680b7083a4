package scanner

import (
	"reflect"
	"testing"
)

const routesFixture = `import Route from '@ioc:Adonis/Core/Route'

Route.get('/', 'HomeController.index')
Route.post('users', "UsersController.store")
router.get('/posts/:id', [PostsController, 'show'])
router.delete('/posts/:id', [() => import('#controllers/posts_controller'), 'destroy'])
Route.get('/health', async () => ({ ok: true }))
// Route.get('/old', 'OldController.index')
Route.any('/proxy/*', 'Admin/ProxyController.handle')
`

func TestParseRoutes(t *testing.T) {
	routes, warnings := ParseRoutes("start/routes.ts", routesFixture)
	if len(warnings) != 0 {
		t.Errorf("ParseRoutes() warnings = %v, want none", warnings)
	}

	want := []Route{
		{Method: "GET", Pattern: "/", Handler: "HomeController.index", Controller: "HomeController", Action: "index", File: "start/routes.ts", Line: 2},
		{Method: "POST", Pattern: "/users", Handler: "UsersController.store", Controller: "UsersController", Action: "store", File: "start/routes.ts", Line: 3},
		{Method: "GET", Pattern: "/posts/:id", Handler: "PostsController.show", Controller: "PostsController", Action: "show", File: "start/routes.ts", Line: 4},
		{Method: "DELETE", Pattern: "/posts/:id", Handler: "PostsController.destroy", Controller: "PostsController", Action: "destroy", File: "start/routes.ts", Line: 5},
		{Method: "GET", Pattern: "/health", File: "start/routes.ts", Line: 6},
		{Method: "ANY", Pattern: "/proxy/*", Handler: "Admin/ProxyController.handle", Controller: "Admin/ProxyController", Action: "handle", File: "start/routes.ts", Line: 8},
	}

	if len(routes) != len(want) {
		t.Fatalf("ParseRoutes() returned %d routes, want %d: %+v", len(routes), len(want), routes)
	}
	for i := range want {
		if routes[i] != want[i] {
			t.Errorf("routes[%d] = %+v, want %+v", i, routes[i], want[i])
		}
	}
}

func TestParseRoutes_UnsupportedHandler(t *testing.T) {
	routes, warnings := ParseRoutes("start/routes.ts", "router.get('/x', [UsersController])\n")
	if len(routes) != 1 {
		t.Fatalf("ParseRoutes() returned %d routes, want 1", len(routes))
	}
	if routes[0].Handler != "" {
		t.Errorf("Handler = %q, want empty", routes[0].Handler)
	}
	if len(warnings) != 1 || warnings[0].Line != 0 {
		t.Errorf("warnings = %+v, want one warning on line 0", warnings)
	}
}

func TestParseRoutes_Resources(t *testing.T) {
	text := "Route.get('/', 'HomeController.index')\n" +
		"Route.resource('photos', 'PhotosController').apiOnly()\n" +
		"router.resource('users', UsersController).only(['index'])\n"

	routes, _ := ParseRoutes("start/routes.ts", text)
	if len(routes) != 1+6+1 {
		t.Fatalf("ParseRoutes() returned %d routes, want 8", len(routes))
	}

	for _, r := range routes[1:7] {
		if !r.Resource || r.Controller != "PhotosController" || r.Line != 1 {
			t.Errorf("photos route = %+v", r)
		}
	}
	last := routes[7]
	if last.Handler != "UsersController.index" || last.Pattern != "/users" || last.Line != 2 {
		t.Errorf("users route = %+v", last)
	}
}

func TestExpandResource(t *testing.T) {
	tests := []struct {
		name  string
		chain string
		want  []string
	}{
		{"full", "", []string{
			"GET /users index", "GET /users/create create", "POST /users store", "GET /users/:id show",
			"GET /users/:id/edit edit", "PUT /users/:id update", "PATCH /users/:id update", "DELETE /users/:id destroy",
		}},
		{"api only", ".apiOnly()", []string{
			"GET /users index", "POST /users store", "GET /users/:id show",
			"PUT /users/:id update", "PATCH /users/:id update", "DELETE /users/:id destroy",
		}},
		{"only", ".only(['index', \"show\"])", []string{"GET /users index", "GET /users/:id show"}},
		{"except", ".except(['destroy'])", []string{
			"GET /users index", "GET /users/create create", "POST /users store", "GET /users/:id show",
			"GET /users/:id/edit edit", "PUT /users/:id update", "PATCH /users/:id update",
		}},
		{"chained", ".apiOnly() .except(['update'])", []string{
			"GET /users index", "POST /users store", "GET /users/:id show", "DELETE /users/:id destroy",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			routes := ExpandResource("users", "UsersController", tt.chain, "start/routes.ts", 4)
			var got []string
			for _, r := range routes {
				got = append(got, r.Method+" "+r.Pattern+" "+r.Action)
				if r.Line != 4 || r.Handler != "UsersController."+r.Action {
					t.Errorf("route = %+v", r)
				}
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExpandResource() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResourceBase(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"users", "/users"},
		{"/users/", "/users"},
		{"posts.comments", "/posts/:post_id/comments"},
		{"categories.items", "/categories/:category_id/items"},
		{"addresses.lines", "/addresses/:address_id/lines"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ResourceBase(tt.input); got != tt.want {
				t.Errorf("ResourceBase(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizePattern(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "/"},
		{"/", "/"},
		{"users", "/users"},
		{"/users/", "/users"},
		{" /a//b ", "/a/b"},
		{"/users/:id", "/users/:id"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizePattern(tt.input); got != tt.want {
				t.Errorf("NormalizePattern(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParams(t *testing.T) {
	tests := []struct {
		pattern string
		want    []string
	}{
		{"/", nil},
		{"/users/:id", []string{"id"}},
		{"/posts/:post_id/comments/:id?", []string{"post_id", "id"}},
		{"/files/*", []string{"wildcard"}},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			if got := Params(tt.pattern); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Params(%q) = %v, want %v", tt.pattern, got, tt.want)
			}
		})
	}
}
