package scanner

import (
	"fmt"
	"net/http"
	"path"
	"regexp"
	"slices"
	"strings"

	"github.com/abdul-hamid-achik/acelink/pkg/links"
)

// Route registration matchers
var (
	// Route.get('/users', 'UsersController.index')
	// router.get('/users', [UsersController, 'index'])
	// router.get('/users', [() => import('#controllers/users_controller'), 'index'])
	routeCallRe = regexp.MustCompile(`(?:\bRoute|\brouter)\s*\.\s*(get|post|put|patch|delete|any|options|head)\s*\(\s*['"\x60]([^'"\x60]*)['"\x60]\s*` +
		`(?:,\s*(?:'([^'\n]*)'|"([^"\n]*)"|\[\s*(?:\(\)\s*=>\s*import\(\s*['"]([^'"]+)['"]\s*\)|([A-Za-z_$][\w$]*))\s*,\s*['"]([\w$]+)['"]\s*\]|(\S)))?`)

	// Route.resource('users', 'UsersController').apiOnly()
	resourceRe = regexp.MustCompile(`(?:\bRoute|\brouter)\s*\.\s*resource\s*\(\s*['"]([^'"]*)['"]\s*,\s*` +
		`(?:'([^'\n]*)'|"([^"\n]*)"|\(\)\s*=>\s*import\(\s*['"]([^'"]+)['"]\s*\)|([A-Za-z_$][\w$]*))\s*\)` +
		`((?:\s*\.\s*(?:apiOnly|only|except)\s*\([^)]*\))*)`)

	resourceChainRe = regexp.MustCompile(`\.\s*(apiOnly|only|except)\s*\(([^)]*)\)`)
	quotedNameRe    = regexp.MustCompile(`['"]([\w$]+)['"]`)
)

// ResourceAction is one route of a resourceful controller.
type ResourceAction struct {
	Action  string
	Methods []string
	// Suffix is appended to the collection URL
	Suffix string
}

// ResourceActions lists the routes a resource registration expands to, in
// registration order.
var ResourceActions = []ResourceAction{
	{Action: "index", Methods: []string{http.MethodGet}},
	{Action: "create", Methods: []string{http.MethodGet}, Suffix: "/create"},
	{Action: "store", Methods: []string{http.MethodPost}},
	{Action: "show", Methods: []string{http.MethodGet}, Suffix: "/:id"},
	{Action: "edit", Methods: []string{http.MethodGet}, Suffix: "/:id/edit"},
	{Action: "update", Methods: []string{http.MethodPut, http.MethodPatch}, Suffix: "/:id"},
	{Action: "destroy", Methods: []string{http.MethodDelete}, Suffix: "/:id"},
}

// ParseRoutes extracts the route registrations in text. file is recorded on
// every route and warning as given.
func ParseRoutes(file, text string) ([]Route, []Warning) {
	var routes []Route
	var warnings []Warning
	idx := links.NewLineIndex(text)

	for _, m := range routeCallRe.FindAllStringSubmatchIndex(text, -1) {
		if commented(text, m[0]) {
			continue
		}
		group := func(n int) string {
			if m[2*n] < 0 {
				return ""
			}
			return text[m[2*n]:m[2*n+1]]
		}

		route := Route{
			Method:  strings.ToUpper(group(1)),
			Pattern: NormalizePattern(group(2)),
			File:    file,
			Line:    idx.Line(m[0]),
		}
		switch {
		case m[6] >= 0:
			route.Handler = group(3)
		case m[8] >= 0:
			route.Handler = group(4)
		case m[10] >= 0:
			route.Handler = links.ClassFromFile(group(5)) + "." + group(7)
		case m[12] >= 0:
			route.Handler = group(6) + "." + group(7)
		case group(8) == "[":
			warnings = append(warnings, Warning{
				FilePath: file,
				Line:     route.Line,
				Message:  fmt.Sprintf("unsupported handler for %s %s", route.Method, route.Pattern),
			})
		}
		route.Controller, route.Action = splitHandler(route.Handler)
		routes = append(routes, route)
	}

	for _, m := range resourceRe.FindAllStringSubmatchIndex(text, -1) {
		if commented(text, m[0]) {
			continue
		}
		sub := func(n int) string {
			if m[2*n] < 0 {
				return ""
			}
			return text[m[2*n]:m[2*n+1]]
		}

		var class string
		switch {
		case m[4] >= 0:
			class = sub(2)
		case m[6] >= 0:
			class = sub(3)
		case m[8] >= 0:
			class = links.ClassFromFile(sub(4))
		default:
			class = sub(5)
		}

		name := strings.TrimSpace(sub(1))
		if name == "" {
			warnings = append(warnings, Warning{FilePath: file, Line: idx.Line(m[0]), Message: "resource without a name"})
			continue
		}
		routes = append(routes, ExpandResource(name, class, sub(6), file, idx.Line(m[0]))...)
	}

	slices.SortStableFunc(routes, func(a, b Route) int {
		return a.Line - b.Line
	})
	return routes, warnings
}

// ExpandResource returns the routes registered by a resource call. chain is
// the text of any apiOnly/only/except calls that follow it.
func ExpandResource(name, class, chain, file string, line int) []Route {
	keep := func(string) bool { return true }
	for _, c := range resourceChainRe.FindAllStringSubmatch(chain, -1) {
		names := quotedNames(c[2])
		prev := keep
		switch c[1] {
		case "apiOnly":
			keep = func(action string) bool {
				return prev(action) && action != "create" && action != "edit"
			}
		case "only":
			keep = func(action string) bool {
				return prev(action) && slices.Contains(names, action)
			}
		case "except":
			keep = func(action string) bool {
				return prev(action) && !slices.Contains(names, action)
			}
		}
	}

	base := ResourceBase(name)
	var routes []Route
	for _, ra := range ResourceActions {
		if !keep(ra.Action) {
			continue
		}
		for _, method := range ra.Methods {
			r := Route{
				Method:   method,
				Pattern:  base + ra.Suffix,
				File:     file,
				Line:     line,
				Resource: true,
			}
			if class != "" {
				r.Handler = class + "." + ra.Action
				r.Controller, r.Action = class, ra.Action
			}
			routes = append(routes, r)
		}
	}
	return routes
}

// ResourceBase converts a resource name to its collection URL. Nested
// resources are dotted: "posts.comments" -> "/posts/:post_id/comments".
func ResourceBase(name string) string {
	parts := strings.Split(strings.Trim(name, "./"), ".")
	var b strings.Builder
	for i, p := range parts {
		b.WriteString("/" + strings.Trim(p, "/"))
		if i < len(parts)-1 {
			b.WriteString("/:" + singular(p) + "_id")
		}
	}
	return NormalizePattern(b.String())
}

// NormalizePattern gives a URL pattern a single leading slash and no
// trailing slash.
func NormalizePattern(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || p == "/" {
		return "/"
	}
	return path.Clean("/" + p)
}

// Params returns the parameter names in a pattern ("/users/:id" -> ["id"]).
// Optional parameters (":id?") and wildcards ("*") are included without
// their markers.
func Params(pattern string) []string {
	var params []string
	for _, seg := range strings.Split(pattern, "/") {
		switch {
		case strings.HasPrefix(seg, ":"):
			params = append(params, strings.TrimSuffix(seg[1:], "?"))
		case seg == "*":
			params = append(params, "wildcard")
		}
	}
	return params
}

func splitHandler(handler string) (string, string) {
	if ref, ok := links.ParseControllerRef(handler); ok {
		class := ref.Class
		if ref.Dir != "" {
			class = ref.Dir + "/" + ref.Class
		}
		return class, ref.Method
	}
	return "", ""
}

// commented reports whether off sits after a // on its line.
func commented(text string, off int) bool {
	start := strings.LastIndexByte(text[:off], '\n') + 1
	return strings.Contains(text[start:off], "//")
}

func quotedNames(s string) []string {
	var names []string
	for _, m := range quotedNameRe.FindAllStringSubmatch(s, -1) {
		names = append(names, m[1])
	}
	return names
}

func singular(s string) string {
	switch {
	case strings.HasSuffix(s, "ies") && len(s) > 3:
		return s[:len(s)-3] + "y"
	case strings.HasSuffix(s, "sses"):
		return s[:len(s)-2]
	case strings.HasSuffix(s, "ss"):
		return s
	case strings.HasSuffix(s, "s") && len(s) > 1:
		return s[:len(s)-1]
	}
	return s
}
