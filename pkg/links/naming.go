package links

import (
	"path"
	"strings"
	"unicode"
)

const controllerSuffix = "Controller"

// ControllerRef is a parsed "Class.method" handler string.
type ControllerRef struct {
	// Dir is an optional sub-path before the class (e.g. "Admin" in "Admin/UsersController")
	Dir    string
	Class  string
	Method string
}

// ParseControllerRef splits a handler reference on its last dot.
// It returns false when either side is empty.
func ParseControllerRef(ref string) (ControllerRef, bool) {
	ref = strings.TrimSpace(ref)
	i := strings.LastIndex(ref, ".")
	if i <= 0 || i == len(ref)-1 {
		return ControllerRef{}, false
	}
	dir, class := splitClassPath(ref[:i])
	if class == "" || !validSubPath(dir) {
		return ControllerRef{}, false
	}
	return ControllerRef{Dir: dir, Class: class, Method: ref[i+1:]}, true
}

// ParseControllerClass parses a class-only reference such as the handler of
// a resource route.
func ParseControllerClass(ref string) (ControllerRef, bool) {
	dir, class := splitClassPath(strings.TrimSpace(ref))
	if class == "" || strings.Contains(class, ".") || !validSubPath(dir) {
		return ControllerRef{}, false
	}
	return ControllerRef{Dir: dir, Class: class}, true
}

func splitClassPath(s string) (string, string) {
	s = strings.Trim(s, "/")
	dir, class := path.Split(s)
	return strings.TrimSuffix(dir, "/"), class
}

func validSubPath(dir string) bool {
	if dir == "" {
		return true
	}
	for _, seg := range strings.Split(dir, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return false
		}
	}
	return true
}

// ControllerStems returns the file name stems a controller class may live in,
// most specific first: the class itself, its snake and kebab forms, and the
// same three without the Controller suffix. Stems equal under case folding
// are listed once.
func ControllerStems(class string) []string {
	var stems []string
	seen := make(map[string]bool)
	add := func(s string) {
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			return
		}
		seen[key] = true
		stems = append(stems, s)
	}

	add(class)
	add(ToSnakeCase(class))
	add(ToKebabCase(class))

	if base, ok := strings.CutSuffix(class, controllerSuffix); ok && base != "" {
		add(base)
		add(ToSnakeCase(base))
		add(ToKebabCase(base))
	}
	return stems
}

// ClassFromFile derives a controller class name from a file name,
// e.g. "users_controller.ts" -> "UsersController".
func ClassFromFile(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if i := strings.Index(base, "."); i > 0 {
		base = base[:i]
	}
	if strings.ContainsAny(base, "_-") {
		return ToPascalCase(base)
	}
	// Already PascalCase (UsersController.ts); only fix the first letter
	r := []rune(base)
	if len(r) > 0 {
		r[0] = unicode.ToUpper(r[0])
	}
	return string(r)
}

// ToPascalCase converts snake, kebab or dotted names to PascalCase.
func ToPascalCase(s string) string {
	if s == "" {
		return ""
	}

	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, ".", "_")

	var result strings.Builder
	for _, part := range strings.Split(s, "_") {
		if part == "" {
			continue
		}
		r := []rune(part)
		result.WriteRune(unicode.ToUpper(r[0]))
		if len(r) > 1 {
			result.WriteString(strings.ToLower(string(r[1:])))
		}
	}
	return result.String()
}

// ToSnakeCase converts PascalCase or camelCase to snake_case.
// Acronyms stay together: "HTTPController" -> "http_controller".
func ToSnakeCase(s string) string {
	return delimit(s, '_')
}

// ToKebabCase converts PascalCase or camelCase to kebab-case.
func ToKebabCase(s string) string {
	return delimit(s, '-')
}

func delimit(s string, sep rune) string {
	r := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 4)

	for i, c := range r {
		if c == '_' || c == '-' || c == ' ' {
			b.WriteRune(sep)
			continue
		}
		if unicode.IsUpper(c) && i > 0 {
			prev := r[i-1]
			nextLower := i+1 < len(r) && unicode.IsLower(r[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteRune(sep)
			}
		}
		b.WriteRune(unicode.ToLower(c))
	}
	return b.String()
}
