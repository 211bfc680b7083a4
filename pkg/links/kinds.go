package links

import (
	"context"
	"path"
	"regexp"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Kind describes one sort of reference: where it is looked for, how it is
// spelled and how it resolves.
type Kind struct {
	Name    string
	Pattern Pattern
	// Applies reports whether files at the root-relative path rel are scanned
	Applies func(l *Linker, rel string) bool
	// Skip drops matches that the pattern cannot exclude on its own
	Skip func(m SourceMatch) bool
	// Resolve finds the target of one match
	Resolve func(ctx context.Context, p *pass, m SourceMatch) (ResolvedTarget, error)
	// Metadata extracts the kind-specific payload
	Metadata func(p *pass, m SourceMatch, t ResolvedTarget) Metadata
	// NeedsRoutes loads the project's route table before resolving
	NeedsRoutes bool
}

// Reference spellings. Each has exactly one capture group.
var (
	// Route.get('/users', 'UsersController.index')
	routeHandlerPattern = MustPattern(KindRouteController,
		`(?:\bRoute|\brouter)\s*\.\s*(?:get|post|put|patch|delete|any|options|head)\s*\(\s*['"\x60][^'"\x60]*['"\x60]\s*,\s*('[^'\n]+'|"[^"\n]+")`)

	// Route.resource('users', 'UsersController')
	resourcePattern = MustPattern(KindResourceController,
		`(?:\bRoute|\brouter)\s*\.\s*resource\s*\(\s*['"][^'"]*['"]\s*,\s*('[^'\n]+'|"[^"\n]+")`)

	// async index({ view }: HttpContext) {
	methodPattern = MustPattern(KindControllerRoute,
		`(?m)^[ \t]*(?:(?:public|private|protected|static|async)\s+)*([A-Za-z_$][\w$]*)\s*\([^)]*\)\s*(?::\s*[^{;\n]+)?\{`)

	// view.render('users.index'), ctx.view.render(...), render('users.index')
	viewPattern = MustPattern(KindView,
		`(?m)(?:(?:^|[^\w$])view\s*\.\s*|(?:^|[^.\w$]))render(?:Sync)?\s*\(\s*('[^'\n]+'|"[^"\n]+")`)

	// inertia.render('Users/Show')
	pagePattern = MustPattern(KindPage,
		`\binertia\s*\.\s*render\s*\(\s*('[^'\n]+'|"[^"\n]+")`)

	// @include('partials.header'), @layout('layouts.main'), @!component('components.button')
	includePattern = MustPattern(KindTemplateInclude,
		`@!?(?:include|layout|component)\s*\(\s*('[^'\n]+'|"[^"\n]+")`)

	// .get('/users', captured from the full text of a route match
	routeCallRe = regexp.MustCompile(`\.\s*(\w+)\s*\(\s*['"\x60]([^'"\x60]*)`)
)

// notMethods are identifiers the method pattern picks up from control flow.
var notMethods = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "catch": true,
	"function": true, "return": true, "constructor": true, "with": true,
}

var scriptExtensions = []string{".ts", ".js", ".mjs", ".cjs", ".tsx", ".jsx", ".mts", ".cts"}

// Kinds lists the built-in reference kinds in the order they are run.
var Kinds = []Kind{
	{
		Name:    KindRouteController,
		Pattern: routeHandlerPattern,
		Applies: isRoutesFile,
		Resolve: func(ctx context.Context, p *pass, m SourceMatch) (ResolvedTarget, error) {
			return p.l.resolver.ResolveController(ctx, m.Capture)
		},
		Metadata: routeMetadata,
	},
	{
		Name:    KindResourceController,
		Pattern: resourcePattern,
		Applies: isRoutesFile,
		Resolve: func(ctx context.Context, p *pass, m SourceMatch) (ResolvedTarget, error) {
			return p.l.resolver.ResolveControllerClass(ctx, m.Capture)
		},
		Metadata: routeMetadata,
	},
	{
		Name:    KindControllerRoute,
		Pattern: methodPattern,
		Applies: isControllerFile,
		Skip: func(m SourceMatch) bool {
			return notMethods[m.Capture]
		},
		Resolve: func(ctx context.Context, p *pass, m SourceMatch) (ResolvedTarget, error) {
			return p.routeTarget(ClassFromFile(p.rel), m.Capture)
		},
		Metadata: func(p *pass, m SourceMatch, t ResolvedTarget) Metadata {
			class := ClassFromFile(p.rel)
			md := Metadata{Controller: class, Method: m.Capture}
			if r, ok := p.routeFor(class, m.Capture); ok {
				md.HTTPMethod = r.Method
				md.URL = r.Pattern
			}
			return md
		},
		NeedsRoutes: true,
	},
	{
		Name:    KindView,
		Pattern: viewPattern,
		Applies: isScriptFile,
		Resolve: func(ctx context.Context, p *pass, m SourceMatch) (ResolvedTarget, error) {
			return p.l.resolver.ResolveView(ctx, m.Capture)
		},
		Metadata: viewMetadata,
	},
	{
		Name:    KindPage,
		Pattern: pagePattern,
		Applies: isScriptFile,
		Resolve: func(ctx context.Context, p *pass, m SourceMatch) (ResolvedTarget, error) {
			return p.l.resolver.ResolvePage(ctx, m.Capture)
		},
		Metadata: viewMetadata,
	},
	{
		Name:    KindTemplateInclude,
		Pattern: includePattern,
		Applies: isTemplateFile,
		Resolve: func(ctx context.Context, p *pass, m SourceMatch) (ResolvedTarget, error) {
			return p.l.resolver.ResolveView(ctx, m.Capture)
		},
		Metadata: viewMetadata,
	},
}

func routeMetadata(p *pass, m SourceMatch, t ResolvedTarget) Metadata {
	var md Metadata
	switch p.kind {
	case KindRouteController:
		if ref, ok := ParseControllerRef(m.Capture); ok {
			md.Controller = ref.Class
			md.Method = ref.Method
		}
	case KindResourceController:
		if ref, ok := ParseControllerClass(m.Capture); ok {
			md.Controller = ref.Class
		}
	}
	if sub := routeCallRe.FindStringSubmatch(p.text[m.FullStart:m.FullEnd]); sub != nil {
		md.HTTPMethod = strings.ToUpper(sub[1])
		md.URL = sub[2]
	}
	return md
}

func viewMetadata(p *pass, m SourceMatch, t ResolvedTarget) Metadata {
	return Metadata{View: m.Capture}
}

func isRoutesFile(l *Linker, rel string) bool {
	for _, pattern := range l.cfg.RoutesFiles {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func isControllerFile(l *Linker, rel string) bool {
	dir := l.cfg.ControllersDirectory + "/"
	if !strings.HasPrefix(strings.ToLower(rel), strings.ToLower(dir)) {
		return false
	}
	ext := strings.TrimPrefix(path.Ext(rel), ".")
	return slices.Contains(l.cfg.ControllerExtensions, ext)
}

func isScriptFile(l *Linker, rel string) bool {
	return slices.Contains(scriptExtensions, strings.ToLower(path.Ext(rel)))
}

func isTemplateFile(l *Linker, rel string) bool {
	return strings.EqualFold(path.Ext(rel), "."+l.cfg.TemplateExtension)
}
