// Package scanner discovers route registrations in AdonisJS routes files.
// It reads the files matched by the configured routes globs and extracts
// Route.get('/users', 'UsersController.index') style calls with regular
// expressions; no JavaScript is parsed or executed.
package scanner

import "github.com/abdul-hamid-achik/acelink/pkg/links"

// Route is a single HTTP route registration.
type Route struct {
	// Method is the upper-case HTTP method, or ANY
	Method string `json:"method"`
	// Pattern is the URL pattern as registered (e.g., "/users/:id")
	Pattern string `json:"pattern"`
	// Handler is the controller reference ("UsersController.index"); empty for closures
	Handler string `json:"handler,omitempty"`
	// Controller is the class part of Handler, including any sub-path
	Controller string `json:"controller,omitempty"`
	// Action is the method part of Handler
	Action string `json:"action,omitempty"`
	// File is the routes file, relative to the project root
	File string `json:"file"`
	// Line is the zero-based line of the registration
	Line int `json:"line"`
	// Resource is set on routes expanded from a resource registration
	Resource bool `json:"resource,omitempty"`
}

// Ref converts r to the form the link engine consumes.
func (r Route) Ref() links.RouteRef {
	return links.RouteRef{
		Method:  r.Method,
		Pattern: r.Pattern,
		Handler: r.Handler,
		File:    r.File,
		Line:    r.Line,
	}
}

// ScanResult holds everything discovered in one scan.
type ScanResult struct {
	// Files are the routes files that were read, relative to the root
	Files []string `json:"files"`
	// Routes are sorted by file, then line
	Routes []Route `json:"routes"`
	// Warnings are non-fatal issues encountered during scanning
	Warnings []Warning `json:"warnings,omitempty"`
	// Conflicts are duplicate method and pattern registrations
	Conflicts []Conflict `json:"conflicts,omitempty"`
}

// Warning represents a non-fatal issue during scanning.
type Warning struct {
	FilePath string `json:"file"`
	Line     int    `json:"line"`
	Message  string `json:"message"`
}

// Conflict represents a route registered twice.
type Conflict struct {
	Method  string `json:"method"`
	Pattern string `json:"pattern"`
	First   Route  `json:"first"`
	Second  Route  `json:"second"`
	Message string `json:"message"`
}
