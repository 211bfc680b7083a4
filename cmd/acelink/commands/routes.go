package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/acelink/pkg/scanner"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List all registered routes",
	Long: `Scan the configured routes files and list every route registration,
including the routes a resource expands to.

Examples:
  acelink routes
  acelink routes --json`,
	Run: runRoutes,
}

func init() {
	rootCmd.AddCommand(routesCmd)
}

func runRoutes(cmd *cobra.Command, args []string) {
	cyan := color.New(color.FgCyan).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	p := openProject()
	result, err := p.Scanner.Scan(cmd.Context())
	if err != nil {
		fail(err)
	}

	if jsonOutput {
		routes := result.Routes
		if routes == nil {
			routes = []scanner.Route{}
		}
		printSuccess(RoutesOutput{
			Routes:      routes,
			Conflicts:   result.Conflicts,
			Warnings:    result.Warnings,
			TotalRoutes: len(routes),
		})
		return
	}

	fmt.Printf("\n  %s Routes\n\n", cyan("acelink"))
	if len(result.Routes) == 0 {
		fmt.Printf("  %s\n\n", dim("No routes found"))
	} else {
		fmt.Printf("  %-8s %-32s %-40s %s\n", "METHOD", "PATTERN", "HANDLER", "FILE")
		for _, r := range result.Routes {
			handler := r.Handler
			if handler == "" {
				handler = "closure"
			}
			fmt.Printf("  %s %-32s %-40s %s\n",
				methodColor(r.Method)(fmt.Sprintf("%-8s", r.Method)),
				r.Pattern, handler,
				dim(fmt.Sprintf("%s:%d", r.File, r.Line+1)))
		}
		fmt.Printf("\n  %s\n\n", dim(fmt.Sprintf("%d routes", len(result.Routes))))
	}

	for _, c := range result.Conflicts {
		fmt.Printf("  %s %s\n", yellow("Conflict:"), c.Message)
	}
	for _, w := range result.Warnings {
		fmt.Printf("  %s %s\n", yellow("Warning:"), formatWarning(w))
	}
	if len(result.Conflicts)+len(result.Warnings) > 0 {
		fmt.Println()
	}
}

func methodColor(method string) func(a ...any) string {
	switch method {
	case "GET", "HEAD":
		return color.New(color.FgGreen).SprintFunc()
	case "POST":
		return color.New(color.FgYellow).SprintFunc()
	case "PUT", "PATCH":
		return color.New(color.FgBlue).SprintFunc()
	case "DELETE":
		return color.New(color.FgRed).SprintFunc()
	default:
		return color.New(color.FgMagenta).SprintFunc()
	}
}

func formatWarning(w scanner.Warning) string {
	if w.Line < 0 {
		return fmt.Sprintf("%s: %s", w.FilePath, w.Message)
	}
	return fmt.Sprintf("%s:%d: %s", w.FilePath, w.Line+1, w.Message)
}
