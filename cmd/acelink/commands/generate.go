package commands

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/acelink/pkg/generator"
	"github.com/abdul-hamid-achik/acelink/pkg/project"
)

var generateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"g", "gen"},
	Short:   "Generate controllers, views and pages",
	Long: `Generate files at the paths their references resolve to, using the
project's configured directories and extensions.

Examples:
  acelink generate controller users
  acelink generate controller admin/posts --actions index,show
  acelink generate view users.index --layout layouts.main
  acelink generate page Users/Show --ext vue`,
}

var generateControllerCmd = &cobra.Command{
	Use:   "controller <name>",
	Short: "Generate a controller class",
	Long: `Generate a controller with one method per action. Without --actions the
resourceful set is generated: index, create, store, show, edit, update and
destroy.

Examples:
  acelink generate controller users
  acelink generate controller admin/UsersController --actions index`,
	Args: cobra.ExactArgs(1),
	Run:  runGenerateController,
}

var generateViewCmd = &cobra.Command{
	Use:   "view <name>",
	Short: "Generate an Edge template",
	Long: `Generate a template at the path a dotted view name resolves to.

Examples:
  acelink generate view users.index
  acelink generate view emails.welcome --layout layouts.mail`,
	Args: cobra.ExactArgs(1),
	Run:  runGenerateView,
}

var generatePageCmd = &cobra.Command{
	Use:   "page <name>",
	Short: "Generate an Inertia page component",
	Long: `Generate an Inertia page component in the pages directory.

Examples:
  acelink generate page Users/Show
  acelink generate page Dashboard --ext svelte`,
	Args: cobra.ExactArgs(1),
	Run:  runGeneratePage,
}

var (
	controllerActions []string
	viewLayout        string
	pageExt           string
)

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.AddCommand(generateControllerCmd)
	generateCmd.AddCommand(generateViewCmd)
	generateCmd.AddCommand(generatePageCmd)

	generateControllerCmd.Flags().StringSliceVarP(&controllerActions, "actions", "a", nil, "Comma-separated action names")
	generateViewCmd.Flags().StringVarP(&viewLayout, "layout", "l", "", "Layout the view extends")
	generatePageCmd.Flags().StringVar(&pageExt, "ext", "", "Page extension: vue, tsx, jsx or svelte (default: first configured)")
}

func runGenerateController(cmd *cobra.Command, args []string) {
	p := openProject()
	result, err := generator.GenerateController(generator.ControllerConfig{
		Name:      args[0],
		Actions:   controllerActions,
		Dir:       filepath.Join(p.Root, filepath.FromSlash(p.Config.ControllersDirectory)),
		Extension: p.Config.ControllerExtensions[0],
	})
	if err != nil {
		fail(err)
	}

	printGenerated(p, "controller", args[0], result, []string{
		fmt.Sprintf("Register a route: router.get('/path', '%s.index')", result.Reference),
		"Run acelink check to confirm every handler resolves",
	})
}

func runGenerateView(cmd *cobra.Command, args []string) {
	p := openProject()
	result, err := generator.GenerateView(generator.ViewConfig{
		Name:      args[0],
		Layout:    viewLayout,
		Dir:       filepath.Join(p.Root, filepath.FromSlash(p.Config.ViewsDirectory)),
		Extension: p.Config.TemplateExtension,
	})
	if err != nil {
		fail(err)
	}

	printGenerated(p, "view", args[0], result, []string{
		fmt.Sprintf("Render it: return view.render('%s')", result.Reference),
	})
}

func runGeneratePage(cmd *cobra.Command, args []string) {
	p := openProject()
	ext := pageExt
	if ext == "" {
		ext = p.Config.PageExtensions[0]
	}
	result, err := generator.GeneratePage(generator.PageConfig{
		Name:      args[0],
		Dir:       filepath.Join(p.Root, filepath.FromSlash(p.Config.PagesDirectory)),
		Extension: ext,
	})
	if err != nil {
		fail(err)
	}

	printGenerated(p, "page", args[0], result, []string{
		fmt.Sprintf("Render it: return inertia.render('%s')", result.Reference),
	})
}

func printGenerated(p *project.Project, kind, name string, result *generator.Result, nextSteps []string) {
	files := make([]string, len(result.Files))
	for i, f := range result.Files {
		files[i] = p.Rel(f)
	}

	if jsonOutput {
		printSuccess(GenerateOutput{
			Type:      kind,
			Name:      name,
			Files:     files,
			Reference: result.Reference,
		})
		return
	}

	green := color.New(color.FgGreen).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	fmt.Printf("\n  %s Generated %s %s\n\n", green("✓"), kind, result.Reference)
	for _, f := range files {
		fmt.Printf("    Created: %s\n", cyan(f))
	}
	fmt.Printf("\n  Next steps:\n")
	for i, step := range nextSteps {
		fmt.Printf("    %d. %s\n", i+1, step)
	}
	fmt.Println()
}
