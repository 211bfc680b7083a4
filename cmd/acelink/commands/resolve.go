package commands

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/fatih/color"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/acelink/pkg/links"
	"github.com/abdul-hamid-achik/acelink/pkg/project"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <kind> <reference>",
	Short: "Resolve a single reference to a file",
	Long: `Resolve one reference string the way the links command would.

Kinds:
  route-controller      UsersController.index
  resource-controller   UsersController
  controller-route      UsersController.index (finds the route registration)
  view                  users.index
  page                  Users/Show
  template-include      partials.header

Examples:
  acelink resolve view users.index
  acelink resolve route-controller Admin/UsersController.store --open
  acelink resolve page Users/Show --pick`,
	Args: cobra.ExactArgs(2),
	Run:  runResolve,
}

var (
	resolvePick bool
	resolveOpen bool
)

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().BoolVar(&resolvePick, "pick", false, "Choose interactively when several files match")
	resolveCmd.Flags().BoolVar(&resolveOpen, "open", false, "Open the target with the system default application")
}

func runResolve(cmd *cobra.Command, args []string) {
	cyan := color.New(color.FgCyan).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	kind, ref := args[0], args[1]
	p := openProject()

	target, err := p.Linker.ResolveReference(cmd.Context(), kind, ref)
	if err != nil {
		fail(err)
	}

	if resolvePick && target.Ambiguous() && !jsonOutput {
		picked, err := pickCandidate(p, target)
		if err != nil {
			fmt.Printf("  %s Cancelled\n", yellow("!"))
			return
		}
		target = picked
	}

	if jsonOutput {
		printSuccess(ResolveOutput{Kind: kind, Reference: ref, Found: target.Found(), Target: target})
		return
	}

	fmt.Printf("\n  %s Resolve\n\n", cyan("acelink"))
	fmt.Printf("  %s %s\n\n", dim(kind), ref)
	if !target.Found() {
		fmt.Printf("  %s No file matches %s\n\n", red("✗"), ref)
		return
	}

	fmt.Printf("  %s %s\n", green("✓"), formatTarget(p, target))
	if target.Ambiguous() && !resolvePick {
		for _, c := range target.Candidates[1:] {
			fmt.Printf("    %s\n", dim(p.Rel(c)))
		}
	}
	fmt.Println()

	if resolveOpen {
		if err := browser.OpenFile(target.Path); err != nil {
			fmt.Printf("  %s Could not open %s: %v\n\n", yellow("!"), p.Rel(target.Path), err)
		}
	}
}

// pickCandidate asks which of several matching files to use.
func pickCandidate(p *project.Project, target links.ResolvedTarget) (links.ResolvedTarget, error) {
	options := make([]huh.Option[string], len(target.Candidates))
	for i, c := range target.Candidates {
		options[i] = huh.NewOption(p.Rel(c), c)
	}

	choice := target.Path
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Several files match").
				Description("The first match is used when you do not choose.").
				Options(options...).
				Value(&choice),
		),
	)
	if err := form.Run(); err != nil {
		return target, err
	}
	return pickTarget(target, choice), nil
}

// pickTarget makes choice the target path. The line only applies to the
// original first match.
func pickTarget(target links.ResolvedTarget, choice string) links.ResolvedTarget {
	if choice == target.Path {
		return target
	}
	target.Path = choice
	target.Line = -1
	return target
}
