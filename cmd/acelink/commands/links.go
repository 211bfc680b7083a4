package commands

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/acelink/pkg/links"
	"github.com/abdul-hamid-achik/acelink/pkg/project"
)

var linksCmd = &cobra.Command{
	Use:   "links <file>",
	Short: "Show the references in a file and where they point",
	Long: `Run every reference kind that applies to a file and print each match with
its position and resolved target. Positions are printed one-based.

Examples:
  acelink links start/routes.ts
  acelink links app/controllers/users_controller.ts --json
  acelink links resources/views/home.edge --broken`,
	Args: cobra.ExactArgs(1),
	Run:  runLinks,
}

var (
	linksBroken bool
	linksKind   string
)

func init() {
	rootCmd.AddCommand(linksCmd)

	linksCmd.Flags().BoolVar(&linksBroken, "broken", false, "Only show references that resolve to nothing")
	linksCmd.Flags().StringVarP(&linksKind, "kind", "k", "", "Only run one reference kind")
}

func runLinks(cmd *cobra.Command, args []string) {
	cyan := color.New(color.FgCyan).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	p := openProject()
	file := p.Rel(args[0])

	found, err := fileLinks(cmd.Context(), p, file, linksKind)
	if err != nil {
		fail(err)
	}
	if linksBroken {
		found = links.UnresolvedLinks(found)
	}

	resolved, broken := countLinks(found)
	if jsonOutput {
		if found == nil {
			found = []links.Link{}
		}
		printSuccess(LinksOutput{
			File:     file,
			Links:    found,
			Total:    len(found),
			Resolved: resolved,
			Broken:   broken,
		})
		return
	}

	fmt.Printf("\n  %s Links\n\n", cyan("acelink"))
	fmt.Printf("  %s %s\n\n", file, dim(fmt.Sprintf("(%d links, %d broken)", len(found), broken)))
	if len(found) == 0 {
		fmt.Printf("  %s\n\n", dim("No references found"))
		return
	}
	printLinkTable(p, found)
	fmt.Println()
}

// fileLinks returns the links of file, restricted to one kind when kind is set.
func fileLinks(ctx context.Context, p *project.Project, file, kind string) ([]links.Link, error) {
	if kind == "" {
		return p.Links(ctx, file)
	}
	k, ok := p.Linker.Kind(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %q", links.ErrUnknownKind, kind)
	}
	all, err := p.Links(ctx, file)
	if err != nil {
		return nil, err
	}
	var kept []links.Link
	for _, l := range all {
		if l.Kind == k.Name {
			kept = append(kept, l)
		}
	}
	return kept, nil
}

func printLinkTable(p *project.Project, found []links.Link) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	fmt.Printf("  %-20s %-12s %-36s %s\n", "KIND", "POSITION", "REFERENCE", "TARGET")
	for _, l := range found {
		var target string
		switch {
		case l.Err != nil:
			target = yellow("search failed: " + l.Error)
		case l.Target.Found():
			target = green(formatTarget(p, l.Target))
			if l.Target.Ambiguous() {
				target += dim(fmt.Sprintf(" (+%d more)", len(l.Target.Candidates)-1))
			}
		case l.Kind == links.KindControllerRoute:
			target = dim("no route")
		default:
			target = red("not found")
		}
		fmt.Printf("  %-20s %-12s %-36s %s\n", l.Kind, l.Position.String(), l.Capture, target)
	}
}
