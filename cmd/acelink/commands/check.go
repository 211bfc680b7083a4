package commands

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/acelink/pkg/project"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report references that resolve to nothing",
	Long: `Resolve the references in every source file of the project and report
the broken ones. Exits with status 1 when any reference is broken or a
search failed, so it can run in CI.

Controller methods that no route calls are not reported.

Examples:
  acelink check
  acelink check --json
  acelink check --root ../my-app`,
	Run: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) {
	cyan := color.New(color.FgCyan).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	p := openProject()
	report, err := p.Check(cmd.Context())
	if err != nil {
		fail(err)
	}

	if jsonOutput {
		printJSON(JSONResponse{Success: report.OK(), Data: CheckOutput{OK: report.OK(), Report: report}})
		if !report.OK() {
			os.Exit(1)
		}
		return
	}

	fmt.Printf("\n  %s Check\n\n", cyan("acelink"))
	for _, fl := range report.Broken {
		fmt.Printf("  %s %s %s %s\n", red("✗"), location(fl), dim(fl.Kind), fl.Capture)
	}
	for _, fl := range report.Failures {
		fmt.Printf("  %s %s %s %s: %s\n", yellow("!"), location(fl), dim(fl.Kind), fl.Capture, fl.Error)
	}
	for _, c := range report.Conflicts {
		fmt.Printf("  %s %s\n", yellow("Conflict:"), c.Message)
	}
	for _, w := range report.Warnings {
		fmt.Printf("  %s %s\n", yellow("Warning:"), formatWarning(w))
	}
	if len(report.Broken)+len(report.Failures)+len(report.Conflicts)+len(report.Warnings) > 0 {
		fmt.Println()
	}

	summary := fmt.Sprintf("%d files, %d references, %d resolved, %d broken",
		report.Files, report.Links, report.Resolved, len(report.Broken))
	if !report.OK() {
		fmt.Printf("  %s %s\n\n", red("✗"), summary)
		os.Exit(1)
	}
	fmt.Printf("  %s %s\n\n", green("✓"), summary)
}

// location renders a one-based file:line:column for a reported link.
func location(fl project.FileLink) string {
	if !fl.Position.Valid() {
		return fl.File
	}
	return fmt.Sprintf("%s:%d:%d", fl.File, fl.Position.Line+1, fl.Position.ColumnStart+1)
}
