// Package commands provides the CLI commands for acelink.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/acelink/internal/logging"
	"github.com/abdul-hamid-achik/acelink/internal/version"
	"github.com/abdul-hamid-achik/acelink/pkg/project"
)

var rootCmd = &cobra.Command{
	Use:   "acelink",
	Short: "acelink - navigation links for AdonisJS projects",
	Long: `acelink finds framework references in an AdonisJS project and resolves
them to files: route handlers to controllers, controller methods back to
their routes, and render calls or template tags to views and pages.

Quick Start:
  acelink links start/routes.ts     Show the links in a file
  acelink resolve view users.index  Resolve a single reference
  acelink routes                    List all registered routes
  acelink check                     Report broken references
  acelink watch                     Re-resolve files as they are saved`,
	Version: version.GetVersion(),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if !isTerminal(os.Stdout.Fd()) {
			color.NoColor = true
		}
	},
}

var (
	projectRoot string
	verbose     bool
)

// Execute runs the root command.
// Interrupts cancel the command's context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for editors and LLM agents)")
	rootCmd.PersistentFlags().StringVarP(&projectRoot, "root", "r", ".", "Project root directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// newLogger writes to stderr so stdout stays clean for tables and JSON.
func newLogger() *slog.Logger {
	return logging.New(os.Stderr, logging.LevelFromFlags(verbose, jsonOutput))
}

// openProject opens the project under --root or exits with an error.
func openProject() *project.Project {
	p, err := project.Open(projectRoot, newLogger())
	if err != nil {
		fail(err)
	}
	return p
}

// fail reports err in the active output mode and exits.
func fail(err error) {
	if jsonOutput {
		printJSONError(err)
	} else {
		red := color.New(color.FgRed).SprintFunc()
		fmt.Printf("  %s %v\n\n", red("Error:"), err)
	}
	os.Exit(1)
}
