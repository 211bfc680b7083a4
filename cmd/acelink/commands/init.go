package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/acelink/pkg/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write an acelink.yaml with the default settings",
	Long: `Write acelink.yaml at the project root. In a terminal you are asked for
the directories first; pass --yes to accept the defaults.

Examples:
  acelink init
  acelink init --yes
  acelink init --root ../my-app`,
	Run: runInit,
}

var initYes bool

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVarP(&initYes, "yes", "y", false, "Accept the defaults without prompting")
}

func runInit(cmd *cobra.Command, args []string) {
	cyan := color.New(color.FgCyan).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	root, err := filepath.Abs(projectRoot)
	if err != nil {
		fail(err)
	}
	path := filepath.Join(root, config.FileName)
	if _, err := os.Stat(path); err == nil {
		fail(fmt.Errorf("%s already exists", config.FileName))
	}

	cfg := config.Default()

	if !jsonOutput {
		fmt.Printf("\n  %s Init\n\n", cyan("acelink"))
	}

	if !initYes && !jsonOutput && isTerminal(os.Stdin.Fd()) {
		confirmed, err := promptConfig(cfg)
		if err != nil || !confirmed {
			fmt.Printf("  %s Cancelled\n", yellow("!"))
			return
		}
	}

	if err := writeConfig(path, cfg); err != nil {
		fail(err)
	}

	if jsonOutput {
		printSuccess(InitOutput{File: path})
		return
	}
	fmt.Printf("  %s Created %s\n\n", green("✓"), config.FileName)
}

// writeConfig validates cfg before writing it.
func writeConfig(path string, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	return config.Write(path, cfg)
}

func promptConfig(cfg *config.Config) (bool, error) {
	pageExts := strings.Join(cfg.PageExtensions, ",")
	confirm := true

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Controllers directory").
				Value(&cfg.ControllersDirectory).
				Validate(notEmpty),
			huh.NewInput().
				Title("Views directory").
				Description("Dotted view names resolve here").
				Value(&cfg.ViewsDirectory).
				Validate(notEmpty),
			huh.NewInput().
				Title("Inertia pages directory").
				Value(&cfg.PagesDirectory).
				Validate(notEmpty),
			huh.NewInput().
				Title("Page extensions").
				Description("Comma-separated, tried in order").
				Value(&pageExts).
				Validate(notEmpty),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Write %s?", config.FileName)).
				Affirmative("Yes").
				Negative("Cancel").
				Value(&confirm),
		),
	)

	if err := form.Run(); err != nil {
		return false, err
	}

	cfg.PageExtensions = splitList(pageExts)
	return confirm, nil
}

func notEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("cannot be empty")
	}
	return nil
}

// splitList splits a comma-separated list, trimming blanks and leading dots.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimPrefix(strings.TrimSpace(part), ".")
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
