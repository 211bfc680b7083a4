package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/acelink/pkg/openapi"
)

var openapiCmd = &cobra.Command{
	Use:   "openapi",
	Short: "Generate an OpenAPI specification from the routes",
	Long: `Generate an OpenAPI 3.1 document from the project's route registrations.
Every route becomes an operation tagged by its first path segment.

Examples:
  acelink openapi
  acelink openapi -f yaml -o openapi.yaml
  acelink openapi --title "My API" --server http://localhost:3333
  acelink openapi --openapi30`,
	Run: runOpenAPI,
}

// Flags
var (
	openapiOutput    string
	openapiFormat    string
	openapiTitle     string
	openapiVersion   string
	openapiDesc      string
	openapiServerURL string
	openapiOpenAPI30 bool
)

func init() {
	rootCmd.AddCommand(openapiCmd)

	openapiCmd.Flags().StringVarP(&openapiOutput, "output", "o", "openapi.json", "Output file path")
	openapiCmd.Flags().StringVarP(&openapiFormat, "format", "f", "json", "Output format (json|yaml)")
	openapiCmd.Flags().StringVar(&openapiTitle, "title", "", "API title (defaults to the package.json name)")
	openapiCmd.Flags().StringVar(&openapiVersion, "version", "1.0.0", "API version")
	openapiCmd.Flags().StringVar(&openapiDesc, "description", "", "API description")
	openapiCmd.Flags().StringVar(&openapiServerURL, "server", "", "Server URL (e.g., http://localhost:3333)")
	openapiCmd.Flags().BoolVar(&openapiOpenAPI30, "openapi30", false, "Use OpenAPI 3.0.3 instead of 3.1.0")
}

func runOpenAPI(cmd *cobra.Command, args []string) {
	cyan := color.New(color.FgCyan).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	if !jsonOutput {
		fmt.Printf("\n  %s OpenAPI Generator\n\n", cyan("acelink"))
	}

	p := openProject()

	title := openapiTitle
	if title == "" {
		title = projectName(p.Root)
	}

	config := openapi.Config{
		Title:       title,
		Version:     openapiVersion,
		Description: openapiDesc,
	}
	if openapiOpenAPI30 {
		config.OpenAPIVersion = "3.0.3"
	}
	if openapiServerURL != "" {
		config.Servers = []openapi.Server{{URL: openapiServerURL}}
	}

	if !jsonOutput {
		fmt.Printf("  → Scanning routes...\n")
	}

	gen := openapi.NewGenerator(p.Scanner, config)
	doc, err := gen.Generate(cmd.Context())
	if err != nil {
		fail(err)
	}

	if !jsonOutput {
		fmt.Printf("  %s Found %d paths\n", green("✓"), doc.Paths.Len())
		fmt.Printf("  → Generating OpenAPI spec...\n")
	}

	if err := gen.WriteToFile(cmd.Context(), openapiOutput, openapiFormat); err != nil {
		fail(fmt.Errorf("failed to generate spec: %w", err))
	}

	var size int64
	if info, err := os.Stat(openapiOutput); err == nil {
		size = info.Size()
	}

	if jsonOutput {
		printSuccess(OpenAPIOutput{
			Output:  openapiOutput,
			Format:  openapiFormat,
			Version: doc.OpenAPI,
			Paths:   doc.Paths.Len(),
			Size:    size,
		})
		return
	}

	fmt.Printf("  %s Spec generated\n\n", green("✓"))
	fmt.Printf("  Output:  %s\n", green(openapiOutput))
	fmt.Printf("  Format:  OpenAPI %s (%s)\n", doc.OpenAPI, openapiFormat)
	fmt.Printf("  Paths:   %d\n", doc.Paths.Len())
	fmt.Printf("  Size:    %s\n\n", dim(formatBytes(size)))
}

// projectName reads the package name from package.json under root, dropping
// any npm scope. It falls back to the directory name.
func projectName(root string) string {
	fallback := filepath.Base(root)

	data, err := os.ReadFile(filepath.Join(root, "package.json"))
	if err != nil {
		return fallback
	}
	var pkg struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil || pkg.Name == "" {
		return fallback
	}
	if i := strings.LastIndex(pkg.Name, "/"); i >= 0 {
		return pkg.Name[i+1:]
	}
	return pkg.Name
}
