package commands

import (
	"fmt"
	"net"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/acelink/pkg/httpapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve link resolution over HTTP",
	Long: `Start a local HTTP server that answers link queries for the project.

Endpoints:
  GET /links?file=start/routes.ts
  GET /resolve?kind=view&reference=users.index
  GET /routes
  GET /check
  GET /openapi.json
  GET /healthz

Examples:
  acelink serve
  acelink serve --addr 127.0.0.1:9000`,
	Run: runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", httpapi.DefaultAddr, "Address to listen on")
}

func runServe(cmd *cobra.Command, args []string) {
	cyan := color.New(color.FgCyan).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	p := openProject()
	srv := httpapi.New(p, newLogger())

	ln, err := net.Listen("tcp", serveAddr)
	if err != nil {
		fail(fmt.Errorf("failed to listen on %s: %w", serveAddr, err))
	}
	url := "http://" + ln.Addr().String()

	if jsonOutput {
		printSuccess(ServeOutput{Status: "listening", URL: url})
	} else {
		fmt.Printf("\n  %s Server\n\n", cyan("acelink"))
		fmt.Printf("  %s Serving %s\n", green("✓"), p.Root)
		fmt.Printf("\n  ➜ Local:   %s\n\n", cyan(url))
		fmt.Printf("  %s\n\n", dim("Press Ctrl+C to stop"))
	}

	if err := srv.Serve(cmd.Context(), ln); err != nil {
		fail(err)
	}
	if !jsonOutput {
		fmt.Println("\n  Shutting down...")
	}
}
