package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wishlane/landing/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "landing",
		Short: "Wishlane landing page server",
		Long: `landing serves the Wishlane marketing page.

The page is rendered on the server from per-locale content. The newsletter
form runs live over a WebSocket when the client script is loaded and falls
back to a plain form post otherwise.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to landing.json (default ./landing.json when present)")

	rootCmd.AddCommand(
		serveCmd(&configPath),
		renderCmd(&configPath),
		contentCmd(&configPath),
		configCmd(&configPath),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		errors.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
