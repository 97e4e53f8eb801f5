package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╔╗ ┬ ┬┌─┐┬ ┬
  ╠╩╗│ ││ │└┬┘
  ╚═╝└─┘└─┘ ┴
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "buoy",
		Short: "The overlay interaction engine",
		Long: `Buoy keeps floating UI afloat from the server side.

It positions popovers, tooltips, menus, and dialogs against their
triggers, tracks dismissal and focus, and streams style patches to a
thin host client over WebSocket. Features include:

  • Anchored positioning with flip, shift, size, and arrow handling
  • Light-dismiss detection for outside clicks and Escape
  • Focus trapping and roving tab order
  • Hover, click, focus, and context-menu trigger modes
  • Binary wire protocol with session resume
  • Prometheus metrics and OpenTelemetry tracing`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add commands
	rootCmd.AddCommand(
		serveCmd(),
		initCmd(),
		benchCmd(),
		playCmd(),
		versionCmd(),
	)

	// Execute
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

// printBanner prints the Buoy ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}

// errorMsg prints an error message.
func errorMsg(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "\033[31m✗\033[0m %s\n", fmt.Sprintf(format, args...))
}
