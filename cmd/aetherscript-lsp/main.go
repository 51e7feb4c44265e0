// Command aetherscript-lsp is the AetherScript language server and
// diagnostics CLI. Run without a subcommand, it speaks LSP over
// stdio; the "check" subcommand runs the pipeline once over a file
// and prints diagnostics without starting a server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set at build time via -ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "aetherscript-lsp",
		Short: "AetherScript language server and diagnostics CLI",
		Long: `aetherscript-lsp is the Language Server Protocol implementation for
AetherScript. Run with no subcommand to serve LSP over stdio; your
editor typically launches it this way automatically.`,
		RunE: runServe,
	}

	rootCmd.PersistentFlags().String("log-file", "", "path to a log file (defaults to stderr)")
	rootCmd.PersistentFlags().String("log-level", "INFO", "log level: DEBUG|INFO|WARNING|ERROR|CRITICAL")

	rootCmd.AddCommand(newCheckCommand())
	rootCmd.AddCommand(newVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
