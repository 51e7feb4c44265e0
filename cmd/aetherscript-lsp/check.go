package main

import (
	"fmt"
	"os"

	clidiag "github.com/aetherscript/aetherscript-lsp/internal/cli/diagnostics"
	"github.com/aetherscript/aetherscript-lsp/internal/tooling"
	"github.com/spf13/cobra"
)

func newCheckCommand() *cobra.Command {
	var format string
	var noColor bool

	cmd := &cobra.Command{
		Use:   "check FILE",
		Short: "Run the AetherScript pipeline once over a file and print diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			source, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}

			api := tooling.NewAPI()
			api.ParseFile(path, string(source))
			diags := api.GetDiagnostics(path)

			if err := clidiag.Print(os.Stdout, path, diags, format, noColor); err != nil {
				return err
			}

			for _, d := range diags {
				if d.Severity == tooling.SeverityError {
					os.Exit(1)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "pretty", "output format: pretty|json")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable ANSI color in pretty output")
	return cmd
}
