// Package diagnostics formats tooling.Diagnostic slices for the
// aetherscript-lsp check subcommand, outside of an editor session.
package diagnostics

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/aetherscript/aetherscript-lsp/internal/tooling"
)

// Print writes diags for path to w in the given format ("pretty" or
// "json"). noColor disables ANSI output in pretty mode.
func Print(w io.Writer, path string, diags []tooling.Diagnostic, format string, noColor bool) error {
	switch format {
	case "json":
		return printJSON(w, diags)
	default:
		return printPretty(w, path, diags, noColor)
	}
}

func printPretty(w io.Writer, path string, diags []tooling.Diagnostic, noColor bool) error {
	if len(diags) == 0 {
		green := color.New(color.FgGreen, color.Bold)
		if noColor {
			green.DisableColor()
		}
		green.Fprintf(w, "✓ %s: no issues found\n", path)
		return nil
	}

	lines := sourceLines(path)

	red := color.New(color.FgRed, color.Bold)
	yellow := color.New(color.FgYellow, color.Bold)
	dim := color.New(color.FgHiBlack)
	if noColor {
		red.DisableColor()
		yellow.DisableColor()
		dim.DisableColor()
	}

	for _, d := range diags {
		severityColor, severityWord := red, "error"
		if d.Severity == tooling.SeverityWarning {
			severityColor, severityWord = yellow, "warning"
		}

		line := d.Range.Start.Line + 1
		col := d.Range.Start.Character + 1
		severityColor.Fprintf(w, "%s:%d:%d: ", path, line, col)
		severityColor.Fprintf(w, "%s: ", severityWord)
		fmt.Fprintf(w, "%s [%s]\n", d.Message, d.Source)

		if d.Range.Start.Line >= 0 && d.Range.Start.Line < len(lines) {
			dim.Fprintf(w, "    %s\n", lines[d.Range.Start.Line])
		}
	}

	fmt.Fprintf(w, "%d issue(s) found in %s\n", len(diags), path)
	return nil
}

type jsonDiagnostic struct {
	Line      int    `json:"line"`
	Character int    `json:"character"`
	Severity  string `json:"severity"`
	Source    string `json:"source"`
	Message   string `json:"message"`
}

func printJSON(w io.Writer, diags []tooling.Diagnostic) error {
	out := make([]jsonDiagnostic, len(diags))
	for i, d := range diags {
		severity := "error"
		if d.Severity == tooling.SeverityWarning {
			severity = "warning"
		}
		out[i] = jsonDiagnostic{
			Line:      d.Range.Start.Line + 1,
			Character: d.Range.Start.Character + 1,
			Severity:  severity,
			Source:    d.Source,
			Message:   d.Message,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// sourceLines reads path back for the dim source-line display under
// each pretty-printed diagnostic. A read failure just suppresses the
// source line, not the diagnostic itself.
func sourceLines(path string) []string {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	return strings.Split(string(content), "\n")
}
