package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlassist/internal/config"
	"github.com/leapstack-labs/sqlassist/pkg/lint"
)

// LintOptions holds options for the lint command.
type LintOptions struct {
	Path    string   // SQL file path; "-" or empty reads stdin
	Format  string   // Output format: text, json
	Disable []string // Rule names to disable
	NoGate  bool     // Report findings without failing on blocking ones
}

// NewLintCommand creates the lint command.
func NewLintCommand() *cobra.Command {
	opts := &LintOptions{}
	cmd := &cobra.Command{
		Use:   "lint [file]",
		Short: "Run lint rules on a SQL query",
		Long: `Analyze a SQL query and report diagnostics.

Severities: error and prereq block execution, warning is advisory.
The command exits non-zero when a blocking diagnostic is found,
making it usable as a pre-run gate.`,
		Example: `  # Lint a file
  sqlassist lint query.sql

  # Lint from stdin
  echo "SELECT a FROM [T] WHERE a <> 1" | sqlassist lint

  # Machine-readable output
  sqlassist lint query.sql --format json

  # Report only, never fail
  sqlassist lint query.sql --no-gate`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Path = args[0]
			}
			return runLint(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "text", "Output format: text, json")
	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rule names to disable")
	cmd.Flags().BoolVar(&opts.NoGate, "no-gate", false, "Do not fail on blocking diagnostics")

	return cmd
}

func runLint(cmd *cobra.Command, opts *LintOptions) error {
	sql, err := readInput(cmd, opts.Path)
	if err != nil {
		return err
	}

	lintCfg := lint.Config{}
	if cfg := config.FromContext(cmd.Context()); cfg != nil {
		lintCfg = cfg.LintConfig()
	}
	lintCfg.Disable = append(lintCfg.Disable, opts.Disable...)

	engine := lint.NewEngine(lintCfg, lint.DefaultRules()...)
	diags := engine.Check(sql)

	switch opts.Format {
	case "json":
		if err := renderDiagnosticsJSON(cmd.OutOrStdout(), diags); err != nil {
			return err
		}
	default:
		renderDiagnosticsTable(cmd.OutOrStdout(), diags)
	}

	if !opts.NoGate && lint.HasBlocking(diags) {
		blocking := lint.FirstBlocking(diags)
		return fmt.Errorf("query blocked: %s", blocking.Message)
	}
	return nil
}

func renderDiagnosticsTable(w io.Writer, diags []lint.Diagnostic) {
	if len(diags) == 0 {
		_, _ = fmt.Fprintln(w, "No issues found.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Severity", "Rule", "Span", "Message"})

	for _, d := range diags {
		t.AppendRow(table.Row{
			string(d.Severity),
			d.Rule,
			fmt.Sprintf("%d-%d", d.Start, d.End),
			d.Message,
		})
	}
	t.Render()
	_, _ = fmt.Fprintf(w, "(%d findings)\n", len(diags))
}

func renderDiagnosticsJSON(w io.Writer, diags []lint.Diagnostic) error {
	if diags == nil {
		diags = []lint.Diagnostic{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(diags)
}

// readInput reads the SQL to analyze from a file path or stdin.
func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}
