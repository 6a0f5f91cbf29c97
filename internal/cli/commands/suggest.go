package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlassist/internal/catalog"
	"github.com/leapstack-labs/sqlassist/internal/config"
	"github.com/leapstack-labs/sqlassist/pkg/suggest"
)

// SuggestOptions holds options for the suggest command.
type SuggestOptions struct {
	Path   string   // SQL file path; "-" or empty reads stdin
	Cursor int      // Cursor offset; -1 means end of input
	Fields []string // Inline table fields: "Table:f1,f2"
}

// NewSuggestCommand creates the suggest command.
func NewSuggestCommand() *cobra.Command {
	opts := &SuggestOptions{}
	cmd := &cobra.Command{
		Use:   "suggest [file]",
		Short: "Compute the inline suggestion at a cursor position",
		Long: `Resolve the cursor context for a SQL query and print the inline
suggestion the editor would show, as JSON.

Join-condition suggestions need field metadata: either a catalog
database (catalog.database in sqlassist.yaml or --database) or
inline --fields definitions.`,
		Example: `  # Suggestion at end of input
  echo -n "SELECT * FROM [A] INNER" | sqlassist suggest

  # Explicit cursor offset
  sqlassist suggest query.sql --cursor 42

  # Inline field metadata for join conditions
  echo -n "SELECT * FROM [A] a JOIN [B] b ON " | \
    sqlassist suggest --fields "A:CustomerID,Name" --fields "B:CustomerID"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Path = args[0]
			}
			return runSuggest(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Cursor, "cursor", -1, "Cursor offset (default: end of input)")
	cmd.Flags().StringArrayVar(&opts.Fields, "fields", nil, `Inline table fields ("Table:f1,f2"), repeatable`)

	return cmd
}

func runSuggest(cmd *cobra.Command, opts *SuggestOptions) error {
	sql, err := readInput(cmd, opts.Path)
	if err != nil {
		return err
	}

	cursor := opts.Cursor
	if cursor < 0 || cursor > len(sql) {
		cursor = len(sql)
	}

	cfg := config.FromContext(cmd.Context())
	provider, closeProvider, err := buildProvider(cfg, opts.Fields)
	if err != nil {
		return err
	}
	defer closeProvider()

	identity := suggest.DefaultIdentityCatalog()
	if cfg != nil {
		identity = cfg.IdentityCatalog()
	}

	engine := suggest.NewEngine(suggest.DefaultRules(provider, identity)...)
	suggestion, err := engine.Suggest(cmd.Context(), sql, cursor)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if suggestion == nil {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "null")
		return nil
	}
	return enc.Encode(suggestion)
}

// buildProvider picks the field provider: inline --fields beat the
// configured catalog database. Returns a no-op closer when there is
// nothing to close.
func buildProvider(cfg *config.Config, fieldSpecs []string) (suggest.FieldProvider, func(), error) {
	noop := func() {}

	if len(fieldSpecs) > 0 {
		tables, err := parseFieldSpecs(fieldSpecs)
		if err != nil {
			return nil, noop, err
		}
		return catalog.NewStaticProvider(tables), noop, nil
	}

	if cfg != nil && cfg.Catalog.Database != "" {
		store := catalog.NewStore()
		if err := store.Open(cfg.Catalog.Database); err != nil {
			return nil, noop, err
		}
		return store, func() { _ = store.Close() }, nil
	}

	return nil, noop, nil
}

// parseFieldSpecs parses "Table:f1,f2" definitions.
func parseFieldSpecs(specs []string) (map[string][]suggest.Field, error) {
	tables := make(map[string][]suggest.Field, len(specs))
	for _, spec := range specs {
		name, list, ok := strings.Cut(spec, ":")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --fields value %q, want \"Table:f1,f2\"", spec)
		}
		var fields []suggest.Field
		for _, f := range strings.Split(list, ",") {
			f = strings.TrimSpace(f)
			if f == "" {
				continue
			}
			fields = append(fields, suggest.Field{Name: f})
		}
		tables[name] = fields
	}
	return tables, nil
}
