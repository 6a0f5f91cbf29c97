package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlassist/internal/config"
	"github.com/leapstack-labs/sqlassist/internal/lsp"
)

// NewLSPCommand creates the lsp command.
func NewLSPCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		Long: `Start the LSP server for IDE integration.

The server communicates over stdin/stdout using JSON-RPC. The project
root and catalog database are determined by the client's initialization
request (rootUri parameter) and the sqlassist.yaml found there.`,
		Example: `  # Start LSP server (usually called by an IDE)
  sqlassist lsp`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := config.GetLogger(cmd.Context())
			server := lsp.NewServerWithLogger(os.Stdin, os.Stdout, logger)
			return server.Run()
		},
	}
}
