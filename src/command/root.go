// Package command wires configuration, stores and the HTTP server behind the memo-api CLI.
package command

import (
	"context"

	"github.com/spf13/cobra"
)

// NewRootCommand returns the memo-api root command; running it without a subcommand serves the API
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "memo-api",
		Short:         "Text and voice memo API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	root.AddCommand(newServeCommand())
	root.AddCommand(newMigrateCommand())
	return root
}

// Execute runs the root command
func Execute() error {
	return NewRootCommand().ExecuteContext(context.Background())
}
