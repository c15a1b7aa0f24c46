package main

import (
	"github.com/spf13/cobra"

	"github.com/rickgao/eod-data/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd.OutOrStdout(), version.Get())
		},
	}
}
