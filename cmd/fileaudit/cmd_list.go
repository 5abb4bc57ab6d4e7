package main

import (
	"fmt"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/spboyer/fileaudit/internal/checks"
)

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available checks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := checks.Names()
			width := 0
			for _, n := range names {
				width = max(width, runewidth.StringWidth(n))
			}
			for _, n := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s  %s\n", runewidth.FillRight(n, width), checks.DefaultRegistry.Summary(n)) //nolint:errcheck
			}
			return nil
		},
	}
}
