package main

import (
	"github.com/spf13/cobra"

	"github.com/aatuh/treesync/internal/adapters/fs"
	"github.com/aatuh/treesync/internal/scan"
)

func newFlattenCmd(c *cli) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "flatten",
		Short: "Convert a nested scan result into a flat entry list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := fs.FileScanner{Path: input, Stdin: c.stdin}.Scan(cmd.Context(), scan.Request{})
			if err != nil {
				return err
			}
			c.log("flatten").WithField("entries", len(entries)).Debug("flattened")
			return writeJSON(c.stdout, entries)
		},
	}
	cmd.Flags().StringVar(&input, "input", "-", "scan result file ('-' for stdin)")
	return cmd
}
