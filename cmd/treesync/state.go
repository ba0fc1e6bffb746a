package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aatuh/treesync/internal/pathutil"
	"github.com/aatuh/treesync/internal/viewstate"
)

func newStateCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect or change which directories are collapsed",
	}
	cmd.AddCommand(newStateToggleCmd(c))
	cmd.AddCommand(newStateResetCmd(c))
	return cmd
}

func newStateToggleCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle PATH",
		Short: "Expand a collapsed directory or collapse an expanded one",
		Long:  "PATH is relative to the project root, e.g. src/app.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rel := pathutil.Normalize(args[0])
			if rel == "" || rel == pathutil.CurrentDir {
				return fmt.Errorf("path is required")
			}
			state, err := viewstate.Load(c.settings.StateFile, c.settings.ExpandDepth)
			if err != nil {
				return err
			}

			word := "collapsed"
			if state.Toggle(rel) {
				word = "expanded"
			}
			if err := state.Save(c.settings.StateFile); err != nil {
				return err
			}
			c.log("state").WithField("path", rel).Debug("view state saved")
			_, err = fmt.Fprintf(c.stdout, "%s %s\n", rel, word)
			return err
		},
	}
}

func newStateResetCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Forget every expanded or collapsed directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return viewstate.New(c.settings.ExpandDepth).Save(c.settings.StateFile)
		},
	}
}
