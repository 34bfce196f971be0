package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newRevCmd())
}

func newRevCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rev <path>",
		Short: "Print the current revision of an object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			remote, _ := newRemote(cmd)
			rev, err := remote.FetchRevision(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Println(rev)
			return nil
		},
	}
}
