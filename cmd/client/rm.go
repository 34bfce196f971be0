package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newRmCmd())
}

func newRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <path>",
		Short: "Delete an object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			remote, _ := newRemote(cmd)
			if err := remote.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}

			fmt.Printf("%s %s\n", green.Render("Deleted"), args[0])
			return nil
		},
	}
}
