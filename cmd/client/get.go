package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newGetCmd())
}

func newGetCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "get <path>",
		Short: "Download an object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			remote, _ := newRemote(cmd)
			snap, err := remote.Download(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if output == "" {
				fmt.Print(snap.Body)
				return nil
			}

			if err := os.WriteFile(output, []byte(snap.Body), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Printf("%s %s (revision %s)\n", green.Render("Saved"), output, snap.Revision)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the object to this file instead of stdout")

	return cmd
}
