package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/syncstash/syncstash/internal/stashsdk"
	"github.com/syncstash/syncstash/internal/version"
)

func init() {
	rootCmd.AddCommand(newStatusCmd())
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stored credentials and whether the gateway accepts them",
		Run: func(cmd *cobra.Command, args []string) {
			store := credentialStore(cmd)

			creds, err := store.Load()
			if err != nil {
				fmt.Printf("%s: %s\n", red.Render("ERROR"), err)
				os.Exit(1)
			}
			if !creds.IsComplete() {
				fmt.Println(gray.Render("Not logged in. Run 'stash login' to get started."))
				return
			}

			fmt.Printf("%s%s\n", gray.Render("Client  "), version.Short())
			printCredentials(creds, store.Path())
			if err := stashsdk.VerifyCredentials(cmd.Context(), creds); err != nil {
				fmt.Printf("%s%s\n", gray.Render("Gateway "), red.Render(err.Error()))
			} else {
				fmt.Printf("%s%s\n", gray.Render("Gateway "), green.Render("reachable"))
			}
		},
	}
}
