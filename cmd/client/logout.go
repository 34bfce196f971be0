package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newLogoutCmd())
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token",
		Run: func(cmd *cobra.Command, args []string) {
			remote, _ := newRemote(cmd)
			if err := remote.InvalidateCredentials(); err != nil {
				fmt.Printf("%s: %s\n", red.Render("ERROR"), err)
				os.Exit(1)
			}
			fmt.Println(green.Render("Logged out"))
		},
	}
}
