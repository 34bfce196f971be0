package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/syncstash/syncstash/internal/client/config"
	"github.com/syncstash/syncstash/internal/stashsdk"
	"github.com/syncstash/syncstash/internal/utils"
)

func init() {
	rootCmd.AddCommand(newLoginCmd())
}

func newLoginCmd() *cobra.Command {
	var serverURL string
	var token string
	var folder string
	var quiet bool

	cmd := &cobra.Command{
		Use:     "login",
		Aliases: []string{"init"},
		Short:   "Connect to a stash gateway",
		Run: func(cmd *cobra.Command, args []string) {
			store := credentialStore(cmd)

			// Credentials that still verify mean there is nothing to do.
			if creds, err := store.Load(); err == nil && creds.IsComplete() {
				if stashsdk.VerifyCredentials(cmd.Context(), creds) == nil {
					if !quiet {
						fmt.Println(green.Render("Already logged in"))
						printCredentials(creds, store.Path())
					}
					os.Exit(0)
				}
			}

			var verified *stashsdk.Credentials

			onVerify := func(serverInput, tokenInput string) error {
				candidate := &stashsdk.Credentials{
					ServerURL: strings.TrimRight(serverInput, "/"),
					Token:     tokenInput,
					Folder:    folder,
				}
				if err := stashsdk.VerifyCredentials(cmd.Context(), candidate); err != nil {
					return err
				}
				verified = candidate
				return nil
			}

			if token != "" {
				// Non-interactive: everything arrived on flags.
				if err := utils.ValidateURL(serverURL); err != nil {
					fmt.Printf("%s: %s\n", red.Render("ERROR"), err)
					os.Exit(1)
				}
				if err := onVerify(serverURL, token); err != nil {
					fmt.Printf("%s: %s\n", red.Render("ERROR"), err)
					os.Exit(1)
				}
			} else {
				displayFolder := folder
				if displayFolder == "" {
					displayFolder = stashsdk.DefaultFolder
				}

				if err := RunLoginTUI(LoginTUIOpts{
					ServerURL:       serverURL,
					Folder:          displayFolder,
					CredentialsPath: store.Path(),
					ServerSubmitHandler: func(serverInput string) error {
						return stashsdk.Ping(cmd.Context(), serverInput)
					},
					TokenSubmitHandler: onVerify,
					ServerValidator:    utils.IsValidURL,
					TokenValidator: func(tokenInput string) bool {
						return strings.TrimSpace(tokenInput) != ""
					},
				}); err != nil {
					fmt.Printf("%s: %s\n", red.Render("ERROR"), err)
					os.Exit(1)
				}
			}

			if verified == nil {
				fmt.Printf("%s: %s\n", red.Render("ERROR"), "no verified credentials")
				os.Exit(1)
			}

			if err := store.Store(verified); err != nil {
				fmt.Printf("%s: %s\n", red.Render("ERROR"), err)
				os.Exit(1)
			}

			if !quiet {
				fmt.Println(green.Render("Logged in"))
				printCredentials(verified, store.Path())
			}
		},
	}

	cmd.Flags().SortFlags = false
	cmd.Flags().StringVarP(&serverURL, "server", "s", config.DefaultServerURL, "url of the stash gateway")
	cmd.Flags().StringVarP(&token, "token", "t", "", "access token; skips the interactive prompt")
	cmd.Flags().StringVarP(&folder, "folder", "f", "", `top-level folder on the gateway (default "`+stashsdk.DefaultFolder+`")`)
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "disable output")

	return cmd
}
