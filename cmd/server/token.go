package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/syncstash/syncstash/internal/server/auth"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage gateway access tokens",
}

var tokenNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Mint a signed access token for a device",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		subject, _ := cmd.Flags().GetString("subject")
		expiry, _ := cmd.Flags().GetDuration("expiry")

		authSvc, err := auth.NewAuthService(&config.Auth)
		if err != nil {
			return err
		}

		token, err := authSvc.MintToken(subject, expiry)
		if err != nil {
			return err
		}

		cmd.SilenceUsage = true
		fmt.Println(token)
		return nil
	},
}

func init() {
	tokenNewCmd.Flags().SortFlags = false
	tokenNewCmd.Flags().StringP("subject", "s", "", "Who the token identifies, e.g. a device name")
	tokenNewCmd.Flags().DurationP("expiry", "e", 720*time.Hour, "How long the token stays valid")
	tokenNewCmd.MarkFlagRequired("subject")
}
