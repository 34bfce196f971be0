package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/syncstash/syncstash/internal/client/config"
	"github.com/syncstash/syncstash/internal/stashsdk"
	"github.com/syncstash/syncstash/internal/utils"
)

var (
	// https://github.com/muesli/termenv/blob/master/ansicolors.go
	red   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	green = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	cyan  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	gray  = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

// credentialStore opens the credentials file selected by the --credentials
// flag.
func credentialStore(cmd *cobra.Command) *config.FileStore {
	path, _ := cmd.Root().PersistentFlags().GetString("credentials")
	return config.NewFileStore(path)
}

// newRemote builds the file accessor every object command runs through.
func newRemote(cmd *cobra.Command) (*stashsdk.RemoteFile, *config.FileStore) {
	store := credentialStore(cmd)

	var opts []stashsdk.Option
	if scope, _ := cmd.Root().PersistentFlags().GetString("scope"); scope != "" {
		opts = append(opts, stashsdk.WithScope(scope))
	}
	return stashsdk.NewRemoteFile(store, opts...), store
}

func printCredentials(creds *stashsdk.Credentials, path string) {
	folder := creds.Folder
	if folder == "" {
		folder = stashsdk.DefaultFolder
	}
	fmt.Printf("%s%s\n", gray.Render("Server  "), green.Render(creds.ServerURL))
	fmt.Printf("%s%s\n", gray.Render("Folder  "), green.Render(folder))
	fmt.Printf("%s%s\n", gray.Render("Token   "), green.Render(utils.MaskSecret(creds.Token)))
	fmt.Printf("%s%s\n", gray.Render("Config  "), green.Render(path))
}
