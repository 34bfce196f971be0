package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/syncstash/syncstash/internal/client/config"
	"github.com/syncstash/syncstash/internal/version"
)

var rootCmd = &cobra.Command{
	Use:     "stash",
	Short:   "SyncStash CLI",
	Version: version.Detailed(),
}

func init() {
	rootCmd.PersistentFlags().StringP("credentials", "c", config.DefaultCredentialsPath, "Path to the credentials file")
	rootCmd.PersistentFlags().String("scope", "", "Extra key segment isolating this instance, e.g. staging")
}

func main() {
	// stdout stays parseable (get/rev print raw values), so logs go to stderr
	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: "15:04:05",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	})
	slog.SetDefault(slog.New(handler))

	// Setup root context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
