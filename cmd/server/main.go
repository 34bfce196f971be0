package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/syncstash/syncstash/internal/server"
	"github.com/syncstash/syncstash/internal/server/store"
	"github.com/syncstash/syncstash/internal/version"
)

const defaultSQLitePath = "syncstash.db"

var rootCmd = &cobra.Command{
	Use:     "stashd",
	Short:   "SyncStash Gateway",
	Version: version.Detailed(),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		srv, err := server.New(config)
		if err != nil {
			return err
		}

		cmd.SilenceUsage = true
		defer slog.Info("Bye!")
		return srv.Start(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().SortFlags = false
	rootCmd.Flags().StringP("bind", "b", server.DefaultAddr, "Address to bind the gateway")
	rootCmd.Flags().String("cert", "", "Path to the TLS certificate file")
	rootCmd.Flags().String("key", "", "Path to the TLS key file")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML config file")

	tokenCmd.AddCommand(tokenNewCmd)
	rootCmd.AddCommand(tokenCmd, keysCmd)
}

func main() {
	// local development overrides; absent file is fine
	_ = godotenv.Load()

	handler := tint.NewHandler(os.Stdout, &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		NoColor:    !isatty.IsTerminal(os.Stdout.Fd()),
	})
	slog.SetDefault(slog.New(handler))

	// Setup root context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves the gateway configuration: flags over environment
// over config file over defaults.
func loadConfig(cmd *cobra.Command) (*server.Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile, _ := cmd.Root().PersistentFlags().GetString("config"); configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config read %q: %w", configFile, err)
		}
	}

	// only the serve command carries these flags
	if flag := cmd.Flags().Lookup("bind"); flag != nil {
		v.BindPFlag("http.addr", flag)
	}
	if flag := cmd.Flags().Lookup("cert"); flag != nil {
		v.BindPFlag("http.cert_file", flag)
	}
	if flag := cmd.Flags().Lookup("key"); flag != nil {
		v.BindPFlag("http.key_file", flag)
	}

	v.SetEnvPrefix("STASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config server.Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("config unmarshal: %w", err)
	}
	return &config, nil
}

// setDefaults registers every config key. AutomaticEnv only resolves keys
// viper already knows about, so unset keys default explicitly here.
func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", server.DefaultAddr)
	v.SetDefault("http.cert_file", "")
	v.SetDefault("http.key_file", "")
	v.SetDefault("http.rate_limit", server.DefaultRateLimit)
	v.SetDefault("http.max_object_bytes", server.DefaultMaxObjectBytes)

	v.SetDefault("store.backend", store.BackendSQLite)
	v.SetDefault("store.sqlite.path", defaultSQLitePath)
	v.SetDefault("store.fs.root", "")
	v.SetDefault("store.s3.bucket_name", "")
	v.SetDefault("store.s3.region", "")
	v.SetDefault("store.s3.endpoint", "")
	v.SetDefault("store.s3.access_key", "")
	v.SetDefault("store.s3.secret_key", "")
	v.SetDefault("store.s3.use_accelerate", false)

	v.SetDefault("auth.token_issuer", "")
	v.SetDefault("auth.token_secret", "")
	v.SetDefault("auth.tokens_file", "")
}
