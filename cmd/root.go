package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kusitms-com/meetupd/cmd/users"
	"github.com/kusitms-com/meetupd/internal/config"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "meetupd",
	Short: "meetupd API server for contest team matching",
	Long: `meetupd serves the REST API that lets users find contests, open or join
teams, and unlock other users' profiles with tickets.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := readConfigFile(cfgFile); err != nil {
			return err
		}
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		logger = newLogger(cfg, os.Stderr)
		slog.SetDefault(logger)
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Path to a YAML config file")
	flags.String("db-url", "", "Database connection URL (env: MEETUPD_DATABASE_URL)")
	flags.String("server-addr", "", "Server bind address (env: MEETUPD_SERVER_ADDR)")
	flags.String("metrics-addr", "", "Prometheus bind address, empty to disable (env: MEETUPD_METRICS_ADDR)")
	flags.Bool("debug", false, "Enable debug logging (env: MEETUPD_DEBUG)")
	flags.String("log-format", "", "Log format: text or json (env: MEETUPD_LOG_FORMAT)")

	for key, flag := range map[string]string{
		"database_url": "db-url",
		"server_addr":  "server-addr",
		"metrics_addr": "metrics-addr",
		"debug":        "debug",
		"log_format":   "log-format",
	} {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", flag, err))
		}
	}

	rootCmd.AddCommand(users.UsersCmd)
}

// readConfigFile loads path into the global viper instance when set.
func readConfigFile(path string) error {
	if path == "" {
		return nil
	}
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return nil
}

func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
