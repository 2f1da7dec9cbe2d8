package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/openswim/swimsync/internal/utils"
	"github.com/openswim/swimsync/internal/version"
	"github.com/openswim/swimsync/internal/webdav"
)

var (
	home, _        = os.UserHomeDir()
	defaultDBPath  = filepath.Join(home, ".swimsync", "results.db")
	configFileName = "config"
)

var (
	red   = color.New(color.FgHiRed, color.Bold).SprintFunc()
	green = color.New(color.FgHiGreen).SprintFunc()
	cyan  = color.New(color.FgHiCyan).SprintFunc()
)

var rootCmd = &cobra.Command{
	Use:     "swimsync",
	Short:   "Sync swim-meet results from a WebDAV share into a local database",
	Version: version.Detailed(),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().SortFlags = false
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default ~/.swimsync/config.json)")
	rootCmd.PersistentFlags().String("db", defaultDBPath, "path of the local results database")
	rootCmd.PersistentFlags().String("base-url", "", "server root URL, e.g. https://files.example.org/owncloud")
	rootCmd.PersistentFlags().String("mode", string(webdav.ModePublicShare), "share access mode: public-share or public-files")
	rootCmd.PersistentFlags().String("token", "", "public share token")
	rootCmd.PersistentFlags().String("password", "", "share password (public-share mode, may be empty)")
	rootCmd.PersistentFlags().String("log-file", "", "also write logs to this file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
}

func main() {
	// A local .env may carry SWIMSYNC_TOKEN / SWIMSYNC_PASSWORD.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, red("error:"), err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) error {
	if cmd.Flag("config").Changed {
		configFilePath, _ := cmd.Flags().GetString("config")
		viper.SetConfigFile(configFilePath)
	} else {
		viper.AddConfigPath(filepath.Join(home, ".swimsync"))
		viper.AddConfigPath(filepath.Join(home, ".config", "swimsync"))
		viper.SetConfigName(configFileName)
		viper.SetConfigType("json")
	}

	viper.SetEnvPrefix("SWIMSYNC")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	for key, flag := range map[string]string{
		"db":             "db",
		"base_url":       "base-url",
		"mode":           "mode",
		"share_token":    "token",
		"share_password": "password",
	} {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return err
		}
	}

	return setupLogging(cmd)
}

func setupLogging(cmd *cobra.Command) error {
	level := slog.LevelInfo
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}

	stdoutHandler := tint.NewHandler(os.Stdout, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    !isatty.IsTerminal(os.Stdout.Fd()),
	})

	logFile, _ := cmd.Flags().GetString("log-file")
	if logFile == "" {
		slog.SetDefault(slog.New(stdoutHandler))
		return nil
	}

	if err := utils.EnsureParent(logFile); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	fileHandler := slog.NewTextHandler(utils.NewLogInterceptor(file), &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// The interceptor stamps its own time on every line.
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	})

	slog.SetDefault(slog.New(utils.NewMultiLogHandler(stdoutHandler, fileHandler)))
	return nil
}

// shareConfig assembles the WebDAV configuration from flags, env and config
// file. The access mode is always explicit; it is never guessed.
func shareConfig() (*webdav.Config, error) {
	cfg := &webdav.Config{
		BaseURL:       viper.GetString("base_url"),
		Mode:          webdav.AccessMode(viper.GetString("mode")),
		ShareToken:    viper.GetString("share_token"),
		SharePassword: viper.GetString("share_password"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func dbPath() string {
	return viper.GetString("db")
}
