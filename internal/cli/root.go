// Package cli implements the wp-donor CLI commands.
package cli

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rcliao/wp-donor/internal/config"
	"github.com/rcliao/wp-donor/internal/logging"
	"github.com/rcliao/wp-donor/internal/settings"
	"github.com/rcliao/wp-donor/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	settingsPath string
	donorPath    string
	formatFlag   string
	logLevel     string

	logger = zap.NewNop()
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "wp-donor",
	Short: "Read posts out of a donor WordPress site",
	Long:  "Exports posts of a donor WordPress database for cloning into an acceptor site, and shows the acceptor settings that apply.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(logLevel)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&settingsPath, "settings", "s", "", "Settings file (default: $"+config.EnvSettingsFile+" or ./settings.yaml)")
	RootCmd.PersistentFlags().StringVarP(&donorPath, "donor", "d", "", "Donor database path (overrides donor_path)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "", "Output format (command specific)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
}

// loadConfig loads the settings file or exits. Nothing else runs before it.
func loadConfig() config.Config {
	cfg, err := config.Load(&config.CLIOverrides{
		SettingsFile: settingsPath,
		DonorPath:    donorPath,
	})
	if err != nil {
		exitErr("load settings", err)
	}
	logger.Debug("settings loaded",
		zap.String("file", cfg.SettingsFile),
		zap.String("donor_path", cfg.DonorPath),
		zap.Int("keys", len(cfg.Settings)))
	return cfg
}

func newResolver(cfg config.Config) *settings.Resolver {
	return settings.New(cfg.Settings)
}

func openStore(cfg config.Config) (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(cfg.DonorPath, store.Options{
		TablePrefix: cfg.TablePrefix,
		SiteURL:     cfg.SiteURL,
	})
}

// outputFormat returns --format or the command's default.
func outputFormat(def string) string {
	if formatFlag != "" {
		return formatFlag
	}
	return def
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func exitErr(msg string, err error) {
	logger.Error(msg, zap.Error(err))
	_ = logger.Sync()
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
