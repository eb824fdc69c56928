package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/desktopkit/internal/config"
	"github.com/bnema/desktopkit/internal/logger"
)

var (
	configPath string
	logLevel   string

	rootCmd = &cobra.Command{
		Use:   "desktopkit",
		Short: "desktopkit - desktop application runtime",
		Long: `desktopkit drives windows, input, text input, clipboard and drag and drop
through a single event loop. Scenarios play scripted sessions against a
headless toolkit, and the host commands inspect the running desktop.`,
		SilenceUsage:      true,
		PersistentPreRunE: initRoot,
	}
)

// Execute runs the root command
func Execute() error {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s\n" .Version}}`)
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $HOME/.config/desktopkit/desktopkit.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
}

// initRoot loads the configuration, then applies the log level. The flag
// beats the config file, which beats LOG_LEVEL.
func initRoot(cmd *cobra.Command, args []string) error {
	if configPath != "" {
		config.SetConfigPath(configPath)
	}
	if err := config.Init(); err != nil {
		return err
	}
	if err := logger.SetLevel(config.Get().Logging.LogLevel); err != nil {
		return fmt.Errorf("logging.log_level: %w", err)
	}
	if err := logger.SetLevel(logLevel); err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	return nil
}
