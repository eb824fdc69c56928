package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/bnema/desktopkit/internal/config"
	"github.com/bnema/desktopkit/internal/logger"
	"github.com/bnema/desktopkit/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage desktopkit configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, ui.FormatField("file", config.GetConfigPath()))
		section := func(name string, fields ...string) {
			fmt.Fprintln(out)
			fmt.Fprintln(out, ui.SubheaderStyle.Render("["+name+"]"))
			for i := 0; i+1 < len(fields); i += 2 {
				fmt.Fprintln(out, "  "+ui.FormatField(fields[i], fields[i+1]))
			}
		}

		section("application",
			"app_id", cfg.Application.AppID,
			"rendering_mode", cfg.Application.RenderingMode,
			"event_buffer", strconv.Itoa(cfg.Application.EventBuffer))
		section("window",
			"title", cfg.Window.Title,
			"size", fmt.Sprintf("%gx%g", cfg.Window.Width, cfg.Window.Height),
			"min_size", fmt.Sprintf("%gx%g", cfg.Window.MinWidth, cfg.Window.MinHeight),
			"prefer_client_side_decoration", strconv.FormatBool(cfg.Window.PreferClientSideDecoration))
		section("transfer",
			"paste_timeout_ms", strconv.Itoa(cfg.Transfer.PasteTimeoutMs),
			"drop_mime_types", strings.Join(cfg.Transfer.DropMimeTypes, ", "),
			"prefer_move", strconv.FormatBool(cfg.Transfer.PreferMove))
		section("chrome",
			"titlebar_height", fmt.Sprintf("%g", cfg.Chrome.TitlebarHeight),
			"border_size", fmt.Sprintf("%g", cfg.Chrome.BorderSize),
			"button_size", fmt.Sprintf("%g", cfg.Chrome.ButtonSize))
		rc := cfg.RemoteMonitor("")
		section("monitor",
			"listen", rc.Addr,
			"host_key_path", rc.HostKeyPath,
			"authorized_keys", strings.Join(rc.AuthorizedKeys, ", "),
			"history", strconv.Itoa(rc.History))
		section("logging",
			"file_logging", strconv.FormatBool(cfg.Logging.FileLogging),
			"log_level", cfg.Logging.LogLevel,
			"log_file", logger.LogPath())
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), config.GetConfigPath())
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a configuration file",
	Long: `Create a configuration file. Without --defaults a short form asks for the
settings that most often differ between desktops.`,
	RunE: runConfigInit,
}

func init() {
	configInitCmd.Flags().Bool("force", false, "overwrite an existing file")
	configInitCmd.Flags().Bool("defaults", false, "write the defaults without asking")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := config.GetConfigPath()
	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(configPath); err == nil && !force {
		logger.Infof("Configuration file already exists at: %s", configPath)
		logger.Info("Use --force to overwrite")
		return nil
	}

	cfg := *config.Get()
	cfg.Transfer.DropMimeTypes = append([]string(nil), cfg.Transfer.DropMimeTypes...)

	if defaults, _ := cmd.Flags().GetBool("defaults"); !defaults {
		if err := askConfig(&cfg); err != nil {
			return err
		}
	}

	config.Set(&cfg)
	if err := config.Save(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), ui.FormatResult(true, "configuration written", configPath))
	return nil
}

func askConfig(cfg *config.Config) error {
	timeout := strconv.Itoa(cfg.Transfer.PasteTimeoutMs)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Application ID").
				Description("Reverse-DNS name the compositor groups windows by").
				Value(&cfg.Application.AppID),
			huh.NewSelect[string]().
				Title("Rendering mode").
				Options(
					huh.NewOption("Auto", "auto"),
					huh.NewOption("Software", "software"),
					huh.NewOption("EGL", "egl"),
				).
				Value(&cfg.Application.RenderingMode),
			huh.NewConfirm().
				Title("Prefer client-side decorations?").
				Description("Draw the titlebar ourselves when the compositor allows it").
				Value(&cfg.Window.PreferClientSideDecoration),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Paste timeout (ms)").
				Value(&timeout).
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err != nil || n <= 0 {
						return fmt.Errorf("enter a positive number of milliseconds")
					}
					return nil
				}),
			huh.NewConfirm().
				Title("Prefer move for drag and drop?").
				Value(&cfg.Transfer.PreferMove),
			huh.NewConfirm().
				Title("Write logs to a file?").
				Description(logger.LogPath()).
				Value(&cfg.Logging.FileLogging),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	n, err := strconv.Atoi(timeout)
	if err != nil {
		return fmt.Errorf("invalid paste timeout: %w", err)
	}
	cfg.Transfer.PasteTimeoutMs = n
	return nil
}
