package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/desktopkit/internal/logger"
	"github.com/bnema/desktopkit/internal/settings"
	"github.com/bnema/desktopkit/internal/ui"
)

var settingsTimeout time.Duration

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show the desktop settings applications react to",
	Long: `Read the titlebar, click, cursor and font preferences from
xdg-desktop-portal and show them with the titlebar layout they produce.`,
	RunE: runSettings,
}

func init() {
	settingsCmd.Flags().DurationVar(&settingsTimeout, "timeout", 5*time.Second, "portal query timeout")
	rootCmd.AddCommand(settingsCmd)
}

func runSettings(cmd *cobra.Command, args []string) error {
	portal, err := settings.NewPortal()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), settingsTimeout)
	defer cancel()
	values, err := portal.Read(ctx)
	if err != nil {
		return fmt.Errorf("failed to read desktop settings: %w", err)
	}

	snap := settings.Default()
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, ui.FormatHeader("Desktop settings"))
	for _, s := range values {
		if err := snap.Apply(s); err != nil {
			logger.Warn("Ignoring setting", "setting", s.SettingKind(), "err", err)
		}
		fmt.Fprintln(out, "  "+ui.FormatField(s.SettingKind().String(), ui.SettingValue(s)))
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, ui.FormatHeader("Titlebar"))
	fmt.Fprintln(out, "  "+ui.FormatField("layout", snap.TitlebarLayout.String()))
	fmt.Fprintln(out, "  "+ui.FormatField("double-click", snap.ActionDoubleClickTitlebar.String()))
	fmt.Fprintln(out, "  "+ui.FormatField("middle-click", snap.ActionMiddleClickTitlebar.String()))
	fmt.Fprintln(out, "  "+ui.FormatField("right-click", snap.ActionRightClickTitlebar.String()))
	return nil
}
