package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bnema/desktopkit/internal/event"
	"github.com/bnema/desktopkit/internal/script"
	"github.com/bnema/desktopkit/internal/ui"
)

// ScreenInfo is the JSON form of a screen
type ScreenInfo struct {
	ID         uint64  `json:"id"`
	Name       string  `json:"name,omitempty"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Scale      float64 `json:"scale"`
	Millihertz uint32  `json:"millihertz,omitempty"`
}

var (
	screensJSON bool
	screensYAML bool
)

var screensCmd = &cobra.Command{
	Use:   "screens",
	Short: "Show the screens of the running desktop",
	Long: `Show the screens of the running desktop in logical coordinates, read
through Wayland wl_output or X11 RandR. --yaml prints them as a scenario
toolkit section.`,
	RunE: runScreens,
}

func init() {
	screensCmd.Flags().BoolVar(&screensJSON, "json", false, "Output in JSON format")
	screensCmd.Flags().BoolVar(&screensYAML, "yaml", false, "Output as scenario screens")
	screensCmd.MarkFlagsMutuallyExclusive("json", "yaml")
	rootCmd.AddCommand(screensCmd)
}

func runScreens(cmd *cobra.Command, args []string) error {
	screens, err := hostScreens(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	switch {
	case screensJSON:
		infos := make([]ScreenInfo, len(screens.Screens))
		for i, s := range screens.Screens {
			infos[i] = screenInfo(s)
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)

	case screensYAML:
		section := map[string]any{
			"toolkit": map[string]any{"screens": script.ScreensFrom(screens)},
		}
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(section); err != nil {
			return err
		}
		return enc.Close()
	}

	fmt.Fprintln(out, ui.FormatHeader(fmt.Sprintf("%d screen(s)", len(screens.Screens))))
	for i, s := range screens.Screens {
		info := screenInfo(s)
		name := info.Name
		if name == "" {
			name = fmt.Sprintf("screen %d", info.ID)
		}
		fmt.Fprintln(out, ui.FormatListItem(name, i == 0))
		fmt.Fprintln(out, "     "+ui.FormatField("origin", fmt.Sprintf("%g,%g", info.X, info.Y))+" "+
			ui.FormatField("size", fmt.Sprintf("%gx%g", info.Width, info.Height))+" "+
			ui.FormatField("scale", fmt.Sprintf("%g", info.Scale))+" "+
			ui.FormatField("refresh", fmt.Sprintf("%.2fHz", float64(info.Millihertz)/1000)))
	}
	return nil
}

func screenInfo(s event.Screen) ScreenInfo {
	info := ScreenInfo{
		ID:         uint64(s.ID),
		X:          s.Origin.X,
		Y:          s.Origin.Y,
		Width:      s.Size.Width,
		Height:     s.Size.Height,
		Scale:      s.Scale,
		Millihertz: s.Millihertz,
	}
	if s.Name != nil {
		info.Name = *s.Name
	}
	return info
}
