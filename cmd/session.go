package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/desktopkit/internal/config"
	"github.com/bnema/desktopkit/internal/display"
	"github.com/bnema/desktopkit/internal/event"
	"github.com/bnema/desktopkit/internal/script"
)

// sessionFlags are shared by run and monitor
type sessionFlags struct {
	hostScreens bool
	stepTimeout time.Duration
}

func (f *sessionFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.hostScreens, "host-screens", false, "replace the scenario screens with the host's")
	cmd.Flags().DurationVar(&f.stepTimeout, "step-timeout", script.DefaultStepTimeout, "how long a step may take to settle")
}

// openSession loads the scenario at path and prepares its runner from the config
func (f *sessionFlags) openSession(ctx context.Context, path string) (*script.Scenario, *script.Runner, error) {
	s, err := script.Load(path)
	if err != nil {
		return nil, nil, err
	}
	if s.Name == "" {
		s.Name = path
	}
	if f.hostScreens {
		screens, err := hostScreens(ctx)
		if err != nil {
			return nil, nil, err
		}
		s.Toolkit.Screens = script.ScreensFrom(screens)
	}

	cfg := config.Get()
	defaults, err := cfg.WindowDefaults()
	if err != nil {
		return nil, nil, err
	}
	r, err := script.NewRunner(s, cfg.AppOptions())
	if err != nil {
		return nil, nil, err
	}
	r.Defaults = defaults
	r.StepTimeout = f.stepTimeout
	return s, r, nil
}

func hostScreens(ctx context.Context) (event.AllScreens, error) {
	p, err := display.New()
	if err != nil {
		return event.AllScreens{}, err
	}
	defer p.Close()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	screens, err := p.Screens(ctx)
	if err != nil {
		return event.AllScreens{}, fmt.Errorf("failed to read %s screens: %w", p.Name(), err)
	}
	return screens, nil
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
