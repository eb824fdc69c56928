package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bnema/desktopkit/internal/config"
	"github.com/bnema/desktopkit/internal/event"
	"github.com/bnema/desktopkit/internal/logger"
	"github.com/bnema/desktopkit/internal/remote"
	"github.com/bnema/desktopkit/internal/script"
	"github.com/bnema/desktopkit/internal/ui"
)

var (
	monitorFlags  sessionFlags
	monitorListen string
)

var monitorCmd = &cobra.Command{
	Use:   "monitor <scenario.yaml>",
	Short: "Play a scenario in a full-screen event monitor",
	Args:  cobra.ExactArgs(1),
	RunE:  runMonitor,
}

func init() {
	monitorFlags.register(monitorCmd)
	monitorCmd.Flags().StringVar(&monitorListen, "listen", "", "also serve the monitor over SSH on this address")
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext(cmd.Context())
	defer stop()

	// Bubble Tea owns the terminal, so logs only go to the file
	logFile, err := logger.SetupFileLogging("MONITOR", false)
	if err != nil {
		return fmt.Errorf("failed to setup file logging: %w", err)
	}
	defer logFile.Close()
	defer logger.SetOutput(os.Stderr)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s, r, err := monitorFlags.openSession(ctx, args[0])
	if err != nil {
		return err
	}
	defer r.Close()

	var server *remote.Server
	if rc := config.Get().RemoteMonitor(monitorListen); rc.Addr != "" {
		if len(rc.AuthorizedKeys) == 0 {
			logger.Warn("Remote monitor accepts any public key", "addr", rc.Addr)
		}
		server = remote.NewServer(rc, func() tea.Model { return ui.NewMonitorModel(s.Name, len(s.Steps)) })
		if err := server.Start(ctx); err != nil {
			return err
		}
		defer server.Stop()
	}

	model := ui.NewMonitorModel(s.Name, len(s.Steps))
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	msgs := make(chan tea.Msg, max(config.Get().Application.EventBuffer, 1))
	r.OnStep(func(i int, st script.Step) { msgs <- ui.StepMsg{Index: i, Name: st.Name()} })
	r.OnEvent(func(e event.Event) { msgs <- ui.EventMsg{Event: e, At: time.Now()} })

	var runErr error
	var interrupted bool
	var g errgroup.Group
	g.Go(func() error {
		defer close(msgs)
		runErr = r.Run(ctx)
		interrupted = runErr != nil && ctx.Err() != nil
		msgs <- ui.DoneMsg{Err: runErr}
		return nil
	})
	g.Go(func() error {
		for msg := range msgs {
			program.Send(msg)
			if server != nil {
				server.Send(msg)
			}
		}
		return nil
	})
	g.Go(func() error {
		// Quitting the monitor stops the scenario
		defer cancel()
		if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("monitor failed: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	if interrupted {
		logger.Info("Scenario interrupted", "name", s.Name)
		return nil
	}
	return runErr
}
