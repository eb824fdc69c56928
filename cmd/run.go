package cmd

import (
	"fmt"
	"io"
	"sync"

	"github.com/spf13/cobra"

	"github.com/bnema/desktopkit/internal/config"
	"github.com/bnema/desktopkit/internal/event"
	"github.com/bnema/desktopkit/internal/logger"
	"github.com/bnema/desktopkit/internal/script"
	"github.com/bnema/desktopkit/internal/ui"
)

var (
	runFlags sessionFlags
	runQuiet bool
	runPlain bool
)

var runCmd = &cobra.Command{
	Use:   "run <scenario.yaml>",
	Short: "Play a scenario against the headless toolkit",
	Long: `Play a scenario against the headless toolkit and print every event the
application handles. The command fails when a step or an expectation fails.`,
	Args: cobra.ExactArgs(1),
	RunE: runScenario,
}

func init() {
	runFlags.register(runCmd)
	runCmd.Flags().BoolVarP(&runQuiet, "quiet", "q", false, "only print steps and the result")
	runCmd.Flags().BoolVar(&runPlain, "plain", false, "print events without styling")
	rootCmd.AddCommand(runCmd)
}

// printer serializes output from the feeder and the event loop goroutines
type printer struct {
	mu    sync.Mutex
	out   io.Writer
	plain bool
}

func (p *printer) line(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, s)
}

func (p *printer) step(i, total int, st script.Step) {
	p.line(ui.InfoStyle.Render(fmt.Sprintf("%s [%d/%d]", ui.IconStep, i+1, total)) + " " + ui.BoldStyle.Render(st.Name()))
}

func (p *printer) event(e event.Event) {
	if p.plain {
		p.line("   " + ui.FormatPlain(e))
		return
	}
	p.line("   " + ui.FormatEvent(e))
}

func runScenario(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext(cmd.Context())
	defer stop()

	if config.Get().Logging.FileLogging {
		logFile, err := logger.SetupFileLogging("RUN", true)
		if err != nil {
			return fmt.Errorf("failed to setup file logging: %w", err)
		}
		defer logFile.Close()
	}

	s, r, err := runFlags.openSession(ctx, args[0])
	if err != nil {
		return err
	}
	defer r.Close()

	p := &printer{out: cmd.OutOrStdout(), plain: runPlain}
	p.line(ui.FormatHeader(s.Name))
	r.OnStep(func(i int, st script.Step) { p.step(i, len(s.Steps), st) })
	if !runQuiet {
		r.OnEvent(p.event)
	}

	logger.Debug("Running scenario", "name", s.Name, "windows", len(s.Windows), "steps", len(s.Steps))
	if err := r.Run(ctx); err != nil {
		p.line(ui.FormatResult(false, s.Name, err.Error()))
		return err
	}
	p.line(ui.FormatResult(true, s.Name, fmt.Sprintf("%d steps passed", len(s.Steps))))
	return nil
}
