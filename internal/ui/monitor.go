package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/desktopkit/internal/event"
)

// EventMsg delivers an event the application handled
type EventMsg struct {
	Event event.Event
	At    time.Time
}

// StepMsg announces the scenario step about to run
type StepMsg struct {
	Index int
	Name  string
}

// DoneMsg ends the session. Err is nil when the scenario passed.
type DoneMsg struct {
	Err error
}

var monitorControls = ControlsHelp{Controls: []Control{
	{Key: "q", Desc: "quit"},
	{Key: "g/G", Desc: "top/bottom"},
	{Key: "f", Desc: "follow"},
	{Key: "?", Desc: "help"},
}}

// MonitorModel is the full-screen event monitor
type MonitorModel struct {
	title string
	steps int

	viewport viewport.Model
	spinner  spinner.Model
	ready    bool

	windowWidth  int
	windowHeight int

	lines   []string
	maxLogs int
	counts  map[Category]int
	step    StepMsg
	follow  bool
	help    bool
	done    bool
	err     error

	headerStyle lipgloss.Style
	statusStyle lipgloss.Style
}

// NewMonitorModel creates a monitor for a scenario with the given number of steps
func NewMonitorModel(title string, steps int) *MonitorModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	return &MonitorModel{
		title:   title,
		steps:   steps,
		spinner: s,
		maxLogs: 5000,
		counts:  make(map[Category]int),
		follow:  true,
		headerStyle: lipgloss.NewStyle().
			Bold(true).
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230")).
			Padding(0, 1),
		statusStyle: lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255")).
			Padding(0, 1),
	}
}

func (m *MonitorModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tea.EnterAltScreen)
}

func (m *MonitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		// header and status line take two lines each
		height := max(msg.Height-4, 1)
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.viewport.YPosition = 2
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		m.refresh()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "g":
			m.follow = false
			m.viewport.GotoTop()
		case "G":
			m.follow = true
			m.viewport.GotoBottom()
		case "f":
			m.follow = !m.follow
		case "?":
			m.help = !m.help
		}

	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case EventMsg:
		m.counts[CategoryOf(msg.Event.Kind())]++
		m.add(SubtleStyle.Render(msg.At.Format("15:04:05.000")) + " " + FormatEvent(msg.Event))

	case StepMsg:
		m.step = msg
		m.add(InfoStyle.Render(fmt.Sprintf("%s step %d/%d", IconStep, msg.Index+1, m.steps)) + " " + BoldStyle.Render(msg.Name))

	case DoneMsg:
		m.done = true
		m.err = msg.Err
		if msg.Err != nil {
			m.add(FormatResult(false, "scenario", msg.Err.Error()))
		} else {
			m.add(FormatResult(true, "scenario", "passed"))
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *MonitorModel) add(line string) {
	m.lines = append(m.lines, line)
	if len(m.lines) > m.maxLogs {
		m.lines = m.lines[len(m.lines)-m.maxLogs:]
	}
	m.refresh()
}

func (m *MonitorModel) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderLines())
	if m.follow {
		m.viewport.GotoBottom()
	}
}

// Err is the scenario result once DoneMsg arrived
func (m *MonitorModel) Err() error { return m.err }

// Done reports whether the scenario finished
func (m *MonitorModel) Done() bool { return m.done }

func (m *MonitorModel) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	if m.help {
		help := monitorControls
		help.Width = min(m.windowWidth, 60)
		b.WriteString(lipgloss.Place(m.windowWidth, m.viewport.Height, lipgloss.Center, lipgloss.Center, help.View()))
	} else {
		b.WriteString(m.viewport.View())
	}
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m *MonitorModel) renderHeader() string {
	title := m.headerStyle.Width(m.windowWidth).Render("DESKTOPKIT MONITOR - " + m.title)

	var state string
	switch {
	case m.done && m.err != nil:
		state = FormatStatus(false, "failed")
	case m.done:
		state = FormatStatus(false, "finished")
	default:
		state = m.spinner.View() + " running"
	}
	parts := []string{state}
	if m.steps > 0 {
		parts = append(parts, fmt.Sprintf("step %d/%d", min(m.step.Index+1, m.steps), m.steps))
	}
	for c := CategoryApplication; c <= CategoryRequest; c++ {
		if n := m.counts[c]; n > 0 {
			parts = append(parts, lipgloss.NewStyle().Foreground(c.Color()).Render(fmt.Sprintf("%s %d", c, n)))
		}
	}
	return title + "\n" + m.statusStyle.Width(m.windowWidth).Render(strings.Join(parts, " │ "))
}

func (m *MonitorModel) renderStatusBar() string {
	follow := "follow off"
	if m.follow {
		follow = "follow on"
	}
	status := strings.Join([]string{
		fmt.Sprintf("%d/%d", min(m.viewport.YOffset+m.viewport.Height, len(m.lines)), len(m.lines)),
		follow,
		monitorControls.Short(),
	}, " │ ")
	return lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("240")).
		Width(m.windowWidth).
		Padding(0, 1).
		Render(status)
}

func (m *MonitorModel) renderLines() string {
	if len(m.lines) == 0 {
		return MutedStyle.Italic(true).Render("  Waiting for events...")
	}
	return strings.Join(m.lines, "\n")
}
