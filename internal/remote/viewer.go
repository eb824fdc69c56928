package remote

import tea "github.com/charmbracelet/bubbletea"

// relayMsg carries one broadcast message into a viewer's program
type relayMsg struct {
	msg tea.Msg
	ok  bool
}

// viewer feeds a monitor model from the broadcast channel
type viewer struct {
	inner tea.Model
	ch    <-chan tea.Msg
}

func newViewer(inner tea.Model, ch <-chan tea.Msg) viewer {
	return viewer{inner: inner, ch: ch}
}

func (v viewer) wait() tea.Msg {
	msg, ok := <-v.ch
	return relayMsg{msg: msg, ok: ok}
}

func (v viewer) Init() tea.Cmd {
	return tea.Batch(v.inner.Init(), v.wait)
}

func (v viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	r, ok := msg.(relayMsg)
	if !ok {
		var cmd tea.Cmd
		v.inner, cmd = v.inner.Update(msg)
		return v, cmd
	}
	if !r.ok {
		// the server went away
		return v, tea.Quit
	}
	var cmd tea.Cmd
	v.inner, cmd = v.inner.Update(r.msg)
	return v, tea.Batch(cmd, v.wait)
}

func (v viewer) View() string {
	return v.inner.View()
}
