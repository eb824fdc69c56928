package script

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/desktopkit/internal/app"
	"github.com/bnema/desktopkit/internal/event"
	"github.com/bnema/desktopkit/internal/geometry"
	"github.com/bnema/desktopkit/internal/native"
)

func parse(t *testing.T, src string) *Scenario {
	t.Helper()
	s, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	return s
}

// play runs a scenario and returns the runner after the loop ended
func play(t *testing.T, src string) (*Runner, error) {
	t.Helper()
	r, err := NewRunner(parse(t, src), app.DefaultOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return r, r.Run(ctx)
}

func TestParse(t *testing.T) {
	s := parse(t, `
name: editing
toolkit:
  client_decorations: true
  screens:
    - {name: DP-1, width: 2560, height: 1440, scale: 2, refresh_hz: 144}
  settings:
    button-layout: "close:"
    double-click: "250"
windows:
  - {id: 1, title: Editor, width: 640, height: 480, rendering: software}
steps:
  - text_field: {window: 1, text: "hi"}
  - type: {window: 1, text: "!"}
  - expect_text: {window: 1, text: "hi!", cursor: 3}
`)
	assert.Equal(t, "editing", s.Name)
	require.Len(t, s.Steps, 3)
	assert.Equal(t, "text_field", s.Steps[0].Name())
	assert.Equal(t, 3, *s.Steps[2].ExpectText.Cursor)

	opts, err := s.Toolkit.HeadlessOptions()
	require.NoError(t, err)
	assert.True(t, opts.ClientDecorations)
	require.Len(t, opts.Screens, 1)
	assert.Equal(t, uint32(144000), opts.Screens[0].Millihertz)
	assert.Equal(t, "DP-1", *opts.Screens[0].Name)
	assert.Equal(t, []event.Setting{
		event.TitlebarLayout{Value: "close:"},
		event.DoubleClickInterval{Value: 250 * time.Millisecond},
	}, opts.Settings)

	params, err := s.Windows[0].Params()
	require.NoError(t, err)
	assert.Equal(t, event.RenderingSoftware, params.RenderingMode)
	assert.Equal(t, geometry.LogicalSize{Width: 640, Height: 480}, params.Size)
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "unknown field",
			src:  "steps:\n  - jump: {window: 1}\n",
			want: "jump",
		},
		{
			name: "two actions",
			src:  "steps:\n  - {move: {window: 1}, open_url: \"https://example.org\"}\n",
			want: "more than one action",
		},
		{
			name: "empty step",
			src:  "steps:\n  - {}\n",
			want: "no action",
		},
		{
			name: "terminate not last",
			src:  "steps:\n  - terminate: {}\n  - open_url: \"https://example.org\"\n",
			want: "terminate must be the last step",
		},
		{
			name: "bad setting",
			src:  "steps:\n  - setting: {key: double-click, value: soon}\n",
			want: "double-click",
		},
		{
			name: "unknown key",
			src:  "steps:\n  - key: {window: 1, key: hyperspace}\n",
			want: "unknown key",
		},
		{
			name: "duplicate window",
			src:  "windows:\n  - {id: 1}\n  - {id: 1}\n",
			want: "duplicate id",
		},
		{
			name: "bad resize edge",
			src:  "steps:\n  - action: {window: 1, name: resize, edge: middle}\n",
			want: "unknown resize edge",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.src))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidScenario)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		name  string
		sym   event.KeySym
		chars *string
	}{
		{"a", event.KeyA, event.StringPtr("a")},
		{"\u00e9", 0xe9, event.StringPtr("\u00e9")},
		{"\u306b", 0x0100306b, event.StringPtr("\u306b")},
		{"Backspace", event.KeyBackSpace, nil},
		{"up", event.KeyArrowUp, nil},
		{"down", event.KeyArrowDown, nil},
		{"space", event.KeySpace, event.StringPtr(" ")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sym, chars, err := parseKey(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.sym, sym)
			assert.Equal(t, tt.chars, chars)
		})
	}
}

func TestRunEditing(t *testing.T) {
	r, err := play(t, `
windows:
  - {id: 1, width: 640, height: 480}
steps:
  - focus: {window: 1, focused: true}
  - text_field: {window: 1, text: "existing "}
  - ime: {window: 1, available: true}
  - commit: {window: 1, text: "X"}
  - expect_text: {window: 1, text: "existing X", cursor: 10}
  - key: {window: 1, key: backspace}
  - type: {window: 1, text: "ok"}
  - expect_text: {window: 1, text: "existing ok", cursor: 11}
  - delete_surrounding: {window: 1, before: 3}
  - commit: {window: 1, text: "\u00e9"}
  - expect_text: {window: 1, text: "existing\u00e9", cursor: 10}
`)
	require.NoError(t, err)

	snap, ok := r.Toolkit().Window(1)
	require.True(t, ok)
	require.NotNil(t, snap.TextInput)
	assert.Equal(t, "existing\u00e9", snap.TextInput.SurroundingText)
	assert.Equal(t, uint16(9), snap.TextInput.CursorCodepointOffset)
}

func TestRunClipboard(t *testing.T) {
	_, err := play(t, `
steps:
  - clipboard_put: {text: hello}
  - paste: {serial: 3}
  - expect_paste: {text: hello}
  - external_selection: {text: theirs, mime_type: text/plain}
  - paste: {serial: 4, mime_types: [text/plain]}
  - expect_paste: {text: theirs}
  - external_selection: {clear: true}
  - paste: {serial: 5}
  - expect_paste: {empty: true}
`)
	require.NoError(t, err)
}

func TestRunDragAndDrop(t *testing.T) {
	_, err := play(t, `
windows:
  - {id: 1, width: 300, height: 200}
  - {id: 2, width: 300, height: 200}
steps:
  - external_drag: {text: dropped, actions: [copy, move]}
  - drag_over: {window: 2, x: 10, y: 10}
  - drop: {}
  - expect_drop: {text: dropped}
  - start_drag: {window: 1, text: ours}
  - drag_over: {window: 2, x: 20, y: 20}
  - drop: {}
  - expect_drop: {text: ours}
`)
	require.NoError(t, err)
}

func TestRunWindowChrome(t *testing.T) {
	r, err := play(t, `
toolkit:
  client_decorations: true
windows:
  - {id: 1, width: 640, height: 480}
  - {id: 2, width: 640, height: 480}
steps:
  - action: {window: 1, name: maximize}
  - expect_window: {window: 1, maximized: true}
  - action: {window: 1, name: title, title: Renamed}
  - expect_window: {window: 1, title: Renamed}
  - resize: {window: 2, width: 500, height: 400}
  - expect_window: {window: 2, width: 500, height: 400}
  - click: {window: 2, x: 470, y: 30}
  - expect_window: {window: 2, closed: true}
  - close_request: {window: 1}
  - expect_window: {window: 1, closed: true}
`)
	require.NoError(t, err)
	assert.Zero(t, r.App().Windows().Len())
}

func TestRunSettingsAndRequests(t *testing.T) {
	r, err := play(t, `
toolkit:
  file_chooser_answer: ["file:///tmp/a.txt"]
windows:
  - {id: 1}
steps:
  - setting: {key: double-click, value: "300"}
  - setting: {key: color-scheme, value: "1"}
  - notify: {title: Build, body: done}
  - activate_notification: {action: default, token: abc}
  - open_file: {window: 1}
  - save_file: {window: 1, name: out.txt}
  - open_url: https://example.org
`)
	require.NoError(t, err)

	snap := r.App().Settings()
	assert.Equal(t, 300*time.Millisecond, snap.DoubleClickInterval)
	assert.Equal(t, event.ColorSchemePreferDark, snap.ColorScheme)
	assert.Zero(t, r.App().Requests().Pending())
	assert.Equal(t, []string{"https://example.org"}, r.Toolkit().OpenedURLs())
}

func TestRunTerminate(t *testing.T) {
	var kinds []event.Kind
	r, err := NewRunner(parse(t, `
steps:
  - terminate: {veto: true}
  - terminate: {}
`), app.DefaultOptions())
	require.NoError(t, err)
	defer r.Close()
	r.OnEvent(func(e event.Event) { kinds = append(kinds, e.Kind()) })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, r.Run(ctx))
	assert.Contains(t, kinds, event.KindApplicationWillTerminate)
	assert.Contains(t, r.Toolkit().Acks(), native.Ack{Kind: event.KindApplicationWantsToTerminate, Consumed: true})
}

func TestRunFailedExpectation(t *testing.T) {
	_, err := play(t, `
windows:
  - {id: 1}
steps:
  - text_field: {window: 1, text: abc}
  - expect_text: {window: 1, text: abd}
`)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExpectation)
	assert.Contains(t, err.Error(), "step 2 (expect_text)")
}

func TestRunContractViolation(t *testing.T) {
	_, err := play(t, `
steps:
  - commit: {window: 9, text: x}
`)
	require.Error(t, err)
	assert.ErrorIs(t, err, app.ErrContractViolation)
}

func TestScreensFrom(t *testing.T) {
	name := "eDP-1"
	got := ScreensFrom(event.AllScreens{Screens: []event.Screen{
		{ID: 4, Name: &name, Origin: geometry.LogicalPoint{X: 0, Y: 0}, Size: geometry.LogicalSize{Width: 1280, Height: 800}, Scale: 2, Millihertz: 60000},
		{ID: 5, Origin: geometry.LogicalPoint{X: 1280, Y: 0}, Size: geometry.LogicalSize{Width: 1920, Height: 1080}, Scale: 1},
	}})
	assert.Equal(t, []ScreenConfig{
		{Name: "eDP-1", Width: 1280, Height: 800, Scale: 2, RefreshHz: 60},
		{X: 1280, Width: 1920, Height: 1080, Scale: 1},
	}, got)

	// round trip through the toolkit section renumbers screens from 1
	opts, err := ToolkitConfig{Screens: got}.HeadlessOptions()
	require.NoError(t, err)
	require.Len(t, opts.Screens, 2)
	assert.Equal(t, event.ScreenID(1), opts.Screens[0].ID)
	assert.Equal(t, uint32(60000), opts.Screens[0].Millihertz)
	assert.Nil(t, opts.Screens[1].Name)
}
