// Package script reads YAML scenarios that drive an application session
// against the headless toolkit: windows to open, then a list of steps that
// simulate the user, the compositor and the input method, interleaved with
// expectations on the resulting state.
package script

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bnema/desktopkit/internal/event"
	"github.com/bnema/desktopkit/internal/geometry"
	"github.com/bnema/desktopkit/internal/native"
	"github.com/bnema/desktopkit/internal/settings"
)

var (
	// ErrInvalidScenario is returned for scenarios that fail validation
	ErrInvalidScenario = errors.New("invalid scenario")
	// ErrExpectation is returned when an expect step does not hold
	ErrExpectation = errors.New("expectation failed")
)

// Scenario is the root of a scenario file
type Scenario struct {
	Name    string         `yaml:"name"`
	Toolkit ToolkitConfig  `yaml:"toolkit"`
	Windows []WindowConfig `yaml:"windows"`
	Steps   []Step         `yaml:"steps"`
}

// ToolkitConfig configures the simulated desktop
type ToolkitConfig struct {
	Screens           []ScreenConfig    `yaml:"screens"`
	Settings          map[string]string `yaml:"settings"`
	ClientDecorations bool              `yaml:"client_decorations"`
	DenyNotifications bool              `yaml:"deny_notifications"`
	FileChooserAnswer []string          `yaml:"file_chooser_answer"`
	IgnorePastes      bool              `yaml:"ignore_pastes"`
}

type ScreenConfig struct {
	Name      string  `yaml:"name"`
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height"`
	Scale     float64 `yaml:"scale"`
	RefreshHz float64 `yaml:"refresh_hz"`
}

// ScreensFrom describes a screen snapshot as scenario screens, so a session
// can run against the layout of the host
func ScreensFrom(all event.AllScreens) []ScreenConfig {
	out := make([]ScreenConfig, 0, len(all.Screens))
	for _, sc := range all.Screens {
		c := ScreenConfig{
			X:         sc.Origin.X,
			Y:         sc.Origin.Y,
			Width:     sc.Size.Width,
			Height:    sc.Size.Height,
			Scale:     sc.Scale,
			RefreshHz: float64(sc.Millihertz) / 1000,
		}
		if sc.Name != nil {
			c.Name = *sc.Name
		}
		out = append(out, c)
	}
	return out
}

type WindowConfig struct {
	ID                int64   `yaml:"id"`
	AppID             string  `yaml:"app_id"`
	Title             string  `yaml:"title"`
	Width             float64 `yaml:"width"`
	Height            float64 `yaml:"height"`
	MinWidth          float64 `yaml:"min_width"`
	MinHeight         float64 `yaml:"min_height"`
	ClientDecorations bool    `yaml:"client_decorations"`
	Rendering         string  `yaml:"rendering"`
}

// Step is one scenario action. Exactly one field is set.
type Step struct {
	Key               *KeyStep          `yaml:"key,omitempty"`
	Type              *TypeStep         `yaml:"type,omitempty"`
	Click             *PointerStep      `yaml:"click,omitempty"`
	Move              *PointerStep      `yaml:"move,omitempty"`
	Drag              *DragStep         `yaml:"drag,omitempty"`
	Focus             *FocusStep        `yaml:"focus,omitempty"`
	TextField         *TextFieldStep    `yaml:"text_field,omitempty"`
	IME               *IMEStep          `yaml:"ime,omitempty"`
	Commit            *TextStep         `yaml:"commit,omitempty"`
	Preedit           *PreeditStep      `yaml:"preedit,omitempty"`
	DeleteSurrounding *DeleteStep       `yaml:"delete_surrounding,omitempty"`
	ClipboardPut      *ContentStep      `yaml:"clipboard_put,omitempty"`
	Paste             *PasteStep        `yaml:"paste,omitempty"`
	ExternalSelection *SelectionStep    `yaml:"external_selection,omitempty"`
	StartDrag         *StartDragStep    `yaml:"start_drag,omitempty"`
	ExternalDrag      *ExternalDragStep `yaml:"external_drag,omitempty"`
	DragOver          *PointerStep      `yaml:"drag_over,omitempty"`
	Drop              *struct{}         `yaml:"drop,omitempty"`
	CancelDrag        *struct{}         `yaml:"cancel_drag,omitempty"`
	Setting           *SettingStep      `yaml:"setting,omitempty"`
	Action            *ActionStep       `yaml:"action,omitempty"`
	Resize            *ResizeStep       `yaml:"resize,omitempty"`
	Decorations       *DecorationsStep  `yaml:"decorations,omitempty"`
	CloseRequest      *WindowRef        `yaml:"close_request,omitempty"`
	Notify            *NotifyStep       `yaml:"notify,omitempty"`
	ActivateNotice    *ActivateStep     `yaml:"activate_notification,omitempty"`
	OpenFile          *WindowRef        `yaml:"open_file,omitempty"`
	SaveFile          *SaveFileStep     `yaml:"save_file,omitempty"`
	OpenURL           *string           `yaml:"open_url,omitempty"`
	Terminate         *TerminateStep    `yaml:"terminate,omitempty"`
	ExpectText        *ExpectTextStep   `yaml:"expect_text,omitempty"`
	ExpectWindow      *ExpectWindowStep `yaml:"expect_window,omitempty"`
	ExpectPaste       *ExpectPasteStep  `yaml:"expect_paste,omitempty"`
	ExpectDrop        *ExpectPasteStep  `yaml:"expect_drop,omitempty"`
}

type WindowRef struct {
	Window int64 `yaml:"window"`
}

type KeyStep struct {
	Window    int64  `yaml:"window"`
	Key       string `yaml:"key"`
	Modifiers string `yaml:"modifiers"`
}

type TypeStep struct {
	Window int64  `yaml:"window"`
	Text   string `yaml:"text"`
}

type PointerStep struct {
	Window int64   `yaml:"window"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Button string  `yaml:"button"`
	Count  int     `yaml:"count"`
}

// DragStep presses at From, moves to To and releases
type DragStep struct {
	Window int64      `yaml:"window"`
	From   [2]float64 `yaml:"from"`
	To     [2]float64 `yaml:"to"`
	Button string     `yaml:"button"`
}

type FocusStep struct {
	Window  int64 `yaml:"window"`
	Focused bool  `yaml:"focused"`
}

type TextFieldStep struct {
	Window  int64  `yaml:"window"`
	Text    string `yaml:"text"`
	Purpose string `yaml:"purpose"`
	Blur    bool   `yaml:"blur"`
}

type IMEStep struct {
	Window    int64 `yaml:"window"`
	Available bool  `yaml:"available"`
}

type TextStep struct {
	Window int64  `yaml:"window"`
	Text   string `yaml:"text"`
}

type PreeditStep struct {
	Window      int64  `yaml:"window"`
	Text        string `yaml:"text"`
	CursorBegin int32  `yaml:"cursor_begin"`
	CursorEnd   int32  `yaml:"cursor_end"`
}

type DeleteStep struct {
	Window int64  `yaml:"window"`
	Before uint32 `yaml:"before"`
	After  uint32 `yaml:"after"`
}

// ContentStep offers text to a selection. Source defaults to the clipboard.
type ContentStep struct {
	Source   string `yaml:"source"`
	Text     string `yaml:"text"`
	MimeType string `yaml:"mime_type"`
}

type PasteStep struct {
	Source    string   `yaml:"source"`
	Serial    int32    `yaml:"serial"`
	MimeTypes []string `yaml:"mime_types"`
}

type SelectionStep struct {
	Source   string `yaml:"source"`
	Text     string `yaml:"text"`
	MimeType string `yaml:"mime_type"`
	Clear    bool   `yaml:"clear"`
}

type StartDragStep struct {
	Window   int64    `yaml:"window"`
	Text     string   `yaml:"text"`
	MimeType string   `yaml:"mime_type"`
	Actions  []string `yaml:"actions"`
}

type ExternalDragStep struct {
	Text     string   `yaml:"text"`
	MimeType string   `yaml:"mime_type"`
	Actions  []string `yaml:"actions"`
}

// SettingStep announces a desktop setting by its portal key
type SettingStep struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

// ActionStep runs a window action: minimize, maximize, fullscreen, menu, move,
// resize (with Edge) or title (with Title)
type ActionStep struct {
	Window int64  `yaml:"window"`
	Name   string `yaml:"name"`
	Title  string `yaml:"title"`
	Edge   string `yaml:"edge"`
}

type ResizeStep struct {
	Window int64   `yaml:"window"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type DecorationsStep struct {
	Window int64  `yaml:"window"`
	Mode   string `yaml:"mode"`
}

type NotifyStep struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

// ActivateStep clicks the most recent notification
type ActivateStep struct {
	Action string `yaml:"action"`
	Token  string `yaml:"token"`
}

type SaveFileStep struct {
	Window int64  `yaml:"window"`
	Name   string `yaml:"name"`
}

// TerminateStep asks the application to quit. With Veto the handler refuses.
type TerminateStep struct {
	Veto bool `yaml:"veto"`
}

type ExpectTextStep struct {
	Window int64  `yaml:"window"`
	Text   string `yaml:"text"`
	Cursor *int   `yaml:"cursor"`
}

type ExpectWindowStep struct {
	Window     int64    `yaml:"window"`
	Closed     *bool    `yaml:"closed"`
	Maximized  *bool    `yaml:"maximized"`
	Fullscreen *bool    `yaml:"fullscreen"`
	Title      *string  `yaml:"title"`
	Width      *float64 `yaml:"width"`
	Height     *float64 `yaml:"height"`
}

// ExpectPasteStep checks the latest paste or drop. Empty means no content.
type ExpectPasteStep struct {
	Text  string `yaml:"text"`
	Empty bool   `yaml:"empty"`
}

// Name returns the key of the action set on s, or "" when none is
func (s Step) Name() string {
	names := s.set()
	if len(names) != 1 {
		return ""
	}
	return names[0]
}

func (s Step) set() []string {
	fields := []struct {
		name string
		set  bool
	}{
		{"key", s.Key != nil},
		{"type", s.Type != nil},
		{"click", s.Click != nil},
		{"move", s.Move != nil},
		{"drag", s.Drag != nil},
		{"focus", s.Focus != nil},
		{"text_field", s.TextField != nil},
		{"ime", s.IME != nil},
		{"commit", s.Commit != nil},
		{"preedit", s.Preedit != nil},
		{"delete_surrounding", s.DeleteSurrounding != nil},
		{"clipboard_put", s.ClipboardPut != nil},
		{"paste", s.Paste != nil},
		{"external_selection", s.ExternalSelection != nil},
		{"start_drag", s.StartDrag != nil},
		{"external_drag", s.ExternalDrag != nil},
		{"drag_over", s.DragOver != nil},
		{"drop", s.Drop != nil},
		{"cancel_drag", s.CancelDrag != nil},
		{"setting", s.Setting != nil},
		{"action", s.Action != nil},
		{"resize", s.Resize != nil},
		{"decorations", s.Decorations != nil},
		{"close_request", s.CloseRequest != nil},
		{"notify", s.Notify != nil},
		{"activate_notification", s.ActivateNotice != nil},
		{"open_file", s.OpenFile != nil},
		{"save_file", s.SaveFile != nil},
		{"open_url", s.OpenURL != nil},
		{"terminate", s.Terminate != nil},
		{"expect_text", s.ExpectText != nil},
		{"expect_window", s.ExpectWindow != nil},
		{"expect_paste", s.ExpectPaste != nil},
		{"expect_drop", s.ExpectDrop != nil},
	}
	var names []string
	for _, f := range fields {
		if f.set {
			names = append(names, f.name)
		}
	}
	return names
}

// Load reads and validates a scenario file
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	s, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a scenario. Unknown fields are rejected.
func Parse(r io.Reader) (*Scenario, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Scenario
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the parts of a scenario that can be checked without running it
func (s *Scenario) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	for i, sc := range s.Toolkit.Screens {
		if sc.Width <= 0 || sc.Height <= 0 {
			fail("screen %d: size must be positive", i)
		}
		if sc.Scale < 0 {
			fail("screen %d: negative scale", i)
		}
	}
	for key, value := range s.Toolkit.Settings {
		if _, err := settings.Parse(key, value); err != nil {
			fail("setting %s: %v", key, err)
		}
	}

	ids := make(map[int64]bool)
	for i, w := range s.Windows {
		if ids[w.ID] {
			fail("window %d: duplicate id %d", i, w.ID)
		}
		ids[w.ID] = true
		if w.Width < 0 || w.Height < 0 {
			fail("window %d: negative size", w.ID)
		}
		if _, err := event.ParseRenderingMode(w.Rendering); err != nil {
			fail("window %d: %v", w.ID, err)
		}
	}

	for i, st := range s.Steps {
		names := st.set()
		switch len(names) {
		case 0:
			fail("step %d: no action", i+1)
			continue
		case 1:
		default:
			fail("step %d: more than one action: %s", i+1, strings.Join(names, ", "))
			continue
		}
		if err := st.validate(); err != nil {
			fail("step %d (%s): %v", i+1, names[0], err)
		}
		if st.Terminate != nil && !st.Terminate.Veto && i != len(s.Steps)-1 {
			fail("step %d: terminate must be the last step", i+1)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidScenario, errors.Join(errs...))
	}
	return nil
}

func (s Step) validate() error {
	switch {
	case s.Key != nil:
		_, _, err := parseKey(s.Key.Key)
		return err
	case s.Click != nil:
		_, err := parseButton(s.Click.Button)
		return err
	case s.Drag != nil:
		_, err := parseButton(s.Drag.Button)
		return err
	case s.TextField != nil:
		_, err := parsePurpose(s.TextField.Purpose)
		return err
	case s.ClipboardPut != nil:
		_, err := parseSource(s.ClipboardPut.Source)
		return err
	case s.Paste != nil:
		_, err := parseSource(s.Paste.Source)
		return err
	case s.ExternalSelection != nil:
		_, err := parseSource(s.ExternalSelection.Source)
		return err
	case s.StartDrag != nil:
		_, err := parseActions(s.StartDrag.Actions)
		return err
	case s.ExternalDrag != nil:
		_, err := parseActions(s.ExternalDrag.Actions)
		return err
	case s.Setting != nil:
		_, err := settings.Parse(s.Setting.Key, s.Setting.Value)
		return err
	case s.Action != nil:
		return validateAction(*s.Action)
	case s.Decorations != nil:
		_, err := parseDecoration(s.Decorations.Mode)
		return err
	case s.Resize != nil:
		_, err := geometry.NewLogicalSize(s.Resize.Width, s.Resize.Height)
		return err
	}
	return nil
}

// HeadlessOptions converts the toolkit section
func (c ToolkitConfig) HeadlessOptions() (native.HeadlessOptions, error) {
	opts := native.HeadlessOptions{
		ClientDecorations: c.ClientDecorations,
		DenyNotifications: c.DenyNotifications,
		FileChooserAnswer: c.FileChooserAnswer,
		IgnorePastes:      c.IgnorePastes,
	}
	for i, sc := range c.Screens {
		scale := sc.Scale
		if scale == 0 {
			scale = 1
		}
		screen := event.Screen{
			ID:         event.ScreenID(i + 1),
			Origin:     geometry.LogicalPoint{X: sc.X, Y: sc.Y},
			Size:       geometry.LogicalSize{Width: sc.Width, Height: sc.Height},
			Scale:      scale,
			Millihertz: uint32(sc.RefreshHz * 1000),
		}
		if sc.Name != "" {
			screen.Name = event.StringPtr(sc.Name)
		}
		opts.Screens = append(opts.Screens, screen)
	}
	for _, key := range sortedKeys(c.Settings) {
		s, err := settings.Parse(key, c.Settings[key])
		if err != nil {
			return opts, err
		}
		opts.Settings = append(opts.Settings, s)
	}
	return opts, nil
}

// Params converts a window section
func (w WindowConfig) Params() (event.WindowParams, error) {
	mode, err := event.ParseRenderingMode(w.Rendering)
	if err != nil {
		return event.WindowParams{}, err
	}
	return event.WindowParams{
		WindowID:                   event.WindowID(w.ID),
		AppID:                      w.AppID,
		Title:                      w.Title,
		Size:                       geometry.LogicalSize{Width: w.Width, Height: w.Height},
		MinSize:                    geometry.LogicalSize{Width: w.MinWidth, Height: w.MinHeight},
		PreferClientSideDecoration: w.ClientDecorations,
		RenderingMode:              mode,
	}, nil
}
