package wire

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/bnema/desktopkit/internal/event"
	"github.com/bnema/desktopkit/internal/geometry"
)

func TestEncodeDecode_Variants(t *testing.T) {
	name := "DP-1"
	notificationID := uint32(42)

	tests := []struct {
		name  string
		event event.Event
	}{
		{"application started", event.ApplicationStarted{}},
		{"display change", event.DisplayConfigurationChange{Screens: event.AllScreens{Screens: []event.Screen{
			{ID: 7, Name: &name, Origin: geometry.LogicalPoint{X: 1920}, Size: geometry.LogicalSize{Width: 1280, Height: 720}, Scale: 1.5, Millihertz: 60000},
		}}}},
		{"setting change", event.XdgDesktopSettingChange{Setting: event.DoubleClickInterval{Value: 400 * time.Millisecond}}},
		{"configure", event.WindowConfigure{
			WindowID:       3,
			Size:           geometry.LogicalSize{Width: 640, Height: 480},
			Active:         true,
			Maximized:      true,
			DecorationMode: event.DecorationServer,
			Capabilities:   event.WindowCapabilities{WindowMenu: true, Minimize: true},
		}},
		{"negative window id", event.WindowClosed{WindowID: -5}},
		{"keyboard enter", event.WindowKeyboardEnter{WindowID: 1, KeyCodes: []event.KeyCode{30, 31}, KeySyms: []event.KeySym{event.KeyA, 0x73}}},
		{"draw", event.WindowDraw{WindowID: 1, DrawData: event.DrawData{Framebuffer: 9}, Size: geometry.PhysicalSize{Width: 1280, Height: 960}, Scale: 2}},
		{"key down with text", event.KeyDown{WindowID: 1, KeyCode: 30, Characters: event.StringPtr("a"), Key: event.KeyA, Modifiers: event.ModShift, IsRepeat: true}},
		{"key down empty text", event.KeyDown{WindowID: 1, KeyCode: 30, Characters: event.StringPtr(""), Key: event.KeyA}},
		{"key up", event.KeyUp{WindowID: 1, KeyCode: 30, Key: event.KeyA, Modifiers: event.ModControl}},
		{"mouse dragged", event.MouseDragged{WindowID: 2, Button: event.ButtonLeft, LocationInWindow: geometry.LogicalPoint{X: 1.5, Y: -2}, Timestamp: 1234}},
		{"scroll", event.ScrollWheel{
			WindowID:   2,
			Timestamp:  99,
			Horizontal: event.ScrollData{Delta: -3.5, WheelValue120: -120, IsInverted: true},
			Vertical:   event.ScrollData{IsStop: true},
		}},
		{"text input", event.TextInput{
			WindowID:          1,
			Preedit:           &event.PreeditString{Text: event.StringPtr("ni"), CursorBeginBytes: -1, CursorEndBytes: -1},
			Commit:            &event.CommitString{Text: event.StringPtr("你")},
			DeleteSurrounding: &event.DeleteSurroundingText{BeforeBytes: 3, AfterBytes: 0},
		}},
		{"empty text input", event.TextInput{WindowID: 1}},
		{"data available", event.DataTransferAvailable{Source: event.SourcePrimarySelection, MimeTypes: []string{event.MimeText, event.MimeURIList}}},
		{"paste answered", event.DataTransfer{Serial: 7, Content: &event.DataTransferContent{MimeType: event.MimeText, Data: []byte("hi")}}},
		{"paste unanswered", event.DataTransfer{Serial: 8}},
		{"drop", event.DropPerformed{WindowID: 4, Content: &event.DataTransferContent{MimeType: event.MimeURIList, Data: []byte("file:///a")}, Action: event.ActionPtr(event.ActionMove)}},
		{"drag finished cancelled", event.DragAndDropFinished{WindowID: 4}},
		{"notification shown", event.NotificationShown{RequestID: 5, NotificationID: &notificationID}},
		{"notification failed", event.NotificationShown{RequestID: 6}},
		{"notification closed", event.NotificationClosed{NotificationID: 42, Action: event.StringPtr("default"), ActivationToken: event.StringPtr("tok")}},
		{"file chooser", event.FileChooserResponse{RequestID: 3, Files: []string{"file:///tmp/a%20b.txt"}}},
		{"file chooser cancelled", event.FileChooserResponse{RequestID: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Encode(tt.event)
			require.NoError(t, err)

			got, err := Decode(rec)
			require.NoError(t, err)
			assert.Equal(t, tt.event, got)
		})
	}
}

func TestDecode_PreservesCharacterPresence(t *testing.T) {
	rec, err := Encode(event.KeyDown{WindowID: 1, Key: event.KeyShiftL})
	require.NoError(t, err)

	got, err := Decode(rec)
	require.NoError(t, err)
	assert.Nil(t, got.(event.KeyDown).Characters)
}

func TestEncodeDecode_Settings(t *testing.T) {
	settings := []event.Setting{
		event.TitlebarLayout{Value: "icon:minimize,maximize,close"},
		event.ActionRightClickTitlebar{Value: event.TitlebarMenu},
		event.ColorScheme{Value: event.ColorSchemePreferDark},
		event.AccentColor{Value: event.Color{Red: 0.2, Green: 0.4, Blue: 0.6, Alpha: 1}},
		event.FontHinting{Value: event.HintingSlight},
		event.CursorSize{Value: 24},
		event.CursorTheme{Value: "Adwaita"},
		event.CursorBlink{Value: true},
		event.CursorBlinkTimeout{Value: 10 * time.Second},
		event.MiddleClickPaste{Value: false},
	}
	for _, s := range settings {
		t.Run(s.SettingKind().String(), func(t *testing.T) {
			rec, err := Encode(event.XdgDesktopSettingChange{Setting: s})
			require.NoError(t, err)

			got, err := Decode(rec)
			require.NoError(t, err)
			assert.Equal(t, s, got.(event.XdgDesktopSettingChange).Setting)
		})
	}
}

func rawRecord(tag uint64, payload []byte) []byte {
	var e encoder
	e.uint(fieldTag, tag)
	if payload != nil {
		e.bytes(fieldPayload, payload)
	}
	return e.b
}

func TestDecode_Errors(t *testing.T) {
	var badSource encoder
	badSource.uint(1, 9)

	var wrongType encoder
	wrongType.string(1, "not a window id")

	var keyUpText encoder
	keyUpText.sint(1, 1)
	keyUpText.string(3, "a")

	var badSetting encoder
	badSetting.message(1, func(m *encoder) { m.uint(settingKind, 200) })

	tests := []struct {
		name  string
		rec   []byte
		fatal error
	}{
		{"unknown tag", rawRecord(999, nil), ErrUnknownTag},
		{"zero tag", rawRecord(0, nil), ErrUnknownTag},
		{"missing tag", protowire.AppendTag(nil, fieldPayload, protowire.BytesType), ErrMalformed},
		{"truncated", []byte{0x08}, ErrMalformed},
		{"garbage payload", rawRecord(uint64(event.KindKeyDown), []byte{0xff, 0xff}), ErrMalformed},
		{"invalid data source", rawRecord(uint64(event.KindDataTransferCancelled), badSource.b), ErrMalformed},
		{"wrong wire type", rawRecord(uint64(event.KindWindowClosed), wrongType.b), ErrMalformed},
		{"key up with text", rawRecord(uint64(event.KindKeyUp), keyUpText.b), ErrMalformed},
		{"unknown setting", rawRecord(uint64(event.KindXdgDesktopSettingChange), badSetting.b), ErrUnknownTag},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.rec)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.fatal)
			assert.True(t, IsFatal(err))
			assert.Nil(t, got)
		})
	}
}

func TestDecode_MissingPayloadIsEmpty(t *testing.T) {
	got, err := Decode(rawRecord(uint64(event.KindApplicationStarted), nil))
	require.NoError(t, err)
	assert.Equal(t, event.ApplicationStarted{}, got)
}

func TestEncode_Rejects(t *testing.T) {
	_, err := Encode(nil)
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = Encode(event.XdgDesktopSettingChange{})
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestFraming(t *testing.T) {
	var buf bytes.Buffer
	events := []event.Event{
		event.ApplicationStarted{},
		event.MouseMoved{WindowID: 1, LocationInWindow: geometry.LogicalPoint{X: 10, Y: 20}, Timestamp: 5},
		event.ApplicationWillTerminate{},
	}
	for _, e := range events {
		require.NoError(t, WriteEvent(&buf, e))
	}

	for _, want := range events {
		got, err := ReadEvent(&buf)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ReadEvent(&buf)
	assert.ErrorIs(t, err, io.EOF)
}

func TestFraming_Errors(t *testing.T) {
	t.Run("truncated header", func(t *testing.T) {
		_, err := ReadRecord(bytes.NewReader([]byte{0, 0}))
		require.Error(t, err)
		assert.NotErrorIs(t, err, io.EOF)
	})

	t.Run("truncated body", func(t *testing.T) {
		_, err := ReadRecord(bytes.NewReader([]byte{0, 0, 0, 4, 1}))
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	})

	t.Run("oversized", func(t *testing.T) {
		_, err := ReadRecord(bytes.NewReader([]byte{0xff, 0xff, 0xff, 0xff}))
		assert.ErrorIs(t, err, ErrRecordTooLarge)
	})
}
