package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKind_NamesCoverEveryVariant(t *testing.T) {
	for k := KindApplicationStarted; k < kindEnd; k++ {
		assert.True(t, k.Valid())
		assert.NotEmpty(t, kindNames[k], "kind %d has no name", k)
	}
	assert.False(t, Kind(0).Valid())
	assert.False(t, kindEnd.Valid())
	assert.Equal(t, "Kind(999)", Kind(999).String())
}

func TestWindowEvent_Scoping(t *testing.T) {
	scoped := []Event{
		WindowConfigure{WindowID: 1},
		KeyDown{WindowID: 1},
		MouseDragged{WindowID: 1},
		TextInput{WindowID: 1},
		DropPerformed{WindowID: 1},
	}
	for _, e := range scoped {
		we, ok := e.(WindowEvent)
		if assert.True(t, ok, "%s should be window scoped", e.Kind()) {
			assert.Equal(t, WindowID(1), we.Window())
		}
	}

	global := []Event{
		ApplicationStarted{},
		DataTransfer{Serial: 1},
		DataTransferAvailable{},
		NotificationShown{},
		DragIconDraw{},
	}
	for _, e := range global {
		_, ok := e.(WindowEvent)
		assert.False(t, ok, "%s should not be window scoped", e.Kind())
	}
}

func TestKeySym_IsModifierKey(t *testing.T) {
	tests := []struct {
		key  KeySym
		want bool
	}{
		{KeyShiftL, true},
		{KeyControlR, true},
		{KeySuperL, true},
		{KeyHyperR, true},
		{KeyISOLevel3, true},
		{KeyNumLock, true},
		{KeyModeSwitch, true},
		{KeyA, false},
		{KeyReturn, false},
		{KeyF1, false},
		{KeyArrowUp, false},
		{KeyArrowDown, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.key.IsModifierKey(), "keysym %#x", uint32(tt.key))
	}
}

func TestModifiers(t *testing.T) {
	m := ModControl.With(ModShift)
	assert.True(t, m.Has(ModControl))
	assert.True(t, m.Has(ModControl|ModShift))
	assert.False(t, m.Has(ModAlt))
	assert.Equal(t, "shift+ctrl", m.String())
	assert.Equal(t, ModShift, m.Without(ModControl))
	assert.Equal(t, ModControl, ModControl.With(ModNumLock).Shortcut())
	assert.Equal(t, ModControl|ModLogo, ParseModifiers("Ctrl+Super"))
	assert.Equal(t, "none", Modifiers(0).String())
}

func TestDragActions(t *testing.T) {
	s := ActionsOf(ActionCopy, ActionMove)
	assert.True(t, s.Has(ActionCopy))
	assert.Equal(t, []DragAction{ActionCopy, ActionMove}, s.List())
	assert.Equal(t, "copy|move", s.String())
	assert.Equal(t, "none", DragActions(0).String())
}

func TestTimestamp_Sub(t *testing.T) {
	assert.Equal(t, 250*time.Millisecond, Timestamp(1250).Sub(1000))
	assert.Equal(t, -10*time.Millisecond, Timestamp(990).Sub(1000))
}

func TestAllScreens_Lookup(t *testing.T) {
	screens := AllScreens{Screens: []Screen{
		{ID: 1, Size: sizeOf(1920, 1080), Scale: 1},
		{ID: 2, Origin: pointOf(1920, 0), Size: sizeOf(2560, 1440), Scale: 2},
	}}

	s, ok := screens.FindByID(2)
	assert.True(t, ok)
	assert.Equal(t, 2.0, s.Scale)

	s, ok = screens.At(pointOf(1920, 10))
	assert.True(t, ok)
	assert.Equal(t, ScreenID(2), s.ID)

	_, ok = screens.FindByID(3)
	assert.False(t, ok)
}
