package ime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/desktopkit/internal/event"
)

func commit(s string) *event.CommitString {
	return &event.CommitString{Text: &s}
}

func TestBufferApplyOrder(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		cursor      int
		input       event.TextInput
		wantText    string
		wantCursor  int
		wantChanged bool
	}{
		{
			name:        "commit at cursor",
			text:        "existing ",
			cursor:      9,
			input:       event.TextInput{Commit: commit("X")},
			wantText:    "existing X",
			wantCursor:  10,
			wantChanged: true,
		},
		{
			name:        "delete before then commit",
			text:        "existing ",
			cursor:      9,
			input:       event.TextInput{DeleteSurrounding: &event.DeleteSurroundingText{BeforeBytes: 4}, Commit: commit("ed")},
			wantText:    "existed",
			wantCursor:  7,
			wantChanged: true,
		},
		{
			name:        "delete after",
			text:        "abcdef",
			cursor:      2,
			input:       event.TextInput{DeleteSurrounding: &event.DeleteSurroundingText{AfterBytes: 2}},
			wantText:    "abef",
			wantCursor:  2,
			wantChanged: true,
		},
		{
			name:        "delete clamped to buffer",
			text:        "ab",
			cursor:      1,
			input:       event.TextInput{DeleteSurrounding: &event.DeleteSurroundingText{BeforeBytes: 10, AfterBytes: 10}},
			wantText:    "",
			wantCursor:  0,
			wantChanged: true,
		},
		{
			name:        "delete snaps to rune boundaries",
			text:        "a\u00e9",
			cursor:      3,
			input:       event.TextInput{DeleteSurrounding: &event.DeleteSurroundingText{BeforeBytes: 1}},
			wantText:    "a",
			wantCursor:  1,
			wantChanged: true,
		},
		{
			name:       "preedit only",
			text:       "abc",
			cursor:     3,
			input:      event.TextInput{Preedit: &event.PreeditString{Text: event.StringPtr("ni"), CursorBeginBytes: 2, CursorEndBytes: 2}},
			wantText:   "abc",
			wantCursor: 3,
		},
		{
			name:       "nil commit text",
			text:       "abc",
			cursor:     1,
			input:      event.TextInput{Commit: &event.CommitString{}},
			wantText:   "abc",
			wantCursor: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuffer(tt.text)
			b.SetCursor(tt.cursor)
			changed := b.Apply(tt.input)
			assert.Equal(t, tt.wantChanged, changed)
			assert.Equal(t, tt.wantText, b.Text())
			assert.Equal(t, tt.wantCursor, b.Cursor())
		})
	}
}

func TestBufferPreedit(t *testing.T) {
	b := NewBuffer("")
	b.Apply(event.TextInput{Preedit: &event.PreeditString{Text: event.StringPtr("に"), CursorBeginBytes: -1, CursorEndBytes: -1}})
	p, ok := b.Preedit()
	require.True(t, ok)
	assert.Equal(t, "に", p.Text)
	assert.True(t, p.CursorHidden())

	// the next event without a preedit clears it
	b.Apply(event.TextInput{Commit: commit("に")})
	_, ok = b.Preedit()
	assert.False(t, ok)
	assert.Equal(t, "に", b.Text())
}

func TestBufferEditing(t *testing.T) {
	// "e" + combining acute is one grapheme cluster
	b := NewBuffer("ae\u0301\U0001F44D")
	b.MoveLeft(false)
	assert.Equal(t, 4, b.Cursor())
	b.MoveLeft(false)
	assert.Equal(t, 1, b.Cursor())
	b.MoveRight(true)
	assert.Equal(t, "e\u0301", b.SelectedText())

	b.Insert("x")
	assert.Equal(t, "ax\U0001F44D", b.Text())
	assert.Equal(t, 2, b.Cursor())

	b.End(false)
	assert.True(t, b.Backspace())
	assert.Equal(t, "ax", b.Text())

	b.Home(false)
	assert.False(t, b.Backspace())
	assert.True(t, b.DeleteForward())
	assert.Equal(t, "x", b.Text())

	b.SelectAll()
	assert.True(t, b.DeleteSelection())
	assert.Equal(t, "", b.Text())
	assert.False(t, b.DeleteForward())
}

func TestOffsets(t *testing.T) {
	s := "a\u00e9\U0001F44Db"
	// bytes: a=0 é=1..2 👍=3..6 b=7
	assert.Equal(t, 0, UTF8ToUTF16(s, 0))
	assert.Equal(t, 2, UTF8ToUTF16(s, 3))
	assert.Equal(t, 4, UTF8ToUTF16(s, 7))
	assert.Equal(t, 5, UTF8ToUTF16(s, 100))

	assert.Equal(t, 3, UTF16ToUTF8(s, 2))
	assert.Equal(t, 3, UTF16ToUTF8(s, 3), "inside a surrogate pair")
	assert.Equal(t, 7, UTF16ToUTF8(s, 4))
	assert.Equal(t, len(s), UTF16ToUTF8(s, 99))

	assert.Equal(t, 3, CodepointOffset(s, 7))
	assert.Equal(t, 7, ByteOffset(s, 3))
	assert.Equal(t, len(s), ByteOffset(s, 10))
}

type fakeTextInput struct {
	enabled  []event.TextInputContext
	updates  []event.TextInputContext
	disabled int
}

func (f *fakeTextInput) TextInputEnable(_ event.WindowID, ctx event.TextInputContext) error {
	f.enabled = append(f.enabled, ctx)
	return nil
}

func (f *fakeTextInput) TextInputUpdate(_ event.WindowID, ctx event.TextInputContext) error {
	f.updates = append(f.updates, ctx)
	return nil
}

func (f *fakeTextInput) TextInputDisable(event.WindowID) error {
	f.disabled++
	return nil
}

func TestSession(t *testing.T) {
	tk := &fakeTextInput{}
	s := NewSession(tk, 1)

	assert.ErrorIs(t, s.Enable(), ErrNoFocusedField)
	assert.ErrorIs(t, s.OnTextInput(event.TextInput{Commit: commit("x")}), ErrNoFocusedField)

	// availability before focus only records it
	require.NoError(t, s.OnAvailability(event.TextInputAvailability{WindowID: 1, Available: true}))
	assert.Empty(t, tk.enabled)

	field := &Field{Buffer: NewBuffer("existing "), Purpose: event.PurposeNormal}
	require.NoError(t, s.Focus(field))
	require.Len(t, tk.enabled, 1)
	assert.Equal(t, "existing ", tk.enabled[0].SurroundingText)
	assert.Equal(t, uint16(9), tk.enabled[0].CursorCodepointOffset)
	assert.True(t, s.Enabled())

	require.NoError(t, s.OnTextInput(event.TextInput{Commit: commit("\u00e9")}))
	require.Len(t, tk.updates, 1)
	assert.Equal(t, "existing \u00e9", tk.updates[0].SurroundingText)
	assert.Equal(t, uint16(10), tk.updates[0].CursorCodepointOffset)
	assert.True(t, tk.updates[0].ChangeCausedByInputMethod)

	// preedit alone does not push an update
	require.NoError(t, s.OnTextInput(event.TextInput{Preedit: &event.PreeditString{Text: event.StringPtr("a")}}))
	assert.Len(t, tk.updates, 1)

	field.Buffer.Insert("!")
	require.NoError(t, s.Edited())
	require.Len(t, tk.updates, 2)
	assert.False(t, tk.updates[1].ChangeCausedByInputMethod)

	require.NoError(t, s.OnAvailability(event.TextInputAvailability{WindowID: 1, Available: false}))
	assert.Equal(t, 1, tk.disabled)
	assert.False(t, s.Enabled())

	require.NoError(t, s.Blur())
	assert.Equal(t, 1, tk.disabled)
}
