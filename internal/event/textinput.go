package event

import "github.com/bnema/desktopkit/internal/geometry"

// PreeditString is uncommitted composition text. The cursor positions are byte
// offsets into Text; both equal to -1 means no visible cursor.
type PreeditString struct {
	Text             *string
	CursorBeginBytes int32
	CursorEndBytes   int32
}

// CursorHidden reports whether the input method asked to hide the cursor
func (p PreeditString) CursorHidden() bool {
	return p.CursorBeginBytes == -1 && p.CursorEndBytes == -1
}

// CommitString is text finalized into the document
type CommitString struct {
	Text *string
}

// DeleteSurroundingText removes UTF-8 bytes around the cursor
type DeleteSurroundingText struct {
	BeforeBytes uint32
	AfterBytes  uint32
}

// ContentHint is a bit set of input method hints
type ContentHint uint8

const (
	HintWordCompletion ContentHint = 1 << iota
	HintSpellcheck
	HintLowercase
	HintUppercaseChars
	HintUppercaseWords
	HintUppercaseSentences
)

// ContentPurpose describes what the text field contains
type ContentPurpose uint8

const (
	PurposeNormal ContentPurpose = iota
	PurposeAlpha
	PurposeDigits
	PurposeNumber
	PurposePhone
	PurposeURL
	PurposeEmail
	PurposeName
	PurposePassword
	PurposePin
	PurposeTerminal
)

// TextInputContext is pushed to the input method whenever the focused text changes
type TextInputContext struct {
	SurroundingText               string
	CursorCodepointOffset         uint16
	SelectionStartCodepointOffset uint16
	Hints                         ContentHint
	ContentPurpose                ContentPurpose
	CursorRectangle               geometry.LogicalRect
	ChangeCausedByInputMethod     bool
}

// StringPtr is a helper for optional string fields
func StringPtr(s string) *string {
	return &s
}
