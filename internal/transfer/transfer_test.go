package transfer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/desktopkit/internal/event"
	"github.com/bnema/desktopkit/internal/geometry"
)

func text(mime, s string) event.DataTransferContent {
	return event.DataTransferContent{MimeType: mime, Data: []byte(s)}
}

func TestOffers_Supersede(t *testing.T) {
	o := NewOffers()

	first, prev := o.Put(event.SourceClipboard, text(event.MimeText, "one"))
	assert.Nil(t, prev)

	second, prev := o.Put(event.SourceClipboard, text(event.MimeText, "two"), text(event.MimeTextPlain, "two"), text(event.MimeText, "dup"))
	require.NotNil(t, prev)
	assert.Equal(t, first.Generation, prev.Generation)
	assert.Greater(t, second.Generation, first.Generation)
	assert.Equal(t, []string{event.MimeText, event.MimeTextPlain}, second.MimeTypes())

	assert.Equal(t, []byte("two"), o.Data(event.SourceClipboard, event.MimeText))
	assert.Nil(t, o.Data(event.SourceClipboard, event.MimePNG))
	assert.Nil(t, o.Data(event.SourcePrimarySelection, event.MimeText))

	_, ok := o.Cancel(event.SourceClipboard)
	assert.True(t, ok)
	assert.Nil(t, o.Data(event.SourceClipboard, event.MimeText))
}

func TestPastes_ResolveExactlyOnce(t *testing.T) {
	p := NewPastes(time.Second)

	_, err := p.Begin(event.SourceClipboard, 7, []string{event.MimeText})
	require.NoError(t, err)

	_, err = p.Begin(event.SourceClipboard, 7, []string{event.MimeText})
	assert.ErrorIs(t, err, ErrDuplicateSerial)

	pp, err := p.Resolve(event.DataTransfer{Serial: 7})
	require.NoError(t, err)
	assert.Equal(t, int32(7), pp.Serial)
	assert.Equal(t, 0, p.Pending())

	_, err = p.Resolve(event.DataTransfer{Serial: 7})
	assert.ErrorIs(t, err, ErrAlreadyResolved)

	_, err = p.Resolve(event.DataTransfer{Serial: 8})
	assert.ErrorIs(t, err, ErrUnexpectedAnswer)

	// a resolved serial can be reused
	_, err = p.Begin(event.SourcePrimarySelection, 7, nil)
	assert.NoError(t, err)
}

func TestPastes_CancelAndExpire(t *testing.T) {
	p := NewPastes(time.Second)
	base := time.Unix(1000, 0)
	p.now = func() time.Time { return base }

	_, _ = p.Begin(event.SourceClipboard, 1, nil)
	_, _ = p.Begin(event.SourcePrimarySelection, 2, nil)
	_, _ = p.Begin(event.SourceClipboard, 3, nil)

	cancelled := p.Cancel(event.SourceClipboard)
	require.Len(t, cancelled, 2)
	assert.Equal(t, int32(1), cancelled[0].Serial)
	assert.Equal(t, int32(3), cancelled[1].Serial)

	assert.Empty(t, p.Expire(base.Add(500*time.Millisecond)))
	expired := p.Expire(base.Add(time.Second))
	require.Len(t, expired, 1)
	assert.Equal(t, int32(2), expired[0].Serial)
	assert.Equal(t, 0, p.Pending())

	// late answers to abandoned pastes are stale, not unexpected
	for _, serial := range []int32{1, 2, 3} {
		_, err := p.Resolve(event.DataTransfer{Serial: serial})
		assert.ErrorIs(t, err, ErrStaleAnswer, "serial %d", serial)
	}
	_, err := p.Resolve(event.DataTransfer{Serial: 2})
	assert.ErrorIs(t, err, ErrAlreadyResolved)
}

func TestPastes_SettledIsBounded(t *testing.T) {
	p := NewPastes(time.Second)
	for serial := int32(0); serial < maxSettled+50; serial++ {
		_, err := p.Begin(event.SourceClipboard, serial, nil)
		require.NoError(t, err)
		_, err = p.Resolve(event.DataTransfer{Serial: serial})
		require.NoError(t, err)
	}
	assert.Equal(t, maxSettled, p.Settled())

	// the oldest serials were forgotten
	_, err := p.Resolve(event.DataTransfer{Serial: 0})
	assert.ErrorIs(t, err, ErrUnexpectedAnswer)
	_, err = p.Resolve(event.DataTransfer{Serial: maxSettled + 49})
	assert.ErrorIs(t, err, ErrAlreadyResolved)

	// reusing a remembered serial does not grow the record
	_, err = p.Begin(event.SourceClipboard, maxSettled+49, nil)
	require.NoError(t, err)
	assert.Equal(t, maxSettled-1, p.Settled())
}

func TestDropPolicy_QueryIsIdempotent(t *testing.T) {
	policy := DropPolicy{
		MimeTypes: []string{event.MimeURIList, event.MimeText},
		Actions:   event.ActionsOf(event.ActionCopy, event.ActionMove),
		Preferred: event.ActionPtr(event.ActionMove),
		Regions: map[event.WindowID]geometry.LogicalRect{
			2: geometry.Rect(0, 0, 100, 100),
		},
	}
	q := event.DragAndDropQueryData{WindowID: 1, LocationInWindow: geometry.LogicalPoint{X: 5, Y: 5}}

	first := policy.Query(q)
	second := policy.Query(q)
	assert.Equal(t, first, second)
	require.Len(t, first.SupportedActionsPerMime, 2)
	assert.Equal(t, event.MimeURIList, first.SupportedActionsPerMime[0].MimeType)

	// mutating a response does not leak into later queries
	*first.SupportedActionsPerMime[0].Preferred = event.ActionCopy
	assert.Equal(t, event.ActionMove, *policy.Query(q).SupportedActionsPerMime[0].Preferred)

	inside := policy.Query(event.DragAndDropQueryData{WindowID: 2, LocationInWindow: geometry.LogicalPoint{X: 50, Y: 50}})
	assert.Len(t, inside.SupportedActionsPerMime, 2)
	edge := policy.Query(event.DragAndDropQueryData{WindowID: 2, LocationInWindow: geometry.LogicalPoint{X: 0, Y: 0}})
	assert.Empty(t, edge.SupportedActionsPerMime)
}

func TestNegotiate(t *testing.T) {
	copyMove := event.ActionsOf(event.ActionCopy, event.ActionMove)
	resp := event.DragAndDropQueryResponse{SupportedActionsPerMime: []event.SupportedActionsForMime{
		{MimeType: event.MimePNG, Supported: copyMove},
		{MimeType: event.MimeURIList, Supported: copyMove, Preferred: event.ActionPtr(event.ActionMove)},
		{MimeType: event.MimeText, Supported: event.ActionsOf(event.ActionCopy)},
	}}

	tests := []struct {
		name    string
		offered []string
		allowed event.DragActions
		want    Negotiation
		ok      bool
	}{
		{"preferred action", []string{event.MimeText, event.MimeURIList}, copyMove, Negotiation{event.MimeURIList, event.ActionMove}, true},
		{"preferred not allowed", []string{event.MimeURIList}, event.ActionsOf(event.ActionCopy), Negotiation{event.MimeURIList, event.ActionCopy}, true},
		{"first offered entry wins", []string{event.MimeText, event.MimePNG}, copyMove, Negotiation{event.MimePNG, event.ActionCopy}, true},
		{"move only", []string{event.MimeText, event.MimeURIList}, event.ActionsOf(event.ActionMove), Negotiation{event.MimeURIList, event.ActionMove}, true},
		{"no common action", []string{event.MimeText}, event.ActionsOf(event.ActionMove), Negotiation{}, false},
		{"nothing offered", []string{"application/x-custom"}, copyMove, Negotiation{}, false},
		{"no action allowed", []string{event.MimeText}, 0, Negotiation{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Negotiate(resp, tt.offered, tt.allowed)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchPaste(t *testing.T) {
	mt, ok := MatchPaste([]string{event.MimePNG, event.MimeText}, []string{event.MimeText, event.MimePNG})
	assert.True(t, ok)
	assert.Equal(t, event.MimePNG, mt)

	_, ok = MatchPaste([]string{event.MimeText}, nil)
	assert.False(t, ok)
}

func TestSession_Apply(t *testing.T) {
	s := NewSession(time.Second, DropPolicy{MimeTypes: []string{event.MimeText}, Actions: event.ActionsOf(event.ActionCopy)})

	_, err := s.Apply(event.DataTransferAvailable{Source: event.SourceClipboard, MimeTypes: []string{event.MimeText}})
	require.NoError(t, err)
	assert.Equal(t, []string{event.MimeText}, s.Available(event.SourceClipboard))

	_, err = s.Pastes.Begin(event.SourceClipboard, 7, []string{event.MimeText})
	require.NoError(t, err)
	res, err := s.Apply(event.DataTransfer{Serial: 7})
	require.NoError(t, err)
	require.NotNil(t, res.Paste)
	assert.Equal(t, int32(7), res.Paste.Serial)

	_, err = s.Apply(event.DataTransfer{Serial: 7})
	assert.ErrorIs(t, err, ErrAlreadyResolved)

	s.Put(event.SourcePrimarySelection, text(event.MimeText, "sel"))
	_, _ = s.Pastes.Begin(event.SourcePrimarySelection, 9, nil)
	res, err = s.Apply(event.DataTransferCancelled{Source: event.SourcePrimarySelection})
	require.NoError(t, err)
	assert.Len(t, res.Cancelled, 1)
	assert.Nil(t, s.Data(event.SourcePrimarySelection, event.MimeText))
}

func TestSession_PutSupersedesPendingPastes(t *testing.T) {
	s := NewSession(time.Second, DropPolicy{})
	s.Put(event.SourceClipboard, text(event.MimeText, "a"))
	_, _ = s.Pastes.Begin(event.SourceClipboard, 1, nil)

	_, cancelled := s.Put(event.SourceClipboard, text(event.MimeText, "b"))
	assert.Len(t, cancelled, 1)
	assert.Equal(t, []byte("b"), s.Data(event.SourceClipboard, event.MimeText))
}

func TestSession_DragState(t *testing.T) {
	s := NewSession(time.Second, DropPolicy{MimeTypes: []string{event.MimeText}, Actions: event.ActionsOf(event.ActionCopy)})

	q := event.DragAndDropQueryData{WindowID: 1}
	first := s.Query(q)
	assert.Equal(t, first, s.Query(q), "queries leave no trace")
	assert.Equal(t, event.MimeText, first.SupportedActionsPerMime[0].MimeType)
	assert.False(t, s.Dragging(1))

	s.BeginDrag(2, text(event.MimeText, "drag"))
	assert.True(t, s.Dragging(2))
	assert.Equal(t, []byte("drag"), s.Data(event.SourceDragAndDrop, event.MimeText))
	_, err := s.Apply(event.DragAndDropFinished{WindowID: 2, Action: event.ActionPtr(event.ActionCopy)})
	require.NoError(t, err)
	assert.False(t, s.Dragging(2))

	_, err = s.Apply(event.DragAndDropFinished{WindowID: 2})
	assert.ErrorIs(t, err, ErrNoDrag)
}
