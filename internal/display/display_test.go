package display

import (
	"context"
	"errors"
	"testing"

	"github.com/BurntSushi/xgb/randr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/desktopkit/internal/event"
	"github.com/bnema/desktopkit/internal/geometry"
)

func TestScreens(t *testing.T) {
	tests := []struct {
		name    string
		outputs []Output
		wantIDs []event.ScreenID
	}{
		{
			name:    "empty",
			wantIDs: []event.ScreenID{},
		},
		{
			name: "origin output becomes primary",
			outputs: []Output{
				{ID: 1, X: 1920, Width: 1920, Height: 1080},
				{ID: 2, X: 0, Width: 1920, Height: 1080},
			},
			wantIDs: []event.ScreenID{2, 1},
		},
		{
			name: "explicit primary wins",
			outputs: []Output{
				{ID: 1, X: 0, Width: 1920, Height: 1080},
				{ID: 2, X: 1920, Width: 1920, Height: 1080, Primary: true},
				{ID: 3, X: 0, Y: 1080, Width: 1920, Height: 1080},
			},
			wantIDs: []event.ScreenID{2, 1, 3},
		},
		{
			name: "first output without one at the origin",
			outputs: []Output{
				{ID: 5, X: 100, Y: 0, Width: 800, Height: 600},
				{ID: 4, X: 10, Y: 0, Width: 800, Height: 600},
			},
			wantIDs: []event.ScreenID{5, 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			all := Screens(tt.outputs)
			ids := make([]event.ScreenID, 0, len(all.Screens))
			for _, s := range all.Screens {
				ids = append(ids, s.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestScreensScale(t *testing.T) {
	all := Screens([]Output{
		{ID: 1, Name: "eDP-1", X: 0, Y: 0, Width: 2880, Height: 1800, Scale: 2, Millihertz: 120000},
		{ID: 2, X: 2880, Y: 0, Width: 1920, Height: 1080},
	})
	require.Len(t, all.Screens, 2)

	laptop := all.Screens[0]
	require.NotNil(t, laptop.Name)
	assert.Equal(t, "eDP-1", *laptop.Name)
	assert.Equal(t, geometry.LogicalSize{Width: 1440, Height: 900}, laptop.Size)
	assert.Equal(t, 2.0, laptop.Scale)
	assert.Equal(t, uint32(120000), laptop.Millihertz)

	external := all.Screens[1]
	assert.Nil(t, external.Name)
	assert.Equal(t, 1.0, external.Scale, "unknown scale defaults to 1")
	assert.Equal(t, geometry.LogicalPoint{X: 2880, Y: 0}, external.Origin)
}

type fakeProvider struct{ name string }

func (f fakeProvider) Name() string { return f.name }
func (f fakeProvider) Screens(context.Context) (event.AllScreens, error) {
	return event.AllScreens{}, nil
}
func (f fakeProvider) Close() error { return nil }

func TestFirst(t *testing.T) {
	broken := errors.New("no socket")
	p, err := first(
		named{"a", func() (Provider, error) { return nil, broken }},
		named{"b", func() (Provider, error) { return fakeProvider{"b"}, nil }},
	)
	require.NoError(t, err)
	assert.Equal(t, "b", p.Name())

	_, err = first(named{"a", func() (Provider, error) { return nil, broken }})
	assert.ErrorIs(t, err, ErrNoProvider)
	assert.ErrorIs(t, err, broken)
}

func TestCrtcOutput(t *testing.T) {
	modes := []randr.ModeInfo{{Id: 7, DotClock: 148500000, Htotal: 2200, Vtotal: 1125}}

	tests := []struct {
		name    string
		info    randr.GetCrtcInfoReply
		primary randr.Output
		want    Output
		ok      bool
	}{
		{
			name:    "takes the id of the first output",
			info:    randr.GetCrtcInfoReply{X: 1920, Width: 1920, Height: 1080, Mode: 7, Outputs: []randr.Output{66, 67}},
			primary: 67,
			want: Output{
				ID: 66, Name: "Output66", X: 1920, Width: 1920, Height: 1080,
				Scale: 1, Millihertz: 60000, Primary: true,
			},
			ok: true,
		},
		{
			name: "no primary output",
			info: randr.GetCrtcInfoReply{Width: 800, Height: 600, Mode: 9, Outputs: []randr.Output{3}},
			want: Output{ID: 3, Name: "Output3", Width: 800, Height: 600, Scale: 1},
			ok:   true,
		},
		{
			name: "disabled crtc",
			info: randr.GetCrtcInfoReply{Mode: 7, Outputs: []randr.Output{66}},
		},
		{
			name: "crtc without outputs",
			info: randr.GetCrtcInfoReply{Width: 800, Height: 600},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := crtcOutput(&tt.info, modes, tt.primary)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
