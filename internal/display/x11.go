package display

import (
	"context"
	"fmt"
	"slices"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/bnema/desktopkit/internal/event"
)

// x11Provider reads CRTCs through the RandR extension
type x11Provider struct {
	conn *xgb.Conn
	root xproto.Window
}

func newX11Provider() (Provider, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}
	if err := randr.Init(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("randr init failed: %w", err)
	}
	root := xproto.Setup(conn).DefaultScreen(conn).Root
	return &x11Provider{conn: conn, root: root}, nil
}

func (p *x11Provider) Name() string { return "x11" }

func (p *x11Provider) Screens(ctx context.Context) (event.AllScreens, error) {
	outputs, err := p.outputs(ctx)
	if err != nil {
		return event.AllScreens{}, err
	}
	return Screens(outputs), nil
}

func (p *x11Provider) outputs(ctx context.Context) ([]Output, error) {
	resources, err := randr.GetScreenResources(p.conn, p.root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var primary randr.Output
	if reply, err := randr.GetOutputPrimary(p.conn, p.root).Reply(); err == nil {
		primary = reply.Output
	}

	var outputs []Output
	for _, crtc := range resources.Crtcs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		info, err := randr.GetCrtcInfo(p.conn, crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		o, ok := crtcOutput(info, resources.Modes, primary)
		if !ok {
			continue
		}
		if oi, err := randr.GetOutputInfo(p.conn, info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			o.Name = string(oi.Name)
		}
		outputs = append(outputs, o)
	}
	return outputs, nil
}

// crtcOutput describes an enabled CRTC. The screen takes the id of its first
// RandR output, which stays stable while CRTCs are reassigned.
func crtcOutput(info *randr.GetCrtcInfoReply, modes []randr.ModeInfo, primary randr.Output) (Output, bool) {
	if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
		return Output{}, false
	}
	o := Output{
		ID:         uint32(info.Outputs[0]),
		Name:       fmt.Sprintf("Output%d", info.Outputs[0]),
		X:          int32(info.X),
		Y:          int32(info.Y),
		Width:      int32(info.Width),
		Height:     int32(info.Height),
		Scale:      1,
		Millihertz: refreshOf(modes, info.Mode),
	}
	o.Primary = primary != 0 && slices.Contains(info.Outputs, primary)
	return o, true
}

// refreshOf computes the refresh rate of a mode in millihertz
func refreshOf(modes []randr.ModeInfo, id randr.Mode) uint32 {
	for _, m := range modes {
		if randr.Mode(m.Id) != id || m.Htotal == 0 || m.Vtotal == 0 {
			continue
		}
		return uint32(uint64(m.DotClock) * 1000 / (uint64(m.Htotal) * uint64(m.Vtotal)))
	}
	return 0
}

func (p *x11Provider) Close() error {
	p.conn.Close()
	return nil
}
