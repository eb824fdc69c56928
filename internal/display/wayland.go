package display

import (
	"context"
	"fmt"
	"sort"

	"github.com/rajveermalviya/go-wayland/wayland/client"

	"github.com/bnema/desktopkit/internal/event"
	"github.com/bnema/desktopkit/internal/logger"
)

// waylandProvider binds every wl_output global and collects its geometry,
// current mode and scale
type waylandProvider struct {
	display  *client.Display
	registry *client.Registry
	outputs  map[uint32]*waylandOutput
}

type waylandOutput struct {
	proxy *client.Output
	info  Output
	done  bool
}

func newWaylandProvider() (Provider, error) {
	display, err := client.Connect("")
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Wayland display: %w", err)
	}
	registry, err := display.GetRegistry()
	if err != nil {
		display.Context().Close()
		return nil, fmt.Errorf("failed to get registry: %w", err)
	}

	p := &waylandProvider{
		display:  display,
		registry: registry,
		outputs:  make(map[uint32]*waylandOutput),
	}
	registry.SetGlobalHandler(p.global)
	registry.SetGlobalRemoveHandler(func(e client.RegistryGlobalRemoveEvent) {
		delete(p.outputs, e.Name)
	})
	return p, nil
}

func (p *waylandProvider) Name() string { return "wayland" }

func (p *waylandProvider) global(e client.RegistryGlobalEvent) {
	if e.Interface != "wl_output" {
		return
	}
	version := min(e.Version, 4)
	out := client.NewOutput(p.display.Context())
	if err := p.registry.Bind(e.Name, e.Interface, version, out); err != nil {
		logger.Warnf("Failed to bind wl_output %d: %v", e.Name, err)
		return
	}

	o := &waylandOutput{proxy: out, info: Output{ID: e.Name, Scale: 1}}
	out.SetGeometryHandler(func(g client.OutputGeometryEvent) {
		o.info.X, o.info.Y = g.X, g.Y
		if o.info.Name == "" {
			o.info.Name = g.Model
		}
	})
	out.SetModeHandler(func(m client.OutputModeEvent) {
		if m.Flags&uint32(client.OutputModeCurrent) == 0 {
			return
		}
		o.info.Width, o.info.Height = m.Width, m.Height
		o.info.Millihertz = uint32(m.Refresh)
	})
	out.SetScaleHandler(func(s client.OutputScaleEvent) {
		o.info.Scale = float64(s.Factor)
	})
	out.SetNameHandler(func(n client.OutputNameEvent) {
		o.info.Name = n.Name
	})
	out.SetDoneHandler(func(client.OutputDoneEvent) {
		o.done = true
	})
	p.outputs[e.Name] = o
}

// roundtrip blocks until the compositor processed every request sent so far
func (p *waylandProvider) roundtrip(ctx context.Context) error {
	cb, err := p.display.Sync()
	if err != nil {
		return fmt.Errorf("failed to sync display: %w", err)
	}
	done := false
	cb.SetDoneHandler(func(client.CallbackDoneEvent) { done = true })
	for !done {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.display.Context().Dispatch(); err != nil {
			return fmt.Errorf("failed to dispatch: %w", err)
		}
	}
	return nil
}

// Screens does two roundtrips: the first announces the globals, the second
// delivers the output events of the outputs bound in between
func (p *waylandProvider) Screens(ctx context.Context) (event.AllScreens, error) {
	for range 2 {
		if err := p.roundtrip(ctx); err != nil {
			return event.AllScreens{}, err
		}
	}

	names := make([]uint32, 0, len(p.outputs))
	for name := range p.outputs {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	outputs := make([]Output, 0, len(names))
	for _, name := range names {
		o := p.outputs[name]
		if !o.done || o.info.Width == 0 || o.info.Height == 0 {
			logger.Debug("Skipping incomplete output", "name", o.info.Name, "global", name)
			continue
		}
		// wl_output positions are in the compositor's logical space
		info := o.info
		info.X = int32(float64(info.X) * info.Scale)
		info.Y = int32(float64(info.Y) * info.Scale)
		outputs = append(outputs, info)
	}
	return Screens(outputs), nil
}

func (p *waylandProvider) Close() error {
	for _, o := range p.outputs {
		if err := o.proxy.Release(); err != nil {
			logger.Debugf("Failed to release output: %v", err)
		}
	}
	return p.display.Context().Close()
}
