// Package display reads the screen layout from the running desktop. It backs
// the screens command and seeds the headless toolkit with the real layout.
package display

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/bnema/desktopkit/internal/event"
	"github.com/bnema/desktopkit/internal/geometry"
	"github.com/bnema/desktopkit/internal/logger"
)

// ErrNoProvider is returned when no display server could be reached
var ErrNoProvider = errors.New("no display provider available")

// Provider lists the screens of one kind of display server
type Provider interface {
	Name() string
	Screens(ctx context.Context) (event.AllScreens, error)
	Close() error
}

// Output is a monitor as display servers describe it, in physical pixels
type Output struct {
	ID         uint32
	Name       string
	X, Y       int32
	Width      int32
	Height     int32
	Scale      float64
	Millihertz uint32
	Primary    bool
}

// New connects to the first display server that answers. Wayland is tried
// before X11 so XWayland is only used as a fallback, unless the session says
// it is an X11 session.
func New() (Provider, error) {
	wl := named{"wayland", newWaylandProvider}
	x := named{"x11", newX11Provider}
	if sessionType() == "x11" {
		return first(x, wl)
	}
	return first(wl, x)
}

type named struct {
	name string
	open func() (Provider, error)
}

func first(candidates ...named) (Provider, error) {
	var errs []error
	for _, c := range candidates {
		logger.Debugf("Display: trying %s provider", c.name)
		p, err := c.open()
		if err == nil {
			logger.Debugf("Display: using %s provider", c.name)
			return p, nil
		}
		logger.Debugf("Display: %s provider failed: %v", c.name, err)
		errs = append(errs, fmt.Errorf("%s: %w", c.name, err))
	}
	return nil, fmt.Errorf("%w: %w", ErrNoProvider, errors.Join(errs...))
}

// Screens converts outputs into a screen snapshot. Sizes and origins become
// logical by dividing by the output scale. The primary output comes first,
// then outputs in position order.
func Screens(outputs []Output) event.AllScreens {
	outputs = slices.Clone(outputs)
	markPrimary(outputs)
	slices.SortStableFunc(outputs, func(a, b Output) int {
		switch {
		case a.Primary != b.Primary:
			if a.Primary {
				return -1
			}
			return 1
		case a.Y != b.Y:
			return int(a.Y - b.Y)
		default:
			return int(a.X - b.X)
		}
	})

	all := event.AllScreens{Screens: make([]event.Screen, 0, len(outputs))}
	for _, o := range outputs {
		scale := o.Scale
		if scale <= 0 {
			scale = 1
		}
		origin := geometry.PhysicalPoint{X: o.X, Y: o.Y}.ToLogical(scale)
		size := geometry.PhysicalSize{Width: o.Width, Height: o.Height}.ToLogical(scale)
		s := event.Screen{
			ID:         event.ScreenID(o.ID),
			Origin:     origin,
			Size:       size,
			Scale:      scale,
			Millihertz: o.Millihertz,
		}
		if o.Name != "" {
			name := o.Name
			s.Name = &name
		}
		all.Screens = append(all.Screens, s)
	}
	return all
}

// markPrimary keeps an explicit primary. Otherwise the output at the origin
// is primary, falling back to the first one.
func markPrimary(outputs []Output) {
	if slices.ContainsFunc(outputs, func(o Output) bool { return o.Primary }) {
		return
	}
	for i := range outputs {
		if outputs[i].X == 0 && outputs[i].Y == 0 {
			outputs[i].Primary = true
			return
		}
	}
	if len(outputs) > 0 {
		outputs[0].Primary = true
	}
}

func sessionType() string {
	return os.Getenv("XDG_SESSION_TYPE")
}
