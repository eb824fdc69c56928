package event

import "github.com/bnema/desktopkit/internal/geometry"

// Screen is a snapshot of one display
type Screen struct {
	ID     ScreenID
	Name   *string
	Origin geometry.LogicalPoint
	Size   geometry.LogicalSize
	Scale  float64
	// Millihertz is the refresh rate in mHz, 0 when unknown
	Millihertz uint32
}

// AllScreens is rebuilt wholesale on every display configuration change
type AllScreens struct {
	Screens []Screen
}

// FindByID returns the screen with the given id
func (a AllScreens) FindByID(id ScreenID) (Screen, bool) {
	for _, s := range a.Screens {
		if s.ID == id {
			return s, true
		}
	}
	return Screen{}, false
}

// At returns the screen containing p. Unlike LogicalRect.Contains the top-left
// edge is inside.
func (a AllScreens) At(p geometry.LogicalPoint) (Screen, bool) {
	for _, s := range a.Screens {
		max := geometry.LogicalRect{Origin: s.Origin, Size: s.Size}.Max()
		if p.X >= s.Origin.X && p.Y >= s.Origin.Y && p.X < max.X && p.Y < max.Y {
			return s, true
		}
	}
	return Screen{}, false
}
