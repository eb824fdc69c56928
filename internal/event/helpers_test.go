package event

import "github.com/bnema/desktopkit/internal/geometry"

func pointOf(x, y float64) geometry.LogicalPoint {
	return geometry.LogicalPoint{X: x, Y: y}
}

func sizeOf(w, h float64) geometry.LogicalSize {
	return geometry.LogicalSize{Width: w, Height: h}
}
