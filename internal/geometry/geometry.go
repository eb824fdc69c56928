// Package geometry provides DPI-independent (logical) and pixel-exact (physical)
// coordinates and the scale conversions between them.
package geometry

import (
	"errors"
	"fmt"
	"math"
)

// ErrNegativeSize is returned when a logical size has a negative dimension
var ErrNegativeSize = errors.New("size dimensions must not be negative")

// LogicalPixels are floating point, scale independent units
type LogicalPixels = float64

// PhysicalPixels are device pixels
type PhysicalPixels = int32

// LogicalPoint is a point in logical coordinates
type LogicalPoint struct {
	X LogicalPixels
	Y LogicalPixels
}

// Zero is the origin
var Zero = LogicalPoint{}

// Add returns p translated by o
func (p LogicalPoint) Add(o LogicalPoint) LogicalPoint {
	return LogicalPoint{X: p.X + o.X, Y: p.Y + o.Y}
}

// Sub returns p - o
func (p LogicalPoint) Sub(o LogicalPoint) LogicalPoint {
	return LogicalPoint{X: p.X - o.X, Y: p.Y - o.Y}
}

// ToPhysical converts the point to device pixels, rounding to the nearest pixel
func (p LogicalPoint) ToPhysical(scale float64) PhysicalPoint {
	return PhysicalPoint{X: toPhysical(p.X, scale), Y: toPhysical(p.Y, scale)}
}

func (p LogicalPoint) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// LogicalSize is a non-negative size in logical coordinates
type LogicalSize struct {
	Width  LogicalPixels
	Height LogicalPixels
}

// NewLogicalSize returns a size or ErrNegativeSize
func NewLogicalSize(width, height LogicalPixels) (LogicalSize, error) {
	s := LogicalSize{Width: width, Height: height}
	if err := s.Validate(); err != nil {
		return LogicalSize{}, err
	}
	return s, nil
}

// Validate checks the non-negative invariant for sizes built as literals
func (s LogicalSize) Validate() error {
	if s.Width < 0 || s.Height < 0 {
		return fmt.Errorf("%w: %gx%g", ErrNegativeSize, s.Width, s.Height)
	}
	return nil
}

// ToPhysical converts the size to device pixels
func (s LogicalSize) ToPhysical(scale float64) PhysicalSize {
	return PhysicalSize{Width: toPhysical(s.Width, scale), Height: toPhysical(s.Height, scale)}
}

func (s LogicalSize) String() string {
	return fmt.Sprintf("%gx%g", s.Width, s.Height)
}

// LogicalRect is an axis aligned rectangle
type LogicalRect struct {
	Origin LogicalPoint
	Size   LogicalSize
}

// Rect builds a rectangle from its components
func Rect(x, y, width, height LogicalPixels) LogicalRect {
	return LogicalRect{Origin: LogicalPoint{X: x, Y: y}, Size: LogicalSize{Width: width, Height: height}}
}

// Contains reports whether p lies strictly inside r; points on the boundary are outside.
func (r LogicalRect) Contains(p LogicalPoint) bool {
	return p.X > r.Origin.X &&
		p.X < r.Origin.X+r.Size.Width &&
		p.Y > r.Origin.Y &&
		p.Y < r.Origin.Y+r.Size.Height
}

// Max returns the bottom right corner
func (r LogicalRect) Max() LogicalPoint {
	return LogicalPoint{X: r.Origin.X + r.Size.Width, Y: r.Origin.Y + r.Size.Height}
}

// Empty reports whether the rectangle has no area
func (r LogicalRect) Empty() bool {
	return r.Size.Width <= 0 || r.Size.Height <= 0
}

func (r LogicalRect) String() string {
	return fmt.Sprintf("[%s %s]", r.Origin, r.Size)
}

// PhysicalPoint is a point in device pixels
type PhysicalPoint struct {
	X PhysicalPixels
	Y PhysicalPixels
}

// ToLogical converts back to logical coordinates
func (p PhysicalPoint) ToLogical(scale float64) LogicalPoint {
	return LogicalPoint{X: float64(p.X) / scale, Y: float64(p.Y) / scale}
}

// PhysicalSize is a size in device pixels
type PhysicalSize struct {
	Width  PhysicalPixels
	Height PhysicalPixels
}

// ToLogical converts back to logical coordinates
func (s PhysicalSize) ToLogical(scale float64) LogicalSize {
	return LogicalSize{Width: float64(s.Width) / scale, Height: float64(s.Height) / scale}
}

func (s PhysicalSize) String() string {
	return fmt.Sprintf("%dx%dpx", s.Width, s.Height)
}

func toPhysical(v LogicalPixels, scale float64) PhysicalPixels {
	return PhysicalPixels(math.Round(v * scale))
}
