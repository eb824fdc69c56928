package event

import "fmt"

// MouseButton uses the Linux input-event-code numbering
type MouseButton uint32

const (
	ButtonLeft    MouseButton = 0x110
	ButtonRight   MouseButton = 0x111
	ButtonMiddle  MouseButton = 0x112
	ButtonSide    MouseButton = 0x113
	ButtonExtra   MouseButton = 0x114
	ButtonForward MouseButton = 0x115
	ButtonBack    MouseButton = 0x116
)

func (b MouseButton) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	case ButtonMiddle:
		return "middle"
	case ButtonSide:
		return "side"
	case ButtonExtra:
		return "extra"
	case ButtonForward:
		return "forward"
	case ButtonBack:
		return "back"
	default:
		return fmt.Sprintf("button(%#x)", uint32(b))
	}
}

// ScrollData describes one scroll axis
type ScrollData struct {
	Delta float64
	// WheelValue120 is the high resolution wheel value, 120 per detent
	WheelValue120 int32
	IsInverted    bool
	// IsStop marks the end of a kinetic scroll sequence
	IsStop bool
}
