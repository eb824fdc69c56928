package event

import (
	"fmt"
	"time"
)

// WindowID is chosen by the application when it creates a window and must be
// unique among live windows.
type WindowID int64

// ScreenID is assigned by the toolkit and stays stable while the screen exists
type ScreenID uint64

// RequestID correlates an asynchronous request with its completion event.
// Zero means no request.
type RequestID uint32

// NoRequest is the zero RequestID
const NoRequest RequestID = 0

// Valid reports whether the id refers to a request
func (r RequestID) Valid() bool {
	return r != NoRequest
}

// Timestamp counts milliseconds since an arbitrary point in the past.
// It is only meaningful when compared with another Timestamp.
type Timestamp uint32

// Sub returns the duration between two timestamps
func (t Timestamp) Sub(earlier Timestamp) time.Duration {
	return time.Duration(int64(t)-int64(earlier)) * time.Millisecond
}

func (t Timestamp) String() string {
	return fmt.Sprintf("t+%dms", uint32(t))
}
