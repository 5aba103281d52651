// Package device finds the video devices attached to the host and how many
// inputs each of them exposes.
package device

import (
	"fmt"
)

// NativeName is how the dedicated camera module is named in device
// selectors and listings.
const NativeName = "picamera"

// Handle identifies a source that can be captured from: either the native
// camera module or an external video device named by its path.
type Handle struct {
	native bool
	path   string
}

// Native returns the handle of the native camera module.
func Native() Handle {
	return Handle{native: true}
}

// External returns the handle of the video device at path, eg /dev/video0.
func External(path string) Handle {
	return Handle{path: path}
}

// IsNative reports whether h is the native camera module.
func (h Handle) IsNative() bool {
	return h.native
}

// Path returns the device path. It is empty for the native module.
func (h Handle) Path() string {
	return h.path
}

func (h Handle) String() string {
	if h.native {
		return NativeName
	}
	return h.path
}

// VideoPath returns the path of video device number i.
func VideoPath(i int) string {
	return fmt.Sprintf("/dev/video%d", i)
}
