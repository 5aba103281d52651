// Package native owns the dedicated camera module of the host, a camera that
// is captured in process instead of through the external capture tool.
//
// There is one module per process. It is acquired once at startup, handed to
// whoever captures, and released once at shutdown.
package native

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// ErrReleased is returned when capturing from a module that is not available,
// either because it was never acquired or because it was released.
var ErrReleased = errors.New("native camera module not available")

// Camera captures still images in process.
type Camera interface {
	// CaptureTo writes one JPEG image to path.
	CaptureTo(path string) error

	// Close releases the camera device.
	Close() error
}

// Module is the handle on the native camera module. A nil *Module, or one
// whose camera failed to open or was released, is unavailable.
type Module struct {
	cam  Camera
	path string
}

// New returns an available module wrapping cam. Path is the device node the
// camera was opened on, if any, so it can be told apart from external devices.
func New(cam Camera, path string) *Module {
	return &Module{cam: cam, path: path}
}

// Acquire opens the camera module described by opts. Failure is not an
// error: the module is returned unavailable and the reason is logged.
func Acquire(ctx context.Context, opts Opts) *Module {
	log := zerolog.Ctx(ctx)
	if !opts.Enabled {
		log.Debug().Msg("native camera module disabled")
		return &Module{}
	}
	cam, path, err := OpenWebcam(opts)
	if err != nil {
		log.Info().Err(err).Msg("native camera module unavailable")
		return &Module{}
	}
	log.Debug().Str("device", path).Msg("native camera module acquired")
	return New(cam, path)
}

// Available reports whether the module can capture.
func (m *Module) Available() bool {
	return m != nil && m.cam != nil
}

// Path returns the device node of the module, empty when unknown or
// unavailable.
func (m *Module) Path() string {
	if !m.Available() {
		return ""
	}
	return m.path
}

// CaptureTo writes one JPEG image to path.
func (m *Module) CaptureTo(path string) error {
	if !m.Available() {
		return ErrReleased
	}
	return m.cam.CaptureTo(path)
}

// Release closes the camera. The module is unavailable afterwards. Releasing
// an unavailable module does nothing.
func (m *Module) Release() error {
	if !m.Available() {
		return nil
	}
	cam := m.cam
	m.cam = nil
	return cam.Close()
}
