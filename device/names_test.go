package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNames(t *testing.T) {
	t.Parallel()

	const s = "bcm2835-codec-decode (platform:bcm2835-codec):\n" +
		"\t/dev/video10\n" +
		"\t/dev/video11\n" +
		"\n" +
		"mmal service 16.1 (platform:bcm2835-v4l2-0):\n" +
		"\t/dev/video0\n" +
		"\n" +
		"USB 2.0 Camera: USB Camera (usb-3f980000.usb-1.3):\n" +
		"\t/dev/video1\n" +
		"\t/dev/video2\n" +
		"\t/dev/media0\n"

	assert.Equal(t, map[string]string{
		"/dev/video0": "mmal service 16.1 (platform:bcm2835-v4l2-0)",
		"/dev/video1": "USB 2.0 Camera: USB Camera (usb-3f980000.usb-1.3)",
		"/dev/video2": "USB 2.0 Camera: USB Camera (usb-3f980000.usb-1.3)",
	}, parseNames(s))
}
