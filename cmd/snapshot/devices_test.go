package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snapmail/snapshot/device"
)

func TestPrintDevices(t *testing.T) {
	t.Parallel()

	video0 := device.Entry{Handle: device.External("/dev/video0"), Inputs: 2}
	video2 := device.Entry{Handle: device.External("/dev/video2"), Inputs: 1}
	picamera := device.Entry{Handle: device.Native(), Inputs: 1}

	tests := []struct {
		name       string
		entries    []device.Entry
		nativePath string
		names      map[string]string
		want       string
	}{
		{
			name: "no devices",
			want: "Device: Input Count\n",
		},
		{
			name:    "external only",
			entries: []device.Entry{video0, video2},
			want:    "Device: Input Count\n/dev/video0: 2\n/dev/video2: 1\n",
		},
		{
			name:    "native first",
			entries: []device.Entry{picamera, video0},
			want:    "Device: Input Count\npicamera: 1\n/dev/video0: 2\n",
		},
		{
			name:       "native node skipped",
			entries:    []device.Entry{picamera, video0, video2},
			nativePath: "/dev/video2",
			want:       "Device: Input Count\npicamera: 1\n/dev/video0: 2\n",
		},
		{
			name:    "card names",
			entries: []device.Entry{picamera, video0, video2},
			names:   map[string]string{"/dev/video0": "HD Pro Webcam C920"},
			want:    "Device: Input Count\npicamera: 1\n/dev/video0: 2 (HD Pro Webcam C920)\n/dev/video2: 1\n",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			require.NoError(t, printDevices(&buf, tt.entries, tt.nativePath, tt.names))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}
