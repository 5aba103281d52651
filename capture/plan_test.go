package capture

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snapmail/snapshot/device"
)

type stubNative struct {
	available bool
	path      string
}

func (s stubNative) Available() bool          { return s.available }
func (s stubNative) Path() string             { return s.path }
func (s stubNative) CaptureTo(_ string) error { return nil }

type stubProber map[string]int

func (s stubProber) Probe(_ context.Context, path string) (int, error) {
	return s[path], nil
}

func registry(t *testing.T, inputs map[string]int) *device.Registry {
	t.Helper()

	reg, err := device.Discover(context.Background(), stubProber(inputs), 0)
	require.NoError(t, err)
	return reg
}

func TestPlanAll(t *testing.T) {
	t.Parallel()

	reg := registry(t, map[string]int{"/dev/video0": 2, "/dev/video2": 1})

	tasks, err := Plan("all", stubNative{available: true}, reg, "images")
	require.NoError(t, err)
	assert.Equal(t, []Task{
		{Handle: device.Native(), Input: -1, Output: filepath.Join("images", "image0")},
		{Handle: device.External("/dev/video0"), Input: 0, Output: filepath.Join("images", "image1")},
		{Handle: device.External("/dev/video0"), Input: 1, Output: filepath.Join("images", "image2")},
		{Handle: device.External("/dev/video2"), Input: 0, Output: filepath.Join("images", "image3")},
	}, tasks)
}

func TestPlanAllWithoutNative(t *testing.T) {
	t.Parallel()

	reg := registry(t, map[string]int{"/dev/video0": 2})

	tasks, err := Plan("all", nil, reg, "images")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, filepath.Join("images", "image0"), tasks[0].Output)
	assert.Equal(t, 0, tasks[0].Input)
	assert.Equal(t, 1, tasks[1].Input)
}

func TestPlanAllSkipsNativeNode(t *testing.T) {
	t.Parallel()

	reg := registry(t, map[string]int{"/dev/video0": 1, "/dev/video1": 1})

	tasks, err := Plan("all", stubNative{available: true, path: "/dev/video0"}, reg, "images")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.True(t, tasks[0].Handle.IsNative())
	assert.Equal(t, "/dev/video1", tasks[1].Handle.Path())
	assert.Equal(t, filepath.Join("images", "image1"), tasks[1].Output)
}

func TestPlanSingle(t *testing.T) {
	t.Parallel()

	tasks, err := Plan("/dev/video5", nil, nil, "images")
	require.NoError(t, err)
	assert.Equal(t, []Task{{Handle: device.External("/dev/video5"), Input: -1, Output: filepath.Join("images", "image0")}}, tasks)

	tasks, err = Plan("picamera", stubNative{available: true}, nil, "images")
	require.NoError(t, err)
	assert.Equal(t, []Task{{Handle: device.Native(), Input: -1, Output: filepath.Join("images", "image0")}}, tasks)

	_, err = Plan("picamera", stubNative{}, nil, "images")
	require.ErrorIs(t, err, ErrNativeUnavailable)
}

func TestPlanUnsupported(t *testing.T) {
	t.Parallel()

	for _, sel := range []string{"", "webcam", "video0", "/dev/", "ALL", "/tmp/video0"} {
		_, err := Plan(sel, stubNative{available: true}, nil, "images")
		require.ErrorIs(t, err, ErrUnsupportedDevice, "selector %q", sel)
	}
}

func TestTaskString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "picamera", Task{Handle: device.Native(), Input: -1}.String())
	assert.Equal(t, "/dev/video0 input 1", Task{Handle: device.External("/dev/video0"), Input: 1}.String())
}
