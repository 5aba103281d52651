package native_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snapmail/snapshot/device/native"
)

type fakeCamera struct {
	captured []string
	closed   int
	err      error
}

func (f *fakeCamera) CaptureTo(path string) error {
	f.captured = append(f.captured, path)
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(path, []byte("native"), 0o644)
}

func (f *fakeCamera) Close() error {
	f.closed++
	return nil
}

func TestModuleCaptureAndRelease(t *testing.T) {
	t.Parallel()

	cam := &fakeCamera{}
	m := native.New(cam, "/dev/video0")
	require.True(t, m.Available())
	assert.Equal(t, "/dev/video0", m.Path())

	out := filepath.Join(t.TempDir(), "image0.jpg")
	require.NoError(t, m.CaptureTo(out))
	assert.FileExists(t, out)

	require.NoError(t, m.Release())
	require.NoError(t, m.Release())
	assert.Equal(t, 1, cam.closed)
	assert.False(t, m.Available())
	assert.Empty(t, m.Path())

	err := m.CaptureTo(out)
	require.ErrorIs(t, err, native.ErrReleased)
	assert.Len(t, cam.captured, 1)
}

func TestModuleCaptureError(t *testing.T) {
	t.Parallel()

	boom := errors.New("mmal: no data received from sensor")
	m := native.New(&fakeCamera{err: boom}, "")

	err := m.CaptureTo(filepath.Join(t.TempDir(), "image0.jpg"))
	require.ErrorIs(t, err, boom)
	assert.True(t, m.Available())
}

func TestNilModule(t *testing.T) {
	t.Parallel()

	var m *native.Module
	assert.False(t, m.Available())
	require.NoError(t, m.Release())
	require.ErrorIs(t, m.CaptureTo("image0.jpg"), native.ErrReleased)
}

func TestAcquireDisabled(t *testing.T) {
	t.Parallel()

	m := native.Acquire(context.Background(), native.Opts{Enabled: false, Device: "/dev/video0"})
	require.NotNil(t, m)
	assert.False(t, m.Available())
}

func TestAcquireMissingDevice(t *testing.T) {
	t.Parallel()

	m := native.Acquire(context.Background(), native.Opts{Enabled: true, Device: "/dev/snapshot-no-such-video"})
	require.NotNil(t, m)
	assert.False(t, m.Available())
	require.NoError(t, m.Release())
}
