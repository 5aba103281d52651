package device

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listTwoInputs = "--- Opening /dev/video0...\r\n" +
	"Trying source module v4l2...\r\n" +
	"/dev/video0 opened.\r\n" +
	"--- Available inputs:\r\n" +
	"0:Camera 1\r\n" +
	"1:Camera 2\r\n" +
	"No input was specified, using the first.\r\n" +
	"Unable to find a compatible palette format.\r\n"

func TestParseInputs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		output string
		want   int
		err    error
	}{
		{
			name:   "one input",
			output: "Available inputs:\n0:Camera 1\nNo input was specified",
			want:   1,
		},
		{
			name:   "two inputs",
			output: "Available inputs:\n0:Camera 1\n1:Camera 2\nNo input was specified",
			want:   2,
		},
		{
			name:   "full terminal output",
			output: listTwoInputs,
			want:   2,
		},
		{
			name:   "missing device",
			output: "--- Opening /dev/video3...\nstat: No such file or directory\n",
		},
		{
			name:   "cannot open",
			output: "--- Opening /dev/video1...\nError opening device: /dev/video1\n",
		},
		{
			name:   "kernel message wins over listing",
			output: "Available inputs:\n0:Camera 1\n[ 12.3] Under-voltage detected! (0x00050005)\nNo input was specified",
		},
		{
			name:   "empty output",
			output: "",
			err:    ErrUnrecognizedOutput,
		},
		{
			name:   "no end marker",
			output: "Available inputs:\n0:Camera 1\n",
			err:    ErrUnrecognizedOutput,
		},
		{
			name:   "markers out of order",
			output: "No input was specified\nAvailable inputs:\n0:Camera 1\n",
			err:    ErrUnrecognizedOutput,
		},
		{
			name:   "no inputs listed",
			output: "Available inputs:\nNo input was specified",
			err:    ErrUnrecognizedOutput,
		},
		{
			name:   "label with colon",
			output: "Available inputs:\n0:Camera: front\nNo input was specified",
			err:    ErrUnrecognizedOutput,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			n, err := parseInputs(tt.output)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
		})
	}
}

type fakeRunner struct {
	output string
	err    error
	calls  [][]string
}

func (f *fakeRunner) CombinedOutput(_ context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	return []byte(f.output), f.err
}

type countingObserver map[string]int

func (c countingObserver) Probe(result string) {
	c[result]++
}

func TestProberProbe(t *testing.T) {
	t.Parallel()

	r := &fakeRunner{output: listTwoInputs}
	obs := countingObserver{}
	p := &Prober{Runner: r, Observer: obs}

	n, err := p.Probe(context.Background(), "/dev/video0")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, [][]string{{"fswebcam", "--list-inputs", "-d", "/dev/video0"}}, r.calls)
	assert.Equal(t, 1, obs["present"])
}

func TestProberIgnoresExitStatus(t *testing.T) {
	t.Parallel()

	r := &fakeRunner{
		output: "stat: No such file or directory\n",
		err:    &exec.ExitError{},
	}
	p := &Prober{Runner: r, Command: "/usr/local/bin/fswebcam"}

	n, err := p.Probe(context.Background(), "/dev/video4")
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, "/usr/local/bin/fswebcam", r.calls[0][0])
}

func TestProberErrors(t *testing.T) {
	t.Parallel()

	obs := countingObserver{}
	p := &Prober{Runner: &fakeRunner{err: ErrInstallHint}, Observer: obs}
	_, err := p.Probe(context.Background(), "/dev/video0")
	require.ErrorIs(t, err, ErrInstallHint)

	p = &Prober{Runner: &fakeRunner{output: "Segmentation fault\n"}, Observer: obs}
	_, err = p.Probe(context.Background(), "/dev/video2")
	require.ErrorIs(t, err, ErrUnrecognizedOutput)
	assert.Contains(t, err.Error(), "/dev/video2")

	assert.Equal(t, countingObserver{"error": 1, "unrecognized": 1}, obs)
	assert.False(t, errors.Is(err, ErrInstallHint))
}
