package device

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultCommand is the capture tool used to probe and capture devices.
const DefaultCommand = "fswebcam"

var (
	// ErrUnrecognizedOutput is returned when the probe output neither reports
	// a missing device nor lists inputs.
	ErrUnrecognizedOutput = errors.New("unrecognized probe output")

	// ErrInstallHint is returned when the probe executable is missing.
	ErrInstallHint = errors.New("executable not found, install with: sudo apt install -y fswebcam v4l-utils")
)

const (
	inputsMarker  = "Available inputs:"
	noInputMarker = "No input was specified"
)

// absentMarkers in the probe output mean there is no usable device. The
// under-voltage line is a kernel message the Raspberry Pi prints to the
// terminal, interleaved with the tool output.
var absentMarkers = []string{
	"No such file or directory",
	"Error opening device",
	"Under-voltage detected",
}

// Runner runs a command and returns everything it printed, stdout and stderr
// merged. A non-zero exit is reported as an *exec.ExitError along with the
// output.
type Runner interface {
	CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error)
}

// InputProber returns the number of inputs of the device at path, zero if the
// device is not present.
type InputProber interface {
	Probe(ctx context.Context, path string) (int, error)
}

// ProbeObserver is told the outcome of every probe.
type ProbeObserver interface {
	Probe(result string)
}

// Prober asks the capture tool to list the inputs of a device.
type Prober struct {
	Runner   Runner        // Defaults to PTYRunner.
	Command  string        // Defaults to DefaultCommand.
	Observer ProbeObserver // Optional.
}

// Check that Prober implements interface InputProber.
var _ InputProber = (*Prober)(nil)

// Probe runs the list-inputs command against path and parses its output.
//
// The exit status of the tool is ignored: it fails for absent devices, and
// the text is the only reliable channel.
func (p *Prober) Probe(ctx context.Context, path string) (int, error) {
	runner := p.Runner
	if runner == nil {
		runner = PTYRunner{}
	}
	command := p.Command
	if command == "" {
		command = DefaultCommand
	}

	out, err := runner.CombinedOutput(ctx, command, "--list-inputs", "-d", path)
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		p.observe("error")
		return 0, fmt.Errorf("probing %s: %w", path, err)
	}

	n, err := parseInputs(string(out))
	if err != nil {
		p.observe("unrecognized")
		zerolog.Ctx(ctx).Error().Str("device", path).Str("output", string(out)).Msg("unrecognized probe output")
		return 0, fmt.Errorf("probing %s: %w", path, err)
	}
	if n == 0 {
		p.observe("absent")
	} else {
		p.observe("present")
	}
	zerolog.Ctx(ctx).Debug().Str("device", path).Int("inputs", n).Msg("probed device")
	return n, nil
}

func (p *Prober) observe(result string) {
	if p.Observer != nil {
		p.Observer.Probe(result)
	}
}

// parseInputs returns the number of inputs listed in the output of
// "fswebcam --list-inputs". An output carrying a known error marker means the
// device is absent and yields 0.
//
// The listing sits between inputsMarker and noInputMarker as "index:label"
// lines. The character before the rightmost colon is the highest input index,
// a single digit.
func parseInputs(s string) (int, error) {
	for _, m := range absentMarkers {
		if strings.Contains(s, m) {
			return 0, nil
		}
	}

	start := strings.Index(s, inputsMarker)
	if start < 0 {
		return 0, ErrUnrecognizedOutput
	}
	start += len(inputsMarker)
	end := strings.Index(s[start:], noInputMarker)
	if end < 0 {
		return 0, ErrUnrecognizedOutput
	}
	listing := s[start : start+end]

	colon := strings.LastIndexByte(listing, ':')
	if colon < 1 {
		return 0, ErrUnrecognizedOutput
	}
	c := listing[colon-1]
	if c < '0' || c > '9' {
		return 0, ErrUnrecognizedOutput
	}
	return int(c-'0') + 1, nil
}
