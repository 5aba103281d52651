package device

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"syscall"

	"github.com/creack/pty"
)

// PTYRunner runs commands attached to a pseudo-terminal. fswebcam changes
// what it prints when its output is not a terminal, so the probe must look
// like an interactive session to get the full input listing.
type PTYRunner struct{}

// Check that PTYRunner implements interface Runner.
var _ Runner = PTYRunner{}

// CombinedOutput starts name with args on a new pseudo-terminal and reads
// the terminal until the command exits. There is no timeout: a command that
// never exits blocks the caller.
func (PTYRunner) CombinedOutput(_ context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	f, err := pty.Start(cmd)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			err = ErrInstallHint
		}
		return nil, fmt.Errorf("starting %s: %w", name, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	_, rerr := io.Copy(&buf, f)
	werr := cmd.Wait()
	// Reading the terminal fails with EIO once the command closed its side.
	if rerr != nil && !errors.Is(rerr, syscall.EIO) {
		return buf.Bytes(), fmt.Errorf("reading output of %s: %w", name, rerr)
	}
	return buf.Bytes(), werr
}
