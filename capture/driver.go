package capture

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/rs/zerolog"

	"github.com/snapmail/snapshot/device"
)

// NativeModule is the in-process camera, see package device/native.
type NativeModule interface {
	Available() bool
	Path() string
	CaptureTo(path string) error
}

// CaptureObserver is told about every capture attempt.
type CaptureObserver interface {
	Capture(backend string, ok bool, d time.Duration)
}

// Driver takes one picture per call, from the native module or by running
// the external capture command.
type Driver struct {
	Command  string // Defaults to device.DefaultCommand.
	Args     Args
	Native   NativeModule
	Observer CaptureObserver // Optional.

	now func() time.Time
}

// CaptureOne captures task. The native module writes task.Output + ".jpg"
// directly and never writes to sink. An external capture runs the command
// with stdout and stderr appended to sink, between begin and end markers.
//
// A failing external command is not an error: it is recorded in sink and the
// image is simply missing. The returned error is for a failing native
// capture or a failure to write the log.
func (d *Driver) CaptureOne(ctx context.Context, task Task, processing bool, sink *LogSink) error {
	if task.Handle.IsNative() {
		return d.captureNative(ctx, task)
	}
	return d.captureExternal(ctx, task, processing, sink)
}

func (d *Driver) captureNative(ctx context.Context, task Task) error {
	if d.Native == nil || !d.Native.Available() {
		return ErrNativeUnavailable
	}
	t0 := time.Now()
	err := d.Native.CaptureTo(task.Output + ".jpg")
	d.observe("native", err == nil, time.Since(t0))
	if err != nil {
		return fmt.Errorf("capturing from %s: %w", device.NativeName, err)
	}
	zerolog.Ctx(ctx).Debug().Str("output", task.Output+".jpg").Dur("took", time.Since(t0)).Msg("native capture done")
	return nil
}

func (d *Driver) captureExternal(ctx context.Context, task Task, processing bool, sink *LogSink) error {
	command := d.Command
	if command == "" {
		command = device.DefaultCommand
	}
	now := time.Now
	if d.now != nil {
		now = d.now
	}
	args := d.Args.commandArgs(task.Handle.Path(), task.Input, processing, task.Output, now())

	log := zerolog.Ctx(ctx)
	log.Debug().Str("command", command).Strs("args", args).Msg("running capture command")

	if err := sink.Begin(task.String(), task.Output); err != nil {
		return err
	}
	cmd := exec.Command(command, args...)
	cmd.Stdout = sink.f
	cmd.Stderr = sink.f
	t0 := time.Now()
	runErr := cmd.Run()
	d.observe("external", runErr == nil, time.Since(t0))
	if runErr != nil {
		log.Warn().Err(runErr).Str("device", task.String()).Msg("capture command failed")
	}
	return sink.End(task.String(), runErr)
}

func (d *Driver) observe(backend string, ok bool, took time.Duration) {
	if d.Observer != nil {
		d.Observer.Capture(backend, ok, took)
	}
}
