// Package capture runs capture sessions: it prepares the workspace, works out
// which devices to take pictures from, takes them one after the other and
// keeps the console output of the capture tool in a log.
package capture

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	snapshot "github.com/snapmail/snapshot"
	"github.com/snapmail/snapshot/device"
	"github.com/snapmail/snapshot/workspace"
)

// Request describes one capture run.
type Request struct {
	// Device is "all", "picamera" or a device path such as /dev/video0.
	Device string

	// Processing adds a banner with timestamp and title to external captures.
	Processing bool

	// Verbose returns the content of the capture log in Result.Log.
	Verbose bool

	// LogPath is where the capture log is kept. If empty, a default path is
	// used and the log is removed at the end of the run.
	LogPath string

	// ImagesDir receives image0.jpg, image1.jpg, ...
	ImagesDir string
}

// Result is the outcome of a capture run.
type Result struct {
	RunID string

	// Tasks are the planned captures, in order.
	Tasks []Task

	// Images are the image files that exist after the run, in task order.
	Images []string

	// Missing are the image files planned but not written.
	Missing []string

	// Problems are the conditions that did not stop the run.
	Problems []error

	// Log is the capture log content, set for verbose runs.
	Log string

	// LogPath is the path of the retained log, empty when it was removed.
	LogPath string
}

// RunObserver is told about capture runs.
type RunObserver interface {
	RunStarted()
	RunFinished(t time.Time)
}

// OrchestratorOpts are options for a new Orchestrator.
type OrchestratorOpts struct {
	Prober         device.InputProber // Defaults to a device.Prober using Command.
	Command        string             // Capture command, defaults to device.DefaultCommand.
	Args           Args               // Zero value means DefaultArgs.
	ProbeLimit     int                // Number of device paths to probe, defaults to device.DefaultLimit.
	DefaultLogPath string             // Defaults to snapshot.DefaultLogPath().
	Runs           RunObserver        // Optional.
	Captures       CaptureObserver    // Optional.
}

// Orchestrator runs capture sessions, one at a time. It does not own the
// native module: its owner releases it.
type Orchestrator struct {
	native         NativeModule
	prober         device.InputProber
	driver         *Driver
	limit          int
	defaultLogPath string
	runs           RunObserver
}

// NewOrchestrator returns an orchestrator capturing from mod, which may be
// nil or unavailable, and from external devices.
func NewOrchestrator(mod NativeModule, opts OrchestratorOpts) *Orchestrator {
	prober := opts.Prober
	if prober == nil {
		prober = &device.Prober{Command: opts.Command}
	}
	args := opts.Args
	if args == (Args{}) {
		args = DefaultArgs()
	}
	logPath := opts.DefaultLogPath
	if logPath == "" {
		logPath = snapshot.DefaultLogPath()
	}

	return &Orchestrator{
		native:         mod,
		prober:         prober,
		driver:         &Driver{Command: opts.Command, Args: args, Native: mod, Observer: opts.Captures},
		limit:          opts.ProbeLimit,
		defaultLogPath: logPath,
		runs:           opts.Runs,
	}
}

// Capture runs one capture session for req.
//
// An unsupported selector, or "picamera" without a native module, is
// reported in Result.Problems and nothing is written. Otherwise the images
// directory is prepared, the log is truncated, and every planned capture runs
// in order; a failing capture never stops the ones after it.
//
// The returned error is for conditions that stop the run: the images
// directory is not a directory, the log cannot be written, or discovery
// failed. When discovery fails the native module, if available, is still
// captured as image0 before returning. The Result is valid even then.
func (o *Orchestrator) Capture(ctx context.Context, req Request) (res *Result, rerr error) {
	runID := uuid.NewString()
	log := zerolog.Ctx(ctx).With().Str("run", runID).Str("selector", req.Device).Logger()
	ctx = log.WithContext(ctx)
	res = &Result{RunID: runID}

	m, err := parseSelector(req.Device)
	if err == nil && m == modeNative && !o.hasNative() {
		err = ErrNativeUnavailable
	}
	if err != nil {
		log.Warn().Err(err).Msg("nothing to capture")
		res.Problems = append(res.Problems, err)
		return res, nil
	}

	if o.runs != nil {
		o.runs.RunStarted()
		defer func() { o.runs.RunFinished(time.Now()) }()
	}

	if err := workspace.Prepare(req.ImagesDir); err != nil {
		return res, err
	}

	logPath, retain := req.LogPath, true
	if logPath == "" {
		logPath, retain = o.defaultLogPath, false
	}
	sink, err := OpenLog(logPath, runID)
	if err != nil {
		return res, err
	}
	defer func() {
		if err := o.finish(ctx, sink, req.Verbose, retain, res); err != nil && rerr == nil {
			rerr = err
		}
	}()

	var reg *device.Registry
	if m == modeAll {
		reg, err = device.Discover(ctx, o.prober, o.limit)
		if err != nil {
			_ = sink.Printf("--- discovery failed: %v\n", err)
			// The native module is image0 whatever discovery finds.
			if o.hasNative() {
				tasks, perr := Plan(device.NativeName, o.native, nil, req.ImagesDir)
				if perr != nil {
					return res, perr
				}
				res.Tasks = tasks
				if cerr := o.run(ctx, tasks, req, sink, res); cerr != nil {
					return res, cerr
				}
			}
			return res, fmt.Errorf("discovering devices: %w", err)
		}
		log.Debug().Int("devices", reg.Len()).Msg("discovered devices")
	}

	tasks, err := Plan(req.Device, o.native, reg, req.ImagesDir)
	if err != nil {
		return res, err
	}
	res.Tasks = tasks
	return res, o.run(ctx, tasks, req, sink, res)
}

// run captures tasks in order into res, watching the images directory while
// it does.
func (o *Orchestrator) run(ctx context.Context, tasks []Task, req Request, sink *LogSink, res *Result) error {
	log := zerolog.Ctx(ctx)
	watcher, err := workspace.Watch(req.ImagesDir, *log)
	if err != nil {
		log.Debug().Err(err).Msg("not watching workspace")
	}
	defer func() {
		if watcher != nil {
			log.Debug().Strs("files", watcher.Close()).Msg("workspace watch done")
		}
	}()

	for _, task := range tasks {
		if err := o.driver.CaptureOne(ctx, task, req.Processing, sink); err != nil {
			if !task.Handle.IsNative() {
				return err
			}
			log.Warn().Err(err).Msg("native capture failed")
			res.Problems = append(res.Problems, err)
			if lerr := sink.Printf("--- %s capture failed: %v\n", device.NativeName, err); lerr != nil {
				return lerr
			}
		}
		o.collect(ctx, task, res)
	}
	return nil
}

func (o *Orchestrator) hasNative() bool {
	return o.native != nil && o.native.Available()
}

// collect checks that the image of task was written.
func (o *Orchestrator) collect(ctx context.Context, task Task, res *Result) {
	path := task.Output + ".jpg"
	fi, err := os.Stat(path)
	if err != nil {
		res.Missing = append(res.Missing, path)
		zerolog.Ctx(ctx).Warn().Str("device", task.String()).Str("image", path).Msg("no image written")
		return
	}
	res.Images = append(res.Images, path)
	zerolog.Ctx(ctx).Info().Str("device", task.String()).Str("image", path).
		Str("size", humanize.Bytes(uint64(fi.Size()))).Msg("captured")
}

// finish closes the log, reads it back for verbose runs and removes it unless
// it is retained.
func (o *Orchestrator) finish(ctx context.Context, sink *LogSink, verbose, retain bool, res *Result) error {
	if err := sink.Close(); err != nil {
		return fmt.Errorf("closing capture log: %w", err)
	}
	if verbose {
		buf, err := os.ReadFile(sink.Path())
		if err != nil {
			return fmt.Errorf("reading capture log: %w", err)
		}
		res.Log = string(buf)
	}
	if retain {
		res.LogPath = sink.Path()
		return nil
	}
	if err := os.Remove(sink.Path()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		zerolog.Ctx(ctx).Warn().Err(err).Str("log", sink.Path()).Msg("removing capture log")
	}
	return nil
}
