package capture

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/snapmail/snapshot/device"
	"github.com/snapmail/snapshot/workspace"
)

// SelectorAll selects the native module, if available, and every input of
// every discovered device.
const SelectorAll = "all"

var (
	// ErrUnsupportedDevice is reported for a device selector that is not
	// "all", "picamera" or a device path.
	ErrUnsupportedDevice = errors.New("unsupported device")

	// ErrNativeUnavailable is reported when the native module is asked for
	// but was not acquired.
	ErrNativeUnavailable = errors.New("native camera module unavailable")
)

type mode int

const (
	modeAll mode = iota
	modeNative
	modePath
)

// parseSelector classifies a device selector. Paths are absolute names under
// /dev; they are not checked against discovery.
func parseSelector(selector string) (mode, error) {
	switch {
	case selector == SelectorAll:
		return modeAll, nil
	case selector == device.NativeName:
		return modeNative, nil
	case strings.HasPrefix(selector, "/dev/") && len(selector) > len("/dev/"):
		return modePath, nil
	}
	return 0, fmt.Errorf("%w %q", ErrUnsupportedDevice, selector)
}

// Task is one planned capture.
type Task struct {
	Handle device.Handle
	Input  int    // Input index of the device, -1 to leave it to the capture tool.
	Output string // Output path without extension.
}

func (t Task) String() string {
	if t.Input < 0 {
		return t.Handle.String()
	}
	return fmt.Sprintf("%s input %d", t.Handle, t.Input)
}

// Plan returns the captures for selector, in the order they must run. The
// output of the i-th task is {dir}/image{i}.
//
// For "all", the native module comes first if mod is available, then every
// input of every device of reg in registry order. The device node of the
// native module, if reg lists it too, is skipped so the camera is not taken
// twice. A device path or "picamera" yields a single task writing image0.
func Plan(selector string, mod NativeModule, reg *device.Registry, dir string) ([]Task, error) {
	m, err := parseSelector(selector)
	if err != nil {
		return nil, err
	}

	hasNative := mod != nil && mod.Available()
	var tasks []Task
	add := func(h device.Handle, input int) {
		out := filepath.Join(dir, fmt.Sprintf("%s%d", workspace.ImagePrefix, len(tasks)))
		tasks = append(tasks, Task{Handle: h, Input: input, Output: out})
	}

	switch m {
	case modePath:
		add(device.External(selector), -1)
	case modeNative:
		if !hasNative {
			return nil, ErrNativeUnavailable
		}
		add(device.Native(), -1)
	case modeAll:
		if hasNative {
			add(device.Native(), -1)
		}
		if reg == nil {
			break
		}
		for _, e := range reg.External() {
			if hasNative && e.Handle.Path() == mod.Path() {
				continue
			}
			for i := 0; i < e.Inputs; i++ {
				add(e.Handle, i)
			}
		}
	}
	return tasks, nil
}
