package device

import (
	"context"
)

// DefaultLimit is the number of video device paths Discover tries,
// /dev/video0 up to /dev/video9.
const DefaultLimit = 10

// Entry is one device in a Registry.
type Entry struct {
	Handle Handle
	Inputs int
}

// Registry lists the devices found by Discover, in probe order. Only devices
// with at least one input are present. The native module, if added, comes
// first.
type Registry struct {
	entries []Entry
}

// Discover probes /dev/video0 up to /dev/video{limit-1}, one at a time, and
// returns the devices that have inputs. A limit of zero or less means
// DefaultLimit.
//
// Discover stops at the first probe error, including unrecognized output: a
// device silently skipped would shift the numbering of all images after it.
func Discover(ctx context.Context, prober InputProber, limit int) (*Registry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	r := &Registry{}
	for i := 0; i < limit; i++ {
		path := VideoPath(i)
		n, err := prober.Probe(ctx, path)
		if err != nil {
			return nil, err
		}
		if n < 1 {
			continue
		}
		r.entries = append(r.entries, Entry{External(path), n})
	}
	return r, nil
}

// AddNative adds the native camera module as the first entry, with a single
// input. Adding it twice has no effect.
func (r *Registry) AddNative() {
	if r.Native() {
		return
	}
	r.entries = append([]Entry{{Native(), 1}}, r.entries...)
}

// Native reports whether the native module is in the registry.
func (r *Registry) Native() bool {
	return len(r.entries) > 0 && r.entries[0].Handle.IsNative()
}

// Entries returns all entries, native module first.
func (r *Registry) Entries() []Entry {
	return append([]Entry(nil), r.entries...)
}

// External returns the entries for external devices only.
func (r *Registry) External() []Entry {
	var l []Entry
	for _, e := range r.entries {
		if !e.Handle.IsNative() {
			l = append(l, e)
		}
	}
	return l
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	return len(r.entries)
}
