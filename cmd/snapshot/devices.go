package main

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/snapmail/snapshot/device"
)

func newDevicesCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List cameras and their input counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := env.cfg

			prober := &device.Prober{Command: cfg.Command, Observer: env.metrics}
			reg, err := device.Discover(ctx, prober, cfg.ProbeLimit)
			if err != nil {
				return err
			}
			if env.native.Available() {
				reg.AddNative()
			}

			names, err := device.ListNames(ctx)
			if err != nil {
				zerolog.Ctx(ctx).Debug().Err(err).Msg("no device names")
			}

			return printDevices(cmd.OutOrStdout(), reg.Entries(), env.native.Path(), names)
		},
	}
}

// printDevices writes one "path: count" line per entry under a header. The
// external entry for nativePath is left out, the native module stands for it.
// Card names from names are appended when known.
func printDevices(w io.Writer, entries []device.Entry, nativePath string, names map[string]string) error {
	if _, err := fmt.Fprintln(w, "Device: Input Count"); err != nil {
		return err
	}
	for _, e := range entries {
		if !e.Handle.IsNative() && nativePath != "" && e.Handle.Path() == nativePath {
			continue
		}
		line := fmt.Sprintf("%s: %d", e.Handle, e.Inputs)
		if name, ok := names[e.Handle.Path()]; ok && !e.Handle.IsNative() {
			line += " (" + name + ")"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
