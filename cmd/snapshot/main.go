// Command snapshot takes still pictures from the cameras attached to the
// host: the Raspberry Pi camera module, captured in process, and USB cameras,
// captured with fswebcam.
//
// Pictures are written to the images directory as image0.jpg, image1.jpg, ...
// in capture order. Stale images from earlier runs are removed first.
//
// Examples:
//
//	# Take a picture from every input of every camera.
//	snapshot
//
//	# List cameras and their input counts.
//	snapshot devices
//
//	# One picture from /dev/video0 with a banner, printing the fswebcam output.
//	snapshot capture -d /dev/video0 -p -v
//
//	# Keep the capture log and write metrics for the node exporter.
//	snapshot capture -o /var/log/snapshot.log --metrics-file /var/lib/node_exporter/snapshot.prom
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/snapmail/snapshot/config"
	"github.com/snapmail/snapshot/device/native"
	"github.com/snapmail/snapshot/metrics"
)

// environment is what the commands share, set up before any of them runs.
type environment struct {
	cfg         *config.Config
	native      *native.Module
	metrics     *metrics.Recorder
	metricsFile string
}

// close releases the camera module and writes the metrics textfile.
func (e *environment) close(ctx context.Context) {
	log := zerolog.Ctx(ctx)
	if err := e.native.Release(); err != nil {
		log.Warn().Err(err).Msg("releasing native camera module")
	}
	if e.metricsFile != "" {
		if err := e.metrics.WriteTextfile(e.metricsFile); err != nil {
			log.Warn().Err(err).Str("file", e.metricsFile).Msg("writing metrics")
		}
	}
}

func main() {
	os.Exit(main0())
}

func main0() int {
	env := &environment{}
	root := newRootCmd(env)
	err := root.ExecuteContext(context.Background())
	ctx := root.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	env.close(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
