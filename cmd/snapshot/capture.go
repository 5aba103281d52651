package main

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/snapmail/snapshot/capture"
	"github.com/snapmail/snapshot/config"
	"github.com/snapmail/snapshot/device"
)

func newCaptureCmd(env *environment) *cobra.Command {
	var (
		selector   string
		processing bool
		verbose    bool
		logPath    string
		imagesDir  string
	)

	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Take one picture per selected camera input",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := zerolog.Ctx(ctx)
			cfg := env.cfg

			req := capture.Request{
				Device:     selector,
				Processing: processing,
				Verbose:    verbose,
				LogPath:    cfg.LogPath,
				ImagesDir:  cfg.ImagesDir,
			}
			if logPath != "" {
				req.LogPath = logPath
			}
			if imagesDir != "" {
				req.ImagesDir = imagesDir
			}

			o := capture.NewOrchestrator(env.native, capture.OrchestratorOpts{
				Prober:     &device.Prober{Command: cfg.Command, Observer: env.metrics},
				Command:    cfg.Command,
				Args:       captureArgs(cfg.Capture),
				ProbeLimit: cfg.ProbeLimit,
				Runs:       env.metrics,
				Captures:   env.metrics,
			})

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Taking pictures")
			t0 := time.Now()
			res, err := o.Capture(ctx, req)
			if res.Log != "" {
				fmt.Fprint(out, res.Log)
			}
			if err != nil {
				return err
			}
			for _, p := range res.Problems {
				log.Warn().Err(p).Msg("capture problem")
			}
			took := time.Since(t0)
			log.Info().Int("images", len(res.Images)).Int("missing", len(res.Missing)).Dur("took", took).Msg("capture done")
			fmt.Fprintf(out, "Took %d pictures in %s\n", len(res.Images), took.Round(time.Millisecond))
			if res.LogPath != "" {
				fmt.Fprintf(out, "Capture log: %s\n", res.LogPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&selector, "device", "d", capture.SelectorAll, `Camera to use: "all", "picamera" or a device path such as /dev/video0`)
	cmd.Flags().BoolVarP(&processing, "process-images", "p", false, "Add a banner with timestamp and camera title")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print the capture tool output")
	cmd.Flags().StringVarP(&logPath, "output", "o", "", "Keep the capture log in this file (default: temporary, removed)")
	cmd.Flags().StringVar(&imagesDir, "images-dir", "", "Directory receiving the pictures (default from config)")

	return cmd
}

func captureArgs(c config.CaptureConfig) capture.Args {
	return capture.Args{
		Resolution: c.Resolution,
		Delay:      c.Delay,
		Overlay: capture.Overlay{
			BannerColour:    c.BannerColour,
			Font:            c.Font,
			TimestampFormat: c.TimestampFormat,
			TitleFormat:     c.TitleFormat,
		},
	}
}
