package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/snapmail/snapshot/config"
	"github.com/snapmail/snapshot/device/native"
	"github.com/snapmail/snapshot/logging"
	"github.com/snapmail/snapshot/metrics"
)

func newRootCmd(env *environment) *cobra.Command {
	var (
		cfgFile     string
		logLevel    string
		logFormat   string
		metricsFile string
	)

	captureCmd := newCaptureCmd(env)
	rootCmd := &cobra.Command{
		Use:           "snapshot",
		Short:         "Take still pictures from the cameras attached to this host",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			base := logging.Base("snapshot", logLevel, logFormat)
			ctx := base.WithContext(cmd.Context())
			cmd.SetContext(ctx)
			cmd.Root().SetContext(ctx)

			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			env.cfg = cfg

			env.metricsFile = cfg.MetricsFile
			if metricsFile != "" {
				env.metricsFile = metricsFile
			}
			if env.metricsFile != "" {
				env.metrics = metrics.New()
			}

			env.native = native.Acquire(ctx, native.Opts{
				Enabled: cfg.Native.Enabled,
				Device:  cfg.Native.Device,
				Card:    cfg.Native.Card,
				Width:   uint32(cfg.Native.Width),
				Height:  uint32(cfg.Native.Height),
				Skip:    cfg.Native.Skip,
			})
			return nil
		},
		// Without a subcommand, capture.
		RunE: captureCmd.RunE,
	}
	rootCmd.Flags().AddFlagSet(captureCmd.Flags())

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to a YAML config file (default: built-in settings)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "Log format: json, console")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "Write prometheus metrics to this textfile on exit")

	rootCmd.AddCommand(captureCmd)
	rootCmd.AddCommand(newDevicesCmd(env))

	return rootCmd
}
