package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"ledz-go/bus"
	"ledz-go/drivers/termled"
	"ledz-go/services/config"
	"ledz-go/services/console"
	"ledz-go/services/heartbeat"
	"ledz-go/services/indicator"
	"ledz-go/services/metrics"

	"github.com/spf13/cobra"
)

func newConsoleCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Read indicator commands from stdin (type help)",
		Long: "Runs the config, indicator and console services on an in-process bus. " +
			"LEDs are drawn on stderr; command replies go to stdout.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()
			serveMetrics(ctx, opts.MetricsAddr)

			b := bus.NewBus(16)
			term := termled.New(os.Stderr)
			m := metrics.New(nil)

			svc := indicator.New(b.NewConnection("indicator"), indicator.Options{
				WritePin: m.WrapPin(term.WritePin),
				Observer: m,
			})
			done := make(chan struct{})
			go func() {
				defer close(done)
				svc.Run(ctx)
			}()

			hb := &heartbeat.Service{}
			if err := hb.Start(ctx, b.NewConnection("heartbeat")); err != nil {
				return err
			}

			cs := config.NewConfigService()
			cs.Override = &cfg
			cs.Start(context.WithValue(ctx, config.CtxDeviceKey, opts.Device), b.NewConnection("config"))

			slog.Info("console ready", "indicators", len(cfg.Indicators))
			err = console.New(b.NewConnection("console")).Run(ctx, os.Stdin, os.Stdout)
			cancel()
			<-done
			term.Clear()
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}
