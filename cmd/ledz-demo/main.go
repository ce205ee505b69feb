// Command ledz-demo runs indicator scenes on an ANSI terminal: each LED is a
// coloured dot, one column pair per port.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"ledz-go/services/config"
	"ledz-go/types"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type options struct {
	Config       string
	Device       string
	TickPeriodUs uint32
	ActiveLow    bool
	MaxInstances int
	MetricsAddr  string
	LogLevel     string
	LogFormat    string
}

func main() {
	if err := newRootCmd(&options{}).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(opts *options) *cobra.Command {
	root := &cobra.Command{
		Use:          "ledz-demo",
		Short:        "Drive LED indicators on a terminal",
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			logger, err := newLogger(opts.LogLevel, opts.LogFormat)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)
			return nil
		},
	}

	f := root.PersistentFlags()
	f.StringVarP(&opts.Config, "config", "c", "", "TOML indicator configuration (default: embedded)")
	f.StringVar(&opts.Device, "device", "host", "Embedded configuration to use when --config is empty")
	f.Uint32Var(&opts.TickPeriodUs, "tick-period", 1000, "Engine tick period in microseconds (1..1000)")
	f.BoolVar(&opts.ActiveLow, "active-low", false, "Treat a low pin level as on")
	f.IntVar(&opts.MaxInstances, "max-instances", 0, "Channel record capacity (0: from config)")
	f.StringVar(&opts.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9108)")
	f.StringVar(&opts.LogLevel, "log-level", "info", "Logging level (debug, info, warn, error)")
	f.StringVar(&opts.LogFormat, "log-format", "text", "Logging format (text, json)")

	root.AddCommand(
		newOnOffCmd(opts),
		newBlinkCmd(opts),
		newDimCmd(opts),
		newConsoleCmd(opts),
	)
	return root
}

// loadConfig reads the file or embedded document, then applies flags the
// user set explicitly.
func loadConfig(cmd *cobra.Command, opts *options) (types.IndicatorConfig, error) {
	var (
		cfg types.IndicatorConfig
		err error
	)
	if opts.Config != "" {
		cfg, err = config.LoadFile(opts.Config)
	} else {
		cfg, err = config.Embedded(opts.Device)
	}
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}

	cmd.Flags().Visit(func(fl *pflag.Flag) {
		switch fl.Name {
		case "tick-period":
			cfg.TickPeriodUs = opts.TickPeriodUs
		case "active-low":
			cfg.ActiveLow = opts.ActiveLow
		case "max-instances":
			cfg.MaxInstances = opts.MaxInstances
		}
	})
	if cfg.TickPeriodUs == 0 {
		cfg.TickPeriodUs = opts.TickPeriodUs
	}
	slog.Debug("configuration loaded",
		"source", configSource(opts),
		"tick_period_us", cfg.TickPeriodUs,
		"active_low", cfg.ActiveLow,
		"indicators", len(cfg.Indicators))
	return cfg, nil
}

func configSource(opts *options) string {
	if opts.Config != "" {
		return opts.Config
	}
	return "embedded:" + opts.Device
}

func newLogger(level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	hopts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stderr, hopts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(os.Stderr, hopts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}
}

// signalContext is cancelled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// serveMetrics exposes /metrics until ctx ends. A blank addr disables it.
func serveMetrics(ctx context.Context, addr string) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		slog.Info("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}
