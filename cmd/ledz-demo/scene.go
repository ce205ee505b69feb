package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"ledz-go/drivers/termled"
	"ledz-go/ledz"
	"ledz-go/services/metrics"
	"ledz-go/types"
	"ledz-go/x/ramp"
	"ledz-go/x/timex"

	"github.com/spf13/cobra"
)

// step runs once the engine has advanced to at.
type step struct {
	at time.Duration
	do func(*ledz.Engine)
}

// stage owns an Engine and a terminal; one goroutine ticks and applies steps.
type stage struct {
	eng    *ledz.Engine
	term   *termled.Terminal
	period time.Duration
	groups map[string]ledz.Group
	m      *metrics.Metrics
}

func newStage(cfg types.IndicatorConfig, hwDuty bool, out io.Writer, m *metrics.Metrics) (*stage, error) {
	term := termled.New(out)
	var duty ledz.WriteDutyFunc
	if hwDuty {
		duty = m.WrapDuty(term.WriteDuty)
	}
	eng, err := ledz.New(ledz.Config{
		MaxInstances: cfg.MaxInstances,
		TickPeriodUs: cfg.TickPeriodUs,
		ActiveLow:    cfg.ActiveLow,
		WritePin:     m.WrapPin(term.WritePin),
		WriteDuty:    duty,
	})
	if err != nil {
		return nil, err
	}
	st := &stage{
		eng:    eng,
		term:   term,
		period: timex.Micros(cfg.TickPeriodUs, ledz.DefaultTickPeriodUs),
		groups: map[string]ledz.Group{},
		m:      m,
	}
	for _, ind := range cfg.Indicators {
		if err := st.create(ind); err != nil {
			return nil, fmt.Errorf("indicator %s: %w", ind.ID, err)
		}
	}
	return st, nil
}

func (s *stage) create(ind types.IndicatorSpec) error {
	colors := make([]ledz.Color, 0, len(ind.Colors))
	pins := make([]ledz.Pin, 0, len(ind.Pins))
	for i, name := range ind.Colors {
		c, ok := ledz.ParseColor(name)
		if !ok {
			return fmt.Errorf("unknown colour %q", name)
		}
		colors = append(colors, c)
		pins = append(pins, ledz.Pin{Port: ind.Pins[i][0], Num: ind.Pins[i][1]})
	}
	g, err := s.eng.Create(colors, pins)
	if err != nil {
		return err
	}
	s.groups[ind.ID] = g
	return nil
}

// group looks up a configured indicator by id.
func (s *stage) group(id string) (ledz.Group, error) {
	g, ok := s.groups[id]
	if !ok {
		return ledz.Group{}, fmt.Errorf("indicator %q not configured", id)
	}
	return g, nil
}

// play runs steps in order against the tick clock and returns after total
// or when ctx ends.
func (s *stage) play(ctx context.Context, total time.Duration, steps []step) {
	s.term.HideCursor()
	defer s.term.ShowCursor()

	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	var elapsed time.Duration
	next := 0
	for {
		for next < len(steps) && steps[next].at <= elapsed {
			steps[next].do(s.eng)
			next++
		}
		if elapsed >= total {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.eng.Tick()
			s.m.Ticked()
			elapsed += s.period
		}
	}
}

func runScene(cmd *cobra.Command, opts *options, hwDuty bool, build func(*stage) (time.Duration, []step, error)) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	st, err := newStage(cfg, hwDuty, os.Stdout, metrics.New(nil))
	if err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	total, steps, err := build(st)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()
	serveMetrics(ctx, opts.MetricsAddr)

	slog.Info("scene start", "scene", cmd.Name(), "duration", total, "free", st.eng.Available())
	st.play(ctx, total, steps)
	slog.Info("scene done", "scene", cmd.Name())
	return nil
}

func newOnOffCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "onoff",
		Short: "Switch the status indicator through its colours",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScene(cmd, opts, false, func(s *stage) (time.Duration, []step, error) {
				g, err := s.group("status")
				if err != nil {
					return 0, nil, err
				}
				all := ledz.AllColors
				return 3 * time.Second, []step{
					{0, func(e *ledz.Engine) { e.On(g, all) }},
					{time.Second, func(e *ledz.Engine) { e.Off(g, ledz.Green) }},
					{1500 * time.Millisecond, func(e *ledz.Engine) { e.Toggle(g, all) }},
					{2 * time.Second, func(e *ledz.Engine) { e.Set(g, ledz.Red, 1) }},
					{2500 * time.Millisecond, func(e *ledz.Engine) { e.Off(g, all) }},
				}, nil
			})
		},
	}
}

func newBlinkCmd(opts *options) *cobra.Command {
	var (
		onMs, offMs uint16
		duration    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "blink",
		Short: "Blink the status indicator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScene(cmd, opts, false, func(s *stage) (time.Duration, []step, error) {
				g, err := s.group("status")
				if err != nil {
					return 0, nil, err
				}
				return duration, []step{
					{0, func(e *ledz.Engine) {
						e.On(g, ledz.Red|ledz.Green)
						e.Blink(g, ledz.Red, onMs, offMs)
						e.Blink(g, ledz.Green, 100, 1000)
					}},
					{duration / 2, func(e *ledz.Engine) { e.Blink(g, ledz.Green, 0, 0) }},
				}, nil
			})
		},
	}
	cmd.Flags().Uint16Var(&onMs, "on", 500, "On time in milliseconds")
	cmd.Flags().Uint16Var(&offMs, "off", 500, "Off time in milliseconds")
	cmd.Flags().DurationVar(&duration, "duration", 5*time.Second, "Scene length")
	return cmd
}

func newDimCmd(opts *options) *cobra.Command {
	var (
		hw    bool
		every time.Duration
	)
	cmd := &cobra.Command{
		Use:   "dim",
		Short: "Sweep brightness of the status indicator from 0 to 100",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScene(cmd, opts, hw, func(s *stage) (time.Duration, []step, error) {
				g, err := s.group("status")
				if err != nil {
					return 0, nil, err
				}
				total, steps := sweep(g, every)
				return total, steps, nil
			})
		},
	}
	cmd.Flags().BoolVar(&hw, "hw", false, "Use the duty sink instead of software PWM")
	cmd.Flags().DurationVar(&every, "step", 200*time.Millisecond, "Time per 10% brightness step")
	return cmd
}

// sweep ramps every channel up then back down in 10% steps.
func sweep(g ledz.Group, every time.Duration) (time.Duration, []step) {
	half := 10 * every
	up := ramp.Linear(0, 100, 100, half, 10)
	down := ramp.Linear(100, 0, 100, half, 10)

	steps := make([]step, 0, len(up)+len(down))
	add := func(offset time.Duration, pts []ramp.Point) {
		for _, p := range pts {
			level := p.Level
			steps = append(steps, step{offset + p.At, func(e *ledz.Engine) { e.Brightness(g, ledz.AllColors, level) }})
		}
	}
	add(0, up)
	add(half, down[1:])
	return 2*half + every, steps
}
