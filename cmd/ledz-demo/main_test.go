package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ledz-go/ledz"
	"ledz-go/services/config"
	"ledz-go/services/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

const fileCfg = `
tick_period_us = 500
max_instances = 5

[[indicator]]
id = "status"
colors = ["red", "green", "blue"]
pins = [[1, 31], [2, 32], [3, 34]]
`

func TestLoadConfigFlagPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledz.toml")
	if err := os.WriteFile(path, []byte(fileCfg), 0o644); err != nil {
		t.Fatal(err)
	}

	opts := &options{}
	root := newRootCmd(opts)
	cmd, _, err := root.Find([]string{"onoff"})
	if err != nil {
		t.Fatal(err)
	}
	if err := cmd.ParseFlags([]string{"--config", path, "--active-low", "--max-instances", "4"}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}

	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.TickPeriodUs != 500 {
		t.Fatalf("unset --tick-period overrode file: %d", cfg.TickPeriodUs)
	}
	if !cfg.ActiveLow || cfg.MaxInstances != 4 {
		t.Fatalf("flags not applied: %+v", cfg)
	}
}

func TestLoadConfigEmbedded(t *testing.T) {
	opts := &options{}
	root := newRootCmd(opts)
	cmd, _, err := root.Find([]string{"blink"})
	if err != nil {
		t.Fatal(err)
	}
	if err := cmd.ParseFlags([]string{"--tick-period", "100"}); err != nil {
		t.Fatal(err)
	}
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.TickPeriodUs != 100 || len(cfg.Indicators) == 0 {
		t.Fatalf("embedded host config = %+v", cfg)
	}

	opts.Device = "toaster"
	if _, err := loadConfig(cmd, opts); err == nil {
		t.Fatalf("unknown device accepted")
	}
}

func TestNewLogger(t *testing.T) {
	if _, err := newLogger("debug", "json"); err != nil {
		t.Fatal(err)
	}
	if _, err := newLogger("loud", "text"); err == nil {
		t.Fatalf("bad level accepted")
	}
	if _, err := newLogger("info", "xml"); err == nil {
		t.Fatalf("bad format accepted")
	}
}

func TestSweepSchedule(t *testing.T) {
	total, steps := sweep(ledz.Group{}, 100*time.Millisecond)
	if total != 2100*time.Millisecond {
		t.Fatalf("total = %v", total)
	}
	if len(steps) != 21 {
		t.Fatalf("steps = %d, want 21", len(steps))
	}
	for i := 1; i < len(steps); i++ {
		if steps[i].at <= steps[i-1].at {
			t.Fatalf("step %d at %v not after %v", i, steps[i].at, steps[i-1].at)
		}
	}
}

func TestStagePlaysSteps(t *testing.T) {
	cfg, err := config.Embedded("host")
	if err != nil {
		t.Fatal(err)
	}
	st, err := newStage(cfg, false, io.Discard, metrics.New(prometheus.NewRegistry()))
	if err != nil {
		t.Fatal(err)
	}
	g, err := st.group("status")
	if err != nil {
		t.Fatal(err)
	}
	var fired []time.Duration
	mark := func(at time.Duration) step {
		return step{at, func(*ledz.Engine) { fired = append(fired, at) }}
	}
	st.play(t.Context(), 3*time.Millisecond, []step{
		mark(0), mark(time.Millisecond), mark(3 * time.Millisecond), mark(time.Hour),
	})
	if len(fired) != 3 {
		t.Fatalf("fired = %v", fired)
	}
	if !st.eng.Valid(g) {
		t.Fatalf("status group invalid")
	}
}
