package metrics

import (
	"testing"

	"ledz-go/errcode"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserver(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.Ticked()
	m.Ticked()
	m.Handled("on", errcode.OK)
	m.Handled("on", errcode.UnknownIndicator)
	m.Handled("on", errcode.OK)

	if v := testutil.ToFloat64(m.ticks); v != 2 {
		t.Fatalf("ticks = %v, want 2", v)
	}
	if v := testutil.ToFloat64(m.commands.WithLabelValues("on", "ok")); v != 2 {
		t.Fatalf("on/ok = %v, want 2", v)
	}
	if v := testutil.ToFloat64(m.commands.WithLabelValues("on", "unknown_indicator")); v != 1 {
		t.Fatalf("on/unknown_indicator = %v, want 1", v)
	}
}

func TestWrap(t *testing.T) {
	m := New(prometheus.NewRegistry())
	var levels, duties int
	pin := m.WrapPin(func(int, int, bool) { levels++ })
	duty := m.WrapDuty(func(int, int, uint8) { duties++ })

	pin(1, 31, true)
	pin(1, 31, false)
	duty(3, 34, 18)

	if levels != 2 || duties != 1 {
		t.Fatalf("forwarded %d/%d", levels, duties)
	}
	if v := testutil.ToFloat64(m.pinWrites.WithLabelValues("level")); v != 2 {
		t.Fatalf("level writes = %v", v)
	}
	if v := testutil.ToFloat64(m.duty.WithLabelValues("3:34")); v != 18 {
		t.Fatalf("duty gauge = %v", v)
	}
	if m.WrapDuty(nil) != nil {
		t.Fatalf("nil duty sink must stay nil")
	}
}

func TestWrapDuty_CachesGaugePerPin(t *testing.T) {
	m := New(prometheus.NewRegistry())
	duty := m.WrapDuty(func(int, int, uint8) {})

	duty(3, 34, 18)
	duty(3, 34, 50)
	duty(1, 31, 7)
	if v := testutil.ToFloat64(m.duty.WithLabelValues("3:34")); v != 50 {
		t.Fatalf("3:34 gauge = %v, want 50", v)
	}
	if v := testutil.ToFloat64(m.duty.WithLabelValues("1:31")); v != 7 {
		t.Fatalf("1:31 gauge = %v, want 7", v)
	}
	if n := testing.AllocsPerRun(100, func() { duty(3, 34, 18) }); n != 0 {
		t.Fatalf("duty write allocates %v times", n)
	}
}

func TestRegisterTwiceOnSameRegistryPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected duplicate registration panic")
		}
	}()
	New(reg)
}
