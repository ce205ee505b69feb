// Package metrics exports indicator activity to Prometheus. Host builds only.
package metrics

import (
	"strconv"

	"ledz-go/errcode"
	"ledz-go/ledz"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ledz"

// Metrics implements indicator.Observer and wraps the pin sinks.
type Metrics struct {
	ticks     prometheus.Counter
	commands  *prometheus.CounterVec
	pinWrites *prometheus.CounterVec
	duty      *prometheus.GaugeVec
}

// New registers the collectors on reg (prometheus.DefaultRegisterer when nil).
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		ticks: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "ticks_total",
			Help:      "Engine ticks processed",
		}),
		commands: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "service",
			Name:      "commands_total",
			Help:      "Control requests handled, by verb and result code",
		}, []string{"verb", "code"}),
		pinWrites: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pins",
			Name:      "writes_total",
			Help:      "Physical pin writes, by kind",
		}, []string{"kind"}),
		duty: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pins",
			Name:      "duty_percent",
			Help:      "Last hardware duty written per pin",
		}, []string{"pin"}),
	}
}

func (m *Metrics) Ticked() { m.ticks.Inc() }

func (m *Metrics) Handled(verb string, code errcode.Code) {
	m.commands.WithLabelValues(verb, string(code)).Inc()
}

// WrapPin counts writes before forwarding to next.
func (m *Metrics) WrapPin(next ledz.WritePinFunc) ledz.WritePinFunc {
	level := m.pinWrites.WithLabelValues("level")
	return func(port, pin int, on bool) {
		level.Inc()
		next(port, pin, on)
	}
}

// WrapDuty counts duty writes and records the last duty per pin. A nil next
// stays nil so the engine keeps using software PWM. The returned sink is
// called from the engine's goroutine only; gauges are resolved once per pin.
func (m *Metrics) WrapDuty(next ledz.WriteDutyFunc) ledz.WriteDutyFunc {
	if next == nil {
		return nil
	}
	dw := m.pinWrites.WithLabelValues("duty")
	gauges := make(map[ledz.Pin]prometheus.Gauge)
	return func(port, pin int, duty uint8) {
		dw.Inc()
		p := ledz.Pin{Port: port, Num: pin}
		g, ok := gauges[p]
		if !ok {
			g = m.duty.WithLabelValues(pinLabel(port, pin))
			gauges[p] = g
		}
		g.Set(float64(duty))
		next(port, pin, duty)
	}
}

func pinLabel(port, pin int) string {
	return strconv.Itoa(port) + ":" + strconv.Itoa(pin)
}
