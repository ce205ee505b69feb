package ledz

import "testing"

// ---- Test doubles ----

type pinWrite struct {
	tick  int
	pin   Pin
	level bool
}

type dutyWrite struct {
	tick int
	pin  Pin
	duty uint8
}

// pinLog records every primitive call, stamped with the current tick.
type pinLog struct {
	tick   int
	writes []pinWrite
	duties []dutyWrite
	level  map[Pin]bool
}

func newPinLog() *pinLog { return &pinLog{level: map[Pin]bool{}} }

func (l *pinLog) writePin(port, pin int, level bool) {
	p := Pin{Port: port, Num: pin}
	l.writes = append(l.writes, pinWrite{tick: l.tick, pin: p, level: level})
	l.level[p] = level
}

func (l *pinLog) writeDuty(port, pin int, duty uint8) {
	l.duties = append(l.duties, dutyWrite{tick: l.tick, pin: Pin{Port: port, Num: pin}, duty: duty})
}

func (l *pinLog) writesAt(tick int) []pinWrite {
	var out []pinWrite
	for _, w := range l.writes {
		if w.tick == tick {
			out = append(out, w)
		}
	}
	return out
}

func (l *pinLog) writesBetween(from, to int) int {
	n := 0
	for _, w := range l.writes {
		if w.tick >= from && w.tick <= to {
			n++
		}
	}
	return n
}

// run advances the engine n ticks, stamping writes with the tick number.
func (l *pinLog) run(e *Engine, n int) {
	for i := 0; i < n; i++ {
		l.tick++
		e.Tick()
	}
}

func newEngine(t *testing.T, cfg Config) (*Engine, *pinLog) {
	t.Helper()
	l := newPinLog()
	cfg.WritePin = l.writePin
	e, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e, l
}

var (
	pinR = Pin{Port: 1, Num: 31}
	pinG = Pin{Port: 2, Num: 32}
	pinB = Pin{Port: 3, Num: 34}
)

func mustCreate(t *testing.T, e *Engine, colors []Color, pins []Pin) Group {
	t.Helper()
	g, err := e.Create(colors, pins)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return g
}

func channel(t *testing.T, e *Engine, g Group, c Color) Channel {
	t.Helper()
	var out Channel
	found := false
	e.Inspect(g, func(ch Channel) {
		if ch.Color == c {
			out, found = ch, true
		}
	})
	if !found {
		t.Fatalf("no %v channel in group", c)
	}
	return out
}
