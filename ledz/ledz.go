package ledz

import "ledz-go/errcode"

// Group is a handle to the channels of one physical package. The zero Group
// is invalid, and a Group goes stale once destroyed: operations on it are
// ignored.
type Group struct {
	head uint16
	n    uint8
	gen  uint16
}

// Len is the number of channels in the group.
func (g Group) Len() int { return int(g.n) }

// Channel is a read-only view of one channel.
type Channel struct {
	Color    Color
	Pin      Pin
	On       bool
	Blinking bool
	Duty     uint8 // 0 unless dimming
}

// Engine holds the channel records and advances them on Tick.
type Engine struct {
	pool      pool
	writePin  WritePinFunc
	writeDuty WriteDutyFunc
	activeLow bool

	ticksPerMs uint32
	sub        uint32
}

// New allocates the record table and validates cfg.
func New(cfg Config) (*Engine, error) {
	if err := cfg.normalise(); err != nil {
		return nil, err
	}
	return &Engine{
		pool:       newPool(cfg.MaxInstances),
		writePin:   cfg.WritePin,
		writeDuty:  cfg.WriteDuty,
		activeLow:  cfg.ActiveLow,
		ticksPerMs: cfg.ticksPerMs(),
	}, nil
}

// Capacity is the total number of channel records.
func (e *Engine) Capacity() int { return len(e.pool.recs) }

// Available is the number of free channel records.
func (e *Engine) Available() int { return e.pool.available() }

// Create links one record per colour into a new group, in the order given.
// All channels start off with blink and dimming idle; no pin is written.
// Availability is checked up front so a failed Create touches nothing.
func (e *Engine) Create(colors []Color, pins []Pin) (Group, error) {
	n := len(colors)
	if n < 1 || n > MaxChannels || len(pins) != n {
		return Group{}, errcode.InvalidParams
	}
	if e.pool.available() < n {
		return Group{}, errcode.PoolExhausted
	}
	next := int16(-1)
	for i := n - 1; i >= 0; i-- {
		idx, _ := e.pool.acquire()
		e.pool.recs[idx].reset(colors[i], pins[i], next)
		next = int16(idx)
	}
	return Group{head: uint16(next), n: uint8(n), gen: e.pool.recs[next].gen}, nil
}

// Destroy returns every channel of g to the pool.
func (e *Engine) Destroy(g Group) {
	i := e.head(g)
	for i >= 0 {
		next := int(e.pool.recs[i].next)
		e.pool.release(i)
		i = next
	}
}

// Valid reports whether g refers to a live group.
func (e *Engine) Valid(g Group) bool { return e.head(g) >= 0 }

func (e *Engine) head(g Group) int {
	if g.gen == 0 || int(g.head) >= len(e.pool.recs) {
		return -1
	}
	r := &e.pool.recs[g.head]
	if !r.used || r.gen != g.gen {
		return -1
	}
	return int(g.head)
}

// Inspect calls fn for each channel of g in creation order.
func (e *Engine) Inspect(g Group, fn func(Channel)) {
	for i := e.head(g); i >= 0; i = int(e.pool.recs[i].next) {
		r := &e.pool.recs[i]
		fn(Channel{
			Color:    r.color,
			Pin:      r.pin,
			On:       r.on,
			Blinking: r.blink != blinkIdle,
			Duty:     r.duty,
		})
	}
}

func (e *Engine) On(g Group, c Color)     { e.Set(g, c, 1) }
func (e *Engine) Off(g Group, c Color)    { e.Set(g, c, 0) }
func (e *Engine) Toggle(g Group, c Color) { e.Set(g, c, -1) }

// Set drives the matched channels to a fixed level: value >= 1 is on, 0 is
// off and a negative value inverts each channel's current level. Blink and
// dimming stop on those channels. The pin is written only when the level
// changes, or when hardware PWM has to be released.
func (e *Engine) Set(g Group, c Color, value int) {
	for i := e.head(g); i >= 0; i = int(e.pool.recs[i].next) {
		r := &e.pool.recs[i]
		if r.color&c == 0 {
			continue
		}
		release := r.hw
		r.blink = blinkIdle
		r.duty, r.pwm, r.hw = 0, 0, false

		on := value >= 1
		if value < 0 {
			on = !r.on
		}
		if on == r.on && !release {
			continue
		}
		r.on = on
		e.write(r, on)
	}
}

// Blink starts a timed on/off cycle on the matched channels. The cycle
// begins in the phase matching each channel's current level, so nothing is
// written until the first phase expires. A zero time on either side stops
// blinking and leaves the level alone.
func (e *Engine) Blink(g Group, c Color, timeOn, timeOff uint16) {
	stop := timeOn == 0 || timeOff == 0
	for i := e.head(g); i >= 0; i = int(e.pool.recs[i].next) {
		r := &e.pool.recs[i]
		if r.color&c == 0 {
			continue
		}
		if stop {
			r.blink = blinkIdle
			// A dimmed channel released by an off-phase goes back to hardware.
			if e.writeDuty != nil && r.duty != 0 && !r.hw {
				r.hw, r.on = true, true
				e.writeHW(r)
			}
			continue
		}
		r.timeOn, r.timeOff = timeOn, timeOff
		if r.on {
			r.blink, r.remaining = blinkOn, timeOn
		} else {
			r.blink, r.remaining = blinkOff, timeOff
		}
	}
}

// Brightness dims the matched channels to a perceptual level 0..100
// (clamped). Levels whose corrected duty is 0 or 100 behave exactly like
// Off and On. Otherwise dimming is engaged; while blinking it only runs in
// the on-phase.
func (e *Engine) Brightness(g Group, c Color, value int) {
	duty := DutyFor(value)
	switch duty {
	case 0:
		e.Set(g, c, 0)
		return
	case 100:
		e.Set(g, c, 1)
		return
	}
	for i := e.head(g); i >= 0; i = int(e.pool.recs[i].next) {
		r := &e.pool.recs[i]
		if r.color&c == 0 {
			continue
		}
		r.duty = duty
		r.pwm = 0
		if e.writeDuty != nil && r.blink != blinkOff {
			r.hw = true
			r.on = true
			e.writeHW(r)
		}
	}
}

func (e *Engine) write(r *record, on bool) {
	e.writePin(r.pin.Port, r.pin.Num, on != e.activeLow)
}

func (e *Engine) writeHW(r *record) {
	d := r.duty
	if e.activeLow {
		d = 100 - d
	}
	e.writeDuty(r.pin.Port, r.pin.Num, d)
}
