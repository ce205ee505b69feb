package ledz

// blinkState folds the blink enable flag and its phase into one value.
type blinkState uint8

const (
	blinkIdle blinkState = iota
	blinkOn
	blinkOff
)

// record is one channel. A free record has used == false and every other
// field except gen is stale.
type record struct {
	color Color
	pin   Pin
	used  bool
	gen   uint16
	next  int16 // slot of the next channel in the group, -1 at the tail

	on    bool
	blink blinkState

	timeOn    uint16
	timeOff   uint16
	remaining uint16

	duty uint8 // corrected duty cycle; 0 when not dimming
	pwm  uint8 // software PWM countdown
	hw   bool  // hardware PWM currently drives the pin
}

func (r *record) reset(c Color, p Pin, next int16) {
	gen := r.gen
	*r = record{color: c, pin: p, used: true, gen: gen, next: next}
}

// pool hands out records from a table sized once at construction. The first
// pass walks a high-water mark; after that freed slots are found by scan.
type pool struct {
	recs  []record
	hwm   int
	avail int
}

func newPool(n int) pool {
	return pool{recs: make([]record, n), avail: n}
}

func (p *pool) available() int { return p.avail }

func (p *pool) acquire() (int, bool) {
	if p.hwm < len(p.recs) {
		i := p.hwm
		p.hwm++
		p.take(i)
		return i, true
	}
	for i := range p.recs {
		if !p.recs[i].used {
			p.take(i)
			return i, true
		}
	}
	return -1, false
}

func (p *pool) take(i int) {
	r := &p.recs[i]
	r.used = true
	r.gen++
	if r.gen == 0 {
		r.gen = 1
	}
	p.avail--
}

// release is idempotent.
func (p *pool) release(i int) {
	if i < 0 || i >= len(p.recs) || !p.recs[i].used {
		return
	}
	p.recs[i].used = false
	p.avail++
}

// live is the slice of slots that have ever been handed out.
func (p *pool) live() []record { return p.recs[:p.hwm] }
