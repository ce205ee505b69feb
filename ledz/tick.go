package ledz

// Tick advances every live channel by one tick period. Blink timers move
// once per millisecond; software PWM moves on every call. Work is bounded
// by the record table size.
func (e *Engine) Tick() {
	e.sub++
	ms := e.sub >= e.ticksPerMs
	if ms {
		e.sub = 0
	}

	recs := e.pool.live()
	for i := range recs {
		r := &recs[i]
		if !r.used {
			continue
		}
		// A phase flip owns this tick.
		if ms && r.blink != blinkIdle && e.stepBlink(r) {
			continue
		}
		if e.writeDuty == nil && r.duty != 0 && r.blink != blinkOff {
			e.stepPWM(r)
		}
	}
}

// stepBlink counts down one millisecond and reports whether the phase
// flipped.
func (e *Engine) stepBlink(r *record) bool {
	if r.remaining > 0 {
		r.remaining--
	}
	if r.remaining != 0 {
		return false
	}

	if r.blink == blinkOn {
		r.blink, r.remaining = blinkOff, r.timeOff
		r.on, r.hw, r.pwm = false, false, 0
		e.write(r, false)
		return true
	}

	r.blink, r.remaining = blinkOn, r.timeOn
	r.on = true
	switch {
	case r.duty != 0 && e.writeDuty != nil:
		r.hw = true
		e.writeHW(r)
	case r.duty != 0:
		e.write(r, true)
		r.pwm = r.duty
	default:
		e.write(r, true)
	}
	return true
}

// stepPWM synthesises the duty cycle: duty ticks on, 100-duty ticks off.
func (e *Engine) stepPWM(r *record) {
	if r.pwm > 0 {
		r.pwm--
	}
	if r.pwm != 0 {
		return
	}
	r.on = !r.on
	e.write(r, r.on)
	if r.on {
		r.pwm = r.duty
	} else {
		r.pwm = 100 - r.duty
	}
}
