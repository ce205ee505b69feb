//go:build rp2040

package main

import (
	"machine"

	"ledz-go/x/mathx"
	"ledz-go/x/timex"
)

const pwmHz = 1000

type pinMode uint8

const (
	modeUnset pinMode = iota
	modeOut
	modePWM
)

// Local interface to avoid depending on an unexported concrete type in machine.
type pwmCtrl interface {
	Configure(cfg machine.PWMConfig) error
	Top() uint32
	Set(channel uint8, value uint32)
}

func pwmGroupBySlice(slice uint8) pwmCtrl {
	switch slice {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	default:
		return machine.PWM7
	}
}

// gpio implements the engine's pin sinks on RP2040 GPIO numbers. The port
// argument is ignored. A pin switches between plain output and PWM function
// on demand. Only the indicator goroutine calls it.
type gpio struct {
	mode [30]pinMode
}

func (g *gpio) writePin(_ int, n int, level bool) {
	if n < 0 || n >= len(g.mode) {
		return
	}
	p := machine.Pin(n)
	if g.mode[n] != modeOut {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
		g.mode[n] = modeOut
	}
	p.Set(level)
}

func (g *gpio) writeDuty(_ int, n int, duty uint8) {
	if n < 0 || n >= len(g.mode) {
		return
	}
	slice, err := machine.PWMPeripheral(machine.Pin(n))
	if err != nil {
		println("[board] pin has no pwm:", n)
		return
	}
	ctrl := pwmGroupBySlice(slice)
	if g.mode[n] != modePWM {
		if err := ctrl.Configure(machine.PWMConfig{Period: timex.PeriodFromHz(pwmHz)}); err != nil {
			println("[board] pwm configure failed:", err.Error())
			return
		}
		machine.Pin(n).Configure(machine.PinConfig{Mode: machine.PinPWM})
		g.mode[n] = modePWM
	}
	top := ctrl.Top()
	ctrl.Set(uint8(n&1), mathx.RoundDiv(top*uint32(mathx.Clamp(duty, 0, 100)), 100))
}
