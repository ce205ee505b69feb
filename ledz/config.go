package ledz

import (
	"ledz-go/errcode"
	"ledz-go/x/mathx"
)

const (
	// DefaultMaxInstances is the record table size used when
	// Config.MaxInstances is zero. An RGB package uses three records.
	DefaultMaxInstances = 3
	// DefaultTickPeriodUs assumes Tick runs once per millisecond.
	DefaultTickPeriodUs = 1000
	// MaxChannels bounds the records in one group.
	MaxChannels = 3

	maxTickPeriodUs = 1000
	maxCapacity     = 1<<15 - 1
)

// WritePinFunc sets a digital output. level is the electrical level after
// polarity has been applied. It must be safe to call from Tick's context.
type WritePinFunc func(port, pin int, level bool)

// WriteDutyFunc programs a hardware PWM output with a duty cycle in percent
// (0..100, already inverted for active-low outputs).
type WriteDutyFunc func(port, pin int, duty uint8)

// Pin identifies a physical output. Its meaning belongs to the WritePinFunc.
type Pin struct {
	Port int
	Num  int
}

// Config configures an Engine. Only WritePin is required.
type Config struct {
	// MaxInstances is the number of channel records. Default 3.
	MaxInstances int
	// TickPeriodUs is the interval between Tick calls, 1..1000 µs.
	// Default 1000.
	TickPeriodUs uint32
	// ActiveLow drives the pin low to light the LED.
	ActiveLow bool
	WritePin  WritePinFunc
	// WriteDuty, when set, replaces software PWM dimming.
	WriteDuty WriteDutyFunc
}

func (c *Config) normalise() error {
	if c.WritePin == nil {
		return &errcode.E{C: errcode.InvalidParams, Op: "ledz", Msg: "write pin function required"}
	}
	if c.MaxInstances == 0 {
		c.MaxInstances = DefaultMaxInstances
	}
	if !mathx.Between(c.MaxInstances, 1, maxCapacity) {
		return &errcode.E{C: errcode.InvalidParams, Op: "ledz", Msg: "max instances out of range"}
	}
	if c.TickPeriodUs == 0 {
		c.TickPeriodUs = DefaultTickPeriodUs
	}
	if c.TickPeriodUs > maxTickPeriodUs {
		return &errcode.E{C: errcode.InvalidParams, Op: "ledz", Msg: "tick period must be 1..1000us"}
	}
	return nil
}

// ticksPerMs is the number of Tick calls that make up one millisecond,
// rounded to the nearest whole tick.
func (c *Config) ticksPerMs() uint32 {
	return mathx.RoundDiv(uint32(1000), c.TickPeriodUs)
}
