package timex

import "time"

// NowMs returns Unix milliseconds as int64.
func NowMs() int64 { return time.Now().UnixMilli() }

// PeriodFromHz returns a PWM period in nanoseconds. freqHz==0 is treated as 1.
func PeriodFromHz(freqHz uint32) uint64 {
	if freqHz == 0 {
		freqHz = 1
	}
	return 1_000_000_000 / uint64(freqHz)
}

// Micros converts a tick period in microseconds to a Duration, substituting
// def when us is zero.
func Micros(us, def uint32) time.Duration {
	if us == 0 {
		us = def
	}
	return time.Duration(us) * time.Microsecond
}
