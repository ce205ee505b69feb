package timex

import (
	"testing"
	"time"
)

func TestPeriodFromHz(t *testing.T) {
	if got := PeriodFromHz(1000); got != 1_000_000 {
		t.Fatalf("1kHz = %d ns", got)
	}
	if got := PeriodFromHz(0); got != 1_000_000_000 {
		t.Fatalf("0Hz = %d ns", got)
	}
}

func TestMicros(t *testing.T) {
	if got := Micros(250, 1000); got != 250*time.Microsecond {
		t.Fatalf("Micros(250) = %v", got)
	}
	if got := Micros(0, 1000); got != time.Millisecond {
		t.Fatalf("Micros(0) = %v", got)
	}
}

func TestNowMs(t *testing.T) {
	before := time.Now().UnixMilli()
	if got := NowMs(); got < before {
		t.Fatalf("NowMs went backwards: %d < %d", got, before)
	}
}
