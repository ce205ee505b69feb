package ledz

import "testing"

func TestCIETable(t *testing.T) {
	if cie[0] != 0 || cie[100] != 100 {
		t.Fatalf("endpoints = %d,%d", cie[0], cie[100])
	}
	for i := 1; i < len(cie); i++ {
		if cie[i] < cie[i-1] {
			t.Fatalf("table not monotonic at %d: %d < %d", i, cie[i], cie[i-1])
		}
	}
	if cie[50] != 18 {
		t.Fatalf("cie[50] = %d, want 18", cie[50])
	}
}

func TestDutyForClamps(t *testing.T) {
	if DutyFor(-20) != 0 {
		t.Fatalf("DutyFor(-20) = %d", DutyFor(-20))
	}
	if DutyFor(250) != 100 {
		t.Fatalf("DutyFor(250) = %d", DutyFor(250))
	}
}
