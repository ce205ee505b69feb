package pca9533

import (
	"errors"
	"testing"

	"tinygo.org/x/drivers"
)

var _ drivers.I2C = (*fakeI2C)(nil)

// fakeI2C models the register file, honouring auto-increment.
type fakeI2C struct {
	regs  [6]byte
	input byte
	txs   int
	fail  error
}

func (f *fakeI2C) Tx(addr uint16, w, r []byte) error {
	if f.fail != nil {
		return f.fail
	}
	if addr != Address {
		return errors.New("nack")
	}
	f.txs++
	if len(w) == 1 && len(r) == 1 && w[0] == regInput {
		r[0] = f.input
		return nil
	}
	reg := w[0] &^ autoIncrement
	for i, b := range w[1:] {
		f.regs[int(reg)+i] = b
	}
	return nil
}

func TestConfigure(t *testing.T) {
	f := &fakeI2C{regs: [6]byte{0, 9, 9, 9, 9, 0xFF}}
	d := New(f)
	if err := d.Configure(); err != nil {
		t.Fatal(err)
	}
	for r := regPSC0; r <= regLS0; r++ {
		if f.regs[r] != 0 {
			t.Fatalf("reg %d = %#x, want 0", r, f.regs[r])
		}
	}
}

func TestWritePin(t *testing.T) {
	f := &fakeI2C{}
	d := New(f)
	d.WritePin(0, 2, true)
	if f.regs[regLS0] != ModeOn<<4 {
		t.Fatalf("LS0 = %#08b", f.regs[regLS0])
	}
	before := f.txs
	d.WritePin(0, 2, true)
	if f.txs != before {
		t.Fatalf("unchanged level rewrote LS0")
	}
	d.WritePin(0, 2, false)
	if f.regs[regLS0] != 0 {
		t.Fatalf("LS0 = %#08b after off", f.regs[regLS0])
	}
}

func TestWriteDutyBanks(t *testing.T) {
	f := &fakeI2C{}
	d := New(f)

	d.WriteDuty(0, 1, 50)
	if f.regs[regPWM1] != 128 {
		t.Fatalf("PWM1 = %d, want 128", f.regs[regPWM1])
	}
	if d.Mode(1) != ModePWM1 {
		t.Fatalf("mode(1) = %d", d.Mode(1))
	}

	d.WriteDuty(0, 0, 18)
	if f.regs[regPWM0] != 46 || d.Mode(0) != ModePWM0 {
		t.Fatalf("PWM0 = %d mode = %d", f.regs[regPWM0], d.Mode(0))
	}

	d.WriteDuty(0, 0, 0)
	if d.Mode(0) != ModeOff {
		t.Fatalf("duty 0 not off")
	}
	d.WriteDuty(0, 1, 100)
	if d.Mode(1) != ModeOn {
		t.Fatalf("duty 100 not on")
	}
	if err := d.Err(); err != nil {
		t.Fatalf("Err = %v", err)
	}
}

func TestErrorsLatched(t *testing.T) {
	f := &fakeI2C{}
	d := New(f)
	d.WritePin(0, 7, true)
	if !errors.Is(d.Err(), ErrOutput) {
		t.Fatalf("out of range not latched")
	}
	if d.Err() != nil {
		t.Fatalf("Err not cleared")
	}

	nack := errors.New("nack")
	f.fail = nack
	d.WritePin(0, 0, true)
	d.WritePin(0, 1, true)
	if !errors.Is(d.Err(), nack) {
		t.Fatalf("bus error not latched")
	}
	if d.Mode(0) != ModeOff {
		t.Fatalf("cache updated despite failed write")
	}
}

func TestInput(t *testing.T) {
	f := &fakeI2C{input: 0xF5}
	d := New(f)
	v, err := d.Input()
	if err != nil || v != 0x05 {
		t.Fatalf("Input = %#x, %v", v, err)
	}
}
