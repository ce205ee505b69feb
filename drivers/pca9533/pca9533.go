// Package pca9533 drives the NXP PCA9533 4-bit I2C LED dimmer.
//
// Each of the four outputs is selected in LS0 as off, on, or one of two PWM
// banks. Output i dims through bank i%2, so outputs 0/2 and 1/3 share a duty.
//
// Device.WritePin and Device.WriteDuty match ledz.WritePinFunc and
// ledz.WriteDutyFunc; the port argument is ignored and pin is the output
// index. Bus errors are latched and reported by Err.
package pca9533

import (
	"errors"

	"tinygo.org/x/drivers"
)

// I2C address (PCA9533/01).
const Address = 0x62

const (
	regInput = 0x00
	regPSC0  = 0x01
	regPWM0  = 0x02
	regPSC1  = 0x03
	regPWM1  = 0x04
	regLS0   = 0x05

	autoIncrement = 0x10
)

// LS0 selector values.
const (
	ModeOff  = 0
	ModeOn   = 1
	ModePWM0 = 2
	ModePWM1 = 3
)

// Outputs on the package.
const Outputs = 4

var (
	ErrOutput = errors.New("pca9533: output out of range")
	ErrMode   = errors.New("pca9533: invalid mode")
)

// Device wraps an I2C connection to a PCA9533.
type Device struct {
	bus     drivers.I2C
	Address uint16

	ls  byte
	pwm [2]byte
	err error
	buf [6]byte
}

// New creates a Device. The I2C bus must already be configured.
func New(bus drivers.I2C) Device {
	return Device{bus: bus, Address: Address}
}

// Configure runs both PWM banks at the fastest prescaler (152 Hz), zero duty,
// with every output off.
func (d *Device) Configure() error {
	d.ls, d.pwm = 0, [2]byte{}
	d.buf = [6]byte{regPSC0 | autoIncrement, 0, 0, 0, 0, 0}
	return d.bus.Tx(d.Address, d.buf[:6], nil)
}

// Input reads the pin input register (bit i = output i level).
func (d *Device) Input() (byte, error) {
	r := []byte{0}
	if err := d.bus.Tx(d.Address, []byte{regInput}, r); err != nil {
		return 0, err
	}
	return r[0] & 0x0F, nil
}

// SetMode selects the LS0 source for one output.
func (d *Device) SetMode(led int, mode byte) error {
	if led < 0 || led >= Outputs {
		return ErrOutput
	}
	if mode > ModePWM1 {
		return ErrMode
	}
	shift := uint(led) * 2
	ls := d.ls&^(0x3<<shift) | mode<<shift
	if ls == d.ls {
		return nil
	}
	if err := d.writeReg(regLS0, ls); err != nil {
		return err
	}
	d.ls = ls
	return nil
}

// Mode returns the cached LS0 selector for led.
func (d *Device) Mode(led int) byte {
	if led < 0 || led >= Outputs {
		return ModeOff
	}
	return d.ls >> (uint(led) * 2) & 0x3
}

// SetBank writes a PWM bank register (0..255 = 0..~100% on).
func (d *Device) SetBank(bank int, v byte) error {
	if bank != 0 && bank != 1 {
		return ErrMode
	}
	if d.pwm[bank] == v {
		return nil
	}
	reg := byte(regPWM0)
	if bank == 1 {
		reg = regPWM1
	}
	if err := d.writeReg(reg, v); err != nil {
		return err
	}
	d.pwm[bank] = v
	return nil
}

// WritePin switches output pin fully on or off.
func (d *Device) WritePin(_ int, pin int, level bool) {
	mode := byte(ModeOff)
	if level {
		mode = ModeOn
	}
	d.latch(d.SetMode(pin, mode))
}

// WriteDuty drives output pin at duty percent through its PWM bank.
func (d *Device) WriteDuty(_ int, pin int, duty uint8) {
	switch {
	case duty == 0:
		d.latch(d.SetMode(pin, ModeOff))
		return
	case duty >= 100:
		d.latch(d.SetMode(pin, ModeOn))
		return
	}
	bank := pin & 1
	if err := d.SetBank(bank, dutyToPWM(duty)); err != nil {
		d.latch(err)
		return
	}
	d.latch(d.SetMode(pin, byte(ModePWM0+bank)))
}

// Err returns and clears the first error latched by WritePin/WriteDuty.
func (d *Device) Err() error {
	err := d.err
	d.err = nil
	return err
}

func (d *Device) latch(err error) {
	if err != nil && d.err == nil {
		d.err = err
	}
}

func (d *Device) writeReg(reg, v byte) error {
	d.buf[0], d.buf[1] = reg, v
	return d.bus.Tx(d.Address, d.buf[:2], nil)
}

// dutyToPWM maps 0..100 % to the 0..255 register, rounding.
func dutyToPWM(duty uint8) byte {
	if duty >= 100 {
		return 255
	}
	return byte((uint16(duty)*256 + 50) / 100)
}
