// Package termled renders indicator pins as coloured cells on an ANSI
// terminal line. Port n is drawn at column 2n-1; the pin number is used as
// the SGR foreground code (31 red, 32 green, 33 yellow, 34 blue, ...).
package termled

import (
	"io"
	"sort"
	"strconv"
)

const (
	glyph   = "●"
	offCode = 90 // bright black
)

type cell struct {
	lit  map[int]uint8 // pin -> duty (100 = fully on)
	last int
}

// Terminal is a pin sink for ledz. It is not safe for concurrent use.
type Terminal struct {
	w     io.Writer
	cells map[int]*cell
	buf   []byte
}

func New(w io.Writer) *Terminal {
	return &Terminal{w: w, cells: map[int]*cell{}}
}

// WritePin matches ledz.WritePinFunc.
func (t *Terminal) WritePin(port, pin int, level bool) {
	var duty uint8
	if level {
		duty = 100
	}
	t.WriteDuty(port, pin, duty)
}

// WriteDuty matches ledz.WriteDutyFunc. Duties below 50 are drawn faint.
func (t *Terminal) WriteDuty(port, pin int, duty uint8) {
	c := t.cells[port]
	if c == nil {
		c = &cell{lit: map[int]uint8{}}
		t.cells[port] = c
	}
	if duty == 0 {
		delete(c.lit, pin)
	} else {
		c.lit[pin] = duty
		c.last = pin
	}
	t.draw(port, c)
}

// HideCursor and ShowCursor bracket a drawing session.
func (t *Terminal) HideCursor() { _, _ = io.WriteString(t.w, "\x1b[?25l") }
func (t *Terminal) ShowCursor() { _, _ = io.WriteString(t.w, "\x1b[?25h\x1b[39m\n") }

// Clear resets every drawn cell to off and moves to a fresh line.
func (t *Terminal) Clear() {
	ports := make([]int, 0, len(t.cells))
	for p := range t.cells {
		ports = append(ports, p)
	}
	sort.Ints(ports)
	for _, p := range ports {
		c := t.cells[p]
		c.lit = map[int]uint8{}
		t.draw(p, c)
	}
	_, _ = io.WriteString(t.w, "\n")
}

func (t *Terminal) draw(port int, c *cell) {
	code, faint := offCode, false
	if d, ok := c.lit[c.last]; ok {
		code, faint = c.last, d < 50
	} else {
		// Another pin on the same port may still be lit; show the highest.
		best := -1
		for p := range c.lit {
			if p > best {
				best = p
			}
		}
		if best >= 0 {
			code, faint = best, c.lit[best] < 50
		}
	}

	b := t.buf[:0]
	b = append(b, "\x1b["...)
	b = strconv.AppendInt(b, int64(port*2-1), 10)
	b = append(b, "G\x1b["...)
	if faint {
		b = append(b, "2;"...)
	}
	b = strconv.AppendInt(b, int64(code), 10)
	b = append(b, 'm')
	b = append(b, glyph...)
	b = append(b, "\x1b[0m"...)
	t.buf = b
	_, _ = t.w.Write(b)
}
