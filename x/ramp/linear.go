package ramp

import (
	"time"

	"ledz-go/x/mathx"
)

// Point is one level change, At after the ramp starts.
type Point struct {
	At    time.Duration
	Level int
}

// Linear spreads an integer ramp from cur to to over d in the given number
// of equal steps, clamped to [0..top]. Remainders are carried so the final
// point always lands exactly on to. steps==0 or d==0 snaps to to.
func Linear(cur, to, top int, d time.Duration, steps int) []Point {
	to = mathx.Clamp(to, 0, top)
	if steps <= 0 || d <= 0 {
		return []Point{{0, to}}
	}
	stepDur := d / time.Duration(steps)
	delta := to - cur
	acc := 0
	level := mathx.Clamp(cur, 0, top)

	pts := make([]Point, 0, steps+1)
	pts = append(pts, Point{0, level})
	for i := 1; i < steps; i++ {
		acc += delta
		if inc := acc / steps; inc != 0 {
			acc -= inc * steps
			level = mathx.Clamp(level+inc, 0, top)
		}
		pts = append(pts, Point{time.Duration(i) * stepDur, level})
	}
	return append(pts, Point{d, to})
}
