// Package ledz drives LED indicators (single colour or RGB-style packages of
// up to three channels) from a periodic tick.
//
// An Engine owns a fixed table of channel records allocated once by New.
// Create links 1–3 records into a Group; every other operation takes the
// group plus a Color mask and applies to each channel whose colour
// intersects the mask:
//
//	e, _ := ledz.New(ledz.Config{WritePin: gpioSet, TickPeriodUs: 100})
//	rgb, _ := e.Create([]ledz.Color{ledz.Red, ledz.Green, ledz.Blue}, pins)
//	e.On(rgb, ledz.Red|ledz.Green)
//	e.Blink(rgb, ledz.Red, 200, 300)
//	e.Brightness(rgb, ledz.Blue, 50)
//
// Tick must be called at Config.TickPeriodUs. Blink timers advance on a
// ~1ms grid derived from that period; software PWM advances on every tick,
// so one PWM period is 100 ticks.
//
// Concurrency: the Engine has no locks and never blocks or allocates after
// New. Tick may run in interrupt context while configuration calls run in
// the main context, provided a channel's configuration is never mutated
// from both contexts at once. Hosts that want a stricter model can own the
// Engine from one goroutine (see services/indicator).
package ledz
