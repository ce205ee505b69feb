//go:build rp2040

// Command pico-ledz runs the indicator service on a Raspberry Pi Pico with a
// text console on UART0 (GP0 TX, GP1 RX, 115200 8N1).
package main

import (
	"context"
	"machine"
	"time"

	"ledz-go/bus"
	"ledz-go/services/config"
	"ledz-go/services/console"
	"ledz-go/services/heartbeat"
	"ledz-go/services/indicator"
	"ledz-go/types"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
)

// Set by the hwpwm build tag: dimming then uses the PWM slices instead of
// software PWM on the tick.
var useHWPWM = false

// uartIO adapts uartx to io.Reader/io.Writer for the console.
type uartIO struct {
	ctx context.Context
	u   *uartx.UART
}

func (p uartIO) Read(b []byte) (int, error)  { return p.u.RecvSomeContext(p.ctx, b) }
func (p uartIO) Write(b []byte) (int, error) { return p.u.Write(b) }

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("[main] boot")

	ctx := context.Background()
	b := bus.NewBus(4)

	board := &gpio{}
	opts := indicator.Options{WritePin: board.writePin}
	if useHWPWM {
		opts.WriteDuty = board.writeDuty
	}
	println("[main] starting indicator service")
	go indicator.New(b.NewConnection("indicator"), opts).Run(ctx)

	hb := &heartbeat.Service{}
	_ = hb.Start(ctx, b.NewConnection("heartbeat"))

	config.NewConfigService().Start(
		context.WithValue(ctx, config.CtxDeviceKey, "pico"),
		b.NewConnection("config"),
	)

	// Wait for the service to come up before accepting input.
	state := b.NewConnection("main").Subscribe(indicator.TopicState())
	for m := range state.Channel() {
		if st, ok := m.Payload.(types.ServiceState); ok && st.Level == "ready" {
			println("[main] indicators ready, free records:", st.Free)
			break
		}
	}
	state.Unsubscribe()

	hw := uartx.UART0
	_ = hw.Configure(uartx.UARTConfig{
		BaudRate: 115200,
		TX:       machine.Pin(0),
		RX:       machine.Pin(1),
	})
	port := uartIO{ctx: ctx, u: hw}
	_, _ = port.Write([]byte("ledz ready, type help\r\n"))

	con := console.New(b.NewConnection("console"))
	for {
		if err := con.Run(ctx, port, port); err != nil {
			println("[console] error:", err.Error())
		}
		time.Sleep(100 * time.Millisecond)
	}
}
