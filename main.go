package main

import (
	"time"

	"ledz-go/ledz"
)

// Heartbeat: one blinking channel, level changes printed to the console.
func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("boot")

	eng, err := ledz.New(ledz.Config{
		MaxInstances: 1,
		WritePin: func(port, pin int, level bool) {
			if level {
				println(time.Now().Format("15:04:05"), "heartbeat on")
			} else {
				println(time.Now().Format("15:04:05"), "heartbeat off")
			}
		},
	})
	if err != nil {
		println("engine:", err.Error())
		return
	}
	g, err := eng.Create([]ledz.Color{ledz.Green}, []ledz.Pin{{Port: 0, Num: 25}})
	if err != nil {
		println("create:", err.Error())
		return
	}
	eng.On(g, ledz.Green)
	eng.Blink(g, ledz.Green, 100, 900)

	tick := time.NewTicker(time.Millisecond)
	defer tick.Stop()
	for range tick.C {
		eng.Tick()
	}
}
