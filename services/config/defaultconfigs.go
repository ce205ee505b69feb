package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Key: device ID (same value placed in ctx under CtxDeviceKey)
// Val: TOML document decoded into types.IndicatorConfig
// -----------------------------------------------------------------------------

// Pico W: RGB status LED on GP15..GP17 (port 0), single-colour link LED on GP18.
const cfgPico = `
tick_period_us = 1000
active_low = false
max_instances = 6

[heartbeat]
indicator = "link"
color = "green"
on_ms = 100
off_ms = 900

[[indicator]]
id = "status"
colors = ["red", "green", "blue"]
pins = [[0, 15], [0, 16], [0, 17]]

[[indicator]]
id = "link"
colors = ["green"]
pins = [[0, 18]]
`

// Host demo: ports map to terminal columns, pins to ANSI colour codes.
const cfgHost = `
tick_period_us = 1000
max_instances = 9

[heartbeat]
indicator = "link"
color = "yellow"
on_ms = 500
off_ms = 500

[[indicator]]
id = "status"
colors = ["red", "green", "blue"]
pins = [[1, 31], [2, 32], [3, 34]]

[[indicator]]
id = "power"
colors = ["red", "green"]
pins = [[4, 31], [4, 32]]

[[indicator]]
id = "link"
colors = ["yellow"]
pins = [[5, 33]]
`

var embeddedConfigs = map[string][]byte{
	"pico": []byte(cfgPico),
	"host": []byte(cfgHost),
}
