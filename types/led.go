package types

// Colour masks are names joined by '|' or ',' ("red|green", "all").

// LEDColor is the payload of on/off/toggle.
type LEDColor struct {
	Color string `json:"color"`
}

// LEDSet: value >= 1 on, 0 off, < 0 toggle.
type LEDSet struct {
	Color string `json:"color"`
	Value int    `json:"value"`
}

// LEDBlink: a zero time stops blinking.
type LEDBlink struct {
	Color     string `json:"color"`
	TimeOnMs  uint16 `json:"time_on_ms"`
	TimeOffMs uint16 `json:"time_off_ms"`
}

// LEDBrightness: 0..100, clamped.
type LEDBrightness struct {
	Color string `json:"color"`
	Level int    `json:"level"`
}

// LEDChannel reports one channel.
type LEDChannel struct {
	Color    string `json:"color"`
	On       bool   `json:"on"`
	Blinking bool   `json:"blinking"`
	Duty     uint8  `json:"duty"`
}

// LEDStatus is retained on led/<id>/value after each command.
type LEDStatus struct {
	ID       string       `json:"id"`
	Channels []LEDChannel `json:"channels"`
	TS       int64        `json:"ts_ms"`
}
