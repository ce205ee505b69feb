package types

// IndicatorConfig is supplied on topic "config/indicators".
type IndicatorConfig struct {
	TickPeriodUs uint32          `toml:"tick_period_us" json:"tick_period_us"`
	ActiveLow    bool            `toml:"active_low" json:"active_low"`
	MaxInstances int             `toml:"max_instances" json:"max_instances"`
	Indicators   []IndicatorSpec `toml:"indicator" json:"indicators"`

	Heartbeat *HeartbeatConfig `toml:"heartbeat,omitempty" json:"heartbeat,omitempty"`
}

// IndicatorSpec describes one physical package of 1–3 channels.
// Pins are [port, pin] pairs, one per colour.
type IndicatorSpec struct {
	ID     string   `toml:"id" json:"id"`
	Colors []string `toml:"colors" json:"colors"`
	Pins   [][]int  `toml:"pins" json:"pins"`
}

// HeartbeatConfig is supplied on topic "config/heartbeat". The named
// indicator blinks for as long as the firmware is alive.
type HeartbeatConfig struct {
	Indicator string `toml:"indicator" json:"indicator"`
	Color     string `toml:"color" json:"color"`
	OnMs      uint16 `toml:"on_ms" json:"on_ms"`
	OffMs     uint16 `toml:"off_ms" json:"off_ms"`
}
