package config

import (
	"bytes"
	"context"
	"errors"
	"os"

	"ledz-go/bus"
	"ledz-go/errcode"
	"ledz-go/types"

	"github.com/pelletier/go-toml/v2"
)

const (
	serviceName  = "config"
	configPrefix = "config"
	CtxDeviceKey = "device" // context key used for device ID
)

// EmbeddedConfigLookup allows overriding how configs are resolved.
var EmbeddedConfigLookup = func(device string) ([]byte, bool) {
	b, ok := embeddedConfigs[device]
	return b, ok
}

// Parse decodes a TOML indicator document. Unknown keys are rejected so that
// typos in pin tables surface at load time.
func Parse(data []byte) (types.IndicatorConfig, error) {
	var cfg types.IndicatorConfig
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return types.IndicatorConfig{}, &errcode.E{C: errcode.InvalidParams, Op: serviceName, Msg: "decode", Err: err}
	}
	if err := validate(cfg); err != nil {
		return types.IndicatorConfig{}, err
	}
	return cfg, nil
}

// LoadFile reads and parses a TOML file from disk.
func LoadFile(path string) (types.IndicatorConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.IndicatorConfig{}, err
	}
	return Parse(data)
}

// Embedded returns the built-in configuration for device.
func Embedded(device string) (types.IndicatorConfig, error) {
	raw, ok := EmbeddedConfigLookup(device)
	if !ok || len(raw) == 0 {
		return types.IndicatorConfig{}, errors.New("no embedded config for device: " + device)
	}
	return Parse(raw)
}

// Encode renders cfg back to TOML.
func Encode(cfg types.IndicatorConfig) ([]byte, error) {
	return toml.Marshal(cfg)
}

func validate(cfg types.IndicatorConfig) error {
	seen := make(map[string]struct{}, len(cfg.Indicators))
	for _, ind := range cfg.Indicators {
		if ind.ID == "" {
			return &errcode.E{C: errcode.InvalidParams, Op: serviceName, Msg: "indicator without id"}
		}
		if _, dup := seen[ind.ID]; dup {
			return &errcode.E{C: errcode.Exists, Op: serviceName, Msg: ind.ID}
		}
		seen[ind.ID] = struct{}{}
		if len(ind.Colors) != len(ind.Pins) {
			return &errcode.E{C: errcode.InvalidParams, Op: serviceName, Msg: ind.ID + ": colors and pins differ in length"}
		}
		for _, p := range ind.Pins {
			if len(p) != 2 {
				return &errcode.E{C: errcode.InvalidParams, Op: serviceName, Msg: ind.ID + ": pin must be [port, pin]"}
			}
		}
	}
	if hb := cfg.Heartbeat; hb != nil {
		if _, ok := seen[hb.Indicator]; !ok {
			return &errcode.E{C: errcode.UnknownIndicator, Op: serviceName, Msg: "heartbeat: " + hb.Indicator}
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
// Config Service
// -----------------------------------------------------------------------------

type ConfigService struct {
	Name string
	// Override, when set, is published instead of the embedded document.
	Override *types.IndicatorConfig
}

func NewConfigService() *ConfigService {
	return &ConfigService{Name: serviceName}
}

// publishConfig resolves the configuration and publishes it retained on
// config/indicators, plus config/heartbeat when a heartbeat is configured.
func (s *ConfigService) publishConfig(ctx context.Context, conn *bus.Connection) error {
	var cfg types.IndicatorConfig
	if s.Override != nil {
		cfg = *s.Override
	} else {
		device, _ := ctx.Value(CtxDeviceKey).(string)
		if device == "" {
			return errors.New("missing device ID in context")
		}
		var err error
		if cfg, err = Embedded(device); err != nil {
			return err
		}
	}
	if cfg.Heartbeat != nil {
		conn.Publish(&bus.Message{
			Topic:    bus.T(configPrefix, "heartbeat"),
			Payload:  *cfg.Heartbeat,
			Retained: true,
		})
	}
	conn.Publish(&bus.Message{
		Topic:    bus.T(configPrefix, "indicators"),
		Payload:  cfg,
		Retained: true,
	})
	return nil
}

// Start launches the config publisher in a goroutine.
func (s *ConfigService) Start(ctx context.Context, conn *bus.Connection) {
	go func() {
		if err := s.publishConfig(ctx, conn); err != nil {
			println("[config] publish failed:", err.Error())
		}
	}()
}
