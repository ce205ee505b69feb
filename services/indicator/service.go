// Package indicator runs a ledz.Engine behind the bus. One goroutine owns the
// engine: it drives Tick from a ticker and applies control requests between
// ticks, so configuration writes never race timer advancement.
package indicator

import (
	"context"
	"time"

	"ledz-go/bus"
	"ledz-go/errcode"
	"ledz-go/ledz"
	"ledz-go/types"
	"ledz-go/x/timex"
)

// Observer receives loop events. Implementations must not block.
type Observer interface {
	Ticked()
	Handled(verb string, code errcode.Code)
}

type Options struct {
	WritePin  ledz.WritePinFunc
	WriteDuty ledz.WriteDutyFunc
	// Ticks replaces the internal ticker when set.
	Ticks    <-chan time.Time
	Observer Observer
}

type Service struct {
	conn   *bus.Connection
	opts   Options
	eng    *ledz.Engine
	period time.Duration
	groups map[string]ledz.Group
}

func New(conn *bus.Connection, opts Options) *Service {
	return &Service{
		conn:   conn,
		opts:   opts,
		groups: map[string]ledz.Group{},
	}
}

// Run blocks until ctx is cancelled. Control requests are rejected with
// not_ready until the first configuration arrives on config/indicators.
func (s *Service) Run(ctx context.Context) {
	cfgSub := s.conn.Subscribe(TopicConfig())
	ctrlSub := s.conn.Subscribe(ctrlWildcard())
	defer s.conn.Unsubscribe(cfgSub)
	defer s.conn.Unsubscribe(ctrlSub)

	ticks := s.opts.Ticks
	var ticker *time.Ticker
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()

	s.pubState("idle", "")
	for {
		select {
		case <-ctx.Done():
			s.pubState("stopped", "context_cancelled")
			return
		case m, ok := <-cfgSub.Channel():
			if !ok {
				return
			}
			cfg, isCfg := m.Payload.(types.IndicatorConfig)
			if !isCfg {
				println("[indicator] ignoring config payload of unexpected type")
				continue
			}
			if err := s.applyConfig(cfg); err != nil {
				println("[indicator] config rejected:", err.Error())
				s.pubState("idle", string(errcode.Of(err)))
				continue
			}
			if ticks == nil {
				ticker = time.NewTicker(s.period)
				ticks = ticker.C
			}
			s.pubState("ready", "")
		case m, ok := <-ctrlSub.Channel():
			if !ok {
				return
			}
			s.handleControl(m)
		case <-ticks:
			if s.eng == nil {
				continue
			}
			s.eng.Tick()
			if s.opts.Observer != nil {
				s.opts.Observer.Ticked()
			}
		}
	}
}

// applyConfig builds the engine on first use and creates any indicator not
// already present. Later configurations are additive.
func (s *Service) applyConfig(cfg types.IndicatorConfig) error {
	if s.eng == nil {
		eng, err := ledz.New(ledz.Config{
			MaxInstances: cfg.MaxInstances,
			TickPeriodUs: cfg.TickPeriodUs,
			ActiveLow:    cfg.ActiveLow,
			WritePin:     s.opts.WritePin,
			WriteDuty:    s.opts.WriteDuty,
		})
		if err != nil {
			return err
		}
		s.eng = eng
		s.period = timex.Micros(cfg.TickPeriodUs, ledz.DefaultTickPeriodUs)
	}
	for _, spec := range cfg.Indicators {
		if _, exists := s.groups[spec.ID]; exists {
			continue
		}
		if err := s.create(spec); err != nil {
			println("[indicator] create failed for:", spec.ID, "err:", err.Error())
		}
	}
	return nil
}

func (s *Service) create(spec types.IndicatorSpec) error {
	if spec.ID == "" || len(spec.Colors) != len(spec.Pins) || len(spec.Colors) > ledz.MaxChannels {
		return errcode.InvalidParams
	}
	var colors [ledz.MaxChannels]ledz.Color
	var pins [ledz.MaxChannels]ledz.Pin
	for i, name := range spec.Colors {
		c, ok := ledz.ParseColor(name)
		if !ok {
			return errcode.UnknownColor
		}
		if len(spec.Pins[i]) != 2 {
			return errcode.InvalidParams
		}
		colors[i] = c
		pins[i] = ledz.Pin{Port: spec.Pins[i][0], Num: spec.Pins[i][1]}
	}
	n := len(spec.Colors)
	g, err := s.eng.Create(colors[:n], pins[:n])
	if err != nil {
		return err
	}
	s.groups[spec.ID] = g
	s.pubValue(spec.ID, g)
	return nil
}

func (s *Service) handleControl(msg *bus.Message) {
	// led/<id>/control/<verb>
	if msg.Topic.Len() != 4 {
		s.reply(msg, errcode.InvalidTopic)
		return
	}
	id, _ := msg.Topic.At(1).(string)
	verb, _ := msg.Topic.At(3).(string)
	code := s.control(id, verb, msg)
	if s.opts.Observer != nil {
		s.opts.Observer.Handled(verb, code)
	}
	if verb == VerbGet && code == errcode.OK {
		return // replied with the status itself
	}
	s.reply(msg, code)
}

func (s *Service) control(id, verb string, msg *bus.Message) errcode.Code {
	if s.eng == nil {
		return errcode.NotReady
	}
	if verb == VerbCreate {
		spec, ok := msg.Payload.(types.IndicatorSpec)
		if !ok {
			return errcode.InvalidPayload
		}
		if _, exists := s.groups[id]; exists {
			return errcode.Exists
		}
		spec.ID = id
		if err := s.create(spec); err != nil {
			return errcode.Of(err)
		}
		s.pubState("ready", "")
		return errcode.OK
	}

	g, ok := s.groups[id]
	if !ok {
		return errcode.UnknownIndicator
	}

	switch verb {
	case VerbDestroy:
		s.eng.Destroy(g)
		delete(s.groups, id)
		s.conn.Publish(s.conn.NewMessage(TopicValue(id), nil, true))
		s.pubState("ready", "")
		return errcode.OK
	case VerbGet:
		s.conn.Reply(msg, s.status(id, g), false)
		return errcode.OK
	case VerbOn, VerbOff, VerbToggle:
		p, ok := msg.Payload.(types.LEDColor)
		if !ok && msg.Payload != nil {
			return errcode.InvalidPayload
		}
		c, err := colorOf(p.Color)
		if err != nil {
			return errcode.Of(err)
		}
		switch verb {
		case VerbOn:
			s.eng.On(g, c)
		case VerbOff:
			s.eng.Off(g, c)
		default:
			s.eng.Toggle(g, c)
		}
	case VerbSet:
		p, ok := msg.Payload.(types.LEDSet)
		if !ok {
			return errcode.InvalidPayload
		}
		c, err := colorOf(p.Color)
		if err != nil {
			return errcode.Of(err)
		}
		s.eng.Set(g, c, p.Value)
	case VerbBlink:
		p, ok := msg.Payload.(types.LEDBlink)
		if !ok {
			return errcode.InvalidPayload
		}
		c, err := colorOf(p.Color)
		if err != nil {
			return errcode.Of(err)
		}
		s.eng.Blink(g, c, p.TimeOnMs, p.TimeOffMs)
	case VerbBrightness:
		p, ok := msg.Payload.(types.LEDBrightness)
		if !ok {
			return errcode.InvalidPayload
		}
		c, err := colorOf(p.Color)
		if err != nil {
			return errcode.Of(err)
		}
		s.eng.Brightness(g, c, p.Level)
	default:
		return errcode.Unsupported
	}
	s.pubValue(id, g)
	return errcode.OK
}

// colorOf parses a colour mask; empty selects every channel.
func colorOf(name string) (ledz.Color, error) {
	if name == "" {
		return ledz.AllColors, nil
	}
	c, ok := ledz.ParseColor(name)
	if !ok {
		return 0, errcode.UnknownColor
	}
	return c, nil
}

func (s *Service) status(id string, g ledz.Group) types.LEDStatus {
	st := types.LEDStatus{ID: id, Channels: make([]types.LEDChannel, 0, g.Len()), TS: timex.NowMs()}
	s.eng.Inspect(g, func(ch ledz.Channel) {
		st.Channels = append(st.Channels, types.LEDChannel{
			Color:    ch.Color.String(),
			On:       ch.On,
			Blinking: ch.Blinking,
			Duty:     ch.Duty,
		})
	})
	return st
}

func (s *Service) pubValue(id string, g ledz.Group) {
	s.conn.Publish(s.conn.NewMessage(TopicValue(id), s.status(id, g), true))
}

func (s *Service) pubState(level, status string) {
	free := 0
	if s.eng != nil {
		free = s.eng.Available()
	}
	s.conn.Publish(s.conn.NewMessage(
		TopicState(),
		types.ServiceState{Level: level, Status: status, Free: free, TS: timex.NowMs()},
		true,
	))
}

func (s *Service) reply(msg *bus.Message, code errcode.Code) {
	if !msg.CanReply() {
		return
	}
	if code == errcode.OK {
		s.conn.Reply(msg, types.OKReply{OK: true}, false)
		return
	}
	s.conn.Reply(msg, types.ErrorReply{OK: false, Error: string(code)}, false)
}
