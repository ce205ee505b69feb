// Package heartbeat keeps a configured indicator blinking as a liveness
// signal. The blink is applied when the indicator service becomes ready and
// again when the heartbeat config changes. Repeated ready states leave the
// running blink phase alone.
package heartbeat

import (
	"context"
	"time"

	"ledz-go/bus"
	"ledz-go/errcode"
	"ledz-go/services/indicator"
	"ledz-go/types"
)

var topicConfigHeartbeat = bus.T("config", "heartbeat")

const requestTimeout = 500 * time.Millisecond

type Service struct {
	cfg *types.HeartbeatConfig
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(topicConfigHeartbeat)
	defer conn.Unsubscribe(cfgSub)
	stateSub := conn.Subscribe(indicator.TopicState())
	defer conn.Unsubscribe(stateSub)

	ready := false
	for {
		select {
		case <-ctx.Done():
			println("[heartbeat] stopping")
			return
		case msg := <-cfgSub.Channel():
			hb, ok := msg.Payload.(types.HeartbeatConfig)
			if !ok {
				println("[heartbeat] ignoring config payload of unexpected type")
				continue
			}
			s.cfg = &hb
			if ready {
				s.apply(ctx, conn)
			}
		case msg := <-stateSub.Channel():
			st, ok := msg.Payload.(types.ServiceState)
			if !ok {
				continue
			}
			was := ready
			ready = st.Level == "ready"
			if ready && !was {
				s.apply(ctx, conn)
			}
		}
	}
}

// apply sends the blink request. Failures are logged; the next transition
// to ready retries.
func (s *Service) apply(ctx context.Context, conn *bus.Connection) errcode.Code {
	if s.cfg == nil {
		return errcode.NotReady
	}
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	req := conn.NewMessage(
		indicator.TopicControl(s.cfg.Indicator, indicator.VerbBlink),
		types.LEDBlink{Color: s.cfg.Color, TimeOnMs: s.cfg.OnMs, TimeOffMs: s.cfg.OffMs},
		false,
	)
	reply, err := conn.RequestWait(ctx, req)
	if err != nil {
		println("[heartbeat] blink request failed:", err.Error())
		return errcode.Of(err)
	}
	if e, ok := reply.Payload.(types.ErrorReply); ok {
		println("[heartbeat] blink rejected:", s.cfg.Indicator, e.Error)
		return errcode.Code(e.Error)
	}
	return errcode.OK
}

// Start the heartbeat service.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}
