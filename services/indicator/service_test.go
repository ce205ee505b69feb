package indicator

import (
	"context"
	"sync"
	"testing"
	"time"

	"ledz-go/bus"
	"ledz-go/errcode"
	"ledz-go/ledz"
	"ledz-go/types"
)

// ---- Test doubles ----

type fakePins struct {
	mu     sync.Mutex
	level  map[ledz.Pin]bool
	writes int
}

func (f *fakePins) write(port, pin int, level bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.level[ledz.Pin{Port: port, Num: pin}] = level
	f.writes++
}

func (f *fakePins) get(p ledz.Pin) (bool, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.level[p], f.writes
}

type countObserver struct {
	mu      sync.Mutex
	ticks   int
	handled map[string]errcode.Code
}

func (o *countObserver) Ticked() {
	o.mu.Lock()
	o.ticks++
	o.mu.Unlock()
}

func (o *countObserver) Handled(verb string, code errcode.Code) {
	o.mu.Lock()
	o.handled[verb] = code
	o.mu.Unlock()
}

type harness struct {
	t     *testing.T
	ui    *bus.Connection
	pins  *fakePins
	ticks chan time.Time
	obs   *countObserver
}

func start(t *testing.T) *harness {
	t.Helper()
	b := bus.NewBus(16)
	h := &harness{
		t:     t,
		ui:    b.NewConnection("ui"),
		pins:  &fakePins{level: map[ledz.Pin]bool{}},
		ticks: make(chan time.Time),
		obs:   &countObserver{handled: map[string]errcode.Code{}},
	}
	svc := New(b.NewConnection("indicator"), Options{
		WritePin: h.pins.write,
		Ticks:    h.ticks,
		Observer: h.obs,
	})
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	state := h.ui.Subscribe(TopicState())
	go svc.Run(ctx)
	h.await(state, "idle")
	return h
}

// await consumes state updates until level is seen, then unsubscribes.
func (h *harness) await(state *bus.Subscription, level string) {
	h.t.Helper()
	defer h.ui.Unsubscribe(state)
	deadline := time.After(time.Second)
	for {
		select {
		case m := <-state.Channel():
			if st, ok := m.Payload.(types.ServiceState); ok && st.Level == level {
				return
			}
		case <-deadline:
			h.t.Fatalf("service never reached %q", level)
		}
	}
}

func (h *harness) configure(cfg types.IndicatorConfig) {
	h.t.Helper()
	state := h.ui.Subscribe(TopicState())
	h.ui.Publish(h.ui.NewMessage(TopicConfig(), cfg, true))
	h.await(state, "ready")
}

func (h *harness) request(id, verb string, payload any) any {
	h.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	r, err := h.ui.RequestWait(ctx, h.ui.NewMessage(TopicControl(id, verb), payload, false))
	if err != nil {
		h.t.Fatalf("%s %s: %v", id, verb, err)
	}
	return r.Payload
}

func (h *harness) expectOK(id, verb string, payload any) {
	h.t.Helper()
	if r, ok := h.request(id, verb, payload).(types.OKReply); !ok || !r.OK {
		h.t.Fatalf("%s %s: reply %+v", id, verb, r)
	}
}

func (h *harness) expectErr(id, verb string, payload any, want errcode.Code) {
	h.t.Helper()
	r, ok := h.request(id, verb, payload).(types.ErrorReply)
	if !ok || r.Error != string(want) {
		h.t.Fatalf("%s %s: reply %+v, want %s", id, verb, r, want)
	}
}

func (h *harness) tick(n int) {
	for i := 0; i < n; i++ {
		h.ticks <- time.Time{}
	}
}

func (h *harness) status(id string) types.LEDStatus {
	h.t.Helper()
	st, ok := h.request(id, VerbGet, nil).(types.LEDStatus)
	if !ok {
		h.t.Fatalf("get %s: no status", id)
	}
	return st
}

var rgbConfig = types.IndicatorConfig{
	MaxInstances: 4,
	Indicators: []types.IndicatorSpec{{
		ID:     "status",
		Colors: []string{"red", "green", "blue"},
		Pins:   [][]int{{1, 31}, {2, 32}, {3, 34}},
	}},
}

// ---- Tests ----

func TestService_RejectsControlBeforeConfig(t *testing.T) {
	h := start(t)
	h.expectErr("status", VerbOn, nil, errcode.NotReady)
}

func TestService_OnOffAndStatus(t *testing.T) {
	h := start(t)
	h.configure(rgbConfig)

	h.expectOK("status", VerbOn, types.LEDColor{Color: "red|blue"})
	if on, _ := h.pins.get(ledz.Pin{Port: 1, Num: 31}); !on {
		t.Fatalf("red pin not high")
	}
	st := h.status("status")
	if len(st.Channels) != 3 {
		t.Fatalf("channels = %+v", st.Channels)
	}
	if !st.Channels[0].On || st.Channels[1].On || !st.Channels[2].On {
		t.Fatalf("levels = %+v", st.Channels)
	}

	h.expectOK("status", VerbOff, nil) // empty mask selects all
	if st := h.status("status"); st.Channels[0].On || st.Channels[2].On {
		t.Fatalf("after off: %+v", st.Channels)
	}
	h.obs.mu.Lock()
	code, seen := h.obs.handled[VerbOff]
	h.obs.mu.Unlock()
	if !seen || code != errcode.OK {
		t.Fatalf("observer saw off = %q, %v", code, seen)
	}
}

func TestService_BlinkAdvancesOnTicks(t *testing.T) {
	h := start(t)
	h.configure(rgbConfig)

	h.expectOK("status", VerbSet, types.LEDSet{Color: "green", Value: 1})
	h.expectOK("status", VerbBlink, types.LEDBlink{Color: "green", TimeOnMs: 3, TimeOffMs: 5})
	h.tick(3)
	if st := h.status("status"); st.Channels[1].On || !st.Channels[1].Blinking {
		t.Fatalf("after on-phase: %+v", st.Channels[1])
	}
	h.tick(5)
	if st := h.status("status"); !st.Channels[1].On {
		t.Fatalf("after off-phase: %+v", st.Channels[1])
	}
	h.obs.mu.Lock()
	ticks := h.obs.ticks
	h.obs.mu.Unlock()
	if ticks != 8 {
		t.Fatalf("observer ticks = %d, want 8", ticks)
	}
}

func TestService_Brightness(t *testing.T) {
	h := start(t)
	h.configure(rgbConfig)

	h.expectOK("status", VerbBrightness, types.LEDBrightness{Color: "blue", Level: 50})
	if st := h.status("status"); st.Channels[2].Duty != ledz.DutyFor(50) {
		t.Fatalf("duty = %d", st.Channels[2].Duty)
	}
	h.expectOK("status", VerbBrightness, types.LEDBrightness{Color: "blue", Level: 100})
	if st := h.status("status"); st.Channels[2].Duty != 0 || !st.Channels[2].On {
		t.Fatalf("brightness 100: %+v", st.Channels[2])
	}
}

func TestService_Errors(t *testing.T) {
	h := start(t)
	h.configure(rgbConfig)

	h.expectErr("nope", VerbOn, nil, errcode.UnknownIndicator)
	h.expectErr("status", VerbOn, types.LEDColor{Color: "purple"}, errcode.UnknownColor)
	h.expectErr("status", VerbBlink, "fast", errcode.InvalidPayload)
	h.expectErr("status", "strobe", nil, errcode.Unsupported)
}

func TestService_CreateDestroy(t *testing.T) {
	h := start(t)
	h.configure(rgbConfig)

	aux := types.IndicatorSpec{Colors: []string{"white", "amber"}, Pins: [][]int{{4, 1}, {4, 2}}}
	h.expectErr("aux", VerbCreate, aux, errcode.PoolExhausted)

	one := types.IndicatorSpec{Colors: []string{"white"}, Pins: [][]int{{4, 1}}}
	h.expectOK("aux", VerbCreate, one)
	h.expectErr("aux", VerbCreate, one, errcode.Exists)
	h.expectErr("bad", VerbCreate, types.IndicatorSpec{Colors: []string{"red"}}, errcode.InvalidParams)

	h.expectOK("aux", VerbOn, nil)
	if on, _ := h.pins.get(ledz.Pin{Port: 4, Num: 1}); !on {
		t.Fatalf("aux pin not high")
	}

	h.expectOK("status", VerbDestroy, nil)
	h.expectErr("status", VerbGet, nil, errcode.UnknownIndicator)
	h.expectOK("aux2", VerbCreate, types.IndicatorSpec{
		Colors: []string{"red", "green"},
		Pins:   [][]int{{5, 1}, {5, 2}},
	})
}
