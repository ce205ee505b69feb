// Package console turns a line-oriented text stream (UART or stdin) into
// indicator control requests on the bus.
package console

import (
	"bufio"
	"context"
	"io"
	"strings"
	"time"

	"ledz-go/bus"
	"ledz-go/errcode"
	"ledz-go/services/indicator"
	"ledz-go/types"
	"ledz-go/x/strconvx"
)

const defaultTimeout = 500 * time.Millisecond

const helpText = `commands:
  create <id> <colors> <port:pin>...
  destroy <id>
  on|off|toggle <id> [colors]
  set <id> <colors> <value>
  blink <id> <colors> <on_ms> <off_ms>
  dim <id> <colors> <0..100>
  get <id>
colors: red green blue yellow cyan white amber orange all, joined by | or ,
`

type Console struct {
	conn    *bus.Connection
	timeout time.Duration
}

func New(conn *bus.Connection) *Console {
	return &Console{conn: conn, timeout: defaultTimeout}
}

// Run reads commands from r until EOF or ctx ends, writing one response
// per non-empty line to w. The reader goroutine is abandoned if ctx ends
// while it is blocked in Read.
func (c *Console) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- sc.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-errc:
					return err
				default:
					return ctx.Err()
				}
			}
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			if _, err := io.WriteString(w, c.Exec(ctx, line)); err != nil {
				return err
			}
		}
	}
}

// Exec runs one command line and returns its newline-terminated response.
func (c *Console) Exec(ctx context.Context, line string) string {
	f := strings.Fields(line)
	if len(f) == 0 {
		return ""
	}
	cmd, args := strings.ToLower(f[0]), f[1:]
	if cmd == "help" {
		return helpText
	}
	if len(args) == 0 {
		return fail(errcode.InvalidParams)
	}
	id, args := args[0], args[1:]

	var (
		verb    string
		payload any
		err     error
	)
	switch cmd {
	case "create":
		verb = indicator.VerbCreate
		payload, err = parseCreate(id, args)
	case "destroy":
		verb = indicator.VerbDestroy
	case "get":
		verb = indicator.VerbGet
	case "on", "off", "toggle":
		verb = cmd
		if len(args) > 1 {
			err = errcode.InvalidParams
		}
		if len(args) == 1 {
			payload = types.LEDColor{Color: args[0]}
		}
	case "set":
		var v []int
		if v, err = ints(args, 2); err == nil {
			verb, payload = indicator.VerbSet, types.LEDSet{Color: args[0], Value: v[0]}
		}
	case "blink":
		var v []int
		if v, err = ints(args, 3); err == nil {
			if v[0] < 0 || v[0] > 0xFFFF || v[1] < 0 || v[1] > 0xFFFF {
				err = errcode.InvalidParams
				break
			}
			verb = indicator.VerbBlink
			payload = types.LEDBlink{Color: args[0], TimeOnMs: uint16(v[0]), TimeOffMs: uint16(v[1])}
		}
	case "dim", "brightness":
		var v []int
		if v, err = ints(args, 2); err == nil {
			verb, payload = indicator.VerbBrightness, types.LEDBrightness{Color: args[0], Level: v[0]}
		}
	default:
		return fail(errcode.Unsupported)
	}
	if err != nil {
		return fail(errcode.Of(err))
	}
	return c.request(ctx, id, verb, payload)
}

func (c *Console) request(ctx context.Context, id, verb string, payload any) string {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	m, err := c.conn.RequestWait(ctx, c.conn.NewMessage(indicator.TopicControl(id, verb), payload, false))
	if err != nil {
		return fail(errcode.Of(err))
	}
	switch p := m.Payload.(type) {
	case types.OKReply:
		return "ok\n"
	case types.ErrorReply:
		return "error: " + p.Error + "\n"
	case types.LEDStatus:
		return formatStatus(p)
	default:
		return fail(errcode.InvalidPayload)
	}
}

func fail(c errcode.Code) string { return "error: " + string(c) + "\n" }

// parseCreate reads "<colors> <port:pin>..." with one pin per colour.
func parseCreate(id string, args []string) (types.IndicatorSpec, error) {
	if len(args) < 2 {
		return types.IndicatorSpec{}, errcode.InvalidParams
	}
	spec := types.IndicatorSpec{ID: id, Colors: splitColors(args[0])}
	for _, a := range args[1:] {
		port, pin, ok := strings.Cut(a, ":")
		if !ok {
			return types.IndicatorSpec{}, errcode.InvalidParams
		}
		pt, err1 := strconvx.Atoi(port)
		pn, err2 := strconvx.Atoi(pin)
		if err1 != nil || err2 != nil {
			return types.IndicatorSpec{}, errcode.InvalidParams
		}
		spec.Pins = append(spec.Pins, []int{pt, pn})
	}
	if len(spec.Pins) != len(spec.Colors) {
		return types.IndicatorSpec{}, errcode.InvalidParams
	}
	return spec, nil
}

func splitColors(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == '|' || r == ',' })
}

// ints parses args[1:n] as integers; args[0] is the colour mask.
func ints(args []string, n int) ([]int, error) {
	if len(args) != n {
		return nil, errcode.InvalidParams
	}
	out := make([]int, 0, n-1)
	for _, a := range args[1:] {
		v, err := strconvx.Atoi(a)
		if err != nil {
			return nil, errcode.InvalidParams
		}
		out = append(out, v)
	}
	return out, nil
}

// formatStatus renders "id red=on green=off:blink blue=on:duty18".
func formatStatus(st types.LEDStatus) string {
	var b strings.Builder
	b.WriteString(st.ID)
	for _, ch := range st.Channels {
		b.WriteByte(' ')
		b.WriteString(ch.Color)
		if ch.On {
			b.WriteString("=on")
		} else {
			b.WriteString("=off")
		}
		if ch.Blinking {
			b.WriteString(":blink")
		}
		if ch.Duty != 0 {
			b.WriteString(":duty")
			b.WriteString(strconvx.Itoa(int(ch.Duty)))
		}
	}
	b.WriteByte('\n')
	return b.String()
}
