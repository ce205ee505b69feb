package ledz

import "strings"

// Color tags a channel. Channels are addressed by bitwise intersection, so a
// mask such as Red|Blue selects several channels of a group at once.
type Color uint8

const (
	Red Color = 1 << iota
	Green
	Blue
	Yellow
	Cyan
	White
	Amber
	Orange

	AllColors Color = 0xFF
)

var colorNames = [8]string{"red", "green", "blue", "yellow", "cyan", "white", "amber", "orange"}

// String renders single colours by name and masks as "red|green".
func (c Color) String() string {
	if c == 0 {
		return "none"
	}
	if c == AllColors {
		return "all"
	}
	var b strings.Builder
	for i, name := range colorNames {
		if c&(1<<i) == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('|')
		}
		b.WriteString(name)
	}
	return b.String()
}

// ParseColor accepts a colour name, "all", or names joined by '|' or ','.
// Matching is case-insensitive.
func ParseColor(s string) (Color, bool) {
	var c Color
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == '|' || r == ',' }) {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "all" {
			c |= AllColors
			continue
		}
		found := false
		for i, name := range colorNames {
			if name == part {
				c |= 1 << i
				found = true
				break
			}
		}
		if !found {
			return 0, false
		}
	}
	return c, c != 0
}
