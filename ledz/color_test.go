package ledz

import "testing"

func TestColorString(t *testing.T) {
	cases := map[Color]string{
		0:                  "none",
		Red:                "red",
		Red | Blue:         "red|blue",
		Amber | Orange:     "amber|orange",
		AllColors:          "all",
		Green | Cyan | Red: "red|green|cyan",
	}
	for c, want := range cases {
		if got := c.String(); got != want {
			t.Fatalf("Color(%#x).String() = %q, want %q", uint8(c), got, want)
		}
	}
}

func TestParseColor(t *testing.T) {
	cases := []struct {
		in   string
		want Color
		ok   bool
	}{
		{"red", Red, true},
		{"Red|GREEN", Red | Green, true},
		{"red,blue", Red | Blue, true},
		{"all", AllColors, true},
		{"purple", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseColor(c.in)
		if got != c.want || ok != c.ok {
			t.Fatalf("ParseColor(%q) = %v,%v; want %v,%v", c.in, got, ok, c.want, c.ok)
		}
	}
}
