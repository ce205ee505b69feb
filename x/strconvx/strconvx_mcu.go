//go:build rp2040

package strconvx

func Itoa(i int) string          { return formatInt(i) }
func Atoi(s string) (int, error) { return parseInt(s) }
