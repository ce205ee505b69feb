//go:build !rp2040

package strconvx

import "strconv"

// Signature parity with strconv; delegate straight through.

func Itoa(i int) string          { return strconv.Itoa(i) }
func Atoi(s string) (int, error) { return strconv.Atoi(s) }
