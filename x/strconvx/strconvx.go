package strconvx

import "errors"

// Errors returned by the firmware parser. Host builds return strconv errors.
var (
	ErrSyntax = errors.New("strconvx: invalid syntax")
	ErrRange  = errors.New("strconvx: value out of range")
)

const maxInt = int(^uint(0) >> 1)

// parseInt accepts an optional sign followed by decimal digits.
func parseInt(s string) (int, error) {
	if s == "" {
		return 0, ErrSyntax
	}
	neg := false
	switch s[0] {
	case '-':
		neg, s = true, s[1:]
	case '+':
		s = s[1:]
	}
	if s == "" {
		return 0, ErrSyntax
	}
	var n uint
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, ErrSyntax
		}
		d := uint(c - '0')
		if n > (uint(maxInt)+1-d)/10 {
			return 0, ErrRange
		}
		n = n*10 + d
	}
	if neg {
		if n > uint(maxInt)+1 {
			return 0, ErrRange
		}
		return -int(n-1) - 1, nil
	}
	if n > uint(maxInt) {
		return 0, ErrRange
	}
	return int(n), nil
}

func formatInt(i int) string {
	var buf [20]byte
	pos := len(buf)
	u := uint(i)
	if i < 0 {
		u = -u
	}
	for {
		pos--
		buf[pos] = byte('0' + u%10)
		u /= 10
		if u == 0 {
			break
		}
	}
	if i < 0 {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}
