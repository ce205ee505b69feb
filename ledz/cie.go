package ledz

import "ledz-go/x/mathx"

// cie maps requested brightness (0..100) to a PWM duty cycle (0..100) along
// the inverse CIE 1931 lightness curve, so equal input steps look like equal
// steps in perceived intensity.
var cie = [101]uint8{
	0, 0, 0, 0, 0, 1, 1, 1, 1, 1,
	1, 1, 1, 2, 2, 2, 2, 2, 3, 3,
	3, 3, 4, 4, 4, 4, 5, 5, 5, 6,
	6, 7, 7, 8, 8, 8, 9, 10, 10, 11,
	11, 12, 13, 13, 14, 15, 15, 16, 17, 18,
	18, 19, 20, 21, 22, 23, 24, 25, 26, 27,
	28, 29, 30, 32, 33, 34, 35, 37, 38, 39,
	41, 42, 44, 45, 47, 48, 50, 52, 53, 55,
	57, 58, 60, 62, 64, 66, 68, 70, 72, 74,
	76, 78, 81, 83, 85, 88, 90, 92, 95, 97,
	100,
}

// DutyFor returns the duty cycle emitted for a requested brightness.
// Values outside 0..100 are clamped.
func DutyFor(brightness int) uint8 {
	return cie[mathx.Clamp(brightness, 0, 100)]
}
