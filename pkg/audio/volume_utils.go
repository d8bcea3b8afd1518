package audio

import "math"

func volumeToPower(vol float64) float64 {
	// vol is 0.0 to 1.0. Beep's Volume effect adds to the exponent
	// (base 2), so unity gain is 0 and each -1 halves the amplitude.
	if vol <= 0.01 {
		return -10 // Silent
	}
	return math.Log2(vol)
}
