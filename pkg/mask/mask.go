// Package mask redacts card numbers before they leave the decoder.
//
// A digit is hidden when at least four more digits follow it without
// interruption. Other characters are never touched and the output always has
// the length of the input, so masked values can be laid out like the raw ones.
package mask

import "strings"

// Placeholder replaces every hidden character.
const Placeholder = 'X'

// visibleDigits is the length of the trailing digit run left readable.
const visibleDigits = 4

// PAN hides every digit of pan except the last four of each digit run.
//
//	PAN("4111111111111111") == "XXXXXXXXXXXX1111"
//	PAN("123")              == "123"
func PAN(pan string) string {
	if pan == "" {
		return ""
	}

	out := []byte(pan)
	run := 0 // digits following position i in the original input
	for i := len(pan) - 1; i >= 0; i-- {
		if !isDigit(pan[i]) {
			run = 0
			continue
		}
		if run >= visibleDigits {
			out[i] = Placeholder
		}
		run++
	}
	return string(out)
}

// Track2 applies PAN and then hides the '=' field separator. Hex encoded
// track 2 data uses 'D' as separator, which is left as is.
func Track2(track2 string) string {
	if track2 == "" {
		return ""
	}
	return strings.ReplaceAll(PAN(track2), "=", string(Placeholder))
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
