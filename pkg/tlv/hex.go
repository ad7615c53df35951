package tlv

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Hex decodes hex fixtures written in pieces, as in
// Hex("6F 1A", "84 07 A0000000041010"). It panics on bad input.
func Hex(parts ...string) []byte {
	data, err := ParseHex(strings.Join(parts, ""))
	if err != nil {
		panic(err)
	}
	return data
}

// ParseHex decodes user supplied hex text. Spaces, colons and dashes between
// bytes are ignored, case does not matter.
func ParseHex(s string) ([]byte, error) {
	clean := strings.NewReplacer(" ", "", ":", "", "-", "", "\n", "", "\t", "").Replace(s)
	data, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("invalid hex input: %w", err)
	}
	return data, nil
}

// Upper encodes data as uppercase hex without separators ("A0000000031010").
func Upper(data []byte) string {
	return strings.ToUpper(hex.EncodeToString(data))
}

// Spaced encodes data as uppercase hex pairs separated by single spaces ("6F 04 A0").
func Spaced(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.Grow(len(data)*3 - 1)
	for i, b := range data {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02X", b)
	}
	return sb.String()
}

// MakeSafeASCII replaces non printable bytes with '.'.
func MakeSafeASCII(data []byte) string {
	return strings.Map(func(r rune) rune {
		if r >= 32 && r <= 126 {
			return r
		}
		return '.'
	}, string(data))
}
