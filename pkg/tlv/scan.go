package tlv

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/gregLibert/emv-reader/pkg/bits"
)

// SIMPLE TLV SCAN:
// Contactless responses are walked as a flat sequence of Tag / Length / Value
// triplets, independently of BER-TLV nesting:
//
// - Tag:    one byte, or two bytes when the first one is '5F' or '9F' AND a
//           second byte is present in the buffer.
// - Length: exactly one byte (0-255). Long-form lengths are not interpreted.
// - Value:  'Length' bytes.
//
// A buffer ending inside a triplet is not an error for the caller: the scan
// stops and returns what was collected, together with ErrTruncated so the
// caller can report it.

// ErrTruncated reports that the buffer ended inside a Tag/Length/Value triplet.
var ErrTruncated = errors.New("truncated TLV")

// Entry is one Tag / Length / Value triplet found by Scan.
type Entry struct {
	Tag    string // Uppercase hex, 2 or 4 characters.
	Length int
	Value  []byte
}

// Constructed reports whether the tag announces a template (bit 6 of the first byte).
func (e Entry) Constructed() bool {
	first, ok := firstTagByte(e.Tag)
	return ok && bits.IsSet(first, 6)
}

// IsTwoByteTag reports whether a tag starting with b carries a second tag byte.
func IsTwoByteTag(b byte) bool {
	return b == 0x5F || b == 0x9F
}

// Scan walks data from left to right and returns every complete triplet.
// When the buffer is cut short, the partial triplet is dropped and the
// returned error wraps ErrTruncated; the entries collected so far are
// returned in both cases.
func Scan(data []byte) ([]Entry, error) {
	var entries []Entry

	i := 0
	for i < len(data) {
		start := i
		tag := fmt.Sprintf("%02X", data[i])
		if IsTwoByteTag(data[i]) && i+1 < len(data) {
			tag += fmt.Sprintf("%02X", data[i+1])
			i++
		}
		i++

		if i >= len(data) {
			return entries, fmt.Errorf("%w: tag %s at offset %d has no length byte", ErrTruncated, tag, start)
		}

		length := int(data[i])
		i++

		if len(data)-i < length {
			return entries, fmt.Errorf("%w: tag %s at offset %d declares %d bytes, %d remain",
				ErrTruncated, tag, start, length, len(data)-i)
		}

		entries = append(entries, Entry{
			Tag:    tag,
			Length: length,
			Value:  data[i : i+length],
		})
		i += length
	}

	return entries, nil
}

func firstTagByte(tag string) (byte, bool) {
	if len(tag) < 2 {
		return 0, false
	}
	b, err := hex.DecodeString(tag[:2])
	if err != nil {
		return 0, false
	}
	return b[0], true
}
