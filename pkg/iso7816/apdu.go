package iso7816

import (
	"fmt"

	"github.com/gregLibert/emv-reader/pkg/tlv"
)

// APDU ENCODING (ISO 7816-3 section 12.1):
//
//	CLA INS P1 P2 [Lc Data] [Le]
//
// Lc and Le take one byte each (short form) unless Nc > 255 or Ne > 256, in
// which case both switch to the extended form: Lc becomes 00 HH LL and Le
// becomes HH LL, preceded by 00 when there is no Lc. In either form the
// all-zero Le means the maximum (256 or 65536).
//
// A response is the data field followed by SW1 SW2.

// Length limits.
const (
	MaxShortLc    = 255
	MaxShortLe    = 256
	MaxExtendedLc = 65535
	MaxExtendedLe = 65536
)

// CommandAPDU represents a command sent to the card.
type CommandAPDU struct {
	Class       Class
	Instruction Instruction
	P1, P2      byte
	Data        []byte
	Ne          int // expected response length, 0 for none
}

// NewCommandAPDU creates a basic command.
func NewCommandAPDU(cla Class, ins Instruction, p1, p2 byte, data []byte, ne int) *CommandAPDU {
	return &CommandAPDU{
		Class:       cla,
		Instruction: ins,
		P1:          p1,
		P2:          p2,
		Data:        data,
		Ne:          ne,
	}
}

// Bytes encodes the command, choosing the short or extended form.
func (c *CommandAPDU) Bytes() ([]byte, error) {
	cla, err := c.Class.Encode()
	if err != nil {
		return nil, fmt.Errorf("failed to encode Class: %w", err)
	}
	nc, ne := len(c.Data), c.Ne
	if nc > MaxExtendedLc {
		return nil, fmt.Errorf("data field of %d bytes exceeds %d", nc, MaxExtendedLc)
	}
	if ne < 0 || ne > MaxExtendedLe {
		return nil, fmt.Errorf("Ne %d out of range 0..%d", ne, MaxExtendedLe)
	}

	out := make([]byte, 0, 4+3+nc+3)
	out = append(out, cla, byte(c.Instruction.Raw), c.P1, c.P2)

	extended := nc > MaxShortLc || ne > MaxShortLe
	if nc > 0 {
		if extended {
			out = append(out, 0x00, byte(nc>>8), byte(nc))
		} else {
			out = append(out, byte(nc))
		}
		out = append(out, c.Data...)
	}
	if ne > 0 {
		out = appendLe(out, ne, extended, nc == 0)
	}
	return out, nil
}

// appendLe appends Le; byte() truncation turns the maximum into zeros.
func appendLe(out []byte, ne int, extended, noLc bool) []byte {
	if !extended {
		return append(out, byte(ne))
	}
	if noLc {
		out = append(out, 0x00)
	}
	return append(out, byte(ne>>8), byte(ne))
}

// String returns a readable representation of the command meta-data.
func (c *CommandAPDU) String() string {
	return fmt.Sprintf("%s | P1: %02X, P2: %02X | Lc: %d | Le: %d",
		c.Instruction.Verbose(), c.P1, c.P2, len(c.Data), c.Ne)
}

// ResponseAPDU represents the reply from the card (R-APDU).
type ResponseAPDU struct {
	Data   []byte
	Status StatusWord
}

// ParseResponseAPDU splits raw card output into data and status word.
func ParseResponseAPDU(raw []byte) (*ResponseAPDU, error) {
	if len(raw) < 2 {
		return nil, fmt.Errorf("response too short: length %d", len(raw))
	}
	n := len(raw) - 2
	return &ResponseAPDU{
		Data:   raw[:n],
		Status: NewStatusWord(raw[n], raw[n+1]),
	}, nil
}

// Bytes re-encodes the response as received from the card: data then SW1 SW2.
func (r *ResponseAPDU) Bytes() []byte {
	out := make([]byte, 0, len(r.Data)+2)
	out = append(out, r.Data...)
	return append(out, r.Status.SW1(), r.Status.SW2())
}

// String returns a readable representation of the response.
func (r *ResponseAPDU) String() string {
	return fmt.Sprintf("%s | %s", tlv.Spaced(r.Bytes()), r.Status.Verbose())
}
