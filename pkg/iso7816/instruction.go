package iso7816

import (
	"fmt"

	"github.com/gregLibert/emv-reader/pkg/bits"
)

// Instruction Byte (INS) according to ISO/IEC 7816-4 and EMV Book 3.
//
// Bit 1 of an interindustry INS selects the data field format:
// 0 for standard data, 1 for BER-TLV (e.g. READ RECORD B2 / B3).
//
// Values with a high nibble of '6' or '9' are reserved for SW1 and for the
// transport layer procedure bytes (ISO/IEC 7816-3) and are rejected.

// InsCode is a typed representation of the instruction byte.
type InsCode byte

// Instruction codes used by payment terminals.
const (
	INS_VERIFY                   InsCode = 0x20
	INS_EXTERNAL_AUTHENTICATE    InsCode = 0x82
	INS_GET_CHALLENGE            InsCode = 0x84
	INS_INTERNAL_AUTHENTICATE    InsCode = 0x88
	INS_SELECT                   InsCode = 0xA4
	INS_GET_PROCESSING_OPTIONS   InsCode = 0xA8
	INS_GENERATE_AC              InsCode = 0xAE
	INS_READ_BINARY              InsCode = 0xB0
	INS_READ_BINARY_BER          InsCode = 0xB1
	INS_READ_RECORD              InsCode = 0xB2
	INS_READ_RECORD_BER          InsCode = 0xB3
	INS_GET_RESPONSE             InsCode = 0xC0
	INS_ENVELOPE                 InsCode = 0xC2
	INS_GET_DATA                 InsCode = 0xCA
	INS_GET_DATA_BER             InsCode = 0xCB
	INS_PUT_DATA                 InsCode = 0xDA
	INS_UPDATE_RECORD            InsCode = 0xDC
	INS_COMPUTE_CRYPTOGRAPHIC_CS InsCode = 0x2A
)

var insNames = map[InsCode]string{
	INS_VERIFY:                   "INS_VERIFY",
	INS_EXTERNAL_AUTHENTICATE:    "INS_EXTERNAL_AUTHENTICATE",
	INS_GET_CHALLENGE:            "INS_GET_CHALLENGE",
	INS_INTERNAL_AUTHENTICATE:    "INS_INTERNAL_AUTHENTICATE",
	INS_SELECT:                   "INS_SELECT",
	INS_GET_PROCESSING_OPTIONS:   "INS_GET_PROCESSING_OPTIONS",
	INS_GENERATE_AC:              "INS_GENERATE_AC",
	INS_READ_BINARY:              "INS_READ_BINARY",
	INS_READ_BINARY_BER:          "INS_READ_BINARY_BER",
	INS_READ_RECORD:              "INS_READ_RECORD",
	INS_READ_RECORD_BER:          "INS_READ_RECORD_BER",
	INS_GET_RESPONSE:             "INS_GET_RESPONSE",
	INS_ENVELOPE:                 "INS_ENVELOPE",
	INS_GET_DATA:                 "INS_GET_DATA",
	INS_GET_DATA_BER:             "INS_GET_DATA_BER",
	INS_PUT_DATA:                 "INS_PUT_DATA",
	INS_UPDATE_RECORD:            "INS_UPDATE_RECORD",
	INS_COMPUTE_CRYPTOGRAPHIC_CS: "INS_COMPUTE_CRYPTOGRAPHIC_CS",
}

func (i InsCode) String() string {
	if name, ok := insNames[i]; ok {
		return name
	}
	return fmt.Sprintf("InsCode(0x%02X)", byte(i))
}

// Instruction represents the parsed ISO 7816-4 Instruction byte (INS).
type Instruction struct {
	Raw      InsCode
	IsBERTLV bool
}

// NewInstruction creates an Instruction object with validation.
// It rejects '6X' and '9X' values as they are invalid according to ISO 7816-3.
func NewInstruction(ins InsCode) (Instruction, error) {
	switch bits.HighNibble(byte(ins)) {
	case 0x6, 0x9:
		return Instruction{}, fmt.Errorf("invalid INS 0x%02X: 6X and 9X are reserved", byte(ins))
	}

	return Instruction{
		Raw:      ins,
		IsBERTLV: bits.IsSet(byte(ins), 1),
	}, nil
}

// MustInstruction is NewInstruction for the constants above; it panics on
// reserved values.
func MustInstruction(ins InsCode) Instruction {
	i, err := NewInstruction(ins)
	if err != nil {
		panic(err)
	}
	return i
}

// Verbose returns a human-readable description of the instruction.
func (i Instruction) Verbose() string {
	format := "Standard"
	if i.IsBERTLV {
		format = "BER-TLV"
	}
	return fmt.Sprintf("INS: 0x%02X | Command: %s | Format: %s", byte(i.Raw), i.Raw, format)
}
