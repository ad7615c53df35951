package iso7816

import (
	"fmt"

	"github.com/gregLibert/emv-reader/pkg/bits"
)

// CLASS BYTE (ISO 7816-4 section 5.4.1):
// Payment terminals send two classes: 00 for interindustry commands such as
// SELECT and GET RESPONSE, and 80 for the EMV proprietary ones (GET
// PROCESSING OPTIONS, GENERATE AC, GET DATA).
//
//	b8    0 = interindustry, 1 = proprietary
//	b7    0 = first range (channels 0-3), 1 = further range (channels 4-19)
//	b5    command chaining
//	b4-b3 secure messaging (first range), b6 in the further range
//	b2-b1 channel (first range), b4-b1 channel minus 4 (further range)

// Common CLA values.
const (
	CLAInterindustry byte = 0x00
	CLAPayment       byte = 0x80
)

// Class is a decoded CLA byte.
type Class struct {
	Raw           byte
	IsProprietary bool
	IsChained     bool
	// SecureMessaging holds the SM indicator: 0 means none.
	SecureMessaging byte
	Channel         uint8
}

// NewClass decodes a CLA byte. FF is reserved for PPS and rejected.
func NewClass(cla byte) (Class, error) {
	if cla == 0xFF {
		return Class{}, fmt.Errorf("invalid CLA value: 0xFF is reserved")
	}

	c := Class{Raw: cla, IsChained: bits.IsSet(cla, 5)}
	switch {
	case bits.IsSet(cla, 8):
		c.IsProprietary = true
	case bits.IsSet(cla, 7):
		if bits.IsSet(cla, 6) {
			c.SecureMessaging = 1
		}
		c.Channel = bits.LowNibble(cla) + 4
	default:
		c.SecureMessaging = bits.GetRange(cla, 4, 3)
		c.Channel = bits.GetRange(cla, 2, 1)
	}
	return c, nil
}

// MustClass is NewClass for constants. It panics on FF.
func MustClass(cla byte) Class {
	c, err := NewClass(cla)
	if err != nil {
		panic(err)
	}
	return c
}

// Encode returns the CLA byte with the chaining bit taken from IsChained.
func (c Class) Encode() (byte, error) {
	if c.Raw == 0xFF {
		return 0, fmt.Errorf("invalid CLA value: 0xFF is reserved")
	}
	if c.IsChained {
		return bits.Set(c.Raw, 5), nil
	}
	return bits.Clear(c.Raw, 5), nil
}

func (c Class) String() string {
	kind := "interindustry"
	if c.IsProprietary {
		kind = "proprietary"
	}
	s := fmt.Sprintf("CLA %02X (%s, channel %d", c.Raw, kind, c.Channel)
	if c.SecureMessaging != 0 {
		s += ", secure messaging"
	}
	if c.IsChained {
		s += ", chained"
	}
	return s + ")"
}
