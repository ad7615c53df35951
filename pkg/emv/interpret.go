package emv

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/gregLibert/emv-reader/pkg/bits"
	"github.com/gregLibert/emv-reader/pkg/mask"
	"github.com/gregLibert/emv-reader/pkg/tlv"
)

// FIELD INTERPRETATION:
// Every decoder below is a best effort formatter. Malformed input never
// fails: it produces a labelled placeholder ("0.00", "Invalid Date (...)",
// "Unknown Currency (...)") that still shows the raw bytes.

// Interpret renders the value of a data element for display.
// Elements without a dedicated rule are rendered as uppercase hex.
func Interpret(id TagID, value []byte) string {
	switch id {
	case TagTransactionAmount, TagAmountOther:
		return DecodeAmount(value)
	case TagCurrencyCode, TagApplicationCurrencyCode:
		return DecodeCurrency(value)
	case TagTransactionDate:
		return DecodeDate(value)
	case TagTransactionTime:
		return DecodeTime(value)
	case TagIssuerCountryCode, TagTerminalCountryCode:
		return DecodeCountry(value)
	case TagTransactionStatus:
		return DecodeTransactionStatus(value)
	case TagTransactionType:
		return DecodeTransactionType(value)
	case TagApplicationIdentifier, TagDedicatedFileName:
		return DecodeApplicationIdentifier(value)
	case TagServiceCode:
		return DecodeServiceCode(value)
	case TagCardholderVerificationMethodResults:
		return DecodeCVMResult(value)
	case TagFormFactorIndicator:
		return DecodeFormFactor(value)
	case TagFCITemplate:
		return DecodeCardType(value)
	case TagApplicationLabel, TagApplicationPreferredName, TagCardholderName,
		TagIssuerURL, TagLanguagePreference:
		return DecodeText(value)
	case TagApplicationPAN:
		return mask.PAN(tlv.Upper(value))
	case TagTrack2EquivalentData:
		return mask.Track2(tlv.Upper(value))
	default:
		return tlv.Upper(value)
	}
}

// DecodeAmount renders a numeric amount with two implied decimals.
//
// Packed BCD (format n12) is the normal case: 00 00 00 00 01 23 is "1.23".
// Values that are not BCD are read as binary: big-endian major units in all
// but the last two bytes, minor units in the last two. Empty values, values
// that do not fit 64 bits and minor units of 100 or more render as "0.00".
func DecodeAmount(value []byte) string {
	if len(value) == 0 {
		return "0.00"
	}

	if isBCD(value) {
		var cents uint64
		for _, b := range value {
			if cents > (math.MaxUint64-99)/100 {
				return "0.00"
			}
			cents = cents*100 + uint64(bits.BCDValue(b))
		}
		return fmt.Sprintf("%d.%02d", cents/100, cents%100)
	}

	if len(value) < 2 {
		return "0.00"
	}
	major, ok := bigEndian(value[:len(value)-2])
	if !ok {
		return "0.00"
	}
	minor, _ := bigEndian(value[len(value)-2:])
	if minor >= 100 {
		return "0.00"
	}
	return fmt.Sprintf("%d.%02d", major, minor)
}

// DecodeCurrency maps an ISO 4217 numeric code (n3, two bytes) to its
// alphabetic code.
func DecodeCurrency(value []byte) string {
	code := tlv.Upper(value)
	if alpha, ok := currencies[code]; ok {
		return alpha
	}
	return fmt.Sprintf("Unknown Currency (%s)", code)
}

// DecodeDate renders a YYMMDD BCD date as DD.MM.20YY.
func DecodeDate(value []byte) string {
	if len(value) < 3 || !isBCD(value[:3]) {
		return fmt.Sprintf("Invalid Date (%s)", tlv.Upper(value))
	}
	yy, mm, dd := bits.BCDValue(value[0]), bits.BCDValue(value[1]), bits.BCDValue(value[2])
	if mm < 1 || mm > 12 || dd < 1 || dd > 31 {
		return fmt.Sprintf("Invalid Date (%s)", tlv.Upper(value))
	}
	return fmt.Sprintf("%02d.%02d.20%02d", dd, mm, yy)
}

// DecodeTime renders a HHMMSS BCD time as HH:MM:SS.
func DecodeTime(value []byte) string {
	if len(value) < 3 || !isBCD(value[:3]) {
		return fmt.Sprintf("Invalid Time (%s)", tlv.Upper(value))
	}
	hh, mm, ss := bits.BCDValue(value[0]), bits.BCDValue(value[1]), bits.BCDValue(value[2])
	if hh > 23 || mm > 59 || ss > 59 {
		return fmt.Sprintf("Invalid Time (%s)", tlv.Upper(value))
	}
	return fmt.Sprintf("%02d:%02d:%02d", hh, mm, ss)
}

// DecodeCountry maps an ISO 3166 numeric code (n3, two bytes) to a country name.
func DecodeCountry(value []byte) string {
	code := tlv.Upper(value)
	if name, ok := countries[code]; ok {
		return name
	}
	return fmt.Sprintf("Unknown Country (%s)", code)
}

func DecodeTransactionStatus(value []byte) string {
	if len(value) > 0 && value[0] == 0x00 {
		return "Successful"
	}
	return "Error"
}

func DecodeTransactionType(value []byte) string {
	if len(value) == 0 {
		return "Unknown Transaction Type"
	}
	code := tlv.Upper(value[:1])
	if name, ok := transactionTypes[code]; ok {
		return name
	}
	return fmt.Sprintf("Unknown Transaction Type (%s)", code)
}

// DecodeApplicationIdentifier names the payment scheme owning an AID.
func DecodeApplicationIdentifier(value []byte) string {
	aid := tlv.Upper(value)
	for _, p := range applicationProviders {
		if strings.HasPrefix(aid, p.prefix) {
			return p.name
		}
	}
	return fmt.Sprintf("Unknown Card (%s)", aid)
}

// DecodeServiceCode explains the three digit service code (n3) found in the
// last three digits of the value.
func DecodeServiceCode(value []byte) string {
	digits := tlv.Upper(value)
	if len(digits) < 3 {
		return "Incomplete Service Code"
	}
	digits = digits[len(digits)-3:]

	return strings.Join([]string{
		lookupOr(serviceInterchange, digits[0], "Unknown interchange"),
		lookupOr(serviceAuthorization, digits[1], "Unknown authorization"),
		lookupOr(serviceRestrictions, digits[2], "Unknown services"),
	}, ", ")
}

func DecodeCVMResult(value []byte) string {
	code := tlv.Upper(value)
	if name, ok := cvmResults[code]; ok {
		return name
	}
	return fmt.Sprintf("Unknown CVM (%s)", code)
}

// DecodeFormFactor names the device type announced in the first byte of the
// Form Factor Indicator.
func DecodeFormFactor(value []byte) string {
	if len(value) == 0 {
		return "Unknown form factor"
	}
	return lookupOr(formFactors, value[0], "Unknown form factor")
}

// DecodeCardType reports a payment card when the value holds byte A0.
func DecodeCardType(value []byte) string {
	if bytes.IndexByte(value, 0xA0) >= 0 {
		return "EMV Payment Card"
	}
	return "Unknown Card Type"
}

// DecodeText reads the value as UTF-8 text; invalid sequences become U+FFFD.
func DecodeText(value []byte) string {
	return strings.ToValidUTF8(string(value), "\uFFFD")
}

func isBCD(value []byte) bool {
	for _, b := range value {
		if !bits.IsBCD(b) {
			return false
		}
	}
	return true
}

func bigEndian(value []byte) (uint64, bool) {
	var n uint64
	for _, b := range value {
		if n > math.MaxUint64>>8 {
			return 0, false
		}
		n = n<<8 | uint64(b)
	}
	return n, true
}

func lookupOr[K comparable](table map[K]string, key K, fallback string) string {
	if v, ok := table[key]; ok {
		return v
	}
	return fallback
}
