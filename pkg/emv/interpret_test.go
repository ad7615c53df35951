package emv

import (
	"strings"
	"testing"

	"github.com/gregLibert/emv-reader/pkg/tlv"
)

func TestDecodeAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"BCD One Twenty Three", "000000000123", "1.23"},
		{"BCD Large", "000012345678", "123456.78"},
		{"BCD Zero", "000000000000", "0.00"},
		{"Binary Major Units", "000186A00000", "100000.00"},
		{"Binary With Minor Units", "0000FF000063", "65280.99"},
		{"Binary Minor Out Of Range", "00000A000100", "0.00"},
		{"Single Non BCD Byte", "FF", "0.00"},
		{"Empty", "", "0.00"},
		{"BCD Overflow", "99999999999999999999", "0.00"},
		{"Binary Overflow", "FFFFFFFFFFFFFFFFFF0000", "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecodeAmount(tlv.Hex(tt.input)); got != tt.want {
				t.Errorf("DecodeAmount(%s) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDecodeCurrency(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"0978", "EUR"},
		{"0840", "USD"},
		{"0980", "UAH"},
		{"0826", "GBP"},
		{"0392", "JPY"},
		{"0124", "CAD"},
		{"0036", "AUD"},
		{"0756", "CHF"},
		{"0156", "CNY"},
		{"0643", "RUB"},
		{"9999", "Unknown Currency (9999)"},
		{"", "Unknown Currency ()"},
	}

	for _, tt := range tests {
		if got := DecodeCurrency(tlv.Hex(tt.input)); got != tt.want {
			t.Errorf("DecodeCurrency(%s) = %q, want %q", tt.input, got, tt.want)
		}
	}

	if got := DecodeCurrency(tlv.Hex("9999")); !strings.HasPrefix(got, "Unknown Currency") {
		t.Errorf("DecodeCurrency(9999) = %q, want Unknown Currency prefix", got)
	}
}

func TestDecodeDateAndTime(t *testing.T) {
	tests := []struct {
		name   string
		decode func([]byte) string
		input  string
		want   string
	}{
		{"Date", DecodeDate, "230420", "20.04.2023"},
		{"Date First Of Year", DecodeDate, "250101", "01.01.2025"},
		{"Date Bad Month", DecodeDate, "231301", "Invalid Date (231301)"},
		{"Date Not BCD", DecodeDate, "23A420", "Invalid Date (23A420)"},
		{"Date Short", DecodeDate, "2304", "Invalid Date (2304)"},
		{"Time", DecodeTime, "134502", "13:45:02"},
		{"Time Midnight", DecodeTime, "000000", "00:00:00"},
		{"Time Bad Hour", DecodeTime, "250000", "Invalid Time (250000)"},
		{"Time Short", DecodeTime, "", "Invalid Time ()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.decode(tlv.Hex(tt.input)); got != tt.want {
				t.Errorf("decode(%s) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSubDecoders(t *testing.T) {
	tests := []struct {
		name   string
		decode func([]byte) string
		input  string
		want   string
	}{
		{"Country Known", DecodeCountry, "0250", "France"},
		{"Country Ukraine", DecodeCountry, "0804", "Ukraine"},
		{"Country Unknown", DecodeCountry, "0999", "Unknown Country (0999)"},

		{"Status Success", DecodeTransactionStatus, "00", "Successful"},
		{"Status Error", DecodeTransactionStatus, "01", "Error"},
		{"Status Empty", DecodeTransactionStatus, "", "Error"},

		{"Type Purchase", DecodeTransactionType, "00", "Purchase"},
		{"Type Refund", DecodeTransactionType, "20", "Return/Refund"},
		{"Type Unknown", DecodeTransactionType, "77", "Unknown Transaction Type (77)"},
		{"Type Empty", DecodeTransactionType, "", "Unknown Transaction Type"},

		{"AID Visa", DecodeApplicationIdentifier, "A0000000031010", "Visa"},
		{"AID MasterCard", DecodeApplicationIdentifier, "A0000000041010", "MasterCard"},
		{"AID Amex", DecodeApplicationIdentifier, "A00000002501", "American Express"},
		{"AID JCB", DecodeApplicationIdentifier, "A0000000651010", "JCB"},
		{"AID Discover", DecodeApplicationIdentifier, "A0000001523010", "Discover/Diners Club"},
		{"AID UnionPay", DecodeApplicationIdentifier, "A000000333010101", "UnionPay"},
		{"AID Mir", DecodeApplicationIdentifier, "A0000006581010", "Mir"},
		{"AID Interac", DecodeApplicationIdentifier, "A0000002771010", "Interac"},
		{"AID Girocard", DecodeApplicationIdentifier, "D27600002547410100", "Girocard"},
		{"AID Unknown", DecodeApplicationIdentifier, "A0000009999999", "Unknown Card (A0000009999999)"},

		{"Service Code 201", DecodeServiceCode, "0201", "International interchange, with IC, Normal authorization, No restrictions"},
		{"Service Code 101", DecodeServiceCode, "0101", "International interchange, Normal authorization, No restrictions"},
		{"Service Code 526", DecodeServiceCode, "0526", "National interchange only, By issuer, No restrictions, use PIN if feasible"},
		{"Service Code Unknown Digits", DecodeServiceCode, "0888", "Unknown interchange, Unknown authorization, Unknown services"},
		{"Service Code Short", DecodeServiceCode, "02", "Incomplete Service Code"},
		{"Service Code Empty", DecodeServiceCode, "", "Incomplete Service Code"},

		{"CVM None", DecodeCVMResult, "0000", "No CVM performed"},
		{"CVM Signature", DecodeCVMResult, "0006", "Signature"},
		{"CVM Unknown", DecodeCVMResult, "1F03", "Unknown CVM (1F03)"},

		{"Form Factor Contactless", DecodeFormFactor, "05", "Physical contactless card"},
		{"Form Factor Phone", DecodeFormFactor, "06210103", "Mobile phone"},
		{"Form Factor Zero", DecodeFormFactor, "00", "Unknown form factor"},
		{"Form Factor Unknown", DecodeFormFactor, "7F", "Unknown form factor"},
		{"Form Factor Empty", DecodeFormFactor, "", "Unknown form factor"},

		{"Card Type EMV", DecodeCardType, "A0000003", "EMV Payment Card"},
		{"Card Type A0 Inside", DecodeCardType, "8407A0", "EMV Payment Card"},
		{"Card Type Other", DecodeCardType, "0102", "Unknown Card Type"},
		{"Card Type Empty", DecodeCardType, "", "Unknown Card Type"},

		{"Text", DecodeText, "56495341", "VISA"},
		{"Text Invalid UTF-8", DecodeText, "41FF42", "A\uFFFDB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.decode(tlv.Hex(tt.input)); got != tt.want {
				t.Errorf("decode(%s) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestInterpret(t *testing.T) {
	tests := []struct {
		id    TagID
		input string
		want  string
	}{
		{TagTransactionAmount, "000000000123", "1.23"},
		{TagAmountOther, "000000000000", "0.00"},
		{TagCurrencyCode, "0978", "EUR"},
		{TagApplicationCurrencyCode, "0840", "USD"},
		{TagTransactionDate, "230420", "20.04.2023"},
		{TagTransactionTime, "101500", "10:15:00"},
		{TagIssuerCountryCode, "0276", "Germany"},
		{TagTerminalCountryCode, "0826", "United Kingdom"},
		{TagDedicatedFileName, "A0000000041010", "MasterCard"},
		{TagApplicationLabel, "56495341", "VISA"},
		{TagCardholderName, "4A4F484E", "JOHN"},
		{TagApplicationPAN, "4111111111111111", "XXXXXXXXXXXX1111"},
		{TagTrack2EquivalentData, "4111111111111111D25121", "XXXXXXXXXXXX1111DX5121"},
		{TagFCITemplate, "A0000003", "EMV Payment Card"},
		{TagApplicationCryptogram, "1122334455667788", "1122334455667788"},
		{Unknown, "abcd", "ABCD"},
	}

	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			if got := Interpret(tt.id, tlv.Hex(tt.input)); got != tt.want {
				t.Errorf("Interpret(%s, %s) = %q, want %q", tt.id, tt.input, got, tt.want)
			}
		})
	}
}

func TestInterpret_NeverPanics(t *testing.T) {
	inputs := [][]byte{nil, {}, {0xFF}, {0x00, 0x00}, tlv.Hex("FFFFFFFFFFFFFFFFFFFFFFFF")}

	for _, def := range Definitions() {
		for _, in := range inputs {
			_ = Interpret(def.ID, in)
		}
	}
}
