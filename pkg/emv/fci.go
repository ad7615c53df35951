package emv

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/gregLibert/emv-reader/pkg/tlv"
	"github.com/moov-io/bertlv"
)

// FILE CONTROL INFORMATION (FCI)
// Strict view of the SELECT response: unlike Summarize, the data must be
// well formed BER-TLV. The reader attaches it to the summary when parsing
// succeeds.

// FCI represents the EMV File Control Information returned by SELECT.
type FCI struct {
	DFName              []byte                 `tlv:"84"`
	ProprietaryTemplate FCIProprietaryTemplate `tlv:"A5"`
}

// FCIProprietaryTemplate contains the issuer-specific data found in tag 'A5'.
type FCIProprietaryTemplate struct {
	ApplicationLabel             []byte `tlv:"50"`
	ApplicationPriorityIndicator []byte `tlv:"87"`
	SFI                          []byte `tlv:"88"`
	PDOL                         []byte `tlv:"9F38"`
	LanguagePreference           []byte `tlv:"5F2D"`
	IssuerCodeTableIndex         []byte `tlv:"9F11"`
	ApplicationPreferredName     []byte `tlv:"9F12"`

	IssuerDiscretionaryData *FCIIssuerDiscretionaryData `tlv:"BF0C"`

	Unknown []bertlv.TLV `tlv:",unknown"`
}

// FCIIssuerDiscretionaryData is the content of tag 'BF0C'.
type FCIIssuerDiscretionaryData struct {
	LogEntry                           []byte `tlv:"9F4D"`
	IssuerIdentificationNumberExtended []byte `tlv:"9F0C"`
	IssuerCountryCodeAlpha3            []byte `tlv:"5F56" fmt:"ascii"`
	IssuerCountryCodeAlpha2            []byte `tlv:"5F55" fmt:"ascii"`
	BankIdentifierCode                 []byte `tlv:"5F54" fmt:"ascii"`
	IBAN                               []byte `tlv:"5F53" fmt:"ascii"`
	IssuerURL                          []byte `tlv:"5F50"`
	IssuerIdentificationNumber         []byte `tlv:"42"`
	PaymentAccountReference            []byte `tlv:"9F24"`

	Unknown []bertlv.TLV `tlv:",unknown"`
}

// ParseFCI maps the data field of a SELECT response onto FCI.
// The '6F' wrapper is optional.
func ParseFCI(data []byte) (*FCI, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty data cannot be parsed")
	}

	packets, err := bertlv.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("BER-TLV decode failed: %w", err)
	}

	processingPackets := packets
	if len(packets) > 0 && strings.EqualFold(packets[0].Tag, "6F") {
		processingPackets = packets[0].TLVs
	}

	fci := &FCI{}
	if err := tlv.UnmarshalFromPackets(processingPackets, fci); err != nil {
		return nil, fmt.Errorf("failed to map structure: %w", err)
	}

	return fci, nil
}

// Describe renders every present FCI field, one per line, with the
// interpretation of registered tags.
func (f *FCI) Describe() string {
	var sb strings.Builder
	sb.WriteString("=== EMV FCI TEMPLATE ===\n")

	writeFields(&sb, "FCI", f)
	writeFields(&sb, "Proprietary", f.ProprietaryTemplate)
	if f.ProprietaryTemplate.IssuerDiscretionaryData != nil {
		writeFields(&sb, "Discretionary", f.ProprietaryTemplate.IssuerDiscretionaryData)
	}

	return strings.TrimRight(sb.String(), "\n")
}

func writeFields(sb *strings.Builder, prefix string, data any) {
	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field, value := t.Field(i), v.Field(i)

		if unknown, ok := value.Interface().([]bertlv.TLV); ok {
			for _, p := range unknown {
				fmt.Fprintf(sb, "    - %s.Unknown Tag %s: %s\n", prefix, strings.ToUpper(p.Tag), tlv.Upper(p.Value))
			}
			continue
		}

		raw, ok := value.Interface().([]byte)
		if !ok || len(raw) == 0 {
			continue
		}

		code := strings.ToUpper(field.Tag.Get("tlv"))
		fmt.Fprintf(sb, "    - %s.%s (%s): %s", prefix, field.Name, code, tlv.Upper(raw))
		if note := annotate(code, field.Tag.Get("fmt"), raw); note != "" {
			fmt.Fprintf(sb, " (%q)", note)
		}
		sb.WriteByte('\n')
	}
}

// annotate returns the interpretation shown next to a raw field value, or
// "" when it would only repeat the hex.
func annotate(code, format string, raw []byte) string {
	if def := Lookup(code); def.ID != Unknown {
		if s := Interpret(def.ID, raw); s != tlv.Upper(raw) {
			return s
		}
		return ""
	}
	if format == "ascii" {
		return tlv.MakeSafeASCII(raw)
	}
	return ""
}
