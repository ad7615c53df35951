package emv

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gregLibert/emv-reader/pkg/tlv"
)

func TestSummarize_CardType(t *testing.T) {
	s := Summarize(tlv.Hex("6F 04 A0 00 00 03"))

	if s.CardType != "EMV Payment Card" {
		t.Errorf("CardType = %q, want EMV Payment Card", s.CardType)
	}
	if s.RawResponse != "6F 04 A0 00 00 03" {
		t.Errorf("RawResponse = %q", s.RawResponse)
	}
}

func TestSummarize_ApplicationLabel(t *testing.T) {
	s := Summarize(tlv.Hex("50 04 56 49 53 41"))

	if s.ApplicationLabel != "VISA" {
		t.Errorf("ApplicationLabel = %q, want VISA", s.ApplicationLabel)
	}
	if v, ok := s.Field(TagApplicationLabel); !ok || v != "VISA" {
		t.Errorf("Field(APPLICATION_LABEL) = %q, %v", v, ok)
	}
}

func TestSummarize_SelectResponse(t *testing.T) {
	raw := tlv.Hex(
		"6F 1F",
		"84 07 A0000000031010",
		"A5 14",
		"50 04 56495341",
		"87 01 01",
		"5F2D 02 656E",
		"9F38 03 9F1A02",
		"90 00",
	)

	s := Summarize(raw)

	type named struct {
		CardType, DedicatedFileName, ApplicationLabel, TransactionStatus string
	}
	got := named{s.CardType, s.DedicatedFileName, s.ApplicationLabel, s.TransactionStatus}
	want := named{
		CardType:          "EMV Payment Card",
		DedicatedFileName: "Visa",
		ApplicationLabel:  "VISA",
		// The status word is read as tag 90 with no value.
		TransactionStatus: "Error",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Summarize() mismatch (-want +got):\n%s", diff)
	}

	if v, ok := s.Field(TagLanguagePreference); !ok || v != "en" {
		t.Errorf("Field(LANGUAGE_PREFERENCE) = %q, %v", v, ok)
	}
	if _, ok := s.Field(TagTransactionAmount); ok {
		t.Error("Field(TRANSACTION_AMOUNT) present in a SELECT response")
	}
	if s.TransactionAmount != "" {
		t.Errorf("TransactionAmount = %q, want empty", s.TransactionAmount)
	}
	if s.Truncated {
		t.Error("Truncated set on a well formed response")
	}
	if diff := cmp.Diff([]string{"Unparsed Tag 6F", "Unparsed Tag 90"}, s.Record.Keys()); diff != "" {
		t.Errorf("Record keys mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarize_TransactionData(t *testing.T) {
	raw := tlv.Hex(
		"9F02 06 000000001500",
		"5F2A 02 0978",
		"9A 03 230420",
		"9F21 03 134502",
		"9C 01 00",
		"9F1A 02 0250",
		"9F34 02 0000",
		"9F6E 04 05000000",
		"5F30 02 0201",
		"5A 08 5413330089020011",
		"9A 03 240101", // repeated: last one wins
	)

	s := Summarize(raw)

	type named struct {
		Amount, Currency, Date, Time, Type, Country, CVM, FormFactor, ServiceCode, PAN string
	}
	got := named{
		s.TransactionAmount, s.CurrencyCode, s.TransactionDate, s.TransactionTime,
		s.TransactionType, s.TerminalCountryCode, s.CVMResults, s.FormFactorIndicator,
		s.ServiceCode, s.PAN,
	}
	want := named{
		Amount:      "15.00",
		Currency:    "EUR",
		Date:        "01.01.2024",
		Time:        "13:45:02",
		Type:        "Purchase",
		Country:     "France",
		CVM:         "No CVM performed",
		FormFactor:  "Physical contactless card",
		ServiceCode: "International interchange, with IC, Normal authorization, No restrictions",
		PAN:         "XXXXXXXXXXXX0011",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Summarize() mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarize_Truncated(t *testing.T) {
	s := Summarize(tlv.Hex("50 04 56495341", "9F02 06 0000"))

	if !s.Truncated {
		t.Error("Truncated = false, want true")
	}
	if s.ApplicationLabel != "VISA" {
		t.Errorf("ApplicationLabel = %q, fields before the cut must survive", s.ApplicationLabel)
	}
	if s.TransactionAmount != "" {
		t.Errorf("TransactionAmount = %q, want empty", s.TransactionAmount)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)

	if s.RawResponse != "" || s.Record.Len() != 0 || s.Truncated {
		t.Errorf("Summarize(nil) = %+v, want empty summary", s)
	}
}

func TestSummarize_MasksCardNumbers(t *testing.T) {
	s := Summarize(tlv.Hex("5A 08 4111111111111111", "57 0A 4111111111111111D251"))

	if s.PAN != "XXXXXXXXXXXX1111" {
		t.Errorf("PAN = %q", s.PAN)
	}
	if s.Track2 != "XXXXXXXXXXXX1111D251" {
		t.Errorf("Track2 = %q", s.Track2)
	}

	out, err := json.Marshal(s.Record)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if strings.Contains(string(out), "4111111111111111") {
		t.Errorf("record leaks the PAN: %s", out)
	}
}
