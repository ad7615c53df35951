package emv

import (
	"errors"

	"github.com/gregLibert/emv-reader/pkg/tlv"
)

// CardSummary aggregates everything read from one card response.
// Named fields hold interpretations and are empty when the element was not
// present; use Field to tell an absent element from an empty one.
type CardSummary struct {
	RawResponse string  `json:"raw_response"`
	Record      *Record `json:"record"`

	CardType                      string `json:"card_type,omitempty"`
	ApplicationLabel              string `json:"application_label,omitempty"`
	TransactionAmount             string `json:"transaction_amount,omitempty"`
	CurrencyCode                  string `json:"currency_code,omitempty"`
	TransactionDate               string `json:"transaction_date,omitempty"`
	TransactionStatus             string `json:"transaction_status,omitempty"`
	ApplicationIdentifier         string `json:"application_identifier,omitempty"`
	ApplicationTemplate           string `json:"application_template,omitempty"`
	DedicatedFileName             string `json:"dedicated_file_name,omitempty"`
	IssuerCountryCode             string `json:"issuer_country_code,omitempty"`
	TransactionCurrencyExponent   string `json:"transaction_currency_exponent,omitempty"`
	ServiceCode                   string `json:"service_code,omitempty"`
	IssuerURL                     string `json:"issuer_url,omitempty"`
	PaymentAccountReference       string `json:"payment_account_reference,omitempty"`
	ApplicationCryptogram         string `json:"application_cryptogram,omitempty"`
	ApplicationTransactionCounter string `json:"application_transaction_counter,omitempty"`
	ApplicationInterchangeProfile string `json:"application_interchange_profile,omitempty"`
	TerminalVerificationResults   string `json:"terminal_verification_results,omitempty"`
	TransactionType               string `json:"transaction_type,omitempty"`
	IssuerApplicationData         string `json:"issuer_application_data,omitempty"`
	TerminalCountryCode           string `json:"terminal_country_code,omitempty"`
	InterfaceDeviceSerialNumber   string `json:"interface_device_serial_number,omitempty"`
	UnpredictableNumber           string `json:"unpredictable_number,omitempty"`
	CVMResults                    string `json:"cvm_results,omitempty"`
	IssuerScriptResults           string `json:"issuer_script_results,omitempty"`
	ApplicationCurrencyCode       string `json:"application_currency_code,omitempty"`
	TransactionCategoryCode       string `json:"transaction_category_code,omitempty"`
	FormFactorIndicator           string `json:"form_factor_indicator,omitempty"`

	TransactionTime          string `json:"transaction_time,omitempty"`
	AmountOther              string `json:"amount_other,omitempty"`
	ApplicationPreferredName string `json:"application_preferred_name,omitempty"`
	CardholderName           string `json:"cardholder_name,omitempty"`
	ExpirationDate           string `json:"expiration_date,omitempty"`
	PAN                      string `json:"pan,omitempty"`
	Track2                   string `json:"track2,omitempty"`

	Truncated bool `json:"truncated,omitempty"`

	// Set by the reader, not by Summarize.
	StatusWord string `json:"status_word,omitempty"`
	FCI        *FCI   `json:"-"`

	fields map[TagID]string
}

// Field returns the interpretation of a data element and whether the
// response carried it.
func (s *CardSummary) Field(id TagID) (string, bool) {
	v, ok := s.fields[id]
	return v, ok
}

// Summarize decodes a raw response and interprets every registered data
// element it contains, templates included. When an element occurs more
// than once, the last occurrence wins.
func Summarize(raw []byte) *CardSummary {
	s := &CardSummary{
		RawResponse: tlv.Spaced(raw),
		Record:      Decode(raw),
		fields:      make(map[TagID]string),
	}
	s.Truncated = s.Record.Truncated()

	interpretAll(raw, s.fields)

	targets := s.namedFields()
	for id, v := range s.fields {
		if dst, ok := targets[id]; ok {
			*dst = v
		}
	}
	return s
}

// interpretAll walks data and the content of every constructed element.
// Truncation inside a template ends that template only.
func interpretAll(data []byte, out map[TagID]string) {
	entries, err := tlv.Scan(data)
	if err != nil && !errors.Is(err, tlv.ErrTruncated) {
		return
	}
	for _, e := range entries {
		if def := Lookup(e.Tag); def.ID != Unknown {
			out[def.ID] = Interpret(def.ID, e.Value)
		}
		if e.Constructed() {
			interpretAll(e.Value, out)
		}
	}
}

func (s *CardSummary) namedFields() map[TagID]*string {
	return map[TagID]*string{
		TagFCITemplate:                         &s.CardType,
		TagApplicationLabel:                    &s.ApplicationLabel,
		TagTransactionAmount:                   &s.TransactionAmount,
		TagCurrencyCode:                        &s.CurrencyCode,
		TagTransactionDate:                     &s.TransactionDate,
		TagTransactionStatus:                   &s.TransactionStatus,
		TagApplicationIdentifier:               &s.ApplicationIdentifier,
		TagApplicationTemplate:                 &s.ApplicationTemplate,
		TagDedicatedFileName:                   &s.DedicatedFileName,
		TagIssuerCountryCode:                   &s.IssuerCountryCode,
		TagTransactionCurrencyExponent:         &s.TransactionCurrencyExponent,
		TagServiceCode:                         &s.ServiceCode,
		TagIssuerURL:                           &s.IssuerURL,
		TagPaymentAccountReference:             &s.PaymentAccountReference,
		TagApplicationCryptogram:               &s.ApplicationCryptogram,
		TagApplicationTransactionCounter:       &s.ApplicationTransactionCounter,
		TagApplicationInterchangeProfile:       &s.ApplicationInterchangeProfile,
		TagTerminalVerificationResults:         &s.TerminalVerificationResults,
		TagTransactionType:                     &s.TransactionType,
		TagIssuerApplicationData:               &s.IssuerApplicationData,
		TagTerminalCountryCode:                 &s.TerminalCountryCode,
		TagInterfaceDeviceSerialNumber:         &s.InterfaceDeviceSerialNumber,
		TagUnpredictableNumber:                 &s.UnpredictableNumber,
		TagCardholderVerificationMethodResults: &s.CVMResults,
		TagIssuerScriptResults:                 &s.IssuerScriptResults,
		TagApplicationCurrencyCode:             &s.ApplicationCurrencyCode,
		TagTransactionCategoryCode:             &s.TransactionCategoryCode,
		TagFormFactorIndicator:                 &s.FormFactorIndicator,
		TagTransactionTime:                     &s.TransactionTime,
		TagAmountOther:                         &s.AmountOther,
		TagApplicationPreferredName:            &s.ApplicationPreferredName,
		TagCardholderName:                      &s.CardholderName,
		TagExpirationDate:                      &s.ExpirationDate,
		TagApplicationPAN:                      &s.PAN,
		TagTrack2EquivalentData:                &s.Track2,
	}
}
