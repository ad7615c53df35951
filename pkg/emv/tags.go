package emv

import "strings"

// TagID is the semantic name of an EMV data element, independent of its
// binary tag code.
type TagID string

// Card data.
const (
	TagApplicationPAN           TagID = "APPLICATION_PAN"
	TagCardholderName           TagID = "CARDHOLDER_NAME"
	TagTrack2EquivalentData     TagID = "TRACK2_EQUIVALENT_DATA"
	TagExpirationDate           TagID = "EXPIRATION_DATE"
	TagApplicationPreferredName TagID = "APPLICATION_PREFERRED_NAME"
	TagPANSequenceNumber        TagID = "PAN_SEQUENCE_NUMBER"
)

// Transaction data.
const (
	TagTransactionAmount       TagID = "TRANSACTION_AMOUNT"
	TagAmountOther             TagID = "AMOUNT_OTHER"
	TagCurrencyCode            TagID = "CURRENCY_CODE"
	TagTransactionDate         TagID = "TRANSACTION_DATE"
	TagTransactionTime         TagID = "TRANSACTION_TIME"
	TagTransactionStatus       TagID = "TRANSACTION_STATUS"
	TagTransactionType         TagID = "TRANSACTION_TYPE"
	TagTransactionCategoryCode TagID = "TRANSACTION_CATEGORY_CODE"
)

// Security and administrative data.
const (
	TagApplicationCryptogram                TagID = "APPLICATION_CRYPTOGRAM"
	TagApplicationTransactionCounter        TagID = "APPLICATION_TRANSACTION_COUNTER"
	TagApplicationInterchangeProfile        TagID = "APPLICATION_INTERCHANGE_PROFILE"
	TagTerminalVerificationResults          TagID = "TERMINAL_VERIFICATION_RESULTS"
	TagIssuerCountryCode                    TagID = "ISSUER_COUNTRY_CODE"
	TagTerminalCountryCode                  TagID = "TERMINAL_COUNTRY_CODE"
	TagApplicationIdentifier                TagID = "APPLICATION_IDENTIFIER"
	TagServiceCode                          TagID = "SERVICE_CODE"
	TagFormFactorIndicator                  TagID = "FORM_FACTOR_INDICATOR"
	TagIssuerApplicationData                TagID = "ISSUER_APPLICATION_DATA"
	TagInterfaceDeviceSerialNumber          TagID = "INTERFACE_DEVICE_SERIAL_NUMBER"
	TagUnpredictableNumber                  TagID = "UNPREDICTABLE_NUMBER"
	TagCardholderVerificationMethodResults  TagID = "CARDHOLDER_VERIFICATION_METHOD_RESULTS"
	TagIssuerScriptResults                  TagID = "ISSUER_SCRIPT_RESULTS"
	TagApplicationCurrencyCode              TagID = "APPLICATION_CURRENCY_CODE"
	TagIssuerScriptTemplate                 TagID = "ISSUER_SCRIPT_TEMPLATE"
	TagCardTransactionQualifiers            TagID = "CARD_TRANSACTION_QUALIFIERS"
	TagCertificationAuthorityPublicKeyIndex TagID = "CERTIFICATION_AUTHORITY_PUBLIC_KEY_INDEX"
	TagPaymentAccountReference              TagID = "PAYMENT_ACCOUNT_REFERENCE"
)

// Templates and File Control Information.
const (
	TagFCITemplate                  TagID = "FCI_TEMPLATE"
	TagApplicationTemplate          TagID = "APPLICATION_TEMPLATE"
	TagDedicatedFileName            TagID = "DEDICATED_FILE_NAME"
	TagSchemeTemplate               TagID = "SCHEME_TEMPLATE"
	TagFCIProprietaryTemplate       TagID = "FCI_PROPRIETARY_TEMPLATE"
	TagApplicationLabel             TagID = "APPLICATION_LABEL"
	TagApplicationPriorityIndicator TagID = "APPLICATION_PRIORITY_INDICATOR"
	TagShortFileIdentifier          TagID = "SHORT_FILE_IDENTIFIER"
	TagPDOL                         TagID = "PDOL"
	TagLanguagePreference           TagID = "LANGUAGE_PREFERENCE"
	TagTransactionCurrencyExponent  TagID = "TRANSACTION_CURRENCY_EXPONENT"
	TagIssuerURL                    TagID = "ISSUER_URL"
)

// Unknown identifies codes missing from the registry.
const Unknown TagID = "UNKNOWN"

// TagDefinition binds a tag code to its semantic identifier.
type TagDefinition struct {
	Code        string // Uppercase hex, 2 or 4 characters.
	ID          TagID
	Description string
}

// UnknownDefinition is returned by Lookup for codes missing from the registry.
var UnknownDefinition = TagDefinition{Code: "", ID: Unknown, Description: "Unknown Tag"}

var definitions = []TagDefinition{
	{"5A", TagApplicationPAN, "Primary Account Number"},
	{"5F20", TagCardholderName, "Cardholder Name"},
	{"57", TagTrack2EquivalentData, "Track 2 Equivalent Data"},
	{"5F24", TagExpirationDate, "Application Expiration Date"},
	{"9F12", TagApplicationPreferredName, "Application Preferred Name"},
	{"5F34", TagPANSequenceNumber, "PAN Sequence Number"},

	{"9F02", TagTransactionAmount, "Amount, Authorised"},
	{"9F03", TagAmountOther, "Amount, Other"},
	{"5F2A", TagCurrencyCode, "Transaction Currency Code"},
	{"9A", TagTransactionDate, "Transaction Date"},
	{"9F21", TagTransactionTime, "Transaction Time"},
	{"90", TagTransactionStatus, "Transaction Status"},
	{"9C", TagTransactionType, "Transaction Type"},
	{"9F53", TagTransactionCategoryCode, "Transaction Category Code"},

	{"9F26", TagApplicationCryptogram, "Application Cryptogram"},
	{"9F36", TagApplicationTransactionCounter, "Application Transaction Counter"},
	{"82", TagApplicationInterchangeProfile, "Application Interchange Profile"},
	{"95", TagTerminalVerificationResults, "Terminal Verification Results"},
	{"5F28", TagIssuerCountryCode, "Issuer Country Code"},
	{"9F1A", TagTerminalCountryCode, "Terminal Country Code"},
	{"4F", TagApplicationIdentifier, "Application Identifier (AID)"},
	{"5F30", TagServiceCode, "Service Code"},
	{"9F6E", TagFormFactorIndicator, "Form Factor Indicator"},
	{"9F10", TagIssuerApplicationData, "Issuer Application Data"},
	{"9F1E", TagInterfaceDeviceSerialNumber, "Interface Device Serial Number"},
	{"9F37", TagUnpredictableNumber, "Unpredictable Number"},
	{"9F34", TagCardholderVerificationMethodResults, "Cardholder Verification Method Results"},
	{"9F5B", TagIssuerScriptResults, "Issuer Script Results"},
	{"9F42", TagApplicationCurrencyCode, "Application Currency Code"},
	{"9F7F", TagIssuerScriptTemplate, "Issuer Script Template"},
	{"9F6C", TagCardTransactionQualifiers, "Card Transaction Qualifiers"},
	{"9F22", TagCertificationAuthorityPublicKeyIndex, "Certification Authority Public Key Index"},
	{"9F24", TagPaymentAccountReference, "Payment Account Reference"},

	{"6F", TagFCITemplate, "File Control Information Template"},
	{"61", TagApplicationTemplate, "Application Template"},
	{"84", TagDedicatedFileName, "Dedicated File Name"},
	{"A0", TagSchemeTemplate, "Scheme Specific Template"},
	{"A5", TagFCIProprietaryTemplate, "FCI Proprietary Template"},
	{"50", TagApplicationLabel, "Application Label"},
	{"87", TagApplicationPriorityIndicator, "Application Priority Indicator"},
	{"88", TagShortFileIdentifier, "Short File Identifier"},
	{"9F38", TagPDOL, "Processing Options Data Object List"},
	{"5F2D", TagLanguagePreference, "Language Preference"},
	{"5F36", TagTransactionCurrencyExponent, "Transaction Currency Exponent"},
	{"5F50", TagIssuerURL, "Issuer URL"},
}

// byCode is filled once at package initialisation and only read afterwards.
var byCode = func() map[string]TagDefinition {
	m := make(map[string]TagDefinition, len(definitions))
	for _, def := range definitions {
		m[def.Code] = def
	}
	return m
}()

// Lookup resolves a tag code such as "5F20" (any case) to its definition.
// Codes missing from the registry resolve to UnknownDefinition.
func Lookup(code string) TagDefinition {
	if def, ok := byCode[strings.ToUpper(code)]; ok {
		return def
	}
	return UnknownDefinition
}

// Describe returns the human readable name of a tag code.
func Describe(code string) string {
	return Lookup(code).Description
}

// Definitions returns a copy of the registry in declaration order.
func Definitions() []TagDefinition {
	out := make([]TagDefinition, len(definitions))
	copy(out, definitions)
	return out
}
