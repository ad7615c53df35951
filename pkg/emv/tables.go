package emv

// Lookup tables of the field interpreter. Keys are uppercase hex as read
// from the card. The tables are never written after initialisation.

// ISO 4217 numeric currency codes.
var currencies = map[string]string{
	"0036": "AUD",
	"0124": "CAD",
	"0156": "CNY",
	"0203": "CZK",
	"0208": "DKK",
	"0344": "HKD",
	"0348": "HUF",
	"0356": "INR",
	"0376": "ILS",
	"0392": "JPY",
	"0410": "KRW",
	"0484": "MXN",
	"0554": "NZD",
	"0578": "NOK",
	"0643": "RUB",
	"0702": "SGD",
	"0710": "ZAR",
	"0752": "SEK",
	"0756": "CHF",
	"0764": "THB",
	"0784": "AED",
	"0826": "GBP",
	"0840": "USD",
	"0946": "RON",
	"0949": "TRY",
	"0978": "EUR",
	"0980": "UAH",
	"0985": "PLN",
	"0986": "BRL",
}

// ISO 3166-1 numeric country codes.
var countries = map[string]string{
	"0036": "Australia",
	"0040": "Austria",
	"0056": "Belgium",
	"0076": "Brazil",
	"0124": "Canada",
	"0156": "China",
	"0203": "Czechia",
	"0208": "Denmark",
	"0246": "Finland",
	"0250": "France",
	"0276": "Germany",
	"0300": "Greece",
	"0344": "Hong Kong",
	"0348": "Hungary",
	"0356": "India",
	"0372": "Ireland",
	"0376": "Israel",
	"0380": "Italy",
	"0392": "Japan",
	"0410": "South Korea",
	"0442": "Luxembourg",
	"0484": "Mexico",
	"0528": "Netherlands",
	"0554": "New Zealand",
	"0578": "Norway",
	"0616": "Poland",
	"0620": "Portugal",
	"0642": "Romania",
	"0643": "Russia",
	"0702": "Singapore",
	"0710": "South Africa",
	"0724": "Spain",
	"0752": "Sweden",
	"0756": "Switzerland",
	"0764": "Thailand",
	"0784": "United Arab Emirates",
	"0792": "Turkey",
	"0804": "Ukraine",
	"0826": "United Kingdom",
	"0840": "United States",
}

var transactionTypes = map[string]string{
	"00": "Purchase",
	"01": "Cash Advance",
	"09": "Purchase with Cashback",
	"20": "Return/Refund",
	"21": "Deposit",
	"31": "Balance Inquiry",
	"50": "Quasi-Cash",
	"90": "Authorization Only",
}

// Registered application provider prefixes, matched in order.
var applicationProviders = []struct {
	prefix string
	name   string
}{
	{"A000000003", "Visa"},
	{"A000000004", "MasterCard"},
	{"A000000025", "American Express"},
	{"A000000065", "JCB"},
	{"A000000152", "Discover/Diners Club"},
	{"A000000333", "UnionPay"},
	{"A000000324", "UnionPay"},
	{"A000000658", "Mir"},
	{"A000000677", "Mir"},
	{"A000000277", "Interac"},
	{"D276000025", "Girocard"},
}

// Service code, first digit.
var serviceInterchange = map[byte]string{
	'1': "International interchange",
	'2': "International interchange, with IC",
	'5': "National interchange only",
	'6': "National interchange only, with IC",
	'7': "Private",
	'9': "Test",
}

// Service code, second digit.
var serviceAuthorization = map[byte]string{
	'0': "Normal authorization",
	'2': "By issuer",
	'4': "By issuer unless explicit agreement",
}

// Service code, third digit.
var serviceRestrictions = map[byte]string{
	'0': "No restrictions, PIN required",
	'1': "No restrictions",
	'2': "Goods and services only",
	'3': "ATM only, PIN required",
	'4': "Cash only",
	'5': "Goods and services only, PIN required",
	'6': "No restrictions, use PIN if feasible",
	'7': "Goods and services only, use PIN if feasible",
}

var cvmResults = map[string]string{
	"0000": "No CVM performed",
	"0001": "Plaintext PIN verified by ICC",
	"0002": "Enciphered PIN verified online",
	"0003": "Plaintext PIN verified by ICC and signature",
	"0004": "Enciphered PIN verified by ICC",
	"0005": "Enciphered PIN verified by ICC and signature",
	"0006": "Signature",
	"0007": "No CVM required",
	"0008": "Card CVM reference check failed",
}

var formFactors = map[byte]string{
	0x01: "Physical card with magnetic stripe",
	0x02: "Physical card with magnetic stripe and contact chip",
	0x03: "Physical card with contact chip only",
	0x04: "Physical card with contact chip and contactless",
	0x05: "Physical contactless card",
	0x06: "Mobile phone",
	0x07: "Smart watch",
	0x08: "Smart card",
	0x09: "Passive wearable (ring, bracelet, band)",
	0x0A: "Battery-powered wearable",
	0x41: "Physical card hosted a virtual card",
	0x42: "Mobile phone hosted a virtual card",
}
