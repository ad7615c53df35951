package iso7816

import (
	"fmt"

	"github.com/gregLibert/emv-reader/pkg/bits"
)

// StatusWord is SW1 SW2, the trailer of every response APDU.
//
// Some ranges carry a value in SW2 instead of a fixed meaning:
//
//	61XX  XX bytes wait for GET RESPONSE
//	6CXX  wrong Le, XX is the right one
//	62XX  warning raised by the card, XX in 02..80
//	64XX  same, as an error
//	63CX  counter X (PIN tries left, for instance)
type StatusWord uint16

func NewStatusWord(sw1, sw2 byte) StatusWord {
	return StatusWord(uint16(sw1)<<8 | uint16(sw2))
}

func (sw StatusWord) SW1() byte { return byte(sw >> 8) }
func (sw StatusWord) SW2() byte { return byte(sw) }

// IsSuccess holds for 9000 and 61XX.
func (sw StatusWord) IsSuccess() bool {
	return sw == SW_NO_ERROR || sw.SW1() == 0x61
}

// IsWarning holds for 62XX and 63XX.
func (sw StatusWord) IsWarning() bool {
	return sw.SW1() == 0x62 || sw.SW1() == 0x63
}

// IsError holds for 64XX to 6FXX.
func (sw StatusWord) IsError() bool {
	return sw.SW1() >= 0x64 && sw.SW1() <= 0x6F
}

func (sw StatusWord) triggering() bool {
	sw1, sw2 := sw.SW1(), sw.SW2()
	return (sw1 == 0x62 || sw1 == 0x64) && sw2 >= 0x02 && sw2 <= 0x80
}

func (sw StatusWord) counter() (int, bool) {
	if sw.SW1() != 0x63 || bits.HighNibble(sw.SW2()) != 0x0C {
		return 0, false
	}
	return int(bits.LowNibble(sw.SW2())), true
}

// Verbose describes the status for a human. Value-carrying ranges are
// decoded first, then known codes, then the SW1 family.
func (sw StatusWord) Verbose() string {
	sw1, sw2 := sw.SW1(), sw.SW2()

	switch {
	case sw.triggering() && sw1 == 0x64:
		return fmt.Sprintf("Error/Abort (Triggering): Card expects query of %d bytes", sw2)
	case sw.triggering():
		return fmt.Sprintf("Warning (Triggering): Card expects query of %d bytes", sw2)
	case sw1 == 0x61:
		return fmt.Sprintf("Process completed, %d bytes available", sw2)
	case sw1 == 0x6C:
		return fmt.Sprintf("Wrong length, correct Le is %d", sw2)
	}
	if n, ok := sw.counter(); ok {
		return fmt.Sprintf("Warning: State changed, counter = %d", n)
	}
	if e, ok := statusTable[sw]; ok {
		return fmt.Sprintf("[%04X] %s: %s", uint16(sw), e.name, e.text)
	}
	if family, ok := familyText[sw1]; ok {
		return fmt.Sprintf("[%04X] %s", uint16(sw), family)
	}
	return fmt.Sprintf("[%04X] Unknown Status", uint16(sw))
}

// String returns the constant name of a known status word, or its hex value.
func (sw StatusWord) String() string {
	if e, ok := statusTable[sw]; ok {
		return e.name
	}
	return fmt.Sprintf("StatusWord(0x%04X)", uint16(sw))
}

// Codes a payment application may answer to SELECT.
const (
	SW_NO_ERROR StatusWord = 0x9000

	SW_WARN_NO_INFO          StatusWord = 0x6200
	SW_WARN_FILE_DEACTIVATED StatusWord = 0x6283
	SW_WARN_FCI_BAD_FORMAT   StatusWord = 0x6284
	SW_WARN_NV_CHANGED       StatusWord = 0x6300

	SW_ERR_EXEC_NO_INFO    StatusWord = 0x6400
	SW_ERR_MEMORY_FAILURE  StatusWord = 0x6581
	SW_ERR_WRONG_LENGTH    StatusWord = 0x6700
	SW_ERR_CHANNEL_UNSUPP  StatusWord = 0x6881
	SW_ERR_SM_UNSUPP       StatusWord = 0x6882
	SW_ERR_NOT_ALLOWED     StatusWord = 0x6900
	SW_ERR_SECURITY_STATUS StatusWord = 0x6982
	SW_ERR_AUTH_BLOCKED    StatusWord = 0x6983
	SW_ERR_CONDITIONS      StatusWord = 0x6985

	SW_ERR_WRONG_DATA         StatusWord = 0x6A80
	SW_ERR_FUNC_NOT_SUPPORTED StatusWord = 0x6A81
	SW_ERR_FILE_NOT_FOUND     StatusWord = 0x6A82
	SW_ERR_WRONG_P1P2_FUNC    StatusWord = 0x6A86
	SW_ERR_REF_NOT_FOUND      StatusWord = 0x6A88
	SW_ERR_WRONG_P1P2         StatusWord = 0x6B00
	SW_ERR_INS_INVALID        StatusWord = 0x6D00
	SW_ERR_CLA_NOT_SUPPORTED  StatusWord = 0x6E00
	SW_ERR_UNKNOWN            StatusWord = 0x6F00
)

var statusTable = map[StatusWord]struct{ name, text string }{
	SW_NO_ERROR:               {"SW_NO_ERROR", "application selected"},
	SW_WARN_NO_INFO:           {"SW_WARN_NO_INFO", "warning, memory unchanged"},
	SW_WARN_FILE_DEACTIVATED:  {"SW_WARN_FILE_DEACTIVATED", "application blocked"},
	SW_WARN_FCI_BAD_FORMAT:    {"SW_WARN_FCI_BAD_FORMAT", "FCI not formatted per ISO 7816-4"},
	SW_WARN_NV_CHANGED:        {"SW_WARN_NV_CHANGED", "warning, memory changed"},
	SW_ERR_EXEC_NO_INFO:       {"SW_ERR_EXEC_NO_INFO", "execution error"},
	SW_ERR_MEMORY_FAILURE:     {"SW_ERR_MEMORY_FAILURE", "memory failure"},
	SW_ERR_WRONG_LENGTH:       {"SW_ERR_WRONG_LENGTH", "wrong Lc or Le"},
	SW_ERR_CHANNEL_UNSUPP:     {"SW_ERR_CHANNEL_UNSUPP", "logical channel not supported"},
	SW_ERR_SM_UNSUPP:          {"SW_ERR_SM_UNSUPP", "secure messaging not supported"},
	SW_ERR_NOT_ALLOWED:        {"SW_ERR_NOT_ALLOWED", "command not allowed"},
	SW_ERR_SECURITY_STATUS:    {"SW_ERR_SECURITY_STATUS", "security status not satisfied"},
	SW_ERR_AUTH_BLOCKED:       {"SW_ERR_AUTH_BLOCKED", "authentication method blocked"},
	SW_ERR_CONDITIONS:         {"SW_ERR_CONDITIONS", "conditions of use not satisfied"},
	SW_ERR_WRONG_DATA:         {"SW_ERR_WRONG_DATA", "incorrect data field"},
	SW_ERR_FUNC_NOT_SUPPORTED: {"SW_ERR_FUNC_NOT_SUPPORTED", "function not supported, card may be blocked"},
	SW_ERR_FILE_NOT_FOUND:     {"SW_ERR_FILE_NOT_FOUND", "application not on the card"},
	SW_ERR_WRONG_P1P2_FUNC:    {"SW_ERR_WRONG_P1P2_FUNC", "incorrect P1 P2"},
	SW_ERR_REF_NOT_FOUND:      {"SW_ERR_REF_NOT_FOUND", "referenced data not found"},
	SW_ERR_WRONG_P1P2:         {"SW_ERR_WRONG_P1P2", "wrong parameters P1 P2"},
	SW_ERR_INS_INVALID:        {"SW_ERR_INS_INVALID", "instruction not supported"},
	SW_ERR_CLA_NOT_SUPPORTED:  {"SW_ERR_CLA_NOT_SUPPORTED", "class not supported"},
	SW_ERR_UNKNOWN:            {"SW_ERR_UNKNOWN", "no precise diagnosis"},
}

var familyText = map[byte]string{
	0x62: "Warning: NV memory unchanged",
	0x63: "Warning: NV memory changed",
	0x64: "Execution Error: NV memory unchanged",
	0x65: "Execution Error: NV memory changed",
	0x66: "Execution Error: Security issue",
	0x68: "Checking Error: Function not supported",
	0x69: "Checking Error: Command not allowed",
	0x6A: "Checking Error: Wrong parameters",
}
