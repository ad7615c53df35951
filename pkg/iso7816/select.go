package iso7816

import "fmt"

// SELECT (INS A4, ISO 7816-4 section 11.2.2):
//
//	P1  how the target is named (file ID, DF name/AID, path...)
//	P2  b4-b3 what to return (FCI, FCP, FMD, nothing), b2-b1 which occurrence
//
// A payment terminal only selects by DF name, asking for the FCI of the
// first occurrence.

// SelectionMethod is P1 of a SELECT.
type SelectionMethod byte

const (
	SelectByFileID          SelectionMethod = 0x00
	SelectChildDF           SelectionMethod = 0x01
	SelectEFUnderCurrentDF  SelectionMethod = 0x02
	SelectParentDF          SelectionMethod = 0x03
	SelectByDFName          SelectionMethod = 0x04
	SelectPathFromMF        SelectionMethod = 0x08
	SelectPathFromCurrentDF SelectionMethod = 0x09
)

var methodNames = map[SelectionMethod]string{
	SelectByFileID:          "Select by File ID",
	SelectChildDF:           "Select Child DF",
	SelectEFUnderCurrentDF:  "Select EF under current DF",
	SelectParentDF:          "Select Parent DF",
	SelectByDFName:          "Select by DF Name (AID)",
	SelectPathFromMF:        "Select Path from MF",
	SelectPathFromCurrentDF: "Select Path from Current DF",
}

func (s SelectionMethod) String() string {
	if name, ok := methodNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Unknown Method (0x%02X)", byte(s))
}

// FileOccurrence is P2 b2-b1.
type FileOccurrence byte

const (
	FirstOrOnlyOccurrence FileOccurrence = 0b00
	LastOccurrence        FileOccurrence = 0b01
	NextOccurrence        FileOccurrence = 0b10
	PreviousOccurrence    FileOccurrence = 0b11
)

func (f FileOccurrence) String() string {
	return [...]string{"First/Only", "Last", "Next", "Previous"}[f&0b11]
}

// SelectionControl is P2 b4-b3.
type SelectionControl byte

const (
	ReturnFCI    SelectionControl = 0b0000
	ReturnFCP    SelectionControl = 0b0100
	ReturnFMD    SelectionControl = 0b1000
	ReturnNoData SelectionControl = 0b1100
)

func (s SelectionControl) String() string {
	return [...]string{"Return FCI", "Return FCP", "Return FMD", "No Response Data"}[(s>>2)&0b11]
}

// NewSelectCommand creates a generic SELECT command. Without data it asks
// for up to 256 bytes. With data it sends no Le, which T=0 readers need;
// the card then answers 61XX and the Client fetches the data.
func NewSelectCommand(
	cla Class,
	method SelectionMethod,
	occurrence FileOccurrence,
	ctrl SelectionControl,
	data []byte,
) *CommandAPDU {
	ne := 0
	if len(data) == 0 && ctrl != ReturnNoData {
		ne = MaxShortLe
	}
	p2 := byte(ctrl) | byte(occurrence)
	return NewCommandAPDU(cla, MustInstruction(INS_SELECT), byte(method), p2, data, ne)
}

// SelectApplication creates the SELECT by AID sent by payment terminals:
// first or only occurrence, FCI requested, and Le = 00 (case 4). Readers
// speaking T=0 drop the Le byte themselves.
func SelectApplication(cla Class, aid []byte) *CommandAPDU {
	cmd := NewSelectCommand(cla, SelectByDFName, FirstOrOnlyOccurrence, ReturnFCI, aid)
	cmd.Ne = MaxShortLe
	return cmd
}
