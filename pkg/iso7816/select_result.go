package iso7816

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gregLibert/emv-reader/pkg/tlv"
)

// SelectResult is the trace of one logical SELECT, including the GET
// RESPONSE or Le retry the Client sent on its behalf.
type SelectResult struct {
	Trace
}

// NewSelectResult checks that t is non-empty and opens with a SELECT.
func NewSelectResult(t Trace) (*SelectResult, error) {
	if len(t) == 0 {
		return nil, errors.New("cannot create result from empty trace")
	}
	if ins := t[0].Command.Instruction.Raw; ins != INS_SELECT {
		return nil, fmt.Errorf("trace must start with SELECT command (got %s)", ins)
	}
	return &SelectResult{Trace: t}, nil
}

// Response returns the last response, the one carrying the FCI.
func (r *SelectResult) Response() *ResponseAPDU {
	return r.Last().Response
}

// Describe renders the exchange step by step:
//
//	=== SELECT A0000000031010 ===
//	[1] > 00 A4 04 00 07 A0 00 00 00 03 10 10 00
//	      Select by DF Name (AID), First/Only, Return FCI
//	    < 61 0B  Process completed, 11 bytes available
//	[2] > 00 C0 00 00 0B  GET RESPONSE
//	    < 90 00  [9000] SW_NO_ERROR: application selected (11 bytes)
//	[=] OK [9000] SW_NO_ERROR: application selected
//	    6F 09 84 07 A0 00 00 00 03 10 10
func (r *SelectResult) Describe() string {
	var sb strings.Builder
	first := r.Trace[0].Command
	fmt.Fprintf(&sb, "=== SELECT %s ===\n", tlv.Upper(first.Data))

	for i, tx := range r.Trace {
		raw, _ := tx.Command.Bytes()
		fmt.Fprintf(&sb, "[%d] > %s", i+1, tlv.Spaced(raw))
		switch {
		case i == 0:
			fmt.Fprintf(&sb, "\n      %s, %s, %s", SelectionMethod(first.P1),
				FileOccurrence(first.P2&0x03), SelectionControl(first.P2&0x0C))
		case tx.Command.Instruction.Raw == INS_GET_RESPONSE:
			sb.WriteString("  GET RESPONSE")
		case tx.Command.Instruction.Raw == INS_SELECT:
			sb.WriteString("  SELECT with corrected Le")
		}
		sb.WriteByte('\n')

		if tx.Response == nil {
			sb.WriteString("    < no response\n")
			continue
		}
		sw := tx.Response.Status
		fmt.Fprintf(&sb, "    < %02X %02X  %s", sw.SW1(), sw.SW2(), sw.Verbose())
		if n := len(tx.Response.Data); n > 0 {
			fmt.Fprintf(&sb, " (%d bytes)", n)
		}
		sb.WriteByte('\n')
	}

	last := r.Response()
	outcome := "FAILED"
	if r.IsSuccess() {
		outcome = "OK"
	}
	if last == nil {
		fmt.Fprintf(&sb, "[=] %s, no final response\n", outcome)
		return sb.String()
	}
	fmt.Fprintf(&sb, "[=] %s %s\n", outcome, last.Status.Verbose())
	if len(last.Data) > 0 {
		fmt.Fprintf(&sb, "    %s\n", tlv.Spaced(last.Data))
	} else {
		sb.WriteString("    no data\n")
	}
	return sb.String()
}
