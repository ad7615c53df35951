package iso7816

import (
	"github.com/rs/zerolog"

	"github.com/gregLibert/emv-reader/pkg/tlv"
)

// A Transaction is one C-APDU and the R-APDU it produced. A Trace lists the
// transactions issued for one logical command: a SELECT answered with 61XX
// yields two entries, the SELECT and the GET RESPONSE.

// Transaction represents a completed Command-Response pair.
type Transaction struct {
	Command  *CommandAPDU
	Response *ResponseAPDU
}

// IsSuccess reports a response with SW1 90 or 61. A missing response is a
// failure.
func (t *Transaction) IsSuccess() bool {
	return t.Response != nil && t.Response.Status.IsSuccess()
}

// MarshalZerologObject logs the command in hex and the response status.
// Response data may hold card numbers and is only counted.
func (t Transaction) MarshalZerologObject(e *zerolog.Event) {
	if t.Command != nil {
		if raw, err := t.Command.Bytes(); err == nil {
			e.Str("c", tlv.Spaced(raw))
		}
	}
	if t.Response != nil {
		e.Stringer("sw", t.Response.Status).Int("len", len(t.Response.Data))
	}
}

// Trace is a sequence of transactions (Command-Response pairs).
type Trace []Transaction

// Last returns the final transaction, or nil for an empty trace.
func (t Trace) Last() *Transaction {
	if len(t) == 0 {
		return nil
	}
	return &t[len(t)-1]
}

// IsSuccess reports whether the final transaction succeeded. Intermediate
// 61XX and 6CXX answers do not matter.
func (t Trace) IsSuccess() bool {
	last := t.Last()
	return last != nil && last.IsSuccess()
}

// MarshalZerologArray logs every transaction of the trace.
func (t Trace) MarshalZerologArray(a *zerolog.Array) {
	for _, tx := range t {
		a.Object(tx)
	}
}
