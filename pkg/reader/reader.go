// Package reader drives one contactless card read: it selects the payment
// application, collects the response through the iso7816 client and turns it
// into an emv.CardSummary.
package reader

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gregLibert/emv-reader/pkg/emv"
	"github.com/gregLibert/emv-reader/pkg/iso7816"
	"github.com/gregLibert/emv-reader/pkg/tlv"
)

// DefaultAID is the Visa credit/debit application.
var DefaultAID = tlv.Hex("A0000000031010")

// Session is an open connection to a presented card.
type Session interface {
	iso7816.Transmitter
	Close() error
}

// Transport waits for a card and opens a Session on it. Implementations
// tag their failures with ErrNoCard, ErrUnsupportedCard or ErrConnect.
type Transport interface {
	Connect(ctx context.Context) (Session, error)
}

// Option configures a Reader.
type Option func(*Reader)

// WithAID overrides the application selected on the card.
func WithAID(aid []byte) Option {
	return func(r *Reader) { r.aid = append([]byte(nil), aid...) }
}

// WithObserver registers a callback invoked on every state transition. The
// error is non-nil only for Failed.
func WithObserver(fn func(State, error)) Option {
	return func(r *Reader) { r.observer = fn }
}

// WithLogger sets the logger used for transitions and cleanup warnings.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Reader) { r.log = l }
}

// WithTrace registers a callback receiving the SELECT exchange before it is
// decoded.
func WithTrace(fn func(*iso7816.SelectResult)) Option {
	return func(r *Reader) { r.trace = fn }
}

// Reader performs card reads over a Transport. A Reader must not be used by
// more than one goroutine at a time.
type Reader struct {
	transport Transport
	aid       []byte
	observer  func(State, error)
	trace     func(*iso7816.SelectResult)
	log       zerolog.Logger
	state     State
}

// New creates a Reader selecting DefaultAID unless told otherwise.
func New(t Transport, opts ...Option) *Reader {
	r := &Reader{
		transport: t,
		aid:       DefaultAID,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// State returns the state reached by the last Read.
func (r *Reader) State() State {
	return r.state
}

// SelectCommand returns the encoded SELECT sent to the card.
func (r *Reader) SelectCommand() []byte {
	raw, err := r.command().Bytes()
	if err != nil {
		return nil
	}
	return raw
}

func (r *Reader) command() *iso7816.CommandAPDU {
	return iso7816.SelectApplication(iso7816.MustClass(iso7816.CLAInterindustry), r.aid)
}

// Read waits for a card, selects the application and summarises the answer.
// The session is closed on every path. Errors match one of the transport
// kinds declared in this package.
func (r *Reader) Read(ctx context.Context) (summary *emv.CardSummary, err error) {
	r.state = Idle
	defer func() {
		if err != nil {
			r.enter(Failed, err)
		}
	}()

	cmd := r.command()
	if _, err := cmd.Bytes(); err != nil {
		return nil, Wrap(ErrTransmit, fmt.Errorf("building SELECT: %w", err))
	}
	r.enter(CommandBuilt, nil)

	session, err := r.transport.Connect(ctx)
	if err != nil {
		return nil, classify(ErrConnect, err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			r.log.Warn().Err(cerr).Msg("closing card session")
		}
	}()

	r.enter(AwaitingResponse, nil)
	trace, err := iso7816.NewClient(session).Send(cmd)
	if err != nil {
		return nil, classify(ErrTransmit, err)
	}
	r.log.Debug().Array("apdus", trace).Msg("select exchanged")
	result, err := iso7816.NewSelectResult(trace)
	if err != nil {
		return nil, Wrap(ErrTransmit, err)
	}
	if r.trace != nil {
		r.trace(result)
	}

	r.enter(Decoding, nil)
	resp := result.Response()
	summary = emv.Summarize(resp.Bytes())
	summary.StatusWord = fmt.Sprintf("%04X", uint16(resp.Status))
	if len(resp.Data) > 0 {
		if fci, ferr := emv.ParseFCI(resp.Data); ferr == nil {
			summary.FCI = fci
		} else {
			r.log.Debug().Err(ferr).Msg("response is not a strict FCI")
		}
	}
	r.log.Debug().
		Str("sw", summary.StatusWord).
		Int("entries", summary.Record.Len()).
		Bool("truncated", summary.Truncated).
		Msg("response decoded")

	r.enter(Done, nil)
	return summary, nil
}

func (r *Reader) enter(s State, err error) {
	r.state = s
	ev := r.log.Debug()
	if err != nil {
		ev = r.log.Warn().Err(err)
	}
	ev.Stringer("state", s).Msg("reader state")
	if r.observer != nil {
		r.observer(s, err)
	}
}
