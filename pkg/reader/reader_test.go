package reader

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gregLibert/emv-reader/pkg/iso7816"
	"github.com/gregLibert/emv-reader/pkg/tlv"
)

var selectResponse = tlv.Hex(
	"6F 1F",
	"84 07 A0000000031010",
	"A5 14",
	"50 04 56495341",
	"87 01 01",
	"5F2D 02 656E",
	"9F38 03 9F1A02",
	"90 00",
)

type fakeSession struct {
	responses [][]byte
	err       error
	panicMsg  string
	sent      []string
	closed    int
	closeErr  error
}

func (s *fakeSession) Transmit(cmd []byte) ([]byte, error) {
	if s.panicMsg != "" {
		panic(s.panicMsg)
	}
	s.sent = append(s.sent, tlv.Spaced(cmd))
	if s.err != nil {
		return nil, s.err
	}
	if len(s.responses) == 0 {
		return tlv.Hex("6F 00"), nil
	}
	resp := s.responses[0]
	s.responses = s.responses[1:]
	return resp, nil
}

func (s *fakeSession) Close() error {
	s.closed++
	return s.closeErr
}

type fakeTransport struct {
	session *fakeSession
	err     error
}

func (t *fakeTransport) Connect(context.Context) (Session, error) {
	if t.err != nil {
		return nil, t.err
	}
	return t.session, nil
}

type recorder struct {
	states []State
	last   error
}

func (r *recorder) observe(s State, err error) {
	r.states = append(r.states, s)
	r.last = err
}

func TestSelectCommand(t *testing.T) {
	r := New(&fakeTransport{})

	if got := tlv.Spaced(r.SelectCommand()); got != "00 A4 04 00 07 A0 00 00 00 03 10 10 00" {
		t.Errorf("SelectCommand() = %s", got)
	}

	r = New(&fakeTransport{}, WithAID(tlv.Hex("A0000000041010")))
	if got := tlv.Spaced(r.SelectCommand()); got != "00 A4 04 00 07 A0 00 00 00 04 10 10 00" {
		t.Errorf("SelectCommand() with Mastercard AID = %s", got)
	}
}

func TestRead_Success(t *testing.T) {
	session := &fakeSession{responses: [][]byte{selectResponse}}
	var rec recorder
	var traced *iso7816.SelectResult

	r := New(&fakeTransport{session: session},
		WithObserver(rec.observe),
		WithTrace(func(res *iso7816.SelectResult) { traced = res }),
	)

	summary, err := r.Read(context.Background())
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	wantStates := []State{CommandBuilt, AwaitingResponse, Decoding, Done}
	if diff := cmp.Diff(wantStates, rec.states); diff != "" {
		t.Errorf("transitions mismatch (-want +got):\n%s", diff)
	}
	if r.State() != Done {
		t.Errorf("State() = %v, want Done", r.State())
	}
	if session.closed != 1 {
		t.Errorf("session closed %d times, want 1", session.closed)
	}
	if diff := cmp.Diff([]string{"00 A4 04 00 07 A0 00 00 00 03 10 10 00"}, session.sent); diff != "" {
		t.Errorf("sent mismatch (-want +got):\n%s", diff)
	}
	if traced == nil || len(traced.Trace) != 1 {
		t.Errorf("trace callback got %v", traced)
	}

	if summary.StatusWord != "9000" {
		t.Errorf("StatusWord = %q, want 9000", summary.StatusWord)
	}
	if summary.RawResponse != tlv.Spaced(selectResponse) {
		t.Errorf("RawResponse = %q", summary.RawResponse)
	}
	if summary.ApplicationLabel != "VISA" {
		t.Errorf("ApplicationLabel = %q, want VISA", summary.ApplicationLabel)
	}
	if summary.FCI == nil {
		t.Error("FCI not attached to a well formed SELECT response")
	}
}

func TestRead_ResponseAvailable(t *testing.T) {
	session := &fakeSession{responses: [][]byte{
		tlv.Hex("61 21"),
		selectResponse,
	}}

	summary, err := New(&fakeTransport{session: session}).Read(context.Background())
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if diff := cmp.Diff([]string{
		"00 A4 04 00 07 A0 00 00 00 03 10 10 00",
		"00 C0 00 00 21",
	}, session.sent); diff != "" {
		t.Errorf("sent mismatch (-want +got):\n%s", diff)
	}
	if summary.RawResponse != tlv.Spaced(selectResponse) {
		t.Errorf("summary built from %q, want the GET RESPONSE answer", summary.RawResponse)
	}
}

func TestRead_CardError(t *testing.T) {
	session := &fakeSession{responses: [][]byte{tlv.Hex("6A 82")}}

	summary, err := New(&fakeTransport{session: session}).Read(context.Background())
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if summary.StatusWord != "6A82" {
		t.Errorf("StatusWord = %q, want 6A82", summary.StatusWord)
	}
	if summary.FCI != nil {
		t.Error("FCI attached to a response without data")
	}
}

func TestRead_Failures(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name       string
		transport  *fakeTransport
		wantKind   error
		wantStates []State
		wantClosed int
	}{
		{
			name:       "No card",
			transport:  &fakeTransport{err: Wrap(ErrNoCard, cause)},
			wantKind:   ErrNoCard,
			wantStates: []State{CommandBuilt, Failed},
		},
		{
			name:       "Unsupported card",
			transport:  &fakeTransport{err: Wrap(ErrUnsupportedCard, cause)},
			wantKind:   ErrUnsupportedCard,
			wantStates: []State{CommandBuilt, Failed},
		},
		{
			name:       "Untagged connect failure",
			transport:  &fakeTransport{err: cause},
			wantKind:   ErrConnect,
			wantStates: []State{CommandBuilt, Failed},
		},
		{
			name:       "Transmit failure",
			transport:  &fakeTransport{session: &fakeSession{err: cause}},
			wantKind:   ErrTransmit,
			wantStates: []State{CommandBuilt, AwaitingResponse, Failed},
			wantClosed: 1,
		},
		{
			name:       "Short response",
			transport:  &fakeTransport{session: &fakeSession{responses: [][]byte{{0x90}}}},
			wantKind:   ErrTransmit,
			wantStates: []State{CommandBuilt, AwaitingResponse, Failed},
			wantClosed: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec recorder
			r := New(tt.transport, WithObserver(rec.observe))

			summary, err := r.Read(context.Background())
			if summary != nil {
				t.Errorf("Read() summary = %+v, want nil", summary)
			}
			if !errors.Is(err, tt.wantKind) {
				t.Fatalf("Read() error = %v, want kind %v", err, tt.wantKind)
			}
			if !errors.Is(err, cause) && tt.name != "Short response" {
				t.Errorf("Read() error = %v lost its cause", err)
			}
			if diff := cmp.Diff(tt.wantStates, rec.states); diff != "" {
				t.Errorf("transitions mismatch (-want +got):\n%s", diff)
			}
			if !errors.Is(rec.last, tt.wantKind) {
				t.Errorf("observer got %v for Failed", rec.last)
			}
			if tt.transport.session != nil && tt.transport.session.closed != tt.wantClosed {
				t.Errorf("session closed %d times, want %d", tt.transport.session.closed, tt.wantClosed)
			}
		})
	}
}

func TestRead_CloseErrorIsNotFatal(t *testing.T) {
	session := &fakeSession{
		responses: [][]byte{selectResponse},
		closeErr:  errors.New("reader unplugged"),
	}

	if _, err := New(&fakeTransport{session: session}).Read(context.Background()); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if session.closed != 1 {
		t.Errorf("session closed %d times, want 1", session.closed)
	}
}

func TestRead_PanicClosesSession(t *testing.T) {
	session := &fakeSession{panicMsg: "driver crashed"}

	func() {
		defer func() {
			if recover() == nil {
				t.Error("panic did not propagate")
			}
		}()
		_, _ = New(&fakeTransport{session: session}).Read(context.Background())
	}()

	if session.closed != 1 {
		t.Errorf("session closed %d times after panic, want 1", session.closed)
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{Idle, "Idle"},
		{AwaitingResponse, "AwaitingResponse"},
		{Failed, "Failed"},
		{State(42), "State(42)"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", int(tt.state), got, tt.want)
		}
	}

	if !Done.Terminal() || !Failed.Terminal() || Decoding.Terminal() {
		t.Error("Terminal() must hold for Done and Failed only")
	}
}
