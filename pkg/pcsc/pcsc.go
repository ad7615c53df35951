// Package pcsc reads contactless cards through a PC/SC reader.
package pcsc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ebfe/scard"
	"github.com/rs/zerolog"

	"github.com/gregLibert/emv-reader/pkg/reader"
)

// PollInterval bounds each wait on the reader so that cancellation is
// noticed promptly.
const PollInterval = 250 * time.Millisecond

// storageCardRID appears in the pseudo-ATR that PC/SC part 3 readers build
// for memory cards (MIFARE Classic, Ultralight...). Such cards have no
// ISO 14443-4 layer and cannot answer APDUs.
var storageCardRID = []byte{0xA0, 0x00, 0x00, 0x03, 0x06}

// card is the part of *scard.Card used by a session.
type card interface {
	Transmit(cmd []byte) ([]byte, error)
	Disconnect(d scard.Disposition) error
}

// pcscContext is the part of *scard.Context used by the transport.
type pcscContext interface {
	ListReaders() ([]string, error)
	GetStatusChange(states []scard.ReaderState, timeout time.Duration) error
	Connect(name string, mode scard.ShareMode, proto scard.Protocol) (card, error)
	Release() error
}

type systemContext struct {
	*scard.Context
}

func (c systemContext) Connect(name string, mode scard.ShareMode, proto scard.Protocol) (card, error) {
	sc, err := c.Context.Connect(name, mode, proto)
	if err != nil {
		return nil, err
	}
	return sc, nil
}

func establish() (pcscContext, error) {
	ctx, err := scard.EstablishContext()
	if err != nil {
		return nil, err
	}
	return systemContext{ctx}, nil
}

// Transport opens sessions on the first card presented to a PC/SC reader.
type Transport struct {
	// Reader names the PC/SC reader. Empty selects the first reader whose
	// name is not a SAM slot.
	Reader string
	Logger zerolog.Logger

	establish func() (pcscContext, error)
}

// New returns a Transport bound to the named reader, or to the first
// available one when name is empty.
func New(name string, log zerolog.Logger) *Transport {
	return &Transport{Reader: name, Logger: log, establish: establish}
}

// Readers lists the PC/SC readers known to the system.
func Readers() ([]string, error) {
	ctx, err := scard.EstablishContext()
	if err != nil {
		return nil, fmt.Errorf("establishing PC/SC context: %w", err)
	}
	defer ctx.Release()
	return ctx.ListReaders()
}

// Connect waits until a card is present or ctx is done, then connects to it
// with T=0 or T=1.
func (t *Transport) Connect(ctx context.Context) (reader.Session, error) {
	pctx, err := t.establish()
	if err != nil {
		return nil, reader.Wrap(reader.ErrConnect, fmt.Errorf("establishing PC/SC context: %w", err))
	}

	s, err := t.connect(ctx, pctx)
	if err != nil {
		if rerr := pctx.Release(); rerr != nil {
			t.Logger.Warn().Err(rerr).Msg("releasing PC/SC context")
		}
		return nil, err
	}
	return s, nil
}

func (t *Transport) connect(ctx context.Context, pctx pcscContext) (*session, error) {
	name, err := t.pickReader(pctx)
	if err != nil {
		return nil, reader.Wrap(reader.ErrConnect, err)
	}
	t.Logger.Debug().Str("reader", name).Msg("waiting for card")

	atr, err := waitForCard(ctx, pctx, name)
	if err != nil {
		return nil, err
	}
	if isStorageCard(atr) {
		return nil, reader.Wrap(reader.ErrUnsupportedCard, fmt.Errorf("memory card with ATR %X", atr))
	}

	// Forcing T=0 or T=1 avoids "Parameter Incorrect" on some readers.
	c, err := pctx.Connect(name, scard.ShareShared, scard.ProtocolT0|scard.ProtocolT1)
	if err != nil {
		return nil, reader.Wrap(reader.ErrConnect, fmt.Errorf("connecting to %s: %w", name, err))
	}
	t.Logger.Debug().Str("reader", name).Hex("atr", atr).Msg("card connected")

	return &session{ctx: pctx, card: c, log: t.Logger}, nil
}

func (t *Transport) pickReader(pctx pcscContext) (string, error) {
	readers, err := pctx.ListReaders()
	if err != nil {
		return "", fmt.Errorf("listing readers: %w", err)
	}

	if t.Reader != "" {
		for _, r := range readers {
			if r == t.Reader {
				return r, nil
			}
		}
		return "", fmt.Errorf("reader %q not found", t.Reader)
	}

	for _, r := range readers {
		if !strings.Contains(strings.ToUpper(r), "SAM") {
			return r, nil
		}
	}
	return "", errors.New("no smart card reader found")
}

// waitForCard blocks until name reports a present card and returns its ATR.
func waitForCard(ctx context.Context, pctx pcscContext, name string) ([]byte, error) {
	states := []scard.ReaderState{{Reader: name, CurrentState: scard.StateUnaware}}

	for {
		err := pctx.GetStatusChange(states, PollInterval)
		switch {
		case err == nil:
			ev := states[0].EventState
			if ev&scard.StatePresent != 0 && ev&scard.StateMute == 0 {
				return states[0].Atr, nil
			}
			states[0].CurrentState = ev &^ scard.StateChanged
		case errors.Is(err, scard.ErrTimeout):
		default:
			return nil, reader.Wrap(reader.ErrConnect, fmt.Errorf("watching %s: %w", name, err))
		}

		select {
		case <-ctx.Done():
			return nil, reader.Wrap(reader.ErrNoCard, ctx.Err())
		default:
		}
	}
}

func isStorageCard(atr []byte) bool {
	return len(atr) >= 12 && bytes.Equal(atr[7:12], storageCardRID)
}

type session struct {
	ctx  pcscContext
	card card
	log  zerolog.Logger
}

func (s *session) Transmit(cmd []byte) ([]byte, error) {
	resp, err := s.card.Transmit(cmd)
	if err != nil {
		return nil, reader.Wrap(reader.ErrTransmit, err)
	}
	return resp, nil
}

// Close leaves the card powered and releases the PC/SC context.
func (s *session) Close() error {
	derr := s.card.Disconnect(scard.LeaveCard)
	if rerr := s.ctx.Release(); rerr != nil {
		s.log.Warn().Err(rerr).Msg("releasing PC/SC context")
	}
	if derr != nil {
		return fmt.Errorf("disconnecting card: %w", derr)
	}
	return nil
}
