// Package libnfc reads contactless cards through a libnfc device
// (PN532, ACR122U in libnfc mode...).
package libnfc

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/clausecker/freefare"
	"github.com/clausecker/nfc/v2"
	"github.com/rs/zerolog"

	"github.com/gregLibert/emv-reader/pkg/reader"
)

// PollInterval is the pause between two target listings.
const PollInterval = 250 * time.Millisecond

// maxFrame is the largest frame a PN53x returns.
const maxFrame = 262

// sakISO14443_4 flags a target that speaks ISO 14443-4 (bit 6 of SAK).
const sakISO14443_4 = 0x20

var modulation = nfc.Modulation{Type: nfc.ISO14443a, BaudRate: nfc.Nbr106}

// device is the part of nfc.Device used by the transport.
type device interface {
	InitiatorInit() error
	InitiatorListPassiveTargets(m nfc.Modulation) ([]nfc.Target, error)
	InitiatorSelectPassiveTarget(m nfc.Modulation, initData []byte) (nfc.Target, error)
	InitiatorTransceiveBytes(tx, rx []byte, timeout int) (int, error)
	InitiatorDeselectTarget() error
	Close() error
	// Identify names the MIFARE family of the tags in the field.
	Identify() string
}

type libnfcDevice struct {
	dev nfc.Device
}

func (d *libnfcDevice) InitiatorInit() error { return d.dev.InitiatorInit() }

func (d *libnfcDevice) InitiatorListPassiveTargets(m nfc.Modulation) ([]nfc.Target, error) {
	return d.dev.InitiatorListPassiveTargets(m)
}

func (d *libnfcDevice) InitiatorSelectPassiveTarget(m nfc.Modulation, initData []byte) (nfc.Target, error) {
	return d.dev.InitiatorSelectPassiveTarget(m, initData)
}

func (d *libnfcDevice) InitiatorTransceiveBytes(tx, rx []byte, timeout int) (int, error) {
	return d.dev.InitiatorTransceiveBytes(tx, rx, timeout)
}

func (d *libnfcDevice) InitiatorDeselectTarget() error { return d.dev.InitiatorDeselectTarget() }

func (d *libnfcDevice) Close() error { return d.dev.Close() }

func (d *libnfcDevice) Identify() string {
	tags, err := freefare.GetTags(d.dev)
	if err != nil {
		return "unknown tag"
	}
	var names []string
	for _, tag := range tags {
		switch tag.(type) {
		case freefare.ClassicTag:
			names = append(names, "MIFARE Classic "+tag.UID())
		case freefare.UltralightTag:
			names = append(names, "MIFARE Ultralight "+tag.UID())
		case freefare.DESFireTag:
			names = append(names, "MIFARE DESFire "+tag.UID())
		}
	}
	if len(names) == 0 {
		return "unknown tag"
	}
	return strings.Join(names, ", ")
}

func open(conn string) (device, error) {
	dev, err := nfc.Open(conn)
	if err != nil {
		return nil, err
	}
	return &libnfcDevice{dev: dev}, nil
}

// Transport opens sessions on the first ISO 14443-4 type A target seen by a
// libnfc device.
type Transport struct {
	// Device is a libnfc connection string such as "pn532_uart:/dev/ttyUSB0".
	// Empty selects the first device found.
	Device string
	// Timeout bounds each APDU exchange, in milliseconds. Zero waits forever.
	Timeout int
	Logger  zerolog.Logger

	open func(conn string) (device, error)
}

// New returns a Transport for the given libnfc connection string.
func New(conn string, log zerolog.Logger) *Transport {
	return &Transport{Device: conn, Logger: log, open: open}
}

// Devices lists the connection strings of the libnfc devices found.
func Devices() ([]string, error) {
	return nfc.ListDevices()
}

// Connect polls for a target until one answers or ctx is done.
func (t *Transport) Connect(ctx context.Context) (reader.Session, error) {
	dev, err := t.open(t.Device)
	if err != nil {
		return nil, reader.Wrap(reader.ErrConnect, fmt.Errorf("opening %q: %w", t.Device, err))
	}

	s, err := t.connect(ctx, dev)
	if err != nil {
		if cerr := dev.Close(); cerr != nil {
			t.Logger.Warn().Err(cerr).Msg("closing NFC device")
		}
		return nil, err
	}
	return s, nil
}

func (t *Transport) connect(ctx context.Context, dev device) (*session, error) {
	if err := dev.InitiatorInit(); err != nil {
		return nil, reader.Wrap(reader.ErrConnect, fmt.Errorf("initiator init: %w", err))
	}

	target, err := waitForTarget(ctx, dev)
	if err != nil {
		return nil, err
	}
	uid := target.UID[:target.UIDLen]

	if target.Sak&sakISO14443_4 == 0 {
		return nil, reader.Wrap(reader.ErrUnsupportedCard,
			fmt.Errorf("SAK %02X: %s", target.Sak, dev.Identify()))
	}

	if _, err := dev.InitiatorSelectPassiveTarget(modulation, uid); err != nil {
		return nil, reader.Wrap(reader.ErrConnect, fmt.Errorf("selecting %X: %w", uid, err))
	}
	t.Logger.Debug().Hex("uid", uid).Uint8("sak", target.Sak).Msg("target selected")

	return &session{dev: dev, timeout: t.Timeout, log: t.Logger}, nil
}

// waitForTarget returns the first type A target with a valid UID.
func waitForTarget(ctx context.Context, dev device) (*nfc.ISO14443aTarget, error) {
	for {
		targets, err := dev.InitiatorListPassiveTargets(modulation)
		if err != nil {
			return nil, reader.Wrap(reader.ErrConnect, fmt.Errorf("listing targets: %w", err))
		}
		for _, target := range targets {
			a, ok := target.(*nfc.ISO14443aTarget)
			if ok && a.UIDLen > 0 && int(a.UIDLen) <= len(a.UID) {
				return a, nil
			}
		}

		select {
		case <-ctx.Done():
			return nil, reader.Wrap(reader.ErrNoCard, ctx.Err())
		case <-time.After(PollInterval):
		}
	}
}

type session struct {
	dev     device
	timeout int
	log     zerolog.Logger
}

func (s *session) Transmit(cmd []byte) ([]byte, error) {
	var rx [maxFrame]byte
	n, err := s.dev.InitiatorTransceiveBytes(cmd, rx[:], s.timeout)
	if err != nil {
		return nil, reader.Wrap(reader.ErrTransmit, err)
	}
	return append([]byte(nil), rx[:n]...), nil
}

// Close deselects the target and releases the device.
func (s *session) Close() error {
	if err := s.dev.InitiatorDeselectTarget(); err != nil {
		s.log.Warn().Err(err).Msg("deselecting target")
	}
	if err := s.dev.Close(); err != nil {
		return fmt.Errorf("closing NFC device: %w", err)
	}
	return nil
}
