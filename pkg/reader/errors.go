package reader

import (
	"errors"
	"fmt"
)

// Transport failure kinds. Errors returned by Read match exactly one of them
// with errors.Is and still wrap the underlying cause.
var (
	// ErrNoCard reports that no card was presented before the deadline.
	ErrNoCard = errors.New("no card presented")
	// ErrUnsupportedCard reports a card that does not speak ISO 14443-4.
	ErrUnsupportedCard = errors.New("unsupported card technology")
	// ErrConnect reports a failure to open the reader or the card.
	ErrConnect = errors.New("connection failed")
	// ErrTransmit reports a failure while exchanging APDUs.
	ErrTransmit = errors.New("transmission failed")
)

var kinds = []error{ErrNoCard, ErrUnsupportedCard, ErrConnect, ErrTransmit}

// Wrap tags cause with kind. Transports use it so that callers can test
// both the kind and the cause.
func Wrap(kind, cause error) error {
	if cause == nil {
		return kind
	}
	return fmt.Errorf("%w: %w", kind, cause)
}

// classify wraps err with fallback unless a transport already tagged it.
func classify(fallback, err error) error {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return err
		}
	}
	return Wrap(fallback, err)
}
