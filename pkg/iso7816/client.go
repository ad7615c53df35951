package iso7816

import (
	"errors"
	"fmt"
)

// CLIENT & PROTOCOL LOGIC:
// The Client drives one logical command over a Transmitter and handles the
// ISO 7816-3 transport behaviours that T=0 readers expose to the application:
//
// 1. "61 XX" (Response Available):
//    XX bytes are waiting. The client sends GET RESPONSE with Le = XX.
//
// 2. "6C XX" (Wrong Length):
//    The card rejected Le and suggests XX. The client re-sends the command
//    with Le = XX.
//
// Send returns the Trace of every transaction exchanged. A card that keeps
// answering 61XX or 6CXX is cut off after MaxProtocolSteps transactions.

// MaxProtocolSteps bounds the transactions issued for one logical command.
const MaxProtocolSteps = 16

// ErrProtocolLoop reports a card that never completes a command.
var ErrProtocolLoop = errors.New("too many GET RESPONSE / Le correction steps")

// Transmitter abstracts the physical card connection.
type Transmitter interface {
	Transmit(cmd []byte) ([]byte, error)
}

// Client manages the high-level communication with the card.
type Client struct {
	Card Transmitter
}

// NewClient creates a new Client instance.
func NewClient(card Transmitter) *Client {
	return &Client{Card: card}
}

// Send transmits a command and handles protocol logic (61xx, 6Cxx).
// On error, the transactions completed so far are returned with it.
func (c *Client) Send(cmd *CommandAPDU) (Trace, error) {
	var trace Trace

	for step := 0; ; step++ {
		if step == MaxProtocolSteps {
			return trace, fmt.Errorf("%w (%d steps)", ErrProtocolLoop, step)
		}

		resp, err := c.exchange(cmd)
		if err != nil {
			return trace, err
		}
		trace = append(trace, Transaction{Command: cmd, Response: resp})

		next := followUp(cmd, resp.Status)
		if next == nil {
			return trace, nil
		}
		cmd = next
	}
}

func (c *Client) exchange(cmd *CommandAPDU) (*ResponseAPDU, error) {
	rawCmd, err := cmd.Bytes()
	if err != nil {
		return nil, fmt.Errorf("encoding error: %w", err)
	}

	rawResp, err := c.Card.Transmit(rawCmd)
	if err != nil {
		return nil, fmt.Errorf("transmission error: %w", err)
	}

	return ParseResponseAPDU(rawResp)
}

// followUp returns the command the status word asks for, or nil.
func followUp(cmd *CommandAPDU, sw StatusWord) *CommandAPDU {
	switch sw.SW1() {
	case 0x61:
		// GET RESPONSE stays on the logical channel of the original command.
		cls := cmd.Class
		cls.IsChained = false
		return NewCommandAPDU(cls, MustInstruction(INS_GET_RESPONSE), 0x00, 0x00, nil, leFromSW2(sw.SW2()))
	case 0x6C:
		// Copy so that the caller's command keeps its Le.
		retry := *cmd
		retry.Ne = leFromSW2(sw.SW2())
		return &retry
	}
	return nil
}

// leFromSW2 decodes the short Le carried in SW2, where 00 means 256.
func leFromSW2(sw2 byte) int {
	if sw2 == 0 {
		return MaxShortLe
	}
	return int(sw2)
}
