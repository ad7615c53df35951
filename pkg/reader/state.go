package reader

import "fmt"

// State is a step of one card read.
//
//	Idle -> CommandBuilt -> AwaitingResponse -> Decoding -> Done
//
// Any step may end in Failed. Done and Failed are terminal.
type State int

const (
	Idle State = iota
	CommandBuilt
	AwaitingResponse
	Decoding
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case CommandBuilt:
		return "CommandBuilt"
	case AwaitingResponse:
		return "AwaitingResponse"
	case Decoding:
		return "Decoding"
	case Done:
		return "Done"
	case Failed:
		return "Failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return s == Done || s == Failed
}
