package core

import "encoding/json"

// CommandKind describes what a validated inbound message wants the room to do.
type CommandKind int

const (
	// CommandReady signals readiness for the current act.
	CommandReady CommandKind = iota
	// CommandSubmit stores an act submission and triggers the reveal once
	// both slots have submitted the same sub-unit.
	CommandSubmit
	// CommandRelay forwards an ephemeral frame to the other slot verbatim.
	CommandRelay
	// CommandAdvance moves the room to the next act in the catalog.
	CommandAdvance
	// CommandExport replies to the sender with a full state snapshot.
	CommandExport
)

// Command is one client action entering the room loop. Which fields are
// meaningful depends on Kind.
type Command struct {
	Kind   CommandKind
	Client *Client

	// Act the message targets; submissions for a non-current act are ignored.
	Act ActID
	// SubKey distinguishes sub-units within an act (a question, a round).
	// Empty for single-shot acts.
	SubKey string
	// Payload is the submission stored for the reveal.
	Payload json.RawMessage
	// CrossReveal delivers each slot only the other slot's payload.
	CrossReveal bool
	// Raw is the original frame, forwarded untouched for relay commands.
	Raw []byte
	// MarkPhoto records that the sender took a photo; the bytes themselves
	// are relay-only and never stored.
	MarkPhoto bool
}
