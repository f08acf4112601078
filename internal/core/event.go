package core

import "encoding/json"

// EventKind is a notification the room emits to clients.
type EventKind int

const (
	// EventPlayerAssigned confirms a slot assignment, with a full snapshot.
	EventPlayerAssigned EventKind = iota
	// EventPartnerConnected notifies a slot that the other slot went live.
	EventPartnerConnected
	// EventPartnerDisconnected notifies a slot that the other slot dropped.
	EventPartnerDisconnected
	// EventBothConnected fires to both slots once both are live.
	EventBothConnected
	// EventPartnerReady notifies a slot that the other slot signaled ready.
	EventPartnerReady
	// EventPartnerAnswered notifies a slot that the other slot submitted
	// and the room is waiting on them.
	EventPartnerAnswered
	// EventStateSync replies to an export request with a snapshot.
	EventStateSync
	// EventAdvance announces the transition to the next act.
	EventAdvance
	// EventPhaseChange announces a phase transition within the current act.
	EventPhaseChange
	// EventReveal delivers the combined (or crossed) submission pair.
	EventReveal
	// EventRelay carries a verbatim frame from the other slot.
	EventRelay
	// EventExperienceComplete fires once, after the last act.
	EventExperienceComplete
	// EventError notifies a client about a domain error.
	EventError
)

// Event is sent to a single client to describe what happened in the room.
type Event struct {
	Kind     EventKind
	Slot     Slot
	Act      ActID
	Phase    Phase
	NextAct  ActID
	SubKey   string
	Answers  map[Slot]json.RawMessage
	Snapshot *Snapshot
	Raw      []byte
	Error    *RoomError
}
