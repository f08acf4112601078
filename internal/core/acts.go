package core

// ActID names one stage in the fixed ordered experience catalog.
type ActID string

const (
	ActTheLock     ActID = "the_lock"
	ActFirstSpark  ActID = "first_spark"
	ActTwoTruths   ActID = "two_truths"
	ActHeat        ActID = "heat"
	ActBlindCanvas ActID = "blind_canvas"
	ActHeartbeat   ActID = "heartbeat"
	ActTheDistance ActID = "the_distance"
	ActShakeAwake  ActID = "shake_awake"
	ActStarMap     ActID = "star_map"
	ActRewrite     ActID = "rewrite"
	ActTheUnsaid   ActID = "the_unsaid"
	ActPortrait    ActID = "portrait"
	ActTheVow      ActID = "the_vow"
)

// Catalog is the ordered list of acts every room walks through, first to last.
var Catalog = []ActID{
	ActTheLock,
	ActFirstSpark,
	ActTwoTruths,
	ActHeat,
	ActBlindCanvas,
	ActHeartbeat,
	ActTheDistance,
	ActShakeAwake,
	ActStarMap,
	ActRewrite,
	ActTheUnsaid,
	ActPortrait,
	ActTheVow,
}

// Phase is the sub-state of the current act.
type Phase string

const (
	PhaseWaiting    Phase = "waiting"
	PhaseActive     Phase = "active"
	PhaseResponding Phase = "responding"
	PhaseRevealing  Phase = "revealing"
	PhaseComplete   Phase = "complete"
)

// Slot is a logical player identity bound to at most one live connection.
type Slot string

const (
	SlotA Slot = "A"
	SlotB Slot = "B"
)

// Other returns the opposite slot.
func (s Slot) Other() Slot {
	if s == SlotA {
		return SlotB
	}
	return SlotA
}
