package core

import "encoding/json"

// Snapshot is a serializable view of room state, built for a (re)connecting
// client or an export request. It never contains photo bytes; those are
// relay-only, and only the derived photoTaken flags survive.
type Snapshot struct {
	Room        string                            `json:"room"`
	CurrentAct  ActID                             `json:"currentAct"`
	ActIndex    int                               `json:"actIndex"`
	ActPhase    Phase                             `json:"actPhase"`
	Slots       map[Slot]bool                     `json:"slots"`
	Ready       []Slot                            `json:"ready"`
	Answers     map[ActID]map[string]PairSnapshot `json:"answers"`
	PhotoTaken  map[Slot]bool                     `json:"photoTaken"`
	StartedAt   int64                             `json:"startedAt"`
	CompletedAt int64                             `json:"completedAt,omitempty"`
}

// PairSnapshot describes one act sub-unit. Payloads are included only once
// the pair has been revealed; before that a client learns who has submitted,
// not what.
type PairSnapshot struct {
	Submitted map[Slot]bool            `json:"submitted"`
	Revealed  bool                     `json:"revealed"`
	Answers   map[Slot]json.RawMessage `json:"answers,omitempty"`
}

// snapshot builds a point-in-time copy. Called only from the room loop.
func (r *Room) snapshot() *Snapshot {
	snap := &Snapshot{
		Room:       r.Slug,
		CurrentAct: r.currentAct(),
		ActIndex:   r.actIdx,
		ActPhase:   r.phase,
		Slots: map[Slot]bool{
			SlotA: r.slots[SlotA].client != nil,
			SlotB: r.slots[SlotB].client != nil,
		},
		Ready:      make([]Slot, 0, len(r.ready)),
		Answers:    make(map[ActID]map[string]PairSnapshot, len(r.answers)),
		PhotoTaken: map[Slot]bool{
			SlotA: r.photoTaken[SlotA],
			SlotB: r.photoTaken[SlotB],
		},
		StartedAt: r.startedAt.Unix(),
	}
	if !r.completedAt.IsZero() {
		snap.CompletedAt = r.completedAt.Unix()
	}
	for _, s := range slotOrder {
		if r.ready[s] {
			snap.Ready = append(snap.Ready, s)
		}
	}
	for act, byKey := range r.answers {
		pairs := make(map[string]PairSnapshot, len(byKey))
		for key, pair := range byKey {
			ps := PairSnapshot{
				Submitted: map[Slot]bool{
					SlotA: len(pair.data[SlotA]) > 0,
					SlotB: len(pair.data[SlotB]) > 0,
				},
				Revealed: pair.revealed,
			}
			if pair.revealed {
				ps.Answers = map[Slot]json.RawMessage{
					SlotA: pair.data[SlotA],
					SlotB: pair.data[SlotB],
				}
			}
			pairs[key] = ps
		}
		snap.Answers[act] = pairs
	}
	return snap
}
