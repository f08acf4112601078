package core

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
)

var slotOrder = []Slot{SlotA, SlotB}

// slotState tracks one logical player slot. The connection reference lives
// only here; act data is keyed by slot identity, so connection churn never
// touches it.
type slotState struct {
	client *Client // nil when not live
	held   bool    // claimed by a participant (live or within grace)
	timer  *time.Timer
	gen    uint64 // invalidates evictions from already-fired timers
}

// answerPair accumulates the two submissions for one act sub-unit.
type answerPair struct {
	data     map[Slot]json.RawMessage
	revealed bool
}

type joinRequest struct {
	client *Client
	reply  chan joinReply
}

type joinReply struct {
	slot Slot
	err  *RoomError
}

type evictRequest struct {
	slot Slot
	gen  uint64
}

type snapshotRequest struct {
	reply chan *Snapshot
}

// roomCommand is the envelope for everything entering the room loop. Exactly
// one field is set.
type roomCommand struct {
	join  *joinRequest
	leave *Client
	evict *evictRequest
	snap  *snapshotRequest
	cmd   *Command
}

// Room is the authoritative state for one two-person session. All fields are
// owned by the Run loop; nothing outside the loop reads or writes them.
type Room struct {
	Slug string

	slots       map[Slot]*slotState
	actIdx      int
	phase       Phase
	ready       map[Slot]bool
	answers     map[ActID]map[string]*answerPair
	photoTaken  map[Slot]bool
	startedAt   time.Time
	completedAt time.Time

	graceWindow time.Duration
	commands    chan roomCommand
	done        chan struct{}
	log         zerolog.Logger
}

// NewRoom constructs an empty room at the first act. Rooms are created
// lazily, on the first connection to a slug, so creation time doubles as the
// session start time.
func NewRoom(slug string, graceWindow time.Duration, logger *zerolog.Logger) *Room {
	lg := zerolog.Nop()
	if logger != nil {
		lg = logger.With().Str("room", slug).Logger()
	}
	return &Room{
		Slug: slug,
		slots: map[Slot]*slotState{
			SlotA: {},
			SlotB: {},
		},
		phase:       PhaseWaiting,
		ready:       make(map[Slot]bool),
		answers:     make(map[ActID]map[string]*answerPair),
		photoTaken:  make(map[Slot]bool),
		startedAt:   time.Now(),
		graceWindow: graceWindow,
		commands:    make(chan roomCommand, 32),
		done:        make(chan struct{}),
		log:         lg,
	}
}

// Run processes commands until the context is cancelled. It is the single
// owner of all room state; every mutation, including grace-timer evictions,
// enters through the command channel.
func (r *Room) Run(ctx context.Context) {
	defer close(r.done)
	for {
		select {
		case <-ctx.Done():
			return
		case rc := <-r.commands:
			r.handle(rc)
		}
	}
}

func (r *Room) handle(rc roomCommand) {
	switch {
	case rc.join != nil:
		rc.join.reply <- r.handleJoin(rc.join.client)
	case rc.leave != nil:
		r.handleLeave(rc.leave)
	case rc.evict != nil:
		r.handleEvict(rc.evict)
	case rc.snap != nil:
		rc.snap.reply <- r.snapshot()
	case rc.cmd != nil:
		r.handleCommand(rc.cmd)
	}
}

// Join asks the room loop for a slot. It blocks until the loop replies, so a
// capacity rejection is known before the caller starts its read loop.
func (r *Room) Join(ctx context.Context, c *Client) (Slot, error) {
	req := &joinRequest{client: c, reply: make(chan joinReply, 1)}
	if err := r.enqueue(ctx, roomCommand{join: req}); err != nil {
		return "", err
	}
	select {
	case rep := <-req.reply:
		if rep.err != nil {
			return "", rep.err
		}
		return rep.slot, nil
	case <-ctx.Done():
		return "", ctx.Err()
	case <-r.done:
		return "", ErrRoomClosed
	}
}

// Leave releases the client's slot and starts the grace timer.
func (r *Room) Leave(c *Client) {
	_ = r.enqueue(context.Background(), roomCommand{leave: c})
}

// Dispatch hands a validated command to the room loop.
func (r *Room) Dispatch(ctx context.Context, cmd *Command) error {
	return r.enqueue(ctx, roomCommand{cmd: cmd})
}

// Snapshot returns the room state as seen between two commands.
func (r *Room) Snapshot(ctx context.Context) (*Snapshot, error) {
	req := &snapshotRequest{reply: make(chan *Snapshot, 1)}
	if err := r.enqueue(ctx, roomCommand{snap: req}); err != nil {
		return nil, err
	}
	select {
	case snap := <-req.reply:
		return snap, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-r.done:
		return nil, ErrRoomClosed
	}
}

func (r *Room) enqueue(ctx context.Context, rc roomCommand) error {
	select {
	case r.commands <- rc:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-r.done:
		return ErrRoomClosed
	}
}

func (r *Room) currentAct() ActID {
	return Catalog[r.actIdx]
}

func (r *Room) handleJoin(c *Client) joinReply {
	if r.slots[SlotA].client != nil && r.slots[SlotB].client != nil {
		r.log.Warn().Str("client_id", c.ID).Msg("room full, rejecting connection")
		return joinReply{err: roomError(ErrCodeRoomFull, "room already has two participants")}
	}

	var slot Slot
	for _, s := range slotOrder {
		if r.slots[s].client == nil {
			slot = s
			break
		}
	}

	st := r.slots[slot]
	rejoined := st.held
	if st.timer != nil {
		st.timer.Stop()
		st.timer = nil
	}
	st.gen++
	st.client = c
	st.held = true
	c.Slot = slot

	if rejoined {
		r.log.Info().Str("client_id", c.ID).Str("slot", string(slot)).Msg("slot reclaimed within grace window")
	} else {
		r.log.Info().Str("client_id", c.ID).Str("slot", string(slot)).Msg("slot assigned")
	}

	r.send(c, &Event{Kind: EventPlayerAssigned, Slot: slot, Snapshot: r.snapshot()})

	other := r.slots[slot.Other()]
	if other.client != nil {
		r.send(other.client, &Event{Kind: EventPartnerConnected, Slot: slot})
		r.broadcast(&Event{Kind: EventBothConnected})
	}

	return joinReply{slot: slot}
}

func (r *Room) handleLeave(c *Client) {
	if c.Slot == "" {
		return
	}
	st := r.slots[c.Slot]
	if st.client != c {
		// A stale leave from a connection that was already replaced.
		return
	}
	st.client = nil
	st.gen++
	gen := st.gen
	slot := c.Slot
	st.timer = time.AfterFunc(r.graceWindow, func() {
		select {
		case r.commands <- roomCommand{evict: &evictRequest{slot: slot, gen: gen}}:
		case <-r.done:
		}
	})

	r.log.Info().Str("slot", string(slot)).Dur("grace", r.graceWindow).Msg("slot disconnected, grace timer started")

	if other := r.slots[slot.Other()]; other.client != nil {
		r.send(other.client, &Event{Kind: EventPartnerDisconnected, Slot: slot})
	}

	// Don't leave the remaining participant stuck waiting on a ghost.
	if r.phase == PhaseActive || r.phase == PhaseResponding {
		clear(r.ready)
		r.setPhase(PhaseWaiting)
	}
}

func (r *Room) handleEvict(req *evictRequest) {
	st := r.slots[req.slot]
	if st.gen != req.gen || st.client != nil {
		return
	}
	st.held = false
	st.timer = nil
	r.log.Info().Str("slot", string(req.slot)).Msg("grace window expired, slot reclaimed")
}

func (r *Room) handleCommand(cmd *Command) {
	c := cmd.Client
	if c == nil {
		return
	}
	if c.Slot == "" || r.slots[c.Slot].client != c {
		r.send(c, &Event{Kind: EventError, Error: roomError(ErrCodeNotAssigned, "connection is not bound to a slot")})
		return
	}

	switch cmd.Kind {
	case CommandReady:
		r.handleReady(c.Slot, cmd.Act)
	case CommandSubmit:
		r.handleSubmit(c.Slot, cmd)
	case CommandRelay:
		r.handleRelay(c.Slot, cmd)
	case CommandAdvance:
		r.handleAdvance(cmd.Act)
	case CommandExport:
		r.send(c, &Event{Kind: EventStateSync, Snapshot: r.snapshot()})
	}
}

func (r *Room) handleReady(slot Slot, act ActID) {
	if r.phase == PhaseComplete || act != r.currentAct() {
		return
	}
	if r.phase != PhaseWaiting || r.ready[slot] {
		// Redundant ready is a no-op.
		return
	}
	r.ready[slot] = true

	if r.ready[slot.Other()] {
		clear(r.ready)
		r.setPhase(PhaseActive)
		return
	}
	if other := r.slots[slot.Other()]; other.client != nil {
		r.send(other.client, &Event{Kind: EventPartnerReady, Slot: slot, Act: act})
	}
}

func (r *Room) handleSubmit(slot Slot, cmd *Command) {
	if r.phase == PhaseComplete || cmd.Act != r.currentAct() {
		// Stale submissions are expected under latency, not an abuse signal.
		return
	}

	byKey := r.answers[cmd.Act]
	if byKey == nil {
		byKey = make(map[string]*answerPair)
		r.answers[cmd.Act] = byKey
	}
	pair := byKey[cmd.SubKey]
	if pair == nil {
		pair = &answerPair{data: make(map[Slot]json.RawMessage)}
		byKey[cmd.SubKey] = pair
	}
	if pair.revealed {
		// The reveal for this pair already fired; duplicates are dropped.
		return
	}
	pair.data[slot] = cmd.Payload

	other := slot.Other()
	if len(pair.data[other]) == 0 {
		if r.phase == PhaseActive || r.phase == PhaseRevealing {
			r.setPhase(PhaseResponding)
		}
		if oc := r.slots[other].client; oc != nil {
			r.send(oc, &Event{Kind: EventPartnerAnswered, Slot: slot, Act: cmd.Act, SubKey: cmd.SubKey})
		}
		return
	}

	// Second arrival triggers the shared transition, whichever slot it was.
	pair.revealed = true
	r.setPhase(PhaseRevealing)
	r.reveal(cmd.Act, cmd.SubKey, pair, cmd.CrossReveal)
}

func (r *Room) reveal(act ActID, subKey string, pair *answerPair, cross bool) {
	for _, s := range slotOrder {
		c := r.slots[s].client
		if c == nil {
			continue
		}
		answers := map[Slot]json.RawMessage{
			SlotA: pair.data[SlotA],
			SlotB: pair.data[SlotB],
		}
		if cross {
			// Privacy-sensitive acts never echo a slot's own payload back.
			answers = map[Slot]json.RawMessage{
				s.Other(): pair.data[s.Other()],
			}
		}
		r.send(c, &Event{Kind: EventReveal, Act: act, SubKey: subKey, Answers: answers})
	}
}

func (r *Room) handleRelay(slot Slot, cmd *Command) {
	if cmd.MarkPhoto {
		r.photoTaken[slot] = true
	}
	if oc := r.slots[slot.Other()].client; oc != nil {
		r.send(oc, &Event{Kind: EventRelay, Raw: cmd.Raw})
	}
}

func (r *Room) handleAdvance(act ActID) {
	if r.phase == PhaseComplete || act != r.currentAct() {
		// A concurrent advance from the other slot already moved the act.
		return
	}
	clear(r.ready)

	if r.actIdx == len(Catalog)-1 {
		r.phase = PhaseComplete
		if r.completedAt.IsZero() {
			r.completedAt = time.Now()
		}
		r.log.Info().Msg("experience complete")
		r.broadcast(&Event{Kind: EventExperienceComplete})
		return
	}

	r.actIdx++
	r.phase = PhaseWaiting
	r.log.Debug().Str("act", string(r.currentAct())).Msg("advanced to next act")
	r.broadcast(&Event{Kind: EventAdvance, NextAct: r.currentAct()})
}

func (r *Room) setPhase(p Phase) {
	if r.phase == p {
		return
	}
	r.phase = p
	r.broadcast(&Event{Kind: EventPhaseChange, Act: r.currentAct(), Phase: p})
}

func (r *Room) broadcast(event *Event) {
	for _, s := range slotOrder {
		if c := r.slots[s].client; c != nil {
			r.send(c, event)
		}
	}
}

func (r *Room) send(c *Client, event *Event) {
	select {
	case c.Events <- event:
	default:
		// Drop if slow consumer.
		r.log.Debug().Str("client_id", c.ID).Int("kind", int(event.Kind)).Msg("dropped event for slow consumer")
	}
}
