package proto

import "encoding/json"

// Every frame in either direction is flat JSON with a mandatory "type"
// discriminator; there is no nested payload envelope.

// Inbound frame types.
const (
	TypeReady            = "ready"
	TypeAnswer           = "answer"
	TypeDrawStroke       = "draw_stroke"
	TypeHeartbeatData    = "heartbeat_data"
	TypeShake            = "shake"
	TypeTyping           = "typing"
	TypeProximity        = "proximity"
	TypePhoto            = "photo"
	TypeHeatChoice       = "heat_choice"
	TypeStarWord         = "star_word"
	TypeUnsaid           = "unsaid"
	TypeRewriteAnswer    = "rewrite_answer"
	TypeLieDetectorGuess = "lie_detector_guess"
	TypeAdvance          = "advance"
	TypeExportRequest    = "export_request"
)

// Outbound frame types. Relayed frames keep their inbound type.
const (
	TypePlayerAssigned      = "player_assigned"
	TypePartnerConnected    = "partner_connected"
	TypePartnerDisconnected = "partner_disconnected"
	TypeBothConnected       = "both_connected"
	TypePartnerReady        = "partner_ready"
	TypePartnerAnswered     = "partner_answered"
	TypeStateSync           = "state_sync"
	TypePhaseChange         = "phase_change"
	TypeReveal              = "reveal"
	TypeError               = "error"
	TypeExperienceComplete  = "experience_complete"
)

// Envelope decodes only the discriminator; the full frame is decoded again
// by type once it is known.
type Envelope struct {
	Type string `json:"type"`
}

// Ready signals readiness for the named act.
type Ready struct {
	Type string `json:"type"`
	Act  string `json:"act"`
}

// Answer is a generic Q&A submission with an act-defined payload shape.
type Answer struct {
	Type   string          `json:"type"`
	Act    string          `json:"act"`
	Player string          `json:"player,omitempty"`
	Data   json.RawMessage `json:"data"`
}

// Point is one coordinate of a draw stroke.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DrawStroke is a live drawing segment, relayed to the partner only.
type DrawStroke struct {
	Type   string  `json:"type"`
	Points []Point `json:"points"`
	Color  string  `json:"color,omitempty"`
}

// HeartbeatData streams camera-derived pulse readings to the partner.
type HeartbeatData struct {
	Type     string    `json:"type"`
	BPM      float64   `json:"bpm"`
	Waveform []float64 `json:"waveform,omitempty"`
}

// Shake resumes the partner's flow.
type Shake struct {
	Type   string `json:"type"`
	Player string `json:"player,omitempty"`
}

// Typing is an ephemeral typing indicator.
type Typing struct {
	Type   string `json:"type"`
	Act    string `json:"act,omitempty"`
	Player string `json:"player,omitempty"`
}

// Proximity is a live closeness reading.
type Proximity struct {
	Type     string  `json:"type"`
	Distance float64 `json:"distance"`
}

// Photo carries base64 image bytes. Relayed to the partner, never stored.
type Photo struct {
	Type   string `json:"type"`
	Player string `json:"player,omitempty"`
	Data   string `json:"data"`
}

// HeatChoice is one round of the heat act.
type HeatChoice struct {
	Type   string `json:"type"`
	Player string `json:"player,omitempty"`
	Round  int    `json:"round"`
	Choice string `json:"choice"`
	Answer string `json:"answer,omitempty"`
}

// StarWord is the star_map submission.
type StarWord struct {
	Type   string `json:"type"`
	Player string `json:"player,omitempty"`
	Word   string `json:"word"`
}

// Unsaid carries the message each participant never said out loud. Its
// reveal is crossed: each side sees only the other's.
type Unsaid struct {
	Type    string `json:"type"`
	Player  string `json:"player,omitempty"`
	Message string `json:"message"`
}

// RewriteAnswer rewrites one shared memory.
type RewriteAnswer struct {
	Type        string `json:"type"`
	Player      string `json:"player,omitempty"`
	MemoryIndex int    `json:"memoryIndex"`
	Answer      string `json:"answer"`
}

// LieDetectorGuess is one round of the two_truths act.
type LieDetectorGuess struct {
	Type         string `json:"type"`
	Player       string `json:"player,omitempty"`
	Round        int    `json:"round"`
	Guess        string `json:"guess"`
	HesitationMs int    `json:"hesitationMs,omitempty"`
}

// Advance asks to move past the named act once its reveal has played out.
type Advance struct {
	Type string `json:"type"`
	Act  string `json:"act"`
}

// PlayerAssigned confirms the slot and delivers the full room state.
type PlayerAssigned struct {
	Type   string `json:"type"`
	Player string `json:"player"`
	State  any    `json:"state"`
}

// PartnerSignal covers partner_connected, partner_disconnected, both_connected
// and partner_ready notifications.
type PartnerSignal struct {
	Type   string `json:"type"`
	Player string `json:"player,omitempty"`
	Act    string `json:"act,omitempty"`
}

// PartnerAnswered tells a slot the other side has submitted.
type PartnerAnswered struct {
	Type   string `json:"type"`
	Player string `json:"player"`
	Act    string `json:"act"`
	Key    string `json:"key,omitempty"`
}

// StateSync answers an export request.
type StateSync struct {
	Type  string `json:"type"`
	State any    `json:"state"`
}

// AdvanceOut announces the next act to both slots.
type AdvanceOut struct {
	Type    string `json:"type"`
	NextAct string `json:"next_act"`
}

// PhaseChange announces a phase transition within the current act.
type PhaseChange struct {
	Type  string `json:"type"`
	Act   string `json:"act"`
	Phase string `json:"phase"`
}

// Reveal delivers the submission pair for one act sub-unit.
type Reveal struct {
	Type    string                     `json:"type"`
	Act     string                     `json:"act"`
	Key     string                     `json:"key,omitempty"`
	Answers map[string]json.RawMessage `json:"answers"`
}

// ExperienceComplete is the terminal frame after the last act.
type ExperienceComplete struct {
	Type string `json:"type"`
}

// ErrorFrame describes a per-message error. The connection stays open.
type ErrorFrame struct {
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}
