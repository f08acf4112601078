package http

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/pradeeppeddineni/justus/internal/core"
	"github.com/pradeeppeddineni/justus/internal/proto"
)

// inboundToCommand decodes one validated-size frame into a room command.
// A non-nil ErrorFrame means the frame was malformed or unknown; it is
// replied to the sender and never reaches the room.
func inboundToCommand(msgType string, raw []byte) (*core.Command, *proto.ErrorFrame) {
	switch msgType {
	case proto.TypeReady:
		var m proto.Ready
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, badRequest("malformed ready frame")
		}
		if m.Act == "" {
			return nil, badRequest("act is required")
		}
		return &core.Command{Kind: core.CommandReady, Act: core.ActID(m.Act)}, nil

	case proto.TypeAnswer:
		var m proto.Answer
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, badRequest("malformed answer frame")
		}
		if m.Act == "" {
			return nil, badRequest("act is required")
		}
		if len(m.Data) == 0 {
			return nil, badRequest("data is required")
		}
		return &core.Command{
			Kind:    core.CommandSubmit,
			Act:     core.ActID(m.Act),
			Payload: m.Data,
		}, nil

	case proto.TypeHeatChoice:
		var m proto.HeatChoice
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, badRequest("malformed heat_choice frame")
		}
		if m.Choice == "" {
			return nil, badRequest("choice is required")
		}
		return &core.Command{
			Kind:   core.CommandSubmit,
			Act:    core.ActHeat,
			SubKey: strconv.Itoa(m.Round),
			Payload: mustJSON(struct {
				Choice string `json:"choice"`
				Answer string `json:"answer,omitempty"`
			}{m.Choice, m.Answer}),
		}, nil

	case proto.TypeLieDetectorGuess:
		var m proto.LieDetectorGuess
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, badRequest("malformed lie_detector_guess frame")
		}
		if m.Guess == "" {
			return nil, badRequest("guess is required")
		}
		return &core.Command{
			Kind:   core.CommandSubmit,
			Act:    core.ActTwoTruths,
			SubKey: strconv.Itoa(m.Round),
			Payload: mustJSON(struct {
				Guess        string `json:"guess"`
				HesitationMs int    `json:"hesitationMs,omitempty"`
			}{m.Guess, m.HesitationMs}),
		}, nil

	case proto.TypeStarWord:
		var m proto.StarWord
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, badRequest("malformed star_word frame")
		}
		if m.Word == "" {
			return nil, badRequest("word is required")
		}
		return &core.Command{
			Kind:    core.CommandSubmit,
			Act:     core.ActStarMap,
			Payload: mustJSON(m.Word),
		}, nil

	case proto.TypeUnsaid:
		var m proto.Unsaid
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, badRequest("malformed unsaid frame")
		}
		if m.Message == "" {
			return nil, badRequest("message is required")
		}
		return &core.Command{
			Kind:        core.CommandSubmit,
			Act:         core.ActTheUnsaid,
			Payload:     mustJSON(m.Message),
			CrossReveal: true,
		}, nil

	case proto.TypeRewriteAnswer:
		var m proto.RewriteAnswer
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, badRequest("malformed rewrite_answer frame")
		}
		if m.Answer == "" {
			return nil, badRequest("answer is required")
		}
		return &core.Command{
			Kind:    core.CommandSubmit,
			Act:     core.ActRewrite,
			SubKey:  strconv.Itoa(m.MemoryIndex),
			Payload: mustJSON(m.Answer),
		}, nil

	case proto.TypeDrawStroke:
		var m proto.DrawStroke
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, badRequest("malformed draw_stroke frame")
		}
		if len(m.Points) == 0 {
			return nil, badRequest("points are required")
		}
		return &core.Command{Kind: core.CommandRelay, Raw: raw}, nil

	case proto.TypeHeartbeatData:
		var m proto.HeartbeatData
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, badRequest("malformed heartbeat_data frame")
		}
		return &core.Command{Kind: core.CommandRelay, Raw: raw}, nil

	case proto.TypeTyping:
		var m proto.Typing
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, badRequest("malformed typing frame")
		}
		return &core.Command{Kind: core.CommandRelay, Raw: raw}, nil

	case proto.TypeProximity:
		var m proto.Proximity
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, badRequest("malformed proximity frame")
		}
		return &core.Command{Kind: core.CommandRelay, Raw: raw}, nil

	case proto.TypeShake:
		var m proto.Shake
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, badRequest("malformed shake frame")
		}
		return &core.Command{Kind: core.CommandRelay, Raw: raw}, nil

	case proto.TypePhoto:
		var m proto.Photo
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, badRequest("malformed photo frame")
		}
		if m.Data == "" {
			return nil, badRequest("data is required")
		}
		return &core.Command{Kind: core.CommandRelay, Raw: raw, MarkPhoto: true}, nil

	case proto.TypeAdvance:
		var m proto.Advance
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, badRequest("malformed advance frame")
		}
		if m.Act == "" {
			return nil, badRequest("act is required")
		}
		return &core.Command{Kind: core.CommandAdvance, Act: core.ActID(m.Act)}, nil

	case proto.TypeExportRequest:
		return &core.Command{Kind: core.CommandExport}, nil

	default:
		return nil, &proto.ErrorFrame{
			Type:    proto.TypeError,
			Code:    core.ErrCodeUnknownType,
			Message: fmt.Sprintf("unknown message type %q", msgType),
		}
	}
}

func badRequest(msg string) *proto.ErrorFrame {
	return &proto.ErrorFrame{Type: proto.TypeError, Code: core.ErrCodeBadRequest, Message: msg}
}

// mustJSON marshals payloads whose shapes cannot fail to encode.
func mustJSON(v any) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}

// outboundFromEvent maps a room event to its wire frame. Relay events are
// written verbatim by the write loop and never arrive here.
func outboundFromEvent(event *core.Event) any {
	switch event.Kind {
	case core.EventPlayerAssigned:
		return proto.PlayerAssigned{
			Type:   proto.TypePlayerAssigned,
			Player: string(event.Slot),
			State:  event.Snapshot,
		}
	case core.EventPartnerConnected:
		return proto.PartnerSignal{Type: proto.TypePartnerConnected, Player: string(event.Slot)}
	case core.EventPartnerDisconnected:
		return proto.PartnerSignal{Type: proto.TypePartnerDisconnected, Player: string(event.Slot)}
	case core.EventBothConnected:
		return proto.PartnerSignal{Type: proto.TypeBothConnected}
	case core.EventPartnerReady:
		return proto.PartnerSignal{Type: proto.TypePartnerReady, Player: string(event.Slot), Act: string(event.Act)}
	case core.EventPartnerAnswered:
		return proto.PartnerAnswered{
			Type:   proto.TypePartnerAnswered,
			Player: string(event.Slot),
			Act:    string(event.Act),
			Key:    event.SubKey,
		}
	case core.EventStateSync:
		return proto.StateSync{Type: proto.TypeStateSync, State: event.Snapshot}
	case core.EventAdvance:
		return proto.AdvanceOut{Type: proto.TypeAdvance, NextAct: string(event.NextAct)}
	case core.EventPhaseChange:
		return proto.PhaseChange{Type: proto.TypePhaseChange, Act: string(event.Act), Phase: string(event.Phase)}
	case core.EventReveal:
		answers := make(map[string]json.RawMessage, len(event.Answers))
		for slot, data := range event.Answers {
			answers[string(slot)] = data
		}
		return proto.Reveal{
			Type:    proto.TypeReveal,
			Act:     string(event.Act),
			Key:     event.SubKey,
			Answers: answers,
		}
	case core.EventExperienceComplete:
		return proto.ExperienceComplete{Type: proto.TypeExperienceComplete}
	case core.EventError:
		if event.Error == nil {
			return proto.ErrorFrame{Type: proto.TypeError, Code: "unknown", Message: "unknown error"}
		}
		return proto.ErrorFrame{Type: proto.TypeError, Code: event.Error.Code, Message: event.Error.Message}
	default:
		return proto.ErrorFrame{Type: proto.TypeError, Code: "unknown", Message: "unknown event"}
	}
}
