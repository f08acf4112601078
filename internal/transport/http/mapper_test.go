package http

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/pradeeppeddineni/justus/internal/core"
	"github.com/pradeeppeddineni/justus/internal/proto"
)

func TestInboundToCommand(t *testing.T) {
	tests := []struct {
		name     string
		msgType  string
		raw      string
		wantKind core.CommandKind
		wantAct  core.ActID
		wantKey  string
		wantErr  string // expected error code, empty for success
	}{
		{
			name:     "ready",
			msgType:  proto.TypeReady,
			raw:      `{"type":"ready","act":"the_lock"}`,
			wantKind: core.CommandReady,
			wantAct:  core.ActTheLock,
		},
		{
			name:    "ready without act",
			msgType: proto.TypeReady,
			raw:     `{"type":"ready"}`,
			wantErr: core.ErrCodeBadRequest,
		},
		{
			name:     "answer",
			msgType:  proto.TypeAnswer,
			raw:      `{"type":"answer","act":"first_spark","player":"A","data":{"text":"hi"}}`,
			wantKind: core.CommandSubmit,
			wantAct:  core.ActFirstSpark,
		},
		{
			name:    "answer without data",
			msgType: proto.TypeAnswer,
			raw:     `{"type":"answer","act":"first_spark"}`,
			wantErr: core.ErrCodeBadRequest,
		},
		{
			name:     "heat choice keyed by round",
			msgType:  proto.TypeHeatChoice,
			raw:      `{"type":"heat_choice","player":"B","round":3,"choice":"truth","answer":"always"}`,
			wantKind: core.CommandSubmit,
			wantAct:  core.ActHeat,
			wantKey:  "3",
		},
		{
			name:     "lie detector guess keyed by round",
			msgType:  proto.TypeLieDetectorGuess,
			raw:      `{"type":"lie_detector_guess","player":"A","round":1,"guess":"lie","hesitationMs":420}`,
			wantKind: core.CommandSubmit,
			wantAct:  core.ActTwoTruths,
			wantKey:  "1",
		},
		{
			name:     "rewrite answer keyed by memory index",
			msgType:  proto.TypeRewriteAnswer,
			raw:      `{"type":"rewrite_answer","player":"B","memoryIndex":2,"answer":"we stayed"}`,
			wantKind: core.CommandSubmit,
			wantAct:  core.ActRewrite,
			wantKey:  "2",
		},
		{
			name:     "star word",
			msgType:  proto.TypeStarWord,
			raw:      `{"type":"star_word","player":"A","word":"home"}`,
			wantKind: core.CommandSubmit,
			wantAct:  core.ActStarMap,
		},
		{
			name:     "draw stroke relays",
			msgType:  proto.TypeDrawStroke,
			raw:      `{"type":"draw_stroke","points":[{"x":0.1,"y":0.2}],"color":"#e11"}`,
			wantKind: core.CommandRelay,
		},
		{
			name:    "draw stroke without points",
			msgType: proto.TypeDrawStroke,
			raw:     `{"type":"draw_stroke","points":[]}`,
			wantErr: core.ErrCodeBadRequest,
		},
		{
			name:     "typing relays",
			msgType:  proto.TypeTyping,
			raw:      `{"type":"typing","act":"the_unsaid","player":"A"}`,
			wantKind: core.CommandRelay,
		},
		{
			name:     "advance",
			msgType:  proto.TypeAdvance,
			raw:      `{"type":"advance","act":"the_lock"}`,
			wantKind: core.CommandAdvance,
			wantAct:  core.ActTheLock,
		},
		{
			name:     "export request",
			msgType:  proto.TypeExportRequest,
			raw:      `{"type":"export_request"}`,
			wantKind: core.CommandExport,
		},
		{
			name:    "unknown type",
			msgType: "teleport",
			raw:     `{"type":"teleport"}`,
			wantErr: core.ErrCodeUnknownType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, protoErr := inboundToCommand(tt.msgType, []byte(tt.raw))

			if tt.wantErr != "" {
				if protoErr == nil {
					t.Fatalf("expected %s error, got command %+v", tt.wantErr, cmd)
				}
				if protoErr.Code != tt.wantErr {
					t.Fatalf("expected code %s, got %s (%s)", tt.wantErr, protoErr.Code, protoErr.Message)
				}
				return
			}

			if protoErr != nil {
				t.Fatalf("unexpected error: %+v", protoErr)
			}
			if cmd.Kind != tt.wantKind {
				t.Fatalf("kind = %v, want %v", cmd.Kind, tt.wantKind)
			}
			if tt.wantAct != "" && cmd.Act != tt.wantAct {
				t.Fatalf("act = %s, want %s", cmd.Act, tt.wantAct)
			}
			if cmd.SubKey != tt.wantKey {
				t.Fatalf("subKey = %q, want %q", cmd.SubKey, tt.wantKey)
			}
		})
	}
}

func TestUnsaidMapsToCrossReveal(t *testing.T) {
	cmd, protoErr := inboundToCommand(proto.TypeUnsaid, []byte(`{"type":"unsaid","player":"A","message":"I missed you"}`))
	if protoErr != nil {
		t.Fatalf("unexpected error: %+v", protoErr)
	}
	if !cmd.CrossReveal {
		t.Fatal("unsaid submissions must be cross-revealed")
	}
	if cmd.Act != core.ActTheUnsaid {
		t.Fatalf("act = %s, want %s", cmd.Act, core.ActTheUnsaid)
	}
}

func TestPhotoMapsToRelayWithFlag(t *testing.T) {
	raw := []byte(`{"type":"photo","player":"B","data":"aGVsbG8="}`)
	cmd, protoErr := inboundToCommand(proto.TypePhoto, raw)
	if protoErr != nil {
		t.Fatalf("unexpected error: %+v", protoErr)
	}
	if cmd.Kind != core.CommandRelay || !cmd.MarkPhoto {
		t.Fatalf("photo must relay and mark the flag: %+v", cmd)
	}
	if !bytes.Equal(cmd.Raw, raw) {
		t.Fatal("photo frame must be forwarded verbatim")
	}
	if len(cmd.Payload) != 0 {
		t.Fatal("photo bytes must never become a stored payload")
	}
}

func TestOutboundFromEvent(t *testing.T) {
	reveal := outboundFromEvent(&core.Event{
		Kind:   core.EventReveal,
		Act:    core.ActTheLock,
		SubKey: "q1",
		Answers: map[core.Slot]json.RawMessage{
			core.SlotA: json.RawMessage(`"a"`),
			core.SlotB: json.RawMessage(`"b"`),
		},
	})
	frame, ok := reveal.(proto.Reveal)
	if !ok {
		t.Fatalf("expected proto.Reveal, got %T", reveal)
	}
	if frame.Type != proto.TypeReveal || frame.Act != "the_lock" || frame.Key != "q1" {
		t.Fatalf("unexpected reveal frame: %+v", frame)
	}
	if string(frame.Answers["A"]) != `"a"` || string(frame.Answers["B"]) != `"b"` {
		t.Fatalf("unexpected reveal answers: %+v", frame.Answers)
	}

	errFrame := outboundFromEvent(&core.Event{
		Kind:  core.EventError,
		Error: &core.RoomError{Code: core.ErrCodeRateLimited, Message: "slow down"},
	})
	ef, ok := errFrame.(proto.ErrorFrame)
	if !ok || ef.Code != core.ErrCodeRateLimited {
		t.Fatalf("unexpected error frame: %+v", errFrame)
	}
}
