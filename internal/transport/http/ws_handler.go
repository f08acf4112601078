package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	stdhttp "net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pradeeppeddineni/justus/internal/config"
	"github.com/pradeeppeddineni/justus/internal/core"
	"github.com/pradeeppeddineni/justus/internal/proto"
)

const rateWindow = time.Second

// WSHandler upgrades HTTP connections and bridges them to a room's client.
type WSHandler struct {
	rooms *core.Manager
	cfg   *config.Config
	log   *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(rooms *core.Manager, cfg *config.Config, logger *zerolog.Logger) *WSHandler {
	return &WSHandler{rooms: rooms, cfg: cfg, log: logger}
}

// Handle serves GET /ws/:room.
func (h *WSHandler) Handle(c *gin.Context) {
	slug := c.Param("room")
	if h.cfg.RoomSlug != "" && slug != h.cfg.RoomSlug {
		c.Status(stdhttp.StatusNotFound)
		return
	}

	ctx := c.Request.Context()

	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	// Oversized frames up to twice the photo ceiling still get an error
	// reply; anything larger is cut at the transport.
	conn.SetReadLimit(2 * h.cfg.MaxPhotoBytes)

	room := h.rooms.GetOrCreate(slug)
	client := core.NewClient(uuid.NewString(), h.cfg.ClientBuffer)

	slot, err := room.Join(ctx, client)
	if err != nil {
		var re *core.RoomError
		if errors.As(err, &re) {
			_ = wsjson.Write(ctx, conn, proto.ErrorFrame{Type: proto.TypeError, Code: re.Code, Message: re.Message})
			conn.Close(websocket.StatusPolicyViolation, "room full")
			return
		}
		h.log.Warn().Err(err).Str("room", slug).Msg("join failed")
		return
	}
	defer room.Leave(client)

	h.log.Info().Str("room", slug).Str("slot", string(slot)).Str("client_id", client.ID).Msg("ws client joined")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, room, client)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, client)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != 0 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Str("client_id", client.ID).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

// readLoop applies the rate and size guard to every raw frame before it is
// parsed or dispatched. Guard failures are replied to the sender and never
// reach the room.
func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, room *core.Room, client *core.Client) error {
	limiter := newRateLimiter(h.cfg.RateLimitPerSecond, rateWindow)

	for {
		_, raw, err := conn.Read(ctx)
		if err != nil {
			return err
		}

		if !limiter.allow(time.Now()) {
			if err := h.writeError(ctx, conn, core.ErrCodeRateLimited, "too many messages, slow down"); err != nil {
				return err
			}
			continue
		}

		if int64(len(raw)) > h.cfg.MaxPhotoBytes {
			if err := h.writeError(ctx, conn, core.ErrCodeTooLarge, "message exceeds size limit"); err != nil {
				return err
			}
			continue
		}

		var env proto.Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			if err := h.writeError(ctx, conn, core.ErrCodeBadRequest, "invalid JSON"); err != nil {
				return err
			}
			continue
		}
		if env.Type == "" {
			if err := h.writeError(ctx, conn, core.ErrCodeBadRequest, "missing message type"); err != nil {
				return err
			}
			continue
		}
		if env.Type != proto.TypePhoto && int64(len(raw)) > h.cfg.MaxMessageBytes {
			if err := h.writeError(ctx, conn, core.ErrCodeTooLarge,
				fmt.Sprintf("%s frames are limited to %d bytes", env.Type, h.cfg.MaxMessageBytes)); err != nil {
				return err
			}
			continue
		}

		cmd, protoErr := inboundToCommand(env.Type, raw)
		if protoErr != nil {
			if err := wsjson.Write(ctx, conn, protoErr); err != nil {
				return err
			}
			continue
		}

		cmd.Client = client
		if err := room.Dispatch(ctx, cmd); err != nil {
			return err
		}
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		select {
		case event, ok := <-client.Events:
			if !ok {
				return nil
			}
			if event.Kind == core.EventRelay {
				// Relayed frames keep their original bytes; photo payloads
				// in particular are never re-encoded or retained.
				if err := conn.Write(ctx, websocket.MessageText, event.Raw); err != nil {
					return err
				}
				continue
			}
			if err := wsjson.Write(ctx, conn, outboundFromEvent(event)); err != nil {
				h.log.Error().Err(err).Str("client_id", client.ID).Msg("write ws event")
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (h *WSHandler) writeError(ctx context.Context, conn *websocket.Conn, code, msg string) error {
	return wsjson.Write(ctx, conn, proto.ErrorFrame{Type: proto.TypeError, Code: code, Message: msg})
}
