package http

import (
	stdhttp "net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/pradeeppeddineni/justus/internal/config"
	"github.com/pradeeppeddineni/justus/internal/core"
)

// NewServer builds the HTTP server: health check, the websocket endpoint,
// and the room status/invite helpers used by the static client page.
func NewServer(rooms *core.Manager, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	ws := NewWSHandler(rooms, cfg, logger)

	router.GET("/health", healthHandler)
	router.GET("/ws/:room", ws.Handle)
	router.GET("/rooms/:room/status", statusHandler(rooms, cfg))
	router.GET("/rooms/:room/invite.png", inviteHandler(cfg))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}

// StatusResponse is the polling shape the client page uses before upgrading.
type StatusResponse struct {
	Room  string          `json:"room"`
	Slots map[string]bool `json:"slots"`
	Act   string          `json:"act"`
	Phase string          `json:"phase"`
}

func statusHandler(rooms *core.Manager, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := c.Param("room")
		if cfg.RoomSlug != "" && slug != cfg.RoomSlug {
			c.Status(stdhttp.StatusNotFound)
			return
		}

		resp := StatusResponse{
			Room:  slug,
			Slots: map[string]bool{string(core.SlotA): false, string(core.SlotB): false},
			Act:   string(core.Catalog[0]),
			Phase: string(core.PhaseWaiting),
		}

		// Polling a room that nobody has joined yet must not create it.
		if room, ok := rooms.Lookup(slug); ok {
			snap, err := room.Snapshot(c.Request.Context())
			if err != nil {
				c.Status(stdhttp.StatusServiceUnavailable)
				return
			}
			resp.Act = string(snap.CurrentAct)
			resp.Phase = string(snap.ActPhase)
			for slot, live := range snap.Slots {
				resp.Slots[string(slot)] = live
			}
		}

		c.JSON(stdhttp.StatusOK, resp)
	}
}

func inviteHandler(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := c.Param("room")
		if cfg.RoomSlug != "" && slug != cfg.RoomSlug {
			c.Status(stdhttp.StatusNotFound)
			return
		}

		joinURL := strings.TrimRight(cfg.PublicURL, "/") + "/" + slug
		png, err := qrcode.Encode(joinURL, qrcode.Medium, 256)
		if err != nil {
			c.Status(stdhttp.StatusInternalServerError)
			return
		}
		c.Data(stdhttp.StatusOK, "image/png", png)
	}
}
