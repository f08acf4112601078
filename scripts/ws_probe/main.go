package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/coder/websocket"

	"github.com/pradeeppeddineni/justus/internal/proto"
)

// ws_probe dials a room and lets you poke the protocol by hand.
//
// Stdin commands:
//
//	ready <act>      signal readiness for an act
//	advance <act>    advance past an act
//	export           request a state snapshot
//	{...}            any raw JSON frame, sent verbatim
func main() {
	if err := run(); err != nil {
		log.Printf("ws_probe: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket base address")
	room := flag.String("room", "ours", "room slug to join")
	flag.Parse()

	baseCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	url := strings.TrimRight(*addr, "/") + "/" + *room
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")
	conn.SetReadLimit(4 << 20)

	fmt.Printf("Connected to %s\n", url)
	fmt.Println("Type 'ready <act>', 'advance <act>', 'export', or raw JSON. Ctrl+C to exit.")

	go func() {
		defer cancel()
		readLoop(ctx, conn)
	}()

	writeLoop(ctx, conn)

	stop()
	cancel()
	_ = conn.Close(websocket.StatusNormalClosure, "bye")
	return nil
}

func readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		_, raw, err := conn.Read(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return
			}
			log.Printf("read error: %v", err)
			return
		}

		var env proto.Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			log.Printf("unparsable frame: %s", raw)
			continue
		}
		fmt.Printf("<- [%s] %s\n", env.Type, raw)
	}
}

func writeLoop(ctx context.Context, conn *websocket.Conn) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	send := func(v any) {
		data, err := json.Marshal(v)
		if err != nil {
			log.Printf("marshal: %v", err)
			return
		}
		if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
			log.Printf("send error: %v", err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			text := strings.TrimSpace(line)
			if text == "" {
				continue
			}

			switch {
			case strings.HasPrefix(text, "{"):
				if err := conn.Write(ctx, websocket.MessageText, []byte(text)); err != nil {
					log.Printf("send error: %v", err)
				}
			case strings.HasPrefix(text, "ready "):
				send(proto.Ready{Type: proto.TypeReady, Act: strings.TrimSpace(strings.TrimPrefix(text, "ready "))})
			case strings.HasPrefix(text, "advance "):
				send(proto.Advance{Type: proto.TypeAdvance, Act: strings.TrimSpace(strings.TrimPrefix(text, "advance "))})
			case text == "export":
				send(proto.Envelope{Type: proto.TypeExportRequest})
			default:
				fmt.Println("unknown command; use 'ready <act>', 'advance <act>', 'export', or raw JSON")
			}
		}
	}
}
