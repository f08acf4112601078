package core

import (
	"context"
	"testing"
	"time"
)

func startRoom(t *testing.T, grace time.Duration) *Room {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	room := NewRoom("ours", grace, nil)
	go room.Run(ctx)
	return room
}

func mustJoin(t *testing.T, room *Room, id string) *Client {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	client := NewClient(id, 64)
	if _, err := room.Join(ctx, client); err != nil {
		t.Fatalf("join %s: %v", id, err)
	}
	return client
}

func dispatch(t *testing.T, room *Room, c *Client, cmd *Command) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	cmd.Client = c
	if err := room.Dispatch(ctx, cmd); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
}

func mustSnapshot(t *testing.T, room *Room) *Snapshot {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	snap, err := room.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	return snap
}

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

func expectNoEvent(t *testing.T, ch <-chan *Event, kind EventKind) {
	t.Helper()

	deadline := time.After(150 * time.Millisecond)
	for {
		select {
		case ev := <-ch:
			if ev != nil && ev.Kind == kind {
				t.Fatalf("unexpected event kind %v: %+v", kind, ev)
			}
		case <-deadline:
			return
		}
	}
}

// advanceTo walks the room through the catalog until the target act is
// current. The caller must already hold a joined client.
func advanceTo(t *testing.T, room *Room, c *Client, target ActID) {
	t.Helper()

	for range Catalog {
		snap := mustSnapshot(t, room)
		if snap.CurrentAct == target {
			return
		}
		dispatch(t, room, c, &Command{Kind: CommandAdvance, Act: snap.CurrentAct})
	}
	t.Fatalf("never reached act %s", target)
}
