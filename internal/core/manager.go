package core

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Manager owns every active room, keyed by URL slug. Rooms are created
// lazily on first connection and live for the process lifetime.
type Manager struct {
	mu          sync.Mutex
	rooms       map[string]*Room
	ctx         context.Context
	graceWindow time.Duration
	log         *zerolog.Logger
}

// NewManager constructs an empty room store.
func NewManager(graceWindow time.Duration, logger *zerolog.Logger) *Manager {
	return &Manager{
		rooms:       make(map[string]*Room),
		graceWindow: graceWindow,
		log:         logger,
	}
}

// Run retains the context for room loops and blocks until it is cancelled.
func (m *Manager) Run(ctx context.Context) {
	m.mu.Lock()
	m.ctx = ctx
	m.mu.Unlock()
	<-ctx.Done()
}

// GetOrCreate returns the room for a slug, starting its loop on first use.
func (m *Manager) GetOrCreate(slug string) *Room {
	m.mu.Lock()
	defer m.mu.Unlock()

	if room, ok := m.rooms[slug]; ok {
		return room
	}

	room := NewRoom(slug, m.graceWindow, m.log)
	m.rooms[slug] = room

	ctx := m.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	go room.Run(ctx)

	return room
}

// Lookup returns an existing room without creating one.
func (m *Manager) Lookup(slug string) (*Room, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[slug]
	return room, ok
}
