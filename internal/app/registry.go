package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"snarkel-service/internal/domain"
	"snarkel-service/internal/settlement"
)

// SnarkelRepository loads published snarkel definitions (from cache or
// backing store).
type SnarkelRepository interface {
	GetSnarkel(ctx context.Context, snarkelID string) (domain.Snarkel, error)
}

// Registry owns the live rooms of one process. It is constructed and
// injected by the process lifecycle; rooms are never reachable through
// package-level state.
type Registry struct {
	snarkels SnarkelRepository
	cfg      RoomConfig
	executor settlement.Executor
	guard    settlement.Guard
	logger   *zap.Logger

	mu    sync.Mutex
	rooms map[string]*Room
}

func NewRegistry(snarkels SnarkelRepository, cfg RoomConfig, executor settlement.Executor, guard settlement.Guard, logger *zap.Logger) *Registry {
	return &Registry{
		snarkels: snarkels,
		cfg:      cfg,
		executor: executor,
		guard:    guard,
		logger:   logger,
		rooms:    make(map[string]*Room),
	}
}

// GetOrCreate returns the live room for a snarkel, creating it on first
// join. Creation fails when the snarkel cannot be loaded; sessions for
// unknown snarkels never exist.
func (g *Registry) GetOrCreate(ctx context.Context, snarkelID string) (*Room, error) {
	g.mu.Lock()
	if room, ok := g.rooms[snarkelID]; ok {
		g.mu.Unlock()
		return room, nil
	}
	g.mu.Unlock()

	snarkel, err := g.snarkels.GetSnarkel(ctx, snarkelID)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if room, ok := g.rooms[snarkelID]; ok {
		return room, nil
	}
	room := NewRoom(snarkelID, snarkel, g.cfg, g.executor, g.guard, g.logger)
	g.rooms[snarkelID] = room
	return room, nil
}

// Get returns a live room without creating one.
func (g *Registry) Get(snarkelID string) (*Room, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	room, ok := g.rooms[snarkelID]
	return room, ok
}

// DeleteIfEmpty tears down a room once its roster is empty. The leave
// that triggers it is processed asynchronously by the room loop, so a
// room that still looks occupied is re-checked in the background for a
// short window rather than racing the disconnect.
func (g *Registry) DeleteIfEmpty(snarkelID string) {
	room, ok := g.Get(snarkelID)
	if !ok {
		return
	}
	if room.IsEmpty() {
		g.removeIfEmpty(snarkelID, room)
		return
	}
	go func() {
		for i := 0; i < 50; i++ {
			time.Sleep(20 * time.Millisecond)
			if room.IsEmpty() {
				g.removeIfEmpty(snarkelID, room)
				return
			}
		}
	}()
}

func (g *Registry) removeIfEmpty(snarkelID string, room *Room) {
	g.mu.Lock()
	defer g.mu.Unlock()
	current, ok := g.rooms[snarkelID]
	if !ok || current != room || !current.IsEmpty() {
		return
	}
	current.Stop()
	delete(g.rooms, snarkelID)
}

// Shutdown stops every live room.
func (g *Registry) Shutdown() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for id, room := range g.rooms {
		room.Stop()
		delete(g.rooms, id)
	}
}
