package app

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"snarkel-service/internal/domain"
)

type staticSnarkels map[string]domain.Snarkel

func (s staticSnarkels) GetSnarkel(_ context.Context, id string) (domain.Snarkel, error) {
	if snarkel, ok := s[id]; ok {
		return snarkel, nil
	}
	return domain.Snarkel{}, domain.ErrSnarkelNotFound
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	repo := staticSnarkels{"snarkel-1": testSnarkel(1)}
	registry := NewRegistry(repo, RoomConfig{}, &fakeExecutor{}, &fakeGuard{}, zap.NewNop())
	t.Cleanup(registry.Shutdown)
	return registry
}

func TestRegistryCreatesRoomPerSnarkel(t *testing.T) {
	registry := newTestRegistry(t)

	room, err := registry.GetOrCreate(context.Background(), "snarkel-1")
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	again, err := registry.GetOrCreate(context.Background(), "snarkel-1")
	if err != nil {
		t.Fatalf("second lookup: %v", err)
	}
	if room != again {
		t.Fatalf("expected same room instance per snarkel")
	}
}

func TestRegistryRejectsUnknownSnarkel(t *testing.T) {
	registry := newTestRegistry(t)

	if _, err := registry.GetOrCreate(context.Background(), "missing"); err != domain.ErrSnarkelNotFound {
		t.Fatalf("expected ErrSnarkelNotFound, got %v", err)
	}
}

func TestRegistryDeleteIfEmpty(t *testing.T) {
	registry := newTestRegistry(t)

	room, err := registry.GetOrCreate(context.Background(), "snarkel-1")
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	if room == nil {
		t.Fatalf("expected room")
	}

	registry.DeleteIfEmpty("snarkel-1")
	if _, ok := registry.Get("snarkel-1"); ok {
		t.Fatalf("expected empty room to be removed")
	}
}

func TestDeleteIfEmptyCatchesInFlightLeave(t *testing.T) {
	registry := newTestRegistry(t)

	room, err := registry.GetOrCreate(context.Background(), "snarkel-1")
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	sub, err := room.Join(context.Background(), addr(2), "Bob")
	if err != nil {
		t.Fatalf("join: %v", err)
	}

	// The leave is queued but may not be processed when the emptiness
	// check runs, which is exactly how a disconnecting handler calls it.
	sub.Close()
	registry.DeleteIfEmpty("snarkel-1")

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, ok := registry.Get("snarkel-1"); !ok {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("room with in-flight leave was never removed")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
