package redis

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestDistributionGuardMarksRooms(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	guard := NewDistributionGuard(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	ctx := context.Background()

	done, err := guard.IsDistributed(ctx, "room-1")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if done {
		t.Fatalf("expected fresh room to be undistributed")
	}

	if err := guard.MarkDistributed(ctx, "room-1", "plan-abc"); err != nil {
		t.Fatalf("mark: %v", err)
	}

	done, err = guard.IsDistributed(ctx, "room-1")
	if err != nil {
		t.Fatalf("re-check: %v", err)
	}
	if !done {
		t.Fatalf("expected room marked distributed")
	}
	if got, _ := mr.Get("snarkel:distributed:room-1"); got != "plan-abc" {
		t.Fatalf("expected plan id marker, got %q", got)
	}
}
