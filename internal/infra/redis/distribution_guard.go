package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// DistributionGuard records finalized payout plans in Redis so a
// restarted process cannot submit the same room's rewards twice.
// Markers carry no TTL: a distribution is permanent.
type DistributionGuard struct {
	client *redis.Client
}

func NewDistributionGuard(client *redis.Client) *DistributionGuard {
	return &DistributionGuard{client: client}
}

func (g *DistributionGuard) IsDistributed(ctx context.Context, roomID string) (bool, error) {
	n, err := g.client.Exists(ctx, g.key(roomID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (g *DistributionGuard) MarkDistributed(ctx context.Context, roomID, planID string) error {
	return g.client.Set(ctx, g.key(roomID), planID, 0).Err()
}

func (g *DistributionGuard) key(roomID string) string {
	return "snarkel:distributed:" + roomID
}
