package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"snarkel-service/internal/domain"
)

// SnarkelLoader fetches snarkel definitions from a backing store.
type SnarkelLoader interface {
	LoadSnarkel(ctx context.Context, snarkelID string) (domain.Snarkel, error)
}

// SnarkelRepository caches full snarkel definitions in Redis as JSON
// (key snarkel:{id}:def) and falls back to a loader on cache miss. The
// definition includes correctness flags and the reward pool, so the cache
// must never be exposed to clients directly.
type SnarkelRepository struct {
	client *redis.Client
	loader SnarkelLoader
	ttl    time.Duration
	sf     singleflight.Group

	// rnd is not goroutine-safe; loads for different keys jitter
	// concurrently.
	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewSnarkelRepository(client *redis.Client, loader SnarkelLoader, ttl time.Duration) *SnarkelRepository {
	return &SnarkelRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *SnarkelRepository) GetSnarkel(ctx context.Context, snarkelID string) (domain.Snarkel, error) {
	key := r.key(snarkelID)

	if raw, err := r.client.Get(ctx, key).Bytes(); err == nil && len(raw) > 0 {
		var snarkel domain.Snarkel
		if err := json.Unmarshal(raw, &snarkel); err == nil {
			return snarkel, nil
		}
		// Corrupt cache entry falls through to the loader.
	}

	result, err, _ := r.sf.Do(snarkelID, func() (interface{}, error) {
		// Re-check in case another goroutine filled the cache.
		if raw, err := r.client.Get(ctx, key).Bytes(); err == nil && len(raw) > 0 {
			var snarkel domain.Snarkel
			if err := json.Unmarshal(raw, &snarkel); err == nil {
				return snarkel, nil
			}
		}

		snarkel, err := r.loader.LoadSnarkel(ctx, snarkelID)
		if err != nil {
			return domain.Snarkel{}, err
		}

		raw, err := json.Marshal(snarkel)
		if err != nil {
			return domain.Snarkel{}, fmt.Errorf("marshal snarkel: %w", err)
		}
		_ = r.client.Set(ctx, key, raw, r.ttlWithJitter()).Err()
		return snarkel, nil
	})
	if err != nil {
		return domain.Snarkel{}, err
	}
	return result.(domain.Snarkel), nil
}

func (r *SnarkelRepository) key(snarkelID string) string {
	return "snarkel:" + snarkelID + ":def"
}

func (r *SnarkelRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	jitter := r.rnd.Int63n(jitterMax + 1)
	r.rndMu.Unlock()
	return r.ttl + time.Duration(jitter)
}
