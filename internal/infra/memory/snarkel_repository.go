package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"snarkel-service/internal/domain"
)

// SnarkelLoader fetches snarkel definitions from a backing store.
type SnarkelLoader interface {
	LoadSnarkel(ctx context.Context, snarkelID string) (domain.Snarkel, error)
}

// SnarkelRepository caches snarkels with TTL to avoid repeated store hits.
// Definitions are immutable once published, so a stale window equal to the
// TTL is safe.
type SnarkelRepository struct {
	loader SnarkelLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedSnarkel
}

type cachedSnarkel struct {
	snarkel   domain.Snarkel
	expiresAt time.Time
}

func NewSnarkelRepository(loader SnarkelLoader, ttl time.Duration) *SnarkelRepository {
	return &SnarkelRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedSnarkel),
	}
}

func (r *SnarkelRepository) GetSnarkel(ctx context.Context, snarkelID string) (domain.Snarkel, error) {
	now := r.clock()

	r.mu.RLock()
	if entry, ok := r.cache[snarkelID]; ok && entry.expiresAt.After(now) {
		r.mu.RUnlock()
		return entry.snarkel, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(snarkelID, func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if entry, ok := r.cache[snarkelID]; ok && entry.expiresAt.After(now) {
			r.mu.RUnlock()
			return entry.snarkel, nil
		}
		r.mu.RUnlock()

		snarkel, err := r.loader.LoadSnarkel(ctx, snarkelID)
		if err != nil {
			return domain.Snarkel{}, err
		}

		r.mu.Lock()
		r.cache[snarkelID] = cachedSnarkel{
			snarkel:   snarkel,
			expiresAt: now.Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return snarkel, nil
	})
	if err != nil {
		return domain.Snarkel{}, err
	}
	return result.(domain.Snarkel), nil
}

func (r *SnarkelRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticSnarkelLoader serves snarkels from an in-memory map (tests/demos).
type StaticSnarkelLoader struct {
	snarkels map[string]domain.Snarkel
}

func NewStaticSnarkelLoader(snarkels map[string]domain.Snarkel) *StaticSnarkelLoader {
	return &StaticSnarkelLoader{snarkels: snarkels}
}

func (l *StaticSnarkelLoader) LoadSnarkel(_ context.Context, snarkelID string) (domain.Snarkel, error) {
	if snarkel, ok := l.snarkels[snarkelID]; ok {
		return snarkel, nil
	}
	return domain.Snarkel{}, domain.ErrSnarkelNotFound
}
