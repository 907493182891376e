package eventcounter

import (
	"sync/atomic"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

const (
	defaultQueryCacheCapacity = 64
	defaultQueryCacheTTL      = time.Second
)

type queryKey struct {
	window     Window
	now        int64
	generation uint64
}

// queryCache memoises aggregates for one second. A result is keyed by the
// write generation observed before the scan, so any accepted write makes
// earlier results unreachable.
type queryCache struct {
	cache      *ttlcache.Cache[queryKey, uint64]
	generation atomic.Uint64
}

func newQueryCache(capacity uint64, ttl time.Duration) *queryCache {
	cache := ttlcache.New[queryKey, uint64](
		ttlcache.WithTTL[queryKey, uint64](ttl),
		ttlcache.WithCapacity[queryKey, uint64](capacity),
		ttlcache.WithDisableTouchOnHit[queryKey, uint64](),
	)
	return &queryCache{cache: cache}
}

// bump must be called after the slot mutation of an accepted write.
func (q *queryCache) bump() {
	q.generation.Add(1)
}

func (q *queryCache) count(w Window, now int64, compute func() uint64) uint64 {
	key := queryKey{window: w, now: now, generation: q.generation.Load()}
	if item := q.cache.Get(key); item != nil {
		return item.Value()
	}
	v := compute()
	q.cache.Set(key, v, ttlcache.DefaultTTL)
	return v
}

func (q *queryCache) len() int {
	return q.cache.Len()
}
