package trig

import (
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// maxCachedTables bounds the number of FFT geometries kept alive at once.
// A worker cycles between at most a handful of FFT configurations.
const maxCachedTables = 16

var (
	trigCacheHit = promauto.NewCounter(prometheus.CounterOpts{
		Name: "goowl_trig_cache_hit",
		Help: "The total number of cache hits on the trig table cache.",
	})
	trigCacheMiss = promauto.NewCounter(prometheus.CounterOpts{
		Name: "goowl_trig_cache_miss",
		Help: "The total number of cache misses on the trig table cache.",
	})
)

type tableKey struct {
	size  uint32
	radix uint32
}

// Cache holds generated twiddle tables keyed by FFT geometry. A single
// mutex serializes lookup and insertion.
type Cache struct {
	lock sync.Mutex
	lru  *lru.Cache
}

// NewCache creates a trig table cache.
func NewCache() (*Cache, error) {
	c, err := lru.New(maxCachedTables)
	if err != nil {
		return nil, err
	}
	return &Cache{lru: c}, nil
}

// SmallTrig returns the cached table for (size, radix), generating it on a
// miss. The returned slice is shared; callers must not mutate it.
func (c *Cache) SmallTrig(size, radix uint32) []complex128 {
	key := tableKey{size: size, radix: radix}

	c.lock.Lock()
	defer c.lock.Unlock()

	if tab, ok := c.lru.Get(key); ok {
		trigCacheHit.Inc()
		return tab.([]complex128)
	}
	trigCacheMiss.Inc()
	tab := SmallTrig(size, radix)
	c.lru.Add(key, tab)
	return tab
}

var (
	sharedOnce  sync.Once
	sharedCache *Cache
)

// Shared returns the process-wide table cache.
func Shared() *Cache {
	sharedOnce.Do(func() {
		c, err := NewCache()
		if err != nil {
			// lru.New only fails on a non-positive size.
			panic(err)
		}
		sharedCache = c
	})
	return sharedCache
}
