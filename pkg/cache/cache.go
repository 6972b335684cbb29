// Package cache implements the compiled-formula cache of spec §4.7: a
// bounded source-text -> compiled-callable map with LRU eviction and
// per-key linearizable get-or-build. Grounded on
// grafana-mimir/pkg/streamingpromql/cache/cache.go's overall shape
// (optional logger/registerer, errors.Wrap on internal failures) and on
// grafana-mimir/pkg/storegateway/indexcache/inmemory.go's direct use of
// hashicorp/golang-lru/v2/simplelru with a manual RemoveOldest loop.
package cache

import (
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	lru "github.com/hashicorp/golang-lru/v2/simplelru"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/singleflight"
)

// unboundedInternal is the size handed to the underlying LRU. Capacity
// is enforced by trim, not by the LRU itself, since eviction here is a
// batch trim down to a reduction size rather than one-entry-per-insert.
const unboundedInternal = 1 << 30

// BuildFunc compiles the value to store for a source-text key that
// missed the cache.
type BuildFunc func(source string) (interface{}, error)

// FormulaCache maps expression source text to whatever an Evaluator
// compiled for it (spec §4.7). It is safe for concurrent use; builds for
// the same key are coalesced so only one caller ever compiles a given
// formula at a time (spec §5).
type FormulaCache struct {
	mu            sync.Mutex
	lru           *lru.LRU[string, interface{}]
	maxSize       int
	reductionSize int

	building singleflight.Group
	logger   log.Logger
	metrics  *cacheMetrics
}

// New builds a FormulaCache holding up to maxSize entries; once that
// capacity is exceeded, the least-recently-used entries are evicted
// until the cache holds reductionSize entries (spec §4.7). logger and
// reg are both optional: a nil logger disables logging, a nil registerer
// skips metrics registration.
func New(maxSize, reductionSize int, logger log.Logger, reg prometheus.Registerer) (*FormulaCache, error) {
	if maxSize <= 0 || reductionSize <= 0 {
		return nil, errors.New("cache: maximum size and reduction size must be positive")
	}
	if reductionSize > maxSize {
		return nil, errors.Errorf("cache: reduction size (%d) cannot exceed maximum size (%d)", reductionSize, maxSize)
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}

	c := &FormulaCache{
		maxSize:       maxSize,
		reductionSize: reductionSize,
		logger:        logger,
		metrics:       newCacheMetrics(reg),
	}

	l, err := lru.NewLRU[string, interface{}](unboundedInternal, nil)
	if err != nil {
		return nil, errors.Wrap(err, "cache: creating LRU")
	}
	c.lru = l

	level.Info(logger).Log("msg", "formula cache created", "max_size", maxSize, "reduction_size", reductionSize)
	return c, nil
}

// GetOrBuild returns the cached value for source, building it with build
// on a miss. Concurrent GetOrBuild calls for the same source share a
// single build call; every caller receives that call's result.
func (c *FormulaCache) GetOrBuild(source string, build BuildFunc) (interface{}, error) {
	c.metrics.requests.Inc()

	if v, ok := c.get(source); ok {
		c.metrics.hits.Inc()
		return v, nil
	}

	v, err, shared := c.building.Do(source, func() (interface{}, error) {
		if v, ok := c.get(source); ok {
			return v, nil
		}
		built, err := build(source)
		if err != nil {
			return nil, err
		}
		c.add(source, built)
		return built, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.metrics.coalesced.Inc()
	}
	return v, nil
}

// Get returns the cached value for source without building it.
func (c *FormulaCache) Get(source string) (interface{}, bool) {
	v, ok := c.get(source)
	c.metrics.requests.Inc()
	if ok {
		c.metrics.hits.Inc()
	}
	return v, ok
}

func (c *FormulaCache) get(source string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Get(source)
}

func (c *FormulaCache) add(source string, v interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(source, v)
	c.metrics.added.Inc()
	c.trimLocked()
}

// Purge empties the cache.
func (c *FormulaCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Purge()
	level.Debug(c.logger).Log("msg", "formula cache purged")
}

// Len reports the current number of cached formulas.
func (c *FormulaCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// trimLocked must be called with mu held. It evicts the least-recently-
// used entries until the cache is back at reductionSize, but only once
// it has grown past maxSize — a batch trim rather than an eviction on
// every insert.
func (c *FormulaCache) trimLocked() {
	if c.lru.Len() <= c.maxSize {
		return
	}
	evicted := 0
	for c.lru.Len() > c.reductionSize {
		if _, _, ok := c.lru.RemoveOldest(); !ok {
			break
		}
		evicted++
	}
	c.metrics.evicted.Add(float64(evicted))
	level.Debug(c.logger).Log("msg", "formula cache trimmed", "evicted", evicted, "size", c.lru.Len())
}

type cacheMetrics struct {
	requests  prometheus.Counter
	hits      prometheus.Counter
	added     prometheus.Counter
	evicted   prometheus.Counter
	coalesced prometheus.Counter
}

func newCacheMetrics(reg prometheus.Registerer) *cacheMetrics {
	return &cacheMetrics{
		requests: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "expreval_formula_cache_requests_total",
			Help: "Total number of formula cache lookups.",
		}),
		hits: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "expreval_formula_cache_hits_total",
			Help: "Total number of formula cache lookups that were served from cache.",
		}),
		added: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "expreval_formula_cache_added_total",
			Help: "Total number of formulas added to the cache.",
		}),
		evicted: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "expreval_formula_cache_evicted_total",
			Help: "Total number of formulas evicted from the cache.",
		}),
		coalesced: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "expreval_formula_cache_coalesced_builds_total",
			Help: "Total number of GetOrBuild calls that reused an in-flight build for the same key.",
		}),
	}
}
