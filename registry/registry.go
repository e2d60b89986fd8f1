package registry

import (
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/decisionkit/cache"
	"github.com/jonwraymond/decisionkit/metrics"
)

// Factory builds an instance from an argument list.
type Factory[T any] func(args ...any) (T, error)

// slot holds the per-name state: the factory, its dedicated cache, and its
// metrics survive factory overwrites.
type slot[T any] struct {
	factory Factory[T]
	cache   *cache.Cache[string, T]
}

// Registry manages named factories with cached instantiation.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Errors: factory errors propagate to the caller; failed calls are not cached.
type Registry[T any] struct {
	mu       sync.Mutex
	slots    map[string]*slot[T]
	keyer    cache.Keyer
	recorder *metrics.Recorder
	cacheCfg cache.Config
	group    singleflight.Group
}

// New creates a Registry whose per-name caches use the default cache
// configuration.
func New[T any]() *Registry[T] {
	r, _ := NewWithConfig[T](cache.DefaultConfig())
	return r
}

// NewWithConfig creates a Registry whose per-name caches use cfg.
func NewWithConfig[T any](cfg cache.Config) (*Registry[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Registry[T]{
		slots:    make(map[string]*slot[T]),
		keyer:    cache.NewDefaultKeyer(),
		recorder: metrics.NewRecorder(),
		cacheCfg: cfg,
	}, nil
}

// Register adds or overwrites the factory for name. Overwriting preserves
// the name's metrics and its dedicated cache.
func (r *Registry[T]) Register(name string, factory Factory[T]) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if factory == nil {
		return ErrNilFactory
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.slots[name]; ok {
		s.factory = factory
		return nil
	}

	c, err := cache.New[string, T](r.cacheCfg)
	if err != nil {
		return err
	}
	r.slots[name] = &slot[T]{factory: factory, cache: c}
	return nil
}

// Get returns the cached instance for name and args, invoking the factory on
// a miss. Unknown names return ok=false. Concurrent misses for the same key
// share a single factory invocation.
func (r *Registry[T]) Get(name string, args ...any) (T, bool, error) {
	var zero T
	start := time.Now()

	r.mu.Lock()
	s, registered := r.slots[name]
	var factory Factory[T]
	if registered {
		factory = s.factory
	}
	r.mu.Unlock()

	if !registered {
		return zero, false, nil
	}

	key, err := r.keyer.Key(name, args...)
	if err != nil {
		return zero, false, err
	}

	if v, ok := s.cache.Get(key); ok {
		r.recorder.Record(name, time.Since(start), true)
		return v, true, nil
	}

	v, err, _ := r.group.Do(key, func() (any, error) {
		if v, ok := s.cache.Get(key); ok {
			return v, nil
		}
		built, err := factory(args...)
		if err != nil {
			return nil, err
		}
		s.cache.Put(key, built)
		return built, nil
	})

	r.recorder.Record(name, time.Since(start), false)
	if err != nil {
		return zero, false, err
	}
	return v.(T), true, nil
}

// ClearCache clears every name's dedicated cache.
func (r *Registry[T]) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.slots {
		s.cache.Clear()
	}
}

// Metrics returns the metrics recorded for name.
func (r *Registry[T]) Metrics(name string) metrics.OpMetrics {
	return r.recorder.Get(name)
}

// MetricsSnapshot returns metrics for all names.
func (r *Registry[T]) MetricsSnapshot() map[string]metrics.OpMetrics {
	return r.recorder.Snapshot()
}

// Names returns registered factory names in sorted order.
func (r *Registry[T]) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.slots))
	for name := range r.slots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
