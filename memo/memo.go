package memo

import (
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/decisionkit/cache"
	"github.com/jonwraymond/decisionkit/metrics"
)

// Fn is the signature of a memoizable function. It is expected to be pure:
// identical arguments must produce an equivalent result.
type Fn[T any] func(args ...any) (T, error)

// Option configures a wrapped function.
type Option func(*config)

type config struct {
	name      string
	cacheSize int
	ttl       time.Duration
}

// WithName sets the operation name used in keys and metrics.
func WithName(name string) Option {
	return func(c *config) { c.name = name }
}

// WithCacheSize bounds the memo cache. Default: 128.
func WithCacheSize(n int) Option {
	return func(c *config) { c.cacheSize = n }
}

// WithTTL expires memoized results after d. Default: no expiry.
func WithTTL(d time.Duration) Option {
	return func(c *config) { c.ttl = d }
}

// Func is a memoized function. Create one with Wrap.
//
// Contract:
// - Concurrency: safe for concurrent use; concurrent identical calls share
//   one invocation of the wrapped function.
// - Errors: errors from the wrapped function propagate and are not cached.
type Func[T any] struct {
	fn       Fn[T]
	name     string
	cache    *cache.Cache[string, T]
	keyer    cache.Keyer
	recorder *metrics.Recorder
	group    singleflight.Group
}

// Wrap memoizes fn with a dedicated bounded LRU cache.
func Wrap[T any](fn Fn[T], opts ...Option) (*Func[T], error) {
	cfg := config{name: "memoized", cacheSize: 128}
	for _, opt := range opts {
		opt(&cfg)
	}

	c, err := cache.New[string, T](cache.Config{
		MaxSize: cfg.cacheSize,
		Policy:  cache.LRU,
		TTL:     cfg.ttl,
	})
	if err != nil {
		return nil, err
	}

	return &Func[T]{
		fn:       fn,
		name:     cfg.name,
		cache:    c,
		keyer:    cache.NewDefaultKeyer(),
		recorder: metrics.NewRecorder(),
	}, nil
}

// Call invokes the memoized function. Repeated calls with semantically
// identical arguments return the cached result without invoking the wrapped
// function again.
func (f *Func[T]) Call(args ...any) (T, error) {
	start := time.Now()

	key, keyErr := f.keyer.Key(f.name, args...)
	if keyErr != nil {
		// Uncacheable arguments: invoke directly.
		result, err := f.fn(args...)
		f.recorder.Record(f.name, time.Since(start), false)
		return result, err
	}

	if v, ok := f.cache.Get(key); ok {
		f.recorder.Record(f.name, time.Since(start), true)
		return v, nil
	}

	v, err, _ := f.group.Do(key, func() (any, error) {
		if v, ok := f.cache.Get(key); ok {
			return v, nil
		}
		result, err := f.fn(args...)
		if err != nil {
			return nil, err
		}
		f.cache.Put(key, result)
		return result, nil
	})

	f.recorder.Record(f.name, time.Since(start), false)
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// ClearCache discards all memoized results.
func (f *Func[T]) ClearCache() {
	f.cache.Clear()
}

// CacheStats returns the memo cache's current shape.
func (f *Func[T]) CacheStats() cache.Stats {
	return f.cache.Stats()
}

// Metrics returns call and latency metrics for the wrapped function.
func (f *Func[T]) Metrics() metrics.OpMetrics {
	return f.recorder.Get(f.name)
}
