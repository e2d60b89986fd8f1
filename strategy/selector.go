package strategy

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jonwraymond/decisionkit/cache"
	"github.com/jonwraymond/decisionkit/metrics"
)

// selectOp is the metrics operation name for strategy selection.
const selectOp = "strategy_selection"

// KeyFunc derives a deterministic cache key from a context's observable
// fields. It must never depend on object identity.
type KeyFunc[C any] func(ctx C) (string, error)

// DefaultKeyFunc derives the key from the canonical JSON encoding of the
// context value.
func DefaultKeyFunc[C any]() KeyFunc[C] {
	keyer := cache.NewDefaultKeyer()
	return func(ctx C) (string, error) {
		return keyer.Key("strategy", ctx)
	}
}

// Selector holds a priority-sorted strategy collection with a
// context-to-strategy result cache.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Errors: Select never errors; key derivation failures skip the cache.
type Selector[C, T any] struct {
	mu         sync.Mutex
	strategies []Strategy[C, T]
	cache      *cache.Cache[string, Strategy[C, T]]
	keyFn      KeyFunc[C]
	recorder   *metrics.Recorder
	publisher  *metrics.Publisher
}

// SelectorOption configures a Selector.
type SelectorOption[C, T any] func(*Selector[C, T])

// WithKeyFunc overrides the context key derivation.
func WithKeyFunc[C, T any](fn KeyFunc[C]) SelectorOption[C, T] {
	return func(s *Selector[C, T]) { s.keyFn = fn }
}

// WithCacheConfig overrides the selection cache configuration.
// Invalid configurations keep the default.
func WithCacheConfig[C, T any](cfg cache.Config) SelectorOption[C, T] {
	return func(s *Selector[C, T]) {
		if c, err := cache.New[string, Strategy[C, T]](cfg); err == nil {
			s.cache = c
		}
	}
}

// WithPublisher mirrors selection observations to an OpenTelemetry
// meter via the given Publisher.
func WithPublisher[C, T any](pub *metrics.Publisher) SelectorOption[C, T] {
	return func(s *Selector[C, T]) { s.publisher = pub }
}

// NewSelector creates an empty Selector.
func NewSelector[C, T any](opts ...SelectorOption[C, T]) *Selector[C, T] {
	c, _ := cache.New[string, Strategy[C, T]](cache.Config{MaxSize: 128, Policy: cache.LRU})
	s := &Selector[C, T]{
		cache:    c,
		keyFn:    DefaultKeyFunc[C](),
		recorder: metrics.NewRecorder(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register adds a strategy. Strategies are kept sorted by descending
// priority; equal priorities preserve registration order.
func (s *Selector[C, T]) Register(strat Strategy[C, T]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.strategies = append(s.strategies, strat)
	sort.SliceStable(s.strategies, func(i, j int) bool {
		return s.strategies[i].Priority() > s.strategies[j].Priority()
	})
}

// Select returns the highest-priority strategy that can handle the context.
// The mapping is cached by context key; a missing match is not cached so a
// later registration can serve future identical contexts.
func (s *Selector[C, T]) Select(ctx C) (Strategy[C, T], bool) {
	start := time.Now()

	key, keyErr := s.keyFn(ctx)
	if keyErr == nil {
		if cached, ok := s.cache.Get(key); ok {
			s.record(time.Since(start), true)
			return cached, true
		}
	}

	s.mu.Lock()
	candidates := make([]Strategy[C, T], len(s.strategies))
	copy(candidates, s.strategies)
	s.mu.Unlock()

	for _, strat := range candidates {
		if strat.CanHandle(ctx) {
			if keyErr == nil {
				s.cache.Put(key, strat)
			}
			s.record(time.Since(start), false)
			return strat, true
		}
	}

	s.record(time.Since(start), false)
	return nil, false
}

func (s *Selector[C, T]) record(d time.Duration, hit bool) {
	s.recorder.Record(selectOp, d, hit)
	s.publisher.Publish(context.Background(), selectOp, d, hit)
}

// Exec selects and executes the best strategy for the context.
// ok is false when no strategy matched.
func (s *Selector[C, T]) Exec(ctx C) (result T, ok bool, err error) {
	strat, ok := s.Select(ctx)
	if !ok {
		return result, false, nil
	}
	result, err = strat.Execute(ctx)
	return result, true, err
}

// Len returns the number of registered strategies.
func (s *Selector[C, T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.strategies)
}

// Metrics returns selection metrics.
func (s *Selector[C, T]) Metrics() metrics.OpMetrics {
	return s.recorder.Get(selectOp)
}

// ClearCache clears the context-to-strategy cache.
func (s *Selector[C, T]) ClearCache() {
	s.cache.Clear()
}
