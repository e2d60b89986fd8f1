package cache

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

// TestNew_Validation tests configuration validation rules.
func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{"defaults", DefaultConfig(), nil},
		{"zero max size", Config{MaxSize: 0, Policy: LRU}, ErrInvalidMaxSize},
		{"negative max size", Config{MaxSize: -1, Policy: LRU}, ErrInvalidMaxSize},
		{"unknown policy", Config{MaxSize: 10, Policy: Policy(99)}, ErrUnknownPolicy},
		{"negative ttl", Config{MaxSize: 10, Policy: LRU, TTL: -time.Second}, ErrInvalidTTL},
		{"ttl only", Config{MaxSize: 10, Policy: TTLOnly, TTL: time.Minute}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New[string, int](tt.cfg)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("New(%+v) = %v, want %v", tt.cfg, err, tt.wantErr)
			}
		})
	}
}

// TestCache_GetPut tests basic store and retrieve behavior.
func TestCache_GetPut(t *testing.T) {
	c, err := New[string, int](Config{MaxSize: 4, Policy: LRU})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, ok := c.Get("missing"); ok {
		t.Error("Get on empty cache returned ok")
	}

	c.Put("a", 1)
	v, ok := c.Get("a")
	if !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v, want 1, true", v, ok)
	}

	c.Put("a", 2)
	v, _ = c.Get("a")
	if v != 2 {
		t.Errorf("Get(a) after overwrite = %d, want 2", v)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

// TestCache_LRUEviction verifies the least recently used key is evicted
// when the cache overflows, and that Get refreshes recency.
func TestCache_LRUEviction(t *testing.T) {
	c, err := New[string, int](Config{MaxSize: 2, Policy: LRU})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	c.Put("a", 1)
	c.Put("b", 2)
	c.Get("a") // a is now most recent
	c.Put("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("a should have survived eviction")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("c should be present")
	}
}

// TestCache_FIFOEviction verifies FIFO evicts in insertion order
// regardless of access patterns.
func TestCache_FIFOEviction(t *testing.T) {
	c, err := New[string, int](Config{MaxSize: 2, Policy: FIFO})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	c.Put("a", 1)
	c.Put("b", 2)
	c.Get("a") // access must not matter for FIFO
	c.Put("c", 3)

	if _, ok := c.Get("a"); ok {
		t.Error("a should have been evicted (oldest insertion)")
	}
	if _, ok := c.Get("b"); !ok {
		t.Error("b should still be present")
	}
}

// TestCache_LFUEviction verifies the least frequently used key is
// evicted, with stale heap tuples skipped after later accesses.
func TestCache_LFUEviction(t *testing.T) {
	c, err := New[string, int](Config{MaxSize: 2, Policy: LFU})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	c.Put("a", 1)
	c.Put("b", 2)
	c.Get("a")
	c.Get("a")
	c.Get("b") // a:2 accesses, b:1
	c.Put("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted (lowest access count)")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("a should have survived eviction")
	}
}

// TestCache_LFUStaleTuples stresses the stale tuple handling: a key
// accessed many times leaves outdated heap entries that must never
// cause its eviction while a colder key exists.
func TestCache_LFUStaleTuples(t *testing.T) {
	c, err := New[string, int](Config{MaxSize: 3, Policy: LFU})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	c.Put("hot", 1)
	c.Put("warm", 2)
	c.Put("cold", 3)
	for i := 0; i < 50; i++ {
		c.Get("hot")
	}
	c.Get("warm")
	c.Put("new", 4)

	if _, ok := c.Get("cold"); ok {
		t.Error("cold should have been evicted")
	}
	if _, ok := c.Get("hot"); !ok {
		t.Error("hot should never be evicted while colder keys exist")
	}
	if _, ok := c.Get("warm"); !ok {
		t.Error("warm should still be present")
	}
}

// TestCache_PutExistingNeverEvicts verifies overwriting a present key
// does not trigger eviction even at capacity.
func TestCache_PutExistingNeverEvicts(t *testing.T) {
	for _, policy := range []Policy{LRU, LFU, FIFO, TTLOnly} {
		t.Run(policy.String(), func(t *testing.T) {
			c, err := New[string, int](Config{MaxSize: 2, Policy: policy})
			if err != nil {
				t.Fatalf("New: %v", err)
			}

			c.Put("a", 1)
			c.Put("b", 2)
			c.Put("a", 10)

			if c.Len() != 2 {
				t.Errorf("Len() = %d, want 2", c.Len())
			}
			if _, ok := c.Get("b"); !ok {
				t.Error("b should not have been evicted by overwrite of a")
			}
		})
	}
}

// TestCache_TTLExpiry verifies expired entries are removed on read.
func TestCache_TTLExpiry(t *testing.T) {
	c, err := New[string, int](Config{MaxSize: 4, Policy: LRU, TTL: 10 * time.Millisecond})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	c.Put("a", 1)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("fresh entry should be readable")
	}

	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get("a"); ok {
		t.Error("expired entry should miss")
	}
	if c.Len() != 0 {
		t.Errorf("Len() after expiry read = %d, want 0", c.Len())
	}
}

// TestCache_TTLRefreshOnPut verifies overwriting a key resets its age.
func TestCache_TTLRefreshOnPut(t *testing.T) {
	c, err := New[string, int](Config{MaxSize: 4, Policy: LRU, TTL: 40 * time.Millisecond})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	c.Put("a", 1)
	time.Sleep(25 * time.Millisecond)
	c.Put("a", 2)
	time.Sleep(25 * time.Millisecond)

	if v, ok := c.Get("a"); !ok || v != 2 {
		t.Errorf("Get(a) = %d, %v, want 2, true (age reset by Put)", v, ok)
	}
}

// TestCache_ZeroTTLNeverExpires verifies TTL of zero disables expiry.
func TestCache_ZeroTTLNeverExpires(t *testing.T) {
	c, err := New[string, int](Config{MaxSize: 4, Policy: LRU})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	c.Put("a", 1)
	time.Sleep(5 * time.Millisecond)
	if _, ok := c.Get("a"); !ok {
		t.Error("entry with zero TTL should never expire")
	}
}

// TestCache_DeleteClear tests removal operations.
func TestCache_DeleteClear(t *testing.T) {
	c, err := New[string, int](Config{MaxSize: 4, Policy: LFU})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	c.Put("a", 1)
	c.Put("b", 2)

	if !c.Delete("a") {
		t.Error("Delete(a) = false, want true")
	}
	if c.Delete("a") {
		t.Error("Delete(a) twice = true, want false")
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", c.Len())
	}

	// cache must remain usable after Clear
	c.Put("x", 9)
	if v, ok := c.Get("x"); !ok || v != 9 {
		t.Errorf("Get(x) after Clear = %d, %v, want 9, true", v, ok)
	}
}

// TestCache_Stats tests the stats snapshot.
func TestCache_Stats(t *testing.T) {
	c, err := New[string, int](Config{MaxSize: 8, Policy: FIFO, TTL: time.Minute})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.Put("a", 1)

	s := c.Stats()
	if s.Size != 1 || s.MaxSize != 8 || s.Policy != FIFO || s.TTL != time.Minute {
		t.Errorf("Stats() = %+v", s)
	}
}

// TestCache_SizeBoundInvariant verifies the size never exceeds MaxSize
// under sustained insertion for every policy.
func TestCache_SizeBoundInvariant(t *testing.T) {
	for _, policy := range []Policy{LRU, LFU, FIFO, TTLOnly} {
		t.Run(policy.String(), func(t *testing.T) {
			c, err := New[int, int](Config{MaxSize: 16, Policy: policy})
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			for i := 0; i < 500; i++ {
				c.Put(i, i)
				if i%3 == 0 {
					c.Get(i / 2)
				}
				if c.Len() > 16 {
					t.Fatalf("Len() = %d exceeds max size 16", c.Len())
				}
			}
		})
	}
}

// TestCache_ConcurrentAccess exercises the cache from many goroutines.
// Run with -race.
func TestCache_ConcurrentAccess(t *testing.T) {
	c, err := New[string, int](Config{MaxSize: 32, Policy: LRU, TTL: time.Second})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", i%40)
				c.Put(key, g*1000+i)
				c.Get(key)
				if i%50 == 0 {
					c.Delete(key)
				}
			}
		}(g)
	}
	wg.Wait()

	if c.Len() > 32 {
		t.Errorf("Len() = %d exceeds max size after concurrent load", c.Len())
	}
}

// TestParsePolicy tests policy name parsing.
func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"lru", LRU, false},
		{"LFU", LFU, false},
		{"fifo", FIFO, false},
		{"ttl", TTLOnly, false},
		{"bogus", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePolicy(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownPolicy) {
					t.Errorf("ParsePolicy(%q) err = %v, want ErrUnknownPolicy", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParsePolicy(%q) = %v, %v, want %v, nil", tt.in, got, err, tt.want)
			}
		})
	}
}
