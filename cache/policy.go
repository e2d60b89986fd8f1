package cache

import (
	"fmt"
	"strings"
	"time"
)

// Policy selects which entry is removed when a full cache admits a new key.
type Policy int

const (
	// LRU evicts the least recently used entry.
	LRU Policy = iota
	// LFU evicts the least frequently used entry, ties broken by earliest insertion.
	LFU
	// FIFO evicts entries in strict insertion order, independent of access pattern.
	FIFO
	// TTLOnly carries no access bookkeeping; entries expire by TTL and
	// capacity overflow falls back to insertion order.
	TTLOnly
)

// String returns the string representation of the policy.
func (p Policy) String() string {
	switch p {
	case LRU:
		return "lru"
	case LFU:
		return "lfu"
	case FIFO:
		return "fifo"
	case TTLOnly:
		return "ttl"
	default:
		return "unknown"
	}
}

// ParsePolicy parses a policy name, case-insensitively.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(s) {
	case "lru":
		return LRU, nil
	case "lfu":
		return LFU, nil
	case "fifo":
		return FIFO, nil
	case "ttl":
		return TTLOnly, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

// Config configures a Cache. Policy and TTL are independent: any policy may
// additionally carry a TTL, checked on every Get.
type Config struct {
	// MaxSize is the maximum number of entries. Must be > 0.
	MaxSize int

	// Policy is the eviction policy. Fixed for the cache's lifetime.
	Policy Policy

	// TTL is the maximum entry age. Zero disables expiry.
	TTL time.Duration
}

// DefaultConfig returns the default cache configuration:
// 256 entries, LRU, no TTL.
func DefaultConfig() Config {
	return Config{MaxSize: 256, Policy: LRU}
}

// Validate validates the configuration.
func (c Config) Validate() error {
	if c.MaxSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxSize, c.MaxSize)
	}
	if c.Policy < LRU || c.Policy > TTLOnly {
		return fmt.Errorf("%w: %d", ErrUnknownPolicy, int(c.Policy))
	}
	if c.TTL < 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTTL, c.TTL)
	}
	return nil
}

// Stats describes a cache's current shape.
type Stats struct {
	Size    int
	MaxSize int
	Policy  Policy
	TTL     time.Duration
}
