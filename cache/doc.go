// Package cache provides a bounded in-memory cache with pluggable eviction
// policies (LRU, LFU, FIFO) and optional TTL expiry.
//
// It also provides deterministic SHA-256 key derivation over arbitrary
// argument lists, used by the registry, strategy, and memo packages so that
// semantically identical calls always hash identically.
package cache
