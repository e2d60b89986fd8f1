// Package memo provides function memoization backed by a bounded cache.
//
// A wrapped function canonicalizes its arguments into a deterministic key,
// serves repeats from an LRU cache (optionally with TTL), and records hit and
// miss latency. Errors are never cached.
package memo
