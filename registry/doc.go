// Package registry provides a named-factory registry with per-factory result
// caching: "create or fetch the cached instance for this name and argument
// list".
//
// Each registered name owns a dedicated bounded cache and its own hit/miss
// latency metrics. Factory errors propagate to the caller and are never
// cached.
package registry
