// Package validation provides a dependency-graph-driven validator pipeline.
//
// Validators declare named dependencies; the graph computes a deterministic
// execution order (topological sort with priority tie-breaking) and the
// pipeline executes it with result caching, panic containment, and optional
// fail-fast short-circuiting on blocking failures. Cycles are a fatal
// configuration error, never silently dropped.
package validation
