// Package observe provides observability primitives for decision execution.
//
// It is a pure instrumentation library: no execution, no transport, no I/O
// beyond exporter setup. Consumers wire the observer into the registry,
// strategy selector, or validation pipeline.
package observe
