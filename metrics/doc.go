// Package metrics provides per-operation call, hit, and latency accounting
// for decision caches and pipelines.
//
// A Recorder tracks named operations; a Publisher optionally bridges the
// observations to an OpenTelemetry meter.
package metrics
