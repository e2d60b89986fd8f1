// Package strategy provides priority-ordered strategy selection with result
// caching.
//
// A Selector holds strategies sorted by descending priority (ties keep
// registration order) and picks the first one whose predicate accepts a
// context, caching the context-to-strategy mapping. Absence is never cached
// so later registrations can match future identical contexts immediately.
package strategy
