package cache

import "errors"

// Configuration errors.
var (
	// ErrInvalidMaxSize indicates Config.MaxSize is not positive.
	ErrInvalidMaxSize = errors.New("cache: max size must be positive")

	// ErrUnknownPolicy indicates an unrecognized eviction policy.
	ErrUnknownPolicy = errors.New("cache: unknown eviction policy")

	// ErrInvalidTTL indicates a negative TTL.
	ErrInvalidTTL = errors.New("cache: ttl must not be negative")
)

// Key derivation errors.
var (
	// ErrUnhashableArgument indicates an argument could not be canonicalized.
	ErrUnhashableArgument = errors.New("cache: argument cannot be canonicalized")
)
