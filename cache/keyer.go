package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
)

// Keyer generates deterministic cache keys from an operation name and its
// arguments.
//
// Contract:
// - Determinism: identical arguments must produce the same key, regardless
//   of map iteration order.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	// Key generates a cache key from an operation name and arguments.
	Key(op string, args ...any) (string, error)
}

// DefaultKeyer generates SHA-256 based cache keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a new default keyer.
func NewDefaultKeyer() *DefaultKeyer {
	return &DefaultKeyer{}
}

// Key generates a deterministic cache key.
// Format: decision:<op>:<hash>
// where hash is the first 16 hex characters of SHA-256 over the canonical
// JSON encoding of the argument list.
func (k *DefaultKeyer) Key(op string, args ...any) (string, error) {
	canonical, err := canonicalizeSlice(args)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnhashableArgument, err)
	}

	hash := sha256.Sum256(canonical)
	return fmt.Sprintf("decision:%s:%s", op, hex.EncodeToString(hash[:8])), nil
}

// canonicalize produces a deterministic JSON representation of a value.
// Maps are encoded with sorted keys; nested lists and maps are normalized
// recursively. Other types rely on encoding/json, which already sorts map
// keys and serializes struct fields in declaration order.
func canonicalize(v any) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}

	switch val := v.(type) {
	case map[string]any:
		return canonicalizeMap(val)
	case []any:
		return canonicalizeSlice(val)
	default:
		return json.Marshal(v)
	}
}

func canonicalizeMap(m map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := []byte("{")
	for i, k := range keys {
		if i > 0 {
			result = append(result, ',')
		}

		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		result = append(result, keyBytes...)
		result = append(result, ':')

		valBytes, err := canonicalize(m[k])
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	result = append(result, '}')

	return result, nil
}

func canonicalizeSlice(s []any) ([]byte, error) {
	result := []byte("[")
	for i, v := range s {
		if i > 0 {
			result = append(result, ',')
		}

		valBytes, err := canonicalize(v)
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	result = append(result, ']')

	return result, nil
}

// Ensure DefaultKeyer implements Keyer
var _ Keyer = (*DefaultKeyer)(nil)
