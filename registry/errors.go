package registry

import "errors"

var (
	// ErrEmptyName indicates a factory was registered without a name.
	ErrEmptyName = errors.New("registry: factory name is required")

	// ErrNilFactory indicates a nil factory was registered.
	ErrNilFactory = errors.New("registry: factory is nil")
)
