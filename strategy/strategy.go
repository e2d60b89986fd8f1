package strategy

// Strategy is a self-contained decision rule: a predicate for applicability
// and an action producing a result.
//
// Contract:
// - Concurrency: implementations must be stateless or internally synchronized.
// - Errors: Execute errors propagate to the caller unchanged.
type Strategy[C, T any] interface {
	// Priority orders strategies; higher is preferred.
	Priority() int

	// CanHandle reports whether this strategy applies to the context.
	CanHandle(ctx C) bool

	// Execute produces the strategy's result for the context.
	Execute(ctx C) (T, error)
}

// Func is an adapter to allow ordinary functions to be used as Strategies.
type Func[C, T any] struct {
	priority  int
	canHandle func(C) bool
	execute   func(C) (T, error)
}

// NewFunc creates a Strategy from a predicate and an action.
func NewFunc[C, T any](priority int, canHandle func(C) bool, execute func(C) (T, error)) *Func[C, T] {
	return &Func[C, T]{priority: priority, canHandle: canHandle, execute: execute}
}

// Priority returns the strategy's priority.
func (f *Func[C, T]) Priority() int { return f.priority }

// CanHandle reports whether the strategy applies to the context.
// A nil predicate matches every context.
func (f *Func[C, T]) CanHandle(ctx C) bool {
	if f.canHandle == nil {
		return true
	}
	return f.canHandle(ctx)
}

// Execute produces the strategy's result.
func (f *Func[C, T]) Execute(ctx C) (T, error) { return f.execute(ctx) }

// Ensure Func implements Strategy
var _ Strategy[any, any] = (*Func[any, any])(nil)
