package validation

// DefaultPriority is the priority assigned when a validator does not care
// about ordering among its peers.
const DefaultPriority = 50

// Validator is a named check with declared dependencies.
//
// Contract:
// - Concurrency: implementations must be stateless or internally synchronized.
// - Errors: panics from CanValidate or Validate are contained by the
//   pipeline and converted to an error outcome; they never abort a run.
type Validator interface {
	// Name returns the validator's unique name.
	Name() string

	// Dependencies returns the names of validators that must complete first.
	Dependencies() []string

	// Priority orders validators that become available simultaneously;
	// higher runs earlier.
	Priority() int

	// CanValidate reports whether this validator applies to the context.
	CanValidate(ctx Context) bool

	// Validate performs the check and returns its outcome.
	Validate(ctx Context) Outcome
}

// ValidatorFunc is an adapter to allow ordinary functions to be used as
// Validators. A nil predicate applies to every context.
type ValidatorFunc struct {
	name        string
	deps        []string
	priority    int
	canValidate func(Context) bool
	validate    func(Context) Outcome
}

// NewValidatorFunc creates a ValidatorFunc.
func NewValidatorFunc(
	name string,
	deps []string,
	priority int,
	canValidate func(Context) bool,
	validate func(Context) Outcome,
) *ValidatorFunc {
	return &ValidatorFunc{
		name:        name,
		deps:        deps,
		priority:    priority,
		canValidate: canValidate,
		validate:    validate,
	}
}

// Name returns the validator's name.
func (f *ValidatorFunc) Name() string { return f.name }

// Dependencies returns the declared dependency names.
func (f *ValidatorFunc) Dependencies() []string { return f.deps }

// Priority returns the validator's priority.
func (f *ValidatorFunc) Priority() int { return f.priority }

// CanValidate reports whether the validator applies to the context.
func (f *ValidatorFunc) CanValidate(ctx Context) bool {
	if f.canValidate == nil {
		return true
	}
	return f.canValidate(ctx)
}

// Validate performs the check.
func (f *ValidatorFunc) Validate(ctx Context) Outcome {
	return f.validate(ctx)
}

// Ensure ValidatorFunc implements Validator
var _ Validator = (*ValidatorFunc)(nil)
