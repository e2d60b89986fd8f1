package validation

import "time"

// Status is the result status of a single validator run.
type Status int

const (
	// StatusValid indicates the check passed.
	StatusValid Status = iota
	// StatusInvalid indicates the check failed.
	StatusInvalid
	// StatusWarning indicates the check passed with reservations.
	StatusWarning
	// StatusSkipped indicates the validator did not apply to the context.
	StatusSkipped
	// StatusError indicates the validator itself failed to run.
	StatusError
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusInvalid:
		return "invalid"
	case StatusWarning:
		return "warning"
	case StatusSkipped:
		return "skipped"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Severity grades how serious an outcome is.
type Severity int

const (
	SeverityCritical Severity = iota
	SeverityHigh
	SeverityMedium
	SeverityLow
	SeverityInfo
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeverityHigh:
		return "high"
	case SeverityMedium:
		return "medium"
	case SeverityLow:
		return "low"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Outcome is the complete result of one validator run.
type Outcome struct {
	// ValidatorName is the name of the validator that produced this outcome.
	ValidatorName string

	// Status is the result status.
	Status Status

	// Severity grades the outcome.
	Severity Severity

	// Message provides additional context about the outcome.
	Message string

	// Details contains arbitrary metadata about the run.
	Details map[string]any

	// Duration is how long the validator took.
	Duration time.Duration
}

// IsSuccess reports whether the outcome does not represent a failure.
func (o Outcome) IsSuccess() bool {
	switch o.Status {
	case StatusValid, StatusWarning, StatusSkipped:
		return true
	default:
		return false
	}
}

// IsBlocking reports whether the outcome should halt further processing:
// an Invalid status at Critical or High severity.
func (o Outcome) IsBlocking() bool {
	return o.Status == StatusInvalid &&
		(o.Severity == SeverityCritical || o.Severity == SeverityHigh)
}

// Valid creates a passing outcome.
func Valid(name, message string) Outcome {
	return Outcome{ValidatorName: name, Status: StatusValid, Severity: SeverityInfo, Message: message}
}

// Invalid creates a failing outcome at the given severity.
func Invalid(name string, severity Severity, message string) Outcome {
	return Outcome{ValidatorName: name, Status: StatusInvalid, Severity: severity, Message: message}
}

// Warning creates a warning outcome.
func Warning(name, message string) Outcome {
	return Outcome{ValidatorName: name, Status: StatusWarning, Severity: SeverityMedium, Message: message}
}

// Skipped creates a skipped outcome.
func Skipped(name, message string) Outcome {
	return Outcome{ValidatorName: name, Status: StatusSkipped, Severity: SeverityInfo, Message: message}
}

// Errored creates an outcome for a validator that failed to run.
func Errored(name, message string) Outcome {
	return Outcome{ValidatorName: name, Status: StatusError, Severity: SeverityHigh, Message: message}
}

// WithDetails adds details to an outcome.
func (o Outcome) WithDetails(details map[string]any) Outcome {
	o.Details = details
	return o
}

// WithDuration sets the duration on an outcome.
func (o Outcome) WithDuration(d time.Duration) Outcome {
	o.Duration = d
	return o
}

// Summary aggregates a result map.
type Summary struct {
	Total         int
	Successful    int
	Blocking      int
	Warnings      int
	TotalDuration time.Duration
}

// Summarize computes aggregate counts and durations for a result map.
func Summarize(results map[string]Outcome) Summary {
	s := Summary{Total: len(results)}
	for _, o := range results {
		if o.IsSuccess() {
			s.Successful++
		}
		if o.IsBlocking() {
			s.Blocking++
		}
		if o.Status == StatusWarning {
			s.Warnings++
		}
		s.TotalDuration += o.Duration
	}
	return s
}
