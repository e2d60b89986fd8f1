package validation

// Impact describes how the dependency graph shapes execution. Purely
// informational: the pipeline's sequential execution contract is unchanged.
type Impact struct {
	// ExecutionOrder is the sequential order the pipeline uses.
	ExecutionOrder []string

	// CriticalPath is the longest dependency chain.
	CriticalPath []string

	// ExecutionLevels groups validators that could run concurrently.
	ExecutionLevels [][]string

	// ParallelizationOpportunities is the number of execution levels.
	ParallelizationOpportunities int

	// MaxParallelValidators is the size of the widest level.
	MaxParallelValidators int

	// TotalValidators is the number of registered validators.
	TotalValidators int

	// TotalDependencies is the number of dependency edges.
	TotalDependencies int
}

// AnalyzeDependencyImpact computes execution levels and the critical path
// for the pipeline's graph.
func (p *Pipeline) AnalyzeDependencyImpact() (Impact, error) {
	order, err := p.graph.ExecutionOrder()
	if err != nil {
		return Impact{}, err
	}

	levels, err := p.graph.ExecutionLevels()
	if err != nil {
		return Impact{}, err
	}

	critical, err := p.graph.CriticalPath()
	if err != nil {
		return Impact{}, err
	}

	maxParallel := 0
	for _, level := range levels {
		if len(level) > maxParallel {
			maxParallel = len(level)
		}
	}

	return Impact{
		ExecutionOrder:               order,
		CriticalPath:                 critical,
		ExecutionLevels:              levels,
		ParallelizationOpportunities: len(levels),
		MaxParallelValidators:        maxParallel,
		TotalValidators:              p.graph.Len(),
		TotalDependencies:            p.graph.DependencyCount(),
	}, nil
}
