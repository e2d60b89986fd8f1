package validation

import (
	"sort"
	"strings"
	"sync"
)

// Graph owns a set of validators and their dependency edges, and computes a
// deterministic execution order.
//
// Contract:
// - Concurrency: safe for concurrent use. The cached order is invalidated
//   under lock on mutation; readers never observe a partially-rebuilt order.
// - Errors: a cycle is reported by ExecutionOrder as *CycleError and is
//   never silently dropped.
type Graph struct {
	mu         sync.Mutex
	validators map[string]Validator
	deps       map[string]map[string]struct{}
	dependents map[string]map[string]struct{}

	// Cached execution order; nil until computed, reset on mutation.
	order []string
}

// NewGraph creates an empty Graph.
func NewGraph() *Graph {
	return &Graph{
		validators: make(map[string]Validator),
		deps:       make(map[string]map[string]struct{}),
		dependents: make(map[string]map[string]struct{}),
	}
}

// AddValidator records the validator and its dependency edges, replacing any
// validator with the same name, and invalidates the cached execution order.
func (g *Graph) AddValidator(v Validator) error {
	if v == nil {
		return ErrNilValidator
	}
	name := strings.TrimSpace(v.Name())
	if name == "" {
		return ErrEmptyName
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	// Drop edges from a previous registration of the same name.
	for dep := range g.deps[name] {
		delete(g.dependents[dep], name)
	}

	g.validators[name] = v
	g.deps[name] = make(map[string]struct{})
	for _, dep := range v.Dependencies() {
		g.deps[name][dep] = struct{}{}
		if g.dependents[dep] == nil {
			g.dependents[dep] = make(map[string]struct{})
		}
		g.dependents[dep][name] = struct{}{}
	}

	g.order = nil
	return nil
}

// Get returns the validator registered under name.
func (g *Graph) Get(name string) (Validator, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	v, ok := g.validators[name]
	return v, ok
}

// Len returns the number of registered validators.
func (g *Graph) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.validators)
}

// Names returns registered validator names in sorted order.
func (g *Graph) Names() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	names := make([]string, 0, len(g.validators))
	for name := range g.validators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ExecutionOrder returns a topological order over the graph using Kahn's
// algorithm. Ties among simultaneously-available validators are broken by
// descending priority, then by name for determinism. The order is cached
// until the graph is mutated.
//
// Cycle detection is lazy but deterministic: every call made after the graph
// becomes cyclic returns *CycleError; a stale pre-cycle order is never
// served because mutation invalidates the cache.
func (g *Graph) ExecutionOrder() ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.executionOrderLocked()
}

func (g *Graph) executionOrderLocked() ([]string, error) {
	if g.order != nil {
		out := make([]string, len(g.order))
		copy(out, g.order)
		return out, nil
	}

	// Edges to unregistered names never resolve, so a node depending on an
	// unknown validator surfaces in the unresolved report rather than
	// executing with missing prerequisites.
	inDegree := make(map[string]int, len(g.validators))
	for name := range g.validators {
		inDegree[name] = len(g.deps[name])
	}

	var available []string
	for name, degree := range inDegree {
		if degree == 0 {
			available = append(available, name)
		}
	}
	g.sortAvailable(available)

	order := make([]string, 0, len(g.validators))
	for len(available) > 0 {
		current := available[0]
		available = available[1:]
		order = append(order, current)

		for dependent := range g.dependents[current] {
			if _, ok := g.validators[dependent]; !ok {
				continue
			}
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				available = append(available, dependent)
				g.sortAvailable(available)
			}
		}
	}

	if len(order) != len(g.validators) {
		remaining := make([]string, 0, len(g.validators)-len(order))
		placed := make(map[string]struct{}, len(order))
		for _, name := range order {
			placed[name] = struct{}{}
		}
		for name := range g.validators {
			if _, ok := placed[name]; !ok {
				remaining = append(remaining, name)
			}
		}
		sort.Strings(remaining)
		return nil, &CycleError{Remaining: remaining}
	}

	g.order = order
	out := make([]string, len(order))
	copy(out, order)
	return out, nil
}

// sortAvailable orders ready validators by descending priority, then name.
func (g *Graph) sortAvailable(available []string) {
	sort.SliceStable(available, func(i, j int) bool {
		pi := g.validators[available[i]].Priority()
		pj := g.validators[available[j]].Priority()
		if pi != pj {
			return pi > pj
		}
		return available[i] < available[j]
	})
}

// DependencyCount returns the number of dependency edges in the graph.
func (g *Graph) DependencyCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := 0
	for _, deps := range g.deps {
		n += len(deps)
	}
	return n
}

// CanExecute reports whether every dependency of name is in completed.
func (g *Graph) CanExecute(name string, completed map[string]struct{}) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	for dep := range g.deps[name] {
		if _, ok := completed[dep]; !ok {
			return false
		}
	}
	return true
}

// ExecutionLevels groups validators into levels that could run concurrently:
// each level contains every validator whose dependencies are fully satisfied
// by earlier levels. Purely informational.
func (g *Graph) ExecutionLevels() ([][]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	// Reuse cycle detection from the order computation.
	if _, err := g.executionOrderLocked(); err != nil {
		return nil, err
	}

	remaining := make(map[string]struct{}, len(g.validators))
	for name := range g.validators {
		remaining[name] = struct{}{}
	}
	completed := make(map[string]struct{}, len(g.validators))

	var levels [][]string
	for len(remaining) > 0 {
		var level []string
		for name := range remaining {
			ready := true
			for dep := range g.deps[name] {
				if _, ok := completed[dep]; !ok {
					ready = false
					break
				}
			}
			if ready {
				level = append(level, name)
			}
		}
		if len(level) == 0 {
			break
		}
		g.sortAvailable(level)
		levels = append(levels, level)
		for _, name := range level {
			delete(remaining, name)
			completed[name] = struct{}{}
		}
	}

	return levels, nil
}

// CriticalPath returns the longest dependency chain in the graph: the
// sequence of validators that bounds how quickly a fully parallel execution
// could finish. Ties are broken by name for determinism.
func (g *Graph) CriticalPath() ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	order, err := g.executionOrderLocked()
	if err != nil {
		return nil, err
	}
	if len(order) == 0 {
		return nil, nil
	}

	depth := make(map[string]int, len(order))
	parent := make(map[string]string, len(order))

	for _, name := range order {
		best := 0
		bestDep := ""
		for dep := range g.deps[name] {
			if _, ok := g.validators[dep]; !ok {
				continue
			}
			if depth[dep] > best || (depth[dep] == best && bestDep != "" && dep < bestDep) {
				best = depth[dep]
				bestDep = dep
			}
		}
		depth[name] = best + 1
		if bestDep != "" {
			parent[name] = bestDep
		}
	}

	// Deepest node, name ascending on ties.
	end := order[0]
	for _, name := range order {
		if depth[name] > depth[end] || (depth[name] == depth[end] && name < end) {
			end = name
		}
	}

	var path []string
	for name := end; name != ""; name = parent[name] {
		path = append([]string{name}, path...)
		if _, ok := parent[name]; !ok {
			break
		}
	}
	return path, nil
}
