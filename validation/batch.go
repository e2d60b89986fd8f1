package validation

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ValidateBatch validates multiple contexts, running up to maxConcurrent
// pipelines at a time (1 when maxConcurrent is not positive). Results are
// keyed by file path. A configuration error (cyclic graph) aborts the whole
// batch; per-context validator failures are contained as outcomes.
func (p *Pipeline) ValidateBatch(ctx context.Context, contexts []Context, maxConcurrent int) (map[string]map[string]Outcome, error) {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	// Surface a cyclic graph before spawning workers.
	if _, err := p.graph.ExecutionOrder(); err != nil {
		return nil, err
	}

	var mu sync.Mutex
	results := make(map[string]map[string]Outcome, len(contexts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrent)

	for _, vctx := range contexts {
		g.Go(func() error {
			res, err := p.Validate(gctx, vctx)
			if err != nil {
				return err
			}
			mu.Lock()
			results[vctx.FilePath] = res
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
