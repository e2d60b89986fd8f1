package validation

import (
	"context"
	"fmt"
	"time"

	"github.com/jonwraymond/decisionkit/cache"
	"github.com/jonwraymond/decisionkit/metrics"
	"github.com/jonwraymond/decisionkit/observe"
)

// pipelineOp is the metrics operation name for whole-run validation.
const pipelineOp = "pipeline_validate"

// PipelineConfig configures a Pipeline.
type PipelineConfig struct {
	// FailFast stops the run at the first blocking failure.
	// Default: true
	FailFast bool

	// EnableParallel is informational only: the pipeline always executes
	// sequentially; ExecutionLevels reports what could run concurrently.
	EnableParallel bool

	// CacheSize bounds the whole-run result cache.
	// Default: 512
	CacheSize int

	// ResultTTL is the engine-level TTL for cached whole-run results,
	// independent of individual validator caches.
	// Default: 30 minutes
	ResultTTL time.Duration

	// Logger receives validator failure logs. Default: discard.
	Logger observe.Logger

	// Publisher mirrors run and per-validator observations to an
	// OpenTelemetry meter. Default: nil (discard).
	Publisher *metrics.Publisher
}

// Pipeline executes a validator graph against contexts, caching whole-run
// results by context fingerprint.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Errors: panics from validators are contained as error outcomes; a cyclic
//   graph refuses to run and surfaces *CycleError.
type Pipeline struct {
	cfg       PipelineConfig
	graph     *Graph
	results   *cache.Cache[string, map[string]Outcome]
	recorder  *metrics.Recorder
	publisher *metrics.Publisher
	logger    observe.Logger
}

// NewPipeline creates a Pipeline with an empty graph.
func NewPipeline(config ...PipelineConfig) (*Pipeline, error) {
	cfg := PipelineConfig{
		FailFast:  true,
		CacheSize: 512,
		ResultTTL: 30 * time.Minute,
	}
	if len(config) > 0 {
		cfg = config[0]
		if cfg.CacheSize <= 0 {
			cfg.CacheSize = 512
		}
		if cfg.ResultTTL < 0 {
			cfg.ResultTTL = 0
		}
	}
	if cfg.Logger == nil {
		cfg.Logger = observe.NopLogger()
	}

	results, err := cache.New[string, map[string]Outcome](cache.Config{
		MaxSize: cfg.CacheSize,
		Policy:  cache.LRU,
		TTL:     cfg.ResultTTL,
	})
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		cfg:       cfg,
		graph:     NewGraph(),
		results:   results,
		recorder:  metrics.NewRecorder(),
		publisher: cfg.Publisher,
		logger:    cfg.Logger,
	}, nil
}

// AddValidator adds a validator to the pipeline's graph.
func (p *Pipeline) AddValidator(v Validator) error {
	return p.graph.AddValidator(v)
}

// Graph returns the pipeline's dependency graph.
func (p *Pipeline) Graph() *Graph {
	return p.graph
}

// ExecutionOrder returns the graph's execution order.
func (p *Pipeline) ExecutionOrder() ([]string, error) {
	return p.graph.ExecutionOrder()
}

// Validate runs every reachable validator against vctx in dependency order
// and returns a map of outcomes keyed by validator name. Validators that are
// not reached (fail-fast stop) are absent from the map, never synthesized.
//
// Whole-run results are cached by the context fingerprint with the
// engine-level TTL.
func (p *Pipeline) Validate(ctx context.Context, vctx Context) (map[string]Outcome, error) {
	start := time.Now()

	order, err := p.graph.ExecutionOrder()
	if err != nil {
		return nil, err
	}

	fp := vctx.Fingerprint()
	if cached, ok := p.results.Get(fp); ok {
		p.record(ctx, pipelineOp, time.Since(start), true)
		return copyResults(cached), nil
	}

	results := p.run(ctx, order, vctx)

	p.results.Put(fp, results)
	p.record(ctx, pipelineOp, time.Since(start), false)
	return copyResults(results), nil
}

func (p *Pipeline) record(ctx context.Context, op string, d time.Duration, hit bool) {
	p.recorder.Record(op, d, hit)
	p.publisher.Publish(ctx, op, d, hit)
}

func (p *Pipeline) run(ctx context.Context, order []string, vctx Context) map[string]Outcome {
	results := make(map[string]Outcome, len(order))
	completed := make(map[string]struct{}, len(order))

	for _, name := range order {
		v, ok := p.graph.Get(name)
		if !ok {
			continue
		}

		applicable, failure := p.canValidate(v, vctx)
		if failure != nil {
			results[name] = *failure
			p.logOutcome(ctx, name, *failure)
			if p.cfg.FailFast {
				break
			}
			continue
		}
		if !applicable {
			results[name] = Skipped(name, "validator not applicable to this context")
			completed[name] = struct{}{}
			continue
		}

		if !p.graph.CanExecute(name, completed) {
			results[name] = Errored(name, "dependencies not satisfied")
			if p.cfg.FailFast {
				break
			}
			continue
		}

		vStart := time.Now()
		outcome, panicked := p.runValidator(v, vctx)
		outcome.Duration = time.Since(vStart)

		p.record(ctx, name, outcome.Duration, false)
		results[name] = outcome

		// A contained panic does not satisfy the validator's dependents;
		// an outcome the validator chose to return does.
		if !panicked {
			completed[name] = struct{}{}
		}

		if outcome.Status == StatusError {
			p.logOutcome(ctx, name, outcome)
		}

		if p.cfg.FailFast && (outcome.IsBlocking() || panicked) {
			break
		}
	}

	return results
}

// canValidate invokes the applicability predicate with panic containment.
// A panic yields an error outcome instead of aborting the run.
func (p *Pipeline) canValidate(v Validator, vctx Context) (applicable bool, failure *Outcome) {
	defer func() {
		if r := recover(); r != nil {
			o := Errored(v.Name(), fmt.Sprintf("applicability check panicked: %v", r))
			failure = &o
		}
	}()
	return v.CanValidate(vctx), nil
}

// runValidator invokes the validator with panic containment.
func (p *Pipeline) runValidator(v Validator, vctx Context) (outcome Outcome, panicked bool) {
	defer func() {
		if r := recover(); r != nil {
			outcome = Errored(v.Name(), fmt.Sprintf("validator panicked: %v", r))
			panicked = true
		}
	}()
	return v.Validate(vctx), false
}

func (p *Pipeline) logOutcome(ctx context.Context, name string, o Outcome) {
	p.logger.Error(ctx, "validator failed",
		observe.Field{Key: "validator", Value: name},
		observe.Field{Key: "status", Value: o.Status.String()},
		observe.Field{Key: "severity", Value: o.Severity.String()},
		observe.Field{Key: "message", Value: o.Message},
	)
}

// ClearCache discards all cached whole-run results.
func (p *Pipeline) ClearCache() {
	p.results.Clear()
}

// CacheStats returns the result cache's current shape.
func (p *Pipeline) CacheStats() cache.Stats {
	return p.results.Stats()
}

// Metrics returns per-validator and whole-run metrics.
func (p *Pipeline) Metrics() map[string]metrics.OpMetrics {
	return p.recorder.Snapshot()
}

func copyResults(in map[string]Outcome) map[string]Outcome {
	out := make(map[string]Outcome, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
