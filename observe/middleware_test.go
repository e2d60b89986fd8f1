package observe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// recordingMetrics captures RecordExecution calls for assertions.
type recordingMetrics struct {
	calls  atomic.Int64
	errors atomic.Int64
}

func (m *recordingMetrics) RecordExecution(ctx context.Context, meta OpMeta, duration time.Duration, err error) {
	m.calls.Add(1)
	if err != nil {
		m.errors.Add(1)
	}
}

// recordingTracer counts span lifecycle calls.
type recordingTracer struct {
	started atomic.Int64
	ended   atomic.Int64
	noop    trace.Tracer
}

func newRecordingTracer() *recordingTracer {
	return &recordingTracer{noop: tracenoop.NewTracerProvider().Tracer("test")}
}

func (t *recordingTracer) StartSpan(ctx context.Context, meta OpMeta) (context.Context, trace.Span) {
	t.started.Add(1)
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *recordingTracer) EndSpan(span trace.Span, err error) {
	t.ended.Add(1)
	span.End()
}

// TestMiddleware_WrapSuccess verifies result passthrough and telemetry
// on the success path.
func TestMiddleware_WrapSuccess(t *testing.T) {
	tracer := newRecordingTracer()
	metrics := &recordingMetrics{}
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	mw := NewMiddleware(tracer, metrics, logger)
	fn := mw.Wrap(func(ctx context.Context, op OpMeta, input any) (any, error) {
		return "decided", nil
	})

	result, err := fn(context.Background(), OpMeta{Component: "strategy", Name: "select"}, "query")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if result != "decided" {
		t.Errorf("result = %v, want decided", result)
	}
	if tracer.started.Load() != 1 || tracer.ended.Load() != 1 {
		t.Errorf("span lifecycle = %d started, %d ended, want 1/1", tracer.started.Load(), tracer.ended.Load())
	}
	if metrics.calls.Load() != 1 || metrics.errors.Load() != 0 {
		t.Errorf("metrics = %d calls, %d errors, want 1/0", metrics.calls.Load(), metrics.errors.Load())
	}

	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("failed to parse log output as JSON: %v", err)
	}
	if logEntry["level"] != "info" {
		t.Errorf("expected info log for success, got %v", logEntry["level"])
	}
	if _, ok := logEntry["duration_ms"]; !ok {
		t.Error("expected duration_ms in execution log")
	}
}

// TestMiddleware_WrapError verifies error propagation and telemetry on
// the failure path.
func TestMiddleware_WrapError(t *testing.T) {
	tracer := newRecordingTracer()
	metrics := &recordingMetrics{}
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	boom := errors.New("decision failed")
	mw := NewMiddleware(tracer, metrics, logger)
	fn := mw.Wrap(func(ctx context.Context, op OpMeta, input any) (any, error) {
		return nil, boom
	})

	_, err := fn(context.Background(), OpMeta{Name: "select"}, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error to propagate unchanged, got: %v", err)
	}
	if metrics.errors.Load() != 1 {
		t.Errorf("metrics errors = %d, want 1", metrics.errors.Load())
	}
	if tracer.ended.Load() != 1 {
		t.Errorf("span ended = %d, want 1 (even on failure)", tracer.ended.Load())
	}

	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("failed to parse log output as JSON: %v", err)
	}
	if logEntry["level"] != "error" {
		t.Errorf("expected error log for failure, got %v", logEntry["level"])
	}
	if logEntry["error"] != "decision failed" {
		t.Errorf("expected error field, got %v", logEntry["error"])
	}
}

// TestMiddlewareFromObserver verifies construction from an Observer and
// the nil guard.
func TestMiddlewareFromObserver(t *testing.T) {
	if _, err := MiddlewareFromObserver(nil); !errors.Is(err, ErrNilObserver) {
		t.Errorf("MiddlewareFromObserver(nil) = %v, want ErrNilObserver", err)
	}

	obs, err := NewObserver(context.Background(), Config{ServiceName: "decisionkit-test"})
	if err != nil {
		t.Fatalf("NewObserver: %v", err)
	}
	mw, err := MiddlewareFromObserver(obs)
	if err != nil {
		t.Fatalf("MiddlewareFromObserver: %v", err)
	}

	fn := mw.Wrap(func(ctx context.Context, op OpMeta, input any) (any, error) {
		return input, nil
	})
	result, err := fn(context.Background(), OpMeta{Name: "echo"}, 42)
	if err != nil || result != 42 {
		t.Errorf("wrapped fn = %v, %v, want 42, nil", result, err)
	}
}
