package observe

import (
	"context"
	"errors"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// TestOpMeta_SpanName tests span name construction.
func TestOpMeta_SpanName(t *testing.T) {
	tests := []struct {
		meta OpMeta
		want string
	}{
		{OpMeta{Component: "cache", Name: "get"}, "decision.exec.cache.get"},
		{OpMeta{Name: "validate"}, "decision.exec.validate"},
	}

	for _, tt := range tests {
		if got := tt.meta.SpanName(); got != tt.want {
			t.Errorf("SpanName(%+v) = %q, want %q", tt.meta, got, tt.want)
		}
	}
}

// TestOpMeta_OpID tests operation identifier derivation.
func TestOpMeta_OpID(t *testing.T) {
	tests := []struct {
		meta OpMeta
		want string
	}{
		{OpMeta{ID: "explicit.id", Component: "cache", Name: "get"}, "explicit.id"},
		{OpMeta{Component: "cache", Name: "get"}, "cache.get"},
		{OpMeta{Name: "get"}, "get"},
	}

	for _, tt := range tests {
		if got := tt.meta.OpID(); got != tt.want {
			t.Errorf("OpID(%+v) = %q, want %q", tt.meta, got, tt.want)
		}
	}
}

// TestTracer_StartEndSpan verifies span creation and attribute recording
// against an in-memory exporter.
func TestTracer_StartEndSpan(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer tp.Shutdown(context.Background())

	tracer := newTracer(tp.Tracer("test"))
	meta := OpMeta{Component: "pipeline", Name: "validate", Version: "1.0"}

	_, span := tracer.StartSpan(context.Background(), meta)
	tracer.EndSpan(span, nil)

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("exported spans = %d, want 1", len(spans))
	}
	if spans[0].Name != "decision.exec.pipeline.validate" {
		t.Errorf("span name = %q, want decision.exec.pipeline.validate", spans[0].Name)
	}

	found := map[string]bool{}
	for _, attr := range spans[0].Attributes {
		found[string(attr.Key)] = true
	}
	for _, key := range []string{"op.id", "op.name", "op.component", "op.version"} {
		if !found[key] {
			t.Errorf("span missing attribute %q", key)
		}
	}
}

// TestTracer_EndSpanRecordsError verifies error status propagation.
func TestTracer_EndSpanRecordsError(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer tp.Shutdown(context.Background())

	tracer := newTracer(tp.Tracer("test"))

	_, span := tracer.StartSpan(context.Background(), OpMeta{Name: "failing"})
	tracer.EndSpan(span, errors.New("decision failed"))

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("exported spans = %d, want 1", len(spans))
	}
	if len(spans[0].Events) == 0 {
		t.Error("expected a recorded error event on the span")
	}
}

// TestNoopTracer verifies the noop tracer is safe to use.
func TestNoopTracer(t *testing.T) {
	tracer := newNoopTracer()

	ctx, span := tracer.StartSpan(context.Background(), OpMeta{Name: "anything"})
	if ctx == nil || span == nil {
		t.Fatal("noop tracer should return a usable context and span")
	}
	tracer.EndSpan(span, errors.New("ignored"))
}
