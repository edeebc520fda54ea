package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupRecorder 使用内存Exporter替换全局Provider
func setupRecorder(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp, err := NewProvider(context.Background(), "library-test", sdktrace.WithSyncer(exporter))
	require.NoError(t, err)

	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return exporter
}

func TestStartSpan(t *testing.T) {
	exporter := setupRecorder(t)

	ctx, root := StartSpan(context.Background(), "library", "IssueBook")
	_, child := StartSpan(ctx, "library", "LockBook")
	child.End()
	root.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "LockBook", spans[0].Name)
	assert.Equal(t, spans[1].SpanContext.TraceID(), spans[0].SpanContext.TraceID(), "子Span继承TraceID")
	assert.Equal(t, spans[1].SpanContext.SpanID(), spans[0].Parent.SpanID())
}

func TestFinish(t *testing.T) {
	exporter := setupRecorder(t)

	_, ok := StartSpan(context.Background(), "library", "GetBook")
	Finish(ok, nil)

	_, failed := StartSpan(context.Background(), "library", "ReturnBook")
	Finish(failed, errors.New("already returned"))

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, codes.Ok, spans[0].Status.Code)
	assert.Equal(t, codes.Error, spans[1].Status.Code)
	assert.Len(t, spans[1].Events, 1, "错误作为事件记录")
}

func TestExtractTraceID(t *testing.T) {
	assert.Empty(t, ExtractTraceID(context.Background()), "没有Span时返回空")

	setupRecorder(t)
	ctx, span := StartSpan(context.Background(), "library", "ListBooks")
	defer span.End()

	traceID := ExtractTraceID(ctx)
	assert.Len(t, traceID, 32)
	assert.Equal(t, span.SpanContext().TraceID().String(), traceID)
}
