package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"questionapi/internal/model"
)

var (
	spansOnce sync.Once
	spans     *tracetest.SpanRecorder
)

// recordSpans installs a recording provider once; the package tracer delegates to the first one set.
func recordSpans() *tracetest.SpanRecorder {
	spansOnce.Do(func() {
		spans = tracetest.NewSpanRecorder()
		otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans)))
	})
	return spans
}

func endedSpan(rec *tracetest.SpanRecorder, name string) sdktrace.ReadOnlySpan {
	ended := rec.Ended()
	for i := len(ended) - 1; i >= 0; i-- {
		if ended[i].Name() == name {
			return ended[i]
		}
	}
	return nil
}

func TestQuestionService_RemoveAttachment_Span(t *testing.T) {
	rec := recordSpans()
	ctx := context.Background()
	f := newFixture(t)

	q := pickOne()
	q.Image = png("q")
	id, err := f.svc.Save(ctx, q)
	require.NoError(t, err)

	err = f.svc.RemoveAttachment(ctx, id, model.NodeRef{GroupID: "g1", AnswerID: "nope"})
	require.ErrorIs(t, err, ErrNodeNotFound)

	span := endedSpan(rec, "question.remove_attachment")
	require.NotNil(t, span)
	assert.Equal(t, codes.Error, span.Status().Code)

	require.NoError(t, f.svc.RemoveAttachment(ctx, id, model.NodeRef{}))
	span = endedSpan(rec, "question.remove_attachment")
	require.NotNil(t, span)
	assert.Equal(t, codes.Unset, span.Status().Code)

	assert.NotNil(t, endedSpan(rec, "question.save"))
}
