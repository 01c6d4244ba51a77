package otel

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/NetPo4ki/go-treectx/treectx"
)

const scopeName = "github.com/NetPo4ki/go-treectx/observe/otel"

// Observer implements treectx.Observer by recording spans. A context's span
// stays open from creation to cancellation; a task's span covers its race
// from spawn to resolution. A context that is never cancelled keeps its
// span open, mirroring the relay that stays parked under it.
type Observer struct {
	tracer trace.Tracer

	mu        sync.Mutex
	ctxSpans  map[string]trace.Span
	taskSpans map[string]trace.Span
}

// New builds an observer on tp. A nil tp falls back to the global tracer
// provider.
func New(tp trace.TracerProvider) *Observer {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &Observer{
		tracer:    tp.Tracer(scopeName),
		ctxSpans:  make(map[string]trace.Span),
		taskSpans: make(map[string]trace.Span),
	}
}

func (o *Observer) ContextCreated(id, parentID string) {
	_, span := o.tracer.Start(context.Background(), "treectx.context",
		trace.WithAttributes(
			attribute.String("treectx.context.id", id),
			attribute.String("treectx.context.parent", parentID),
		))
	o.mu.Lock()
	o.ctxSpans[id] = span
	o.mu.Unlock()
}

func (o *Observer) ContextCancelled(id string, forwarded bool) {
	o.mu.Lock()
	span, ok := o.ctxSpans[id]
	delete(o.ctxSpans, id)
	o.mu.Unlock()
	if !ok {
		return
	}
	span.SetAttributes(attribute.Bool("treectx.cancel.forwarded", forwarded))
	span.End()
}

func (o *Observer) RelayDiscarded(parentID, childID string) {
	// Both ends of a discarded relay are already cancelled, so there is no
	// open span to attach to; the event is carried by metrics instead.
	_ = parentID
	_ = childID
}

func (o *Observer) TaskSpawned(ctxID, taskID string) {
	_, span := o.tracer.Start(context.Background(), "treectx.task",
		trace.WithAttributes(
			attribute.String("treectx.context.id", ctxID),
			attribute.String("treectx.task.id", taskID),
		))
	o.mu.Lock()
	o.taskSpans[taskID] = span
	o.mu.Unlock()
}

func (o *Observer) TaskFinished(_, taskID string, dur time.Duration, outcome treectx.Outcome) {
	o.mu.Lock()
	span, ok := o.taskSpans[taskID]
	delete(o.taskSpans, taskID)
	o.mu.Unlock()
	if !ok {
		return
	}
	span.SetAttributes(
		attribute.String("treectx.task.outcome", outcome.String()),
		attribute.Int64("treectx.task.duration_ms", dur.Milliseconds()),
	)
	span.End()
}
