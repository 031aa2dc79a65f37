package handler

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/palemoky/rps-cards/internal/server/handler"

// startSpan 为一个入站事件开启 span
func (h *Handler) startSpan(event, connectionID string, attrs ...attribute.KeyValue) trace.Span {
	attrs = append(attrs,
		attribute.String("rps.event_type", event),
		attribute.String("rps.connection_id", connectionID),
	)
	_, span := h.tracer.Start(context.Background(), "rps."+event,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attrs...),
	)
	return span
}

// endSpan 结束 span，被丢弃的事件记为错误
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
