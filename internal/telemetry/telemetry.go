// Package telemetry wraps OpenTelemetry tracing for the pipeline: one root
// span per Job, which the connection handler ends as soon as the Job is
// enqueued, and a child span per stage traversed, started from the Job's
// context. The root span does not cover the Job's time in the pipeline.
// Disabled by config, it still hands back a usable no-op tracer.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"

	"graphflow/internal/config"
)

// Provider wraps a TracerProvider, or a no-op tracer when tracing is
// disabled.
type Provider struct {
	tp     *sdktrace.TracerProvider
	tracer trace.Tracer
}

var globalProvider *Provider

// Init builds a Provider from TracingConfig. When cfg.Enabled is false it
// returns a no-op tracer so callers never need a nil check.
func Init(ctx context.Context, cfg config.TracingConfig) (*Provider, error) {
	if !cfg.Enabled {
		p := &Provider{tracer: otel.Tracer(cfg.ServiceName)}
		globalProvider = p
		return p, nil
	}

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.Endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.ServiceName),
		),
	)
	if err != nil {
		return nil, err
	}

	var sampler sdktrace.Sampler
	switch {
	case cfg.SampleRate >= 1.0:
		sampler = sdktrace.AlwaysSample()
	case cfg.SampleRate <= 0:
		sampler = sdktrace.NeverSample()
	default:
		sampler = sdktrace.TraceIDRatioBased(cfg.SampleRate)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))

	p := &Provider{tp: tp, tracer: tp.Tracer(cfg.ServiceName)}
	globalProvider = p
	return p, nil
}

// Shutdown flushes and stops the tracer provider, if any.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.tp != nil {
		return p.tp.Shutdown(ctx)
	}
	return nil
}

// Get returns the process-wide Provider, defaulting to a no-op tracer.
func Get() *Provider {
	if globalProvider == nil {
		return &Provider{tracer: otel.Tracer("graphflow")}
	}
	return globalProvider
}

// StartJobSpan starts the root span for a Job's traversal of the pipeline.
func StartJobSpan(ctx context.Context, jobID, kind string) (context.Context, trace.Span) {
	return Get().tracer.Start(ctx, "job",
		trace.WithAttributes(attribute.String("job.id", jobID), attribute.String("job.kind", kind)),
	)
}

// StartStageSpan starts a child span for one pipeline stage's work on a Job.
func StartStageSpan(ctx context.Context, stage string) (context.Context, trace.Span) {
	return Get().tracer.Start(ctx, stage)
}

// SetError marks the current span as failed.
func SetError(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
