package jsvgen

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/broady/jsvgen"

type telemetry struct {
	tracer   trace.Tracer
	compiled metric.Int64Counter
	duration metric.Float64Histogram
}

func newTelemetry(tp trace.TracerProvider, mp metric.MeterProvider) *telemetry {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(instrumentationName)

	// Instrument creation only fails on invalid names; the SDK then
	// returns a usable no-op instrument alongside the error.
	compiled, _ := meter.Int64Counter(
		"jsvgen.schemas.compiled",
		metric.WithDescription("Top-level schemas compiled into validators"),
		metric.WithUnit("{schema}"),
	)
	duration, _ := meter.Float64Histogram(
		"jsvgen.generate.duration",
		metric.WithDescription("Duration of a generate or check run"),
		metric.WithUnit("ms"),
	)
	return &telemetry{
		tracer:   tp.Tracer(instrumentationName),
		compiled: compiled,
		duration: duration,
	}
}

// stage runs fn inside a child span named jsvgen.<name>.
func (t *telemetry) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := t.tracer.Start(ctx, "jsvgen."+name)
	defer span.End()
	if err := fn(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (t *telemetry) record(ctx context.Context, mode string, start time.Time, schemas int, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	attrs := metric.WithAttributes(
		attribute.String("jsvgen.mode", mode),
		attribute.String("jsvgen.outcome", outcome),
	)
	if schemas > 0 {
		t.compiled.Add(ctx, int64(schemas), metric.WithAttributes(attribute.String("jsvgen.mode", mode)))
	}
	t.duration.Record(ctx, float64(time.Since(start).Microseconds())/1000, attrs)
}
