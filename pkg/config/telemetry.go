package config

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"github.com/KillMonga130/Toyota-hackathon/log"
	"github.com/KillMonga130/Toyota-hackathon/version"
)

// Telemetry holds the configured OpenTelemetry providers.
type Telemetry struct {
	meterProvider  *sdkmetric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
}

// SetupTelemetry configures the global meter and tracer providers.
// When TelemetryEndpoint is set the data is exported via OTLP/gRPC,
// otherwise stdout exporters are used (keeps everything local).
func SetupTelemetry(ctx context.Context) (*Telemetry, error) {
	res, err := resource.Merge(resource.Default(),
		resource.NewWithAttributes(semconv.SchemaURL,
			semconv.ServiceName("grcoach"),
			semconv.ServiceVersion(version.Version),
		))
	if err != nil {
		return nil, err
	}

	var (
		metricReader sdkmetric.Reader
		spanExporter sdktrace.SpanExporter
	)
	if TelemetryEndpoint != "" {
		metricExp, expErr := otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(TelemetryEndpoint),
			otlpmetricgrpc.WithInsecure())
		if expErr != nil {
			return nil, expErr
		}
		metricReader = sdkmetric.NewPeriodicReader(metricExp,
			sdkmetric.WithInterval(15*time.Second))
		if spanExporter, expErr = otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(TelemetryEndpoint),
			otlptracegrpc.WithInsecure()); expErr != nil {
			return nil, expErr
		}
	} else {
		metricExp, expErr := stdoutmetric.New()
		if expErr != nil {
			return nil, expErr
		}
		metricReader = sdkmetric.NewPeriodicReader(metricExp,
			sdkmetric.WithInterval(15*time.Second))
		if spanExporter, expErr = stdouttrace.New(); expErr != nil {
			return nil, expErr
		}
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(metricReader),
	)
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(spanExporter),
	)
	otel.SetMeterProvider(mp)
	otel.SetTracerProvider(tp)
	return &Telemetry{meterProvider: mp, tracerProvider: tp}, nil
}

// Shutdown flushes and stops the providers.
func (t *Telemetry) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := t.meterProvider.Shutdown(ctx); err != nil {
		log.Warn("could not shutdown meter provider", log.ErrorField(err))
	}
	if err := t.tracerProvider.Shutdown(ctx); err != nil {
		log.Warn("could not shutdown tracer provider", log.ErrorField(err))
	}
}
