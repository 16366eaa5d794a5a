package exporters

import (
	"runtime"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/cheerioo/api/infrastructure/config"
)

const (
	defaultJaegerEndpoint = "http://localhost:14268/api/traces"
	defaultAppName        = "cheerioo-api"
)

func InitJaegerExporter(config *config.Config) (*sdktrace.TracerProvider, error) {
	if config.Jaeger.ServiceName == "" {
		config.Jaeger.ServiceName = defaultAppName
	}
	if config.Jaeger.ServiceVersion == "" {
		config.Jaeger.ServiceVersion = "unknown"
	}
	if config.Jaeger.Endpoint == "" {
		config.Jaeger.Endpoint = defaultJaegerEndpoint
	}

	exp, err := jaeger.New(
		jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(config.Jaeger.Endpoint)),
	)
	if err != nil {
		return nil, err
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(config.Jaeger.ServiceName),
			semconv.ServiceVersion(config.Jaeger.ServiceVersion),
			attribute.String("go.version", runtime.Version()),
			attribute.String("os", runtime.GOOS),
			attribute.String("arch", runtime.GOARCH),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)

	return tp, nil
}
