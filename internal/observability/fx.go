package observability

import (
	"github.com/smallbiznis/kolekta/internal/config"
	"github.com/smallbiznis/kolekta/internal/observability/metrics"
	"github.com/smallbiznis/kolekta/internal/observability/tracing"
	"go.opentelemetry.io/otel"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("observability",
	fx.Provide(newMetricsConfig),
	fx.Provide(newHTTPMetrics),
	fx.Invoke(initTracing),
)

func newMetricsConfig(cfg config.Config) metrics.Config {
	return metrics.Config{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
	}
}

func newHTTPMetrics(cfg metrics.Config) (*metrics.HTTPMetrics, error) {
	return metrics.NewHTTPMetrics(cfg, otel.GetMeterProvider())
}

func initTracing(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) error {
	_, err := tracing.NewProvider(lc, tracing.Config{
		Enabled:          cfg.TracingEnabled,
		ServiceName:      cfg.ServiceName,
		ServiceVersion:   cfg.ServiceVersion,
		Environment:      cfg.Environment,
		ExporterEndpoint: cfg.TracingEndpoint,
		ExporterProtocol: cfg.TracingProtocol,
		SamplingRatio:    cfg.TracingSampling,
	}, log)
	return err
}
