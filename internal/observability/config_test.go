package observability

import (
	"testing"

	"github.com/dev-arif67/restro-saas-sub000/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("OTEL_ENABLED", "")
	t.Setenv("OTEL_SAMPLING_RATIO", "3")

	cfg := LoadConfig(config.Config{AppName: "", Environment: "production", AppVersion: "1.2.3"})
	assert.Equal(t, "restro-billing", cfg.ServiceName)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.OtelEnabled)
	assert.Equal(t, 0.1, cfg.OtelSamplingRatio)
	assert.False(t, cfg.Debug())
}

func TestDebugInDevelopment(t *testing.T) {
	assert.True(t, Config{Environment: "development"}.Debug())
	assert.True(t, Config{Environment: "production", LogLevel: "debug"}.Debug())
}

func TestLoadConfigDevelopmentDefaults(t *testing.T) {
	t.Setenv("LOG_FORMAT", "")
	t.Setenv("OTEL_SAMPLING_RATIO", "")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	cfg := LoadConfig(config.Config{AppName: "pos-billing", Environment: " Development ", OTLPEndpoint: "collector:4317"})
	assert.Equal(t, "pos-billing", cfg.ServiceName)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, 1.0, cfg.OtelSamplingRatio)
	assert.Equal(t, "collector:4317", cfg.OtelExporterEndpoint)
}

func TestExporterProtocolFallsBackToGRPC(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_PROTOCOL", "")
	t.Setenv("OTEL_EXPORTER_OTLP_PROTOCOL", "carrier-pigeon")
	assert.Equal(t, "grpc", LoadConfig(config.Config{}).OtelExporterProtocol)

	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_PROTOCOL", "HTTP/protobuf")
	assert.Equal(t, "http/protobuf", LoadConfig(config.Config{}).OtelExporterProtocol)
}

func TestSplitConfigSharesIdentity(t *testing.T) {
	out := splitConfig(Config{
		ServiceName:          "restro-billing",
		Environment:          "test",
		Version:              "0.1.0",
		OtelEnabled:          true,
		OtelExporterEndpoint: "collector:4317",
		OtelExporterProtocol: "grpc",
		OtelSamplingRatio:    0.5,
	})

	assert.True(t, out.Logger.Debug)
	assert.True(t, out.Logger.IncludeStackOnError)
	assert.Equal(t, "0.1.0", out.Tracing.ServiceVersion)
	assert.Equal(t, 0.5, out.Tracing.SamplingRatio)
	assert.Equal(t, out.Tracing.ExporterEndpoint, out.Metrics.ExporterEndpoint)
	assert.Equal(t, "restro-billing", out.Metrics.ServiceName)
}
