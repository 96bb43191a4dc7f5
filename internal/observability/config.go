package observability

import (
	"os"
	"strconv"
	"strings"

	"github.com/dev-arif67/restro-saas-sub000/internal/config"
)

const (
	defaultServiceName = "restro-billing"

	// Order traffic is bursty at meal times; a tenth of traces is plenty outside development.
	prodSamplingRatio = 0.1
)

// Config is what the logger, tracer and meter providers of the billing service need.
// Identity comes from the application config. LOG_* and OTEL_* variables tune the rest.
type Config struct {
	ServiceName string
	Environment string
	Version     string

	LogLevel  string
	LogFormat string

	OtelEnabled          bool
	OtelExporterEndpoint string
	OtelExporterProtocol string
	OtelSamplingRatio    float64
}

func LoadConfig(cfg config.Config) Config {
	out := Config{
		ServiceName:          strings.TrimSpace(cfg.AppName),
		Environment:          strings.ToLower(strings.TrimSpace(cfg.Environment)),
		Version:              strings.TrimSpace(cfg.AppVersion),
		LogLevel:             lowerEnv("LOG_LEVEL", "info"),
		OtelEnabled:          envBool("OTEL_ENABLED", false),
		OtelExporterEndpoint: strings.TrimSpace(cfg.OTLPEndpoint),
	}
	if out.ServiceName == "" {
		out.ServiceName = defaultServiceName
	}
	if endpoint := strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")); endpoint != "" {
		out.OtelExporterEndpoint = endpoint
	}

	dev := isDevEnv(out.Environment)

	// Humans read the console locally; collectors parse JSON everywhere else.
	defaultFormat, defaultRatio := "json", prodSamplingRatio
	if dev {
		defaultFormat, defaultRatio = "console", 1
	}
	out.LogFormat = lowerEnv("LOG_FORMAT", defaultFormat)

	out.OtelExporterProtocol = exporterProtocol()

	out.OtelSamplingRatio = envFloat("OTEL_SAMPLING_RATIO", defaultRatio)
	if out.OtelSamplingRatio < 0 || out.OtelSamplingRatio > 1 {
		out.OtelSamplingRatio = defaultRatio
	}

	return out
}

// Debug turns on verbose request logs and stack traces on errors.
func (c Config) Debug() bool {
	return strings.EqualFold(strings.TrimSpace(c.LogLevel), "debug") || isDevEnv(c.Environment)
}

func isDevEnv(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "development", "local", "test":
		return true
	}
	return false
}

// exporterProtocol prefers the trace-specific variable and falls back to grpc
// for anything the exporters do not understand.
func exporterProtocol() string {
	protocol := lowerEnv("OTEL_EXPORTER_OTLP_TRACES_PROTOCOL", "")
	if protocol == "" {
		protocol = lowerEnv("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc")
	}
	switch protocol {
	case "grpc", "http", "http/protobuf":
		return protocol
	}
	return "grpc"
}

func lowerEnv(key, def string) string {
	if value := strings.ToLower(strings.TrimSpace(os.Getenv(key))); value != "" {
		return value
	}
	return def
}

func envBool(key string, def bool) bool {
	switch lowerEnv(key, "") {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}

func envFloat(key string, def float64) float64 {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv(key)), 64)
	if err != nil {
		return def
	}
	return parsed
}
