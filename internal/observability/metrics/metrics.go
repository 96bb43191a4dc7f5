package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes the ordering instruments exported over OTLP.
type Metrics struct {
	ordersCreated        metric.Int64Counter
	orderFailures        metric.Int64Counter
	vouchersIgnored      metric.Int64Counter
	invoiceNumbersIssued metric.Int64Counter
}

// NewProvider installs the global meter provider; disabled config yields a no-op provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New registers the ordering instruments on provider.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "restro-billing"
	}
	meter := provider.Meter(name)

	ordersCreated, err := meter.Int64Counter("orders_created_total",
		metric.WithDescription("Orders committed with an invoice number."))
	if err != nil {
		return nil, err
	}
	orderFailures, err := meter.Int64Counter("order_failures_total",
		metric.WithDescription("Order attempts rolled back, by reason."))
	if err != nil {
		return nil, err
	}
	vouchersIgnored, err := meter.Int64Counter("vouchers_ignored_total",
		metric.WithDescription("Voucher codes that did not apply to an otherwise valid order."))
	if err != nil {
		return nil, err
	}
	invoiceNumbersIssued, err := meter.Int64Counter("invoice_numbers_issued_total",
		metric.WithDescription("Invoice sequence values handed out inside a transaction."))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		ordersCreated:        ordersCreated,
		orderFailures:        orderFailures,
		vouchersIgnored:      vouchersIgnored,
		invoiceNumbersIssued: invoiceNumbersIssued,
	}, nil
}

func (m *Metrics) RecordOrderCreated(ctx context.Context, source, paymentStatus string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("source", strings.TrimSpace(source)),
		attribute.String("payment_status", strings.TrimSpace(paymentStatus)),
	)
	m.ordersCreated.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *Metrics) RecordOrderFailure(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("reason", strings.TrimSpace(reason)))
	m.orderFailures.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *Metrics) RecordVoucherIgnored(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("reason", strings.TrimSpace(reason)))
	m.vouchersIgnored.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordInvoiceNumberIssued counts a sequence value. Values issued inside a
// transaction that later rolls back are counted too; the counter row is not.
func (m *Metrics) RecordInvoiceNumberIssued(ctx context.Context) {
	if m == nil {
		return
	}
	m.invoiceNumbersIssued.Add(ctx, 1)
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

// Tenant ids are deliberately absent: a busy deployment hosts thousands of them.
var allowedLabelKeys = map[attribute.Key]struct{}{
	"source":         {},
	"payment_status": {},
	"reason":         {},
	"route":          {},
	"status_code":    {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
