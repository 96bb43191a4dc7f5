package metrics

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

const (
	OrderOutcomeCreated = "created"
	OrderOutcomeFailed  = "failed"
)

const (
	ReasonDeadlineExceeded     = "deadline_exceeded"
	ReasonDBLockTimeout        = "db_lock_timeout"
	ReasonSerializationFailure = "serialization_failure"
	ReasonDeadlock             = "deadlock"
	ReasonUniqueViolation      = "unique_violation"
	ReasonUnknown              = "unknown"
)

const (
	LockResourceInvoiceCounter = "invoice_counter"
	LockResourceVoucher        = "voucher"
)

// BillingMetrics holds the Prometheus series scraped from /metrics.
type BillingMetrics struct {
	orderOutcomes    *prometheus.CounterVec
	orderDuration    *prometheus.HistogramVec
	orderFailures    *prometheus.CounterVec
	dbLockWait       *prometheus.HistogramVec
	lockWaitObserver map[string]prometheus.Observer
}

var (
	billingMetricsOnce sync.Once
	billingMetrics     *BillingMetrics
)

// Billing returns the process-wide billing metrics registered on the default registry.
func Billing() *BillingMetrics {
	return BillingWithConfig(Config{})
}

// BillingWithConfig is Billing with service and env const labels taken from cfg.
// Only the first call's config is used.
func BillingWithConfig(cfg Config) *BillingMetrics {
	billingMetricsOnce.Do(func() {
		billingMetrics = newBillingMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return billingMetrics
}

func newBillingMetrics(registerer prometheus.Registerer, cfg Config) *BillingMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "restro-billing"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	orderOutcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "restro_order_outcomes_total",
		Help:        "Order creation attempts by source and outcome.",
		ConstLabels: constLabels,
	}, []string{"source", "outcome"})
	orderDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "restro_order_create_duration_seconds",
		Help:        "Wall time of the order transaction including lock waits.",
		Buckets:     []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		ConstLabels: constLabels,
	}, []string{"outcome"})
	orderFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "restro_order_failures_total",
		Help:        "Rolled back orders by low-cardinality reason.",
		ConstLabels: constLabels,
	}, []string{"reason"})
	dbLockWait := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "restro_db_lock_wait_seconds",
		Help:        "Time spent acquiring SELECT FOR UPDATE row locks.",
		Buckets:     []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		ConstLabels: constLabels,
	}, []string{"resource"})

	registerer.MustRegister(orderOutcomes, orderDuration, orderFailures, dbLockWait)

	return &BillingMetrics{
		orderOutcomes: orderOutcomes,
		orderDuration: orderDuration,
		orderFailures: orderFailures,
		dbLockWait:    dbLockWait,
		lockWaitObserver: map[string]prometheus.Observer{
			LockResourceInvoiceCounter: dbLockWait.WithLabelValues(LockResourceInvoiceCounter),
			LockResourceVoucher:        dbLockWait.WithLabelValues(LockResourceVoucher),
		},
	}
}

// ObserveOrder records one finished order attempt.
func (m *BillingMetrics) ObserveOrder(source, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	if source == "" {
		source = "unknown"
	}
	m.orderOutcomes.WithLabelValues(source, outcome).Inc()
	m.orderDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

func (m *BillingMetrics) IncOrderFailure(reason string) {
	if m == nil {
		return
	}
	if reason == "" {
		reason = ReasonUnknown
	}
	m.orderFailures.WithLabelValues(reason).Inc()
}

// ObserveDBLockWait records how long a row lock took to acquire.
func (m *BillingMetrics) ObserveDBLockWait(resource string, duration time.Duration) {
	if m == nil {
		return
	}
	if observer, ok := m.lockWaitObserver[resource]; ok {
		observer.Observe(duration.Seconds())
		return
	}
	m.dbLockWait.WithLabelValues(resource).Observe(duration.Seconds())
}

// ClassifyDBReason maps infrastructure failures to a failure reason label.
// Domain errors are classified by their owning package before falling back here.
func ClassifyDBReason(err error) string {
	switch {
	case err == nil:
		return ReasonUnknown
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return ReasonDeadlineExceeded
	case hasPGCode(err, "55P03"):
		return ReasonDBLockTimeout
	case hasPGCode(err, "40001"):
		return ReasonSerializationFailure
	case hasPGCode(err, "40P01"):
		return ReasonDeadlock
	case errors.Is(err, gorm.ErrDuplicatedKey), hasPGCode(err, "23505"):
		return ReasonUniqueViolation
	default:
		return ReasonUnknown
	}
}

func hasPGCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return false
}
