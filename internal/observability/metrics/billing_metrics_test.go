package metrics

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"gorm.io/gorm"
)

func TestClassifyDBReason(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{name: "deadline", err: context.DeadlineExceeded, want: ReasonDeadlineExceeded},
		{name: "lock_timeout", err: &pgconn.PgError{Code: "55P03"}, want: ReasonDBLockTimeout},
		{name: "serialization", err: fmt.Errorf("commit: %w", &pgconn.PgError{Code: "40001"}), want: ReasonSerializationFailure},
		{name: "deadlock", err: &pgconn.PgError{Code: "40P01"}, want: ReasonDeadlock},
		{name: "unique", err: gorm.ErrDuplicatedKey, want: ReasonUniqueViolation},
		{name: "unknown", err: errors.New("boom"), want: ReasonUnknown},
		{name: "nil", err: nil, want: ReasonUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClassifyDBReason(tc.err); got != tc.want {
				t.Fatalf("expected reason %q, got %q", tc.want, got)
			}
		})
	}
}

func TestObserveOrder(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := newBillingMetrics(registry, Config{ServiceName: "restro", Environment: "test"})

	m.ObserveOrder("pos", OrderOutcomeCreated, 20*time.Millisecond)
	m.ObserveOrder("pos", OrderOutcomeCreated, 30*time.Millisecond)
	m.ObserveOrder("", OrderOutcomeFailed, time.Millisecond)
	m.IncOrderFailure("")

	if got := testutil.ToFloat64(m.orderOutcomes.WithLabelValues("pos", OrderOutcomeCreated)); got != 2 {
		t.Fatalf("expected 2 created orders, got %v", got)
	}
	if got := testutil.ToFloat64(m.orderOutcomes.WithLabelValues("unknown", OrderOutcomeFailed)); got != 1 {
		t.Fatalf("expected 1 failed order, got %v", got)
	}
	if got := testutil.ToFloat64(m.orderFailures.WithLabelValues(ReasonUnknown)); got != 1 {
		t.Fatalf("expected 1 unknown failure, got %v", got)
	}
}

func TestObserveDBLockWait(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := newBillingMetrics(registry, Config{})

	m.ObserveDBLockWait(LockResourceInvoiceCounter, 5*time.Millisecond)
	m.ObserveDBLockWait("tables", 5*time.Millisecond)

	if got := testutil.CollectAndCount(m.dbLockWait); got != 2 {
		t.Fatalf("expected 2 lock wait series, got %d", got)
	}
}

func TestNilBillingMetricsIsSafe(t *testing.T) {
	var m *BillingMetrics
	m.ObserveOrder("pos", OrderOutcomeCreated, time.Second)
	m.IncOrderFailure(ReasonUnknown)
	m.ObserveDBLockWait(LockResourceVoucher, time.Second)
}
