package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dev-arif67/restro-saas-sub000/internal/clock"
	"github.com/dev-arif67/restro-saas-sub000/internal/config"
	invoicedomain "github.com/dev-arif67/restro-saas-sub000/internal/invoice/domain"
	invoiceformat "github.com/dev-arif67/restro-saas-sub000/internal/invoice/format"
	obslogger "github.com/dev-arif67/restro-saas-sub000/internal/observability/logger"
	"github.com/dev-arif67/restro-saas-sub000/internal/observability/metrics"
	"github.com/dev-arif67/restro-saas-sub000/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SequencerParam struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Clock    clock.Clock
	Config   config.Config
	Ordering *config.OrderingConfigHolder `optional:"true"`
	Metrics  *metrics.Metrics             `optional:"true"`
	Billing  *metrics.BillingMetrics      `optional:"true"`
}

type Sequencer struct {
	db       *gorm.DB
	log      *zap.Logger
	clock    clock.Clock
	location *time.Location
	template string

	ordering *config.OrderingConfigHolder
	metrics  *metrics.Metrics
	billing  *metrics.BillingMetrics
}

func NewSequencer(p SequencerParam) invoicedomain.Sequencer {
	clk := p.Clock
	if clk == nil {
		clk = clock.System{}
	}
	return &Sequencer{
		db:       p.DB,
		log:      p.Log.Named("invoice.sequencer"),
		clock:    clk,
		location: p.Config.Location(),
		template: invoiceformat.DefaultInvoiceNumberTemplate,
		ordering: p.Ordering,
		metrics:  p.Metrics,
		billing:  p.Billing,
	}
}

type counterRow struct {
	LastInvoiceNumber int64
}

func (s *Sequencer) Generate(ctx context.Context, tx *db.Tx, tenantID snowflake.ID) (invoicedomain.InvoiceNumber, error) {
	if tx == nil {
		return invoicedomain.InvoiceNumber{}, invoicedomain.ErrNotInTransaction
	}
	if tenantID <= 0 {
		return invoicedomain.InvoiceNumber{}, invoicedomain.ErrInvalidTenant
	}

	if timeout := s.ordering.Get().Sequencer.LockTimeout; timeout > 0 {
		if err := db.SetLockTimeout(tx, timeout); err != nil {
			return invoicedomain.InvoiceNumber{}, err
		}
	}

	conn := tx.DB(ctx)
	now := s.clock.Now()

	waitStart := time.Now()
	last, found, err := s.lockCounter(conn, tenantID)
	if err != nil {
		return invoicedomain.InvoiceNumber{}, err
	}
	if !found {
		if err := s.createCounter(conn, tenantID, now); err != nil {
			return invoicedomain.InvoiceNumber{}, err
		}
		// Another transaction may have won the insert; either way the row exists now.
		last, found, err = s.lockCounter(conn, tenantID)
		if err != nil {
			return invoicedomain.InvoiceNumber{}, err
		}
		if !found {
			return invoicedomain.InvoiceNumber{}, invoicedomain.ErrCounterLost
		}
	}
	s.billing.ObserveDBLockWait(metrics.LockResourceInvoiceCounter, time.Since(waitStart))

	next := last + 1
	result := conn.Exec(
		`UPDATE invoice_counters
		 SET last_invoice_number = ?, updated_at = ?
		 WHERE tenant_id = ?`,
		next, now.UTC(), tenantID,
	)
	if result.Error != nil {
		return invoicedomain.InvoiceNumber{}, result.Error
	}
	if result.RowsAffected != 1 {
		return invoicedomain.InvoiceNumber{}, invoicedomain.ErrCounterLost
	}

	issuedAt := now.In(s.location)
	formatted, err := invoiceformat.FormatInvoiceNumber(s.template, int64(tenantID), issuedAt, next)
	if err != nil {
		return invoicedomain.InvoiceNumber{}, fmt.Errorf("format invoice number: %w", err)
	}

	s.metrics.RecordInvoiceNumberIssued(ctx)
	obslogger.WithContext(ctx, s.log).Debug("invoice number issued",
		zap.Int64("tenant_id", int64(tenantID)),
		zap.Int64("sequence", next),
		zap.String("invoice_number", formatted),
	)

	return invoicedomain.InvoiceNumber{
		TenantID:  tenantID,
		Sequence:  next,
		Period:    invoiceformat.Period(issuedAt),
		Formatted: formatted,
	}, nil
}

func (s *Sequencer) Peek(ctx context.Context, tenantID snowflake.ID) (int64, error) {
	var rows []counterRow
	err := s.db.WithContext(ctx).Raw(
		`SELECT last_invoice_number
		 FROM invoice_counters
		 WHERE tenant_id = ?`,
		tenantID,
	).Scan(&rows).Error
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].LastInvoiceNumber, nil
}

// lockCounter takes the tenant's counter row lock and reports whether the row exists.
func (s *Sequencer) lockCounter(conn *gorm.DB, tenantID snowflake.ID) (int64, bool, error) {
	var rows []counterRow
	err := conn.Raw(
		`SELECT last_invoice_number
		 FROM invoice_counters
		 WHERE tenant_id = ?
		 FOR UPDATE`,
		tenantID,
	).Scan(&rows).Error
	if err != nil {
		return 0, false, err
	}
	if len(rows) == 0 {
		return 0, false, nil
	}
	return rows[0].LastInvoiceNumber, true, nil
}

func (s *Sequencer) createCounter(conn *gorm.DB, tenantID snowflake.ID, now time.Time) error {
	counter := invoicedomain.InvoiceCounter{
		TenantID:          tenantID,
		LastInvoiceNumber: 0,
		CreatedAt:         now.UTC(),
		UpdatedAt:         now.UTC(),
	}
	return conn.Clauses(clause.OnConflict{DoNothing: true}).Create(&counter).Error
}
