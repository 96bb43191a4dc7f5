package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/cockroachdb/errors"
	"github.com/dev-arif67/restro-saas-sub000/internal/clock"
	"github.com/dev-arif67/restro-saas-sub000/internal/config"
	invoicedomain "github.com/dev-arif67/restro-saas-sub000/internal/invoice/domain"
	menudomain "github.com/dev-arif67/restro-saas-sub000/internal/menu/domain"
	"github.com/dev-arif67/restro-saas-sub000/internal/money"
	obslogger "github.com/dev-arif67/restro-saas-sub000/internal/observability/logger"
	"github.com/dev-arif67/restro-saas-sub000/internal/observability/metrics"
	"github.com/dev-arif67/restro-saas-sub000/internal/observability/tracing"
	orderdomain "github.com/dev-arif67/restro-saas-sub000/internal/order/domain"
	tabledomain "github.com/dev-arif67/restro-saas-sub000/internal/table/domain"
	taxdomain "github.com/dev-arif67/restro-saas-sub000/internal/tax/domain"
	taxservice "github.com/dev-arif67/restro-saas-sub000/internal/tax/service"
	tenantdomain "github.com/dev-arif67/restro-saas-sub000/internal/tenant/domain"
	voucherdomain "github.com/dev-arif67/restro-saas-sub000/internal/voucher/domain"
	"github.com/dev-arif67/restro-saas-sub000/pkg/db"
	"github.com/oklog/ulid/v2"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const orderNumberPrefix = "ORD-"

type ServiceParam struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Repo      orderdomain.Repository
	Tenants   tenantdomain.TaxConfigProvider
	Menu      menudomain.Lookup
	Tables    tabledomain.Lookup
	Vouchers  voucherdomain.Authority
	Tax       taxdomain.Calculator
	Sequencer invoicedomain.Sequencer

	Ordering *config.OrderingConfigHolder `optional:"true"`
	Metrics  *metrics.Metrics             `optional:"true"`
	Billing  *metrics.BillingMetrics      `optional:"true"`
}

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	tracer trace.Tracer

	genID     *snowflake.Node
	clock     clock.Clock
	repo      orderdomain.Repository
	tenants   tenantdomain.TaxConfigProvider
	menu      menudomain.Lookup
	tables    tabledomain.Lookup
	vouchers  voucherdomain.Authority
	tax       taxdomain.Calculator
	sequencer invoicedomain.Sequencer

	ordering *config.OrderingConfigHolder
	metrics  *metrics.Metrics
	billing  *metrics.BillingMetrics
}

func NewService(p ServiceParam) orderdomain.Service {
	clk := p.Clock
	if clk == nil {
		clk = clock.System{}
	}
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("order.service"),
		tracer: otel.Tracer("restro/order"),

		genID:     p.GenID,
		clock:     clk,
		repo:      p.Repo,
		tenants:   p.Tenants,
		menu:      p.Menu,
		tables:    p.Tables,
		vouchers:  p.Vouchers,
		tax:       p.Tax,
		sequencer: p.Sequencer,

		ordering: p.Ordering,
		metrics:  p.Metrics,
		billing:  p.Billing,
	}
}

func (s *Service) CreateOrder(ctx context.Context, req orderdomain.CreateOrderRequest) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "order.create", trace.WithAttributes(tracing.SafeAttributes(
		attribute.Int64("tenant_id", int64(req.TenantID)),
		attribute.String("source", string(req.Source)),
		attribute.Int("item_count", len(req.Items)),
		attribute.Bool("has_table", req.TableID != nil),
		attribute.Bool("has_voucher", req.NormalizedVoucherCode() != ""),
	)...))
	defer span.End()

	start := time.Now()
	log := obslogger.WithContext(ctx, s.log).With(
		zap.Int64("tenant_id", int64(req.TenantID)),
		zap.String("source", string(req.Source)),
	)

	order, err := s.createOrder(ctx, req)
	if err != nil {
		reason := failureReason(err)
		s.metrics.RecordOrderFailure(ctx, reason)
		s.billing.IncOrderFailure(reason)
		s.billing.ObserveOrder(string(req.Source), metrics.OrderOutcomeFailed, time.Since(start))

		span.RecordError(tracing.SafeError(err))
		span.SetStatus(codes.Error, reason)

		if isCallerError(err) {
			log.Warn("order rejected", zap.String("reason", reason), zap.Error(err))
		} else {
			log.Error("order failed", zap.String("reason", reason), zap.Error(err))
		}
		return nil, err
	}

	s.metrics.RecordOrderCreated(ctx, string(order.Source), string(order.PaymentStatus))
	s.billing.ObserveOrder(string(order.Source), metrics.OrderOutcomeCreated, time.Since(start))
	if order.VoucherNotice != nil {
		s.metrics.RecordVoucherIgnored(ctx, string(order.VoucherNotice.Reason))
	}

	span.SetAttributes(attribute.String("invoice_number", order.InvoiceNumber))
	log.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.String("invoice_number", order.InvoiceNumber),
		zap.String("grand_total", order.GrandTotal.String()),
	)
	return order, nil
}

func (s *Service) createOrder(ctx context.Context, req orderdomain.CreateOrderRequest) (*orderdomain.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var order *orderdomain.Order
	err := db.RunInTx(ctx, s.db, func(tx *db.Tx) error {
		if err := db.WithTenant(tx, int64(req.TenantID)); err != nil {
			return errors.Wrap(err, "scope tenant")
		}
		// Bounds every row lock taken below, the voucher row included.
		if err := db.SetLockTimeout(tx, s.ordering.Get().Sequencer.LockTimeout); err != nil {
			return errors.Wrap(err, "set lock timeout")
		}

		taxCfg, err := s.tenants.GetTaxConfig(ctx, tx, req.TenantID)
		if err != nil {
			return err
		}

		if req.TableID != nil {
			table, err := s.tables.Get(ctx, tx, req.TenantID, *req.TableID)
			if err != nil {
				return errors.Wrap(err, "load table")
			}
			if table == nil {
				return &orderdomain.InvalidTableError{TableID: *req.TableID}
			}
		}

		lines, err := s.resolveLines(ctx, tx, req)
		if err != nil {
			return err
		}

		subtotal, err := taxservice.Subtotal(lines)
		if err != nil {
			return err
		}
		voucher, discount, notice, err := s.resolveVoucher(ctx, tx, req, subtotal)
		if err != nil {
			return err
		}

		totals, err := s.tax.Compute(lines, taxCfg, discount)
		if err != nil {
			return err
		}
		if err := totals.Validate(); err != nil {
			return err
		}

		if voucher != nil {
			if err := s.vouchers.IncrementUsage(ctx, tx, req.TenantID, voucher.ID); err != nil {
				return errors.Wrap(err, "consume voucher")
			}
		}

		// Numbering runs last so that any failure above leaves the counter untouched.
		number, err := s.sequencer.Generate(ctx, tx, req.TenantID)
		if err != nil {
			return errors.Wrap(err, "issue invoice number")
		}

		now := s.clock.Now().UTC()
		created := s.buildOrder(req, number, totals, voucher, now)
		items, err := s.buildItems(created.ID, req, lines, now)
		if err != nil {
			return err
		}

		conn := tx.DB(ctx)
		if err := s.repo.Insert(ctx, conn, &created); err != nil {
			return errors.Wrap(err, "insert order")
		}
		if err := s.repo.InsertItems(ctx, conn, items); err != nil {
			return errors.Wrap(err, "insert order items")
		}

		if req.TableID != nil {
			if _, err := s.tables.MarkOccupied(ctx, tx, req.TenantID, *req.TableID); err != nil {
				return errors.Wrap(err, "occupy table")
			}
		}

		// The stored row is read back before commit so a failed read rolls the order back.
		stored, err := s.loadTx(ctx, conn, req.TenantID, created.ID)
		if err != nil {
			return errors.Wrap(err, "reload order")
		}
		stored.VoucherNotice = notice
		order = stored
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// resolveLines prices every cart entry from the menu store. One bad entry fails the cart.
func (s *Service) resolveLines(ctx context.Context, tx *db.Tx, req orderdomain.CreateOrderRequest) ([]taxdomain.LineItemInput, error) {
	lines := make([]taxdomain.LineItemInput, 0, len(req.Items))
	for _, entry := range req.Items {
		item, err := s.menu.GetActiveItem(ctx, tx, req.TenantID, entry.MenuItemID)
		if err != nil {
			return nil, errors.Wrapf(err, "load menu item %d", entry.MenuItemID)
		}
		if !item.Orderable() {
			return nil, &orderdomain.UnavailableItemError{MenuItemID: entry.MenuItemID}
		}
		lines = append(lines, taxdomain.LineItemInput{
			MenuItemID:          item.ID,
			UnitPrice:           item.Price,
			Quantity:            entry.Quantity,
			SpecialInstructions: entry.SpecialInstructions,
		})
	}
	return lines, nil
}

// resolveVoucher returns the voucher to consume and its discount. An unusable
// code yields zero discount and a notice, or an error when vouchers are strict.
func (s *Service) resolveVoucher(
	ctx context.Context,
	tx *db.Tx,
	req orderdomain.CreateOrderRequest,
	subtotal money.Money,
) (*voucherdomain.Voucher, money.Money, *orderdomain.VoucherNotice, error) {
	code := req.NormalizedVoucherCode()
	if code == "" {
		return nil, money.Zero(), nil, nil
	}

	validation, err := s.vouchers.Validate(ctx, tx, req.TenantID, code)
	if err != nil {
		return nil, money.Zero(), nil, errors.Wrap(err, "validate voucher")
	}

	reason := validation.Reason
	if validation.Valid() && !validation.MeetsMinimum(subtotal) {
		reason = voucherdomain.ReasonBelowMinPurchase
	}
	if reason == "" {
		return validation.Voucher, validation.DiscountFor(subtotal), nil, nil
	}

	if s.ordering.Get().Voucher.RejectInvalid {
		return nil, money.Zero(), nil, &orderdomain.InvalidVoucherError{Code: code, Reason: reason}
	}
	return nil, money.Zero(), &orderdomain.VoucherNotice{Code: code, Reason: reason}, nil
}

func (s *Service) buildOrder(
	req orderdomain.CreateOrderRequest,
	number invoicedomain.InvoiceNumber,
	totals taxdomain.OrderTotals,
	voucher *voucherdomain.Voucher,
	now time.Time,
) orderdomain.Order {
	order := orderdomain.Order{
		ID:            s.genID.Generate(),
		TenantID:      req.TenantID,
		InvoiceNumber: number.Formatted,
		OrderNumber:   orderNumberPrefix + ulid.Make().String(),
		TableID:       req.TableID,
		Source:        req.Source,
		ServedBy:      req.ServedBy,
		CustomerName:  trimmed(req.CustomerName),
		CustomerPhone: trimmed(req.CustomerPhone),
		Notes:         trimmed(req.Notes),
		PaymentStatus: req.PaymentStatus,
		PaymentMethod: trimmed(req.PaymentMethod),
		Status:        orderdomain.StatusPlaced,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	order.ApplyTotals(totals)
	if voucher != nil {
		order.VoucherID = lo.ToPtr(voucher.ID)
	}
	if req.PaymentStatus == orderdomain.PaymentStatusPaid {
		order.PaidAt = lo.ToPtr(now)
	}
	return order
}

func (s *Service) buildItems(orderID snowflake.ID, req orderdomain.CreateOrderRequest, lines []taxdomain.LineItemInput, now time.Time) ([]orderdomain.OrderItem, error) {
	items := make([]orderdomain.OrderItem, 0, len(lines))
	for _, line := range lines {
		lineTotal, err := taxservice.LineTotal(line)
		if err != nil {
			return nil, err
		}
		items = append(items, orderdomain.OrderItem{
			ID:                  s.genID.Generate(),
			OrderID:             orderID,
			TenantID:            req.TenantID,
			MenuItemID:          line.MenuItemID,
			Quantity:            line.Quantity,
			PriceAtSale:         line.UnitPrice,
			LineTotal:           lineTotal,
			SpecialInstructions: trimmed(line.SpecialInstructions),
			CreatedAt:           now,
		})
	}
	return items, nil
}

func (s *Service) GetByID(ctx context.Context, tenantID, orderID snowflake.ID) (*orderdomain.Order, error) {
	if tenantID <= 0 {
		return nil, orderdomain.ErrInvalidTenant
	}
	if orderID <= 0 {
		return nil, orderdomain.ErrOrderNotFound
	}
	return s.load(ctx, tenantID, orderID)
}

func (s *Service) ConfirmPayment(ctx context.Context, req orderdomain.ConfirmPaymentRequest) (*orderdomain.Order, error) {
	if req.TenantID <= 0 {
		return nil, orderdomain.ErrInvalidTenant
	}
	if req.OrderID <= 0 {
		return nil, orderdomain.ErrOrderNotFound
	}

	now := s.clock.Now().UTC()
	paidAt := req.PaidAt
	if paidAt.IsZero() {
		paidAt = now
	}
	method := lo.EmptyableToPtr(strings.TrimSpace(req.Method))

	err := db.RunInTx(ctx, s.db, func(tx *db.Tx) error {
		if err := db.WithTenant(tx, int64(req.TenantID)); err != nil {
			return errors.Wrap(err, "scope tenant")
		}
		conn := tx.DB(ctx)
		order, err := s.repo.FindByIDForUpdate(ctx, conn, req.TenantID, req.OrderID)
		if err != nil {
			return errors.Wrap(err, "lock order")
		}
		if order == nil {
			return orderdomain.ErrOrderNotFound
		}
		if order.PaymentStatus == orderdomain.PaymentStatusPaid {
			return nil
		}
		if _, err := s.repo.MarkPaid(ctx, conn, req.TenantID, req.OrderID, method, paidAt.UTC(), now); err != nil {
			return errors.Wrap(err, "mark order paid")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	obslogger.WithContext(ctx, s.log).Info("order payment confirmed",
		zap.Int64("tenant_id", int64(req.TenantID)),
		zap.String("order_id", req.OrderID.String()),
	)
	return s.load(ctx, req.TenantID, req.OrderID)
}

func (s *Service) UpdateStatus(ctx context.Context, req orderdomain.UpdateStatusRequest) (*orderdomain.Order, error) {
	if req.TenantID <= 0 {
		return nil, orderdomain.ErrInvalidTenant
	}
	if req.OrderID <= 0 {
		return nil, orderdomain.ErrOrderNotFound
	}
	status := orderdomain.Status(strings.ToLower(strings.TrimSpace(string(req.Status))))
	if status == "" {
		return nil, orderdomain.ErrInvalidStatus
	}

	err := db.RunInTx(ctx, s.db, func(tx *db.Tx) error {
		if err := db.WithTenant(tx, int64(req.TenantID)); err != nil {
			return errors.Wrap(err, "scope tenant")
		}
		conn := tx.DB(ctx)
		order, err := s.repo.FindByIDForUpdate(ctx, conn, req.TenantID, req.OrderID)
		if err != nil {
			return errors.Wrap(err, "lock order")
		}
		if order == nil {
			return orderdomain.ErrOrderNotFound
		}
		if order.Status == status {
			return nil
		}
		if err := s.repo.UpdateStatus(ctx, conn, req.TenantID, req.OrderID, status, s.clock.Now().UTC()); err != nil {
			return errors.Wrap(err, "update order status")
		}
		if order.TableID == nil {
			return nil
		}
		return s.syncTable(ctx, tx, order, status)
	})
	if err != nil {
		return nil, err
	}
	return s.load(ctx, req.TenantID, req.OrderID)
}

// syncTable frees a table once its last open order closes, and takes it back if a closed order reopens.
func (s *Service) syncTable(ctx context.Context, tx *db.Tx, order *orderdomain.Order, next orderdomain.Status) error {
	tableID := *order.TableID
	switch {
	case next.Closed() && !order.Status.Closed():
		open, err := s.repo.CountOpenByTable(ctx, tx.DB(ctx), order.TenantID, tableID, order.ID)
		if err != nil {
			return errors.Wrap(err, "count open orders")
		}
		if open > 0 {
			return nil
		}
		if _, err := s.tables.Release(ctx, tx, order.TenantID, tableID); err != nil {
			return errors.Wrap(err, "release table")
		}
	case !next.Closed() && order.Status.Closed():
		if _, err := s.tables.MarkOccupied(ctx, tx, order.TenantID, tableID); err != nil {
			return errors.Wrap(err, "occupy table")
		}
	}
	return nil
}

func (s *Service) load(ctx context.Context, tenantID, orderID snowflake.ID) (*orderdomain.Order, error) {
	var order *orderdomain.Order
	err := db.RunInTx(ctx, s.db, func(tx *db.Tx) error {
		if err := db.WithTenant(tx, int64(tenantID)); err != nil {
			return err
		}
		found, err := s.loadTx(ctx, tx.DB(ctx), tenantID, orderID)
		if err != nil {
			return err
		}
		order = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *Service) loadTx(ctx context.Context, conn *gorm.DB, tenantID, orderID snowflake.ID) (*orderdomain.Order, error) {
	order, err := s.repo.FindByID(ctx, conn, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, orderdomain.ErrOrderNotFound
	}
	items, err := s.repo.FindItems(ctx, conn, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	return lo.EmptyableToPtr(strings.TrimSpace(*value))
}
