package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	orderdomain "github.com/dev-arif67/restro-saas-sub000/internal/order/domain"
	"gorm.io/gorm"
)

const orderColumns = `id, tenant_id, invoice_number, order_number, table_id, voucher_id, source, served_by,
	customer_name, customer_phone, notes, subtotal, discount, net_amount, vat_rate, vat_amount,
	grand_total, vat_inclusive, payment_status, payment_method, paid_at, status, created_at, updated_at`

type repo struct{}

func NewRepository() orderdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, order *orderdomain.Order) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO orders (`+orderColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID,
		order.TenantID,
		order.InvoiceNumber,
		order.OrderNumber,
		order.TableID,
		order.VoucherID,
		order.Source,
		order.ServedBy,
		order.CustomerName,
		order.CustomerPhone,
		order.Notes,
		order.Subtotal,
		order.Discount,
		order.NetAmount,
		order.VatRate,
		order.VatAmount,
		order.GrandTotal,
		order.VatInclusive,
		order.PaymentStatus,
		order.PaymentMethod,
		order.PaidAt,
		order.Status,
		order.CreatedAt,
		order.UpdatedAt,
	).Error
}

func (r *repo) InsertItems(ctx context.Context, db *gorm.DB, items []orderdomain.OrderItem) error {
	for _, item := range items {
		if err := db.WithContext(ctx).Exec(
			`INSERT INTO order_items (
				id, order_id, tenant_id, menu_item_id, quantity, price_at_sale, line_total,
				special_instructions, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			item.ID,
			item.OrderID,
			item.TenantID,
			item.MenuItemID,
			item.Quantity,
			item.PriceAtSale,
			item.LineTotal,
			item.SpecialInstructions,
			item.CreatedAt,
		).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*orderdomain.Order, error) {
	return r.findOne(ctx, db, `SELECT `+orderColumns+` FROM orders WHERE tenant_id = ? AND id = ?`, tenantID, id)
}

func (r *repo) FindByIDForUpdate(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*orderdomain.Order, error) {
	return r.findOne(ctx, db, `SELECT `+orderColumns+` FROM orders WHERE tenant_id = ? AND id = ? FOR UPDATE`, tenantID, id)
}

func (r *repo) findOne(ctx context.Context, db *gorm.DB, query string, args ...any) (*orderdomain.Order, error) {
	var orders []orderdomain.Order
	if err := db.WithContext(ctx).Raw(query, args...).Scan(&orders).Error; err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, nil
	}
	return &orders[0], nil
}

func (r *repo) FindItems(ctx context.Context, db *gorm.DB, tenantID, orderID snowflake.ID) ([]orderdomain.OrderItem, error) {
	var items []orderdomain.OrderItem
	err := db.WithContext(ctx).Raw(
		`SELECT id, order_id, tenant_id, menu_item_id, quantity, price_at_sale, line_total,
		        special_instructions, created_at
		 FROM order_items
		 WHERE tenant_id = ? AND order_id = ?
		 ORDER BY id ASC`,
		tenantID,
		orderID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) MarkPaid(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID, method *string, paidAt, at time.Time) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE orders
		 SET payment_status = ?, payment_method = COALESCE(?, payment_method), paid_at = ?, updated_at = ?
		 WHERE tenant_id = ? AND id = ? AND payment_status <> ?`,
		orderdomain.PaymentStatusPaid,
		method,
		paidAt,
		at,
		tenantID,
		id,
		orderdomain.PaymentStatusPaid,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID, status orderdomain.Status, at time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE orders SET status = ?, updated_at = ? WHERE tenant_id = ? AND id = ?`,
		status,
		at,
		tenantID,
		id,
	).Error
}

func (r *repo) CountOpenByTable(ctx context.Context, db *gorm.DB, tenantID, tableID, excludeID snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM orders
		 WHERE tenant_id = ? AND table_id = ? AND id <> ? AND status NOT IN (?, ?)`,
		tenantID,
		tableID,
		excludeID,
		orderdomain.StatusCompleted,
		orderdomain.StatusCancelled,
	).Scan(&count).Error
	return count, err
}
