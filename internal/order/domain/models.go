// Package domain holds the order aggregate produced by the billing core.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dev-arif67/restro-saas-sub000/internal/money"
	taxdomain "github.com/dev-arif67/restro-saas-sub000/internal/tax/domain"
	voucherdomain "github.com/dev-arif67/restro-saas-sub000/internal/voucher/domain"
)

// Source is the channel an order came from.
type Source string

const (
	SourceCustomer Source = "customer"
	SourcePOS      Source = "pos"
)

func (s Source) Valid() bool {
	return s == SourceCustomer || s == SourcePOS
}

type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	PaymentStatusPaid   PaymentStatus = "paid"
)

func (s PaymentStatus) Valid() bool {
	return s == PaymentStatusUnpaid || s == PaymentStatusPaid
}

// Status is free-form past creation; kitchen workflows own everything after placed.
type Status string

const (
	StatusPlaced    Status = "placed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Closed reports whether the order no longer holds its table.
func (s Status) Closed() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Order is one billed order with its invoice number and totals frozen at creation.
type Order struct {
	ID            snowflake.ID  `gorm:"primaryKey;autoIncrement:false"`
	TenantID      snowflake.ID  `gorm:"column:tenant_id;not null;uniqueIndex:ux_orders_tenant_invoice;uniqueIndex:ux_orders_tenant_order_number"`
	InvoiceNumber string        `gorm:"column:invoice_number;type:text;not null;uniqueIndex:ux_orders_tenant_invoice"`
	OrderNumber   string        `gorm:"column:order_number;type:text;not null;uniqueIndex:ux_orders_tenant_order_number"`
	TableID       *snowflake.ID `gorm:"column:table_id;index"`
	VoucherID     *snowflake.ID `gorm:"column:voucher_id"`
	Source        Source        `gorm:"type:text;not null"`
	ServedBy      *snowflake.ID `gorm:"column:served_by"`
	CustomerName  *string       `gorm:"column:customer_name;type:text"`
	CustomerPhone *string       `gorm:"column:customer_phone;type:text"`
	Notes         *string       `gorm:"type:text"`

	Subtotal     money.Money `gorm:"type:numeric(12,2);not null"`
	Discount     money.Money `gorm:"type:numeric(12,2);not null"`
	NetAmount    money.Money `gorm:"column:net_amount;type:numeric(12,2);not null"`
	VatRate      money.Rate  `gorm:"column:vat_rate;type:numeric(5,2);not null"`
	VatAmount    money.Money `gorm:"column:vat_amount;type:numeric(12,2);not null"`
	GrandTotal   money.Money `gorm:"column:grand_total;type:numeric(12,2);not null"`
	VatInclusive bool        `gorm:"column:vat_inclusive;not null"`

	PaymentStatus PaymentStatus `gorm:"column:payment_status;type:text;not null"`
	PaymentMethod *string       `gorm:"column:payment_method;type:text"`
	PaidAt        *time.Time    `gorm:"column:paid_at"`
	Status        Status        `gorm:"type:text;not null"`

	Items []OrderItem `gorm:"foreignKey:OrderID"`

	// VoucherNotice is set on the returned order when a supplied code was ignored.
	VoucherNotice *VoucherNotice `gorm:"-"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (Order) TableName() string { return "orders" }

// Totals returns the financial fields as computed by the tax engine.
func (o *Order) Totals() taxdomain.OrderTotals {
	return taxdomain.OrderTotals{
		Subtotal:     o.Subtotal,
		Discount:     o.Discount,
		NetAmount:    o.NetAmount,
		VatRate:      o.VatRate,
		VatAmount:    o.VatAmount,
		GrandTotal:   o.GrandTotal,
		VatInclusive: o.VatInclusive,
	}
}

// ApplyTotals copies computed totals onto the order.
func (o *Order) ApplyTotals(t taxdomain.OrderTotals) {
	o.Subtotal = t.Subtotal
	o.Discount = t.Discount
	o.NetAmount = t.NetAmount
	o.VatRate = t.VatRate
	o.VatAmount = t.VatAmount
	o.GrandTotal = t.GrandTotal
	o.VatInclusive = t.VatInclusive
}

// OrderItem is one priced line. PriceAtSale is the menu price read inside the order transaction.
type OrderItem struct {
	ID                  snowflake.ID `gorm:"primaryKey;autoIncrement:false"`
	OrderID             snowflake.ID `gorm:"column:order_id;not null;index"`
	TenantID            snowflake.ID `gorm:"column:tenant_id;not null;index"`
	MenuItemID          snowflake.ID `gorm:"column:menu_item_id;not null"`
	Quantity            int64        `gorm:"not null"`
	PriceAtSale         money.Money  `gorm:"column:price_at_sale;type:numeric(12,2);not null"`
	LineTotal           money.Money  `gorm:"column:line_total;type:numeric(12,2);not null"`
	SpecialInstructions *string      `gorm:"column:special_instructions;type:text"`
	CreatedAt           time.Time    `gorm:"not null"`
}

func (OrderItem) TableName() string { return "order_items" }

// VoucherNotice explains why a supplied voucher code gave no discount.
type VoucherNotice struct {
	Code   string                      `json:"code"`
	Reason voucherdomain.InvalidReason `json:"reason"`
}
