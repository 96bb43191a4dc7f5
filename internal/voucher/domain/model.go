package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dev-arif67/restro-saas-sub000/internal/money"
)

type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

// Voucher is a tenant-scoped discount code.
type Voucher struct {
	ID            snowflake.ID `gorm:"primaryKey;autoIncrement:false"`
	TenantID      snowflake.ID `gorm:"column:tenant_id;not null;uniqueIndex:ux_vouchers_tenant_code"`
	Code          string       `gorm:"type:text;not null;uniqueIndex:ux_vouchers_tenant_code"`
	DiscountType  DiscountType `gorm:"column:discount_type;type:text;not null"`
	DiscountValue money.Money  `gorm:"column:discount_value;type:numeric(12,2);not null"`
	MaxDiscount   *money.Money `gorm:"column:max_discount;type:numeric(12,2)"`
	MinPurchase   money.Money  `gorm:"column:min_purchase;type:numeric(12,2);not null;default:0"`
	UsageLimit    *int64       `gorm:"column:usage_limit"`
	UsedCount     int64        `gorm:"column:used_count;not null;default:0"`
	StartsAt      *time.Time   `gorm:"column:starts_at"`
	ExpiresAt     *time.Time   `gorm:"column:expires_at"`
	IsActive      bool         `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time    `gorm:"not null"`
	UpdatedAt     time.Time    `gorm:"not null"`
}

func (Voucher) TableName() string { return "vouchers" }

// Exhausted reports whether the usage limit has been reached.
func (v *Voucher) Exhausted() bool {
	return v.UsageLimit != nil && v.UsedCount >= *v.UsageLimit
}

// InvalidReason explains why a code did not apply.
type InvalidReason string

const (
	ReasonNotFound         InvalidReason = "not_found"
	ReasonInactive         InvalidReason = "inactive"
	ReasonNotStarted       InvalidReason = "not_started"
	ReasonExpired          InvalidReason = "expired"
	ReasonExhausted        InvalidReason = "exhausted"
	ReasonBelowMinPurchase InvalidReason = "below_min_purchase"
)

// Validation is the outcome of checking a code at a point in time.
type Validation struct {
	Voucher *Voucher
	Reason  InvalidReason
}

func (v Validation) Valid() bool {
	return v.Voucher != nil && v.Reason == ""
}

// MeetsMinimum reports whether subtotal reaches the voucher's minimum purchase.
func (v Validation) MeetsMinimum(subtotal money.Money) bool {
	if !v.Valid() {
		return false
	}
	return subtotal.Cmp(v.Voucher.MinPurchase) >= 0
}

// DiscountFor prices the voucher against subtotal. The result never exceeds
// max_discount or the subtotal itself, and is zero for invalid vouchers or a
// subtotal under the minimum purchase.
func (v Validation) DiscountFor(subtotal money.Money) money.Money {
	if !v.MeetsMinimum(subtotal) {
		return money.Zero()
	}

	var discount money.Money
	switch v.Voucher.DiscountType {
	case DiscountTypePercentage:
		rate, err := money.NewRate(v.Voucher.DiscountValue.Decimal())
		if err != nil {
			return money.Zero()
		}
		discount = subtotal.PercentageOf(rate)
	case DiscountTypeFixed:
		discount = v.Voucher.DiscountValue
	default:
		return money.Zero()
	}

	if discount.IsNegative() {
		return money.Zero()
	}
	if v.Voucher.MaxDiscount != nil && !v.Voucher.MaxDiscount.IsNegative() {
		discount = discount.Min(*v.Voucher.MaxDiscount)
	}
	return discount.Min(subtotal)
}
