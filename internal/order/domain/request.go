package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

// CartEntry is one requested line. Prices are never taken from the caller.
type CartEntry struct {
	MenuItemID          snowflake.ID
	Quantity            int64
	SpecialInstructions *string
}

type CreateOrderRequest struct {
	TenantID      snowflake.ID
	TableID       *snowflake.ID
	VoucherCode   *string
	Items         []CartEntry
	ServedBy      *snowflake.ID
	Source        Source
	PaymentStatus PaymentStatus
	PaymentMethod *string
	CustomerName  *string
	CustomerPhone *string
	Notes         *string
}

// Validate checks the request shape before any store is touched.
func (r CreateOrderRequest) Validate() error {
	if r.TenantID <= 0 {
		return ErrInvalidTenant
	}
	if !r.Source.Valid() {
		return ErrInvalidSource
	}
	if !r.PaymentStatus.Valid() {
		return ErrInvalidPaymentStatus
	}
	if len(r.Items) == 0 {
		return ErrEmptyCart
	}
	for _, entry := range r.Items {
		if entry.Quantity <= 0 {
			return ErrInvalidQuantity
		}
		if entry.MenuItemID <= 0 {
			return &UnavailableItemError{MenuItemID: entry.MenuItemID}
		}
	}
	return nil
}

// NormalizedVoucherCode returns the trimmed code, or "" when none was supplied.
func (r CreateOrderRequest) NormalizedVoucherCode() string {
	if r.VoucherCode == nil {
		return ""
	}
	return strings.TrimSpace(*r.VoucherCode)
}

type ConfirmPaymentRequest struct {
	TenantID snowflake.ID
	OrderID  snowflake.ID
	Method   string
	// PaidAt defaults to the current time when zero.
	PaidAt time.Time
}

type UpdateStatusRequest struct {
	TenantID snowflake.ID
	OrderID  snowflake.ID
	Status   Status
}
