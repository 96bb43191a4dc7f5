package domain

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
	voucherdomain "github.com/dev-arif67/restro-saas-sub000/internal/voucher/domain"
)

var (
	ErrInvalidTenant        = errors.New("invalid_tenant")
	ErrEmptyCart            = errors.New("empty_cart")
	ErrInvalidQuantity      = errors.New("invalid_quantity")
	ErrInvalidSource        = errors.New("invalid_source")
	ErrInvalidPaymentStatus = errors.New("invalid_payment_status")
	ErrInvalidStatus        = errors.New("invalid_status")
	ErrInvalidTable         = errors.New("invalid_table")
	ErrUnavailableItem      = errors.New("unavailable_item")
	ErrOrderNotFound        = errors.New("order_not_found")
)

// InvalidTableError is returned when a supplied table does not exist for the tenant.
type InvalidTableError struct {
	TableID snowflake.ID
}

func (e *InvalidTableError) Error() string {
	return fmt.Sprintf("%s: table %d", ErrInvalidTable, e.TableID)
}

func (e *InvalidTableError) Is(target error) bool {
	return target == ErrInvalidTable
}

// UnavailableItemError names the cart entry that failed the whole order.
type UnavailableItemError struct {
	MenuItemID snowflake.ID
}

func (e *UnavailableItemError) Error() string {
	return fmt.Sprintf("%s: menu item %d", ErrUnavailableItem, e.MenuItemID)
}

func (e *UnavailableItemError) Is(target error) bool {
	return target == ErrUnavailableItem
}

// InvalidVoucherError is only returned when vouchers are configured to reject orders.
type InvalidVoucherError struct {
	Code   string
	Reason voucherdomain.InvalidReason
}

func (e *InvalidVoucherError) Error() string {
	return fmt.Sprintf("%s: %s", voucherdomain.ErrInvalidVoucher, e.Reason)
}

func (e *InvalidVoucherError) Is(target error) bool {
	return target == voucherdomain.ErrInvalidVoucher
}
