package service

import (
	"github.com/cockroachdb/errors"
	invoicedomain "github.com/dev-arif67/restro-saas-sub000/internal/invoice/domain"
	"github.com/dev-arif67/restro-saas-sub000/internal/observability/metrics"
	orderdomain "github.com/dev-arif67/restro-saas-sub000/internal/order/domain"
	taxdomain "github.com/dev-arif67/restro-saas-sub000/internal/tax/domain"
	tenantdomain "github.com/dev-arif67/restro-saas-sub000/internal/tenant/domain"
	voucherdomain "github.com/dev-arif67/restro-saas-sub000/internal/voucher/domain"
)

const (
	reasonInvalidRequest        = "invalid_request"
	reasonTenantNotFound        = "tenant_not_found"
	reasonInvalidTable          = "invalid_table"
	reasonUnavailableItem       = "unavailable_item"
	reasonInvalidDiscount       = "invalid_discount"
	reasonInvalidVoucher        = "invalid_voucher"
	reasonVoucherExhausted      = "voucher_exhausted"
	reasonSequencerPrecondition = "sequencer_precondition"
	reasonInvalidTaxConfig      = "invalid_tax_config"
)

var requestErrors = []error{
	orderdomain.ErrInvalidTenant,
	orderdomain.ErrEmptyCart,
	orderdomain.ErrInvalidQuantity,
	orderdomain.ErrInvalidSource,
	orderdomain.ErrInvalidPaymentStatus,
}

// failureReason maps a CreateOrder error to a low-cardinality metric label.
func failureReason(err error) string {
	for _, target := range requestErrors {
		if errors.Is(err, target) {
			return reasonInvalidRequest
		}
	}
	switch {
	case errors.Is(err, tenantdomain.ErrTenantNotFound):
		return reasonTenantNotFound
	case errors.Is(err, orderdomain.ErrInvalidTable):
		return reasonInvalidTable
	case errors.Is(err, orderdomain.ErrUnavailableItem):
		return reasonUnavailableItem
	case errors.Is(err, taxdomain.ErrInvalidDiscount):
		return reasonInvalidDiscount
	case errors.Is(err, voucherdomain.ErrInvalidVoucher):
		return reasonInvalidVoucher
	case errors.Is(err, voucherdomain.ErrVoucherExhausted):
		return reasonVoucherExhausted
	case errors.Is(err, invoicedomain.ErrPrecondition):
		return reasonSequencerPrecondition
	case errors.Is(err, taxdomain.ErrInvalidTaxRate):
		return reasonInvalidTaxConfig
	default:
		return metrics.ClassifyDBReason(err)
	}
}

func isCallerError(err error) bool {
	switch failureReason(err) {
	case reasonInvalidRequest, reasonTenantNotFound, reasonInvalidTable, reasonUnavailableItem,
		reasonInvalidDiscount, reasonInvalidVoucher:
		return true
	default:
		return false
	}
}
