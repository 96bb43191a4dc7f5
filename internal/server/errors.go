package server

import (
	"errors"
	"fmt"
	"net/http"

	invoicedomain "github.com/dev-arif67/restro-saas-sub000/internal/invoice/domain"
	orderdomain "github.com/dev-arif67/restro-saas-sub000/internal/order/domain"
	taxdomain "github.com/dev-arif67/restro-saas-sub000/internal/tax/domain"
	tenantdomain "github.com/dev-arif67/restro-saas-sub000/internal/tenant/domain"
	voucherdomain "github.com/dev-arif67/restro-saas-sub000/internal/voucher/domain"
	"github.com/dev-arif67/restro-saas-sub000/pkg/db"
	"github.com/gin-gonic/gin"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type      string            `json:"type"`
	Message   string            `json:"message"`
	Retryable bool              `json:"retryable,omitempty"`
	Errors    []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if fieldErr := asBusinessRuleError(err); fieldErr != nil {
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "validation_error",
			Message: "order rejected",
			Errors:  []ValidationError{*fieldErr},
		}
	}

	switch {
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case db.IsRetryable(err):
		return http.StatusConflict, errorPayload{
			Type:      "conflict",
			Message:   "the request could not be completed, retry it",
			Retryable: true,
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

// asBusinessRuleError maps domain rejections of a well-formed request to the
// field they concern.
func asBusinessRuleError(err error) *ValidationError {
	var (
		itemErr     *orderdomain.UnavailableItemError
		tableErr    *orderdomain.InvalidTableError
		voucherErr  *orderdomain.InvalidVoucherError
		discountErr *taxdomain.InvalidDiscountError
	)
	switch {
	case errors.As(err, &itemErr):
		return &ValidationError{
			Field:   "items",
			Code:    orderdomain.ErrUnavailableItem.Error(),
			Message: fmt.Sprintf("menu item %s is not available", itemErr.MenuItemID),
		}
	case errors.As(err, &tableErr):
		return &ValidationError{
			Field:   "table_id",
			Code:    orderdomain.ErrInvalidTable.Error(),
			Message: fmt.Sprintf("table %s does not exist", tableErr.TableID),
		}
	case errors.As(err, &voucherErr):
		return &ValidationError{
			Field:   "voucher_code",
			Code:    voucherdomain.ErrInvalidVoucher.Error(),
			Message: string(voucherErr.Reason),
		}
	case errors.As(err, &discountErr):
		return &ValidationError{
			Field:   "discount",
			Code:    taxdomain.ErrInvalidDiscount.Error(),
			Message: fmt.Sprintf("discount %s exceeds subtotal %s", discountErr.Discount, discountErr.Subtotal),
		}
	}

	for _, sentinel := range []error{
		orderdomain.ErrEmptyCart,
		orderdomain.ErrInvalidQuantity,
		orderdomain.ErrInvalidSource,
		orderdomain.ErrInvalidPaymentStatus,
		orderdomain.ErrInvalidStatus,
		orderdomain.ErrInvalidTenant,
		voucherdomain.ErrVoucherExhausted,
	} {
		if errors.Is(err, sentinel) {
			code := sentinel.Error()
			return &ValidationError{
				Field:   validationErrorField(code),
				Code:    code,
				Message: "invalid value",
			}
		}
	}
	return nil
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, tenantdomain.ErrTenantNotFound),
		errors.Is(err, orderdomain.ErrOrderNotFound):
		return true
	default:
		return false
	}
}

func validationErrorField(code string) string {
	switch code {
	case orderdomain.ErrEmptyCart.Error(), orderdomain.ErrInvalidQuantity.Error():
		return "items"
	case voucherdomain.ErrVoucherExhausted.Error():
		return "voucher_code"
	case orderdomain.ErrInvalidTenant.Error():
		return "tenant_id"
	case orderdomain.ErrInvalidSource.Error():
		return "source"
	case orderdomain.ErrInvalidPaymentStatus.Error():
		return "payment_status"
	case orderdomain.ErrInvalidStatus.Error():
		return "status"
	default:
		return ""
	}
}

// classifyErrorForLog returns the error type and code recorded on the request log line.
func classifyErrorForLog(err error) (string, string) {
	if err == nil {
		return "", ""
	}
	status, payload := mapError(err)
	code := payload.Type
	if len(payload.Errors) > 0 {
		code = payload.Errors[0].Code
	}
	if status >= http.StatusInternalServerError && errors.Is(err, invoicedomain.ErrPrecondition) {
		code = invoicedomain.ErrPrecondition.Error()
	}
	return payload.Type, code
}
