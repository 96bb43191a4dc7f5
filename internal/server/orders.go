package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dev-arif67/restro-saas-sub000/internal/money"
	orderdomain "github.com/dev-arif67/restro-saas-sub000/internal/order/domain"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

type createOrderItemRequest struct {
	MenuItemID          string  `json:"menu_item_id"`
	Quantity            int64   `json:"quantity"`
	SpecialInstructions *string `json:"special_instructions"`
}

type createOrderRequest struct {
	TableID       *string                  `json:"table_id"`
	VoucherCode   *string                  `json:"voucher_code"`
	Source        string                   `json:"source"`
	PaymentStatus string                   `json:"payment_status"`
	PaymentMethod *string                  `json:"payment_method"`
	CustomerName  *string                  `json:"customer_name"`
	CustomerPhone *string                  `json:"customer_phone"`
	Notes         *string                  `json:"notes"`
	Items         []createOrderItemRequest `json:"items"`
}

type confirmPaymentRequest struct {
	Method string     `json:"method"`
	PaidAt *time.Time `json:"paid_at"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type orderItemResponse struct {
	ID                  string      `json:"id"`
	MenuItemID          string      `json:"menu_item_id"`
	Quantity            int64       `json:"quantity"`
	PriceAtSale         money.Money `json:"price_at_sale"`
	LineTotal           money.Money `json:"line_total"`
	SpecialInstructions *string     `json:"special_instructions,omitempty"`
}

type orderResponse struct {
	ID            string                     `json:"id"`
	InvoiceNumber string                     `json:"invoice_number"`
	OrderNumber   string                     `json:"order_number"`
	TableID       *string                    `json:"table_id,omitempty"`
	VoucherID     *string                    `json:"voucher_id,omitempty"`
	ServedBy      *string                    `json:"served_by,omitempty"`
	Source        orderdomain.Source         `json:"source"`
	CustomerName  *string                    `json:"customer_name,omitempty"`
	CustomerPhone *string                    `json:"customer_phone,omitempty"`
	Notes         *string                    `json:"notes,omitempty"`
	Subtotal      money.Money                `json:"subtotal"`
	Discount      money.Money                `json:"discount"`
	NetAmount     money.Money                `json:"net_amount"`
	VatRate       money.Rate                 `json:"vat_rate"`
	VatAmount     money.Money                `json:"vat_amount"`
	GrandTotal    money.Money                `json:"grand_total"`
	VatInclusive  bool                       `json:"vat_inclusive"`
	PaymentStatus orderdomain.PaymentStatus  `json:"payment_status"`
	PaymentMethod *string                    `json:"payment_method,omitempty"`
	PaidAt        *time.Time                 `json:"paid_at,omitempty"`
	Status        orderdomain.Status         `json:"status"`
	Items         []orderItemResponse        `json:"items"`
	VoucherNotice *orderdomain.VoucherNotice `json:"voucher_notice,omitempty"`
	CreatedAt     time.Time                  `json:"created_at"`
	UpdatedAt     time.Time                  `json:"updated_at"`
}

func (s *Server) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	in, err := req.toDomain(tenantFromContext(c), actorFromContext(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	order, err := s.orderSvc.CreateOrder(c.Request.Context(), in)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Set("invoice_number", order.InvoiceNumber)
	c.JSON(http.StatusCreated, gin.H{"data": newOrderResponse(order)})
}

func (s *Server) GetOrder(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	order, err := s.orderSvc.GetByID(c.Request.Context(), tenantFromContext(c), orderID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": newOrderResponse(order)})
}

func (s *Server) ConfirmPayment(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	var req confirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	in := orderdomain.ConfirmPaymentRequest{
		TenantID: tenantFromContext(c),
		OrderID:  orderID,
		Method:   strings.TrimSpace(req.Method),
	}
	if req.PaidAt != nil {
		in.PaidAt = req.PaidAt.UTC()
	}

	order, err := s.orderSvc.ConfirmPayment(c.Request.Context(), in)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Set("invoice_number", order.InvoiceNumber)
	c.JSON(http.StatusOK, gin.H{"data": newOrderResponse(order)})
}

func (s *Server) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	order, err := s.orderSvc.UpdateStatus(c.Request.Context(), orderdomain.UpdateStatusRequest{
		TenantID: tenantFromContext(c),
		OrderID:  orderID,
		Status:   orderdomain.Status(req.Status),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Set("invoice_number", order.InvoiceNumber)
	c.JSON(http.StatusOK, gin.H{"data": newOrderResponse(order)})
}

func parseOrderID(c *gin.Context) (snowflake.ID, bool) {
	id := strings.TrimSpace(c.Param("id"))
	orderID, err := snowflake.ParseString(id)
	if err != nil || orderID <= 0 {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return 0, false
	}
	return orderID, true
}

// toDomain converts the wire request. A missing source is inferred from the
// caller: staff requests come from the POS, anonymous ones from the customer menu.
func (r createOrderRequest) toDomain(tenantID snowflake.ID, actor *snowflake.ID) (orderdomain.CreateOrderRequest, error) {
	source := orderdomain.Source(strings.ToLower(strings.TrimSpace(r.Source)))
	if source == "" {
		source = orderdomain.SourceCustomer
		if actor != nil {
			source = orderdomain.SourcePOS
		}
	}
	paymentStatus := orderdomain.PaymentStatus(strings.ToLower(strings.TrimSpace(r.PaymentStatus)))
	if paymentStatus == "" {
		paymentStatus = orderdomain.PaymentStatusUnpaid
	}

	out := orderdomain.CreateOrderRequest{
		TenantID:      tenantID,
		VoucherCode:   r.VoucherCode,
		ServedBy:      actor,
		Source:        source,
		PaymentStatus: paymentStatus,
		PaymentMethod: r.PaymentMethod,
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		Notes:         r.Notes,
	}

	if r.TableID != nil && strings.TrimSpace(*r.TableID) != "" {
		tableID, err := snowflake.ParseString(strings.TrimSpace(*r.TableID))
		if err != nil {
			return orderdomain.CreateOrderRequest{}, newValidationError("table_id", "invalid_table", "invalid table id")
		}
		out.TableID = &tableID
	}

	out.Items = make([]orderdomain.CartEntry, 0, len(r.Items))
	for _, item := range r.Items {
		menuItemID, err := snowflake.ParseString(strings.TrimSpace(item.MenuItemID))
		if err != nil {
			return orderdomain.CreateOrderRequest{}, newValidationError("items", "invalid_menu_item", "invalid menu item id")
		}
		out.Items = append(out.Items, orderdomain.CartEntry{
			MenuItemID:          menuItemID,
			Quantity:            item.Quantity,
			SpecialInstructions: item.SpecialInstructions,
		})
	}

	return out, nil
}

func newOrderResponse(o *orderdomain.Order) orderResponse {
	return orderResponse{
		ID:            o.ID.String(),
		InvoiceNumber: o.InvoiceNumber,
		OrderNumber:   o.OrderNumber,
		TableID:       idString(o.TableID),
		VoucherID:     idString(o.VoucherID),
		ServedBy:      idString(o.ServedBy),
		Source:        o.Source,
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerPhone,
		Notes:         o.Notes,
		Subtotal:      o.Subtotal,
		Discount:      o.Discount,
		NetAmount:     o.NetAmount,
		VatRate:       o.VatRate,
		VatAmount:     o.VatAmount,
		GrandTotal:    o.GrandTotal,
		VatInclusive:  o.VatInclusive,
		PaymentStatus: o.PaymentStatus,
		PaymentMethod: o.PaymentMethod,
		PaidAt:        o.PaidAt,
		Status:        o.Status,
		Items: lo.Map(o.Items, func(item orderdomain.OrderItem, _ int) orderItemResponse {
			return orderItemResponse{
				ID:                  item.ID.String(),
				MenuItemID:          item.MenuItemID.String(),
				Quantity:            item.Quantity,
				PriceAtSale:         item.PriceAtSale,
				LineTotal:           item.LineTotal,
				SpecialInstructions: item.SpecialInstructions,
			}
		}),
		VoucherNotice: o.VoucherNotice,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func idString(id *snowflake.ID) *string {
	if id == nil {
		return nil
	}
	return lo.ToPtr(id.String())
}
