package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Service is the order orchestrator.
type Service interface {
	// CreateOrder prices, numbers and persists an order in one transaction.
	// Either every side effect commits or none does.
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error)
	GetByID(ctx context.Context, tenantID, orderID snowflake.ID) (*Order, error)
	// ConfirmPayment is idempotent and never changes financial fields.
	ConfirmPayment(ctx context.Context, req ConfirmPaymentRequest) (*Order, error)
	UpdateStatus(ctx context.Context, req UpdateStatusRequest) (*Order, error)
}
