package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/dev-arif67/restro-saas-sub000/pkg/db"
)

// Sequencer hands out gapless, per-tenant invoice numbers.
type Sequencer interface {
	// Generate issues the next number for tenantID. The counter update commits
	// or rolls back with tx, so an aborted order never consumes a number.
	Generate(ctx context.Context, tx *db.Tx, tenantID snowflake.ID) (InvoiceNumber, error)
	// Peek returns the last issued sequence without locking; 0 when none.
	Peek(ctx context.Context, tenantID snowflake.ID) (int64, error)
}

var (
	ErrPrecondition  = errors.New("invoice_sequencer_precondition")
	ErrInvalidTenant = errors.New("invalid_tenant")
	ErrCounterLost   = errors.New("invoice_counter_lost")
)

// PreconditionError reports a Generate call that cannot be honored as issued.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return ErrPrecondition.Error() + ": " + e.Reason
}

func (e *PreconditionError) Is(target error) bool {
	return target == ErrPrecondition
}

var ErrNotInTransaction = &PreconditionError{Reason: "not in a transaction"}
