package db

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrNoConnection = errors.New("db_connection_required")

// Tx is an open unit of work. Values only come from RunInTx, so holding one
// means the caller is inside a transaction that commits or rolls back as a whole.
type Tx struct {
	conn *gorm.DB
}

// DB returns the transaction handle bound to ctx.
func (t *Tx) DB(ctx context.Context) *gorm.DB {
	return t.conn.WithContext(ctx)
}

// RunInTx runs fn inside a single transaction. Returning an error or panicking
// rolls back every statement issued through the Tx.
func RunInTx(ctx context.Context, conn *gorm.DB, fn func(tx *Tx) error) error {
	if conn == nil {
		return ErrNoConnection
	}
	return conn.WithContext(ctx).Transaction(func(gtx *gorm.DB) error {
		return fn(&Tx{conn: gtx})
	})
}
