package db

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// WithTenant scopes row-level security policies to tenantID for the rest of the transaction.
// Only postgres sessions carry the setting; other dialects are a no-op.
func WithTenant(tx *Tx, tenantID int64) error {
	if tx == nil || !isPostgres(tx.conn) {
		return nil
	}
	return tx.conn.Exec(
		"SELECT set_config('app.current_tenant_id', ?, true)",
		fmt.Sprintf("%d", tenantID),
	).Error
}

// SetLockTimeout bounds row lock waits for the rest of the transaction.
func SetLockTimeout(tx *Tx, timeout time.Duration) error {
	if tx == nil || timeout <= 0 || !isPostgres(tx.conn) {
		return nil
	}
	return tx.conn.Exec(fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", timeout.Milliseconds())).Error
}

func isPostgres(conn *gorm.DB) bool {
	return conn != nil && conn.Dialector != nil && conn.Dialector.Name() == "postgres"
}
