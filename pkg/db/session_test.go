package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type capturedStatement struct {
	sql  string
	vars []any
}

// dryRunPostgres builds a postgres handle that never connects and records raw statements.
func dryRunPostgres(t *testing.T) (*gorm.DB, *[]capturedStatement) {
	t.Helper()
	conn, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=127.0.0.1 user=restro dbname=restro sslmode=disable",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               gormlogger.Discard,
	})
	require.NoError(t, err)

	var captured []capturedStatement
	require.NoError(t, conn.Callback().Raw().After("gorm:raw").Register("test:capture", func(d *gorm.DB) {
		captured = append(captured, capturedStatement{
			sql:  d.Statement.SQL.String(),
			vars: append([]any(nil), d.Statement.Vars...),
		})
	}))
	return conn, &captured
}

func TestSetLockTimeoutOnPostgres(t *testing.T) {
	conn, captured := dryRunPostgres(t)
	tx := &Tx{conn: conn}

	require.NoError(t, SetLockTimeout(tx, 1500*time.Millisecond))
	require.Len(t, *captured, 1)
	assert.Equal(t, "SET LOCAL lock_timeout = '1500ms'", (*captured)[0].sql)

	require.NoError(t, SetLockTimeout(tx, 0))
	assert.Len(t, *captured, 1)
}

func TestWithTenantOnPostgres(t *testing.T) {
	conn, captured := dryRunPostgres(t)

	require.NoError(t, WithTenant(&Tx{conn: conn}, 42))
	require.Len(t, *captured, 1)
	assert.Contains(t, (*captured)[0].sql, "set_config('app.current_tenant_id'")
	assert.Equal(t, []any{"42"}, (*captured)[0].vars)
}

func TestSessionSettingsSkipOtherDialects(t *testing.T) {
	assert.NoError(t, SetLockTimeout(nil, time.Second))
	assert.NoError(t, WithTenant(nil, 42))
}
