package db

import (
	"net/url"
	"testing"

	"github.com/dev-arif67/restro-saas-sub000/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriverNameAliases(t *testing.T) {
	for in, want := range map[string]string{
		" PostgreSQL ": DriverPostgres,
		"pgx":          DriverPostgres,
		"MariaDB":      DriverMySQL,
		"sqlite3":      DriverSQLite,
		"oracle":       "oracle",
	} {
		assert.Equal(t, want, DriverName(config.Config{DBType: in}), in)
	}
}

func TestPostgresDSNEscapesCredentials(t *testing.T) {
	dsn := postgresDSN(config.Config{
		DBHost: "db.internal", DBPort: "5432", DBName: "restro",
		DBUser: "billing", DBPassword: "p@ss word", DBSSLMode: "require",
	})

	u, err := url.Parse(dsn)
	require.NoError(t, err)
	assert.Equal(t, "db.internal:5432", u.Host)
	assert.Equal(t, "/restro", u.Path)
	pass, _ := u.User.Password()
	assert.Equal(t, "p@ss word", pass)
	assert.Equal(t, "require", u.Query().Get("sslmode"))
	assert.Equal(t, "UTC", u.Query().Get("TimeZone"))
}

func TestMySQLDSNParsesTimesInUTC(t *testing.T) {
	dsn := mysqlDSN(config.Config{DBHost: "localhost", DBPort: "3306", DBName: "restro", DBUser: "root"})
	assert.Contains(t, dsn, "root@tcp(localhost:3306)/restro?")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")
}

func TestSQLiteDSNKeepsExplicitOptions(t *testing.T) {
	assert.Equal(t, "restro.db?_foreign_keys=on&_busy_timeout=5000", sqliteDSN(config.Config{}))
	assert.Equal(t, "file::memory:?cache=shared", sqliteDSN(config.Config{DBPath: "file::memory:?cache=shared"}))
}

func TestDialectRejectsUnknownDriver(t *testing.T) {
	_, err := Dialect(config.Config{DBType: "oracle"})
	assert.ErrorContains(t, err, `unsupported database type "oracle"`)
}
