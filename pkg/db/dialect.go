package db

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/dev-arif67/restro-saas-sub000/internal/config"
	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// DriverName folds the DATABASE_TYPE spellings operators use into one driver name.
// Only postgres enforces row level security and lock timeouts; the others serve
// local runs and tests.
func DriverName(cfg config.Config) string {
	switch name := strings.ToLower(strings.TrimSpace(cfg.DBType)); name {
	case "postgresql", "pg", "pgx":
		return DriverPostgres
	case "mariadb":
		return DriverMySQL
	case "sqlite3":
		return DriverSQLite
	default:
		return name
	}
}

func Dialect(cfg config.Config) (gorm.Dialector, error) {
	switch driver := DriverName(cfg); driver {
	case DriverPostgres:
		return postgres.Open(postgresDSN(cfg)), nil
	case DriverMySQL:
		return mysql.Open(mysqlDSN(cfg)), nil
	case DriverSQLite:
		return sqlite.Open(sqliteDSN(cfg)), nil
	default:
		return nil, fmt.Errorf("unsupported database type %q", cfg.DBType)
	}
}

// postgresDSN uses the URL form so credentials with spaces or quotes survive.
// Sessions run in UTC; the business timezone only shapes invoice periods.
func postgresDSN(cfg config.Config) string {
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(cfg.DBHost, cfg.DBPort),
		Path:   "/" + cfg.DBName,
	}
	if cfg.DBPassword != "" {
		u.User = url.UserPassword(cfg.DBUser, cfg.DBPassword)
	} else if cfg.DBUser != "" {
		u.User = url.User(cfg.DBUser)
	}

	q := url.Values{}
	q.Set("TimeZone", "UTC")
	if cfg.DBSSLMode != "" {
		q.Set("sslmode", cfg.DBSSLMode)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func mysqlDSN(cfg config.Config) string {
	mc := mysqldriver.NewConfig()
	mc.User = cfg.DBUser
	mc.Passwd = cfg.DBPassword
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.DBHost, cfg.DBPort)
	mc.DBName = cfg.DBName
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN()
}

// sqliteDSN turns on foreign keys, which the order tables rely on, unless the
// path already carries its own options.
func sqliteDSN(cfg config.Config) string {
	path := strings.TrimSpace(cfg.DBPath)
	if path == "" {
		path = "restro.db"
	}
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_foreign_keys=on&_busy_timeout=5000"
}
