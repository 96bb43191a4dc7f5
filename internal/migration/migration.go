package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	invoicedomain "github.com/dev-arif67/restro-saas-sub000/internal/invoice/domain"
	menudomain "github.com/dev-arif67/restro-saas-sub000/internal/menu/domain"
	orderdomain "github.com/dev-arif67/restro-saas-sub000/internal/order/domain"
	tabledomain "github.com/dev-arif67/restro-saas-sub000/internal/table/domain"
	tenantdomain "github.com/dev-arif67/restro-saas-sub000/internal/tenant/domain"
	voucherdomain "github.com/dev-arif67/restro-saas-sub000/internal/voucher/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"
)

// Models lists every table the billing core owns, in dependency order.
func Models() []any {
	return []any{
		&tenantdomain.Tenant{},
		&menudomain.Item{},
		&tabledomain.Table{},
		&voucherdomain.Voucher{},
		&invoicedomain.InvoiceCounter{},
		&orderdomain.Order{},
		&orderdomain.OrderItem{},
	}
}

// RunMigrations applies the embedded SQL migrations to a postgres database.
func RunMigrations(db *sql.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	src, err := Source()
	if err != nil {
		return err
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// migrator.Close would close the shared *sql.DB.

	return nil
}

// Source exposes the embedded migrations as a golang-migrate source.
func Source() (source.Driver, error) {
	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("open migrations: %w", err)
	}
	driver, err := iofs.New(sub, ".")
	if err != nil {
		return nil, fmt.Errorf("create migration source: %w", err)
	}
	return driver, nil
}

// AutoMigrate creates the schema from the gorm models. Used for sqlite and
// mysql, which the SQL migrations do not target.
func AutoMigrate(conn *gorm.DB) error {
	if conn == nil {
		return errors.New("migration database handle is required")
	}
	return conn.AutoMigrate(Models()...)
}
