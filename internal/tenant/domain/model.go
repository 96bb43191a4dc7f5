package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dev-arif67/restro-saas-sub000/internal/money"
	taxdomain "github.com/dev-arif67/restro-saas-sub000/internal/tax/domain"
)

// Tenant is the read model of an onboarded restaurant. Ordering only reads it.
type Tenant struct {
	ID             snowflake.ID `gorm:"primaryKey;autoIncrement:false"`
	Name           string       `gorm:"type:text;not null"`
	VatRatePercent money.Rate   `gorm:"column:vat_rate_percent;type:numeric(5,2);not null;default:0"`
	VatInclusive   bool         `gorm:"column:vat_inclusive;not null;default:false"`
	IsActive       bool         `gorm:"column:is_active;not null;default:true"`
	CreatedAt      time.Time    `gorm:"not null"`
	UpdatedAt      time.Time    `gorm:"not null"`
}

func (Tenant) TableName() string { return "tenants" }

func (t Tenant) TaxConfig() taxdomain.TenantTaxConfig {
	return taxdomain.TenantTaxConfig{
		VatRatePercent: t.VatRatePercent,
		VatInclusive:   t.VatInclusive,
	}
}
