package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Status string

const (
	StatusAvailable Status = "available"
	StatusOccupied  Status = "occupied"
)

// Table is a dine-in table of a tenant.
type Table struct {
	ID         snowflake.ID `gorm:"primaryKey;autoIncrement:false"`
	TenantID   snowflake.ID `gorm:"column:tenant_id;not null;index"`
	Name       string       `gorm:"type:text;not null"`
	Status     Status       `gorm:"type:text;not null;default:'available'"`
	OccupiedAt *time.Time   `gorm:"column:occupied_at"`
	CreatedAt  time.Time    `gorm:"not null"`
	UpdatedAt  time.Time    `gorm:"not null"`
}

func (Table) TableName() string { return "restaurant_tables" }

func (t *Table) IsOccupied() bool {
	return t != nil && t.Status == StatusOccupied
}
