package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dev-arif67/restro-saas-sub000/internal/money"
)

// Item is a menu entry as seen by ordering.
type Item struct {
	ID          snowflake.ID `gorm:"primaryKey;autoIncrement:false"`
	TenantID    snowflake.ID `gorm:"column:tenant_id;not null;index"`
	Name        string       `gorm:"type:text;not null"`
	Price       money.Money  `gorm:"type:numeric(12,2);not null"`
	IsActive    bool         `gorm:"column:is_active;not null;default:true"`
	IsAvailable bool         `gorm:"column:is_available;not null;default:true"`
	CreatedAt   time.Time    `gorm:"not null"`
	UpdatedAt   time.Time    `gorm:"not null"`
}

func (Item) TableName() string { return "menu_items" }

// Orderable reports whether the item may be added to a new order.
// Inactive items are withdrawn from the menu; unavailable ones are sold out for now.
func (i *Item) Orderable() bool {
	return i != nil && i.IsActive && i.IsAvailable
}
