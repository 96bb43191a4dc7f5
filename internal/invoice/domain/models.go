package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// InvoiceCounter is the per-tenant high-water mark of issued invoice sequences.
// The row is created lazily on a tenant's first invoice.
type InvoiceCounter struct {
	TenantID          snowflake.ID `gorm:"primaryKey;autoIncrement:false"`
	LastInvoiceNumber int64        `gorm:"not null;default:0"`
	CreatedAt         time.Time    `gorm:"not null"`
	UpdatedAt         time.Time    `gorm:"not null"`
}

func (InvoiceCounter) TableName() string { return "invoice_counters" }

// InvoiceNumber is one issued sequence value and its rendered form.
type InvoiceNumber struct {
	TenantID  snowflake.ID
	Sequence  int64
	Period    string
	Formatted string
}

func (n InvoiceNumber) String() string {
	return n.Formatted
}
