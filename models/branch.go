package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Branch struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key"`
	Code   string    `gorm:"uniqueIndex;not null"` // public key for delivery intake
	Prefix string    `gorm:"not null"`             // order number prefix, e.g. "MAIN"
	Name   string    `gorm:"not null"`
	Address string
	Phone   string

	TaxRate       decimal.Decimal `gorm:"type:decimal(5,4);default:0"`
	ReceiptHeader string
	ReceiptFooter string
	WorkingHours  JSONB `gorm:"type:jsonb;default:'{}'"`

	IsActive bool `gorm:"default:true"`

	gorm.Model
}

func (b *Branch) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return
}

// OrderCounter backs the per-branch order number sequence. Rows are only
// ever touched through the upsert in the order ledger.
type OrderCounter struct {
	BranchID   uuid.UUID `gorm:"type:uuid;primary_key"`
	LastNumber int64     `gorm:"not null;default:0"`
}

// Custom JSONB type for working hours
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	case nil:
		*j = nil
		return nil
	default:
		return errors.New("unsupported type for JSONB")
	}
}
