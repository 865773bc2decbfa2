package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Customer struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key"`

	Name     string  `gorm:"not null"`
	Phone    string  `gorm:"not null;uniqueIndex"`
	Nickname *string `gorm:"uniqueIndex"`
	Email    string
	Address  string
	Notes    string

	// Financial state. BalanceDue and LoyaltyPoints are mutated only by the
	// order ledger and the payment recorder, never by profile updates.
	BalanceDue    decimal.Decimal `gorm:"type:decimal(10,2);default:0"`
	TotalSpent    decimal.Decimal `gorm:"type:decimal(10,2);default:0"`
	LoyaltyPoints int             `gorm:"default:0"`

	TotalOrders int `gorm:"default:0"`
	LastVisit   *time.Time

	IsActive bool `gorm:"default:true"`

	Orders   []Order   `gorm:"foreignKey:CustomerID"`
	Payments []Payment `gorm:"foreignKey:CustomerID"`

	gorm.Model
}

func (c *Customer) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
