package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment is an append-only ledger entry; rows are never updated or deleted.
type Payment struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key"`
	CustomerID uuid.UUID  `gorm:"type:uuid;index;not null"`
	OrderID    *uuid.UUID `gorm:"type:uuid;index"`
	BranchID   uuid.UUID  `gorm:"type:uuid;index;not null"`

	Amount        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PaymentMethod string          `gorm:"type:varchar(20);not null"`
	ReceivedBy    string          `gorm:"not null"`
	Notes         string

	CreatedAt time.Time
}

func (p *Payment) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

// LoyaltyHistory is an append-only audit of point deltas; the authoritative
// balance lives on Customer.LoyaltyPoints.
type LoyaltyHistory struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	CustomerID  uuid.UUID `gorm:"type:uuid;index;not null"`
	Change      int       `gorm:"not null"`
	Description string    `gorm:"type:text"`
	CreatedAt   time.Time
}

func (l *LoyaltyHistory) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}
