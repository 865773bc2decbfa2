package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ClothingItem struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	BranchID uuid.UUID `gorm:"type:uuid;index;not null"`
	Name     string    `gorm:"not null"`
	Category string    `gorm:"default:'General'"`
	IsActive bool      `gorm:"default:true"`
}

func (i *ClothingItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

type LaundryService struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	BranchID    uuid.UUID `gorm:"type:uuid;index;not null"`
	Name        string    `gorm:"not null"`
	Description string
	IsActive    bool `gorm:"default:true"`
}

func (s *LaundryService) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

// ServicePrice holds the price of one (clothing item, service) pair. The
// order ledger never reads these; controllers resolve prices before checkout.
type ServicePrice struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	BranchID       uuid.UUID       `gorm:"type:uuid;index;not null"`
	ClothingItemID uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_item_service,priority:1;not null"`
	ServiceID      uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_item_service,priority:2;not null"`
	Price          decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	ClothingItem ClothingItem   `gorm:"foreignKey:ClothingItemID"`
	Service      LaundryService `gorm:"foreignKey:ServiceID"`
}

func (p *ServicePrice) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
