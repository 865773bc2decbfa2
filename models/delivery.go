package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DeliveryOrder is the one-to-one delivery extension of an Order created
// through the public intake flow.
type DeliveryOrder struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key"`
	OrderID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`

	PickupAddress  string `gorm:"not null"`
	DropoffAddress string `gorm:"not null"`
	DropoffLat     *float64
	DropoffLng     *float64
	DistanceKm     *float64
	DurationMin    *int

	PickupTime  *time.Time
	DropoffTime *time.Time

	DriverID *uuid.UUID `gorm:"type:uuid;index"`

	Order  Order   `gorm:"foreignKey:OrderID"`
	Driver *Driver `gorm:"foreignKey:DriverID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (d *DeliveryOrder) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return
}

type Driver struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	BranchID uuid.UUID `gorm:"type:uuid;index;not null"`
	Name     string    `gorm:"not null"`
	Phone    string    `gorm:"not null"`
	IsActive bool      `gorm:"default:true"`

	LastLat    *float64
	LastLng    *float64
	LastSeenAt *time.Time

	gorm.Model
}

func (d *Driver) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return
}
