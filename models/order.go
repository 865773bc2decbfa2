package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus represents all possible states of a laundry order
type OrderStatus string

const (
	StatusDeliveryPending OrderStatus = "delivery_pending"
	StatusReceived        OrderStatus = "received"
	StatusProcessing      OrderStatus = "processing"
	StatusWashing         OrderStatus = "washing"
	StatusDrying          OrderStatus = "drying"
	StatusReady           OrderStatus = "ready"
	StatusCompleted       OrderStatus = "completed"
)

const (
	PaymentCash     = "cash"
	PaymentCard     = "card"
	PaymentPayLater = "pay_later"
)

type Order struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	OrderNumber string    `gorm:"uniqueIndex;not null"`
	BranchID    uuid.UUID `gorm:"type:uuid;index;not null"`

	// Snapshot of who ordered; kept even if the customer is deactivated.
	CustomerID    *uuid.UUID `gorm:"type:uuid;index"`
	CustomerName  string     `gorm:"not null"`
	CustomerPhone string     `gorm:"not null"`
	SellerName    string

	PaymentMethod string      `gorm:"type:varchar(20);not null"` // cash, card, pay_later
	Status        OrderStatus `gorm:"type:varchar(20);not null;default:'received'"`

	Subtotal decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Tax      decimal.Decimal `gorm:"type:decimal(10,2);default:0"`
	// Total is subtotal + tax minus any redeemed loyalty points, never
	// negative. RedeemedPoints keeps the discount auditable.
	Total          decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	RedeemedPoints int             `gorm:"default:0"`

	Notes           string
	EstimatedPickup *time.Time
	ActualPickup    *time.Time

	Items []OrderItem `gorm:"foreignKey:OrderID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (o *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return
}

// OrderItem is a snapshot: names and prices are copied at checkout so later
// catalog changes never touch historical orders.
type OrderItem struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID          uuid.UUID       `gorm:"type:uuid;index;not null"`
	ClothingItemName string          `gorm:"not null"`
	ServiceName      string          `gorm:"not null"`
	Quantity         int             `gorm:"not null"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	LineTotal        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

// OrderStatusHistory tracks every status change, including forced overrides
type OrderStatusHistory struct {
	ID         uuid.UUID   `gorm:"type:uuid;primary_key"`
	OrderID    uuid.UUID   `gorm:"type:uuid;index;not null"`
	FromStatus OrderStatus `gorm:"type:varchar(20)"`
	ToStatus   OrderStatus `gorm:"type:varchar(20);not null"`
	ChangedBy  string
	Forced     bool `gorm:"default:false"`
	Note       string
	CreatedAt  time.Time
}

func (h *OrderStatusHistory) BeforeCreate(tx *gorm.DB) (err error) {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return
}
