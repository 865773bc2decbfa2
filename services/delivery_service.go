package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"laundrypos-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DeliveryService is the public, unauthenticated order intake plus the
// dispatcher-side operations. Intake is keyed by branch code so internal
// branch ids never leak.
type DeliveryService struct {
	db     *gorm.DB
	ledger *LedgerService
}

func NewDeliveryService(db *gorm.DB, ledger *LedgerService) *DeliveryService {
	return &DeliveryService{db: db, ledger: ledger}
}

type DeliveryItemInput struct {
	ClothingItemName string
	ServiceName      string
	Quantity         int
}

type SubmitDeliveryInput struct {
	BranchCode    string
	CustomerName  string
	CustomerPhone string
	Address       string
	PickupTime    *time.Time
	DropoffTime   *time.Time
	DropoffLat    *float64
	DropoffLng    *float64
	Items         []DeliveryItemInput
}

// DeliveryReceipt is all a public submitter gets back.
type DeliveryReceipt struct {
	OrderID     uuid.UUID `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
}

// Submit creates a delivery_pending order with placeholder pricing
// (public submitters do not see the catalog; staff price the order later)
// and the delivery detail row, atomically.
func (s *DeliveryService) Submit(ctx context.Context, input SubmitDeliveryInput) (*DeliveryReceipt, error) {
	if input.CustomerName == "" || input.CustomerPhone == "" {
		return nil, fmt.Errorf("%w: name and phone are required", ErrValidation)
	}
	if input.Address == "" {
		return nil, fmt.Errorf("%w: address is required", ErrValidation)
	}
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", ErrValidation)
	}
	for i, item := range input.Items {
		if item.Quantity < 0 {
			return nil, fmt.Errorf("%w: item %d has negative quantity %d", ErrValidation, i, item.Quantity)
		}
	}

	var receipt *DeliveryReceipt
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Generic not-found regardless of how close the code was.
		var branch models.Branch
		if err := tx.First(&branch, "code = ? AND is_active = ?", input.BranchCode, true).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBranchNotFound
			}
			return err
		}

		items := make([]OrderItemInput, 0, len(input.Items))
		for _, item := range input.Items {
			// Quantity defaults to one only when omitted
			qty := item.Quantity
			if qty == 0 {
				qty = 1
			}
			items = append(items, OrderItemInput{
				ClothingItemName: item.ClothingItemName,
				ServiceName:      item.ServiceName,
				Quantity:         qty,
				UnitPrice:        decimal.Zero,
			})
		}

		order, err := s.ledger.CreateOrderTx(tx, CreateOrderInput{
			BranchID:      branch.ID,
			CustomerName:  input.CustomerName,
			CustomerPhone: input.CustomerPhone,
			SellerName:    "online",
			PaymentMethod: models.PaymentCash,
			Status:        models.StatusDeliveryPending,
			Items:         items,
			TaxRate:       branch.TaxRate,
		})
		if err != nil {
			return err
		}

		detail := models.DeliveryOrder{
			OrderID:        order.ID,
			PickupAddress:  branch.Address,
			DropoffAddress: input.Address,
			DropoffLat:     input.DropoffLat,
			DropoffLng:     input.DropoffLng,
			PickupTime:     input.PickupTime,
			DropoffTime:    input.DropoffTime,
		}
		if err := tx.Create(&detail).Error; err != nil {
			return err
		}

		receipt = &DeliveryReceipt{OrderID: order.ID, OrderNumber: order.OrderNumber}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// AssignDriver attaches a driver to a pending delivery order and moves it
// into the normal forward chain. Assignment and transition share one
// transaction: a failed transition leaves the delivery unassigned, and an
// already-dispatched delivery cannot be silently reassigned.
func (s *DeliveryService) AssignDriver(ctx context.Context, orderID, driverID uuid.UUID, actor string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var driver models.Driver
		if err := tx.First(&driver, "id = ? AND is_active = ?", driverID, true).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDriverNotFound
			}
			return err
		}

		res := tx.Model(&models.DeliveryOrder{}).
			Where("order_id = ? AND driver_id IS NULL", orderID).
			Update("driver_id", driverID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var existing models.DeliveryOrder
			err := tx.Select("id").First(&existing, "order_id = ?", orderID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			if err != nil {
				return err
			}
			return ErrAlreadyAssigned
		}

		_, err := s.ledger.AdvanceStatusTx(tx, orderID, models.StatusReceived, actor)
		return err
	})
}

// UpdateDriverLocation records the driver's last reported GPS position.
func (s *DeliveryService) UpdateDriverLocation(ctx context.Context, driverID uuid.UUID, lat, lng float64) error {
	now := time.Now()
	res := s.db.WithContext(ctx).Model(&models.Driver{}).
		Where("id = ?", driverID).
		Updates(map[string]interface{}{
			"last_lat":     lat,
			"last_lng":     lng,
			"last_seen_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrDriverNotFound
	}
	return nil
}

// ListUnassigned returns delivery orders waiting for a driver.
func (s *DeliveryService) ListUnassigned(ctx context.Context, branchID uuid.UUID) ([]models.DeliveryOrder, error) {
	var pending []models.DeliveryOrder
	err := s.db.WithContext(ctx).
		Joins("JOIN orders ON orders.id = delivery_orders.order_id").
		Where("delivery_orders.driver_id IS NULL AND orders.branch_id = ?", branchID).
		Preload("Order").
		Find(&pending).Error
	return pending, err
}
