package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"laundrypos-backend/models"
	"laundrypos-backend/pricing"
	"laundrypos-backend/statemachine"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerService owns order creation and status transitions, plus the
// derived customer balance and loyalty side effects. Everything financial
// about an order happens inside one transaction here.
type LedgerService struct {
	db       *gorm.DB
	accounts *AccountService
	notify   *NotifyService
}

func NewLedgerService(db *gorm.DB, accounts *AccountService, notify *NotifyService) *LedgerService {
	return &LedgerService{db: db, accounts: accounts, notify: notify}
}

type OrderItemInput struct {
	ClothingItemName string
	ServiceName      string
	Quantity         int
	UnitPrice        decimal.Decimal
}

type CreateOrderInput struct {
	BranchID      uuid.UUID
	CustomerID    *uuid.UUID
	CustomerName  string
	CustomerPhone string
	SellerName    string
	PaymentMethod string

	// Status may only be received (checkout) or delivery_pending (intake).
	Status models.OrderStatus

	Items   []OrderItemInput
	TaxRate decimal.Decimal

	LoyaltyEarned   int
	LoyaltyRedeemed int

	Notes           string
	EstimatedPickup *time.Time
}

func (in *CreateOrderInput) validate() error {
	if in.CustomerName == "" || in.CustomerPhone == "" {
		return fmt.Errorf("%w: customer name and phone are required", ErrValidation)
	}
	switch in.PaymentMethod {
	case models.PaymentCash, models.PaymentCard, models.PaymentPayLater:
	default:
		return fmt.Errorf("%w: unknown payment method %q", ErrValidation, in.PaymentMethod)
	}
	if in.Status == "" {
		in.Status = models.StatusReceived
	}
	if in.Status != models.StatusReceived && in.Status != models.StatusDeliveryPending {
		return fmt.Errorf("%w: orders cannot be created in status %q", ErrValidation, in.Status)
	}
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: order needs at least one item", ErrValidation)
	}
	if in.LoyaltyEarned < 0 || in.LoyaltyRedeemed < 0 {
		return fmt.Errorf("%w: loyalty deltas cannot be negative", ErrValidation)
	}
	if in.LoyaltyRedeemed > 0 && in.CustomerID == nil {
		return fmt.Errorf("%w: loyalty redemption requires a customer account", ErrValidation)
	}
	if in.PaymentMethod == models.PaymentPayLater && in.CustomerID == nil {
		return fmt.Errorf("%w: pay_later requires a customer account", ErrValidation)
	}
	return nil
}

// CreateOrder validates the input, assigns a branch-scoped order number
// and persists the order together with its balance and loyalty side
// effects in a single transaction. A failure anywhere leaves no partial
// financial state behind.
func (s *LedgerService) CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	var order *models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created, err := s.CreateOrderTx(tx, input)
		if err != nil {
			return err
		}
		order = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// CreateOrderTx is CreateOrder joined to a caller-owned transaction, used
// by the delivery intake so the delivery detail row commits atomically
// with the order.
func (s *LedgerService) CreateOrderTx(tx *gorm.DB, input CreateOrderInput) (*models.Order, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	lines := make([]pricing.Line, 0, len(input.Items))
	for _, item := range input.Items {
		lines = append(lines, pricing.Line{UnitPrice: item.UnitPrice, Quantity: item.Quantity})
	}
	summary, err := pricing.ComputeSummary(lines, input.TaxRate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var branch models.Branch
	if err := tx.First(&branch, "id = ? AND is_active = ?", input.BranchID, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBranchNotFound
		}
		return nil, err
	}

	var customer models.Customer
	if input.CustomerID != nil {
		if err := tx.Select("id", "loyalty_points").First(&customer, "id = ?", *input.CustomerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCustomerNotFound
			}
			return nil, err
		}
	}

	// Redemption discounts what the customer owes: clamp the request to
	// what they hold and what the total can absorb, then price the order
	// with the discount applied so pay-later accrual matches the quote.
	redeemed := 0
	if input.LoyaltyRedeemed > 0 {
		redeemed = pricing.ClampRedemption(input.LoyaltyRedeemed, customer.LoyaltyPoints, summary.Total)
	}

	seq, err := nextOrderNumber(tx, branch.ID)
	if err != nil {
		return nil, err
	}

	order := models.Order{
		OrderNumber:     fmt.Sprintf("%s-%06d", branch.Prefix, seq),
		BranchID:        branch.ID,
		CustomerID:      input.CustomerID,
		CustomerName:    input.CustomerName,
		CustomerPhone:   input.CustomerPhone,
		SellerName:      input.SellerName,
		PaymentMethod:   input.PaymentMethod,
		Status:          input.Status,
		Subtotal:        summary.Subtotal,
		Tax:             summary.Tax,
		Total:           pricing.ApplyRedemption(summary.Total, redeemed),
		RedeemedPoints:  redeemed,
		Notes:           input.Notes,
		EstimatedPickup: input.EstimatedPickup,
	}
	for _, item := range input.Items {
		qty := decimal.NewFromInt(int64(item.Quantity))
		order.Items = append(order.Items, models.OrderItem{
			ClothingItemName: item.ClothingItemName,
			ServiceName:      item.ServiceName,
			Quantity:         item.Quantity,
			UnitPrice:        item.UnitPrice,
			LineTotal:        item.UnitPrice.Mul(qty).Round(2),
		})
	}

	if err := tx.Create(&order).Error; err != nil {
		return nil, err
	}

	if input.CustomerID != nil {
		customerID := *input.CustomerID

		if input.PaymentMethod == models.PaymentPayLater {
			if err := s.accounts.AdjustBalance(tx, customerID, order.Total); err != nil {
				return nil, err
			}
		}

		now := time.Now()
		if err := tx.Model(&models.Customer{}).Where("id = ?", customerID).
			Updates(map[string]interface{}{
				"total_orders": gorm.Expr("total_orders + ?", 1),
				"total_spent":  gorm.Expr("total_spent + ?", order.Total),
				"last_visit":   now,
			}).Error; err != nil {
			return nil, err
		}

		if input.LoyaltyEarned > 0 {
			desc := fmt.Sprintf("earned on order %s", order.OrderNumber)
			if err := s.accounts.AdjustLoyalty(tx, customerID, input.LoyaltyEarned, desc); err != nil {
				return nil, err
			}
		}
		if redeemed > 0 {
			desc := fmt.Sprintf("redeemed on order %s", order.OrderNumber)
			if err := s.accounts.AdjustLoyalty(tx, customerID, -redeemed, desc); err != nil {
				return nil, err
			}
		}
	}

	return &order, nil
}

// nextOrderNumber bumps the per-branch counter row atomically. Concurrent
// creations for one branch serialize on the row, so numbers never collide
// even across server instances.
func nextOrderNumber(tx *gorm.DB, branchID uuid.UUID) (int64, error) {
	var seq int64
	err := tx.Raw(`
		INSERT INTO order_counters (branch_id, last_number) VALUES (?, 1)
		ON CONFLICT (branch_id) DO UPDATE SET last_number = order_counters.last_number + 1
		RETURNING last_number`, branchID).Scan(&seq).Error
	return seq, err
}

// AdvanceStatus moves an order one step along the forward chain. The
// write is a compare-and-swap on the previously read status, so two staff
// advancing the same order at once cannot double-apply a step. When
// notify is set, channels are dispatched best-effort after the commit and
// never roll the transition back.
func (s *LedgerService) AdvanceStatus(ctx context.Context, orderID uuid.UUID, target models.OrderStatus, actor string, notify bool) (*models.Order, error) {
	var order *models.Order

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		advanced, err := s.AdvanceStatusTx(tx, orderID, target, actor)
		if err != nil {
			return err
		}
		order = advanced
		return nil
	})
	if err != nil {
		return nil, err
	}

	if notify {
		s.dispatchStatusNotification(ctx, order)
	}

	return order, nil
}

// AdvanceStatusTx is AdvanceStatus joined to a caller-owned transaction,
// used by the delivery dispatcher so the driver assignment and the
// transition commit or roll back together.
func (s *LedgerService) AdvanceStatusTx(tx *gorm.DB, orderID uuid.UUID, target models.OrderStatus, actor string) (*models.Order, error) {
	var order models.Order
	if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if err := statemachine.CanTransition(order.Status, target); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"status": target}
	if target == models.StatusCompleted {
		now := time.Now()
		updates["actual_pickup"] = now
		order.ActualPickup = &now
	}

	res := tx.Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, order.Status).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrStatusConflict
	}

	history := models.OrderStatusHistory{
		OrderID:    order.ID,
		FromStatus: order.Status,
		ToStatus:   target,
		ChangedBy:  actor,
	}
	if err := tx.Create(&history).Error; err != nil {
		return nil, err
	}

	order.Status = target
	return &order, nil
}

// ForceStatus is the explicit admin escape hatch: it skips the edge check
// but still refuses unknown statuses, and every use is audited and logged.
func (s *LedgerService) ForceStatus(ctx context.Context, orderID uuid.UUID, target models.OrderStatus, actor, note string) (*models.Order, error) {
	if !statemachine.IsValid(target) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, target)
	}

	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		updates := map[string]interface{}{"status": target}
		if target == models.StatusCompleted {
			now := time.Now()
			updates["actual_pickup"] = now
			order.ActualPickup = &now
		}
		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Updates(updates).Error; err != nil {
			return err
		}

		history := models.OrderStatusHistory{
			OrderID:    order.ID,
			FromStatus: order.Status,
			ToStatus:   target,
			ChangedBy:  actor,
			Forced:     true,
			Note:       note,
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}

		log.Printf("order %s status forced %s -> %s by %s", order.OrderNumber, order.Status, target, actor)
		order.Status = target
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *LedgerService) dispatchStatusNotification(ctx context.Context, order *models.Order) {
	if s.notify == nil {
		return
	}
	var customer *models.Customer
	if order.CustomerID != nil {
		found, err := s.accounts.GetCustomer(ctx, *order.CustomerID)
		if err != nil {
			log.Printf("order %s: could not load customer for notification: %v", order.OrderNumber, err)
		} else {
			customer = found
		}
	}
	s.notify.NotifyStatus(order, customer)
}
