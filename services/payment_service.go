package services

import (
	"context"
	"errors"
	"fmt"

	"laundrypos-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentService records payments against customer balances. Payment rows
// are append-only; the balance decrement rides the same transaction.
type PaymentService struct {
	db       *gorm.DB
	accounts *AccountService
}

func NewPaymentService(db *gorm.DB, accounts *AccountService) *PaymentService {
	return &PaymentService{db: db, accounts: accounts}
}

type RecordPaymentInput struct {
	CustomerID uuid.UUID
	OrderID    *uuid.UUID
	// BranchID is the recording operator's branch scope; a referenced order
	// must belong to it.
	BranchID      uuid.UUID
	Amount        decimal.Decimal
	PaymentMethod string
	ReceivedBy    string
	Notes         string
}

// RecordPayment persists the payment and decreases the customer's balance
// by exactly the amount. Overpayment is not clamped: a balance may go
// negative and stands as store credit.
func (s *PaymentService) RecordPayment(ctx context.Context, input RecordPaymentInput) (*models.Payment, decimal.Decimal, error) {
	if !input.Amount.IsPositive() {
		return nil, decimal.Zero, fmt.Errorf("%w: payment amount must be positive, got %s", ErrValidation, input.Amount)
	}
	if input.PaymentMethod == "" {
		return nil, decimal.Zero, fmt.Errorf("%w: payment method is required", ErrValidation)
	}
	if input.ReceivedBy == "" {
		return nil, decimal.Zero, fmt.Errorf("%w: receivedBy is required", ErrValidation)
	}

	var payment models.Payment
	var newBalance decimal.Decimal

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.Select("id").First(&customer, "id = ?", input.CustomerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCustomerNotFound
			}
			return err
		}

		if input.OrderID != nil {
			var order models.Order
			err := tx.Select("id").First(&order, "id = ? AND branch_id = ?", *input.OrderID, input.BranchID).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrOrderNotFound
				}
				return err
			}
		}

		payment = models.Payment{
			CustomerID:    input.CustomerID,
			OrderID:       input.OrderID,
			BranchID:      input.BranchID,
			Amount:        input.Amount,
			PaymentMethod: input.PaymentMethod,
			ReceivedBy:    input.ReceivedBy,
			Notes:         input.Notes,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		if err := s.accounts.AdjustBalance(tx, input.CustomerID, input.Amount.Neg()); err != nil {
			return err
		}

		var updated models.Customer
		if err := tx.Select("balance_due").First(&updated, "id = ?", input.CustomerID).Error; err != nil {
			return err
		}
		newBalance = updated.BalanceDue
		return nil
	})
	if err != nil {
		return nil, decimal.Zero, err
	}

	return &payment, newBalance, nil
}
