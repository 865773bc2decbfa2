package services

import (
	"context"
	"errors"

	"laundrypos-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AccountService owns the two customer mutation primitives the order
// ledger and the payment recorder are allowed to use. Both are single
// atomic UPDATEs so concurrent orders and payments for the same customer
// never lose each other's writes.
type AccountService struct {
	db *gorm.DB
}

func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{db: db}
}

// AdjustBalance applies a signed delta to the customer's balance due. The
// tx handle is the caller's transaction so the adjustment commits or rolls
// back together with the order or payment that caused it.
func (s *AccountService) AdjustBalance(tx *gorm.DB, customerID uuid.UUID, delta decimal.Decimal) error {
	res := tx.Model(&models.Customer{}).
		Where("id = ?", customerID).
		Update("balance_due", gorm.Expr("balance_due + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

// AdjustLoyalty applies a signed point delta and appends one audit row.
// The guard lives in the WHERE clause, so a redemption that would go
// negative affects zero rows no matter how many writers race.
func (s *AccountService) AdjustLoyalty(tx *gorm.DB, customerID uuid.UUID, delta int, description string) error {
	if delta == 0 {
		return nil
	}

	res := tx.Model(&models.Customer{}).
		Where("id = ? AND loyalty_points + ? >= 0", customerID, delta).
		Update("loyalty_points", gorm.Expr("loyalty_points + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var customer models.Customer
		if err := tx.Select("id").First(&customer, "id = ?", customerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCustomerNotFound
			}
			return err
		}
		return ErrInsufficientPoints
	}

	history := models.LoyaltyHistory{
		CustomerID:  customerID,
		Change:      delta,
		Description: description,
	}
	return tx.Create(&history).Error
}

// GetCustomer loads a customer by id.
func (s *AccountService) GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return &customer, nil
}
