package services_test

import (
	"context"
	"testing"

	"laundrypos-backend/models"
	"laundrypos-backend/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordPayment_ReducesBalanceExactly(t *testing.T) {
	db := openTestDB(t)
	branch := seedBranch(t, db, "MAIN")
	customer := seedCustomer(t, db, "+15550010001", 0)
	accounts, ledger := newLedger(db)
	payments := services.NewPaymentService(db, accounts)
	ctx := context.Background()

	input := cashOrderInput(branch)
	input.CustomerID = &customer.ID
	input.PaymentMethod = models.PaymentPayLater
	input.Items = []services.OrderItemInput{
		{ClothingItemName: "Suit", ServiceName: "Dry Clean", Quantity: 1, UnitPrice: d("25.00")},
	}
	input.TaxRate = d("0")
	_, err := ledger.CreateOrder(ctx, input)
	require.NoError(t, err)
	require.Equal(t, "25.00", reloadCustomer(t, db, customer).BalanceDue.StringFixed(2))

	_, balance, err := payments.RecordPayment(ctx, services.RecordPaymentInput{
		CustomerID:    customer.ID,
		BranchID:      branch.ID,
		Amount:        d("10.00"),
		PaymentMethod: "cash",
		ReceivedBy:    "front desk",
	})
	require.NoError(t, err)
	assert.Equal(t, "15.00", balance.StringFixed(2))

	// Overpayment is exact arithmetic, not a clamp: balance goes negative
	_, balance, err = payments.RecordPayment(ctx, services.RecordPaymentInput{
		CustomerID:    customer.ID,
		BranchID:      branch.ID,
		Amount:        d("20.00"),
		PaymentMethod: "cash",
		ReceivedBy:    "front desk",
	})
	require.NoError(t, err)
	assert.Equal(t, "-5.00", balance.StringFixed(2))
	assert.Equal(t, "-5.00", reloadCustomer(t, db, customer).BalanceDue.StringFixed(2))
}

func TestRecordPayment_Validation(t *testing.T) {
	db := openTestDB(t)
	branch := seedBranch(t, db, "MAIN")
	customer := seedCustomer(t, db, "+15550010002", 0)
	accounts := services.NewAccountService(db)
	payments := services.NewPaymentService(db, accounts)
	ctx := context.Background()

	tests := []struct {
		name  string
		input services.RecordPaymentInput
		errIs error
	}{
		{
			name: "zero_amount",
			input: services.RecordPaymentInput{
				CustomerID: customer.ID, BranchID: branch.ID,
				Amount: d("0"), PaymentMethod: "cash", ReceivedBy: "staff",
			},
			errIs: services.ErrValidation,
		},
		{
			name: "negative_amount",
			input: services.RecordPaymentInput{
				CustomerID: customer.ID, BranchID: branch.ID,
				Amount: d("-3.50"), PaymentMethod: "cash", ReceivedBy: "staff",
			},
			errIs: services.ErrValidation,
		},
		{
			name: "missing_method",
			input: services.RecordPaymentInput{
				CustomerID: customer.ID, BranchID: branch.ID,
				Amount: d("5.00"), ReceivedBy: "staff",
			},
			errIs: services.ErrValidation,
		},
		{
			name: "missing_received_by",
			input: services.RecordPaymentInput{
				CustomerID: customer.ID, BranchID: branch.ID,
				Amount: d("5.00"), PaymentMethod: "cash",
			},
			errIs: services.ErrValidation,
		},
		{
			name: "unknown_customer",
			input: services.RecordPaymentInput{
				CustomerID: branch.ID, BranchID: branch.ID,
				Amount: d("5.00"), PaymentMethod: "cash", ReceivedBy: "staff",
			},
			errIs: services.ErrCustomerNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := payments.RecordPayment(ctx, tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.errIs)
		})
	}

	// Nothing was written for any rejected payment
	var count int64
	db.Model(&models.Payment{}).Count(&count)
	assert.Zero(t, count)
	assert.Equal(t, "0.00", reloadCustomer(t, db, customer).BalanceDue.StringFixed(2))
}

func TestRecordPayment_CrossBranchOrderRejected(t *testing.T) {
	db := openTestDB(t)
	main := seedBranch(t, db, "MAIN")
	north := seedBranch(t, db, "NORTH")
	customer := seedCustomer(t, db, "+15550010003", 0)
	accounts, ledger := newLedger(db)
	payments := services.NewPaymentService(db, accounts)
	ctx := context.Background()

	input := cashOrderInput(main)
	input.CustomerID = &customer.ID
	order, err := ledger.CreateOrder(ctx, input)
	require.NoError(t, err)

	// Recording against an order from another branch scope must fail
	_, _, err = payments.RecordPayment(ctx, services.RecordPaymentInput{
		CustomerID:    customer.ID,
		OrderID:       &order.ID,
		BranchID:      north.ID,
		Amount:        d("5.00"),
		PaymentMethod: "cash",
		ReceivedBy:    "staff",
	})
	assert.ErrorIs(t, err, services.ErrOrderNotFound)

	// Same branch succeeds
	_, _, err = payments.RecordPayment(ctx, services.RecordPaymentInput{
		CustomerID:    customer.ID,
		OrderID:       &order.ID,
		BranchID:      main.ID,
		Amount:        d("5.00"),
		PaymentMethod: "cash",
		ReceivedBy:    "staff",
	})
	assert.NoError(t, err)
}
