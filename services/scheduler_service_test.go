package services_test

import (
	"context"
	"testing"
	"time"

	"laundrypos-backend/models"
	"laundrypos-backend/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileBalances_RepairsDrift(t *testing.T) {
	db := openTestDB(t)
	branch := seedBranch(t, db, "MAIN")
	customer := seedCustomer(t, db, "+15550050001", 0)
	accounts, ledger := newLedger(db)
	payments := services.NewPaymentService(db, accounts)
	scheduler := services.NewSchedulerService(db, services.NewNotifyServiceWith(db, nil, nil))
	ctx := context.Background()

	input := cashOrderInput(branch)
	input.CustomerID = &customer.ID
	input.PaymentMethod = models.PaymentPayLater
	_, err := ledger.CreateOrder(ctx, input)
	require.NoError(t, err)

	_, _, err = payments.RecordPayment(ctx, services.RecordPaymentInput{
		CustomerID:    customer.ID,
		BranchID:      branch.ID,
		Amount:        d("10.00"),
		PaymentMethod: "cash",
		ReceivedBy:    "staff",
	})
	require.NoError(t, err)
	require.Equal(t, "22.55", reloadCustomer(t, db, customer).BalanceDue.StringFixed(2))

	// A consistent ledger is left alone
	assert.Equal(t, 0, scheduler.ReconcileBalances())

	// Simulate drift from a lost write
	require.NoError(t, db.Model(&models.Customer{}).
		Where("id = ?", customer.ID).
		Update("balance_due", d("99.00")).Error)

	assert.Equal(t, 1, scheduler.ReconcileBalances())
	assert.Equal(t, "22.55", reloadCustomer(t, db, customer).BalanceDue.StringFixed(2))

	// Re-running is a no-op
	assert.Equal(t, 0, scheduler.ReconcileBalances())
}

func TestReconcileBalances_CashOrdersDoNotCount(t *testing.T) {
	db := openTestDB(t)
	branch := seedBranch(t, db, "MAIN")
	customer := seedCustomer(t, db, "+15550050002", 0)
	_, ledger := newLedger(db)
	scheduler := services.NewSchedulerService(db, services.NewNotifyServiceWith(db, nil, nil))

	input := cashOrderInput(branch)
	input.CustomerID = &customer.ID
	_, err := ledger.CreateOrder(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, 0, scheduler.ReconcileBalances())
	assert.Equal(t, "0.00", reloadCustomer(t, db, customer).BalanceDue.StringFixed(2))
}

func TestSendPickupReminders_OnlyReadyOrdersDueToday(t *testing.T) {
	db := openTestDB(t)
	branch := seedBranch(t, db, "MAIN")
	sms := &fakeNotifier{}
	notify := services.NewNotifyServiceWith(db, sms, nil)
	accounts := services.NewAccountService(db)
	ledger := services.NewLedgerService(db, accounts, notify)
	scheduler := services.NewSchedulerService(db, notify)
	ctx := context.Background()

	today := time.Now()
	tomorrow := today.Add(24 * time.Hour)

	dueToday := cashOrderInput(branch)
	dueToday.EstimatedPickup = &today
	readyOrder, err := ledger.CreateOrder(ctx, dueToday)
	require.NoError(t, err)
	for _, status := range []models.OrderStatus{
		models.StatusProcessing, models.StatusWashing, models.StatusDrying, models.StatusReady,
	} {
		_, err = ledger.AdvanceStatus(ctx, readyOrder.ID, status, "staff", false)
		require.NoError(t, err)
	}

	// Ready but due tomorrow: no reminder
	dueLater := cashOrderInput(branch)
	dueLater.EstimatedPickup = &tomorrow
	laterOrder, err := ledger.CreateOrder(ctx, dueLater)
	require.NoError(t, err)
	for _, status := range []models.OrderStatus{
		models.StatusProcessing, models.StatusWashing, models.StatusDrying, models.StatusReady,
	} {
		_, err = ledger.AdvanceStatus(ctx, laterOrder.ID, status, "staff", false)
		require.NoError(t, err)
	}

	// Due today but not ready yet: no reminder
	notReady := cashOrderInput(branch)
	notReady.EstimatedPickup = &today
	_, err = ledger.CreateOrder(ctx, notReady)
	require.NoError(t, err)

	scheduler.SendPickupReminders()

	require.Len(t, sms.sent, 1)
	assert.Contains(t, sms.sent[0], readyOrder.OrderNumber)
}
