package services_test

import (
	"context"
	"errors"
	"testing"

	"laundrypos-backend/models"
	"laundrypos-backend/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotifier struct {
	sent []string
	err  error
}

func (f *fakeNotifier) Send(to, message string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to+": "+message)
	return nil
}

func TestNotifyStatus_LogsEachChannel(t *testing.T) {
	db := openTestDB(t)
	branch := seedBranch(t, db, "MAIN")
	customer := seedCustomer(t, db, "+15550040001", 0)

	sms := &fakeNotifier{}
	email := &fakeNotifier{}
	notify := services.NewNotifyServiceWith(db, sms, email)
	accounts := services.NewAccountService(db)
	ledger := services.NewLedgerService(db, accounts, notify)

	input := cashOrderInput(branch)
	input.CustomerID = &customer.ID
	order, err := ledger.CreateOrder(context.Background(), input)
	require.NoError(t, err)

	notify.NotifyStatus(order, &customer)

	assert.Len(t, sms.sent, 1)
	assert.Len(t, email.sent, 1)

	var logs []models.NotificationLog
	require.NoError(t, db.Where("order_id = ?", order.ID).Find(&logs).Error)
	require.Len(t, logs, 2)
	for _, entry := range logs {
		assert.Equal(t, "sent", entry.Status)
		assert.Contains(t, entry.Message, order.OrderNumber)
	}
}

func TestAdvanceStatus_NotificationFailureDoesNotBlock(t *testing.T) {
	db := openTestDB(t)
	branch := seedBranch(t, db, "MAIN")

	sms := &fakeNotifier{err: errors.New("carrier unreachable")}
	notify := services.NewNotifyServiceWith(db, sms, nil)
	accounts := services.NewAccountService(db)
	ledger := services.NewLedgerService(db, accounts, notify)
	ctx := context.Background()

	order, err := ledger.CreateOrder(ctx, cashOrderInput(branch))
	require.NoError(t, err)

	// The status change commits even though the SMS channel is down
	updated, err := ledger.AdvanceStatus(ctx, order.ID, models.StatusProcessing, "staff", true)
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, updated.Status)

	var fresh models.Order
	require.NoError(t, db.First(&fresh, "id = ?", order.ID).Error)
	assert.Equal(t, models.StatusProcessing, fresh.Status)

	var entry models.NotificationLog
	require.NoError(t, db.First(&entry, "order_id = ?", order.ID).Error)
	assert.Equal(t, "failed", entry.Status)
	assert.Equal(t, "carrier unreachable", entry.ErrorMessage)
	assert.Equal(t, order.CustomerPhone, entry.Recipient)
}

func TestNotifyStatus_SkipsMissingChannels(t *testing.T) {
	db := openTestDB(t)
	branch := seedBranch(t, db, "MAIN")

	notify := services.NewNotifyServiceWith(db, nil, nil)
	accounts := services.NewAccountService(db)
	ledger := services.NewLedgerService(db, accounts, notify)

	order, err := ledger.CreateOrder(context.Background(), cashOrderInput(branch))
	require.NoError(t, err)

	notify.NotifyStatus(order, nil)

	var count int64
	db.Model(&models.NotificationLog{}).Count(&count)
	assert.Zero(t, count)
}
