package services_test

import (
	"context"
	"testing"

	"laundrypos-backend/models"
	"laundrypos-backend/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newDelivery(db *gorm.DB) (*services.LedgerService, *services.DeliveryService) {
	_, ledger := newLedger(db)
	return ledger, services.NewDeliveryService(db, ledger)
}

func submitInput(code string) services.SubmitDeliveryInput {
	return services.SubmitDeliveryInput{
		BranchCode:    code,
		CustomerName:  "Jordan Lee",
		CustomerPhone: "+15550030001",
		Address:       "48 Elm Street",
		Items: []services.DeliveryItemInput{
			{ClothingItemName: "Shirt", ServiceName: "Wash & Iron", Quantity: 2},
			{ClothingItemName: "Jeans", ServiceName: "Wash & Iron"},
		},
	}
}

func TestSubmitDelivery_CreatesPendingOrder(t *testing.T) {
	db := openTestDB(t)
	branch := seedBranch(t, db, "MAIN")
	_, delivery := newDelivery(db)

	receipt, err := delivery.Submit(context.Background(), submitInput("MAIN"))
	require.NoError(t, err)
	assert.Equal(t, "MAIN-000001", receipt.OrderNumber)

	var order models.Order
	require.NoError(t, db.Preload("Items").First(&order, "id = ?", receipt.OrderID).Error)
	assert.Equal(t, models.StatusDeliveryPending, order.Status)
	assert.Equal(t, branch.ID, order.BranchID)
	assert.Equal(t, "online", order.SellerName)
	assert.Equal(t, "0.00", order.Total.StringFixed(2))

	require.Len(t, order.Items, 2)
	assert.Equal(t, 2, order.Items[0].Quantity)
	// Omitted quantity defaults to one
	assert.Equal(t, 1, order.Items[1].Quantity)
	assert.Equal(t, "0.00", order.Items[0].UnitPrice.StringFixed(2))

	var detail models.DeliveryOrder
	require.NoError(t, db.First(&detail, "order_id = ?", order.ID).Error)
	assert.Equal(t, branch.Address, detail.PickupAddress)
	assert.Equal(t, "48 Elm Street", detail.DropoffAddress)
	assert.Nil(t, detail.DriverID)
}

func TestSubmitDelivery_Validation(t *testing.T) {
	db := openTestDB(t)
	seedBranch(t, db, "MAIN")
	_, delivery := newDelivery(db)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*services.SubmitDeliveryInput)
		errIs  error
	}{
		{"missing_name", func(in *services.SubmitDeliveryInput) { in.CustomerName = "" }, services.ErrValidation},
		{"missing_phone", func(in *services.SubmitDeliveryInput) { in.CustomerPhone = "" }, services.ErrValidation},
		{"missing_address", func(in *services.SubmitDeliveryInput) { in.Address = "" }, services.ErrValidation},
		{"no_items", func(in *services.SubmitDeliveryInput) { in.Items = nil }, services.ErrValidation},
		{"negative_quantity", func(in *services.SubmitDeliveryInput) { in.Items[0].Quantity = -3 }, services.ErrValidation},
		{"unknown_branch_code", func(in *services.SubmitDeliveryInput) { in.BranchCode = "NOPE" }, services.ErrBranchNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := submitInput("MAIN")
			tt.mutate(&input)
			_, err := delivery.Submit(ctx, input)
			assert.ErrorIs(t, err, tt.errIs)
		})
	}

	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Zero(t, count)
}

func TestSubmitDelivery_InactiveBranchRejected(t *testing.T) {
	db := openTestDB(t)
	branch := seedBranch(t, db, "MAIN")
	require.NoError(t, db.Model(&branch).Update("is_active", false).Error)
	_, delivery := newDelivery(db)

	_, err := delivery.Submit(context.Background(), submitInput("MAIN"))
	assert.ErrorIs(t, err, services.ErrBranchNotFound)
}

func TestAssignDriver(t *testing.T) {
	db := openTestDB(t)
	branch := seedBranch(t, db, "MAIN")
	_, delivery := newDelivery(db)
	ctx := context.Background()

	receipt, err := delivery.Submit(ctx, submitInput("MAIN"))
	require.NoError(t, err)

	driver := models.Driver{BranchID: branch.ID, Name: "Sam Rider", Phone: "+15550030099", IsActive: true}
	require.NoError(t, db.Create(&driver).Error)

	pending, err := delivery.ListUnassigned(ctx, branch.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NoError(t, delivery.AssignDriver(ctx, receipt.OrderID, driver.ID, "dispatcher"))

	var detail models.DeliveryOrder
	require.NoError(t, db.First(&detail, "order_id = ?", receipt.OrderID).Error)
	require.NotNil(t, detail.DriverID)
	assert.Equal(t, driver.ID, *detail.DriverID)

	var order models.Order
	require.NoError(t, db.First(&order, "id = ?", receipt.OrderID).Error)
	assert.Equal(t, models.StatusReceived, order.Status)

	pending, err = delivery.ListUnassigned(ctx, branch.ID)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestAssignDriver_AlreadyAssignedRejected(t *testing.T) {
	db := openTestDB(t)
	branch := seedBranch(t, db, "MAIN")
	_, delivery := newDelivery(db)
	ctx := context.Background()

	receipt, err := delivery.Submit(ctx, submitInput("MAIN"))
	require.NoError(t, err)

	first := models.Driver{BranchID: branch.ID, Name: "Sam Rider", Phone: "+15550030099", IsActive: true}
	require.NoError(t, db.Create(&first).Error)
	second := models.Driver{BranchID: branch.ID, Name: "Kim Wheels", Phone: "+15550030098", IsActive: true}
	require.NoError(t, db.Create(&second).Error)

	require.NoError(t, delivery.AssignDriver(ctx, receipt.OrderID, first.ID, "dispatcher"))

	err = delivery.AssignDriver(ctx, receipt.OrderID, second.ID, "dispatcher")
	assert.ErrorIs(t, err, services.ErrAlreadyAssigned)

	var detail models.DeliveryOrder
	require.NoError(t, db.First(&detail, "order_id = ?", receipt.OrderID).Error)
	require.NotNil(t, detail.DriverID)
	assert.Equal(t, first.ID, *detail.DriverID)
}

func TestAssignDriver_FailedTransitionLeavesUnassigned(t *testing.T) {
	db := openTestDB(t)
	branch := seedBranch(t, db, "MAIN")
	ledger, delivery := newDelivery(db)
	ctx := context.Background()

	receipt, err := delivery.Submit(ctx, submitInput("MAIN"))
	require.NoError(t, err)

	// Order slips past delivery_pending before the dispatcher acts
	_, err = ledger.ForceStatus(ctx, receipt.OrderID, models.StatusProcessing, "admin", "rebooked")
	require.NoError(t, err)

	driver := models.Driver{BranchID: branch.ID, Name: "Sam Rider", Phone: "+15550030099", IsActive: true}
	require.NoError(t, db.Create(&driver).Error)

	err = delivery.AssignDriver(ctx, receipt.OrderID, driver.ID, "dispatcher")
	require.Error(t, err)

	// The rolled-back assignment leaves no partial state behind
	var detail models.DeliveryOrder
	require.NoError(t, db.First(&detail, "order_id = ?", receipt.OrderID).Error)
	assert.Nil(t, detail.DriverID)
}

func TestAssignDriver_NotFound(t *testing.T) {
	db := openTestDB(t)
	seedBranch(t, db, "MAIN")
	_, delivery := newDelivery(db)
	ctx := context.Background()

	receipt, err := delivery.Submit(ctx, submitInput("MAIN"))
	require.NoError(t, err)

	err = delivery.AssignDriver(ctx, receipt.OrderID, uuid.New(), "dispatcher")
	assert.ErrorIs(t, err, services.ErrDriverNotFound)

	driver := models.Driver{Name: "Sam Rider", Phone: "+15550030099", IsActive: true}
	require.NoError(t, db.Create(&driver).Error)

	err = delivery.AssignDriver(ctx, uuid.New(), driver.ID, "dispatcher")
	assert.ErrorIs(t, err, services.ErrOrderNotFound)
}

func TestUpdateDriverLocation(t *testing.T) {
	db := openTestDB(t)
	_, delivery := newDelivery(db)
	ctx := context.Background()

	driver := models.Driver{Name: "Sam Rider", Phone: "+15550030099", IsActive: true}
	require.NoError(t, db.Create(&driver).Error)

	require.NoError(t, delivery.UpdateDriverLocation(ctx, driver.ID, 40.7128, -74.0060))

	var fresh models.Driver
	require.NoError(t, db.First(&fresh, "id = ?", driver.ID).Error)
	require.NotNil(t, fresh.LastLat)
	assert.InDelta(t, 40.7128, *fresh.LastLat, 0.0001)
	require.NotNil(t, fresh.LastSeenAt)

	err := delivery.UpdateDriverLocation(ctx, uuid.New(), 0, 0)
	assert.ErrorIs(t, err, services.ErrDriverNotFound)
}
