package services_test

import (
	"path/filepath"
	"testing"

	"laundrypos-backend/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "laundry.db") + "?_pragma=busy_timeout(10000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Branch{},
		&models.OrderCounter{},
		&models.Customer{},
		&models.ClothingItem{},
		&models.LaundryService{},
		&models.ServicePrice{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusHistory{},
		&models.Payment{},
		&models.LoyaltyHistory{},
		&models.DeliveryOrder{},
		&models.Driver{},
		&models.NotificationLog{},
	))

	return db
}

func seedBranch(t *testing.T, db *gorm.DB, code string) models.Branch {
	t.Helper()
	branch := models.Branch{
		Code:    code,
		Prefix:  code,
		Name:    code + " branch",
		Address: "12 Main Street",
		TaxRate: d("0.085"),
	}
	require.NoError(t, db.Create(&branch).Error)
	return branch
}

func seedCustomer(t *testing.T, db *gorm.DB, phone string, points int) models.Customer {
	t.Helper()
	customer := models.Customer{
		Name:          "Alex Doe",
		Phone:         phone,
		Email:         "alex@example.com",
		LoyaltyPoints: points,
		IsActive:      true,
	}
	require.NoError(t, db.Create(&customer).Error)
	return customer
}

func reloadCustomer(t *testing.T, db *gorm.DB, c models.Customer) models.Customer {
	t.Helper()
	var fresh models.Customer
	require.NoError(t, db.First(&fresh, "id = ?", c.ID).Error)
	return fresh
}
