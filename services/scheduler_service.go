// services/scheduler_service.go
package services

import (
	"fmt"
	"log"
	"time"

	"laundrypos-backend/models"
	"laundrypos-backend/utils"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SchedulerService runs the two background jobs: daily pickup reminder
// SMS and the hourly balance reconciliation.
type SchedulerService struct {
	db     *gorm.DB
	notify *NotifyService
}

func NewSchedulerService(db *gorm.DB, notify *NotifyService) *SchedulerService {
	return &SchedulerService{db: db, notify: notify}
}

func (s *SchedulerService) Start() {
	c := cron.New()

	// Run every day at 9 AM
	c.AddFunc("0 9 * * *", s.SendPickupReminders)
	c.AddFunc("@hourly", func() { s.ReconcileBalances() })

	c.Start()
	log.Println("Scheduler started")
}

// SendPickupReminders texts every customer whose order is ready with a
// pickup estimated for today.
func (s *SchedulerService) SendPickupReminders() {
	log.Println("Starting pickup reminder processing...")

	now := time.Now()
	var orders []models.Order
	err := s.db.
		Where("status = ? AND estimated_pickup BETWEEN ? AND ?",
			models.StatusReady, utils.BeginningOfDay(now), utils.EndOfDay(now)).
		Find(&orders).Error
	if err != nil {
		log.Printf("Failed to fetch orders for reminders: %v", err)
		return
	}

	for i := range orders {
		order := &orders[i]
		message := fmt.Sprintf("Hi %s, your laundry order %s is ready for pickup today.",
			order.CustomerName, order.OrderNumber)
		s.notify.SendSMS(order, message)
	}

	log.Printf("Pickup reminder processing completed, %d orders", len(orders))
}

type balanceRow struct {
	ID       string
	Stored   decimal.Decimal
	Expected decimal.Decimal
}

// ReconcileBalances recomputes every customer's balance from the order
// and payment ledgers and repairs any drift. The expected value is
// derived from scratch each run, so the job is safe to run twice and
// never double-applies a delta. Returns the number of repaired rows.
func (s *SchedulerService) ReconcileBalances() int {
	var rows []balanceRow
	err := s.db.Raw(`
		SELECT c.id AS id, c.balance_due AS stored,
			(SELECT COALESCE(SUM(o.total), 0) FROM orders o
				WHERE o.customer_id = c.id AND o.payment_method = 'pay_later') -
			(SELECT COALESCE(SUM(p.amount), 0) FROM payments p
				WHERE p.customer_id = c.id) AS expected
		FROM customers c`).Scan(&rows).Error
	if err != nil {
		log.Printf("Balance reconciliation query failed: %v", err)
		return 0
	}

	repaired := 0
	for _, row := range rows {
		if row.Stored.Equal(row.Expected) {
			continue
		}
		log.Printf("Balance drift for customer %s: stored %s, expected %s",
			row.ID, row.Stored, row.Expected)
		res := s.db.Model(&models.Customer{}).
			Where("id = ? AND balance_due = ?", row.ID, row.Stored).
			Update("balance_due", row.Expected)
		if res.Error != nil {
			log.Printf("Failed to repair balance for customer %s: %v", row.ID, res.Error)
			continue
		}
		if res.RowsAffected > 0 {
			repaired++
		}
	}
	if repaired > 0 {
		log.Printf("Balance reconciliation repaired %d customers", repaired)
	}
	return repaired
}
