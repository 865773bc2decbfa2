package controllers

import (
	"net/http"
	"time"

	"laundrypos-backend/config"
	"laundrypos-backend/models"
	"laundrypos-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type DashboardOverview struct {
	TodayOrders        int64            `json:"todayOrders"`
	MonthlyRevenue     decimal.Decimal  `json:"monthlyRevenue"`
	OutstandingBalance decimal.Decimal  `json:"outstandingBalance"`
	OrdersByStatus     map[string]int64 `json:"ordersByStatus"`
	PendingDeliveries  int64            `json:"pendingDeliveries"`
	RecentOrders       []RecentOrder    `json:"recentOrders"`
}

type RecentOrder struct {
	OrderNumber  string             `json:"orderNumber"`
	CustomerName string             `json:"customerName"`
	Status       models.OrderStatus `json:"status"`
	Total        decimal.Decimal    `json:"total"`
}

func GetDashboardOverview(c *gin.Context) {
	branchUUID, ok := branchFromContext(c)
	if !ok {
		return
	}

	now := time.Now()
	startOfDay := utils.BeginningOfDay(now)
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var todayOrders int64
	config.DB.Model(&models.Order{}).
		Where("branch_id = ? AND created_at >= ?", branchUUID, startOfDay).
		Count(&todayOrders)

	var monthlyRevenue decimal.Decimal
	config.DB.Model(&models.Order{}).
		Where("branch_id = ? AND created_at >= ?", branchUUID, firstOfMonth).
		Select("COALESCE(SUM(total), 0)").Scan(&monthlyRevenue)

	// Outstanding balance is global: customers are shared across branches
	var outstanding decimal.Decimal
	config.DB.Model(&models.Customer{}).
		Where("balance_due > 0").
		Select("COALESCE(SUM(balance_due), 0)").Scan(&outstanding)

	ordersByStatus := map[string]int64{}
	type statusCount struct {
		Status string
		Count  int64
	}
	var counts []statusCount
	config.DB.Model(&models.Order{}).
		Where("branch_id = ? AND status NOT IN ?", branchUUID,
			[]models.OrderStatus{models.StatusCompleted}).
		Select("status, COUNT(*) as count").Group("status").Scan(&counts)
	for _, sc := range counts {
		ordersByStatus[sc.Status] = sc.Count
	}

	var pendingDeliveries int64
	config.DB.Model(&models.Order{}).
		Where("branch_id = ? AND status = ?", branchUUID, models.StatusDeliveryPending).
		Count(&pendingDeliveries)

	var recent []models.Order
	config.DB.Where("branch_id = ?", branchUUID).
		Order("created_at DESC").Limit(10).Find(&recent)

	recentOrders := make([]RecentOrder, 0, len(recent))
	for _, order := range recent {
		recentOrders = append(recentOrders, RecentOrder{
			OrderNumber:  order.OrderNumber,
			CustomerName: order.CustomerName,
			Status:       order.Status,
			Total:        order.Total,
		})
	}

	c.JSON(http.StatusOK, DashboardOverview{
		TodayOrders:        todayOrders,
		MonthlyRevenue:     monthlyRevenue,
		OutstandingBalance: outstanding,
		OrdersByStatus:     ordersByStatus,
		PendingDeliveries:  pendingDeliveries,
		RecentOrders:       recentOrders,
	})
}
