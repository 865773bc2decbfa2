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

type RevenuePoint struct {
	Day     string          `json:"day"`
	Orders  int64           `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

type OutstandingCustomer struct {
	Name       string          `json:"name"`
	Phone      string          `json:"phone"`
	BalanceDue decimal.Decimal `json:"balanceDue"`
}

// GetRevenueReport returns per-day order counts and revenue for a range
func GetRevenueReport(c *gin.Context) {
	branchUUID, ok := branchFromContext(c)
	if !ok {
		return
	}

	from := utils.BeginningOfDay(time.Now().AddDate(0, 0, -30))
	if v := c.Query("from"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid from date, expected YYYY-MM-DD")
			return
		}
		from = parsed
	}
	to := time.Now()
	if v := c.Query("to"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid to date, expected YYYY-MM-DD")
			return
		}
		to = utils.EndOfDay(parsed)
	}

	var points []RevenuePoint
	err := config.DB.Model(&models.Order{}).
		Where("branch_id = ? AND created_at BETWEEN ? AND ?", branchUUID, from, to).
		Select("DATE(created_at) as day, COUNT(*) as orders, COALESCE(SUM(total), 0) as revenue").
		Group("DATE(created_at)").
		Order("day").
		Scan(&points).Error
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to build report")
		return
	}

	c.JSON(http.StatusOK, gin.H{"from": from, "to": to, "days": points})
}

// GetOutstandingBalances lists customers who owe money, largest first
func GetOutstandingBalances(c *gin.Context) {
	var rows []OutstandingCustomer
	err := config.DB.Model(&models.Customer{}).
		Where("balance_due > 0 AND is_active = ?", true).
		Select("name, phone, balance_due").
		Order("balance_due DESC").
		Scan(&rows).Error
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve balances")
		return
	}

	c.JSON(http.StatusOK, rows)
}
