// controllers/payment.go
package controllers

import (
	"net/http"

	"laundrypos-backend/config"
	"laundrypos-backend/models"
	"laundrypos-backend/services"
	"laundrypos-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreatePaymentInput takes the amount as a decimal string to avoid
// floating-point transport error.
type CreatePaymentInput struct {
	CustomerID    uuid.UUID  `json:"customerId" binding:"required"`
	OrderID       *uuid.UUID `json:"orderId"`
	Amount        string     `json:"amount" binding:"required"`
	PaymentMethod string     `json:"paymentMethod" binding:"required"`
	Notes         string     `json:"notes"`
}

// CreatePayment records a payment and reduces the customer's balance
func CreatePayment(c *gin.Context) {
	branchID, exists := c.Get("branchId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Branch ID not found in context")
		return
	}
	branchUUID, err := uuid.Parse(branchID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid branch ID format")
		return
	}

	var input CreatePaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	amount, err := decimal.NewFromString(input.Amount)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid amount: "+input.Amount)
		return
	}

	receivedBy := ""
	if name, ok := c.Get("userName"); ok {
		receivedBy, _ = name.(string)
	}

	payment, newBalance, err := paymentService.RecordPayment(c.Request.Context(), services.RecordPaymentInput{
		CustomerID:    input.CustomerID,
		OrderID:       input.OrderID,
		BranchID:      branchUUID,
		Amount:        amount,
		PaymentMethod: input.PaymentMethod,
		ReceivedBy:    receivedBy,
		Notes:         input.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// Overpayment is allowed; surface the resulting balance so the UI
	// can warn about store credit.
	c.JSON(http.StatusCreated, gin.H{
		"payment":    payment,
		"balanceDue": newBalance,
	})
}

// GetPayments lists payments for the operator's branch
func GetPayments(c *gin.Context) {
	branchID, exists := c.Get("branchId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Branch ID not found in context")
		return
	}
	branchUUID, err := uuid.Parse(branchID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid branch ID format")
		return
	}

	query := config.DB.Where("branch_id = ?", branchUUID)
	if customerID := c.Query("customerId"); customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}

	var payments []models.Payment
	if err := query.Order("created_at DESC").Limit(200).Find(&payments).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve payments")
		return
	}

	c.JSON(http.StatusOK, payments)
}
