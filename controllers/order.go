// controllers/order.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"laundrypos-backend/config"
	"laundrypos-backend/models"
	"laundrypos-backend/pricing"
	"laundrypos-backend/services"
	"laundrypos-backend/statemachine"
	"laundrypos-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderItemRequest references catalog entries; the price of the
// (item, service) pair is resolved server-side so clients never set prices.
type OrderItemRequest struct {
	ClothingItemID uuid.UUID `json:"clothingItemId" binding:"required"`
	ServiceID      uuid.UUID `json:"serviceId" binding:"required"`
	Quantity       int       `json:"quantity" binding:"min=1"`
}

type CreateOrderRequest struct {
	CustomerID      *uuid.UUID         `json:"customerId"`
	CustomerName    string             `json:"customerName"`
	CustomerPhone   string             `json:"customerPhone"`
	Items           []OrderItemRequest `json:"items" binding:"required,min=1"`
	PaymentMethod   string             `json:"paymentMethod" binding:"required"`
	LoyaltyEarned   int                `json:"loyaltyPointsEarned"`
	LoyaltyRedeemed int                `json:"loyaltyPointsRedeemed"`
	Notes           string             `json:"notes"`
	EstimatedPickup *time.Time         `json:"estimatedPickup"`
}

type UpdateStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
	Notify bool               `json:"notify"`
	Note   string             `json:"note"`
}

type QuoteOrderRequest struct {
	CustomerID     *uuid.UUID         `json:"customerId"`
	Items          []OrderItemRequest `json:"items" binding:"required,min=1"`
	RedeemedPoints int                `json:"redeemedPoints"`
}

// QuoteOrder prices a cart without persisting anything. Used by the POS
// UI to show totals and the redeemable point preview before checkout.
func QuoteOrder(c *gin.Context) {
	branchUUID, ok := branchFromContext(c)
	if !ok {
		return
	}

	var input QuoteOrderRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var branch models.Branch
	if err := config.DB.First(&branch, "id = ?", branchUUID).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	lines := make([]pricing.Line, 0, len(input.Items))
	for _, item := range input.Items {
		var price models.ServicePrice
		err := config.DB.Where("branch_id = ? AND clothing_item_id = ? AND service_id = ?",
			branchUUID, item.ClothingItemID, item.ServiceID).First(&price).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusBadRequest,
					"No price configured for item "+item.ClothingItemID.String())
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}
		lines = append(lines, pricing.Line{UnitPrice: price.Price, Quantity: item.Quantity})
	}

	summary, err := pricing.ComputeSummary(lines, branch.TaxRate)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	redeemed := 0
	if input.CustomerID != nil && input.RedeemedPoints > 0 {
		var customer models.Customer
		if err := config.DB.First(&customer, "id = ?", *input.CustomerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}
		redeemed = pricing.ClampRedemption(input.RedeemedPoints, customer.LoyaltyPoints, summary.Total)
	}

	c.JSON(http.StatusOK, gin.H{
		"summary":        summary,
		"redeemedPoints": redeemed,
		"finalTotal":     pricing.ApplyRedemption(summary.Total, redeemed),
	})
}

// GetOrderStatuses returns the forward status chain, in order
func GetOrderStatuses(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"statuses": statemachine.All()})
}

// CreateOrder handles in-store checkout
func CreateOrder(c *gin.Context) {
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
	sellerName, _ := c.Get("userName")

	var input CreateOrderRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidPaymentMethod(input.PaymentMethod) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid payment method: "+input.PaymentMethod)
		return
	}

	customerName := input.CustomerName
	customerPhone := input.CustomerPhone
	if input.CustomerID != nil {
		var customer models.Customer
		if err := config.DB.First(&customer, "id = ?", *input.CustomerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}
		if customerName == "" {
			customerName = customer.Name
		}
		if customerPhone == "" {
			customerPhone = customer.Phone
		}
	}

	var branch models.Branch
	if err := config.DB.First(&branch, "id = ?", branchUUID).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	// Resolve catalog prices for each (item, service) pair
	items := make([]services.OrderItemInput, 0, len(input.Items))
	for _, item := range input.Items {
		var price models.ServicePrice
		err := config.DB.Preload("ClothingItem").Preload("Service").
			Where("branch_id = ? AND clothing_item_id = ? AND service_id = ?",
				branchUUID, item.ClothingItemID, item.ServiceID).
			First(&price).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusBadRequest,
					"No price configured for item "+item.ClothingItemID.String())
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}
		items = append(items, services.OrderItemInput{
			ClothingItemName: price.ClothingItem.Name,
			ServiceName:      price.Service.Name,
			Quantity:         item.Quantity,
			UnitPrice:        price.Price,
		})
	}

	seller := ""
	if sellerName != nil {
		seller, _ = sellerName.(string)
	}

	order, err := ledgerService.CreateOrder(c.Request.Context(), services.CreateOrderInput{
		BranchID:        branchUUID,
		CustomerID:      input.CustomerID,
		CustomerName:    customerName,
		CustomerPhone:   customerPhone,
		SellerName:      seller,
		PaymentMethod:   input.PaymentMethod,
		Status:          models.StatusReceived,
		Items:           items,
		TaxRate:         branch.TaxRate,
		LoyaltyEarned:   input.LoyaltyEarned,
		LoyaltyRedeemed: input.LoyaltyRedeemed,
		Notes:           input.Notes,
		EstimatedPickup: input.EstimatedPickup,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// GetOrders lists orders for the operator's branch
func GetOrders(c *gin.Context) {
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

	query := config.DB.Preload("Items").Where("branch_id = ?", branchUUID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if customerID := c.Query("customerId"); customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}

	var orders []models.Order
	if err := query.Order("created_at DESC").Limit(200).Find(&orders).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve orders")
		return
	}

	c.JSON(http.StatusOK, orders)
}

// GetOrder retrieves one order with its items and status history
func GetOrder(c *gin.Context) {
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

	orderUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	var order models.Order
	if err := config.DB.Preload("Items").
		First(&order, "id = ? AND branch_id = ?", orderUUID, branchUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Order not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var history []models.OrderStatusHistory
	config.DB.Where("order_id = ?", order.ID).Order("created_at").Find(&history)

	c.JSON(http.StatusOK, gin.H{"order": order, "statusHistory": history})
}

// UpdateOrderStatus advances an order one step along the forward chain
func UpdateOrderStatus(c *gin.Context) {
	orderUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	var input UpdateStatusRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	actor := ""
	if name, exists := c.Get("userName"); exists {
		actor, _ = name.(string)
	}

	order, err := ledgerService.AdvanceStatus(c.Request.Context(), orderUUID, input.Status, actor, input.Notify)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// ForceOrderStatus is the audited admin override that skips edge checks
func ForceOrderStatus(c *gin.Context) {
	orderUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	var input UpdateStatusRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	actor := ""
	if name, exists := c.Get("userName"); exists {
		actor, _ = name.(string)
	}

	order, err := ledgerService.ForceStatus(c.Request.Context(), orderUUID, input.Status, actor, input.Note)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}
