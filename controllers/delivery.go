// controllers/delivery.go
package controllers

import (
	"net/http"
	"time"

	"laundrypos-backend/config"
	"laundrypos-backend/models"
	"laundrypos-backend/services"
	"laundrypos-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DeliveryItemRequest struct {
	ClothingItemName string `json:"clothingItemName" binding:"required"`
	ServiceName      string `json:"serviceName" binding:"required"`
	Quantity         int    `json:"quantity"`
}

type SubmitDeliveryRequest struct {
	BranchCode    string                `json:"branchCode" binding:"required"`
	CustomerName  string                `json:"customerName" binding:"required"`
	CustomerPhone string                `json:"customerPhone" binding:"required"`
	Address       string                `json:"address" binding:"required"`
	PickupTime    *time.Time            `json:"pickupTime"`
	DropoffTime   *time.Time            `json:"dropoffTime"`
	DropoffLat    *float64              `json:"dropoffLat"`
	DropoffLng    *float64              `json:"dropoffLng"`
	Items         []DeliveryItemRequest `json:"items" binding:"required,min=1"`
}

type AssignDriverRequest struct {
	DriverID uuid.UUID `json:"driverId" binding:"required"`
}

type DriverLocationRequest struct {
	Lat float64 `json:"lat" binding:"required"`
	Lng float64 `json:"lng" binding:"required"`
}

type CreateDriverInput struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
}

// SubmitDeliveryOrder is the public, unauthenticated intake endpoint.
// The response carries nothing beyond what the submitter needs.
func SubmitDeliveryOrder(c *gin.Context) {
	var input SubmitDeliveryRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidatePhone(input.CustomerPhone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	items := make([]services.DeliveryItemInput, 0, len(input.Items))
	for _, item := range input.Items {
		items = append(items, services.DeliveryItemInput{
			ClothingItemName: item.ClothingItemName,
			ServiceName:      item.ServiceName,
			Quantity:         item.Quantity,
		})
	}

	receipt, err := deliveryService.Submit(c.Request.Context(), services.SubmitDeliveryInput{
		BranchCode:    input.BranchCode,
		CustomerName:  input.CustomerName,
		CustomerPhone: input.CustomerPhone,
		Address:       input.Address,
		PickupTime:    input.PickupTime,
		DropoffTime:   input.DropoffTime,
		DropoffLat:    input.DropoffLat,
		DropoffLng:    input.DropoffLng,
		Items:         items,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, receipt)
}

// GetUnassignedDeliveries lists delivery orders waiting for a driver
func GetUnassignedDeliveries(c *gin.Context) {
	branchUUID, ok := branchFromContext(c)
	if !ok {
		return
	}

	pending, err := deliveryService.ListUnassigned(c.Request.Context(), branchUUID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve deliveries")
		return
	}

	c.JSON(http.StatusOK, pending)
}

// AssignDriver dispatches a driver to a pending delivery order
func AssignDriver(c *gin.Context) {
	orderUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	var input AssignDriverRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	actor := ""
	if name, exists := c.Get("userName"); exists {
		actor, _ = name.(string)
	}

	if err := deliveryService.AssignDriver(c.Request.Context(), orderUUID, input.DriverID, actor); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Driver assigned"})
}

// UpdateDriverLocation records a driver's GPS position
func UpdateDriverLocation(c *gin.Context) {
	driverUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid driver ID format")
		return
	}

	var input DriverLocationRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if err := deliveryService.UpdateDriverLocation(c.Request.Context(), driverUUID, input.Lat, input.Lng); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Location updated"})
}

// CreateDriver registers a driver for the branch
func CreateDriver(c *gin.Context) {
	branchUUID, ok := branchFromContext(c)
	if !ok {
		return
	}

	var input CreateDriverInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	driver := models.Driver{
		BranchID: branchUUID,
		Name:     input.Name,
		Phone:    input.Phone,
		IsActive: true,
	}
	if err := config.DB.Create(&driver).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create driver")
		return
	}

	c.JSON(http.StatusCreated, driver)
}

// GetDrivers lists the branch's drivers with their last known positions
func GetDrivers(c *gin.Context) {
	branchUUID, ok := branchFromContext(c)
	if !ok {
		return
	}

	var drivers []models.Driver
	if err := config.DB.Where("branch_id = ? AND is_active = ?", branchUUID, true).
		Find(&drivers).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve drivers")
		return
	}

	c.JSON(http.StatusOK, drivers)
}
