// controllers/catalog.go
package controllers

import (
	"errors"
	"net/http"

	"laundrypos-backend/config"
	"laundrypos-backend/models"
	"laundrypos-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ClothingItemInput struct {
	Name     string `json:"name" binding:"required"`
	Category string `json:"category"`
}

type LaundryServiceInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// SetPriceInput sets the price of one (clothing item, service) pair
type SetPriceInput struct {
	ClothingItemID uuid.UUID `json:"clothingItemId" binding:"required"`
	ServiceID      uuid.UUID `json:"serviceId" binding:"required"`
	Price          string    `json:"price" binding:"required"`
}

func branchFromContext(c *gin.Context) (uuid.UUID, bool) {
	branchID, exists := c.Get("branchId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Branch ID not found in context")
		return uuid.Nil, false
	}
	branchUUID, err := uuid.Parse(branchID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid branch ID format")
		return uuid.Nil, false
	}
	return branchUUID, true
}

// CreateClothingItem adds a clothing item to the branch catalog
func CreateClothingItem(c *gin.Context) {
	branchUUID, ok := branchFromContext(c)
	if !ok {
		return
	}

	var input ClothingItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	item := models.ClothingItem{
		BranchID: branchUUID,
		Name:     input.Name,
		Category: input.Category,
		IsActive: true,
	}
	if err := config.DB.Create(&item).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create clothing item")
		return
	}

	c.JSON(http.StatusCreated, item)
}

// GetClothingItems lists the branch's clothing items
func GetClothingItems(c *gin.Context) {
	branchUUID, ok := branchFromContext(c)
	if !ok {
		return
	}

	var items []models.ClothingItem
	if err := config.DB.Where("branch_id = ? AND is_active = ?", branchUUID, true).
		Order("name").Find(&items).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve clothing items")
		return
	}

	c.JSON(http.StatusOK, items)
}

// DeleteClothingItem soft-deactivates a clothing item
func DeleteClothingItem(c *gin.Context) {
	branchUUID, ok := branchFromContext(c)
	if !ok {
		return
	}
	itemUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	res := config.DB.Model(&models.ClothingItem{}).
		Where("id = ? AND branch_id = ?", itemUUID, branchUUID).
		Update("is_active", false)
	if res.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete clothing item")
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Clothing item not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Clothing item deleted"})
}

// CreateLaundryService adds a service to the branch catalog
func CreateLaundryService(c *gin.Context) {
	branchUUID, ok := branchFromContext(c)
	if !ok {
		return
	}

	var input LaundryServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	service := models.LaundryService{
		BranchID:    branchUUID,
		Name:        input.Name,
		Description: input.Description,
		IsActive:    true,
	}
	if err := config.DB.Create(&service).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create service")
		return
	}

	c.JSON(http.StatusCreated, service)
}

// GetLaundryServices lists the branch's services
func GetLaundryServices(c *gin.Context) {
	branchUUID, ok := branchFromContext(c)
	if !ok {
		return
	}

	var laundryServices []models.LaundryService
	if err := config.DB.Where("branch_id = ? AND is_active = ?", branchUUID, true).
		Order("name").Find(&laundryServices).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve services")
		return
	}

	c.JSON(http.StatusOK, laundryServices)
}

// DeleteLaundryService soft-deactivates a service
func DeleteLaundryService(c *gin.Context) {
	branchUUID, ok := branchFromContext(c)
	if !ok {
		return
	}
	serviceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	res := config.DB.Model(&models.LaundryService{}).
		Where("id = ? AND branch_id = ?", serviceUUID, branchUUID).
		Update("is_active", false)
	if res.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete service")
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Service deleted"})
}

// SetServicePrice upserts the price of a (clothing item, service) pair
func SetServicePrice(c *gin.Context) {
	branchUUID, ok := branchFromContext(c)
	if !ok {
		return
	}

	var input SetPriceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	price, err := decimal.NewFromString(input.Price)
	if err != nil || price.IsNegative() {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid price: "+input.Price)
		return
	}

	// Make sure both catalog entries exist in this branch
	var item models.ClothingItem
	if err := config.DB.First(&item, "id = ? AND branch_id = ?", input.ClothingItemID, branchUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Clothing item not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}
	var service models.LaundryService
	if err := config.DB.First(&service, "id = ? AND branch_id = ?", input.ServiceID, branchUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Service not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	entry := models.ServicePrice{
		BranchID:       branchUUID,
		ClothingItemID: input.ClothingItemID,
		ServiceID:      input.ServiceID,
		Price:          price,
	}
	err = config.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "clothing_item_id"}, {Name: "service_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"price"}),
	}).Create(&entry).Error
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to set price")
		return
	}

	c.JSON(http.StatusOK, entry)
}

// GetServicePrices lists the branch price matrix
func GetServicePrices(c *gin.Context) {
	branchUUID, ok := branchFromContext(c)
	if !ok {
		return
	}

	var prices []models.ServicePrice
	if err := config.DB.Preload("ClothingItem").Preload("Service").
		Where("branch_id = ?", branchUUID).Find(&prices).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve prices")
		return
	}

	c.JSON(http.StatusOK, prices)
}
