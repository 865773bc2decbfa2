// controllers/branch.go
package controllers

import (
	"errors"
	"net/http"

	"laundrypos-backend/config"
	"laundrypos-backend/models"
	"laundrypos-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// UpdateBranchInput covers the operator-editable branch settings. The tax
// rate arrives as a decimal string and is applied to new orders only;
// persisted orders keep the snapshot they were created with.
type UpdateBranchInput struct {
	Name          *string       `json:"name"`
	Address       *string       `json:"address"`
	Phone         *string       `json:"phone"`
	TaxRate       *string       `json:"taxRate"`
	ReceiptHeader *string       `json:"receiptHeader"`
	ReceiptFooter *string       `json:"receiptFooter"`
	WorkingHours  *models.JSONB `json:"workingHours"`
}

// GetBranch returns the operator's branch settings
func GetBranch(c *gin.Context) {
	branchUUID, ok := branchFromContext(c)
	if !ok {
		return
	}

	var branch models.Branch
	if err := config.DB.First(&branch, "id = ?", branchUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Branch not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, branch)
}

// UpdateBranch updates the operator's branch settings
func UpdateBranch(c *gin.Context) {
	branchUUID, ok := branchFromContext(c)
	if !ok {
		return
	}

	var input UpdateBranchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var branch models.Branch
	if err := config.DB.First(&branch, "id = ?", branchUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Branch not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		branch.Name = *input.Name
	}
	if input.Address != nil {
		branch.Address = *input.Address
	}
	if input.Phone != nil {
		branch.Phone = *input.Phone
	}
	if input.TaxRate != nil {
		rate, err := decimal.NewFromString(*input.TaxRate)
		if err != nil || rate.IsNegative() {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid tax rate: "+*input.TaxRate)
			return
		}
		branch.TaxRate = rate
	}
	if input.ReceiptHeader != nil {
		branch.ReceiptHeader = *input.ReceiptHeader
	}
	if input.ReceiptFooter != nil {
		branch.ReceiptFooter = *input.ReceiptFooter
	}
	if input.WorkingHours != nil {
		branch.WorkingHours = *input.WorkingHours
	}

	if err := config.DB.Save(&branch).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update branch")
		return
	}

	c.JSON(http.StatusOK, branch)
}
