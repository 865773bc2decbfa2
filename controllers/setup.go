package controllers

import (
	"errors"
	"net/http"

	"laundrypos-backend/services"
	"laundrypos-backend/statemachine"
	"laundrypos-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Engine services shared by the handlers, wired once at startup.
var (
	accountService  *services.AccountService
	ledgerService   *services.LedgerService
	paymentService  *services.PaymentService
	deliveryService *services.DeliveryService
)

func Setup(db *gorm.DB) {
	accountService = services.NewAccountService(db)
	notifyService := services.NewNotifyService(db)
	ledgerService = services.NewLedgerService(db, accountService, notifyService)
	paymentService = services.NewPaymentService(db, accountService)
	deliveryService = services.NewDeliveryService(db, ledgerService)
}

// respondServiceError maps the engine error taxonomy onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotFound):
		utils.RespondWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, statemachine.ErrInvalidTransition),
		errors.Is(err, services.ErrInsufficientPoints),
		errors.Is(err, services.ErrStatusConflict),
		errors.Is(err, services.ErrAlreadyAssigned):
		utils.RespondWithError(c, http.StatusConflict, err.Error())
	default:
		utils.RespondWithError(c, http.StatusInternalServerError, "Internal error")
	}
}
