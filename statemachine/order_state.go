package statemachine

import (
	"errors"
	"fmt"

	"laundrypos-backend/models"
)

// ErrInvalidTransition is returned for any edge not in the forward chain.
var ErrInvalidTransition = errors.New("invalid status transition")

// forward is the authoritative state machine: each status has exactly one
// successor. delivery_pending is the entry state for public delivery
// intake and joins the same chain once the order is assigned.
var forward = map[models.OrderStatus]models.OrderStatus{
	models.StatusDeliveryPending: models.StatusReceived,
	models.StatusReceived:        models.StatusProcessing,
	models.StatusProcessing:      models.StatusWashing,
	models.StatusWashing:         models.StatusDrying,
	models.StatusDrying:          models.StatusReady,
	models.StatusReady:           models.StatusCompleted,
}

// Next returns the immediate successor of a status. ok is false for the
// terminal state and for unknown statuses.
func Next(status models.OrderStatus) (models.OrderStatus, bool) {
	next, ok := forward[status]
	return next, ok
}

// IsValid reports whether s is a known order status.
func IsValid(s models.OrderStatus) bool {
	if _, ok := forward[s]; ok {
		return true
	}
	return s == models.StatusCompleted
}

// CanTransition checks that to is the immediate successor of from. Skips
// and backward moves are rejected; the error names the one valid next
// state so callers can surface it.
func CanTransition(from, to models.OrderStatus) error {
	next, ok := forward[from]
	if !ok {
		return fmt.Errorf("%w: %s is a terminal or unknown state", ErrInvalidTransition, from)
	}
	if next != to {
		return fmt.Errorf("%w: %s -> %s is not allowed, next valid status is %s", ErrInvalidTransition, from, to, next)
	}
	return nil
}

// All returns every status in forward order, for documentation endpoints.
func All() []models.OrderStatus {
	return []models.OrderStatus{
		models.StatusDeliveryPending,
		models.StatusReceived,
		models.StatusProcessing,
		models.StatusWashing,
		models.StatusDrying,
		models.StatusReady,
		models.StatusCompleted,
	}
}
