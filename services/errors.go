package services

import (
	"errors"
	"fmt"
)

// Error taxonomy for the financial engine. Controllers map these onto
// HTTP statuses: validation -> 400, not-found -> 404, conflicts -> 409.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")

	ErrBranchNotFound   = fmt.Errorf("%w: branch", ErrNotFound)
	ErrCustomerNotFound = fmt.Errorf("%w: customer", ErrNotFound)
	ErrOrderNotFound    = fmt.Errorf("%w: order", ErrNotFound)
	ErrDriverNotFound   = fmt.Errorf("%w: driver", ErrNotFound)

	// ErrInsufficientPoints is an invariant violation: a redemption may
	// never drive a customer's loyalty balance negative.
	ErrInsufficientPoints = errors.New("insufficient loyalty points")

	// ErrStatusConflict means a concurrent writer changed the order status
	// between the read and the compare-and-swap write.
	ErrStatusConflict = errors.New("order status changed concurrently")

	// ErrAlreadyAssigned means the delivery already has a driver.
	ErrAlreadyAssigned = errors.New("delivery already assigned to a driver")
)
