// Package pricing turns cart selections into order totals. All functions
// are pure; callers supply prices and the tax rate.
package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrInvalidLine = errors.New("invalid cart line")

// Line is one (clothing item, service) selection priced by the catalog.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

type Summary struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	Tax       decimal.Decimal `json:"tax"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
}

// ComputeSummary sums the cart lines and applies the tax rate. Rounding
// happens once at the final summation step, half-up to 2 decimal places,
// so per-line rounding error never compounds. Negative quantities or unit
// prices are caller bugs and are rejected outright.
func ComputeSummary(lines []Line, taxRate decimal.Decimal) (Summary, error) {
	if len(lines) == 0 {
		return Summary{}, fmt.Errorf("%w: cart is empty", ErrInvalidLine)
	}
	if taxRate.IsNegative() {
		return Summary{}, fmt.Errorf("%w: tax rate cannot be negative", ErrInvalidLine)
	}

	subtotal := decimal.Zero
	itemCount := 0
	for i, line := range lines {
		if line.Quantity <= 0 {
			return Summary{}, fmt.Errorf("%w: line %d has quantity %d", ErrInvalidLine, i, line.Quantity)
		}
		if line.UnitPrice.IsNegative() {
			return Summary{}, fmt.Errorf("%w: line %d has negative unit price %s", ErrInvalidLine, i, line.UnitPrice)
		}
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
		itemCount += line.Quantity
	}

	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(taxRate).Round(2)

	return Summary{
		Subtotal:  subtotal,
		Tax:       tax,
		Total:     subtotal.Add(tax),
		ItemCount: itemCount,
	}, nil
}

// ClampRedemption limits a requested loyalty redemption to what the
// customer holds and what the total can absorb (1 point = 1 currency unit).
func ClampRedemption(requested, customerPoints int, total decimal.Decimal) int {
	if requested <= 0 {
		return 0
	}
	max := customerPoints
	if whole := int(total.IntPart()); whole < max {
		max = whole
	}
	if max < 0 {
		max = 0
	}
	if requested < max {
		return requested
	}
	return max
}

// ApplyRedemption subtracts redeemed points from the total, flooring at
// zero. A redemption never produces a negative amount due.
func ApplyRedemption(total decimal.Decimal, redeemedPoints int) decimal.Decimal {
	final := total.Sub(decimal.NewFromInt(int64(redeemedPoints)))
	if final.IsNegative() {
		return decimal.Zero
	}
	return final
}
