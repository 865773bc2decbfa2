package pricing_test

import (
	"testing"

	"laundrypos-backend/pricing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeSummary(t *testing.T) {
	tests := []struct {
		name         string
		lines        []pricing.Line
		taxRate      decimal.Decimal
		wantSubtotal string
		wantTax      string
		wantTotal    string
		wantCount    int
		wantErr      bool
	}{
		{
			name:         "single_line_with_tax",
			lines:        []pricing.Line{{UnitPrice: d("10.00"), Quantity: 3}},
			taxRate:      d("0.085"),
			wantSubtotal: "30.00",
			wantTax:      "2.55",
			wantTotal:    "32.55",
			wantCount:    3,
		},
		{
			name: "rounding_at_final_summation_only",
			lines: []pricing.Line{
				{UnitPrice: d("1.333"), Quantity: 1},
				{UnitPrice: d("1.333"), Quantity: 1},
				{UnitPrice: d("1.333"), Quantity: 1},
			},
			taxRate:      d("0"),
			wantSubtotal: "4.00", // 3.999 rounds once, not 1.33 per line
			wantTax:      "0.00",
			wantTotal:    "4.00",
			wantCount:    3,
		},
		{
			name: "multiple_lines",
			lines: []pricing.Line{
				{UnitPrice: d("2.50"), Quantity: 4},
				{UnitPrice: d("7.25"), Quantity: 2},
			},
			taxRate:      d("0.10"),
			wantSubtotal: "24.50",
			wantTax:      "2.45",
			wantTotal:    "26.95",
			wantCount:    6,
		},
		{
			name:    "empty_cart",
			lines:   nil,
			taxRate: d("0.085"),
			wantErr: true,
		},
		{
			name:    "negative_quantity",
			lines:   []pricing.Line{{UnitPrice: d("10.00"), Quantity: -1}},
			taxRate: d("0.085"),
			wantErr: true,
		},
		{
			name:    "negative_unit_price",
			lines:   []pricing.Line{{UnitPrice: d("-10.00"), Quantity: 1}},
			taxRate: d("0.085"),
			wantErr: true,
		},
		{
			name:    "negative_tax_rate",
			lines:   []pricing.Line{{UnitPrice: d("10.00"), Quantity: 1}},
			taxRate: d("-0.01"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, err := pricing.ComputeSummary(tt.lines, tt.taxRate)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, pricing.ErrInvalidLine)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSubtotal, summary.Subtotal.StringFixed(2))
			assert.Equal(t, tt.wantTax, summary.Tax.StringFixed(2))
			assert.Equal(t, tt.wantTotal, summary.Total.StringFixed(2))
			assert.Equal(t, tt.wantCount, summary.ItemCount)

			// Same input, same output: no hidden state
			again, err := pricing.ComputeSummary(tt.lines, tt.taxRate)
			require.NoError(t, err)
			assert.Equal(t, summary, again)

			assert.True(t, summary.Total.Equal(summary.Subtotal.Add(summary.Tax)),
				"total must equal subtotal + tax")
		})
	}
}

func TestClampRedemption(t *testing.T) {
	total := d("42.30")

	// Requesting more than points and more than the total clamps to
	// min(points, floor(total))
	assert.Equal(t, 42, pricing.ClampRedemption(100, 50, total))
	assert.Equal(t, 30, pricing.ClampRedemption(100, 30, total))
	assert.Equal(t, 10, pricing.ClampRedemption(10, 50, total))
	assert.Equal(t, 0, pricing.ClampRedemption(0, 50, total))
	assert.Equal(t, 0, pricing.ClampRedemption(-5, 50, total))
	assert.Equal(t, 0, pricing.ClampRedemption(10, 50, d("0.00")))
}

func TestApplyRedemption(t *testing.T) {
	assert.Equal(t, "0.30", pricing.ApplyRedemption(d("42.30"), 42).StringFixed(2))
	assert.Equal(t, "32.55", pricing.ApplyRedemption(d("42.55"), 10).StringFixed(2))

	// Redemption never drives the total negative
	assert.Equal(t, "0.00", pricing.ApplyRedemption(d("5.00"), 10).StringFixed(2))
}
