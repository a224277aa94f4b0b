package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name            string
		lines           []Line
		taxRate         float64
		shippingPerItem float64
		discount        float64
		want            Totals
	}{
		{
			name:            "single_item_no_coupon",
			lines:           []Line{{UnitPrice: 200.00, Quantity: 1}},
			taxRate:         0.14,
			shippingPerItem: 25.00,
			want: Totals{
				Subtotal:  200.00,
				Tax:       28.00,
				Shipping:  25.00,
				Discount:  0,
				Total:     253.00,
				ItemCount: 1,
			},
		},
		{
			name:            "single_item_ten_percent_off",
			lines:           []Line{{UnitPrice: 200.00, Quantity: 1}},
			taxRate:         0.14,
			shippingPerItem: 25.00,
			discount:        20.00,
			want: Totals{
				Subtotal:  200.00,
				Tax:       28.00,
				Shipping:  25.00,
				Discount:  20.00,
				Total:     233.00,
				ItemCount: 1,
			},
		},
		{
			name: "multiple_lines",
			lines: []Line{
				{UnitPrice: 49.99, Quantity: 2},
				{UnitPrice: 10.50, Quantity: 3},
			},
			taxRate:         0.14,
			shippingPerItem: 25.00,
			want: Totals{
				Subtotal:  131.48,
				Tax:       18.41,
				Shipping:  50.00,
				Discount:  0,
				Total:     199.89,
				ItemCount: 2,
			},
		},
		{
			name:            "fractional_tax_rounds_at_computation",
			lines:           []Line{{UnitPrice: 19.99, Quantity: 3}},
			taxRate:         0.14,
			shippingPerItem: 0,
			want: Totals{
				Subtotal:  59.97,
				Tax:       8.40,
				Shipping:  0,
				Discount:  0,
				Total:     68.37,
				ItemCount: 1,
			},
		},
		{
			name:            "zero_rates",
			lines:           []Line{{UnitPrice: 100, Quantity: 1}},
			taxRate:         0,
			shippingPerItem: 0,
			want: Totals{
				Subtotal:  100,
				Tax:       0,
				Shipping:  0,
				Discount:  0,
				Total:     100,
				ItemCount: 1,
			},
		},
		{
			name:            "no_lines",
			lines:           nil,
			taxRate:         0.14,
			shippingPerItem: 25.00,
			want:            Totals{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotals(tt.lines, tt.taxRate, tt.shippingPerItem, tt.discount)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeTotals_Identity(t *testing.T) {
	lines := []Line{
		{UnitPrice: 12.34, Quantity: 5},
		{UnitPrice: 0.99, Quantity: 17},
		{UnitPrice: 333.33, Quantity: 2},
	}

	got := ComputeTotals(lines, 0.14, 25.00, 15.50)

	var rawSubtotal float64
	for _, l := range lines {
		rawSubtotal += l.UnitPrice * float64(l.Quantity)
	}
	assert.Equal(t, Round2(rawSubtotal), got.Subtotal)
	assert.InDelta(t, got.Subtotal+got.Tax+got.Shipping-got.Discount, got.Total, 0.01)
}

func TestApportion(t *testing.T) {
	tests := []struct {
		name    string
		total   float64
		weights []float64
		want    []float64
	}{
		{
			name:    "even_split",
			total:   30.00,
			weights: []float64{10, 10, 10},
			want:    []float64{10.00, 10.00, 10.00},
		},
		{
			name:    "remainder_lands_on_last",
			total:   0.10,
			weights: []float64{1, 1, 1},
			want:    []float64{0.03, 0.03, 0.04},
		},
		{
			name:    "penny_lines",
			total:   0.02,
			weights: []float64{0.05, 0.05, 0.05},
			want:    []float64{0.01, 0.01, 0.00},
		},
		{
			name:    "proportional",
			total:   28.00,
			weights: []float64{150, 50},
			want:    []float64{21.00, 7.00},
		},
		{
			name:    "zero_weights",
			total:   5.00,
			weights: []float64{0, 0},
			want:    []float64{0.00, 5.00},
		},
		{
			name:    "single_line",
			total:   8.40,
			weights: []float64{59.97},
			want:    []float64{8.40},
		},
		{
			name:    "empty",
			total:   10.00,
			weights: nil,
			want:    []float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apportion(tt.total, tt.weights)
			assert.Equal(t, tt.want, got)

			var sum float64
			for _, p := range got {
				sum += p
			}
			if len(tt.weights) > 0 {
				assert.Equal(t, tt.total, Round2(sum))
			}
		})
	}
}

// Persisted per-item taxes must sum to the order's tax figure even
// when per-line rounding disagrees with the aggregate.
func TestItemTaxesSumToOrderTax(t *testing.T) {
	lines := []Line{
		{UnitPrice: 0.05, Quantity: 1},
		{UnitPrice: 0.05, Quantity: 1},
		{UnitPrice: 0.05, Quantity: 1},
	}
	totals := ComputeTotals(lines, 0.14, 0, 0)
	assert.Equal(t, 0.02, totals.Tax)

	lineTotals := make([]float64, len(lines))
	var perLine float64
	for i, l := range lines {
		lineTotals[i] = Round2(l.UnitPrice * float64(l.Quantity))
		perLine += Round2(lineTotals[i] * 0.14)
	}
	// Rounding each line separately would overshoot the aggregate.
	assert.Equal(t, 0.03, Round2(perLine))

	var sum float64
	for _, tax := range Apportion(totals.Tax, lineTotals) {
		sum += tax
	}
	assert.Equal(t, totals.Tax, Round2(sum))
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{in: 10.344, want: 10.34},
		{in: 10.346, want: 10.35},
		{in: 8.3958, want: 8.40},
		{in: 100, want: 100},
		{in: 0, want: 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Round2(tt.in))
	}
}
