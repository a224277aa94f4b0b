package checkout

import "math"

// Line is one priced cart position entering the total calculation.
type Line struct {
	UnitPrice float64
	Quantity  int
}

// Totals holds the monetary breakdown of an order. All values are
// rounded to 2 decimal places at computation time so persisted totals
// are exactly reproducible.
type Totals struct {
	Subtotal  float64
	Tax       float64
	Shipping  float64
	Discount  float64
	Total     float64
	ItemCount int
}

// Round2 rounds a monetary value to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ComputeTotals derives the order totals from line items, a flat tax
// rate applied to each line subtotal, and a flat shipping charge per
// line. Pure function, no I/O.
func ComputeTotals(lines []Line, taxRate, shippingPerItem, discount float64) Totals {
	var subtotal, tax float64
	for _, l := range lines {
		lineSubtotal := l.UnitPrice * float64(l.Quantity)
		subtotal += lineSubtotal
		tax += lineSubtotal * taxRate
	}

	t := Totals{
		Subtotal:  Round2(subtotal),
		Tax:       Round2(tax),
		Shipping:  Round2(float64(len(lines)) * shippingPerItem),
		Discount:  Round2(discount),
		ItemCount: len(lines),
	}
	t.Total = Round2(t.Subtotal + t.Tax + t.Shipping - t.Discount)
	return t
}

// Apportion splits a rounded monetary amount across positions in
// proportion to their weights. The last position absorbs the rounding
// remainder so the parts always sum to exactly the whole.
func Apportion(total float64, weights []float64) []float64 {
	parts := make([]float64, len(weights))
	if len(weights) == 0 {
		return parts
	}

	var weightSum float64
	for _, w := range weights {
		weightSum += w
	}

	var allocated float64
	for i := 0; i < len(weights)-1; i++ {
		if weightSum > 0 {
			parts[i] = Round2(total * weights[i] / weightSum)
		}
		allocated += parts[i]
	}
	parts[len(parts)-1] = Round2(total - allocated)
	return parts
}
