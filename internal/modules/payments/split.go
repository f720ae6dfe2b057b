package payments

import "math"

// AdvanceRate is the share of an order's total price collected up front.
// The remainder is collected as the final payment once the produce is ready
// to harvest.
const AdvanceRate = 0.30

// Split derives the advance/final amounts for a total price. The advance is
// rounded to cents and the final amount is taken as the remainder, so the
// two always sum to the total exactly regardless of rounding.
func Split(totalPrice float64) (advance, final float64) {
	advance = round2(AdvanceRate * totalPrice)
	final = round2(totalPrice - advance)
	return advance, final
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
