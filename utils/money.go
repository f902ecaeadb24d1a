package utils

import "fmt"

// All currency amounts in the system are integer cents. Binary floats are
// never used for money.

// TaxRateBasisPoints is the flat tax applied to order subtotals (8%).
const TaxRateBasisPoints = 800

// TaxCents returns the tax on a subtotal, rounded half-up.
func TaxCents(subtotalCents int64) int64 {
	return (subtotalCents*TaxRateBasisPoints + 5000) / 10000
}

// OrderTotalCents derives an order total from its source fields. Callers
// must recompute rather than increment the stored total, so a retried tip
// update cannot double-count.
func OrderTotalCents(subtotal, tax, discount, tip int64) int64 {
	return subtotal + tax - discount + tip
}

// FormatCents renders cents as a plain decimal string, e.g. 3834 -> "38.34".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
