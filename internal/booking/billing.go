package booking

import "github.com/santhokumarp/salonhub/internal/model"

// Totals holds the billing snapshot computed at checkout. All amounts
// are integer paise so the stored totals never drift from what the
// customer was shown.
type Totals struct {
	BasePaise  int64
	TaxPercent int
	TaxPaise   int64
	GrandPaise int64
}

// ComputeTotals prices the given lines at the configured tax percent.
// Base is the quantity-weighted sum of line prices; tax truncates
// toward zero on non-divisible bases.
func ComputeTotals(lines []model.BookingLine, taxPercent int) Totals {
	var base int64
	for _, l := range lines {
		base += l.PricePaise * int64(l.Quantity)
	}
	tax := base * int64(taxPercent) / 100
	return Totals{
		BasePaise:  base,
		TaxPercent: taxPercent,
		TaxPaise:   tax,
		GrandPaise: base + tax,
	}
}
