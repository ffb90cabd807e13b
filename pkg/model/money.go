package model

import "fmt"

// All amounts are integer minor units (cents). The fee rate below is charged
// to the renter as the fees-and-taxes line and, deliberately, is the same
// rate retained as the platform share of a captured payment.
const (
	UnlockFeeCents  int64 = 100
	PlatformFeePct  int64 = 15
	FeatureFeeCents int64 = 100
)

// PlatformFeeCents rounds half-up in cents.
func PlatformFeeCents(amount int64) int64 {
	return (amount*PlatformFeePct + 50) / 100
}

// NewQuote prices a rental from the class base price.
func NewQuote(baseCents int64) PriceBreakdown {
	fees := PlatformFeeCents(baseCents)
	return PriceBreakdown{
		BaseCents:         baseCents,
		UnlockFeeCents:    UnlockFeeCents,
		FeesAndTaxesCents: fees,
		TotalCents:        baseCents + UnlockFeeCents + fees,
	}
}

// FormatCents renders cents as a dollar string, e.g. 790 -> "$7.90".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
