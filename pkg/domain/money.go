package domain

import "fmt"

// CurrencyUSD is the only currency the hotel prices in.
const CurrencyUSD = "USD"

// FormatCents renders an amount in cents as a fixed two-decimal string.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
