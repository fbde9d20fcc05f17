package booking

import "fmt"

// Add-on surcharges in cents. They are flat per booking, not scaled by
// nights or room count.
const (
	FoodServiceCents   int64 = 5000
	SpaServiceCents    int64 = 10000
	AirportPickupCents int64 = 7500
)

// AddOns are the optional flat-fee services attached to a stay.
type AddOns struct {
	FoodService   bool `json:"food_service"`
	SpaService    bool `json:"spa_service"`
	AirportPickup bool `json:"airport_pickup"`
}

// SurchargeCents returns the sum of the selected add-on fees.
func (a AddOns) SurchargeCents() int64 {
	var total int64
	if a.FoodService {
		total += FoodServiceCents
	}
	if a.SpaService {
		total += SpaServiceCents
	}
	if a.AirportPickup {
		total += AirportPickupCents
	}
	return total
}

// PricingStrategy defines the interface for calculating stay prices.
type PricingStrategy interface {
	// Calculate returns the total in cents for the given parameters.
	Calculate(params PricingParams) (int64, error)
}

// PricingParams holds the inputs for price calculation.
type PricingParams struct {
	NightlyRateCents int64
	RoomCount        int
	CheckIn          Date
	CheckOut         Date
	AddOns           AddOns
}

// Nights returns the whole-day difference between check-out and check-in.
// When either date is unset it returns 1. The result is negative when
// check-out precedes check-in; callers validate ordering before pricing.
func Nights(checkIn, checkOut Date) int {
	if checkIn.IsZero() || checkOut.IsZero() {
		return 1
	}
	return DaysBetween(checkIn, checkOut)
}

// StandardPricingStrategy implements the hotel's rate card.
type StandardPricingStrategy struct{}

// NewStandardPricingStrategy creates a new StandardPricingStrategy.
func NewStandardPricingStrategy() *StandardPricingStrategy {
	return &StandardPricingStrategy{}
}

// Calculate computes the total in cents.
//
// Pricing formula:
//   - Base: nightly rate × rooms × nights
//   - Food service: USD 50.00
//   - Spa: USD 100.00
//   - Airport pickup: USD 75.00
func (s *StandardPricingStrategy) Calculate(params PricingParams) (int64, error) {
	if params.NightlyRateCents < 0 {
		return 0, fmt.Errorf("nightly rate cannot be negative")
	}

	nights := int64(Nights(params.CheckIn, params.CheckOut))
	base := params.NightlyRateCents * int64(params.RoomCount) * nights

	return base + params.AddOns.SurchargeCents(), nil
}
