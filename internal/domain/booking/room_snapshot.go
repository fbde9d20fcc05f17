package booking

// RoomSnapshot is an immutable copy of the catalog room taken when a draft
// is started, so later catalog changes never reprice a stay.
type RoomSnapshot struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	PriceCents  int64  `json:"price_cents"`
	Image       string `json:"image"`
	Description string `json:"description"`
}
