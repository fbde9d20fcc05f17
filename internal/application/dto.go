package application

import (
	"time"

	"github.com/google/uuid"

	bookingDomain "github.com/tecchohotel/service-booking/internal/domain/booking"
	identityDomain "github.com/tecchohotel/service-booking/internal/domain/identity"
	roomDomain "github.com/tecchohotel/service-booking/internal/domain/room"
	"github.com/tecchohotel/service-booking/pkg/domain"
)

// RoomDTO is the response representation of a catalog room.
type RoomDTO struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Price       string   `json:"price"`
	PriceCents  int64    `json:"price_cents"`
	Currency    string   `json:"currency"`
	Image       string   `json:"image"`
	Description string   `json:"description"`
	Amenities   []string `json:"amenities"`
}

// RoomRefDTO is the room as carried by a draft or record.
type RoomRefDTO struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Price       string `json:"price"`
	PriceCents  int64  `json:"price_cents"`
	Image       string `json:"image"`
	Description string `json:"description"`
}

// DraftDTO is the response representation of a booking draft.
type DraftDTO struct {
	Room            RoomRefDTO         `json:"room"`
	CheckIn         bookingDomain.Date `json:"check_in"`
	CheckOut        bookingDomain.Date `json:"check_out"`
	Nights          int                `json:"nights"`
	Adults          int                `json:"adults"`
	Children        int                `json:"children"`
	RoomCount       int                `json:"room_count"`
	FoodService     bool               `json:"food_service"`
	SpaService      bool               `json:"spa_service"`
	AirportPickup   bool               `json:"airport_pickup"`
	GuestName       string             `json:"guest_name"`
	GuestAge        int                `json:"guest_age"`
	SpecialRequests string             `json:"special_requests"`
	Total           string             `json:"total"`
	TotalCents      int64              `json:"total_cents"`
	Currency        string             `json:"currency"`
}

// BookingDTO is the response representation of a ledger record.
type BookingDTO struct {
	ID              uuid.UUID          `json:"id"`
	BookingNumber   string             `json:"booking_number"`
	UserEmail       string             `json:"user_email"`
	UserName        string             `json:"user_name"`
	Status          string             `json:"status"`
	BookingDate     bookingDomain.Date `json:"booking_date"`
	Room            RoomRefDTO         `json:"room"`
	CheckIn         bookingDomain.Date `json:"check_in"`
	CheckOut        bookingDomain.Date `json:"check_out"`
	Nights          int                `json:"nights"`
	Adults          int                `json:"adults"`
	Children        int                `json:"children"`
	RoomCount       int                `json:"room_count"`
	FoodService     bool               `json:"food_service"`
	SpaService      bool               `json:"spa_service"`
	AirportPickup   bool               `json:"airport_pickup"`
	GuestName       string             `json:"guest_name"`
	GuestAge        int                `json:"guest_age"`
	SpecialRequests string             `json:"special_requests"`
	GuestEmail      string             `json:"guest_email"`
	GuestPhone      string             `json:"guest_phone"`
	GuestAddress    string             `json:"guest_address"`
	PaymentMethod   string             `json:"payment_method"`
	PaymentLastFour string             `json:"payment_last_four"`
	Total           string             `json:"total"`
	TotalCents      int64              `json:"total_cents"`
	Currency        string             `json:"currency"`
	Version         int64              `json:"version"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// BookingSummaryDTO holds the headline numbers of a user's booking history.
type BookingSummaryDTO struct {
	TotalBookings   int    `json:"total_bookings"`
	CompletedStays  int    `json:"completed_stays"`
	UpcomingStays   int    `json:"upcoming_stays"`
	TotalSpent      string `json:"total_spent"`
	TotalSpentCents int64  `json:"total_spent_cents"`
	Currency        string `json:"currency"`
}

// BookingStatsDTO holds ledger-wide counts for administrators.
type BookingStatsDTO struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"by_status"`
}

// UserDTO is the response representation of a signed-in user.
type UserDTO struct {
	ID       uuid.UUID          `json:"id"`
	Email    string             `json:"email"`
	Name     string             `json:"name"`
	Role     string             `json:"role"`
	JoinDate bookingDomain.Date `json:"join_date"`
}

func toRoomDTO(r *roomDomain.Room) RoomDTO {
	return RoomDTO{
		ID:          r.ID(),
		Name:        r.Name(),
		Price:       domain.FormatCents(r.PriceCents()),
		PriceCents:  r.PriceCents(),
		Currency:    domain.CurrencyUSD,
		Image:       r.Image(),
		Description: r.Description(),
		Amenities:   r.Amenities(),
	}
}

func toRoomRefDTO(r bookingDomain.RoomSnapshot) RoomRefDTO {
	return RoomRefDTO{
		ID:          r.ID,
		Name:        r.Name,
		Price:       domain.FormatCents(r.PriceCents),
		PriceCents:  r.PriceCents,
		Image:       r.Image,
		Description: r.Description,
	}
}

func toDraftDTO(d bookingDomain.Draft) DraftDTO {
	return DraftDTO{
		Room:            toRoomRefDTO(d.Room),
		CheckIn:         d.CheckIn,
		CheckOut:        d.CheckOut,
		Nights:          d.Nights(),
		Adults:          d.Adults,
		Children:        d.Children,
		RoomCount:       d.RoomCount,
		FoodService:     d.FoodService,
		SpaService:      d.SpaService,
		AirportPickup:   d.AirportPickup,
		GuestName:       d.GuestName,
		GuestAge:        d.GuestAge,
		SpecialRequests: d.SpecialRequests,
		Total:           domain.FormatCents(d.TotalCents),
		TotalCents:      d.TotalCents,
		Currency:        domain.CurrencyUSD,
	}
}

func toBookingDTO(rec *bookingDomain.Record) BookingDTO {
	d := rec.Draft()
	return BookingDTO{
		ID:              rec.ID(),
		BookingNumber:   rec.BookingNumber(),
		UserEmail:       rec.UserEmail(),
		UserName:        rec.UserName(),
		Status:          string(rec.Status()),
		BookingDate:     rec.BookingDate(),
		Room:            toRoomRefDTO(d.Room),
		CheckIn:         d.CheckIn,
		CheckOut:        d.CheckOut,
		Nights:          rec.Nights(),
		Adults:          d.Adults,
		Children:        d.Children,
		RoomCount:       d.RoomCount,
		FoodService:     d.FoodService,
		SpaService:      d.SpaService,
		AirportPickup:   d.AirportPickup,
		GuestName:       d.GuestName,
		GuestAge:        d.GuestAge,
		SpecialRequests: d.SpecialRequests,
		GuestEmail:      rec.Contact().Email,
		GuestPhone:      rec.Contact().Phone,
		GuestAddress:    rec.Contact().Address,
		PaymentMethod:   rec.Payment().Method,
		PaymentLastFour: rec.Payment().LastFour,
		Total:           domain.FormatCents(rec.TotalCents()),
		TotalCents:      rec.TotalCents(),
		Currency:        domain.CurrencyUSD,
		Version:         rec.Version(),
		CreatedAt:       rec.CreatedAt(),
		UpdatedAt:       rec.UpdatedAt(),
	}
}

func toBookingDTOs(records []*bookingDomain.Record) []BookingDTO {
	dtos := make([]BookingDTO, len(records))
	for i, rec := range records {
		dtos[i] = toBookingDTO(rec)
	}
	return dtos
}

func toUserDTO(u *identityDomain.User) UserDTO {
	return UserDTO{
		ID:       u.ID(),
		Email:    u.Email(),
		Name:     u.Name(),
		Role:     u.Role(),
		JoinDate: bookingDomain.NewDate(u.JoinDate()),
	}
}
