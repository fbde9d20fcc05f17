package booking

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tecchohotel/service-booking/pkg/domain"
)

// DraftField names a single editable attribute of a Draft.
type DraftField string

const (
	FieldCheckIn         DraftField = "check_in"
	FieldCheckOut        DraftField = "check_out"
	FieldAdults          DraftField = "adults"
	FieldChildren        DraftField = "children"
	FieldRoomCount       DraftField = "room_count"
	FieldFoodService     DraftField = "food_service"
	FieldSpaService      DraftField = "spa_service"
	FieldAirportPickup   DraftField = "airport_pickup"
	FieldGuestName       DraftField = "guest_name"
	FieldGuestAge        DraftField = "guest_age"
	FieldSpecialRequests DraftField = "special_requests"
)

// Text limits shared by every ledger backend.
const (
	MaxGuestNameLength       = 255
	MaxSpecialRequestsLength = 1000
)

// Draft is an unconfirmed, mutable booking in progress. It is a plain value
// owned by the caller and handed to the ledger on confirmation.
type Draft struct {
	Room            RoomSnapshot `json:"room"`
	CheckIn         Date         `json:"check_in"`
	CheckOut        Date         `json:"check_out"`
	Adults          int          `json:"adults"`
	Children        int          `json:"children"`
	RoomCount       int          `json:"room_count"`
	FoodService     bool         `json:"food_service"`
	SpaService      bool         `json:"spa_service"`
	AirportPickup   bool         `json:"airport_pickup"`
	GuestName       string       `json:"guest_name"`
	GuestAge        int          `json:"guest_age"`
	SpecialRequests string       `json:"special_requests"`
	TotalCents      int64        `json:"total_cents"`
}

// NewDraft returns a draft for room with default party and no add-ons.
func NewDraft(room RoomSnapshot) Draft {
	return Draft{
		Room:      room,
		Adults:    1,
		Children:  0,
		RoomCount: 1,
	}
}

// AddOns returns the selected add-on services.
func (d Draft) AddOns() AddOns {
	return AddOns{
		FoodService:   d.FoodService,
		SpaService:    d.SpaService,
		AirportPickup: d.AirportPickup,
	}
}

// PricingParams returns the pricing inputs described by the draft.
func (d Draft) PricingParams() PricingParams {
	return PricingParams{
		NightlyRateCents: d.Room.PriceCents,
		RoomCount:        d.RoomCount,
		CheckIn:          d.CheckIn,
		CheckOut:         d.CheckOut,
		AddOns:           d.AddOns(),
	}
}

// Nights returns the priced number of nights.
func (d Draft) Nights() int {
	return Nights(d.CheckIn, d.CheckOut)
}

// SetField assigns one attribute. Only the value's type is checked; no
// cross-field rule is applied at write time.
func (d *Draft) SetField(field DraftField, value interface{}) error {
	switch field {
	case FieldCheckIn, FieldCheckOut:
		s, err := asString(field, value)
		if err != nil {
			return err
		}
		date, err := ParseDate(strings.TrimSpace(s))
		if err != nil {
			return domain.NewValidationError(fmt.Sprintf("%s: %v", field, err))
		}
		if field == FieldCheckIn {
			d.CheckIn = date
		} else {
			d.CheckOut = date
		}
	case FieldAdults, FieldChildren, FieldRoomCount, FieldGuestAge:
		n, err := asInt(field, value)
		if err != nil {
			return err
		}
		switch field {
		case FieldAdults:
			d.Adults = n
		case FieldChildren:
			d.Children = n
		case FieldRoomCount:
			d.RoomCount = n
		default:
			d.GuestAge = n
		}
	case FieldFoodService, FieldSpaService, FieldAirportPickup:
		b, err := asBool(field, value)
		if err != nil {
			return err
		}
		switch field {
		case FieldFoodService:
			d.FoodService = b
		case FieldSpaService:
			d.SpaService = b
		default:
			d.AirportPickup = b
		}
	case FieldGuestName, FieldSpecialRequests:
		s, err := asString(field, value)
		if err != nil {
			return err
		}
		if field == FieldGuestName {
			d.GuestName = s
		} else {
			d.SpecialRequests = s
		}
	default:
		return domain.NewValidationError(fmt.Sprintf("unknown draft field: %s", field))
	}
	return nil
}

// Validate checks that the draft is complete enough to submit.
func (d Draft) Validate() error {
	if d.Room.ID == 0 {
		return domain.NewValidationError("a room must be selected")
	}
	if d.CheckIn.IsZero() || d.CheckOut.IsZero() {
		return domain.NewValidationError("check-in and check-out dates are required")
	}
	if !d.CheckIn.Before(d.CheckOut) {
		return domain.NewValidationError("check-out must be after check-in")
	}
	if strings.TrimSpace(d.GuestName) == "" || d.GuestAge <= 0 {
		return domain.NewValidationError("guest name and age are required")
	}
	if utf8.RuneCountInString(d.GuestName) > MaxGuestNameLength {
		return domain.NewValidationError(fmt.Sprintf("guest_name must be at most %d characters", MaxGuestNameLength))
	}
	if utf8.RuneCountInString(d.SpecialRequests) > MaxSpecialRequestsLength {
		return domain.NewValidationError(fmt.Sprintf("special_requests must be at most %d characters", MaxSpecialRequestsLength))
	}
	if d.Adults < 1 {
		return domain.NewValidationError("at least one adult is required")
	}
	if d.Children < 0 {
		return domain.NewValidationError("children cannot be negative")
	}
	if d.RoomCount < 1 {
		return domain.NewValidationError("at least one room is required")
	}
	return nil
}

func asString(field DraftField, value interface{}) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	}
	return "", typeError(field, "a string", value)
}

func asInt(field DraftField, value interface{}) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v == math.Trunc(v) {
			return int(v), nil
		}
	case json.Number:
		if n, err := strconv.Atoi(v.String()); err == nil {
			return n, nil
		}
	case string:
		if strings.TrimSpace(v) == "" {
			return 0, nil
		}
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n, nil
		}
	}
	return 0, typeError(field, "a whole number", value)
}

func asBool(field DraftField, value interface{}) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return b, nil
		}
	}
	return false, typeError(field, "a boolean", value)
}

func typeError(field DraftField, want string, got interface{}) error {
	return domain.NewValidationError(fmt.Sprintf("%s must be %s, got %v", field, want, got))
}
