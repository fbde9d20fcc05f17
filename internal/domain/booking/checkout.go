package booking

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/tecchohotel/service-booking/pkg/domain"
)

// PaymentMethodCard is the only payment method the checkout offers.
const PaymentMethodCard = "Credit Card"

// CheckoutDetails is the guest contact and card data entered at checkout.
// The card number, expiry and CVV are used for validation only and never
// stored.
type CheckoutDetails struct {
	Name       string `json:"name" validate:"required,max=255"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	CardNumber string `json:"card_number" validate:"required,card16"`
	Expiry     string `json:"expiry" validate:"required"`
	CVV        string `json:"cvv" validate:"required"`
}

// GuestContact is the contact information stored on a record. The guest's
// name lives on the draft.
type GuestContact struct {
	Email   string `json:"guest_email"`
	Phone   string `json:"guest_phone"`
	Address string `json:"guest_address"`
}

// PaymentSummary is the non-sensitive payment information stored on a record.
type PaymentSummary struct {
	Method   string `json:"payment_method"`
	LastFour string `json:"payment_last_four"`
}

var checkoutValidator = newCheckoutValidator()

func newCheckoutValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("card16", func(fl validator.FieldLevel) bool {
		return len(NormalizeCardNumber(fl.Field().String())) == 16
	})
	return v
}

// NormalizeCardNumber strips spaces and dashes. Any other non-digit is kept
// so the length check fails.
func NormalizeCardNumber(raw string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, raw)
}

// Validate checks that every required field is present and well formed.
func (c CheckoutDetails) Validate() error {
	err := checkoutValidator.Struct(c)
	if err == nil {
		if !isDigits(NormalizeCardNumber(c.CardNumber)) {
			return domain.NewValidationError("card_number must contain exactly 16 digits")
		}
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.NewValidationError(err.Error())
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return domain.NewValidationError(fmt.Sprintf("%s is required", fe.Field()))
	case "email":
		return domain.NewValidationError(fmt.Sprintf("%s must be a valid email address", fe.Field()))
	case "max":
		return domain.NewValidationError(fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
	case "card16":
		return domain.NewValidationError(fmt.Sprintf("%s must contain exactly 16 digits", fe.Field()))
	default:
		return domain.NewValidationError(fmt.Sprintf("%s is invalid", fe.Field()))
	}
}

// Contact returns the guest contact to store on the record.
func (c CheckoutDetails) Contact() GuestContact {
	return GuestContact{
		Email:   strings.TrimSpace(c.Email),
		Phone:   strings.TrimSpace(c.Phone),
		Address: strings.TrimSpace(c.Address),
	}
}

// Payment returns the card summary to store on the record.
func (c CheckoutDetails) Payment() PaymentSummary {
	card := NormalizeCardNumber(c.CardNumber)
	lastFour := card
	if len(card) > 4 {
		lastFour = card[len(card)-4:]
	}
	return PaymentSummary{Method: PaymentMethodCard, LastFour: lastFour}
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
