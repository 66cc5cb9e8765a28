package domain

import (
	"strings"
	"time"
)

// PaymentMethod identifies how a booking is paid for.
// Which methods actually work depends on the platform and is decided by the
// payment collaborator, not here.
type PaymentMethod string

const (
	PaymentCard      PaymentMethod = "card"
	PaymentPayPal    PaymentMethod = "paypal"
	PaymentApplePay  PaymentMethod = "apple-pay"
	PaymentGooglePay PaymentMethod = "google-pay"
)

// PaymentMethods lists every method the API accepts, in display order.
var PaymentMethods = []PaymentMethod{PaymentCard, PaymentPayPal, PaymentApplePay, PaymentGooglePay}

// ParsePaymentMethod maps a case-insensitive name to a PaymentMethod.
// The second return value is false for unknown names.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	m := PaymentMethod(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range PaymentMethods {
		if m == known {
			return m, true
		}
	}
	return "", false
}

// PaymentResult is what the payment collaborator reports for one charge.
// Error holds the collaborator's reason when Success is false.
type PaymentResult struct {
	Success       bool
	TransactionID string
	Error         string
}

// PricingQuote is the derived price breakdown for a trip. It is never persisted;
// recompute it whenever an input changes.
type PricingQuote struct {
	BasePricePerPerson float64
	SeasonMultiplier   float64
	GroupSize          int
	Subtotal           float64
	Discount           float64
	TotalPrice         int64
}

// BookingState is a step in the lifecycle of a single booking attempt.
type BookingState string

const (
	BookingIdle            BookingState = "idle"
	BookingValidating      BookingState = "validating"
	BookingPayingForResult BookingState = "paying"
	BookingSuccess         BookingState = "success"
	BookingFailed          BookingState = "failed"
)

// BookingForm is the traveller-supplied input for a booking.
// BasePricePerPerson and GroupSize feed the pricing engine; TripDate drives
// both the season multiplier and the reminder time.
type BookingForm struct {
	FullName           string
	Email              string
	Phone              string
	TripName           string
	TripDate           time.Time
	BasePricePerPerson float64
	GroupSize          int
	Method             PaymentMethod
}

// Booking is the outcome of one submit. ReminderID is empty when no reminder
// could be scheduled; the booking is still successful in that case.
type Booking struct {
	State         BookingState
	Quote         PricingQuote
	TransactionID string
	ReminderID    string
	Transitions   []BookingState
}
