package handler

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// The request and response bodies below mirror the schemas in
// openapi/openapi.yaml.

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable code and a human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse is returned by GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// Itinerary is the JSON shape of a domain.Itinerary.
type Itinerary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Days      []Day     `json:"days"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Day is the JSON shape of a domain.Day.
type Day struct {
	ID         string             `json:"id"`
	Date       openapi_types.Date `json:"date"`
	Activities []Activity         `json:"activities"`
}

// Activity is the JSON shape of a domain.Activity.
type Activity struct {
	ID          string  `json:"id"`
	Time        *string `json:"time,omitempty"`
	Description string  `json:"description"`
	Location    *string `json:"location,omitempty"`
}

// Pagination describes the window returned by a list endpoint.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// ItineraryList is returned by GET /itineraries.
type ItineraryList struct {
	Data       []Itinerary `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

// ItineraryNameRequest is the body of POST /itineraries and PATCH /itineraries/{id}.
type ItineraryNameRequest struct {
	Name string `json:"name"`
}

// AddDayRequest is the body of POST /itineraries/{id}/days.
type AddDayRequest struct {
	Date openapi_types.Date `json:"date"`
}

// AddActivityRequest is the body of POST /itineraries/{id}/days/{dayID}/activities.
type AddActivityRequest struct {
	Time        *string `json:"time,omitempty"`
	Description string  `json:"description"`
	Location    *string `json:"location,omitempty"`
}

// Quote is the JSON shape of a domain.PricingQuote.
type Quote struct {
	BasePricePerPerson float64 `json:"base_price_per_person"`
	SeasonMultiplier   float64 `json:"season_multiplier"`
	GroupSize          int     `json:"group_size"`
	Subtotal           float64 `json:"subtotal"`
	Discount           float64 `json:"discount"`
	TotalPrice         int64   `json:"total_price"`
}

// BookingRequest is the body of POST /bookings.
type BookingRequest struct {
	FullName           string             `json:"full_name"`
	Email              string             `json:"email"`
	Phone              *string            `json:"phone,omitempty"`
	TripName           string             `json:"trip_name"`
	TripDate           openapi_types.Date `json:"trip_date"`
	BasePricePerPerson float64            `json:"base_price_per_person"`
	GroupSize          int                `json:"group_size"`
	PaymentMethod      string             `json:"payment_method"`
}

// BookingResponse is returned by a successful POST /bookings.
type BookingResponse struct {
	State         string   `json:"state"`
	TransactionID string   `json:"transaction_id"`
	ReminderID    *string  `json:"reminder_id,omitempty"`
	Quote         Quote    `json:"quote"`
	Transitions   []string `json:"transitions"`
}
