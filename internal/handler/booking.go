package handler

import (
	"net/http"

	"github.com/pkordes/trip-planner/internal/domain"
)

// CreateBooking handles POST /bookings.
// A declined or failed charge is reported as 402 with the collaborator's reason.
func (s *Server) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var body BookingRequest
	if err := decodeBody(r, &body); err != nil {
		requestError(w, err.Error())
		return
	}

	booking, err := s.bookings.Submit(r.Context(), requestToBookingForm(body))
	if err != nil {
		s.serviceError(w, r, err, "booking not found")
		return
	}

	writeJSON(w, http.StatusCreated, bookingToResponse(booking))
}

// requestToBookingForm converts the request body into a domain.BookingForm.
// The payment method is passed through as given; the service validates it.
func requestToBookingForm(body BookingRequest) domain.BookingForm {
	f := domain.BookingForm{
		FullName:           body.FullName,
		Email:              body.Email,
		TripName:           body.TripName,
		TripDate:           body.TripDate.Time,
		BasePricePerPerson: body.BasePricePerPerson,
		GroupSize:          body.GroupSize,
		Method:             domain.PaymentMethod(body.PaymentMethod),
	}
	if m, ok := domain.ParsePaymentMethod(body.PaymentMethod); ok {
		f.Method = m
	}
	if body.Phone != nil {
		f.Phone = *body.Phone
	}
	return f
}

func bookingToResponse(b domain.Booking) BookingResponse {
	resp := BookingResponse{
		State:         string(b.State),
		TransactionID: b.TransactionID,
		Quote:         quoteToResponse(b.Quote),
		Transitions:   make([]string, 0, len(b.Transitions)),
	}
	if b.ReminderID != "" {
		resp.ReminderID = &b.ReminderID
	}
	for _, st := range b.Transitions {
		resp.Transitions = append(resp.Transitions, string(st))
	}
	return resp
}
