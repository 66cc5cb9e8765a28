package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/pricing"
)

// ReminderHour is the UTC hour of day at which trip reminders fire, on the
// calendar day before the trip.
const ReminderHour = 9

// PaymentProcessor charges an amount in whole currency units.
// Which methods work depends on the platform; an unsupported method is
// reported as an error, a declined charge as Success == false.
type PaymentProcessor interface {
	Process(ctx context.Context, amount int64, method domain.PaymentMethod) (domain.PaymentResult, error)
}

// ReminderScheduler accepts a reminder request and a target time.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, label string, fireAt time.Time) (string, error)
	Cancel(ctx context.Context, id string) error
}

// BookingService runs one booking attempt at a time through
// Validating → PayingForResult → Success | Failed.
//
// Payment failures are terminal and returned to the caller unchanged; they are
// never retried here. Reminder failures are only logged: once the trip is
// paid for, the booking is successful whether or not a reminder exists.
type BookingService struct {
	payments  PaymentProcessor
	reminders ReminderScheduler
	log       *slog.Logger
}

// NewBookingService constructs a BookingService.
func NewBookingService(payments PaymentProcessor, reminders ReminderScheduler, log *slog.Logger) *BookingService {
	if log == nil {
		log = slog.Default()
	}
	return &BookingService{payments: payments, reminders: reminders, log: log}
}

// Submit validates the form, charges the quoted total, and schedules a
// reminder for the day before the trip.
//
// The returned Booking is populated even on error, with State set to
// domain.BookingFailed and Transitions recording how far the attempt got.
// Returns domain.ErrValidation for bad input (no payment is attempted) and
// domain.ErrPayment, carrying the collaborator's message, for a failed charge.
func (s *BookingService) Submit(ctx context.Context, form domain.BookingForm) (domain.Booking, error) {
	b := domain.Booking{State: domain.BookingIdle}
	b.Transitions = []domain.BookingState{domain.BookingIdle}

	s.transition(ctx, &b, domain.BookingValidating)
	if err := validateBookingForm(form); err != nil {
		s.transition(ctx, &b, domain.BookingFailed)
		return b, err
	}

	b.Quote = pricing.Quote(form.BasePricePerPerson, form.GroupSize, form.TripDate)

	s.transition(ctx, &b, domain.BookingPayingForResult)
	result, err := s.payments.Process(ctx, b.Quote.TotalPrice, form.Method)
	if err != nil {
		s.transition(ctx, &b, domain.BookingFailed)
		return b, fmt.Errorf("service.BookingService.Submit: %w: %w", domain.ErrPayment, err)
	}
	if !result.Success {
		s.transition(ctx, &b, domain.BookingFailed)
		return b, fmt.Errorf("service.BookingService.Submit: %w: %s", domain.ErrPayment, result.Error)
	}
	b.TransactionID = result.TransactionID

	fireAt := ReminderTime(form.TripDate)
	id, err := s.reminders.ScheduleReminder(ctx, reminderLabel(form), fireAt)
	if err != nil {
		s.log.WarnContext(ctx, "trip reminder not scheduled",
			"transaction_id", b.TransactionID,
			"fire_at", fireAt,
			"error", err,
		)
	} else {
		b.ReminderID = id
	}

	s.transition(ctx, &b, domain.BookingSuccess)
	return b, nil
}

// ReminderTime returns ReminderHour UTC on the calendar day before tripDate.
func ReminderTime(tripDate time.Time) time.Time {
	return domain.DateOf(tripDate).AddDate(0, 0, -1).Add(ReminderHour * time.Hour)
}

func (s *BookingService) transition(ctx context.Context, b *domain.Booking, to domain.BookingState) {
	s.log.DebugContext(ctx, "booking transition", "from", b.State, "to", to)
	b.State = to
	b.Transitions = append(b.Transitions, to)
}

// validateBookingForm enforces the required contact fields and the pricing
// preconditions the pricing package leaves to its callers.
func validateBookingForm(f domain.BookingForm) error {
	var problems []string
	if strings.TrimSpace(f.FullName) == "" {
		problems = append(problems, "full_name is required")
	}
	if strings.TrimSpace(f.Email) == "" {
		problems = append(problems, "email is required")
	}
	if f.TripDate.IsZero() {
		problems = append(problems, "trip_date is required")
	}
	problems = append(problems, pricing.InputProblems(f.BasePricePerPerson, f.GroupSize, f.TripDate)...)
	if _, ok := domain.ParsePaymentMethod(string(f.Method)); !ok {
		problems = append(problems, fmt.Sprintf("unknown payment method %q", f.Method))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(problems, "; "))
	}
	return nil
}

func reminderLabel(f domain.BookingForm) string {
	name := strings.TrimSpace(f.TripName)
	if name == "" {
		name = "your trip"
	}
	return fmt.Sprintf("Reminder: %s starts tomorrow (%s)", name, domain.DateOf(f.TripDate).Format(time.DateOnly))
}
