package service_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/service"
)

// mockPayments is a test double for service.PaymentProcessor that counts calls.
type mockPayments struct {
	calls   int
	amounts []int64
	process func(ctx context.Context, amount int64, method domain.PaymentMethod) (domain.PaymentResult, error)
}

func (m *mockPayments) Process(ctx context.Context, amount int64, method domain.PaymentMethod) (domain.PaymentResult, error) {
	m.calls++
	m.amounts = append(m.amounts, amount)
	return m.process(ctx, amount, method)
}

// mockReminders is a test double for service.ReminderScheduler.
type mockReminders struct {
	calls    int
	fireAts  []time.Time
	schedule func(ctx context.Context, label string, fireAt time.Time) (string, error)
}

func (m *mockReminders) ScheduleReminder(ctx context.Context, label string, fireAt time.Time) (string, error) {
	m.calls++
	m.fireAts = append(m.fireAts, fireAt)
	return m.schedule(ctx, label, fireAt)
}
func (m *mockReminders) Cancel(_ context.Context, _ string) error { return nil }

var (
	_ service.PaymentProcessor  = (*mockPayments)(nil)
	_ service.ReminderScheduler = (*mockReminders)(nil)
)

// ---- helpers ---------------------------------------------------------------

func approvingPayments() *mockPayments {
	return &mockPayments{
		process: func(_ context.Context, _ int64, _ domain.PaymentMethod) (domain.PaymentResult, error) {
			return domain.PaymentResult{Success: true, TransactionID: "txn-1"}, nil
		},
	}
}

func okReminders() *mockReminders {
	return &mockReminders{
		schedule: func(_ context.Context, _ string, _ time.Time) (string, error) { return "rem-1", nil },
	}
}

func validForm() domain.BookingForm {
	return domain.BookingForm{
		FullName:           "Ada Lovelace",
		Email:              "ada@example.com",
		TripName:           "Kyoto",
		TripDate:           time.Date(2025, time.July, 10, 0, 0, 0, 0, time.UTC),
		BasePricePerPerson: 100,
		GroupSize:          5,
		Method:             domain.PaymentCard,
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

// ---- tests -----------------------------------------------------------------

func TestBookingService_Submit_Success(t *testing.T) {
	payments, reminders := approvingPayments(), okReminders()
	svc := service.NewBookingService(payments, reminders, quietLogger())

	got, err := svc.Submit(context.Background(), validForm())

	require.NoError(t, err)
	assert.Equal(t, domain.BookingSuccess, got.State)
	assert.Equal(t, []domain.BookingState{
		domain.BookingIdle, domain.BookingValidating, domain.BookingPayingForResult, domain.BookingSuccess,
	}, got.Transitions)
	assert.Equal(t, "txn-1", got.TransactionID)
	assert.Equal(t, "rem-1", got.ReminderID)
	// 100 x 5 travellers x 1.2 (July) - 10% group discount.
	assert.Equal(t, int64(540), got.Quote.TotalPrice)
	assert.Equal(t, []int64{540}, payments.amounts)
}

func TestBookingService_Submit_ReminderDayBeforeTrip(t *testing.T) {
	reminders := okReminders()
	svc := service.NewBookingService(approvingPayments(), reminders, quietLogger())

	_, err := svc.Submit(context.Background(), validForm())

	require.NoError(t, err)
	require.Len(t, reminders.fireAts, 1)
	assert.Equal(t, time.Date(2025, time.July, 9, service.ReminderHour, 0, 0, 0, time.UTC), reminders.fireAts[0])
}

func TestBookingService_Submit_EmptyFullName_NoPayment(t *testing.T) {
	payments, reminders := approvingPayments(), okReminders()
	svc := service.NewBookingService(payments, reminders, quietLogger())

	form := validForm()
	form.FullName = "  "

	got, err := svc.Submit(context.Background(), form)

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, domain.BookingFailed, got.State)
	assert.Zero(t, payments.calls)
	assert.Zero(t, reminders.calls)
}

func TestBookingService_Submit_InvalidInput(t *testing.T) {
	cases := map[string]func(f *domain.BookingForm){
		"empty email":      func(f *domain.BookingForm) { f.Email = "" },
		"zero group":       func(f *domain.BookingForm) { f.GroupSize = 0 },
		"negative price":   func(f *domain.BookingForm) { f.BasePricePerPerson = -1 },
		"missing date":     func(f *domain.BookingForm) { f.TripDate = time.Time{} },
		"unknown method":   func(f *domain.BookingForm) { f.Method = "cash" },
		"nan price":        func(f *domain.BookingForm) { f.BasePricePerPerson = math.NaN() },
		"infinite price":   func(f *domain.BookingForm) { f.BasePricePerPerson = math.Inf(1) },
		"price overflows":  func(f *domain.BookingForm) { f.BasePricePerPerson = 1e300 },
		"everything blank": func(f *domain.BookingForm) { *f = domain.BookingForm{} },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			payments := approvingPayments()
			svc := service.NewBookingService(payments, okReminders(), quietLogger())
			form := validForm()
			mutate(&form)

			_, err := svc.Submit(context.Background(), form)

			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Zero(t, payments.calls)
		})
	}
}

func TestBookingService_Submit_Declined(t *testing.T) {
	payments := &mockPayments{
		process: func(_ context.Context, _ int64, _ domain.PaymentMethod) (domain.PaymentResult, error) {
			return domain.PaymentResult{Success: false, Error: "declined"}, nil
		},
	}
	reminders := okReminders()
	svc := service.NewBookingService(payments, reminders, quietLogger())

	got, err := svc.Submit(context.Background(), validForm())

	require.ErrorIs(t, err, domain.ErrPayment)
	assert.ErrorContains(t, err, "declined")
	assert.Equal(t, domain.BookingFailed, got.State)
	assert.Equal(t, 1, payments.calls, "no retry")
	assert.Zero(t, reminders.calls)
}

func TestBookingService_Submit_CollaboratorError(t *testing.T) {
	unsupported := errors.New("apple-pay is not available on this platform")
	payments := &mockPayments{
		process: func(_ context.Context, _ int64, _ domain.PaymentMethod) (domain.PaymentResult, error) {
			return domain.PaymentResult{}, unsupported
		},
	}
	reminders := okReminders()
	svc := service.NewBookingService(payments, reminders, quietLogger())

	form := validForm()
	form.Method = domain.PaymentApplePay
	got, err := svc.Submit(context.Background(), form)

	assert.ErrorIs(t, err, domain.ErrPayment)
	assert.ErrorIs(t, err, unsupported, "collaborator error is surfaced verbatim")
	assert.Equal(t, domain.BookingFailed, got.State)
	assert.Zero(t, reminders.calls)
}

func TestBookingService_Submit_ReminderFailureIsNotFatal(t *testing.T) {
	var logs bytes.Buffer
	reminders := &mockReminders{
		schedule: func(_ context.Context, _ string, _ time.Time) (string, error) {
			return "", errors.New("notifications disabled")
		},
	}
	svc := service.NewBookingService(approvingPayments(), reminders, slog.New(slog.NewTextHandler(&logs, nil)))

	got, err := svc.Submit(context.Background(), validForm())

	require.NoError(t, err)
	assert.Equal(t, domain.BookingSuccess, got.State)
	assert.Equal(t, "txn-1", got.TransactionID)
	assert.Empty(t, got.ReminderID)
	assert.Contains(t, logs.String(), "notifications disabled")
}

func TestReminderTime_IgnoresTimeOfDay(t *testing.T) {
	trip := time.Date(2025, time.March, 1, 17, 45, 0, 0, time.UTC)

	got := service.ReminderTime(trip)

	assert.Equal(t, time.Date(2025, time.February, 28, service.ReminderHour, 0, 0, 0, time.UTC), got)
}
