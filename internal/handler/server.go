// Package handler implements the HTTP handlers for the trip planner API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, itinerary.go, etc.) but all share the same Server struct
// so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/trip-planner/internal/domain"
)

// ItineraryServicer defines the itinerary operations the handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching storage or the service layer.
type ItineraryServicer interface {
	List(ctx context.Context) ([]domain.Itinerary, error)
	GetByID(ctx context.Context, id string) (domain.Itinerary, error)
	Create(ctx context.Context, name string) (domain.Itinerary, error)
	Delete(ctx context.Context, id string) error
	Rename(ctx context.Context, id, name string) (domain.Itinerary, error)
	AddDay(ctx context.Context, id string, date time.Time) (domain.Itinerary, error)
	RemoveDay(ctx context.Context, id, dayID string) (domain.Itinerary, error)
	AddActivity(ctx context.Context, id, dayID string, in domain.ActivityInput) (domain.Itinerary, error)
	RemoveActivity(ctx context.Context, id, dayID, activityID string) (domain.Itinerary, error)
}

// BookingSubmitter runs a booking attempt.
type BookingSubmitter interface {
	Submit(ctx context.Context, form domain.BookingForm) (domain.Booking, error)
}

// Server holds the dependencies shared by every handler.
type Server struct {
	itineraries ItineraryServicer
	bookings    BookingSubmitter
	log         *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// A nil logger falls back to slog.Default().
func NewServer(itineraries ItineraryServicer, bookings BookingSubmitter, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{itineraries: itineraries, bookings: bookings, log: log}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil, nil)
}

// Routes mounts every endpoint on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/healthz", s.GetHealth)

	r.Route("/itineraries", func(r chi.Router) {
		r.Get("/", s.ListItineraries)
		r.Post("/", s.CreateItinerary)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetItinerary)
			r.Patch("/", s.RenameItinerary)
			r.Delete("/", s.DeleteItinerary)

			r.Post("/days", s.AddDay)
			r.Delete("/days/{dayID}", s.RemoveDay)
			r.Post("/days/{dayID}/activities", s.AddActivity)
			r.Delete("/days/{dayID}/activities/{activityID}", s.RemoveActivity)
		})
	})

	r.Get("/quote", s.GetQuote)
	r.Post("/bookings", s.CreateBooking)
}

// Handler returns a chi router with every endpoint mounted and no middleware.
// main.go adds middleware on its own router; tests use this directly.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	s.Routes(r)
	return r
}
