package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trip-planner/internal/domain"
)

const itineraryNotFound = "itinerary not found"

// ListItineraries handles GET /itineraries.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListItineraries(w http.ResponseWriter, r *http.Request) {
	var page, limit *int
	if err := bindQuery(r, "page", false, &page); err != nil {
		requestError(w, err.Error())
		return
	}
	if err := bindQuery(r, "limit", false, &limit); err != nil {
		requestError(w, err.Error())
		return
	}
	params := domain.NewPaginationParams(page, limit)

	items, err := s.itineraries.List(r.Context())
	if err != nil {
		s.serviceError(w, r, err, itineraryNotFound)
		return
	}

	start, end := params.Window(len(items))
	data := make([]Itinerary, 0, end-start)
	for _, it := range items[start:end] {
		data = append(data, itineraryToResponse(it))
	}
	writeJSON(w, http.StatusOK, ItineraryList{
		Data: data,
		Pagination: Pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: len(items),
		},
	})
}

// CreateItinerary handles POST /itineraries.
func (s *Server) CreateItinerary(w http.ResponseWriter, r *http.Request) {
	var body ItineraryNameRequest
	if err := decodeBody(r, &body); err != nil {
		requestError(w, err.Error())
		return
	}

	created, err := s.itineraries.Create(r.Context(), body.Name)
	if err != nil {
		s.serviceError(w, r, err, itineraryNotFound)
		return
	}

	writeJSON(w, http.StatusCreated, itineraryToResponse(created))
}

// GetItinerary handles GET /itineraries/{id}.
func (s *Server) GetItinerary(w http.ResponseWriter, r *http.Request) {
	it, err := s.itineraries.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.serviceError(w, r, err, itineraryNotFound)
		return
	}

	writeJSON(w, http.StatusOK, itineraryToResponse(it))
}

// RenameItinerary handles PATCH /itineraries/{id}.
func (s *Server) RenameItinerary(w http.ResponseWriter, r *http.Request) {
	var body ItineraryNameRequest
	if err := decodeBody(r, &body); err != nil {
		requestError(w, err.Error())
		return
	}

	updated, err := s.itineraries.Rename(r.Context(), chi.URLParam(r, "id"), body.Name)
	if err != nil {
		s.serviceError(w, r, err, itineraryNotFound)
		return
	}

	writeJSON(w, http.StatusOK, itineraryToResponse(updated))
}

// DeleteItinerary handles DELETE /itineraries/{id}.
// Deleting an itinerary that does not exist still returns 204.
func (s *Server) DeleteItinerary(w http.ResponseWriter, r *http.Request) {
	if err := s.itineraries.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.serviceError(w, r, err, itineraryNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddDay handles POST /itineraries/{id}/days.
func (s *Server) AddDay(w http.ResponseWriter, r *http.Request) {
	var body AddDayRequest
	if err := decodeBody(r, &body); err != nil {
		requestError(w, err.Error())
		return
	}
	if body.Date.Time.IsZero() {
		requestError(w, "date is required")
		return
	}

	updated, err := s.itineraries.AddDay(r.Context(), chi.URLParam(r, "id"), body.Date.Time)
	if err != nil {
		s.serviceError(w, r, err, itineraryNotFound)
		return
	}

	writeJSON(w, http.StatusCreated, itineraryToResponse(updated))
}

// RemoveDay handles DELETE /itineraries/{id}/days/{dayID}.
// Removing a day that does not exist leaves the itinerary unchanged.
func (s *Server) RemoveDay(w http.ResponseWriter, r *http.Request) {
	updated, err := s.itineraries.RemoveDay(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "dayID"))
	if err != nil {
		s.serviceError(w, r, err, itineraryNotFound)
		return
	}

	writeJSON(w, http.StatusOK, itineraryToResponse(updated))
}

// AddActivity handles POST /itineraries/{id}/days/{dayID}/activities.
func (s *Server) AddActivity(w http.ResponseWriter, r *http.Request) {
	var body AddActivityRequest
	if err := decodeBody(r, &body); err != nil {
		requestError(w, err.Error())
		return
	}

	in := domain.ActivityInput{Description: body.Description}
	if body.Time != nil {
		in.Time = *body.Time
	}
	if body.Location != nil {
		in.Location = *body.Location
	}

	updated, err := s.itineraries.AddActivity(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "dayID"), in)
	if err != nil {
		s.serviceError(w, r, err, "itinerary or day not found")
		return
	}

	writeJSON(w, http.StatusCreated, itineraryToResponse(updated))
}

// RemoveActivity handles DELETE /itineraries/{id}/days/{dayID}/activities/{activityID}.
func (s *Server) RemoveActivity(w http.ResponseWriter, r *http.Request) {
	updated, err := s.itineraries.RemoveActivity(r.Context(),
		chi.URLParam(r, "id"), chi.URLParam(r, "dayID"), chi.URLParam(r, "activityID"))
	if err != nil {
		s.serviceError(w, r, err, "itinerary or day not found")
		return
	}

	writeJSON(w, http.StatusOK, itineraryToResponse(updated))
}

// --- mapping helpers --------------------------------------------------------

// decodeBody decodes a JSON request body into dst, rejecting unknown fields.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit)
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// bindQuery binds one form-style query parameter into dest the way
// generated oapi-codegen wrappers do. Optional parameters take a pointer
// destination that stays nil when the parameter is absent.
func bindQuery(r *http.Request, name string, required bool, dest any) error {
	if err := runtime.BindQueryParameter("form", true, required, name, r.URL.Query(), dest); err != nil {
		return fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}
	return nil
}

// itineraryToResponse converts a domain.Itinerary into its JSON shape.
// Days and activities are always non-nil so they encode as [] rather than null.
func itineraryToResponse(it domain.Itinerary) Itinerary {
	resp := Itinerary{
		ID:        it.ID,
		Name:      it.Name,
		Days:      make([]Day, 0, len(it.Days)),
		CreatedAt: it.CreatedAt,
		UpdatedAt: it.UpdatedAt,
	}
	for _, d := range it.Days {
		day := Day{
			ID:         d.ID,
			Date:       openapi_types.Date{Time: d.Date},
			Activities: make([]Activity, 0, len(d.Activities)),
		}
		for _, a := range d.Activities {
			day.Activities = append(day.Activities, activityToResponse(a))
		}
		resp.Days = append(resp.Days, day)
	}
	return resp
}

func activityToResponse(a domain.Activity) Activity {
	resp := Activity{ID: a.ID, Description: a.Description}
	if a.Time != "" {
		resp.Time = &a.Time
	}
	if a.Location != "" {
		resp.Location = &a.Location
	}
	return resp
}
