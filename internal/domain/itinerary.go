// Package domain contains the core data types for the trip planner.
// It is imported by every other internal package (repo, service, handler)
// and depends on nothing but the standard library.
package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Itinerary is a named trip plan. It is the top-level aggregate: days belong
// to an itinerary and activities belong to a day. Days are always kept sorted
// ascending by Date with no two days on the same calendar date.
// CreatedAt and UpdatedAt are kept in UTC.
type Itinerary struct {
	ID        string
	Name      string
	Days      []Day
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Day is a single calendar date within an itinerary.
// Date carries no meaningful time component; see DateOf.
type Day struct {
	ID         string
	Date       time.Time
	Activities []Activity
}

// Activity is a single planned action within a day.
// Time is a free-text label ("morning", "10:30", "after lunch") and is never
// parsed. Activities keep insertion order; they are not sorted by Time.
type Activity struct {
	ID          string
	Time        string
	Description string
	Location    string
}

// ActivityInput carries the caller-supplied fields of a new activity.
type ActivityInput struct {
	Time        string
	Description string
	Location    string
}

// NewItinerary returns an itinerary with no days and both timestamps set to now.
func NewItinerary(id, name string, now time.Time) Itinerary {
	return Itinerary{
		ID:        id,
		Name:      name,
		Days:      []Day{},
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
}

// NewDay returns a day with no activities on the calendar date of date.
func NewDay(id string, date time.Time) Day {
	return Day{ID: id, Date: DateOf(date), Activities: []Activity{}}
}

// DateOf strips the time-of-day from t, returning midnight UTC of t's
// calendar date as observed in t's own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDate reports whether a and b fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	return DateOf(a).Equal(DateOf(b))
}

// Clone returns a deep copy of the itinerary so that edits to the copy never
// alias the original's days or activities.
func (it Itinerary) Clone() Itinerary {
	out := it
	out.Days = make([]Day, len(it.Days))
	for i, d := range it.Days {
		out.Days[i] = d.Clone()
	}
	return out
}

// Clone returns a deep copy of the day.
func (d Day) Clone() Day {
	out := d
	out.Activities = slices.Clone(d.Activities)
	if out.Activities == nil {
		out.Activities = []Activity{}
	}
	return out
}

// DayIndex returns the index of the day with the given ID, or -1.
func (it Itinerary) DayIndex(dayID string) int {
	return slices.IndexFunc(it.Days, func(d Day) bool { return d.ID == dayID })
}

// HasDate reports whether any day of the itinerary falls on date.
func (it Itinerary) HasDate(date time.Time) bool {
	return slices.ContainsFunc(it.Days, func(d Day) bool { return SameDate(d.Date, date) })
}

// Validate checks the invariants every stored itinerary holds: IDs present,
// a non-blank name, days strictly ascending by calendar date, and activities
// with non-blank descriptions.
// Returns ErrDuplicateDate when two days share a date and ErrValidation for
// everything else.
func (it Itinerary) Validate() error {
	if it.ID == "" {
		return fmt.Errorf("%w: id is required", ErrValidation)
	}
	if strings.TrimSpace(it.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	for j, d := range it.Days {
		if d.ID == "" {
			return fmt.Errorf("%w: day %d: id is required", ErrValidation, j)
		}
		if d.Date.IsZero() {
			return fmt.Errorf("%w: day %d: date is required", ErrValidation, j)
		}
		if j > 0 {
			prev, cur := DateOf(it.Days[j-1].Date), DateOf(d.Date)
			if prev.Equal(cur) {
				return fmt.Errorf("%w: day %d: %s", ErrDuplicateDate, j, cur.Format(time.DateOnly))
			}
			if cur.Before(prev) {
				return fmt.Errorf("%w: day %d: days must be in ascending date order", ErrValidation, j)
			}
		}
		for k, a := range d.Activities {
			if a.ID == "" {
				return fmt.Errorf("%w: day %d activity %d: id is required", ErrValidation, j, k)
			}
			if strings.TrimSpace(a.Description) == "" {
				return fmt.Errorf("%w: day %d activity %d: description is required", ErrValidation, j, k)
			}
		}
	}
	return nil
}
