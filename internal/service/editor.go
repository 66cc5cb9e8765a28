package service

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/pkordes/trip-planner/internal/domain"
)

// Editor applies day and activity edits to a single itinerary.
// Every method takes an itinerary by value and returns a new, deep-copied
// itinerary; the input is never modified, so a failed edit leaves the
// caller's value exactly as it was.
type Editor struct {
	now   func() time.Time
	newID func() string
}

// NewEditor constructs an Editor. now stamps UpdatedAt; newID mints day and
// activity IDs.
func NewEditor(now func() time.Time, newID func() string) *Editor {
	return &Editor{now: now, newID: newID}
}

// AddDay inserts an empty day on date and re-sorts days ascending by date.
// Returns domain.ErrDuplicateDate if a day already falls on that calendar date.
func (e *Editor) AddDay(it domain.Itinerary, date time.Time) (domain.Itinerary, error) {
	if date.IsZero() {
		return it, fmt.Errorf("%w: date is required", domain.ErrValidation)
	}
	if it.HasDate(date) {
		return it, fmt.Errorf("%w: %s", domain.ErrDuplicateDate, domain.DateOf(date).Format(time.DateOnly))
	}

	out := it.Clone()
	out.Days = append(out.Days, domain.NewDay(e.newID(), date))
	slices.SortFunc(out.Days, func(a, b domain.Day) int { return a.Date.Compare(b.Date) })
	e.touch(&out)
	return out, nil
}

// RemoveDay drops the day with dayID and everything in it.
// An unknown dayID returns it unchanged.
func (e *Editor) RemoveDay(it domain.Itinerary, dayID string) domain.Itinerary {
	i := it.DayIndex(dayID)
	if i < 0 {
		return it
	}

	out := it.Clone()
	out.Days = slices.Delete(out.Days, i, i+1)
	e.touch(&out)
	return out
}

// AddActivity appends an activity to the day with dayID. Activities keep
// insertion order; Time is stored verbatim.
// Returns domain.ErrValidation for a blank description and domain.ErrNotFound
// for an unknown day.
func (e *Editor) AddActivity(it domain.Itinerary, dayID string, in domain.ActivityInput) (domain.Itinerary, error) {
	if strings.TrimSpace(in.Description) == "" {
		return it, fmt.Errorf("%w: description is required", domain.ErrValidation)
	}
	i := it.DayIndex(dayID)
	if i < 0 {
		return it, fmt.Errorf("day %q: %w", dayID, domain.ErrNotFound)
	}

	out := it.Clone()
	out.Days[i].Activities = append(out.Days[i].Activities, domain.Activity{
		ID:          e.newID(),
		Time:        in.Time,
		Description: in.Description,
		Location:    in.Location,
	})
	e.touch(&out)
	return out, nil
}

// RemoveActivity drops the activity with activityID from the day with dayID.
// An unknown activity returns it unchanged; an unknown day is
// domain.ErrNotFound.
func (e *Editor) RemoveActivity(it domain.Itinerary, dayID, activityID string) (domain.Itinerary, error) {
	i := it.DayIndex(dayID)
	if i < 0 {
		return it, fmt.Errorf("day %q: %w", dayID, domain.ErrNotFound)
	}
	j := slices.IndexFunc(it.Days[i].Activities, func(a domain.Activity) bool { return a.ID == activityID })
	if j < 0 {
		return it, nil
	}

	out := it.Clone()
	out.Days[i].Activities = slices.Delete(out.Days[i].Activities, j, j+1)
	e.touch(&out)
	return out, nil
}

// Rename changes the itinerary's display name.
// Returns domain.ErrValidation if name is blank.
func (e *Editor) Rename(it domain.Itinerary, name string) (domain.Itinerary, error) {
	if err := validateName(name); err != nil {
		return it, err
	}

	out := it.Clone()
	out.Name = name
	e.touch(&out)
	return out, nil
}

// touch bumps UpdatedAt, in UTC, without ever moving it backwards.
func (e *Editor) touch(it *domain.Itinerary) {
	if now := e.now().UTC(); now.After(it.UpdatedAt) {
		it.UpdatedAt = now
	}
}

// validateName enforces the non-blank name rule shared by Create and Rename.
func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	return nil
}
