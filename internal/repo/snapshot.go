package repo

import (
	"encoding/json"
	"fmt"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trip-planner/internal/domain"
)

// snapshotVersion is written into every encoded snapshot. Decoding rejects
// any other version so that a newer layout is never misread as this one.
const snapshotVersion = 1

// snapshot is the on-disk shape of the whole itinerary collection.
// Timestamps are RFC 3339 with nanoseconds; day dates are "2006-01-02".
type snapshot struct {
	Version     int               `json:"version"`
	Itineraries []itineraryRecord `json:"itineraries"`
}

type itineraryRecord struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Days      []dayRecord `json:"days"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

type dayRecord struct {
	ID         string             `json:"id"`
	Date       openapi_types.Date `json:"date"`
	Activities []activityRecord   `json:"activities"`
}

type activityRecord struct {
	ID          string `json:"id"`
	Time        string `json:"time,omitempty"`
	Description string `json:"description"`
	Location    string `json:"location,omitempty"`
}

// EncodeItineraries serializes the full collection into a snapshot blob.
func EncodeItineraries(items []domain.Itinerary) ([]byte, error) {
	snap := snapshot{
		Version:     snapshotVersion,
		Itineraries: make([]itineraryRecord, len(items)),
	}
	for i, it := range items {
		snap.Itineraries[i] = itineraryToRecord(it)
	}

	b, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("repo.EncodeItineraries: %w", err)
	}
	return b, nil
}

// DecodeItineraries reconstructs the collection from a snapshot blob.
// Any blob that is not a structurally valid collection yields
// domain.ErrStorageRead. Each itinerary must pass domain.Itinerary.Validate.
// Timestamps come back in UTC; the domain constructors and the editor only
// ever produce UTC times, so a saved collection loads back identical.
func DecodeItineraries(blob []byte) ([]domain.Itinerary, error) {
	var snap snapshot
	if err := json.Unmarshal(blob, &snap); err != nil {
		return nil, fmt.Errorf("repo.DecodeItineraries: %w: %w", domain.ErrStorageRead, err)
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("repo.DecodeItineraries: %w: unsupported snapshot version %d", domain.ErrStorageRead, snap.Version)
	}

	items := make([]domain.Itinerary, len(snap.Itineraries))
	seen := make(map[string]bool, len(snap.Itineraries))
	for i, rec := range snap.Itineraries {
		it := recordToItinerary(rec)
		// The stored data is at fault, not the caller: report a read error
		// rather than the validation sentinel.
		if err := it.Validate(); err != nil {
			return nil, fmt.Errorf("repo.DecodeItineraries: %w: itinerary %d: %v", domain.ErrStorageRead, i, err)
		}
		if seen[rec.ID] {
			return nil, fmt.Errorf("repo.DecodeItineraries: %w: duplicate itinerary id %q", domain.ErrStorageRead, rec.ID)
		}
		seen[rec.ID] = true
		items[i] = it
	}
	return items, nil
}

func itineraryToRecord(it domain.Itinerary) itineraryRecord {
	rec := itineraryRecord{
		ID:        it.ID,
		Name:      it.Name,
		Days:      make([]dayRecord, len(it.Days)),
		CreatedAt: it.CreatedAt,
		UpdatedAt: it.UpdatedAt,
	}
	for i, d := range it.Days {
		dr := dayRecord{
			ID:         d.ID,
			Date:       openapi_types.Date{Time: domain.DateOf(d.Date)},
			Activities: make([]activityRecord, len(d.Activities)),
		}
		for j, a := range d.Activities {
			dr.Activities[j] = activityRecord(a)
		}
		rec.Days[i] = dr
	}
	return rec
}

func recordToItinerary(rec itineraryRecord) domain.Itinerary {
	it := domain.Itinerary{
		ID:        rec.ID,
		Name:      rec.Name,
		Days:      make([]domain.Day, len(rec.Days)),
		CreatedAt: rec.CreatedAt.UTC(),
		UpdatedAt: rec.UpdatedAt.UTC(),
	}
	for i, dr := range rec.Days {
		d := domain.Day{
			ID:         dr.ID,
			Date:       domain.DateOf(dr.Date.Time),
			Activities: make([]domain.Activity, len(dr.Activities)),
		}
		for j, a := range dr.Activities {
			d.Activities[j] = domain.Activity(a)
		}
		it.Days[i] = d
	}
	return it
}
