// Package service contains the business logic of the trip planner.
// Services validate inputs, enforce business rules, and orchestrate storage
// and external collaborators. No SQL lives here.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
)

// DefaultStorageKey is the BlobStore key the itinerary collection lives under.
const DefaultStorageKey = "itineraries"

// ItineraryService owns the itinerary collection. It keeps the whole
// collection in memory and writes all of it back through the BlobStore on
// every mutation. The in-memory copy is replaced only after a successful
// write, so a failed write leaves memory and storage in agreement.
//
// One process is expected to hold one ItineraryService per storage key;
// concurrent calls on it are serialized.
type ItineraryService struct {
	store  repo.BlobStore
	key    string
	editor *Editor
	now    func() time.Time
	newID  func() string
	log    *slog.Logger

	mu     sync.Mutex
	items  []domain.Itinerary
	loaded bool
}

// ItineraryOption customizes an ItineraryService.
type ItineraryOption func(*ItineraryService)

// WithStorageKey overrides DefaultStorageKey.
func WithStorageKey(key string) ItineraryOption {
	return func(s *ItineraryService) { s.key = key }
}

// WithClock replaces time.Now as the source of timestamps.
func WithClock(now func() time.Time) ItineraryOption {
	return func(s *ItineraryService) { s.now = now }
}

// WithIDGenerator replaces the UUID generator used for new IDs.
func WithIDGenerator(newID func() string) ItineraryOption {
	return func(s *ItineraryService) { s.newID = newID }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) ItineraryOption {
	return func(s *ItineraryService) { s.log = l }
}

// NewItineraryService constructs an ItineraryService backed by store.
func NewItineraryService(store repo.BlobStore, opts ...ItineraryOption) *ItineraryService {
	s := &ItineraryService{
		store: store,
		key:   DefaultStorageKey,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.editor = NewEditor(s.now, s.newID)
	return s
}

// Load reads the full collection from storage, replacing whatever is held in
// memory. No stored snapshot yields an empty collection.
// Returns domain.ErrStorageRead for a malformed snapshot and domain.ErrIO
// when the store itself fails.
func (s *ItineraryService) Load(ctx context.Context) ([]domain.Itinerary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(ctx); err != nil {
		return nil, fmt.Errorf("service.ItineraryService.Load: %w", err)
	}
	return cloneAll(s.items), nil
}

// List returns every itinerary in creation order.
// Always returns a non-nil slice so callers can safely range over it.
func (s *ItineraryService) List(ctx context.Context) ([]domain.Itinerary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return nil, fmt.Errorf("service.ItineraryService.List: %w", err)
	}
	return cloneAll(s.items), nil
}

// GetByID returns a single itinerary.
// Returns domain.ErrNotFound if no itinerary has that ID.
func (s *ItineraryService) GetByID(ctx context.Context, id string) (domain.Itinerary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return domain.Itinerary{}, fmt.Errorf("service.ItineraryService.GetByID: %w", err)
	}
	i := s.indexOf(id)
	if i < 0 {
		return domain.Itinerary{}, fmt.Errorf("service.ItineraryService.GetByID: %w", domain.ErrNotFound)
	}
	return s.items[i].Clone(), nil
}

// Create validates name, appends a new empty itinerary, and persists.
// Returns domain.ErrValidation if name is blank.
func (s *ItineraryService) Create(ctx context.Context, name string) (domain.Itinerary, error) {
	if err := validateName(name); err != nil {
		return domain.Itinerary{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return domain.Itinerary{}, fmt.Errorf("service.ItineraryService.Create: %w", err)
	}

	it := domain.NewItinerary(s.newID(), name, s.now())
	next := append(cloneAll(s.items), it)
	if err := s.commit(ctx, next); err != nil {
		return domain.Itinerary{}, fmt.Errorf("service.ItineraryService.Create: %w", err)
	}

	s.log.InfoContext(ctx, "itinerary created", "itinerary_id", it.ID)
	return it.Clone(), nil
}

// Delete removes an itinerary together with all its days and activities, and
// persists. Deleting an unknown ID is not an error.
func (s *ItineraryService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return fmt.Errorf("service.ItineraryService.Delete: %w", err)
	}

	next := slices.DeleteFunc(cloneAll(s.items), func(it domain.Itinerary) bool { return it.ID == id })
	removed := len(next) < len(s.items)
	if err := s.commit(ctx, next); err != nil {
		return fmt.Errorf("service.ItineraryService.Delete: %w", err)
	}

	if removed {
		s.log.InfoContext(ctx, "itinerary deleted", "itinerary_id", id)
	} else {
		s.log.DebugContext(ctx, "delete of unknown itinerary", "itinerary_id", id)
	}
	return nil
}

// Update replaces the stored itinerary that has it.ID, wholesale, and
// persists. The caller is responsible for having bumped it.UpdatedAt.
// Timestamps are stored in UTC.
// Returns domain.ErrNotFound if no itinerary has that ID, and
// domain.ErrValidation or domain.ErrDuplicateDate if it breaks an itinerary
// invariant or moves UpdatedAt backwards. Nothing is written on error.
func (s *ItineraryService) Update(ctx context.Context, it domain.Itinerary) (domain.Itinerary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return domain.Itinerary{}, fmt.Errorf("service.ItineraryService.Update: %w", err)
	}
	it.CreatedAt = it.CreatedAt.UTC()
	it.UpdatedAt = it.UpdatedAt.UTC()
	if i := s.indexOf(it.ID); i >= 0 && it.UpdatedAt.Before(s.items[i].UpdatedAt) {
		return domain.Itinerary{}, fmt.Errorf("service.ItineraryService.Update: %w: updated_at is earlier than the stored value", domain.ErrValidation)
	}
	if err := s.replace(ctx, it); err != nil {
		return domain.Itinerary{}, fmt.Errorf("service.ItineraryService.Update: %w", err)
	}
	return it.Clone(), nil
}

// Rename validates and stores a new name for the itinerary.
func (s *ItineraryService) Rename(ctx context.Context, id, name string) (domain.Itinerary, error) {
	return s.edit(ctx, "Rename", id, func(it domain.Itinerary) (domain.Itinerary, error) {
		return s.editor.Rename(it, name)
	})
}

// AddDay adds an empty day on date to the itinerary.
// Returns domain.ErrDuplicateDate if the itinerary already has that date.
func (s *ItineraryService) AddDay(ctx context.Context, id string, date time.Time) (domain.Itinerary, error) {
	return s.edit(ctx, "AddDay", id, func(it domain.Itinerary) (domain.Itinerary, error) {
		return s.editor.AddDay(it, date)
	})
}

// RemoveDay removes a day and its activities. An unknown day is a no-op.
func (s *ItineraryService) RemoveDay(ctx context.Context, id, dayID string) (domain.Itinerary, error) {
	return s.edit(ctx, "RemoveDay", id, func(it domain.Itinerary) (domain.Itinerary, error) {
		return s.editor.RemoveDay(it, dayID), nil
	})
}

// AddActivity appends an activity to a day of the itinerary.
func (s *ItineraryService) AddActivity(ctx context.Context, id, dayID string, in domain.ActivityInput) (domain.Itinerary, error) {
	return s.edit(ctx, "AddActivity", id, func(it domain.Itinerary) (domain.Itinerary, error) {
		return s.editor.AddActivity(it, dayID, in)
	})
}

// RemoveActivity removes an activity from a day. An unknown activity is a no-op.
func (s *ItineraryService) RemoveActivity(ctx context.Context, id, dayID, activityID string) (domain.Itinerary, error) {
	return s.edit(ctx, "RemoveActivity", id, func(it domain.Itinerary) (domain.Itinerary, error) {
		return s.editor.RemoveActivity(it, dayID, activityID)
	})
}

// edit runs one editor step against the stored itinerary and writes the
// result back. No-op steps are written too; the snapshot is unchanged.
func (s *ItineraryService) edit(ctx context.Context, op, id string, fn func(domain.Itinerary) (domain.Itinerary, error)) (domain.Itinerary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return domain.Itinerary{}, fmt.Errorf("service.ItineraryService.%s: %w", op, err)
	}
	i := s.indexOf(id)
	if i < 0 {
		return domain.Itinerary{}, fmt.Errorf("service.ItineraryService.%s: %w", op, domain.ErrNotFound)
	}

	next, err := fn(s.items[i].Clone())
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("service.ItineraryService.%s: %w", op, err)
	}
	if err := s.replace(ctx, next); err != nil {
		return domain.Itinerary{}, fmt.Errorf("service.ItineraryService.%s: %w", op, err)
	}
	return next.Clone(), nil
}

// replace swaps in it for the stored itinerary with the same ID and persists.
// it must pass domain.Itinerary.Validate; a snapshot that Load would reject
// is never written.
func (s *ItineraryService) replace(ctx context.Context, it domain.Itinerary) error {
	i := s.indexOf(it.ID)
	if i < 0 {
		return domain.ErrNotFound
	}
	if err := it.Validate(); err != nil {
		return err
	}
	next := cloneAll(s.items)
	next[i] = it.Clone()
	return s.commit(ctx, next)
}

// commit writes next as the full collection and, only on success, adopts it
// as the in-memory state.
func (s *ItineraryService) commit(ctx context.Context, next []domain.Itinerary) error {
	blob, err := repo.EncodeItineraries(next)
	if err != nil {
		return err
	}
	if err := s.store.Write(ctx, s.key, blob); err != nil {
		s.log.ErrorContext(ctx, "persist itineraries", "key", s.key, "error", err)
		return err
	}
	s.items = next
	return nil
}

func (s *ItineraryService) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	return s.load(ctx)
}

func (s *ItineraryService) load(ctx context.Context) error {
	blob, ok, err := s.store.Read(ctx, s.key)
	if err != nil {
		return err
	}
	if !ok {
		s.items = []domain.Itinerary{}
		s.loaded = true
		return nil
	}

	items, err := repo.DecodeItineraries(blob)
	if err != nil {
		s.log.ErrorContext(ctx, "stored itineraries are malformed", "key", s.key, "error", err)
		return err
	}
	s.items = items
	s.loaded = true
	s.log.DebugContext(ctx, "itineraries loaded", "count", len(items))
	return nil
}

func (s *ItineraryService) indexOf(id string) int {
	return slices.IndexFunc(s.items, func(it domain.Itinerary) bool { return it.ID == id })
}

func cloneAll(items []domain.Itinerary) []domain.Itinerary {
	out := make([]domain.Itinerary, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}
