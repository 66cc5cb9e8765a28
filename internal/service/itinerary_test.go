package service_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
	"github.com/pkordes/trip-planner/internal/service"
	"github.com/pkordes/trip-planner/testutil"
)

// mockBlobStore is a hand-written test double for repo.BlobStore.
// Each method is a function field; set only the ones your test needs.
type mockBlobStore struct {
	read  func(ctx context.Context, key string) ([]byte, bool, error)
	write func(ctx context.Context, key string, blob []byte) error
}

func (m *mockBlobStore) Read(ctx context.Context, key string) ([]byte, bool, error) {
	return m.read(ctx, key)
}
func (m *mockBlobStore) Write(ctx context.Context, key string, blob []byte) error {
	return m.write(ctx, key, blob)
}

// compile-time check: mockBlobStore must satisfy repo.BlobStore.
var _ repo.BlobStore = (*mockBlobStore)(nil)

// ---- helpers ---------------------------------------------------------------

func newService(store repo.BlobStore) *service.ItineraryService {
	return service.NewItineraryService(store,
		service.WithClock(fakeClock(epoch)),
		service.WithIDGenerator(seqIDs("id")),
	)
}

// storedCollection decodes whatever the service last wrote to store.
func storedCollection(t *testing.T, store *repo.MemoryBlobStore) []domain.Itinerary {
	t.Helper()
	blob, ok, err := store.Read(context.Background(), service.DefaultStorageKey)
	require.NoError(t, err)
	require.True(t, ok, "nothing persisted")
	items, err := repo.DecodeItineraries(blob)
	require.NoError(t, err)
	return items
}

// ---- Load ------------------------------------------------------------------

func TestItineraryService_Load_NoStoredState(t *testing.T) {
	svc := newService(repo.NewMemoryBlobStore())

	got, err := svc.Load(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestItineraryService_Load_Malformed(t *testing.T) {
	store := repo.NewMemoryBlobStore()
	require.NoError(t, store.Write(context.Background(), service.DefaultStorageKey, []byte("{not json")))
	svc := newService(store)

	_, err := svc.Load(context.Background())

	assert.ErrorIs(t, err, domain.ErrStorageRead)
}

func TestItineraryService_Malformed_BlocksWrites(t *testing.T) {
	store := repo.NewMemoryBlobStore()
	ctx := context.Background()
	require.NoError(t, store.Write(ctx, service.DefaultStorageKey, []byte(`{"version":99}`)))
	svc := newService(store)

	_, err := svc.Create(ctx, "Anything")

	// The corrupt snapshot must be reported, not silently overwritten.
	assert.ErrorIs(t, err, domain.ErrStorageRead)
	blob, _, _ := store.Read(ctx, service.DefaultStorageKey)
	assert.Equal(t, `{"version":99}`, string(blob))
}

func TestItineraryService_Load_ReadError(t *testing.T) {
	ioErr := errors.New("disk on fire")
	store := &mockBlobStore{
		read: func(_ context.Context, _ string) ([]byte, bool, error) { return nil, false, ioErr },
	}
	svc := newService(store)

	_, err := svc.Load(context.Background())

	assert.ErrorIs(t, err, ioErr)
}

// TestItineraryService_RoundTrip checks load(save(X)) == X through a real
// store: a second service instance sees exactly what the first wrote.
func TestItineraryService_RoundTrip(t *testing.T) {
	store := repo.NewMemoryBlobStore()
	ctx := context.Background()
	svc := newService(store)

	kyoto, err := svc.Create(ctx, "Kyoto")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "Lisbon")
	require.NoError(t, err)
	_, err = svc.AddDay(ctx, kyoto.ID, date(2025, 7, 11))
	require.NoError(t, err)
	kyoto, err = svc.AddDay(ctx, kyoto.ID, date(2025, 7, 10))
	require.NoError(t, err)
	_, err = svc.AddActivity(ctx, kyoto.ID, kyoto.Days[0].ID, domain.ActivityInput{Time: "dawn", Description: "Fushimi Inari", Location: "Fushimi"})
	require.NoError(t, err)

	want, err := svc.List(ctx)
	require.NoError(t, err)

	fresh := service.NewItineraryService(store)
	got, err := fresh.Load(ctx)

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

// ---- Create ----------------------------------------------------------------

func TestItineraryService_Create(t *testing.T) {
	store := repo.NewMemoryBlobStore()
	svc := newService(store)

	got, err := svc.Create(context.Background(), "Summer in Japan")

	require.NoError(t, err)
	assert.Equal(t, "id-1", got.ID)
	assert.Equal(t, "Summer in Japan", got.Name)
	assert.Empty(t, got.Days)
	assert.False(t, got.CreatedAt.IsZero())
	assert.Equal(t, got.CreatedAt, got.UpdatedAt)
	assert.Equal(t, []domain.Itinerary{got}, storedCollection(t, store))
}

func TestItineraryService_Create_AppendOrder(t *testing.T) {
	svc := newService(repo.NewMemoryBlobStore())
	ctx := context.Background()

	for _, name := range []string{"Zurich", "Athens", "Montreal"} {
		_, err := svc.Create(ctx, name)
		require.NoError(t, err)
	}

	items, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Zurich", items[0].Name)
	assert.Equal(t, "Athens", items[1].Name)
	assert.Equal(t, "Montreal", items[2].Name)
}

func TestItineraryService_Create_BlankName(t *testing.T) {
	writes := 0
	store := &mockBlobStore{
		read:  func(_ context.Context, _ string) ([]byte, bool, error) { return nil, false, nil },
		write: func(_ context.Context, _ string, _ []byte) error { writes++; return nil },
	}
	svc := newService(store)

	_, err := svc.Create(context.Background(), "   ")

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, writes)
}

func TestItineraryService_Create_WriteError_LeavesMemoryUnchanged(t *testing.T) {
	store := &mockBlobStore{
		read: func(_ context.Context, _ string) ([]byte, bool, error) { return nil, false, nil },
		write: func(_ context.Context, _ string, _ []byte) error {
			return domain.ErrIO
		},
	}
	svc := newService(store)

	_, err := svc.Create(context.Background(), "Doomed")
	require.ErrorIs(t, err, domain.ErrIO)

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

// ---- Delete ----------------------------------------------------------------

func TestItineraryService_Delete(t *testing.T) {
	store := repo.NewMemoryBlobStore()
	svc := newService(store)
	ctx := context.Background()

	keep, err := svc.Create(ctx, "Keep")
	require.NoError(t, err)
	gone, err := svc.Create(ctx, "Gone")
	require.NoError(t, err)
	_, err = svc.AddDay(ctx, gone.ID, date(2025, 8, 1))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, gone.ID))

	_, err = svc.GetByID(ctx, gone.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	stored := storedCollection(t, store)
	require.Len(t, stored, 1)
	assert.Equal(t, keep.ID, stored[0].ID)
}

func TestItineraryService_Delete_Unknown_NoOp(t *testing.T) {
	store := repo.NewMemoryBlobStore()
	svc := newService(store)
	ctx := context.Background()
	_, err := svc.Create(ctx, "Only")
	require.NoError(t, err)
	before := storedCollection(t, store)

	err = svc.Delete(ctx, "does-not-exist")

	require.NoError(t, err)
	assert.Equal(t, before, storedCollection(t, store))
}

func TestItineraryService_Delete_LogsOnlyWhenRemoved(t *testing.T) {
	var logs bytes.Buffer
	svc := service.NewItineraryService(repo.NewMemoryBlobStore(),
		service.WithClock(fakeClock(epoch)),
		service.WithIDGenerator(seqIDs("id")),
		service.WithLogger(slog.New(slog.NewTextHandler(&logs, nil))),
	)
	ctx := context.Background()
	it, err := svc.Create(ctx, "Only")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "does-not-exist"))
	assert.NotContains(t, logs.String(), "itinerary deleted")

	require.NoError(t, svc.Delete(ctx, it.ID))
	assert.Contains(t, logs.String(), "itinerary deleted")
	assert.Contains(t, logs.String(), "itinerary_id="+it.ID)
}

// ---- Update ----------------------------------------------------------------

func TestItineraryService_Update(t *testing.T) {
	store := repo.NewMemoryBlobStore()
	svc := newService(store)
	ctx := context.Background()
	created, err := svc.Create(ctx, "Draft")
	require.NoError(t, err)

	edited, err := service.NewEditor(fakeClock(epoch.Add(time.Hour)), seqIDs("day")).AddDay(created, date(2025, 12, 24))
	require.NoError(t, err)
	edited.Name = "Christmas"

	got, err := svc.Update(ctx, edited)

	require.NoError(t, err)
	assert.Equal(t, edited, got)
	assert.Equal(t, []domain.Itinerary{edited}, storedCollection(t, store))
}

func TestItineraryService_Update_NotFound(t *testing.T) {
	svc := newService(repo.NewMemoryBlobStore())

	ghost := domain.NewItinerary("ghost", "Ghost", epoch)
	_, err := svc.Update(context.Background(), ghost)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItineraryService_Update_RejectsInvalid(t *testing.T) {
	cases := map[string]struct {
		mutate  func(it *domain.Itinerary)
		wantErr error
	}{
		"blank name": {
			mutate:  func(it *domain.Itinerary) { it.Name = "   " },
			wantErr: domain.ErrValidation,
		},
		"days out of order": {
			mutate:  func(it *domain.Itinerary) { it.Days[0], it.Days[1] = it.Days[1], it.Days[0] },
			wantErr: domain.ErrValidation,
		},
		"two days on one date": {
			mutate:  func(it *domain.Itinerary) { it.Days[1].Date = it.Days[0].Date.Add(6 * time.Hour) },
			wantErr: domain.ErrDuplicateDate,
		},
		"day without id": {
			mutate:  func(it *domain.Itinerary) { it.Days[1].ID = "" },
			wantErr: domain.ErrValidation,
		},
		"blank activity description": {
			mutate:  func(it *domain.Itinerary) { it.Days[0].Activities[0].Description = "" },
			wantErr: domain.ErrValidation,
		},
		"updated_at moves backwards": {
			mutate:  func(it *domain.Itinerary) { it.UpdatedAt = it.UpdatedAt.Add(-time.Hour) },
			wantErr: domain.ErrValidation,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			store := repo.NewMemoryBlobStore()
			svc := newService(store)
			ctx := context.Background()
			it, err := svc.Create(ctx, "Lisbon")
			require.NoError(t, err)
			_, err = svc.AddDay(ctx, it.ID, date(2025, 8, 1))
			require.NoError(t, err)
			it, err = svc.AddDay(ctx, it.ID, date(2025, 8, 2))
			require.NoError(t, err)
			it, err = svc.AddActivity(ctx, it.ID, it.Days[0].ID, domain.ActivityInput{Time: "10:00", Description: "Tram 28"})
			require.NoError(t, err)
			before := storedCollection(t, store)

			bad := it.Clone()
			tc.mutate(&bad)
			_, err = svc.Update(ctx, bad)

			require.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, before, storedCollection(t, store), "nothing written")
			got, err := svc.GetByID(ctx, it.ID)
			require.NoError(t, err)
			assert.Equal(t, it, got, "memory unchanged")

			reloaded, err := service.NewItineraryService(store).Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, before, reloaded)
		})
	}
}

func TestItineraryService_NonUTCClock_RoundTripsExactly(t *testing.T) {
	store := repo.NewMemoryBlobStore()
	tokyo := time.FixedZone("JST", 9*60*60)
	svc := service.NewItineraryService(store,
		service.WithClock(fakeClock(time.Date(2025, 3, 1, 9, 30, 0, 123456789, tokyo))),
		service.WithIDGenerator(seqIDs("id")),
	)
	ctx := context.Background()
	it, err := svc.Create(ctx, "Hokkaido")
	require.NoError(t, err)
	_, err = svc.AddDay(ctx, it.ID, date(2025, 3, 10))
	require.NoError(t, err)
	want, err := svc.List(ctx)
	require.NoError(t, err)

	got, err := service.NewItineraryService(store).Load(ctx)

	require.NoError(t, err)
	require.Equal(t, want, got)
	assert.Equal(t, time.UTC, got[0].CreatedAt.Location())
	assert.Equal(t, time.UTC, got[0].UpdatedAt.Location())
}

// ---- editor composition ----------------------------------------------------

func TestItineraryService_AddDay_DuplicateDate(t *testing.T) {
	store := repo.NewMemoryBlobStore()
	svc := newService(store)
	ctx := context.Background()
	it, err := svc.Create(ctx, "Trip")
	require.NoError(t, err)
	it, err = svc.AddDay(ctx, it.ID, date(2025, 6, 1))
	require.NoError(t, err)

	_, err = svc.AddDay(ctx, it.ID, date(2025, 6, 1))

	assert.ErrorIs(t, err, domain.ErrDuplicateDate)
	assert.Equal(t, []domain.Itinerary{it}, storedCollection(t, store))
}

func TestItineraryService_AddActivity_BlankDescription(t *testing.T) {
	svc := newService(repo.NewMemoryBlobStore())
	ctx := context.Background()
	it, _ := svc.Create(ctx, "Trip")
	it, _ = svc.AddDay(ctx, it.ID, date(2025, 6, 1))

	_, err := svc.AddActivity(ctx, it.ID, it.Days[0].ID, domain.ActivityInput{Description: ""})
	assert.ErrorIs(t, err, domain.ErrValidation)

	got, err := svc.GetByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Days[0].Activities)
}

func TestItineraryService_EditUnknownItinerary(t *testing.T) {
	svc := newService(repo.NewMemoryBlobStore())
	ctx := context.Background()

	_, err := svc.AddDay(ctx, "nope", date(2025, 6, 1))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.RemoveDay(ctx, "nope", "d")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Rename(ctx, "nope", "x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItineraryService_RemoveDayAndActivity(t *testing.T) {
	store := repo.NewMemoryBlobStore()
	svc := newService(store)
	ctx := context.Background()
	it, _ := svc.Create(ctx, "Trip")
	it, _ = svc.AddDay(ctx, it.ID, date(2025, 6, 1))
	it, _ = svc.AddDay(ctx, it.ID, date(2025, 6, 2))
	it, _ = svc.AddActivity(ctx, it.ID, it.Days[1].ID, domain.ActivityInput{Description: "Beach"})

	it, err := svc.RemoveActivity(ctx, it.ID, it.Days[1].ID, it.Days[1].Activities[0].ID)
	require.NoError(t, err)
	assert.Empty(t, it.Days[1].Activities)

	it, err = svc.RemoveDay(ctx, it.ID, it.Days[0].ID)
	require.NoError(t, err)
	require.Len(t, it.Days, 1)
	assert.Equal(t, date(2025, 6, 2), it.Days[0].Date)

	assert.Equal(t, []domain.Itinerary{it}, storedCollection(t, store))
}

func TestItineraryService_Rename(t *testing.T) {
	svc := newService(repo.NewMemoryBlobStore())
	ctx := context.Background()
	it, _ := svc.Create(ctx, "Old")

	got, err := svc.Rename(ctx, it.ID, "New")

	require.NoError(t, err)
	assert.Equal(t, "New", got.Name)
	assert.True(t, got.UpdatedAt.After(it.UpdatedAt))
}

func TestItineraryService_ReturnedValuesDoNotAliasState(t *testing.T) {
	svc := newService(repo.NewMemoryBlobStore())
	ctx := context.Background()
	it, _ := svc.Create(ctx, "Trip")
	it, _ = svc.AddDay(ctx, it.ID, date(2025, 6, 1))

	it.Days[0].Date = date(1999, 1, 1)

	got, err := svc.GetByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, date(2025, 6, 1), got.Days[0].Date)
}

// ---- SQLite-backed integration ---------------------------------------------

func TestItineraryService_WithSQLiteStore(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	store := repo.NewSQLiteBlobStore(db)
	ctx := context.Background()

	svc := newService(store)
	it, err := svc.Create(ctx, "Patagonia")
	require.NoError(t, err)
	_, err = svc.AddDay(ctx, it.ID, date(2025, 12, 1))
	require.NoError(t, err)
	want, err := svc.List(ctx)
	require.NoError(t, err)

	got, err := service.NewItineraryService(store).Load(ctx)

	require.NoError(t, err)
	assert.Equal(t, want, got)
}
