package client

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slotscheduler/internal/domain"
)

// fakeStore implements SlotStore in memory and counts calls, so tests can
// prove that precondition failures never reach the remote store.
type fakeStore struct {
	mu     sync.Mutex
	slots  map[string]domain.Slot
	nextID int

	listCalls, createCalls, updateCalls, deleteCalls int

	listErr   error
	createErr error
	updateErr error
	deleteErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{slots: make(map[string]domain.Slot)}
}

func (f *fakeStore) seed(owner string, start, end string) domain.Slot {
	iv := mustIntervalRFC(start, end)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	slot := domain.Slot{
		ID:              fmt.Sprintf("slot-%d", f.nextID),
		Owner:           owner,
		Interval:        iv,
		DurationMinutes: iv.DurationMinutes(),
	}
	f.slots[slot.ID] = slot
	return slot
}

func (f *fakeStore) List(ctx context.Context, owner string) ([]domain.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domain.Slot
	for _, s := range f.slots {
		if s.Owner == owner {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Interval.Start.Before(out[j].Interval.Start) })
	return out, nil
}

func (f *fakeStore) Create(ctx context.Context, slot domain.Slot) (domain.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return domain.Slot{}, f.createErr
	}
	f.nextID++
	slot.ID = fmt.Sprintf("slot-%d", f.nextID)
	f.slots[slot.ID] = slot
	return slot, nil
}

func (f *fakeStore) Update(ctx context.Context, slot domain.Slot) (domain.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	if f.updateErr != nil {
		return domain.Slot{}, f.updateErr
	}
	if _, ok := f.slots[slot.ID]; !ok {
		return domain.Slot{}, domain.ErrNotFound
	}
	f.slots[slot.ID] = slot
	return slot, nil
}

func (f *fakeStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.slots[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.slots, id)
	return nil
}

func mustIntervalRFC(start, end string) domain.TimeInterval {
	s, err := time.Parse(time.RFC3339, start)
	if err != nil {
		panic(err)
	}
	e, err := time.Parse(time.RFC3339, end)
	if err != nil {
		panic(err)
	}
	iv, err := domain.NewTimeInterval(s, e)
	if err != nil {
		panic(err)
	}
	return iv
}

func TestRepository_ListFor(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.seed("a@x.com", "2024-01-01T09:00:00Z", "2024-01-01T10:00:00Z")
	repo := NewRepository(store)
	admin := AdminPrincipal{UserEmail: "admin@x.com"}

	require.Equal(t, StateIdle, repo.StateFor("a@x.com"))

	slots, err := repo.ListFor(ctx, admin, "a@x.com")
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, StateLoaded, repo.StateFor("a@x.com"))

	// A failing refetch leaves the previous cached set untouched.
	store.listErr = domain.ErrRemoteUnavailable
	_, err = repo.ListFor(ctx, admin, "a@x.com")
	require.ErrorIs(t, err, domain.ErrRemoteUnavailable)
	assert.Equal(t, StateLoadFailed, repo.StateFor("a@x.com"))
	assert.Len(t, repo.CachedSlots("a@x.com"), 1)

	// LoadFailed is recoverable by retrying ListFor.
	store.listErr = nil
	_, err = repo.ListFor(ctx, admin, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, StateLoaded, repo.StateFor("a@x.com"))
}

func TestRepository_ListFor_Forbidden(t *testing.T) {
	repo := NewRepository(newFakeStore())
	user := UserPrincipal{UserEmail: "b@x.com"}

	_, err := repo.ListFor(context.Background(), user, "a@x.com")
	require.ErrorIs(t, err, domain.ErrForbidden)

	_, err = repo.ListFor(context.Background(), user, "b@x.com")
	require.NoError(t, err)
}

func TestRepository_Add(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	existing := store.seed("a@x.com", "2024-01-01T09:00:00Z", "2024-01-01T10:00:00Z")
	repo := NewRepository(store)
	admin := AdminPrincipal{UserEmail: "admin@x.com"}

	_, err := repo.ListFor(ctx, admin, "a@x.com")
	require.NoError(t, err)
	callsAfterLoad := store.createCalls

	t.Run("invalid interval makes no remote call", func(t *testing.T) {
		at := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
		_, err := repo.Add(ctx, admin, "a@x.com", domain.TimeInterval{Start: at, End: at})
		require.ErrorIs(t, err, domain.ErrInvalidInterval)
		assert.Equal(t, callsAfterLoad, store.createCalls)
	})

	t.Run("conflicting interval makes no remote call", func(t *testing.T) {
		_, err := repo.Add(ctx, admin, "a@x.com", mustIntervalRFC("2024-01-01T09:30:00Z", "2024-01-01T10:30:00Z"))
		var conflict *domain.ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, existing.ID, conflict.SlotID)
		assert.Equal(t, callsAfterLoad, store.createCalls)
	})

	t.Run("adjacent interval succeeds and reconciles", func(t *testing.T) {
		created, err := repo.Add(ctx, admin, "a@x.com", mustIntervalRFC("2024-01-01T10:00:00Z", "2024-01-01T11:00:00Z"))
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, 60, created.DurationMinutes)
		assert.Equal(t, StateLoaded, repo.StateFor("a@x.com"))

		fresh, err := store.List(ctx, "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, fresh, repo.CachedSlots("a@x.com"))
	})
}

func TestRepository_Add_CreateFailurePreservesCache(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.seed("a@x.com", "2024-01-01T09:00:00Z", "2024-01-01T10:00:00Z")
	repo := NewRepository(store)
	admin := AdminPrincipal{UserEmail: "admin@x.com"}

	_, err := repo.ListFor(ctx, admin, "a@x.com")
	require.NoError(t, err)

	store.createErr = domain.ErrRemoteUnavailable
	_, err = repo.Add(ctx, admin, "a@x.com", mustIntervalRFC("2024-01-01T12:00:00Z", "2024-01-01T13:00:00Z"))
	require.ErrorIs(t, err, domain.ErrRemoteUnavailable)
	assert.Equal(t, StateLoaded, repo.StateFor("a@x.com"))
	assert.Len(t, repo.CachedSlots("a@x.com"), 1)
}

func TestRepository_Reschedule(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	first := store.seed("a@x.com", "2024-01-01T09:00:00Z", "2024-01-01T10:00:00Z")
	second := store.seed("a@x.com", "2024-01-01T14:00:00Z", "2024-01-01T15:00:00Z")
	repo := NewRepository(store)
	admin := AdminPrincipal{UserEmail: "admin@x.com"}

	_, err := repo.ListFor(ctx, admin, "a@x.com")
	require.NoError(t, err)

	t.Run("rescheduling onto own interval never conflicts", func(t *testing.T) {
		moved, err := repo.Reschedule(ctx, admin, first.ID, first.Interval)
		require.NoError(t, err)
		assert.Equal(t, first.ID, moved.ID)
	})

	t.Run("conflict against another slot is rejected locally", func(t *testing.T) {
		updatesBefore := store.updateCalls
		_, err := repo.Reschedule(ctx, admin, first.ID, mustIntervalRFC("2024-01-01T14:30:00Z", "2024-01-01T15:30:00Z"))
		var conflict *domain.ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, second.ID, conflict.SlotID)
		assert.Equal(t, updatesBefore, store.updateCalls)
	})

	t.Run("successful move reconciles the cache", func(t *testing.T) {
		moved, err := repo.Reschedule(ctx, admin, first.ID, mustIntervalRFC("2024-01-01T11:00:00Z", "2024-01-01T12:30:00Z"))
		require.NoError(t, err)
		assert.Equal(t, 90, moved.DurationMinutes)

		fresh, err := store.List(ctx, "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, fresh, repo.CachedSlots("a@x.com"))
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := repo.Reschedule(ctx, admin, "slot-999", first.Interval)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestRepository_Remove(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	victim := store.seed("a@x.com", "2024-01-01T09:00:00Z", "2024-01-01T10:00:00Z")
	keeper := store.seed("a@x.com", "2024-01-01T14:00:00Z", "2024-01-01T15:00:00Z")
	repo := NewRepository(store)
	admin := AdminPrincipal{UserEmail: "admin@x.com"}

	_, err := repo.ListFor(ctx, admin, "a@x.com")
	require.NoError(t, err)

	t.Run("deleting an unknown id is not found and leaves the cache alone", func(t *testing.T) {
		deletesBefore := store.deleteCalls
		err := repo.Remove(ctx, admin, "slot-999")
		require.ErrorIs(t, err, domain.ErrNotFound)
		assert.Equal(t, deletesBefore, store.deleteCalls)
		assert.Len(t, repo.CachedSlots("a@x.com"), 2)
	})

	t.Run("successful delete reconciles the cache", func(t *testing.T) {
		require.NoError(t, repo.Remove(ctx, admin, victim.ID))
		cached := repo.CachedSlots("a@x.com")
		require.Len(t, cached, 1)
		assert.Equal(t, keeper.ID, cached[0].ID)
	})

	t.Run("delete of a slot that vanished remotely converges", func(t *testing.T) {
		// Simulate the slot disappearing behind the cache's back.
		store.mu.Lock()
		delete(store.slots, keeper.ID)
		store.mu.Unlock()

		err := repo.Remove(ctx, admin, keeper.ID)
		require.ErrorIs(t, err, domain.ErrNotFound)
		// The reconciling refetch still ran, so the cache reflects reality.
		assert.Empty(t, repo.CachedSlots("a@x.com"))
		assert.Equal(t, StateLoaded, repo.StateFor("a@x.com"))
	})
}

func TestRepository_OwnersAreIndependent(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.seed("a@x.com", "2024-01-01T09:00:00Z", "2024-01-01T10:00:00Z")
	store.seed("b@x.com", "2024-01-01T09:00:00Z", "2024-01-01T10:00:00Z")
	repo := NewRepository(store)
	admin := AdminPrincipal{UserEmail: "admin@x.com"}

	_, err := repo.ListFor(ctx, admin, "a@x.com")
	require.NoError(t, err)

	// The identical interval on b's calendar does not conflict with a's.
	_, err = repo.ListFor(ctx, admin, "b@x.com")
	require.NoError(t, err)
	_, err = repo.Add(ctx, admin, "b@x.com", mustIntervalRFC("2024-01-01T10:00:00Z", "2024-01-01T11:00:00Z"))
	require.NoError(t, err)

	assert.Len(t, repo.CachedSlots("a@x.com"), 1)
	assert.Len(t, repo.CachedSlots("b@x.com"), 2)
}

// The end-to-end scenario: two existing slots, one conflicting add, one
// adjacent add.
func TestRepository_EndToEnd(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	morning := store.seed("a@x.com", "2024-01-01T09:00:00Z", "2024-01-01T10:00:00Z")
	store.seed("a@x.com", "2024-01-01T14:00:00Z", "2024-01-01T15:00:00Z")
	repo := NewRepository(store)
	owner := UserPrincipal{UserEmail: "a@x.com"}

	_, err := repo.ListFor(ctx, owner, "a@x.com")
	require.NoError(t, err)

	_, err = repo.Add(ctx, owner, "a@x.com", mustIntervalRFC("2024-01-01T09:30:00Z", "2024-01-01T10:30:00Z"))
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, morning.ID, conflict.SlotID)

	created, err := repo.Add(ctx, owner, "a@x.com", mustIntervalRFC("2024-01-01T10:00:00Z", "2024-01-01T11:00:00Z"))
	require.NoError(t, err)
	assert.Equal(t, 60, created.DurationMinutes)
	assert.Len(t, repo.CachedSlots("a@x.com"), 3)
}
