package client

import (
	"context"
	"sync"

	"slotscheduler/internal/domain"
)

// Repository holds, per owner, the complete current set of that owner's slots
// as returned by the most recent fetch. The cache has no independent
// authority: every successful mutation is followed by one awaited full
// refetch, which is the sole consistency-recovery mechanism.
//
// Operations against one owner are meant to run one at a time; a per-owner
// lock makes overlapping calls safe but callers should await each mutation
// before issuing the next, since the conflict precondition depends on cache
// freshness. Different owners are fully independent.
type Repository struct {
	store SlotStore

	mu     sync.Mutex
	owners map[string]*ownerContext
}

type ownerContext struct {
	mu    sync.Mutex
	state State
	slots []domain.Slot
}

// NewRepository returns a Repository backed by the given remote store.
func NewRepository(store SlotStore) *Repository {
	return &Repository{
		store:  store,
		owners: make(map[string]*ownerContext),
	}
}

func (r *Repository) ownerFor(owner string) *ownerContext {
	r.mu.Lock()
	defer r.mu.Unlock()
	oc, ok := r.owners[owner]
	if !ok {
		oc = &ownerContext{state: StateIdle}
		r.owners[owner] = oc
	}
	return oc
}

// refresh replaces the cached set with a fresh fetch. during is the state
// shown while the fetch is in flight (Loading for plain fetches, Mutating
// when reconciling after a mutation). Callers must hold oc.mu.
func (r *Repository) refresh(ctx context.Context, oc *ownerContext, owner string, during State) ([]domain.Slot, error) {
	oc.state = during
	slots, err := r.store.List(ctx, owner)
	if err != nil {
		// Previous cached set stays untouched.
		oc.state = StateLoadFailed
		return nil, err
	}
	oc.slots = slots
	oc.state = StateLoaded
	return copySlots(slots), nil
}

// ListFor fetches and replaces the cached slot set for owner. On failure the
// previous cached set (if any) is untouched and the owner context is left in
// StateLoadFailed, recoverable by calling ListFor again.
func (r *Repository) ListFor(ctx context.Context, p Principal, owner string) ([]domain.Slot, error) {
	if !p.CanActFor(owner) {
		return nil, domain.ErrForbidden
	}
	oc := r.ownerFor(owner)
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return r.refresh(ctx, oc, owner, StateLoading)
}

// Add creates a new slot for owner. Interval validity and the conflict check
// against the cached set run before any remote call; on violation no store
// call is made. On success the created slot (with its assigned ID) is
// returned and the cache is reconciled with a full refetch.
func (r *Repository) Add(ctx context.Context, p Principal, owner string, interval domain.TimeInterval) (domain.Slot, error) {
	slot, err := domain.NewSlot(owner, interval)
	if err != nil {
		return domain.Slot{}, err
	}
	return r.add(ctx, p, slot)
}

func (r *Repository) add(ctx context.Context, p Principal, slot domain.Slot) (domain.Slot, error) {
	if !p.CanActFor(slot.Owner) {
		return domain.Slot{}, domain.ErrForbidden
	}
	oc := r.ownerFor(slot.Owner)
	oc.mu.Lock()
	defer oc.mu.Unlock()

	if c := domain.FindConflict(slot.Interval, oc.slots, ""); c != nil {
		return domain.Slot{}, &domain.ConflictError{SlotID: c.ID, Owner: slot.Owner, Interval: c.Interval}
	}

	prev := oc.state
	oc.state = StateMutating
	created, err := r.store.Create(ctx, slot)
	if err != nil {
		oc.state = prev
		return domain.Slot{}, err
	}
	if _, err := r.refresh(ctx, oc, slot.Owner, StateMutating); err != nil {
		return created, err
	}
	return created, nil
}

// Reschedule moves an existing slot to newInterval. The conflict check runs
// against the owner's cached set with the target slot excluded, so a slot can
// be moved without conflicting with itself.
func (r *Repository) Reschedule(ctx context.Context, p Principal, slotID string, newInterval domain.TimeInterval) (domain.Slot, error) {
	owner, ok := r.ownerOf(slotID)
	if !ok {
		return domain.Slot{}, domain.ErrNotFound
	}
	if !p.CanActFor(owner) {
		return domain.Slot{}, domain.ErrForbidden
	}
	oc := r.ownerFor(owner)
	oc.mu.Lock()
	defer oc.mu.Unlock()

	target, ok := findSlot(oc.slots, slotID)
	if !ok {
		return domain.Slot{}, domain.ErrNotFound
	}
	moved, err := target.Reschedule(newInterval)
	if err != nil {
		return domain.Slot{}, err
	}
	if c := domain.FindConflict(newInterval, oc.slots, slotID); c != nil {
		return domain.Slot{}, &domain.ConflictError{SlotID: c.ID, Owner: owner, Interval: c.Interval}
	}

	prev := oc.state
	oc.state = StateMutating
	updated, err := r.store.Update(ctx, moved)
	if err != nil {
		oc.state = prev
		return domain.Slot{}, err
	}
	if _, err := r.refresh(ctx, oc, owner, StateMutating); err != nil {
		return updated, err
	}
	return updated, nil
}

// Remove deletes a slot. Deleting an id that is already gone reports
// domain.ErrNotFound, which callers should treat as "slot no longer exists"
// rather than a fatal condition; the cache is still reconciled afterward.
func (r *Repository) Remove(ctx context.Context, p Principal, slotID string) error {
	owner, ok := r.ownerOf(slotID)
	if !ok {
		return domain.ErrNotFound
	}
	if !p.CanActFor(owner) {
		return domain.ErrForbidden
	}
	oc := r.ownerFor(owner)
	oc.mu.Lock()
	defer oc.mu.Unlock()

	if _, ok := findSlot(oc.slots, slotID); !ok {
		return domain.ErrNotFound
	}

	prev := oc.state
	oc.state = StateMutating
	delErr := r.store.Delete(ctx, slotID)
	if delErr != nil && delErr != domain.ErrNotFound {
		oc.state = prev
		return delErr
	}
	// A remote not-found still converges on the desired end state, so the
	// reconciling refetch proceeds either way.
	if _, err := r.refresh(ctx, oc, owner, StateMutating); err != nil {
		return err
	}
	return delErr
}

// CachedSlots returns a copy of the cached slot set for owner without
// touching the remote store.
func (r *Repository) CachedSlots(owner string) []domain.Slot {
	oc := r.ownerFor(owner)
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return copySlots(oc.slots)
}

// StateFor returns the owner context's current lifecycle state.
func (r *Repository) StateFor(owner string) State {
	oc := r.ownerFor(owner)
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.state
}

// ownerOf searches the cached sets for the owner of slotID.
func (r *Repository) ownerOf(slotID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for owner, oc := range r.owners {
		oc.mu.Lock()
		_, ok := findSlot(oc.slots, slotID)
		oc.mu.Unlock()
		if ok {
			return owner, true
		}
	}
	return "", false
}

func findSlot(slots []domain.Slot, id string) (domain.Slot, bool) {
	for _, s := range slots {
		if s.ID == id {
			return s, true
		}
	}
	return domain.Slot{}, false
}

func copySlots(slots []domain.Slot) []domain.Slot {
	out := make([]domain.Slot, len(slots))
	copy(out, slots)
	return out
}
