// Package client implements the client-side availability core: a per-owner
// cached slot repository that reconciles with a remote slot store after every
// mutation, and the admin scheduling service built on top of it.
package client

import (
	"context"

	"slotscheduler/internal/domain"
)

// SlotStore is the remote store the repository synchronizes against. The
// repository is agnostic to how slots are persisted; it only relies on this
// contract.
type SlotStore interface {
	// List returns the complete current slot set for owner.
	List(ctx context.Context, owner string) ([]domain.Slot, error)
	// Create persists a new slot and returns it with its assigned ID.
	Create(ctx context.Context, slot domain.Slot) (domain.Slot, error)
	// Update replaces the interval/duration of an existing slot.
	Update(ctx context.Context, slot domain.Slot) (domain.Slot, error)
	// Delete removes the slot. Returns domain.ErrNotFound if the id is gone.
	Delete(ctx context.Context, id string) error
}

// UserDirectory lists the users an admin may schedule for.
type UserDirectory interface {
	Users(ctx context.Context) ([]domain.User, error)
}

// State describes an owner context's position in the load/mutate lifecycle.
type State string

const (
	// StateIdle means no fetch has been attempted for the owner yet.
	StateIdle State = "idle"
	// StateLoading means the initial (or recovery) fetch is in flight.
	StateLoading State = "loading"
	// StateLoaded means the cache holds the result of the last successful fetch.
	StateLoaded State = "loaded"
	// StateLoadFailed means the last fetch failed; recoverable by ListFor.
	StateLoadFailed State = "load_failed"
	// StateMutating means a mutation and its reconciling refetch are in flight.
	StateMutating State = "mutating"
)
