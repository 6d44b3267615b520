package domain

import (
	"context"
	"time"
)

// Slot is a persisted time interval owned by one user. ID is empty until the
// store assigns one on create. Title and Attendees are set only for
// admin-scheduled sessions and ride along as metadata.
type Slot struct {
	ID              string       `json:"id"`
	Owner           string       `json:"owner"`
	Interval        TimeInterval `json:"interval"`
	DurationMinutes int          `json:"duration"`
	Title           string       `json:"title,omitempty"`
	Attendees       []string     `json:"attendees,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// NewSlot returns a Slot for owner covering interval. The duration is derived
// from the interval; the ID is left for the store to assign.
// Returns ErrInvalidInterval if the interval is invalid.
func NewSlot(owner string, interval TimeInterval) (Slot, error) {
	if !interval.Valid() {
		return Slot{}, ErrInvalidInterval
	}
	return Slot{
		Owner:           owner,
		Interval:        interval,
		DurationMinutes: interval.DurationMinutes(),
	}, nil
}

// Reschedule returns a copy of the slot with the new interval and a
// recomputed duration. It does not contact storage.
func (s Slot) Reschedule(newInterval TimeInterval) (Slot, error) {
	if !newInterval.Valid() {
		return Slot{}, ErrInvalidInterval
	}
	moved := s
	moved.Interval = newInterval
	moved.DurationMinutes = newInterval.DurationMinutes()
	return moved, nil
}

// SlotRepository defines the interface for server-side slot storage.
type SlotRepository interface {
	Create(ctx context.Context, slot *Slot) error
	GetByID(ctx context.Context, id string) (*Slot, error)
	ListByOwner(ctx context.Context, owner string) ([]*Slot, error)
	Update(ctx context.Context, slot *Slot) error
	Delete(ctx context.Context, id string) error
}

// AvailabilityService defines the server-side business logic for slot CRUD
// and admin session booking.
type AvailabilityService interface {
	ListSlots(ctx context.Context, owner string) ([]*Slot, error)
	GetSlot(ctx context.Context, id string) (*Slot, error)
	CreateSlot(ctx context.Context, owner string, start, end time.Time) (*Slot, error)
	UpdateSlot(ctx context.Context, id string, start, end time.Time) (*Slot, error)
	DeleteSlot(ctx context.Context, id string) error
	// ScheduleSession books one slot on owner's calendar carrying the session
	// title and attendee list, and sends invitations to the attendees.
	ScheduleSession(ctx context.Context, owner, title string, start, end time.Time, attendees []string) (*Slot, error)
}
