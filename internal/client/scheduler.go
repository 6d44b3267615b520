package client

import (
	"context"
	"fmt"
	"sync"

	"slotscheduler/internal/domain"
)

// SchedulingService orchestrates the admin booking flow: pick a target user,
// view/edit/delete their slots, and book a new multi-attendee session. It
// operates on one selected owner at a time and requires an AdminPrincipal.
type SchedulingService struct {
	repo  *Repository
	dir   UserDirectory
	admin AdminPrincipal

	// checkAttendees additionally conflict-checks each attendee's own
	// calendar in ScheduleSession. The historical behavior checks only the
	// slot owner's calendar, so this is off unless opted in.
	checkAttendees bool

	mu      sync.Mutex
	active  string
	editing *domain.Slot
}

// Option configures a SchedulingService.
type Option func(*SchedulingService)

// WithAttendeeConflictCheck enables conflict checking against every session
// attendee's calendar, not just the owner's.
func WithAttendeeConflictCheck(enabled bool) Option {
	return func(s *SchedulingService) { s.checkAttendees = enabled }
}

// NewSchedulingService returns a SchedulingService acting as admin.
func NewSchedulingService(repo *Repository, dir UserDirectory, admin AdminPrincipal, opts ...Option) *SchedulingService {
	s := &SchedulingService{repo: repo, dir: dir, admin: admin}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Users lists the users available for selection.
func (s *SchedulingService) Users(ctx context.Context) ([]domain.User, error) {
	users, err := s.dir.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// SelectUser switches the active owner context, clears any in-flight edit
// state from the previous owner, and fetches the new owner's slot set.
func (s *SchedulingService) SelectUser(ctx context.Context, email string) ([]domain.Slot, error) {
	s.mu.Lock()
	s.active = email
	s.editing = nil
	s.mu.Unlock()
	return s.repo.ListFor(ctx, s.admin, email)
}

// ActiveUser returns the currently selected owner, if any.
func (s *SchedulingService) ActiveUser() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// BeginEdit marks a slot of the active owner as being edited and returns it.
func (s *SchedulingService) BeginEdit(slotID string) (domain.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == "" {
		return domain.Slot{}, domain.ErrNotFound
	}
	slot, ok := findSlot(s.repo.CachedSlots(s.active), slotID)
	if !ok {
		return domain.Slot{}, domain.ErrNotFound
	}
	s.editing = &slot
	return slot, nil
}

// Editing returns the slot currently being edited, if any.
func (s *SchedulingService) Editing() *domain.Slot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editing == nil {
		return nil
	}
	slot := *s.editing
	return &slot
}

// RescheduleSelected moves one of the active owner's slots, surfacing the
// repository's error taxonomy unchanged.
func (s *SchedulingService) RescheduleSelected(ctx context.Context, slotID string, newInterval domain.TimeInterval) (domain.Slot, error) {
	slot, err := s.repo.Reschedule(ctx, s.admin, slotID, newInterval)
	if err != nil {
		return domain.Slot{}, err
	}
	s.mu.Lock()
	if s.editing != nil && s.editing.ID == slotID {
		s.editing = nil
	}
	s.mu.Unlock()
	return slot, nil
}

// DeleteSelected deletes one of the active owner's slots.
func (s *SchedulingService) DeleteSelected(ctx context.Context, slotID string) error {
	err := s.repo.Remove(ctx, s.admin, slotID)
	if err != nil && err != domain.ErrNotFound {
		return err
	}
	s.mu.Lock()
	if s.editing != nil && s.editing.ID == slotID {
		s.editing = nil
	}
	s.mu.Unlock()
	return err
}

// ScheduleSession books a session on owner's calendar. The session is
// realized as one slot owned by owner with the title and attendee list
// carried as metadata. Attendees' own calendars are checked only when the
// service was built with WithAttendeeConflictCheck(true).
func (s *SchedulingService) ScheduleSession(ctx context.Context, owner, title string, interval domain.TimeInterval, attendees []string) (domain.Slot, error) {
	slot, err := domain.NewSlot(owner, interval)
	if err != nil {
		return domain.Slot{}, err
	}
	slot.Title = title
	slot.Attendees = attendees

	if s.checkAttendees {
		for _, attendee := range attendees {
			if attendee == owner {
				continue
			}
			theirs, err := s.repo.ListFor(ctx, s.admin, attendee)
			if err != nil {
				return domain.Slot{}, fmt.Errorf("check attendee %s: %w", attendee, err)
			}
			if c := domain.FindConflict(interval, theirs, ""); c != nil {
				return domain.Slot{}, &domain.ConflictError{SlotID: c.ID, Owner: attendee, Interval: c.Interval}
			}
		}
	}

	return s.repo.add(ctx, s.admin, slot)
}
