package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"slotscheduler/internal/domain"
)

type availabilityService struct {
	slotRepo domain.SlotRepository
	userRepo domain.UserRepository
	email    domain.EmailService
	logger   *slog.Logger
}

// NewAvailabilityService creates an AvailabilityService with the given
// repositories. email may be nil, in which case session invitations are
// skipped.
func NewAvailabilityService(
	slotRepo domain.SlotRepository,
	userRepo domain.UserRepository,
	email domain.EmailService,
	logger *slog.Logger,
) domain.AvailabilityService {
	return &availabilityService{
		slotRepo: slotRepo,
		userRepo: userRepo,
		email:    email,
		logger:   logger,
	}
}

func (s *availabilityService) ListSlots(ctx context.Context, owner string) ([]*domain.Slot, error) {
	slots, err := s.slotRepo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	if slots == nil {
		slots = []*domain.Slot{}
	}
	return slots, nil
}

func (s *availabilityService) GetSlot(ctx context.Context, id string) (*domain.Slot, error) {
	slot, err := s.slotRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get slot: %w", err)
	}
	return slot, nil
}

func (s *availabilityService) CreateSlot(ctx context.Context, owner string, start, end time.Time) (*domain.Slot, error) {
	interval, err := domain.NewTimeInterval(start, end)
	if err != nil {
		return nil, err
	}
	slot, err := domain.NewSlot(owner, interval)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	slot.ID = uuid.NewString()
	slot.CreatedAt = now
	slot.UpdatedAt = now
	if err := s.slotRepo.Create(ctx, &slot); err != nil {
		return nil, fmt.Errorf("create slot: %w", err)
	}
	return &slot, nil
}

func (s *availabilityService) UpdateSlot(ctx context.Context, id string, start, end time.Time) (*domain.Slot, error) {
	interval, err := domain.NewTimeInterval(start, end)
	if err != nil {
		return nil, err
	}
	existing, err := s.slotRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get slot: %w", err)
	}

	// Duration is stored redundantly and must track the interval at every
	// mutation boundary.
	moved, err := existing.Reschedule(interval)
	if err != nil {
		return nil, err
	}
	if err := s.slotRepo.Update(ctx, &moved); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update slot: %w", err)
	}
	return &moved, nil
}

func (s *availabilityService) DeleteSlot(ctx context.Context, id string) error {
	if err := s.slotRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete slot: %w", err)
	}
	return nil
}

func (s *availabilityService) ScheduleSession(ctx context.Context, owner, title string, start, end time.Time, attendees []string) (*domain.Slot, error) {
	interval, err := domain.NewTimeInterval(start, end)
	if err != nil {
		return nil, err
	}
	slot, err := domain.NewSlot(owner, interval)
	if err != nil {
		return nil, err
	}
	slot.Title = title
	slot.Attendees = attendees

	now := time.Now()
	slot.ID = uuid.NewString()
	slot.CreatedAt = now
	slot.UpdatedAt = now
	if err := s.slotRepo.Create(ctx, &slot); err != nil {
		return nil, fmt.Errorf("create session slot: %w", err)
	}

	s.sendInvitations(ctx, &slot)
	return &slot, nil
}

// sendInvitations emails every attendee. Failures are logged, never
// propagated: a booked session is not unbooked because an email bounced.
func (s *availabilityService) sendInvitations(ctx context.Context, slot *domain.Slot) {
	if s.email == nil || len(slot.Attendees) == 0 {
		return
	}
	for _, attendee := range slot.Attendees {
		name := attendee
		if user, err := s.userRepo.GetByEmail(ctx, attendee); err == nil {
			name = user.Name
		}
		data := &domain.SessionInvitationEmailData{
			Email:     attendee,
			Attendee:  name,
			Title:     slot.Title,
			Owner:     slot.Owner,
			StartText: slot.Interval.Start.Format(time.RFC1123),
			EndText:   slot.Interval.End.Format(time.RFC1123),
			Minutes:   slot.DurationMinutes,
		}
		if err := s.email.SendSessionInvitation(ctx, data); err != nil {
			s.logger.WarnContext(ctx, "session invitation failed",
				"attendee", attendee, "slot_id", slot.ID, "err", err)
		}
	}
}
